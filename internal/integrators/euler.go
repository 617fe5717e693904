package integrators

import (
	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
)

// SemiImplicit applies the accumulated acceleration first and then moves
// the body with the updated velocity.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Name() string { return "semi_implicit" }

func (s *SemiImplicit) Step(b *physics.Body, acc dynamo.Vec2, dt float64) {
	b.ApplyAcceleration(acc, dt)
	b.Integrate(dt)
}

// Explicit moves the body with its old velocity, then updates the velocity.
type Explicit struct{}

func NewExplicit() *Explicit {
	return &Explicit{}
}

func (e *Explicit) Name() string { return "explicit" }

func (e *Explicit) Step(b *physics.Body, acc dynamo.Vec2, dt float64) {
	b.Integrate(dt)
	b.ApplyAcceleration(acc, dt)
}
