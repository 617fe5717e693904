package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/holesim/internal/dynamo"
)

// Kind is the rendering category of a body. It has no physical effect.
type Kind int

const (
	Cue Kind = iota
	Red
	Blue
)

var kindNames = [...]string{"cue", "red", "blue"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the lowercase names; "white" is an alias for cue.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cue", "white":
		return Cue, nil
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownKind, s)
}

func Kinds() []Kind { return []Kind{Cue, Red, Blue} }

const (
	DefaultMass   = 0.1
	DefaultRadius = 0.01
)

// BodyParams are the per-body constants injected at construction.
type BodyParams struct {
	Mass   float64
	Radius float64
}

func DefaultBodyParams() BodyParams {
	return BodyParams{Mass: DefaultMass, Radius: DefaultRadius}
}

func (p BodyParams) Validate() error {
	if p.Mass <= 0 {
		return fmt.Errorf("%w: body mass must be positive, got %g", dynamo.ErrParameterBounds, p.Mass)
	}
	if p.Radius <= 0 {
		return fmt.Errorf("%w: body radius must be positive, got %g", dynamo.ErrParameterBounds, p.Radius)
	}
	return nil
}

// Body is a poolball. Mass is carried for kinetic energy reporting; the
// gravitational acceleration a body feels does not depend on it.
type Body struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Mass     float64
	Radius   float64
	Kind     Kind
}

// NewBody creates a body at rest with the default mass and radius.
func NewBody(position dynamo.Vec2, kind Kind) *Body {
	return NewBodyWithParams(position, kind, DefaultBodyParams())
}

func NewBodyWithParams(position dynamo.Vec2, kind Kind, p BodyParams) *Body {
	return &Body{
		Position: position,
		Mass:     p.Mass,
		Radius:   p.Radius,
		Kind:     kind,
	}
}

// Integrate advances the position by velocity*dt. There is no bounds
// check; a body may leave the visible plane.
func (b *Body) Integrate(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// ApplyAcceleration adds a*dt to the velocity. Call once per attractor
// before a single Integrate for a semi-implicit Euler step.
func (b *Body) ApplyAcceleration(a dynamo.Vec2, dt float64) {
	b.Velocity = b.Velocity.Add(a.Scale(dt))
}

func (b *Body) SetVelocity(v dynamo.Vec2) {
	b.Velocity = v
}

// IsStationary compares the velocity to the zero vector exactly. Drift
// that leaves a residue of 1e-300 counts as moving.
func (b *Body) IsStationary() bool {
	return b.Velocity.IsZero()
}

func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LenSq()
}

// IsValid reports whether position and velocity are finite.
func (b *Body) IsValid() bool {
	return b.Position.IsValid() && b.Velocity.IsValid()
}
