package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
)

func TestSemiImplicitStep(t *testing.T) {
	b := physics.NewBody(dynamo.Vec2{}, physics.Cue)
	NewSemiImplicit().Step(b, dynamo.Vec2{X: 1, Y: 1}, 1.0)

	if b.Velocity != (dynamo.Vec2{X: 1, Y: 1}) {
		t.Errorf("velocity: got %v", b.Velocity)
	}
	if b.Position != (dynamo.Vec2{X: 1, Y: 1}) {
		t.Errorf("position should use the new velocity, got %v", b.Position)
	}
}

func TestExplicitStep(t *testing.T) {
	b := physics.NewBody(dynamo.Vec2{}, physics.Cue)
	NewExplicit().Step(b, dynamo.Vec2{X: 1, Y: 1}, 1.0)

	if b.Velocity != (dynamo.Vec2{X: 1, Y: 1}) {
		t.Errorf("velocity: got %v", b.Velocity)
	}
	if !b.Position.IsZero() {
		t.Errorf("position should use the old velocity, got %v", b.Position)
	}
}

// Uniform acceleration from rest: x(t) = a t²/2. Both schemes converge as
// dt shrinks and bracket the exact answer from either side.
func TestConstantAccelerationAccuracy(t *testing.T) {
	acc := dynamo.Vec2{X: 2}
	dt := 0.001
	steps := 1000

	semi := physics.NewBody(dynamo.Vec2{}, physics.Cue)
	expl := physics.NewBody(dynamo.Vec2{}, physics.Cue)
	si, ex := NewSemiImplicit(), NewExplicit()
	for i := 0; i < steps; i++ {
		si.Step(semi, acc, dt)
		ex.Step(expl, acc, dt)
	}

	exact := 0.5 * acc.X * math.Pow(float64(steps)*dt, 2)
	if math.Abs(semi.Position.X-exact) > 1e-2 {
		t.Errorf("semi-implicit error too large: got %.6f, expected %.6f", semi.Position.X, exact)
	}
	if math.Abs(expl.Position.X-exact) > 1e-2 {
		t.Errorf("explicit error too large: got %.6f, expected %.6f", expl.Position.X, exact)
	}
	if !(expl.Position.X < exact && exact < semi.Position.X) {
		t.Errorf("expected explicit < exact < semi-implicit, got %.6f %.6f %.6f", expl.Position.X, exact, semi.Position.X)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}

	integ, err := ByName("")
	if err != nil {
		t.Fatalf("default integrator: %v", err)
	}
	if integ.Name() != Default {
		t.Errorf("expected default %s, got %s", Default, integ.Name())
	}

	if _, err := ByName("rk4"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}

func BenchmarkSemiImplicit(b *testing.B) {
	integrator := NewSemiImplicit()
	body := physics.NewBody(dynamo.Vec2{X: 0.5, Y: 0.5}, physics.Cue)
	acc := dynamo.Vec2{X: -0.1, Y: 0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(body, acc, 0.001)
	}
}

func BenchmarkExplicit(b *testing.B) {
	integrator := NewExplicit()
	body := physics.NewBody(dynamo.Vec2{X: 0.5, Y: 0.5}, physics.Cue)
	acc := dynamo.Vec2{X: -0.1, Y: 0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(body, acc, 0.001)
	}
}
