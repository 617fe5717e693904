package viz

import (
	"testing"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
)

func TestRendererProject(t *testing.T) {
	r := NewRenderer(40, 10, DefaultPalette())
	// 40 cells = 80 px wide, 10 cells = 40 px tall; the square side is 40
	x, y := r.Project(1, 0.5)
	if x != 40 || y != 20 {
		t.Errorf("Project = (%v, %v), want (40, 20)", x, y)
	}
}

func TestRendererDraw(t *testing.T) {
	p := DefaultPalette()
	r := NewRenderer(20, 10, p)
	att := []physics.Attractor{physics.NewAttractor(dynamo.V(0.5, 0.5), 1, 0.05, 0.3)}
	frame := sim.Frame{Balls: []sim.BallState{
		{ID: 0, Position: dynamo.V(0.1, 0.1), Radius: 0.01, Kind: physics.Red},
	}}

	r.Draw(frame, att)
	c := r.Canvas()

	if !c.IsSet(20, 20) {
		t.Error("horizon centre not drawn")
	}
	if !c.IsSet(32, 20) {
		t.Error("reach outline not drawn")
	}
	if !c.IsSet(4, 4) {
		t.Error("ball not drawn")
	}
	if c.Colors[1][2] != p.Hex(physics.Red) {
		t.Errorf("ball cell colour = %q", c.Colors[1][2])
	}

	r.Draw(sim.Frame{}, nil)
	if c.IsSet(4, 4) {
		t.Error("Draw should clear the previous frame")
	}
}

func TestRendererVelocityLines(t *testing.T) {
	p := DefaultPalette()
	r := NewRenderer(20, 10, p)
	// 40px square; 0.25s at 0.4/s moves 0.1, i.e. 4px to the right
	frame := sim.Frame{Balls: []sim.BallState{
		{ID: 0, Position: dynamo.V(0.5, 0.25), Velocity: dynamo.V(0.4, 0), Radius: 0.001, Kind: physics.Cue},
		{ID: 1, Position: dynamo.V(0.25, 0.75), Radius: 0.001, Kind: physics.Red},
	}}

	r.Draw(frame, nil)
	if r.Canvas().IsSet(23, 10) {
		t.Error("velocity line drawn while disabled")
	}

	r.Velocities = true
	r.Draw(frame, nil)
	c := r.Canvas()
	for x := 20; x <= 23; x++ {
		if !c.IsSet(x, 10) {
			t.Errorf("velocity line missing at x=%d", x)
		}
	}
	if c.IsSet(11, 30) {
		t.Error("resting ball should have no velocity line")
	}
}
