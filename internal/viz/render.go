package viz

import (
	"math"

	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
)

// Renderer maps the unit plane onto a square region of a canvas, with y
// growing downwards as on screen.
type Renderer struct {
	canvas  *Canvas
	palette Palette
	scale   float64

	// Velocities draws each ball's heading as a line to where it would be
	// after VelocityHorizon seconds.
	Velocities bool
}

const VelocityHorizon = 0.25

func NewRenderer(w, h int, p Palette) *Renderer {
	return &Renderer{
		canvas:  NewCanvas(w, h),
		palette: p,
		scale:   math.Min(float64(w*2), float64(h*4)),
	}
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Project converts world coordinates to sub-pixels.
func (r *Renderer) Project(x, y float64) (float64, float64) {
	return x * r.scale, y * r.scale
}

// Draw clears the canvas and draws attractor reach outlines, horizons,
// optional velocity lines and balls, in that order so balls stay on top.
func (r *Renderer) Draw(f sim.Frame, attractors []physics.Attractor) {
	r.canvas.Clear()

	reach := r.palette.Reach.Hex()
	horizon := r.palette.Horizon.Hex()
	for _, a := range attractors {
		cx, cy := r.Project(a.Position.X, a.Position.Y)
		r.canvas.StrokeCircle(cx, cy, a.Reach*r.scale, reach)
		r.canvas.FillCircle(cx, cy, a.Radius*r.scale, horizon)
	}

	if r.Velocities {
		for _, b := range f.Balls {
			if b.Velocity.IsZero() {
				continue
			}
			end := b.Position.Add(b.Velocity.Scale(VelocityHorizon))
			x0, y0 := r.Project(b.Position.X, b.Position.Y)
			x1, y1 := r.Project(end.X, end.Y)
			r.canvas.DrawLine(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), r.palette.Hex(b.Kind))
		}
	}

	for _, b := range f.Balls {
		cx, cy := r.Project(b.Position.X, b.Position.Y)
		r.canvas.FillCircle(cx, cy, b.Radius*r.scale, r.palette.Hex(b.Kind))
	}
}

func (r *Renderer) String() string { return r.canvas.Render() }
