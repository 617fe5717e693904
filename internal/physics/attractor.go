package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/holesim/internal/dynamo"
)

// Attractor is a blackhole: fixed position, Radius is the event horizon,
// Reach the distance up to which its gravity is felt.
type Attractor struct {
	Position dynamo.Vec2
	Mass     float64
	Radius   float64
	Reach    float64
}

// NewAttractor stores its arguments verbatim without validation.
func NewAttractor(position dynamo.Vec2, mass, radius, reach float64) Attractor {
	return Attractor{
		Position: position,
		Mass:     mass,
		Radius:   radius,
		Reach:    reach,
	}
}

// IsDestructive reports whether b is spaghettified: its centre is closer
// than Radius + b.Radius. Tangency does not destroy.
func (a Attractor) IsDestructive(b *Body) bool {
	distance := a.Position.Dist(b.Position)
	return distance < a.Radius+b.Radius
}

func (a Attractor) InReach(p dynamo.Vec2) bool {
	return a.Position.Dist(p) <= a.Reach
}

// Acceleration returns the gravitational acceleration at p: g*Mass/(d²+eps²)
// towards the attractor centre. Outside Reach, and exactly at the centre,
// it is the zero vector.
func (a Attractor) Acceleration(p dynamo.Vec2, g, softening float64) dynamo.Vec2 {
	dir := a.Position.Sub(p)
	d2 := dir.LenSq()
	if d2 == 0 || d2 > a.Reach*a.Reach {
		return dynamo.Vec2{}
	}

	mag := g * a.Mass / (d2 + softening*softening)
	return dir.Scale(mag / math.Sqrt(d2))
}

// OrbitalSpeed is the speed of a circular orbit at distance r under the
// same force law without softening.
func (a Attractor) OrbitalSpeed(r, g float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * a.Mass / r)
}

func (a Attractor) Validate() error {
	if a.Mass <= 0 {
		return fmt.Errorf("%w: attractor mass must be positive, got %g", dynamo.ErrParameterBounds, a.Mass)
	}
	if a.Radius <= 0 {
		return fmt.Errorf("%w: attractor radius must be positive, got %g", dynamo.ErrParameterBounds, a.Radius)
	}
	if a.Reach < a.Radius {
		return fmt.Errorf("%w: attractor reach %g is inside its radius %g", dynamo.ErrParameterBounds, a.Reach, a.Radius)
	}
	return nil
}
