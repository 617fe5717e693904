package metrics

import (
	"github.com/san-kum/holesim/internal/sim"
)

// KineticEnergy averages the total kinetic energy of the live balls over
// all observed frames.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	e.last = FrameEnergy(f)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the energy of the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

func FrameEnergy(f sim.Frame) float64 {
	ke := 0.0
	for _, b := range f.Balls {
		ke += 0.5 * b.Mass * b.Velocity.LenSq()
	}
	return ke
}
