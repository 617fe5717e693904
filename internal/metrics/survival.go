package metrics

import "github.com/san-kum/holesim/internal/sim"

// Survival is the fraction of the first observed balls still live in the
// latest frame.
type Survival struct {
	name    string
	initial int
	current int
	samples int
}

func NewSurvival() *Survival {
	return &Survival{name: "survival"}
}

func (s *Survival) Name() string { return s.name }

func (s *Survival) Observe(f sim.Frame) {
	if s.samples == 0 {
		s.initial = len(f.Balls)
	}
	s.current = len(f.Balls)
	s.samples++
}

func (s *Survival) Value() float64 {
	if s.initial == 0 {
		return 0
	}
	return float64(s.current) / float64(s.initial)
}

func (s *Survival) Reset() {
	s.initial = 0
	s.current = 0
	s.samples = 0
}

// MeanSpeed averages ball speed over every ball of every observed frame.
type MeanSpeed struct {
	name  string
	count int
	sum   float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f sim.Frame) {
	for _, b := range f.Balls {
		m.sum += b.Velocity.Len()
		m.count++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *MeanSpeed) Reset() {
	m.count = 0
	m.sum = 0
}

// Standard returns fresh instances of every metric in this package.
func Standard() []sim.Metric {
	return []sim.Metric{NewKineticEnergy(), NewSurvival(), NewMeanSpeed()}
}
