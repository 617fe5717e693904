package sim

import (
	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
)

type Integrator interface {
	Name() string
	Step(b *physics.Body, acc dynamo.Vec2, dt float64)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// Physics holds the world-wide constants of the force law.
type Physics struct {
	G         float64
	Softening float64
	// Parallel fans the per-ball integration out over worker goroutines.
	Parallel bool
}

func DefaultPhysics() Physics {
	return Physics{G: 0.01}
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// RecordEvery stores a Frame every n steps in Result.Frames; 0 disables.
	RecordEvery   int
	StopWhenEmpty bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      5.0,
		RecordEvery:   0,
		StopWhenEmpty: true,
		ValidateState: true,
	}
}

// BallState is a read-only copy of a ball for renderers and metrics.
type BallState struct {
	ID       int
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Mass     float64
	Radius   float64
	Kind     physics.Kind
}

type Frame struct {
	Step  int
	Time  float64
	Balls []BallState
}

// Spaghettification records a ball removed by the attractor at index
// Attractor in the world's attractor list.
type Spaghettification struct {
	Step      int
	Time      float64
	Ball      BallState
	Attractor int
}

type Result struct {
	Frames     []Frame
	Times      []float64
	Survivors  []int
	Events     []Spaghettification
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
