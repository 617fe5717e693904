package sim

import (
	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
)

const parallelChunk = 64

// Ball is a body tracked by a World under a stable ID.
type Ball struct {
	ID int
	*physics.Body
}

func (b *Ball) State() BallState {
	return BallState{
		ID:       b.ID,
		Position: b.Position,
		Velocity: b.Velocity,
		Mass:     b.Mass,
		Radius:   b.Radius,
		Kind:     b.Kind,
	}
}

// World is the tick driver: it owns the live balls and reads the
// attractors. A World is not safe for concurrent use.
type World struct {
	attractors []physics.Attractor
	balls      []*Ball
	integrator Integrator
	phys       Physics
	nextID     int
	step       int
	t          float64
}

func NewWorld(attractors []physics.Attractor, integrator Integrator, phys Physics) *World {
	a := make([]physics.Attractor, len(attractors))
	copy(a, attractors)
	return &World{
		attractors: a,
		balls:      make([]*Ball, 0),
		integrator: integrator,
		phys:       phys,
	}
}

// AddBody puts b into the live set and returns its ID.
func (w *World) AddBody(b *physics.Body) int {
	id := w.nextID
	w.nextID++
	w.balls = append(w.balls, &Ball{ID: id, Body: b})
	return id
}

// Accelerations sums the pull of every attractor that reaches b.
func (w *World) Accelerations(b *physics.Body) dynamo.Vec2 {
	var acc dynamo.Vec2
	for _, a := range w.attractors {
		acc = acc.Add(a.Acceleration(b.Position, w.phys.G, w.phys.Softening))
	}
	return acc
}

// Step advances every live ball by dt, then removes the balls that an
// attractor spaghettified and reports them.
func (w *World) Step(dt float64) []Spaghettification {
	advance := func(start, end int) {
		for _, b := range w.balls[start:end] {
			w.integrator.Step(b.Body, w.Accelerations(b.Body), dt)
		}
	}
	if w.phys.Parallel {
		dynamo.ParallelFor(len(w.balls), parallelChunk, advance)
	} else {
		advance(0, len(w.balls))
	}

	w.step++
	w.t += dt

	var events []Spaghettification
	live := w.balls[:0]
	for _, b := range w.balls {
		if idx := w.destroyedBy(b.Body); idx >= 0 {
			events = append(events, Spaghettification{
				Step:      w.step,
				Time:      w.t,
				Ball:      b.State(),
				Attractor: idx,
			})
			continue
		}
		live = append(live, b)
	}
	for i := len(live); i < len(w.balls); i++ {
		w.balls[i] = nil
	}
	w.balls = live

	return events
}

func (w *World) destroyedBy(b *physics.Body) int {
	for i, a := range w.attractors {
		if a.IsDestructive(b) {
			return i
		}
	}
	return -1
}

func (w *World) invalidBall() *Ball {
	for _, b := range w.balls {
		if !b.IsValid() {
			return b
		}
	}
	return nil
}

func (w *World) Snapshot() Frame {
	f := Frame{
		Step:  w.step,
		Time:  w.t,
		Balls: make([]BallState, len(w.balls)),
	}
	for i, b := range w.balls {
		f.Balls[i] = b.State()
	}
	return f
}

// Balls returns the live balls. The slice is only valid until the next Step.
func (w *World) Balls() []*Ball { return w.balls }

func (w *World) Attractors() []physics.Attractor {
	a := make([]physics.Attractor, len(w.attractors))
	copy(a, w.attractors)
	return a
}

func (w *World) Physics() Physics       { return w.phys }
func (w *World) Integrator() Integrator { return w.integrator }
func (w *World) Live() int              { return len(w.balls) }
func (w *World) Time() float64          { return w.t }
func (w *World) StepCount() int         { return w.step }
