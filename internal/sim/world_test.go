package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/integrators"
	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
)

var centre = dynamo.Vec2{X: 0.5, Y: 0.5}

func newWorld(phys sim.Physics, attractors ...physics.Attractor) *sim.World {
	return sim.NewWorld(attractors, integrators.NewSemiImplicit(), phys)
}

var _ = Describe("World", func() {
	var hole physics.Attractor

	BeforeEach(func() {
		hole = physics.NewAttractor(centre, 1.0, 0.05, 0.3)
	})

	It("assigns increasing ids", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		Expect(w.AddBody(physics.NewBody(dynamo.Vec2{}, physics.Cue))).To(Equal(0))
		Expect(w.AddBody(physics.NewBody(dynamo.Vec2{}, physics.Red))).To(Equal(1))
		Expect(w.Live()).To(Equal(2))
	})

	It("spaghettifies a ball inside the horizon", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		id := w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.52, Y: 0.5}, physics.Red))

		events := w.Step(0.001)

		Expect(events).To(HaveLen(1))
		Expect(events[0].Ball.ID).To(Equal(id))
		Expect(events[0].Attractor).To(Equal(0))
		Expect(events[0].Step).To(Equal(1))
		Expect(w.Live()).To(BeZero())
		Expect(w.Snapshot().Balls).To(BeEmpty())
	})

	It("reports which attractor destroyed the ball", func() {
		far := physics.NewAttractor(dynamo.Vec2{X: 0.1, Y: 0.1}, 1.0, 0.05, 0.2)
		w := newWorld(sim.DefaultPhysics(), far, hole)
		w.AddBody(physics.NewBody(centre, physics.Blue))

		events := w.Step(0.001)
		Expect(events).To(HaveLen(1))
		Expect(events[0].Attractor).To(Equal(1))
	})

	It("leaves balls beyond reach untouched", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.05, Y: 0.05}, physics.Cue))

		for i := 0; i < 100; i++ {
			Expect(w.Step(0.01)).To(BeEmpty())
		}

		b := w.Balls()[0]
		Expect(b.IsStationary()).To(BeTrue())
		Expect(b.Position).To(Equal(dynamo.Vec2{X: 0.05, Y: 0.05}))
	})

	It("pulls balls within reach towards the attractor", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.3, Y: 0.5}, physics.Cue))

		w.Step(0.01)

		b := w.Balls()[0]
		Expect(b.Velocity.X).To(BeNumerically(">", 0))
		Expect(b.Velocity.Y).To(BeNumerically("==", 0))
		Expect(b.Position.X).To(BeNumerically(">", 0.3))
	})

	It("eventually swallows a ball dropped at rest within reach", func() {
		w := newWorld(sim.Physics{G: 0.05}, hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.3, Y: 0.5}, physics.Cue))

		var events []sim.Spaghettification
		for i := 0; i < 10000 && w.Live() > 0; i++ {
			events = append(events, w.Step(0.001)...)
		}
		Expect(events).To(HaveLen(1))
		Expect(w.Time()).To(BeNumerically(">", 0))
	})

	It("accumulates attractors independently of their order", func() {
		left := physics.NewAttractor(dynamo.Vec2{X: 0.2, Y: 0.5}, 1.0, 0.02, 0.5)
		right := physics.NewAttractor(dynamo.Vec2{X: 0.9, Y: 0.4}, 3.0, 0.02, 0.5)
		start := dynamo.Vec2{X: 0.55, Y: 0.45}

		ab := newWorld(sim.DefaultPhysics(), left, right)
		ba := newWorld(sim.DefaultPhysics(), right, left)
		ab.AddBody(physics.NewBody(start, physics.Cue))
		ba.AddBody(physics.NewBody(start, physics.Cue))

		for i := 0; i < 50; i++ {
			ab.Step(0.01)
			ba.Step(0.01)
		}

		Expect(ab.Balls()[0].Velocity).To(Equal(ba.Balls()[0].Velocity))
		Expect(ab.Balls()[0].Position).To(Equal(ba.Balls()[0].Position))
	})

	It("produces identical states when stepping in parallel", func() {
		seq := newWorld(sim.Physics{G: 0.02}, hole)
		par := newWorld(sim.Physics{G: 0.02, Parallel: true}, hole)
		for i := 0; i < 500; i++ {
			p := dynamo.Vec2{X: float64(i%25) / 25, Y: float64(i/25) / 20}
			seq.AddBody(physics.NewBody(p, physics.Red))
			par.AddBody(physics.NewBody(p, physics.Red))
		}

		for i := 0; i < 20; i++ {
			Expect(par.Step(0.01)).To(Equal(seq.Step(0.01)))
		}
		Expect(par.Snapshot()).To(Equal(seq.Snapshot()))
	})

	It("does not let callers mutate its attractors", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		a := w.Attractors()
		a[0].Radius = 10
		Expect(w.Attractors()[0].Radius).To(Equal(0.05))
	})
})
