package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
)

type countingMetric struct {
	count int
	balls int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(f sim.Frame) {
	c.count++
	c.balls += len(f.Balls)
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count, c.balls = 0, 0 }

type recordingObserver struct {
	steps []int
}

func (r *recordingObserver) OnStep(f sim.Frame) { r.steps = append(r.steps, f.Step) }

var _ = Describe("Simulator", func() {
	var (
		ctx  context.Context
		hole physics.Attractor
		cfg  sim.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		hole = physics.NewAttractor(centre, 1.0, 0.05, 0.3)
		cfg = sim.Config{Dt: 0.1, Duration: 1.0, ValidateState: true}
	})

	DescribeTable("rejects invalid configs",
		func(c sim.Config) {
			s := sim.New(newWorld(sim.DefaultPhysics(), hole))
			_, err := s.Run(ctx, c)
			Expect(err).To(HaveOccurred())
			Expect(s.RunWithCallback(ctx, c, func(sim.Frame) bool { return true })).To(HaveOccurred())
		},
		Entry("zero dt", sim.Config{Dt: 0, Duration: 1.0}),
		Entry("negative dt", sim.Config{Dt: -0.1, Duration: 1.0}),
		Entry("zero duration", sim.Config{Dt: 0.1, Duration: 0}),
		Entry("negative duration", sim.Config{Dt: 0.1, Duration: -1.0}),
		Entry("negative record interval", sim.Config{Dt: 0.1, Duration: 1.0, RecordEvery: -1}),
	)

	It("records one time and survivor count per step", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))

		result, err := sim.New(w).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Times).To(HaveLen(11))
		Expect(result.Survivors).To(HaveLen(11))
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Times[10]).To(BeNumerically("~", 1.0, 1e-9))
		Expect(result.Events).To(BeEmpty())
		Expect(result.Errors).To(BeEmpty())
	})

	It("stops once every ball is gone", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.51, Y: 0.5}, physics.Red))
		cfg.StopWhenEmpty = true

		result, err := sim.New(w).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(1))
		Expect(result.Events).To(HaveLen(1))
		Expect(result.Survivors).To(Equal([]int{1, 0}))
	})

	It("keeps stepping an empty world when asked to", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.51, Y: 0.5}, physics.Red))

		result, err := sim.New(w).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(10))
	})

	It("records frames at the requested interval", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))
		cfg.RecordEvery = 5

		result, err := sim.New(w).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Frames).To(HaveLen(3))
		Expect(result.Frames[1].Step).To(Equal(5))
		Expect(result.Frames[2].Balls).To(HaveLen(1))
	})

	It("feeds observers before every step and metrics the final state too", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))
		s := sim.New(w)
		metric := &countingMetric{}
		obs := &recordingObserver{}
		s.AddMetric(metric)
		s.AddObserver(obs)

		result, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("count", 11.0))
		Expect(metric.balls).To(Equal(11))
		Expect(obs.steps).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	})

	It("returns the context error when canceled", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := sim.New(w).Run(canceled, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("stops on a non-finite ball", func() {
		w := newWorld(sim.DefaultPhysics(), hole)
		b := physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue)
		b.SetVelocity(dynamo.Vec2{X: math.NaN()})
		w.AddBody(b)

		result, err := sim.New(w).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(HaveLen(1))
		var simErr dynamo.SimError
		Expect(errors.As(result.Errors[0], &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(1))
		Expect(result.StepsTaken).To(BeZero())
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback declines", func() {
			w := newWorld(sim.DefaultPhysics(), hole)
			w.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))

			calls := 0
			err := sim.New(w).RunWithCallback(ctx, cfg, func(f sim.Frame) bool {
				calls++
				return calls < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(3))
			Expect(w.StepCount()).To(Equal(2))
		})

		It("takes as many steps as Run for the same duration", func() {
			a := newWorld(sim.DefaultPhysics(), hole)
			a.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))
			b := newWorld(sim.DefaultPhysics(), hole)
			b.AddBody(physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue))

			result, err := sim.New(a).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			calls := 0
			Expect(sim.New(b).RunWithCallback(ctx, cfg, func(sim.Frame) bool {
				calls++
				return true
			})).To(Succeed())

			Expect(b.StepCount()).To(Equal(result.StepsTaken))
			Expect(calls).To(Equal(10))
			Expect(b.Time()).To(BeNumerically("~", a.Time(), 1e-12))
		})

		It("reports non-finite state as an error", func() {
			w := newWorld(sim.DefaultPhysics(), hole)
			b := physics.NewBody(dynamo.Vec2{X: 0.01, Y: 0.01}, physics.Cue)
			b.SetVelocity(dynamo.Vec2{Y: math.Inf(1)})
			w.AddBody(b)

			err := sim.New(w).RunWithCallback(ctx, cfg, func(sim.Frame) bool { return true })
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one world per seed", func() {
		build := func(seed int64) (*sim.World, error) {
			w := newWorld(sim.DefaultPhysics())
			for i := int64(0); i <= seed; i++ {
				w.AddBody(physics.NewBody(dynamo.Vec2{X: float64(i) * 0.1}, physics.Red))
			}
			return w, nil
		}

		results, err := sim.NewEnsemble(build, 4, 0).
			WithMetrics(func() []sim.Metric { return []sim.Metric{&countingMetric{}} }).
			Run(context.Background(), sim.Config{Dt: 0.1, Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for i, r := range results {
			Expect(r.Survivors[0]).To(Equal(i + 1))
			Expect(r.Metrics["count"]).To(Equal(11.0))
		}
	})

	It("propagates build errors", func() {
		boom := errors.New("boom")
		build := func(seed int64) (*sim.World, error) {
			if seed == 2 {
				return nil, boom
			}
			return newWorld(sim.DefaultPhysics()), nil
		}

		_, err := sim.NewEnsemble(build, 3, 0).Run(context.Background(), sim.Config{Dt: 0.1, Duration: 1.0})
		Expect(err).To(MatchError(boom))
	})
})
