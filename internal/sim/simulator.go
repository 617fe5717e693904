package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/holesim/internal/dynamo"
)

type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
}

func New(w *World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) World() *World          { return s.world }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	w := s.world
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:     make([]float64, 0, steps+1),
		Survivors: make([]int, 0, steps+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Times = append(result.Times, w.Time())
	result.Survivors = append(result.Survivors, w.Live())
	if cfg.RecordEvery > 0 {
		result.Frames = append(result.Frames, w.Snapshot())
	}

	watching := len(s.metrics) > 0 || len(s.observers) > 0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if watching {
			f := w.Snapshot()
			for _, m := range s.metrics {
				m.Observe(f)
			}
			for _, obs := range s.observers {
				obs.OnStep(f)
			}
		}

		result.Events = append(result.Events, w.Step(cfg.Dt)...)

		if cfg.ValidateState {
			if b := w.invalidBall(); b != nil {
				err := dynamo.SimError{
					Time:    w.Time(),
					Step:    w.StepCount(),
					Message: fmt.Sprintf("ball %d: %v", b.ID, dynamo.ErrInvalidState),
				}
				result.Errors = append(result.Errors, err)
				break
			}
		}

		result.StepsTaken++
		result.Times = append(result.Times, w.Time())
		result.Survivors = append(result.Survivors, w.Live())
		if cfg.RecordEvery > 0 && w.StepCount()%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, w.Snapshot())
		}

		if cfg.StopWhenEmpty && w.Live() == 0 {
			break
		}
	}

	// metrics also see the state the run ended in
	if len(s.metrics) > 0 {
		last := w.Snapshot()
		for _, m := range s.metrics {
			m.Observe(last)
			result.Metrics[m.Name()] = m.Value()
		}
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

// RunWithCallback steps until the duration elapses or callback returns
// false. The callback sees the frame before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	w := s.world
	steps := int(math.Round(cfg.Duration / cfg.Dt))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(w.Snapshot()) {
			return nil
		}

		w.Step(cfg.Dt)

		if cfg.ValidateState {
			if b := w.invalidBall(); b != nil {
				return fmt.Errorf("ball %d at t=%.4f: %w", b.ID, w.Time(), dynamo.ErrInvalidState)
			}
		}
		if cfg.StopWhenEmpty && w.Live() == 0 {
			return nil
		}
	}

	return nil
}
