package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/input"
)

// Labeler is implemented by sources that name the segment they are playing.
type Labeler interface {
	Label() string
}

type Runner struct {
	session   *Session
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger
}

func NewRunner(s *Session, log zerolog.Logger) *Runner {
	return &Runner{
		session:   s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Session() *Session      { return r.session }

// Run steps the session until cfg.Duration elapses or src runs dry. A
// cancelled context returns the frames recorded so far along with the error.
func (r *Runner) Run(ctx context.Context, src input.Source, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	labeler, _ := src.(Labeler)

	r.log.Debug().Int("steps", steps).Float64("dt", cfg.Dt).Msg("run started")

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, &SessionError{Step: i, Time: r.session.Time(), Wrapped: ctx.Err()}
		default:
		}

		x, y, ok := src.Next()
		if !ok {
			break
		}
		if !finite(x) || !finite(y) {
			r.finish(result)
			return result, &SessionError{
				Step:    i,
				Time:    r.session.Time(),
				Wrapped: fmt.Errorf("%w: (%v, %v)", ErrInvalidInput, x, y),
			}
		}

		f := r.session.Step(x, y, cfg.Dt)
		if labeler != nil {
			f.Label = labeler.Label()
		}

		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnStep(f)
		}

		result.Frames = append(result.Frames, f)
		result.StepsTaken++
	}

	r.finish(result)
	r.log.Debug().
		Int("steps", result.StepsTaken).
		Int("gestures", len(result.Gestures)).
		Msg("run finished")
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.Gestures = r.session.Gestures()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
