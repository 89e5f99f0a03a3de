// Package optim searches recognizer and selection parameters for values that
// make a scripted scenario behave as expected.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/metrics"
	"github.com/san-kum/headsim/internal/sim"
)

var (
	ErrUnknownParam = errors.New("optim: unknown parameter")
	ErrEmptyGrid    = errors.New("optim: empty grid")
)

// Params maps tunable parameter names to config setters.
var Params = map[string]func(*config.Config, float64){
	"motion_delta_threshold":     func(c *config.Config, v float64) { c.Recognizer.MotionDeltaThreshold = v },
	"gesture_duration_threshold": func(c *config.Config, v float64) { c.Recognizer.GestureDurationThreshold = v },
	"selection_time":             func(c *config.Config, v float64) { c.Selection.SelectionTime = v },
	"follow_factor":              func(c *config.Config, v float64) { c.Selection.FollowFactor = v },
	"sensitivity": func(c *config.Config, v float64) {
		c.Camera.Yaw.Sensitivity = v
		c.Camera.Pitch.Sensitivity = v
	},
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expected holds the gestures each built-in scenario is scripted to produce.
var Expected = map[string]map[gesture.Gesture]int{
	"idle":             {},
	"sweep":            {},
	"shake":            {gesture.Shake: 1},
	"nod":              {gesture.Nod: 1},
	"select-and-shake": {gesture.Shake: 1},
	"select-and-nod":   {gesture.Nod: 2},
}

// Objective scores a run. Lower is better.
type Objective func(*sim.Result) float64

// GestureError counts missed and spurious gestures against want.
func GestureError(want map[gesture.Gesture]int) Objective {
	return func(r *sim.Result) float64 {
		got := make(map[gesture.Gesture]int)
		for _, ev := range r.Gestures {
			got[ev.Gesture]++
		}
		score := 0.0
		for _, g := range []gesture.Gesture{gesture.Shake, gesture.Nod} {
			score += math.Abs(float64(got[g] - want[g]))
		}
		return score
	}
}

// Metric scores a run by one of its metric values.
func Metric(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type Candidate struct {
	Params map[string]float64
	Score  float64
}

type GridSearch struct {
	base       *config.Config
	paramNames []string
	ranges     [][]float64
	log        zerolog.Logger
}

func NewGridSearch(base *config.Config, params []string, ranges [][]float64, log zerolog.Logger) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, ErrEmptyGrid
	}
	for i, name := range params {
		if _, ok := Params[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, name)
		}
	}
	if base == nil {
		base = config.DefaultConfig()
	}
	return &GridSearch{base: base, paramNames: params, ranges: ranges, log: log}, nil
}

// Search runs the trace once per grid point, concurrently, and returns the
// lowest scoring point along with every scored candidate in grid order.
// Grid points that fail validation are skipped. Ties keep the earlier point.
func (g *GridSearch) Search(ctx context.Context, trace *input.Trace, objective Objective) (Candidate, []Candidate, error) {
	var points []map[string]float64
	g.enumerate(0, make(map[string]float64), &points)

	var (
		jobs       []sim.Job
		candidates []Candidate
	)
	for _, p := range points {
		cfg := g.configFor(p)
		if err := cfg.Validate(); err != nil {
			g.log.Debug().Err(err).Interface("params", p).Msg("skipping grid point")
			continue
		}
		jobs = append(jobs, sim.Job{
			Name:    fmt.Sprint(p),
			Config:  cfg,
			Trace:   trace,
			Metrics: metrics.Default,
		})
		candidates = append(candidates, Candidate{Params: p})
	}
	if len(jobs) == 0 {
		return Candidate{}, nil, ErrEmptyGrid
	}

	results, err := sim.NewBatch(g.log, jobs...).Run(ctx)
	if err != nil {
		return Candidate{}, nil, err
	}

	best := -1
	for i, res := range results {
		candidates[i].Score = objective(res)
		if best < 0 || candidates[i].Score < candidates[best].Score {
			best = i
		}
	}

	g.log.Info().
		Int("points", len(candidates)).
		Interface("best", candidates[best].Params).
		Float64("score", candidates[best].Score).
		Msg("grid search done")

	return candidates[best], candidates, nil
}

func (g *GridSearch) configFor(params map[string]float64) *config.Config {
	cfg := *g.base
	cfg.Scene.Objects = append([]config.ObjectConfig(nil), g.base.Scene.Objects...)
	for name, v := range params {
		Params[name](&cfg, v)
	}
	return &cfg
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.enumerate(depth+1, newParams, out)
	}
}
