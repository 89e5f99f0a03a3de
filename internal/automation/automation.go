// Package automation runs scripted suites of sessions and checks each one
// produced the gestures it was expected to.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/metrics"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
)

// Suite is a list of runs loaded from YAML.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one scenario or trace file. Expect maps gesture names to the
// number of times they must fire; Final optionally pins the last frame's
// target and state.
type Step struct {
	Scenario string         `yaml:"scenario"`
	Trace    string         `yaml:"trace,omitempty"`
	Preset   string         `yaml:"preset,omitempty"`
	Dt       float64        `yaml:"dt,omitempty"`
	Expect   map[string]int `yaml:"expect,omitempty"`
	Final    *FinalState    `yaml:"final,omitempty"`
}

type FinalState struct {
	Target string `yaml:"target"`
	State  string `yaml:"state"`
}

type StepResult struct {
	Name     string
	Result   *sim.Result
	Failures []string
}

func (r StepResult) Passed() bool { return len(r.Failures) == 0 }

// LoadSuite loads a suite from a YAML file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, err
	}
	if len(suite.Steps) == 0 {
		return nil, fmt.Errorf("suite %s has no steps", path)
	}

	return &suite, nil
}

func (s Step) name() string {
	name := s.Scenario
	if s.Trace != "" {
		name = s.Trace
	}
	if s.Preset != "" {
		name += "@" + s.Preset
	}
	return name
}

func (s Step) build(reg *input.Registry) (*config.Config, *input.Trace, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}

	var (
		trace *input.Trace
		err   error
	)
	if s.Trace != "" {
		trace, err = input.LoadTrace(s.Trace)
	} else {
		trace, err = reg.Get(s.Scenario)
	}
	if err != nil {
		return nil, nil, err
	}

	if s.Dt > 0 {
		cfg.Session.Dt = s.Dt
	}
	cfg.Session.Duration = trace.Duration()
	return cfg, trace, cfg.Validate()
}

// RunSuite runs every step concurrently and checks its expectations. A step
// that cannot be built fails the whole suite before anything runs.
func RunSuite(ctx context.Context, suite *Suite, log zerolog.Logger) ([]StepResult, error) {
	reg := input.NewRegistry()
	jobs := make([]sim.Job, 0, len(suite.Steps))

	for i, step := range suite.Steps {
		cfg, trace, err := step.build(reg)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.name(), err)
		}
		for g := range step.Expect {
			if _, err := gesture.ParseGesture(g); err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i+1, step.name(), err)
			}
		}
		jobs = append(jobs, sim.Job{Name: step.name(), Config: cfg, Trace: trace, Metrics: metrics.Default})
	}

	results, err := sim.NewBatch(log, jobs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StepResult, len(results))
	for i, res := range results {
		out[i] = StepResult{
			Name:     jobs[i].Name,
			Result:   res,
			Failures: check(suite.Steps[i], res),
		}
		log.Debug().Str("step", out[i].Name).Bool("passed", out[i].Passed()).Msg("suite step done")
	}
	return out, nil
}

func check(step Step, res *sim.Result) []string {
	var failures []string

	got := countGestures(res.Gestures)
	names := make([]string, 0, len(step.Expect))
	for name := range step.Expect {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g, _ := gesture.ParseGesture(name)
		if want := step.Expect[name]; got[g] != want {
			failures = append(failures, fmt.Sprintf("%s: got %d, want %d", name, got[g], want))
		}
	}

	if step.Final != nil {
		final := res.Final()
		if final.Target != step.Final.Target {
			failures = append(failures, fmt.Sprintf("final target: got %q, want %q", final.Target, step.Final.Target))
		}
		if want, err := selection.ParseState(step.Final.State); err != nil {
			failures = append(failures, err.Error())
		} else if final.State != want {
			failures = append(failures, fmt.Sprintf("final state: got %s, want %s", final.State, want))
		}
	}

	return failures
}

func countGestures(events []sim.GestureEvent) map[gesture.Gesture]int {
	got := make(map[gesture.Gesture]int)
	for _, ev := range events {
		got[ev.Gesture]++
	}
	return got
}

// MonteCarloConfig perturbs every segment of a trace and replays it.
type MonteCarloConfig struct {
	Trace *input.Trace
	Base  *config.Config
	// Jitter is the maximum absolute noise added to each segment's axes.
	Jitter float64
	// Stretch is the maximum relative change to each segment's duration.
	Stretch   float64
	NumTrials int
	Seed      int64
	Expect    map[gesture.Gesture]int
}

type MonteCarloResult struct {
	TrialID  int
	Trace    *input.Trace
	Gestures map[gesture.Gesture]int
	Matched  bool
}

// RunMonteCarlo replays randomly perturbed copies of the trace and reports
// which trials still produced exactly the expected gestures.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log zerolog.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least one trial")
	}
	if err := cfg.Trace.Validate(); err != nil {
		return nil, err
	}

	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	traces := make([]*input.Trace, cfg.NumTrials)
	jobs := make([]sim.Job, cfg.NumTrials)
	for trial := range traces {
		traces[trial] = perturb(cfg.Trace, rng, cfg.Jitter, cfg.Stretch)

		c := *base
		c.Session.Duration = traces[trial].Duration()
		jobs[trial] = sim.Job{Name: fmt.Sprintf("trial-%d", trial), Config: &c, Trace: traces[trial]}
	}

	results, err := sim.NewBatch(log, jobs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for trial, res := range results {
		got := countGestures(res.Gestures)
		out[trial] = MonteCarloResult{
			TrialID:  trial,
			Trace:    traces[trial],
			Gestures: got,
			Matched:  matches(got, cfg.Expect),
		}
	}
	return out, nil
}

func perturb(t *input.Trace, rng *rand.Rand, jitter, stretch float64) *input.Trace {
	out := &input.Trace{Name: t.Name, Segments: make([]input.Segment, len(t.Segments))}
	for i, seg := range t.Segments {
		seg.X += (rng.Float64() - 0.5) * 2 * jitter
		seg.Y += (rng.Float64() - 0.5) * 2 * jitter
		seg.Duration *= 1 + (rng.Float64()-0.5)*2*stretch
		if seg.Duration <= 0 {
			seg.Duration = t.Segments[i].Duration
		}
		out.Segments[i] = seg
	}
	return out
}

func matches(got, want map[gesture.Gesture]int) bool {
	for _, g := range []gesture.Gesture{gesture.Shake, gesture.Nod} {
		if got[g] != want[g] {
			return false
		}
	}
	return true
}

// MonteCarloStats counts trials that matched and missed.
func MonteCarloStats(results []MonteCarloResult) (matched int, missed int) {
	for _, r := range results {
		if r.Matched {
			matched++
		} else {
			missed++
		}
	}
	return
}

// Summary renders one line per step.
func Summary(results []StepResult) string {
	var sb strings.Builder
	for _, r := range results {
		status := "ok  "
		if !r.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%s %s", status, r.Name)
		if !r.Passed() {
			fmt.Fprintf(&sb, " (%s)", strings.Join(r.Failures, "; "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
