package sim

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/input"
)

// Job is one independent run: its own config, input and metrics.
type Job struct {
	Name    string
	Config  *config.Config
	Trace   *input.Trace
	Metrics func() []Metric
}

// Batch runs jobs concurrently, one session per goroutine.
type Batch struct {
	jobs []Job
	log  zerolog.Logger
}

func NewBatch(log zerolog.Logger, jobs ...Job) *Batch {
	return &Batch{jobs: jobs, log: log}
}

// Run returns results in job order. The first error aborts the batch
// result, though every goroutine runs to completion.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))
	errs := make([]error, len(b.jobs))

	var wg sync.WaitGroup
	for i := range b.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := b.jobs[idx]
			log := b.log.With().Str("job", job.Name).Logger()
			runner := NewRunner(NewSession(job.Config, log), log)
			if job.Metrics != nil {
				for _, m := range job.Metrics() {
					runner.AddMetric(m)
				}
			}

			cfg := Config{Dt: job.Config.Session.Dt, Duration: job.Config.Session.Duration}
			results[idx], errs[idx] = runner.Run(ctx, input.NewPlayer(job.Trace, cfg.Dt), cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
