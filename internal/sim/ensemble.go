package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
)

// Ensemble runs independent galaxies with consecutive seeds in parallel.
// Each run uses a serial force backend since the runs already occupy the
// available cores.
type Ensemble struct {
	params    galaxy.Params
	stars     int
	numRuns   int
	seedStart int64
	metrics   func() []metrics.Metric
}

func NewEnsemble(params galaxy.Params, stars, numRuns int, seedStart int64, newMetrics func() []metrics.Metric) *Ensemble {
	return &Ensemble{
		params:    params,
		stars:     stars,
		numRuns:   numRuns,
		seedStart: seedStart,
		metrics:   newMetrics,
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			in, err := galaxy.NewInitializer(e.params, rand.New(rand.NewSource(cfgCopy.Seed)))
			if err != nil {
				errs[idx] = err
				return
			}
			sys := in.Generate(e.stars)

			r := New(galaxy.NewEngine(e.params, compute.NewSerialBackend()))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, sys, cfgCopy, galaxy.DefaultControl())
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
