package run

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cqlstress/cql-stress/stats"
)

// A doubling must improve throughput by at least this factor to keep going.
const autoImprovementFactor = 1.1

var autoTrialDuration = 15 * time.Second

// AutoThreads searches for a saturating thread count by doubling the worker
// pool and comparing the throughput of short trial runs. The search stops
// once a doubling improves the operation rate by less than 10%, or the upper
// bound is reached. build supplies fresh per-worker operations and seed
// sources for each trial.
func AutoThreads(
	ctx context.Context,
	minThreads, maxThreads uint64,
	build func(threads int) ([]Operation, []SeedSource, error),
) (uint64, error) {
	bestRate := 0.0
	bestThreads := minThreads

	threads := minThreads
	for {
		opsPerSec, err := autoTrial(ctx, int(threads), build)
		if err != nil {
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		log.Infof("Auto: %d threads reached %.0f op/s", threads, opsPerSec)

		if opsPerSec < bestRate*autoImprovementFactor {
			log.Infof("Auto: throughput saturated, running with %d threads", bestThreads)
			return bestThreads, nil
		}
		bestRate, bestThreads = opsPerSec, threads

		if threads >= maxThreads {
			log.Infof("Auto: thread limit reached, running with %d threads", maxThreads)
			return maxThreads, nil
		}
		threads *= 2
		if threads > maxThreads {
			threads = maxThreads
		}
	}
}

func autoTrial(
	ctx context.Context,
	threads int,
	build func(threads int) ([]Operation, []SeedSource, error),
) (float64, error) {
	ops, seeds, err := build(threads)
	if err != nil {
		return 0, err
	}
	recorders := make([]*stats.Recorder, threads)
	for i := range recorders {
		recorders[i] = stats.NewRecorder()
	}

	cfg := Config{Threads: threads, Duration: autoTrialDuration, IgnoreErrors: true}
	start := time.Now()
	if err := Run(ctx, cfg, ops, seeds, recorders); err != nil {
		return 0, err
	}

	var total uint64
	for _, recorder := range recorders {
		total += recorder.Ops()
	}
	return float64(total) / time.Since(start).Seconds(), nil
}
