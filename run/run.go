package run

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/cqlstress/cql-stress/stats"
)

// Config bounds and paces one run of the worker pool.
type Config struct {
	Threads int

	// At most one of Throttle/FixedRate is non-zero, in operations per second
	// across all workers. Both pace the workload the same way; FixedRate
	// additionally measures latency from the scheduled start of the
	// operation, so queueing delay caused by a slow server shows up in the
	// numbers instead of being silently omitted.
	Throttle  uint64
	FixedRate uint64

	// Exactly one of Count/Duration bounds the run.
	Count    uint64
	Duration time.Duration

	Retries      uint64
	IgnoreErrors bool
}

func (c *Config) limiter() *rate.Limiter {
	opsPerSec := c.Throttle
	if c.FixedRate != 0 {
		opsPerSec = c.FixedRate
	}
	if opsPerSec == 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(opsPerSec), 1)
}

// Run drives cfg.Threads workers until the operation count or duration is
// exhausted, recording every result into the worker's recorder. The first
// non-ignored operation failure cancels the run and is returned. ops, seeds
// and recorders hold one element per worker.
func Run(
	ctx context.Context,
	cfg Config,
	ops []Operation,
	seeds []SeedSource,
	recorders []*stats.Recorder,
) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Duration > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, cfg.Duration)
		defer timeoutCancel()
	}

	var (
		wg       sync.WaitGroup
		issued   atomic.Uint64
		failOnce sync.Once
		runErr   error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			runErr = err
			cancel()
		})
	}

	limiter := cfg.limiter()
	for i := 0; i < cfg.Threads; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			loop := workerLoop{
				cfg:      cfg,
				op:       ops[worker],
				seeds:    seeds[worker],
				recorder: recorders[worker],
				limiter:  limiter,
				issued:   &issued,
				fail:     fail,
			}
			loop.run(runCtx)
		}(i)
	}
	wg.Wait()

	return runErr
}

type workerLoop struct {
	cfg      Config
	op       Operation
	seeds    SeedSource
	recorder *stats.Recorder
	limiter  *rate.Limiter
	issued   *atomic.Uint64
	fail     func(error)
}

func (w *workerLoop) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if w.cfg.Count > 0 && w.issued.Add(1) > w.cfg.Count {
			return
		}

		start := time.Now()
		if w.limiter != nil {
			reservation := w.limiter.ReserveN(start, 1)
			if delay := reservation.DelayFrom(start); delay > 0 {
				if !sleepCtx(ctx, delay) {
					reservation.Cancel()
					return
				}
			}
			if w.cfg.FixedRate == 0 {
				// Throttled runs measure service time only. Fixed rate runs
				// keep the scheduled start, so time spent waiting behind a
				// slow operation counts towards latency.
				start = time.Now()
			}
		}

		tag, err := w.execute(ctx, w.seeds())
		latency := time.Since(start)
		if err != nil && ctx.Err() != nil {
			// Cancellation mid-flight is not a workload failure.
			return
		}
		w.recorder.Record(tag, latency, err != nil)
		if err != nil && !w.cfg.IgnoreErrors {
			w.fail(err)
			return
		}
	}
}

// execute runs one operation, retrying failures up to the configured number
// of times.
func (w *workerLoop) execute(ctx context.Context, seed int64) (string, error) {
	tag, err := w.op.Execute(ctx, seed)
	for attempt := uint64(0); err != nil && attempt < w.cfg.Retries; attempt++ {
		if ctx.Err() != nil {
			return tag, err
		}
		tag, err = w.op.Execute(ctx, seed)
	}
	return tag, err
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Warmup runs count unrecorded operations to let connection pools and server
// caches settle before measurement starts. Operation errors are logged and
// otherwise ignored.
func Warmup(ctx context.Context, threads int, count uint64, ops []Operation, seeds []SeedSource) {
	if count == 0 {
		return
	}

	log.Infof("Warming up with %d operations...", count)
	bar := progressbar.Default(int64(count))

	var (
		wg     sync.WaitGroup
		issued atomic.Uint64
	)
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for ctx.Err() == nil && issued.Add(1) <= count {
				if _, err := ops[worker].Execute(ctx, seeds[worker]()); err != nil && ctx.Err() == nil {
					log.Warnf("warmup operation failed: %s", err)
				}
				bar.Add(1)
			}
		}(i)
	}
	wg.Wait()
	bar.Finish()
}
