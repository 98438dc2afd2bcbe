package stats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Reporter periodically drains worker recorders, prints one report line per
// tag and feeds the optional HDR log.
type Reporter struct {
	recorders []*Recorder
	interval  time.Duration
	out       io.Writer
	hdrLog    *HdrLogWriter

	start         time.Time
	headerPrinted bool
	totals        map[string]*Interval
}

func NewReporter(recorders []*Recorder, interval time.Duration, out io.Writer, hdrLog *HdrLogWriter) *Reporter {
	return &Reporter{
		recorders: recorders,
		interval:  interval,
		out:       out,
		hdrLog:    hdrLog,
		totals:    map[string]*Interval{},
	}
}

// Run reports until the context is cancelled, then flushes the final partial
// interval. It is meant to run on its own goroutine for the whole benchmark.
func (r *Reporter) Run(ctx context.Context) {
	r.start = time.Now()
	intervalStart := r.start

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.flush(intervalStart, now)
			intervalStart = now
		case <-ctx.Done():
			r.flush(intervalStart, time.Now())
			return
		}
	}
}

// flush merges one reporting window across all workers.
func (r *Reporter) flush(intervalStart, intervalEnd time.Time) {
	merged := map[string]*Interval{}
	for _, recorder := range r.recorders {
		for _, drained := range recorder.drain() {
			target := merged[drained.tag]
			if target == nil {
				target = newInterval()
				merged[drained.tag] = target
			}
			target.merge(drained.interval)
		}
	}
	if len(merged) == 0 {
		return
	}

	tags := make([]string, 0, len(merged))
	for tag := range merged {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		interval := merged[tag]

		total := r.totals[tag]
		if total == nil {
			total = newInterval()
			r.totals[tag] = total
		}
		total.merge(interval)

		r.printLine(tag, interval, intervalStart, intervalEnd)

		if r.hdrLog != nil {
			if err := r.hdrLog.WriteInterval(tag, intervalStart, intervalEnd, interval.Hist); err != nil {
				log.Warnf("failed to write HDR log interval: %s", err)
			}
		}
	}
}

func (r *Reporter) printLine(tag string, interval *Interval, intervalStart, intervalEnd time.Time) {
	if !r.headerPrinted {
		fmt.Fprintf(r.out, "%-14s %12s %10s %8s %8s %8s %8s %8s %8s %8s %9s\n",
			"type", "total ops", "op/s", "mean", "med", ".95", ".99", ".999", "max", "errors", "elapsed")
		r.headerPrinted = true
	}

	length := intervalEnd.Sub(intervalStart).Seconds()
	if length <= 0 {
		length = 1
	}
	hist := interval.Hist

	fmt.Fprintf(r.out, "%-14s %12d %10.0f %8.1f %8.1f %8.1f %8.1f %8.1f %8.1f %8d %8.1fs\n",
		tag,
		r.totals[tag].Ops,
		float64(interval.Ops)/length,
		hist.Mean()/hdrMaxValueDivisor,
		float64(hist.ValueAtQuantile(50))/hdrMaxValueDivisor,
		float64(hist.ValueAtQuantile(95))/hdrMaxValueDivisor,
		float64(hist.ValueAtQuantile(99))/hdrMaxValueDivisor,
		float64(hist.ValueAtQuantile(99.9))/hdrMaxValueDivisor,
		float64(hist.Max())/hdrMaxValueDivisor,
		interval.Errors,
		intervalEnd.Sub(r.start).Seconds(),
	)
}

// WriteSummary prints the cumulative results block.
func (r *Reporter) WriteSummary(w io.Writer) {
	elapsed := time.Since(r.start)

	tags := make([]string, 0, len(r.totals))
	for tag := range r.totals {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Results:")
	for _, tag := range tags {
		total := r.totals[tag]
		hist := total.Hist

		fmt.Fprintf(w, "[%s]\n", tag)
		fmt.Fprintf(w, "  Total ops          : %d\n", total.Ops)
		fmt.Fprintf(w, "  Op rate            : %.0f op/s\n", float64(total.Ops)/elapsed.Seconds())
		fmt.Fprintf(w, "  Latency mean       : %.1f ms\n", hist.Mean()/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Latency median     : %.1f ms\n", float64(hist.ValueAtQuantile(50))/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Latency 95th pct   : %.1f ms\n", float64(hist.ValueAtQuantile(95))/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Latency 99th pct   : %.1f ms\n", float64(hist.ValueAtQuantile(99))/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Latency 99.9th pct : %.1f ms\n", float64(hist.ValueAtQuantile(99.9))/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Latency max        : %.1f ms\n", float64(hist.Max())/hdrMaxValueDivisor)
		fmt.Fprintf(w, "  Errors             : %d\n", total.Errors)
	}
	fmt.Fprintf(w, "Total operation time : %s\n", elapsed.Round(time.Millisecond))
}

// TotalOps returns the cumulative operation count across all tags.
func (r *Reporter) TotalOps() uint64 {
	var ops uint64
	for _, total := range r.totals {
		ops += total.Ops
	}
	return ops
}

// Elapsed returns the time since reporting started.
func (r *Reporter) Elapsed() time.Duration {
	return time.Since(r.start)
}
