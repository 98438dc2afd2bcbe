// Package stats collects operation latencies into HDR histograms and turns
// them into interval reports, HDR log files and the final summary.
package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Latencies are recorded in nanoseconds, up to one hour.
	latencyMinValue = 1
	latencyMaxValue = int64(time.Hour)
	latencySigFigs  = 3
)

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(latencyMinValue, latencyMaxValue, latencySigFigs)
}

// Interval is the measurement of one tag over one reporting window.
type Interval struct {
	Hist   *hdrhistogram.Histogram
	Ops    uint64
	Errors uint64
}

func newInterval() *Interval {
	return &Interval{Hist: newLatencyHistogram()}
}

func (i *Interval) merge(other *Interval) {
	i.Hist.Merge(other.Hist)
	i.Ops += other.Ops
	i.Errors += other.Errors
}

type taggedInterval struct {
	tag      string
	interval *Interval
}

// Recorder accumulates measurements of a single worker. Each worker owns one
// recorder, so the lock is effectively uncontended except when the reporter
// drains it.
type Recorder struct {
	mu       sync.Mutex
	tags     map[string]*Interval
	totalOps uint64
}

func NewRecorder() *Recorder {
	return &Recorder{tags: map[string]*Interval{}}
}

// Record adds one operation result under the given tag.
func (r *Recorder) Record(tag string, latency time.Duration, failed bool) {
	value := latency.Nanoseconds()
	if value < latencyMinValue {
		value = latencyMinValue
	}
	if value > latencyMaxValue {
		value = latencyMaxValue
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	interval := r.tags[tag]
	if interval == nil {
		interval = newInterval()
		r.tags[tag] = interval
	}
	interval.Hist.RecordValue(value)
	interval.Ops++
	if failed {
		interval.Errors++
	}
	r.totalOps++
}

// Ops returns the number of operations recorded over the recorder's lifetime,
// including already drained windows.
func (r *Recorder) Ops() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalOps
}

// drain takes the current window away from the recorder and leaves a fresh
// one behind.
func (r *Recorder) drain() []taggedInterval {
	r.mu.Lock()
	defer r.mu.Unlock()

	var drained []taggedInterval
	for tag, interval := range r.tags {
		if interval.Ops == 0 {
			continue
		}
		drained = append(drained, taggedInterval{tag: tag, interval: interval})
		r.tags[tag] = newInterval()
	}
	return drained
}
