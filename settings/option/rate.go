package option

import (
	"fmt"
	"io"

	"github.com/cqlstress/cql-stress/settings/param"
)

// RateOption controls the client concurrency and the operation schedule.
type RateOption struct {
	Threads ThreadsInfo
}

// ThreadsInfo is either a fixed thread count with optional throttling, or
// the automatic mode that searches for the saturating thread count.
type ThreadsInfo struct {
	Auto bool

	// Fixed mode.
	Threads   uint64
	Throttle  uint64 // ops/s across all clients, 0 when unlimited
	FixedRate uint64 // like Throttle, but latency is measured from the schedule

	// Auto mode.
	MinThreads uint64
	MaxThreads uint64
}

const RateCLIString = "-rate"

func RateDescription() string {
	return "Thread count, rate limit or automatic mode (default is auto)"
}

type rateParamHandles struct {
	threads    *param.SimpleParam
	throttle   *param.SimpleParam
	fixed      *param.SimpleParam
	minThreads *param.SimpleParam
	maxThreads *param.SimpleParam
	auto       *param.SimpleParam
}

func rateParser() (*param.ParamsParser, rateParamHandles) {
	pp := param.NewParamsParser(RateCLIString)

	threads := pp.Simple(
		"threads=",
		param.PatternUint,
		"",
		"run this many clients concurrently",
		true,
	)
	throttle := pp.Simple(
		"throttle=",
		param.PatternRate,
		"",
		"throttle operations per second across all clients to a maximum rate (or less) with no implied schedule",
		false,
	)
	fixed := pp.Simple(
		"fixed=",
		param.PatternRate,
		"",
		"expect fixed rate of operations per second across all clients with implied schedule",
		false,
	)
	minThreads := pp.Simple(
		"threads>=",
		param.PatternUint,
		"4",
		"run at least this many clients concurrently",
		false,
	)
	maxThreads := pp.Simple(
		"threads<=",
		param.PatternUint,
		"1000",
		"run at most this many clients concurrently",
		false,
	)
	auto := pp.Simple(
		"auto",
		param.PatternFlag,
		"",
		"stop increasing threads once throughput saturates",
		false,
	)

	// $ cql-stress-cassandra-stress help -rate
	// Usage: -rate threads=? [throttle=?] [fixed=?]
	//  OR
	// Usage: -rate [threads>=?] [threads<=?] [auto]
	pp.Group(threads, throttle, fixed)
	pp.Group(minThreads, maxThreads, auto)

	return pp, rateParamHandles{
		threads:    threads,
		throttle:   throttle,
		fixed:      fixed,
		minThreads: minThreads,
		maxThreads: maxThreads,
		auto:       auto,
	}
}

func ParseRateOption(payload ParsePayload) (*RateOption, error) {
	pp, handles := rateParser()
	if err := pp.Parse(payload.Take(RateCLIString)); err != nil {
		return nil, err
	}
	return rateFromHandles(handles)
}

func rateFromHandles(handles rateParamHandles) (*RateOption, error) {
	if threads, ok := handles.threads.GetUint64(); ok {
		info := ThreadsInfo{Threads: threads}
		if throttle, ok := handles.throttle.Get(); ok {
			value, err := param.ParsePerSecond(throttle)
			if err != nil {
				return nil, err
			}
			info.Throttle = value
		}
		if fixed, ok := handles.fixed.Get(); ok {
			value, err := param.ParsePerSecond(fixed)
			if err != nil {
				return nil, err
			}
			info.FixedRate = value
		}
		if info.Throttle != 0 && info.FixedRate != 0 {
			return nil, fmt.Errorf("throttle and fixed rate are mutually exclusive")
		}
		return &RateOption{Threads: info}, nil
	}

	// Grouping guarantees min/max defaults are available in this branch.
	minThreads, _ := handles.minThreads.GetUint64()
	maxThreads, _ := handles.maxThreads.GetUint64()
	if minThreads > maxThreads {
		return nil, fmt.Errorf("threads>= must not exceed threads<=")
	}
	return &RateOption{Threads: ThreadsInfo{
		Auto:       true,
		MinThreads: minThreads,
		MaxThreads: maxThreads,
	}}, nil
}

func RateHelp(w io.Writer) {
	pp, _ := rateParser()
	pp.WriteHelp(w)
}

func (o *RateOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Rate:")
	info := o.Threads
	if info.Auto {
		writeSetting(w, "Min threads", info.MinThreads)
		writeSetting(w, "Max threads", info.MaxThreads)
		writeSetting(w, "Auto", true)
		return
	}
	writeSetting(w, "Thread count", info.Threads)
	if info.Throttle != 0 {
		writeSetting(w, "OpsPer Sec", info.Throttle)
	}
	if info.FixedRate != 0 {
		writeSetting(w, "Fixed", info.FixedRate)
	}
}
