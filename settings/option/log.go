package option

import (
	"fmt"
	"io"
	"time"

	"github.com/cqlstress/cql-stress/settings/param"
)

// LogOption configures interval reporting and HDR histogram logging.
type LogOption struct {
	Interval  time.Duration
	File      string // interval report destination, stdout when empty
	HdrFile   string // HDR histogram log, disabled when empty
	NoSummary bool
}

const LogCLIString = "-log"

func LogDescription() string {
	return "Where and how often to report progress and latency histograms"
}

type logParamHandles struct {
	interval  *param.SimpleParam
	file      *param.SimpleParam
	hdrFile   *param.SimpleParam
	noSummary *param.SimpleParam
}

func logParser() (*param.ParamsParser, logParamHandles) {
	pp := param.NewParamsParser(LogCLIString)

	interval := pp.Simple(
		"interval=",
		param.PatternDuration,
		"1s",
		"Progress report interval",
		false,
	)
	file := pp.Simple("file=", param.PatternAny, "", "Log progress to a file instead of stdout", false)
	hdrFile := pp.Simple(
		"hdrfile=",
		param.PatternAny,
		"",
		"Log HDR latency histograms to a file (a .gz suffix enables compression)",
		false,
	)
	noSummary := pp.Simple("no-summary", param.PatternFlag, "", "Suppress the final results summary", false)

	return pp, logParamHandles{
		interval:  interval,
		file:      file,
		hdrFile:   hdrFile,
		noSummary: noSummary,
	}
}

func ParseLogOption(payload ParsePayload) (*LogOption, error) {
	pp, handles := logParser()
	if err := pp.Parse(payload.Take(LogCLIString)); err != nil {
		return nil, err
	}

	intervalValue, _ := handles.interval.Get()
	interval, err := param.ParseDuration(intervalValue)
	if err != nil {
		return nil, err
	}
	if interval < time.Second {
		return nil, fmt.Errorf("log interval must be at least 1s")
	}

	return &LogOption{
		Interval:  interval,
		File:      handles.file.GetString(),
		HdrFile:   handles.hdrFile.GetString(),
		NoSummary: handles.noSummary.SuppliedByUser(),
	}, nil
}

func LogHelp(w io.Writer) {
	pp, _ := logParser()
	pp.WriteHelp(w)
}

func (o *LogOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Log:")
	writeSetting(w, "Interval", o.Interval)
	if o.File != "" {
		writeSetting(w, "File", o.File)
	}
	if o.HdrFile != "" {
		writeSetting(w, "Hdr File", o.HdrFile)
	}
	writeSetting(w, "No Summary", o.NoSummary)
}
