package settings

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/settings/param"
)

// Command is one of the stress workloads.
type Command string

const (
	CommandWrite        Command = "write"
	CommandRead         Command = "read"
	CommandCounterWrite Command = "counter_write"
	CommandCounterRead  Command = "counter_read"
	CommandMixed        Command = "mixed"
	CommandUser         Command = "user"
)

// AllCommands lists the workload commands in help order.
var AllCommands = []Command{
	CommandWrite,
	CommandRead,
	CommandCounterWrite,
	CommandCounterRead,
	CommandMixed,
	CommandUser,
}

func CommandDescription(c Command) string {
	switch c {
	case CommandWrite:
		return "Multiple concurrent writes against the cluster"
	case CommandRead:
		return "Multiple concurrent reads, validated against the generated rows"
	case CommandCounterWrite:
		return "Multiple concurrent counter increments"
	case CommandCounterRead:
		return "Multiple concurrent reads of counter rows"
	case CommandMixed:
		return "Interleaving of basic commands with configurable ratio"
	case CommandUser:
		return "Operations defined in a YAML profile"
	}
	return ""
}

const (
	defaultOperationCount = 1_000_000
	maxWarmupCount        = 50_000
)

var consistencyLevels = []string{
	"any", "one", "two", "three", "quorum", "all",
	"local_quorum", "each_quorum", "local_one",
}

// CommandParams carries the parameters every workload command accepts, plus
// the command specific extras.
type CommandParams struct {
	Command Command

	// Exactly one of Count/Duration bounds the run.
	Count       uint64
	Duration    time.Duration
	Consistency string
	NoWarmup    bool

	// mixed
	Ratio      map[Command]uint64
	Clustering generate.DistributionSpec

	// user
	Profile string
	Ops     map[string]uint64
}

// WarmupCount returns the number of unrecorded warmup operations to run
// before measurement starts.
func (p *CommandParams) WarmupCount() uint64 {
	if p.NoWarmup || p.Count == 0 {
		return 0
	}
	warmup := p.Count / 10
	if warmup > maxWarmupCount {
		warmup = maxWarmupCount
	}
	return warmup
}

type commandParamHandles struct {
	count       *param.SimpleParam
	duration    *param.SimpleParam
	consistency *param.SimpleParam
	noWarmup    *param.SimpleParam
	ratio       *param.MultiParam
	clustering  *param.SimpleParam
	profile     *param.SimpleParam
	ops         *param.MultiParam
}

func commandParser(command Command) (*param.ParamsParser, commandParamHandles) {
	pp := param.NewParamsParser(string(command))

	count := pp.Simple("n=", param.PatternCount, "", "Number of operations to perform", false)
	duration := pp.Simple(
		"duration=",
		param.PatternDuration,
		"",
		"Time to run in (in seconds, minutes or hours)",
		false,
	)
	consistency := pp.Simple(
		"cl=",
		`(?i)^(`+strings.Join(consistencyLevels, "|")+`)$`,
		"local_one",
		"Consistency level to use",
		false,
	)
	noWarmup := pp.Simple("no-warmup", param.PatternFlag, "", "Do not warmup the process", false)

	handles := commandParamHandles{
		count:       count,
		duration:    duration,
		consistency: consistency,
		noWarmup:    noWarmup,
	}

	var extras []param.Param
	switch command {
	case CommandMixed:
		handles.ratio = pp.Multi(
			"ratio",
			nil,
			"Specify the ratios for operations to perform, e.g. (read=2,write=1)",
			false,
			true,
		)
		handles.clustering = pp.Simple(
			"clustering=",
			param.PatternAny,
			"GAUSSIAN(1..10)",
			"Distribution clustering runs of operations of the same kind",
			false,
		)
		extras = []param.Param{handles.ratio, handles.clustering}
	case CommandUser:
		handles.profile = pp.Simple("profile=", param.PatternAny, "", "Path to the YAML workload profile", true)
		handles.ops = pp.Multi(
			"ops",
			nil,
			"Specify the ratios for operations defined in the profile, e.g. (insert=2,read1=1)",
			false,
			true,
		)
		extras = []param.Param{handles.profile, handles.ops}
	}

	// n= and duration= exclude each other.
	countGroup := append([]param.Param{count, consistency, noWarmup}, extras...)
	durationGroup := append([]param.Param{duration, consistency, noWarmup}, extras...)
	pp.Group(countGroup...)
	pp.Group(durationGroup...)

	return pp, handles
}

func parseCommandParams(command Command, args []string) (*CommandParams, error) {
	pp, handles := commandParser(command)
	if err := pp.Parse(args); err != nil {
		return nil, err
	}

	params := &CommandParams{
		Command:     command,
		Consistency: strings.ToLower(handles.consistency.GetString()),
		NoWarmup:    handles.noWarmup.SuppliedByUser(),
	}

	if count, ok := handles.count.Get(); ok {
		value, err := param.ParseCount(count)
		if err != nil {
			return nil, err
		}
		if value == 0 {
			return nil, fmt.Errorf("operation count must be positive")
		}
		params.Count = value
	} else if duration, ok := handles.duration.Get(); ok {
		value, err := param.ParseDuration(duration)
		if err != nil {
			return nil, err
		}
		params.Duration = value
	} else {
		params.Count = defaultOperationCount
	}

	switch command {
	case CommandMixed:
		if err := parseMixedExtras(params, handles); err != nil {
			return nil, err
		}
	case CommandUser:
		if err := parseUserExtras(params, handles); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func parseMixedExtras(params *CommandParams, handles commandParamHandles) error {
	params.Ratio = map[Command]uint64{CommandWrite: 1, CommandRead: 1}

	if ratio := handles.ratio.GetArbitrary(); handles.ratio.SuppliedByUser() {
		params.Ratio = map[Command]uint64{}
		for name, weight := range ratio {
			command := Command(name)
			switch command {
			case CommandWrite, CommandRead, CommandCounterWrite, CommandCounterRead:
			default:
				return fmt.Errorf("unknown command %q in ratio", name)
			}
			value, err := strconv.ParseUint(weight, 10, 64)
			if err != nil || value == 0 {
				return fmt.Errorf("invalid ratio weight %s=%s", name, weight)
			}
			params.Ratio[command] = value
		}
		if len(params.Ratio) == 0 {
			return fmt.Errorf("ratio must name at least one command")
		}
	}

	clustering, _ := handles.clustering.Get()
	spec, err := generate.ParseDistributionSpec(clustering)
	if err != nil {
		return err
	}
	if spec.Kind == generate.DistSeq || spec.Min < 1 {
		return fmt.Errorf("invalid clustering distribution %q", clustering)
	}
	params.Clustering = spec
	return nil
}

func parseUserExtras(params *CommandParams, handles commandParamHandles) error {
	params.Profile = handles.profile.GetString()

	params.Ops = map[string]uint64{}
	for name, weight := range handles.ops.GetArbitrary() {
		value, err := strconv.ParseUint(weight, 10, 64)
		if err != nil || value == 0 {
			return fmt.Errorf("invalid ops weight %s=%s", name, weight)
		}
		params.Ops[name] = value
	}
	if len(params.Ops) == 0 {
		return fmt.Errorf("user command requires a non-empty ops() specification")
	}
	return nil
}

// CommandHelp prints the parameter help of one workload command.
func CommandHelp(command Command, w io.Writer) {
	pp, _ := commandParser(command)
	pp.WriteHelp(w)
}

func (p *CommandParams) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Command:")
	fmt.Fprintf(w, "  Type: %s\n", p.Command)
	if p.Duration != 0 {
		fmt.Fprintf(w, "  Duration: %s\n", p.Duration)
	} else {
		fmt.Fprintf(w, "  Count: %d\n", p.Count)
	}
	fmt.Fprintf(w, "  Consistency Level: %s\n", strings.ToUpper(p.Consistency))
	fmt.Fprintf(w, "  No Warmup: %v\n", p.NoWarmup)
	if p.Command == CommandMixed {
		fmt.Fprintf(w, "  Ratio: %v\n", p.Ratio)
		fmt.Fprintf(w, "  Clustering: %s\n", strings.ToLower(p.Clustering.String()))
	}
	if p.Command == CommandUser {
		fmt.Fprintf(w, "  Profile: %s\n", p.Profile)
		fmt.Fprintf(w, "  Ops: %v\n", p.Ops)
	}
}
