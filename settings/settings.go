// Package settings parses the cassandra-stress command grammar:
//
//	cql-stress-cassandra-stress <command> [<param>...] [-<option> <param>...]...
package settings

import (
	"fmt"
	"io"
	"strings"

	"github.com/cqlstress/cql-stress/settings/option"
)

// Settings is the complete parsed configuration of a stress run.
type Settings struct {
	Command    *CommandParams
	Node       *option.NodeOption
	Rate       *option.RateOption
	Schema     *option.SchemaOption
	Mode       *option.ModeOption
	Population *option.PopulationOption
	Columns    *option.ColumnOption
	Log        *option.LogOption
	Errors     *option.ErrorsOption
	Transport  *option.TransportOption
}

// Parse consumes the raw argument list following the command name.
func Parse(command Command, args []string) (*Settings, error) {
	commandArgs, payload, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	params, err := parseCommandParams(command, commandArgs)
	if err != nil {
		return nil, err
	}

	s := &Settings{Command: params}
	if s.Node, err = option.ParseNodeOption(payload); err != nil {
		return nil, err
	}
	if s.Rate, err = option.ParseRateOption(payload); err != nil {
		return nil, err
	}
	if s.Schema, err = option.ParseSchemaOption(payload); err != nil {
		return nil, err
	}
	if s.Mode, err = option.ParseModeOption(payload); err != nil {
		return nil, err
	}
	popCount := params.Count
	if popCount == 0 {
		// Duration bounded runs still need a sensibly sized population.
		popCount = defaultOperationCount
	}
	if s.Population, err = option.ParsePopulationOption(payload, popCount); err != nil {
		return nil, err
	}
	if s.Columns, err = option.ParseColumnOption(payload); err != nil {
		return nil, err
	}
	if s.Log, err = option.ParseLogOption(payload); err != nil {
		return nil, err
	}
	if s.Errors, err = option.ParseErrorsOption(payload); err != nil {
		return nil, err
	}
	if s.Transport, err = option.ParseTransportOption(payload); err != nil {
		return nil, err
	}

	if remaining := payload.Remaining(); len(remaining) > 0 {
		return nil, fmt.Errorf("unknown option: %s", strings.Join(remaining, ", "))
	}
	return s, nil
}

// splitArgs separates command parameters (everything before the first
// `-option` token) from per option argument lists.
func splitArgs(args []string) ([]string, option.ParsePayload, error) {
	payload := option.ParsePayload{}

	var commandArgs []string
	current := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			if _, exists := payload[arg]; exists {
				return nil, nil, fmt.Errorf("%s option has been specified more than once", arg)
			}
			payload[arg] = []string{}
			current = arg
			continue
		}

		if current == "" {
			commandArgs = append(commandArgs, arg)
		} else {
			payload[current] = append(payload[current], arg)
		}
	}
	return commandArgs, payload, nil
}

// WriteSettings prints the full configuration the way cassandra-stress echoes
// its settings before a run.
func (s *Settings) WriteSettings(w io.Writer) {
	s.Command.WriteSettings(w)
	s.Node.WriteSettings(w)
	s.Rate.WriteSettings(w)
	s.Schema.WriteSettings(w)
	s.Mode.WriteSettings(w)
	s.Population.WriteSettings(w)
	s.Columns.WriteSettings(w)
	s.Log.WriteSettings(w)
	s.Errors.WriteSettings(w)
	s.Transport.WriteSettings(w)
}

// OptionHelp routes `help -option` requests.
func OptionHelp(name string, w io.Writer) error {
	switch name {
	case option.NodeCLIString:
		option.NodeHelp(w)
	case option.RateCLIString:
		option.RateHelp(w)
	case option.SchemaCLIString:
		option.SchemaHelp(w)
	case option.ModeCLIString:
		option.ModeHelp(w)
	case option.PopulationCLIString:
		option.PopulationHelp(w)
	case option.ColumnCLIString:
		option.ColumnHelp(w)
	case option.LogCLIString:
		option.LogHelp(w)
	case option.ErrorsCLIString:
		option.ErrorsHelp(w)
	case option.TransportCLIString:
		option.TransportHelp(w)
	default:
		return fmt.Errorf("unknown option: %s", name)
	}
	return nil
}

// WriteGlobalHelp lists commands and options with their descriptions.
func WriteGlobalHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage:      cql-stress-cassandra-stress <command> [options]")
	fmt.Fprintln(w, "Help usage: cql-stress-cassandra-stress help <command|option>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---Commands---")
	for _, command := range AllCommands {
		fmt.Fprintf(w, "%-15s: %s\n", command, CommandDescription(command))
	}
	fmt.Fprintf(w, "%-15s: %s\n", "print", "Inspect the output of a distribution definition")
	fmt.Fprintf(w, "%-15s: %s\n", "help", "Print help for a command or option")
	fmt.Fprintf(w, "%-15s: %s\n", "version", "Print the version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---Options---")
	fmt.Fprintf(w, "%-15s: %s\n", option.NodeCLIString, option.NodeDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.RateCLIString, option.RateDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.SchemaCLIString, option.SchemaDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.ModeCLIString, option.ModeDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.PopulationCLIString, option.PopulationDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.ColumnCLIString, option.ColumnDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.LogCLIString, option.LogDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.ErrorsCLIString, option.ErrorsDescription())
	fmt.Fprintf(w, "%-15s: %s\n", option.TransportCLIString, option.TransportDescription())
}
