// Package help implements the cassandra-stress style help command, covering
// both workload commands and `-option` topics.
package help

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cqlstress/cql-stress/settings"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:            "help",
		Usage:           "print help for a command or option",
		SkipFlagParsing: true,
		Action: func(_ context.Context, cmd *cli.Command) error {
			return Run(os.Stdout, cmd.Args().Slice())
		},
	}
}

// Run prints global help, or the help of the command or option named by the
// first argument.
func Run(w io.Writer, args []string) error {
	if len(args) == 0 {
		settings.WriteGlobalHelp(w)
		return nil
	}

	topic := args[0]
	if strings.HasPrefix(topic, "-") {
		return settings.OptionHelp(topic, w)
	}
	for _, command := range settings.AllCommands {
		if string(command) == topic {
			settings.CommandHelp(command, w)
			return nil
		}
	}
	return fmt.Errorf("unknown help topic: %q", topic)
}
