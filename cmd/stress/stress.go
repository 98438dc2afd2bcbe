// Package stress defines the workload commands. Their arguments follow the
// cassandra-stress grammar instead of flags, so flag parsing is skipped and
// the raw argument list goes straight to the settings parser.
package stress

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cqlstress/cql-stress/settings"
)

const Version = "0.1.0"

func Commands() []*cli.Command {
	commands := make([]*cli.Command, 0, len(settings.AllCommands))
	for _, command := range settings.AllCommands {
		command := command
		commands = append(commands, &cli.Command{
			Name:            string(command),
			Usage:           settings.CommandDescription(command),
			SkipFlagParsing: true,
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return cmdMain(ctx, command, cmd.Args().Slice())
			},
		})
	}
	return commands
}

func VersionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Println("cql-stress-cassandra-stress " + Version)
			return nil
		},
	}
}
