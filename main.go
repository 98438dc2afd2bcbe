package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cqlstress/cql-stress/cmd/help"
	"github.com/cqlstress/cql-stress/cmd/print"
	"github.com/cqlstress/cql-stress/cmd/stress"
)

func main() {
	cmd := &cli.Command{
		Name:            "cql-stress-cassandra-stress",
		Usage:           "benchmark Cassandra and Scylla clusters with the cassandra-stress workloads",
		Version:         stress.Version,
		HideHelpCommand: true,
		Commands: append(
			stress.Commands(),
			print.Cmd(),
			help.Cmd(),
			stress.VersionCmd(),
		),
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
