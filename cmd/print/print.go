// Package print implements the distribution inspection command.
package print

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cqlstress/cql-stress/generate"
)

const sampleCount = 10000

func Cmd() *cli.Command {
	return &cli.Command{
		Name:            "print",
		Usage:           "inspect the output of a distribution definition",
		SkipFlagParsing: true,
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return fmt.Errorf("print requires at least one distribution definition, e.g. GAUSSIAN(1..10)")
			}
			for _, arg := range args {
				if err := printDistribution(os.Stdout, arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printDistribution(w io.Writer, definition string) error {
	spec, err := generate.ParseDistributionSpec(definition)
	if err != nil {
		return err
	}

	dist := spec.New(1)
	var sum float64
	min := int64(math.MaxInt64)
	max := int64(math.MinInt64)
	for i := 0; i < sampleCount; i++ {
		value := dist.Next()
		sum += float64(value)
		if value < min {
			min = value
		}
		if value > max {
			max = value
		}
	}

	fmt.Fprintf(w, "%s over %d samples:\n", spec, sampleCount)
	fmt.Fprintf(w, "  min  : %d\n", min)
	fmt.Fprintf(w, "  max  : %d\n", max)
	fmt.Fprintf(w, "  mean : %.2f\n", sum/sampleCount)

	// Example seeds show the exact partition key and token an operation with
	// that seed would target.
	gen := generate.NewRowGenerator()
	fmt.Fprintln(w, "  example seeds:")
	for _, seed := range exampleSeeds(spec) {
		key := gen.Key(seed)
		fmt.Fprintf(w, "    seed %-12d key 0x%x token %d\n", seed, key, generate.Murmur3Token(key))
	}
	return nil
}

func exampleSeeds(spec generate.DistributionSpec) []int64 {
	if spec.Min == spec.Max {
		return []int64{spec.Min}
	}
	mid := spec.Min + (spec.Max-spec.Min)/2
	if mid == spec.Min || mid == spec.Max {
		return []int64{spec.Min, spec.Max}
	}
	return []int64{spec.Min, mid, spec.Max}
}
