package run

import (
	"context"
	"sort"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/settings"
)

// mixedOp interleaves the basic operations according to the configured ratio.
// Operations of the same kind come in runs: a length drawn from the
// clustering distribution decides how many consecutive executions reuse the
// chosen sub-operation.
type mixedOp struct {
	choices    []weightedOp
	total      uint64
	rng        *generate.JavaRandom
	clustering generate.DistributionSpec

	current   Operation
	remaining int64
}

type weightedOp struct {
	op     Operation
	weight uint64
}

func (w *Workload) newMixedOperation(params *settings.CommandParams, worker int) (Operation, error) {
	commands := make([]settings.Command, 0, len(params.Ratio))
	for command := range params.Ratio {
		commands = append(commands, command)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i] < commands[j] })

	op := &mixedOp{
		rng:        generate.NewJavaRandom(int64(worker) + 1),
		clustering: params.Clustering,
	}
	for _, command := range commands {
		sub, err := w.NewOperation(command, params, worker)
		if err != nil {
			return nil, err
		}
		op.choices = append(op.choices, weightedOp{op: sub, weight: params.Ratio[command]})
		op.total += params.Ratio[command]
	}
	return op, nil
}

func (o *mixedOp) Execute(ctx context.Context, seed int64) (string, error) {
	if o.remaining <= 0 {
		o.current = o.pick()
		o.remaining = o.clustering.SampleWith(o.rng)
		if o.remaining < 1 {
			o.remaining = 1
		}
	}
	o.remaining--
	return o.current.Execute(ctx, seed)
}

func (o *mixedOp) pick() Operation {
	point := uint64(o.rng.NextDouble() * float64(o.total))
	for _, choice := range o.choices {
		if point < choice.weight {
			return choice.op
		}
		point -= choice.weight
	}
	return o.choices[len(o.choices)-1].op
}
