package run

import (
	"context"
	"sort"
	"strings"

	"github.com/gocql/gocql"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/profile"
	"github.com/cqlstress/cql-stress/settings"
)

// UserWorkload builds operations from a YAML profile: the generated insert
// plus the profile's named queries, interleaved according to the ops() ratio.
type UserWorkload struct {
	Session *gocql.Session
	Profile *profile.Profile
}

// NewOperation builds the user operation for one worker.
func (w *UserWorkload) NewOperation(params *settings.CommandParams, worker int) (Operation, error) {
	names := make([]string, 0, len(params.Ops))
	for name := range params.Ops {
		if err := w.Profile.LookupOp(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Reuses the weighted chooser of mixed; user ops are not clustered into
	// runs, so every execution picks independently.
	op := &mixedOp{
		rng:        generate.NewJavaRandom(int64(worker) + 1),
		clustering: generate.DistributionSpec{Kind: generate.DistFixed, Min: 1, Max: 1},
	}
	for _, name := range names {
		op.choices = append(op.choices, weightedOp{op: w.newNamedOperation(name), weight: params.Ops[name]})
		op.total += params.Ops[name]
	}
	return op, nil
}

func (w *UserWorkload) newNamedOperation(name string) Operation {
	if name == profile.InsertOpName {
		return &userInsertOp{workload: w, stmt: w.Profile.InsertStatement()}
	}
	cql := w.Profile.Queries[name].CQL
	return &userQueryOp{
		workload:     w,
		name:         name,
		stmt:         cql,
		placeholders: strings.Count(cql, "?"),
	}
}

type userInsertOp struct {
	workload *UserWorkload
	stmt     string
}

func (o *userInsertOp) Execute(ctx context.Context, seed int64) (string, error) {
	args := o.workload.Profile.GenerateRow(seed)
	err := o.workload.Session.Query(o.stmt, args...).WithContext(ctx).Exec()
	return profile.InsertOpName, err
}

type userQueryOp struct {
	workload     *UserWorkload
	name         string
	stmt         string
	placeholders int
}

func (o *userQueryOp) Execute(ctx context.Context, seed int64) (string, error) {
	// The generated partition key value feeds every placeholder.
	key := o.workload.Profile.GenerateKey(seed)
	args := make([]any, o.placeholders)
	for i := range args {
		args[i] = key
	}

	iter := o.workload.Session.Query(o.stmt, args...).WithContext(ctx).Iter()
	for {
		row := map[string]interface{}{}
		if !iter.MapScan(row) {
			break
		}
	}
	return o.name, iter.Close()
}
