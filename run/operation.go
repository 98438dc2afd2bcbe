// Package run drives benchmark operations against the cluster with a pool of
// worker goroutines.
package run

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gocql/gocql"

	"github.com/cqlstress/cql-stress/db"
	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/settings"
)

// Operation executes one benchmark request for a partition seed. It reports
// the tag the result should be recorded under; for compound operations like
// mixed the tag depends on the sub-operation that actually ran.
type Operation interface {
	Execute(ctx context.Context, seed int64) (tag string, err error)
}

// Workload bundles what every standard operation needs.
type Workload struct {
	Session     *gocql.Session
	Keyspace    string
	Generator   *generate.RowGenerator
	ColumnCount uint64
}

// NewOperation builds the operation for one worker.
func (w *Workload) NewOperation(command settings.Command, params *settings.CommandParams, worker int) (Operation, error) {
	switch command {
	case settings.CommandWrite:
		return &writeOp{workload: w, stmt: insertStatement(w.Keyspace, w.ColumnCount)}, nil
	case settings.CommandRead:
		return &readOp{workload: w, stmt: selectStatement(w.Keyspace, db.StandardTable, w.ColumnCount)}, nil
	case settings.CommandCounterWrite:
		return &counterWriteOp{workload: w, stmt: counterUpdateStatement(w.Keyspace, w.ColumnCount)}, nil
	case settings.CommandCounterRead:
		return &counterReadOp{workload: w, stmt: selectStatement(w.Keyspace, db.CounterTable, w.ColumnCount)}, nil
	case settings.CommandMixed:
		return w.newMixedOperation(params, worker)
	}
	return nil, fmt.Errorf("command %s has no operation", command)
}

func insertStatement(keyspace string, columnCount uint64) string {
	names := db.ColumnNames(columnCount)
	return fmt.Sprintf(
		"INSERT INTO %s.%s (key, %s) VALUES (?%s)",
		keyspace, db.StandardTable,
		strings.Join(names, ", "),
		strings.Repeat(", ?", len(names)),
	)
}

func selectStatement(keyspace string, table string, columnCount uint64) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s.%s WHERE key = ?",
		strings.Join(db.ColumnNames(columnCount), ", "),
		keyspace, table,
	)
}

func counterUpdateStatement(keyspace string, columnCount uint64) string {
	names := db.ColumnNames(columnCount)
	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = %s + 1", name, name)
	}
	return fmt.Sprintf(
		"UPDATE %s.%s SET %s WHERE key = ?",
		keyspace, db.CounterTable,
		strings.Join(assignments, ", "),
	)
}

// ----------------------------------------------------------------------------

type writeOp struct {
	workload *Workload
	stmt     string
}

func (o *writeOp) Execute(ctx context.Context, seed int64) (string, error) {
	gen := o.workload.Generator

	args := make([]any, 0, o.workload.ColumnCount+1)
	args = append(args, gen.Key(seed))
	for _, column := range gen.Row(seed) {
		args = append(args, column)
	}

	err := o.workload.Session.Query(o.stmt, args...).WithContext(ctx).Exec()
	return "write", err
}

type readOp struct {
	workload *Workload
	stmt     string
}

func (o *readOp) Execute(ctx context.Context, seed int64) (string, error) {
	gen := o.workload.Generator

	columns := make([][]byte, o.workload.ColumnCount)
	scanArgs := make([]any, len(columns))
	for i := range columns {
		scanArgs[i] = &columns[i]
	}

	err := o.workload.Session.Query(o.stmt, gen.Key(seed)).WithContext(ctx).Scan(scanArgs...)
	if err != nil {
		return "read", err
	}

	expected := gen.Row(seed)
	for i, column := range columns {
		if !bytes.Equal(column, expected[i]) {
			return "read", fmt.Errorf("row validation failed for seed %d: column c%d mismatch", seed, i)
		}
	}
	return "read", nil
}

type counterWriteOp struct {
	workload *Workload
	stmt     string
}

func (o *counterWriteOp) Execute(ctx context.Context, seed int64) (string, error) {
	key := o.workload.Generator.Key(seed)
	err := o.workload.Session.Query(o.stmt, key).WithContext(ctx).Exec()
	return "counter_write", err
}

type counterReadOp struct {
	workload *Workload
	stmt     string
}

func (o *counterReadOp) Execute(ctx context.Context, seed int64) (string, error) {
	counters := make([]int64, o.workload.ColumnCount)
	scanArgs := make([]any, len(counters))
	for i := range counters {
		scanArgs[i] = &counters[i]
	}

	key := o.workload.Generator.Key(seed)
	err := o.workload.Session.Query(o.stmt, key).WithContext(ctx).Scan(scanArgs...)
	if err == gocql.ErrNotFound {
		// Counter rows only exist once a counter_write visited the seed.
		return "counter_read", nil
	}
	if err != nil {
		return "counter_read", err
	}

	// All columns are incremented by the same statement, so they must agree.
	for i := 1; i < len(counters); i++ {
		if counters[i] != counters[0] {
			return "counter_read", fmt.Errorf(
				"counter validation failed for seed %d: c%d=%d, c0=%d", seed, i, counters[i], counters[0])
		}
	}
	return "counter_read", nil
}
