package run

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqlstress/cql-stress/generate"
)

func TestInsertStatement(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO keyspace1.standard1 (key, c0, c1, c2) VALUES (?, ?, ?, ?)",
		insertStatement("keyspace1", 3),
	)
}

func TestSelectStatement(t *testing.T) {
	assert.Equal(t,
		"SELECT c0, c1 FROM ks.standard1 WHERE key = ?",
		selectStatement("ks", "standard1", 2),
	)
}

func TestCounterUpdateStatement(t *testing.T) {
	assert.Equal(t,
		"UPDATE keyspace1.counter1 SET c0 = c0 + 1, c1 = c1 + 1 WHERE key = ?",
		counterUpdateStatement("keyspace1", 2),
	)
}

func newTestMixedOp(clustering generate.DistributionSpec, weights map[string]uint64) (*mixedOp, map[string]*stubOp) {
	op := &mixedOp{
		rng:        generate.NewJavaRandom(1),
		clustering: clustering,
	}
	stubs := map[string]*stubOp{}
	// Stable order so the weighted choice is reproducible.
	for _, tag := range []string{"read", "write"} {
		weight, ok := weights[tag]
		if !ok {
			continue
		}
		stub := &stubOp{tag: tag}
		stubs[tag] = stub
		op.choices = append(op.choices, weightedOp{op: stub, weight: weight})
		op.total += weight
	}
	return op, stubs
}

func TestMixedOperationClustersRuns(t *testing.T) {
	clustering := generate.DistributionSpec{Kind: generate.DistFixed, Min: 3, Max: 3}
	op, _ := newTestMixedOp(clustering, map[string]uint64{"read": 1, "write": 1})

	var tags []string
	for i := 0; i < 12; i++ {
		tag, err := op.Execute(context.Background(), int64(i))
		require.NoError(t, err)
		tags = append(tags, tag)
	}

	// Runs of exactly three consecutive executions of the same kind.
	for i := 0; i < len(tags); i += 3 {
		assert.Equal(t, tags[i], tags[i+1])
		assert.Equal(t, tags[i], tags[i+2])
	}
}

func TestMixedOperationFollowsRatio(t *testing.T) {
	clustering := generate.DistributionSpec{Kind: generate.DistFixed, Min: 1, Max: 1}
	op, stubs := newTestMixedOp(clustering, map[string]uint64{"read": 3, "write": 1})

	const total = 4000
	for i := 0; i < total; i++ {
		_, err := op.Execute(context.Background(), int64(i))
		require.NoError(t, err)
	}

	reads := stubs["read"].executed.Load()
	writes := stubs["write"].executed.Load()
	assert.Equal(t, uint64(total), reads+writes)
	// Roughly 3:1.
	assert.InDelta(t, 3000, float64(reads), 300)
	assert.InDelta(t, 1000, float64(writes), 300)
}

func TestMixedOperationSingleCommand(t *testing.T) {
	clustering := generate.DistributionSpec{Kind: generate.DistGaussian, Min: 1, Max: 10, Stdvrng: 6}
	op, stubs := newTestMixedOp(clustering, map[string]uint64{"write": 1})

	for i := 0; i < 100; i++ {
		tag, err := op.Execute(context.Background(), int64(i))
		require.NoError(t, err)
		assert.Equal(t, "write", tag)
	}
	assert.Equal(t, uint64(100), stubs["write"].executed.Load())
}
