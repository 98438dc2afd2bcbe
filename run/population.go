package run

import "github.com/cqlstress/cql-stress/generate"

// SeedSource produces the partition seed for the next operation of one worker.
type SeedSource func() int64

// NewSeedSources builds one seed source per worker. Sequential populations
// share a single wrapping counter, so the range is visited exactly once per
// cycle across all workers; random populations get independent generators.
func NewSeedSources(spec generate.DistributionSpec, workers int) []SeedSource {
	sources := make([]SeedSource, workers)

	if spec.Kind == generate.DistSeq {
		seq := generate.NewSequence(spec.Min, spec.Max)
		for i := range sources {
			sources[i] = seq.Next
		}
		return sources
	}

	for i := range sources {
		dist := spec.New(int64(i)*2654435761 + 1)
		sources[i] = dist.Next
	}
	return sources
}
