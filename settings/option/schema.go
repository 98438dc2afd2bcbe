package option

import (
	"fmt"
	"io"
	"strings"

	"github.com/cqlstress/cql-stress/settings/param"
)

// SchemaOption describes the keyspace and tables the tool creates and
// benchmarks against.
type SchemaOption struct {
	Keyspace            string
	ReplicationStrategy string
	ReplicationFactor   uint64
	// Extra replication options, e.g. per datacenter factors for
	// NetworkTopologyStrategy.
	ReplicationArgs map[string]string

	CompactionStrategy string
	CompactionArgs     map[string]string
	Compression        string
}

const SchemaCLIString = "-schema"

const defaultReplicationStrategy = "SimpleStrategy"

func SchemaDescription() string {
	return "Replication settings, compression, compaction, etc."
}

type schemaParamHandles struct {
	keyspace            *param.SimpleParam
	replication         *param.MultiParam
	replicationStrategy *param.SimpleParam
	replicationFactor   *param.SimpleParam
	compaction          *param.MultiParam
	compactionStrategy  *param.SimpleParam
	compression         *param.SimpleParam
}

func schemaParser() (*param.ParamsParser, schemaParamHandles) {
	pp := param.NewParamsParser(SchemaCLIString)

	keyspace := pp.Simple("keyspace=", param.PatternAny, "keyspace1", "The keyspace name to use", false)

	replicationStrategy := param.NewSimple(
		"strategy=",
		param.PatternAny,
		defaultReplicationStrategy,
		"The replication strategy to use",
		false,
	)
	replicationFactor := param.NewSimple(
		"factor=",
		param.PatternUint,
		"1",
		"The number of replicas",
		false,
	)
	replication := pp.Multi(
		"replication",
		[]*param.SimpleParam{replicationStrategy, replicationFactor},
		"Define the replication strategy and any parameters",
		false,
		true,
	)

	compactionStrategy := param.NewSimple(
		"strategy=",
		param.PatternAny,
		"",
		"The compaction strategy to use",
		false,
	)
	compaction := pp.Multi(
		"compaction",
		[]*param.SimpleParam{compactionStrategy},
		"Define the compaction strategy and any parameters",
		false,
		true,
	)

	compression := pp.Simple("compression=", param.PatternAny, "", "Specify the compression to use for sstables", false)

	return pp, schemaParamHandles{
		keyspace:            keyspace,
		replication:         replication,
		replicationStrategy: replicationStrategy,
		replicationFactor:   replicationFactor,
		compaction:          compaction,
		compactionStrategy:  compactionStrategy,
		compression:         compression,
	}
}

func ParseSchemaOption(payload ParsePayload) (*SchemaOption, error) {
	pp, handles := schemaParser()
	if err := pp.Parse(payload.Take(SchemaCLIString)); err != nil {
		return nil, err
	}

	strategy := handles.replicationStrategy.GetString()
	if strategy == "" {
		strategy = defaultReplicationStrategy
	}
	factor, ok := handles.replicationFactor.GetUint64()
	if !ok {
		factor = 1
	}

	return &SchemaOption{
		Keyspace:            handles.keyspace.GetString(),
		ReplicationStrategy: shortStrategyName(strategy),
		ReplicationFactor:   factor,
		ReplicationArgs:     handles.replication.GetArbitrary(),
		CompactionStrategy:  handles.compactionStrategy.GetString(),
		CompactionArgs:      handles.compaction.GetArbitrary(),
		Compression:         handles.compression.GetString(),
	}, nil
}

// shortStrategyName accepts both the short strategy name and the full Java
// class name cassandra-stress historically required.
func shortStrategyName(strategy string) string {
	if idx := strings.LastIndex(strategy, "."); idx >= 0 {
		return strategy[idx+1:]
	}
	return strategy
}

func SchemaHelp(w io.Writer) {
	pp, _ := schemaParser()
	pp.WriteHelp(w)
}

func (o *SchemaOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Schema:")
	writeSetting(w, "Keyspace", o.Keyspace)
	writeSetting(w, "Replication Strategy", o.ReplicationStrategy)
	writeSetting(w, "Replication Factor", o.ReplicationFactor)
	if len(o.ReplicationArgs) > 0 {
		writeSetting(w, "Replication Args", o.ReplicationArgs)
	}
	if o.CompactionStrategy != "" {
		writeSetting(w, "Compaction Strategy", o.CompactionStrategy)
	}
	if o.Compression != "" {
		writeSetting(w, "Compression", o.Compression)
	}
}
