package option

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadWith(cliString string, args ...string) ParsePayload {
	return ParsePayload{cliString: args}
}

func TestNodeGoodParams(t *testing.T) {
	opt, err := ParseNodeOption(payloadWith(NodeCLIString, "whitelist", "127.0.0.1,localhost,192.168.0.1"))
	require.NoError(t, err)

	assert.Equal(t, "", opt.Datacenter)
	assert.True(t, opt.Whitelist)
	assert.Equal(t, []string{"127.0.0.1", "localhost", "192.168.0.1"}, opt.Nodes)
}

func TestNodeBadParams(t *testing.T) {
	_, err := ParseNodeOption(payloadWith(NodeCLIString, "whitelist", "127.0.0.1,localhost,192.168.0.1,"))
	assert.Error(t, err)
}

func TestNodeDefaults(t *testing.T) {
	opt, err := ParseNodeOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost"}, opt.Nodes)
	assert.False(t, opt.Whitelist)
}

func TestNodeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.txt")
	require.NoError(t, os.WriteFile(path, []byte("10.0.0.1\n\n10.0.0.2\n"), 0o644))

	opt, err := ParseNodeOption(payloadWith(NodeCLIString, "file="+path, "datacenter=dc1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, opt.Nodes)
	assert.Equal(t, "dc1", opt.Datacenter)
}

func TestNodeRejectsFileAndInlineList(t *testing.T) {
	_, err := ParseNodeOption(payloadWith(NodeCLIString, "file=nodes.txt", "127.0.0.1"))
	assert.Error(t, err)
}

func TestRateGoodParamsGroupOne(t *testing.T) {
	opt, err := ParseRateOption(payloadWith(RateCLIString, "threads=100", "throttle=15/s"))
	require.NoError(t, err)

	assert.Equal(t, ThreadsInfo{Threads: 100, Throttle: 15}, opt.Threads)
}

func TestRateGoodParamsGroupTwo(t *testing.T) {
	opt, err := ParseRateOption(payloadWith(RateCLIString, "threads<=200", "auto"))
	require.NoError(t, err)

	assert.Equal(t, ThreadsInfo{Auto: true, MinThreads: 4, MaxThreads: 200}, opt.Threads)
}

func TestRateBadParams(t *testing.T) {
	_, err := ParseRateOption(payloadWith(RateCLIString, "threads<=200", "auto", "fixed=10/s"))
	assert.Error(t, err)
}

func TestRateDefaultsToAuto(t *testing.T) {
	opt, err := ParseRateOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, ThreadsInfo{Auto: true, MinThreads: 4, MaxThreads: 1000}, opt.Threads)
}

func TestRateThrottleAndFixedConflict(t *testing.T) {
	_, err := ParseRateOption(payloadWith(RateCLIString, "threads=8", "throttle=10/s", "fixed=10/s"))
	assert.Error(t, err)
}

func TestSchemaDefaults(t *testing.T) {
	opt, err := ParseSchemaOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, "keyspace1", opt.Keyspace)
	assert.Equal(t, "SimpleStrategy", opt.ReplicationStrategy)
	assert.Equal(t, uint64(1), opt.ReplicationFactor)
}

func TestSchemaReplicationMultiParam(t *testing.T) {
	opt, err := ParseSchemaOption(payloadWith(
		SchemaCLIString,
		"keyspace=ks_bench",
		"replication(strategy=org.apache.cassandra.locator.NetworkTopologyStrategy,dc1=3,dc2=2)",
	))
	require.NoError(t, err)

	assert.Equal(t, "ks_bench", opt.Keyspace)
	assert.Equal(t, "NetworkTopologyStrategy", opt.ReplicationStrategy)
	assert.Equal(t, map[string]string{"dc1": "3", "dc2": "2"}, opt.ReplicationArgs)
}

func TestSchemaCompaction(t *testing.T) {
	opt, err := ParseSchemaOption(payloadWith(
		SchemaCLIString,
		"compaction(strategy=LeveledCompactionStrategy,sstable_size_in_mb=220)",
	))
	require.NoError(t, err)

	assert.Equal(t, "LeveledCompactionStrategy", opt.CompactionStrategy)
	assert.Equal(t, map[string]string{"sstable_size_in_mb": "220"}, opt.CompactionArgs)
}

func TestModeCredentialsMustPair(t *testing.T) {
	_, err := ParseModeOption(payloadWith(ModeCLIString, "user=cassandra"))
	assert.Error(t, err)

	opt, err := ParseModeOption(payloadWith(ModeCLIString, "user=cassandra", "password=cassandra"))
	require.NoError(t, err)
	assert.Equal(t, "cassandra", opt.User)
}

func TestModeCompression(t *testing.T) {
	opt, err := ParseModeOption(ParsePayload{})
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, opt.Compression)

	opt, err = ParseModeOption(payloadWith(ModeCLIString, "compression=snappy"))
	require.NoError(t, err)
	assert.Equal(t, CompressionSnappy, opt.Compression)

	_, err = ParseModeOption(payloadWith(ModeCLIString, "compression=lz4"))
	assert.Error(t, err)
}

func TestPopulationDefaultFollowsOpCount(t *testing.T) {
	opt, err := ParsePopulationOption(ParsePayload{}, 50_000)
	require.NoError(t, err)

	want := generate.DistributionSpec{Kind: generate.DistSeq, Min: 1, Max: 50_000}
	assert.Equal(t, want, opt.Distribution)
}

func TestPopulationSeq(t *testing.T) {
	opt, err := ParsePopulationOption(payloadWith(PopulationCLIString, "seq=1..10m"), 0)
	require.NoError(t, err)

	assert.Equal(t, generate.DistSeq, opt.Distribution.Kind)
	assert.Equal(t, int64(10_000_000), opt.Distribution.Max)
}

func TestPopulationDist(t *testing.T) {
	opt, err := ParsePopulationOption(payloadWith(PopulationCLIString, "dist=uniform(1..1m)"), 0)
	require.NoError(t, err)

	assert.Equal(t, generate.DistUniform, opt.Distribution.Kind)
}

func TestPopulationRejectsSeqAndDistTogether(t *testing.T) {
	_, err := ParsePopulationOption(payloadWith(PopulationCLIString, "seq=1..10", "dist=uniform(1..10)"), 0)
	assert.Error(t, err)
}

func TestColumnDefaults(t *testing.T) {
	opt, err := ParseColumnOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, uint64(generate.DefaultColumnCount), opt.Count)
	assert.Equal(t, int64(generate.DefaultColumnSize), opt.Size.Min)
}

func TestColumnRejectsVariableCount(t *testing.T) {
	_, err := ParseColumnOption(payloadWith(ColumnCLIString, "n=uniform(1..5)"))
	assert.Error(t, err)
}

func TestColumnSizeDistribution(t *testing.T) {
	opt, err := ParseColumnOption(payloadWith(ColumnCLIString, "size=gaussian(16..128)"))
	require.NoError(t, err)

	assert.Equal(t, generate.DistGaussian, opt.Size.Kind)
}

func TestLogDefaults(t *testing.T) {
	opt, err := ParseLogOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, time.Second, opt.Interval)
	assert.False(t, opt.NoSummary)
}

func TestLogParams(t *testing.T) {
	opt, err := ParseLogOption(payloadWith(LogCLIString, "interval=5s", "hdrfile=lat.hdr.gz", "no-summary"))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, opt.Interval)
	assert.Equal(t, "lat.hdr.gz", opt.HdrFile)
	assert.True(t, opt.NoSummary)
}

func TestErrorsDefaults(t *testing.T) {
	opt, err := ParseErrorsOption(ParsePayload{})
	require.NoError(t, err)

	assert.Equal(t, uint64(9), opt.Retries)
	assert.False(t, opt.Ignore)
}

func TestTransportCACertRequiresTLS(t *testing.T) {
	_, err := ParseTransportOption(payloadWith(TransportCLIString, "ca-cert=/tmp/ca.pem"))
	assert.Error(t, err)

	opt, err := ParseTransportOption(payloadWith(TransportCLIString, "tls", "ca-cert=/tmp/ca.pem"))
	require.NoError(t, err)
	assert.True(t, opt.TLS)
}

func TestOptionHelpMentionsGroups(t *testing.T) {
	var out strings.Builder
	RateHelp(&out)

	assert.Contains(t, out.String(), "threads=?")
	assert.Contains(t, out.String(), " OR ")
}
