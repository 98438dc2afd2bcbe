package param

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleParamValueValidation(t *testing.T) {
	p := NewSimple("threads=", PatternUint, "", "client count", true)

	ok, err := p.TryMatch("threads=100")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, p.Parse("threads=100"))

	p.setSatisfied()
	value, ok := p.Get()
	require.True(t, ok)
	assert.Equal(t, "100", value)

	n, ok := p.GetUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(100), n)
}

func TestSimpleParamRejectsPatternMismatch(t *testing.T) {
	p := NewSimple("threads=", PatternUint, "", "client count", true)
	assert.Error(t, p.Parse("threads=lots"))
}

func TestSimpleParamDuplicate(t *testing.T) {
	p := NewSimple("auto", PatternFlag, "", "", false)
	require.NoError(t, p.Parse("auto"))

	_, err := p.TryMatch("auto")
	assert.Error(t, err)
}

func TestSimpleParamDefault(t *testing.T) {
	p := NewSimple("factor=", PatternUint, "1", "replica count", false)
	p.setSatisfied()

	value, ok := p.Get()
	require.True(t, ok)
	assert.Equal(t, "1", value)
}

func TestParserGroupSelection(t *testing.T) {
	pp := NewParamsParser("-rate")
	threads := pp.Simple("threads=", PatternUint, "", "", true)
	throttle := pp.Simple("throttle=", PatternRate, "", "", false)
	minThreads := pp.Simple("threads>=", PatternUint, "4", "", false)
	maxThreads := pp.Simple("threads<=", PatternUint, "1000", "", false)
	auto := pp.Simple("auto", PatternFlag, "", "", false)
	pp.Group(threads, throttle)
	pp.Group(minThreads, maxThreads, auto)

	require.NoError(t, pp.Parse([]string{"threads=32", "throttle=100/s"}))

	n, ok := threads.GetUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(32), n)
	assert.Equal(t, "100/s", throttle.GetString())

	// The other group must stay unsatisfied, defaults included.
	_, ok = minThreads.Get()
	assert.False(t, ok)
}

func TestParserGroupDefaultsWhenEmpty(t *testing.T) {
	pp := NewParamsParser("-rate")
	threads := pp.Simple("threads=", PatternUint, "", "", true)
	minThreads := pp.Simple("threads>=", PatternUint, "4", "", false)
	maxThreads := pp.Simple("threads<=", PatternUint, "1000", "", false)
	pp.Group(threads)
	pp.Group(minThreads, maxThreads)

	// First group misses its required parameter, second one is picked.
	require.NoError(t, pp.Parse(nil))

	_, ok := threads.Get()
	assert.False(t, ok)

	n, ok := minThreads.GetUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(4), n)
}

func TestParserRejectsCrossGroupMix(t *testing.T) {
	pp := NewParamsParser("-rate")
	threads := pp.Simple("threads=", PatternUint, "", "", true)
	auto := pp.Simple("auto", PatternFlag, "", "", false)
	pp.Group(threads)
	pp.Group(auto)

	assert.Error(t, pp.Parse([]string{"threads=8", "auto"}))
}

func TestParserRejectsUnknownParameter(t *testing.T) {
	pp := NewParamsParser("-node")
	pp.Simple("datacenter=", PatternAny, "", "", false)

	assert.Error(t, pp.Parse([]string{"bogus("}))
}

func TestParserHelpListsGroups(t *testing.T) {
	pp := NewParamsParser("-rate")
	threads := pp.Simple("threads=", PatternUint, "", "run this many clients concurrently", true)
	auto := pp.Simple("auto", PatternFlag, "", "stop increasing threads once throughput saturates", false)
	pp.Group(threads)
	pp.Group(auto)

	var out strings.Builder
	pp.WriteHelp(&out)
	help := out.String()

	assert.Contains(t, help, "Usage: -rate threads=?")
	assert.Contains(t, help, " OR ")
	assert.Contains(t, help, "[auto]")
}

func TestMultiParamArbitrary(t *testing.T) {
	p := NewMulti("replication", nil, "description", false, true)

	require.NoError(t, p.Parse("replication(foo=bar,key=value,gear=five)"))
	p.setSatisfied()

	parsed := p.GetArbitrary()
	assert.Equal(t, "bar", parsed["foo"])
	assert.Equal(t, "value", parsed["key"])
	assert.Equal(t, "five", parsed["gear"])
}

func TestMultiParamPredefinedSubparam(t *testing.T) {
	factor := NewSimple("factor=", PatternUint, "1", "replica count", false)
	p := NewMulti("replication", []*SimpleParam{factor}, "", false, true)

	ok, err := p.TryMatch("replication(factor=3,dc1=2)")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, p.Parse("replication(factor=3,dc1=2)"))
	p.setSatisfied()

	n, ok := factor.GetUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, map[string]string{"dc1": "2"}, p.GetArbitrary())
}

func TestMultiParamRejectsArbitraryWhenNotAccepted(t *testing.T) {
	p := NewMulti("ratio", nil, "", false, false)
	assert.Error(t, p.Parse("ratio(write=1)"))
}

func TestMultiParamRequiresParenthesis(t *testing.T) {
	p := NewMulti("replication", nil, "", false, true)
	_, err := p.TryMatch("replication=3")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"90s", 90 * time.Second},
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}

	_, err := ParseDuration("10d")
	assert.Error(t, err)
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		input string
		want  uint64
	}{
		{"500", 500},
		{"10k", 10_000},
		{"5m", 5_000_000},
		{"1b", 1_000_000_000},
	}
	for _, c := range cases {
		got, err := ParseCount(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}

	_, err := ParseCount("10x")
	assert.Error(t, err)
}

func TestParsePerSecond(t *testing.T) {
	got, err := ParsePerSecond("1500/s")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), got)

	_, err = ParsePerSecond("1500")
	assert.Error(t, err)
}

func TestParseCommaList(t *testing.T) {
	got, err := ParseCommaList("127.0.0.1,localhost,192.168.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "localhost", "192.168.0.1"}, got)

	_, err = ParseCommaList("127.0.0.1,localhost,")
	assert.Error(t, err)
}

func TestParseRatio(t *testing.T) {
	got, err := ParseRatio("0.25")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-9)

	_, err = ParseRatio("1.5")
	assert.Error(t, err)
}
