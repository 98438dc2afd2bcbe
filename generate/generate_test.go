package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values produced by java.util.Random.
func TestJavaRandomKnownValues(t *testing.T) {
	assert.Equal(t, int32(-1170105035), NewJavaRandom(42).NextInt())
	assert.Equal(t, int32(-1155484576), NewJavaRandom(0).NextInt())
}

func TestJavaRandomDeterminism(t *testing.T) {
	a := NewJavaRandom(12345)
	b := NewJavaRandom(12345)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.NextLong(), b.NextLong())
	}
}

func TestJavaRandomBound(t *testing.T) {
	r := NewJavaRandom(7)
	for i := 0; i < 1000; i++ {
		v := r.NextIntBound(37)
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(37))
	}
	// Power-of-two path.
	for i := 0; i < 1000; i++ {
		v := r.NextIntBound(64)
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(64))
	}
}

func TestJavaRandomNextDoubleRange(t *testing.T) {
	r := NewJavaRandom(99)
	for i := 0; i < 1000; i++ {
		v := r.NextDouble()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestJavaRandomNextBytesChunking(t *testing.T) {
	// nextBytes consumes full ints even for short tails, so prefixes of a
	// longer request must match a shorter request byte for byte.
	long := make([]byte, 11)
	NewJavaRandom(5).NextBytes(long)

	short := make([]byte, 8)
	NewJavaRandom(5).NextBytes(short)

	assert.Equal(t, long[:8], short)
}

func TestMurmur3EmptyInputIsZero(t *testing.T) {
	assert.Equal(t, int64(0), Murmur3Token(nil))
}

func TestMurmur3Deterministic(t *testing.T) {
	data := []byte("some partition key")
	assert.Equal(t, Murmur3Token(data), Murmur3Token(data))
	assert.NotEqual(t, Murmur3Token([]byte("key-a")), Murmur3Token([]byte("key-b")))
}

// Hashing in chunks must agree with hashing in one shot, across every split
// point of an input longer than the internal 16 byte buffer.
func TestMurmur3IncrementalWrites(t *testing.T) {
	data := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	want := Murmur3Token(data)

	for split := 0; split <= len(data); split++ {
		var h Murmur3Hasher
		h.Write(data[:split])
		h.Write(data[split:])
		assert.Equal(t, want, h.Finish(), "split at %d", split)
	}
}

func TestMurmur3LengthSensitivity(t *testing.T) {
	// Same bytes, different lengths must differ (length is mixed in).
	a := Murmur3Token(make([]byte, 8))
	b := Murmur3Token(make([]byte, 9))
	assert.NotEqual(t, a, b)
}

func TestParseDistributionSpec(t *testing.T) {
	cases := []struct {
		input string
		want  DistributionSpec
	}{
		{"FIXED(5)", DistributionSpec{Kind: DistFixed, Min: 5, Max: 5, Stdvrng: 6}},
		{"fixed(34)", DistributionSpec{Kind: DistFixed, Min: 34, Max: 34, Stdvrng: 6}},
		{"SEQ(1..1m)", DistributionSpec{Kind: DistSeq, Min: 1, Max: 1_000_000, Stdvrng: 6}},
		{"uniform(1..10k)", DistributionSpec{Kind: DistUniform, Min: 1, Max: 10_000, Stdvrng: 6}},
		{"GAUSSIAN(1..100)", DistributionSpec{Kind: DistGaussian, Min: 1, Max: 100, Stdvrng: 6}},
		{"gaussian(1..100,3)", DistributionSpec{Kind: DistGaussian, Min: 1, Max: 100, Stdvrng: 3}},
	}
	for _, c := range cases {
		got, err := ParseDistributionSpec(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}

	for _, bad := range []string{"", "exp(1..10)", "uniform(10..1)", "uniform(1)", "fixed(1..5)", "seq 1..5"} {
		_, err := ParseDistributionSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSequenceWrapsAround(t *testing.T) {
	s := NewSequence(1, 3)
	var got []int64
	for i := 0; i < 7; i++ {
		got = append(got, s.Next())
	}
	assert.Equal(t, []int64{1, 2, 3, 1, 2, 3, 1}, got)
}

func TestUniformSamplesStayInRange(t *testing.T) {
	spec := DistributionSpec{Kind: DistUniform, Min: 10, Max: 20}
	d := spec.New(1)
	for i := 0; i < 1000; i++ {
		v := d.Next()
		assert.GreaterOrEqual(t, v, int64(10))
		assert.LessOrEqual(t, v, int64(20))
	}
}

func TestGaussianSamplesStayInRange(t *testing.T) {
	spec := DistributionSpec{Kind: DistGaussian, Min: 1, Max: 100, Stdvrng: 6}
	d := spec.New(2)
	for i := 0; i < 1000; i++ {
		v := d.Next()
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(100))
	}
}

func TestRowGeneratorDeterministic(t *testing.T) {
	g := NewRowGenerator()

	require.Equal(t, g.Key(77), g.Key(77))
	require.Equal(t, g.Row(77), g.Row(77))
	assert.NotEqual(t, g.Key(77), g.Key(78))

	assert.Len(t, g.Key(77), DefaultKeySize)
	row := g.Row(77)
	require.Len(t, row, DefaultColumnCount)
	for _, col := range row {
		assert.Len(t, col, DefaultColumnSize)
	}
}

func TestRowGeneratorColumnsDiffer(t *testing.T) {
	g := NewRowGenerator()
	row := g.Row(123)
	assert.NotEqual(t, row[0], row[1])
}

func TestRowGeneratorTokenMatchesKey(t *testing.T) {
	g := NewRowGenerator()
	assert.Equal(t, Murmur3Token(g.Key(9)), g.Token(9))
}
