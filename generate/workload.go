package generate

// Default shape of the generated rows, matching the classic cassandra-stress
// `standard1` workload: a 10 byte partition key and five 34 byte columns.
const (
	DefaultKeySize     = 10
	DefaultColumnCount = 5
	DefaultColumnSize  = 34
)

// Seed mixing constant for per column generator streams (64-bit golden
// ratio), keeps neighbouring column streams uncorrelated.
const colSeedMix int64 = 0x9e3779b97f4a7c15 - (1 << 64)

// ColumnSeed derives the generator seed of one column from the row seed.
func ColumnSeed(seed int64, column int) int64 {
	return seed + int64(column+1)*colSeedMix
}

// RowGenerator derives complete rows from operation seeds. The same seed
// always yields the same row, which is what makes read validation possible:
// the reader regenerates the expected row locally and compares it to what
// the cluster returned.
type RowGenerator struct {
	KeySize     int
	ColumnCount int
	ColumnSize  DistributionSpec
}

func NewRowGenerator() *RowGenerator {
	return &RowGenerator{
		KeySize:     DefaultKeySize,
		ColumnCount: DefaultColumnCount,
		ColumnSize:  DistributionSpec{Kind: DistFixed, Min: DefaultColumnSize, Max: DefaultColumnSize},
	}
}

// Key returns the partition key blob for a seed.
func (g *RowGenerator) Key(seed int64) []byte {
	key := make([]byte, g.KeySize)
	NewJavaRandom(seed).NextBytes(key)
	return key
}

// Row returns all column values for a seed, in column order. Each column has
// its own generator stream so that a different column size distribution does
// not shift the bytes of its neighbours.
func (g *RowGenerator) Row(seed int64) [][]byte {
	columns := make([][]byte, g.ColumnCount)
	for i := range columns {
		rng := NewJavaRandom(ColumnSeed(seed, i))
		size := g.ColumnSize.SampleWith(rng)
		value := make([]byte, size)
		rng.NextBytes(value)
		columns[i] = value
	}
	return columns
}

// Token returns the Murmur3 token of the seed's partition key.
func (g *RowGenerator) Token(seed int64) int64 {
	return Murmur3Token(g.Key(seed))
}
