package generate

// Cassandra's Murmur3 partitioner is not the canonical MurmurHash3: it runs
// the x64/128 algorithm on signed 64-bit integers with Java overflow
// semantics and keeps only the low 64 bits of the result. The token of a
// partition key decides which node owns the row, so the math here has to
// match the server bit for bit.

const (
	murmurC1 int64 = 0x87c37b91114253d5 - (1 << 64)
	murmurC2 int64 = 0x4cf5ad432745937f

	murmurFmixA int64 = 0xff51afd7ed558ccd - (1 << 64)
	murmurFmixB int64 = 0xc4ceb9fe1a85ec53 - (1 << 64)
)

const murmurBufCapacity = 16

// Murmur3Hasher hashes a partition key fed in arbitrary chunks.
type Murmur3Hasher struct {
	totalLen int
	buf      [murmurBufCapacity]byte
	h1, h2   int64
}

// Murmur3Token hashes a complete serialized partition key.
func Murmur3Token(pk []byte) int64 {
	var h Murmur3Hasher
	h.Write(pk)
	return h.Finish()
}

func rotl64(v int64, n uint) int64 {
	return (v << n) | int64(uint64(v)>>(64-n))
}

func fmix(k int64) int64 {
	k ^= int64(uint64(k) >> 33)
	k *= murmurFmixA
	k ^= int64(uint64(k) >> 33)
	k *= murmurFmixB
	k ^= int64(uint64(k) >> 33)
	return k
}

func loadInt64LE(b []byte) int64 {
	return int64(uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56)
}

func (m *Murmur3Hasher) hash16Bytes(k1, k2 int64) {
	k1 *= murmurC1
	k1 = rotl64(k1, 31)
	k1 *= murmurC2
	m.h1 ^= k1

	m.h1 = rotl64(m.h1, 27)
	m.h1 += m.h2
	m.h1 = m.h1*5 + 0x52dce729

	k2 *= murmurC2
	k2 = rotl64(k2, 33)
	k2 *= murmurC1
	m.h2 ^= k2

	m.h2 = rotl64(m.h2, 31)
	m.h2 += m.h1
	m.h2 = m.h2*5 + 0x38495ab5
}

func (m *Murmur3Hasher) Write(pkPart []byte) {
	bufLen := m.totalLen % murmurBufCapacity
	m.totalLen += len(pkPart)

	// Top up a partially filled buffer first.
	if bufLen > 0 && murmurBufCapacity-bufLen <= len(pkPart) {
		toWrite := murmurBufCapacity - bufLen
		copy(m.buf[bufLen:], pkPart[:toWrite])
		pkPart = pkPart[toWrite:]

		m.hash16Bytes(loadInt64LE(m.buf[:8]), loadInt64LE(m.buf[8:]))
		bufLen = 0
	}

	if bufLen == 0 {
		for len(pkPart) >= murmurBufCapacity {
			m.hash16Bytes(loadInt64LE(pkPart[:8]), loadInt64LE(pkPart[8:16]))
			pkPart = pkPart[murmurBufCapacity:]
		}
	}

	copy(m.buf[bufLen:], pkPart)
}

// Finish computes the token over everything written so far. The hasher state
// is left intact, so more chunks may still be appended afterwards.
func (m *Murmur3Hasher) Finish() int64 {
	h1, h2 := m.h1, m.h2

	var k1, k2 int64
	bufLen := m.totalLen % murmurBufCapacity

	if bufLen > 8 {
		for i := bufLen - 1; i >= 8; i-- {
			k2 ^= int64(int8(m.buf[i])) << uint((i-8)*8)
		}
		k2 *= murmurC2
		k2 = rotl64(k2, 33)
		k2 *= murmurC1
		h2 ^= k2
	}

	if bufLen > 0 {
		tail := bufLen
		if tail > 8 {
			tail = 8
		}
		for i := tail - 1; i >= 0; i-- {
			k1 ^= int64(int8(m.buf[i])) << uint(i*8)
		}
		k1 *= murmurC1
		k1 = rotl64(k1, 31)
		k1 *= murmurC2
		h1 ^= k1
	}

	h1 ^= int64(m.totalLen)
	h2 ^= int64(m.totalLen)

	h1 += h2
	h2 += h1

	h1 = fmix(h1)
	h2 = fmix(h2)

	h1 += h2

	return h1
}
