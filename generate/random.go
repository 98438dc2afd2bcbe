package generate

import "math"

const (
	javaMultiplier = 0x5DEECE66D
	javaAddend     = 0xB
	javaMask       = (1 << 48) - 1
)

// JavaRandom reproduces the 48-bit linear congruential generator of
// java.util.Random, so workloads generated by this tool line up byte for byte
// with the ones produced by the Java cassandra-stress.
type JavaRandom struct {
	seed int64

	nextGaussian    float64
	hasNextGaussian bool
}

func NewJavaRandom(seed int64) *JavaRandom {
	r := &JavaRandom{}
	r.SetSeed(seed)
	return r
}

func (r *JavaRandom) SetSeed(seed int64) {
	r.seed = (seed ^ javaMultiplier) & javaMask
	r.hasNextGaussian = false
}

func (r *JavaRandom) next(bits uint) int32 {
	r.seed = (r.seed*javaMultiplier + javaAddend) & javaMask
	return int32(r.seed >> (48 - bits))
}

func (r *JavaRandom) NextInt() int32 {
	return r.next(32)
}

// NextIntBound returns a uniform value in [0, bound).
func (r *JavaRandom) NextIntBound(bound int32) int32 {
	if bound <= 0 {
		panic("bound must be positive")
	}

	if bound&-bound == bound {
		// Power of two.
		return int32((int64(bound) * int64(r.next(31))) >> 31)
	}

	var bits, val int32
	for {
		bits = r.next(31)
		val = bits % bound
		if bits-val+(bound-1) >= 0 {
			return val
		}
	}
}

func (r *JavaRandom) NextLong() int64 {
	return int64(r.next(32))<<32 + int64(r.next(32))
}

func (r *JavaRandom) NextDouble() float64 {
	return float64(int64(r.next(26))<<27+int64(r.next(27))) / (1 << 53)
}

// NextGaussian uses the polar method the JDK uses, including caching of the
// second generated value.
func (r *JavaRandom) NextGaussian() float64 {
	if r.hasNextGaussian {
		r.hasNextGaussian = false
		return r.nextGaussian
	}

	var v1, v2, s float64
	for {
		v1 = 2*r.NextDouble() - 1
		v2 = 2*r.NextDouble() - 1
		s = v1*v1 + v2*v2
		if s < 1 && s != 0 {
			break
		}
	}
	multiplier := math.Sqrt(-2 * math.Log(s) / s)
	r.nextGaussian = v2 * multiplier
	r.hasNextGaussian = true
	return v1 * multiplier
}

func (r *JavaRandom) NextBytes(p []byte) {
	for i := 0; i < len(p); {
		rnd := r.NextInt()
		n := len(p) - i
		if n > 4 {
			n = 4
		}
		for ; n > 0; n-- {
			p[i] = byte(rnd)
			i++
			rnd >>= 8
		}
	}
}
