package generate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cqlstress/cql-stress/settings/param"
)

// DistributionKind selects one of the supported sampling schemes.
type DistributionKind int

const (
	DistFixed DistributionKind = iota
	DistSeq
	DistUniform
	DistGaussian
)

// DistributionSpec is a parsed distribution description, e.g. `UNIFORM(1..10m)`.
// A spec can be instantiated into independent Distribution instances, or
// sampled directly against a caller owned JavaRandom when the sampled value
// must be reproducible from a row seed.
type DistributionSpec struct {
	Kind     DistributionKind
	Min, Max int64
	// Number of standard deviations covered by the [Min, Max] range of a
	// gaussian distribution.
	Stdvrng float64
}

var distPattern = regexp.MustCompile(`(?i)^(fixed|seq|uniform|gaussian)\((.*)\)$`)

// ParseDistributionSpec parses the cassandra-stress distribution grammar:
//
//	FIXED(val)             always the same value
//	SEQ(min..max)          sequential, wrapping around
//	UNIFORM(min..max)      uniform over the inclusive range
//	GAUSSIAN(min..max[,stdvrng])  normal centered in the range
//
// Bounds accept the usual [bmk] count suffixes.
func ParseDistributionSpec(s string) (DistributionSpec, error) {
	spec := DistributionSpec{Stdvrng: 6}

	groups := distPattern.FindStringSubmatch(s)
	if groups == nil {
		return spec, fmt.Errorf("invalid distribution specification: %q", s)
	}

	name := strings.ToLower(groups[1])
	args := strings.Split(groups[2], ",")

	if name == "fixed" {
		if len(args) != 1 {
			return spec, fmt.Errorf("FIXED takes a single value: %q", s)
		}
		value, err := parseDistBound(args[0])
		if err != nil {
			return spec, err
		}
		spec.Kind = DistFixed
		spec.Min, spec.Max = value, value
		return spec, nil
	}

	min, max, err := parseDistRange(args[0])
	if err != nil {
		return spec, err
	}
	spec.Min, spec.Max = min, max

	switch name {
	case "seq":
		spec.Kind = DistSeq
		if len(args) != 1 {
			return spec, fmt.Errorf("SEQ takes a single range: %q", s)
		}
	case "uniform":
		spec.Kind = DistUniform
		if len(args) != 1 {
			return spec, fmt.Errorf("UNIFORM takes a single range: %q", s)
		}
	case "gaussian":
		spec.Kind = DistGaussian
		if len(args) == 2 {
			stdvrng, err := strconv.ParseFloat(args[1], 64)
			if err != nil || stdvrng <= 0 {
				return spec, fmt.Errorf("invalid stdvrng in %q", s)
			}
			spec.Stdvrng = stdvrng
		} else if len(args) != 1 {
			return spec, fmt.Errorf("GAUSSIAN takes a range and an optional stdvrng: %q", s)
		}
	}
	return spec, nil
}

func parseDistRange(s string) (int64, int64, error) {
	bounds := strings.SplitN(s, "..", 2)
	if len(bounds) != 2 {
		return 0, 0, fmt.Errorf("invalid distribution range: %q", s)
	}

	min, err := parseDistBound(bounds[0])
	if err != nil {
		return 0, 0, err
	}
	max, err := parseDistBound(bounds[1])
	if err != nil {
		return 0, 0, err
	}
	if min > max {
		return 0, 0, fmt.Errorf("empty distribution range: %q", s)
	}
	return min, max, nil
}

func parseDistBound(s string) (int64, error) {
	value, err := param.ParseCount(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("distribution bound %q out of range", s)
	}
	return int64(value), nil
}

func (s DistributionSpec) String() string {
	switch s.Kind {
	case DistFixed:
		return fmt.Sprintf("FIXED(%d)", s.Min)
	case DistSeq:
		return fmt.Sprintf("SEQ(%d..%d)", s.Min, s.Max)
	case DistUniform:
		return fmt.Sprintf("UNIFORM(%d..%d)", s.Min, s.Max)
	case DistGaussian:
		return fmt.Sprintf("GAUSSIAN(%d..%d,%g)", s.Min, s.Max, s.Stdvrng)
	}
	return "UNKNOWN"
}

// SampleWith draws one value using the supplied generator. SEQ specs cannot
// be sampled this way; they need the shared state of a Sequence.
func (s DistributionSpec) SampleWith(r *JavaRandom) int64 {
	switch s.Kind {
	case DistFixed:
		return s.Min
	case DistUniform:
		span := s.Max - s.Min + 1
		if span <= 0 || span > math.MaxInt32 {
			// Wide ranges go through NextDouble to avoid bound overflow.
			return s.Min + int64(r.NextDouble()*float64(s.Max-s.Min+1))
		}
		return s.Min + int64(r.NextIntBound(int32(span)))
	case DistGaussian:
		mean := float64(s.Min+s.Max) / 2
		stdev := float64(s.Max-s.Min) / s.Stdvrng
		value := int64(math.Round(r.NextGaussian()*stdev + mean))
		if value < s.Min {
			value = s.Min
		}
		if value > s.Max {
			value = s.Max
		}
		return value
	}
	panic(fmt.Sprintf("distribution %s cannot be sampled statelessly", s))
}

// ----------------------------------------------------------------------------

// Distribution is a stream of sampled values.
type Distribution interface {
	Next() int64
	Spec() DistributionSpec
}

// New builds an independent sampler seeded with the given seed. SEQ specs
// should instead share a single NewSequence between all consumers.
func (s DistributionSpec) New(seed int64) Distribution {
	if s.Kind == DistSeq {
		return NewSequence(s.Min, s.Max)
	}
	return &randomDistribution{spec: s, rng: NewJavaRandom(seed)}
}

type randomDistribution struct {
	spec DistributionSpec
	rng  *JavaRandom
}

func (d *randomDistribution) Next() int64            { return d.spec.SampleWith(d.rng) }
func (d *randomDistribution) Spec() DistributionSpec { return d.spec }

// Sequence hands out min..max in order and wraps around. It is safe for
// concurrent use, all workers draw from the one shared counter.
type Sequence struct {
	min, max int64
	next     atomic.Int64
}

func NewSequence(min, max int64) *Sequence {
	s := &Sequence{min: min, max: max}
	s.next.Store(min)
	return s
}

func (s *Sequence) Next() int64 {
	n := s.next.Add(1) - 1
	span := s.max - s.min + 1
	return s.min + (n-s.min)%span
}

func (s *Sequence) Spec() DistributionSpec {
	return DistributionSpec{Kind: DistSeq, Min: s.min, Max: s.max}
}
