package option

import (
	"fmt"
	"io"
	"strings"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/settings/param"
)

// PopulationOption decides which partition seeds operations visit: either a
// wrapping sequence over a range, or samples of a random distribution.
type PopulationOption struct {
	Distribution generate.DistributionSpec
}

const PopulationCLIString = "-pop"

func PopulationDescription() string {
	return "Population distribution and intra-partition visit order"
}

type popParamHandles struct {
	seq  *param.SimpleParam
	dist *param.SimpleParam
}

func popParser() (*param.ParamsParser, popParamHandles) {
	pp := param.NewParamsParser(PopulationCLIString)

	seq := pp.Simple(
		"seq=",
		`^[0-9]+[bmk]?\.\.[0-9]+[bmk]?$`,
		"",
		"Generate all seeds in sequence, wrapping when the range is exhausted",
		false,
	)
	dist := pp.Simple(
		"dist=",
		param.PatternAny,
		"",
		"Seeds are selected from this distribution",
		false,
	)

	// Usage: -pop [seq=?]
	//  OR
	// Usage: -pop [dist=?]
	pp.Group(seq)
	pp.Group(dist)

	return pp, popParamHandles{seq: seq, dist: dist}
}

// ParsePopulationOption parses `-pop`. The default population follows the
// bounds of the run: SEQ(1..n) over the requested operation count.
func ParsePopulationOption(payload ParsePayload, opCount uint64) (*PopulationOption, error) {
	pp, handles := popParser()
	if err := pp.Parse(payload.Take(PopulationCLIString)); err != nil {
		return nil, err
	}

	if seq, ok := handles.seq.Get(); ok {
		spec, err := generate.ParseDistributionSpec(fmt.Sprintf("SEQ(%s)", seq))
		if err != nil {
			return nil, err
		}
		return &PopulationOption{Distribution: spec}, nil
	}

	if dist, ok := handles.dist.Get(); ok {
		spec, err := generate.ParseDistributionSpec(dist)
		if err != nil {
			return nil, err
		}
		if spec.Kind == generate.DistSeq {
			return nil, fmt.Errorf("use seq= for sequential population")
		}
		return &PopulationOption{Distribution: spec}, nil
	}

	max := int64(opCount)
	if max < 1 {
		max = 1
	}
	return &PopulationOption{
		Distribution: generate.DistributionSpec{Kind: generate.DistSeq, Min: 1, Max: max},
	}, nil
}

func PopulationHelp(w io.Writer) {
	pp, _ := popParser()
	pp.WriteHelp(w)
}

func (o *PopulationOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Population:")
	writeSetting(w, "Distribution", strings.ToLower(o.Distribution.String()))
}
