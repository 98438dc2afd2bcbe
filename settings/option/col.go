package option

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/settings/param"
)

// ColumnOption shapes the generated rows of the standard tables.
type ColumnOption struct {
	Count uint64
	Size  generate.DistributionSpec
}

const ColumnCLIString = "-col"

func ColumnDescription() string {
	return "Column count and value size distribution"
}

type colParamHandles struct {
	count *param.SimpleParam
	size  *param.SimpleParam
}

func colParser() (*param.ParamsParser, colParamHandles) {
	pp := param.NewParamsParser(ColumnCLIString)

	count := pp.Simple(
		"n=",
		param.PatternAny,
		fmt.Sprintf("FIXED(%d)", generate.DefaultColumnCount),
		"Number of columns per row, must be a FIXED distribution",
		false,
	)
	size := pp.Simple(
		"size=",
		param.PatternAny,
		fmt.Sprintf("FIXED(%d)", generate.DefaultColumnSize),
		"Value size distribution",
		false,
	)

	return pp, colParamHandles{count: count, size: size}
}

func ParseColumnOption(payload ParsePayload) (*ColumnOption, error) {
	pp, handles := colParser()
	if err := pp.Parse(payload.Take(ColumnCLIString)); err != nil {
		return nil, err
	}

	countValue, _ := handles.count.Get()
	countSpec, err := generate.ParseDistributionSpec(countValue)
	if err != nil {
		return nil, err
	}
	// The table layout is fixed at creation time, a varying column count
	// cannot be expressed in the standard schema.
	if countSpec.Kind != generate.DistFixed {
		return nil, fmt.Errorf("column count must be a FIXED distribution, got %s", countValue)
	}
	if countSpec.Min < 1 || countSpec.Min > math.MaxInt16 {
		return nil, fmt.Errorf("invalid column count %d", countSpec.Min)
	}

	sizeValue, _ := handles.size.Get()
	sizeSpec, err := generate.ParseDistributionSpec(sizeValue)
	if err != nil {
		return nil, err
	}
	if sizeSpec.Kind == generate.DistSeq {
		return nil, fmt.Errorf("column size cannot be sequential")
	}
	if sizeSpec.Min < 0 {
		return nil, fmt.Errorf("invalid column size distribution %s", sizeValue)
	}

	return &ColumnOption{Count: uint64(countSpec.Min), Size: sizeSpec}, nil
}

func ColumnHelp(w io.Writer) {
	pp, _ := colParser()
	pp.WriteHelp(w)
}

func (o *ColumnOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Columns:")
	writeSetting(w, "Count", o.Count)
	writeSetting(w, "Size", strings.ToLower(o.Size.String()))
}
