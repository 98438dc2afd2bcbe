package option

import (
	"fmt"
	"io"

	"github.com/cqlstress/cql-stress/settings/param"
)

// ErrorsOption decides how operation failures are treated.
type ErrorsOption struct {
	Retries uint64
	Ignore  bool
}

const ErrorsCLIString = "-errors"

func ErrorsDescription() string {
	return "How to handle operation errors"
}

type errorsParamHandles struct {
	retries *param.SimpleParam
	ignore  *param.SimpleParam
}

func errorsParser() (*param.ParamsParser, errorsParamHandles) {
	pp := param.NewParamsParser(ErrorsCLIString)

	retries := pp.Simple(
		"retries=",
		param.PatternUint,
		"9",
		"Number of times to try each operation before failing",
		false,
	)
	ignore := pp.Simple(
		"ignore",
		param.PatternFlag,
		"",
		"Do not fail on errors; count them and continue",
		false,
	)

	return pp, errorsParamHandles{retries: retries, ignore: ignore}
}

func ParseErrorsOption(payload ParsePayload) (*ErrorsOption, error) {
	pp, handles := errorsParser()
	if err := pp.Parse(payload.Take(ErrorsCLIString)); err != nil {
		return nil, err
	}

	retries, _ := handles.retries.GetUint64()
	return &ErrorsOption{
		Retries: retries,
		Ignore:  handles.ignore.SuppliedByUser(),
	}, nil
}

func ErrorsHelp(w io.Writer) {
	pp, _ := errorsParser()
	pp.WriteHelp(w)
}

func (o *ErrorsOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Errors:")
	writeSetting(w, "Retries", o.Retries)
	writeSetting(w, "Ignore", o.Ignore)
}
