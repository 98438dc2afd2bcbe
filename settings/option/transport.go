package option

import (
	"fmt"
	"io"

	"github.com/cqlstress/cql-stress/settings/param"
)

// TransportOption enables TLS towards the cluster.
type TransportOption struct {
	TLS    bool
	CACert string
}

const TransportCLIString = "-transport"

func TransportDescription() string {
	return "Transport level security options"
}

type transportParamHandles struct {
	tls    *param.SimpleParam
	caCert *param.SimpleParam
}

func transportParser() (*param.ParamsParser, transportParamHandles) {
	pp := param.NewParamsParser(TransportCLIString)

	tls := pp.Simple("tls", param.PatternFlag, "", "Connect using TLS", false)
	caCert := pp.Simple("ca-cert=", param.PatternAny, "", "Path of the PEM CA certificate to trust", false)

	return pp, transportParamHandles{tls: tls, caCert: caCert}
}

func ParseTransportOption(payload ParsePayload) (*TransportOption, error) {
	pp, handles := transportParser()
	if err := pp.Parse(payload.Take(TransportCLIString)); err != nil {
		return nil, err
	}

	opt := &TransportOption{
		TLS:    handles.tls.SuppliedByUser(),
		CACert: handles.caCert.GetString(),
	}
	if opt.CACert != "" && !opt.TLS {
		return nil, fmt.Errorf("ca-cert requires the tls flag")
	}
	return opt, nil
}

func TransportHelp(w io.Writer) {
	pp, _ := transportParser()
	pp.WriteHelp(w)
}

func (o *TransportOption) WriteSettings(w io.Writer) {
	if !o.TLS {
		return
	}
	fmt.Fprintln(w, "Transport:")
	writeSetting(w, "TLS", o.TLS)
	if o.CACert != "" {
		writeSetting(w, "CA Cert", o.CACert)
	}
}
