package option

import (
	"fmt"
	"io"

	"github.com/cqlstress/cql-stress/settings/param"
)

// ModeOption configures the CQL connection: credentials, wire compression
// and connection pool size.
type ModeOption struct {
	User               string
	Password           string
	Compression        string
	ConnectionsPerHost uint64
}

const ModeCLIString = "-mode"

const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
)

func ModeDescription() string {
	return "CQL connection options"
}

type modeParamHandles struct {
	user        *param.SimpleParam
	password    *param.SimpleParam
	compression *param.SimpleParam
	connections *param.SimpleParam
}

func modeParser() (*param.ParamsParser, modeParamHandles) {
	pp := param.NewParamsParser(ModeCLIString)

	user := pp.Simple("user=", param.PatternAny, "", "username", false)
	password := pp.Simple("password=", param.PatternAny, "", "password", false)
	compression := pp.Simple(
		"compression=",
		`^(none|snappy)$`,
		CompressionNone,
		"client-server message compression",
		false,
	)
	connections := pp.Simple(
		"connections-per-host=",
		param.PatternUint,
		"",
		"number of connections per host",
		false,
	)

	return pp, modeParamHandles{
		user:        user,
		password:    password,
		compression: compression,
		connections: connections,
	}
}

func ParseModeOption(payload ParsePayload) (*ModeOption, error) {
	pp, handles := modeParser()
	if err := pp.Parse(payload.Take(ModeCLIString)); err != nil {
		return nil, err
	}

	opt := &ModeOption{
		User:        handles.user.GetString(),
		Password:    handles.password.GetString(),
		Compression: handles.compression.GetString(),
	}
	if (opt.User == "") != (opt.Password == "") {
		return nil, fmt.Errorf("user and password must be specified together")
	}
	opt.ConnectionsPerHost, _ = handles.connections.GetUint64()
	return opt, nil
}

func ModeHelp(w io.Writer) {
	pp, _ := modeParser()
	pp.WriteHelp(w)
}

func (o *ModeOption) WriteSettings(w io.Writer) {
	fmt.Fprintln(w, "Mode:")
	if o.User != "" {
		writeSetting(w, "Username", o.User)
	}
	writeSetting(w, "Compression", o.Compression)
	if o.ConnectionsPerHost != 0 {
		writeSetting(w, "Connections Per Host", o.ConnectionsPerHost)
	}
}
