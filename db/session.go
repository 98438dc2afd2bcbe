// Package db builds gocql sessions from parsed settings and creates the
// benchmark schema.
package db

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/cqlstress/cql-stress/settings"
	"github.com/cqlstress/cql-stress/settings/option"
)

const defaultRequestTimeout = 12 * time.Second

// NewSession connects to the cluster described by the settings. The session
// has no default keyspace; all statements are keyspace qualified.
func NewSession(s *settings.Settings) (*gocql.Session, error) {
	cluster := gocql.NewCluster(s.Node.Nodes...)
	cluster.Timeout = defaultRequestTimeout

	consistency, err := gocql.ParseConsistencyWrapper(s.Command.Consistency)
	if err != nil {
		return nil, fmt.Errorf("invalid consistency level %q: %s", s.Command.Consistency, err)
	}
	cluster.Consistency = consistency

	var policy gocql.HostSelectionPolicy = gocql.RoundRobinHostPolicy()
	if s.Node.Datacenter != "" {
		policy = gocql.DCAwareRoundRobinPolicy(s.Node.Datacenter)
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(policy)

	if s.Node.Whitelist {
		cluster.HostFilter = gocql.WhiteListHostFilter(s.Node.Nodes...)
	}

	if s.Mode.User != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: s.Mode.User,
			Password: s.Mode.Password,
		}
	}
	if s.Mode.Compression == option.CompressionSnappy {
		cluster.Compressor = gocql.SnappyCompressor{}
	}
	if s.Mode.ConnectionsPerHost != 0 {
		cluster.NumConns = int(s.Mode.ConnectionsPerHost)
	}

	if s.Transport.TLS {
		sslOpts := &gocql.SslOptions{EnableHostVerification: false}
		if s.Transport.CACert != "" {
			sslOpts.CaPath = s.Transport.CACert
			sslOpts.EnableHostVerification = true
		}
		cluster.SslOpts = sslOpts
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the cluster: %s", err)
	}
	return session, nil
}
