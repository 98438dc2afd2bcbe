package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gocql/gocql"

	"github.com/cqlstress/cql-stress/profile"
	"github.com/cqlstress/cql-stress/settings/option"
)

// Standard benchmark tables, same layout the Java cassandra-stress creates.
const (
	StandardTable = "standard1"
	CounterTable  = "counter1"
)

// SetupSchema creates the keyspace and both standard tables if needed.
func SetupSchema(session *gocql.Session, schema *option.SchemaOption, columnCount uint64) error {
	statements := []string{
		KeyspaceStatement(schema),
		standardTableStatement(schema, columnCount),
		counterTableStatement(schema, columnCount),
	}
	for _, stmt := range statements {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("failed to execute schema statement %q: %s", stmt, err)
		}
	}
	return nil
}

// SetupProfileSchema executes the optional schema definitions of a user
// profile. Profiles without definitions target existing schema.
func SetupProfileSchema(session *gocql.Session, p *profile.Profile) error {
	for _, stmt := range []string{p.KeyspaceDefinition, p.TableDefinition} {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("failed to execute profile schema statement: %s", err)
		}
	}
	return nil
}

// KeyspaceStatement renders the CREATE KEYSPACE statement with the configured
// replication map.
func KeyspaceStatement(schema *option.SchemaOption) string {
	options := map[string]string{
		"class": schema.ReplicationStrategy,
	}
	if len(schema.ReplicationArgs) == 0 {
		options["replication_factor"] = fmt.Sprintf("%d", schema.ReplicationFactor)
	}
	for key, value := range schema.ReplicationArgs {
		options[key] = value
	}

	return fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = %s",
		schema.Keyspace, renderOptionsMap(options),
	)
}

func standardTableStatement(schema *option.SchemaOption, columnCount uint64) string {
	return tableStatement(schema, StandardTable, "blob", columnCount)
}

func counterTableStatement(schema *option.SchemaOption, columnCount uint64) string {
	return tableStatement(schema, CounterTable, "counter", columnCount)
}

func tableStatement(schema *option.SchemaOption, table string, columnType string, columnCount uint64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (key blob PRIMARY KEY", schema.Keyspace, table)
	for _, name := range ColumnNames(columnCount) {
		fmt.Fprintf(&b, ", %s %s", name, columnType)
	}
	b.WriteString(")")

	var with []string
	if schema.CompactionStrategy != "" {
		options := map[string]string{"class": schema.CompactionStrategy}
		for key, value := range schema.CompactionArgs {
			options[key] = value
		}
		with = append(with, "compaction = "+renderOptionsMap(options))
	}
	if schema.Compression != "" {
		with = append(with, fmt.Sprintf("compression = {'class': '%s'}", schema.Compression))
	}
	if len(with) > 0 {
		b.WriteString(" WITH ")
		b.WriteString(strings.Join(with, " AND "))
	}
	return b.String()
}

// ColumnNames returns the value column names of the standard tables.
func ColumnNames(count uint64) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i)
	}
	return names
}

func renderOptionsMap(options map[string]string) string {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	// `class` always leads, the way the statement is usually written.
	sort.SliceStable(keys, func(i, j int) bool { return keys[i] == "class" && keys[j] != "class" })

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("'%s': '%s'", key, options[key]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
