// Package profile loads user workload definitions from YAML files: the
// target keyspace and table, the column layout with per column value
// generators, and the named queries the ops() ratio refers to.
package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/cqlstress/cql-stress/generate"
)

// Profile describes a user defined workload.
type Profile struct {
	Keyspace           string           `yaml:"keyspace"`
	KeyspaceDefinition string           `yaml:"keyspace_definition"`
	Table              string           `yaml:"table"`
	TableDefinition    string           `yaml:"table_definition"`
	ColumnSpec         []Column         `yaml:"columnspec"`
	Queries            map[string]Query `yaml:"queries"`
}

// Column is one entry of the columnspec. The first column is the partition
// key. Size only applies to text and blob columns.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Size string `yaml:"size"`

	sizeSpec generate.DistributionSpec
}

// Query is a named statement from the queries section. The generated
// partition key value is bound to every placeholder.
type Query struct {
	CQL string `yaml:"cql"`
}

// InsertOpName is the reserved ops() name for inserting a full generated row.
const InsertOpName = "insert"

const defaultColumnSizeSpec = "FIXED(10)"

var columnTypes = map[string]bool{
	"bigint": true,
	"text":   true,
	"blob":   true,
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %s", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %s", path, err)
	}
	return p, nil
}

// Parse decodes and validates profile YAML.
func Parse(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %s", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.Keyspace == "" {
		return fmt.Errorf("profile must name a keyspace")
	}
	if p.Table == "" {
		return fmt.Errorf("profile must name a table")
	}
	if len(p.ColumnSpec) == 0 {
		return fmt.Errorf("profile must define a columnspec")
	}

	seen := map[string]bool{}
	for i := range p.ColumnSpec {
		column := &p.ColumnSpec[i]
		if column.Name == "" {
			return fmt.Errorf("columnspec entry %d has no name", i)
		}
		if seen[column.Name] {
			return fmt.Errorf("duplicate column %q in columnspec", column.Name)
		}
		seen[column.Name] = true

		if column.Type == "" {
			column.Type = "blob"
		}
		column.Type = strings.ToLower(column.Type)
		if !columnTypes[column.Type] {
			return fmt.Errorf("unsupported type %q for column %q", column.Type, column.Name)
		}

		size := column.Size
		if size == "" {
			size = defaultColumnSizeSpec
		}
		spec, err := generate.ParseDistributionSpec(size)
		if err != nil {
			return fmt.Errorf("invalid size for column %q: %s", column.Name, err)
		}
		if spec.Kind == generate.DistSeq || spec.Min < 1 {
			return fmt.Errorf("invalid size distribution %q for column %q", size, column.Name)
		}
		column.sizeSpec = spec
	}

	for name, query := range p.Queries {
		if name == InsertOpName {
			return fmt.Errorf("query name %q is reserved for the generated insert", InsertOpName)
		}
		if strings.TrimSpace(query.CQL) == "" {
			return fmt.Errorf("query %q has no cql", name)
		}
	}
	return nil
}

// KeyColumn returns the partition key column.
func (p *Profile) KeyColumn() *Column {
	return &p.ColumnSpec[0]
}

// LookupOp checks that an ops() name refers to something the profile defines.
func (p *Profile) LookupOp(name string) error {
	if name == InsertOpName {
		return nil
	}
	if _, ok := p.Queries[name]; !ok {
		return fmt.Errorf("profile defines no query named %q", name)
	}
	return nil
}

// InsertStatement renders the INSERT covering every columnspec column.
func (p *Profile) InsertStatement() string {
	names := make([]string, len(p.ColumnSpec))
	for i, column := range p.ColumnSpec {
		names[i] = column.Name
	}
	return fmt.Sprintf(
		"INSERT INTO %s.%s (%s) VALUES (?%s)",
		p.Keyspace, p.Table,
		strings.Join(names, ", "),
		strings.Repeat(", ?", len(names)-1),
	)
}

// GenerateRow derives the typed values of all columns from a seed. Like the
// standard workload, the same seed always produces the same row.
func (p *Profile) GenerateRow(seed int64) []any {
	values := make([]any, len(p.ColumnSpec))
	for i := range p.ColumnSpec {
		values[i] = p.ColumnSpec[i].generateValue(generate.ColumnSeed(seed, i))
	}
	return values
}

// GenerateKey derives only the partition key value from a seed.
func (p *Profile) GenerateKey(seed int64) any {
	return p.ColumnSpec[0].generateValue(generate.ColumnSeed(seed, 0))
}

const textAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (c *Column) generateValue(seed int64) any {
	rng := generate.NewJavaRandom(seed)
	switch c.Type {
	case "bigint":
		return rng.NextLong()
	case "text":
		size := c.sizeSpec.SampleWith(rng)
		value := make([]byte, size)
		for i := range value {
			value[i] = textAlphabet[rng.NextIntBound(int32(len(textAlphabet)))]
		}
		return string(value)
	default: // blob
		size := c.sizeSpec.SampleWith(rng)
		value := make([]byte, size)
		rng.NextBytes(value)
		return value
	}
}
