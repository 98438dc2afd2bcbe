package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
keyspace: blogposts
keyspace_definition: |
  CREATE KEYSPACE IF NOT EXISTS blogposts WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}
table: posts
table_definition: |
  CREATE TABLE IF NOT EXISTS blogposts.posts (author bigint PRIMARY KEY, title text, body blob)
columnspec:
  - name: author
    type: bigint
  - name: title
    type: text
    size: uniform(5..20)
  - name: body
    size: fixed(100)
queries:
  singlepost:
    cql: select title, body from blogposts.posts where author = ?
`

func TestParseProfile(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "blogposts", p.Keyspace)
	assert.Equal(t, "posts", p.Table)
	require.Len(t, p.ColumnSpec, 3)
	assert.Equal(t, "author", p.KeyColumn().Name)
	assert.Equal(t, "bigint", p.KeyColumn().Type)
	// Type defaults to blob.
	assert.Equal(t, "blob", p.ColumnSpec[2].Type)
	assert.Contains(t, p.Queries, "singlepost")
}

func TestParseProfileValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing keyspace", "table: t\ncolumnspec:\n  - name: key"},
		{"missing table", "keyspace: ks\ncolumnspec:\n  - name: key"},
		{"missing columnspec", "keyspace: ks\ntable: t"},
		{"unnamed column", "keyspace: ks\ntable: t\ncolumnspec:\n  - type: text"},
		{"duplicate column", "keyspace: ks\ntable: t\ncolumnspec:\n  - name: a\n  - name: a"},
		{"unsupported type", "keyspace: ks\ntable: t\ncolumnspec:\n  - name: a\n    type: varint"},
		{"sequential size", "keyspace: ks\ntable: t\ncolumnspec:\n  - name: a\n    size: seq(1..10)"},
		{"reserved query name", "keyspace: ks\ntable: t\ncolumnspec:\n  - name: a\nqueries:\n  insert:\n    cql: select\n"},
		{"query without cql", "keyspace: ks\ntable: t\ncolumnspec:\n  - name: a\nqueries:\n  q:\n    cql: \"\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLookupOp(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.NoError(t, p.LookupOp("insert"))
	assert.NoError(t, p.LookupOp("singlepost"))
	assert.Error(t, p.LookupOp("nosuchquery"))
}

func TestInsertStatement(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO blogposts.posts (author, title, body) VALUES (?, ?, ?)",
		p.InsertStatement(),
	)
}

func TestGenerateRowIsDeterministic(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	first := p.GenerateRow(42)
	second := p.GenerateRow(42)
	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	other := p.GenerateRow(43)
	assert.NotEqual(t, first[0], other[0])
}

func TestGenerateRowTypes(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	row := p.GenerateRow(7)

	_, ok := row[0].(int64)
	assert.True(t, ok, "bigint column generates int64")

	title, ok := row[1].(string)
	require.True(t, ok, "text column generates string")
	assert.GreaterOrEqual(t, len(title), 5)
	assert.LessOrEqual(t, len(title), 20)
	for _, r := range title {
		assert.True(t, strings.ContainsRune(textAlphabet, r))
	}

	body, ok := row[2].([]byte)
	require.True(t, ok, "blob column generates bytes")
	assert.Len(t, body, 100)
}

func TestGenerateKeyMatchesRow(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, p.GenerateRow(11)[0], p.GenerateKey(11))
}
