// Package option implements the `-name param...` option groups of the
// cassandra-stress command grammar.
package option

import (
	"fmt"
	"io"
	"sort"
)

// ParsePayload maps option cli strings (e.g. "-node") to their raw argument
// lists. Each option consumes its own entry while parsing; whatever is left
// afterwards is an unknown option.
type ParsePayload map[string][]string

// Take removes and returns the arguments of one option.
func (p ParsePayload) Take(cliString string) []string {
	args := p[cliString]
	delete(p, cliString)
	return args
}

// Remaining returns the cli strings that no option consumed, sorted for
// stable error messages.
func (p ParsePayload) Remaining() []string {
	var keys []string
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func writeSetting(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "  %s: %v\n", name, value)
}
