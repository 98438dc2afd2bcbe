package param

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Param is a single unit of the cassandra-stress command grammar, either a
// `prefix=value` pair, a bare flag, or a `name(k=v,...)` multi parameter.
type Param interface {
	// TryMatch reports whether the given argument belongs to this parameter.
	// It returns an error when the argument clearly targets this parameter
	// but is malformed, e.g. supplied twice.
	TryMatch(arg string) (bool, error)
	// Parse consumes an argument that TryMatch accepted.
	Parse(arg string) error

	SuppliedByUser() bool
	Required() bool

	setSatisfied()

	WriteUsage(w io.Writer)
	WriteDesc(w io.Writer)
}

// ----------------------------------------------------------------------------

// SimpleParam handles arguments of form `prefix` (bare flag, empty pattern)
// or `prefixVALUE` where VALUE must match a regex pattern.
type SimpleParam struct {
	prefix       string
	pattern      *regexp.Regexp
	defaultValue string
	desc         string
	required     bool

	supplied  bool
	satisfied bool
	value     string
}

func NewSimple(prefix string, pattern string, defaultValue string, desc string, required bool) *SimpleParam {
	return &SimpleParam{
		prefix:       prefix,
		pattern:      regexp.MustCompile(pattern),
		defaultValue: defaultValue,
		desc:         desc,
		required:     required,
	}
}

func (p *SimpleParam) TryMatch(arg string) (bool, error) {
	if !strings.HasPrefix(arg, p.prefix) {
		return false, nil
	}
	if p.supplied {
		return false, fmt.Errorf("%s suboption has been specified more than once", p.prefix)
	}
	return true, nil
}

func (p *SimpleParam) Parse(arg string) error {
	value := arg[len(p.prefix):]
	if !p.pattern.MatchString(value) {
		return fmt.Errorf("invalid value %q for %s; must match pattern %s", value, p.displayName(), p.pattern)
	}
	p.supplied = true
	p.value = value
	return nil
}

func (p *SimpleParam) SuppliedByUser() bool { return p.supplied }
func (p *SimpleParam) Required() bool       { return p.required }
func (p *SimpleParam) setSatisfied()        { p.satisfied = true }

// Get returns the parsed value, falling back to the parameter's default. The
// second return is false when the parameter ended up outside the usage group
// selected during parsing, or has neither value nor default.
func (p *SimpleParam) Get() (string, bool) {
	if !p.satisfied {
		return "", false
	}
	if p.supplied {
		return p.value, true
	}
	if p.defaultValue != "" {
		return p.defaultValue, true
	}
	return "", false
}

func (p *SimpleParam) GetString() string {
	value, _ := p.Get()
	return value
}

func (p *SimpleParam) GetUint64() (uint64, bool) {
	value, ok := p.Get()
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func (p *SimpleParam) isFlag() bool {
	return p.pattern.String() == "^$"
}

func (p *SimpleParam) displayName() string {
	if p.prefix == "" {
		return "positional value"
	}
	return p.prefix
}

func (p *SimpleParam) WriteUsage(w io.Writer) {
	var body string
	switch {
	case p.isFlag():
		body = p.prefix
	default:
		body = p.prefix + "?"
	}

	if p.required {
		fmt.Fprintf(w, "%s ", body)
	} else {
		fmt.Fprintf(w, "[%s] ", body)
	}
}

func (p *SimpleParam) WriteDesc(w io.Writer) {
	name := p.prefix
	if !p.isFlag() {
		name += "?"
	}
	if p.defaultValue != "" {
		fmt.Fprintf(w, "%-30s (default=%s) %s\n", name, p.defaultValue, p.desc)
	} else {
		fmt.Fprintf(w, "%-30s %s\n", name, p.desc)
	}
}

// ----------------------------------------------------------------------------

// ParamsParser parses the argument list of a single option or command, e.g.
// everything following `-rate`. Registered parameters can be arranged into
// usage groups; each group is an alternative legal combination, the way
// `-rate threads=?` and `-rate [threads>=?] [threads<=?] [auto]` exclude
// each other.
type ParamsParser struct {
	name   string
	params []Param
	groups [][]Param
}

func NewParamsParser(name string) *ParamsParser {
	return &ParamsParser{name: name}
}

// Simple registers a SimpleParam and returns a handle for value retrieval
// after Parse has run.
func (pp *ParamsParser) Simple(prefix string, pattern string, defaultValue string, desc string, required bool) *SimpleParam {
	p := NewSimple(prefix, pattern, defaultValue, desc, required)
	pp.params = append(pp.params, p)
	return p
}

// Multi registers a MultiParam with the given predefined subparameters.
func (pp *ParamsParser) Multi(prefix string, subparams []*SimpleParam, desc string, required bool, acceptsArbitrary bool) *MultiParam {
	p := NewMulti(prefix, subparams, desc, required, acceptsArbitrary)
	pp.params = append(pp.params, p)
	return p
}

// Group declares one legal combination of parameters. Parameters passed by
// the user must all fit into a single group, and every required parameter of
// the selected group must be present.
func (pp *ParamsParser) Group(params ...Param) {
	pp.groups = append(pp.groups, params)
}

func (pp *ParamsParser) Parse(args []string) error {
	for _, arg := range args {
		if err := pp.parseOne(arg); err != nil {
			return err
		}
	}

	group, err := pp.resolveGroup()
	if err != nil {
		return err
	}
	for _, p := range group {
		p.setSatisfied()
	}
	return nil
}

func (pp *ParamsParser) parseOne(arg string) error {
	for _, p := range pp.params {
		ok, err := p.TryMatch(arg)
		if err != nil {
			return err
		}
		if ok {
			return p.Parse(arg)
		}
	}
	return fmt.Errorf("invalid parameter %q for %s", arg, pp.name)
}

func (pp *ParamsParser) resolveGroup() ([]Param, error) {
	if len(pp.groups) == 0 {
		if err := checkRequired(pp.name, pp.params); err != nil {
			return nil, err
		}
		return pp.params, nil
	}

	var viable [][]Param
	for _, group := range pp.groups {
		if groupAcceptsSupplied(group, pp.params) {
			viable = append(viable, group)
		}
	}
	if len(viable) == 0 {
		return nil, fmt.Errorf("invalid combination of parameters for %s", pp.name)
	}

	var lastErr error
	for _, group := range viable {
		if err := checkRequired(pp.name, group); err != nil {
			lastErr = err
			continue
		}
		return group, nil
	}
	return nil, lastErr
}

// groupAcceptsSupplied reports whether every user supplied parameter is a
// member of the group.
func groupAcceptsSupplied(group []Param, all []Param) bool {
	for _, p := range all {
		if !p.SuppliedByUser() {
			continue
		}
		member := false
		for _, g := range group {
			if g == p {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}
	return true
}

func checkRequired(name string, group []Param) error {
	for _, p := range group {
		if p.Required() && !p.SuppliedByUser() {
			var usage strings.Builder
			p.WriteUsage(&usage)
			return fmt.Errorf("missing required parameter %sfor %s", usage.String(), name)
		}
	}
	return nil
}

// WriteHelp prints usage alternatives followed by per parameter descriptions,
// mirroring `cassandra-stress help <option>` output.
func (pp *ParamsParser) WriteHelp(w io.Writer) {
	groups := pp.groups
	if len(groups) == 0 {
		groups = [][]Param{pp.params}
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(w, " OR ")
		}
		fmt.Fprintf(w, "Usage: %s ", pp.name)
		for _, p := range group {
			p.WriteUsage(w)
		}
		fmt.Fprintln(w)
	}

	for _, p := range pp.params {
		fmt.Fprint(w, "  ")
		p.WriteDesc(w)
	}
}
