package param

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Arbitrary subparameters must look like `key=value`.
var arbitraryParamPattern = regexp.MustCompile(`^([^=]+)=([^=]+)$`)

// MultiParam handles arguments of form `name(sub,sub,...)`, the way the
// `replication(...)` parameter of `-schema` works:
//
//	replication([strategy=?][factor=?][<option 1..N>=?])
//
// Subparameters with a predefined meaning are delegated to their own
// SimpleParam. When arbitrary parameters are accepted, any other `key=value`
// pair is collected into a map, e.g. custom replication strategy options.
type MultiParam struct {
	prefix    string
	subparams []*SimpleParam
	desc      string
	required  bool

	acceptsArbitrary bool
	arbitrary        map[string]string

	supplied  bool
	satisfied bool
}

func NewMulti(prefix string, subparams []*SimpleParam, desc string, required bool, acceptsArbitrary bool) *MultiParam {
	return &MultiParam{
		prefix:           prefix,
		subparams:        subparams,
		desc:             desc,
		required:         required,
		acceptsArbitrary: acceptsArbitrary,
		arbitrary:        map[string]string{},
	}
}

func (p *MultiParam) TryMatch(arg string) (bool, error) {
	if !strings.HasPrefix(arg, p.prefix) {
		return false, nil
	}
	if p.supplied {
		return false, fmt.Errorf("%s suboption has been specified more than once", p.prefix)
	}

	value := arg[len(p.prefix):]
	if !strings.HasPrefix(value, "(") || !strings.HasSuffix(value, ")") {
		return false, fmt.Errorf("invalid %s specification: %s", p.prefix, arg)
	}
	return true, nil
}

func (p *MultiParam) Parse(arg string) error {
	p.supplied = true

	value := arg[len(p.prefix):]
	// Strip wrapping parenthesis.
	value = value[1 : len(value)-1]

	for _, sub := range strings.Split(value, ",") {
		matched, err := p.tryParsePredefined(sub)
		if err != nil {
			return err
		}
		if matched {
			continue
		}
		if err := p.parseArbitrary(sub); err != nil {
			return err
		}
	}
	return nil
}

func (p *MultiParam) tryParsePredefined(arg string) (bool, error) {
	for _, sub := range p.subparams {
		ok, err := sub.TryMatch(arg)
		if err != nil {
			return false, err
		}
		if ok {
			return true, sub.Parse(arg)
		}
	}
	return false, nil
}

func (p *MultiParam) parseArbitrary(arg string) error {
	if !p.acceptsArbitrary {
		return fmt.Errorf("cannot accept parameter %s, %s doesn't accept arbitrary parameters", arg, p.prefix)
	}
	if !arbitraryParamPattern.MatchString(arg) {
		return fmt.Errorf("invalid %s specification: %q", p.prefix, arg)
	}

	split := strings.SplitN(arg, "=", 2)
	key, value := split[0], split[1]
	if _, exists := p.arbitrary[key]; exists {
		return fmt.Errorf("%s suboption has been specified more than once", key)
	}
	p.arbitrary[key] = value
	return nil
}

func (p *MultiParam) SuppliedByUser() bool { return p.supplied }
func (p *MultiParam) Required() bool       { return p.required }

func (p *MultiParam) setSatisfied() {
	p.satisfied = true
	for _, sub := range p.subparams {
		sub.setSatisfied()
	}
}

// GetArbitrary returns collected arbitrary `key=value` pairs, or nil when the
// parameter was not part of the selected usage group.
func (p *MultiParam) GetArbitrary() map[string]string {
	if !p.satisfied {
		return nil
	}
	return p.arbitrary
}

func (p *MultiParam) WriteUsage(w io.Writer) {
	if p.required {
		fmt.Fprintf(w, "%s(?) ", p.prefix)
	} else {
		fmt.Fprintf(w, "[%s(?)] ", p.prefix)
	}
}

func (p *MultiParam) WriteDesc(w io.Writer) {
	fmt.Fprintf(w, "%s(", p.prefix)
	for _, sub := range p.subparams {
		sub.WriteUsage(w)
	}
	if p.acceptsArbitrary {
		fmt.Fprint(w, "[<option 1..N>=?]")
	}
	fmt.Fprintf(w, "): %s\n", p.desc)
	for _, sub := range p.subparams {
		fmt.Fprint(w, "      ")
		sub.WriteDesc(w)
	}
}
