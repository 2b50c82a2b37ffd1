// Package projection selects the subset of an entity's fields a client asked for.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kroksys/restbatch/spec"
)

// Mode tells whether the server or the resource method applies a projection.
type Mode int

const (
	// Automatic means the server projects entities returned by resource methods.
	Automatic Mode = iota
	// Manual means the resource method already projected its entities.
	Manual
)

func (m Mode) String() string {
	if m == Manual {
		return "manual"
	}
	return "automatic"
}

// ParseMode parses "automatic" or "manual". Empty means Automatic.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "automatic":
		return Automatic, nil
	case "manual":
		return Manual, nil
	}
	return Automatic, fmt.Errorf("unknown projection mode %q", s)
}

// Mask is a tree of selected field names. A nil child selects the whole
// field. A nil Mask selects everything.
type Mask map[string]Mask

// ParseMask parses the "fields" syntax: "a,b:(c,d),e". An empty string
// gives a nil Mask.
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	p := &maskParser{in: s}
	m, err := p.list()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.in) {
		return nil, fmt.Errorf("invalid field mask %q: unexpected %q at %d", s, p.in[p.pos], p.pos)
	}
	return m, nil
}

// String renders the mask back into the "fields" syntax with sorted names.
func (m Mask) String() string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		if child := m[name]; child != nil {
			parts[i] = name + ":(" + child.String() + ")"
			continue
		}
		parts[i] = name
	}
	return strings.Join(parts, ",")
}

type maskParser struct {
	in  string
	pos int
}

func (p *maskParser) list() (Mask, error) {
	m := Mask{}
	for {
		name := p.name()
		if name == "" {
			return nil, fmt.Errorf("invalid field mask %q: empty field name at %d", p.in, p.pos)
		}
		var child Mask
		if strings.HasPrefix(p.in[p.pos:], ":(") {
			p.pos += 2
			sub, err := p.list()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.in) || p.in[p.pos] != ')' {
				return nil, fmt.Errorf("invalid field mask %q: missing ')'", p.in)
			}
			p.pos++
			child = sub
		}
		m[name] = child
		if p.pos < len(p.in) && p.in[p.pos] == ',' {
			p.pos++
			continue
		}
		return m, nil
	}
}

func (p *maskParser) name() string {
	start := p.pos
	for p.pos < len(p.in) && !strings.ContainsRune(",:()", rune(p.in[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.in[start:p.pos])
}

// Projector applies masks to data maps. The zero value is ready to use and
// safe for concurrent use.
type Projector struct{}

// Project returns the fields of data selected by mask. Nil data gives nil.
// In Manual mode, or with a nil mask, data is returned unchanged.
func (Projector) Project(data spec.DataMap, mode Mode, mask Mask) spec.DataMap {
	if data == nil {
		return nil
	}
	if mode == Manual || mask == nil {
		return data
	}
	return project(data, mask)
}

func project(data map[string]interface{}, mask Mask) spec.DataMap {
	out := make(spec.DataMap, len(mask))
	for name, child := range mask {
		v, ok := data[name]
		if !ok {
			continue
		}
		if child == nil {
			out[name] = v
			continue
		}
		out[name] = projectValue(v, child)
	}
	return out
}

func projectValue(v interface{}, mask Mask) interface{} {
	switch t := v.(type) {
	case spec.DataMap:
		return project(t, mask)
	case map[string]interface{}:
		return project(t, mask)
	case []interface{}:
		items := make([]interface{}, len(t))
		for i, item := range t {
			items[i] = projectValue(item, mask)
		}
		return items
	}
	return v
}
