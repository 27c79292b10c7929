package template

import (
	"strings"

	"github.com/wippyai/etwgen/wintype"
)

// Multiplicity tells whether a parameter is passed by value or as a pointer to
// one or more elements.
type Multiplicity uint8

const (
	Scalar Multiplicity = iota
	Counted
)

func (m Multiplicity) String() string {
	if m == Counted {
		return "counted"
	}
	return "scalar"
}

// Parameter is one field of a template signature.
type Parameter struct {
	Name         string
	Type         wintype.Type
	Multiplicity Multiplicity

	// CountRef names the sibling parameter holding the element count. It is
	// empty for scalars and for literal counts.
	CountRef string

	// Extra is an emitter annotation: a literal count, the count field name,
	// or the GUID size expression.
	Extra string
}

// IsCounted reports whether the parameter is passed as a pointer.
func (p *Parameter) IsCounted() bool {
	return p.Multiplicity == Counted
}

// CType returns the prototype type text of the parameter.
func (p *Parameter) CType() string {
	if p.IsCounted() {
		return p.Type.CType() + "*"
	}
	return p.Type.CType()
}

// Signature is an ordered, name-keyed parameter list. Insertion order is the
// order of the generated prototypes.
type Signature struct {
	params []*Parameter
	index  map[string]int
}

// NewSignature creates an empty signature
func NewSignature() *Signature {
	return &Signature{index: make(map[string]int)}
}

// Append adds p unless a parameter with the same name is already present.
// It reports whether p was added.
func (s *Signature) Append(p *Parameter) bool {
	if _, exists := s.index[p.Name]; exists {
		return false
	}
	s.index[p.Name] = len(s.params)
	s.params = append(s.params, p)
	return true
}

// Get returns the named parameter.
func (s *Signature) Get(name string) (*Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.params[i], true
}

// Has reports whether the named parameter is present.
func (s *Signature) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Index returns the position of the named parameter, or -1.
func (s *Signature) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of parameters.
func (s *Signature) Len() int {
	return len(s.params)
}

// Params returns the parameters in signature order.
func (s *Signature) Params() []*Parameter {
	out := make([]*Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Names returns the parameter names in signature order.
func (s *Signature) Names() []string {
	out := make([]string, len(s.params))
	for i, p := range s.params {
		out[i] = p.Name
	}
	return out
}

// Types returns the parameter types in signature order.
func (s *Signature) Types() []wintype.Type {
	out := make([]wintype.Type, len(s.params))
	for i, p := range s.params {
		out[i] = p.Type
	}
	return out
}

func (s *Signature) String() string {
	return strings.Join(s.Names(), ", ")
}

// Linearize builds a signature from fields by walking them in order and
// appending each field's dependency chain. deps[name] lists the names that
// must precede name, ending with name itself; a field with no entry depends
// only on itself. Names already present are never appended twice.
func Linearize(fields *Signature, deps map[string][]string) *Signature {
	sig := NewSignature()
	for _, f := range fields.params {
		chain, ok := deps[f.Name]
		if !ok {
			chain = []string{f.Name}
		}
		for _, dep := range chain {
			if sig.Has(dep) {
				continue
			}
			if p, ok := fields.Get(dep); ok {
				sig.Append(p)
			}
		}
	}
	return sig
}
