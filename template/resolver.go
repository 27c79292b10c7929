package template

import (
	"go.uber.org/zap"

	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/manifest"
	"github.com/wippyai/etwgen/wintype"
)

// Attribute names accepted on <data> fields. ignoredAttrs are allowed but
// carry nothing the generator needs.
var (
	usedAttrs    = map[string]bool{"name": true, "inType": true, "count": true, "length": true}
	ignoredAttrs = map[string]bool{"map": true, "outType": true}
)

// StructCountField is the only count field a struct declaration may name.
const StructCountField = "Count"

// GUIDExtra is the element-count annotation attached to GUID parameters.
const GUIDExtra = "sizeof(GUID)/sizeof(int)"

// ResolveAll resolves every template of a provider.
func ResolveAll(p *manifest.Provider) (Lookup, error) {
	out := make(Lookup, len(p.Templates))
	for _, tn := range p.Templates {
		if _, dup := out[tn.ID]; dup {
			return nil, errors.New(errors.PhaseResolve, errors.KindInconsistent).
				Path(errors.TemplatePath(p.Name, tn.ID)...).
				Detail("template id declared more than once").
				Build()
		}
		t, err := Resolve(p.Name, tn)
		if err != nil {
			return nil, err
		}
		out[tn.ID] = t
	}
	return out, nil
}

// resolver holds the per-template working state.
type resolver struct {
	provider string
	tid      string
	fields   *Signature
	deps     map[string][]string
	arrays   map[string]string
	structs  map[string]*Struct
	order    []string
}

// Resolve turns one template declaration into a Template whose signature
// places every count parameter before the array or struct it sizes.
func Resolve(provider string, tn *manifest.TemplateNode) (*Template, error) {
	r := &resolver{
		provider: provider,
		tid:      tn.ID,
		fields:   NewSignature(),
		deps:     make(map[string][]string),
		arrays:   make(map[string]string),
		structs:  make(map[string]*Struct),
	}

	if err := r.checkAttributes(tn.Data); err != nil {
		return nil, err
	}
	for _, d := range tn.Data {
		if err := r.addField(d); err != nil {
			return nil, err
		}
	}
	for _, s := range tn.Structs {
		if err := r.addStruct(s); err != nil {
			return nil, err
		}
	}

	t := &Template{
		ID:          tn.ID,
		Signature:   Linearize(r.fields, r.deps),
		Structs:     r.structs,
		Arrays:      r.arrays,
		structOrder: r.order,
	}

	size, err := wintype.Estimate(t.Signature.Types())
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = r.path()
		}
		return nil, err
	}
	t.estimatedSize = wintype.Clamp(size)

	Logger().Debug("resolved template",
		zap.String("provider", provider),
		zap.String("template", tn.ID),
		zap.Int("params", t.NumParams()),
		zap.Int("estimated_size", t.estimatedSize))

	return t, nil
}

func (r *resolver) path() []string {
	return errors.TemplatePath(r.provider, r.tid)
}

// checkAttributes rejects any data attribute outside the known sets, before
// any field is interpreted.
func (r *resolver) checkAttributes(data []*manifest.DataNode) error {
	for _, d := range data {
		for _, a := range d.Attrs() {
			if !usedAttrs[a.Name] && !ignoredAttrs[a.Name] {
				err := errors.FieldUnknown(errors.PhaseResolve, r.path(), a.Name)
				err.Detail = "unknown attribute: " + a.Name + " in template:" + r.tid
				return err
			}
		}
	}
	return nil
}

func (r *resolver) addField(d *manifest.DataNode) error {
	name := d.Name()
	typ, ok := wintype.Parse(d.InType())
	if !ok {
		return errors.New(errors.PhaseResolve, errors.KindUnknownType).
			Path(r.path()...).
			Detail("unknown inType %q on field %s", d.InType(), name).
			Value(d.InType()).
			Build()
	}

	count, length := d.Count(), d.Length()
	if length != "" {
		if count != "" {
			return errors.New(errors.PhaseResolve, errors.KindConflicting).
				Path(r.path()...).
				Detail("both count and length property found on: %s in template: %s", name, r.tid).
				Build()
		}
		count = length
	}
	if isDigits(count) && trimZeros(count) == "1" {
		count = ""
	}

	p := &Parameter{Name: name, Type: typ}
	chain := []string{name}

	switch {
	case count == "":
	case isDigits(count):
		p.Multiplicity = Counted
		p.Extra = count
	default:
		src, ok := r.fields.Get(count)
		if !ok {
			return errors.New(errors.PhaseResolve, errors.KindFieldMissing).
				Path(r.path()...).
				Detail("count field %q of %s is not declared before it", count, name).
				Value(count).
				Build()
		}
		if src.IsCounted() || !src.Type.IsInteger() {
			return errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
				Path(r.path()...).
				Detail("count field %q of %s must be a scalar integer, got %s", count, name, src.Type).
				Build()
		}
		p.Multiplicity = Counted
		p.CountRef = count
		p.Extra = count
		chain = []string{count, name}
		r.arrays[name] = count
	}

	// GUIDs are marshalled as fixed 16 byte structs whatever the count.
	if typ == wintype.GUID {
		p.Multiplicity = Counted
		p.Extra = GUIDExtra
	}

	if !r.fields.Append(p) {
		return r.duplicate(name)
	}
	r.deps[name] = chain
	return nil
}

func (r *resolver) addStruct(s *manifest.StructNode) error {
	malformed := func(format string, args ...any) error {
		return errors.New(errors.PhaseResolve, errors.KindMalformedStruct).
			Path(r.path()...).
			Detail(format, args...).
			Value(s.Name).
			Build()
	}

	if !s.HasCount() || s.Count == "" {
		return malformed("struct '%s' in template '%s' does not have an attribute count", s.Name, r.tid)
	}
	if s.Count != StructCountField {
		return malformed("struct '%s' in template '%s' must be counted by %q, got %q",
			s.Name, r.tid, StructCountField, s.Count)
	}
	counter, ok := r.fields.Get(s.Count)
	if !ok {
		return malformed("struct '%s' in template '%s' references missing count field %q",
			s.Name, r.tid, s.Count)
	}
	if counter.IsCounted() || !counter.Type.IsInteger() {
		return malformed("count field %q of struct '%s' must be a scalar integer, got %s",
			s.Count, s.Name, counter.Type)
	}

	st := &Struct{Name: s.Name, CountRef: s.Count}
	for _, f := range s.Fields {
		typ, ok := wintype.Parse(f.InType())
		if !ok {
			return errors.New(errors.PhaseResolve, errors.KindUnknownType).
				Path(r.path()...).
				Detail("unknown inType %q on field %s of struct %s", f.InType(), f.Name(), s.Name).
				Value(f.InType()).
				Build()
		}
		st.Fields = append(st.Fields, StructField{Name: f.Name(), Type: typ})
	}

	p := &Parameter{
		Name:         s.Name,
		Type:         wintype.Struct,
		Multiplicity: Counted,
		CountRef:     s.Count,
		Extra:        s.Count,
	}
	if !r.fields.Append(p) {
		return r.duplicate(s.Name)
	}
	r.deps[s.Name] = []string{s.Count, s.Name}
	r.structs[s.Name] = st
	r.order = append(r.order, s.Name)
	return nil
}

func (r *resolver) duplicate(name string) error {
	return errors.New(errors.PhaseResolve, errors.KindInconsistent).
		Path(r.path()...).
		Detail("field %s declared more than once", name).
		Value(name).
		Build()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
