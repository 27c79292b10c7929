package emit

import (
	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/manifest"
	"github.com/wippyai/etwgen/template"
)

// ElementSizeSuffix names the synthetic parameter passed ahead of each struct.
const ElementSizeSuffix = "_ElementSize"

// elementSizeType is the prototype type of the synthetic element size.
const elementSizeType = "int"

// Arg is one position of a generated parameter list. Every artifact derives
// its parameter list from the same []Arg, so all of them agree on count and
// order for an event.
type Arg struct {
	Name  string
	CType string

	// Param is nil for the synthetic element size of a struct.
	Param *template.Parameter

	// SizeOf names the struct parameter this element size belongs to.
	SizeOf string
}

// IsElementSize reports whether a is the synthetic element size of a struct.
func (a Arg) IsElementSize() bool {
	return a.Param == nil
}

// Args flattens a template signature into generated parameter positions,
// inserting the element size immediately before each struct parameter.
// A nil template has no parameters.
func Args(t *template.Template) []Arg {
	if t == nil {
		return nil
	}
	params := t.Signature.Params()
	out := make([]Arg, 0, len(params)+len(t.Structs))
	for _, p := range params {
		if t.IsStruct(p.Name) {
			out = append(out, Arg{
				Name:   p.Name + ElementSizeSuffix,
				CType:  elementSizeType,
				SizeOf: p.Name,
			})
		}
		out = append(out, Arg{
			Name:  p.Name,
			CType: p.CType(),
			Param: p,
		})
	}
	return out
}

// Event is an event bound to its resolved template.
type Event struct {
	Provider string
	Symbol   string
	Task     string
	Value    int

	// Template is nil for events without a payload.
	Template *template.Template
	Args     []Arg
}

// ArgNames returns the parameter names in order.
func (e *Event) ArgNames() []string {
	out := make([]string, len(e.Args))
	for i, a := range e.Args {
		out[i] = a.Name
	}
	return out
}

// ProviderEvents is the emission unit: one provider and its bound events.
type ProviderEvents struct {
	Provider  *manifest.Provider
	Templates template.Lookup
	Events    []*Event
}

// Bind pairs every event of p with its template. An event naming a template
// the provider does not declare is an error.
func Bind(p *manifest.Provider, templates template.Lookup) (*ProviderEvents, error) {
	pe := &ProviderEvents{Provider: p, Templates: templates}
	for _, ev := range p.Events {
		e := &Event{
			Provider: p.Name,
			Symbol:   ev.Symbol,
			Task:     ev.Task,
			Value:    ev.Value,
		}
		if ev.Template != "" {
			t, ok := templates[ev.Template]
			if !ok {
				return nil, errors.NotFound(errors.PhaseEmit, errors.EventPath(p.Name, ev.Symbol), "template", ev.Template)
			}
			e.Template = t
			e.Args = Args(t)
		}
		pe.Events = append(pe.Events, e)
	}
	return pe, nil
}
