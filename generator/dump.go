package generator

import (
	"io"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/wippyai/etwgen/emit"
	"github.com/wippyai/etwgen/template"
	"github.com/wippyai/etwgen/wintype"
)

// pointer width of the 64-bit targets the headers are built for
const targetPointerSize = 8

type dumpProvider struct {
	Name      string         `json:"name"`
	Symbol    string         `json:"symbol,omitempty"`
	GUID      string         `json:"guid,omitempty"`
	Templates []dumpTemplate `json:"templates"`
	Events    []dumpEvent    `json:"events"`
}

type dumpTemplate struct {
	ID            string            `json:"id"`
	Params        []dumpParam       `json:"params"`
	Arrays        map[string]string `json:"arrays,omitempty"`
	Structs       []dumpStruct      `json:"structs,omitempty"`
	EstimatedSize int               `json:"estimated_size"`
}

type dumpParam struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Multiplicity string `json:"multiplicity"`
	CountRef     string `json:"count_ref,omitempty"`
	Extra        string `json:"extra,omitempty"`
}

type dumpStruct struct {
	Name     string      `json:"name"`
	CountRef string      `json:"count_ref"`
	Fields   []dumpField `json:"fields"`

	// ElementSize is absent when a field has no fixed width.
	ElementSize *int `json:"element_size,omitempty"`
}

type dumpField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type dumpEvent struct {
	Symbol   string   `json:"symbol"`
	Value    int      `json:"value"`
	Task     string   `json:"task,omitempty"`
	Template string   `json:"template,omitempty"`
	Args     []string `json:"args"`
}

// Dump writes the resolved view of every provider as indented JSON.
// Templates are ordered by id.
func Dump(w io.Writer, providers []*emit.ProviderEvents) error {
	out := make([]dumpProvider, 0, len(providers))
	for _, pe := range providers {
		out = append(out, dumpOf(pe))
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func dumpOf(pe *emit.ProviderEvents) dumpProvider {
	p := pe.Provider
	dp := dumpProvider{
		Name:      p.Name,
		Symbol:    p.Symbol,
		Templates: []dumpTemplate{},
		Events:    []dumpEvent{},
	}
	if p.GUID != uuid.Nil {
		dp.GUID = p.GUID.String()
	}

	for _, t := range emit.SortedTemplates(pe.Templates) {
		dt := dumpTemplate{
			ID:            t.ID,
			Params:        []dumpParam{},
			EstimatedSize: t.EstimatedSize(),
		}
		if len(t.Arrays) > 0 {
			dt.Arrays = t.Arrays
		}
		for _, prm := range t.Signature.Params() {
			dt.Params = append(dt.Params, dumpParam{
				Name:         prm.Name,
				Type:         prm.Type.String(),
				Multiplicity: prm.Multiplicity.String(),
				CountRef:     prm.CountRef,
				Extra:        prm.Extra,
			})
		}
		for _, st := range t.StructList() {
			ds := dumpStruct{
				Name:        st.Name,
				CountRef:    st.CountRef,
				Fields:      []dumpField{},
				ElementSize: elementSize(st),
			}
			for _, f := range st.Fields {
				ds.Fields = append(ds.Fields, dumpField{Name: f.Name, Type: f.Type.String()})
			}
			dt.Structs = append(dt.Structs, ds)
		}
		dp.Templates = append(dp.Templates, dt)
	}

	for _, ev := range pe.Events {
		de := dumpEvent{
			Symbol: ev.Symbol,
			Value:  ev.Value,
			Task:   ev.Task,
			Args:   ev.ArgNames(),
		}
		if ev.Template != nil {
			de.Template = ev.Template.ID
		}
		dp.Events = append(dp.Events, de)
	}
	return dp
}

// elementSize is the unpadded marshalled size of one struct element.
func elementSize(st *template.Struct) *int {
	types := make([]wintype.Type, len(st.Fields))
	for i, f := range st.Fields {
		types[i] = f.Type
	}
	fixed, pointers, err := wintype.Exact(types)
	if err != nil {
		return nil
	}
	n := fixed + pointers*targetPointerSize
	return &n
}
