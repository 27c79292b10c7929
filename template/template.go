package template

import (
	"github.com/wippyai/etwgen/wintype"
)

// StructField is one element field of a marshalled struct.
type StructField struct {
	Name string
	Type wintype.Type
}

// Struct records a struct-blob parameter: the parameter holding its element
// count and the layout of one element.
type Struct struct {
	Name     string
	CountRef string
	Fields   []StructField
}

// Template is a fully resolved template.
type Template struct {
	ID        string
	Signature *Signature

	// Structs is keyed by struct parameter name.
	Structs map[string]*Struct

	// Arrays maps each counted-array parameter to its count parameter.
	Arrays map[string]string

	structOrder   []string
	estimatedSize int
}

// Param returns the named signature parameter.
func (t *Template) Param(name string) (*Parameter, bool) {
	return t.Signature.Get(name)
}

// IsStruct reports whether the named parameter is a struct-blob.
func (t *Template) IsStruct(name string) bool {
	_, ok := t.Structs[name]
	return ok
}

// StructList returns the struct declarations in declaration order.
func (t *Template) StructList() []*Struct {
	out := make([]*Struct, 0, len(t.structOrder))
	for _, name := range t.structOrder {
		out = append(out, t.Structs[name])
	}
	return out
}

// NumParams returns the number of signature parameters.
func (t *Template) NumParams() int {
	return t.Signature.Len()
}

// EstimatedSize is the clamped worst-case payload size of one event using
// this template, in bytes.
func (t *Template) EstimatedSize() int {
	return t.estimatedSize
}

func (t *Template) String() string {
	return "<Template " + t.ID + ">"
}

// Lookup maps template ids of one provider to their resolved templates.
type Lookup map[string]*Template
