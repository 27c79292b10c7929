package template

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/manifest"
	"github.com/wippyai/etwgen/wintype"
)

// parseTemplate decodes a single <template> body inside a throwaway provider.
func parseTemplate(t *testing.T, tid, body string) *manifest.TemplateNode {
	t.Helper()
	doc := `<provider name="P"><template tid="` + tid + `">` + body + `</template></provider>`
	m, err := manifest.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tn, ok := m.Providers[0].Template(tid)
	if !ok {
		t.Fatalf("template %s missing", tid)
	}
	return tn
}

func resolve(t *testing.T, tid, body string) *Template {
	t.Helper()
	tmpl, err := Resolve("P", parseTemplate(t, tid, body))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return tmpl
}

func TestResolveStruct(t *testing.T) {
	tmpl := resolve(t, "T1", `
		<data name="Count" inType="win:UInt32"/>
		<struct name="Blob" count="Count">
			<data name="A" inType="win:UInt64"/>
			<data name="B" inType="win:UInt16"/>
		</struct>`)

	if diff := cmp.Diff([]string{"Count", "Blob"}, tmpl.Signature.Names()); diff != "" {
		t.Errorf("signature mismatch (-want +got):\n%s", diff)
	}
	if got := tmpl.EstimatedSize(); got != 36 {
		t.Errorf("EstimatedSize() = %d, want 36", got)
	}
	if !tmpl.IsStruct("Blob") || tmpl.IsStruct("Count") {
		t.Error("struct set wrong")
	}

	blob, _ := tmpl.Param("Blob")
	if blob.Type != wintype.Struct || !blob.IsCounted() || blob.CountRef != "Count" {
		t.Errorf("Blob param = %+v", blob)
	}
	if got := blob.CType(); got != "const void*" {
		t.Errorf("Blob CType() = %q", got)
	}

	want := []StructField{{"A", wintype.UInt64}, {"B", wintype.UInt16}}
	if diff := cmp.Diff(want, tmpl.Structs["Blob"].Fields); diff != "" {
		t.Errorf("struct fields mismatch (-want +got):\n%s", diff)
	}
	if got := len(tmpl.StructList()); got != 1 {
		t.Errorf("StructList() len = %d", got)
	}
}

func TestResolveCountedArray(t *testing.T) {
	tmpl := resolve(t, "T", `
		<data name="N" inType="win:UInt32"/>
		<data name="Arr" inType="win:UInt32" count="N"/>`)

	if diff := cmp.Diff([]string{"N", "Arr"}, tmpl.Signature.Names()); diff != "" {
		t.Errorf("signature mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"Arr": "N"}, tmpl.Arrays); diff != "" {
		t.Errorf("arrays mismatch (-want +got):\n%s", diff)
	}
	arr, _ := tmpl.Param("Arr")
	if arr.CType() != "const unsigned int*" || arr.Extra != "N" {
		t.Errorf("Arr = %+v", arr)
	}
}

func TestResolveLengthActsAsCount(t *testing.T) {
	tmpl := resolve(t, "T", `
		<data name="Size" inType="win:UInt16"/>
		<data name="Bytes" inType="win:Binary" length="Size"/>`)
	if tmpl.Arrays["Bytes"] != "Size" {
		t.Errorf("Arrays = %v", tmpl.Arrays)
	}
}

func TestResolveLiteralCounts(t *testing.T) {
	tmpl := resolve(t, "T", `
		<data name="One" inType="win:UInt32" count="1"/>
		<data name="Fixed" inType="win:UInt8" count="16"/>`)

	one, _ := tmpl.Param("One")
	if one.IsCounted() {
		t.Error("count of 1 should be scalar")
	}
	fixed, _ := tmpl.Param("Fixed")
	if !fixed.IsCounted() || fixed.Extra != "16" || fixed.CountRef != "" {
		t.Errorf("Fixed = %+v", fixed)
	}
	if len(tmpl.Arrays) != 0 {
		t.Errorf("literal counts are not counted arrays: %v", tmpl.Arrays)
	}
}

func TestResolveGUIDIsCounted(t *testing.T) {
	tmpl := resolve(t, "T", `<data name="Id" inType="win:GUID"/>`)
	id, _ := tmpl.Param("Id")
	if !id.IsCounted() || id.Extra != GUIDExtra {
		t.Errorf("Id = %+v", id)
	}
	if id.CType() != "const GUID*" {
		t.Errorf("CType() = %q", id.CType())
	}
	if got := tmpl.EstimatedSize(); got != 32 {
		t.Errorf("EstimatedSize() = %d, want clamp to 32", got)
	}
}

func TestResolveEmptyTemplate(t *testing.T) {
	tmpl := resolve(t, "Empty", ``)
	if tmpl.NumParams() != 0 {
		t.Errorf("NumParams() = %d", tmpl.NumParams())
	}
	if tmpl.EstimatedSize() != 32 {
		t.Errorf("EstimatedSize() = %d, want 32", tmpl.EstimatedSize())
	}
}

func TestResolveSizeUpperBound(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(`<data name="S` + string(rune('a'+i%26)) + string(rune('a'+i/26)) + `" inType="win:UnicodeString"/>`)
	}
	tmpl := resolve(t, "Big", b.String())
	if got := tmpl.EstimatedSize(); got != 1024 {
		t.Errorf("EstimatedSize() = %d, want 1024", got)
	}
}

func TestResolveCountBeforeArray(t *testing.T) {
	tmpl := resolve(t, "T", `
		<data name="ClrInstanceID" inType="win:UInt16"/>
		<data name="Count" inType="win:UInt32"/>
		<data name="Names" inType="win:UnicodeString" count="Count"/>
		<data name="Flags" inType="win:UInt8"/>
		<data name="Ids" inType="win:UInt64" count="Count"/>
		<struct name="Items" count="Count"><data name="X" inType="win:UInt32"/></struct>`)

	for name, countName := range tmpl.Arrays {
		if tmpl.Signature.Index(countName) >= tmpl.Signature.Index(name) {
			t.Errorf("%s at %d does not follow its count %s at %d",
				name, tmpl.Signature.Index(name), countName, tmpl.Signature.Index(countName))
		}
	}
	for name, st := range tmpl.Structs {
		if tmpl.Signature.Index(st.CountRef) >= tmpl.Signature.Index(name) {
			t.Errorf("struct %s does not follow %s", name, st.CountRef)
		}
	}
	want := []string{"ClrInstanceID", "Count", "Names", "Flags", "Ids", "Items"}
	if diff := cmp.Diff(want, tmpl.Signature.Names()); diff != "" {
		t.Errorf("signature mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		kind   errors.Kind
		detail string
	}{
		{
			name:   "unknown attribute",
			body:   `<data name="A" inType="win:UInt32" badattr="x"/>`,
			kind:   errors.KindFieldUnknown,
			detail: "unknown attribute: badattr in template:T2",
		},
		{
			name:   "count and length",
			body:   `<data name="N" inType="win:UInt32"/><data name="A" inType="win:UInt32" count="N" length="N"/>`,
			kind:   errors.KindConflicting,
			detail: "both count and length",
		},
		{
			name:   "struct without count",
			body:   `<data name="Count" inType="win:UInt32"/><struct name="S"/>`,
			kind:   errors.KindMalformedStruct,
			detail: "does not have an attribute count",
		},
		{
			name:   "struct counted by another field",
			body:   `<data name="N" inType="win:UInt32"/><struct name="S" count="N"/>`,
			kind:   errors.KindMalformedStruct,
			detail: "must be counted by",
		},
		{
			name:   "struct count field missing",
			body:   `<struct name="S" count="Count"/>`,
			kind:   errors.KindMalformedStruct,
			detail: "missing count field",
		},
		{
			name:   "unknown in-type",
			body:   `<data name="A" inType="win:Float"/>`,
			kind:   errors.KindUnknownType,
			detail: "win:Float",
		},
		{
			name:   "count names later field",
			body:   `<data name="A" inType="win:UInt32" count="N"/><data name="N" inType="win:UInt32"/>`,
			kind:   errors.KindFieldMissing,
			detail: `count field "N"`,
		},
		{
			name:   "count source not integer",
			body:   `<data name="N" inType="win:AnsiString"/><data name="A" inType="win:UInt32" count="N"/>`,
			kind:   errors.KindTypeMismatch,
			detail: "scalar integer",
		},
		{
			name:   "duplicate field",
			body:   `<data name="A" inType="win:UInt32"/><data name="A" inType="win:UInt16"/>`,
			kind:   errors.KindInconsistent,
			detail: "more than once",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve("P", parseTemplate(t, "T2", tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type %T", err)
			}
			if e.Kind != tc.kind || e.Phase != errors.PhaseResolve {
				t.Errorf("got %s/%s, want resolve/%s", e.Phase, e.Kind, tc.kind)
			}
			if !strings.Contains(e.Error(), tc.detail) {
				t.Errorf("error %q does not contain %q", e.Error(), tc.detail)
			}
			if !strings.Contains(e.Error(), "template:T2") {
				t.Errorf("error %q does not name the template", e.Error())
			}
		})
	}
}

func TestResolveIgnoredAttributes(t *testing.T) {
	tmpl := resolve(t, "T", `<data name="A" inType="win:UInt32" outType="win:HexInt32" map="AMap"/>`)
	if tmpl.NumParams() != 1 {
		t.Errorf("NumParams() = %d", tmpl.NumParams())
	}
}

func TestResolveAll(t *testing.T) {
	doc := `<provider name="P">
		<template tid="A"><data name="X" inType="win:UInt8"/></template>
		<template tid="B"/>
	</provider>`
	m, err := manifest.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	lookup, err := ResolveAll(m.Providers[0])
	if err != nil {
		t.Fatalf("ResolveAll() error: %v", err)
	}
	if len(lookup) != 2 || lookup["A"].NumParams() != 1 || lookup["B"].NumParams() != 0 {
		t.Errorf("lookup = %v", lookup)
	}
}

func TestResolveAllDuplicateTemplate(t *testing.T) {
	doc := `<provider name="P"><template tid="A"/><template tid="A"/></provider>`
	m, err := manifest.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveAll(m.Providers[0]); err == nil {
		t.Fatal("expected duplicate template error")
	}
}
