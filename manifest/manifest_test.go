package manifest

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/etwgen/errors"
)

const sampleManifest = `<?xml version="1.0" encoding="UTF-8"?>
<instrumentationManifest xmlns="http://schemas.microsoft.com/win/2004/08/events">
  <instrumentation>
    <events>
      <provider name="ProvA" guid="{e13c0d23-ccbc-4e12-931b-d9cc2eee27e4}" symbol="PROV_A">
        <templates>
          <template tid="T1">
            <data name="Count" inType="win:UInt32" />
            <struct name="Values" count="Count">
              <data name="Key" inType="win:UInt64" />
              <data name="Weight" inType="win:UInt16" />
            </struct>
            <data name="ClrInstanceID" inType="win:UInt16" />
          </template>
          <template tid="T2">
            <data name="N" inType="win:UInt32" />
            <data name="Arr" inType="win:UInt32" count="N" outType="xs:unsignedInt" />
          </template>
        </templates>
        <events>
          <event value="1" version="0" symbol="First" template="T1" task="TaskA" />
          <event value="2" version="1" symbol="Second" task="TaskB" />
        </events>
      </provider>
    </events>
  </instrumentation>
</instrumentationManifest>`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if len(m.Providers) != 1 {
		t.Fatalf("got %d providers, want 1", len(m.Providers))
	}
	p := m.Providers[0]
	if p.Name != "ProvA" || p.Symbol != "PROV_A" {
		t.Errorf("provider = %q/%q", p.Name, p.Symbol)
	}
	if got := p.GUID.String(); got != "e13c0d23-ccbc-4e12-931b-d9cc2eee27e4" {
		t.Errorf("GUID = %s", got)
	}

	var tids []string
	for _, tn := range p.Templates {
		tids = append(tids, tn.ID)
	}
	if diff := cmp.Diff([]string{"T1", "T2"}, tids); diff != "" {
		t.Errorf("template ids mismatch (-want +got):\n%s", diff)
	}

	t1, ok := p.Template("T1")
	if !ok {
		t.Fatal("T1 not found")
	}
	var names []string
	for _, d := range t1.Data {
		names = append(names, d.Name())
	}
	if diff := cmp.Diff([]string{"Count", "ClrInstanceID"}, names); diff != "" {
		t.Errorf("T1 data fields must be direct children only (-want +got):\n%s", diff)
	}
	if len(t1.Structs) != 1 {
		t.Fatalf("got %d structs, want 1", len(t1.Structs))
	}
	s := t1.Structs[0]
	if s.Name != "Values" || s.Count != "Count" || !s.HasCount() {
		t.Errorf("struct = %+v", s)
	}
	if len(s.Fields) != 2 || s.Fields[1].InType() != "win:UInt16" {
		t.Errorf("struct fields = %v", s.Fields)
	}

	t2, _ := p.Template("T2")
	arr := t2.Data[1]
	if arr.Count() != "N" || arr.Length() != "" {
		t.Errorf("Arr count/length = %q/%q", arr.Count(), arr.Length())
	}
	if len(arr.Attrs()) != 4 {
		t.Errorf("Arr attrs = %v", arr.Attrs())
	}

	if len(p.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(p.Events))
	}
	e := p.Events[1]
	if e.Symbol != "Second" || e.Template != "" || e.Task != "TaskB" || e.Value != 2 || e.Version != "1" {
		t.Errorf("event = %+v", e)
	}
}

func TestDecodeBadGUID(t *testing.T) {
	doc := `<events><provider name="P" guid="not-a-guid"/></events>`
	_, err := Decode(strings.NewReader(doc))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidData}) {
		t.Fatalf("expected invalid data error, got %v", err)
	}
	if !strings.Contains(err.Error(), "at provider:P:") {
		t.Errorf("error should locate the provider: %v", err)
	}
}

func TestDecodeBadEventValue(t *testing.T) {
	doc := `<events><provider name="P"><event symbol="E" value="x"/></provider></events>`
	_, err := Decode(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "event:E") {
		t.Fatalf("expected error naming event, got %v", err)
	}
}

func TestDecodeMalformedXML(t *testing.T) {
	_, err := Decode(strings.NewReader(`<events><provider name="P">`))
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestDecodeUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	doc := `<?xml version="1.0" encoding="UTF-16"?>` +
		`<events><provider name="Wide"><event symbol="E" value="7"/></provider></events>`
	data, err := enc.Bytes([]byte(doc))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "wide.man")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.Providers[0].Name != "Wide" || m.Providers[0].Events[0].Value != 7 {
		t.Errorf("unexpected provider %+v", m.Providers[0])
	}
}

func TestDecodeEncodings(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-16"?>` +
		`<events><provider name="Wide"><event symbol="E" value="7"/></provider></events>`

	encode := func(t *testing.T, e unicode.Endianness, bom unicode.BOMPolicy) []byte {
		t.Helper()
		data, err := unicode.UTF16(e, bom).NewEncoder().Bytes([]byte(doc))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return data
	}

	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"little endian without bom", func(t *testing.T) []byte { return encode(t, unicode.LittleEndian, unicode.IgnoreBOM) }},
		{"big endian without bom", func(t *testing.T) []byte { return encode(t, unicode.BigEndian, unicode.IgnoreBOM) }},
		{"big endian with bom", func(t *testing.T) []byte { return encode(t, unicode.BigEndian, unicode.UseBOM) }},
		{"utf-8 with bom", func(t *testing.T) []byte {
			return append([]byte{0xEF, 0xBB, 0xBF}, strings.Replace(doc, "UTF-16", "UTF-8", 1)...)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Decode(bytes.NewReader(tc.data(t)))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if m.Providers[0].Name != "Wide" || m.Providers[0].Events[0].Value != 7 {
				t.Errorf("unexpected provider %+v", m.Providers[0])
			}
		})
	}
}

func TestDecodeRejectsDeclaredEncoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		detail   string
	}{
		{"utf-16 label on utf-8 bytes", "UTF-16", "is not UTF-16 encoded"},
		{"unsupported encoding", "ISO-8859-1", "unsupported manifest encoding"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := `<?xml version="1.0" encoding="` + tc.encoding + `"?><events/>`
			_, err := Decode(strings.NewReader(doc))
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidData}) {
				t.Fatalf("expected invalid data error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.detail) {
				t.Errorf("error %q should contain %q", err, tc.detail)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.man"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindIO}) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestNodeQueries(t *testing.T) {
	root, err := ParseTree(strings.NewReader(`<a x="1"><b/><c><b y="2"/></c><b/></a>`))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(root.Elements("b")); got != 2 {
		t.Errorf("Elements(b) = %d, want 2", got)
	}
	if got := len(root.Descendants("b")); got != 3 {
		t.Errorf("Descendants(b) = %d, want 3", got)
	}
	if root.Attr("x") != "1" || root.Attr("missing") != "" {
		t.Errorf("Attr lookups wrong")
	}
	if _, ok := root.Lookup("missing"); ok {
		t.Error("Lookup should report absence")
	}
}
