package wintype

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for i := range typeNames {
		typ := Type(i)
		got, ok := Parse(typ.String())
		if !ok {
			t.Errorf("Parse(%q) failed", typ.String())
			continue
		}
		if got != typ {
			t.Errorf("Parse(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	for _, name := range []string{"", "win:Float", "UInt32", "win:count", "win:uint32"} {
		if _, ok := Parse(name); ok {
			t.Errorf("Parse(%q) should fail", name)
		}
	}
}

func TestTablesAreTotal(t *testing.T) {
	for i := range typeNames {
		typ := Type(i)
		if typ == Null {
			continue
		}
		if typ.CType() == "" {
			t.Errorf("%s has no prototype type", typ)
		}
		if typ.FieldType() == "" {
			t.Errorf("%s has no field type", typ)
		}
	}
	if len(cTypes) != len(typeNames) || len(fieldTypes) != len(typeNames) {
		t.Fatalf("table sizes differ: names=%d ctypes=%d fields=%d",
			len(typeNames), len(cTypes), len(fieldTypes))
	}
}

func TestCType(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{UInt32, "const unsigned int"},
		{UInt16, "const unsigned short"},
		{Int64, "const __int64"},
		{GUID, "const GUID"},
		{AnsiString, "LPCSTR"},
		{UnicodeString, "PCWSTR"},
		{Pointer, "const void*"},
		{Struct, "const void"},
		{Binary, "const BYTE"},
		{Type(200), ""},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			if got := tc.typ.CType(); got != tc.want {
				t.Errorf("CType() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIdent(t *testing.T) {
	if got := UInt32.Ident(); got != "win_UInt32" {
		t.Errorf("Ident() = %q, want %q", got, "win_UInt32")
	}
}

func TestIsInteger(t *testing.T) {
	integers := []Type{Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64, ULong}
	for _, typ := range integers {
		if !typ.IsInteger() {
			t.Errorf("%s should be an integer", typ)
		}
	}

	others := []Type{Null, Boolean, Double, GUID, AnsiString, UnicodeString, Pointer, Binary, Struct}
	for _, typ := range others {
		if typ.IsInteger() {
			t.Errorf("%s should not be an integer", typ)
		}
	}
}
