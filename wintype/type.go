package wintype

import "strings"

// Type is a manifest in-type. The set is closed: every value has an entry in
// each table below.
type Type uint8

const (
	Null Type = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	ULong
	Boolean
	Double
	GUID
	AnsiString
	UnicodeString
	Pointer
	Binary
	Struct
)

var typeNames = [...]string{
	Null:          "win:null",
	Int8:          "win:Int8",
	UInt8:         "win:UInt8",
	Int16:         "win:Int16",
	UInt16:        "win:UInt16",
	Int32:         "win:Int32",
	UInt32:        "win:UInt32",
	Int64:         "win:Int64",
	UInt64:        "win:UInt64",
	ULong:         "win:ULong",
	Boolean:       "win:Boolean",
	Double:        "win:Double",
	GUID:          "win:GUID",
	AnsiString:    "win:AnsiString",
	UnicodeString: "win:UnicodeString",
	Pointer:       "win:Pointer",
	Binary:        "win:Binary",
	Struct:        "win:Struct",
}

// prototype types, const qualified as they appear in generated signatures
var cTypes = [...]string{
	Null:          "",
	Int8:          "const signed char",
	UInt8:         "const unsigned char",
	Int16:         "const signed short",
	UInt16:        "const unsigned short",
	Int32:         "const signed int",
	UInt32:        "const unsigned int",
	Int64:         "const __int64",
	UInt64:        "const unsigned __int64",
	ULong:         "const ULONG",
	Boolean:       "const BOOL",
	Double:        "const double",
	GUID:          "const GUID",
	AnsiString:    "LPCSTR",
	UnicodeString: "PCWSTR",
	Pointer:       "const void*",
	Binary:        "const BYTE",
	Struct:        "const void",
}

// member types used when laying out struct typedefs
var fieldTypes = [...]string{
	Null:          "",
	Int8:          "signed char",
	UInt8:         "unsigned char",
	Int16:         "signed short",
	UInt16:        "unsigned short",
	Int32:         "signed int",
	UInt32:        "unsigned int",
	Int64:         "__int64",
	UInt64:        "unsigned __int64",
	ULong:         "ULONG",
	Boolean:       "BOOL",
	Double:        "double",
	GUID:          "GUID",
	AnsiString:    "LPCSTR",
	UnicodeString: "PCWSTR",
	Pointer:       "void*",
	Binary:        "BYTE",
	Struct:        "void*",
}

var byName map[string]Type

func init() {
	byName = make(map[string]Type, len(typeNames))
	for i, name := range typeNames {
		byName[name] = Type(i)
	}
}

// Parse maps a manifest inType attribute to its Type.
func Parse(name string) (Type, bool) {
	t, ok := byName[name]
	return t, ok
}

// Valid reports whether t is a member of the enumeration.
func (t Type) Valid() bool {
	return int(t) < len(typeNames)
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return "unknown"
}

// CType returns the prototype type text for a scalar parameter of type t.
func (t Type) CType() string {
	if t.Valid() {
		return cTypes[t]
	}
	return ""
}

// FieldType returns the unqualified member type used inside struct typedefs.
func (t Type) FieldType() string {
	if t.Valid() {
		return fieldTypes[t]
	}
	return ""
}

// Ident returns the name with the namespace separator replaced, usable as a C
// identifier ("win:UInt32" -> "win_UInt32").
func (t Type) Ident() string {
	return strings.ReplaceAll(t.String(), ":", "_")
}

// IsInteger reports whether t can hold an element count.
func (t Type) IsInteger() bool {
	switch t {
	case Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64, ULong:
		return true
	default:
		return false
	}
}
