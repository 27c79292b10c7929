package emit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wippyai/etwgen/template"
	"github.com/wippyai/etwgen/wintype"
)

// Sanity test asset file names.
const (
	TestCMakeFile  = "CMakeLists.txt"
	TestSourceFile = "clralltestevents.cpp"
	TestInfoFile   = "testinfo.dat"
)

// Artifact is one generated file, named relative to its output directory.
type Artifact struct {
	Name    string
	Content []byte
}

// TestAssets renders the sanity test that fires every event once with literal
// arguments. Argument lists come from the same Args as the headers.
func TestAssets(source string, providers []*ProviderEvents) []Artifact {
	return []Artifact{
		{Name: TestCMakeFile, Content: []byte(testCMake())},
		{Name: TestSourceFile, Content: []byte(testSource(source, providers))},
		{Name: TestInfoFile, Content: []byte(testInfo)},
	}
}

func testCMake() string {
	return `
#
#******************************************************************

# DO NOT MODIFY. AUTOGENERATED FILE.
# This file is generated by etwgen

#******************************************************************

cmake_minimum_required(VERSION 2.8.12.2)
set(CMAKE_INCLUDE_CURRENT_DIR ON)
set(SOURCES
    ` + TestSourceFile + `
)
include_directories(${GENERATED_INCLUDE_DIR})
include_directories(${COREPAL_SOURCE_DIR}/inc/rt)

add_executable(eventprovidertest
    ${SOURCES}
)
set(EVENT_PROVIDER_DEPENDENCIES "")
set(EVENT_PROVIDER_LINKER_OTPTIONS "")
if(FEATURE_EVENT_TRACE)
    add_definitions(-DFEATURE_EVENT_TRACE=1)
    list(APPEND EVENT_PROVIDER_DEPENDENCIES
        coreclrtraceptprovider
        eventprovider
    )
    list(APPEND EVENT_PROVIDER_LINKER_OTPTIONS
        ${EVENT_PROVIDER_DEPENDENCIES}
    )
endif(FEATURE_EVENT_TRACE)

add_dependencies(eventprovidertest ${EVENT_PROVIDER_DEPENDENCIES} coreclrpal)
target_link_libraries(eventprovidertest
    coreclrpal
    ${EVENT_PROVIDER_LINKER_OTPTIONS}
)
`
}

const testInfo = `
Version = 1.0
Section = EventProvider
Function = EventProvider
Name = PAL test for FireEtW* and EventEnabled* functions
TYPE = DEFAULT
EXE1 = eventprovidertest
Description
=This is a sanity test to check that there are no crashes in Xplat eventing
`

const testPrelude = `
/*=====================================================================
**
** Source:   ` + TestSourceFile + `
**
** Purpose:  Ensure Correctness of Eventing code
**
**===================================================================*/
#include <palsuite.h>
#include <` + XplatFile + `>

typedef struct _Struct1 {
    ULONG   Data1;
    unsigned short Data2;
    unsigned short Data3;
    unsigned char  Data4[8];
} Struct1;

Struct1 var21[2] = { { 245, 13, 14, "deadbea" }, { 542, 0, 14, "deadflu" } };

Struct1* var11 = var21;

GUID win_GUID = { 245, 13, 14, "deadbea" };
double win_Double = 34.04;
ULONG win_ULong = 34;
BOOL win_Boolean = FALSE;
signed char win_Int8 = 7;
unsigned char win_UInt8 = 9;
signed short win_Int16 = 11;
unsigned short win_UInt16 = 12;
signed int win_Int32 = 12;
unsigned int win_UInt32 = 4;
__int64 win_Int64 = 113;
unsigned __int64 win_UInt64 = 114;
BYTE* win_Binary = (BYTE*)var21;
`

const testMainStart = `
int __cdecl main(int argc, char **argv)
{
    /* Initialize the PAL.
    */
    if(0 != PAL_Initialize(argc, argv))
    {
        return FAIL;
    }

    ULONG Error = ERROR_SUCCESS;
#if defined(FEATURE_EVENT_TRACE)
    Trace("\n Starting functional  eventing APIs tests  \n");

`

const testMainEnd = `
    /* Shutdown the PAL.
    */
    if (Error != ERROR_SUCCESS)
    {
        Fail("One or more eventing Apis failed\n ");
        return FAIL;
    }
    Trace("\n All eventing APIs were fired successfully \n");
#endif //defined(FEATURE_EVENT_TRACE)
    PAL_Terminate();
    return PASS;
}
`

func testSource(source string, providers []*ProviderEvents) string {
	var b strings.Builder
	b.WriteString(Prolog(source))
	b.WriteString(testPrelude)

	for i, pe := range providers {
		for _, t := range SortedTemplates(pe.Templates) {
			for _, st := range t.StructList() {
				writeStructTypedef(&b, structTypeName(i, t.ID, st.Name), st)
			}
		}
	}

	b.WriteString(testMainStart)
	for i, pe := range providers {
		for _, ev := range pe.Events {
			writeTestCall(&b, i, ev)
		}
	}
	b.WriteString(testMainEnd)
	return b.String()
}

func writeStructTypedef(b *strings.Builder, name string, st *template.Struct) {
	fmt.Fprintf(b, "\ntypedef struct _%s {\n", name)
	if len(st.Fields) == 0 {
		fmt.Fprintf(b, "%sunsigned char Unused;\n", indent)
	}
	for _, f := range st.Fields {
		fmt.Fprintf(b, "%s%s %s;\n", indent, f.Type.FieldType(), f.Name)
	}
	fmt.Fprintf(b, "} %s;\n", name)
	fmt.Fprintf(b, "%s %s_values[2] = {};\n", name, name)
}

func writeTestCall(b *strings.Builder, providerIdx int, ev *Event) {
	fmt.Fprintf(b, "%sEventXplatEnabled%s();\n", indent, ev.Symbol)
	if len(ev.Args) == 0 {
		fmt.Fprintf(b, "%sError |= FireEtXplat%s();\n", indent, ev.Symbol)
		return
	}

	values := make([]string, len(ev.Args))
	for i, a := range ev.Args {
		values[i] = indent + indent + testValue(a, func(structName string) string {
			return structTypeName(providerIdx, ev.Template.ID, structName)
		})
	}
	fmt.Fprintf(b, "%sError |= FireEtXplat%s(\n%s\n%s);\n", indent, ev.Symbol, strings.Join(values, ",\n"), indent)
}

// testValue picks a literal argument for one parameter position.
func testValue(a Arg, structType func(string) string) string {
	if a.IsElementSize() {
		return "sizeof(" + structType(a.SizeOf) + ")"
	}
	p := a.Param
	if strings.EqualFold(p.Name, template.StructCountField) {
		return "2"
	}
	switch p.Type {
	case wintype.Binary:
		return "win_Binary"
	case wintype.Pointer:
		if p.IsCounted() {
			return "(const void**)&var11"
		}
		return "(const void*)var11"
	case wintype.AnsiString:
		return `" Testing AnsiString "`
	case wintype.UnicodeString:
		return `W(" Testing UnicodeString ")`
	case wintype.Struct:
		return structType(p.Name) + "_values"
	}
	if p.IsCounted() {
		return "&" + p.Type.Ident()
	}
	return p.Type.Ident()
}

// SortedTemplates returns the templates of l ordered by id.
func SortedTemplates(l template.Lookup) []*template.Template {
	out := make([]*template.Template, 0, len(l))
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out = append(out, l[id])
	}
	return out
}

func structTypeName(providerIdx int, tid, structName string) string {
	return fmt.Sprintf("P%d_%s_%s", providerIdx, cIdent(tid), cIdent(structName))
}

// cIdent replaces every byte that cannot appear in a C identifier.
func cIdent(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
