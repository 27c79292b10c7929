package emit

import (
	"fmt"
	"strings"
)

// Default artifact file names.
const (
	WrapperFile   = "clretwallmain.h"
	XplatFile     = "clrxplatevents.h"
	EventPipeFile = "clreventpipewriteevents.h"
	DummyFile     = "etmdummy.h"
)

// Wrapper emits the dispatch header: an enablement check that is on when
// either logging mechanism is on, and a fire function that always writes to
// the event pipe and, when cross-platform logging is on, also to it.
var Wrapper = Strategy{
	FileName: WrapperFile,
	Header:   "\n#include \"" + XplatFile + "\"\n#include \"" + EventPipeFile + "\"\n\n",
	Event:    wrapperEvent,
}

// Xplat emits the cross-platform logging declarations.
var Xplat = Strategy{
	FileName: XplatFile,
	Event:    xplatEvent,
}

// EventPipe emits the event pipe declarations.
var EventPipe = Strategy{
	FileName: EventPipeFile,
	Event:    eventPipeEvent,
}

// Dummy emits always-zero stand-ins for builds without event tracing.
var Dummy = Strategy{
	FileName: DummyFile,
	Event:    dummyEvent,
}

// Headers lists the strategies written to the include directory.
var Headers = []Strategy{Wrapper, Xplat, EventPipe}

func wrapperEvent(b *strings.Builder, ev *Event) {
	s := ev.Symbol
	call := callList(ev.Args)

	fmt.Fprintf(b, "inline BOOL EventEnabled%s() {return EventPipeEventEnabled%s() || "+
		"(XplatEventLogger::IsEventLoggingEnabled() && EventXplatEnabled%s());}\n\n", s, s, s)

	fmt.Fprintf(b, "inline ULONG FireEtw%s(%s)\n{\n", s, declList(ev.Args))
	fmt.Fprintf(b, "%sULONG status = EventPipeWriteEvent%s(%s);\n", indent, s, call)
	fmt.Fprintf(b, "%sif(XplatEventLogger::IsEventLoggingEnabled())\n", indent)
	fmt.Fprintf(b, "%s{\n", indent)
	fmt.Fprintf(b, "%s%sstatus &= FireEtXplat%s(%s);\n", indent, indent, s, call)
	fmt.Fprintf(b, "%s}\n", indent)
	fmt.Fprintf(b, "%sreturn status;\n", indent)
	b.WriteString("}\n\n")
}

func xplatEvent(b *strings.Builder, ev *Event) {
	fmt.Fprintf(b, "extern \"C\" BOOL EventXplatEnabled%s();\n", ev.Symbol)
	fmt.Fprintf(b, "extern \"C\" ULONG FireEtXplat%s(%s);\n", ev.Symbol, declList(ev.Args))
}

func eventPipeEvent(b *strings.Builder, ev *Event) {
	fmt.Fprintf(b, "extern \"C\" bool EventPipeEventEnabled%s();\n", ev.Symbol)
	fmt.Fprintf(b, "extern \"C\" ULONG EventPipeWriteEvent%s(%s);\n", ev.Symbol, declList(ev.Args))
}

func dummyEvent(b *strings.Builder, ev *Event) {
	fmt.Fprintf(b, "#define FireEtw%s(%s) 0\n", ev.Symbol, callList(ev.Args))
}
