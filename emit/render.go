package emit

import (
	"fmt"
	"strings"
)

const indent = "    "

// Strategy describes one artifact. The renderer owns traversal and parameter
// list layout; a strategy only decides what surrounds them.
type Strategy struct {
	// FileName is the default output name of the artifact.
	FileName string

	// Header is written once after the prolog.
	Header string

	// Event writes the declarations or definitions of one event.
	Event func(b *strings.Builder, ev *Event)
}

// Render produces the artifact for the given providers. source names the
// manifest in the prolog. Each provider's block is followed by a blank line.
func Render(s Strategy, source string, providers []*ProviderEvents) []byte {
	var b strings.Builder
	b.WriteString(Prolog(source))
	b.WriteString("\n")
	b.WriteString(s.Header)
	for _, pe := range providers {
		for _, ev := range pe.Events {
			s.Event(&b, ev)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Prolog is the banner at the top of every generated file.
func Prolog(source string) string {
	return fmt.Sprintf(`
/******************************************************************

DO NOT MODIFY. AUTOGENERATED FILE.
This file is generated by etwgen from %s

******************************************************************/
`, source)
}

// declList renders typed parameters, one per line, for a prototype. An empty
// list renders as nothing so the prototype reads "name()".
func declList(args []Arg) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, a := range args {
		b.WriteString(indent)
		b.WriteString(a.CType)
		b.WriteString(" ")
		b.WriteString(a.Name)
		if i < len(args)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// callList renders the untyped parameter names.
func callList(args []Arg) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// RenderEvent returns the text s produces for a single event.
func RenderEvent(s Strategy, ev *Event) string {
	var b strings.Builder
	s.Event(&b, ev)
	return b.String()
}
