// Package emit renders C header text for bound events.
//
// Each artifact is a Strategy. The renderer walks providers and events in
// manifest order and hands each event, with its []Arg parameter list, to the
// strategy. Because every artifact reads the same []Arg, the wrapper, the
// cross-platform and event pipe declarations, the dummy macros and the sanity
// test all agree on parameter count, order and names.
//
// A struct parameter S is preceded by a synthetic "int S_ElementSize"
// position carrying the marshalled size of one element.
//
// Rendering never fails. Missing templates are caught by Bind.
package emit
