package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in generation the error occurred
type Phase string

const (
	PhaseParse      Phase = "parse"      // manifest reading
	PhaseResolve    Phase = "resolve"    // template resolution
	PhaseEstimate   Phase = "estimate"   // size estimation
	PhaseExclusions Phase = "exclusions" // exclusion file parsing
	PhaseValidate   Phase = "validate"   // cross-cutting policy checks
	PhaseEmit       Phase = "emit"       // artifact rendering
	PhaseWrite      Phase = "write"      // artifact output
)

// Kind categorizes the error
type Kind string

const (
	KindFieldUnknown     Kind = "field_unknown"
	KindConflicting      Kind = "conflicting_attributes"
	KindMalformedStruct  Kind = "malformed_struct"
	KindUnknownType      Kind = "unknown_type"
	KindTypeMismatch     Kind = "type_mismatch"
	KindFieldMissing     Kind = "field_missing"
	KindTooManyFields    Kind = "too_many_fields"
	KindTooFewFields     Kind = "too_few_fields"
	KindInconsistent     Kind = "inconsistent"
	KindNotFound         Kind = "not_found"
	KindInvalidData      Kind = "invalid_data"
	KindInvalidInput     Kind = "invalid_input"
	KindIO               Kind = "io"
	KindUnknownArguments Kind = "unknown_arguments"
)

// Error is the structured error type used throughout the generator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the manifest location
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ProviderPath returns the location path of a provider.
func ProviderPath(provider string) []string {
	return []string{"provider:" + provider}
}

// TemplatePath returns the location path of a template inside a provider.
func TemplatePath(provider, tid string) []string {
	return append(ProviderPath(provider), "template:"+tid)
}

// EventPath returns the location path of an event inside a provider.
func EventPath(provider, symbol string) []string {
	return append(ProviderPath(provider), "event:"+symbol)
}

// FieldUnknown creates an unknown attribute error
func FieldUnknown(phase Phase, path []string, attr string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown attribute %q", attr),
		Value:  attr,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
		Value:  fieldName,
	}
}

// UnknownType creates an error for an in-type outside the closed enumeration
func UnknownType(phase Phase, path []string, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Path:   path,
		Detail: fmt.Sprintf("don't know size for %s", typeName),
		Value:  typeName,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   path,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// IO wraps a file system failure on the named file
func IO(phase Phase, file string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Path:   []string{file},
		Detail: "file access failed",
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// UnknownArgumentsError is returned when the command line carries arguments
// the generator does not understand.
type UnknownArgumentsError struct {
	Args []string
}

func (e *UnknownArgumentsError) Error() string {
	return "Unknown argument(s): " + strings.Join(e.Args, ", ")
}

// Is reports whether target matches this error type
func (e *UnknownArgumentsError) Is(target error) bool {
	_, ok := target.(*UnknownArgumentsError)
	return ok
}
