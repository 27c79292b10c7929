// Package errors provides structured error types for the etwgen generator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the manifest location as a path, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindConflicting).
//		Path(errors.TemplatePath("Microsoft-Windows-DotNETRuntime", "GCStart")...).
//		Detail("both count and length on %s", name).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldUnknown(errors.PhaseResolve, path, "badattr")
//	err := errors.UnknownType(errors.PhaseEstimate, path, "win:Float")
//
// Every error is fatal to a generator run. All errors implement the standard
// error interface and support errors.Is/As.
package errors
