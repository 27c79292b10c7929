// Package generator runs the whole pipeline for one manifest.
//
// Build reads the manifest and the exclusion list once, resolves every
// provider's templates, validates them against the exclusions, binds events
// and renders every requested artifact in memory. Run calls Build and only
// then writes the files, so a failing manifest leaves the output tree
// untouched.
package generator
