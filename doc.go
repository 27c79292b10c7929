// Package etwgen generates C event tracing headers from an instrumentation
// manifest.
//
// A manifest declares providers, their reusable parameter templates and their
// events. The generator resolves each template into an ordered parameter
// signature, checks the events against an exclusion list, and emits several
// headers that must agree on every event's parameter list.
//
// # Architecture Overview
//
//	etwgen/
//	├── cmd/etwgen/     Command line entry point and interactive browser
//	├── generator/      Pipeline: load, resolve, validate, render, write
//	├── manifest/       XML manifest tree and typed provider/template/event view
//	├── template/       Template resolution into dependency-ordered signatures
//	├── wintype/        Manifest in-types, C type mapping and payload sizing
//	├── exclusion/      Exclusion list rules and consistency validation
//	├── emit/           Header strategies and sanity test assets
//	└── errors/         Structured error types for diagnostics
//
// # Quick Start
//
//	res, err := generator.Run(generator.Options{
//	    Manifest:   "ClrEtwAll.man",
//	    Exclusions: "ClrEtwAllExclusions.lst",
//	    IncludeDir: "inc",
//	    DummyFile:  "inc/etmdummy.h",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Files), "files written")
//
// # Generated Artifacts
//
//   - clretwallmain.h: EventEnabled and FireEtw wrappers dispatching to both backends
//   - clrxplatevents.h: cross-platform logging declarations
//   - clreventpipewriteevents.h: event pipe declarations
//   - dummy header: FireEtw macros expanding to 0
//   - sanity test: CMakeLists.txt, clralltestevents.cpp, testinfo.dat
//
// # Failure Model
//
// Every error is fatal. Validation completes before anything is rendered, and
// everything is rendered before the first file is written, so a failed run
// leaves the output tree as it was.
package etwgen
