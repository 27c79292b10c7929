package generator

import (
	"bytes"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/etwgen/emit"
	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/exclusion"
	"github.com/wippyai/etwgen/manifest"
	"github.com/wippyai/etwgen/template"
)

// Options selects the inputs and the artifacts of one run. An empty output
// field skips that artifact.
type Options struct {
	// Manifest is the instrumentation manifest path. Required.
	Manifest string

	// Exclusions is the exclusion list path. Required.
	Exclusions string

	// IncludeDir receives the wrapper, cross-platform and event pipe headers.
	IncludeDir string

	// DummyFile is the path of the no-op header.
	DummyFile string

	// TestDir receives the sanity test assets.
	TestDir string

	// DumpFile is the path of the JSON dump of resolved templates.
	DumpFile string
}

// File is one rendered artifact.
type File struct {
	Path    string
	Content []byte
}

// Result holds everything a run produced in memory.
type Result struct {
	Manifest   *manifest.Manifest
	Exclusions *exclusion.Exclusions
	Providers  []*emit.ProviderEvents
	Files      []File
}

// Build parses, resolves, validates and renders without touching the file
// system beyond reading the two inputs.
func Build(opts Options) (*Result, error) {
	if opts.Manifest == "" {
		return nil, errors.InvalidInput(errors.PhaseParse, "manifest path is required")
	}
	if opts.Exclusions == "" {
		return nil, errors.InvalidInput(errors.PhaseExclusions, "exclusion list path is required")
	}

	m, err := manifest.Load(opts.Manifest)
	if err != nil {
		return nil, err
	}
	ex, err := exclusion.Load(opts.Exclusions)
	if err != nil {
		return nil, err
	}

	res := &Result{Manifest: m, Exclusions: ex}
	for _, p := range m.Providers {
		lookup, err := template.ResolveAll(p)
		if err != nil {
			return nil, err
		}
		if err := exclusion.Validate(p, lookup, ex); err != nil {
			return nil, err
		}
		pe, err := emit.Bind(p, lookup)
		if err != nil {
			return nil, err
		}
		res.Providers = append(res.Providers, pe)
	}

	if err := res.render(opts); err != nil {
		return nil, err
	}

	Logger().Debug("build complete",
		zap.String("manifest", opts.Manifest),
		zap.Int("providers", len(res.Providers)),
		zap.Int("files", len(res.Files)))
	return res, nil
}

func (r *Result) render(opts Options) error {
	source := filepath.Base(opts.Manifest)

	if opts.IncludeDir != "" {
		for _, s := range emit.Headers {
			r.add(filepath.Join(opts.IncludeDir, s.FileName), emit.Render(s, source, r.Providers))
		}
	}
	if opts.DummyFile != "" {
		r.add(opts.DummyFile, emit.Render(emit.Dummy, source, r.Providers))
	}
	if opts.TestDir != "" {
		for _, a := range emit.TestAssets(source, r.Providers) {
			r.add(filepath.Join(opts.TestDir, a.Name), a.Content)
		}
	}
	if opts.DumpFile != "" {
		var buf bytes.Buffer
		if err := Dump(&buf, r.Providers); err != nil {
			return errors.New(errors.PhaseEmit, errors.KindInvalidData).
				Path(opts.DumpFile).
				Detail("encode dump").
				Cause(err).
				Build()
		}
		r.add(opts.DumpFile, buf.Bytes())
	}
	return nil
}

func (r *Result) add(path string, content []byte) {
	r.Files = append(r.Files, File{Path: path, Content: content})
}

// Write creates missing parent directories and writes every rendered file.
func (r *Result) Write() error {
	for _, f := range r.Files {
		if err := writeFile(f); err != nil {
			return err
		}
		Logger().Info("wrote artifact", zap.String("path", f.Path), zap.Int("bytes", len(f.Content)))
	}
	return nil
}

func writeFile(f File) (err error) {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.IO(errors.PhaseWrite, dir, err)
		}
	}
	out, err := os.Create(f.Path)
	if err != nil {
		return errors.IO(errors.PhaseWrite, f.Path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.IO(errors.PhaseWrite, f.Path, cerr)
		}
	}()
	if _, err := out.Write(f.Content); err != nil {
		return errors.IO(errors.PhaseWrite, f.Path, err)
	}
	return nil
}

// Run builds every artifact and writes them. Nothing is written when any
// input fails to parse, resolve or validate.
func Run(opts Options) (*Result, error) {
	res, err := Build(opts)
	if err != nil {
		return nil, err
	}
	if err := res.Write(); err != nil {
		return res, err
	}
	return res, nil
}
