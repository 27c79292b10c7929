package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/etwgen/errors"
	"github.com/wippyai/etwgen/exclusion"
	"github.com/wippyai/etwgen/generator"
	"github.com/wippyai/etwgen/template"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	errLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	okLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98FB98"))
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("etwgen", flag.ContinueOnError)
	var (
		manFile     = fs.String("man", "", "Path to the manifest describing the events")
		excFile     = fs.String("exc", "", "Path to the exclusion list")
		incDir      = fs.String("inc", "", "Directory receiving the generated headers")
		dummyFile   = fs.String("dummy", "", "Path of the header with no-op FireEtw definitions")
		testDir     = fs.String("testdir", "", "Directory receiving the sanity test assets")
		dumpFile    = fs.String("dump", "", "Path of a JSON dump of the resolved templates")
		interactive = fs.Bool("i", false, "Browse events and signatures in a TUI instead of writing files")
		verbose     = fs.Bool("v", false, "Debug logging")
		quiet       = fs.Bool("q", false, "Only log errors")
	)
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if rest := fs.Args(); len(rest) > 0 {
		fmt.Fprintln(os.Stderr, (&errors.UnknownArgumentsError{Args: rest}).Error())
		return exitUsage
	}

	if *manFile == "" || *excFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: etwgen -man <manifest> -exc <exclusions> [-inc dir] [-dummy file] [-testdir dir] [-dump file]")
		fmt.Fprintln(os.Stderr, "       etwgen -man <manifest> -exc <exclusions> -i  (interactive mode)")
		return exitUsage
	}

	log, err := newLogger(*verbose, *quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()
	template.SetLogger(log.Named("template"))
	exclusion.SetLogger(log.Named("exclusion"))
	generator.SetLogger(log.Named("generator"))

	opts := generator.Options{
		Manifest:   *manFile,
		Exclusions: *excFile,
		IncludeDir: *incDir,
		DummyFile:  *dummyFile,
		TestDir:    *testDir,
		DumpFile:   *dumpFile,
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			printError(err)
			return exitFailure
		}
		return exitOK
	}

	res, err := generator.Run(opts)
	if err != nil {
		printError(err)
		return exitFailure
	}
	if !*quiet {
		printDone(len(res.Files))
	}
	return exitOK
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if isTerminal(os.Stderr) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printError(err error) {
	label := "Error:"
	if isTerminal(os.Stderr) {
		label = errLabel.Render(label)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", label, err)
}

func printDone(files int) {
	label := "Done:"
	if isTerminal(os.Stdout) {
		label = okLabel.Render(label)
	}
	fmt.Printf("%s %d file(s) generated\n", label, files)
}
