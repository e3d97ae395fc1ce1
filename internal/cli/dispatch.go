// Package cli parses the taskboard command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/five82/taskboard/internal/app"
	"github.com/five82/taskboard/internal/exitcode"
)

// SessionFactory opens a session for commands that need the task store.
type SessionFactory func(opts app.Options) (*app.Session, error)

// UIRunner runs the interactive interface against an open session.
type UIRunner func(ctx context.Context, s *app.Session) error

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	open    SessionFactory
	runUI   UIRunner
	version string
}

// NewDispatcher creates a dispatcher. A nil factory uses app.Open and a nil
// runner uses the Bubble Tea interface.
func NewDispatcher(factory SessionFactory, runUI UIRunner, version string) *Dispatcher {
	if factory == nil {
		factory = app.Open
	}
	if runUI == nil {
		runUI = func(ctx context.Context, s *app.Session) error { return s.RunUI(ctx) }
	}
	return &Dispatcher{open: factory, runUI: runUI, version: version}
}

// globals are the flags accepted before the command name.
type globals struct {
	configPath string
	storage    string
	dataDir    string
	ephemeral  bool
}

func (g globals) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		Storage:    g.storage,
		DataDir:    g.dataDir,
		Ephemeral:  g.ephemeral,
	}
}

// env is what a command sees while it runs.
type env struct {
	d      *Dispatcher
	g      globals
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	var g globals
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&g.configPath, "config", "", "")
	fs.StringVar(&g.storage, "storage", "", "")
	fs.StringVar(&g.dataDir, "data", "", "")
	fs.BoolVar(&g.ephemeral, "ephemeral", false, "")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			writeUsage(out)
			return exitcode.Success
		}
		return flagError(errOut, err)
	}

	rest := fs.Args()
	name := "ui"
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	cmd, ok := findCommand(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cfs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	cfs.SetOutput(io.Discard)
	act := cmd.bind(cfs)
	if err := cfs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(out, "Usage: taskboard %s\n", cmd.usage())
			return exitcode.Success
		}
		return flagError(errOut, err)
	}

	e := &env{d: d, g: g, in: in, out: out, errOut: errOut}
	return act(ctx, e, cfs.Args())
}

// flagError reports a flag parse failure the same way for every flag set.
func flagError(errOut io.Writer, err error) int {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", name)
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", name)
	default:
		fmt.Fprintf(errOut, "error: %s\n", msg)
	}
	return exitcode.UserError
}

// session opens the task store, reporting failures with the matching exit code.
func (e *env) session() (*app.Session, int) {
	s, err := e.d.open(e.g.options())
	if err != nil {
		fmt.Fprintf(e.errOut, "error: %s\n", err)
		return nil, codeFor(err)
	}
	return s, exitcode.Success
}

func (e *env) fail(code int, format string, args ...any) int {
	fmt.Fprintf(e.errOut, "error: "+format+"\n", args...)
	return code
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, app.ErrConfig):
		return exitcode.ConfigError
	case errors.Is(err, app.ErrStorage):
		return exitcode.StorageError
	default:
		return exitcode.UserError
	}
}
