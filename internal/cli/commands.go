package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/taskboard/internal/config"
	"github.com/five82/taskboard/internal/exitcode"
	"github.com/five82/taskboard/internal/logtail"
	"github.com/five82/taskboard/internal/mcp"
	"github.com/five82/taskboard/internal/state"
	"github.com/five82/taskboard/internal/task"
)

// defaultLogLines is how many log records `logs` prints without -n.
const defaultLogLines = 50

type action func(ctx context.Context, e *env, args []string) int

type command struct {
	name    string
	args    string
	summary string
	// bind registers command flags and returns the action to run once they are parsed.
	bind func(fs *flag.FlagSet) action
}

func (c command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

// commands is populated in init because help refers back to it.
var commands []command

func init() {
	commands = []command{
		{name: "ui", summary: "Open the interactive task list (default)", bind: bindUI},
		{name: "list", args: "[-filter all|active|completed]", summary: "Print tasks and counts", bind: bindList},
		{name: "add", args: "<text...>", summary: "Add a task", bind: bindAdd},
		{name: "toggle", args: "<ref>", summary: "Mark a task completed or active again", bind: bindToggle},
		{name: "rm", args: "<ref>", summary: "Delete a task", bind: bindDelete},
		{name: "edit", args: "<ref> <text...>", summary: "Replace a task's text", bind: bindEdit},
		{name: "logs", args: "[-n N] [-level LEVEL]", summary: "Print the end of the session log", bind: bindLogs},
		{name: "mcp", summary: "Serve task tools over MCP stdio", bind: bindMCP},
		{name: "help", summary: "Show this help", bind: bindHelp},
		{name: "version", summary: "Print the version", bind: bindVersion},
	}
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: taskboard [-config PATH] [-storage file|sqlite] [-data DIR] [-ephemeral] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-40s %s\n", c.usage(), c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <ref> is a task id or its 1-based position in the full list.")
}

func bindUI(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		if err := e.d.runUI(ctx, s); err != nil {
			return e.fail(exitcode.UserError, "%s", err)
		}
		return exitcode.Success
	}
}

func bindList(fs *flag.FlagSet) action {
	filterName := fs.String("filter", "", "")
	return func(ctx context.Context, e *env, args []string) int {
		var filter task.Filter
		if *filterName != "" {
			f, err := task.ParseFilter(*filterName)
			if err != nil {
				return e.fail(exitcode.UserError, "%s", err)
			}
			filter = f
		}

		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		if *filterName == "" {
			filter = s.Store.Filter()
		}
		shown := 0
		for i, tk := range s.Store.Tasks() {
			if !filter.Matches(tk) {
				continue
			}
			fmt.Fprintln(e.out, taskLine(i+1, tk))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(e.out, emptyMessage(filter))
		}
		counts := s.Store.Counts()
		fmt.Fprintf(e.out, "\n%d active, %d completed\n", counts.Active, counts.Completed)
		return exitcode.Success
	}
}

func bindAdd(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return e.fail(exitcode.UserError, "add requires task text")
		}

		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		if err := s.Store.Add(text); err != nil {
			return e.fail(exitcode.StorageError, "%s", err)
		}
		all := s.Store.Tasks()
		fmt.Fprintf(e.out, "Added task %d: %s\n", len(all), all[len(all)-1].Text)
		return exitcode.Success
	}
}

func bindToggle(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		if len(args) != 1 {
			return e.fail(exitcode.UserError, "toggle requires one task reference")
		}
		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		tk, ok := s.Store.Find(args[0])
		if !ok {
			return e.fail(exitcode.UserError, "task not found: %s", args[0])
		}
		if err := s.Store.Toggle(tk.ID); err != nil {
			return e.fail(exitcode.StorageError, "%s", err)
		}
		verb := "Completed"
		if tk.Completed {
			verb = "Reopened"
		}
		fmt.Fprintf(e.out, "%s task %d: %s\n", verb, position(s.Store, tk.ID), tk.Text)
		return exitcode.Success
	}
}

func bindDelete(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		if len(args) != 1 {
			return e.fail(exitcode.UserError, "rm requires one task reference")
		}
		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		tk, ok := s.Store.Find(args[0])
		if !ok {
			return e.fail(exitcode.UserError, "task not found: %s", args[0])
		}
		pos := position(s.Store, tk.ID)
		if err := s.Store.Delete(tk.ID); err != nil {
			return e.fail(exitcode.StorageError, "%s", err)
		}
		fmt.Fprintf(e.out, "Deleted task %d: %s\n", pos, tk.Text)
		return exitcode.Success
	}
}

func bindEdit(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		if len(args) < 2 {
			return e.fail(exitcode.UserError, "edit requires a task reference and new text")
		}
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			return e.fail(exitcode.UserError, "edit requires non-empty text")
		}

		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		tk, ok := s.Store.Find(args[0])
		if !ok {
			return e.fail(exitcode.UserError, "task not found: %s", args[0])
		}
		s.Store.BeginEdit(tk.ID, tk.Text)
		s.Store.SetEditText(text)
		if err := s.Store.CommitEdit(tk.ID); err != nil {
			return e.fail(exitcode.StorageError, "%s", err)
		}
		fmt.Fprintf(e.out, "Updated task %d: %s\n", position(s.Store, tk.ID), text)
		return exitcode.Success
	}
}

func bindLogs(fs *flag.FlagSet) action {
	lines := fs.Int("n", defaultLogLines, "")
	levelName := fs.String("level", "", "")
	return func(ctx context.Context, e *env, args []string) int {
		if *lines <= 0 {
			return e.fail(exitcode.UserError, "-n must be positive")
		}
		minLevel := log.DebugLevel
		if *levelName != "" {
			lvl, err := log.ParseLevel(*levelName)
			if err != nil {
				return e.fail(exitcode.UserError, "%s", err)
			}
			minLevel = lvl
		}

		cfg, err := config.Load(e.g.configPath)
		if err != nil {
			return e.fail(exitcode.ConfigError, "%s", err)
		}
		entries, err := logtail.Tail(cfg.LogFile, *lines, minLevel)
		if err != nil {
			return e.fail(exitcode.StorageError, "%s", err)
		}
		for _, entry := range entries {
			fmt.Fprintln(e.out, logtail.Format(entry))
		}
		return exitcode.Success
	}
}

func bindMCP(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		s, code := e.session()
		if s == nil {
			return code
		}
		defer s.Close()

		logger := s.Logger.WithPrefix("mcp")
		srv := mcp.NewServer(s.Store, e.d.version, logger)
		logger.Info("serving over stdio")
		err := mcp.Serve(ctx, srv, e.in, e.out)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return e.fail(exitcode.UserError, "mcp: %s", err)
		}
		return exitcode.Success
	}
}

func bindHelp(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		writeUsage(e.out)
		return exitcode.Success
	}
}

func bindVersion(fs *flag.FlagSet) action {
	return func(ctx context.Context, e *env, args []string) int {
		fmt.Fprintf(e.out, "taskboard %s\n", e.d.version)
		return exitcode.Success
	}
}

func taskLine(pos int, tk task.Task) string {
	mark := " "
	if tk.Completed {
		mark = "x"
	}
	return fmt.Sprintf("%3d [%s] %s", pos, mark, tk.Text)
}

func emptyMessage(f task.Filter) string {
	switch f {
	case task.FilterActive:
		return "No active tasks"
	case task.FilterCompleted:
		return "No completed tasks"
	default:
		return "No tasks yet"
	}
}

func position(s *state.Store, id string) int {
	for i, tk := range s.Tasks() {
		if tk.ID == id {
			return i + 1
		}
	}
	return 0
}
