package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/taskboard/internal/app"
	"github.com/five82/taskboard/internal/cli"
	"github.com/five82/taskboard/internal/exitcode"
)

// writeConfig points data and logs into a temp dir and returns the config path.
func writeConfig(t *testing.T, extra string) (path, dir string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir = t.TempDir()
	body := fmt.Sprintf("data_dir = '%s'\nlog_file = '%s'\n%s",
		filepath.Join(dir, "data"), filepath.Join(dir, "taskboard.log"), extra)
	path = filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(nil, nil, "test")
	got := run(t, d, "unknowncmd")

	if got.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, got.code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if got.stderr != expected {
		t.Errorf("expected %q, got %q", expected, got.stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := cli.NewDispatcher(nil, nil, "test")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--bogus"}, "error: unknown flag: -bogus\n"},
		{[]string{"list", "-bogus"}, "error: unknown flag: -bogus\n"},
		{[]string{"list", "-filter"}, "error: flag needs an argument: -filter\n"},
	}
	for _, tt := range tests {
		got := run(t, d, tt.args...)
		if got.code != exitcode.UserError {
			t.Errorf("%v: exit code = %d, want %d", tt.args, got.code, exitcode.UserError)
		}
		if got.stderr != tt.want {
			t.Errorf("%v: stderr = %q, want %q", tt.args, got.stderr, tt.want)
		}
	}
}

func TestDispatcher_HelpAndVersion(t *testing.T) {
	d := cli.NewDispatcher(nil, nil, "1.2.3")

	got := run(t, d, "help")
	if got.code != exitcode.Success || got.stderr != "" {
		t.Fatalf("help = %+v", got)
	}
	for _, want := range []string{"Usage:", "toggle <ref>", "mcp"} {
		if !strings.Contains(got.stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}

	got = run(t, d, "version")
	if got.stdout != "taskboard 1.2.3\n" {
		t.Errorf("version = %q, want %q", got.stdout, "taskboard 1.2.3\n")
	}
}

func TestDispatcher_DefaultCommandRunsUI(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")
	var tasks int
	runUI := func(ctx context.Context, s *app.Session) error {
		tasks = len(s.Store.Tasks())
		return nil
	}
	d := cli.NewDispatcher(nil, runUI, "test")

	got := run(t, d, "-config", cfgPath)
	if got.code != exitcode.Success {
		t.Fatalf("exit code = %d, stderr = %q", got.code, got.stderr)
	}
	if tasks != 3 {
		t.Fatalf("ui saw %d tasks, want 3 defaults", tasks)
	}
}

func TestDispatcher_TaskCommandsPersist(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")
	d := cli.NewDispatcher(nil, nil, "test")

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"add", "Read", "book"}, "Added task 4: Read book\n"},
		{[]string{"toggle", "1"}, "Completed task 1: Pay Bills\n"},
		{[]string{"toggle", "3"}, "Reopened task 3: See the Doctor\n"},
		{[]string{"edit", "2", "Buy", "groceries"}, "Updated task 2: Buy groceries\n"},
		{[]string{"rm", "4"}, "Deleted task 4: Read book\n"},
	}
	for _, step := range steps {
		got := run(t, d, append([]string{"-config", cfgPath}, step.args...)...)
		if got.code != exitcode.Success {
			t.Fatalf("%v: exit code = %d, stderr = %q", step.args, got.code, got.stderr)
		}
		if got.stdout != step.want {
			t.Fatalf("%v: stdout = %q, want %q", step.args, got.stdout, step.want)
		}
	}

	got := run(t, d, "-config", cfgPath, "list")
	want := "  1 [x] Pay Bills\n  2 [ ] Buy groceries\n  3 [ ] See the Doctor\n\n2 active, 1 completed\n"
	if got.stdout != want {
		t.Fatalf("list = %q, want %q", got.stdout, want)
	}

	got = run(t, d, "-config", cfgPath, "list", "-filter", "completed")
	want = "  1 [x] Pay Bills\n\n2 active, 1 completed\n"
	if got.stdout != want {
		t.Fatalf("list -filter completed = %q, want %q", got.stdout, want)
	}
}

func TestDispatcher_DefaultFilterFromConfig(t *testing.T) {
	cfgPath, _ := writeConfig(t, "default_filter = 'completed'\n")
	d := cli.NewDispatcher(nil, nil, "test")

	got := run(t, d, "-config", cfgPath, "list")
	want := "  3 [x] See the Doctor\n\n2 active, 1 completed\n"
	if got.stdout != want {
		t.Fatalf("list = %q, want %q", got.stdout, want)
	}
}

func TestDispatcher_UserErrors(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")
	d := cli.NewDispatcher(nil, nil, "test")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"add", "   "}, "error: add requires task text\n"},
		{[]string{"toggle"}, "error: toggle requires one task reference\n"},
		{[]string{"toggle", "9"}, "error: task not found: 9\n"},
		{[]string{"rm", "nope"}, "error: task not found: nope\n"},
		{[]string{"edit", "1"}, "error: edit requires a task reference and new text\n"},
		{[]string{"edit", "1", " "}, "error: edit requires non-empty text\n"},
		{[]string{"logs", "-n", "0"}, "error: -n must be positive\n"},
	}
	for _, tt := range tests {
		got := run(t, d, append([]string{"-config", cfgPath}, tt.args...)...)
		if got.code != exitcode.UserError {
			t.Errorf("%v: exit code = %d, want %d", tt.args, got.code, exitcode.UserError)
		}
		if got.stderr != tt.want {
			t.Errorf("%v: stderr = %q, want %q", tt.args, got.stderr, tt.want)
		}
	}

	got := run(t, d, "-config", cfgPath, "list", "-filter", "someday")
	if got.code != exitcode.UserError {
		t.Errorf("bad filter exit code = %d, want %d", got.code, exitcode.UserError)
	}
}

func TestDispatcher_ConfigErrorExitCode(t *testing.T) {
	cfgPath, _ := writeConfig(t, "storage = 'floppy'\n")
	d := cli.NewDispatcher(nil, nil, "test")

	got := run(t, d, "-config", cfgPath, "list")
	if got.code != exitcode.ConfigError {
		t.Fatalf("exit code = %d, want %d (stderr %q)", got.code, exitcode.ConfigError, got.stderr)
	}
	if !strings.HasPrefix(got.stderr, "error: ") {
		t.Fatalf("stderr = %q, want error prefix", got.stderr)
	}
}

func TestDispatcher_StorageErrorExitCode(t *testing.T) {
	factory := func(opts app.Options) (*app.Session, error) {
		return nil, fmt.Errorf("%w: %w", app.ErrStorage, errors.New("disk on fire"))
	}
	d := cli.NewDispatcher(factory, nil, "test")

	got := run(t, d, "list")
	if got.code != exitcode.StorageError {
		t.Fatalf("exit code = %d, want %d", got.code, exitcode.StorageError)
	}
	if !strings.Contains(got.stderr, "disk on fire") {
		t.Fatalf("stderr = %q, want underlying error", got.stderr)
	}
}

func TestDispatcher_GlobalOverridesReachSession(t *testing.T) {
	var seen app.Options
	factory := func(opts app.Options) (*app.Session, error) {
		seen = opts
		return nil, fmt.Errorf("%w: stop", app.ErrConfig)
	}
	d := cli.NewDispatcher(factory, nil, "test")

	run(t, d, "-config", "/tmp/c.toml", "-storage", "sqlite", "-data", "/tmp/d", "-ephemeral", "list")
	want := app.Options{ConfigPath: "/tmp/c.toml", Storage: "sqlite", DataDir: "/tmp/d", Ephemeral: true}
	if seen != want {
		t.Fatalf("options = %+v, want %+v", seen, want)
	}
}

func TestDispatcher_EphemeralLeavesNoData(t *testing.T) {
	cfgPath, dir := writeConfig(t, "")
	d := cli.NewDispatcher(nil, nil, "test")

	if got := run(t, d, "-config", cfgPath, "-ephemeral", "add", "Scratch"); got.code != exitcode.Success {
		t.Fatalf("add exit code = %d, stderr = %q", got.code, got.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "data")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("data dir stat err = %v, want not exist", err)
	}
}

func TestDispatcher_Logs(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")
	d := cli.NewDispatcher(nil, nil, "test")

	if got := run(t, d, "-config", cfgPath, "add", "Read book"); got.code != exitcode.Success {
		t.Fatalf("add exit code = %d, stderr = %q", got.code, got.stderr)
	}

	got := run(t, d, "-config", cfgPath, "logs")
	if got.code != exitcode.Success {
		t.Fatalf("logs exit code = %d, stderr = %q", got.code, got.stderr)
	}
	if !strings.Contains(got.stdout, "session opened") {
		t.Fatalf("logs output %q missing session record", got.stdout)
	}

	got = run(t, d, "-config", cfgPath, "logs", "-level", "error")
	if got.code != exitcode.Success || got.stdout != "" {
		t.Fatalf("logs -level error = %+v, want no output", got)
	}
}
