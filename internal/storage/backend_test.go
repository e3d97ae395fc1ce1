package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	file, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "taskboard.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackend_GetMissingReturnsErrNotFound(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Get("todoTasks")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get missing error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBackend_SetGetReplaceDelete(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Set("todoTasks", []byte("first")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := b.Set("todoTasks", []byte("second")); err != nil {
				t.Fatalf("Set replace: %v", err)
			}
			got, err := b.Get("todoTasks")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "second" {
				t.Fatalf("Get = %q, want %q", got, "second")
			}

			if err := b.Delete("todoTasks"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := b.Get("todoTasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after Delete error = %v, want ErrNotFound", err)
			}
			if err := b.Delete("todoTasks"); err != nil {
				t.Fatalf("Delete missing returned error: %v", err)
			}
		})
	}
}

func TestBackend_EntriesAreIndependent(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Set("todoTasks", []byte("tasks")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := b.Set("todoPrefs", []byte("prefs")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := b.Get("todoTasks")
			if err != nil || string(got) != "tasks" {
				t.Fatalf("Get(todoTasks) = %q, %v; want tasks", got, err)
			}
		})
	}
}

func TestBackend_RejectsUnsafeKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
				if err := b.Set(key, []byte("x")); err == nil {
					t.Fatalf("Set(%q) returned nil error, want invalid entry name", key)
				}
			}
		})
	}
}

func TestMemoryBackend_GetReturnsCopy(t *testing.T) {
	var b MemoryBackend
	if err := b.Set("k", []byte("abc")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := b.Get("k")
	got[0] = 'z'
	again, _ := b.Get("k")
	if string(again) != "abc" {
		t.Fatalf("Get should return a copy; got %q", again)
	}
}

func TestFileBackend_WritesEntryFileWithoutTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if err := b.Set("todoTasks", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "todoTasks" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("data dir entries = %v, want [todoTasks]", names)
	}
}

func TestNewFileBackend_EmptyDirErrors(t *testing.T) {
	if _, err := NewFileBackend(""); err == nil {
		t.Fatalf("NewFileBackend(\"\") returned nil error")
	}
}

func TestOpenSQLite_InMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := db.Set("todoTasks", nil); err != nil {
		t.Fatalf("Set nil value: %v", err)
	}
	got, err := db.Get("todoTasks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Get = %q, want empty", got)
	}
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskboard.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := db.Set("todoTasks", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get("todoTasks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("Get = %q, want []", got)
	}
}
