package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/five82/taskboard/internal/task"
)

func TestTaskRepo_LoadMissingReturnsErrNotFound(t *testing.T) {
	repo := NewTaskRepo(NewMemoryBackend())
	if _, err := repo.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load error = %v, want ErrNotFound", err)
	}
}

func TestTaskRepo_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 15, 123000000, time.UTC)
	tasks := []task.Task{
		{ID: "1", Text: "Pay Bills", CreatedAt: created},
		{ID: "b7e2", Text: "Read book", Completed: true, CreatedAt: created.Add(time.Hour)},
	}

	repo := NewTaskRepo(NewMemoryBackend())
	if err := repo.Save(tasks); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(tasks) {
		t.Fatalf("Load returned %d tasks, want %d", len(got), len(tasks))
	}
	for i := range tasks {
		if got[i].ID != tasks[i].ID || got[i].Text != tasks[i].Text || got[i].Completed != tasks[i].Completed {
			t.Fatalf("Load[%d] = %+v, want %+v", i, got[i], tasks[i])
		}
		if !got[i].CreatedAt.Equal(tasks[i].CreatedAt) {
			t.Fatalf("Load[%d].CreatedAt = %v, want %v", i, got[i].CreatedAt, tasks[i].CreatedAt)
		}
	}
}

func TestTaskRepo_SaveEmptyWritesEmptyArray(t *testing.T) {
	backend := NewMemoryBackend()
	repo := NewTaskRepo(backend)
	if err := repo.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := backend.Get(TasksKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("saved payload = %q, want []", raw)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load returned %d tasks, want 0", len(got))
	}
}

func TestEncodeTasks_FieldNames(t *testing.T) {
	data, err := EncodeTasks([]task.Task{{ID: "1", Text: "x", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}})
	if err != nil {
		t.Fatalf("EncodeTasks: %v", err)
	}
	want := `[{"id":"1","text":"x","completed":false,"createdAt":"2024-01-02T03:04:05Z"}]`
	if string(data) != want {
		t.Fatalf("EncodeTasks = %s, want %s", data, want)
	}
}

func TestDecodeTasks_AcceptsMillisecondTimestamps(t *testing.T) {
	data := []byte(`[{"id":"1","text":"Pay Bills","completed":false,"createdAt":"2024-05-01T09:00:00.000Z"}]`)
	got, err := DecodeTasks(data)
	if err != nil {
		t.Fatalf("DecodeTasks: %v", err)
	}
	want := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if !got[0].CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", got[0].CreatedAt, want)
	}
}

func TestDecodeTasks_BadTimestampLoadsZeroTime(t *testing.T) {
	data := []byte(`[{"id":"1","text":"a","completed":true,"createdAt":"yesterday"}]`)
	got, err := DecodeTasks(data)
	if err != nil {
		t.Fatalf("DecodeTasks: %v", err)
	}
	if !got[0].CreatedAt.IsZero() {
		t.Fatalf("CreatedAt = %v, want zero", got[0].CreatedAt)
	}
}

func TestDecodeTasks_CorruptShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"truncated", `[{"id":"1","text":"a"`},
		{"object not array", `{"id":"1","text":"a","completed":false}`},
		{"null", `null`},
		{"string item", `["Pay Bills"]`},
		{"missing id", `[{"text":"a","completed":false}]`},
		{"numeric id", `[{"id":1,"text":"a","completed":false}]`},
		{"string completed", `[{"id":"1","text":"a","completed":"yes"}]`},
		{"duplicate id", `[{"id":"1","text":"a"},{"id":"1","text":"b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTasks([]byte(tt.data))
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("DecodeTasks(%s) error = %v, want ErrCorrupt", tt.data, err)
			}
		})
	}
}

func TestDecodeTasks_CorruptErrorNamesLocation(t *testing.T) {
	_, err := DecodeTasks([]byte(`[{"id":"1","text":"a","completed":false},{"id":"2","text":5,"completed":false}]`))
	if err == nil {
		t.Fatalf("DecodeTasks returned nil error")
	}
	if !strings.Contains(err.Error(), "/1/text") {
		t.Fatalf("error = %q, want it to mention /1/text", err.Error())
	}
}

type failingBackend struct {
	MemoryBackend
	getErr error
	setErr error
}

func (f *failingBackend) Get(key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryBackend.Get(key)
}

func (f *failingBackend) Set(key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryBackend.Set(key, value)
}

func TestTaskRepo_WrapsBackendErrors(t *testing.T) {
	boom := errors.New("disk gone")
	repo := NewTaskRepo(&failingBackend{getErr: boom, setErr: boom})

	if _, err := repo.Load(); !errors.Is(err, boom) || errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load error = %v, want wrapped disk error", err)
	}
	if err := repo.Save(nil); !errors.Is(err, boom) {
		t.Fatalf("Save error = %v, want wrapped disk error", err)
	}
}
