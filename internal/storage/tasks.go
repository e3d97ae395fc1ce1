package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/five82/taskboard/internal/task"
)

// TasksKey is the entry holding the saved task sequence.
const TasksKey = "todoTasks"

//go:embed tasks.schema.json
var tasksSchemaJSON string

var tasksSchema = jsonschema.MustCompileString("tasks.schema.json", tasksSchemaJSON)

// record is the persisted form of a task.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// TaskRepo saves and restores the task sequence through a Backend.
type TaskRepo struct {
	backend Backend
	key     string
}

// NewTaskRepo returns a TaskRepo storing tasks under TasksKey.
func NewTaskRepo(backend Backend) *TaskRepo {
	return &TaskRepo{backend: backend, key: TasksKey}
}

// Load returns the saved tasks. It returns ErrNotFound when nothing has been
// saved and an error wrapping ErrCorrupt when the entry has the wrong shape.
func (r *TaskRepo) Load() ([]task.Task, error) {
	data, err := r.backend.Get(r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return DecodeTasks(data)
}

// Save replaces the saved sequence with tasks. An empty sequence is saved as
// an empty array, not removed.
func (r *TaskRepo) Save(tasks []task.Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.backend.Set(r.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// EncodeTasks serializes tasks as a JSON array.
func EncodeTasks(tasks []task.Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: formatTime(t.CreatedAt),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a JSON array produced by EncodeTasks. Ids must be unique.
func DecodeTasks(data []byte) ([]task.Task, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := tasksSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, schemaMessage(err))
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	tasks := make([]task.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if seen[rec.ID] {
			return nil, fmt.Errorf("%w: /%d/id: duplicate id %q", ErrCorrupt, i, rec.ID)
		}
		seen[rec.ID] = true
		tasks = append(tasks, task.Task{
			ID:        rec.ID,
			Text:      rec.Text,
			Completed: rec.Completed,
			CreatedAt: parseTime(rec.CreatedAt),
		})
	}
	return tasks, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// schemaMessage reduces a schema error to its first leaf cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
