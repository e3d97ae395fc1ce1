package state

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/five82/taskboard/internal/storage"
	"github.com/five82/taskboard/internal/task"
)

// Persister loads and saves the full task sequence.
type Persister interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
}

// Options configure a Store. Zero values select production defaults.
type Options struct {
	Logger *log.Logger
	Now    func() time.Time
	NewID  func() string
	Filter task.Filter
}

// EditTarget identifies the task being edited and its pending text.
type EditTarget struct {
	ID     string
	Buffer string
}

// Snapshot is an immutable view of the store for renderers.
type Snapshot struct {
	Tasks   []task.Task
	Visible []task.Task
	Counts  task.Counts
	Filter  task.Filter
	Input   string
	Editing *EditTarget
}

// Store owns the task sequence, the active filter, the pending input and the
// in-progress edit. Every mutation of the sequence is persisted.
//
// A Store is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Store struct {
	persister Persister
	logger    *log.Logger
	now       func() time.Time
	newID     func() string

	tasks   []task.Task
	filter  task.Filter
	input   string
	editing *EditTarget
}

// New returns an empty store backed by p. Call Load before use.
func New(p Persister, opts Options) *Store {
	s := &Store{
		persister: p,
		logger:    opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
		filter:    opts.Filter,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Load restores the saved sequence. When nothing is saved, or the saved data
// is unreadable, the default tasks are installed and persisted instead. Only
// storage I/O failures are returned.
func (s *Store) Load() error {
	tasks, err := s.persister.Load()
	switch {
	case err == nil:
		s.tasks = tasks
		s.logger.Debug("tasks loaded", "count", len(tasks))
		return nil
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no saved tasks, using defaults")
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("saved tasks unreadable, using defaults", "err", err)
	default:
		return fmt.Errorf("load tasks: %w", err)
	}

	s.tasks = task.Defaults(s.now())
	return s.save()
}

// Add appends a new incomplete task. Blank text is ignored.
func (s *Store) Add(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t := task.Task{
		ID:        s.uniqueID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, t)
	s.input = ""
	s.logger.Debug("task added", "id", t.ID)
	return s.save()
}

// SetInput replaces the pending add-input buffer.
func (s *Store) SetInput(text string) {
	s.input = text
}

// Input returns the pending add-input buffer.
func (s *Store) Input() string {
	return s.input
}

// Toggle flips the completion flag of the task with id.
func (s *Store) Toggle(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return s.save()
}

// Delete removes the task with id.
func (s *Store) Delete(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	s.logger.Debug("task deleted", "id", id)
	return s.save()
}

// BeginEdit makes id the edit target and seeds the buffer with currentText.
func (s *Store) BeginEdit(id, currentText string) {
	s.editing = &EditTarget{ID: id, Buffer: currentText}
}

// SetEditText replaces the edit buffer. It does nothing when no edit is active.
func (s *Store) SetEditText(text string) {
	if s.editing == nil {
		return
	}
	s.editing.Buffer = text
}

// Editing returns the current edit target, or false when none is active.
func (s *Store) Editing() (EditTarget, bool) {
	if s.editing == nil {
		return EditTarget{}, false
	}
	return *s.editing, true
}

// CommitEdit writes the trimmed edit buffer to the task with id and ends the
// edit. A blank buffer leaves the task and the edit untouched.
func (s *Store) CommitEdit(id string) error {
	if s.editing == nil {
		return nil
	}
	text := strings.TrimSpace(s.editing.Buffer)
	if text == "" {
		return nil
	}
	s.editing = nil

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Text = text
	s.logger.Debug("task edited", "id", id)
	return s.save()
}

// CancelEdit ends the edit without changing any task.
func (s *Store) CancelEdit() {
	s.editing = nil
}

// SetFilter selects the active filter.
func (s *Store) SetFilter(f task.Filter) {
	s.filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() task.Filter {
	return s.filter
}

// VisibleTasks returns the tasks matching the active filter in sequence order.
func (s *Store) VisibleTasks() []task.Task {
	return s.filter.Apply(s.tasks)
}

// Counts tallies the full sequence, ignoring the filter.
func (s *Store) Counts() task.Counts {
	return task.Count(s.tasks)
}

// Tasks returns a copy of the full sequence.
func (s *Store) Tasks() []task.Task {
	return task.Clone(s.tasks)
}

// Find resolves ref to a task. ref is either a task id or a 1-based position
// in the full sequence; ids take precedence.
func (s *Store) Find(ref string) (task.Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, false
	}
	if i := s.indexOf(ref); i >= 0 {
		return s.tasks[i], true
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(s.tasks) {
		return task.Task{}, false
	}
	return s.tasks[n-1], true
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Tasks:   task.Clone(s.tasks),
		Visible: s.VisibleTasks(),
		Counts:  s.Counts(),
		Filter:  s.filter,
		Input:   s.input,
	}
	if s.editing != nil {
		edit := *s.editing
		snap.Editing = &edit
	}
	return snap
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused, so an injected generator can never
// break id uniqueness.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) save() error {
	if err := s.persister.Save(task.Clone(s.tasks)); err != nil {
		s.logger.Error("save tasks failed", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
