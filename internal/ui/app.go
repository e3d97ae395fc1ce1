package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/taskboard/internal/state"
	"github.com/five82/taskboard/internal/task"
)

// focusArea is the part of the screen receiving keys.
type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	ThemeName string
	// SaveTheme persists a newly selected theme. Nil disables saving.
	SaveTheme func(name string) error
	Logger    *log.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store     *state.Store
	keys      keyMap
	logger    *log.Logger
	saveTheme func(string) error

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	focus  focusArea

	// selected indexes rows(), the visible tasks in display order.
	selected int

	addInput  textinput.Model
	editInput textinput.Model
	list      viewport.Model
	rowLines  []int

	showHelp bool

	status      string
	statusIsErr bool
}

// New creates a new Bubble Tea model over a loaded store.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	add := textinput.New()
	add.Placeholder = "What needs to be done?"
	add.Prompt = "› "
	add.CharLimit = InputCharLimit
	if opts.Store != nil {
		add.SetValue(opts.Store.Input())
	}

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = InputCharLimit

	return Model{
		store:     opts.Store,
		keys:      DefaultKeyMap(),
		logger:    logger,
		saveTheme: opts.SaveTheme,
		theme:     GetTheme(themeName),
		focus:     focusList,
		addInput:  add,
		editInput: edit,
		list:      viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("Todo List")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		next.refreshList()
		return next, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refreshList()
		return m, nil
	}

	// Forward everything else (cursor blink) to the focused input.
	var cmd tea.Cmd
	switch {
	case m.isEditing():
		m.editInput, cmd = m.editInput.Update(msg)
	case m.focus == focusInput:
		m.addInput, cmd = m.addInput.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Priority: quit, help overlay, inline
// edit, add input, list.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.clearStatus()

	if m.isEditing() {
		return m.handleEditKey(msg)
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		text := m.addInput.Value()
		m.store.SetInput(text)
		before := len(m.store.Tasks())
		m.reportErr(m.store.Add(text))
		m.addInput.SetValue(m.store.Input())
		if len(m.store.Tasks()) > before {
			m.setStatus("Task added")
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Tab):
		m.focus = focusList
		m.addInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	m.store.SetInput(m.addInput.Value())
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	edit, _ := m.store.Editing()

	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.store.SetEditText(m.editInput.Value())
		m.reportErr(m.store.CommitEdit(edit.ID))
		if !m.isEditing() {
			m.editInput.Blur()
			m.selectTask(edit.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEdit()
		m.editInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.store.SetEditText(m.editInput.Value())
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.addInput.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(rows)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(len(rows)-1, 0)

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selectedTask(); ok {
			m.reportErr(m.store.Toggle(t.ID))
			m.selectTask(t.ID)
		}

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selectedTask(); ok {
			m.store.BeginEdit(t.ID, t.Text)
			m.editInput.SetValue(t.Text)
			m.editInput.CursorEnd()
			return m, m.editInput.Focus()
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.reportErr(m.store.Delete(t.ID))
			m.clampSelection()
		}

	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(task.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(task.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(task.FilterCompleted)
	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.store.Filter().Next())
	}

	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	m.store.SetFilter(f)
	m.selected = 0
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.setStatus("Theme: " + m.theme.Name)
	if m.saveTheme == nil {
		return
	}
	if err := m.saveTheme(m.theme.Name); err != nil {
		m.logger.Warn("save theme failed", "theme", m.theme.Name, "err", err)
		m.setError(fmt.Sprintf("Theme not saved: %v", err))
	}
}

func (m *Model) isEditing() bool {
	if m.store == nil {
		return false
	}
	_, ok := m.store.Editing()
	return ok
}

// rows returns the visible tasks in display order: the TODO section first,
// then the COMPLETED section.
func (m Model) rows() []task.Task {
	visible := m.store.VisibleTasks()
	rows := make([]task.Task, 0, len(visible))
	for _, t := range visible {
		if !t.Completed {
			rows = append(rows, t)
		}
	}
	for _, t := range visible {
		if t.Completed {
			rows = append(rows, t)
		}
	}
	return rows
}

func (m Model) selectedTask() (task.Task, bool) {
	rows := m.rows()
	if m.selected < 0 || m.selected >= len(rows) {
		return task.Task{}, false
	}
	return rows[m.selected], true
}

// selectTask moves the selection to id, or clamps it when id is not visible.
func (m *Model) selectTask(id string) {
	for i, t := range m.rows() {
		if t.ID == id {
			m.selected = i
			return
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	m.selected = clamp(m.selected, 0, len(m.rows())-1)
}

func (m *Model) reportErr(err error) {
	if err == nil {
		return
	}
	m.setError("Save failed: " + err.Error())
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusIsErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusIsErr = false
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui: store is required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
