package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/taskboard/internal/task"
)

// contentWidth is the width of the centered column.
func (m Model) contentWidth() int {
	w := min(m.width, MaxContentWidth)
	return max(w, MinContentWidth)
}

// renderMain renders the full screen.
func (m Model) renderMain() string {
	width := m.contentWidth()

	column := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		"",
		m.renderAddPanel(width),
		m.renderTabs(width),
		"",
		m.renderListBox(width),
		m.renderFooter(width),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Top,
		column,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

// renderHeader renders the title block.
func (m Model) renderHeader(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	center := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Background(lipgloss.Color(m.theme.Background))

	return center.Render(styles.Title.Render("Todo List")) + "\n" +
		center.Render(styles.MutedText.Render("Stay organized and productive"))
}

// renderAddPanel renders the add input inside a titled box.
func (m Model) renderAddPanel(width int) string {
	input := m.addInput
	input.Width = max(width-6, 1)
	return m.renderTitledBox("ADD ITEM", input.View(), width, 3, m.focus == focusInput && !m.isEditing())
}

// renderTabs renders the filter tabs. Active and Completed carry their
// full-sequence counts when non-zero.
func (m Model) renderTabs(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	counts := m.store.Counts()
	current := m.store.Filter()

	parts := make([]string, 0, len(task.Filters))
	for _, f := range task.Filters {
		label := f.Label()
		switch f {
		case task.FilterActive:
			label = countLabel(label, counts.Active)
		case task.FilterCompleted:
			label = countLabel(label, counts.Completed)
		}
		if f == current {
			parts = append(parts, styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(width).
		Align(lipgloss.Center).
		Render(bg.Join(parts, " "))
}

// renderFooter renders the status message or the command hints.
func (m Model) renderFooter(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.status != "" {
		style := styles.SuccessText
		if m.statusIsErr {
			style = styles.DangerText
		}
		return styles.Footer.Width(width).Render(bg.Render(truncate(m.status, width-2), style))
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch {
	case m.isEditing():
		commands = []cmd{{"enter", "Save"}, {"esc", "Cancel"}}
	case m.focus == focusInput:
		commands = []cmd{{"enter", "Add"}, {"esc", "List"}}
	default:
		commands = []cmd{
			{"a", "Add"},
			{"space", "Toggle"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"f", m.store.Filter().Label()},
			{"?", "Help"},
		}
	}

	colon := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(width).Render(strings.Join(segments, bg.Spaces(2)))
}
