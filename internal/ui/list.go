package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/taskboard/internal/task"
)

// listHeight is the number of task list rows that fit on screen.
func (m Model) listHeight() int {
	return max(m.height-chromeHeight, 3)
}

// resize fits the list viewport to the window.
func (m *Model) resize() {
	m.list.Width = m.contentWidth() - 2
	m.list.Height = m.listHeight()
	m.editInput.Width = max(m.list.Width-6, 1)
}

// refreshList rebuilds the list content and scrolls the selection into view.
func (m *Model) refreshList() {
	if !m.ready || m.store == nil {
		return
	}
	m.clampSelection()
	content, rowLines := m.renderListContent(m.list.Width)
	m.rowLines = rowLines
	m.list.SetContent(content)

	if m.selected < 0 || m.selected >= len(rowLines) {
		m.list.GotoTop()
		return
	}
	line := rowLines[m.selected]
	// The first row of a section brings its header along.
	top := line
	if m.selected == 0 || rowLines[m.selected-1] != line-1 {
		top = line - 1
	}
	switch {
	case top < m.list.YOffset:
		m.list.SetYOffset(top)
	case line >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(line - m.list.Height + 1)
	}
}

// renderListContent renders the sections and returns the line index of every
// row, in rows() order.
func (m Model) renderListContent(width int) (string, []int) {
	styles := m.theme.Styles()
	snap := m.store.Snapshot()
	filter, counts := snap.Filter, snap.Counts

	if len(snap.Visible) == 0 {
		return m.renderEmpty(width, filter), nil
	}

	rows := m.rows()
	var lines []string
	var rowLines []int
	row := 0

	addSection := func(title string, done bool) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.Section.Render(title))
		for row < len(rows) && rows[row].Completed == done {
			rowLines = append(rowLines, len(lines))
			lines = append(lines, m.renderRow(rows[row], row == m.selected, width))
			row++
		}
	}

	if filter != task.FilterCompleted && counts.Active > 0 {
		addSection(countLabel("TODO", counts.Active), false)
	}
	if filter != task.FilterActive && counts.Completed > 0 {
		addSection(countLabel("COMPLETED", counts.Completed), true)
	}
	return strings.Join(lines, "\n"), rowLines
}

// renderEmpty renders the empty-state message for the active filter.
func (m Model) renderEmpty(width int, filter task.Filter) string {
	styles := m.theme.Styles()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var msg string
	switch filter {
	case task.FilterActive:
		msg = "No active tasks"
	case task.FilterCompleted:
		msg = "No completed tasks"
	default:
		msg = "No tasks yet"
	}

	lines := []string{"", center.Render(styles.MutedText.Render("○")), center.Render(styles.MutedText.Render(msg))}
	if filter == task.FilterAll {
		lines = append(lines, center.Render(styles.FaintText.Render("Add a task above to get started!")))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one task: marker, then the text or the inline editor.
func (m Model) renderRow(t task.Task, selected bool, width int) string {
	styles := m.theme.Styles()
	highlight := selected && m.focus == focusList

	marker := styles.MutedText.Render("○")
	if t.Completed {
		marker = styles.SuccessText.Render("✓")
	}

	var body string
	if edit, ok := m.store.Editing(); ok && edit.ID == t.ID {
		body = m.editInput.View()
	} else {
		text := truncate(t.Text, width-6)
		switch {
		case highlight:
			body = text
		case t.Completed:
			body = styles.Done.Render(text)
		default:
			body = styles.Text.Render(text)
		}
	}

	line := " " + marker + "  " + body
	if highlight {
		return styles.Selected.Width(width).Render(line)
	}
	return line
}

// renderListBox renders the scrolled list inside a titled box.
func (m Model) renderListBox(width int) string {
	title := "TASKS"
	if m.store.Filter() != task.FilterAll {
		title += " · " + strings.ToUpper(m.store.Filter().Label())
	}
	return m.renderTitledBox(title, m.list.View(), width, m.listHeight()+2, m.focus == focusList || m.isEditing())
}

// renderTitledBox renders content inside a border with a centered title.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	titleWidth := lipgloss.Width(title) + 2
	leftPad := max((innerWidth-titleWidth)/2, 0)
	rightPad := max(innerWidth-titleWidth-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	side := bg.Render("│", borderStyle)
	contentLines := strings.Split(content, "\n")
	boxLines := make([]string, 0, height)
	boxLines = append(boxLines, top)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		boxLines = append(boxLines, side+bg.FillLine(line, innerWidth)+side)
	}
	boxLines = append(boxLines, bottom)
	return strings.Join(boxLines, "\n")
}
