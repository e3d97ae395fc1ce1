// Package ui provides the Bubble Tea terminal interface for taskboard.
//
// # Layout
//
// A single centered column, top to bottom:
//
//   - Header: "Todo List" and a subtitle
//   - ADD ITEM box holding the add input
//   - Filter tabs: All, Active, Completed (with counts when non-zero)
//   - TASKS box: a TODO section, then a COMPLETED section, or an
//     empty-state message for the active filter
//   - Footer: command hints, or the last status or error message
//
// # State
//
// Model renders from a *state.Store and calls its operations directly from
// Update; the store persists each change before Update returns. The add and
// edit inputs are bubbles textinputs whose values are mirrored into the
// store's input and edit buffers on every keystroke.
//
// The list is a bubbles viewport. Selection indexes the visible tasks in
// display order (TODO section first), and refreshList scrolls the selected
// row into view after every key.
//
// # Key Bindings
//
// Keys are resolved in priority order: ctrl+c, help overlay, inline edit,
// add input, list. While an input has focus, letter keys are typed rather
// than treated as commands. See keys.go for the full map; h or ? shows it.
//
// # Themes
//
// T cycles the built-in themes. The new theme is passed to
// Options.SaveTheme, which the app wires to internal/prefs.
package ui
