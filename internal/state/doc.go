// Package state implements the task store behind every taskboard front end.
//
// # Overview
//
// Store owns four pieces of session state:
//
//   - the ordered task sequence
//   - the active filter (all, active, completed)
//   - the pending add-input buffer
//   - the edit target: none, or one task id plus its edit buffer
//
// Front ends (the TUI, CLI commands and MCP tools) call Store operations in
// response to discrete user actions and render from Snapshot. Nothing in the
// store blocks or runs in the background.
//
// # Persistence
//
// The store is constructed with a Persister, usually storage.TaskRepo. Load
// restores the saved sequence; when the persister reports storage.ErrNotFound
// or storage.ErrCorrupt the three default tasks are installed and saved.
//
// Every operation that changes the sequence (Add, Toggle, Delete, CommitEdit)
// saves the full sequence afterwards, including when it becomes empty, so an
// emptied list reloads as empty rather than as the defaults. Operations that
// turn out to be no-ops (blank text, unknown id) do not save.
//
// # Invalid Input
//
// Blank add text and blank edit buffers are ignored rather than reported.
// The only errors returned are persistence failures; the in-memory change is
// kept in that case and the caller decides how to surface the error.
//
// # Identity
//
// New tasks get random UUIDs. Options.NewID and Options.Now replace the id
// generator and clock in tests; the store still guarantees that ids are never
// reused within a sequence.
//
// # Snapshots
//
// Snapshot copies the task slices and the edit target, so renderers can hold
// on to one while the store keeps changing:
//
//	snap := store.Snapshot()
//	for _, t := range snap.Visible {
//		fmt.Println(t.Text)
//	}
package state
