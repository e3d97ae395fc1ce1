// Package app is the composition root for taskboard.
//
// Open turns Options and config.toml into a Session:
//
//  1. Load the config file (config.Load) and apply flag overrides
//  2. Open the session log file (internal/logging)
//  3. Open the storage backend: a directory of entry files, a SQLite
//     database, or memory for ephemeral sessions
//  4. Build the task store over storage.TaskRepo and Load it
//
// The CLI, the MCP server and the TUI all run against a Session. RunUI reads
// the theme from prefs and blocks in ui.Run until the user quits or the
// context is cancelled.
//
// Errors from Open wrap ErrConfig or ErrStorage so callers can map them to
// exit codes with errors.Is.
package app
