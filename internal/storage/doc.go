// Package storage persists taskboard state in named local entries.
//
// # Overview
//
// A Backend is a small key/value store holding named entries, the local
// equivalent of a browser's localStorage. Three backends are provided:
//
//   - FileBackend: one file per entry under a data directory
//   - SQLiteBackend: an entries table in a SQLite database (modernc.org/sqlite)
//   - MemoryBackend: an in-process map for tests and ephemeral sessions
//
// TaskRepo sits on top of a Backend and implements state.Persister. It stores
// the full task sequence as a JSON array in the "todoTasks" entry:
//
//	[
//	  {"id": "1", "text": "Pay Bills", "completed": false, "createdAt": "2024-05-01T09:00:00Z"}
//	]
//
// # Error Handling
//
// Two sentinels describe the recoverable load outcomes:
//
//   - ErrNotFound: the entry does not exist yet
//   - ErrCorrupt: the entry exists but is not the expected array shape
//
// Callers match them with errors.Is. Every other error is an I/O failure and
// is returned wrapped with the failing operation.
//
// # Shape Validation
//
// Payloads are checked against an embedded JSON Schema before decoding, so a
// hand-edited or truncated entry is reported as ErrCorrupt instead of being
// half-decoded. Timestamps that fail to parse are tolerated and load as the
// zero time.
package storage
