// Package logtail reads back the session log written by internal/logging.
//
// Read extracts the last N lines of a file in one pass using a ring buffer of
// N entries, so memory stays proportional to N rather than the file size.
// Tail decodes those lines as logfmt records and filters them by level;
// Format turns a record into the one-line form printed by "taskboard logs".
//
// Missing log files read as empty. Lines that are not logfmt records are kept
// verbatim.
package logtail
