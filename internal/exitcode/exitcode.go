// Package exitcode defines exit codes for the taskboard CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments or an unknown task reference.
	UserError = 1

	// ConfigError indicates an unreadable or invalid config file.
	ConfigError = 2

	// StorageError indicates task storage could not be opened, read or written.
	StorageError = 3
)
