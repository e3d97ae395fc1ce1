// Package config loads taskboard's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/taskboard/config.toml
//  3. If the config file doesn't exist, use Default()
//  4. If the file exists but fields are missing or blank, use the defaults
//     for those fields
//
// # Fields
//
//	storage        = "file"      # or "sqlite"
//	data_dir       = "~/.local/share/taskboard"
//	log_file       = "~/.local/state/taskboard/taskboard.log"
//	log_level      = "info"      # debug, info, warn, error
//	theme          = ""          # initial theme when no preference is saved
//	default_filter = "all"       # all, active, completed
//
// Paths may start with ~ and are returned absolute. Unknown storage names,
// filters and log levels are errors; an unparseable file is reported as
// "parse config".
package config
