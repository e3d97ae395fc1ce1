package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/taskboard/internal/task"
)

// Storage backend names accepted in the storage field.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds the taskboard settings read from config.toml.
type Config struct {
	Storage       string
	DataDir       string
	LogFile       string
	LogLevel      string
	Theme         string
	DefaultFilter task.Filter
}

const (
	defaultConfigPath = "~/.config/taskboard/config.toml"
	defaultDataDir    = "~/.local/share/taskboard"
	defaultLogFile    = "~/.local/state/taskboard/taskboard.log"
	defaultLogLevel   = "info"
	defaultStorage    = StorageFile
	databaseFile      = "taskboard.db"
)

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Storage:       defaultStorage,
		DataDir:       mustExpand(defaultDataDir),
		LogFile:       mustExpand(defaultLogFile),
		LogLevel:      defaultLogLevel,
		DefaultFilter: task.FilterAll,
	}
}

// Load locates and parses the taskboard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Storage       string `toml:"storage"`
		DataDir       string `toml:"data_dir"`
		LogFile       string `toml:"log_file"`
		LogLevel      string `toml:"log_level"`
		Theme         string `toml:"theme"`
		DefaultFilter string `toml:"default_filter"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Storage)); v != "" {
		cfg.Storage = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	cfg.DefaultFilter, err = task.ParseFilter(raw.DefaultFilter)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: default_filter: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used to open a session.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q (want %q or %q)", c.Storage, StorageFile, StorageSQLite)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// DatabasePath returns the SQLite database location inside DataDir.
func (c Config) DatabasePath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(mustExpand(defaultDataDir), databaseFile)
	}
	return filepath.Join(c.DataDir, databaseFile)
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
