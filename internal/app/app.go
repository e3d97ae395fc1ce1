package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/taskboard/internal/config"
	"github.com/five82/taskboard/internal/logging"
	"github.com/five82/taskboard/internal/prefs"
	"github.com/five82/taskboard/internal/state"
	"github.com/five82/taskboard/internal/storage"
	"github.com/five82/taskboard/internal/ui"
)

var (
	// ErrConfig marks failures to load or validate configuration.
	ErrConfig = errors.New("config")

	// ErrStorage marks failures to open or read task storage.
	ErrStorage = errors.New("storage")
)

// Options configure a taskboard session. Non-empty fields override config.toml.
type Options struct {
	ConfigPath string
	Storage    string // "file" or "sqlite"
	DataDir    string
	// Ephemeral keeps everything in memory for the lifetime of the session.
	Ephemeral bool
	// Logger replaces the session log file.
	Logger *log.Logger
}

// Session is an open store plus the resources behind it.
type Session struct {
	Config  config.Config
	Backend storage.Backend
	Store   *state.Store
	Logger  *log.Logger

	closers []io.Closer
}

// Open loads configuration, opens logging and storage, and loads the task
// store. Errors wrap ErrConfig or ErrStorage.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	s := &Session{Config: cfg, Logger: opts.Logger}
	if s.Logger == nil {
		s.Logger = s.openLog()
	}

	backend, err := openBackend(cfg, opts.Ephemeral)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.Backend = backend
	s.closers = append(s.closers, backend)

	s.Store = state.New(storage.NewTaskRepo(backend), state.Options{
		Logger: s.Logger.WithPrefix("store"),
		Filter: cfg.DefaultFilter,
	})
	if err := s.Store.Load(); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.Logger.Info("session opened",
		"storage", backendName(cfg, opts.Ephemeral),
		"data_dir", cfg.DataDir,
		"tasks", len(s.Store.Tasks()))
	return s, nil
}

// Close releases storage and the log file.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Theme returns the saved theme, falling back to the configured one.
func (s *Session) Theme() string {
	p, err := prefs.Load(s.Backend, s.Config.Theme)
	if err != nil {
		s.Logger.Warn("load prefs failed", "err", err)
	}
	return p.Theme
}

// SaveTheme persists the selected theme.
func (s *Session) SaveTheme(name string) error {
	return prefs.Save(s.Backend, prefs.Prefs{Theme: name})
}

// RunUI runs the TUI against an open session until the user quits or ctx ends.
func (s *Session) RunUI(ctx context.Context) error {
	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     s.Store,
		ThemeName: s.Theme(),
		SaveTheme: s.SaveTheme,
		Logger:    s.Logger.WithPrefix("ui"),
	})
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.ToLower(strings.TrimSpace(opts.Storage)); v != "" {
		cfg.Storage = v
	}
	if v := strings.TrimSpace(opts.DataDir); v != "" {
		dir, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	return cfg.Validate()
}

// openLog opens the session log file. Logging is best effort: a log file
// that cannot be opened leaves the session with a discarding logger.
func (s *Session) openLog() *log.Logger {
	logger, closer, err := logging.OpenFile(logging.Options{
		Path:  s.Config.LogFile,
		Level: logging.ParseLevel(s.Config.LogLevel),
	})
	if err != nil {
		return logging.Discard()
	}
	s.closers = append(s.closers, closer)
	return logger
}

func openBackend(cfg config.Config, ephemeral bool) (storage.Backend, error) {
	if ephemeral {
		return storage.NewMemoryBackend(), nil
	}
	switch cfg.Storage {
	case config.StorageSQLite:
		return storage.OpenSQLite(cfg.DatabasePath())
	case config.StorageFile:
		return storage.NewFileBackend(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func backendName(cfg config.Config, ephemeral bool) string {
	if ephemeral {
		return "memory"
	}
	return cfg.Storage
}
