// Package prefs persists taskboard user preferences.
// Preferences are stored as a TOML document in the storage entry "todoPrefs",
// next to the task list, so they follow the selected storage backend.
package prefs

import (
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/taskboard/internal/storage"
)

// Key is the storage entry holding the preferences document.
const Key = "todoPrefs"

// Prefs holds user preferences for taskboard.
type Prefs struct {
	Theme string `toml:"theme"`
}

// Load reads preferences from b. A missing or unreadable document yields
// Prefs{Theme: fallbackTheme}; only backend I/O failures are returned.
func Load(b storage.Backend, fallbackTheme string) (Prefs, error) {
	prefs := Prefs{Theme: fallbackTheme}

	data, err := b.Get(Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read prefs: %w", err)
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return prefs, nil // Graceful degradation
	}
	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		prefs.Theme = theme
	}
	return prefs, nil
}

// Save writes preferences to b.
func Save(b storage.Backend, p Prefs) error {
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := b.Set(Key, bytes); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
