package storage

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrCorrupt is returned when an entry exists but cannot be decoded.
	ErrCorrupt = errors.New("entry corrupt")
)

// Backend stores named entries.
type Backend interface {
	// Get returns the entry value, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set creates or replaces an entry.
	Set(key string, value []byte) error
	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid entry name %q", key)
	}
	return nil
}

// MemoryBackend keeps entries in memory. The zero value is ready to use.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(value), nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = cloneBytes(value)
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
