package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// ErrUnknownStore is returned by Open for an unsupported URI scheme.
var ErrUnknownStore = errors.New("unknown settings store")

// Repository loads and saves the single settings record.
// Load returns empty settings for a missing, unreadable or corrupt record.
// It fails only when the backend itself cannot be reached.
type Repository interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Open picks a repository from a URI:
//
//	file:///path/to/settings.toml (or a bare path)
//	redis://host:6379/0?key=tategaki:settings
//	memory:
func Open(uri string) (Repository, error) {
	switch {
	case uri == "" || uri == "memory:" || uri == "memory://":
		return NewMemoryStore(Settings{}), nil
	case strings.HasPrefix(uri, "redis://"), strings.HasPrefix(uri, "rediss://"):
		return OpenRedis(uri)
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse settings uri: %w", err)
		}
		path := u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + path
		}
		return NewFileStore(path), nil
	case !strings.Contains(uri, "://"):
		return NewFileStore(uri), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStore, uri)
}

// MemoryStore keeps the record in process; used by tests and `serve` without persistence.
type MemoryStore struct {
	mu sync.RWMutex
	s  Settings
}

// NewMemoryStore returns a store holding initial.
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{s: initial}
}

// Load returns the stored record.
func (m *MemoryStore) Load(ctx context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, nil
}

// Save replaces the stored record.
func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}
