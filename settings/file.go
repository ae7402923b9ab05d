package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileStore persists settings as a TOML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the TOML file. A missing, unreadable or malformed file yields
// empty settings; values of the wrong type are dropped field by field.
func (f *FileStore) Load(ctx context.Context) (Settings, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Settings{}, nil
	}
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Settings{}, nil
	}
	return Decode(raw), nil
}

// Save writes the record, creating parent directories as needed.
func (f *FileStore) Save(ctx context.Context, s Settings) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(s); err != nil {
		tmp.Close()
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
