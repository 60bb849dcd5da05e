package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"markestedt/copyman/settings"
)

// FileStore persists settings as an indented JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore stores settings.json inside dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "settings.json")}
}

// Path returns the settings file location
func (f *FileStore) Path() string {
	return f.path
}

// Name identifies the backend in logs
func (f *FileStore) Name() string {
	return "file"
}

// Close is a no-op; FileStore holds no open handles
func (f *FileStore) Close() error {
	return nil
}

// GetSettings reads the settings file. A missing file yields the defaults.
func (f *FileStore) GetSettings(ctx context.Context) (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s settings.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes the file through a temporary sibling and a rename
func (f *FileStore) SaveSettings(ctx context.Context, s settings.Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
