// Package prefs persists the user's display preferences across sessions.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preferences is the persisted document.
type Preferences struct {
	ShowSubtypes bool `yaml:"show_subtypes"`
}

// Store reads and writes Preferences to a YAML file. An empty path keeps
// preferences in memory only.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs Preferences
}

// Open loads preferences from path. A missing file yields the defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return s, nil
}

// Get returns a copy of the current preferences.
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// ShowSubtypes reports whether allele subtypes are shown.
func (s *Store) ShowSubtypes() bool {
	return s.Get().ShowSubtypes
}

// SetShowSubtypes stores the preference and saves it.
func (s *Store) SetShowSubtypes(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.ShowSubtypes = v
	return s.saveLocked()
}

// ToggleShowSubtypes flips the preference, saves it and returns the new
// value. On a save error the in-memory value is still flipped.
func (s *Store) ToggleShowSubtypes() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.ShowSubtypes = !s.prefs.ShowSubtypes
	return s.prefs.ShowSubtypes, s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
