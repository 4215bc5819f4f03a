// Package prefs persists the user's display name, temperature unit and last
// selected city.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/weatherlens/internal/units"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

// Preferences is the persisted document.
type Preferences struct {
	Name     string            `json:"name"`
	Unit     units.Temperature `json:"unit"`
	LastCity string            `json:"last_city,omitempty"`
}

// Greeting returns the dashboard header line for the user.
func (p Preferences) Greeting() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Hello!"
	}
	return fmt.Sprintf("Hello, %s!", strings.TrimSpace(p.Name))
}

// Store manages the preferences file.
type Store struct {
	path  string
	mu    sync.RWMutex
	prefs Preferences
}

// Open loads the preferences at path. A missing file yields defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: Preferences{Unit: units.Celsius}}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	if err := s.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

// Load re-reads the file from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var loaded Preferences
	if err := json.Unmarshal(data, &loaded); err != nil {
		return wlerrors.NewParseError(s.path, 0, err)
	}

	unit, err := units.ParseTemperature(string(loaded.Unit))
	if err != nil {
		return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, "unit", string(loaded.Unit), err.Error(), err)
	}
	loaded.Unit = unit

	s.prefs = loaded
	return nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update applies fn to a copy of the preferences and saves the result.
func (s *Store) Update(fn func(*Preferences)) error {
	s.mu.Lock()
	next := s.prefs
	fn(&next)
	s.prefs = next
	s.mu.Unlock()

	return s.Save()
}

// Save writes the preferences to disk atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
