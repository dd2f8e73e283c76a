// Package prefs persists user preferences (default provider and model)
// between runs as a small JSON file under the user config directory.
// The chat facade never reads preferences; the CLI resolves them into the
// facade's construction config.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const prefsFileName = "prefs.json"

// Preferences are the persisted user defaults. Zero values mean "no
// preference recorded"; callers fall back to their own defaults.
type Preferences struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Store reads and writes Preferences at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store rooted at dir. The directory is created on first
// Save, not here.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, prefsFileName)}
}

// DefaultDir returns the per-user preferences directory
// (e.g. ~/.config/chatbot-agent on Linux).
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(configDir, "chatbot-agent"), nil
}

// Load reads the persisted preferences. A missing file yields empty
// preferences, not an error; a corrupt file is an error.
func (s *Store) Load() (Preferences, error) {
	var prefs Preferences

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("reading preferences: %w", err)
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}
	return prefs, nil
}

// Save writes the preferences atomically: a temp file in the same directory
// is renamed over the target so readers never observe a partial write.
func (s *Store) Save(prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), prefsFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp preferences file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing preferences file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing preferences file: %w", err)
	}
	return nil
}
