// Package prefs persists nabsearch user preferences between runs.
// Preferences are stored in ~/.config/nabsearch/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"

	"github.com/five82/nabsearch/internal/config"
)

// Prefs holds the remembered API key and UI choices.
type Prefs struct {
	APIKey   string `toml:"api_key"`
	Remember bool   `toml:"remember"`
	Theme    string `toml:"theme"`
}

// Store loads and saves preferences.
type Store interface {
	Load() Prefs
	Save(Prefs) error
}

const (
	defaultPrefsPath = "~/.config/nabsearch/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", resolved).Warn("prefs unreadable, using defaults")
		}
		return prefs, nil
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		log.WithError(err).WithField("path", resolved).Warn("prefs malformed, using defaults")
		return Defaults(), nil
	}

	prefs.APIKey = strings.TrimSpace(prefs.APIKey)
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
// The file holds an API key, so it is private to the user.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// File is a Store backed by a TOML file.
type File struct {
	Path string
}

// Load implements Store.
func (f File) Load() Prefs {
	p, _ := Load(f.Path)
	return p
}

// Save implements Store.
func (f File) Save(p Prefs) error {
	return Save(f.Path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
