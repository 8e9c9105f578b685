// Package prefs handles atlas user preferences persistence.
// Preferences are stored in ~/.config/atlas/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Theme names a colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Prefs holds user preferences for atlas.
type Prefs struct {
	// Theme is empty when the user never chose one.
	Theme Theme `toml:"theme,omitempty"`
}

const defaultPrefsPath = "~/.config/atlas/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Missing or unreadable files and
// unknown themes all read as "no preference"; Load never fails.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Prefs{}
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Prefs{}
	}

	var raw struct {
		Theme string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Prefs{}
	}

	theme := Theme(strings.ToLower(strings.TrimSpace(raw.Theme)))
	if !theme.Valid() {
		return Prefs{}
	}
	return Prefs{Theme: theme}
}

// ThemeOr returns the saved theme, or the one matching the terminal
// background when nothing valid is saved.
func (p Prefs) ThemeOr(systemDark bool) Theme {
	if p.Theme.Valid() {
		return p.Theme
	}
	if systemDark {
		return ThemeDark
	}
	return ThemeLight
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	if p.Theme != "" && !p.Theme.Valid() {
		return fmt.Errorf("invalid theme %q", p.Theme)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
