package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Colors are keyed
// by the snake_case field name, for example added or range_highlight.
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Base   string            `toml:"base"`
	Colors map[string]string `toml:"colors"`
}

func (c *Colors) fields() map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"normal":          &c.Normal,
		"added":           &c.Added,
		"removed":         &c.Removed,
		"modified":        &c.Modified,
		"absent":          &c.Absent,
		"background":      &c.Background,
		"selected":        &c.Selected,
		"range_highlight": &c.RangeHighlight,
		"arrow":           &c.Arrow,
		"divider":         &c.Divider,
		"editor_text":     &c.EditorText,
		"editor_cursor":   &c.EditorCursor,
		"search_label":    &c.SearchLabel,
		"search_match":    &c.SearchMatch,
		"status_mode":     &c.StatusMode,
		"status_message":  &c.StatusMessage,
		"status_modified": &c.StatusModified,
		"header_title":    &c.HeaderTitle,
	}
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "hierarchy-diff", "themes"),
		filepath.Join(home, ".local", "share", "hierarchy-diff", "themes"),
	}
}

// findThemeFile searches for a theme file in the given directories
func findThemeFile(themeName string, dirs []string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range dirs {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName, getThemePaths())
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme applies the configured colors over the base theme, Tokyo
// Night unless base names another built-in theme
func configToTheme(config ThemeConfig) (*Theme, error) {
	base := TokyoNight()
	if config.Base != "" {
		b, ok := Builtin(config.Base)
		if !ok {
			return nil, fmt.Errorf("unknown base theme %q", config.Base)
		}
		base = b
	}

	fields := base.Colors.fields()
	var unknown []string
	for key, value := range config.Colors {
		field, ok := fields[strings.ToLower(key)]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*field = ParseColorString(value)
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown theme colors: %s", strings.Join(unknown, ", "))
	}
	if _, ok := config.Colors["range_highlight"]; !ok {
		base.Colors.RangeHighlight = Blend(base.Colors.Background, base.Colors.Selected, 0.5)
	}

	if config.Name != "" {
		base.Name = config.Name
	}
	return base, nil
}

// LoadThemeOrDefault loads a built-in or file theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if t, ok := Builtin(themeName); ok {
		return t
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
