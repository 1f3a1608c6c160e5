package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ncruces/go-strftime"
	"github.com/pelletier/go-toml/v2"
)

// Config holds application configuration
type Config struct {
	Theme    string       `toml:"theme" validate:"required"`
	LogFile  string       `toml:"log_file"`
	LogLevel string       `toml:"log_level" validate:"oneof=debug info warn error"`
	Editor   string       `toml:"editor"`
	Diff     DiffConfig   `toml:"diff"`
	Report   ReportConfig `toml:"report"`
	Backup   BackupConfig `toml:"backup"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// DiffConfig controls how documents are paired
type DiffConfig struct {
	Similarity        string `toml:"similarity" validate:"oneof=format structural fuzzy"`
	CollapseUnchanged bool   `toml:"collapse_unchanged"`
	ContextLines      int    `toml:"context_lines" validate:"gte=0,lte=20"`
}

// ReportConfig controls the text report
type ReportConfig struct {
	Color           string `toml:"color" validate:"oneof=auto always never"`
	TimestampFormat string `toml:"timestamp_format" validate:"strftime"`
}

// BackupConfig controls backups taken before saving
type BackupConfig struct {
	Dir  string `toml:"dir"`
	Keep int    `toml:"keep" validate:"gte=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("strftime", validateStrftime)
}

func validateStrftime(fl validator.FieldLevel) bool {
	layout := fl.Field().String()
	if layout == "" {
		return false
	}
	_, err := strftime.Layout(layout)
	return err == nil
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file. Keys missing from the file
// keep their defaults.
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the persisted values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme:    "tokyo-night",
		LogFile:  "hierarchy-diff.log",
		LogLevel: "info",
		Diff: DiffConfig{
			Similarity:        "format",
			CollapseUnchanged: true,
			ContextLines:      3,
		},
		Report: ReportConfig{
			Color:           "auto",
			TimestampFormat: "%Y-%m-%d %H:%M:%S",
		},
		Backup: BackupConfig{
			Keep: 20,
		},
		sessionSettings: make(map[string]string),
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", "hierarchy-diff")
	return configDir, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0o755)
}

// Keys lists the settings accepted by Set and Get
var Keys = []string{
	"theme",
	"log_file",
	"log_level",
	"editor",
	"diff.similarity",
	"diff.collapse_unchanged",
	"diff.context_lines",
	"report.color",
	"report.timestamp_format",
	"backup.dir",
	"backup.keep",
}

func (c *Config) persisted(key string) (string, bool) {
	switch key {
	case "theme":
		return c.Theme, true
	case "log_file":
		return c.LogFile, true
	case "log_level":
		return c.LogLevel, true
	case "editor":
		return c.Editor, true
	case "diff.similarity":
		return c.Diff.Similarity, true
	case "diff.collapse_unchanged":
		return strconv.FormatBool(c.Diff.CollapseUnchanged), true
	case "diff.context_lines":
		return strconv.Itoa(c.Diff.ContextLines), true
	case "report.color":
		return c.Report.Color, true
	case "report.timestamp_format":
		return c.Report.TimestampFormat, true
	case "backup.dir":
		return c.Backup.Dir, true
	case "backup.keep":
		return strconv.Itoa(c.Backup.Keep), true
	}
	return "", false
}

func (c *Config) apply(key, value string) error {
	var err error
	switch key {
	case "theme":
		c.Theme = value
	case "log_file":
		c.LogFile = value
	case "log_level":
		c.LogLevel = value
	case "editor":
		c.Editor = value
	case "diff.similarity":
		c.Diff.Similarity = value
	case "diff.collapse_unchanged":
		c.Diff.CollapseUnchanged, err = strconv.ParseBool(value)
	case "diff.context_lines":
		c.Diff.ContextLines, err = strconv.Atoi(value)
	case "report.color":
		c.Report.Color = value
	case "report.timestamp_format":
		c.Report.TimestampFormat = value
	case "backup.dir":
		c.Backup.Dir = value
	case "backup.keep":
		c.Backup.Keep, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Set sets a session configuration value. The value must be valid for the key.
func (c *Config) Set(key, value string) error {
	trial := c.Effective()
	if err := trial.apply(key, value); err != nil {
		return err
	}
	if err := trial.Validate(); err != nil {
		return err
	}
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
	return nil
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string for unknown keys
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	val, _ := c.persisted(key)
	return val
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(Keys))
	for _, k := range Keys {
		result[k], _ = c.persisted(k)
	}
	maps.Copy(result, c.sessionSettings)
	return result
}

// Effective returns a copy with session settings applied
func (c *Config) Effective() *Config {
	out := *c
	out.sessionSettings = nil
	for k, v := range c.sessionSettings {
		// values were checked by Set
		_ = out.apply(k, v)
	}
	return &out
}

// Save persists the configuration to the TOML file
// Note: This only persists the file settings, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the persisted settings to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
