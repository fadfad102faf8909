package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Title preferences
const (
	TitlePageTitle = "page-title"
	TitlePageURL   = "page-url"
	TitleTitleURL  = "title-url"
)

// Description preferences
const (
	DescriptionURL      = "url"
	DescriptionTitleURL = "title-url"
	DescriptionEmpty    = "empty"
)

// Default reminder preferences
const (
	ReminderNone       = ""
	ReminderSameDay    = "same-day"
	ReminderDayBefore  = "day-before"
	ReminderWeekBefore = "week-before"
)

// Config holds user preferences
type Config struct {
	// Connection
	ServerURL      string `yaml:"server_url" json:"server_url"`
	Token          string `yaml:"token" json:"-"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`

	// Formatting
	DateFormat string `yaml:"date_format" json:"date_format"` // DD.MM.YYYY, MM/DD/YYYY, YYYY-MM-DD
	TimeFormat string `yaml:"time_format" json:"time_format"` // 24h or 12h

	// Task defaults
	TaskTitle           string `yaml:"task_title" json:"task_title"`
	TaskDescription     string `yaml:"task_description" json:"task_description"`
	DefaultReminderDate string `yaml:"default_reminder_date" json:"default_reminder_date"`
	DefaultReminderTime string `yaml:"default_reminder_time" json:"default_reminder_time"`
	DefaultProjectID    int64  `yaml:"default_project_id,omitempty" json:"default_project_id,omitempty"`

	// Popup
	ShowLabels       *bool  `yaml:"show_labels,omitempty" json:"show_labels,omitempty"`
	ShowDueDate      *bool  `yaml:"show_due_date,omitempty" json:"show_due_date,omitempty"`
	ShowReminderDate *bool  `yaml:"show_reminder_date,omitempty" json:"show_reminder_date,omitempty"`
	ListSortOrder    string `yaml:"list_sort_order" json:"list_sort_order"`
	SortListsByName  *bool  `yaml:"sort_lists_by_name,omitempty" json:"-"` // Legacy, migrated to ListSortOrder
	ContextMenu      *bool  `yaml:"context_menu,omitempty" json:"context_menu,omitempty"`

	// Bridge
	BridgeAddr string `yaml:"bridge_addr" json:"bridge_addr"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	path string

	// What the file and the environment said for overridable settings
	fromFile envFields
	fromEnv  envFields
}

// envFields are the settings QUICKADD_* variables can override
type envFields struct {
	ServerURL  string
	Token      string
	LogLevel   string
	LogFile    string
	LogConsole bool
}

func (c *Config) envFields() envFields {
	return envFields{
		ServerURL:  c.ServerURL,
		Token:      c.Token,
		LogLevel:   c.LogLevel,
		LogFile:    c.LogFile,
		LogConsole: c.LogConsole,
	}
}

// keepFileValue puts back the file value of a setting the environment
// overrode, unless it was changed since loading
func keepFileValue[T comparable](field *T, file, env T) {
	if *field == env {
		*field = file
	}
}

// Dir returns the quickadd home directory (~/.quickadd or $QUICKADD_HOME)
func Dir() (string, error) {
	if dir := os.Getenv("QUICKADD_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quickadd"), nil
}

// DefaultPath returns the config file path
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "quickadd.log")
	}

	return &Config{
		TimeoutSeconds:      30,
		DateFormat:          "DD.MM.YYYY",
		TimeFormat:          "24h",
		TaskTitle:           TitlePageTitle,
		TaskDescription:     DescriptionURL,
		DefaultReminderTime: "10:00",
		ListSortOrder:       "smart",
		BridgeAddr:          "127.0.0.1:7345",
		LogLevel:            "INFO",
		LogFile:             logPath,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from the default path
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads config from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cfg.migrate() {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	cfg.normalize()
	cfg.fromFile = cfg.envFields()
	cfg.applyEnv()
	cfg.normalize()
	cfg.fromEnv = cfg.envFields()
	return cfg, nil
}

// migrate converts legacy settings. Returns true if anything changed.
func (c *Config) migrate() bool {
	if c.SortListsByName == nil {
		return false
	}
	if *c.SortListsByName {
		c.ListSortOrder = "alphabetical"
	} else {
		c.ListSortOrder = "smart"
	}
	c.SortListsByName = nil
	return true
}

func (c *Config) normalize() {
	c.ServerURL = NormalizeURL(c.ServerURL)
	c.Token = strings.TrimSpace(c.Token)
}

func (c *Config) applyEnv() {
	c.ServerURL = getEnv("QUICKADD_URL", c.ServerURL)
	c.Token = getEnv("QUICKADD_TOKEN", c.Token)
	c.LogLevel = getEnv("QUICKADD_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("QUICKADD_LOG_FILE", c.LogFile)
	if v := os.Getenv("QUICKADD_LOG_CONSOLE"); v != "" {
		c.LogConsole, _ = strconv.ParseBool(v)
	}
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save saves config to the file it was loaded from (or the default path).
// Environment overrides are not written unless changed since loading.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.ServerURL = NormalizeURL(c.ServerURL)
	out := *c
	keepFileValue(&out.ServerURL, c.fromFile.ServerURL, c.fromEnv.ServerURL)
	keepFileValue(&out.Token, c.fromFile.Token, c.fromEnv.Token)
	keepFileValue(&out.LogLevel, c.fromFile.LogLevel, c.fromEnv.LogLevel)
	keepFileValue(&out.LogFile, c.fromFile.LogFile, c.fromEnv.LogFile)
	keepFileValue(&out.LogConsole, c.fromFile.LogConsole, c.fromEnv.LogConsole)

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The token lives here, keep it private
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.fromFile = out.envFields()
	return nil
}

// NormalizeURL trims whitespace and trailing slashes from a server URL
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// HasCredentials returns true if both server URL and token are set
func (c *Config) HasCredentials() bool {
	return c.ServerURL != "" && c.Token != ""
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// LabelsEnabled reports whether the popup shows labels (default true)
func (c *Config) LabelsEnabled() bool { return boolOr(c.ShowLabels, true) }

// DueDateEnabled reports whether the popup shows the due date (default true)
func (c *Config) DueDateEnabled() bool { return boolOr(c.ShowDueDate, true) }

// ReminderEnabled reports whether the popup shows the reminder (default true)
func (c *Config) ReminderEnabled() bool { return boolOr(c.ShowReminderDate, true) }

// ContextMenuEnabled reports whether selection/link capture is on (default true)
func (c *Config) ContextMenuEnabled() bool { return boolOr(c.ContextMenu, true) }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }
