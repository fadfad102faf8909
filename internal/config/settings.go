package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned for settings that do not exist
var ErrUnknownKey = errors.New("unknown setting")

var reminderTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func oneOf(field *string, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			*field = v
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
}

func parseBoolSetting(field **bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("must be true or false")
	}
	*field = &b
	return nil
}

func showBool(v *bool, def bool) string {
	return strconv.FormatBool(boolOr(v, def))
}

var settings = map[string]setting{
	"server_url": {
		get: func(c *Config) string { return c.ServerURL },
		set: func(c *Config, v string) error { c.ServerURL = NormalizeURL(v); return nil },
	},
	"timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.TimeoutSeconds) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("must be a non-negative number")
			}
			c.TimeoutSeconds = n
			return nil
		},
	},
	"date_format": {
		get: func(c *Config) string { return c.DateFormat },
		set: func(c *Config, v string) error {
			return oneOf(&c.DateFormat, v, "DD.MM.YYYY", "MM/DD/YYYY", "YYYY-MM-DD")
		},
	},
	"time_format": {
		get: func(c *Config) string { return c.TimeFormat },
		set: func(c *Config, v string) error { return oneOf(&c.TimeFormat, v, "24h", "12h") },
	},
	"task_title": {
		get: func(c *Config) string { return c.TaskTitle },
		set: func(c *Config, v string) error {
			return oneOf(&c.TaskTitle, v, TitlePageTitle, TitlePageURL, TitleTitleURL)
		},
	},
	"task_description": {
		get: func(c *Config) string { return c.TaskDescription },
		set: func(c *Config, v string) error {
			return oneOf(&c.TaskDescription, v, DescriptionURL, DescriptionTitleURL, DescriptionEmpty)
		},
	},
	"default_reminder_date": {
		get: func(c *Config) string { return c.DefaultReminderDate },
		set: func(c *Config, v string) error {
			return oneOf(&c.DefaultReminderDate, v, ReminderNone, ReminderSameDay, ReminderDayBefore, ReminderWeekBefore)
		},
	},
	"default_reminder_time": {
		get: func(c *Config) string { return c.DefaultReminderTime },
		set: func(c *Config, v string) error {
			if !reminderTimePattern.MatchString(v) {
				return fmt.Errorf("must be HH:MM")
			}
			c.DefaultReminderTime = v
			return nil
		},
	},
	"default_project_id": {
		get: func(c *Config) string {
			if c.DefaultProjectID == 0 {
				return ""
			}
			return strconv.FormatInt(c.DefaultProjectID, 10)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.DefaultProjectID = 0
				return nil
			}
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("must be a positive project id")
			}
			c.DefaultProjectID = id
			return nil
		},
	},
	"list_sort_order": {
		get: func(c *Config) string { return c.ListSortOrder },
		set: func(c *Config, v string) error {
			return oneOf(&c.ListSortOrder, v, "smart", "alphabetical", "favorites-alphabetical", "recent-alphabetical")
		},
	},
	"show_labels": {
		get: func(c *Config) string { return showBool(c.ShowLabels, true) },
		set: func(c *Config, v string) error { return parseBoolSetting(&c.ShowLabels, v) },
	},
	"show_due_date": {
		get: func(c *Config) string { return showBool(c.ShowDueDate, true) },
		set: func(c *Config, v string) error { return parseBoolSetting(&c.ShowDueDate, v) },
	},
	"show_reminder_date": {
		get: func(c *Config) string { return showBool(c.ShowReminderDate, true) },
		set: func(c *Config, v string) error { return parseBoolSetting(&c.ShowReminderDate, v) },
	},
	"context_menu": {
		get: func(c *Config) string { return showBool(c.ContextMenu, true) },
		set: func(c *Config, v string) error { return parseBoolSetting(&c.ContextMenu, v) },
	},
	"bridge_addr": {
		get: func(c *Config) string { return c.BridgeAddr },
		set: func(c *Config, v string) error { c.BridgeAddr = v; return nil },
	},
	"log_level": {
		get: func(c *Config) string { return c.LogLevel },
		set: func(c *Config, v string) error {
			return oneOf(&c.LogLevel, strings.ToUpper(v), "DEBUG", "INFO", "WARN", "ERROR")
		},
	},
}

// Keys returns all settable keys in alphabetical order
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string value of a setting
func (c *Config) Get(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.get(c), nil
}

// Set validates and assigns a setting. It does not save.
func (c *Config) Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := s.set(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
