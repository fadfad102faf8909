package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "smart", cfg.ListSortOrder)
	assert.Equal(t, TitlePageTitle, cfg.TaskTitle)
	assert.Equal(t, DescriptionURL, cfg.TaskDescription)
	assert.Equal(t, "10:00", cfg.DefaultReminderTime)
	assert.True(t, cfg.LabelsEnabled())
	assert.True(t, cfg.ContextMenuEnabled())
	assert.False(t, cfg.HasCredentials())
}

func TestLoadFile_NormalizesServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: \" https://tasks.example.com/ \"\ntoken: abc\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.ServerURL)
	assert.True(t, cfg.HasCredentials())
}

func TestLoadFile_MigratesLegacySortSetting(t *testing.T) {
	tests := []struct {
		name   string
		legacy string
		want   string
	}{
		{"by name", "true", "alphabetical"},
		{"not by name", "false", "smart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte("sort_lists_by_name: "+tt.legacy+"\n"), 0600))

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ListSortOrder)
			assert.Nil(t, cfg.SortListsByName)

			// The migrated value is written back
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "sort_lists_by_name")
			assert.Contains(t, string(data), "list_sort_order: "+tt.want)
		})
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("QUICKADD_URL", "https://env.example.com/")
	t.Setenv("QUICKADD_TOKEN", "env-token")
	t.Setenv("QUICKADD_LOG_CONSOLE", "true")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.True(t, cfg.LogConsole)
}

func TestSave_DoesNotPersistEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: https://file.example\ntoken: filetoken\n"), 0600))
	t.Setenv("QUICKADD_URL", "https://ci.example")
	t.Setenv("QUICKADD_TOKEN", "env-only-secret")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-only-secret", cfg.Token)

	require.NoError(t, cfg.Set("log_level", "debug"))
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "token: filetoken")
	assert.Contains(t, string(data), "server_url: https://file.example")
	assert.Contains(t, string(data), "log_level: DEBUG")
	assert.NotContains(t, string(data), "env-only-secret")
	assert.NotContains(t, string(data), "ci.example")

	// The running config still uses the environment
	assert.Equal(t, "https://ci.example", cfg.ServerURL)
}

func TestSave_WritesChangedOverriddenValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: filetoken\n"), 0600))
	t.Setenv("QUICKADD_TOKEN", "env-token")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	cfg.Token = "fresh-login"
	require.NoError(t, cfg.Save())

	t.Setenv("QUICKADD_TOKEN", "")
	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh-login", reloaded.Token)
}

func TestSave_WritesPrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	cfg.ServerURL = "https://tasks.example.com/"
	cfg.Token = "secret"
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", reloaded.ServerURL)
	assert.Equal(t, "secret", reloaded.Token)
}

func TestSet_ValidatesValues(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("list_sort_order", "recent-alphabetical"))
	assert.Equal(t, "recent-alphabetical", cfg.ListSortOrder)

	require.NoError(t, cfg.Set("show_labels", "false"))
	assert.False(t, cfg.LabelsEnabled())

	require.NoError(t, cfg.Set("default_reminder_time", "08:30"))
	v, err := cfg.Get("default_reminder_time")
	require.NoError(t, err)
	assert.Equal(t, "08:30", v)

	assert.Error(t, cfg.Set("list_sort_order", "random"))
	assert.Error(t, cfg.Set("default_reminder_time", "25:00"))
	assert.Error(t, cfg.Set("default_project_id", "-3"))
	assert.ErrorIs(t, cfg.Set("nope", "x"), ErrUnknownKey)
}

func TestWatch_ReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case changes <- c:
			default:
			}
		}, nil)
	}()

	// Give the watcher a moment to register
	time.Sleep(100 * time.Millisecond)
	cfg.ContextMenu = Bool(false)
	require.NoError(t, cfg.Save())

	// A save can surface as several writes; wait for the final content
	timeout := time.After(5 * time.Second)
	for disabled := false; !disabled; {
		select {
		case c := <-changes:
			disabled = !c.ContextMenuEnabled()
		case <-timeout:
			t.Fatal("no change notification")
		}
	}

	cancel()
	require.NoError(t, <-done)
}
