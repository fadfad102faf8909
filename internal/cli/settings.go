package cli

import (
	"errors"
	"fmt"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change settings",
	Long: `Show or change preferences stored in ~/.quickadd/config.yaml.

Examples:
  quickadd settings
  quickadd settings get list_sort_order
  quickadd settings set list_sort_order recent-alphabetical
  quickadd settings set default_reminder_date day-before`,
	RunE: runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cfg.Path())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	token := "(not set)"
	if cfg.Token != "" {
		token = "(set)"
	}

	fmt.Println()
	fmt.Printf("  %-22s %s\n", "token", token)
	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		if value == "" {
			value = "-"
		}
		fmt.Printf("  %-22s %s\n", key, value)
	}
	fmt.Println()
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	value, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return fmt.Errorf("%w (known: %v)", err, config.Keys())
		}
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	logger.Info("Setting changed", logger.F("key", key))
	stored, _ := cfg.Get(key)
	fmt.Printf("✓ %s = %s\n", key, stored)
	return nil
}
