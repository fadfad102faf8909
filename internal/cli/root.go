package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	pageTitle string
	pageURL   string

	// cfg is loaded before every command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quickadd",
	Short: "quickadd - capture web pages as tasks",
	Long: `quickadd captures the current web page, a text selection or a link as a
task on your Vikunja server.

Run 'quickadd' without arguments to open the capture form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("quickadd started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: runPopup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("quickadd exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

func runPopup(cmd *cobra.Command, args []string) error {
	if !cfg.HasCredentials() {
		fmt.Println("⚠️  Not configured yet. Run 'quickadd auth login' first.")
		return nil
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("Launching capture form")
	m := tui.NewModel(cmd.Context(), s.controller(), capture.Page{Title: pageTitle, URL: pageURL})
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if fm, ok := final.(tui.Model); ok {
		if task := fm.Created(); task != nil {
			fmt.Printf("✅ Task added: \"%s\" (#%d)\n", task.Title, task.ID)
		}
	}

	logger.Info("TUI exited normally")
	return nil
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Page being captured by the form
	rootCmd.Flags().StringVar(&pageTitle, "page-title", "", "Title of the page to capture")
	rootCmd.Flags().StringVar(&pageURL, "url", "", "URL of the page to capture")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(clipCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(clearCmd)
}
