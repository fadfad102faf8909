package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the server connection",
	Long:  `Configure the Vikunja server URL and API token.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Set the server URL and API token",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the API token",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Test the connection",
	RunE:  runStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().String("url", "", "Server URL (e.g. https://vikunja.example.com)")
	loginCmd.Flags().String("token", "", "API token (prompted when omitted)")
}

// describeConnError turns a connection error into one line for the terminal
func describeConnError(err error) string {
	switch {
	case errors.Is(err, vikunja.ErrUnreachable):
		return "server unreachable, check the URL and your network"
	case vikunja.IsStatus(err, 401, 403):
		return "the server rejected the token: " + err.Error()
	default:
		return err.Error()
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		prompt := "Server URL: "
		if cfg.ServerURL != "" {
			prompt = fmt.Sprintf("Server URL [%s]: ", cfg.ServerURL)
		}
		fmt.Print(prompt)
		url, _ = reader.ReadString('\n')
		url = strings.TrimSpace(url)
		if url == "" {
			url = cfg.ServerURL
		}
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		fmt.Print("API token: ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = string(tokenBytes)
	}

	candidate := *cfg
	candidate.ServerURL = config.NormalizeURL(url)
	candidate.Token = strings.TrimSpace(token)
	if !candidate.HasCredentials() {
		return fmt.Errorf("both server URL and token are required")
	}

	client, err := newClient(&candidate, nil)
	if err != nil {
		return err
	}

	fmt.Println("🔄 Testing connection...")
	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		logger.Warn("Connection test failed", logger.Err(err))
		return fmt.Errorf("connection failed: %s", describeConnError(err))
	}

	cfg.ServerURL = candidate.ServerURL
	cfg.Token = candidate.Token
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("✅ Connected as %s\n", user.DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if cfg.Token == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	cfg.Token = ""
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Println("✅ Token removed.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("Server:  %s\n", cfg.ServerURL)

	client, err := newClient(cfg, nil)
	if err != nil {
		fmt.Println("Status:  Not configured")
		return nil
	}

	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		fmt.Printf("Status:  ❌ %s\n", describeConnError(err))
		return nil
	}

	fmt.Printf("User:    %s\n", user.DisplayName())
	fmt.Println("Status:  ✓ Connected")
	return nil
}
