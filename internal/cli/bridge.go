package cli

import (
	"fmt"

	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/server"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Manage the local browser bridge",
	Long: `The bridge is a small HTTP server on localhost that browser userscripts
and bookmarklets talk to.

Commands:
  quickadd bridge secret     # Generate the secret the browser sends
  quickadd bridge serve      # Run the bridge in the foreground`,
}

var bridgeSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a new bridge secret",
	RunE:  runBridgeSecret,
}

var bridgeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge",
	RunE:  runBridgeServe,
}

var bridgeAddr string

func init() {
	bridgeServeCmd.Flags().StringVar(&bridgeAddr, "addr", "", "Listen address (default from settings)")

	bridgeCmd.AddCommand(bridgeSecretCmd)
	bridgeCmd.AddCommand(bridgeServeCmd)
}

func runBridgeSecret(cmd *cobra.Command, args []string) error {
	database, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}
	if err := database.SetBridgeSecretHash(cmd.Context(), string(hash)); err != nil {
		return err
	}

	fmt.Println("✓ New bridge secret generated. Any previous secret stops working.")
	fmt.Printf("\nBridge Secret: %s\n", secret)
	fmt.Println("\n⚠️  IMPORTANT: It is shown only once. Send it as 'Authorization: Bearer <secret>'.")
	return nil
}

func runBridgeServe(cmd *cobra.Command, args []string) error {
	database, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	addr := bridgeAddr
	if addr == "" {
		addr = cfg.BridgeAddr
	}

	srv := server.New(database, cfg)
	defer func() {
		_ = srv.Close()
	}()

	fmt.Printf("🌉 Bridge listening on http://%s\n", addr)
	return srv.Run(cmd.Context(), addr)
}
