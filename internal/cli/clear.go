package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/quickadd/internal/db"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear local state",
	Long: `Forget recently used projects and any pending capture.
With --all the stored favorites, viewed projects and the bridge secret are
removed too. Settings and the API token are never touched.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("all", false, "Also clear server metadata and the bridge secret")
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		fmt.Printf("Are you sure you want to clear local state? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	database, err := db.OpenDefault()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	ctx := cmd.Context()
	fmt.Println("🧹 Clearing local state...")
	if err := database.ClearLocal(ctx); err != nil {
		return fmt.Errorf("failed to clear local state: %w", err)
	}

	if all {
		for _, key := range []string{db.KeyFavorites, db.KeyServerRecents, db.KeyBridgeSecretHash} {
			if err := database.Delete(ctx, key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
	}

	fmt.Println("Local state cleared.")
	return nil
}
