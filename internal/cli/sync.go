package cli

import (
	"errors"
	"fmt"

	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh project metadata from the server",
	Long: `Fetch projects and labels, and store favorites and recently viewed
projects locally so every surface ranks projects the same way.

Commands:
  quickadd sync              # Refresh now
  quickadd sync status       # Show stored metadata`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored project metadata",
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("🔄 Refreshing...")
	list, err := s.client.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	labelCount := "n/a"
	if cfg.LabelsEnabled() {
		all, err := s.client.ListLabels(cmd.Context())
		switch {
		case errors.Is(err, vikunja.ErrLabelsUnsupported):
			labelCount = "unsupported"
		case err != nil:
			fmt.Printf("⚠️  Labels failed: %v\n", err)
		default:
			labelCount = fmt.Sprint(len(all))
		}
	}

	fmt.Printf("✓ Sync complete! Projects: %d, Favorites: %d, Recent: %d, Labels: %s\n",
		len(list.Projects), len(list.Favorites), len(list.Recents), labelCount)
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	favorites, err := s.db.Favorites(ctx)
	if err != nil {
		return err
	}
	serverRecents, err := s.db.ServerRecents(ctx)
	if err != nil {
		return err
	}
	localRecents, err := s.db.LocalRecents(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Server:         %s\n", cfg.ServerURL)
	fmt.Printf("Favorites:      %v\n", favorites)
	fmt.Printf("Viewed recents: %v\n", serverRecents)
	fmt.Printf("Used recents:   %v\n", localRecents)
	if len(localRecents) > 0 {
		fmt.Println("Ranking uses:   used recents")
	} else {
		fmt.Println("Ranking uses:   viewed recents")
	}
	return nil
}
