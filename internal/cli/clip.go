package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/spf13/cobra"
)

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Hand a selection or link to the next capture form",
	Long: `Store a text selection or a link as a pending capture. The next
'quickadd' form (or 'quickadd add' without a title) starts from it.

Examples:
  quickadd clip selection "the quoted text" --url https://example.com --page-title "Example"
  quickadd clip link https://example.com/paper.pdf --text "The paper"`,
}

var clipSelectionCmd = &cobra.Command{
	Use:   "selection [text]",
	Short: "Capture selected text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClipSelection,
}

var clipLinkCmd = &cobra.Command{
	Use:   "link [url]",
	Short: "Capture a link",
	Args:  cobra.ExactArgs(1),
	RunE:  runClipLink,
}

var (
	clipURL       string
	clipPageTitle string
	clipText      string
)

func init() {
	clipSelectionCmd.Flags().StringVar(&clipURL, "url", "", "URL of the page the text is from")
	clipSelectionCmd.Flags().StringVar(&clipPageTitle, "page-title", "", "Title of the page the text is from")
	clipLinkCmd.Flags().StringVar(&clipText, "text", "", "Link text")

	clipCmd.AddCommand(clipSelectionCmd)
	clipCmd.AddCommand(clipLinkCmd)
}

func storeCapture(cmd *cobra.Command, c *model.Capture) error {
	if !cfg.ContextMenuEnabled() {
		return fmt.Errorf("selection and link capture is disabled (quickadd settings set context_menu true)")
	}

	database, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	if err := database.SetPendingCapture(cmd.Context(), c); err != nil {
		return err
	}

	logger.Info("Pending capture stored", logger.F("source", c.Source), logger.F("id", c.ID))
	fmt.Printf("📎 Captured: \"%s\". Run 'quickadd' to file it.\n", c.Title)
	return nil
}

func runClipSelection(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing selected")
	}
	return storeCapture(cmd, capture.SelectionCapture(text, capture.Page{Title: clipPageTitle, URL: clipURL}))
}

func runClipLink(cmd *cobra.Command, args []string) error {
	return storeCapture(cmd, capture.LinkCapture(args[0], clipText))
}
