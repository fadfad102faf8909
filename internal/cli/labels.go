package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/quickadd/internal/labels"
	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:     "labels",
	Aliases: []string{"label"},
	Short:   "List or create labels",
	Long: `List labels on the server, or filter them by a search string.

Examples:
  quickadd labels
  quickadd labels read
  quickadd labels new "reading list" --color "#4ECDC4"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLabels,
}

var labelsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelsNew,
}

var labelColor string

func init() {
	labelsNewCmd.Flags().StringVarP(&labelColor, "color", "c", "", "Label color (hex, random if empty)")
	labelsCmd.AddCommand(labelsNewCmd)
}

func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(labels.EnsureVisible(color))).Render("●")
}

func runLabels(cmd *cobra.Command, args []string) error {
	client, err := newClient(cfg, nil)
	if err != nil {
		return err
	}

	all, err := client.ListLabels(cmd.Context())
	if errors.Is(err, vikunja.ErrLabelsUnsupported) {
		fmt.Println("Labels are not supported or not accessible on this server.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}

	sel := labels.NewSelection(all, nil)
	shown := sel.Known()
	if len(args) == 1 {
		shown = sel.Suggest(args[0])
	}
	sort.SliceStable(shown, func(i, j int) bool {
		return strings.ToLower(shown[i].Title) < strings.ToLower(shown[j].Title)
	})

	if len(shown) == 0 {
		fmt.Println("No labels found.")
		return nil
	}

	fmt.Println()
	for _, l := range shown {
		fmt.Printf("  %s %-8d %s\n", swatch(l.HexColor), l.IDValue(), l.Title)
	}
	fmt.Printf("\n  %d labels\n\n", len(shown))
	return nil
}

func runLabelsNew(cmd *cobra.Command, args []string) error {
	client, err := newClient(cfg, nil)
	if err != nil {
		return err
	}

	label, err := client.CreateLabel(cmd.Context(), args[0], labelColor)
	if err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}

	fmt.Printf("✓ Created label: %s %s (id: %d)\n", swatch(label.HexColor), label.Title, label.IDValue())
	return nil
}
