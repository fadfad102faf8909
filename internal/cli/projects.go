package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/quickadd/internal/ranking"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "ls"},
	Short:   "List projects in display order",
	Long: `List your projects ranked the same way the capture form shows them.

★ marks favorites, ↻ marks recently used projects and ❯ the default project.

Examples:
  quickadd projects
  quickadd projects --favorites
  quickadd projects --sort alphabetical`,
	RunE: runProjects,
}

var (
	projectsFavorites bool
	projectsSort      string
)

func init() {
	projectsCmd.Flags().BoolVarP(&projectsFavorites, "favorites", "f", false, "Only show favorite projects")
	projectsCmd.Flags().StringVar(&projectsSort, "sort", "", "Sort order (smart, alphabetical, favorites-alphabetical, recent-alphabetical)")
}

func runProjects(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl := s.controller()
	if err := ctrl.Load(cmd.Context()); err != nil {
		return err
	}
	if projectsSort != "" {
		ctrl.Config().ListSortOrder = string(ranking.ParsePolicy(projectsSort))
	}
	ctrl.FavoritesOnly = projectsFavorites

	entries := ctrl.Entries()
	if len(entries) == 0 {
		if projectsFavorites {
			fmt.Println("No favorite projects.")
		} else {
			fmt.Println("No projects found.")
		}
		return nil
	}

	fmt.Println()
	fmt.Printf("  %-8s  %s\n", "ID", "Project")
	fmt.Println(strings.Repeat("─", 50))

	defaultID := ctrl.Config().DefaultProjectID
	for _, e := range entries {
		cursor := "  "
		if e.Project.ID == defaultID {
			cursor = "❯ "
		}
		fmt.Printf("%s%-8d  %s\n", cursor, e.Project.ID, e.Label())
	}

	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  %d projects, %d favorites (sorted: %s)\n\n",
		len(entries), len(ctrl.Favorites), ranking.ParsePolicy(ctrl.Config().ListSortOrder))
	return nil
}
