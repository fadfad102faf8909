package cli

import (
	"fmt"
	"strconv"

	"github.com/existflow/quickadd/internal/logger"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the default project",
	Long: `Set or view the default project.

New tasks go to the default project unless another one is picked.

Examples:
  quickadd context              # Show the default project
  quickadd context ls           # List projects
  quickadd context set 12       # Use project 12 by default
  quickadd context clear        # Use the first ranked project`,
	RunE: runContextShow,
}

var contextLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all projects",
	RunE:    runProjects,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Set the default project",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the default project",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextLsCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func runContextShow(cmd *cobra.Command, args []string) error {
	if cfg.DefaultProjectID == 0 {
		fmt.Println("📥 Default project: first ranked project")
		return nil
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.client.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	for _, p := range list.Projects {
		if p.ID == cfg.DefaultProjectID {
			fmt.Printf("📁 Default project: %s (id: %d)\n", p.Title, p.ID)
			return nil
		}
	}

	fmt.Printf("⚠️  Default project set to %d but project not found\n", cfg.DefaultProjectID)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || projectID <= 0 {
		return fmt.Errorf("invalid project id: %s", args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.client.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	for _, p := range list.Projects {
		if p.ID != projectID {
			continue
		}
		cfg.DefaultProjectID = projectID
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to set default project: %w", err)
		}
		logger.Info("Default project changed", logger.F("project", projectID))
		fmt.Printf("📁 Default project: %s\n", p.Title)
		return nil
	}

	return fmt.Errorf("project not found: %d", projectID)
}

func runContextClear(cmd *cobra.Command, args []string) error {
	cfg.DefaultProjectID = 0
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to clear default project: %w", err)
	}
	fmt.Println("📥 Default project cleared, using the first ranked project")
	return nil
}
