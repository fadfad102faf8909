package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/labels"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task without opening the form",
	Long: `Add a task to a project.

Without a title the task is pre-filled from --url/--page-title (or a pending
capture from 'quickadd clip') using your title and description preferences.

Examples:
  quickadd add "Buy groceries"
  quickadd add --url https://go.dev/blog --page-title "The Go Blog" -P 3
  quickadd add "Read paper" -p 3 --due tomorrow -l reading -l research`,
	RunE: runAdd,
}

var (
	addProject     int64
	addPriority    int
	addDue         string
	addReminder    string
	addDescription string
	addLabels      []string
	addURL         string
	addPageTitle   string
)

func init() {
	addCmd.Flags().Int64VarP(&addProject, "project", "P", 0, "Project id (default: configured default, then first ranked project)")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 0, "Priority (0=unset, 1=low ... 5=do now)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (today, tomorrow, next-week or a date)")
	addCmd.Flags().StringVar(&addReminder, "reminder", "", "Reminder (today, tomorrow, next-week or a date)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (HTML)")
	addCmd.Flags().StringArrayVarP(&addLabels, "label", "l", nil, "Label title (repeatable, created if missing)")
	addCmd.Flags().StringVar(&addURL, "url", "", "URL of the page being captured")
	addCmd.Flags().StringVar(&addPageTitle, "page-title", "", "Title of the page being captured")
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	ctrl := s.controller()
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	// An explicit title files a new task and leaves the capture for later
	if len(args) == 0 {
		ctrl.TakePending(ctx)
	}

	draft := ctrl.Prefill(capture.Page{Title: addPageTitle, URL: addURL})
	if len(args) > 0 {
		draft.Title = strings.Join(args, " ")
	}
	if cmd.Flags().Changed("description") {
		draft.Description = addDescription
	}
	if addProject != 0 {
		draft.ProjectID = addProject
	}
	draft.Priority = addPriority

	now := time.Now()
	if draft.DueAt, err = capture.ParseDateTime(addDue, s.cfg.DateFormat, s.cfg.TimeFormat, now, capture.EndOfDay); err != nil {
		return err
	}
	if addReminder != "" {
		if draft.ReminderAt, err = capture.ParseDateTime(addReminder, s.cfg.DateFormat, s.cfg.TimeFormat, now, s.cfg.DefaultReminderTime); err != nil {
			return err
		}
	} else if draft.DueAt != nil && s.cfg.ReminderEnabled() {
		// Presets are relative to the due date once there is one
		draft.ReminderAt = capture.DefaultReminder(s.cfg.DefaultReminderDate, s.cfg.DefaultReminderTime, *draft.DueAt)
	}

	if len(addLabels) > 0 {
		if !ctrl.LabelsAvailable {
			fmt.Println("⚠️  Labels are not available on this server, ignoring --label")
		} else {
			for _, title := range addLabels {
				ctrl.Labels.Pick(title)
			}
			draft.Labels = ctrl.Labels.Selected()
		}
	}

	result, err := ctrl.Submit(ctx, draft)
	if errors.Is(err, model.ErrValidation) {
		return err
	}
	if err != nil {
		var rf *vikunja.RequestFailedError
		if errors.As(err, &rf) {
			return fmt.Errorf("server rejected the task: %s", rf.Error())
		}
		return err
	}

	projectName := fmt.Sprint(draft.ProjectID)
	for _, p := range ctrl.Projects {
		if p.ID == draft.ProjectID {
			projectName = p.Title
		}
	}

	fmt.Printf("✓ Added to [%s]: \"%s\" (#%d)\n", projectName, result.Task.Title, result.Task.ID)
	for _, o := range result.LabelFailures() {
		verb := "attached"
		if o.Step == labels.StepCreate {
			verb = "created"
		}
		fmt.Printf("⚠️  Label \"%s\" could not be %s: %v\n", o.Label.Title, verb, o.Err)
	}
	return nil
}
