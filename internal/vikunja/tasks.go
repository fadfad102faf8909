package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/quickadd/internal/model"
)

// TaskFields are the task attributes sent on creation
type TaskFields struct {
	Title       string
	Description string // HTML fragment
	Priority    int
	DueAt       *time.Time
	ReminderAt  *time.Time
}

// FieldsFromDraft copies the sendable parts of a draft
func FieldsFromDraft(d *model.TaskDraft) TaskFields {
	return TaskFields{
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		DueAt:       d.DueAt,
		ReminderAt:  d.ReminderAt,
	}
}

type taskPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      int      `json:"priority,omitempty"`
	DueDate       string   `json:"due_date,omitempty"`
	ReminderDates []string `json:"reminder_dates,omitempty"`
	ProjectID     int64    `json:"project_id"`
}

// isoTime matches the millisecond UTC form the service emits
const isoTime = "2006-01-02T15:04:05.000Z"

// FormatTime renders t the way the service expects dates
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoTime)
}

func (f TaskFields) payload(projectID int64) taskPayload {
	p := taskPayload{
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
		ProjectID:   projectID,
	}
	if f.DueAt != nil {
		p.DueDate = FormatTime(*f.DueAt)
	}
	if f.ReminderAt != nil {
		p.ReminderDates = []string{FormatTime(*f.ReminderAt)}
	}
	return p
}

// CreateTask creates a task in the given project
func (c *Client) CreateTask(ctx context.Context, projectID int64, fields TaskFields) (*model.Task, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: please select a project", model.ErrValidation)
	}

	var task model.Task
	path := fmt.Sprintf("/api/v1/projects/%d/tasks", projectID)
	if err := c.do(ctx, "create task", http.MethodPut, path, fields.payload(projectID), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TestConnection validates the credentials and returns the token owner
func (c *Client) TestConnection(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "test connection", http.MethodGet, "/api/v1/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
