package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority levels understood by the service. 0 means unset.
const (
	PriorityUnset  = 0
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
	PriorityDoNow  = 5
)

// ErrValidation is returned when a draft is missing required fields
var ErrValidation = errors.New("validation failed")

// Task is a task as returned by the service after creation
type Task struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	ProjectID     int64    `json:"project_id"`
	Priority      int      `json:"priority,omitempty"`
	DueDate       string   `json:"due_date,omitempty"`
	ReminderDates []string `json:"reminder_dates,omitempty"`
}

// TaskDraft is the task being composed in a capture surface
type TaskDraft struct {
	Title       string
	Description string // HTML fragment
	ProjectID   int64
	Priority    int
	DueAt       *time.Time
	ReminderAt  *time.Time
	Labels      []*Label
}

// Validate checks the draft against the known project ids
func (d *TaskDraft) Validate(known func(int64) bool) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: please enter a task title", ErrValidation)
	}
	if d.ProjectID <= 0 || (known != nil && !known(d.ProjectID)) {
		return fmt.Errorf("%w: please select a project", ErrValidation)
	}
	if d.Priority < PriorityUnset || d.Priority > PriorityDoNow {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrValidation, PriorityUnset, PriorityDoNow)
	}
	return nil
}
