// Package capture owns the state of one capture form: the cached project
// and label lists, the ranking inputs and the draft being submitted.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/labels"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/ranking"
	"github.com/existflow/quickadd/internal/vikunja"
)

// Service is the remote task service
type Service interface {
	ListProjects(ctx context.Context) (*vikunja.ProjectList, error)
	ListLabels(ctx context.Context) ([]model.Label, error)
	CreateTask(ctx context.Context, projectID int64, fields vikunja.TaskFields) (*model.Task, error)
	labels.Creator
	labels.Attacher
}

// Store is the shared local state
type Store interface {
	LocalRecents(ctx context.Context) ([]int64, error)
	PushRecent(ctx context.Context, projectID int64) ([]int64, error)
	TakePendingCapture(ctx context.Context) (*model.Capture, error)
}

// Controller is the explicit state of a capture surface
type Controller struct {
	svc   Service
	store Store
	cfg   *config.Config
	now   func() time.Time

	Projects      []model.Project
	Favorites     []int64
	ServerRecents []int64
	LocalRecents  []int64

	Labels          *labels.Selection
	LabelsAvailable bool
	FavoritesOnly   bool

	// Pending is the context menu capture claimed by TakePending, if any
	Pending *model.Capture
}

// Result is a submitted task plus the label steps that ran
type Result struct {
	Task     *model.Task
	Outcomes []labels.Outcome
}

// LabelFailures returns the label steps that failed
func (r *Result) LabelFailures() []labels.Outcome {
	return labels.Failed(r.Outcomes)
}

// New creates a controller
func New(svc Service, store Store, cfg *config.Config) *Controller {
	return &Controller{
		svc:    svc,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		Labels: labels.NewSelection(nil, vikunja.RandomColor),
	}
}

// Config returns the settings the controller works with
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// Load fetches projects and labels. Label failures hide labels instead of
// failing the load. A pending capture is left in place.
func (c *Controller) Load(ctx context.Context) error {
	list, err := c.svc.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	c.Projects = list.Projects
	c.Favorites = list.Favorites
	c.ServerRecents = list.Recents

	if local, err := c.store.LocalRecents(ctx); err != nil {
		logger.Warn("Failed to read recent projects", logger.Err(err))
	} else {
		_, c.LocalRecents = ranking.Prune(c.Projects, nil, local)
	}

	if id := c.cfg.DefaultProjectID; id != 0 && !c.Known(id) {
		logger.Info("Clearing stale default project", logger.F("project", id))
		c.cfg.DefaultProjectID = 0
		if err := c.cfg.Save(); err != nil {
			logger.Warn("Failed to save settings", logger.Err(err))
		}
	}

	c.LabelsAvailable = false
	if c.cfg.LabelsEnabled() {
		known, err := c.svc.ListLabels(ctx)
		switch {
		case errors.Is(err, vikunja.ErrLabelsUnsupported):
			logger.Info("Labels not available on this server", logger.Err(err))
		case err != nil:
			logger.Warn("Failed to load labels", logger.Err(err))
		default:
			c.Labels.SetKnown(known)
			c.LabelsAvailable = true
		}
	}

	logger.Debug("Capture form loaded",
		logger.F("projects", len(c.Projects)),
		logger.F("labels", c.LabelsAvailable))
	return nil
}

// TakePending claims the pending selection or link capture for this form.
// Only surfaces that file the capture should call it.
func (c *Controller) TakePending(ctx context.Context) *model.Capture {
	pending, err := c.store.TakePendingCapture(ctx)
	if err != nil {
		logger.Warn("Failed to read pending capture", logger.Err(err))
	}
	c.Pending = pending
	if pending != nil {
		logger.Debug("Pending capture claimed", logger.F("source", pending.Source), logger.F("id", pending.ID))
	}
	return pending
}

// Known reports whether id is a loaded project
func (c *Controller) Known(id int64) bool {
	for _, p := range c.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Recents is the recency list used for ranking: local usage once there is
// any, otherwise the server's view history
func (c *Controller) Recents() []int64 {
	return ranking.Effective(c.LocalRecents, c.ServerRecents)
}

// Entries returns the projects in display order
func (c *Controller) Entries() []ranking.Entry {
	return ranking.Display(c.Projects, ranking.Options{
		Policy:        ranking.ParsePolicy(c.cfg.ListSortOrder),
		Favorites:     c.Favorites,
		Recents:       c.Recents(),
		FavoritesOnly: c.FavoritesOnly,
	})
}

// DefaultProject returns the preselected project: the configured default,
// else the first project in display order, else 0
func (c *Controller) DefaultProject() int64 {
	if id := c.cfg.DefaultProjectID; id != 0 && c.Known(id) {
		return id
	}
	if entries := c.Entries(); len(entries) > 0 {
		return entries[0].Project.ID
	}
	return 0
}

// Prefill builds a fresh draft. A pending capture wins over the page.
func (c *Controller) Prefill(page Page) *model.TaskDraft {
	d := &model.TaskDraft{ProjectID: c.DefaultProject()}

	if c.Pending != nil {
		d.Title = c.Pending.Title
		d.Description = c.Pending.Description
	} else {
		d.Title = TitleFor(c.cfg.TaskTitle, page)
		d.Description = DescriptionFor(c.cfg.TaskDescription, page)
	}

	if c.cfg.ReminderEnabled() {
		d.ReminderAt = DefaultReminder(c.cfg.DefaultReminderDate, c.cfg.DefaultReminderTime, c.now())
	}
	return d
}

// Submit validates and creates the task, then creates and attaches its
// labels. Label failures are reported in the result, never as an error.
func (c *Controller) Submit(ctx context.Context, d *model.TaskDraft) (*Result, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if err := d.Validate(c.Known); err != nil {
		return nil, err
	}

	result := &Result{}
	if len(d.Labels) > 0 {
		result.Outcomes = append(result.Outcomes, labels.CreatePending(ctx, c.svc, d.Labels)...)
	}

	task, err := c.svc.CreateTask(ctx, d.ProjectID, vikunja.FieldsFromDraft(d))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	result.Task = task

	if len(d.Labels) > 0 {
		result.Outcomes = append(result.Outcomes, labels.AttachAll(ctx, c.svc, task.ID, d.Labels)...)
	}

	recents, err := c.store.PushRecent(ctx, d.ProjectID)
	if err != nil {
		logger.Warn("Failed to update recent projects", logger.Err(err))
	} else {
		c.LocalRecents = recents
	}

	logger.Info("Task created",
		logger.F("task", task.ID),
		logger.F("project", d.ProjectID),
		logger.F("labelFailures", len(result.LabelFailures())))
	return result, nil
}
