package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/labstack/echo/v4"
)

// actionResponse is the envelope of every bridge reply
type actionResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type taskRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      int      `json:"priority"`
	DueDate       string   `json:"due_date"`
	ReminderDates []string `json:"reminder_dates"`
}

// actionRequest carries the parameters of all actions. api_url and
// api_token override the saved credentials, e.g. to test them before saving.
type actionRequest struct {
	ServerURL string       `json:"api_url"`
	Token     string       `json:"api_token"`
	ProjectID int64        `json:"project_id"`
	Task      *taskRequest `json:"task"`
	Title     string       `json:"title"`
	HexColor  string       `json:"hex_color"`
	TaskID    int64        `json:"task_id"`
	LabelID   int64        `json:"label_id"`
}

type actionFunc func(ctx context.Context, remote Remote, req *actionRequest) (any, error)

var actions = map[string]actionFunc{
	"createTask":     createTask,
	"loadProjects":   loadProjects,
	"testConnection": testConnection,
	"loadLabels":     loadLabels,
	"createLabel":    createLabel,
	"addLabelToTask": addLabelToTask,
}

func createTask(ctx context.Context, remote Remote, req *actionRequest) (any, error) {
	if req.Task == nil {
		return nil, fmt.Errorf("%w: task is required", model.ErrValidation)
	}
	draft := &model.TaskDraft{
		Title:       strings.TrimSpace(req.Task.Title),
		Description: req.Task.Description,
		ProjectID:   req.ProjectID,
		Priority:    req.Task.Priority,
	}
	if err := draft.Validate(nil); err != nil {
		return nil, err
	}

	var err error
	if draft.DueAt, err = parseTime("due_date", req.Task.DueDate); err != nil {
		return nil, err
	}
	if len(req.Task.ReminderDates) > 0 {
		if draft.ReminderAt, err = parseTime("reminder_dates", req.Task.ReminderDates[0]); err != nil {
			return nil, err
		}
	}
	return remote.CreateTask(ctx, draft.ProjectID, vikunja.FieldsFromDraft(draft))
}

func loadProjects(ctx context.Context, remote Remote, _ *actionRequest) (any, error) {
	return remote.ListProjects(ctx)
}

func testConnection(ctx context.Context, remote Remote, _ *actionRequest) (any, error) {
	return remote.TestConnection(ctx)
}

func loadLabels(ctx context.Context, remote Remote, _ *actionRequest) (any, error) {
	return remote.ListLabels(ctx)
}

func createLabel(ctx context.Context, remote Remote, req *actionRequest) (any, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	return remote.CreateLabel(ctx, title, req.HexColor)
}

func addLabelToTask(ctx context.Context, remote Remote, req *actionRequest) (any, error) {
	if req.TaskID <= 0 || req.LabelID <= 0 {
		return nil, fmt.Errorf("%w: task_id and label_id are required", model.ErrValidation)
	}
	if err := remote.AttachLabel(ctx, req.TaskID, req.LabelID); err != nil {
		return nil, err
	}
	return map[string]int64{"task_id": req.TaskID, "label_id": req.LabelID}, nil
}

// parseTime reads an RFC 3339 timestamp; empty means unset
func parseTime(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an ISO-8601 timestamp", model.ErrValidation, field)
	}
	return &t, nil
}

// errorCode classifies an action error for scripts
func errorCode(err error) string {
	var rf *vikunja.RequestFailedError
	switch {
	case errors.Is(err, vikunja.ErrLabelsUnsupported):
		return "labels_unsupported"
	case errors.Is(err, vikunja.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, vikunja.ErrUnreachable):
		return "unreachable"
	case errors.Is(err, vikunja.ErrMalformedResponse):
		return "malformed_response"
	case errors.As(err, &rf):
		return "request_failed"
	default:
		return "internal"
	}
}

// remoteFor builds the remote for a request, preferring credentials sent
// with it over the saved ones
func (s *Server) remoteFor(cfg *config.Config, req *actionRequest) (Remote, error) {
	serverURL, token := cfg.ServerURL, cfg.Token
	if req.ServerURL != "" && req.Token != "" {
		serverURL, token = config.NormalizeURL(req.ServerURL), strings.TrimSpace(req.Token)
	}
	if serverURL == "" || token == "" {
		return nil, vikunja.ErrMissingCredentials
	}
	return s.newRemote(serverURL, token, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

// handleAction runs one remote action. Action failures are reported in the
// envelope with status 200; only unknown actions and unreadable bodies get
// an error status.
func (s *Server) handleAction(c echo.Context) error {
	name := c.Param("action")
	fn, ok := actions[name]
	if !ok {
		return c.JSON(http.StatusNotFound, actionResponse{Error: "unknown action: " + name, Code: "unknown_action"})
	}

	var req actionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, actionResponse{Error: "invalid request", Code: "validation"})
		}
	}

	data, err := s.runAction(c.Request().Context(), name, fn, &req)
	s.metrics.action(name, err)
	if err != nil {
		logger.Warn("Bridge action failed", logger.F("action", name), logger.Err(err))
		return c.JSON(http.StatusOK, actionResponse{Error: err.Error(), Code: errorCode(err)})
	}
	return c.JSON(http.StatusOK, actionResponse{Success: true, Data: data})
}

func (s *Server) runAction(ctx context.Context, name string, fn actionFunc, req *actionRequest) (any, error) {
	remote, err := s.remoteFor(s.Config(), req)
	if err != nil {
		return nil, err
	}
	logger.Debug("Bridge action", logger.F("action", name))
	return fn(ctx, remote, req)
}
