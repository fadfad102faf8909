// Package tui is the interactive capture popup.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/labels"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/ranking"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeLoading Mode = iota
	ModeLoadFailed
	ModeForm
	ModeSubmitting
	ModeDone
	ModeHelp
)

// Field is a form field that can take focus
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldProject
	FieldPriority
	FieldDue
	FieldReminder
	FieldLabels
)

// projectRows is the number of projects shown at once
const projectRows = 6

// closeDelay is how long the success message stays up
const closeDelay = 1500 * time.Millisecond

// Model is the popup model
type Model struct {
	ctx  context.Context
	ctrl *capture.Controller
	cfg  *config.Config
	page capture.Page
	now  func() time.Time

	// UI state
	width  int
	height int
	mode   Mode
	focus  Field

	spinner     spinner.Model
	title       textinput.Model
	description textarea.Model
	due         textinput.Model
	reminder    textinput.Model
	labelInput  textinput.Model

	entries    []ranking.Entry
	projCursor int
	projectID  int64
	priority   int

	// reminderAuto is true while the reminder follows the default preset
	reminderAuto  bool
	suggestCursor int

	created  *model.Task
	failures []labels.Outcome
	err      error
	message  string
}

// NewModel creates the popup for page. Projects and labels load in Init.
func NewModel(ctx context.Context, ctrl *capture.Controller, page capture.Page) Model {
	logger.Info("Initializing capture popup")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HeaderStyle

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 512
	title.Width = 48

	desc := textarea.New()
	desc.Placeholder = "Description (HTML)"
	desc.ShowLineNumbers = false
	desc.SetWidth(48)
	desc.SetHeight(3)

	due := textinput.New()
	due.Width = 24
	reminder := textinput.New()
	reminder.Width = 24

	labelInput := textinput.New()
	labelInput.Placeholder = "Add label..."
	labelInput.Width = 32

	cfg := ctrl.Config()
	dateLayout, clockLayout := capture.Layout(cfg.DateFormat, cfg.TimeFormat)
	due.Placeholder = dateLayout + " or tomorrow"
	reminder.Placeholder = dateLayout + " " + clockLayout

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		cfg:         cfg,
		page:        page,
		now:         time.Now,
		mode:        ModeLoading,
		spinner:     sp,
		title:       title,
		description: desc,
		due:         due,
		reminder:    reminder,
		labelInput:  labelInput,
	}
}

// Created returns the task created in this session, if any
func (m Model) Created() *model.Task {
	return m.created
}

// fields returns the focusable fields in order, honoring the settings
func (m Model) fields() []Field {
	out := []Field{FieldTitle, FieldDescription, FieldProject, FieldPriority}
	if m.cfg.DueDateEnabled() {
		out = append(out, FieldDue)
	}
	if m.cfg.ReminderEnabled() {
		out = append(out, FieldReminder)
	}
	if m.cfg.LabelsEnabled() && m.ctrl.LabelsAvailable {
		out = append(out, FieldLabels)
	}
	return out
}

// applyDraft fills the form from a prefilled draft
func (m *Model) applyDraft(d *model.TaskDraft) {
	m.title.SetValue(d.Title)
	m.title.CursorEnd()
	m.description.SetValue(d.Description)
	m.priority = d.Priority
	m.due.SetValue(m.formatTime(d.DueAt))
	m.reminder.SetValue(m.formatTime(d.ReminderAt))
	m.reminderAuto = true
	m.labelInput.SetValue("")
	m.ctrl.Labels.Clear()
	m.refreshEntries(d.ProjectID)
}

// refreshEntries re-ranks the projects and keeps id selected if visible
func (m *Model) refreshEntries(id int64) {
	m.entries = m.ctrl.Entries()
	m.projCursor = 0
	m.projectID = 0
	for i, e := range m.entries {
		if e.Project.ID == id {
			m.projCursor = i
			break
		}
	}
	if len(m.entries) > 0 {
		m.projectID = m.entries[m.projCursor].Project.ID
	}
}

func (m Model) formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return capture.FormatDateTime(*t, m.cfg.DateFormat, m.cfg.TimeFormat)
}

func (m Model) parseDue() (*time.Time, error) {
	return capture.ParseDateTime(m.due.Value(), m.cfg.DateFormat, m.cfg.TimeFormat, m.now(), capture.EndOfDay)
}

func (m Model) parseReminder() (*time.Time, error) {
	return capture.ParseDateTime(m.reminder.Value(), m.cfg.DateFormat, m.cfg.TimeFormat, m.now(), m.cfg.DefaultReminderTime)
}

// draft collects the form into a task draft
func (m Model) draft() (*model.TaskDraft, error) {
	due, err := m.parseDue()
	if err != nil {
		return nil, err
	}
	var reminder *time.Time
	if m.cfg.ReminderEnabled() {
		if reminder, err = m.parseReminder(); err != nil {
			return nil, err
		}
	}
	if !m.cfg.DueDateEnabled() {
		due = nil
	}

	d := &model.TaskDraft{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		ProjectID:   m.projectID,
		Priority:    m.priority,
		DueAt:       due,
		ReminderAt:  reminder,
	}
	if m.ctrl.LabelsAvailable {
		d.Labels = m.ctrl.Labels.Selected()
	}
	return d, nil
}
