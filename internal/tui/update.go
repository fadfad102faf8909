package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
)

// loadedMsg is sent when projects and labels are loaded
type loadedMsg struct {
	err error
}

// submittedMsg is sent when the task creation finished
type submittedMsg struct {
	result *capture.Result
	err    error

	// shown are the labels on screen, sent the copies the submit worked on
	shown []*model.Label
	sent  []*model.Label
}

// closeMsg closes the popup after a successful submit
type closeMsg struct{}

// Init starts loading projects and labels
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if err := ctrl.Load(ctx); err != nil {
			return loadedMsg{err: err}
		}
		ctrl.TakePending(ctx)
		return loadedMsg{}
	}
}

// submit runs the submit on copies of the selected labels. The view keeps
// rendering the originals until the result comes back.
func (m Model) submit(d *model.TaskDraft) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	shown := d.Labels
	sent := make([]*model.Label, len(shown))
	for i, l := range shown {
		c := *l
		sent[i] = &c
	}
	d.Labels = sent
	return func() tea.Msg {
		result, err := ctrl.Submit(ctx, d)
		return submittedMsg{result: result, err: err, shown: shown, sent: sent}
	}
}

// resolveLabels copies server ids of labels created during a submit back
// onto the labels the form shows, so a retry does not create them again
func resolveLabels(shown, sent []*model.Label) {
	for i, l := range shown {
		if i < len(sent) && l.IsPending() && !sent[i].IsPending() {
			l.ID = sent[i].ID
			l.HexColor = sent[i].HexColor
		}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.mode != ModeLoading && m.mode != ModeSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.err != nil {
			logger.Error("Failed to load capture form", logger.Err(msg.err))
			m.mode = ModeLoadFailed
			m.err = msg.err
			return m, nil
		}
		m.mode = ModeForm
		m.err = nil
		m.applyDraft(m.ctrl.Prefill(m.page))
		if m.ctrl.Pending != nil {
			m.message = "Started from your " + m.ctrl.Pending.Source
		}
		cmd := m.setFocus(FieldTitle)
		return m, cmd

	case submittedMsg:
		resolveLabels(msg.shown, msg.sent)
		if msg.err != nil {
			m.mode = ModeForm
			m.err = msg.err
			return m, nil
		}
		m.mode = ModeDone
		m.created = msg.result.Task
		m.failures = msg.result.LabelFailures()
		return m, tea.Tick(closeDelay, func(time.Time) tea.Msg { return closeMsg{} })

	case closeMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case ModeHelp:
			m.mode = ModeForm
			return m, nil
		case ModeDone:
			return m, tea.Quit
		case ModeLoadFailed:
			if key.Matches(msg, keys.Retry) {
				m.mode = ModeLoading
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.load())
			}
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case ModeForm:
			return m.handleFormKeys(msg)
		}

		// Loading or submitting
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleFormKeys handles key presses while the form is shown
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m.startSubmit()
	case key.Matches(msg, keys.Next):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, keys.Prev):
		cmd := m.cycleFocus(-1)
		return m, cmd
	case key.Matches(msg, keys.Clear):
		m.clearForm()
		cmd := m.setFocus(FieldTitle)
		return m, cmd
	case key.Matches(msg, keys.Favorites):
		m.ctrl.FavoritesOnly = !m.ctrl.FavoritesOnly
		m.refreshEntries(m.projectID)
		if m.ctrl.FavoritesOnly {
			m.message = "Showing favorite projects"
		} else {
			m.message = "Showing all projects"
		}
		return m, nil
	case key.Matches(msg, keys.TitlePage):
		m.fillTitle(config.TitlePageTitle)
		return m, nil
	case key.Matches(msg, keys.TitleURL):
		m.fillTitle(config.TitlePageURL)
		return m, nil
	case key.Matches(msg, keys.TitleBoth):
		m.fillTitle(config.TitleTitleURL)
		return m, nil
	case key.Matches(msg, keys.DescURL):
		m.fillDescription(config.DescriptionURL)
		return m, nil
	case key.Matches(msg, keys.DescBoth):
		m.fillDescription(config.DescriptionTitleURL)
		return m, nil
	case key.Matches(msg, keys.DescEmpty):
		m.fillDescription(config.DescriptionEmpty)
		return m, nil
	}

	switch m.focus {
	case FieldProject:
		return m.handleProjectKeys(msg)
	case FieldPriority:
		return m.handlePriorityKeys(msg)
	case FieldDue, FieldReminder:
		return m.handleDateKeys(msg)
	case FieldLabels:
		return m.handleLabelKeys(msg)
	case FieldDescription:
		var cmd tea.Cmd
		m.description, cmd = m.description.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Enter) {
		return m.startSubmit()
	}
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	return m, cmd
}

func (m Model) handleProjectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.projCursor > 0 {
			m.projCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.projCursor < len(m.entries)-1 {
			m.projCursor++
		}
	case key.Matches(msg, keys.Enter):
		return m.startSubmit()
	}
	if m.projCursor < len(m.entries) {
		m.projectID = m.entries[m.projCursor].Project.ID
	}
	return m, nil
}

func (m Model) handlePriorityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		if m.priority > model.PriorityUnset {
			m.priority--
		}
	case key.Matches(msg, keys.Right):
		if m.priority < model.PriorityDoNow {
			m.priority++
		}
	case key.Matches(msg, keys.Enter):
		return m.startSubmit()
	}
	return m, nil
}

func (m Model) handleDateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var shortcut capture.Shortcut
	switch {
	case key.Matches(msg, keys.Today):
		shortcut = capture.Today
	case key.Matches(msg, keys.Tomorrow):
		shortcut = capture.Tomorrow
	case key.Matches(msg, keys.NextWeek):
		shortcut = capture.NextWeek
	case key.Matches(msg, keys.NoDate):
		if m.focus == FieldDue {
			m.due.SetValue("")
			m.syncReminder()
		} else {
			m.reminder.SetValue("")
			m.reminderAuto = false
		}
		return m, nil
	case key.Matches(msg, keys.Enter):
		return m.startSubmit()
	default:
		var cmd tea.Cmd
		if m.focus == FieldDue {
			m.due, cmd = m.due.Update(msg)
			m.syncReminder()
		} else {
			m.reminder, cmd = m.reminder.Update(msg)
			m.reminderAuto = false
		}
		return m, cmd
	}

	now := m.now()
	if m.focus == FieldDue {
		t := capture.DueShortcut(now, shortcut)
		m.due.SetValue(m.formatTime(&t))
		m.syncReminder()
	} else {
		t := capture.ReminderShortcut(now, shortcut, m.cfg.DefaultReminderTime)
		m.reminder.SetValue(m.formatTime(&t))
		m.reminderAuto = false
	}
	return m, nil
}

// syncReminder moves a preset reminder along with the due date
func (m *Model) syncReminder() {
	if !m.reminderAuto || !m.cfg.ReminderEnabled() || m.cfg.DefaultReminderDate == config.ReminderNone {
		return
	}
	base := m.now()
	due, err := m.parseDue()
	if err != nil {
		return
	}
	if due != nil {
		base = *due
	}
	m.reminder.SetValue(m.formatTime(capture.DefaultReminder(m.cfg.DefaultReminderDate, m.cfg.DefaultReminderTime, base)))
}

func (m Model) handleLabelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.ctrl.Labels
	suggestions := sel.Suggest(m.labelInput.Value())

	switch {
	case key.Matches(msg, keys.Up):
		if m.suggestCursor > 0 {
			m.suggestCursor--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.suggestCursor < len(suggestions)-1 {
			m.suggestCursor++
		}
		return m, nil
	case key.Matches(msg, keys.Enter):
		if m.labelInput.Value() == "" {
			return m.startSubmit()
		}
		if m.suggestCursor < len(suggestions) {
			sel.Select(suggestions[m.suggestCursor])
		} else if l, created := sel.Pick(m.labelInput.Value()); created {
			m.message = fmt.Sprintf("New label %q is created with the task", l.Title)
		}
		m.labelInput.SetValue("")
		m.suggestCursor = 0
		return m, nil
	case msg.Type == tea.KeyBackspace && m.labelInput.Value() == "":
		sel.Remove(len(sel.Selected()) - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.labelInput, cmd = m.labelInput.Update(msg)
	m.suggestCursor = 0
	return m, cmd
}

// setFocus moves the focus to f
func (m *Model) setFocus(f Field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.description.Blur()
	m.due.Blur()
	m.reminder.Blur()
	m.labelInput.Blur()

	switch f {
	case FieldTitle:
		return m.title.Focus()
	case FieldDescription:
		return m.description.Focus()
	case FieldDue:
		return m.due.Focus()
	case FieldReminder:
		return m.reminder.Focus()
	case FieldLabels:
		return m.labelInput.Focus()
	}
	return nil
}

// cycleFocus moves the focus by delta over the visible fields
func (m *Model) cycleFocus(delta int) tea.Cmd {
	fields := m.fields()
	i := 0
	for j, f := range fields {
		if f == m.focus {
			i = j
			break
		}
	}
	i = (i + delta + len(fields)) % len(fields)
	return m.setFocus(fields[i])
}

func (m *Model) clearForm() {
	m.applyDraft(&model.TaskDraft{ProjectID: m.projectID})
	m.message = "Form cleared"
}

func (m *Model) fillTitle(pref string) {
	if m.page == (capture.Page{}) {
		m.message = "No page to take the title from"
		return
	}
	m.title.SetValue(capture.TitleFor(pref, m.page))
	m.title.CursorEnd()
}

func (m *Model) fillDescription(pref string) {
	if m.page == (capture.Page{}) && pref != config.DescriptionEmpty {
		m.message = "No page to link to"
		return
	}
	m.description.SetValue(capture.DescriptionFor(pref, m.page))
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	d, err := m.draft()
	if err == nil {
		err = d.Validate(m.ctrl.Known)
	}
	if err != nil {
		m.err = err
		return m, nil
	}

	logger.Debug("Submitting task", logger.F("project", d.ProjectID), logger.F("labels", len(d.Labels)))
	m.mode = ModeSubmitting
	return m, tea.Batch(m.spinner.Tick, m.submit(d))
}
