package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/quickadd/internal/labels"
	"github.com/existflow/quickadd/internal/model"
)

// maxSuggestions is the number of label suggestions shown
const maxSuggestions = 5

// View renders the UI
func (m Model) View() string {
	var content string
	switch m.mode {
	case ModeLoading:
		content = ModalStyle.Render(m.spinner.View() + " Loading projects...")
	case ModeLoadFailed:
		content = ModalStyle.Render(
			ErrorStyle.Render("✗ "+errorLine(m.err)) + "\n\n" +
				HelpStyle.Render("ctrl+r retry • esc close"))
	case ModeHelp:
		content = m.renderHelp()
	case ModeDone:
		content = m.renderDone()
	default:
		content = m.renderForm()
	}

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceChars(" "))
}

// errorLine renders an error as one line for the popup
func errorLine(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if errors.Is(err, model.ErrValidation) {
		if _, detail, ok := strings.Cut(msg, ": "); ok {
			msg = detail
		}
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func (m Model) fieldLabel(f Field, text string) string {
	if m.focus == f && m.mode == ModeForm {
		return LabelFocusedStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

func (m Model) renderForm() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Quick Add") + "\n")
	if m.page.URL != "" {
		b.WriteString(HelpStyle.Render(truncate(m.page.URL, 60)) + "\n")
	}
	b.WriteString("\n")

	row := func(f Field, label, value string) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.fieldLabel(f, label), value) + "\n")
	}

	row(FieldTitle, "Title", m.title.View())
	row(FieldDescription, "Description", m.description.View())
	row(FieldProject, "Project", m.renderProjects())
	row(FieldPriority, "Priority", "◀ "+FormatPriority(m.priority)+" ▶")
	if m.cfg.DueDateEnabled() {
		row(FieldDue, "Due", m.due.View())
	}
	if m.cfg.ReminderEnabled() {
		row(FieldReminder, "Reminder", m.reminder.View())
	}
	if m.cfg.LabelsEnabled() && m.ctrl.LabelsAvailable {
		row(FieldLabels, "Labels", m.renderLabels())
	}

	b.WriteString("\n")
	switch {
	case m.mode == ModeSubmitting:
		b.WriteString(m.spinner.View() + " Creating task...")
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("✗ " + errorLine(m.err)))
	case m.message != "":
		b.WriteString(HelpStyle.Render(m.message))
	default:
		b.WriteString(HelpStyle.Render("ctrl+s create • tab next • f1 help • esc close"))
	}

	return ModalStyle.Render(b.String())
}

func (m Model) renderProjects() string {
	if len(m.entries) == 0 {
		if m.ctrl.FavoritesOnly {
			return HelpStyle.Render("No favorite projects (ctrl+f shows all)")
		}
		return HelpStyle.Render("No projects")
	}

	start, end := window(m.projCursor, len(m.entries), projectRows)
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		style := ProjectItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.focus == FieldProject {
				style = ProjectItemSelectedStyle
			}
		}
		lines = append(lines, style.Render(cursor+truncate(e.Label(), 40)))
	}
	if len(m.entries) > projectRows {
		lines = append(lines, HelpStyle.Render(fmt.Sprintf("  %d/%d", m.projCursor+1, len(m.entries))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLabels() string {
	sel := m.ctrl.Labels
	var chips []string
	for _, l := range sel.Selected() {
		title := l.Title
		if l.IsPending() {
			title += " +"
		}
		chips = append(chips, labelChip(title, labels.Normalize(l.HexColor)))
	}

	var b strings.Builder
	if len(chips) > 0 {
		b.WriteString(strings.Join(chips, " ") + "\n")
	}
	b.WriteString(m.labelInput.View())

	if m.focus != FieldLabels {
		return b.String()
	}
	for i, l := range sel.Suggest(m.labelInput.Value()) {
		if i == maxSuggestions {
			break
		}
		style := SuggestionStyle
		if i == m.suggestCursor {
			style = SuggestionSelectedStyle
		}
		b.WriteString("\n" + style.Render(l.Title))
	}
	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder
	if m.created != nil {
		b.WriteString(SuccessStyle.Render("✓ Task created: " + truncate(m.created.Title, 50)))
	}
	for _, o := range m.failures {
		verb := "attached"
		if o.Step == labels.StepCreate {
			verb = "created"
		}
		b.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("⚠ Label %q could not be %s", o.Label.Title, verb)))
	}
	return ModalStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Keyboard Shortcuts") + "\n")

	for _, group := range helpGroups {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(group.title) + "\n")
		for _, binding := range group.bindings {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, HelpStyle.Render(h.Desc)))
		}
	}

	b.WriteString("\n" + HelpStyle.Render("Press any key to return"))
	return ModalStyle.Render(b.String())
}
