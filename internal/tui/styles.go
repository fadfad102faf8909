package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Priority colors
	PriorityDoNow  = lipgloss.Color("#FF3860")
	PriorityUrgent = lipgloss.Color("#FF6B6B") // Red
	PriorityHigh   = lipgloss.Color("#FFB347") // Orange
	PriorityMedium = lipgloss.Color("#FFE66D") // Yellow
	PriorityLow    = lipgloss.Color("#4ECDC4") // Blue

	// Status colors
	Success = lipgloss.Color("#95E1A3") // Green
	Warning = lipgloss.Color("#FFE66D") // Yellow
	Failure = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Field label, left column
	LabelStyle = lipgloss.NewStyle().
			Width(12).
			Foreground(TextMuted)

	LabelFocusedStyle = lipgloss.NewStyle().
				Width(12).
				Foreground(Primary).
				Bold(true)

	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	ChipStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SuggestionStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			PaddingLeft(2)

	SuggestionSelectedStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true).
				PaddingLeft(2)

	// The popup frame
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ErrorStyle   = lipgloss.NewStyle().Foreground(Failure)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(priority int) lipgloss.Style {
	switch priority {
	case 5:
		return lipgloss.NewStyle().Foreground(PriorityDoNow).Bold(true)
	case 4:
		return lipgloss.NewStyle().Foreground(PriorityUrgent).Bold(true)
	case 3:
		return lipgloss.NewStyle().Foreground(PriorityHigh)
	case 2:
		return lipgloss.NewStyle().Foreground(PriorityMedium)
	case 1:
		return lipgloss.NewStyle().Foreground(PriorityLow)
	default:
		return HelpStyle
	}
}

var priorityNames = []string{"Unset", "Low", "Medium", "High", "Urgent", "DO NOW"}

// FormatPriority returns a formatted priority string
func FormatPriority(priority int) string {
	if priority < 0 || priority >= len(priorityNames) {
		priority = 0
	}
	return GetPriorityStyle(priority).Render(priorityNames[priority])
}

// labelChip renders a label in its own color
func labelChip(title, color string) string {
	return ChipStyle.
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(contrast(color))).
		Render(title)
}
