package capture

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/model"
	"github.com/google/uuid"
)

// Page is the page being captured
type Page struct {
	Title string
	URL   string
}

// TitleFor builds the task title for a page according to the title preference
func TitleFor(pref string, page Page) string {
	switch pref {
	case config.TitlePageURL:
		return page.URL
	case config.TitleTitleURL:
		return page.Title + "\n" + page.URL
	default:
		return page.Title
	}
}

// DescriptionFor builds the HTML description according to the description
// preference
func DescriptionFor(pref string, page Page) string {
	title := html.EscapeString(page.Title)
	href := html.EscapeString(page.URL)

	switch pref {
	case config.DescriptionEmpty:
		return ""
	case config.DescriptionTitleURL:
		return fmt.Sprintf(`<strong>%s</strong><br><br><a href="%s">Open page</a>`, title, href)
	default:
		return fmt.Sprintf(`<a href="%s">%s</a>`, href, title)
	}
}

// SelectionCapture is the pending capture for selected text on a page
func SelectionCapture(text string, page Page) *model.Capture {
	return &model.Capture{
		ID:    uuid.New().String(),
		Title: strings.TrimSpace(text),
		Description: fmt.Sprintf(`<p>From: <a href="%s">%s</a></p>`,
			html.EscapeString(page.URL), html.EscapeString(page.Title)),
		Source:    model.SourceSelection,
		CreatedAt: time.Now().UTC(),
	}
}

// LinkCapture is the pending capture for a link. The link text falls back to
// the URL.
func LinkCapture(linkURL, linkText string) *model.Capture {
	text := strings.TrimSpace(linkText)
	if text == "" {
		text = linkURL
	}
	return &model.Capture{
		ID:          uuid.New().String(),
		Title:       text,
		Description: fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(linkURL), html.EscapeString(text)),
		Source:      model.SourceLink,
		CreatedAt:   time.Now().UTC(),
	}
}

// Shortcut is a relative day used by the date buttons
type Shortcut int

const (
	Today Shortcut = iota
	Tomorrow
	NextWeek
)

func (s Shortcut) days() int {
	switch s {
	case Tomorrow:
		return 1
	case NextWeek:
		return 7
	default:
		return 0
	}
}

// parseClock reads HH:MM, falling back to 10:00
func parseClock(clock string) (hour, minute int) {
	h, m, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if ok {
		hh, errH := strconv.Atoi(h)
		mm, errM := strconv.Atoi(m)
		if errH == nil && errM == nil && hh >= 0 && hh < 24 && mm >= 0 && mm < 60 {
			return hh, mm
		}
	}
	return 10, 0
}

func atClock(day time.Time, offsetDays, hour, minute int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d+offsetDays, hour, minute, 0, 0, day.Location())
}

// DueShortcut returns the due date for a shortcut: end of the day at 23:59
func DueShortcut(now time.Time, s Shortcut) time.Time {
	return atClock(now, s.days(), 23, 59)
}

// ReminderShortcut returns the reminder for a shortcut at the given HH:MM
func ReminderShortcut(now time.Time, s Shortcut, clock string) time.Time {
	h, m := parseClock(clock)
	return atClock(now, s.days(), h, m)
}

// DefaultReminder computes the preset reminder relative to base (the due
// date when set, otherwise now). It returns nil when no preset is chosen.
func DefaultReminder(pref, clock string, base time.Time) *time.Time {
	var offset int
	switch pref {
	case config.ReminderSameDay:
		offset = 0
	case config.ReminderDayBefore:
		offset = -1
	case config.ReminderWeekBefore:
		offset = -7
	default:
		return nil
	}

	h, m := parseClock(clock)
	t := atClock(base, offset, h, m)
	return &t
}
