package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/model"
)

// EndOfDay is the clock used for due dates given without a time
const EndOfDay = "23:59"

var dateLayouts = map[string]string{
	"DD.MM.YYYY": "02.01.2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY-MM-DD": "2006-01-02",
}

var timeLayouts = map[string]string{
	"24h": "15:04",
	"12h": "3:04 PM",
}

// Layout returns the Go layouts for the date and time format preferences
func Layout(dateFormat, timeFormat string) (date, clock string) {
	date, ok := dateLayouts[dateFormat]
	if !ok {
		date = dateLayouts["DD.MM.YYYY"]
	}
	clock, ok = timeLayouts[timeFormat]
	if !ok {
		clock = timeLayouts["24h"]
	}
	return date, clock
}

// FormatDateTime renders t with the user's preferences
func FormatDateTime(t time.Time, dateFormat, timeFormat string) string {
	date, clock := Layout(dateFormat, timeFormat)
	return t.Format(date + " " + clock)
}

var shortcutWords = map[string]Shortcut{
	"today":     Today,
	"tomorrow":  Tomorrow,
	"next-week": NextWeek,
	"next week": NextWeek,
	"nextweek":  NextWeek,
}

// ParseDateTime reads a date typed by the user. It accepts the shortcut words
// (today, tomorrow, next-week), the preferred date format with or without a
// time, and ISO dates. Dates without a time get clock (HH:MM). Empty input
// yields nil.
func ParseDateTime(input, dateFormat, timeFormat string, now time.Time, clock string) (*time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}

	if sc, ok := shortcutWords[strings.ToLower(s)]; ok {
		t := ReminderShortcut(now, sc, clock)
		return &t, nil
	}

	date, clk := Layout(dateFormat, timeFormat)
	withTime := []string{
		date + " " + clk,
		date + " 15:04",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
	}
	for _, layout := range withTime {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &t, nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}

	for _, layout := range []string{date, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			h, m := parseClock(clock)
			at := atClock(t, 0, h, m)
			return &at, nil
		}
	}

	return nil, fmt.Errorf("%w: unrecognized date %q (use %s, today, tomorrow or next-week)",
		model.ErrValidation, s, strings.ToUpper(dateFormat))
}
