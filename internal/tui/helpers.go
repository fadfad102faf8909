package tui

import (
	"github.com/existflow/quickadd/internal/labels"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 4 {
		return s
	}
	return string(r[:max-3]) + "..."
}

// window returns the [start, end) range of a list of n items of which size
// are visible, keeping cursor in view
func window(cursor, n, size int) (start, end int) {
	if n <= size {
		return 0, n
	}
	start = cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

// contrast picks black or white text for a label color
func contrast(color string) string {
	return labels.Contrast(labels.Normalize(color))
}
