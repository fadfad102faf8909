package labels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMissingID = errors.New("server returned a label without id")

// FallbackColor is used for labels without a color
const FallbackColor = "#888888"

func parseHex(color string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func brightness(r, g, b int) int {
	return (r*299 + g*587 + b*114) / 1000
}

// Normalize returns color as #rrggbb, or FallbackColor if it cannot be read
func Normalize(color string) string {
	r, g, b, ok := parseHex(color)
	if !ok {
		return FallbackColor
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// EnsureVisible lightens very dark colors so they show on a dark background
func EnsureVisible(color string) string {
	r, g, b, ok := parseHex(color)
	if !ok {
		return FallbackColor
	}
	if brightness(r, g, b) >= 100 {
		return Normalize(color)
	}
	return fmt.Sprintf("#%02x%02x%02x", min(255, r+150), min(255, g+150), min(255, b+150))
}

// Contrast returns black or white, whichever reads better on color
func Contrast(color string) string {
	r, g, b, ok := parseHex(color)
	if !ok || brightness(r, g, b) <= 128 {
		return "#ffffff"
	}
	return "#000000"
}
