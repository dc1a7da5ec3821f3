package formatter

import (
	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of a string.
// East Asian wide characters count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadString right-pads a string to the specified display width
func PadString(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateString shortens a string to the display width, ending it with "..."
func TruncateString(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
