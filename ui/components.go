package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fitCell pads or truncates s to exactly width. Text that fits is padded
// with spaces on the right (left-justified) or left (right-justified,
// rightAlign=true). Text that overflows is always truncated from the left
// and prefixed with a marker -- this keeps the significant suffix of a
// hostname or corp label visible rather than its prefix.
func fitCell(s string, width int, rightAlign bool) string {
	w := lipgloss.Width(s)
	if w <= width {
		pad := strings.Repeat(" ", width-w)
		if rightAlign {
			return pad + s
		}
		return s + pad
	}
	if width <= 1 {
		return tailRunes(s, width)
	}
	return "‹" + tailRunes(s, width-1)
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
