package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorRed     = lipgloss.Color("#FF5555")
	colorYellow  = lipgloss.Color("#F1FA8C")
	colorGreen   = lipgloss.Color("#50FA7B")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorOrange  = lipgloss.Color("#FFB86C")
	colorWhite   = lipgloss.Color("#F8F8F2")
	colorGray    = lipgloss.Color("#6272A4")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	valueStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	headerStyle = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle    = lipgloss.NewStyle().Foreground(colorGray)
	orangeStyle = lipgloss.NewStyle().Foreground(colorOrange)
	footerStyle = lipgloss.NewStyle().Reverse(true)
)

// ageColor tints a flow's age cell: recently active flows render plain,
// idle-under-a-minute flows render dim, and anything older renders in
// orange to draw the eye.
func ageColor(secs uint64) lipgloss.Style {
	switch {
	case secs == 0:
		return valueStyle
	case secs < 60:
		return dimStyle
	default:
		return orangeStyle
	}
}

// dropColor flags a nonzero kernel-drop or queue-full counter in the
// footer.
func dropColor(n uint64) lipgloss.Style {
	if n == 0 {
		return okStyle
	}
	if n < 100 {
		return warnStyle
	}
	return critStyle
}
