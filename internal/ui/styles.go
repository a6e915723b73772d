package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary = lipgloss.Color("#7f57b4") // purple
	ColorMuted   = lipgloss.Color("#9ba0bf") // muted text
	ColorSuccess = lipgloss.Color("#3f866b") // green
	ColorError   = lipgloss.Color("#6d424b") // red
	ColorWarning = lipgloss.Color("#c78854") // warning
	ColorBorder  = lipgloss.Color("#273540") // border
)

// --- Reusable Styles ---

var (
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)
