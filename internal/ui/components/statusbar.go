package components

import "github.com/charmbracelet/lipgloss"

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	segmentStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(0, 1).
			MarginRight(1)
	statusSegmentStyle = segmentStyle.
				BorderForeground(lipgloss.Color("#7f57b4")).
				Foreground(lipgloss.Color("#d7d9da"))
	statusBarStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// StatusBar renders the bottom hint bar. A non-empty status (e.g. "2 pending")
// leads the first row in an accented segment.
func StatusBar(status string, hints []string, width int) string {
	segments := make([]string, 0, len(hints)+1)
	if status != "" {
		segments = append(segments, statusSegmentStyle.Render(SanitizeOneLine(status)))
	}
	for _, h := range hints {
		segments = append(segments, segmentStyle.Render(h))
	}
	if len(segments) == 0 {
		return ""
	}

	rows := wrapSegments(segments, width)
	if width <= 0 {
		return statusBarStyle.Render(rows[0])
	}

	rowWidth := 0
	for _, row := range rows {
		rowWidth = max(rowWidth, lipgloss.Width(row))
	}
	centered := lipgloss.NewStyle().Width(rowWidth).Align(lipgloss.Center)
	for i, row := range rows {
		rows[i] = centered.Render(row)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Hint formats a single keybind hint like "Toggle enter".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

// wrapSegments packs segments into rows no wider than width. A width of zero
// or less keeps everything on one row.
func wrapSegments(segments []string, width int) []string {
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	var rows []string
	start, used := 0, 0
	for i, seg := range segments {
		w := lipgloss.Width(seg)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, segments[start:i]...))
			start, used = i, 0
		}
		used += w
	}
	return append(rows, lipgloss.JoinHorizontal(lipgloss.Top, segments[start:]...))
}
