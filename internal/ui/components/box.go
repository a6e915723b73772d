package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const (
	minBoxWidth = 40
	maxBoxWidth = 80
	// border (2) plus horizontal padding (4)
	boxChrome = 6
)

var (
	boxBorderColor = lipgloss.Color("#273540")

	boxFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(boxBorderColor).
			Padding(1, 2)

	errorFrame = boxFrame.
			BorderForeground(lipgloss.Color("#7a2f3a"))

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f57b4")).
			Bold(true)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#436b77")).
			Bold(true)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

// boxWidth is 70% of the terminal, kept within [minBoxWidth, maxBoxWidth] and
// never wider than the terminal itself. Zero means unsized.
func boxWidth(termWidth int) int {
	if termWidth <= 0 {
		return 0
	}
	w := termWidth * 70 / 100
	w = max(minBoxWidth, min(w, maxBoxWidth))
	return min(w, termWidth)
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return boxFrame.Width(boxWidth(width)).Render(content)
}

// BoxContentWidth returns the usable width inside a Box.
func BoxContentWidth(width int) int {
	return max(0, boxWidth(width)-boxChrome)
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	body := errorBodyStyle.Render(message)
	if title != "" {
		body = errorHeaderStyle.Render(title) + "\n\n" + body
	}
	return errorFrame.Width(boxWidth(width)).Render(body)
}

// TitledBox renders a box whose top border carries "[ title ]".
func TitledBox(title, content string, width int) string {
	boxed := Box(content, width)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	inner := lipgloss.Width(lines[0]) - 2
	if inner < 2 {
		return boxed
	}

	label := truncateRunes(" [ "+SanitizeOneLine(title)+" ] ", inner)
	left := (inner - lipgloss.Width(label)) / 2
	right := inner - lipgloss.Width(label) - left

	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(boxBorderColor)
	lines[0] = edge.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

// TableRow is one label/value line of Table. ValueColor is an optional hex
// color for the value.
type TableRow struct {
	Label      string
	Value      string
	ValueColor string
}

// Table renders aligned label/value rows in a titled box.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(SanitizeOneLine(r.Label)))
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth <= 0 {
		contentWidth = labelWidth + 8
	}
	labelWidth = max(4, min(labelWidth, 24, contentWidth/2))
	valueWidth := max(4, contentWidth-labelWidth-2)

	lines := make([]string, len(rows))
	for i, r := range rows {
		style := boxValueStyle
		if r.ValueColor != "" {
			style = style.Foreground(lipgloss.Color(r.ValueColor))
		}
		label := padRight(ClampTextWidth(r.Label, labelWidth), labelWidth)
		lines[i] = boxLabelStyle.Render(label) + "  " + style.Render(ClampTextWidth(r.Value, valueWidth))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// ClampTextWidth flattens text to one line and truncates it to width cells.
// A width of zero or less only flattens.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	return truncateRunes(cleaned, width)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
