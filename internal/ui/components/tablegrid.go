package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a TableGrid. Width excludes separators.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// GridOptions controls row styling in TableGrid.
type GridOptions struct {
	// ActiveRow is the 0-based cursor row; -1 for none.
	ActiveRow int
	// MarkColor colors the "[x]" marker of linked rows.
	MarkColor lipgloss.Color
	// Dimmed rows render faint, e.g. while a request for them is in flight.
	Dimmed map[int]bool
}

const (
	gridIndent  = 2
	linkedMark  = "[x]"
	defaultMark = lipgloss.Color("#3f866b")
)

var (
	gridRuleColor = lipgloss.Color("#273540")
	gridActiveBg  = lipgloss.Color("#1f2530")

	gridRuleStyle   = lipgloss.NewStyle().Foreground(gridRuleColor)
	gridHeaderStyle = boxLabelStyle
	gridActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Background(gridActiveBg).
			Bold(true)
	gridActiveRuleStyle = gridRuleStyle.Background(gridActiveBg)
	gridDimmedStyle     = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5c6077")).
				Faint(true)
)

// TableGrid renders a header, a rule and one line per row, every line exactly
// tableWidth cells wide. The last column absorbs any slack.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int, opts GridOptions) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return strings.Repeat(" ", tableWidth)
	}

	border := lipgloss.RoundedBorder()
	cols := fitColumns(columns, tableWidth-gridIndent)
	mark := opts.MarkColor
	if mark == "" {
		mark = defaultMark
	}
	g := grid{
		cols:  cols,
		width: tableWidth,
		sep:   border.Left,
		mark:  lipgloss.NewStyle().Foreground(mark).Bold(true),
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, g.row(headers, gridHeaderStyle, gridRuleStyle, false))
	out = append(out, g.rule(border.Top, border.Middle))
	for i, cells := range rows {
		switch {
		case i == opts.ActiveRow:
			out = append(out, g.row(cells, gridActiveStyle, gridActiveRuleStyle, true))
		case opts.Dimmed[i]:
			out = append(out, g.row(cells, gridDimmedStyle, gridRuleStyle, false))
		default:
			out = append(out, g.row(cells, lipgloss.NewStyle(), gridRuleStyle, true))
		}
	}
	return strings.Join(out, "\n")
}

// fitColumns gives every column at least one cell and stretches or shrinks
// the last column so columns plus single-cell separators fill width.
func fitColumns(columns []TableColumn, width int) []TableColumn {
	cols := make([]TableColumn, len(columns))
	used := len(columns) - 1
	for i, c := range columns {
		c.Width = max(1, c.Width)
		cols[i] = c
		used += c.Width
	}
	last := &cols[len(cols)-1]
	last.Width = max(1, last.Width+width-used)
	return cols
}

type grid struct {
	cols  []TableColumn
	width int
	sep   string
	mark  lipgloss.Style
}

func (g grid) row(cells []string, cell, rule lipgloss.Style, marks bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridIndent))
	for i, col := range g.cols {
		if i > 0 {
			b.WriteString(rule.Inline(true).Render(g.sep))
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		rendered := cell.Inline(true).Render(renderGridCell(text, col.Width, col.Align))
		if marks {
			rendered = strings.ReplaceAll(rendered, linkedMark, g.mark.Render(linkedMark))
		}
		b.WriteString(rendered)
	}
	return padRight(b.String(), g.width)
}

func (g grid) rule(horiz, cross string) string {
	parts := make([]string, len(g.cols))
	for i, col := range g.cols {
		parts[i] = strings.Repeat(horiz, col.Width)
	}
	line := strings.Repeat(" ", gridIndent) + strings.Join(parts, cross)
	return gridRuleStyle.Render(padRight(line, g.width))
}

func renderGridCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	clamped := ClampTextWidth(text, width)
	gap := width - lipgloss.Width(clamped)
	switch {
	case gap <= 0:
		return clamped
	case align == lipgloss.Right:
		return strings.Repeat(" ", gap) + clamped
	case align == lipgloss.Center:
		return strings.Repeat(" ", gap/2) + clamped + strings.Repeat(" ", gap-gap/2)
	default:
		return clamped + strings.Repeat(" ", gap)
	}
}
