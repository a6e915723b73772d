package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var alertHintStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#9ba0bf"))

// AlertDialog renders a blocking error alert. queued is the number of alerts
// still waiting behind this one.
func AlertDialog(title, message string, queued, width int) string {
	header := errorHeaderStyle.Render(SanitizeOneLine(title))
	body := errorBodyStyle.Render(SanitizeText(message))

	hintText := "enter: dismiss"
	if queued > 0 {
		hintText = fmt.Sprintf("enter: dismiss | %d more", queued)
	}
	hint := alertHintStyle.Render(hintText)

	return errorFrame.Width(boxWidth(width)).Render(header + "\n\n" + body + "\n\n" + hint)
}
