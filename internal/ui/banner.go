package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ██████   █████ ██████   █████ ███████████   █████████     █████████   █████████
░░██████ ░░███ ░░██████ ░░███ ░█░░░███░░░█  ███░░░░░███   ███░░░░░███ ███░░░░░███
 ░███░███ ░███  ░███░███ ░███ ░   ░███  ░  ░███    ░███  ███     ░░░ ░███    ░░░
 ░███░░███░███  ░███░░███░███     ░███     ░███████████ ░███         ░░█████████
 ░███ ░░██████  ░███ ░░██████     ░███     ░███░░░░░███ ░███    █████ ░░░░░░░░███
 ░███  ░░█████  ░███  ░░█████     ░███     ░███    ░███ ░░███  ░░███  ███    ░███
 █████  ░░█████ █████  ░░█████    █████    █████   █████ ░░█████████ ░░█████████
░░░░░    ░░░░░ ░░░░░    ░░░░░    ░░░░░    ░░░░░   ░░░░░   ░░░░░░░░░   ░░░░░░░░░`

const bannerSubtitle = "Many-to-Many Tags • Command-Line Interface"

// RenderBanner returns the styled banner. Terminals narrower than the art get
// a single-line title instead.
func RenderBanner(width int) string {
	art := strings.Split(strings.Trim(bannerArt, "\n"), "\n")
	artWidth := 0
	for _, line := range art {
		artWidth = max(artWidth, lipgloss.Width(line))
	}

	title := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	if width > 0 && width < artWidth {
		return "\n" + title.Render("nntags") + MutedStyle.Render(" · "+bannerSubtitle) + "\n"
	}

	artStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	lines := make([]string, 0, len(art)+3)
	for _, line := range art {
		lines = append(lines, artStyle.Render(line))
	}
	centered := lipgloss.NewStyle().Width(max(artWidth, lipgloss.Width(bannerSubtitle))).Align(lipgloss.Center)
	lines = append(lines, "",
		centered.Foreground(ColorMuted).Render(bannerSubtitle),
		centered.Foreground(ColorBorder).Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle))))
	return "\n" + strings.Join(lines, "\n") + "\n"
}
