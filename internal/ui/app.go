package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/nntags/internal/api"
	"github.com/gravitrone/nntags/internal/config"
	"github.com/gravitrone/nntags/internal/ui/components"
)

const startupCheckTimeout = 3 * time.Second

// --- Messages ---

type clearToastMsg struct{}

type startupCheckedMsg struct {
	apiErr       error
	userID       string
	tokenExpired bool
}

type startupSummary struct {
	API  string
	Auth string
	Done bool
}

type toastLevel int

const (
	toastSuccess toastLevel = iota
	toastWarning
	toastError
)

const toastTTL = 2500 * time.Millisecond

type appToast struct {
	level toastLevel
	text  string
}

// --- App Model ---

// App is the root TUI model: banner, tag view, alerts and status bar.
type App struct {
	client *api.Client
	config *config.Config
	width  int
	height int

	alerts *alertQueue
	tags   TagsModel

	startupChecking bool
	startup         startupSummary
	toast           *appToast
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config) App {
	alerts := &alertQueue{}
	var source tagSource
	if client != nil {
		source = client
	}
	return App{
		client:          client,
		config:          cfg,
		alerts:          alerts,
		tags:            NewTagsModel(source, cfg, alerts),
		startupChecking: client != nil,
		startup: startupSummary{
			API:  "checking",
			Auth: "checking",
		},
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.tags.Init()}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.tags.setSize(msg.Width, msg.Height)
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case startupCheckedMsg:
		a.startupChecking = false
		a.startup = summarizeStartup(msg)
		level, text := startupToastCopy(a.startup, msg.userID)
		return a, a.setToast(level, text)
	case tea.KeyMsg:
		if isKey(msg, "ctrl+c") {
			return a, tea.Quit
		}
		if a.alerts.len() > 0 {
			if isEnter(msg) || isBack(msg) {
				a.alerts.dismiss()
			}
			return a, nil
		}
		if !a.tags.SearchFocused() && isQuit(msg) {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.tags, cmd = a.tags.Update(msg)
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(a.width), a.width)
	header := centerBlockUniform(a.renderContext(), a.width)
	startupPanel := ""
	if a.startupChecking {
		startupPanel = "\n\n" + centerBlockUniform(a.renderStartupPanel(), a.width)
	}

	content := a.tags.View()
	if msg, ok := a.alerts.current(); ok {
		content = components.AlertDialog("Error", msg, a.alerts.len()-1, a.width)
	}
	content = centerBlockUniform(content, a.width)

	status := ""
	if n := a.tags.Pending(); n > 0 {
		status = fmt.Sprintf("%d pending", n)
	}
	hints := components.StatusBar(status, a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n\n%s%s", banner, header, startupPanel, content, hints, feedback)
}

func (a App) renderContext() string {
	if a.config == nil {
		return ""
	}
	host := fmt.Sprintf("%s(%s)", a.config.HostEntity, a.config.HostID)
	return MutedStyle.Render(components.SanitizeOneLine(host+" → "+a.config.RelationshipName+" → "+a.config.RelatedEntity))
}

func (a App) statusHints() []string {
	if a.alerts.len() > 0 {
		return []string{components.Hint("enter", "Dismiss"), components.Hint("ctrl+c", "Quit")}
	}
	if a.tags.SearchFocused() {
		return []string{components.Hint("enter", "Done"), components.Hint("esc", "Clear")}
	}
	hints := []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("enter", "Toggle"),
		components.Hint("r", "Refresh"),
	}
	if a.tags.searchEnabled() {
		hints = append(hints, components.Hint("/", "Search"))
	}
	return append(hints, components.Hint("q", "Quit"))
}

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client
	token := ""
	if a.config != nil {
		token = a.config.AccessToken
	}
	return func() tea.Msg {
		msg := startupCheckedMsg{tokenExpired: api.TokenExpired(token, time.Now())}
		ctx, cancel := context.WithTimeout(context.Background(), startupCheckTimeout)
		defer cancel()
		who, err := client.WhoAmI(ctx)
		if err != nil {
			msg.apiErr = err
			return msg
		}
		msg.userID = who.UserID.String()
		return msg
	}
}

func (a *App) setToast(level toastLevel, text string) tea.Cmd {
	a.toast = &appToast{level: level, text: components.SanitizeOneLine(text)}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func (a App) renderToast() string {
	switch {
	case a.toast == nil:
		return ""
	case a.toast.level == toastError:
		return components.ErrorBox("Error", a.toast.text, a.width)
	case a.toast.level == toastWarning:
		return components.TitledBox("Warning", WarningStyle.Render(a.toast.text), a.width)
	default:
		return components.TitledBox("Connected", a.toast.text, a.width)
	}
}

func (a App) renderStartupPanel() string {
	rows := []components.TableRow{
		{Label: "API", Value: a.startup.API, ValueColor: startupStatusColor(a.startup.API)},
		{Label: "Token", Value: a.startup.Auth, ValueColor: startupStatusColor(a.startup.Auth)},
	}
	return components.Table("Startup Checks", rows, a.width)
}

func summarizeStartup(msg startupCheckedMsg) startupSummary {
	s := startupSummary{API: "ok", Auth: "ok", Done: true}
	if msg.tokenExpired {
		s.Auth = "expired"
	}
	if msg.apiErr == nil {
		return s
	}

	var failure *api.HTTPFailure
	switch {
	case errors.Is(msg.apiErr, context.DeadlineExceeded):
		s.API = "timeout"
	case errors.As(msg.apiErr, &failure) && failure.Transport():
		s.API = "down"
	case errors.As(msg.apiErr, &failure) && (failure.Status == http.StatusUnauthorized || failure.Status == http.StatusForbidden):
		s.API = "ok"
		if s.Auth == "ok" {
			s.Auth = "invalid"
		}
	default:
		s.API = "failed"
	}
	return s
}

func startupToastCopy(summary startupSummary, userID string) (toastLevel, string) {
	switch {
	case summary.API != "ok":
		return toastError, fmt.Sprintf("Startup checks failed: API is %s.", summary.API)
	case summary.Auth != "ok":
		return toastWarning, fmt.Sprintf("Startup checks: token is %s. Run 'nntags login'.", summary.Auth)
	default:
		return toastSuccess, fmt.Sprintf("Connected as user %s.", userID)
	}
}

func startupStatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ok":
		return string(ColorSuccess)
	case "checking":
		return string(ColorMuted)
	case "expired", "timeout":
		return string(ColorWarning)
	case "invalid", "down", "failed":
		return string(ColorError)
	default:
		return string(ColorMuted)
	}
}

// centerBlockUniform shifts every non-empty line of s right by the same amount
// so the widest line is centered in width.
func centerBlockUniform(s string, width int) string {
	lines := strings.Split(s, "\n")
	block := 0
	for _, line := range lines {
		block = max(block, lipgloss.Width(line))
	}
	pad := (width - block) / 2
	if width <= 0 || block == 0 || pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
