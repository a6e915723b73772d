package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/nntags/internal/api"
	"github.com/gravitrone/nntags/internal/config"
	"github.com/gravitrone/nntags/internal/tags"
	"github.com/gravitrone/nntags/internal/ui/components"
)

// tagSource is what the tag view needs from the web API.
type tagSource interface {
	tags.Linker
	tags.SetNameResolver
	ListRecords(ctx context.Context, q api.RecordQuery) ([]tags.Row, error)
}

// --- Messages ---

type tagsContextMsg struct {
	rc  tags.RelationshipContext
	err error
}

type tagsRowsMsg struct {
	seq  int
	rows []tags.Row
	err  error
}

type tagsSweepMsg struct{ res tags.SweepResult }

type tagsToggleMsg struct{ out tags.Outcome }

// --- Tags Model ---

// TagsModel shows candidate records as tags and toggles their link to the
// host record.
type TagsModel struct {
	source   tagSource
	cfg      *config.Config
	notifier tags.Notifier
	ctrl     *tags.Controller

	columns []tags.Column
	visible []tags.Tag
	list    *components.List
	search  textinput.Model
	spinner spinner.Model

	loading bool
	syncing bool
	loadSeq int
	sweepID string
	err     string

	width  int
	height int
}

// NewTagsModel creates the tag view. Nothing is loaded until Init runs.
func NewTagsModel(source tagSource, cfg *config.Config, notifier tags.Notifier) TagsModel {
	if cfg == nil {
		cfg = &config.Config{}
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search tags"
	search.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return TagsModel{
		source:   source,
		cfg:      cfg,
		notifier: notifier,
		columns:  tags.OrderColumns(cfg.ViewColumns()),
		list:     components.NewList(10),
		search:   search,
		spinner:  sp,
		loading:  source != nil,
	}
}

// Init resolves the relationship context before the first load.
func (m TagsModel) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.resolveCmd())
}

// SearchFocused reports whether keystrokes go to the search box.
func (m TagsModel) SearchFocused() bool {
	return m.search.Focused()
}

func (m TagsModel) Update(msg tea.Msg) (TagsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tagsContextMsg:
		if msg.err != nil {
			m.loading = false
			m.fail(fmt.Sprintf("resolve relationship: %v", msg.err))
			return m, nil
		}
		m.ctrl = tags.NewController(msg.rc, m.source, m.notifier, m.cfg.Options())
		return m.reload()

	case tagsRowsMsg:
		if msg.seq != m.loadSeq || m.ctrl == nil {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail(fmt.Sprintf("load tags: %v", msg.err))
			return m, nil
		}
		m.err = ""
		sweep := m.ctrl.Refresh(msg.rows)
		m.sweepID = sweep.ID
		m.syncing = true
		m.search.SetValue("")
		m.search.Blur()
		m.list.Reset(0)
		m.refreshVisible()
		return m, sweepCmd(sweep)

	case tagsSweepMsg:
		if m.ctrl == nil {
			return m, nil
		}
		if msg.res.SweepID == m.sweepID {
			m.syncing = false
		}
		m.ctrl.ApplySweep(msg.res)
		m.refreshVisible()
		return m, nil

	case tagsToggleMsg:
		if m.ctrl == nil {
			return m, nil
		}
		m.ctrl.Apply(msg.out)
		m.refreshVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m TagsModel) handleKeys(msg tea.KeyMsg) (TagsModel, tea.Cmd) {
	if m.search.Focused() {
		switch {
		case isBack(msg):
			m.search.SetValue("")
			m.search.Blur()
		case isEnter(msg):
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.refreshVisible()
			return m, cmd
		}
		m.refreshVisible()
		return m, nil
	}

	switch {
	case isUp(msg):
		m.list.Up()
	case isDown(msg):
		m.list.Down()
	case isToggle(msg):
		cmd := m.click()
		return m, cmd
	case isRefresh(msg):
		if m.ctrl == nil {
			if m.source == nil || m.loading {
				return m, nil
			}
			m.loading = true
			m.err = ""
			return m, tea.Batch(m.spinner.Tick, m.resolveCmd())
		}
		return m.reload()
	case isSearch(msg):
		if m.searchEnabled() {
			cmd := m.search.Focus()
			return m, cmd
		}
	case isBack(msg):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refreshVisible()
		}
	}
	return m, nil
}

// click sends a toggle for the tag under the cursor. Locked tags and
// disabled controls produce no command.
func (m *TagsModel) click() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	sel := m.list.Selected()
	if sel < 0 || sel >= len(m.visible) {
		return nil
	}
	req, ok := m.ctrl.Click(m.visible[sel].ID)
	if !ok {
		return nil
	}
	m.refreshVisible()
	return toggleCmd(req)
}

func (m TagsModel) reload() (TagsModel, tea.Cmd) {
	m.loadSeq++
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.loadSeq))
}

func (m *TagsModel) fail(message string) {
	m.err = message
	if m.notifier != nil {
		m.notifier.Notify(message)
	}
}

func (m *TagsModel) refreshVisible() {
	if m.ctrl == nil {
		m.visible = nil
		m.list.Resize(0)
		return
	}
	m.visible = tags.Filter(m.ctrl.Board().Tags(), m.search.Value())
	m.list.Resize(len(m.visible))
}

func (m TagsModel) searchEnabled() bool {
	return m.ctrl != nil && m.ctrl.Options().EnableSearch
}

func (m *TagsModel) setSize(width, height int) {
	m.width = width
	m.height = height
	rows := height - 24
	if rows < 5 {
		rows = 5
	}
	m.list.SetPageSize(rows)
}

// --- Commands ---

func (m TagsModel) resolveCmd() tea.Cmd {
	source := m.source
	params := m.cfg.ContextParams()
	timeout, _ := m.cfg.Timeout()
	if timeout <= 0 {
		timeout = tags.DefaultRequestTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rc, err := tags.ResolveContext(ctx, source, params)
		return tagsContextMsg{rc: rc, err: err}
	}
}

func (m TagsModel) loadCmd(seq int) tea.Cmd {
	source := m.source
	rc := m.ctrl.Context()
	q := api.RecordQuery{
		EntitySet: rc.RelatedSet,
		IDField:   rc.RelatedEntity + "id",
		Columns:   m.columns,
		Top:       m.cfg.PageSize,
	}
	timeout := m.ctrl.Options().RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rows, err := source.ListRecords(ctx, q)
		return tagsRowsMsg{seq: seq, rows: rows, err: err}
	}
}

func sweepCmd(s *tags.Sweep) tea.Cmd {
	return func() tea.Msg {
		return tagsSweepMsg{res: s.Run(context.Background())}
	}
}

func toggleCmd(req *tags.Request) tea.Cmd {
	return func() tea.Msg {
		return tagsToggleMsg{out: req.Run(context.Background())}
	}
}

// --- View ---

func (m TagsModel) View() string {
	if m.ctrl == nil {
		if m.loading {
			return components.Box(m.spinner.View()+" Resolving relationship...", m.width)
		}
		if m.err != "" {
			return components.ErrorBox("Unavailable", m.err+"\n\nr: retry", m.width)
		}
		return components.Box(MutedStyle.Render("Not connected. Run 'nntags login'."), m.width)
	}

	var b strings.Builder
	if m.searchEnabled() {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && m.ctrl.Board().Len() == 0:
		b.WriteString(m.spinner.View() + " Loading tags...")
	case len(m.visible) == 0 && m.search.Value() != "":
		b.WriteString(MutedStyle.Render(fmt.Sprintf("No tags match %q.", components.SanitizeOneLine(m.search.Value()))))
	case len(m.visible) == 0:
		b.WriteString(MutedStyle.Render("No tags."))
	default:
		b.WriteString(m.renderGrid())
	}

	if m.syncing && !m.loading {
		b.WriteString("\n\n" + m.spinner.View() + MutedStyle.Render(" Syncing links..."))
	}
	if !m.ctrl.Interactive() {
		b.WriteString("\n\n" + WarningStyle.Render("Read-only: the control is disabled."))
	}

	return components.TitledBox(m.title(), b.String(), m.width)
}

func (m TagsModel) title() string {
	all := m.ctrl.Board().Tags()
	linked := 0
	for _, t := range all {
		if t.Associated {
			linked++
		}
	}
	return fmt.Sprintf("Tags · %d of %d linked", linked, len(all))
}

// Pending counts tags with a request in flight.
func (m TagsModel) Pending() int {
	if m.ctrl == nil {
		return 0
	}
	n := 0
	for _, t := range m.ctrl.Board().Tags() {
		if t.Locked {
			n++
		}
	}
	return n
}

func (m TagsModel) renderGrid() string {
	width := components.BoxContentWidth(m.width)
	if width <= 0 {
		width = 60
	}

	headers := []string{"Name"}
	if len(m.columns) > 0 {
		headers = headers[:0]
		for _, c := range m.columns {
			label := c.Label
			if label == "" {
				label = c.Name
			}
			headers = append(headers, label)
		}
	}

	cols := []components.TableColumn{{Header: "", Width: 3, Align: lipgloss.Center}}
	each := (width - 3 - len(headers)*2) / len(headers)
	if each < 6 {
		each = 6
	}
	for _, h := range headers {
		cols = append(cols, components.TableColumn{Header: h, Width: each})
	}

	start, end := m.list.Window()
	rows := make([][]string, 0, end-start)
	dimmed := map[int]bool{}
	for i := start; i < end; i++ {
		t := m.visible[i]
		cells := []string{stateMarker(t.State())}
		if len(m.columns) == 0 {
			cells = append(cells, t.Label())
		} else {
			cells = append(cells, t.Columns...)
		}
		if t.Locked {
			dimmed[i-start] = true
		}
		rows = append(rows, cells)
	}

	return components.TableGrid(cols, rows, width, components.GridOptions{
		ActiveRow: m.list.Cursor - start,
		MarkColor: lipgloss.Color(m.cfg.Associated()),
		Dimmed:    dimmed,
	})
}

func stateMarker(s tags.State) string {
	switch s {
	case tags.StateAssociated:
		return "[x]"
	case tags.StateAssociating:
		return "[+]"
	case tags.StateDisassociating:
		return "[-]"
	default:
		return "[ ]"
	}
}
