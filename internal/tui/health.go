// Package tui is a terminal rendition of the health dashboard built on
// bubbletea.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// Pane selects which table is shown.
type Pane int

// Panes, in tab order.
const (
	PaneFull Pane = iota
	PaneSearch
	PaneAge
	paneCount
)

const maxColumnWidth = 24

const helpText = "/ search • tab switch table • [ ] lower bound • { } upper bound • 0 reset • r reload • q quit"

// loadedMsg carries a freshly loaded dataset.
type loadedMsg struct {
	ds  *dataset.Dataset
	msg string
}

// HealthModel is the bubbletea model of the health dashboard.
type HealthModel struct {
	ctx    context.Context
	src    dashboard.Source
	path   string
	opts   dashboard.HealthOptions
	logger *slog.Logger

	loaded    bool
	ds        *dataset.Dataset
	loadErr   string
	view      *dashboard.HealthView
	renderErr error
	// age is the user's window; nil selects the default window.
	age *dataset.Window

	pane          Pane
	table         table.Model
	search        textinput.Model
	searchFocused bool
	width         int

	styles Styles
}

// NewHealthModel creates the model. The dataset at path is loaded through
// src when the program starts.
func NewHealthModel(ctx context.Context, src dashboard.Source, path string, opts dashboard.HealthOptions, logger *slog.Logger) HealthModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)

	si := textinput.New()
	si.Placeholder = "Search for a condition or patient"
	si.CharLimit = 100
	si.Width = 40
	si.Prompt = ""

	return HealthModel{
		ctx:    ctx,
		src:    src,
		path:   path,
		opts:   opts,
		logger: logger,
		table:  t,
		search: si,
		styles: DefaultStyles(),
	}
}

// Init starts loading the dataset.
func (m HealthModel) Init() tea.Cmd {
	return m.load()
}

func (m HealthModel) load() tea.Cmd {
	ctx, src, path, logger := m.ctx, m.src, m.path, m.logger
	return func() tea.Msg {
		ds, msg := dashboard.Load(ctx, src, path, dashboard.MsgProcessedMissing, logger)
		return loadedMsg{ds: ds, msg: msg}
	}
}

// Update handles messages.
func (m HealthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loadedMsg:
		m.loaded = true
		m.ds = msg.ds
		m.loadErr = msg.msg
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		if m.searchFocused {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				m.searchFocused = false
				m.search.Blur()
				return m, nil
			case tea.KeyCtrlC:
				return m, tea.Quit
			}
			m.search, cmd = m.search.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searchFocused = true
			cmd = m.search.Focus()
			return m, cmd
		case "tab":
			m.pane = (m.pane + 1) % paneCount
			m.showPane()
			return m, nil
		case "shift+tab":
			m.pane = (m.pane + paneCount - 1) % paneCount
			m.showPane()
			return m, nil
		case "[":
			m.shift(-1, 0)
			return m, nil
		case "]":
			m.shift(1, 0)
			return m, nil
		case "{":
			m.shift(0, -1)
			return m, nil
		case "}":
			m.shift(0, 1)
			return m, nil
		case "0":
			m.age = nil
			m.refresh()
			return m, nil
		case "r":
			return m, m.load()
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// shift moves the age window ends. A move that would invert the window is
// ignored; the result is clamped to the data bounds on render.
func (m *HealthModel) shift(dlo, dhi float64) {
	if m.view == nil || m.view.Full == nil {
		return
	}
	w := m.view.AgeWindow
	w.Lo += dlo
	w.Hi += dhi
	if w.Lo > w.Hi {
		return
	}
	m.age = &w
	m.refresh()
}

// refresh re-renders the dashboard for the current selections.
func (m *HealthModel) refresh() {
	if m.ds == nil {
		return
	}
	m.view, m.renderErr = dashboard.Health(m.ds, dashboard.HealthParams{
		Search: m.search.Value(),
		Age:    m.age,
	}, m.opts)
	if m.renderErr != nil {
		m.logger.Error("failed to render health dashboard", "error", m.renderErr)
	}
	m.showPane()
}

// current returns the dataset of the selected pane, nil when it has none.
func (m *HealthModel) current() *dataset.Dataset {
	if m.view == nil {
		return nil
	}
	switch m.pane {
	case PaneSearch:
		return m.view.SearchResults
	case PaneAge:
		return m.view.AgeResults
	default:
		return m.view.Full
	}
}

func (m *HealthModel) showPane() {
	ds := m.current()
	if ds == nil {
		ds = dataset.Empty()
	}
	records := ds.Records()

	cols := make([]table.Column, len(records[0]))
	for i, name := range records[0] {
		w := utf8.RuneCountInString(name)
		for _, rec := range records[1:] {
			w = max(w, utf8.RuneCountInString(rec[i]))
		}
		cols[i] = table.Column{Title: name, Width: min(w, maxColumnWidth)}
	}
	rows := make([]table.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, table.Row(rec))
	}

	// Clear rows first so they never outnumber the new columns.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Pane returns the selected pane.
func (m HealthModel) Pane() Pane { return m.pane }

// Rendered returns the current dashboard view, nil before loading.
func (m HealthModel) Rendered() *dashboard.HealthView { return m.view }

// Rows returns the rows shown in the table.
func (m HealthModel) Rows() []table.Row { return m.table.Rows() }

// View renders the model.
func (m HealthModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(dashboard.HealthTitle))
	b.WriteString("\n")

	if !m.loaded {
		b.WriteString("Loading " + m.path + "...\n")
		return b.String()
	}
	if m.loadErr != "" {
		b.WriteString(m.styles.Error.Render(m.loadErr) + "\n")
	}
	if m.renderErr != nil {
		b.WriteString(m.styles.Error.Render(m.renderErr.Error()) + "\n")
		b.WriteString(m.styles.Help.Render("r reload • q quit"))
		return b.String()
	}
	if m.view == nil || m.view.Warning != "" {
		if m.view != nil {
			b.WriteString(m.styles.Warning.Render(m.view.Warning) + "\n")
		}
		b.WriteString(m.styles.Help.Render("r reload • q quit"))
		return b.String()
	}

	b.WriteString(m.tabs() + "\n\n")
	b.WriteString(m.styles.Label.Render("Search: ") + m.search.View() + "\n")
	b.WriteString(m.styles.Label.Render("Age: ") + fmt.Sprintf("%s - %s (range %s - %s)",
		num(m.view.AgeWindow.Lo), num(m.view.AgeWindow.Hi),
		num(m.view.AgeBounds.Lo), num(m.view.AgeBounds.Hi)) + "\n\n")

	b.WriteString(m.caption() + "\n")
	if m.pane == PaneSearch && !m.view.HasSearch() {
		b.WriteString(m.styles.Warning.Render("Press / to search.") + "\n")
	} else {
		b.WriteString(m.styles.Border.Render(m.table.View()) + "\n")
	}
	b.WriteString(m.styles.Help.Render(helpText))
	return b.String()
}

func (m HealthModel) tabs() string {
	names := []string{"Full Dataset", "Search Results", "Filtered by Age"}
	parts := make([]string, len(names))
	for i, name := range names {
		style := m.styles.Tab
		if Pane(i) == m.pane {
			style = m.styles.ActiveTab
		}
		parts[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m HealthModel) caption() string {
	switch m.pane {
	case PaneSearch:
		if !m.view.HasSearch() {
			return "Search Results"
		}
		return fmt.Sprintf("Search Results for %q (%d rows)", m.view.Search, m.view.SearchResults.Len())
	case PaneAge:
		return fmt.Sprintf("Filtered Data by Age (%s - %s) (%d rows)",
			num(m.view.AgeWindow.Lo), num(m.view.AgeWindow.Hi), m.view.AgeResults.Len())
	default:
		return fmt.Sprintf("Full Dataset (%d rows)", m.view.Full.Len())
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Run runs the model full screen until the user quits or ctx is done.
func Run(ctx context.Context, m tea.Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
