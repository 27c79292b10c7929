package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/etwgen/emit"
	"github.com/wippyai/etwgen/generator"
)

// number of rows shown around the cursor
const pageSize = 20

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type eventRow struct {
	provider string
	event    *emit.Event
	size     int
}

type browserModel struct {
	err      error
	opts     generator.Options
	rows     []eventRow
	visible  []int
	filter   textinput.Model
	selected int
	expanded bool
	loaded   bool
}

type builtMsg struct {
	err  error
	rows []eventRow
}

func newBrowserModel(opts generator.Options) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "symbol"
	ti.Prompt = "filter: "
	ti.Width = 40

	// The browser never writes artifacts.
	return &browserModel{
		opts: generator.Options{
			Manifest:   opts.Manifest,
			Exclusions: opts.Exclusions,
		},
		filter: ti,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.build
}

func (m *browserModel) build() tea.Msg {
	res, err := generator.Build(m.opts)
	if err != nil {
		return builtMsg{err: err}
	}
	var rows []eventRow
	for _, pe := range res.Providers {
		for _, ev := range pe.Events {
			row := eventRow{provider: pe.Provider.Name, event: ev}
			if ev.Template != nil {
				row.size = ev.Template.EstimatedSize()
			}
			rows = append(rows, row)
		}
	}
	return builtMsg{rows: rows}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter":
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter":
			if len(m.visible) > 0 {
				m.expanded = !m.expanded
			}

		case "/":
			m.expanded = false
			return m, m.filter.Focus()

		case "esc":
			if m.expanded {
				m.expanded = false
			} else {
				m.filter.SetValue("")
				m.applyFilter()
			}
		}

	case builtMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rows = msg.rows
		m.applyFilter()
	}

	return m, nil
}

func (m *browserModel) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, r := range m.rows {
		if needle == "" || strings.Contains(strings.ToLower(r.event.Symbol), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Resolving manifest..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ETW Events"))
	b.WriteString(" ")
	b.WriteString(m.opts.Manifest)
	fmt.Fprintf(&b, "  (%d of %d)\n\n", len(m.visible), len(m.rows))
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString("No events match.\n")
	}

	start := 0
	if m.selected >= pageSize {
		start = m.selected - pageSize + 1
	}
	end := min(start+pageSize, len(m.visible))
	for i := start; i < end; i++ {
		row := m.rows[m.visible[i]]
		line := m.formatRow(row)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.expanded && len(m.visible) > 0 {
		row := m.rows[m.visible[m.selected]]
		b.WriteString("\n")
		b.WriteString(codeStyle.Render(strings.TrimRight(emit.RenderEvent(emit.Wrapper, row.event), "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter show wrapper • / filter • esc clear • q quit"))
	return b.String()
}

func (m *browserModel) formatRow(r eventRow) string {
	params := make([]string, len(r.event.Args))
	for i, a := range r.event.Args {
		params[i] = typeStyle.Render(a.CType) + " " + a.Name
	}
	s := fmt.Sprintf("%s %s(%s)", r.provider, symbolStyle.Render(r.event.Symbol), strings.Join(params, ", "))
	if r.size > 0 {
		s += helpStyle.Render(fmt.Sprintf("  ~%dB", r.size))
	}
	return s
}

func runInteractive(opts generator.Options) error {
	m := newBrowserModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
