// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     inspector
// Description: Bubbletea model browsing tokens, diagnostics and symbols
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package inspector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/minipas/foundation/minipas"
)

// Tab identifies one inspector page
type Tab int

const (
	TabTokens Tab = iota
	TabDiagnostics
	TabSymbols
)

var tabNames = []string{"Tokens", "Diagnostics", "Symbols"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// Model is the Bubbletea model of the inspector
type Model struct {
	width  int
	height int
	ready  bool

	viewport viewport.Model
	active   Tab

	result *minipas.Result
}

// New creates an inspector over res. The first tab with content is selected.
func New(res *minipas.Result) Model {
	m := Model{result: res, active: TabTokens}
	if len(res.Diagnostics) > 0 {
		m.active = TabDiagnostics
	}
	return m
}

// Active returns the selected tab
func (m Model) Active() Tab {
	return m.active
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.selectTab((m.active + 1) % Tab(len(tabNames)))
			return m, nil
		case "shift+tab", "left", "h":
			m.selectTab((m.active + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
			return m, nil
		case "1", "2", "3":
			m.selectTab(Tab(msg.String()[0] - '1'))
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title + tabs
		footerHeight := 4 // Panel border + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) selectTab(t Tab) {
	m.active = t
	if m.ready {
		m.updateViewportContent()
		m.viewport.GotoTop()
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading inspector..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(PanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	name := m.result.Name
	if name == "" {
		name = "<stdin>"
	}

	var status string
	if m.result.OK() {
		status = StatusOKStyle.Render("OK")
	} else {
		status = StatusFailedStyle.Render(fmt.Sprintf("%d error(s)", len(m.result.Diagnostics)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		"   ",
		SubHeaderStyle.Render(name),
		"   ",
		status,
	)
}

func (m Model) renderTabs() string {
	counts := []int{len(m.result.Tokens), len(m.result.Diagnostics), len(m.result.Symbols)}

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d:%s (%d)", i+1, name, counts[i])
		if Tab(i) == m.active {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = TabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("tab/1-3", "Switch"),
		RenderKeyHint("up/down", "Scroll"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent fills the viewport with the active tab
func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.content())
}

func (m Model) content() string {
	var b strings.Builder

	switch m.active {
	case TabTokens:
		if len(m.result.Tokens) == 0 {
			return EmptyStyle.Render("no tokens")
		}
		for _, tok := range m.result.Tokens {
			fmt.Fprintf(&b, "%s %s %s\n",
				LineNumberStyle.Render(fmt.Sprintf("%4d", tok.Line)),
				RenderKind(tok.Kind),
				tok.Text)
		}

	case TabDiagnostics:
		if len(m.result.Diagnostics) == 0 {
			return EmptyStyle.Render("no diagnostics")
		}
		if m.result.SemanticSkipped {
			b.WriteString(EmptyStyle.Render("semantic analysis skipped"))
			b.WriteString("\n")
		}
		for _, d := range m.result.Diagnostics {
			fmt.Fprintf(&b, "%s %s %s\n",
				LineNumberStyle.Render(fmt.Sprintf("%4d", d.Line)),
				RenderCategory(d.Category),
				d.Message)
		}

	case TabSymbols:
		view := m.result.SymbolTable()
		if view.Len() == 0 {
			return EmptyStyle.Render("no declarations")
		}
		width := 0
		for _, name := range view.Names() {
			if len(name) > width {
				width = len(name)
			}
		}
		for _, name := range view.Names() {
			typeName, _ := view.Lookup(name)
			fmt.Fprintf(&b, "%s  %s\n",
				SymbolNameStyle.Render(fmt.Sprintf("%-*s", width, name)),
				SymbolTypeStyle.Render(typeName))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Run starts the inspector TUI
func Run(res *minipas.Result) error {
	p := tea.NewProgram(New(res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
