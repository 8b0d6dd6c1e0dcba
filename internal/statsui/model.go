// Package statsui provides the Bubble Tea viewer for computed statistics.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/model"
	"github.com/verte-zerg/symkrypt/internal/stats"
)

const (
	tabSummary = iota
	tabSymbols
	tabOverlapping
	tabNonOverlapping
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea statistics viewer.
type Model struct {
	runs     []model.TextStatistics
	alphabet *alphabet.Alphabet
	source   string

	tabs       []string
	activeTab  int
	activeRun  int
	byCount    bool
	summary    viewport.Model
	listing    table.Model
	tableDirty bool

	width  int
	height int
}

// NewModel constructs a viewer over one TextStatistics per mode.
func NewModel(runs []model.TextStatistics, a *alphabet.Alphabet, source string) *Model {
	m := &Model{
		runs:       runs,
		alphabet:   a,
		source:     source,
		tabs:       []string{"Summary", "Symbols", "Overlapping", "Non-overlapping"},
		summary:    viewport.New(0, 0),
		tableDirty: true,
	}
	m.listing = table.New(table.WithHeight(1))
	m.listing.SetStyles(listingStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tableDirty = true
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "m", "tab":
			if len(m.runs) > 1 {
				m.activeRun = (m.activeRun + 1) % len(m.runs)
				m.tableDirty = true
				m.refresh()
			}
			return m, nil
		case "s":
			m.byCount = !m.byCount
			m.tableDirty = true
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabSummary {
				m.summary, cmd = m.summary.Update(msg)
			} else {
				m.listing, cmd = m.listing.Update(msg)
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := headerStyle.Render(truncateLine("Nav: left/right  Mode: m  Sort: s  Scroll: up/down/pgup/pgdn  Quit: q", m.width))
	bodyHeight := m.bodyHeight(header)
	var body string
	if len(m.runs) == 0 {
		body = "No statistics."
	} else if m.activeTab == tabSummary {
		body = m.summary.View()
	} else {
		body = tableMutedStyle.Render(m.listing.View())
	}
	return strings.Join([]string{header, fitLines(body, m.width, bodyHeight), footer}, "\n")
}

func (m *Model) bodyHeight(header string) int {
	h := m.height - lipgloss.Height(header) - 1
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	m.tableDirty = true
	m.refresh()
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	mode := "none"
	if len(m.runs) > 0 {
		mode = m.runs[m.activeRun].Mode.Suffix()
	}
	order := "key"
	if m.byCount {
		order = "count"
	}
	info := fmt.Sprintf("Input: %s  Mode: %s  Order: %s", m.source, mode, order)
	return tabs + "\n" + headerStyle.Render(truncateLine(info, m.width))
}

func (m *Model) refresh() {
	if len(m.runs) == 0 || m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.bodyHeight(m.renderHeader())
	s := m.runs[m.activeRun]
	m.summary.Width = m.width
	m.summary.Height = bodyHeight
	m.summary.SetContent(renderSummary(s, m.alphabet, m.width))

	if !m.tableDirty {
		return
	}
	m.tableDirty = false
	var cols []table.Column
	var rows []table.Row
	switch m.activeTab {
	case tabSymbols:
		cols, rows = listingData("Symbol", symbolItems(s, m.byCount), s.TotalSymbols, m.alphabet)
	case tabOverlapping:
		cols, rows = listingData("Bigram", bigramItems(s.OverlappingBigramCounts, m.byCount), s.OverlappingBigramTotal, m.alphabet)
	case tabNonOverlapping:
		cols, rows = listingData("Bigram", bigramItems(s.NonOverlappingBigramCounts, m.byCount), s.NonOverlappingBigramTotal, m.alphabet)
	default:
		return
	}
	m.listing.SetRows(nil)
	m.listing.SetColumns(cols)
	m.listing.SetRows(rows)
	m.listing.SetWidth(m.width)
	m.listing.SetHeight(maxInt(1, bodyHeight-1))
	m.listing.GotoTop()
	m.listing.Focus()
}

func renderSummary(s model.TextStatistics, a *alphabet.Alphabet, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total symbols: %d\n", s.TotalSymbols)
	fmt.Fprintf(&b, "Distinct symbols: %d\n", s.DistinctSymbols())
	fmt.Fprintf(&b, "Symbol entropy: %.6f\n", s.SymbolEntropy)
	fmt.Fprintf(&b, "Overlapping bigrams: %d (entropy %.6f)\n", s.OverlappingBigramTotal, s.OverlappingBigramEntropy)
	fmt.Fprintf(&b, "Non-overlapping bigrams: %d (entropy %.6f)\n\n", s.NonOverlappingBigramTotal, s.NonOverlappingBigramEntropy)
	var buf bytes.Buffer
	if err := stats.RenderHistogram(&buf, "Symbol frequencies", stats.TopSymbols(s, 0), a, width); err != nil {
		fmt.Fprintf(&b, "Failed to render histogram: %v\n", err)
	}
	b.Write(buf.Bytes())
	return strings.TrimRight(b.String(), "\n")
}

func symbolItems(s model.TextStatistics, byCount bool) []model.SymbolCount {
	if byCount {
		return stats.TopSymbols(s, 0)
	}
	keys := s.SortedSymbols()
	items := make([]model.SymbolCount, 0, len(keys))
	for _, k := range keys {
		items = append(items, model.SymbolCount{Symbol: string([]byte{k}), Count: s.SymbolCounts[k]})
	}
	return items
}

func bigramItems(counts map[string]int, byCount bool) []model.SymbolCount {
	if byCount {
		return stats.TopBigrams(counts, 0)
	}
	keys := model.SortedBigrams(counts)
	items := make([]model.SymbolCount, 0, len(keys))
	for _, k := range keys {
		items = append(items, model.SymbolCount{Symbol: k, Count: counts[k]})
	}
	return items
}

func listingData(keyTitle string, items []model.SymbolCount, total int, a *alphabet.Alphabet) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: keyTitle, Width: 8},
		{Title: "Count", Width: 10},
		{Title: "Frequency", Width: 10},
	}
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, table.Row{
			a.Label(item.Symbol),
			strconv.Itoa(item.Count),
			fmt.Sprintf("%.6f", stats.Frequency(item.Count, total)),
		})
	}
	return columns, rows
}

func listingStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
