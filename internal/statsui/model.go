// Package statsui provides the Bubble Tea speaker statistics interface.
package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/stats"
)

const (
	tabOverview = iota
	tabSpeakers
	tabMetrics
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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI for one project.
type Model struct {
	project model.Project
	regens  []model.RegenEntry
	stats   []model.SpeakerStat

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model
	byTime    bool

	width  int
	height int
}

// NewModel constructs a stats UI for a project and its regeneration log.
func NewModel(p model.Project, regens []model.RegenEntry) *Model {
	m := &Model{
		project: p,
		regens:  regens,
		stats:   stats.SpeakerStats(p.Speakers, p.Segments),
		tabs:    []string{"Overview", "Speakers", "Metrics"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.table = table.New(
		table.WithColumns(speakerColumns(0)),
		table.WithRows(m.speakerRows()),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
	m.renderTabContents()
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "s":
			if m.activeTab == tabSpeakers {
				m.byTime = !m.byTime
				m.table.SetRows(m.speakerRows())
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSpeakers {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSpeakers {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSpeakers {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
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
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetColumns(speakerColumns(m.width))
	m.table.SetWidth(m.width)
	// The header row and its border take two lines.
	m.table.SetHeight(maxInt(1, bodyHeight-2))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabSpeakers {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	name := m.project.Name
	if name == "" {
		name = "untitled"
	}
	line := fmt.Sprintf("Project: %s  segments=%d  speakers=%d", name, len(m.project.Segments), len(m.project.Speakers))
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabSpeakers {
		order := "document"
		if m.byTime {
			order = "time"
		}
		help = fmt.Sprintf("Nav: left/right  Scroll: up/down  Sort (%s): s  Quit: q", order)
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabSpeakers {
		if len(m.stats) == 0 {
			return "No speakers found."
		}
		return tableMutedStyle.Render(m.table.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabMetrics].SetContent(m.renderMetrics())
}

func (m *Model) renderOverview(width int) string {
	if len(m.project.Segments) == 0 {
		return "No segments found."
	}
	cards := m.renderSummaryCards(width)
	var buf bytes.Buffer
	if err := stats.RenderActivity(&buf, m.project.Speakers, m.project.Segments, stats.StripWidthFor(width)); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render activity: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func (m *Model) renderSummaryCards(width int) string {
	s := stats.Summarize(m.stats)
	cards := []string{
		metricCard("Segments", fmt.Sprintf("%d", s.Segments)),
		metricCard("Words", fmt.Sprintf("%d", s.TotalWords)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.WordsPerMinute)),
		metricCard("Avg Conf", fmt.Sprintf("%.1f%%", s.AverageConfidence*100)),
		metricCard("Regens", fmt.Sprintf("%d", len(m.regens))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderMetrics() string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.stats, m.project.Segments); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	if m.project.Statistics == nil {
		buf.WriteString("No transcription statistics recorded.\n")
	} else {
		metrics := stats.DocumentMetrics(m.project.Statistics, len(m.project.Segments))
		if err := stats.RenderMetrics(&buf, metrics); err != nil {
			return fmt.Sprintf("Failed to render metrics: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func speakerColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Speaker", Width: 18},
		{Title: "Time", Width: 8},
		{Title: "Segments", Width: 8},
		{Title: "Words", Width: 7},
		{Title: "Conf", Width: 6},
		{Title: "WPM", Width: 7},
	}
	fixed := 0
	for _, c := range cols[1:] {
		fixed += c.Width + 1
	}
	if width-fixed-1 > cols[0].Width {
		cols[0].Width = minInt(40, width-fixed-1)
	}
	return cols
}

func (m *Model) speakerRows() []table.Row {
	ordered := make([]model.SpeakerStat, len(m.stats))
	copy(ordered, m.stats)
	if m.byTime {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].TotalTime > ordered[j].TotalTime
		})
	}
	rows := make([]table.Row, 0, len(ordered))
	for _, r := range stats.SpeakerRows(m.project.Speakers, ordered) {
		rows = append(rows, table.Row{r.Speaker, r.Time, r.Segments, r.Words, r.Confidence, r.WPM})
	}
	return rows
}

func tableStyles() table.Styles {
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

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
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
	return runewidth.Truncate(s, width, "...")
}
