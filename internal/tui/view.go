package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/cutline/internal/macro"
	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/stats"
	"github.com/verte-zerg/cutline/internal/timeline"
)

// View implements tea.Model.
func (m *Model) View() string {
	segs := m.ed.Document().Segments
	if len(segs) == 0 {
		return dimStyle.Render("No segments to edit. Press q to quit.")
	}
	width := m.contentWidth()
	lines, selStart, selEnd := m.renderSegments(segs, width)

	header := m.renderHeader(width)
	footer := m.renderFooter(width)
	if m.height == 0 {
		return strings.Join(append(append([]string{header}, lines...), footer), "\n")
	}

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.scrollTo(selStart, selEnd, bodyHeight, len(lines))
	end := m.offset + bodyHeight
	if end > len(lines) {
		end = len(lines)
	}
	body := lines[m.offset:end]
	for len(body) < bodyHeight {
		body = append(body, "")
	}
	return header + "\n" + strings.Join(body, "\n") + "\n" + footer
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	if m.width < minContentWidth {
		return minContentWidth
	}
	return m.width
}

// scrollTo keeps the selected block visible, preferring its first line.
func (m *Model) scrollTo(start, end, height, total int) {
	if end-start > height {
		end = start + height
	}
	if start < m.offset {
		m.offset = start
	}
	if end > m.offset+height {
		m.offset = end - height
	}
	if maxOffset := total - height; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// renderSegments renders every segment block and returns the line range of
// the selected one.
func (m *Model) renderSegments(segs []model.Segment, width int) ([]string, int, int) {
	selected := m.ed.Selected()
	var lines []string
	selStart, selEnd := 0, 0
	for _, seg := range segs {
		isSel := seg.ID == selected
		if isSel {
			selStart = len(lines)
		}
		block := m.renderSegment(seg, width-2, isSel)
		for _, l := range block {
			prefix := "  "
			if isSel {
				prefix = selectedMark + " "
			}
			lines = append(lines, prefix+l)
		}
		if isSel {
			selEnd = len(lines)
		}
		lines = append(lines, "")
	}
	return lines, selStart, selEnd
}

func (m *Model) renderSegment(seg model.Segment, width int, selected bool) []string {
	name := "Unassigned"
	color := ""
	if seg.Speaker != nil {
		name = seg.Speaker.Name
		color = seg.Speaker.Color
	}
	meta := fmt.Sprintf("%s-%s  %.0f%%", timeline.FormatTime(seg.Start), timeline.FormatTime(seg.End), seg.Confidence*100)
	if n := len(m.engine.Log().ForSegment(seg.ID)); n > 0 {
		meta += fmt.Sprintf("  regen×%d", n)
	}
	if res := timeline.ValidateSegment(seg); !res.Valid {
		meta += "  " + errorStyle.Render("invalid")
	}
	out := []string{speakerStyle(color).Render(name) + "  " + dimStyle.Render(meta)}

	if selected && m.editing {
		return append(out, strings.Split(m.input.View(), "\n")...)
	}
	style := dimStyle
	if selected {
		style = textStyle
	}
	for _, l := range wrapText(seg.Text, width) {
		out = append(out, style.Render(l))
	}
	return out
}

func (m *Model) renderHeader(width int) string {
	doc := m.ed.Document()
	title := m.project.Name
	if title == "" {
		title = "Untitled"
	}
	summary := stats.Summarize(stats.SpeakerStats(doc.Speakers, doc.Segments))
	info := fmt.Sprintf("%d segments · %d words · %.0f WPM", len(doc.Segments), summary.TotalWords, summary.WordsPerMinute)
	left := titleStyle.Render(title)
	right := dimStyle.Render(info)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderFooter(width int) string {
	status := m.ed.Autosave()
	saved := string(status)
	if status == model.AutosaveSaved && !m.lastSaved.IsZero() {
		saved = "saved " + humanize.Time(m.lastSaved)
	}
	if m.store == nil {
		saved = "not persisted"
	}
	parts := []string{autosaveStyle(status == model.AutosavePending).Render(saved)}

	if u, r := m.ed.History().Depth(m.ed.Selected()); u > 0 || r > 0 {
		parts = append(parts, footerStyle.Render(fmt.Sprintf("undo %d · redo %d", u, r)))
	}

	macros := make([]string, 0, len(macro.IDs))
	for i, id := range macro.IDs {
		style := macroOffStyle
		if m.engine.Enabled(id) {
			style = macroOnStyle
		}
		macros = append(macros, style.Render(fmt.Sprintf("%d:%s", i+1, id)))
	}
	parts = append(parts, strings.Join(macros, " "))
	top := strings.Join(parts, footerStyle.Render("  "))

	help := "j/k move · enter edit · u undo · ^r redo · s speaker · f/t/m macros · r regen · x export · q quit"
	if m.editing {
		help = "ctrl+s save edit · esc cancel"
	}
	bottom := footerStyle.Render(truncate(help, width))
	if m.status != "" {
		st := statusStyle
		if m.statusErr {
			st = errorStyle
		}
		bottom = st.Render(truncate(m.status, width))
	}
	return top + "\n" + bottom
}
