package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/timeline"
)

// SpeakerRow is a display-ready speaker statistics row.
type SpeakerRow struct {
	Speaker    string
	Time       string
	Segments   string
	Words      string
	Confidence string
	WPM        string
}

// SpeakerRows pairs stats with speaker names for display. Stats without a
// matching speaker use the raw id.
func SpeakerRows(speakers []*model.Speaker, stats []model.SpeakerStat) []SpeakerRow {
	names := make(map[string]string, len(speakers))
	for _, sp := range speakers {
		names[sp.ID] = sp.Name
	}
	rows := make([]SpeakerRow, 0, len(stats))
	for _, st := range stats {
		name := names[st.SpeakerID]
		if name == "" {
			name = st.SpeakerID
		}
		rows = append(rows, SpeakerRow{
			Speaker:    name,
			Time:       timeline.FormatTime(st.TotalTime),
			Segments:   fmt.Sprintf("%d", st.SegmentCount),
			Words:      fmt.Sprintf("%d", st.WordCount),
			Confidence: fmt.Sprintf("%.0f%%", st.AverageConfidence*100),
			WPM:        fmt.Sprintf("%.1f", st.WordsPerMinute),
		})
	}
	return rows
}

// RenderSpeakerTable prints per-speaker statistics. maxWidth truncates the
// speaker column when positive.
func RenderSpeakerTable(w io.Writer, speakers []*model.Speaker, stats []model.SpeakerStat, maxWidth int) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No speakers found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Speakers"); err != nil {
		return err
	}
	headers := []string{"Speaker", "Time", "Segments", "Words", "Confidence", "WPM"}
	tableRows := make([][]string, 0, len(stats))
	for _, r := range SpeakerRows(speakers, stats) {
		tableRows = append(tableRows, []string{r.Speaker, r.Time, r.Segments, r.Words, r.Confidence, r.WPM})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, tableRows, rightAlign, maxWidth) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSummary prints document totals derived from speaker stats.
func RenderSummary(w io.Writer, stats []model.SpeakerStat, segments []model.Segment) error {
	s := Summarize(stats)
	lines := []string{
		"Summary",
		fmt.Sprintf("Speaking time: %s", timeline.FormatTime(s.TotalTime)),
		fmt.Sprintf("Segments: %d", s.Segments),
		fmt.Sprintf("Words: %d", s.TotalWords),
		fmt.Sprintf("Avg confidence: %.1f%%", s.AverageConfidence*100),
		fmt.Sprintf("Avg WPM: %.1f", s.WordsPerMinute),
	}
	if spark := Sparkline(ConfidenceSeries(segments)); spark != "" {
		lines = append(lines, fmt.Sprintf("Confidence: [%s]", spark))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderMetrics prints document metrics from the backend statistics payload.
func RenderMetrics(w io.Writer, m model.DocumentMetrics) error {
	lines := []string{
		"Transcription",
		fmt.Sprintf("Total duration: %s", timeline.FormatTime(m.TotalDuration)),
		fmt.Sprintf("Speakers: %d", m.SpeakerCount),
		fmt.Sprintf("Words: %d", m.TotalWords),
		fmt.Sprintf("Segments: %d", m.TotalSegments),
		fmt.Sprintf("Avg WPM: %.1f", m.AverageWordsPerMinute),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(m.SpeakerMetrics) == 0 {
		_, err := fmt.Fprintln(w, "")
		return err
	}
	ids := make([]string, 0, len(m.SpeakerMetrics))
	for id := range m.SpeakerMetrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	headers := []string{"Speaker", "Time", "Words", "WPM", "Share"}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		sm := m.SpeakerMetrics[id]
		rows = append(rows, []string{
			id,
			timeline.FormatTime(sm.Duration),
			fmt.Sprintf("%d", sm.WordCount),
			fmt.Sprintf("%.1f", sm.WordsPerMinute),
			fmt.Sprintf("%.1f%%", sm.ParticipationPercentage),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}, 0) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
