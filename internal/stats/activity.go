package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/timeline"
)

const (
	minStripWidth       = 10
	maxLabelWidth       = 18
	stripSeparator      = " │ "
	terminalWidthBackup = 80
	activeCell          = '█'
	partialCell         = '▌'
	idleCell            = '·'
)

// Lane is one speaker's activity across the document timeline. Each cell
// holds the fraction of its time slice covered by the speaker.
type Lane struct {
	Speaker *model.Speaker
	Cells   []float64
}

// ActivityLanes buckets the document into width slices and reports how much
// of each slice every speaker covers.
func ActivityLanes(speakers []*model.Speaker, segments []model.Segment, width int) []Lane {
	if width < 1 {
		width = 1
	}
	total := documentEnd(segments)
	lanes := make([]Lane, 0, len(speakers))
	for _, sp := range speakers {
		lane := Lane{Speaker: sp, Cells: make([]float64, width)}
		if total > 0 {
			slice := total / float64(width)
			for _, seg := range segments {
				if seg.SpeakerID() != sp.ID {
					continue
				}
				cover(lane.Cells, seg.Start, seg.End, slice)
			}
		}
		lanes = append(lanes, lane)
	}
	return lanes
}

func cover(cells []float64, start, end, slice float64) {
	if end <= start || slice <= 0 {
		return
	}
	first := int(math.Floor(start / slice))
	last := int(math.Ceil(end/slice)) - 1
	for i := first; i <= last && i < len(cells); i++ {
		if i < 0 {
			continue
		}
		lo := math.Max(start, float64(i)*slice)
		hi := math.Min(end, float64(i+1)*slice)
		if hi > lo {
			cells[i] = math.Min(1, cells[i]+(hi-lo)/slice)
		}
	}
}

func documentEnd(segments []model.Segment) float64 {
	var end float64
	for _, seg := range segments {
		if seg.End > end {
			end = seg.End
		}
	}
	return end
}

// StripWidthFor computes a strip width that fits the label column and
// separator within totalWidth.
func StripWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minStripWidth
	}
	w := totalWidth - maxLabelWidth - runewidth.StringWidth(stripSeparator)
	if w < minStripWidth {
		w = minStripWidth
	}
	return w
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderActivity prints one lane per speaker showing when they speak. A
// non-positive width is derived from the terminal.
func RenderActivity(w io.Writer, speakers []*model.Speaker, segments []model.Segment, width int) error {
	if len(speakers) == 0 || len(segments) == 0 {
		return nil
	}
	if width <= 0 {
		width = StripWidthFor(TerminalWidth())
	}
	if width < minStripWidth {
		width = minStripWidth
	}
	useColor := shouldUseColor(w)
	if _, err := fmt.Fprintf(w, "Activity (%s - %s)\n", timeline.FormatTime(0), timeline.FormatTime(documentEnd(segments))); err != nil {
		return err
	}
	for _, lane := range ActivityLanes(speakers, segments, width) {
		label := runewidth.FillRight(runewidth.Truncate(lane.Speaker.Name, maxLabelWidth, "…"), maxLabelWidth)
		strip := renderStrip(lane.Cells)
		if useColor && lane.Speaker.Color != "" {
			strip = lipgloss.NewStyle().Foreground(lipgloss.Color(lane.Speaker.Color)).Render(strip)
		}
		if _, err := fmt.Fprintln(w, label+stripSeparator+strip); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderStrip(cells []float64) string {
	var b strings.Builder
	for _, c := range cells {
		switch {
		case c >= 0.5:
			b.WriteRune(activeCell)
		case c > 0:
			b.WriteRune(partialCell)
		default:
			b.WriteRune(idleCell)
		}
	}
	return b.String()
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
