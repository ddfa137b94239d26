package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cutline/internal/model"
)

func testProject() model.Project {
	host := &model.Speaker{ID: "host", Name: "Alex Chen", Color: "#3B82F6"}
	guest := &model.Speaker{ID: "guest", Name: "Dr. Sarah Williams", Color: "#10B981"}
	return model.Project{
		Name:     "Episode 1",
		Speakers: []*model.Speaker{host, guest},
		Segments: []model.Segment{
			{ID: "0", Start: 0, End: 4, Text: "welcome to the show", Speaker: host, Confidence: 1},
			{ID: "1", Start: 4, End: 20, Text: "thanks for having me here today", Speaker: guest, Confidence: 0.9},
		},
		Statistics: &model.TranscriptionStatistics{
			SpeakerSpeakingTimes: map[string]float64{"host": 4, "guest": 16},
			SpeakerWordCounts:    map[string]int{"host": 4, "guest": 6},
			SpeakersList:         []string{"host", "guest"},
			TotalWords:           10,
		},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewFitsWindow(t *testing.T) {
	m := NewModel(testProject(), []model.RegenEntry{{SegmentID: "0"}})
	if m.View() != "" {
		t.Fatalf("expected empty view before sizing")
	}
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
	view := m.View()
	if !strings.Contains(view, "Regens") || !strings.Contains(view, "Activity") {
		t.Fatalf("overview missing cards or activity:\n%s", view)
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := NewModel(testProject(), nil)
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m.Update(key("h"))
	if m.activeTab != tabMetrics {
		t.Fatalf("expected wrap to metrics, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Transcription") {
		t.Fatalf("expected metrics content")
	}
	m.Update(key("l"))
	m.Update(key("l"))
	if m.activeTab != tabSpeakers {
		t.Fatalf("expected speakers tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Dr. Sarah Williams") {
		t.Fatalf("expected speaker row in table")
	}
}

func TestSortByTime(t *testing.T) {
	m := NewModel(testProject(), nil)
	rows := m.speakerRows()
	if rows[0][0] != "Alex Chen" {
		t.Fatalf("expected document order first, got %q", rows[0][0])
	}
	m.activeTab = tabSpeakers
	m.Update(key("s"))
	rows = m.speakerRows()
	if rows[0][0] != "Dr. Sarah Williams" {
		t.Fatalf("expected longest speaker first, got %q", rows[0][0])
	}
}

func TestMetricsWithoutStatistics(t *testing.T) {
	p := testProject()
	p.Statistics = nil
	m := NewModel(p, nil)
	if got := m.renderMetrics(); !strings.Contains(got, "No transcription statistics") {
		t.Fatalf("unexpected metrics %q", got)
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(model.Project{}, nil)
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
	if got := m.renderOverview(80); got != "No segments found." {
		t.Fatalf("unexpected empty overview %q", got)
	}
}
