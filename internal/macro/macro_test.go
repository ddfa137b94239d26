package macro

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/cutline/internal/editor"
	"github.com/verte-zerg/cutline/internal/model"
)

func newTestEngine() (*editor.Editor, *Engine) {
	host := &model.Speaker{ID: "host", Name: "Alex Chen"}
	ed := editor.New([]model.Segment{
		{ID: "1", Start: 0, End: 5.2, Text: "Um, so we, uh, start here.", Speaker: host, Confidence: 0.98},
		{ID: "2", Start: 5.2, End: 9, Text: "I I think th- this works.", Speaker: host, Confidence: 0.9},
	}, []*model.Speaker{host}, editor.Options{})
	eng := NewEngine(ed, DefaultTTSSettings())
	eng.now = func() time.Time { return time.Unix(42, 0) }
	return ed, eng
}

func TestFillerRemover(t *testing.T) {
	cases := []struct {
		name string
		text string
		opts Options
		want string
	}{
		{"hard fillers", "Um, so we, uh, start here.", Options{}, "So we start here."},
		{"soft kept by default", "I think, like, it works.", Options{"aggressiveness": 5}, "I think, like, it works."},
		{"soft removed when aggressive", "I think, like, it works.", Options{"aggressiveness": 8}, "I think it works."},
		{"two word phrase", "It was, you know, great.", Options{"aggressiveness": 6, "preserveNatural": false}, "It was great."},
		{"moves terminator", "We are done um. Next topic", Options{}, "We are done. Next topic"},
		{"disabled", "um hello", Options{"aggressiveness": 0}, "um hello"},
	}
	r := NewFillerRemover(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Process(tc.text, tc.opts); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFillerRemoverExtraWords(t *testing.T) {
	r := NewFillerRemover([]string{"okay so"})
	if got := r.Process("okay so we begin", Options{}); got != "we begin" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestRemoveStutterText(t *testing.T) {
	got := RemoveStutterText("I I think th- this is b-but very, very good good.", Options{})
	want := "I think this is but very, very good."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = RemoveStutterText("very, very good", Options{"preserveEmphasis": false})
	if got != "very good" {
		t.Fatalf("expected emphasis collapsed, got %q", got)
	}
	got = RemoveStutterText("th- this", Options{"sensitivity": 2})
	if got != "th- this" {
		t.Fatalf("expected low sensitivity to keep partial stutter, got %q", got)
	}

	cases := []struct {
		text string
		want string
	}{
		{"We need to re-record the intro.", "We need to re-record the intro."},
		{"Please re-read it.", "Please re-read it."},
		{"A co-costar appeared.", "A co-costar appeared."},
		{"Th-th-the plan works.", "The plan works."},
		{"B-b-but why?", "But why?"},
		{"An e-mail arrived.", "An e-mail arrived."},
	}
	for _, tc := range cases {
		if got := RemoveStutterText(tc.text, Options{}); got != tc.want {
			t.Fatalf("RemoveStutterText(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestUpdateSettingMerges(t *testing.T) {
	_, eng := newTestEngine()
	eng.UpdateSetting(RemoveFiller, "aggressiveness", 9)
	eng.UpdateSetting("custom", "level", 1)
	s := eng.Settings()
	if s[RemoveFiller].Int("aggressiveness", 0) != 9 {
		t.Fatalf("expected aggressiveness updated")
	}
	if !s[RemoveFiller].Bool("preserveNatural", false) {
		t.Fatalf("expected untouched key preserved")
	}
	if s[RemoveStutter].Int("sensitivity", 0) != 7 {
		t.Fatalf("expected other macro untouched")
	}
	if s["custom"].Int("level", 0) != 1 {
		t.Fatalf("expected new macro record")
	}
	s[RemoveFiller]["aggressiveness"] = 1
	if eng.Settings()[RemoveFiller].Int("aggressiveness", 0) != 9 {
		t.Fatalf("settings copy leaked into engine")
	}
}

func TestRegenerateAppendsWithoutMutating(t *testing.T) {
	ed, eng := newTestEngine()
	for _, id := range []string{"1", "2", "1"} {
		if _, ok := eng.Regenerate(id); !ok {
			t.Fatalf("regenerate %s failed", id)
		}
	}
	if _, ok := eng.Regenerate("missing"); ok {
		t.Fatalf("expected missing segment to be ignored")
	}
	entries := eng.Log().Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].SegmentID != "1" || entries[1].SegmentID != "2" || entries[2].SegmentID != "1" {
		t.Fatalf("unexpected order %+v", entries)
	}
	first := entries[0]
	if first.NewText != RegenMarker+first.OriginalText || !first.AudioGenerated {
		t.Fatalf("unexpected entry %+v", first)
	}
	if first.TTSSettings.VoiceModel != "xtts-v2" {
		t.Fatalf("expected tts snapshot, got %+v", first.TTSSettings)
	}
	entries[0].NewText = "tampered"
	if eng.Log().Entries()[0].NewText == "tampered" {
		t.Fatalf("log entries mutated through copy")
	}
	seg, _ := ed.Segment("1")
	if seg.Text != "Um, so we, uh, start here." {
		t.Fatalf("regenerate changed segment text")
	}
	if len(eng.Log().ForSegment("1")) != 2 {
		t.Fatalf("expected two entries for segment 1")
	}
}

func TestRegenerateSnapshotsTTS(t *testing.T) {
	_, eng := newTestEngine()
	eng.Regenerate("1")
	speed := 1.5
	eng.UpdateTTS(TTSPatch{Speed: &speed})
	eng.Regenerate("1")
	entries := eng.Log().Entries()
	if entries[0].TTSSettings.Speed != 1 || entries[1].TTSSettings.Speed != 1.5 {
		t.Fatalf("unexpected tts snapshots %+v", entries)
	}
	if eng.TTS().Emotion != "neutral" {
		t.Fatalf("expected untouched emotion")
	}
}

func TestApplyForwardsProcessedText(t *testing.T) {
	ed, eng := newTestEngine()
	res, err := eng.Run(RemoveFiller, "1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := eng.Apply(RemoveFiller, "1", res); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	seg, _ := ed.Segment("1")
	if seg.Text != "So we start here." {
		t.Fatalf("unexpected text %q", seg.Text)
	}
	if top, _ := ed.History().Top("1"); top.Data.OriginalText != "Um, so we, uh, start here." {
		t.Fatalf("expected macro edit on undo stack")
	}

	if err := eng.Apply(AdjustPacing, "2", Result{}); err != nil {
		t.Fatalf("Apply without text failed: %v", err)
	}
	if u, _ := ed.History().Depth("2"); u != 0 {
		t.Fatalf("expected no edit for empty result")
	}
}

func TestRunErrors(t *testing.T) {
	_, eng := newTestEngine()
	if _, err := eng.Run("nope", "1"); !errors.Is(err, ErrUnknownMacro) {
		t.Fatalf("expected ErrUnknownMacro, got %v", err)
	}
	res, err := eng.Run(AdjustProsody, "1")
	if err != nil || res.HasText || res.Changed("anything") {
		t.Fatalf("expected audio-only macro to produce no text, got %+v err=%v", res, err)
	}
}

func TestMissingSegmentFollowsStrictMode(t *testing.T) {
	_, eng := newTestEngine()
	res, err := eng.Run(RemoveFiller, "x")
	if err != nil || res.HasText {
		t.Fatalf("expected lenient run to ignore missing segment, got %+v err=%v", res, err)
	}
	eng.Toggle(RemoveFiller)
	if changed, err := eng.ApplyEnabled("x"); err != nil || changed {
		t.Fatalf("expected lenient apply to ignore missing segment, err=%v", err)
	}

	ed := editor.New([]model.Segment{{ID: "1", End: 1, Text: "um hi"}}, nil, editor.Options{Strict: true})
	strict := NewEngine(ed, DefaultTTSSettings())
	if _, err := strict.Run(RemoveFiller, "x"); !errors.Is(err, editor.ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
	strict.Toggle(RemoveFiller)
	if _, err := strict.ApplyEnabled("x"); !errors.Is(err, editor.ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound from ApplyEnabled, got %v", err)
	}
}

func TestFillerOnlySegmentCanBeCleared(t *testing.T) {
	ed := editor.New([]model.Segment{{ID: "1", End: 1, Text: "Um, uh."}}, nil, editor.Options{})
	eng := NewEngine(ed, DefaultTTSSettings())
	res, err := eng.Run(RemoveFiller, "1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.HasText || res.ProcessedText != "" || !res.Changed("Um, uh.") {
		t.Fatalf("expected empty text result, got %+v", res)
	}
	if err := eng.Apply(RemoveFiller, "1", res); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if seg, _ := ed.Segment("1"); seg.Text != "" {
		t.Fatalf("expected segment cleared, got %q", seg.Text)
	}

	ed = editor.New([]model.Segment{{ID: "1", End: 1, Text: "Um, uh."}}, nil, editor.Options{})
	eng = NewEngine(ed, DefaultTTSSettings())
	eng.Toggle(RemoveFiller)
	eng.Toggle(AdjustPacing)
	changed, err := eng.ApplyEnabled("1")
	if err != nil || !changed {
		t.Fatalf("expected enabled macros to clear the segment, err=%v", err)
	}
	if seg, _ := ed.Segment("1"); seg.Text != "" {
		t.Fatalf("expected segment cleared, got %q", seg.Text)
	}
}

func TestApplyEnabled(t *testing.T) {
	ed, eng := newTestEngine()
	if changed, err := eng.ApplyEnabled("2"); err != nil || changed {
		t.Fatalf("expected no change with no macros enabled")
	}
	if !eng.Toggle(RemoveStutter) {
		t.Fatalf("expected toggle on")
	}
	eng.Toggle(RemoveFiller)
	changed, err := eng.ApplyEnabled("2")
	if err != nil || !changed {
		t.Fatalf("expected change, err=%v", err)
	}
	seg, _ := ed.Segment("2")
	if seg.Text != "I think this works." {
		t.Fatalf("unexpected text %q", seg.Text)
	}
	if u, _ := ed.History().Depth("2"); u != 1 {
		t.Fatalf("expected a single undo entry, got %d", u)
	}
	if eng.Toggle(RemoveStutter) || eng.Enabled(RemoveStutter) {
		t.Fatalf("expected toggle off")
	}
}
