package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
)

const wrappedPayload = `{
  "status": "success",
  "transcription": {"segments": [
    {"start": 0, "end": 2.5, "text": "Hello there.", "speaker": "SPEAKER_00", "confidence": 0.8},
    {"start": 2.5, "end": 4, "text": "Hi.", "speaker": "SPEAKER_01"},
    {"start": 4, "end": 6, "text": "Who's next?", "speaker": ""}
  ]},
  "statistics": {
    "total_speakers": 2,
    "total_words": 5,
    "speaker_word_counts": {"SPEAKER_00": 2, "SPEAKER_01": 1},
    "speaker_speaking_times": {"SPEAKER_00": 2.5, "SPEAKER_01": 1.5},
    "speakers_list": ["SPEAKER_00", "SPEAKER_01"]
  }
}`

func TestDecodeWrappedSegments(t *testing.T) {
	res, err := Decode(strings.NewReader(wrappedPayload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(res.Transcription.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(res.Transcription.Segments))
	}
	if res.Statistics == nil || res.Statistics.TotalWords != 5 || res.Statistics.SpeakerSpeakingTimes["SPEAKER_01"] != 1.5 {
		t.Fatalf("unexpected statistics %+v", res.Statistics)
	}
}

func TestDecodeBareArray(t *testing.T) {
	payload := `{"transcription": [{"start": 1, "end": 2, "text": "x"}], "statistics": {"error": "boom"}, "status": "success"}`
	res, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(res.Transcription.Segments) != 1 || res.Transcription.Segments[0].Start != 1 {
		t.Fatalf("unexpected segments %+v", res.Transcription.Segments)
	}
	if res.Statistics != nil {
		t.Fatalf("expected failed statistics to be dropped")
	}
}

func TestDecodeFailedStatus(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"status": "failed", "error": "no audio"}`))
	if !errors.Is(err, ErrBackendFailed) || !strings.Contains(err.Error(), "no audio") {
		t.Fatalf("expected ErrBackendFailed, got %v", err)
	}
	if _, err := Decode(strings.NewReader(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMap(t *testing.T) {
	res, _ := Decode(strings.NewReader(wrappedPayload))
	segs, speakers := Map(res, nil)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, seg := range segs {
		if seg.ID != []string{"0", "1", "2"}[i] || !seg.IsEditable {
			t.Fatalf("unexpected segment %+v", seg)
		}
	}
	if segs[0].Confidence != 0.8 || segs[1].Confidence != 1 {
		t.Fatalf("unexpected confidences %v %v", segs[0].Confidence, segs[1].Confidence)
	}
	if segs[0].Speaker.Name != "Speaker 1" || segs[1].Speaker.Name != "Speaker 2" {
		t.Fatalf("unexpected speaker names %q %q", segs[0].Speaker.Name, segs[1].Speaker.Name)
	}
	if segs[2].Speaker != segs[0].Speaker {
		t.Fatalf("expected unlabelled segment to join the speaker named %q", DefaultSpeakerLabel)
	}
	if len(speakers) != 2 || speakers[0].Color == speakers[1].Color {
		t.Fatalf("unexpected speakers %+v", speakers)
	}
}

func TestMapUsesKnownSpeakers(t *testing.T) {
	host := &model.Speaker{ID: "host", Name: "Alex Chen"}
	zero := 0.0
	res := Result{Transcription: Transcription{Segments: []RawSegment{
		{Start: 0, End: 1, Text: "a", Speaker: "host", Confidence: &zero},
		{Start: 1, End: 2, Text: "b", Speaker: "Alex Chen"},
		{Start: 2, End: 3, Text: "c"},
	}}}
	segs, speakers := Map(res, []*model.Speaker{host})
	if segs[0].Speaker != host || segs[1].Speaker != host {
		t.Fatalf("expected known speaker reused")
	}
	if segs[0].Confidence != 1 {
		t.Fatalf("expected zero confidence to default to 1")
	}
	if len(speakers) != 2 || speakers[1].ID != DefaultSpeakerLabel {
		t.Fatalf("unexpected speakers %+v", speakers)
	}
}

func TestGuard(t *testing.T) {
	var g Guard
	if g.Accept("save", 0) {
		t.Fatalf("zero token accepted")
	}
	first := g.Begin("save")
	second := g.Begin("save")
	other := g.Begin("reload")
	if g.Accept("save", first) {
		t.Fatalf("stale token accepted")
	}
	if !g.Accept("save", second) || !g.Accept("reload", other) {
		t.Fatalf("latest tokens rejected")
	}
	if err := g.Check("save", first); !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected ErrStaleResponse, got %v", err)
	}
	if err := g.Check("save", second); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDiff(t *testing.T) {
	original, _ := Demo()
	edited := make([]model.Segment, len(original)-1)
	copy(edited, original)
	edited[1].Text = "  " + original[1].Text + "\n"
	edited[2].Text = "Absolutely."

	diffs := Diff(original, edited)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 diff, got %+v", diffs)
	}
	d := diffs[0]
	if d.Index != 2 || d.EditedText != "Absolutely." || d.Start != 12.8 || d.SpeakerID != "host" {
		t.Fatalf("unexpected diff %+v", d)
	}
}

func TestStatisticsFor(t *testing.T) {
	segs, _ := Demo()
	st := StatisticsFor(segs)
	if st.TotalSpeakers != 2 || len(st.SpeakersList) != 2 || st.SpeakersList[0] != "host" {
		t.Fatalf("unexpected speakers %+v", st)
	}
	if got := st.SpeakerSpeakingTimes["guest"]; got < 25.49 || got > 25.51 {
		t.Fatalf("unexpected guest time %v", got)
	}
	var words int
	for _, n := range st.SpeakerWordCounts {
		words += n
	}
	if words != st.TotalWords || words == 0 {
		t.Fatalf("word counts do not add up: %d vs %d", words, st.TotalWords)
	}
}

func TestWatchHandlesNewResultFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(path string) error {
			got <- filepath.Base(path)
			return nil
		}, t.Logf)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, ".tmp.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "result.json"), []byte(wrappedPayload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case name := <-got:
		if name != "result.json" {
			t.Fatalf("unexpected file handled: %s", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for watch handler")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
	select {
	case name := <-got:
		t.Fatalf("unexpected second handle %s", name)
	default:
	}
}
