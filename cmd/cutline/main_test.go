package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/cutline/internal/config"
	"github.com/verte-zerg/cutline/internal/ingest"
	"github.com/verte-zerg/cutline/internal/model"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Editor.UndoCapacity != nil || cfg.Export.Format != nil {
		t.Fatalf("expected all values commented out")
	}
	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# undo-capacity", "undo-capacity")
	if _, err := toml.Decode(uncommented, &cfg); err != nil {
		t.Fatalf("uncommented template does not decode: %v", err)
	}
	if cfg.Editor.UndoCapacity == nil || *cfg.Editor.UndoCapacity != defaultUndoCapacity {
		t.Fatalf("unexpected undo capacity %v", cfg.Editor.UndoCapacity)
	}
}

func TestProjectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.json")
	payload := `{"transcription":{"segments":[
		{"start":0,"end":2,"text":"hello there","speaker":"SPEAKER_00"},
		{"start":2,"end":5,"text":"hi","speaker":"SPEAKER_01","confidence":0.5}
	]}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	speed := 1.25
	p, err := projectFromFile(config.FileConfig{TTS: config.TTSConfig{Speed: &speed}}, path)
	if err != nil {
		t.Fatalf("projectFromFile: %v", err)
	}
	if p.Name != "interview" || p.Source != path {
		t.Fatalf("unexpected name/source %q %q", p.Name, p.Source)
	}
	if len(p.Segments) != 2 || len(p.Speakers) != 2 {
		t.Fatalf("unexpected mapping %+v", p)
	}
	if p.Statistics == nil || p.Statistics.TotalWords != 3 {
		t.Fatalf("expected derived statistics, got %+v", p.Statistics)
	}
	if p.TTS.Speed != 1.25 || p.TTS.VoiceModel != "xtts-v2" {
		t.Fatalf("expected tts config overlay, got %+v", p.TTS)
	}
	if p.Export.TranscriptFormat != "srt" {
		t.Fatalf("expected default export settings, got %+v", p.Export)
	}
}

func TestPrintStats(t *testing.T) {
	segments, speakers := ingest.Demo()
	p := model.Project{Segments: segments, Speakers: speakers, Statistics: ingest.StatisticsFor(segments)}
	var buf bytes.Buffer
	if err := printStats(&buf, p, 80); err != nil {
		t.Fatalf("printStats: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Speakers", "Summary", "Transcription", "Activity"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestPrintDiffs(t *testing.T) {
	var buf bytes.Buffer
	if err := printDiffs(&buf, nil); err != nil {
		t.Fatalf("printDiffs: %v", err)
	}
	if buf.String() != "No edited segments.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
	buf.Reset()
	diffs := []model.SegmentDiff{{Index: 1, Start: 5, End: 65, OriginalText: "um hi", EditedText: "hi", SpeakerID: "host"}}
	if err := printDiffs(&buf, diffs); err != nil {
		t.Fatalf("printDiffs: %v", err)
	}
	want := "#1 00:05-01:05 host\n- um hi\n+ hi\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLoadFillers(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := loadFillers(config.FileConfig{}); got != nil {
		t.Fatalf("expected no fillers without a list, got %v", got)
	}
	path := filepath.Join(dir, "mine.txt")
	if err := os.WriteFile(path, []byte("Okay So\nbasically\nnot-a-filler\nbasically\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := loadFillers(config.FileConfig{Macros: config.MacrosConfig{FillerList: &path}})
	if len(got) != 2 || got[0] != "okay so" || got[1] != "basically" {
		t.Fatalf("unexpected fillers %v", got)
	}
}

func TestShortID(t *testing.T) {
	if shortID("0123456789") != "01234567" || shortID("abc") != "abc" {
		t.Fatalf("unexpected short ids")
	}
}
