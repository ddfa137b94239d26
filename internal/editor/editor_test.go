package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/undo"
)

var (
	host  = &model.Speaker{ID: "host", Name: "Alex Chen", Color: "#3b82f6"}
	guest = &model.Speaker{ID: "guest", Name: "Dr. Sarah Martinez", Color: "#10b981"}
)

func newTestEditor(opts Options) *Editor {
	segs := []model.Segment{
		{ID: "1", Start: 0, End: 5.2, Text: "Welcome to our podcast.", Speaker: host, Confidence: 0.98, IsEditable: true},
		{ID: "2", Start: 5.2, End: 12.8, Text: "That's a fascinating topic.", Speaker: guest, Confidence: 0.94, IsEditable: true},
	}
	e := New(segs, []*model.Speaker{host, guest}, opts)
	e.now = func() time.Time { return time.Unix(1700000000, 0) }
	return e
}

func TestEditSegmentRecordsUndo(t *testing.T) {
	e := newTestEditor(Options{})
	if err := e.EditSegment("1", "Hello there."); err != nil {
		t.Fatalf("EditSegment failed: %v", err)
	}
	seg, _ := e.Segment("1")
	if seg.Text != "Hello there." {
		t.Fatalf("expected edited text, got %q", seg.Text)
	}
	top, ok := e.History().Top("1")
	if !ok || top.Data.OriginalText != "Welcome to our podcast." {
		t.Fatalf("unexpected undo top %+v", top)
	}
	if top.Timestamp.Unix() != 1700000000 {
		t.Fatalf("expected injected timestamp, got %v", top.Timestamp)
	}
	if e.Autosave() != model.AutosavePending {
		t.Fatalf("expected pending autosave, got %s", e.Autosave())
	}
}

func TestUndoRestoresAndEmptiesStack(t *testing.T) {
	e := newTestEditor(Options{})
	if err := e.EditSegment("1", "changed"); err != nil {
		t.Fatalf("EditSegment failed: %v", err)
	}
	if err := e.Undo("1"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	seg, _ := e.Segment("1")
	if seg.Text != "Welcome to our podcast." {
		t.Fatalf("expected original text, got %q", seg.Text)
	}
	if u, r := e.History().Depth("1"); u != 0 || r != 1 {
		t.Fatalf("expected undo empty and one redo, got %d/%d", u, r)
	}
}

func TestUndoOnEmptyStackIsNoop(t *testing.T) {
	e := newTestEditor(Options{})
	err := e.Undo("2")
	if !errors.Is(err, undo.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	seg, _ := e.Segment("2")
	if seg.Text != "That's a fascinating topic." {
		t.Fatalf("text changed on empty undo: %q", seg.Text)
	}
	if u, _ := e.History().Depth("2"); u != 0 {
		t.Fatalf("expected empty stack, got %d", u)
	}
}

func TestRedoReappliesEdit(t *testing.T) {
	e := newTestEditor(Options{})
	_ = e.EditSegment("1", "one")
	_ = e.EditSegment("1", "two")
	if err := e.Undo("1"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := e.Redo("1"); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	seg, _ := e.Segment("1")
	if seg.Text != "two" {
		t.Fatalf("expected redo to restore %q, got %q", "two", seg.Text)
	}
	if err := e.Redo("1"); !errors.Is(err, undo.ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
	_ = e.Undo("1")
	_ = e.EditSegment("1", "three")
	if _, r := e.History().Depth("1"); r != 0 {
		t.Fatalf("expected new edit to clear redo, got %d", r)
	}
}

func TestSelectedUndoRedo(t *testing.T) {
	e := newTestEditor(Options{})
	if err := e.UndoSelected(); err != nil {
		t.Fatalf("expected no-op without selection, got %v", err)
	}
	_ = e.EditSegment("2", "edited")
	if err := e.SelectSegment("2"); err != nil {
		t.Fatalf("SelectSegment failed: %v", err)
	}
	if err := e.UndoSelected(); err != nil {
		t.Fatalf("UndoSelected failed: %v", err)
	}
	if err := e.RedoSelected(); err != nil {
		t.Fatalf("RedoSelected failed: %v", err)
	}
	seg, _ := e.Segment("2")
	if seg.Text != "edited" {
		t.Fatalf("unexpected text %q", seg.Text)
	}
	if err := e.SelectSegment(""); err != nil || e.Selected() != "" {
		t.Fatalf("expected selection cleared, err=%v", err)
	}
}

func TestAssignSpeakerSharesPointer(t *testing.T) {
	e := newTestEditor(Options{})
	if err := e.AssignSpeaker("1", "guest"); err != nil {
		t.Fatalf("AssignSpeaker failed: %v", err)
	}
	seg, _ := e.Segment("1")
	if seg.Speaker != guest {
		t.Fatalf("expected shared guest pointer")
	}
}

func TestMissingIDsLenient(t *testing.T) {
	e := newTestEditor(Options{})
	before := e.Segments()
	if err := e.AssignSpeaker("1", "nobody"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if err := e.EditSegment("99", "x"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if err := e.SelectSegment("99"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	after := e.Segments()
	if after[0].Speaker != before[0].Speaker || after[0].Text != before[0].Text {
		t.Fatalf("document changed on missing ids")
	}
}

func TestMissingIDsStrict(t *testing.T) {
	e := newTestEditor(Options{Strict: true})
	if !e.Strict() || newTestEditor(Options{}).Strict() {
		t.Fatalf("unexpected strict flag")
	}
	if err := e.AssignSpeaker("1", "nobody"); !errors.Is(err, ErrSpeakerNotFound) {
		t.Fatalf("expected ErrSpeakerNotFound, got %v", err)
	}
	if err := e.EditSegment("99", "x"); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
	if err := e.Undo("99"); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
}

func TestUndoCapacityBound(t *testing.T) {
	e := newTestEditor(Options{UndoCapacity: 2})
	for _, text := range []string{"a", "b", "c", "d"} {
		_ = e.EditSegment("1", text)
	}
	if u, _ := e.History().Depth("1"); u != 2 {
		t.Fatalf("expected bounded undo stack of 2, got %d", u)
	}
}

func TestLoadResetsHistory(t *testing.T) {
	e := newTestEditor(Options{})
	_ = e.EditSegment("1", "x")
	_ = e.SelectSegment("1")
	e.Load([]model.Segment{{ID: "a", Start: 0, End: 1, Text: "new"}}, nil)
	if e.Selected() != "" || e.Autosave() != model.AutosaveSaved {
		t.Fatalf("expected clean state after load")
	}
	if u, _ := e.History().Depth("1"); u != 0 {
		t.Fatalf("expected history reset")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	doc := Document{
		Segments: []model.Segment{{ID: "1", Text: "before", Speaker: host}},
		Speakers: []*model.Speaker{host, guest},
	}
	next, err := Reduce(doc, EditText{SegmentID: "1", Text: "after"})
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if doc.Segments[0].Text != "before" {
		t.Fatalf("input document mutated")
	}
	if next.Segments[0].Text != "after" {
		t.Fatalf("expected reduced text, got %q", next.Segments[0].Text)
	}
	if _, err := Reduce(doc, AssignSpeaker{SegmentID: "1", SpeakerID: "x"}); !errors.Is(err, ErrSpeakerNotFound) {
		t.Fatalf("expected ErrSpeakerNotFound, got %v", err)
	}
}
