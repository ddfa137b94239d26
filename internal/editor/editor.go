package editor

import (
	"errors"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/undo"
)

// Options configures an Editor.
type Options struct {
	// UndoCapacity bounds each segment's undo and redo stacks.
	UndoCapacity int
	// Strict makes unknown segment or speaker ids return errors. When false
	// they are silently ignored.
	Strict bool
}

// Editor applies edits to a Document and records them in an undo history.
// It is driven from a single goroutine and does no locking.
type Editor struct {
	doc     Document
	history *undo.History
	opts    Options
	now     func() time.Time
}

// New creates an editor over the given segments and speakers.
func New(segments []model.Segment, speakers []*model.Speaker, opts Options) *Editor {
	e := &Editor{
		history: undo.NewHistory(opts.UndoCapacity),
		opts:    opts,
		now:     time.Now,
	}
	e.Load(segments, speakers)
	return e
}

// Load replaces the document contents, clearing selection and history.
func (e *Editor) Load(segments []model.Segment, speakers []*model.Speaker) {
	segs := make([]model.Segment, len(segments))
	copy(segs, segments)
	sps := make([]*model.Speaker, len(speakers))
	copy(sps, speakers)
	e.doc = Document{Segments: segs, Speakers: sps, Autosave: model.AutosaveSaved}
	e.history.Reset()
}

// Document returns the current document. The segment slice must not be
// modified by the caller.
func (e *Editor) Document() Document {
	return e.doc
}

// Segments returns a copy of the segment list.
func (e *Editor) Segments() []model.Segment {
	out := make([]model.Segment, len(e.doc.Segments))
	copy(out, e.doc.Segments)
	return out
}

// Speakers returns the shared speaker list.
func (e *Editor) Speakers() []*model.Speaker {
	out := make([]*model.Speaker, len(e.doc.Speakers))
	copy(out, e.doc.Speakers)
	return out
}

// Segment looks up a segment by id.
func (e *Editor) Segment(id string) (model.Segment, bool) {
	return e.doc.Segment(id)
}

// Selected returns the focused segment id or "".
func (e *Editor) Selected() string {
	return e.doc.Selected
}

// Autosave returns the autosave indicator.
func (e *Editor) Autosave() model.AutosaveStatus {
	return e.doc.Autosave
}

// Strict reports whether unknown ids are reported as errors.
func (e *Editor) Strict() bool {
	return e.opts.Strict
}

// History exposes the undo history for display.
func (e *Editor) History() *undo.History {
	return e.history
}

// EditSegment records the current text on the segment's undo stack, then
// replaces it with text and marks the document pending save.
func (e *Editor) EditSegment(segmentID, text string) error {
	seg, ok := e.doc.Segment(segmentID)
	if !ok {
		return e.missing(ErrSegmentNotFound)
	}
	next, err := Reduce(e.doc, EditText{SegmentID: segmentID, Text: text})
	if err != nil {
		return err
	}
	e.history.RecordEdit(segmentID, seg.Text, e.now())
	e.doc = next
	return nil
}

// AssignSpeaker points a segment at the speaker with speakerID.
func (e *Editor) AssignSpeaker(segmentID, speakerID string) error {
	next, err := Reduce(e.doc, AssignSpeaker{SegmentID: segmentID, SpeakerID: speakerID})
	if err != nil {
		return e.missing(err)
	}
	e.doc = next
	return nil
}

// SelectSegment focuses segmentID; "" clears the selection.
func (e *Editor) SelectSegment(segmentID string) error {
	next, err := Reduce(e.doc, Select{SegmentID: segmentID})
	if err != nil {
		return e.missing(err)
	}
	e.doc = next
	return nil
}

// Undo restores the text replaced by the segment's most recent edit. It
// returns undo.ErrNothingToUndo when the stack is empty.
func (e *Editor) Undo(segmentID string) error {
	seg, ok := e.doc.Segment(segmentID)
	if !ok {
		return e.missing(ErrSegmentNotFound)
	}
	a, err := e.history.PopUndo(segmentID)
	if err != nil {
		return err
	}
	next, err := Reduce(e.doc, EditText{SegmentID: segmentID, Text: a.Data.OriginalText})
	if err != nil {
		return err
	}
	e.history.PushRedo(segmentID, seg.Text, e.now())
	e.doc = next
	return nil
}

// Redo re-applies the text most recently removed by Undo. It returns
// undo.ErrNothingToRedo when the stack is empty.
func (e *Editor) Redo(segmentID string) error {
	seg, ok := e.doc.Segment(segmentID)
	if !ok {
		return e.missing(ErrSegmentNotFound)
	}
	a, err := e.history.PopRedo(segmentID)
	if err != nil {
		return err
	}
	next, err := Reduce(e.doc, EditText{SegmentID: segmentID, Text: a.Data.OriginalText})
	if err != nil {
		return err
	}
	e.history.PushUndo(segmentID, seg.Text, e.now())
	e.doc = next
	return nil
}

// UndoSelected undoes on the focused segment. Without a selection it is a
// no-op.
func (e *Editor) UndoSelected() error {
	if e.doc.Selected == "" {
		return nil
	}
	return e.Undo(e.doc.Selected)
}

// RedoSelected redoes on the focused segment. Without a selection it is a
// no-op.
func (e *Editor) RedoSelected() error {
	if e.doc.Selected == "" {
		return nil
	}
	return e.Redo(e.doc.Selected)
}

// MarkSaving flags that a save of the current state is in flight.
func (e *Editor) MarkSaving() {
	e.doc.Autosave = model.AutosaveSaving
}

// MarkSaved flags the document as persisted.
func (e *Editor) MarkSaved() {
	e.doc.Autosave = model.AutosaveSaved
}

// MarkPending flags the document as having unsaved changes.
func (e *Editor) MarkPending() {
	e.doc.Autosave = model.AutosavePending
}

func (e *Editor) missing(err error) error {
	if e.opts.Strict {
		return err
	}
	if errors.Is(err, ErrSegmentNotFound) || errors.Is(err, ErrSpeakerNotFound) {
		return nil
	}
	return err
}
