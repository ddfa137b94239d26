// Package editor owns the transcript segment list and applies edits to it.
package editor

import (
	"errors"

	"github.com/verte-zerg/cutline/internal/model"
)

var (
	// ErrSegmentNotFound is returned in strict mode when a segment id does not resolve.
	ErrSegmentNotFound = errors.New("segment not found")
	// ErrSpeakerNotFound is returned in strict mode when a speaker id does not resolve.
	ErrSpeakerNotFound = errors.New("speaker not found")
)

// Document is the editable state: segments in order, the shared speakers,
// the focused segment and the autosave indicator.
type Document struct {
	Segments []model.Segment
	Speakers []*model.Speaker
	Selected string
	Autosave model.AutosaveStatus
}

// Action is a single-segment mutation understood by Reduce.
type Action interface {
	isAction()
}

// EditText replaces a segment's text.
type EditText struct {
	SegmentID string
	Text      string
}

// AssignSpeaker points a segment at another speaker.
type AssignSpeaker struct {
	SegmentID string
	SpeakerID string
}

// Select focuses a segment; an empty id clears the selection.
type Select struct {
	SegmentID string
}

func (EditText) isAction()      {}
func (AssignSpeaker) isAction() {}
func (Select) isAction()        {}

// Reduce applies a to doc and returns the resulting document. doc is never
// modified; the returned document has its own segment slice while speaker
// pointers stay shared.
func Reduce(doc Document, a Action) (Document, error) {
	switch a := a.(type) {
	case EditText:
		idx := doc.index(a.SegmentID)
		if idx < 0 {
			return doc, ErrSegmentNotFound
		}
		next := doc.clone()
		next.Segments[idx].Text = a.Text
		next.Autosave = model.AutosavePending
		return next, nil
	case AssignSpeaker:
		idx := doc.index(a.SegmentID)
		if idx < 0 {
			return doc, ErrSegmentNotFound
		}
		sp := doc.Speaker(a.SpeakerID)
		if sp == nil {
			return doc, ErrSpeakerNotFound
		}
		next := doc.clone()
		next.Segments[idx].Speaker = sp
		next.Autosave = model.AutosavePending
		return next, nil
	case Select:
		if a.SegmentID != "" && doc.index(a.SegmentID) < 0 {
			return doc, ErrSegmentNotFound
		}
		next := doc
		next.Selected = a.SegmentID
		return next, nil
	default:
		return doc, errors.New("unknown action")
	}
}

// Segment returns the segment with the given id.
func (d Document) Segment(id string) (model.Segment, bool) {
	idx := d.index(id)
	if idx < 0 {
		return model.Segment{}, false
	}
	return d.Segments[idx], true
}

// Speaker returns the shared speaker with the given id, or nil.
func (d Document) Speaker(id string) *model.Speaker {
	for _, sp := range d.Speakers {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (d Document) index(id string) int {
	for i, seg := range d.Segments {
		if seg.ID == id {
			return i
		}
	}
	return -1
}

func (d Document) clone() Document {
	next := d
	next.Segments = make([]model.Segment, len(d.Segments))
	copy(next.Segments, d.Segments)
	return next
}
