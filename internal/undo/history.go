package undo

import (
	"errors"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
)

// DefaultCapacity bounds each segment's undo and redo stacks when no
// capacity is configured.
const DefaultCapacity = 100

var (
	// ErrNothingToUndo is returned when a segment's undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when a segment's redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

type stacks struct {
	undo *Ring[model.UndoAction]
	redo *Ring[model.UndoAction]
}

// History maps segment ids to their undo and redo stacks. It is not safe
// for concurrent use.
type History struct {
	capacity int
	bySeg    map[string]*stacks
}

// NewHistory creates a history whose stacks hold at most capacity actions.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, bySeg: map[string]*stacks{}}
}

// Capacity returns the per-stack bound.
func (h *History) Capacity() int {
	return h.capacity
}

func (h *History) entry(segmentID string) *stacks {
	st, ok := h.bySeg[segmentID]
	if !ok {
		st = &stacks{
			undo: NewRing[model.UndoAction](h.capacity),
			redo: NewRing[model.UndoAction](h.capacity),
		}
		h.bySeg[segmentID] = st
	}
	return st
}

// RecordEdit pushes the pre-edit text for a segment and clears its redo
// stack.
func (h *History) RecordEdit(segmentID, priorText string, at time.Time) {
	st := h.entry(segmentID)
	st.undo.Push(newAction(segmentID, priorText, at))
	st.redo.Clear()
}

// PopUndo removes the newest undo action for a segment.
func (h *History) PopUndo(segmentID string) (model.UndoAction, error) {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return model.UndoAction{}, ErrNothingToUndo
	}
	a, ok := st.undo.Pop()
	if !ok {
		return model.UndoAction{}, ErrNothingToUndo
	}
	return a, nil
}

// PopRedo removes the newest redo action for a segment.
func (h *History) PopRedo(segmentID string) (model.UndoAction, error) {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return model.UndoAction{}, ErrNothingToRedo
	}
	a, ok := st.redo.Pop()
	if !ok {
		return model.UndoAction{}, ErrNothingToRedo
	}
	return a, nil
}

// PushRedo records text an undo replaced so it can be re-applied.
func (h *History) PushRedo(segmentID, text string, at time.Time) {
	h.entry(segmentID).redo.Push(newAction(segmentID, text, at))
}

// PushUndo records text a redo replaced without touching the redo stack.
func (h *History) PushUndo(segmentID, text string, at time.Time) {
	h.entry(segmentID).undo.Push(newAction(segmentID, text, at))
}

// Top returns the newest undo action for a segment.
func (h *History) Top(segmentID string) (model.UndoAction, bool) {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return model.UndoAction{}, false
	}
	return st.undo.Peek()
}

// UndoStack returns a segment's undo actions, oldest first.
func (h *History) UndoStack(segmentID string) []model.UndoAction {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return nil
	}
	return st.undo.Items()
}

// RedoStack returns a segment's redo actions, oldest first.
func (h *History) RedoStack(segmentID string) []model.UndoAction {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return nil
	}
	return st.redo.Items()
}

// Depth returns the undo and redo stack sizes for a segment.
func (h *History) Depth(segmentID string) (undoLen, redoLen int) {
	st, ok := h.bySeg[segmentID]
	if !ok {
		return 0, 0
	}
	return st.undo.Len(), st.redo.Len()
}

// Reset drops every stack.
func (h *History) Reset() {
	h.bySeg = map[string]*stacks{}
}

func newAction(segmentID, text string, at time.Time) model.UndoAction {
	return model.UndoAction{
		Type:      model.UndoActionEdit,
		Timestamp: at,
		SegmentID: segmentID,
		Data:      model.UndoData{OriginalText: text},
	}
}
