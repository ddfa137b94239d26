package macro

import "github.com/verte-zerg/cutline/internal/model"

// RegenLog is an append-only record of regeneration requests.
type RegenLog struct {
	entries []model.RegenEntry
}

// Append adds an entry at the end of the log.
func (l *RegenLog) Append(entry model.RegenEntry) {
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries.
func (l *RegenLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log in insertion order.
func (l *RegenLog) Entries() []model.RegenEntry {
	out := make([]model.RegenEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ForSegment returns the entries recorded for one segment, oldest first.
func (l *RegenLog) ForSegment(segmentID string) []model.RegenEntry {
	var out []model.RegenEntry
	for _, e := range l.entries {
		if e.SegmentID == segmentID {
			out = append(out, e)
		}
	}
	return out
}
