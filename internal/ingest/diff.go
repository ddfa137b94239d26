package ingest

import (
	"strings"

	"github.com/verte-zerg/cutline/internal/model"
)

// Diff compares two versions of a transcript position by position and
// returns the segments whose trimmed text changed. Extra segments on either
// side are ignored. Times and speaker come from the original.
func Diff(original, edited []model.Segment) []model.SegmentDiff {
	n := min(len(original), len(edited))
	var out []model.SegmentDiff
	for i := 0; i < n; i++ {
		before := strings.TrimSpace(original[i].Text)
		after := strings.TrimSpace(edited[i].Text)
		if before == after {
			continue
		}
		out = append(out, model.SegmentDiff{
			Index:        i,
			Start:        original[i].Start,
			End:          original[i].End,
			OriginalText: before,
			EditedText:   after,
			SpeakerID:    original[i].SpeakerID(),
		})
	}
	return out
}
