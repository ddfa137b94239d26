package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/cutline/internal/model"
)

// DefaultSpeakerLabel is used for segments the backend left unlabelled.
const DefaultSpeakerLabel = "Speaker 1"

var palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

// Map converts backend segments into editor segments. Ids are the segment
// positions as strings. A missing or zero confidence becomes 1. Speaker
// labels resolve against known by id, then by name; unseen labels create new
// speakers, which are appended to the returned list after known.
func Map(res Result, known []*model.Speaker) ([]model.Segment, []*model.Speaker) {
	speakers := make([]*model.Speaker, len(known))
	copy(speakers, known)

	segments := make([]model.Segment, 0, len(res.Transcription.Segments))
	for i, raw := range res.Transcription.Segments {
		label := strings.TrimSpace(raw.Speaker)
		if label == "" {
			label = DefaultSpeakerLabel
		}
		sp := findSpeaker(speakers, label)
		if sp == nil {
			sp = &model.Speaker{
				ID:    label,
				Name:  displayName(label),
				Color: palette[len(speakers)%len(palette)],
			}
			speakers = append(speakers, sp)
		}
		conf := 1.0
		if raw.Confidence != nil && *raw.Confidence != 0 {
			conf = *raw.Confidence
		}
		segments = append(segments, model.Segment{
			ID:         strconv.Itoa(i),
			Start:      raw.Start,
			End:        raw.End,
			Text:       raw.Text,
			Speaker:    sp,
			Confidence: conf,
			IsEditable: true,
		})
	}
	return segments, speakers
}

func findSpeaker(speakers []*model.Speaker, label string) *model.Speaker {
	for _, sp := range speakers {
		if sp.ID == label {
			return sp
		}
	}
	for _, sp := range speakers {
		if sp.Name == label {
			return sp
		}
	}
	return nil
}

// displayName turns diarization labels like SPEAKER_00 into "Speaker 1".
func displayName(label string) string {
	rest, ok := strings.CutPrefix(label, "SPEAKER_")
	if !ok {
		return label
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return label
	}
	return fmt.Sprintf("Speaker %d", n+1)
}
