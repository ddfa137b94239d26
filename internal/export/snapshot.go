// Package export shapes editor state into snapshots for the export backend
// and writes snapshot and transcript files.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
)

// ErrEmptySnapshot is returned when a snapshot is requested for a document
// without segments.
var ErrEmptySnapshot = errors.New("snapshot has no segments")

var (
	audioFormats      = []string{"wav", "mp3", "flac"}
	qualityLevels     = []string{"low", "medium", "high"}
	transcriptFormats = []string{"txt", "srt", "vtt"}
)

// DefaultSettings returns the built-in export settings.
func DefaultSettings() model.ExportSettings {
	return model.ExportSettings{
		Format:           "wav",
		Quality:          "high",
		SplitSpeakers:    true,
		IncludeChapters:  true,
		EmbedTranscript:  true,
		TranscriptFormat: "srt",
	}
}

// BuildSnapshot copies the current segments and speakers into a snapshot.
// The snapshot shares no memory with its inputs.
func BuildSnapshot(segments []model.Segment, speakers []*model.Speaker, settings model.ExportSettings, now time.Time) (model.ExportSnapshot, error) {
	if len(segments) == 0 {
		return model.ExportSnapshot{}, ErrEmptySnapshot
	}

	spk := make([]model.Speaker, 0, len(speakers))
	for _, sp := range speakers {
		if sp != nil {
			spk = append(spk, *sp)
		}
	}
	byID := make(map[string]*model.Speaker, len(spk))
	for i := range spk {
		byID[spk[i].ID] = &spk[i]
	}

	segs := make([]model.Segment, len(segments))
	var total float64
	for i, seg := range segments {
		segs[i] = seg
		if seg.Speaker != nil {
			if sp, ok := byID[seg.Speaker.ID]; ok {
				segs[i].Speaker = sp
			} else {
				cp := *seg.Speaker
				segs[i].Speaker = &cp
			}
		}
		if i == 0 || seg.End > total {
			total = seg.End
		}
	}

	return model.ExportSnapshot{
		Timestamp:      now,
		ExportSettings: settings,
		Segments:       segs,
		Speakers:       spk,
		Metadata: model.SnapshotMetadata{
			TotalDuration: total,
			SegmentCount:  len(segs),
			SpeakerCount:  len(spk),
		},
	}, nil
}

// ValidateExportSettings reports every problem with settings. An empty
// transcript format means no transcript is written.
func ValidateExportSettings(settings model.ExportSettings) model.ValidationResult {
	res := model.ValidationResult{Valid: true, Errors: []string{}}
	if !contains(audioFormats, settings.Format) {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid audio format %q", settings.Format))
	}
	if !contains(qualityLevels, settings.Quality) {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid quality setting %q", settings.Quality))
	}
	if settings.TranscriptFormat != "" && !contains(transcriptFormats, settings.TranscriptFormat) {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid transcript format %q", settings.TranscriptFormat))
	}
	res.Valid = len(res.Errors) == 0
	return res
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
