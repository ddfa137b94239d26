// Package model defines shared data structures.
package model

import "time"

// Speaker is a participant referenced by segments. Segments share the same
// *Speaker value; speakers are not mutated during a session.
type Speaker struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Avatar string `json:"avatar,omitempty"`
}

// Segment is a contiguous span of transcript attributed to one speaker.
type Segment struct {
	ID         string   `json:"id"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Speaker    *Speaker `json:"speaker"`
	Confidence float64  `json:"confidence"`
	IsEditable bool     `json:"isEditable"`
}

// SpeakerID returns the id of the segment's speaker or "" when unassigned.
func (s Segment) SpeakerID() string {
	if s.Speaker == nil {
		return ""
	}
	return s.Speaker.ID
}

// Duration returns End-Start in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// UndoActionEdit is the only undo action type recorded today.
const UndoActionEdit = "edit"

// UndoData carries the text an undo (or redo) restores.
type UndoData struct {
	OriginalText string `json:"originalText"`
}

// UndoAction is one reversible edit record.
type UndoAction struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SegmentID string    `json:"segmentId"`
	Data      UndoData  `json:"data"`
}

// TTSSettings is the speech synthesis configuration captured with each
// regeneration.
type TTSSettings struct {
	VoiceModel string  `json:"voiceModel"`
	Pitch      float64 `json:"pitch"`
	Speed      float64 `json:"speed"`
	Emotion    string  `json:"emotion"`
}

// RegenEntry records one regeneration request. Entries are append-only.
type RegenEntry struct {
	SegmentID      string      `json:"segmentId"`
	Timestamp      time.Time   `json:"timestamp"`
	OriginalText   string      `json:"originalText"`
	NewText        string      `json:"newText"`
	TTSSettings    TTSSettings `json:"ttsSettings"`
	AudioGenerated bool        `json:"audioGenerated"`
}

// SpeakerStat is derived per-speaker aggregate data.
type SpeakerStat struct {
	SpeakerID         string  `json:"speakerId"`
	TotalTime         float64 `json:"totalTime"`
	SegmentCount      int     `json:"segmentCount"`
	WordCount         int     `json:"wordCount"`
	AverageConfidence float64 `json:"averageConfidence"`
	WordsPerMinute    float64 `json:"wordsPerMinute"`
}

// TranscriptionStatistics is the statistics payload produced by the
// transcription backend.
type TranscriptionStatistics struct {
	SpeakerSpeakingTimes map[string]float64 `json:"speaker_speaking_times"`
	SpeakerWordCounts    map[string]int     `json:"speaker_word_counts"`
	SpeakersList         []string           `json:"speakers_list"`
	TotalSpeakers        int                `json:"total_speakers"`
	TotalWords           int                `json:"total_words"`
}

// SpeakerMetric is a per-speaker row of DocumentMetrics.
type SpeakerMetric struct {
	Duration                float64
	WordCount               int
	WordsPerMinute          float64
	ParticipationPercentage float64
}

// DocumentMetrics summarizes a whole transcription result.
type DocumentMetrics struct {
	TotalDuration         float64
	SpeakerCount          int
	TotalWords            int
	TotalSegments         int
	AverageWordsPerMinute float64
	SpeakerMetrics        map[string]SpeakerMetric
}

// ExportSettings configures an export request.
type ExportSettings struct {
	Format           string `json:"format"`
	Quality          string `json:"quality"`
	SplitSpeakers    bool   `json:"splitSpeakers"`
	IncludeChapters  bool   `json:"includeChapters"`
	EmbedTranscript  bool   `json:"embedTranscript"`
	TranscriptFormat string `json:"transcriptFormat"`
}

// SnapshotMetadata holds derived counts for an ExportSnapshot.
type SnapshotMetadata struct {
	TotalDuration float64 `json:"totalDuration"`
	SegmentCount  int     `json:"segmentCount"`
	SpeakerCount  int     `json:"speakerCount"`
}

// ExportSnapshot is a point-in-time copy of editable state for export.
type ExportSnapshot struct {
	Timestamp      time.Time        `json:"timestamp"`
	ExportSettings ExportSettings   `json:"exportSettings"`
	Segments       []Segment        `json:"segments"`
	Speakers       []Speaker        `json:"speakers"`
	Metadata       SnapshotMetadata `json:"metadata"`
}

// ValidationResult reports advisory validation outcomes.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// AutosaveStatus is the display state of the autosave indicator.
type AutosaveStatus string

// Autosave states.
const (
	AutosaveSaved   AutosaveStatus = "saved"
	AutosavePending AutosaveStatus = "pending"
	AutosaveSaving  AutosaveStatus = "saving"
)

// SegmentDiff describes a segment whose text differs between two versions.
type SegmentDiff struct {
	Index        int
	Start        float64
	End          float64
	OriginalText string
	EditedText   string
	SpeakerID    string
}

// Project is a persisted editing document.
type Project struct {
	ID         string
	Name       string
	Source     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Speakers   []*Speaker
	Segments   []Segment
	Export     ExportSettings
	TTS        TTSSettings
	Statistics *TranscriptionStatistics
}

// ProjectSummary is a listing row for stored projects.
type ProjectSummary struct {
	ID           string
	Name         string
	UpdatedAt    time.Time
	SegmentCount int
}
