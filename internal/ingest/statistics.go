package ingest

import (
	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/stats"
)

// StatisticsFor derives the backend statistics payload from segments. It is
// used when a result arrives without statistics, and for the demo document.
// Speakers are listed in first-appearance order.
func StatisticsFor(segments []model.Segment) *model.TranscriptionStatistics {
	st := &model.TranscriptionStatistics{
		SpeakerSpeakingTimes: map[string]float64{},
		SpeakerWordCounts:    map[string]int{},
		SpeakersList:         []string{},
	}
	for _, seg := range segments {
		id := seg.SpeakerID()
		if id == "" {
			id = "Unknown"
		}
		if _, seen := st.SpeakerWordCounts[id]; !seen {
			st.SpeakersList = append(st.SpeakersList, id)
		}
		words := stats.WordCount(seg.Text)
		st.SpeakerWordCounts[id] += words
		st.SpeakerSpeakingTimes[id] += seg.End - seg.Start
		st.TotalWords += words
	}
	st.TotalSpeakers = len(st.SpeakersList)
	return st
}
