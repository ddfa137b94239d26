// Package stats contains speaker statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/cutline/internal/model"
)

const sparkChars = " .:-=+*#%@"

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// WordsPerMinute converts a word count over seconds to words per minute.
// It is 0 when seconds is not positive.
func WordsPerMinute(words int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(words) / (seconds / 60)
}

// SpeakerStats aggregates segments per speaker. The result has one record
// per speaker in the order given. It is recomputed on every call.
func SpeakerStats(speakers []*model.Speaker, segments []model.Segment) []model.SpeakerStat {
	out := make([]model.SpeakerStat, 0, len(speakers))
	for _, sp := range speakers {
		st := model.SpeakerStat{SpeakerID: sp.ID}
		var confSum float64
		for _, seg := range segments {
			if seg.SpeakerID() != sp.ID {
				continue
			}
			st.SegmentCount++
			st.TotalTime += seg.End - seg.Start
			st.WordCount += WordCount(seg.Text)
			confSum += seg.Confidence
		}
		if st.SegmentCount > 0 {
			st.AverageConfidence = confSum / float64(st.SegmentCount)
		}
		st.WordsPerMinute = WordsPerMinute(st.WordCount, st.TotalTime)
		out = append(out, st)
	}
	return out
}

// Summary totals speaker stats across the document.
type Summary struct {
	TotalTime         float64
	TotalWords        int
	Segments          int
	AverageConfidence float64
	WordsPerMinute    float64
}

// Summarize totals per-speaker stats. AverageConfidence is the mean of the
// speaker averages over speakers that have segments.
func Summarize(stats []model.SpeakerStat) Summary {
	var s Summary
	var confSum float64
	active := 0
	for _, st := range stats {
		s.TotalTime += st.TotalTime
		s.TotalWords += st.WordCount
		s.Segments += st.SegmentCount
		if st.SegmentCount > 0 {
			confSum += st.AverageConfidence
			active++
		}
	}
	if active > 0 {
		s.AverageConfidence = confSum / float64(active)
	}
	s.WordsPerMinute = WordsPerMinute(s.TotalWords, s.TotalTime)
	return s
}

// DocumentMetrics derives document-level metrics from the statistics payload
// sent by the transcription backend. segmentCount comes from the caller
// because the payload does not carry it. A nil payload yields zero metrics.
func DocumentMetrics(st *model.TranscriptionStatistics, segmentCount int) model.DocumentMetrics {
	m := model.DocumentMetrics{SpeakerMetrics: map[string]model.SpeakerMetric{}}
	if st == nil {
		return m
	}
	for _, t := range st.SpeakerSpeakingTimes {
		m.TotalDuration += t
	}
	for _, id := range st.SpeakersList {
		duration := st.SpeakerSpeakingTimes[id]
		words := st.SpeakerWordCounts[id]
		metric := model.SpeakerMetric{
			Duration:       duration,
			WordCount:      words,
			WordsPerMinute: WordsPerMinute(words, duration),
		}
		if m.TotalDuration > 0 {
			metric.ParticipationPercentage = duration / m.TotalDuration * 100
		}
		m.SpeakerMetrics[id] = metric
	}
	m.SpeakerCount = st.TotalSpeakers
	if m.SpeakerCount == 0 {
		m.SpeakerCount = len(st.SpeakersList)
	}
	m.TotalWords = st.TotalWords
	m.TotalSegments = segmentCount
	m.AverageWordsPerMinute = WordsPerMinute(st.TotalWords, m.TotalDuration)
	return m
}

// ConfidenceSeries returns segment confidences in document order.
func ConfidenceSeries(segments []model.Segment) []float64 {
	out := make([]float64, len(segments))
	for i, seg := range segments {
		out[i] = seg.Confidence
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
