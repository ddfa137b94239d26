// Package ingest turns transcription backend payloads into editor segments
// and guards against responses that arrive after a newer request.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/cutline/internal/model"
)

// ErrBackendFailed is returned when the payload reports a failed analysis.
var ErrBackendFailed = errors.New("transcription backend failed")

// RawSegment is a segment as produced by the transcription backend.
type RawSegment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker"`
	Confidence *float64 `json:"confidence"`
}

// Transcription holds the raw segments. The backend sends either a bare
// array or an object with a segments field; both decode here.
type Transcription struct {
	Segments []RawSegment `json:"segments"`
}

// UnmarshalJSON accepts both payload shapes.
func (t *Transcription) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &t.Segments)
	}
	var wrapped struct {
		Segments []RawSegment `json:"segments"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	t.Segments = wrapped.Segments
	return nil
}

// Result is the decoded backend response.
type Result struct {
	Transcription Transcription
	Statistics    *model.TranscriptionStatistics
}

type statisticsPayload struct {
	model.TranscriptionStatistics
	Error string `json:"error"`
}

type resultPayload struct {
	Transcription Transcription      `json:"transcription"`
	Statistics    *statisticsPayload `json:"statistics"`
	Status        string             `json:"status"`
	Error         string             `json:"error"`
}

// Decode reads a backend response. A statistics block that reports its own
// failure is dropped so document metrics fall back to zero values.
func Decode(r io.Reader) (Result, error) {
	var p resultPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Result{}, fmt.Errorf("decode transcription result: %w", err)
	}
	if p.Status == "failed" || (p.Error != "" && p.Status != "success") {
		return Result{}, fmt.Errorf("%w: %s", ErrBackendFailed, p.Error)
	}
	res := Result{Transcription: p.Transcription}
	if p.Statistics != nil && p.Statistics.Error == "" {
		st := p.Statistics.TranscriptionStatistics
		res.Statistics = &st
	}
	return res, nil
}

// DecodeFile reads a backend response from path.
func DecodeFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f)
}
