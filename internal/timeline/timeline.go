// Package timeline provides time formatting and point queries over segments.
package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/cutline/internal/model"
)

// FormatTime renders seconds as zero-padded mm:ss. Minutes are not wrapped
// into hours.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(seconds / 60)
	secs := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// ParseTime parses mm:ss into seconds.
func ParseTime(value string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected mm:ss", value)
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, fmt.Errorf("invalid minutes in %q", value)
	}
	secs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("invalid seconds in %q", value)
	}
	return float64(mins)*60 + secs, nil
}

// Duration converts seconds to a time.Duration with millisecond precision.
func Duration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}

// FormatSRT formats seconds as HH:MM:SS,mmm.
func FormatSRT(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatVTT formats seconds as HH:MM:SS.mmm.
func FormatVTT(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// FormatClock formats seconds as HH:MM:SS.
func FormatClock(seconds float64) string {
	h, m, s, _ := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func split(seconds float64) (h, m, s, ms int) {
	d := Duration(seconds)
	if d < 0 {
		d = 0
	}
	h = int(d.Hours())
	m = int(d.Minutes()) % 60
	s = int(d.Seconds()) % 60
	ms = int(d.Milliseconds()) % 1000
	return h, m, s, ms
}

// SegmentAt returns the first segment whose closed interval [Start, End]
// contains t.
func SegmentAt(segments []model.Segment, t float64) (model.Segment, bool) {
	for _, seg := range segments {
		if t >= seg.Start && t <= seg.End {
			return seg, true
		}
	}
	return model.Segment{}, false
}

// ActiveSegments returns every segment whose closed interval contains t.
func ActiveSegments(segments []model.Segment, t float64) []model.Segment {
	var out []model.Segment
	for _, seg := range segments {
		if t >= seg.Start && t <= seg.End {
			out = append(out, seg)
		}
	}
	return out
}

// ValidateSegment checks start < end and non-blank text.
func ValidateSegment(seg model.Segment) model.ValidationResult {
	var errs []string
	if seg.Start >= seg.End {
		errs = append(errs, fmt.Sprintf("segment %s: start %.2f must be before end %.2f", seg.ID, seg.Start, seg.End))
	}
	if strings.TrimSpace(seg.Text) == "" {
		errs = append(errs, fmt.Sprintf("segment %s: text must not be empty", seg.ID))
	}
	return model.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
