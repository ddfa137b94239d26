package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/timeline"
)

const stampLayout = "20060102_150405"

// WriteSnapshot writes snap as indented JSON into dir and returns the path.
// The file name carries the snapshot timestamp.
func WriteSnapshot(dir string, snap model.ExportSnapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("export_%s.json", snap.Timestamp.Format(stampLayout)))
	if err := atomicWrite(path, append(data, '\n')); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTranscript writes segments to path as txt, srt or vtt.
func WriteTranscript(path, format string, segments []model.Segment) error {
	var body string
	switch format {
	case "txt":
		body = renderText(segments)
	case "srt":
		body = renderSRT(segments)
	case "vtt":
		body = renderVTT(segments)
	default:
		return fmt.Errorf("unknown transcript format %q", format)
	}
	return atomicWrite(path, []byte(body))
}

// WriteAll writes the snapshot and, when the settings ask for it, the
// transcript files next to it. With SplitSpeakers one extra transcript per
// speaker is written. It returns every path written.
func WriteAll(dir string, snap model.ExportSnapshot) ([]string, error) {
	snapPath, err := WriteSnapshot(dir, snap)
	if err != nil {
		return nil, err
	}
	paths := []string{snapPath}

	settings := snap.ExportSettings
	if !settings.EmbedTranscript || settings.TranscriptFormat == "" {
		return paths, nil
	}
	stamp := snap.Timestamp.Format(stampLayout)
	ext := settings.TranscriptFormat

	full := filepath.Join(dir, fmt.Sprintf("transcript_%s.%s", stamp, ext))
	if err := WriteTranscript(full, ext, snap.Segments); err != nil {
		return paths, err
	}
	paths = append(paths, full)

	if !settings.SplitSpeakers {
		return paths, nil
	}
	var errs []string
	for _, sp := range snap.Speakers {
		var own []model.Segment
		for _, seg := range snap.Segments {
			if seg.SpeakerID() == sp.ID {
				own = append(own, seg)
			}
		}
		if len(own) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("transcript_%s_%s.%s", stamp, fileSafe(sp.ID), ext))
		if err := WriteTranscript(path, ext, own); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", sp.ID, err))
			continue
		}
		paths = append(paths, path)
	}
	if len(errs) > 0 {
		return paths, fmt.Errorf("transcript write errors: %s", strings.Join(errs, "; "))
	}
	return paths, nil
}

func renderText(segments []model.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "[%s] %s%s\n", timeline.FormatClock(seg.Start), speakerPrefix(seg), seg.Text)
	}
	return b.String()
}

func renderSRT(segments []model.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", timeline.FormatSRT(seg.Start), timeline.FormatSRT(seg.End))
		fmt.Fprintf(&b, "%s%s\n", speakerPrefix(seg), seg.Text)
	}
	return b.String()
}

func renderVTT(segments []model.Segment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, seg := range segments {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s --> %s\n", timeline.FormatVTT(seg.Start), timeline.FormatVTT(seg.End))
		if seg.Speaker != nil && seg.Speaker.Name != "" {
			fmt.Fprintf(&b, "<v %s>%s\n", seg.Speaker.Name, seg.Text)
			continue
		}
		fmt.Fprintf(&b, "%s\n", seg.Text)
	}
	return b.String()
}

func speakerPrefix(seg model.Segment) string {
	if seg.Speaker == nil || seg.Speaker.Name == "" {
		return ""
	}
	return seg.Speaker.Name + ": "
}

func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, id)
}

// atomicWrite writes data to path through a temp file and rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	committed = true
	return nil
}
