package macro

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/cutline/internal/editor"
	"github.com/verte-zerg/cutline/internal/model"
)

// RegenMarker prefixes the text recorded for a regeneration until the
// synthesis backend confirms the spoken text.
const RegenMarker = "[TTS Generated] "

// ErrUnknownMacro is returned for macro ids outside IDs.
var ErrUnknownMacro = errors.New("unknown macro")

// Result is the outcome of running a macro on a segment. HasText is false
// for macros that only affect audio; a text macro may legitimately produce
// an empty ProcessedText when everything was removed.
type Result struct {
	MacroID       string
	SegmentID     string
	ProcessedText string
	HasText       bool
}

// Changed reports whether the macro produced text differing from original.
func (r Result) Changed(original string) bool {
	return r.HasText && r.ProcessedText != original
}

// TTSPatch is a partial update of TTS settings; nil fields are kept.
type TTSPatch struct {
	VoiceModel *string
	Pitch      *float64
	Speed      *float64
	Emotion    *string
}

// DefaultTTSSettings returns the built-in synthesis settings.
func DefaultTTSSettings() model.TTSSettings {
	return model.TTSSettings{VoiceModel: "xtts-v2", Pitch: 0, Speed: 1, Emotion: "neutral"}
}

// Engine runs macros against an editor and records regenerations.
type Engine struct {
	ed       *editor.Editor
	log      RegenLog
	settings Settings
	enabled  map[string]bool
	tts      model.TTSSettings
	fillers  *FillerRemover
	now      func() time.Time
}

// NewEngine creates an engine over ed with default macro settings.
func NewEngine(ed *editor.Editor, tts model.TTSSettings) *Engine {
	return &Engine{
		ed:       ed,
		settings: DefaultSettings(),
		enabled:  map[string]bool{},
		tts:      tts,
		fillers:  NewFillerRemover(nil),
		now:      time.Now,
	}
}

// SetFillers adds extra filler phrases to the removeFiller macro.
func (e *Engine) SetFillers(words []string) {
	e.fillers = NewFillerRemover(words)
}

// Log returns the regeneration log.
func (e *Engine) Log() *RegenLog {
	return &e.log
}

// Settings returns a copy of the macro settings.
func (e *Engine) Settings() Settings {
	return e.settings.Clone()
}

// UpdateSetting merges one option into a macro's settings.
func (e *Engine) UpdateSetting(macroID, key string, value any) {
	e.settings.Update(macroID, key, value)
}

// Toggle flips whether a macro runs in ApplyEnabled and returns the new state.
func (e *Engine) Toggle(macroID string) bool {
	e.enabled[macroID] = !e.enabled[macroID]
	return e.enabled[macroID]
}

// Enabled reports whether a macro is toggled on.
func (e *Engine) Enabled(macroID string) bool {
	return e.enabled[macroID]
}

// TTS returns the current synthesis settings.
func (e *Engine) TTS() model.TTSSettings {
	return e.tts
}

// UpdateTTS merges the non-nil fields of p into the synthesis settings.
func (e *Engine) UpdateTTS(p TTSPatch) {
	if p.VoiceModel != nil {
		e.tts.VoiceModel = *p.VoiceModel
	}
	if p.Pitch != nil {
		e.tts.Pitch = *p.Pitch
	}
	if p.Speed != nil {
		e.tts.Speed = *p.Speed
	}
	if p.Emotion != nil {
		e.tts.Emotion = *p.Emotion
	}
}

// Regenerate logs a regeneration request for a segment. It does not change
// the segment text. It reports false when the segment does not exist.
func (e *Engine) Regenerate(segmentID string) (model.RegenEntry, bool) {
	seg, ok := e.ed.Segment(segmentID)
	if !ok {
		return model.RegenEntry{}, false
	}
	entry := model.RegenEntry{
		SegmentID:      segmentID,
		Timestamp:      e.now(),
		OriginalText:   seg.Text,
		NewText:        RegenMarker + seg.Text,
		TTSSettings:    e.tts,
		AudioGenerated: true,
	}
	e.log.Append(entry)
	return entry, true
}

// Run computes a macro's result for a segment without applying it. A
// missing segment yields an empty Result unless the editor is strict.
func (e *Engine) Run(macroID, segmentID string) (Result, error) {
	seg, ok := e.ed.Segment(segmentID)
	if !ok {
		return Result{}, e.missing(macroID, segmentID)
	}
	text, hasText, err := e.process(macroID, seg.Text)
	if err != nil {
		return Result{}, err
	}
	return Result{MacroID: macroID, SegmentID: segmentID, ProcessedText: text, HasText: hasText}, nil
}

// Apply forwards res.ProcessedText to the editor as a normal edit. Results
// without text leave the segment alone.
func (e *Engine) Apply(macroID, segmentID string, res Result) error {
	if !res.HasText {
		return nil
	}
	if err := e.ed.EditSegment(segmentID, res.ProcessedText); err != nil {
		return fmt.Errorf("apply %s: %w", macroID, err)
	}
	return nil
}

// ApplyEnabled runs every enabled text macro in order and applies the
// combined text as a single edit. It reports whether the text changed.
func (e *Engine) ApplyEnabled(segmentID string) (bool, error) {
	seg, ok := e.ed.Segment(segmentID)
	if !ok {
		return false, e.missing("enabled", segmentID)
	}
	text := seg.Text
	for _, id := range IDs {
		if !e.enabled[id] {
			continue
		}
		out, hasText, err := e.process(id, text)
		if err != nil {
			return false, err
		}
		if hasText {
			text = out
		}
	}
	res := Result{MacroID: "enabled", SegmentID: segmentID, ProcessedText: text, HasText: true}
	if !res.Changed(seg.Text) {
		return false, nil
	}
	return true, e.Apply(res.MacroID, segmentID, res)
}

func (e *Engine) missing(macroID, segmentID string) error {
	if !e.ed.Strict() {
		return nil
	}
	return fmt.Errorf("run %s on %s: %w", macroID, segmentID, editor.ErrSegmentNotFound)
}

// process reports false for macros that only affect audio.
func (e *Engine) process(macroID, text string) (string, bool, error) {
	opts := e.settings[macroID]
	switch macroID {
	case RemoveFiller:
		return e.fillers.Process(text, opts), true, nil
	case RemoveStutter:
		return RemoveStutterText(text, opts), true, nil
	case AdjustPacing, AdjustProsody, EnhanceClarity:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnknownMacro, macroID)
	}
}
