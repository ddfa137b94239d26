// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/cutline/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Editor EditorConfig `toml:"editor"`
	Export ExportConfig `toml:"export"`
	TTS    TTSConfig    `toml:"tts"`
	Macros MacrosConfig `toml:"macros"`
}

// EditorConfig maps editing session settings.
type EditorConfig struct {
	UndoCapacity *int  `toml:"undo-capacity"`
	Strict       *bool `toml:"strict"`
	Autosave     *bool `toml:"autosave"`
}

// ExportConfig maps export settings.
type ExportConfig struct {
	Format           *string `toml:"format"`
	Quality          *string `toml:"quality"`
	SplitSpeakers    *bool   `toml:"split-speakers"`
	IncludeChapters  *bool   `toml:"include-chapters"`
	EmbedTranscript  *bool   `toml:"embed-transcript"`
	TranscriptFormat *string `toml:"transcript-format"`
}

// TTSConfig maps speech synthesis settings.
type TTSConfig struct {
	VoiceModel *string  `toml:"voice-model"`
	Pitch      *float64 `toml:"pitch"`
	Speed      *float64 `toml:"speed"`
	Emotion    *string  `toml:"emotion"`
}

// MacrosConfig maps macro settings.
type MacrosConfig struct {
	FillerList *string `toml:"filler-list"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values set in the file onto base.
func (c ExportConfig) Apply(base model.ExportSettings) model.ExportSettings {
	if c.Format != nil {
		base.Format = *c.Format
	}
	if c.Quality != nil {
		base.Quality = *c.Quality
	}
	if c.SplitSpeakers != nil {
		base.SplitSpeakers = *c.SplitSpeakers
	}
	if c.IncludeChapters != nil {
		base.IncludeChapters = *c.IncludeChapters
	}
	if c.EmbedTranscript != nil {
		base.EmbedTranscript = *c.EmbedTranscript
	}
	if c.TranscriptFormat != nil {
		base.TranscriptFormat = *c.TranscriptFormat
	}
	return base
}

// Apply overlays the values set in the file onto base.
func (c TTSConfig) Apply(base model.TTSSettings) model.TTSSettings {
	if c.VoiceModel != nil {
		base.VoiceModel = *c.VoiceModel
	}
	if c.Pitch != nil {
		base.Pitch = *c.Pitch
	}
	if c.Speed != nil {
		base.Speed = *c.Speed
	}
	if c.Emotion != nil {
		base.Emotion = *c.Emotion
	}
	return base
}
