package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"musicality/internal/session"
	"musicality/pkg/waveform"
)

// Settings holds the practice defaults, loaded from environment variables.
// Command-line flags override them.
type Settings struct {
	BPM          float64 // 0 means take it from the file's tags, else DefaultBPM
	BeatsPerLine int
	OffsetMs     float64
	RectsPerBeat string // "auto" or a count
	Theme        string
	Debug        bool
}

// DefaultBPM is used when neither the environment, flags nor tags give one.
const DefaultBPM = 120.0

// Load reads settings from the environment with sane defaults.
func Load() Settings {
	return Settings{
		BPM:          envFloat("MUSICALITY_BPM", 0),
		BeatsPerLine: envInt("MUSICALITY_BEATS_PER_LINE", 8),
		OffsetMs:     envFloat("MUSICALITY_OFFSET_MS", 0),
		RectsPerBeat: envStr("MUSICALITY_RECTS", "auto"),
		Theme:        envStr("MUSICALITY_THEME", "default"),
		Debug:        envBool("MUSICALITY_DEBUG", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

// SessionOptions resolves the settings into session options. BPM comes
// from the settings when set, then from tagBPM when it is in range, and
// falls back to DefaultBPM.
func (s Settings) SessionOptions(tagBPM float64) (session.Options, error) {
	rects, err := waveform.ParseRectsPerBeat(s.RectsPerBeat)
	if err != nil {
		return session.Options{}, fmt.Errorf("rects per beat: %w", err)
	}

	bpm := s.BPM
	if bpm <= 0 {
		bpm = DefaultBPM
		if tagBPM >= session.MinBPM && tagBPM <= session.MaxBPM {
			bpm = tagBPM
		}
	}

	return session.Options{
		BPM:          bpm,
		BeatsPerLine: s.BeatsPerLine,
		OffsetMs:     s.OffsetMs,
		RectsPerBeat: rects,
	}, nil
}
