// Package waveform maps beat-aligned chunks of a track onto sample windows
// and turns peak data inside those windows into drawable geometry.
//
// Every function here is pure: the same inputs always give the same
// output, nothing is cached, and the peaks buffer is never written.
package waveform

// PreSongChunk is the chunk index of the sliver of audio pushed outside the
// regular grid by a non-zero beat offset.
const PreSongChunk = -1

// Config describes one render pass. It is built by the caller for every
// viewport change and never mutated here.
type Config struct {
	Width         float64 // pixels
	Height        float64 // pixels
	SampleRate    int     // Hz
	AudioDuration float64 // seconds
	BeatOffset    float64 // signed milliseconds
	ChunkDuration float64 // seconds, beatsPerLine * 60 / bpm
}

// ChunkBounds is the window a single chunk covers.
type ChunkBounds struct {
	StartSample int
	EndSample   int
	StartTimeMs float64
	EndTimeMs   float64
}

// SampleCount is the number of samples inside the window.
func (b ChunkBounds) SampleCount() int {
	return b.EndSample - b.StartSample
}

// DurationMs is the length of the window in milliseconds.
func (b ChunkBounds) DurationMs() float64 {
	return b.EndTimeMs - b.StartTimeMs
}

// Contains reports whether timeMs falls in [StartTimeMs, EndTimeMs).
func (b ChunkBounds) Contains(timeMs float64) bool {
	return timeMs >= b.StartTimeMs && timeMs < b.EndTimeMs
}

// PeakBar is the min/max amplitude over a run of samples.
type PeakBar struct {
	Min float64
	Max float64
}

// Amplitude is the larger of |Min| and |Max|.
func (p PeakBar) Amplitude() float64 {
	lo, hi := p.Min, p.Max
	if lo < 0 {
		lo = -lo
	}
	if hi < 0 {
		hi = -hi
	}
	if lo > hi {
		return lo
	}
	return hi
}

// RenderBar is a screen-space rectangle.
//
// IsEmpty is false on every bar this package emits; blank regions are
// represented by bars that were never emitted.
type RenderBar struct {
	X       float64
	Y       float64
	Width   float64
	Height  float64
	IsEmpty bool
}

type LineType int

const (
	LineBeat LineType = iota
	LineQuarter
)

func (t LineType) String() string {
	switch t {
	case LineQuarter:
		return "quarter"
	default:
		return "beat"
	}
}

// BeatGridLine is an interior grid marker at X pixels from the chunk's left edge.
type BeatGridLine struct {
	X    float64
	Type LineType
}
