// Package viz draws waveform lines in the terminal. It is a caller of
// pkg/waveform: it decides which chunks to compute, memoizes them, and
// rasterizes the geometry into styled text.
package viz

import (
	"musicality/pkg/waveform"
)

// LineRequest identifies one line to compute.
type LineRequest struct {
	Index         int
	Config        waveform.Config
	TargetBars    int
	BeatsPerChunk int
}

// Line is the computed geometry of one chunk. Width and height are in
// terminal cells; the vertical axis uses half-cell resolution.
type Line struct {
	Index  int
	Bounds waveform.ChunkBounds
	Bars   []waveform.RenderBar
	Grid   []waveform.BeatGridLine
}

// Marker is an annotation to draw under a line.
type Marker struct {
	TimeMs   float64
	Label    string
	Selected bool
}

// Overlay holds the per-frame decorations of a line.
type Overlay struct {
	PlayheadMs  float64
	HasPlayhead bool
	Markers     []Marker
	Selected    bool
}

// PixelHeight is the engine height used for a line drawn rows cells tall.
func PixelHeight(rows int) float64 {
	return float64(rows * 2)
}
