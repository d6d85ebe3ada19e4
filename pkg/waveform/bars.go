package waveform

import "math"

// visualRange is the share of the half-height a full-scale peak reaches,
// leaving a 10% margin at the top and bottom.
const visualRange = 0.8

type barOptions struct {
	chunkIndex    int
	beatOffset    float64
	chunkDuration float64
	preSong       bool
}

// BarOption tunes GenerateBars.
type BarOption func(*barOptions)

// WithPreSong marks the request as coming from chunkIndex with the given
// offset and chunk duration. Only PreSongChunk changes the output.
func WithPreSong(chunkIndex int, beatOffset, chunkDuration float64) BarOption {
	return func(o *barOptions) {
		o.chunkIndex = chunkIndex
		o.beatOffset = beatOffset
		o.chunkDuration = chunkDuration
		o.preSong = chunkIndex == PreSongChunk
	}
}

// GenerateBars turns the peaks inside bounds into targetBars rectangles
// across width, centred vertically in height.
//
// For the pre-song chunk only the bars to the right of the point where
// the song starts are produced; the space before it is left to the
// caller's background.
func GenerateBars(peaks []float64, bounds ChunkBounds, width, height float64, targetBars int, opts ...BarOption) []RenderBar {
	var o barOptions
	for _, opt := range opts {
		opt(&o)
	}
	if targetBars < 1 {
		targetBars = 1
	}
	barWidth := width / float64(targetBars)

	if o.preSong {
		return preSongBars(peaks, bounds, barWidth, height, targetBars, o)
	}

	peakBars := Downsample(peaks, bounds.StartSample, bounds.EndSample, targetBars)
	bars := make([]RenderBar, len(peakBars))
	for i, p := range peakBars {
		bars[i] = barAt(float64(i)*barWidth, barWidth, height, p)
	}
	return bars
}

func preSongBars(peaks []float64, bounds ChunkBounds, barWidth, height float64, targetBars int, o barOptions) []RenderBar {
	if o.chunkDuration <= 0 || bounds.SampleCount() <= 0 {
		return nil
	}

	offsetSec := math.Abs(o.beatOffset) / 1000
	var songStartPosition float64
	if o.beatOffset > 0 {
		songStartPosition = offsetSec / o.chunkDuration
	} else {
		songStartPosition = (o.chunkDuration - offsetSec) / o.chunkDuration
	}

	songStartBar := int(math.Floor(songStartPosition * float64(targetBars)))
	if songStartBar < 0 {
		songStartBar = 0
	}
	songBarsCount := targetBars - songStartBar
	if songBarsCount <= 0 {
		return nil
	}

	peakBars := Downsample(peaks, bounds.StartSample, bounds.EndSample, songBarsCount)
	bars := make([]RenderBar, len(peakBars))
	for i, p := range peakBars {
		bars[i] = barAt(float64(songStartBar+i)*barWidth, barWidth, height, p)
	}
	return bars
}

func barAt(x, barWidth, height float64, p PeakBar) RenderBar {
	barHeight := p.Amplitude() * (height / 2) * visualRange
	return RenderBar{
		X:      x,
		Y:      height/2 - barHeight/2,
		Width:  math.Max(1, barWidth-1),
		Height: math.Max(1, barHeight),
	}
}
