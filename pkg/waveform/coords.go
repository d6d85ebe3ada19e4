package waveform

// TimeToPixel places timeMs on a chunk drawn width pixels wide, clamped to
// [0, width].
func TimeToPixel(timeMs float64, bounds ChunkBounds, width float64) float64 {
	span := bounds.DurationMs()
	if span <= 0 {
		return 0
	}
	progress := clampUnit((timeMs - bounds.StartTimeMs) / span)
	return progress * width
}

// PixelToTime is the inverse of TimeToPixel. Pixels outside the chunk map
// to its nearest edge.
func PixelToTime(x float64, bounds ChunkBounds, width float64) float64 {
	if width <= 0 {
		return bounds.StartTimeMs
	}
	progress := clampUnit(x / width)
	return bounds.StartTimeMs + progress*bounds.DurationMs()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
