package waveform

// GenerateGrid returns the interior beat lines of a chunk split into
// beatsPerChunk beats. The first and last beat sit on the chunk edges and
// get no line. Every fourth beat is a quarter-group marker.
func GenerateGrid(beatsPerChunk int, width float64) []BeatGridLine {
	if beatsPerChunk < 2 {
		return nil
	}

	lines := make([]BeatGridLine, 0, beatsPerChunk-1)
	for i := 1; i < beatsPerChunk; i++ {
		t := LineBeat
		if i%4 == 0 {
			t = LineQuarter
		}
		lines = append(lines, BeatGridLine{
			X:    float64(i) / float64(beatsPerChunk) * width,
			Type: t,
		})
	}
	return lines
}
