package waveform

import "math"

// ComputeBounds returns the window covered by chunkIndex.
//
// Index PreSongChunk covers the material before the first full grid line:
// with a positive offset it is the tail of a nominal chunk, with a negative
// offset it is exactly the offset's magnitude, and with no offset it is
// empty. Out-of-range inputs collapse to empty windows instead of failing.
func ComputeBounds(chunkIndex int, cfg Config) ChunkBounds {
	start, end := chunkWindow(chunkIndex, cfg)

	start = math.Max(0, start)
	end = math.Min(cfg.AudioDuration, end)
	if start > cfg.AudioDuration {
		start = math.Max(0, cfg.AudioDuration)
	}
	if end < start {
		end = start
	}

	return ChunkBounds{
		StartSample: toSample(start, cfg.SampleRate),
		EndSample:   toSample(end, cfg.SampleRate),
		StartTimeMs: start * 1000,
		EndTimeMs:   end * 1000,
	}
}

// chunkWindow is the unclamped window in seconds.
func chunkWindow(chunkIndex int, cfg Config) (start, end float64) {
	offsetSec := math.Abs(cfg.BeatOffset) / 1000
	d := cfg.ChunkDuration

	if chunkIndex == PreSongChunk {
		switch {
		case cfg.BeatOffset > 0:
			return 0, d - offsetSec
		case cfg.BeatOffset < 0:
			return 0, offsetSec
		default:
			return 0, 0
		}
	}

	i := float64(chunkIndex)
	switch {
	case cfg.BeatOffset > 0:
		start = d - offsetSec + i*d
	case cfg.BeatOffset < 0:
		start = i*d + offsetSec
	default:
		start = i * d
	}
	return start, start + d
}

func toSample(sec float64, sampleRate int) int {
	if sampleRate <= 0 {
		return 0
	}
	return int(math.Floor(sec * float64(sampleRate)))
}

// HasPreSong reports whether chunk PreSongChunk holds anything worth drawing.
func HasPreSong(cfg Config) bool {
	if cfg.BeatOffset == 0 {
		return false
	}
	b := ComputeBounds(PreSongChunk, cfg)
	return b.EndTimeMs > b.StartTimeMs
}

// ChunkCount is the number of non-negative chunks needed to reach the end
// of the track.
func ChunkCount(cfg Config) int {
	if cfg.ChunkDuration <= 0 || cfg.AudioDuration <= 0 {
		return 0
	}
	first, _ := chunkWindow(0, cfg)
	remaining := cfg.AudioDuration - first
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining / cfg.ChunkDuration))
}

// ChunkAt returns the chunk whose window contains timeMs. Times before the
// first grid line belong to PreSongChunk when it is drawable, otherwise to
// chunk 0. Times past the end belong to the last chunk.
func ChunkAt(timeMs float64, cfg Config) int {
	if cfg.ChunkDuration <= 0 {
		return 0
	}
	first, _ := chunkWindow(0, cfg)
	sec := timeMs / 1000
	if sec < first {
		if HasPreSong(cfg) {
			return PreSongChunk
		}
		return 0
	}
	idx := int(math.Floor((sec - first) / cfg.ChunkDuration))
	if n := ChunkCount(cfg); n > 0 && idx >= n {
		idx = n - 1
	}
	return idx
}
