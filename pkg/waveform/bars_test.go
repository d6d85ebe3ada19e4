package waveform

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestGenerateBars(t *testing.T) {
	peaks := []float64{1, -1, 0.5, 0, 0, 0, -0.25, 0.25}
	bounds := ChunkBounds{StartSample: 0, EndSample: 8, StartTimeMs: 0, EndTimeMs: 8}
	got := GenerateBars(peaks, bounds, 100, 100, 4)

	want := []RenderBar{
		{X: 0, Y: 30, Width: 24, Height: 40},
		{X: 25, Y: 40, Width: 24, Height: 20},
		{X: 50, Y: 50, Width: 24, Height: 1},
		{X: 75, Y: 45, Width: 24, Height: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !barsEqual(got[i], want[i]) {
			t.Errorf("bar %d = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].IsEmpty {
			t.Errorf("bar %d has IsEmpty set", i)
		}
	}
}

func TestGenerateBarsMinimumWidth(t *testing.T) {
	peaks := make([]float64, 100)
	bounds := ChunkBounds{EndSample: 100}
	for _, b := range GenerateBars(peaks, bounds, 50, 20, 100) {
		if b.Width != 1 {
			t.Fatalf("bar width = %v, want 1", b.Width)
		}
		if b.Height != 1 {
			t.Fatalf("bar height = %v, want 1", b.Height)
		}
	}
}

func TestGenerateBarsPreSongNegativeOffset(t *testing.T) {
	cfg := Config{Width: 800, Height: 100, SampleRate: 1000, AudioDuration: 10, BeatOffset: -500, ChunkDuration: 2}
	bounds := ComputeBounds(PreSongChunk, cfg)
	peaks := constantPeaks(2000, 0.5)

	got := GenerateBars(peaks, bounds, cfg.Width, cfg.Height, 8, WithPreSong(PreSongChunk, cfg.BeatOffset, cfg.ChunkDuration))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, x := range []float64{600, 700} {
		if got[i].X != x {
			t.Errorf("bar %d X = %v, want %v", i, got[i].X, x)
		}
		if !scalar.EqualWithinAbs(got[i].Height, 20, tol) {
			t.Errorf("bar %d height = %v, want 20", i, got[i].Height)
		}
	}
}

func TestGenerateBarsPreSongPositiveOffset(t *testing.T) {
	cfg := Config{Width: 800, Height: 100, SampleRate: 1000, AudioDuration: 10, BeatOffset: 500, ChunkDuration: 2}
	bounds := ComputeBounds(PreSongChunk, cfg)
	peaks := constantPeaks(2000, 0.5)

	got := GenerateBars(peaks, bounds, cfg.Width, cfg.Height, 8, WithPreSong(PreSongChunk, cfg.BeatOffset, cfg.ChunkDuration))
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i, b := range got {
		if want := float64(200 + 100*i); b.X != want {
			t.Errorf("bar %d X = %v, want %v", i, b.X, want)
		}
	}
}

func TestGenerateBarsPreSongEmpty(t *testing.T) {
	peaks := constantPeaks(2000, 0.5)

	cfg := Config{Width: 800, Height: 100, SampleRate: 1000, AudioDuration: 10, ChunkDuration: 2}
	bounds := ComputeBounds(PreSongChunk, cfg)
	if got := GenerateBars(peaks, bounds, 800, 100, 8, WithPreSong(PreSongChunk, 0, 2)); len(got) != 0 {
		t.Errorf("zero offset pre-song returned %d bars", len(got))
	}

	// a one-millisecond sliver still lands in the last bar
	cfg.BeatOffset = -1
	bounds = ComputeBounds(PreSongChunk, cfg)
	got := GenerateBars(peaks, bounds, 800, 100, 8, WithPreSong(PreSongChunk, -1, 2))
	if len(got) != 1 || got[0].X != 700 {
		t.Errorf("sliver pre-song = %+v, want one bar at X=700", got)
	}

	// an offset as long as the chunk leaves nothing before the grid
	cfg.BeatOffset = 2000
	bounds = ComputeBounds(PreSongChunk, cfg)
	if got := GenerateBars(peaks, bounds, 800, 100, 8, WithPreSong(PreSongChunk, 2000, 2)); len(got) != 0 {
		t.Errorf("full-chunk offset pre-song returned %d bars", len(got))
	}

	if got := GenerateBars(peaks, ChunkBounds{EndSample: 100}, 800, 100, 8, WithPreSong(PreSongChunk, -500, 0)); len(got) != 0 {
		t.Errorf("zero chunk duration returned %d bars", len(got))
	}
}

func TestGenerateBarsRegularChunkIgnoresPreSongPath(t *testing.T) {
	peaks := constantPeaks(100, 0.5)
	bounds := ChunkBounds{EndSample: 100}
	got := GenerateBars(peaks, bounds, 800, 100, 8, WithPreSong(3, -500, 2))
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if got[0].X != 0 {
		t.Errorf("first bar X = %v, want 0", got[0].X)
	}
}

func TestGenerateBarsNonPositiveTarget(t *testing.T) {
	got := GenerateBars(constantPeaks(10, 1), ChunkBounds{EndSample: 10}, 100, 100, 0)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Width != 99 {
		t.Errorf("width = %v, want 99", got[0].Width)
	}
}

func constantPeaks(n int, v float64) []float64 {
	peaks := make([]float64, n)
	for i := range peaks {
		peaks[i] = v
	}
	return peaks
}

func barsEqual(a, b RenderBar) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Width, b.Width, tol) &&
		scalar.EqualWithinAbs(a.Height, b.Height, tol) &&
		a.IsEmpty == b.IsEmpty
}
