package viz

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"musicality/pkg/waveform"
)

func testRequest(index int) LineRequest {
	return LineRequest{
		Index: index,
		Config: waveform.Config{
			Width:         80,
			Height:        8,
			SampleRate:    1000,
			AudioDuration: 10,
			BeatOffset:    0,
			ChunkDuration: 2,
		},
		TargetBars:    16,
		BeatsPerChunk: 4,
	}
}

func rampPeaks(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = float64(i%100)/100 - 0.5
	}
	return p
}

func TestManagerMemoizes(t *testing.T) {
	m := NewManager(rampPeaks(10000))

	first := m.Line(testRequest(1))
	second := m.Line(testRequest(1))
	if !reflect.DeepEqual(first, second) {
		t.Error("cached line differs from computed line")
	}

	hits, misses, entries := m.Stats()
	if hits != 1 || misses != 1 || entries != 1 {
		t.Errorf("Stats = %d hits, %d misses, %d entries; want 1, 1, 1", hits, misses, entries)
	}
}

func TestManagerKeyCoversInputs(t *testing.T) {
	m := NewManager(rampPeaks(10000))
	base := testRequest(0)
	m.Line(base)

	variants := []func(r *LineRequest){
		func(r *LineRequest) { r.Index = 1 },
		func(r *LineRequest) { r.TargetBars = 8 },
		func(r *LineRequest) { r.BeatsPerChunk = 8 },
		func(r *LineRequest) { r.Config.Width = 81 },
		func(r *LineRequest) { r.Config.Height = 6 },
		func(r *LineRequest) { r.Config.BeatOffset = 10 },
		func(r *LineRequest) { r.Config.ChunkDuration = 4 },
	}
	for i, v := range variants {
		req := base
		v(&req)
		m.Line(req)
		if _, misses, _ := m.Stats(); misses != i+2 {
			t.Errorf("variant %d hit the cache", i)
		}
	}
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := NewManager(rampPeaks(100))
	m.maxEntries = 2

	m.Line(testRequest(0))
	m.Line(testRequest(1))
	m.Line(testRequest(2))
	if _, _, entries := m.Stats(); entries != 1 {
		t.Errorf("entries = %d after overflow, want 1", entries)
	}

	m.Reset()
	if _, _, entries := m.Stats(); entries != 0 {
		t.Errorf("entries = %d after Reset", entries)
	}
}

func TestPrecompute(t *testing.T) {
	m := NewManager(rampPeaks(10000))
	reqs := []LineRequest{testRequest(0), testRequest(1), testRequest(2), testRequest(3), testRequest(4)}

	if err := m.Precompute(context.Background(), reqs); err != nil {
		t.Fatal(err)
	}
	if _, misses, entries := m.Stats(); misses != 5 || entries != 5 {
		t.Errorf("misses = %d, entries = %d; want 5, 5", misses, entries)
	}

	m.Line(testRequest(3))
	if hits, _, _ := m.Stats(); hits != 1 {
		t.Errorf("hits = %d after precompute, want 1", hits)
	}
}

func TestPrecomputeCancelled(t *testing.T) {
	m := NewManager(rampPeaks(10000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Precompute(ctx, []LineRequest{testRequest(0), testRequest(1)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestComputeLine(t *testing.T) {
	req := testRequest(2)
	line := ComputeLine(rampPeaks(10000), req)

	if line.Index != 2 {
		t.Errorf("Index = %d", line.Index)
	}
	want := waveform.ChunkBounds{StartSample: 4000, EndSample: 6000, StartTimeMs: 4000, EndTimeMs: 6000}
	if line.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", line.Bounds, want)
	}
	if len(line.Bars) != 16 {
		t.Errorf("len(Bars) = %d, want 16", len(line.Bars))
	}
	if len(line.Grid) != 3 {
		t.Errorf("len(Grid) = %d, want 3", len(line.Grid))
	}
}

func TestComputeLinePreSong(t *testing.T) {
	req := testRequest(waveform.PreSongChunk)
	req.Config.BeatOffset = 500 // pre-song covers the first 1.5 s

	line := ComputeLine(rampPeaks(10000), req)
	if line.Bounds.EndTimeMs != 1500 {
		t.Fatalf("EndTimeMs = %v, want 1500", line.Bounds.EndTimeMs)
	}
	// 0.5 s of a 2 s chunk is empty: the first quarter of the bars.
	if len(line.Bars) != 12 {
		t.Errorf("len(Bars) = %d, want 12", len(line.Bars))
	}
	if line.Bars[0].X != 20 {
		t.Errorf("first bar at X=%v, want 20", line.Bars[0].X)
	}
}
