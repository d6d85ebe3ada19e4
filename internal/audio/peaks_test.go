package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes a 16-bit stereo file whose left channel holds left and
// right channel holds right on every frame.
func writeWAV(t *testing.T, path string, sampleRate, frames, left, right int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	data := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		data[i*2] = left
		data[i*2+1] = right
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestLoadPeaksWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drums.wav")
	writeWAV(t, path, 8000, 8000, 16384, 0)

	var progress []float64
	p, err := LoadPeaks(context.Background(), path, func(f float64) {
		progress = append(progress, f)
	})
	if err != nil {
		t.Fatalf("LoadPeaks: %v", err)
	}

	if p.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", p.SampleRate)
	}
	if len(p.Data) != 8000 {
		t.Fatalf("len(Data) = %d, want 8000", len(p.Data))
	}
	if p.Duration != 1 {
		t.Errorf("Duration = %v, want 1", p.Duration)
	}
	for i, v := range p.Data {
		if v != 0.25 {
			t.Fatalf("Data[%d] = %v, want 0.25", i, v)
		}
	}

	if len(progress) == 0 || progress[len(progress)-1] != 1 {
		t.Errorf("progress = %v, want to end at 1", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("progress went backwards: %v", progress)
			break
		}
	}

	if p.Meta.Title != "drums" || p.Meta.Artist != "Unknown Artist" || p.Meta.Format != "wav" {
		t.Errorf("Meta = %+v", p.Meta)
	}
}

func TestLoadPeaksCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.wav")
	writeWAV(t, path, 8000, 16000, 100, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadPeaks(ctx, path, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadPeaks error = %v, want context.Canceled", err)
	}
}

func TestLoadPeaksRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	garbage := []byte("definitely not audio data at all")

	tests := []struct {
		name string
		file string
	}{
		{"unsupported extension", "song.flac"},
		{"corrupt mp3", "song.mp3"},
		{"corrupt wav", "song.wav"},
		{"missing file", "missing.wav"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.file)
		if tt.file != "missing.wav" {
			if err := os.WriteFile(path, garbage, 0600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
		}
		if _, err := LoadPeaks(context.Background(), path, nil); err == nil {
			t.Errorf("%s: LoadPeaks returned nil error", tt.name)
		}
	}
}

func TestDecodeWAVAveragesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.wav")
	writeWAV(t, path, 4000, 10, 32767, -32767)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	pcm, sr, err := decodeWAV(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if sr != 4000 || len(pcm) != 10 {
		t.Fatalf("decodeWAV = %d samples at %d Hz", len(pcm), sr)
	}
	for i, v := range pcm {
		if v != 0 {
			t.Errorf("pcm[%d] = %v, want 0", i, v)
		}
	}
}

func TestLoadPeaksWAV8Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lofi.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	// Unsigned 8-bit mono: 128 is silence, 192 and 64 are half scale.
	data := make([]int, 800)
	for i := range data {
		switch {
		case i < 400:
			data[i] = 128
		case i%2 == 0:
			data[i] = 192
		default:
			data[i] = 64
		}
	}
	enc := wav.NewEncoder(f, 8000, 8, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 8,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	f.Close()

	p, err := LoadPeaks(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("LoadPeaks: %v", err)
	}
	if len(p.Data) != 800 {
		t.Fatalf("len(Data) = %d, want 800", len(p.Data))
	}
	for i, v := range p.Data {
		want := 0.0
		switch {
		case i < 400:
		case i%2 == 0:
			want = 0.5
		default:
			want = -0.5
		}
		if v != want {
			t.Fatalf("Data[%d] = %v, want %v", i, v, want)
		}
	}
}
