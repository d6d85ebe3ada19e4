package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"musicality/internal/logging"
	"musicality/internal/session"
)

// Peaks is a mono amplitude buffer, one value per sample, normalised to
// [-1, 1], plus what is needed to index it by time.
type Peaks struct {
	Data       []float64
	SampleRate int
	Duration   float64 // seconds
	Meta       *Metadata
}

// SupportedExtensions lists the formats LoadPeaks can decode.
var SupportedExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
}

// LoadPeaks decodes the file at path into a peak buffer. progressFn, when
// set, receives the decoded fraction in [0, 1]. Decoding stops with
// ctx.Err() when ctx is cancelled.
func LoadPeaks(ctx context.Context, path string, progressFn func(float64)) (*Peaks, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !SupportedExtensions[ext] {
		return nil, fmt.Errorf("unsupported format %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	startTime := time.Now()

	var (
		pcm        []float64
		sampleRate int
	)
	switch ext {
	case ".mp3":
		pcm, sampleRate, err = decodeMP3(ctx, data, progressFn)
	case ".wav":
		pcm, sampleRate, err = decodeWAV(ctx, bytes.NewReader(data), progressFn)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("decode %s: invalid sample rate (%d)", filepath.Base(path), sampleRate)
	}

	meta, err := ExtractMetadata(data)
	if err != nil {
		logging.Debugf("no tags in %s: %v", path, err)
		meta = &Metadata{}
	}
	meta.fillDefaults(path)
	meta.Format = strings.TrimPrefix(ext, ".")

	if progressFn != nil {
		progressFn(1)
	}

	p := &Peaks{
		Data:       pcm,
		SampleRate: sampleRate,
		Duration:   float64(len(pcm)) / float64(sampleRate),
		Meta:       meta,
	}
	logging.Debugf("LoadPeaks: %s decoded %d samples at %d Hz (%.2f sec) in %v",
		filepath.Base(path), len(pcm), sampleRate, p.Duration, time.Since(startTime))
	return p, nil
}

// Track describes the decoded buffer for a practice session.
func (p *Peaks) Track() session.Track {
	t := session.Track{SampleRate: p.SampleRate, Duration: p.Duration}
	if p.Meta != nil {
		t.Title = p.Meta.Title
		t.Artist = p.Meta.Artist
	}
	return t
}

// TagBPM is the tempo stored in the file's tags, or 0.
func (p *Peaks) TagBPM() float64 {
	if p.Meta == nil {
		return 0
	}
	return p.Meta.BPM
}

func reportProgress(progressFn func(float64), done, total int64) {
	if progressFn == nil || total <= 0 {
		return
	}
	fraction := float64(done) / float64(total)
	if fraction > 1 {
		fraction = 1
	}
	progressFn(fraction)
}
