// Package session holds the practice state for one loaded track: tempo,
// line length, beat offset, bar density, cursor and annotations.
//
// A Session is created explicitly and passed to whoever needs it; it is
// the only place the waveform configuration is derived from.
package session

import (
	"fmt"
	"math"
	"sort"

	"musicality/pkg/waveform"
)

const (
	MinBPM          = 20.0
	MaxBPM          = 400.0
	MinBeatsPerLine = 1
	MaxBeatsPerLine = 64
)

// Track describes the loaded audio.
type Track struct {
	Title      string
	Artist     string
	SampleRate int
	Duration   float64 // seconds
}

// Options seeds a Session.
type Options struct {
	BPM          float64
	BeatsPerLine int
	OffsetMs     float64
	RectsPerBeat waveform.RectsPerBeat
}

// Annotation is a labelled marker at an absolute position in the track.
type Annotation struct {
	TimeMs float64
	Label  string
}

type Session struct {
	track        Track
	bpm          float64
	beatsPerLine int
	offsetMs     float64
	rects        waveform.RectsPerBeat
	positionMs   float64
	annotations  []Annotation
}

// New validates opts against the track and returns a ready session.
func New(track Track, opts Options) (*Session, error) {
	if track.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate (%d)", track.SampleRate)
	}
	if track.Duration < 0 {
		return nil, fmt.Errorf("invalid duration (%v)", track.Duration)
	}
	if opts.BPM < MinBPM || opts.BPM > MaxBPM {
		return nil, fmt.Errorf("bpm %.2f outside %.0f-%.0f", opts.BPM, MinBPM, MaxBPM)
	}
	if opts.BeatsPerLine < MinBeatsPerLine || opts.BeatsPerLine > MaxBeatsPerLine {
		return nil, fmt.Errorf("beats per line %d outside %d-%d", opts.BeatsPerLine, MinBeatsPerLine, MaxBeatsPerLine)
	}

	s := &Session{
		track:        track,
		bpm:          opts.BPM,
		beatsPerLine: opts.BeatsPerLine,
		rects:        opts.RectsPerBeat,
	}
	s.SetOffset(opts.OffsetMs)
	return s, nil
}

func (s *Session) Track() Track                        { return s.track }
func (s *Session) BPM() float64                        { return s.bpm }
func (s *Session) BeatsPerLine() int                   { return s.beatsPerLine }
func (s *Session) OffsetMs() float64                   { return s.offsetMs }
func (s *Session) RectsPerBeat() waveform.RectsPerBeat { return s.rects }
func (s *Session) PositionMs() float64                 { return s.positionMs }

// ChunkDuration is the length of one line in seconds.
func (s *Session) ChunkDuration() float64 {
	return float64(s.beatsPerLine) * 60 / s.bpm
}

// BeatDurationMs is the length of a single beat in milliseconds.
func (s *Session) BeatDurationMs() float64 {
	return 60000 / s.bpm
}

// WaveformConfig builds the render-pass configuration for a viewport.
func (s *Session) WaveformConfig(width, height float64) waveform.Config {
	return waveform.Config{
		Width:         width,
		Height:        height,
		SampleRate:    s.track.SampleRate,
		AudioDuration: s.track.Duration,
		BeatOffset:    s.offsetMs,
		ChunkDuration: s.ChunkDuration(),
	}
}

// TargetBars is the bar count for one line drawn width pixels wide.
func (s *Session) TargetBars(width float64) int {
	return s.rects.TargetBars(width, s.beatsPerLine)
}

// SetBPM clamps bpm to the supported range.
func (s *Session) SetBPM(bpm float64) {
	s.bpm = math.Max(MinBPM, math.Min(MaxBPM, bpm))
	s.SetOffset(s.offsetMs)
}

// SetBeatsPerLine clamps n to the supported range.
func (s *Session) SetBeatsPerLine(n int) {
	s.beatsPerLine = max(MinBeatsPerLine, min(MaxBeatsPerLine, n))
	s.SetOffset(s.offsetMs)
}

// ZoomIn halves the line length, ZoomOut doubles it.
func (s *Session) ZoomIn()  { s.SetBeatsPerLine(s.beatsPerLine / 2) }
func (s *Session) ZoomOut() { s.SetBeatsPerLine(s.beatsPerLine * 2) }

// SetOffset keeps the offset strictly shorter than a line, so the pre-song
// chunk never swallows a whole line.
func (s *Session) SetOffset(ms float64) {
	limit := s.ChunkDuration()*1000 - 1
	s.offsetMs = math.Max(-limit, math.Min(limit, ms))
}

// NudgeOffset shifts the beat grid by deltaMs.
func (s *Session) NudgeOffset(deltaMs float64) {
	s.SetOffset(s.offsetMs + deltaMs)
}

func (s *Session) SetRectsPerBeat(r waveform.RectsPerBeat) { s.rects = r }

// CycleRects steps through auto, 1, 2, 4, 8 bars per beat.
func (s *Session) CycleRects() {
	switch {
	case s.rects.IsAuto():
		s.rects = waveform.Fixed(1)
	case s.rects.Resolve(0, 1) >= 8:
		s.rects = waveform.Auto()
	default:
		s.rects = waveform.Fixed(s.rects.Resolve(0, 1) * 2)
	}
}

// Seek moves the cursor, clamped to the track.
func (s *Session) Seek(ms float64) {
	s.positionMs = math.Max(0, math.Min(s.track.Duration*1000, ms))
}

// Annotate adds a marker and returns its index in time order.
func (s *Session) Annotate(ms float64, label string) int {
	ms = math.Max(0, math.Min(s.track.Duration*1000, ms))
	i := sort.Search(len(s.annotations), func(i int) bool {
		return s.annotations[i].TimeMs > ms
	})
	s.annotations = append(s.annotations, Annotation{})
	copy(s.annotations[i+1:], s.annotations[i:])
	s.annotations[i] = Annotation{TimeMs: ms, Label: label}
	return i
}

// MoveAnnotation drags marker i to ms and returns its new index.
func (s *Session) MoveAnnotation(i int, ms float64) (int, error) {
	if i < 0 || i >= len(s.annotations) {
		return -1, fmt.Errorf("no annotation %d", i)
	}
	a := s.annotations[i]
	s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
	return s.Annotate(ms, a.Label), nil
}

// RemoveAnnotation deletes marker i.
func (s *Session) RemoveAnnotation(i int) error {
	if i < 0 || i >= len(s.annotations) {
		return fmt.Errorf("no annotation %d", i)
	}
	s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
	return nil
}

// Annotations returns a copy of every marker.
func (s *Session) Annotations() []Annotation {
	return append([]Annotation(nil), s.annotations...)
}

// AnnotationsIn returns the markers inside bounds, with their indexes. A
// marker on a line boundary belongs to the later line, except at the end
// of the track.
func (s *Session) AnnotationsIn(bounds waveform.ChunkBounds) ([]Annotation, []int) {
	end := s.track.Duration * 1000
	var found []Annotation
	var idx []int
	for i, a := range s.annotations {
		if bounds.Contains(a.TimeMs) || (a.TimeMs == bounds.EndTimeMs && bounds.EndTimeMs >= end) {
			found = append(found, a)
			idx = append(idx, i)
		}
	}
	return found, idx
}

// NearestAnnotation returns the index of the marker closest to ms within
// toleranceMs, or -1.
func (s *Session) NearestAnnotation(ms, toleranceMs float64) int {
	best, bestDist := -1, toleranceMs
	for i, a := range s.annotations {
		if d := math.Abs(a.TimeMs - ms); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
