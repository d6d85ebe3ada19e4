package waveform

import (
	"fmt"
	"strconv"
	"strings"
)

// Limits for the Auto rects-per-beat policy.
const (
	MinRectPixels = 3
	AutoFloor     = 1
	AutoCeiling   = 16
)

// RectsPerBeat picks how many bars each beat is split into: either a fixed
// count or a count derived from the viewport width.
type RectsPerBeat struct {
	auto  bool
	count int
}

// Auto sizes bars from the viewport.
func Auto() RectsPerBeat {
	return RectsPerBeat{auto: true}
}

// Fixed always uses n bars per beat.
func Fixed(n int) RectsPerBeat {
	return RectsPerBeat{count: n}
}

// IsAuto reports whether r follows the viewport.
func (r RectsPerBeat) IsAuto() bool {
	return r.auto
}

// Resolve returns the bars per beat for a chunk width pixels wide holding
// beatsPerChunk beats.
//
// Fixed counts are floored at 1. Auto fits as many bars as keep each one at
// least MinRectPixels wide, bounded by AutoFloor and AutoCeiling.
func (r RectsPerBeat) Resolve(width float64, beatsPerChunk int) int {
	if !r.auto {
		return max(1, r.count)
	}
	if beatsPerChunk < 1 {
		beatsPerChunk = 1
	}
	fit := int(width / float64(beatsPerChunk*MinRectPixels))
	return min(AutoCeiling, max(AutoFloor, fit))
}

// TargetBars is the total bar count for one chunk.
func (r RectsPerBeat) TargetBars(width float64, beatsPerChunk int) int {
	return max(1, beatsPerChunk) * r.Resolve(width, beatsPerChunk)
}

func (r RectsPerBeat) String() string {
	if r.auto {
		return "auto"
	}
	return strconv.Itoa(r.count)
}

// ParseRectsPerBeat accepts "auto" or a positive integer.
func ParseRectsPerBeat(s string) (RectsPerBeat, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return Auto(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return RectsPerBeat{}, fmt.Errorf("invalid rects per beat %q: %w", s, err)
	}
	if n < 1 {
		return RectsPerBeat{}, fmt.Errorf("rects per beat must be at least 1, got %d", n)
	}
	return Fixed(n), nil
}
