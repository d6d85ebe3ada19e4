package waveform

import (
	"errors"
	"math"
)

var (
	ErrNonPositiveWidth         = errors.New("waveform: width must be positive")
	ErrNonPositiveHeight        = errors.New("waveform: height must be positive")
	ErrNonPositiveSampleRate    = errors.New("waveform: sample rate must be positive")
	ErrNegativeDuration         = errors.New("waveform: audio duration must not be negative")
	ErrNonPositiveChunkDuration = errors.New("waveform: chunk duration must be positive")
	ErrOffsetExceedsChunk       = errors.New("waveform: beat offset is longer than a chunk")
)

// Validate reports every reason cfg would make the generators fall back to
// empty or degenerate output. The generators themselves never fail; this
// is for callers that want to surface a bad configuration instead of
// drawing nothing. A nil result means cfg is usable.
func (c Config) Validate() error {
	var errs []error
	if !(c.Width > 0) {
		errs = append(errs, ErrNonPositiveWidth)
	}
	if !(c.Height > 0) {
		errs = append(errs, ErrNonPositiveHeight)
	}
	if c.SampleRate <= 0 {
		errs = append(errs, ErrNonPositiveSampleRate)
	}
	if c.AudioDuration < 0 || math.IsNaN(c.AudioDuration) {
		errs = append(errs, ErrNegativeDuration)
	}
	if !(c.ChunkDuration > 0) {
		errs = append(errs, ErrNonPositiveChunkDuration)
	} else if math.Abs(c.BeatOffset)/1000 > c.ChunkDuration {
		errs = append(errs, ErrOffsetExceedsChunk)
	}
	return errors.Join(errs...)
}
