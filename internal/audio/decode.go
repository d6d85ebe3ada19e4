package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// decodeMP3 converts MP3 bytes to a mono float64 slice. go-mp3 always
// yields 16-bit little-endian stereo.
func decodeMP3(ctx context.Context, mp3Bytes []byte, progressFn func(float64)) ([]float64, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(mp3Bytes))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to init mp3 decoder: %w", err)
	}

	const frameSize = 4
	total := dec.Length()

	pcm := make([]float64, 0, max(0, total/frameSize))
	var totalRead int64

	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		n, readErr := dec.Read(buf)
		frames := n / frameSize
		for i := 0; i < frames; i++ {
			left := int16(buf[i*4+0]) | int16(buf[i*4+1])<<8
			right := int16(buf[i*4+2]) | int16(buf[i*4+3])<<8
			pcm = append(pcm, (float64(left)+float64(right))*0.5/32768.0)
		}
		totalRead += int64(frames * frameSize)
		reportProgress(progressFn, totalRead, total)

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("decode mp3 read error: %w", readErr)
		}
	}

	return pcm, dec.SampleRate(), nil
}

// decodeWAV reads PCM through go-audio in blocks, averaging channels and
// scaling by the source bit depth. 8-bit WAV is unsigned around 128.
func decodeWAV(ctx context.Context, r io.ReadSeeker, progressFn func(float64)) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 || bitDepth < 8 {
		return nil, 0, fmt.Errorf("unsupported wav layout (%d channels, %d bit)", channels, bitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))
	var bias float64
	if bitDepth == 8 {
		bias = 128
	}

	// PCMLen is only known once the data chunk has been reached.
	if err := dec.FwdToPCM(); err != nil {
		return nil, 0, fmt.Errorf("find wav data chunk: %w", err)
	}

	totalSamples := dec.PCMLen() / int64(bitDepth/8)
	pcm := make([]float64, 0, max(0, totalSamples/int64(channels)))

	buf := &audio.IntBuffer{
		Format:         dec.Format(),
		Data:           make([]int, 4096*channels),
		SourceBitDepth: bitDepth,
	}

	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, 0, fmt.Errorf("decode wav read error: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		for f := 0; f < frames; f++ {
			var sum float64
			for c := 0; c < channels; c++ {
				sum += float64(buf.Data[f*channels+c]) - bias
			}
			pcm = append(pcm, sum/float64(channels)/scale)
		}
		read += int64(n)
		reportProgress(progressFn, read, totalSamples)
	}

	return pcm, int(dec.SampleRate), nil
}
