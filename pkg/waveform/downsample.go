package waveform

import "gonum.org/v1/gonum/floats"

// Downsample reduces peaks[startSample:endSample] to exactly targetBars
// min/max pairs. Each bar covers floor(range/targetBars) samples (at least
// one); samples outside the buffer are skipped, so a bar with nothing to
// read reports {0, 0}.
func Downsample(peaks []float64, startSample, endSample, targetBars int) []PeakBar {
	if targetBars < 1 {
		targetBars = 1
	}

	samplesPerBar := (endSample - startSample) / targetBars
	if samplesPerBar < 1 {
		samplesPerBar = 1
	}

	bars := make([]PeakBar, targetBars)
	for i := range bars {
		from := startSample + i*samplesPerBar
		to := from + samplesPerBar
		if to > endSample {
			to = endSample
		}
		bars[i] = aggregate(peaks, from, to)
	}
	return bars
}

// aggregate folds peaks[from:to] into a bar whose accumulators start at zero.
func aggregate(peaks []float64, from, to int) PeakBar {
	if from < 0 {
		from = 0
	}
	if to > len(peaks) {
		to = len(peaks)
	}
	if from >= to {
		return PeakBar{}
	}

	window := peaks[from:to]
	return PeakBar{
		Min: min(0, floats.Min(window)),
		Max: max(0, floats.Max(window)),
	}
}
