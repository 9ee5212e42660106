// Package level measures block amplitude and maps it to needle driving force
package level

import "github.com/lixenwraith/vumeter/parameter"

// PeakAmplitudes scans an interleaved block once and writes max(|sample|)/32768 per channel into out
// out is grown if shorter than channels; the (possibly reallocated) slice is returned
// Trailing partial frames are ignored; empty blocks yield zero peaks
func PeakAmplitudes(samples []int16, channels int, out []float64) []float64 {
	if channels <= 0 {
		return out[:0]
	}
	if cap(out) < channels {
		out = make([]float64, channels)
	}
	out = out[:channels]
	for ch := range out {
		out[ch] = 0
	}

	frames := len(samples) / channels
	for i := 0; i < frames; i++ {
		frame := samples[i*channels : (i+1)*channels]
		for ch, s := range frame {
			amp := float64(s)
			if amp < 0 {
				amp = -amp
			}
			if amp > out[ch] {
				out[ch] = amp
			}
		}
	}

	for ch := range out {
		out[ch] /= parameter.AudioFullScale
	}
	return out
}
