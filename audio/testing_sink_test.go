package audio

import (
	"sync"
)

// recordingSink stores copies of every submitted block
type recordingSink struct {
	mu     sync.Mutex
	blocks [][]int16
}

func (r *recordingSink) SubmitAudioBlock(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = append(r.blocks, append([]int16(nil), samples...))
}

func (r *recordingSink) Blocks() [][]int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocks
}

// peak returns the largest |sample| of channel ch across all blocks, normalized to full scale
func (r *recordingSink) peak(channels, ch int) float64 {
	var max int32
	for _, b := range r.Blocks() {
		for i := ch; i < len(b); i += channels {
			v := int32(b[i])
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
	}
	return float64(max) / 32768
}
