package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/vumeter/parameter"
)

// Tap is a pass-through beep.Streamer that copies every streamed frame into meter blocks
// Stereo taps keep L/R, mono taps submit the L/R average
// Stream runs on the speaker goroutine, so blocks are submitted from the audio context
type Tap struct {
	streamer beep.Streamer
	blocker  *Blocker
	done     atomic.Bool
}

// NewTap wraps s, channels must be 1 or 2
func NewTap(s beep.Streamer, sink Sink, channels, blockFrames int, frames *atomic.Int64) (*Tap, error) {
	if channels < 1 || channels > parameter.AudioPlaybackMaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
	return &Tap{
		streamer: s,
		blocker:  NewBlocker(sink, channels, blockFrames, frames),
	}, nil
}

// Stream implements beep.Streamer
func (t *Tap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.streamer.Stream(samples)

	stereo := t.blocker.Channels() == 2
	for i := 0; i < n; i++ {
		l, r := samples[i][0], samples[i][1]
		if stereo {
			t.blocker.Append(toPCM(l), toPCM(r))
		} else {
			t.blocker.Append(toPCM((l + r) / 2))
		}
	}

	if !ok && t.done.CompareAndSwap(false, true) {
		t.blocker.Flush()
	}
	return n, ok
}

// Err implements beep.Streamer
func (t *Tap) Err() error {
	return t.streamer.Err()
}

// Done reports whether the wrapped stream has ended
func (t *Tap) Done() bool {
	return t.done.Load()
}
