package audio

import (
	"sync/atomic"
)

// Blocker accumulates interleaved samples into fixed-size blocks and hands each full block to a sink
// Not safe for concurrent use; owned by a single delivery goroutine
type Blocker struct {
	sink     Sink
	channels int
	buf      []int16
	frames   *atomic.Int64 // Optional counter of delivered frames
}

// NewBlocker creates a blocker of blockFrames frames of channels samples
func NewBlocker(sink Sink, channels, blockFrames int, frames *atomic.Int64) *Blocker {
	return &Blocker{
		sink:     sink,
		channels: channels,
		buf:      make([]int16, 0, channels*blockFrames),
		frames:   frames,
	}
}

// Channels returns samples per frame
func (b *Blocker) Channels() int {
	return b.channels
}

// Append adds one frame, len(frame) must equal Channels()
func (b *Blocker) Append(frame ...int16) {
	b.buf = append(b.buf, frame...)
	if len(b.buf) == cap(b.buf) {
		b.emit()
	}
}

// Flush delivers a partially filled block, used at end of stream
func (b *Blocker) Flush() {
	if len(b.buf) > 0 {
		b.emit()
	}
}

// Pending returns buffered frames not yet delivered
func (b *Blocker) Pending() int {
	return len(b.buf) / b.channels
}

func (b *Blocker) emit() {
	b.sink.SubmitAudioBlock(b.buf)
	if b.frames != nil {
		b.frames.Add(int64(len(b.buf) / b.channels))
	}
	b.buf = b.buf[:0]
}

// toPCM converts a float sample in [-1, 1] to int16, clipping out-of-range values
func toPCM(v float64) int16 {
	s := v * 32768
	if s >= 32767 {
		return 32767
	}
	if s <= -32768 {
		return -32768
	}
	return int16(s)
}
