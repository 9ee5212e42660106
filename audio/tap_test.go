package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/gopxl/beep"
)

// constant streams frames of fixed L/R values
func constant(l, r float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{l, r}
		}
		return len(samples), true
	})
}

// drain pulls frames from s in chunks until it ends or limit frames were read
func drain(s beep.Streamer, limit int) int {
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	return total
}

// TestTapStereo verifies stereo frames pass through unchanged and are blocked per channel
func TestTapStereo(t *testing.T) {
	sink := &recordingSink{}
	tap, err := NewTap(constant(0.5, -1), sink, 2, 1024, nil)
	if err != nil {
		t.Fatalf("NewTap failed: %v", err)
	}

	buf := make([][2]float64, 256)
	n, ok := tap.Stream(buf)
	if n != 256 || !ok {
		t.Fatalf("Expected 256 frames streamed, got %d ok=%v", n, ok)
	}
	if buf[0] != [2]float64{0.5, -1} {
		t.Errorf("Expected pass-through samples, got %v", buf[0])
	}

	drain(tap, 4096)
	blocks := sink.Blocks()
	if len(blocks) < 4 {
		t.Fatalf("Expected at least 4 blocks, got %d", len(blocks))
	}
	if blocks[0][0] != 16384 || blocks[0][1] != -32768 {
		t.Errorf("Expected first frame {16384 -32768}, got {%d %d}", blocks[0][0], blocks[0][1])
	}
	if len(blocks[0]) != 2048 {
		t.Errorf("Expected 2048 samples per block, got %d", len(blocks[0]))
	}
}

// TestTapMono verifies mono taps submit the L/R average
func TestTapMono(t *testing.T) {
	sink := &recordingSink{}
	tap, err := NewTap(constant(0.5, 0), sink, 1, 64, nil)
	if err != nil {
		t.Fatalf("NewTap failed: %v", err)
	}

	drain(tap, 64)
	blocks := sink.Blocks()
	if len(blocks) != 1 || len(blocks[0]) != 64 {
		t.Fatalf("Expected one 64-sample block, got %d blocks", len(blocks))
	}
	if blocks[0][0] != 8192 {
		t.Errorf("Expected averaged sample 8192, got %d", blocks[0][0])
	}
}

// TestTapFlushesAtEnd verifies the final partial block is delivered when the stream ends
func TestTapFlushesAtEnd(t *testing.T) {
	sink := &recordingSink{}
	tap, err := NewTap(beep.Take(100, constant(0.25, 0.25)), sink, 2, 64, nil)
	if err != nil {
		t.Fatalf("NewTap failed: %v", err)
	}

	if got := drain(tap, 1000); got != 100 {
		t.Errorf("Expected 100 frames, got %d", got)
	}
	if !tap.Done() {
		t.Error("Expected tap done after stream end")
	}

	total := 0
	for _, b := range sink.Blocks() {
		total += len(b) / 2
	}
	if total != 100 {
		t.Errorf("Expected 100 frames delivered, got %d", total)
	}
}

// TestTapRejectsWideChannels verifies playback taps are limited to stereo
func TestTapRejectsWideChannels(t *testing.T) {
	for _, ch := range []int{0, 3, 8} {
		if _, err := NewTap(constant(0, 0), &recordingSink{}, ch, 64, nil); !errors.Is(err, ErrUnsupportedChannels) {
			t.Errorf("Channels=%d: expected ErrUnsupportedChannels, got %v", ch, err)
		}
	}
}

// TestToneStreamLevel verifies the synthesized tone peaks at the configured dBFS
func TestToneStreamLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = SourceTone
	cfg.ToneLevelDB = -6

	s, closer, err := OpenStream(cfg)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	if closer != nil {
		t.Error("Expected no closer for synthesized tone")
	}

	sink := &recordingSink{}
	tap, err := NewTap(s, sink, 2, cfg.BlockFrames, nil)
	if err != nil {
		t.Fatalf("NewTap failed: %v", err)
	}
	drain(tap, 4*cfg.BlockFrames)

	want := math.Pow(10, -6.0/20)
	for ch := 0; ch < 2; ch++ {
		if got := sink.peak(2, ch); math.Abs(got-want) > 0.01 {
			t.Errorf("Channel %d: expected peak %.3f, got %.3f", ch, want, got)
		}
	}
}
