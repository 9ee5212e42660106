package audio

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vumeter/parameter"
)

// resampleQuality is the beep.Resample interpolation window
const resampleQuality = 4

// Player plays a file or test tone through the speaker and taps it into meter blocks
type Player struct {
	config *Config
	frames *atomic.Int64

	mu      sync.Mutex
	closer  io.Closer
	tap     *Tap
	running atomic.Bool
}

// NewPlayer creates a playback source for cfg.Source file or tone
func NewPlayer(cfg *Config, frames *atomic.Int64) *Player {
	return &Player{
		config: cfg,
		frames: frames,
	}
}

// Name returns the playback source type
func (p *Player) Name() string {
	return p.config.Source.String()
}

// Start opens the stream, initializes the speaker and starts playback
func (p *Player) Start(sink Sink) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrSourceRunning
	}

	s, closer, err := OpenStream(p.config)
	if err != nil {
		p.running.Store(false)
		return err
	}

	tap, err := NewTap(s, sink, p.config.Channels, p.config.BlockFrames, p.frames)
	if err != nil {
		closeQuietly(closer)
		p.running.Store(false)
		return err
	}

	sr := beep.SampleRate(p.config.SampleRate)
	if err := speaker.Init(sr, parameter.AudioSpeakerBufferFrames); err != nil {
		closeQuietly(closer)
		p.running.Store(false)
		return errors.Wrap(err, "speaker init")
	}

	p.mu.Lock()
	p.closer = closer
	p.tap = tap
	p.mu.Unlock()

	speaker.Play(tap)
	return nil
}

// Done reports whether playback reached the end of the stream
func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tap != nil && p.tap.Done()
}

// Stop halts playback and releases the speaker and file, idempotent
func (p *Player) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}

	speaker.Clear()
	speaker.Close()

	p.mu.Lock()
	closer := p.closer
	p.closer = nil
	p.mu.Unlock()

	if closer != nil {
		return errors.Wrap(closer.Close(), "close stream")
	}
	return nil
}

// OpenStream builds the playback streamer at cfg.SampleRate
// The returned closer is nil for synthesized sources
func OpenStream(cfg *Config) (beep.Streamer, io.Closer, error) {
	sr := beep.SampleRate(cfg.SampleRate)

	switch cfg.Source {
	case SourceTone:
		tone, err := generators.SineTone(sr, cfg.ToneFrequency)
		if err != nil {
			return nil, nil, errors.Wrap(err, "sine tone")
		}
		return &effects.Volume{
			Streamer: tone,
			Base:     10,
			Volume:   cfg.ToneLevelDB / 20, // Gain 10^(dB/20)
		}, nil, nil

	case SourceFile:
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open audio file")
		}
		streamer, format, err := wav.Decode(f)
		if err != nil {
			f.Close()
			return nil, nil, errors.Wrapf(err, "decode %s", cfg.File)
		}
		if format.SampleRate != sr {
			return beep.Resample(resampleQuality, format.SampleRate, sr, streamer), streamer, nil
		}
		return streamer, streamer, nil
	}

	return nil, nil, errors.Wrapf(ErrUnknownSource, "no playback stream for %v", cfg.Source)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
