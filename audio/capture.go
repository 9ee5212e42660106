package audio

import (
	"encoding/binary"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vumeter/core"
	"github.com/lixenwraith/vumeter/parameter"
)

// Source produces blocks into a sink until stopped
type Source interface {
	Name() string
	Start(sink Sink) error
	Stop() error
}

// Capture runs a capture tool and submits its stdout as meter blocks
type Capture struct {
	config  *Config
	backend *BackendConfig
	frames  *atomic.Int64

	cmd    *exec.Cmd
	stdout io.ReadCloser

	running atomic.Bool
	wg      sync.WaitGroup
	errChan chan error
}

// NewCapture creates a capture source for backend, frames counts delivered frames (may be nil)
func NewCapture(cfg *Config, backend *BackendConfig, frames *atomic.Int64) *Capture {
	return &Capture{
		config:  cfg,
		backend: backend,
		frames:  frames,
		errChan: make(chan error, 1),
	}
}

// Name returns the backend name
func (c *Capture) Name() string {
	return c.backend.Name
}

// Start launches the capture process and the block reader
func (c *Capture) Start(sink Sink) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrSourceRunning
	}

	cmd := exec.Command(c.backend.Path, c.backend.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.running.Store(false)
		return errors.Wrapf(err, "%s stdout", c.backend.Name)
	}
	if err := cmd.Start(); err != nil {
		c.running.Store(false)
		return errors.Wrapf(err, "start %s", c.backend.Name)
	}

	c.cmd = cmd
	c.stdout = stdout

	c.wg.Add(1)
	core.Go(func() {
		defer c.wg.Done()
		err := ReadBlocks(stdout, sink, c.config.Channels, c.config.BlockFrames, c.frames)
		if err == nil && c.running.Load() {
			err = errors.Errorf("%s ended", c.backend.Name)
		}
		if err != nil && c.running.Load() {
			log.Printf("audio: capture stopped: %v", err)
			select {
			case c.errChan <- err:
			default:
			}
		}
		// Reap; exit status of a killed or finished tool is not interesting
		_ = cmd.Wait()
	})

	return nil
}

// Errors delivers the first read failure of a running capture
func (c *Capture) Errors() <-chan error {
	return c.errChan
}

// Stop kills the capture process and waits for the reader, idempotent
func (c *Capture) Stop() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	c.wg.Wait()
	return nil
}

// ReadBlocks decodes raw s16le interleaved frames from r into blocks of blockFrames and submits them
// A short final block is submitted with its whole frames; io.EOF ends the stream without error
func ReadBlocks(r io.Reader, sink Sink, channels, blockFrames int, frames *atomic.Int64) error {
	frameBytes := channels * parameter.AudioBytesPerSample
	raw := make([]byte, blockFrames*frameBytes)
	samples := make([]int16, blockFrames*channels)

	for {
		n, err := io.ReadFull(r, raw)
		whole := n / frameBytes
		if whole > 0 {
			count := whole * channels
			for i := 0; i < count; i++ {
				samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
			}
			sink.SubmitAudioBlock(samples[:count])
			if frames != nil {
				frames.Add(int64(whole))
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		default:
			return errors.Wrap(err, "read capture stream")
		}
	}
}
