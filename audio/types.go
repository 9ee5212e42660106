// Package audio feeds interleaved 16-bit blocks to the meter from a capture tool or a beep playback stream
package audio

import (
	"errors"
	"fmt"
	"strings"
)

// Sink receives interleaved PCM blocks from the audio delivery context
// Implementations must not retain samples after returning
type Sink interface {
	SubmitAudioBlock(samples []int16)
}

// SourceType selects where blocks come from
type SourceType int

const (
	SourceCapture SourceType = iota // Default recording device via a capture tool
	SourceFile                      // WAV file played through the speaker
	SourceTone                      // Sine test tone played through the speaker
	SourceNone                      // No audio, meter falls to rest
)

var sourceNames = [...]string{
	SourceCapture: "capture",
	SourceFile:    "file",
	SourceTone:    "tone",
	SourceNone:    "none",
}

func (s SourceType) String() string {
	if s >= 0 && int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource resolves a source name, case-insensitive
func ParseSource(name string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "capture", "mic", "record":
		return SourceCapture, nil
	case "file", "wav":
		return SourceFile, nil
	case "tone", "sine":
		return SourceTone, nil
	case "none", "off", "silent":
		return SourceNone, nil
	}
	return SourceNone, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// BackendType identifies the capture tool
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
)

// BackendConfig describes a CLI capture backend writing raw s16le to stdout
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoCaptureBackend    = errors.New("no compatible capture backend found")
	ErrUnsupportedChannels = errors.New("unsupported channel count for playback source")
	ErrUnknownSource       = errors.New("unknown audio source")
	ErrNoFile              = errors.New("file source requires a path")
	ErrSourceRunning       = errors.New("audio source already running")
)
