package audio

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lixenwraith/vumeter/parameter"
)

// Environment variables read by LoadConfig
const (
	EnvSource     = "VUMETER_SOURCE"
	EnvFile       = "VUMETER_FILE"
	EnvSampleRate = "VUMETER_SAMPLE_RATE"
	EnvToneHz     = "VUMETER_TONE_HZ"
	EnvToneDB     = "VUMETER_TONE_DB"
)

// Config selects and parameterizes the audio source
// Channels must match the meter the blocks are submitted to
type Config struct {
	Source        SourceType
	File          string
	SampleRate    int
	Channels      int
	BlockFrames   int
	ToneFrequency float64
	ToneLevelDB   float64
}

// DefaultConfig captures stereo at 48kHz in 1024-frame blocks
func DefaultConfig() *Config {
	return &Config{
		Source:        SourceCapture,
		SampleRate:    parameter.AudioSampleRate,
		Channels:      parameter.MeterDefaultChannels,
		BlockFrames:   parameter.AudioBlockFrames,
		ToneFrequency: parameter.AudioToneFrequency,
		ToneLevelDB:   parameter.AudioToneLevelDB,
	}
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvSource); v != "" {
		src, err := ParseSource(v)
		if err != nil {
			return cfg, err
		}
		cfg.Source = src
	}

	if v := os.Getenv(EnvFile); v != "" {
		cfg.File = v
		// A file path alone implies file playback
		if os.Getenv(EnvSource) == "" {
			cfg.Source = SourceFile
		}
	}

	if v := os.Getenv(EnvSampleRate); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSampleRate, err)
		}
		cfg.SampleRate = val
	}

	if v := os.Getenv(EnvToneHz); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvToneHz, err)
		}
		cfg.ToneFrequency = val
	}

	if v := os.Getenv(EnvToneDB); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvToneDB, err)
		}
		cfg.ToneLevelDB = val
	}

	return cfg, nil
}

// Validate reports settings no source can run with
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.BlockFrames <= 0 {
		return fmt.Errorf("block frames must be positive: %d", c.BlockFrames)
	}
	if c.Channels < parameter.MeterMinChannels || c.Channels > parameter.MeterMaxChannels {
		return fmt.Errorf("channel count %d outside %d-%d", c.Channels, parameter.MeterMinChannels, parameter.MeterMaxChannels)
	}

	switch c.Source {
	case SourceFile:
		if c.File == "" {
			return ErrNoFile
		}
		fallthrough
	case SourceTone:
		if c.Channels > parameter.AudioPlaybackMaxChannels {
			return fmt.Errorf("%w: %d", ErrUnsupportedChannels, c.Channels)
		}
	case SourceCapture, SourceNone:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownSource, c.Source)
	}

	if c.Source == SourceTone {
		if c.ToneFrequency <= 0 || c.ToneFrequency >= float64(c.SampleRate)/2 {
			return fmt.Errorf("tone frequency %v outside (0, %d)", c.ToneFrequency, c.SampleRate/2)
		}
		if c.ToneLevelDB > 0 {
			return fmt.Errorf("tone level %vdBFS above full scale", c.ToneLevelDB)
		}
	}
	return nil
}
