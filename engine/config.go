package engine

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/vumeter/level"
	"github.com/lixenwraith/vumeter/parameter"
	"github.com/lixenwraith/vumeter/physics"
)

// ErrInvalidChannels is returned when the channel count is outside [1, 8]
var ErrInvalidChannels = errors.New("invalid channel count")

// Environment variables read by LoadConfig
const (
	EnvChannels = "VUMETER_CHANNELS"
	EnvCurve    = "VUMETER_CURVE"
	EnvSignalDB = "VUMETER_SIGNAL_DB"
	EnvPeakDB   = "VUMETER_PEAK_DB"
	EnvDamping  = "VUMETER_DAMPING"
)

// Config is fixed at startup; the meter never changes it afterwards
type Config struct {
	Channels        int
	Policy          level.Policy
	Ballistics      physics.Ballistics
	StartDeflection float64
	TickInterval    time.Duration
}

// DefaultConfig returns a stereo meter with the classic curve
func DefaultConfig() Config {
	return Config{
		Channels:        parameter.MeterDefaultChannels,
		Policy:          level.ClassicPolicy(),
		Ballistics:      physics.DefaultBallistics(),
		StartDeflection: parameter.MeterStartDeflection,
		TickInterval:    parameter.MeterTickInterval,
	}
}

// Validate reports the first configuration error
func (c Config) Validate() error {
	if c.Channels < parameter.MeterMinChannels || c.Channels > parameter.MeterMaxChannels {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidChannels, c.Channels,
			parameter.MeterMinChannels, parameter.MeterMaxChannels)
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if err := c.Ballistics.Validate(); err != nil {
		return err
	}
	if c.StartDeflection < parameter.MeterTravelMin || c.StartDeflection > parameter.MeterTravelMax {
		return fmt.Errorf("start deflection %v outside needle travel", c.StartDeflection)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive: %v", c.TickInterval)
	}
	return nil
}

// LoadConfig starts from DefaultConfig and applies environment overrides
// Malformed values are errors; range checks are left to Validate
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvChannels); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvChannels, err)
		}
		cfg.Channels = n
	}

	if v := os.Getenv(EnvCurve); v != "" {
		curve, err := level.ParseCurve(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvCurve, err)
		}
		cfg.Policy = level.PolicyFor(curve)
	}

	if v := os.Getenv(EnvSignalDB); v != "" {
		db, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSignalDB, err)
		}
		cfg.Policy.SignalThreshold = level.DBToAmplitude(db)
	}

	if v := os.Getenv(EnvPeakDB); v != "" {
		db, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvPeakDB, err)
		}
		cfg.Policy.PeakThreshold = level.DBToAmplitude(db)
	}

	if v := os.Getenv(EnvDamping); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDamping, err)
		}
		cfg.Ballistics.Damping = d
	}

	return cfg, nil
}
