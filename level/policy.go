package level

import (
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/vumeter/parameter"
)

// Policy bundles a force curve with the indicator thresholds calibrated against it
type Policy struct {
	Curve Curve

	// SignalThreshold and PeakThreshold are linear amplitudes; crossing requires strictly greater
	SignalThreshold float64
	PeakThreshold   float64

	// PeakHold is how long a peak crossing keeps the peak indicator active
	PeakHold time.Duration
}

// ClassicPolicy uses the basic logarithmic curve
func ClassicPolicy() Policy {
	return Policy{
		Curve:           CurveBasic,
		SignalThreshold: DBToAmplitude(parameter.MeterSignalThresholdDB),
		PeakThreshold:   DBToAmplitude(parameter.MeterPeakThresholdDB),
		PeakHold:        parameter.MeterPeakHold,
	}
}

// CompressedPolicy uses the S-curve mapping
func CompressedPolicy() Policy {
	p := ClassicPolicy()
	p.Curve = CurveCompressed
	return p
}

// PolicyFor returns the preset policy for a curve
func PolicyFor(c Curve) Policy {
	if c == CurveCompressed {
		return CompressedPolicy()
	}
	return ClassicPolicy()
}

// Validate checks thresholds and hold duration
func (p Policy) Validate() error {
	if p.Curve != CurveBasic && p.Curve != CurveCompressed {
		return fmt.Errorf("%w: %v", ErrUnknownCurve, p.Curve)
	}
	if !(p.SignalThreshold >= 0) || !(p.PeakThreshold >= 0) {
		return fmt.Errorf("indicator thresholds must be non-negative: signal=%v peak=%v", p.SignalThreshold, p.PeakThreshold)
	}
	if p.PeakHold < 0 {
		return fmt.Errorf("peak hold must be non-negative: %v", p.PeakHold)
	}
	return nil
}

// Force maps peak amplitude through the policy curve
func (p Policy) Force(peak float64) float64 {
	return p.Curve.Force(peak)
}

// SignalPresent reports whether the block peak is above the signal threshold
func (p Policy) SignalPresent(peak float64) bool {
	return peak > p.SignalThreshold
}

// PeakExceeded reports whether the block peak should (re)arm the peak hold
func (p Policy) PeakExceeded(peak float64) bool {
	return peak > p.PeakThreshold
}

// DBToAmplitude converts dBFS to linear amplitude
func DBToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}

// AmplitudeToDB converts linear amplitude to dBFS, floored at floorDB
func AmplitudeToDB(amplitude, floorDB float64) float64 {
	if !(amplitude > 0) {
		return floorDB
	}
	db := 20 * math.Log10(amplitude)
	if db < floorDB {
		return floorDB
	}
	return db
}
