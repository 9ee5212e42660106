package level

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// sixDB is the amplitude ratio of 6dB (10^0.3); one curve unit per 6dB
var sixDB = math.Pow(10, 0.3)

var logSixDB = math.Log(sixDB)

// ErrUnknownCurve is returned by ParseCurve for unrecognized names
var ErrUnknownCurve = errors.New("unknown force curve")

// Curve selects the amplitude to force mapping
type Curve int

const (
	// CurveBasic maps 8 steps of 6dB linearly onto [0,1], full scale is unity
	CurveBasic Curve = iota
	// CurveCompressed maps 7 steps of 6dB and bends the result through an arctangent S-curve
	CurveCompressed
)

var curveNames = [...]string{
	CurveBasic:      "basic",
	CurveCompressed: "compressed",
}

func (c Curve) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return fmt.Sprintf("Curve(%d)", int(c))
	}
	return curveNames[c]
}

// ParseCurve resolves a curve by name, case-insensitive
func ParseCurve(name string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic", "classic", "log":
		return CurveBasic, nil
	case "compressed", "scurve", "s-curve":
		return CurveCompressed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
}

// Force maps normalized peak amplitude to driving force in [0,1]
func (c Curve) Force(amplitude float64) float64 {
	if c == CurveCompressed {
		return CompressedForce(amplitude)
	}
	return BasicForce(amplitude)
}

// sixDBSteps returns log(amplitude) in units of 6dB, ok=false when the log is undefined
func sixDBSteps(amplitude float64) (float64, bool) {
	// !(a > 0) also catches NaN
	if !(amplitude > 0) {
		return 0, false
	}
	return math.Log(amplitude) / logSixDB, true
}

// BasicForce is max(log(a)/log(6dB) + 8, 0) / 8
func BasicForce(amplitude float64) float64 {
	steps, ok := sixDBSteps(amplitude)
	if !ok {
		return 0
	}
	force := steps + 8
	if force < 0 {
		force = 0
	}
	return force / 8
}

// CompressedForce applies (atan(2f-1)·4/π + 1)/2 to f = max((log(a)/log(6dB) + 7)/7, 0)
func CompressedForce(amplitude float64) float64 {
	steps, ok := sixDBSteps(amplitude)
	if !ok {
		return 0
	}
	f := (steps + 7) / 7
	if f < 0 {
		f = 0
	}
	return (math.Atan(2*f-1)*4/math.Pi + 1) / 2
}
