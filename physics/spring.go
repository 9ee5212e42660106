package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/vumeter/parameter"
)

// ErrInvalidBallistics is returned for non-positive or non-finite constants
var ErrInvalidBallistics = errors.New("invalid needle ballistics")

// stepSeconds is the fixed integration sub-step (1ms)
const stepSeconds = 0.001

// Ballistics holds the physical constants shared by every needle
type Ballistics struct {
	Mass    float64 // m
	Spring  float64 // k
	Damping float64 // d
}

// DefaultBallistics returns the calibrated needle constants
func DefaultBallistics() Ballistics {
	return Ballistics{
		Mass:    parameter.MeterMass,
		Spring:  parameter.MeterSpring,
		Damping: parameter.MeterDamping,
	}
}

// NaturalFrequency returns the undamped natural frequency sqrt(k/m)/2π in Hz
func (b Ballistics) NaturalFrequency() float64 {
	return math.Sqrt(b.Spring/b.Mass) / (2 * math.Pi)
}

// DampingRatio returns d / (2·sqrt(k·m))
func (b Ballistics) DampingRatio() float64 {
	return b.Damping / (2 * math.Sqrt(b.Spring*b.Mass))
}

// Validate rejects constants the integrator cannot use
func (b Ballistics) Validate() error {
	for _, v := range [...]float64{b.Mass, b.Spring, b.Damping} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite constant in %+v", ErrInvalidBallistics, b)
		}
	}
	if b.Mass <= 0 || b.Spring <= 0 || b.Damping < 0 {
		return fmt.Errorf("%w: need mass>0 spring>0 damping>=0, got %+v", ErrInvalidBallistics, b)
	}
	return nil
}

// SprungMass is one needle: a damped mass on a spring between two hard end stops
// Not safe for concurrent use; a single owner steps it
type SprungMass struct {
	Ballistics
	x float64 // Displacement
	v float64 // Velocity
}

// NewSprungMass creates a needle at rest at displacement x
func NewSprungMass(b Ballistics, x float64) *SprungMass {
	return &SprungMass{Ballistics: b, x: x}
}

// State returns raw displacement and velocity
// Displacement may sit up to one sub-step past an end stop until the next step reflects it
func (sm *SprungMass) State() (x, v float64) {
	return sm.x, sm.v
}

// SetState overrides displacement and velocity
func (sm *SprungMass) SetState(x, v float64) {
	sm.x = x
	sm.v = v
}

// Model applies force for millis 1ms steps and returns displacement clamped to [xMin, xMax]
// Each step first clamps to the travel range and reflects outward velocity (elastic stop),
// then integrates a = (F - k·x - d·v)/m with explicit Euler
func (sm *SprungMass) Model(force, xMin, xMax float64, millis int) float64 {
	for t := 0; t < millis; t++ {
		sm.reflect(xMin, xMax)

		a := (force - sm.Spring*sm.x - sm.Damping*sm.v) / sm.Mass
		sm.v += a * stepSeconds
		sm.x += sm.v * stepSeconds
	}
	return sm.Displacement(xMin, xMax)
}

// Displacement returns the current position clamped to the travel range
func (sm *SprungMass) Displacement(xMin, xMax float64) float64 {
	return clamp(sm.x, xMin, xMax)
}

// reflect handles end stop collision, returns true if the needle was outside the range
func (sm *SprungMass) reflect(xMin, xMax float64) bool {
	if sm.x < xMin {
		sm.x = xMin
		if sm.v < 0 {
			sm.v = -sm.v
		}
		return true
	}
	if sm.x > xMax {
		sm.x = xMax
		if sm.v > 0 {
			sm.v = -sm.v
		}
		return true
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
