package parameter

import "time"

// Needle Ballistics
// Mass/spring give an undamped natural frequency of sqrt(k/m)/2π ≈ 2.25 Hz
// Damping ratio ≈ 0.81: 99% of full scale within 300ms, ~1% bounce off the end stop
const (
	MeterMass    = 0.005
	MeterSpring  = 1.0
	MeterDamping = 0.115

	// MeterNaturalFrequency is the calibration target in Hz, tolerance ±10%
	MeterNaturalFrequency          = 2.1
	MeterNaturalFrequencyTolerance = 0.1
)

// Needle Travel
const (
	MeterTravelMin = 0.0
	MeterTravelMax = 1.0

	// MeterStartDeflection pins the needle at full scale on startup so it sweeps down to rest
	MeterStartDeflection = 1.0
)

// Integration Timing
const (
	// MeterStep is the fixed integration sub-step
	MeterStep = time.Millisecond

	// MeterTickInterval is the timer period driving integration and redraw
	MeterTickInterval = 12 * time.Millisecond
)

// Channel Limits
const (
	MeterMinChannels     = 1
	MeterMaxChannels     = 8
	MeterDefaultChannels = 2
)

// Indicator Thresholds (dBFS)
const (
	MeterSignalThresholdDB = -56.0
	MeterPeakThresholdDB   = -1.5

	// MeterPeakHold is how long the peak lamp stays lit after a crossing
	MeterPeakHold = 250 * time.Millisecond
)

// Drive Queue
// Ring of per-block force updates between the audio producer and the scheduler
// Size must be power of 2
const (
	DriveQueueSize = 256
	DriveQueueMask = DriveQueueSize - 1
)
