// Package engine couples the audio producer, the integration timer and the renderer around
// per-channel needle state
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vumeter/level"
	"github.com/lixenwraith/vumeter/parameter"
	"github.com/lixenwraith/vumeter/physics"
	"github.com/lixenwraith/vumeter/status"
)

// Metric keys published by the meter
const (
	MetricBlocks      = "meter.blocks"
	MetricTicks       = "meter.ticks"
	MetricSteps       = "meter.steps"
	MetricOverwritten = "meter.queue.overwritten"
	MetricPeakMax     = "meter.peak.max"
)

// ChannelState is one channel as seen by a renderer
type ChannelState struct {
	Displacement  float64 // Needle position in [0,1]
	Force         float64 // Latest mapped force
	Peak          float64 // Latest block peak amplitude
	SignalPresent bool
	PeakActive    bool
}

// channel is the shared record of one meter channel
// Field ownership:
//   - force, peak, signal, peakUntil: written by the audio producer
//   - peakUntil: additionally cleared by readers once expired (CAS, never overwrites a fresh deadline)
//   - needle: owned by the timer context, never shared
//   - displacement: written by the timer context, read by renderers
type channel struct {
	needle *physics.SprungMass

	displacement status.AtomicFloat
	force        status.AtomicFloat
	peak         status.AtomicFloat
	signal       atomic.Bool
	peakUntil    atomic.Int64 // UnixNano deadline, 0 = no peak displayed
}

// peakActive reports the peak lamp at now, lazily clearing an expired deadline
func (c *channel) peakActive(now time.Time) bool {
	until := c.peakUntil.Load()
	if until == 0 {
		return false
	}
	if now.UnixNano() < until {
		return true
	}
	c.peakUntil.CompareAndSwap(until, 0)
	return false
}

// Meter holds all channel state and implements the two producer entry points:
// SubmitAudioBlock (audio context) and Advance (timer context)
// Neither entry point blocks the other; readers only touch atomics
type Meter struct {
	config   Config
	clock    Clock
	channels []*channel
	queue    *DriveQueue
	registry *status.Registry

	// Timer context state, mu only serializes concurrent Advance callers
	mu         sync.Mutex
	forces     []float64 // Latest force per channel consumed from the queue
	pending    []DriveUpdate
	lastUpdate time.Time

	updated chan struct{}

	// Per-block peak scratch, one per concurrent producer
	peakPool sync.Pool

	statBlocks      *atomic.Int64
	statTicks       *atomic.Int64
	statSteps       *atomic.Int64
	statOverwritten *atomic.Int64
	statPeakMax     *status.AtomicFloat
}

// NewMeter validates cfg and creates channel state sized to cfg.Channels
// clock nil uses the wall clock, registry nil creates a private one
func NewMeter(cfg Config, clock Clock, registry *status.Registry) (*Meter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = NewTimeProvider()
	}
	if registry == nil {
		registry = status.NewRegistry()
	}

	m := &Meter{
		config:          cfg,
		clock:           clock,
		channels:        make([]*channel, cfg.Channels),
		queue:           NewDriveQueue(),
		registry:        registry,
		forces:          make([]float64, cfg.Channels),
		pending:         make([]DriveUpdate, 0, parameter.DriveQueueSize),
		lastUpdate:      clock.Now(),
		updated:         make(chan struct{}, 1),
		statBlocks:      registry.Ints.Get(MetricBlocks),
		statTicks:       registry.Ints.Get(MetricTicks),
		statSteps:       registry.Ints.Get(MetricSteps),
		statOverwritten: registry.Ints.Get(MetricOverwritten),
		statPeakMax:     registry.Floats.Get(MetricPeakMax),
	}

	m.peakPool.New = func() any {
		peaks := make([]float64, cfg.Channels)
		return &peaks
	}

	for i := range m.channels {
		ch := &channel{
			needle: physics.NewSprungMass(cfg.Ballistics, cfg.StartDeflection),
		}
		ch.displacement.Set(cfg.StartDeflection)
		m.channels[i] = ch
	}

	return m, nil
}

// Channels returns the configured channel count
func (m *Meter) Channels() int {
	return len(m.channels)
}

// Config returns the startup configuration
func (m *Meter) Config() Config {
	return m.config
}

// Registry returns the metrics registry the meter publishes to
func (m *Meter) Registry() *status.Registry {
	return m.registry
}

// Updated signals after each Advance; one pending signal is kept, extra ones coalesce
func (m *Meter) Updated() <-chan struct{} {
	return m.updated
}

// SubmitAudioBlock measures one interleaved block and publishes force and indicators per channel
// samples holds frames of Channels() values; a trailing partial frame is ignored
// Called from the audio delivery context; performs no integration
func (m *Meter) SubmitAudioBlock(samples []int16) {
	now := m.clock.Now()
	policy := m.config.Policy
	scratch := m.peakPool.Get().(*[]float64)
	peaks := level.PeakAmplitudes(samples, len(m.channels), *scratch)
	*scratch = peaks
	defer m.peakPool.Put(scratch)

	for i, ch := range m.channels {
		peak := peaks[i]
		force := policy.Force(peak)

		ch.peak.Set(peak)
		ch.force.Set(force)
		ch.signal.Store(policy.SignalPresent(peak))
		if policy.PeakExceeded(peak) {
			ch.peakUntil.Store(now.Add(policy.PeakHold).UnixNano())
		}

		m.queue.Push(DriveUpdate{Channel: i, Force: force})
		m.statPeakMax.Max(peak)
	}

	m.statBlocks.Add(1)
}

// Advance is one timer fire: it steps every needle by the whole milliseconds elapsed since
// the previous fire using the latest submitted force, then notifies renderers
// Fractional milliseconds carry over to the next fire; a clock that moved backwards rebases
// without stepping. Returns the number of 1ms steps taken
func (m *Meter) Advance(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = m.queue.ConsumeInto(m.pending[:0])
	for _, u := range m.pending {
		if u.Channel >= 0 && u.Channel < len(m.forces) {
			m.forces[u.Channel] = u.Force
		}
	}

	elapsed := now.Sub(m.lastUpdate)
	if elapsed < 0 {
		m.lastUpdate = now
		elapsed = 0
	}

	millis := int(elapsed / parameter.MeterStep)
	if millis > 0 {
		for i, ch := range m.channels {
			x := ch.needle.Model(m.forces[i], parameter.MeterTravelMin, parameter.MeterTravelMax, millis)
			ch.displacement.Set(x)
		}
		m.lastUpdate = m.lastUpdate.Add(time.Duration(millis) * parameter.MeterStep)
		m.statSteps.Add(int64(millis))
	}

	m.statTicks.Add(1)
	m.statOverwritten.Store(int64(m.queue.Overwritten()))

	select {
	case m.updated <- struct{}{}:
	default:
	}

	return millis
}

// Resync moves the simulation clock to now without stepping, used when the timer (re)starts
func (m *Meter) Resync(now time.Time) {
	m.mu.Lock()
	m.lastUpdate = now
	m.mu.Unlock()
}

// Snapshot returns the published state of every channel at now
func (m *Meter) Snapshot(now time.Time) []ChannelState {
	return m.SnapshotInto(now, make([]ChannelState, 0, len(m.channels)))
}

// SnapshotInto appends the published state of every channel to dst
// Expired peak deadlines are cleared as a side effect
func (m *Meter) SnapshotInto(now time.Time, dst []ChannelState) []ChannelState {
	for _, ch := range m.channels {
		dst = append(dst, ChannelState{
			Displacement:  ch.displacement.Get(),
			Force:         ch.force.Get(),
			Peak:          ch.peak.Get(),
			SignalPresent: ch.signal.Load(),
			PeakActive:    ch.peakActive(now),
		})
	}
	return dst
}

// Displacement returns the published needle position of channel i
func (m *Meter) Displacement(i int) float64 {
	return m.channels[i].displacement.Get()
}

// PeakActive reports the peak indicator of channel i at now
func (m *Meter) PeakActive(i int, now time.Time) bool {
	return m.channels[i].peakActive(now)
}

// SignalPresent reports whether the latest block of channel i was above the signal threshold
func (m *Meter) SignalPresent(i int) bool {
	return m.channels[i].signal.Load()
}
