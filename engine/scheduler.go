package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vumeter/core"
)

// Scheduler is the periodic timer driving Meter.Advance
// Tick jitter does not matter to the needle: each fire integrates the real elapsed time
type Scheduler struct {
	meter    *Meter
	clock    Clock
	interval time.Duration

	tickCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewScheduler creates a scheduler for meter, clock nil uses the wall clock
func NewScheduler(meter *Meter, clock Clock, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = NewTimeProvider()
	}
	return &Scheduler{
		meter:    meter,
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Name implements service.Service
func (s *Scheduler) Name() string {
	return "meter"
}

// Dependencies implements service.Service
func (s *Scheduler) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Scheduler) Init() error {
	return nil
}

// Start launches the tick loop, the meter clock is rebased so startup delay is not integrated
func (s *Scheduler) Start() error {
	if s.running.CompareAndSwap(false, true) {
		s.meter.Resync(s.clock.Now())
		s.wg.Add(1)
		core.Go(s.loop)
	}
	return nil
}

// Stop halts the tick loop and waits for it to exit, idempotent
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.running.CompareAndSwap(true, false) {
			s.wg.Wait()
		}
	})
	return nil
}

// IsRunning reports whether the loop is active
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// TickCount returns the number of completed ticks
func (s *Scheduler) TickCount() uint64 {
	return s.tickCount.Load()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.meter.Advance(s.clock.Now())
			s.tickCount.Add(1)
		}
	}
}
