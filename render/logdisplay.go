package render

import (
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vumeter/core"
	"github.com/lixenwraith/vumeter/engine"
	"github.com/lixenwraith/vumeter/parameter"
)

// LogDisplay prints one line per interval with every channel and the metrics summary
// Used when stdout is not a terminal
type LogDisplay struct {
	meter    *engine.Meter
	clock    engine.Clock
	logger   *log.Logger
	interval time.Duration

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	done     chan struct{}
}

// NewLogDisplay creates a line display writing to w
func NewLogDisplay(meter *engine.Meter, clock engine.Clock, w io.Writer, interval time.Duration) *LogDisplay {
	if clock == nil {
		clock = engine.NewTimeProvider()
	}
	if interval <= 0 {
		interval = parameter.DisplayLogInterval
	}
	return &LogDisplay{
		meter:    meter,
		clock:    clock,
		logger:   log.New(w, "", log.Ltime|log.Lmicroseconds),
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Name implements service.Service
func (d *LogDisplay) Name() string {
	return "display"
}

// Dependencies implements service.Service
func (d *LogDisplay) Dependencies() []string {
	return []string{"meter"}
}

// Init implements service.Service
func (d *LogDisplay) Init() error {
	return nil
}

// Start implements service.Service
func (d *LogDisplay) Start() error {
	if d.running.CompareAndSwap(false, true) {
		d.wg.Add(1)
		core.Go(d.loop)
	}
	return nil
}

// Stop implements service.Service
func (d *LogDisplay) Stop() error {
	d.stopOnce.Do(func() {
		close(d.stopChan)
		if d.running.CompareAndSwap(true, false) {
			d.wg.Wait()
		}
	})
	return nil
}

// Done never closes; the line display has no input
func (d *LogDisplay) Done() <-chan struct{} {
	return d.done
}

// Print writes the current snapshot as one line
func (d *LogDisplay) Print() {
	states := d.meter.Snapshot(d.clock.Now())
	d.logger.Printf("%s | %s", FormatSnapshot(states), d.meter.Registry().Summary())
}

func (d *LogDisplay) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.Print()
		}
	}
}

// FormatSnapshot renders channels as text bars, e.g. "L [#######-------] 0.47 SIG ----"
func FormatSnapshot(states []engine.ChannelState) string {
	var sb strings.Builder
	n := len(states)
	for i, st := range states {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(ChannelLabel(i, n))
		sb.WriteString(" [")
		filled := int(st.Displacement*parameter.DisplayBarWidth + 0.5)
		sb.WriteString(strings.Repeat("#", filled))
		sb.WriteString(strings.Repeat("-", parameter.DisplayBarWidth-filled))
		sb.WriteString("] ")
		sb.WriteString(strconv.FormatFloat(st.Displacement, 'f', 2, 64))
		if st.SignalPresent {
			sb.WriteString(" SIG")
		} else {
			sb.WriteString(" ---")
		}
		if st.PeakActive {
			sb.WriteString(" PEAK")
		} else {
			sb.WriteString(" ----")
		}
	}
	return sb.String()
}
