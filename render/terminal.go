package render

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vumeter/core"
	"github.com/lixenwraith/vumeter/engine"
)

// Display is a render consumer run as a service
// Done closes when the user asks to quit; displays without input never close it
type Display interface {
	Name() string
	Dependencies() []string
	Init() error
	Start() error
	Stop() error
	Done() <-chan struct{}
}

// TerminalDisplay draws one gauge per channel on a tcell screen after every meter update
type TerminalDisplay struct {
	meter  *engine.Meter
	clock  engine.Clock
	screen tcell.Screen
	marks  []Mark

	// Accessed only by the draw goroutine (or the caller of Draw before Start)
	states []engine.ChannelState

	frames  atomic.Uint64
	running atomic.Bool
	redraw  chan struct{}

	quitChan chan struct{}
	quitOnce sync.Once
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTerminalDisplay creates a display for meter; screen nil opens the controlling terminal in Init
func NewTerminalDisplay(meter *engine.Meter, clock engine.Clock, screen tcell.Screen) *TerminalDisplay {
	if clock == nil {
		clock = engine.NewTimeProvider()
	}
	return &TerminalDisplay{
		meter:    meter,
		clock:    clock,
		screen:   screen,
		marks:    ScaleMarks(meter.Config().Policy),
		states:   make([]engine.ChannelState, 0, meter.Channels()),
		redraw:   make(chan struct{}, 1),
		quitChan: make(chan struct{}),
		stopChan: make(chan struct{}),
	}
}

// Name implements service.Service
func (d *TerminalDisplay) Name() string {
	return "display"
}

// Dependencies implements service.Service
func (d *TerminalDisplay) Dependencies() []string {
	return []string{"meter"}
}

// Init implements service.Service, takes over the terminal
func (d *TerminalDisplay) Init() error {
	if d.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal screen: %w", err)
		}
		d.screen = screen
	}
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	d.screen.HideCursor()
	core.RegisterCrashResetter(d.screen)
	return nil
}

// Start implements service.Service, launches input polling and the draw loop
func (d *TerminalDisplay) Start() error {
	if !d.running.CompareAndSwap(false, true) {
		return nil
	}
	d.wg.Add(2)
	core.Go(d.pollLoop)
	core.Go(d.drawLoop)
	return nil
}

// Stop implements service.Service, restores the terminal
func (d *TerminalDisplay) Stop() error {
	d.stopOnce.Do(func() {
		close(d.stopChan)
		if d.screen == nil {
			return
		}
		if d.running.CompareAndSwap(true, false) {
			// Synthetic event unblocks PollEvent; Fini unblocks it too if the queue is full
			if err := d.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				d.screen.Fini()
				d.wg.Wait()
				core.RegisterCrashResetter(nil)
				return
			}
			d.wg.Wait()
		}
		d.screen.Fini()
		core.RegisterCrashResetter(nil)
	})
	return nil
}

// Done closes on Esc, q or Ctrl-C
func (d *TerminalDisplay) Done() <-chan struct{} {
	return d.quitChan
}

// Frames returns the number of frames drawn
func (d *TerminalDisplay) Frames() uint64 {
	return d.frames.Load()
}

// Draw renders the current meter snapshot
func (d *TerminalDisplay) Draw() {
	d.states = d.meter.SnapshotInto(d.clock.Now(), d.states[:0])

	d.screen.Clear()
	w, h := d.screen.Size()
	n := len(d.states)
	for i, r := range GridLayout(w, h, n) {
		DrawGauge(d.screen, r, ChannelLabel(i, n), d.states[i], d.marks)
	}
	d.screen.Show()
	d.frames.Add(1)
}

func (d *TerminalDisplay) quit() {
	d.quitOnce.Do(func() { close(d.quitChan) })
}

// pollLoop reads input events until stop signal
func (d *TerminalDisplay) pollLoop() {
	defer d.wg.Done()

	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}

		select {
		case <-d.stopChan:
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(ev) {
				d.quit()
			}
		case *tcell.EventResize:
			d.screen.Sync()
			select {
			case d.redraw <- struct{}{}:
			default:
			}
		}
	}
}

// drawLoop redraws on meter updates and resizes
func (d *TerminalDisplay) drawLoop() {
	defer d.wg.Done()

	updated := d.meter.Updated()
	for {
		select {
		case <-d.stopChan:
			return
		case <-updated:
			d.Draw()
		case <-d.redraw:
			d.Draw()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
