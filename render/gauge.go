package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vumeter/engine"
	"github.com/lixenwraith/vumeter/level"
	"github.com/lixenwraith/vumeter/parameter"
)

// Rect is a screen region in cells
type Rect struct {
	X, Y, W, H int
}

// Gauge styles
var (
	styleScale    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleRed      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleNeedle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleLampOff  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSignalOn = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	stylePeakOn   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
)

// gaugeGeometry is the pivot and radii of one gauge
type gaugeGeometry struct {
	px, py int
	ry, rx float64
}

// point returns the cell at angle theta (from vertical) and fraction f of the radius
func (g gaugeGeometry) point(theta, f float64) (int, int) {
	x := float64(g.px) + math.Round(f*g.rx*math.Sin(theta))
	y := float64(g.py) - math.Round(f*g.ry*math.Cos(theta))
	return int(x), int(y)
}

func layoutGauge(r Rect) (gaugeGeometry, bool) {
	if r.W < parameter.DisplayMinGaugeWidth || r.H < parameter.DisplayMinGaugeHeight {
		return gaugeGeometry{}, false
	}

	// Title and label rows above the arc, lamp row below the pivot
	px := r.X + r.W/2
	py := r.Y + r.H - 2
	byHeight := float64(py - r.Y - 2)
	byWidth := float64(r.W/2-3) / (parameter.DisplayCellAspect * math.Sin(math.Pi/4))
	ry := math.Min(byHeight, byWidth)
	if ry < 2 {
		return gaugeGeometry{}, false
	}
	return gaugeGeometry{px: px, py: py, ry: ry, rx: ry * parameter.DisplayCellAspect}, true
}

// DrawGauge draws one channel: scale arc with labels, needle, title and indicator lamps
// Regions too small for a gauge get a one-line readout
func DrawGauge(s tcell.Screen, r Rect, title string, st engine.ChannelState, marks []Mark) {
	db := level.AmplitudeToDB(st.Peak, -99)
	heading := fmt.Sprintf("%s %5.1f dB", title, db)

	geo, ok := layoutGauge(r)
	if !ok {
		drawText(s, r.X, r.Y, fmt.Sprintf("%s %.2f", heading, st.Displacement), styleTitle)
		return
	}

	drawCentered(s, r.X, r.W, r.Y, heading, styleTitle)

	// Arc
	red := RedZone(marks)
	steps := int(geo.rx*math.Pi) + 8
	for i := 0; i <= steps; i++ {
		d := float64(i) / float64(steps)
		x, y := geo.point(NeedleAngle(d), 1)
		style := styleScale
		if d >= red {
			style = styleRed
		}
		s.SetContent(x, y, '·', nil, style)
	}

	// Ticks and labels
	for _, m := range marks {
		x, y := geo.point(NeedleAngle(m.Deflection), 1)
		style := styleLabel
		if m.Deflection > red {
			style = styleRed
		}
		s.SetContent(x, y, '┼', nil, style)
		label := []rune(m.Label)
		drawText(s, x-len(label)/2, y-1, m.Label, style)
	}

	// Needle
	theta := NeedleAngle(st.Displacement)
	ch := needleRune(theta)
	n := int(geo.rx * parameter.DisplayNeedleLength * 2)
	for i := 1; i <= n; i++ {
		f := parameter.DisplayNeedleLength * float64(i) / float64(n)
		x, y := geo.point(theta, f)
		s.SetContent(x, y, ch, nil, styleNeedle)
	}
	s.SetContent(geo.px, geo.py, '●', nil, styleNeedle)

	// Lamps
	lampY := r.Y + r.H - 1
	sig := styleLampOff
	if st.SignalPresent {
		sig = styleSignalOn
	}
	peak := styleLampOff
	if st.PeakActive {
		peak = stylePeakOn
	}
	drawText(s, r.X+1, lampY, " SIG ", sig)
	drawText(s, r.X+r.W-7, lampY, " PEAK ", peak)
}

// needleRune picks the line character closest to the needle direction
func needleRune(theta float64) rune {
	switch {
	case theta < -math.Pi/12:
		return '\\'
	case theta > math.Pi/12:
		return '/'
	}
	return '│'
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawCentered(s tcell.Screen, x, w, y int, text string, style tcell.Style) {
	n := len([]rune(text))
	drawText(s, x+(w-n)/2, y, text, style)
}

// GridLayout splits the screen into one region per channel, as many columns as fit
func GridLayout(width, height, channels int) []Rect {
	cols := width / parameter.DisplayMinGaugeWidth
	if cols < 1 {
		cols = 1
	}
	if cols > channels {
		cols = channels
	}
	rows := (channels + cols - 1) / cols

	w := width / cols
	h := height / rows
	rects := make([]Rect, channels)
	for i := range rects {
		rects[i] = Rect{X: (i % cols) * w, Y: (i / cols) * h, W: w, H: h}
	}
	return rects
}
