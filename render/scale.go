// Package render draws meter snapshots: a tcell gauge display for terminals and a line display for logs
package render

import (
	"math"
	"strconv"

	"github.com/lixenwraith/vumeter/level"
	"github.com/lixenwraith/vumeter/parameter"
)

// Mark is a labeled position on the scale
type Mark struct {
	Label      string
	Deflection float64
}

// NeedleAngle maps deflection in [0,1] to radians from vertical, -π/4 at rest and π/4 at full scale
func NeedleAngle(deflection float64) float64 {
	return deflection*math.Pi/2 - math.Pi/4
}

// ScaleMarks places the calibrated dB labels where a steady sine at that level settles the needle
// With unit spring stiffness the settled deflection equals the mapped force
func ScaleMarks(policy level.Policy) []Mark {
	marks := make([]Mark, 0, len(parameter.DisplayScaleLabelsDB)+1)
	marks = append(marks, Mark{Label: "-∞", Deflection: 0})
	for _, db := range parameter.DisplayScaleLabelsDB {
		marks = append(marks, Mark{
			Label:      strconv.FormatFloat(db, 'f', -1, 64),
			Deflection: policy.Force(level.DBToAmplitude(db)),
		})
	}
	return marks
}

// RedZone returns the deflection where the last scale segment begins
func RedZone(marks []Mark) float64 {
	if len(marks) < 2 {
		return 1
	}
	return marks[len(marks)-2].Deflection
}

// ChannelLabel names channel i of n
func ChannelLabel(i, n int) string {
	switch {
	case n == 1:
		return "M"
	case n == 2 && i == 0:
		return "L"
	case n == 2 && i == 1:
		return "R"
	}
	return strconv.Itoa(i + 1)
}
