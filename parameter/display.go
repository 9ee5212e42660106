package parameter

import (
	"time"
)

// Gauge Geometry
const (
	// DisplayMinGaugeWidth is the narrowest gauge drawn, columns
	DisplayMinGaugeWidth = 16

	// DisplayMinGaugeHeight is the shortest gauge drawn, rows
	DisplayMinGaugeHeight = 6

	// DisplayCellAspect is terminal cell height over width
	DisplayCellAspect = 2.0

	// DisplayNeedleLength is needle length relative to the scale radius
	DisplayNeedleLength = 0.9
)

// DisplayScaleLabelsDB are the calibrated dBFS marks of the scale, -Inf is the rest position
var DisplayScaleLabelsDB = []float64{-42, -36, -27, -19, -11, -4, 0}

// Line Display
const (
	// DisplayLogInterval is the minimum gap between lines of the non-TTY display
	DisplayLogInterval = time.Second

	// DisplayBarWidth is the bar length of the non-TTY display
	DisplayBarWidth = 30
)
