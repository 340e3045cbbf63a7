// Package scale provides the value-axis normalization strategies.
//
// A scale maps a raw data value to a position in [0, 1] given the content's
// global value bounds. The strategy is selected once per chart at creation
// time and never swapped.
package scale

import (
	"math"

	"github.com/acharts/acharts/internal/params"
)

// Scale normalizes a raw value to [0, 1].
type Scale interface {
	Normalize(v float64) float64
}

// Linear maps values affinely between the content's bounds.
type Linear struct {
	min, span float64
}

func NewLinear(c *params.Content) *Linear {
	span := c.Max - c.Min
	if span == 0 {
		span = 1
	}
	return &Linear{min: c.Min, span: span}
}

// Normalize implements Scale.
func (s *Linear) Normalize(v float64) float64 {
	return (v - s.min) / s.span
}

// logFloor is the positive clamp applied before taking logarithms, so that
// zero and negative values stay finite.
const logFloor = 1e-12

// Log maps values in log10 space between the content's bounds.
type Log struct {
	logMin, logSpan float64
}

func NewLog(c *params.Content) *Log {
	logMin := math.Log10(math.Max(c.Min, logFloor))
	logSpan := math.Log10(math.Max(c.Max, logFloor)) - logMin
	if logSpan == 0 {
		logSpan = 1
	}
	return &Log{logMin: logMin, logSpan: logSpan}
}

// Normalize implements Scale.
func (s *Log) Normalize(v float64) float64 {
	return (math.Log10(math.Max(v, logFloor)) - s.logMin) / s.logSpan
}
