// Package chart defines the capability contract the manager expects of a
// chart instance, and a concrete line-chart implementation of it.
package chart

import "github.com/acharts/acharts/internal/controls"

// Chart is everything the manager knows about a registered chart.
type Chart interface {
	// OnControlEvent consumes one broadcast control event. timeUS is the
	// high-resolution timestamp in microseconds.
	OnControlEvent(ev controls.Event, timeUS float64)

	// OnResize reacts to a window resize or reorientation.
	OnResize()

	// Draw renders up to the given timestamp (microseconds) and returns
	// the number of draw actions still pending, zero when the chart is
	// settled.
	Draw(timeUS float64) int
}
