// Package controls translates raw pointer input into semantic control
// events.
//
// A watcher is a small gesture state machine: each raw signal produces at
// most one control event, and press/drag tracking lives entirely inside the
// watcher. One watcher instance is shared by every global listener for the
// manager's whole lifetime.
package controls

import "github.com/acharts/acharts/internal/host"

// Kind classifies a control event.
type Kind int

const (
	// KindGrab starts a drag gesture at a position.
	KindGrab Kind = iota
	// KindDrag moves an active gesture; DX/DY carry the step deltas.
	KindDrag
	// KindRelease completes an active gesture.
	KindRelease
	// KindCancel aborts an active gesture without completing it.
	KindCancel
	// KindPoint is a hover position with no active gesture. Touch hosts
	// never produce it.
	KindPoint
)

// Event is the by-value message broadcast unchanged to every registered
// chart.
type Event struct {
	Kind Kind
	X, Y float64

	// DX, DY are the position deltas since the previous event of the same
	// gesture. Only drags carry them.
	DX, DY float64
}

// Watcher turns raw pointer signals into at most one control event each.
type Watcher interface {
	Down(ev host.PointerEvent) (Event, bool)
	Up(ev host.PointerEvent) (Event, bool)
	Moved(ev host.PointerEvent) (Event, bool)
	Left(ev host.PointerEvent) (Event, bool)
}

// Mouse is the watcher for mouse-driven hosts.
type Mouse struct {
	pressed      bool
	lastX, lastY float64
}

func NewMouse() *Mouse { return &Mouse{} }

// Down implements Watcher.
func (m *Mouse) Down(ev host.PointerEvent) (Event, bool) {
	m.pressed = true
	m.lastX, m.lastY = ev.X, ev.Y
	return Event{Kind: KindGrab, X: ev.X, Y: ev.Y}, true
}

// Up implements Watcher.
func (m *Mouse) Up(ev host.PointerEvent) (Event, bool) {
	if !m.pressed {
		return Event{}, false
	}
	m.pressed = false
	return Event{Kind: KindRelease, X: ev.X, Y: ev.Y}, true
}

// Moved implements Watcher.
func (m *Mouse) Moved(ev host.PointerEvent) (Event, bool) {
	if !m.pressed {
		return Event{Kind: KindPoint, X: ev.X, Y: ev.Y}, true
	}
	e := Event{
		Kind: KindDrag,
		X:    ev.X, Y: ev.Y,
		DX: ev.X - m.lastX, DY: ev.Y - m.lastY,
	}
	m.lastX, m.lastY = ev.X, ev.Y
	return e, true
}

// Left implements Watcher.
func (m *Mouse) Left(ev host.PointerEvent) (Event, bool) {
	if !m.pressed {
		return Event{}, false
	}
	m.pressed = false
	return Event{Kind: KindCancel, X: ev.X, Y: ev.Y}, true
}

// Touch is the watcher for touch-driven hosts.
type Touch struct {
	tracking     bool
	lastX, lastY float64
}

func NewTouch() *Touch { return &Touch{} }

// Down implements Watcher.
func (t *Touch) Down(ev host.PointerEvent) (Event, bool) {
	if ev.TouchCount == 0 {
		return Event{}, false
	}
	t.tracking = true
	t.lastX, t.lastY = ev.X, ev.Y
	return Event{Kind: KindGrab, X: ev.X, Y: ev.Y}, true
}

// Up implements Watcher.
func (t *Touch) Up(ev host.PointerEvent) (Event, bool) {
	if !t.tracking {
		return Event{}, false
	}
	t.tracking = false
	return Event{Kind: KindRelease, X: ev.X, Y: ev.Y}, true
}

// Moved implements Watcher. Touch has no hover: moves outside a gesture
// yield nothing.
func (t *Touch) Moved(ev host.PointerEvent) (Event, bool) {
	if !t.tracking {
		return Event{}, false
	}
	e := Event{
		Kind: KindDrag,
		X:    ev.X, Y: ev.Y,
		DX: ev.X - t.lastX, DY: ev.Y - t.lastY,
	}
	t.lastX, t.lastY = ev.X, ev.Y
	return e, true
}

// Left implements Watcher.
func (t *Touch) Left(ev host.PointerEvent) (Event, bool) {
	if !t.tracking {
		return Event{}, false
	}
	t.tracking = false
	return Event{Kind: KindCancel, X: ev.X, Y: ev.Y}, true
}
