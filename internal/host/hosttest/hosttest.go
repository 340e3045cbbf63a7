// Package hosttest provides a scriptable host environment for tests.
package hosttest

import (
	"errors"
	"sync"

	"github.com/acharts/acharts/internal/host"
)

// Window is a fake host window.
//
// Tests fire signals with the Fire* methods and drive animation frames with
// StepFrame. All state is exported or inspectable so tests can assert on
// listener and frame bookkeeping.
type Window struct {
	mu sync.Mutex

	Doc *host.Doc

	// WindowErr, when set, is returned by the Environment accessor.
	WindowErr error
	// DocumentErr, when set, is returned by Document.
	DocumentErr error

	// Capability probes.
	TouchStart           bool
	TouchPoints          int
	ScreenOrientationAPI bool

	// ListenErrs makes Listen fail for the given signals.
	ListenErrs map[host.Signal]error

	now float64

	nextListenerID int
	listeners      map[host.Signal]map[int]host.ListenerFunc

	// FrameRequests counts every RequestFrame call ever made.
	FrameRequests int
	frameQueue    []func(float64)
}

func NewWindow() *Window {
	return &Window{
		Doc:       host.NewDoc(),
		listeners: make(map[host.Signal]map[int]host.ListenerFunc),
	}
}

// Window implements host.Environment, so a *Window doubles as the
// environment it lives in.
func (w *Window) Window() (host.Window, error) {
	if w.WindowErr != nil {
		return nil, w.WindowErr
	}
	return w, nil
}

// Document implements host.Window.
func (w *Window) Document() (host.Document, error) {
	if w.DocumentErr != nil {
		return nil, w.DocumentErr
	}
	return w.Doc, nil
}

// Listen implements host.Window.
func (w *Window) Listen(sig host.Signal, fn host.ListenerFunc) (func(), error) {
	if fn == nil {
		return nil, errors.New("hosttest: nil listener")
	}
	if err := w.ListenErrs[sig]; err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextListenerID
	w.nextListenerID++
	if w.listeners[sig] == nil {
		w.listeners[sig] = make(map[int]host.ListenerFunc)
	}
	w.listeners[sig][id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners[sig], id)
	}, nil
}

// RequestFrame implements host.Window.
func (w *Window) RequestFrame(fn func(float64)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.FrameRequests++
	w.frameQueue = append(w.frameQueue, fn)
	return nil
}

// Now implements host.Window.
func (w *Window) Now() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

// HasTouchStart implements host.Window.
func (w *Window) HasTouchStart() bool { return w.TouchStart }

// MaxTouchPoints implements host.Window.
func (w *Window) MaxTouchPoints() int { return w.TouchPoints }

// HasScreenOrientation implements host.Window.
func (w *Window) HasScreenOrientation() bool { return w.ScreenOrientationAPI }

// SetNow sets the timestamp returned by Now, in milliseconds.
func (w *Window) SetNow(ms float64) {
	w.mu.Lock()
	w.now = ms
	w.mu.Unlock()
}

// ListenerCount reports how many listeners are installed for a signal.
func (w *Window) ListenerCount(sig host.Signal) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[sig])
}

// TotalListeners reports how many listeners are installed across all
// signals.
func (w *Window) TotalListeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for _, m := range w.listeners {
		total += len(m)
	}
	return total
}

// PendingFrames reports how many requested frames have not yet run.
func (w *Window) PendingFrames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.frameQueue)
}

// StepFrame runs the oldest requested frame callback with the given
// timestamp (milliseconds) and reports whether one ran.
func (w *Window) StepFrame(nowMillis float64) bool {
	w.mu.Lock()
	if len(w.frameQueue) == 0 {
		w.mu.Unlock()
		return false
	}
	fn := w.frameQueue[0]
	w.frameQueue = w.frameQueue[1:]
	w.now = nowMillis
	w.mu.Unlock()

	fn(nowMillis)
	return true
}

// Fire delivers a signal to every installed listener.
func (w *Window) Fire(sig host.Signal, ev host.PointerEvent) {
	w.mu.Lock()
	fns := make([]host.ListenerFunc, 0, len(w.listeners[sig]))
	for _, fn := range w.listeners[sig] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// FirePointerDown delivers a pointer-down signal.
func (w *Window) FirePointerDown(ev host.PointerEvent) { w.Fire(host.SignalPointerDown, ev) }

// FirePointerUp delivers a pointer-up signal.
func (w *Window) FirePointerUp(ev host.PointerEvent) { w.Fire(host.SignalPointerUp, ev) }

// FirePointerMove delivers a pointer-move signal.
func (w *Window) FirePointerMove(ev host.PointerEvent) { w.Fire(host.SignalPointerMove, ev) }

// FireResize delivers a resize signal.
func (w *Window) FireResize() { w.Fire(host.SignalResize, host.PointerEvent{}) }
