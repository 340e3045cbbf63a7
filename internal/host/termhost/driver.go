// Package termhost adapts a terminal session into a chart host.
//
// The Driver implements the host interfaces over an in-memory document; the
// Model translates terminal events into host signals and renders the
// document back into the terminal.
package termhost

import (
	"sync"
	"time"

	"github.com/acharts/acharts/internal/host"
)

// Driver is a terminal-backed host window.
//
// Signals originate from terminal input translated by the Model. Animation
// frames queue until the Model's next frame tick.
type Driver struct {
	mu sync.Mutex

	doc   *host.Doc
	start time.Time

	width, height int
	landscape     bool

	nextListenerID int
	listeners      map[host.Signal]map[int]host.ListenerFunc

	frameQueue []func(float64)
}

func NewDriver() *Driver {
	return &Driver{
		doc:       host.NewDoc(),
		start:     time.Now(),
		listeners: make(map[host.Signal]map[int]host.ListenerFunc),
	}
}

// Doc returns the driver's document for container registration.
func (d *Driver) Doc() *host.Doc { return d.doc }

// Window implements host.Environment.
func (d *Driver) Window() (host.Window, error) { return d, nil }

// Document implements host.Window.
func (d *Driver) Document() (host.Document, error) { return d.doc, nil }

// Listen implements host.Window.
func (d *Driver) Listen(sig host.Signal, fn host.ListenerFunc) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextListenerID
	d.nextListenerID++
	if d.listeners[sig] == nil {
		d.listeners[sig] = make(map[int]host.ListenerFunc)
	}
	d.listeners[sig][id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners[sig], id)
	}, nil
}

// RequestFrame implements host.Window. The callback runs on the Model's
// next frame tick.
func (d *Driver) RequestFrame(fn func(nowMillis float64)) error {
	d.mu.Lock()
	d.frameQueue = append(d.frameQueue, fn)
	d.mu.Unlock()
	return nil
}

// Now implements host.Window. Milliseconds since the driver was created.
func (d *Driver) Now() float64 {
	return float64(time.Since(d.start)) / float64(time.Millisecond)
}

// HasTouchStart implements host.Window. Terminals are mouse hosts.
func (d *Driver) HasTouchStart() bool { return false }

// MaxTouchPoints implements host.Window.
func (d *Driver) MaxTouchPoints() int { return 0 }

// HasScreenOrientation implements host.Window. Reorientation is reported
// through the fallback signal when the terminal's aspect flips.
func (d *Driver) HasScreenOrientation() bool { return false }

// fire delivers a signal to every installed listener.
func (d *Driver) fire(sig host.Signal, ev host.PointerEvent) {
	d.mu.Lock()
	fns := make([]host.ListenerFunc, 0, len(d.listeners[sig]))
	for _, fn := range d.listeners[sig] {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// resize records the new terminal size and fires resize, plus the
// orientation fallback signal when the aspect flips between landscape and
// portrait.
func (d *Driver) resize(width, height int) {
	d.mu.Lock()
	d.width, d.height = width, height
	d.doc.Root().SetBox(width, height)
	wasLandscape := d.landscape
	d.landscape = width >= height
	flipped := d.landscape != wasLandscape
	d.mu.Unlock()

	d.fire(host.SignalResize, host.PointerEvent{})
	if flipped {
		d.fire(host.SignalOrientationFallback, host.PointerEvent{})
	}
}

// pendingFrames reports whether frame callbacks are queued.
func (d *Driver) pendingFrames() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frameQueue) > 0
}

// runFrames runs the callbacks queued at entry. Callbacks requested during
// the pass stay queued for the next tick.
func (d *Driver) runFrames(nowMillis float64) {
	d.mu.Lock()
	due := d.frameQueue
	d.frameQueue = nil
	d.mu.Unlock()

	for _, fn := range due {
		fn(nowMillis)
	}
}
