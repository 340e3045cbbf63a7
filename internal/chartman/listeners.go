package chartman

import (
	"fmt"
	"slices"

	"github.com/acharts/acharts/internal/chart"
	"github.com/acharts/acharts/internal/controls"
	"github.com/acharts/acharts/internal/host"
	"github.com/acharts/acharts/internal/params"
)

// ensureGlobalListeners installs one listener per physical signal.
//
// Idempotent: a second call while the set is installed is a no-op, keyed on
// the remover set being non-empty. On any installation failure every
// already-installed listener is removed again, so the set is never
// partially installed.
func (m *Manager) ensureGlobalListeners() error {
	m.mu.Lock()
	if len(m.removers) > 0 {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	type binding struct {
		sig host.Signal
		fn  host.ListenerFunc
	}

	bindings := []binding{
		{host.SignalPointerDown, func(ev host.PointerEvent) {
			m.dispatchPointer(m.watcher.Down, ev)
		}},
		{host.SignalPointerUp, func(ev host.PointerEvent) {
			m.dispatchPointer(m.watcher.Up, ev)
		}},
		{host.SignalPointerMove, func(ev host.PointerEvent) {
			m.dispatchPointer(m.watcher.Moved, ev)
		}},
	}
	if m.touchDevice {
		bindings = append(bindings, binding{host.SignalPointerCancel,
			func(ev host.PointerEvent) {
				m.dispatchPointer(m.watcher.Left, ev)
			}})
	}
	bindings = append(bindings, binding{host.SignalResize,
		func(host.PointerEvent) {
			m.broadcastResize(false)
		}})

	// The orientation signal source depends on the current capabilities
	// snapshot.
	orientationSig := host.SignalOrientationFallback
	if m.caps.Get().ScreenOrientation {
		orientationSig = host.SignalOrientation
	}
	bindings = append(bindings, binding{orientationSig,
		func(host.PointerEvent) {
			m.broadcastResize(true)
		}})

	installed := make([]func(), 0, len(bindings))
	for _, b := range bindings {
		remove, err := m.win.Listen(b.sig, b.fn)
		if err != nil {
			for _, r := range installed {
				r()
			}
			return fmt.Errorf("signal %v: %w", b.sig, err)
		}
		installed = append(installed, remove)
	}

	m.mu.Lock()
	m.removers = installed
	m.mu.Unlock()

	m.logger.Debug(fmt.Sprintf(
		"chartman: installed %d global listeners", len(installed)))
	return nil
}

// uninstallGlobalListeners removes the whole set. Called only when the
// registry empties; full teardown, never partial.
func (m *Manager) uninstallGlobalListeners() {
	m.mu.Lock()
	removers := m.removers
	m.removers = nil
	m.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	if len(removers) > 0 {
		m.logger.Debug("chartman: uninstalled global listeners")
	}
}

// dispatchPointer runs one raw pointer signal through the shared control
// watcher and, iff it yields a control event, broadcasts that event to
// every registered chart and requests a frame.
func (m *Manager) dispatchPointer(
	op func(host.PointerEvent) (controls.Event, bool),
	raw host.PointerEvent,
) {
	ev, ok := op(raw)
	if !ok {
		return
	}

	timeUS := m.win.Now() * 1000
	m.broadcast(func(c chart.Chart) {
		c.OnControlEvent(ev, timeUS)
	})
	m.requestFrame()
}

// broadcastResize notifies every chart of a geometry change and requests a
// frame. Orientation changes additionally refresh the capabilities
// snapshot first.
func (m *Manager) broadcastResize(refreshCaps bool) {
	if refreshCaps {
		m.caps.Set(params.DetectClientCaps(m.win))
	}
	m.broadcast(func(c chart.Chart) {
		c.OnResize()
	})
	m.requestFrame()
}

// broadcast applies fn to every chart in registry order. Iteration runs
// over a snapshot and registry mutations requested by a chart's own
// reaction are deferred until the outermost broadcast returns.
func (m *Manager) broadcast(fn func(chart.Chart)) {
	m.mu.Lock()
	snapshot := slices.Clone(m.charts)
	m.dispatchDepth++
	m.mu.Unlock()

	for _, c := range snapshot {
		fn(c)
	}

	m.mu.Lock()
	m.dispatchDepth--
	var drained []func()
	if m.dispatchDepth == 0 {
		drained = m.deferred
		m.deferred = nil
	}
	m.mu.Unlock()

	for _, deferredFn := range drained {
		deferredFn()
	}
}
