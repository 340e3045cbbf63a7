package params

import (
	"sync"

	"github.com/acharts/acharts/internal/host"
)

// ClientCaps is an immutable snapshot of host capabilities relevant to
// listener selection. It is replaced wholesale on re-detection, never
// patched field by field.
type ClientCaps struct {
	// TouchDevice reports a touch-start signal plus a positive touch-point
	// count. Decided once at manager construction.
	TouchDevice bool

	// ScreenOrientation reports native screen-orientation support.
	// Re-decided on every capabilities refresh.
	ScreenOrientation bool
}

// DetectClientCaps probes the window for the current capabilities.
func DetectClientCaps(w host.Window) ClientCaps {
	return ClientCaps{
		TouchDevice:       w.HasTouchStart() && w.MaxTouchPoints() > 0,
		ScreenOrientation: w.HasScreenOrientation(),
	}
}

// CapsRef is the shared holder for the current capabilities snapshot. The
// manager and every chart hold the same ref; the manager replaces the
// snapshot on orientation changes.
type CapsRef struct {
	mu   sync.RWMutex
	caps ClientCaps
}

func NewCapsRef(caps ClientCaps) *CapsRef {
	return &CapsRef{caps: caps}
}

// Get returns the current snapshot.
func (r *CapsRef) Get() ClientCaps {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caps
}

// Set replaces the snapshot wholesale.
func (r *CapsRef) Set(caps ClientCaps) {
	r.mu.Lock()
	r.caps = caps
	r.mu.Unlock()
}
