// Package host abstracts the environment a chart manager runs in.
//
// The runtime never talks to a concrete host directly: it installs
// listeners for abstract signals, requests animation frames, and
// manipulates a document of elements through the interfaces below. The
// accessors are fallible so that a missing window or document surfaces as
// an error to the calling operation instead of aborting the process.
package host

// Signal identifies one physical input or environment signal a window can
// deliver.
type Signal int

const (
	SignalPointerDown Signal = iota
	SignalPointerUp
	SignalPointerMove

	// SignalPointerCancel is delivered by touch hosts when a gesture is
	// interrupted. Mouse hosts never fire it.
	SignalPointerCancel

	SignalResize

	// SignalOrientation is the native screen-orientation change signal.
	SignalOrientation

	// SignalOrientationFallback is the legacy reorientation signal used
	// when the host has no native screen-orientation support.
	SignalOrientationFallback
)

// PointerEvent is the raw payload of a pointer signal.
//
// Resize and orientation signals deliver a zero PointerEvent.
type PointerEvent struct {
	X, Y float64

	// TouchCount is the number of active touch points, zero on mouse
	// hosts.
	TouchCount int
}

// ListenerFunc receives raw signal payloads.
type ListenerFunc func(PointerEvent)

// Environment is the entry point a manager is constructed with.
type Environment interface {
	// Window returns the host window, or an error if the environment has
	// none.
	Window() (Window, error)
}

// Window is one host window: a signal source, a frame-timing facility and
// the owner of a document.
type Window interface {
	// Document returns the window's document, or an error if it is gone.
	Document() (Document, error)

	// Listen installs a listener for the given signal and returns a
	// function that removes exactly that listener.
	Listen(sig Signal, fn ListenerFunc) (remove func(), err error)

	// RequestFrame schedules fn to run on the host's next animation tick
	// with the current high-resolution timestamp in milliseconds.
	//
	// Callers are expected to keep at most one frame outstanding; the
	// window does not coalesce requests itself.
	RequestFrame(fn func(nowMillis float64)) error

	// Now returns the current high-resolution timestamp in milliseconds.
	Now() float64

	// HasTouchStart reports whether the window exposes a touch-start
	// signal property.
	HasTouchStart() bool

	// MaxTouchPoints reports the number of simultaneous touch points the
	// host supports.
	MaxTouchPoints() int

	// HasScreenOrientation reports whether the host has a native
	// screen-orientation API.
	HasScreenOrientation() bool
}

// Document is a queryable tree of elements.
type Document interface {
	// QuerySelector returns the element matching the selector, if any.
	QuerySelector(selector string) (Element, bool)

	// CreateElement creates a detached element with the given tag.
	CreateElement(tag string) Element
}

// Element is one node in a document.
type Element interface {
	AppendChild(child Element)
	SetAttribute(key, value string)
	Attribute(key string) (string, bool)

	// SetContent replaces the element's rendered content. Charts draw by
	// writing their rendered frame here.
	SetContent(content string)
	Content() string

	// Box returns the element's layout size in host units.
	Box() (width, height int)

	// Remove detaches the element from its parent and drops it from the
	// document's selector index.
	Remove()
}
