package chartman

import "sync"

// Handle is an opaque numeric token identifying a manager across the host
// embedding boundary, in the style of runtime/cgo.Handle. The zero Handle
// is never valid.
type Handle uint32

var (
	handleMu   sync.Mutex
	handleByID = make(map[Handle]*Manager)
	lastHandle Handle
)

// Handle returns the manager's boundary token, registering the manager in
// the process-wide table on first use. Repeated calls return the same
// token.
func (m *Manager) Handle() Handle {
	m.handleOnce.Do(func() {
		handleMu.Lock()
		lastHandle++
		m.handle = lastHandle
		handleByID[m.handle] = m
		handleMu.Unlock()
	})
	return m.handle
}

// Resolve returns the manager registered under the token.
func Resolve(h Handle) (*Manager, bool) {
	handleMu.Lock()
	m, ok := handleByID[h]
	handleMu.Unlock()
	return m, ok
}

// Release drops the token's table entry. The manager itself is unaffected;
// only boundary callers lose the ability to resolve it.
func (h Handle) Release() {
	handleMu.Lock()
	delete(handleByID, h)
	handleMu.Unlock()
}
