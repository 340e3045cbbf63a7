package chartman

import (
	"fmt"
	"slices"
)

// requestFrame schedules a draw pass on the host's next animation tick.
//
// Any number of requests between two ticks coalesce into one scheduled
// frame: framePending gates the host call and is cleared only at the top of
// the executed frame.
func (m *Manager) requestFrame() {
	m.mu.Lock()
	if m.framePending {
		m.mu.Unlock()
		return
	}
	m.framePending = true
	m.mu.Unlock()

	if err := m.win.RequestFrame(m.onFrame); err != nil {
		m.mu.Lock()
		m.framePending = false
		m.mu.Unlock()
		m.logger.CaptureError(fmt.Errorf("chartman: frame request: %w", err))
	}
}

// onFrame is the single per-tick draw pass.
//
// The pending flag is cleared before any chart draws, so a chart's own draw
// can request a follow-up frame without being suppressed. The scheduler
// re-arms itself only while some chart reports unfinished work, and goes
// idle otherwise.
func (m *Manager) onFrame(nowMillis float64) {
	m.mu.Lock()
	m.framePending = false
	snapshot := slices.Clone(m.charts)
	m.mu.Unlock()

	timeUS := nowMillis * 1000
	actions := 0
	for _, c := range snapshot {
		actions += c.Draw(timeUS)
	}

	if actions > 0 {
		m.requestFrame()
	}
}
