package chartman_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acharts/acharts/internal/controls"
	"github.com/acharts/acharts/internal/host"
	"github.com/acharts/acharts/internal/host/hosttest"
)

// drainFrames runs every already-requested frame so tests can count fresh
// requests from a clean scheduler.
func drainFrames(f *fixture) {
	for f.window.StepFrame(0) {
	}
}

func TestDispatch_ControlEventReachesEveryChartOnce(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	_, err = f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)

	f.window.SetNow(5)
	f.window.FirePointerDown(host.PointerEvent{X: 10, Y: 4})

	require.Len(t, f.charts, 2)
	for _, c := range f.charts {
		require.Len(t, c.events, 1)
		assert.Equal(t, controls.KindGrab, c.events[0].Kind)
		// Timestamps arrive in microseconds.
		assert.Equal(t, 5000.0, c.times[0])
	}
}

func TestDispatch_EventsBeforeTickCoalesceIntoOneFrame(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	_, err = f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)
	requestsBefore := f.window.FrameRequests

	// A full gesture: four qualifying input events before the next tick.
	f.window.FirePointerDown(host.PointerEvent{X: 1})
	f.window.FirePointerMove(host.PointerEvent{X: 2})
	f.window.FirePointerMove(host.PointerEvent{X: 3})
	f.window.FirePointerUp(host.PointerEvent{X: 3})

	for _, c := range f.charts {
		assert.Len(t, c.events, 4)
	}

	// Exactly one frame scheduled, one draw pass per chart.
	assert.Equal(t, requestsBefore+1, f.window.FrameRequests)
	assert.Equal(t, 1, f.window.PendingFrames())

	require.True(t, f.window.StepFrame(16))
	for _, c := range f.charts {
		assert.Equal(t, 1, c.draws)
	}
	assert.Zero(t, f.window.PendingFrames())
}

func TestDispatch_NonYieldingInputRequestsNoFrame(t *testing.T) {
	// On a touch host a move without a prior down yields no control
	// event, so nothing is broadcast and no frame is requested.
	f := newFixture(t, func(w *hosttest.Window) {
		w.TouchStart = true
		w.TouchPoints = 1
	})
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)
	requestsBefore := f.window.FrameRequests

	f.window.FirePointerMove(host.PointerEvent{X: 2, TouchCount: 1})

	assert.Empty(t, f.charts[0].events)
	assert.Equal(t, requestsBefore, f.window.FrameRequests)
}

func TestListeners_InstallFailureFailsCreateAndRollsBack(t *testing.T) {
	// The resize listener fails to install. The whole listener set rolls
	// back and the registration itself fails: a chart that can never hear
	// input must not exist.
	f := newFixture(t, func(w *hosttest.Window) {
		w.ListenErrs = map[host.Signal]error{
			host.SignalResize: errors.New("resize unavailable"),
		}
	})

	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "listener install")

	assert.Zero(t, f.manager.ChartCount())
	assert.Empty(t, f.manager.ChartIDs())
	assert.False(t, f.manager.ListenersInstalled())
	assert.Zero(t, f.window.TotalListeners())

	// The injected wrapper is gone from the document again.
	slot, ok := f.window.Doc.QuerySelector(".slot")
	require.True(t, ok)
	assert.Empty(t, slot.(*host.Node).Children())

	// Input delivered now reaches nothing.
	f.window.FirePointerDown(host.PointerEvent{X: 1})
	assert.Empty(t, f.charts[0].events)

	// With the fault cleared the next registration succeeds and installs.
	f.window.ListenErrs = nil
	_, err = f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.manager.ChartCount())
	assert.True(t, f.manager.ListenersInstalled())
}

func TestScheduler_RearmsWhileWorkPending(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)

	// The chart will report pending work for two draws, then settle.
	f.charts[0].pendingQueue = []int{1, 1, 0}

	f.window.FirePointerDown(host.PointerEvent{X: 1})
	require.Equal(t, 1, f.window.PendingFrames())

	require.True(t, f.window.StepFrame(16))
	assert.Equal(t, 1, f.window.PendingFrames(), "nonzero pending sum re-arms once")

	require.True(t, f.window.StepFrame(32))
	assert.Equal(t, 1, f.window.PendingFrames())

	require.True(t, f.window.StepFrame(48))
	assert.Zero(t, f.window.PendingFrames(), "zero pending sum goes idle")
	assert.Equal(t, 3, f.charts[0].draws)
}

func TestScheduler_IdleUntilNextEvent(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)

	f.window.FirePointerDown(host.PointerEvent{X: 1})
	require.True(t, f.window.StepFrame(16))
	require.Zero(t, f.window.PendingFrames())

	// A new event wakes the scheduler again.
	f.window.FirePointerMove(host.PointerEvent{X: 2})
	assert.Equal(t, 1, f.window.PendingFrames())
}

func TestResize_BroadcastsToEveryChartAndRequestsFrame(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	_, err = f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)

	f.window.FireResize()

	for _, c := range f.charts {
		assert.Equal(t, 1, c.resizes)
	}
	assert.Equal(t, 1, f.window.PendingFrames())
}

func TestOrientation_RefreshesCapabilitiesSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)
	require.False(t, f.manager.Caps().Get().ScreenOrientation)

	// The host gains a native orientation API; the snapshot is replaced
	// wholesale on the next orientation broadcast.
	f.window.ScreenOrientationAPI = true
	f.window.Fire(host.SignalOrientationFallback, host.PointerEvent{})

	assert.True(t, f.manager.Caps().Get().ScreenOrientation)
	assert.Equal(t, 1, f.charts[0].resizes)
	assert.Equal(t, 1, f.window.PendingFrames())
}

func TestDispatch_ReentrantDestroyIsDeferred(t *testing.T) {
	f := newFixture(t, nil)
	idA, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	_, err = f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)

	// Chart A destroys itself in reaction to the event. The removal must
	// not corrupt the broadcast: chart B still observes the event.
	f.charts[0].onEvent = func() {
		require.NoError(t, f.manager.DestroyChart(idA))
	}

	f.window.FirePointerDown(host.PointerEvent{X: 1})

	assert.Len(t, f.charts[1].events, 1)
	assert.Equal(t, 1, f.manager.ChartCount())
	assert.Len(t, f.manager.ChartIDs(), 1)
	assert.True(t, f.manager.ListenersInstalled())
}

func TestDispatch_ReentrantCreateIsDeferred(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.CreateChart(simplePayload(), nil)
	require.NoError(t, err)
	drainFrames(f)

	created := false
	f.charts[0].onEvent = func() {
		if created {
			return
		}
		created = true
		_, err := f.manager.CreateChart(simplePayload(), nil)
		require.NoError(t, err)
	}

	f.window.FirePointerDown(host.PointerEvent{X: 1})

	assert.Equal(t, 2, f.manager.ChartCount())
	assert.Len(t, f.manager.ChartIDs(), 2)

	// The chart created mid-broadcast must not observe the event that
	// created it.
	assert.Empty(t, f.charts[1].events)
}

func TestBroadcast_ObservesRegistryOrder(t *testing.T) {
	f := newFixture(t, nil)

	var order []int
	for i := range 3 {
		_, err := f.manager.CreateChart(simplePayload(), nil)
		require.NoError(t, err)
		f.charts[i].onEvent = func() { order = append(order, i) }
	}
	drainFrames(f)

	f.window.FirePointerDown(host.PointerEvent{X: 1})

	assert.Equal(t, []int{0, 1, 2}, order)
}
