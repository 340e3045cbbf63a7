// Package chartman is the runtime coordination layer of the charting
// library.
//
// A Manager owns the registry of live chart instances, multiplexes one set
// of global host listeners across all of them, coalesces redraw requests
// into a single per-frame draw pass, and selects each chart's value-axis
// scale at creation time.
//
// The manager is application-owned: construct it with New and keep it for
// the life of the embedding. Hosts that reference it across an embedding
// boundary use the numeric token from Manager.Handle.
package chartman

import (
	"fmt"
	"math"
	"sync"

	"github.com/acharts/acharts/internal/chart"
	"github.com/acharts/acharts/internal/controls"
	"github.com/acharts/acharts/internal/host"
	"github.com/acharts/acharts/internal/observability"
	"github.com/acharts/acharts/internal/params"
	"github.com/acharts/acharts/internal/randomid"
	"github.com/acharts/acharts/internal/scale"
)

const wrapperIDDigits = 6

// wrapperStyle is the fixed styling applied to every injected wrapper
// element.
const wrapperStyle = "width: 100%; height: 100%; position: relative"

// ChartFactory constructs a chart instance for a validated registration.
// Tests substitute it to observe the manager's side of the contract.
type ChartFactory func(
	p *params.ChartParams,
	cfg *params.ChartConfig,
	caps *params.CapsRef,
	mainScale scale.Scale,
	previewScale scale.Scale,
	element host.Element,
) (chart.Chart, error)

type Params struct {
	Env    host.Environment
	Logger *observability.CoreLogger

	// ChartFactory defaults to the concrete line chart.
	ChartFactory ChartFactory
}

// Manager coordinates every chart instance registered in one host window.
type Manager struct {
	// Guards the registry, listener set, scheduler flag and deferral
	// state. Host callbacks never overlap, but a chart reacting to a
	// broadcast may re-enter the manager; see commit.
	mu sync.Mutex

	win    host.Window
	logger *observability.CoreLogger

	// charts and chartIDs correspond 1:1 by index at all times.
	charts   []chart.Chart
	chartIDs []string

	// watcher is shared by every pointer listener and never swapped.
	watcher     controls.Watcher
	touchDevice bool

	// caps is the shared capabilities snapshot holder, refreshed on
	// orientation changes.
	caps *params.CapsRef

	// removers uninstall the global listeners; empty means not installed.
	removers []func()

	// framePending gates RequestFrame; see scheduler.go.
	framePending bool

	// dispatchDepth and deferred queue registry mutations requested while
	// a broadcast is in flight.
	dispatchDepth int
	deferred      []func()

	newChart ChartFactory

	handleOnce sync.Once
	handle     Handle
}

// New constructs a manager bound to the environment's window.
//
// The input modality (mouse vs. touch) is decided here, once, and fixes the
// control watcher for the manager's whole lifetime.
func New(p Params) (*Manager, error) {
	win, err := p.Env.Window()
	if err != nil {
		return nil, fmt.Errorf("chartman: host window: %w", err)
	}

	logger := p.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	caps := params.DetectClientCaps(win)

	var watcher controls.Watcher
	if caps.TouchDevice {
		watcher = controls.NewTouch()
	} else {
		watcher = controls.NewMouse()
	}

	factory := p.ChartFactory
	if factory == nil {
		factory = func(
			cp *params.ChartParams,
			cfg *params.ChartConfig,
			capsRef *params.CapsRef,
			mainScale scale.Scale,
			previewScale scale.Scale,
			element host.Element,
		) (chart.Chart, error) {
			return chart.NewMain(cp, cfg, capsRef, mainScale, previewScale, element)
		}
	}

	logger.Info(fmt.Sprintf("chartman: manager created, touch=%v", caps.TouchDevice))

	return &Manager{
		win:         win,
		logger:      logger,
		watcher:     watcher,
		touchDevice: caps.TouchDevice,
		caps:        params.NewCapsRef(caps),
		newChart:    factory,
	}, nil
}

// CreateChart validates the raw payloads, injects a wrapper element under
// the requested container, selects the chart's scales, registers the chart
// and ensures the global listeners are installed.
//
// It returns the generated wrapper selector ("#ac-<digits>") the host uses
// to destroy the chart later. No partial chart remains registered on any
// failure.
func (m *Manager) CreateChart(rawParams, rawConfig any) (string, error) {
	cfg, err := params.ConfigFromRaw(rawConfig)
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	p, err := params.FromRaw(rawParams, cfg)
	if err != nil {
		return "", &ParamsError{Err: err}
	}

	p.Content.SortDataSets(cfg.SortDataSetsBy)

	doc, err := m.win.Document()
	if err != nil {
		return "", fmt.Errorf("chartman: host document: %w", err)
	}

	wrapper, selector, err := injectWrapper(doc, p.Selector)
	if err != nil {
		return "", err
	}
	p.Selector = selector

	mainScale, previewScale, logChosen := chooseScales(p.Content, cfg.AutoLogScaleThreshold)

	ch, err := m.newChart(p, cfg, m.caps, mainScale, previewScale, wrapper)
	if err != nil {
		// Leave no trace of the failed registration in the document.
		wrapper.Remove()
		return "", fmt.Errorf("chartman: chart construction: %w", err)
	}

	var installErr error
	ran := m.commit(func() {
		m.mu.Lock()
		m.charts = append(m.charts, ch)
		m.chartIDs = append(m.chartIDs, selector)
		m.mu.Unlock()

		if err := m.ensureGlobalListeners(); err != nil {
			// A chart that cannot hear input must not stay registered;
			// undo the registration and the wrapper injection.
			m.dropChart(selector)
			wrapper.Remove()
			installErr = fmt.Errorf("chartman: listener install: %w", err)
			m.logger.CaptureError(installErr)
			return
		}
		m.requestFrame()
	})
	if ran && installErr != nil {
		return "", installErr
	}

	m.logger.Info(fmt.Sprintf(
		"chartman: created chart %s, log_scale=%v", selector, logChosen))
	return selector, nil
}

// DestroyChart removes the chart registered under the given wrapper
// selector, removes its wrapper element from the document, and tears down
// the whole global listener set when the registry becomes empty.
func (m *Manager) DestroyChart(id string) error {
	m.mu.Lock()
	found := false
	for _, existing := range m.chartIDs {
		if existing == id {
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	doc, err := m.win.Document()
	if err != nil {
		return fmt.Errorf("chartman: host document: %w", err)
	}
	wrapper, ok := doc.QuerySelector(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDOMMissing, id)
	}
	wrapper.Remove()

	m.commit(func() {
		if m.dropChart(id) {
			m.uninstallGlobalListeners()
		}
	})

	m.logger.Info(fmt.Sprintf("chartman: destroyed chart %s", id))
	return nil
}

// ChartCount returns the number of registered charts.
func (m *Manager) ChartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.charts)
}

// ChartIDs returns the registered wrapper selectors in registry order.
func (m *Manager) ChartIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.chartIDs))
	copy(ids, m.chartIDs)
	return ids
}

// ListenersInstalled reports whether the global listener set is installed.
func (m *Manager) ListenersInstalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.removers) > 0
}

// Caps returns the shared capabilities snapshot holder.
func (m *Manager) Caps() *params.CapsRef { return m.caps }

// commit runs a registry mutation now, or queues it when a broadcast is in
// flight so that reentrant create/destroy calls from chart callbacks cannot
// corrupt the iteration. It reports whether the mutation ran before
// returning; a queued mutation reports its own failures through the logger.
func (m *Manager) commit(fn func()) bool {
	m.mu.Lock()
	if m.dispatchDepth > 0 {
		m.deferred = append(m.deferred, fn)
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()
	fn()
	return true
}

// dropChart removes the chart registered under the given selector,
// preserving registry order, and reports whether the registry is now empty.
// An already-removed selector is a no-op.
func (m *Manager) dropChart(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.chartIDs {
		if existing == id {
			m.chartIDs = append(m.chartIDs[:i], m.chartIDs[i+1:]...)
			m.charts = append(m.charts[:i], m.charts[i+1:]...)
			break
		}
	}
	return len(m.charts) == 0
}

// injectWrapper appends a full-size wrapper element under the container
// matching the given selector and returns it with its generated selector.
func injectWrapper(doc host.Document, containerSelector string) (host.Element, string, error) {
	container, ok := doc.QuerySelector(containerSelector)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrContainerNotFound, containerSelector)
	}

	wrapper := doc.CreateElement("div")
	id := "ac-" + randomid.GenerateDigits(wrapperIDDigits)
	container.AppendChild(wrapper)
	wrapper.SetAttribute("id", id)
	wrapper.SetAttribute("style", wrapperStyle)
	return wrapper, "#" + id, nil
}

// chooseScales runs the creation-time scale heuristic.
//
// For every data set, the fraction of the chart's value span the set's own
// [min, max] occupies is computed under a candidate logarithmic and a
// candidate linear scale. Data sets whose two fractions are equal carry no
// discriminating signal and are skipped. The logarithmic pair is selected
// when its worst-off data set still covers more than threshold times what
// the linear scale gives its own worst-off set: the heuristic protects the
// data set that would be most visually compressed.
func chooseScales(
	content *params.Content,
	threshold float64,
) (mainScale, previewScale scale.Scale, logChosen bool) {
	logCandidate := scale.NewLog(content)
	linearCandidate := scale.NewLinear(content)

	minLogCovered := math.MaxFloat64
	minLinearCovered := math.MaxFloat64
	for _, ds := range content.DataSets {
		logCovered := logCandidate.Normalize(ds.Meta.Max) -
			logCandidate.Normalize(ds.Meta.Min)
		linearCovered := linearCandidate.Normalize(ds.Meta.Max) -
			linearCandidate.Normalize(ds.Meta.Min)
		if logCovered != linearCovered {
			minLogCovered = math.Min(minLogCovered, logCovered)
			minLinearCovered = math.Min(minLinearCovered, linearCovered)
		}
	}

	if minLogCovered > minLinearCovered*threshold {
		return logCandidate, scale.NewLog(content), true
	}
	return linearCandidate, scale.NewLinear(content), false
}
