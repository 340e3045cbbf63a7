package termhost

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acharts/acharts/internal/host"
	"github.com/acharts/acharts/internal/observability"
)

// frameTickMsg carries one animation frame tick.
type frameTickMsg time.Time

const frameInterval = 16 * time.Millisecond

// Model translates terminal events into host signals and renders the
// driver's document.
//
// Implements tea.Model.
type Model struct {
	driver *Driver
	logger *observability.CoreLogger

	width, height int
	tickArmed     bool
}

func NewModel(driver *Driver, logger *observability.CoreLogger) *Model {
	return &Model{driver: driver, logger: logger}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.KeyMsg:
		switch t.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = t.Width, t.Height
		m.driver.resize(t.Width, t.Height)
		return m, m.armFrameTick()

	case tea.MouseMsg:
		m.firePointer(t)
		return m, m.armFrameTick()

	case frameTickMsg:
		m.tickArmed = false
		m.driver.runFrames(m.driver.Now())
		return m, m.armFrameTick()
	}

	return m, nil
}

// firePointer maps a terminal mouse event onto the pointer signals.
func (m *Model) firePointer(msg tea.MouseMsg) {
	ev := host.PointerEvent{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.driver.fire(host.SignalPointerDown, ev)
		}
	case tea.MouseActionRelease:
		m.driver.fire(host.SignalPointerUp, ev)
	case tea.MouseActionMotion:
		m.driver.fire(host.SignalPointerMove, ev)
	}
}

// armFrameTick schedules the next frame tick while callbacks are queued,
// keeping at most one tick outstanding.
func (m *Model) armFrameTick() tea.Cmd {
	if m.tickArmed || !m.driver.pendingFrames() {
		return nil
	}
	m.tickArmed = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// View implements tea.Model. It composes the document's rendered elements
// top to bottom.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	content := renderNode(m.driver.Doc().Root())
	return lipgloss.Place(
		m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

// renderNode returns a node's own content, or its children joined
// vertically when it has none.
func renderNode(n *host.Node) string {
	if c := n.Content(); c != "" {
		return c
	}

	parts := make([]string, 0, len(n.Children()))
	for _, child := range n.Children() {
		if s := renderNode(child); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
