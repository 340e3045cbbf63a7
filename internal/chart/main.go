package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/acharts/acharts/internal/controls"
	"github.com/acharts/acharts/internal/host"
	"github.com/acharts/acharts/internal/params"
	"github.com/acharts/acharts/internal/scale"
)

const (
	previewHeight = 2
	minMainHeight = 6
	minChartWidth = 20

	// defaultViewSpan is the fraction of the sample range the main chart
	// shows initially; the preview strip always shows the whole range.
	defaultViewSpan = 0.5
)

// Main is a registered chart: a braille line chart over the selected main
// scale plus a preview strip over the preview scale, drawn into the chart's
// wrapper element.
type Main struct {
	params *params.ChartParams
	config *params.ChartConfig
	caps   *params.CapsRef

	mainScale    scale.Scale
	previewScale scale.Scale

	element host.Element
	palette []string

	model         linechart.Model
	width, height int

	// Viewport over the sample range, as fractions of [0, 1].
	viewSpan float64
	offset   float64
	trans    transition

	grabbed  bool
	hasHover bool
	hoverX   float64

	needsRedraw bool
}

// NewMain constructs a chart instance bound to its wrapper element.
func NewMain(
	p *params.ChartParams,
	cfg *params.ChartConfig,
	caps *params.CapsRef,
	mainScale scale.Scale,
	previewScale scale.Scale,
	element host.Element,
) (*Main, error) {
	if element == nil {
		return nil, fmt.Errorf("chart %q: no wrapper element", p.Title)
	}

	m := &Main{
		params:       p,
		config:       cfg,
		caps:         caps,
		mainScale:    mainScale,
		previewScale: previewScale,
		element:      element,
		palette:      paletteFor(cfg.ColorScheme),
		viewSpan:     defaultViewSpan,
		offset:       1 - defaultViewSpan,
		needsRedraw:  true,
	}
	m.trans.to = m.offset
	m.rebuildModel()
	return m, nil
}

// Title returns the chart title.
func (m *Main) Title() string { return m.params.Title }

// Offset returns the committed viewport offset. Used for testing.
func (m *Main) Offset() float64 { return m.offset }

// OnControlEvent implements Chart.
func (m *Main) OnControlEvent(ev controls.Event, timeUS float64) {
	switch ev.Kind {
	case controls.KindGrab:
		// Freeze any in-flight transition where it currently is.
		current, _ := m.trans.at(timeUS)
		m.offset = current
		m.trans = transition{to: current}
		m.grabbed = true

	case controls.KindDrag:
		if !m.grabbed {
			return
		}
		graphWidth := m.model.GraphWidth()
		if graphWidth <= 0 {
			graphWidth = m.width
		}
		shift := ev.DX / float64(graphWidth) * m.viewSpan
		target := m.clampOffset(m.trans.to - shift)
		current, _ := m.trans.at(timeUS)
		m.trans = transition{
			active:     true,
			from:       current,
			to:         target,
			startUS:    timeUS,
			durationUS: m.config.AnimationDuration.Seconds() * 1e6,
		}

	case controls.KindRelease, controls.KindCancel:
		m.grabbed = false

	case controls.KindPoint:
		m.hasHover = true
		m.hoverX = ev.X
	}
	m.needsRedraw = true
}

// OnResize implements Chart. The new box is read from the wrapper element
// on the next draw.
func (m *Main) OnResize() {
	m.needsRedraw = true
}

// Draw implements Chart. Rendering is skipped entirely when no event
// marked a redraw and the viewport has not moved.
func (m *Main) Draw(timeUS float64) int {
	offset, done := m.trans.at(timeUS)
	if m.needsRedraw || offset != m.offset || !done {
		m.offset = offset
		m.render()
		m.needsRedraw = false
	}

	if !done {
		return 1
	}
	return 0
}

func (m *Main) clampOffset(offset float64) float64 {
	return math.Min(math.Max(offset, 0), 1-m.viewSpan)
}

func (m *Main) rebuildModel() {
	w, h := m.element.Box()
	m.width = max(w, minChartWidth)
	m.height = max(h, minMainHeight+previewHeight+1)

	mainHeight := m.height - previewHeight - 1
	m.model = linechart.New(m.width, mainHeight, 0, 1, 0, 1,
		linechart.WithXYSteps(4, 5))
	m.model.AxisStyle = axisStyle
	m.model.LabelStyle = labelStyle
}

// render draws the current frame into the wrapper element.
func (m *Main) render() {
	if w, h := m.element.Box(); max(w, minChartWidth) != m.width ||
		max(h, minMainHeight+previewHeight+1) != m.height {
		m.rebuildModel()
	}

	m.model.Clear()
	m.model.SetViewXRange(m.offset, m.offset+m.viewSpan)
	m.model.DrawXYAxisAndLabel()

	for i, ds := range m.params.Content.DataSets {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.palette[i%len(m.palette)]))
		m.drawDataSet(ds, style)
	}

	heading := m.params.Title
	if m.hasHover {
		if v, ok := m.valueAtColumn(m.hoverX); ok {
			heading = fmt.Sprintf("%s  %.4g", heading, v)
		}
	}
	title := titleStyle.Render(heading)
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.model.View(),
		m.renderPreview(),
	)
	m.element.SetContent(view)
}

// valueAtColumn returns the first data set's value under the given hover
// column, mapped through the current viewport.
func (m *Main) valueAtColumn(x float64) (float64, bool) {
	graphWidth := m.model.GraphWidth()
	if graphWidth <= 0 {
		return 0, false
	}

	frac := m.offset + x/float64(graphWidth)*m.viewSpan
	if frac < 0 || frac > 1 {
		return 0, false
	}

	values := m.params.Content.DataSets[0].Values
	index := int(math.Round(frac * float64(len(values)-1)))
	if index < 0 || index >= len(values) {
		return 0, false
	}
	return values[index], true
}

// drawDataSet plots one data set through the main scale using Braille
// patterns, the same way the preview-free single chart does.
func (m *Main) drawDataSet(ds *params.DataSet, style lipgloss.Style) {
	if len(ds.Values) < 2 {
		return
	}

	graphWidth := m.model.GraphWidth()
	graphHeight := m.model.GraphHeight()
	if graphWidth <= 0 || graphHeight <= 0 {
		return
	}

	bGrid := graph.NewBrailleGrid(
		graphWidth,
		graphHeight,
		0, float64(graphWidth),
		0, float64(graphHeight),
	)

	xScale := float64(graphWidth) / (m.model.ViewMaxX() - m.model.ViewMinX())
	yScale := float64(graphHeight) / (m.model.ViewMaxY() - m.model.ViewMinY())

	lastIndex := float64(len(ds.Values) - 1)
	points := make([]canvas.Float64Point, 0, len(ds.Values))
	for i, value := range ds.Values {
		xFrac := float64(i) / lastIndex
		if xFrac < m.model.ViewMinX() || xFrac > m.model.ViewMaxX() {
			continue
		}
		x := (xFrac - m.model.ViewMinX()) * xScale
		y := (m.mainScale.Normalize(value) - m.model.ViewMinY()) * yScale
		if x >= 0 && x <= float64(graphWidth) && y >= 0 && y <= float64(graphHeight) {
			points = append(points, canvas.Float64Point{X: x, Y: y})
		}
	}
	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		gp1 := bGrid.GridPoint(points[i])
		gp2 := bGrid.GridPoint(points[i+1])
		for _, p := range graph.GetLinePoints(gp1, gp2) {
			bGrid.Set(p)
		}
	}

	startX := 0
	if m.model.YStep() > 0 {
		startX = m.model.Origin().X + 1
	}
	graph.DrawBraillePatterns(&m.model.Canvas,
		canvas.Point{X: startX, Y: 0},
		bGrid.BraillePatterns(),
		style)
}

// blockLevels maps a normalized value to a one-cell bar glyph.
var blockLevels = []rune(" ▁▂▃▄▅▆▇█")

// renderPreview draws the full-range strip under the main chart with the
// current viewport window highlighted.
func (m *Main) renderPreview() string {
	width := m.width
	if width <= 0 {
		return ""
	}

	first := m.params.Content.DataSets[0]
	lastIndex := float64(max(len(first.Values)-1, 1))

	var b strings.Builder
	for col := 0; col < width; col++ {
		frac := float64(col) / float64(max(width-1, 1))
		index := int(math.Round(frac * lastIndex))
		value := m.previewScale.Normalize(first.Values[index])
		value = math.Min(math.Max(value, 0), 1)

		level := int(math.Round(value * float64(len(blockLevels)-1)))
		glyph := string(blockLevels[level])

		inWindow := frac >= m.offset && frac <= m.offset+m.viewSpan
		if inWindow {
			b.WriteString(previewWindowStyle.Render(glyph))
		} else {
			b.WriteString(previewStyle.Render(glyph))
		}
	}
	return b.String()
}

// transition is one eased change of the viewport offset.
type transition struct {
	active     bool
	from, to   float64
	startUS    float64
	durationUS float64
}

// at returns the transition's value at the given timestamp and whether it
// has finished. Finishing deactivates the transition.
func (t *transition) at(timeUS float64) (float64, bool) {
	if !t.active {
		return t.to, true
	}
	if t.durationUS <= 0 {
		t.active = false
		return t.to, true
	}
	progress := (timeUS - t.startUS) / t.durationUS
	if progress >= 1 {
		t.active = false
		return t.to, true
	}
	if progress < 0 {
		progress = 0
	}
	return t.from + (t.to-t.from)*easeOutCubic(progress), false
}

// easeOutCubic provides smooth deceleration for viewport transitions.
func easeOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}
