package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
	"github.com/matzehuels/anchor/pkg/position/middleware"
	"github.com/matzehuels/anchor/pkg/scene"
	"github.com/matzehuels/anchor/pkg/session"
)

// exploreKey is the tracker key for the explorer's single floating element.
const exploreKey = "floating"

const (
	minStep = 0.25
	maxStep = 512
)

var (
	mapBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	helpStyle      = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// resolveFunc computes a scene's result.
type resolveFunc func(ctx context.Context, sc *scene.Scene) (*position.Result, error)

// resultMsg carries a finished computation back to the model.
type resultMsg struct {
	token  session.Token
	scroll geom.Coords
	result *position.Result
	err    error
}

// =============================================================================
// ExploreModel - Interactive scroll explorer
// =============================================================================

// ExploreModel scrolls a scene and shows where the floating element lands.
// Each scroll change starts a computation in a bubbletea command; results
// that arrive after a newer scroll change are dropped.
type ExploreModel struct {
	Scene  *scene.Scene
	Scroll geom.Coords
	Step   float64

	ctx     context.Context
	resolve resolveFunc
	tracker *session.Tracker

	result  *position.Result
	shown   geom.Coords
	err     error
	dropped int

	width, height int
}

// NewExploreModel creates an explorer positioned at the scene's own scroll
// offset.
func NewExploreModel(ctx context.Context, sc *scene.Scene, resolve resolveFunc) ExploreModel {
	if resolve == nil {
		resolve = func(ctx context.Context, sc *scene.Scene) (*position.Result, error) {
			return scene.Resolve(ctx, sc, nil)
		}
	}
	return ExploreModel{
		Scene:   sc,
		Scroll:  sc.Scroll,
		Step:    10,
		shown:   sc.Scroll,
		ctx:     ctx,
		resolve: resolve,
		tracker: session.NewTracker(),
		width:   80,
		height:  24,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return m.compute()
}

// compute starts a computation for the current scroll offset.
func (m ExploreModel) compute() tea.Cmd {
	tok := m.tracker.Begin(exploreKey)
	sc := m.Scene.WithScroll(m.Scroll)
	ctx, resolve := m.ctx, m.resolve
	return func() tea.Msg {
		res, err := resolve(ctx, sc)
		return resultMsg{token: tok, scroll: sc.Scroll, result: res, err: err}
	}
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		prev := m.Scroll
		limit := m.Scene.MaxScroll()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Scroll.Y -= m.Step
		case "down", "j":
			m.Scroll.Y += m.Step
		case "left", "h":
			m.Scroll.X -= m.Step
		case "right", "l":
			m.Scroll.X += m.Step
		case "pgup":
			m.Scroll.Y -= m.Scene.Container.Height
		case "pgdown", " ":
			m.Scroll.Y += m.Scene.Container.Height
		case "home", "g":
			m.Scroll = geom.Coords{}
		case "end", "G":
			m.Scroll.Y = limit.Y
		case "+", "=":
			m.Step = math.Min(m.Step*2, maxStep)
		case "-", "_":
			m.Step = math.Max(m.Step/2, minStep)
		}
		m.Scroll.X = clampScroll(m.Scroll.X, limit.X)
		m.Scroll.Y = clampScroll(m.Scroll.Y, limit.Y)
		if m.Scroll != prev {
			return m, m.compute()
		}

	case resultMsg:
		if !m.tracker.Accept(msg.token) {
			m.dropped++
			return m, nil
		}
		m.result, m.err, m.shown = msg.result, msg.err, msg.scroll

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + sceneLabel(m.Scene)))
	b.WriteString("\n")
	limit := m.Scene.MaxScroll()
	b.WriteString(StyleDim.Render(fmt.Sprintf("scroll (%s, %s) of (%s, %s)  step %s",
		num(m.Scroll.X), num(m.Scroll.Y), num(limit.X), num(limit.Y), num(m.Step))))
	b.WriteString("\n\n")

	cols, rows := m.mapSize()
	var floating *geom.Rect
	if m.result != nil && m.err == nil {
		r := geom.At(m.result.Coords(), m.result.Rects.Floating.Size())
		floating = &r
	}
	grid := renderMinimap(m.Scene.WithScroll(m.shown), floating, cols, rows)
	b.WriteString(mapBorderStyle.Render(styleMinimap(grid)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(iconError + " " + m.err.Error()))
	case m.result != nil:
		b.WriteString(fmt.Sprintf("%s at (%s, %s)  %s",
			StyleHighlight.Render(string(m.result.Placement)),
			num(m.result.X), num(m.result.Y),
			StyleDim.Render(plural(m.result.Resets, "reset"))))
		if data, ok := dataAs[middleware.AutoPlacementData](m.result.MiddlewareData, middleware.AutoPlacementName); ok {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  %s", plural(len(data.Candidates), "candidate"))))
		}
	default:
		b.WriteString(StyleDim.Render("computing..."))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓/←/→ scroll  pgup/pgdn page  +/- step  g/G top/bottom  q quit"))
	return b.String()
}

// mapSize fits the minimap to the window, keeping the container's aspect
// ratio with terminal cells about twice as tall as wide.
func (m ExploreModel) mapSize() (cols, rows int) {
	maxCols := max(m.width-4, 10)
	maxRows := max(m.height-10, 5)
	c := m.Scene.Container
	if c.Width <= 0 || c.Height <= 0 {
		return maxCols, maxRows
	}
	cols = maxCols
	rows = int(math.Round(float64(cols) * c.Height / c.Width / 2))
	if rows > maxRows {
		rows = maxRows
		cols = int(math.Round(float64(rows) * 2 * c.Width / c.Height))
	}
	return max(cols, 1), max(rows, 1)
}

func clampScroll(v, limit float64) float64 {
	return math.Min(math.Max(v, 0), limit)
}

// =============================================================================
// Minimap
// =============================================================================

const (
	cellEmpty     = '·'
	cellReference = '▒'
	cellFloating  = '█'
)

// renderMinimap draws the container as a cols x rows character grid. A cell
// shows the element covering its center, the floating element on top.
func renderMinimap(sc *scene.Scene, floating *geom.Rect, cols, rows int) []string {
	p := scene.NewPlatform(sc)
	ref, _ := p.Rect(scene.ElementReference)
	box := sc.Container
	sx, sy := box.Width/float64(cols), box.Height/float64(rows)

	lines := make([]string, rows)
	line := make([]rune, cols)
	for r := range rows {
		y := box.Y + (float64(r)+0.5)*sy
		for c := range cols {
			x := box.X + (float64(c)+0.5)*sx
			switch {
			case floating != nil && covers(*floating, x, y):
				line[c] = cellFloating
			case covers(ref, x, y):
				line[c] = cellReference
			default:
				line[c] = cellEmpty
			}
		}
		lines[r] = string(line)
	}
	return lines
}

func covers(r geom.Rect, x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func styleMinimap(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range l {
			switch ch {
			case cellFloating:
				b.WriteString(styleFloating.Render(string(ch)))
			case cellReference:
				b.WriteString(styleReference.Render(string(ch)))
			default:
				b.WriteString(StyleDim.Render(string(ch)))
			}
		}
	}
	return b.String()
}
