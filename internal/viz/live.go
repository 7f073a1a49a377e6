package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/windtrail/internal/config"
	"github.com/san-kum/windtrail/internal/engine"
	"github.com/san-kum/windtrail/internal/field"
	"github.com/san-kum/windtrail/internal/host"
	"github.com/san-kum/windtrail/internal/pacer"
	"github.com/san-kum/windtrail/internal/palette"
)

const (
	defaultCanvasW  = 80
	defaultCanvasH  = 24
	sidebarWidth    = 40
	historyCapacity = 240
	pollInterval    = 16 * time.Millisecond
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(sidebarWidth)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// statsCollector keeps the latest tick stats and a visible-count history
// for the sidebar sparkline.
type statsCollector struct {
	last    engine.TickStats
	history []float64
}

func (s *statsCollector) OnTick(t engine.TickStats) {
	s.last = t
	s.history = append(s.history, float64(t.Visible))
	if len(s.history) > historyCapacity {
		s.history = s.history[1:]
	}
}

// Model animates a particle engine over a flat-map host in the terminal.
type Model struct {
	fld       *field.Field
	eng       *engine.Engine
	fm        *host.FlatMap
	pc        *pacer.Pacer
	cfg       config.EngineConfig
	scale     palette.Scale
	scaleName string
	styles    []lipgloss.Style
	stats     *statsCollector
	canvas    *Canvas
	paused    bool
	showHelp  bool
}

// NewModel wires field, host and engine together. The engine seeds in
// the host's sub-pixel space and falls back to grid indexes when the
// unprojection misses.
func NewModel(fld *field.Field, cfg *config.Config) (*Model, error) {
	xmin, xmax, ymin, ymax := fld.Bounds()
	fm := host.NewFlatMap(defaultCanvasW*2, defaultCanvasH*4, xmin, xmax, ymin, ymax)

	eng, err := engine.New(fld, engine.Options{
		VelocityScale: cfg.Engine.VelocityScale,
		MaxAge:        cfg.Engine.MaxAge,
		ParticleCount: cfg.Engine.ParticleCount,
		SeedWidth:     defaultCanvasW * 2,
		SeedHeight:    defaultCanvasH * 4,
		Unproject:     fm.Unproject,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	m := &Model{
		fld:       fld,
		eng:       eng,
		fm:        fm,
		pc:        pacer.New(time.Duration(cfg.Engine.FrameIntervalMs * float64(time.Millisecond))),
		cfg:       cfg.Engine,
		scale:     cfg.Scale(),
		scaleName: cfg.Engine.ScaleName,
		stats:     &statsCollector{},
		canvas:    NewCanvas(defaultCanvasW, defaultCanvasH),
	}
	m.styles = buildStyles(m.scale, m.cfg.GlobalAlpha)
	eng.AddObserver(m.stats)
	return m, nil
}

// Run starts the terminal animation and blocks until quit.
func Run(fld *field.Field, cfg *config.Config) error {
	m, err := NewModel(fld, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func buildStyles(scale palette.Scale, alpha float64) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(scale))
	for i, c := range scale {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Faint(alpha < 0.5)
	}
	return styles
}

func (m *Model) Init() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused {
				m.pc.Reset()
			}
		case "r":
			m.eng.Reset()
		case "p":
			m.cycleScale()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if !m.paused && m.pc.Frame(time.Time(msg)) {
			m.step()
		}
		return m, tea.Tick(pollInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step runs one simulate/draw/commit cycle: stage segments, rasterize
// the visible ones, then move the drawn particles.
func (m *Model) step() {
	segments := m.eng.Step()
	m.canvas.Clear()
	min, max := m.fld.Range()

	for _, s := range segments {
		if !m.fm.IsVisible(s.X1, s.Y1) || !m.fm.IsVisible(s.X2, s.Y2) {
			continue
		}
		x0, y0, ok0 := m.fm.Project(s.X1, s.Y1)
		x1, y1, ok1 := m.fm.Project(s.X2, s.Y2)
		if !ok0 || !ok1 {
			continue
		}
		m.canvas.Line(int(x0), int(y0), int(x1), int(y1), m.scale.IndexFor(s.Mag, min, max))
	}

	m.eng.Commit()
}

// resize re-measures the drawing surface. Particle and field state
// survive: only the canvas, the host surface and the seeding domain are
// touched.
func (m *Model) resize(w, h int) {
	cw := w - sidebarWidth - 6
	if cw < 20 {
		cw = 20
	}
	ch := h - 3
	if ch < 8 {
		ch = 8
	}
	m.canvas = NewCanvas(cw, ch)
	m.fm.Resize(cw*2, ch*4)
	m.eng.SetSeedSurface(cw*2, ch*4)
}

func (m *Model) cycleScale() {
	names := palette.Names()
	sort.Strings(names)
	for i, name := range names {
		if name == m.scaleName {
			m.scaleName = names[(i+1)%len(names)]
			m.scale, _ = palette.Get(m.scaleName)
			m.styles = buildStyles(m.scale, m.cfg.GlobalAlpha)
			return
		}
	}
	m.scaleName = names[0]
	m.scale, _ = palette.Get(m.scaleName)
	m.styles = buildStyles(m.scale, m.cfg.GlobalAlpha)
}

func (m *Model) paint(run string, colorClass int) string {
	if colorClass < 0 || colorClass >= len(m.styles) {
		return run
	}
	return m.styles[colorClass].Render(run)
}

func (m *Model) View() string {
	canvasView := canvasStyle.Render(strings.TrimRight(m.canvas.Render(m.paint), "\n"))

	var s strings.Builder
	s.WriteString(headerStyle.Render("WINDTRAIL") + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.stats.history) > 1 {
		chart := asciigraph.Plot(m.stats.history,
			asciigraph.Height(4), asciigraph.Width(sidebarWidth-10),
			asciigraph.Caption("visible"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	min, max := m.fld.Range()
	def := m.fld.Def()
	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.eng.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.cfg.ParticleCount)) + "\n")
	s.WriteString(labelStyle.Render("Visible") + valueStyle.Render(fmt.Sprintf("%d", m.stats.last.Visible)) + "\n")
	s.WriteString(labelStyle.Render("Recycled") + valueStyle.Render(fmt.Sprintf("%d", m.stats.last.Recycled)) + "\n")
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%dx%d", def.Cols, def.Rows)) + "\n")
	s.WriteString(labelStyle.Render("Range") + valueStyle.Render(fmt.Sprintf("%.1f to %.1f", min, max)) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(m.scaleName) + "\n")
	s.WriteString(labelStyle.Render("Max age") + valueStyle.Render(fmt.Sprintf("%d", m.cfg.MaxAge)) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset P:Palette Q:Quit ?:Help"))
	statsView := statsStyle.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space  - Pause/Resume animation
  R      - Reseed all particles
  P      - Cycle color palettes
  Q      - Quit
  ?      - Toggle this help
`
