package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/holesim/internal/config"
	"github.com/san-kum/holesim/internal/metrics"
	"github.com/san-kum/holesim/internal/sim"
)

const (
	width           = 64
	height          = 32
	historyCapacity = 600
	maxEventLines   = 5
	maxSubsteps     = 5000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// LiveModel steps a world in real time and draws it every tick.
type LiveModel struct {
	cfg       *config.Config
	world     *sim.World
	renderer  *Renderer
	energy    *metrics.KineticEnergy
	seed      int64
	fps       int
	timeScale float64
	running   bool
	initial   int
	survivors []float64
	events    []sim.Spaghettification
}

func NewLiveModel(cfg *config.Config, fps int) (LiveModel, error) {
	palette, err := NewPalette(cfg.Colors)
	if err != nil {
		return LiveModel{}, err
	}
	if fps <= 0 {
		fps = 30
	}

	m := LiveModel{
		cfg:       cfg,
		renderer:  NewRenderer(width, height, palette),
		energy:    metrics.NewKineticEnergy(),
		seed:      cfg.Seed,
		fps:       fps,
		timeScale: 1,
		running:   true,
	}
	if err := m.reset(); err != nil {
		return LiveModel{}, err
	}
	return m, nil
}

func (m *LiveModel) reset() error {
	w, err := m.cfg.BuildWorld(m.seed)
	if err != nil {
		return err
	}
	m.world = w
	m.initial = w.Live()
	m.survivors = make([]float64, 0, historyCapacity)
	m.events = nil
	m.energy.Reset()
	m.energy.Observe(w.Snapshot())
	return nil
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "v":
			m.renderer.Velocities = !m.renderer.Velocities
		case "r":
			m.seed++
			if err := m.reset(); err != nil {
				return m, tea.Quit
			}
		case "+", "=":
			m.timeScale = math.Min(m.timeScale*2, 64)
		case "-", "_":
			m.timeScale = math.Max(m.timeScale/2, 1.0/64)
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// Substeps is how many dt steps cover one frame at the current time scale.
func (m LiveModel) Substeps() int {
	n := int(math.Round(m.timeScale / float64(m.fps) / m.cfg.Dt))
	if n < 1 {
		n = 1
	}
	if n > maxSubsteps {
		n = maxSubsteps
	}
	return n
}

func (m *LiveModel) advance() {
	for i := m.Substeps(); i > 0 && m.world.Live() > 0; i-- {
		m.events = append(m.events, m.world.Step(m.cfg.Dt)...)
	}
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}

	m.energy.Observe(m.world.Snapshot())
	m.survivors = append(m.survivors, float64(m.world.Live()))
	if len(m.survivors) > historyCapacity {
		m.survivors = m.survivors[1:]
	}
}

func (m LiveModel) World() *sim.World { return m.world }

func (m LiveModel) View() string {
	m.renderer.Draw(m.world.Snapshot(), m.world.Attractors())
	canvasView := canvasStyle.Render(m.renderer.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	switch {
	case m.world.Live() == 0:
		s.WriteString(StatusDestroyed.Render("ALL SPAGHETTIFIED"))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.survivors) > 1 {
		chart := asciigraph.Plot(m.survivors, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Survivors"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(Metric("Time", fmt.Sprintf("%.2fs", m.world.Time())) + "\n")
	s.WriteString(Metric("Speed", fmt.Sprintf("x%g", m.timeScale)) + "\n")
	s.WriteString(Metric("Live", fmt.Sprintf("%d/%d", m.world.Live(), m.initial)) + "\n")
	s.WriteString(Metric("Kinetic", fmt.Sprintf("%.5f", m.energy.Last())) + "\n")
	s.WriteString(Metric("Seed", fmt.Sprintf("%d", m.seed)) + "\n")

	s.WriteString("\nSPAGHETTIFIED\n")
	if len(m.events) == 0 {
		s.WriteString(Subtle.Render("  (none)") + "\n")
	}
	for _, e := range m.events {
		s.WriteString(fmt.Sprintf("  t=%6.2fs %-4s #%d -> hole %d\n", e.Time, e.Ball.Kind, e.Ball.ID, e.Attractor))
	}

	s.WriteString(KeyHint.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Speed V:Velocity"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunLive starts the interactive view for cfg.
func RunLive(cfg *config.Config, fps int) error {
	m, err := NewLiveModel(cfg, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
