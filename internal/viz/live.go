package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/experiment"
	"github.com/san-kum/bouncesim/internal/physics"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 300
	trailCapacity   = 80
	maxStepsFrame   = 64
)

type TickMsg time.Time

type point struct{ x, y int }

// Model steps a simulator on every tick and draws the x-z plane of the box.
type Model struct {
	cfg      *config.Config
	registry *experiment.Registry
	sim      *dynamo.Simulator
	contact  *physics.Contact

	step          int
	stepsPerFrame int
	fps           int
	running       bool
	err           error

	canvas   *Canvas
	trail    []point
	heights  []float64
	energies []float64
}

// NewModel builds the experiment described by cfg. The live view ignores
// cfg.Steps and runs until quit.
func NewModel(cfg *config.Config, fps int) (Model, error) {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		cfg:           cfg,
		registry:      experiment.NewRegistry(),
		stepsPerFrame: stepsPerFrame(cfg.Dt, fps),
		fps:           fps,
		running:       true,
		canvas:        NewCanvas(width, height),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// stepsPerFrame keeps simulated time close to wall time.
func stepsPerFrame(dt float64, fps int) int {
	n := int(math.Round(1 / (dt * float64(fps))))
	if n < 1 {
		return 1
	}
	if n > maxStepsFrame {
		return maxStepsFrame
	}
	return n
}

func (m *Model) reset() error {
	exp := experiment.New(m.cfg, nil)
	if err := exp.Setup(m.registry); err != nil {
		return err
	}
	m.sim = exp.GetSimulator()
	m.contact = exp.Contact()
	m.step = 0
	m.err = nil
	m.trail = m.trail[:0]
	m.heights = m.heights[:0]
	m.energies = m.energies[:0]
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance(m.stepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs n steps and records the tracked body once.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			return
		}
		m.step++
	}

	bodies := m.sim.Bodies()
	for i, b := range bodies {
		if !b.IsValid() {
			m.err = &dynamo.SimulationError{Step: m.step, Time: m.time(), Body: i, Wrapped: dynamo.ErrInvalidState}
			return
		}
	}

	tracked := bodies[m.cfg.Track]
	m.heights = appendCapped(m.heights, tracked.R.Z, historyCapacity)

	energy := 0.0
	for _, b := range bodies {
		energy += m.contact.Energy(b)
	}
	m.energies = appendCapped(m.energies, energy, historyCapacity)

	m.trail = append(m.trail, m.project(tracked.R.X, tracked.R.Z))
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func appendCapped(s []float64, v float64, limit int) []float64 {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

func (m *Model) time() float64 {
	return float64(m.step) * m.cfg.Dt
}

// project maps box coordinates (x, z) to canvas dots, leaving a margin so
// penetrating bodies remain visible.
func (m *Model) project(x, z float64) point {
	box := m.contact.Params().Box
	cw, ch := m.canvas.Dots()
	margin := 2
	sx := float64(cw-1-2*margin) / (box.XMax - box.XMin)
	sz := float64(ch-1-2*margin) / box.ZMax
	return point{
		x: margin + int(math.Round((x-box.XMin)*sx)),
		y: ch - 1 - margin - int(math.Round(z*sz)),
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	box := m.contact.Params().Box

	lo := m.project(box.XMin, 0)
	hi := m.project(box.XMax, box.ZMax)
	m.canvas.DrawRect(lo.x, lo.y, hi.x, hi.y)

	for _, p := range m.trail {
		m.canvas.Set(p.x, p.y)
	}

	cw, ch := m.canvas.Dots()
	for _, b := range m.sim.Bodies() {
		c := m.project(b.R.X, b.R.Z)
		rx := int(math.Round(b.Radius / (box.XMax - box.XMin) * float64(cw)))
		ry := int(math.Round(b.Radius / box.ZMax * float64(ch)))
		m.canvas.FillEllipse(c.x, c.y, rx, ry)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	st := currentStyles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("BOUNCESIM") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = st.alert.Render("DIVERGED: " + m.err.Error())
	}
	s.WriteString(status + "\n\n")

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("height z"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	tracked := m.sim.Bodies()[m.cfg.Track]
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.time()))
	row("Step", fmt.Sprintf("%d", m.step))
	row("Position", fmt.Sprintf("%.3f %.3f %.3f", tracked.R.X, tracked.R.Y, tracked.R.Z))
	row("Velocity", fmt.Sprintf("%.3f %.3f %.3f", tracked.V.X, tracked.V.Y, tracked.V.Z))
	if n := len(m.energies); n > 0 {
		row("Energy", fmt.Sprintf("%.4f", m.energies[n-1]))
		if m.energies[0] != 0 {
			row("Retained", ProgressBar(m.energies[n-1]/m.energies[0], 16))
		}
	}
	row("Speed", fmt.Sprintf("%dx", m.stepsPerFrame))

	var walls []string
	for _, o := range m.contact.Overlaps(tracked) {
		walls = append(walls, fmt.Sprintf("%s %.3f", o.Wall, o.Depth))
	}
	if len(walls) > 0 {
		s.WriteString(st.alert.Render("CONTACT "+strings.Join(walls, ", ")) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause N:Step R:Reset Q:Quit\n+/-:Speed T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}
