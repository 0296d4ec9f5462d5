package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
	"github.com/vovakirdan/pixelwar/internal/storage"
	"github.com/vovakirdan/pixelwar/internal/telemetry"
)

// Speed limits in ticks per frame.
const (
	minSpeed = 1
	maxSpeed = 64
)

// sidebarSpecies is the number of species listed in the census sidebar.
const sidebarSpecies = 10

// Options configures a viewer session.
type Options struct {
	Scenario      string
	Config        config.SimConfig
	Aggression    string
	Seed          int64
	Width         int // Board width in cells
	Height        int // Board height in cells
	FPS           int
	SampleEvery   int // Ticks between history census samples
	Store         *storage.Store
	Logger        *log.Logger
	Renderer      *lipgloss.Renderer // Per-session renderer for SSH; nil for the local terminal
	ScreenshotDir string
}

// Model is the Bubble Tea model for watching a simulation.
type Model struct {
	opts     Options
	sim      *sim.Simulation
	recorder *telemetry.Recorder
	census   telemetry.Census
	last     sim.TickResult

	keys ViewerKeyMap
	help help.Model

	paused     bool
	speed      int // Ticks per frame
	cursor     sim.Coord
	inspecting bool
	status     string

	width    int
	height   int
	saved    bool // Whether the current run has been written to history
	quitting bool
}

// NewModel builds the scenario and wraps it in a viewer.
func NewModel(opts Options) (Model, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}

	s, err := registry.Start(opts.Scenario, opts.Config, opts.Width, opts.Height, opts.Seed)
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		opts:     opts,
		sim:      s,
		recorder: telemetry.NewRecorder(opts.SampleEvery),
		keys:     DefaultViewerKeyMap(),
		help:     h,
		speed:    minSpeed,
		cursor:   sim.C(opts.Width/2, opts.Height/2),
	}
	m.census = telemetry.TakeCensus(0, s.Grid())
	return m, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.advance(m.speed)
		}
		return m, tickCmd(m.opts.FPS)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.sim.Grid()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveRun()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.advance(1)

	case key.Matches(msg, m.keys.Faster):
		m.speed = min(m.speed*2, maxSpeed)

	case key.Matches(msg, m.keys.Slower):
		m.speed = max(m.speed/2, minSpeed)

	case key.Matches(msg, m.keys.Up):
		m.cursor.Y = max(m.cursor.Y-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Y = min(m.cursor.Y+1, g.H-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.X = max(m.cursor.X-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor.X = min(m.cursor.X+1, g.W-1)

	case key.Matches(msg, m.keys.Inspect):
		m.inspecting = !m.inspecting

	case key.Matches(msg, m.keys.Restart):
		m.saveRun()
		if err := m.reseed(time.Now().UnixNano()); err != nil {
			m.status = "reseed failed: " + err.Error()
		}

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// advance runs n ticks and refreshes the census.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.last = m.sim.Step()
		if c, w, ok := m.recorder.Observe(m.last, m.sim.Grid()); ok {
			m.opts.Logger.Debug("census", append(c.Keyvals(), "captures", w.Captures, "deaths", w.Deaths)...)
		}
	}
	m.census = telemetry.TakeCensus(m.sim.Tick(), m.sim.Grid())
}

// reseed starts a fresh board of the same scenario.
func (m *Model) reseed(seed int64) error {
	s, err := registry.Start(m.opts.Scenario, m.opts.Config, m.opts.Width, m.opts.Height, seed)
	if err != nil {
		return err
	}
	m.opts.Seed = seed
	m.sim = s
	m.recorder = telemetry.NewRecorder(m.opts.SampleEvery)
	m.census = telemetry.TakeCensus(0, s.Grid())
	m.last = sim.TickResult{}
	m.saved = false
	m.status = fmt.Sprintf("reseeded %d", seed)
	return nil
}

// saveRun writes the current run to the history database once.
func (m *Model) saveRun() {
	if m.saved || m.opts.Store == nil || m.sim.Tick() == 0 {
		return
	}
	final := telemetry.TakeCensus(m.sim.Tick(), m.sim.Grid())
	run, points := m.recorder.Record(m.meta(), m.sim.Grid(), final)
	if _, err := m.opts.Store.SaveRun(run, points); err != nil {
		m.opts.Logger.Warn("could not save run", "error", err)
		return
	}
	m.saved = true
}

// saveScreenshot writes the board to a PNG file.
func (m *Model) saveScreenshot() {
	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = DefaultScreenshotDir()
	}
	g := m.sim.Grid()
	path := screenshotPath(dir, m.opts.Scenario, m.sim.Tick())
	if err := SavePNG(path, m.sim.ColorBuffer(), g.W, g.H, screenshotScale); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + path
}

func (m Model) meta() telemetry.RunMeta {
	return telemetry.RunMeta{
		Scenario:   m.opts.Scenario,
		Seed:       m.opts.Seed,
		Aggression: m.opts.Aggression,
	}
}

// View renders the board, the sidebar and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	g := m.sim.Grid()
	var cursor *sim.Coord
	if m.inspecting {
		c := m.cursor
		cursor = &c
	}
	board := RenderBoard(m.opts.Renderer, m.sim.ColorBuffer(), g.W, g.H, cursor)

	body := board
	if m.width == 0 || m.width >= minWidthForSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, board, " ", m.renderSidebar())
	}

	r := m.opts.Renderer
	statusStyle := r.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle := r.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// statusLine summarizes the last tick.
func (m Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	state := fmt.Sprintf("x%d", m.speed)
	if m.paused {
		state = "paused"
	}
	return fmt.Sprintf("tick %d  %s  fights %d  captures %d  deaths %d",
		m.sim.Tick(), state, len(m.last.Engagements), m.last.Captures, m.last.Deaths)
}

// renderSidebar renders the census or, when inspecting, the cell report.
func (m Model) renderSidebar() string {
	r := m.opts.Renderer
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth-2).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("PIXELWAR"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s  seed %d", m.opts.Scenario, m.opts.Seed)))
	sb.WriteString("\n\n")

	if m.inspecting {
		sb.WriteString(m.renderInspector())
		return boxStyle.Render(sb.String())
	}

	pop := m.sim.Population()
	fmt.Fprintf(&sb, "survivors %d/%d\n", m.census.Survivors, pop.Len())
	fmt.Fprintf(&sb, "diversity %.2f\n\n", m.census.EffectiveSpecies())

	for _, s := range m.census.Top(sidebarSpecies) {
		swatch := r.NewStyle().Foreground(lipgloss.Color(HexColor(pop.Color(s.ID)))).Render("██")
		fmt.Fprintf(&sb, "%s %-2s %5.1f%%\n", swatch, s.Name, s.Share*100)
	}
	if rest := m.census.Survivors - sidebarSpecies; rest > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("+%d more", rest)))
	}

	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// renderInspector shows the cell under the cursor.
func (m Model) renderInspector() string {
	rep, err := m.sim.Grid().Inspect(m.cursor.X, m.cursor.Y)
	if err != nil {
		return err.Error()
	}
	pop := m.sim.Population()

	var sb strings.Builder
	swatch := m.opts.Renderer.NewStyle().Foreground(lipgloss.Color(HexColor(pop.Color(rep.Cell.Genome)))).Render("██")
	fmt.Fprintf(&sb, "%s %s at %v\n", swatch, rep.Species, rep.At)
	fmt.Fprintf(&sb, "health %d/%d\n", rep.Cell.Health, rep.Stats.Health)
	fmt.Fprintf(&sb, "age    %d/%d\n", rep.Cell.Age, rep.Stats.Expectancy)
	fmt.Fprintf(&sb, "str %d des %d frq %d\n", rep.Stats.Strength, rep.Stats.Desire, rep.Stats.Frequency)
	fmt.Fprintf(&sb, "death %.1f%%\n", m.sim.DeathChance(rep.Cell)*100)
	if len(rep.Enemies) == 0 {
		sb.WriteString("no enemies")
		return sb.String()
	}
	sb.WriteString("enemies:\n")
	for _, e := range rep.Enemies {
		fmt.Fprintf(&sb, "  %-2s %s hp %d\n", e.Dir, e.Species, e.Health)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Simulation returns the simulation being viewed.
func (m Model) Simulation() *sim.Simulation {
	return m.sim
}

// Paused reports whether the frame loop is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Speed returns the number of ticks per frame.
func (m Model) Speed() int {
	return m.speed
}

// Cursor returns the inspected coordinate.
func (m Model) Cursor() sim.Coord {
	return m.cursor
}

// Saved reports whether the current run has been written to history.
func (m Model) Saved() bool {
	return m.saved
}

// Run starts the Bubble Tea program for a viewer session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
