package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/config"
	"github.com/san-kum/coexist/internal/eos"
)

const (
	minGain = 1.0 / 64
	maxGain = 64.0
)

type solvedMsg struct {
	temp      float64
	gain      float64
	result    coexist.Result
	pressures []float64
	err       error
}

type explorer struct {
	cfg       *config.Config
	solver    *coexist.Solver
	ideal     eos.Model
	temp      float64
	gain      float64
	showIdeal bool
	solving   bool
	result    *coexist.Result
	pressures []float64
	err       error
	width     int
	height    int
}

// NewExplorer builds the explorer model starting at the first configured
// temperature.
func NewExplorer(cfg *config.Config, solver *coexist.Solver) tea.Model {
	temp := config.DefaultTemperature
	if len(cfg.Temperatures) > 0 {
		temp = cfg.Temperatures[0]
	}
	gain := cfg.Solver.Gain
	if gain <= 0 {
		gain = coexist.DefaultGain
	}
	return explorer{
		cfg:       cfg,
		solver:    solver,
		ideal:     eos.NewIdealGas(solver.Model().Substance()),
		temp:      temp,
		gain:      gain,
		showIdeal: cfg.Plot.Ideal,
		solving:   true,
		width:     80,
		height:    24,
	}
}

func (m explorer) Init() tea.Cmd { return m.solve() }

func (m explorer) solve() tea.Cmd {
	iso := m.cfg.IsothermAt(m.temp)
	cfg := m.cfg.Solver
	cfg.Gain = m.gain
	solver, temp, gain := m.solver, m.temp, m.gain
	return func() tea.Msg {
		rec := coexist.NewRecorder()
		res, err := solver.SolveWith(iso, cfg, rec)
		return solvedMsg{temp: temp, gain: gain, result: res, pressures: rec.Pressures(), err: err}
	}
}

func (m explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case solvedMsg:
		// stale answers from a superseded request are dropped
		if msg.temp != m.temp || msg.gain != m.gain {
			return m, nil
		}
		m.solving = false
		m.err = msg.err
		m.pressures = msg.pressures
		if msg.err == nil {
			r := msg.result
			m.result = &r
		} else {
			m.result = nil
		}
	}
	return m, nil
}

func (m explorer) handleKey(msg tea.KeyMsg) (explorer, tea.Cmd) {
	prevTemp, prevGain := m.temp, m.gain
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.temp--
	case "right", "l":
		m.temp++
	case "down", "j":
		m.temp -= 10
	case "up", "k":
		m.temp += 10
	case "[":
		m.gain = max(minGain, m.gain/2)
	case "]":
		m.gain = min(maxGain, m.gain*2)
	case "i":
		m.showIdeal = !m.showIdeal
		return m, nil
	}
	if m.temp <= 0 {
		m.temp = prevTemp
	}
	if m.temp == prevTemp && m.gain == prevGain {
		return m, nil
	}
	m.solving = true
	return m, m.solve()
}

func (m explorer) View() string {
	var b strings.Builder
	crit := eos.Critical(m.solver.Model().Substance())

	b.WriteString(Title.Render(fmt.Sprintf(" %s  %s ", strings.ToUpper(m.solver.Model().Name()), m.solver.Model().Substance().Name)))
	b.WriteString("  ")
	b.WriteString(Subtle.Render(fmt.Sprintf("Tc = %.2f K  Pc = %.2f  Vc = %.4f", crit.T, crit.P, crit.V)))
	b.WriteString("\n\n")

	b.WriteString(Metric("T", fmt.Sprintf("%.1f K", m.temp)))
	b.WriteString("   ")
	b.WriteString(Metric("gain", fmt.Sprintf("%g", m.gain)))
	b.WriteString("   ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.result != nil && m.result.Converged {
		b.WriteString(Metric("V liquid", fmt.Sprintf("%.5f", m.result.VLiquid)))
		b.WriteString("   ")
		b.WriteString(Metric("V gas", fmt.Sprintf("%.5f", m.result.VGas)))
		b.WriteString("   ")
		b.WriteString(Metric("P sat", fmt.Sprintf("%.4f", m.result.Pressure)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.graph())
	b.WriteString("\n\n")

	if len(m.pressures) > 1 {
		psat := math.NaN()
		if m.result != nil && m.result.Converged {
			psat = m.result.Pressure
		}
		b.WriteString(MetricLabel.Render("trial pressure "))
		b.WriteString(PressureTrace(m.pressures, psat, traceBand(psat, m.pressures), min(60, max(10, m.width-20))))
		b.WriteString("\n")
	}

	b.WriteString(Subtle.Render(strings.Repeat("─", max(0, min(m.width, 80)))))
	b.WriteString("\n")
	b.WriteString(KeyHint.Render("←/→ ±1K   ↓/↑ ±10K   [ ] gain   i ideal   q quit"))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// traceBand is the pressure distance counted as settled: 1% of the saturation
// pressure, or of the final trial while unconverged.
func traceBand(psat float64, pressures []float64) float64 {
	if math.IsNaN(psat) {
		psat = pressures[len(pressures)-1]
	}
	return 0.01 * math.Abs(psat)
}

func (m explorer) statusLine() string {
	switch {
	case m.solving:
		return Subtle.Render("solving...")
	case m.err != nil:
		return StatusFailed.Render(m.err.Error())
	case m.result == nil:
		return ""
	}
	return status(*m.result)
}

func (m explorer) graph() string {
	opts := DefaultGraphOptions()
	opts.Width = max(20, min(m.width-12, 100))
	opts.Height = max(6, m.height-16)
	opts.PressureMin = m.cfg.Plot.PressureMin
	opts.PressureMax = m.cfg.Plot.PressureMax

	iso := m.cfg.IsothermAt(m.temp)
	curves := Curves(m.solver.Model(), []float64{m.temp}, iso.VolumeMin, iso.VolumeMax, opts.Width, true)
	if m.showIdeal {
		curves = append(curves, Curves(m.ideal, []float64{m.temp}, iso.VolumeMin, iso.VolumeMax, opts.Width, true)...)
	}
	var sat *coexist.Result
	if m.result != nil && m.result.Converged {
		sat = m.result
	}
	return IsothermGraph(curves, sat, opts)
}

// RunExplorer opens the interactive temperature explorer.
func RunExplorer(cfg *config.Config, solver *coexist.Solver) error {
	_, err := tea.NewProgram(NewExplorer(cfg, solver), tea.WithAltScreen()).Run()
	return err
}
