package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusConverged = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	// trial pressure distance from saturation
	TraceSettled = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	TraceNear    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	TraceFar     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// PressureTrace renders the last width trial pressures as one glyph each.
// Glyph height follows the trial between the lowest and highest shown. Trials
// within band of psat are drawn as the saturation marker. A NaN psat falls
// back to the final trial.
func PressureTrace(pressures []float64, psat, band float64, width int) string {
	if width <= 0 || len(pressures) == 0 {
		return ""
	}
	if math.IsNaN(psat) {
		psat = pressures[len(pressures)-1]
	}
	shown := pressures[max(0, len(pressures)-width):]

	lo, hi := shown[0], shown[0]
	for _, p := range shown {
		lo = min(lo, p)
		hi = max(hi, p)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	bars := []rune("▁▂▃▄▅▆▇█")
	var sb strings.Builder
	for _, p := range shown {
		dist := math.Abs(p - psat)
		if dist <= band {
			sb.WriteString(TraceSettled.Render("◆"))
			continue
		}
		idx := int((p - lo) / span * float64(len(bars)-1))
		c := string(bars[max(0, min(idx, len(bars)-1))])
		if dist <= 10*band {
			sb.WriteString(TraceNear.Render(c))
		} else {
			sb.WriteString(TraceFar.Render(c))
		}
	}
	return sb.String()
}
