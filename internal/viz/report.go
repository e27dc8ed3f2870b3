package viz

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/coexist/internal/coexist"
)

// FormatResult is the one-line report of a result.
func FormatResult(r coexist.Result) string {
	line := fmt.Sprintf("T = %g K: V1 = %.4f, V2 = %.4f, P_eq = %.4f", r.Temperature, r.VLiquid, r.VGas, r.Pressure)
	if !r.Converged {
		line += fmt.Sprintf(" (not converged: %s)", r.Reason)
	}
	return line
}

func status(r coexist.Result) string {
	if r.Converged {
		return StatusConverged.Render("converged")
	}
	return StatusFailed.Render(r.Reason)
}

// ResultsTable renders one row per result.
func ResultsTable(results []coexist.Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("T", "V liquid", "V gas", "P sat", "residual", "iter", "status")

	for _, r := range results {
		t.Row(
			strconv.FormatFloat(r.Temperature, 'f', 2, 64),
			strconv.FormatFloat(r.VLiquid, 'f', 5, 64),
			strconv.FormatFloat(r.VGas, 'f', 5, 64),
			strconv.FormatFloat(r.Pressure, 'f', 4, 64),
			strconv.FormatFloat(r.Residual, 'e', 2, 64),
			strconv.Itoa(r.Iterations),
			status(r),
		)
	}
	return t.String()
}

// Metric renders a label/value pair.
func Metric(label string, value string) string {
	return MetricLabel.Render(label+": ") + MetricValue.Render(value)
}
