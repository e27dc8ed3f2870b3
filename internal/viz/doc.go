// Package viz renders coexistence results for the terminal and for files.
//
//   - [ResultsTable], [FormatResult]: lipgloss report of solved isotherms
//   - [IsothermGraph], [BinodalGraph]: asciigraph terminal plots
//   - [SavePlot]: PNG/SVG/PDF isotherm chart via gonum/plot
//   - [RunExplorer]: Bubble Tea explorer stepping through temperatures
//
// # Key Bindings
//
//	Left/Right - temperature -/+ 1 K
//	Down/Up    - temperature -/+ 10 K
//	[ ]        - halve/double the solver gain
//	i          - toggle ideal gas overlay
//	q          - quit
//
// Nothing here feeds back into the solver; it only consumes results and
// sampled isotherms.
package viz
