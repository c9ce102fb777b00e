package kinetics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintSummary sends a formatted comparison table of both estimation
// strategies and the headline statistics to the output writer.
func (r *ResultsJSON) PrintSummary(w io.Writer) {
	bold := color.New(color.Bold).SprintfFunc()
	colored := color.New(color.FgBlue, color.Bold).SprintfFunc()

	output(w, "Reference timescale:\t%s steps (lag %d)\n\n", colored("%.1f", r.ReferenceTimescale), r.Lag)

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Effort [steps]", "Standard t2", "Std", "Rel. Error", "Fixed-pi t2", "Std", "Rel. Error"})
	tbl.SetBorder(true)
	for i := range r.Standard {
		std := r.Standard[i]
		fp := r.FixedPi[i]
		tbl.Append([]string{
			fmt.Sprintf("%d", std.Effort),
			formatValue(std.Mean, std.Failed),
			formatValue(std.Std, std.Failed),
			formatValue(std.RelError, std.Failed),
			formatValue(fp.Mean, fp.Failed),
			formatValue(fp.Std, fp.Failed),
			formatValue(fp.RelError, fp.Failed),
		})
	}
	tbl.Render()

	if p, ok := lastValid(r.FixedPi); ok {
		output(w, "\nFixed-pi estimate at maximum effort:\t%s +/- %s steps (%s relative error)\n",
			bold("%.1f", p.Mean), bold("%.1f", p.Std), bold("%.1f%%", 100.0*p.RelError))
	}
	if p, ok := lastValid(r.Standard); ok {
		output(w, "Standard estimate at maximum effort:\t%s +/- %s steps (%s relative error)\n",
			bold("%.1f", p.Mean), bold("%.1f", p.Std), bold("%.1f%%", 100.0*p.RelError))
	}
}

// formatValue renders a table cell; failed estimates are marked explicitly.
func formatValue(v float64, failed bool) string {
	if failed {
		return "n/a"
	}
	return fmt.Sprintf("%.3g", v)
}

// lastValid returns the sweep point of the highest effort that did not fail.
func lastValid(points []SweepPoint) (SweepPoint, bool) {
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].Failed {
			return points[i], true
		}
	}
	return SweepPoint{}, false
}

// output the given message with formatting; write errors on a terminal
// writer are not actionable and are ignored.
func output(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
