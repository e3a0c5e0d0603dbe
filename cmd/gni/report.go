package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/geonum/gni/internal/harness"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printReport(w io.Writer, problem string, rep *harness.Report, plots bool) {
	fmt.Fprintln(w, titleStyle.Render("comparison: "+problem))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("integrator\tdt\tsteps\tmax drift\tglobal err\tstatus"))
	for _, e := range rep.Entries {
		drift := dimStyle.Render("n/a")
		if name, d, ok := worstDrift(e); ok {
			drift = fmt.Sprintf("%.3e (%s)", d, name)
		}
		gerr := dimStyle.Render("unavailable")
		if e.ErrAvailable {
			gerr = fmt.Sprintf("%.3e", e.GlobalErr)
		}
		status := e.Status.String()
		if e.Status != harness.StatusOK {
			status = badStyle.Render(status)
			if e.Status == harness.StatusDiverged {
				status += fmt.Sprintf(" t=%.4g", e.DivergenceT)
			}
		}
		fmt.Fprintf(tw, "%s\t%.4g\t%d\t%s\t%s\t%s\n", e.Label, e.Dt, e.Steps, drift, gerr, status)
	}
	tw.Flush()

	if len(rep.Orders) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("observed convergence order"))
		for _, o := range rep.Orders {
			fmt.Fprintf(w, "  %-14s pairwise %s", o.Label, formatPairwise(o.Pairwise))
			if o.Undetermined() {
				fmt.Fprint(w, "  fit "+dimStyle.Render("undetermined"))
			} else {
				fmt.Fprintf(w, "  fit %.2f", o.Fitted)
			}
			if o.Erratic {
				fmt.Fprint(w, "  "+badStyle.Render("erratic"))
			}
			fmt.Fprintln(w)
		}
	}

	if plots {
		printDriftPlots(w, rep)
	}
}

// printDriftPlots renders one energy-style drift sparkline per candidate at
// its coarsest step size, where drift differences are most visible.
func printDriftPlots(w io.Writer, rep *harness.Report) {
	byLabel := make(map[string]*harness.Entry)
	var labels []string
	for _, e := range rep.Entries {
		if e.Status != harness.StatusOK {
			continue
		}
		cur, ok := byLabel[e.Label]
		if !ok {
			labels = append(labels, e.Label)
			byLabel[e.Label] = e
		} else if e.Dt > cur.Dt {
			byLabel[e.Label] = e
		}
	}
	sort.Strings(labels)

	for _, label := range labels {
		e := byLabel[label]
		name, _, ok := worstDrift(e)
		if !ok {
			continue
		}
		series := e.Invariants[name]
		drift := make([]float64, len(series))
		for i, v := range series {
			drift[i] = v - series[0]
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s drift: %s (dt=%.4g)", name, label, e.Dt)))
		fmt.Fprintln(w, asciigraph.Plot(downsample(drift, 120), asciigraph.Height(8)))
	}
}

// worstDrift picks the invariant with the largest drift for the summary
// column. Names are walked in sorted order so ties render the same way on
// every run.
func worstDrift(e *harness.Entry) (string, float64, bool) {
	names := make([]string, 0, len(e.Drift))
	for name := range e.Drift {
		names = append(names, name)
	}
	sort.Strings(names)
	best := ""
	worst := math.Inf(-1)
	for _, name := range names {
		if d := e.Drift[name]; d > worst {
			best, worst = name, d
		}
	}
	return best, worst, best != ""
}

func formatPairwise(ratios []float64) string {
	parts := make([]string, len(ratios))
	for i, r := range ratios {
		if math.IsNaN(r) {
			parts[i] = "undetermined"
		} else {
			parts[i] = fmt.Sprintf("%.2f", r)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func downsample(series []float64, max int) []float64 {
	if len(series) <= max {
		return series
	}
	out := make([]float64, max)
	for i := range out {
		out[i] = series[i*len(series)/max]
	}
	return out
}
