package visualizer

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/markov-kinetics/ratekit/kinetics"
)

// HTML references for the rendered pages.
const timescaleRef = "timescale-stats"
const errorRef = "error-stats"
const potentialRef = "potential-stats"
const chainRef = "markov-chain"

// minEdgeWeight is the smallest transition probability drawn in the chain
// rendering.
const minEdgeWeight = 0.01

// MainHtml is the index page.
const MainHtml = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Ratekit: Rare-Event Kinetics</title>
  </head>
  <body>
    <h1>Ratekit: Rare-Event Kinetics</h1>
    <ul>
    <li> <h3> <a href="/` + timescaleRef + `"> Timescale vs. Simulation Effort </a> </h3> </li>
    <li> <h3> <a href="/` + errorRef + `"> Relative Error vs. Simulation Effort </a> </h3> </li>
    <li> <h3> <a href="/` + potentialRef + `"> Potential and Stationary Distribution </a> </h3> </li>
    <li> <h3> <a href="/` + chainRef + `"> Reference Markov Chain </a> </h3> </li>
    </ul>
</body>
</html>
`

// renderMain renders the main menu.
func renderMain(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, MainHtml)
}

// newSweepChart creates a line chart over the simulation-effort axis with
// the image-saving toolbox enabled.
func newSweepChart(title string, subtitle string) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme: types.ThemeChalk,
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}))
	return chart
}

// convertMeans converts the sweep points of one strategy into chart points;
// failed points become gaps.
func convertMeans(points []kinetics.SweepPoint) []opts.LineData {
	items := []opts.LineData{}
	for _, p := range points {
		if p.Failed {
			items = append(items, opts.LineData{Value: nil})
			continue
		}
		items = append(items, opts.LineData{Value: p.Mean})
	}
	return items
}

// convertBand produces the mean+sigma*std auxiliary series.
func convertBand(points []kinetics.SweepPoint, sigma float64) []opts.LineData {
	items := []opts.LineData{}
	for _, p := range points {
		if p.Failed {
			items = append(items, opts.LineData{Value: nil})
			continue
		}
		items = append(items, opts.LineData{Value: p.Mean + sigma*p.Std})
	}
	return items
}

// convertRelError produces the relative-error series of one strategy.
func convertRelError(points []kinetics.SweepPoint) []opts.LineData {
	items := []opts.LineData{}
	for _, p := range points {
		if p.Failed {
			items = append(items, opts.LineData{Value: nil})
			continue
		}
		items = append(items, opts.LineData{Value: p.RelError})
	}
	return items
}

// effortAxis renders the effort values as x-axis labels.
func effortAxis(efforts []int) []string {
	axis := []string{}
	for _, e := range efforts {
		axis = append(axis, fmt.Sprintf("%d", e))
	}
	return axis
}

// renderTimescaleStats renders the slowest-timescale estimates of both
// strategies against the simulation effort, with the exact reference and
// one-sigma bands.
func renderTimescaleStats(w http.ResponseWriter, r *http.Request) {
	v := GetViewData()
	chart := newSweepChart("Slowest Relaxation Timescale", "posterior mean and one-sigma band vs. total simulated steps")
	reference := []opts.LineData{}
	for range v.Efforts {
		reference = append(reference, opts.LineData{Value: v.Reference})
	}
	chart.SetXAxis(effortAxis(v.Efforts)).
		AddSeries("exact", reference).
		AddSeries("standard MSM", convertMeans(v.Standard)).
		AddSeries("standard +sigma", convertBand(v.Standard, 1.0)).
		AddSeries("standard -sigma", convertBand(v.Standard, -1.0)).
		AddSeries("fixed-pi MSM", convertMeans(v.FixedPi)).
		AddSeries("fixed-pi +sigma", convertBand(v.FixedPi, 1.0)).
		AddSeries("fixed-pi -sigma", convertBand(v.FixedPi, -1.0))
	chart.Render(w)
}

// renderErrorStats renders the relative statistical error of both strategies
// against the simulation effort.
func renderErrorStats(w http.ResponseWriter, r *http.Request) {
	v := GetViewData()
	chart := newSweepChart("Relative Error", "posterior std/mean vs. total simulated steps")
	chart.SetXAxis(effortAxis(v.Efforts)).
		AddSeries("standard MSM", convertRelError(v.Standard)).
		AddSeries("fixed-pi MSM", convertRelError(v.FixedPi))
	chart.Render(w)
}

// renderPotentialStats renders the potential profile and the exact
// stationary distribution over the bins on one page.
func renderPotentialStats(w http.ResponseWriter, r *http.Request) {
	v := GetViewData()

	pot := charts.NewLine()
	pot.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme: types.ThemeChalk,
	}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Double-Well Potential",
			Subtitle: "energy per bin center",
		}))
	potItems := []opts.LineData{}
	axis := []string{}
	for i, x := range v.BinCenters {
		axis = append(axis, fmt.Sprintf("%.2f", x))
		potItems = append(potItems, opts.LineData{Value: v.Potential[i]})
	}
	pot.SetXAxis(axis).AddSeries("V(x)", potItems)

	stat := charts.NewBar()
	stat.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme: types.ThemeChalk,
	}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Stationary Distribution",
			Subtitle: "Boltzmann probability per bin",
		}))
	statItems := []opts.BarData{}
	for _, p := range v.Stationary {
		statItems = append(statItems, opts.BarData{Value: p})
	}
	stat.SetXAxis(axis).AddSeries("pi", statItems)

	page := components.NewPage()
	page.AddCharts(pot, stat)
	page.Render(w)
}

// renderMarkovChain renders the reference chain with transition
// probabilities above the drawing threshold.
func renderMarkovChain(w http.ResponseWriter, r *http.Request) {
	v := GetViewData()
	g := graphviz.New()
	graph, _ := g.Graph()
	defer func() {
		graph.Close()
		g.Close()
	}()
	n := len(v.Matrix)
	nodes := make([]*cgraph.Node, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%d", i)
		nodes[i], _ = graph.CreateNode(label)
		nodes[i].SetLabel(label)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := v.Matrix[i][j]
			if p > minEdgeWeight {
				txt := fmt.Sprintf("%.2f", p)
				e, _ := graph.CreateEdge("", nodes[i], nodes[j])
				e.SetLabel(txt)
				var color string
				switch int(4 * p) {
				case 0:
					color = "gray"
				case 1:
					color = "green"
				case 3:
					color = "indianred"
				case 4:
					color = "red"
				}
				e.SetColor(color)
			}
		}
	}
	txt, _ := renderDotGraph("Reference Markov Chain", g, graph)
	fmt.Fprint(w, txt)
}

// FireUpWeb fires up a new web-server for data visualisation.
func FireUpWeb(m *kinetics.ModelJSON, res *kinetics.ResultsJSON, addr string) {
	GetViewData().PopulateViewData(m, res)
	http.HandleFunc("/", renderMain)
	http.HandleFunc("/"+timescaleRef, renderTimescaleStats)
	http.HandleFunc("/"+errorRef, renderErrorStats)
	http.HandleFunc("/"+potentialRef, renderPotentialStats)
	http.HandleFunc("/"+chainRef, renderMarkovChain)
	http.ListenAndServe(":"+addr, nil)
}
