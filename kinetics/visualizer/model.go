// Package visualizer serves the diagnostic charts of a kinetics experiment:
// timescale and relative error against simulation effort, the potential
// profile with its stationary distribution, and a rendering of the reference
// Markov chain.
package visualizer

import (
	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/kinetics/potential"
)

// ViewData contains the experiment data prepared for visualization.
type ViewData struct {
	Reference float64             // exact slowest timescale
	Efforts   []int               // simulation-effort axis
	Standard  []kinetics.SweepPoint
	FixedPi   []kinetics.SweepPoint

	BinCenters []float64   // coordinate of each bin
	Potential  []float64   // potential energy per bin
	Stationary []float64   // exact stationary vector per bin
	Matrix     [][]float64 // reference transition matrix
}

// views is the singleton for the viewing model.
var views ViewData

// GetViewData returns the pointer to the singleton.
func GetViewData() *ViewData {
	return &views
}

// PopulateViewData populates the view model from the reference model and the
// sweep results.
func (v *ViewData) PopulateViewData(m *kinetics.ModelJSON, r *kinetics.ResultsJSON) {
	v.Reference = r.ReferenceTimescale
	v.Standard = r.Standard
	v.FixedPi = r.FixedPi
	v.Efforts = make([]int, len(r.Standard))
	for i, p := range r.Standard {
		v.Efforts[i] = p.Effort
	}

	dw := &potential.DoubleWell{Depth: m.Depth, Skew: m.Skew}
	grid, err := potential.NewGrid(m.Bins, m.HalfWidth)
	if err != nil {
		// model files are validated on read; a bad grid here is a programming error
		panic(err)
	}
	v.BinCenters = make([]float64, m.Bins)
	v.Potential = make([]float64, m.Bins)
	for i := 0; i < m.Bins; i++ {
		v.BinCenters[i] = grid.Center(i)
		v.Potential[i] = dw.Eval(grid.Center(i))
	}
	v.Stationary = m.StationaryVector
	v.Matrix = m.TransitionMatrix
}
