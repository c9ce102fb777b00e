// Package potential defines the asymmetric double-well potential, its
// discretization onto a uniform grid, and the Metropolis reference chain
// that serves as ground truth for the kinetics experiments.
package potential

import (
	"errors"
	"math"
)

// Domain errors for model construction.
var (
	// ErrBadGrid indicates a grid with too few bins or a non-positive domain.
	ErrBadGrid = errors.New("potential: invalid grid (need >= 3 bins and positive half-width)")

	// ErrBadTemperature indicates a non-positive inverse temperature.
	ErrBadTemperature = errors.New("potential: inverse temperature must be positive")
)

// DoubleWell models a particle in an asymmetric bistable potential
//
//	V(x) = Depth*(x^2-1)^2 + Skew*x
//
// Depth controls the barrier height between the two wells; a positive Skew
// tilts the potential so that the left well is deeper than the right one.
type DoubleWell struct {
	Depth, Skew float64
}

// NewDoubleWell creates a double-well potential with the default parameters
// used throughout the rare-event experiments.
func NewDoubleWell() *DoubleWell {
	return &DoubleWell{Depth: 4.0, Skew: 0.5}
}

// Eval computes the potential energy at position x.
func (d *DoubleWell) Eval(x float64) float64 {
	u := x*x - 1.0
	return d.Depth*u*u + d.Skew*x
}

// Params returns the current parameter set.
func (d *DoubleWell) Params() map[string]float64 {
	return map[string]float64{"depth": d.Depth, "skew": d.Skew}
}

// SetParam updates a single parameter by name. Unknown names are ignored.
func (d *DoubleWell) SetParam(name string, v float64) {
	switch name {
	case "depth":
		d.Depth = v
	case "skew":
		d.Skew = v
	}
}

// Grid is a uniform discretization of the interval [-HalfWidth, +HalfWidth]
// into Bins states. Bin i covers [left+i*dx, left+(i+1)*dx) with its center
// as representative coordinate.
type Grid struct {
	Bins      int
	HalfWidth float64
}

// NewGrid creates a discretization grid.
func NewGrid(bins int, halfWidth float64) (*Grid, error) {
	if bins < 3 || halfWidth <= 0.0 {
		return nil, ErrBadGrid
	}
	return &Grid{Bins: bins, HalfWidth: halfWidth}, nil
}

// Width returns the bin width.
func (g *Grid) Width() float64 {
	return 2.0 * g.HalfWidth / float64(g.Bins)
}

// Center returns the center coordinate of bin i.
func (g *Grid) Center(i int) float64 {
	return -g.HalfWidth + (float64(i)+0.5)*g.Width()
}

// Locate returns the bin index for coordinate x, clamped to the domain.
func (g *Grid) Locate(x float64) int {
	i := int(math.Floor((x + g.HalfWidth) / g.Width()))
	if i < 0 {
		return 0
	}
	if i >= g.Bins {
		return g.Bins - 1
	}
	return i
}

// BoltzmannVector computes the exact stationary vector of the discretized
// process, pi_i proportional to exp(-beta*V(x_i)).
func BoltzmannVector(d *DoubleWell, g *Grid, beta float64) ([]float64, error) {
	if beta <= 0.0 {
		return nil, ErrBadTemperature
	}
	pi := make([]float64, g.Bins)
	// subtract the minimum energy before exponentiation to avoid underflow
	vMin := math.Inf(1)
	for i := 0; i < g.Bins; i++ {
		if v := d.Eval(g.Center(i)); v < vMin {
			vMin = v
		}
	}
	z := 0.0
	for i := 0; i < g.Bins; i++ {
		pi[i] = math.Exp(-beta * (d.Eval(g.Center(i)) - vMin))
		z += pi[i]
	}
	for i := 0; i < g.Bins; i++ {
		pi[i] /= z
	}
	return pi, nil
}

// MetropolisMatrix builds the reference transition matrix of the discretized
// jump process: a nearest-neighbour proposal with probability 1/2 per side,
// accepted with the Metropolis rule min(1, exp(-beta*(V_j - V_i))). Proposals
// beyond the domain boundary are rejected. The resulting matrix is stochastic
// and reversible with respect to the Boltzmann vector.
func MetropolisMatrix(d *DoubleWell, g *Grid, beta float64) ([][]float64, error) {
	if beta <= 0.0 {
		return nil, ErrBadTemperature
	}
	n := g.Bins
	T := make([][]float64, n)
	for i := 0; i < n; i++ {
		T[i] = make([]float64, n)
		vi := d.Eval(g.Center(i))
		stay := 1.0
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= n {
				continue
			}
			p := 0.5 * math.Min(1.0, math.Exp(-beta*(d.Eval(g.Center(j))-vi)))
			T[i][j] = p
			stay -= p
		}
		T[i][i] = stay
	}
	return T, nil
}

// DeepWellBin returns the bin with the lowest potential energy.
func DeepWellBin(d *DoubleWell, g *Grid) int {
	k, vMin := 0, math.Inf(1)
	for i := 0; i < g.Bins; i++ {
		if v := d.Eval(g.Center(i)); v < vMin {
			k, vMin = i, v
		}
	}
	return k
}

// ShallowWellBin returns the bin of the local minimum on the opposite side of
// the barrier from the deep well.
func ShallowWellBin(d *DoubleWell, g *Grid) int {
	barrier := BarrierBin(d, g)
	deep := DeepWellBin(d, g)
	k, vMin := barrier, math.Inf(1)
	if deep < barrier {
		for i := barrier; i < g.Bins; i++ {
			if v := d.Eval(g.Center(i)); v < vMin {
				k, vMin = i, v
			}
		}
	} else {
		for i := 0; i <= barrier; i++ {
			if v := d.Eval(g.Center(i)); v < vMin {
				k, vMin = i, v
			}
		}
	}
	return k
}

// BarrierBin returns the bin of the barrier top, the highest-energy bin
// between the two well minima.
func BarrierBin(d *DoubleWell, g *Grid) int {
	// the wells of Depth*(x^2-1)^2+Skew*x straddle x=0 for moderate skew,
	// so search for the maximum in the interior between the outer minima
	left, right := 0, g.Bins-1
	vLeft, vRight := math.Inf(1), math.Inf(1)
	mid := g.Bins / 2
	for i := 0; i < mid; i++ {
		if v := d.Eval(g.Center(i)); v < vLeft {
			left, vLeft = i, v
		}
	}
	for i := mid; i < g.Bins; i++ {
		if v := d.Eval(g.Center(i)); v < vRight {
			right, vRight = i, v
		}
	}
	k, vMax := left, math.Inf(-1)
	for i := left; i <= right; i++ {
		if v := d.Eval(g.Center(i)); v > vMax {
			k, vMax = i, v
		}
	}
	return k
}
