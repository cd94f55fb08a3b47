package Biharmonic2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/psfem/InputParameters"
	"github.com/notargets/psfem/geometry2D"
)

func TestManufacturedSolution(t *testing.T) {
	{ // Load is the bilaplacian of the exact solution, checked by finite differences
		h := 1.e-2
		pt := geometry2D.NewPoint(0.3, 0.45)
		lap := func(q geometry2D.Point) float64 {
			x, y := q.X[0], q.X[1]
			return (Exact(geometry2D.NewPoint(x+h, y)) + Exact(geometry2D.NewPoint(x-h, y)) +
				Exact(geometry2D.NewPoint(x, y+h)) + Exact(geometry2D.NewPoint(x, y-h)) -
				4*Exact(q)) / (h * h)
		}
		x, y := pt.X[0], pt.X[1]
		bilap := (lap(geometry2D.NewPoint(x+h, y)) + lap(geometry2D.NewPoint(x-h, y)) +
			lap(geometry2D.NewPoint(x, y+h)) + lap(geometry2D.NewPoint(x, y-h)) -
			4*lap(pt)) / (h * h)
		assert.InDelta(t, Load(pt), bilap, 1.e-2*math.Abs(Load(pt))+1.e-3)
	}
	{ // Clamped: zero value and gradient on the boundary
		for _, pt := range []geometry2D.Point{geometry2D.NewPoint(0, 0.3), geometry2D.NewPoint(0.7, 1)} {
			assert.Equal(t, 0., Exact(pt))
			g := ExactGradient(pt)
			assert.InDelta(t, 0., g[0], 1.e-15)
			assert.InDelta(t, 0., g[1], 1.e-15)
		}
	}
}

func TestClampedPlateConvergence(t *testing.T) {
	var reports []Report
	for _, n := range []int{2, 4} {
		ip := InputParameters.NewSolverParameters()
		ip.Refinement = n
		ip.Workers = 2
		c, err := NewClampedPlate(ip, nil)
		require.NoError(t, err)
		_, rpt, err := c.Run()
		require.NoError(t, err)
		reports = append(reports, rpt)
	}
	assert.Less(t, reports[1].L2Error, reports[0].L2Error)
	assert.Less(t, reports[1].RelativeL2, 0.2)
	assert.Equal(t, 3*25+56, reports[1].Dimension)
}
