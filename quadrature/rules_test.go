package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/ps12"
)

var unitRight = geometry2D.Triangle{
	geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 0), geometry2D.NewPoint(0, 1),
}

func TestJacobiGQ(t *testing.T) {
	{ // Legendre weights sum to 2, Jacobi(1,0) to the integral of 1-x
		for N := 0; N < 6; N++ {
			x, w := JacobiGQ(0, 0, N)
			assert.Len(t, x, N+1)
			assert.InDelta(t, 2., sum(w), 1.e-13)
			_, w = JacobiGQ(1, 0, N)
			assert.InDelta(t, 2., sum(w), 1.e-13)
		}
	}
	{ // Two point Legendre nodes are +-1/sqrt(3)
		x, w := JacobiGQ(0, 0, 1)
		assert.InDelta(t, -1/math.Sqrt(3), math.Min(x[0], x[1]), 1.e-14)
		assert.InDelta(t, 1/math.Sqrt(3), math.Max(x[0], x[1]), 1.e-14)
		assert.InDelta(t, 1., w[0], 1.e-14)
	}
	{ // N+1 point rule is exact to degree 2N+1 against the weight
		x, w := JacobiGQ(1, 0, 2)
		var I float64
		for i := range x {
			I += w[i] * math.Pow(x[i], 5)
		}
		// integral of (1-x)x^5 over [-1,1]
		assert.InDelta(t, -2./7, I, 1.e-13)
	}
}

func sum(a []float64) (s float64) {
	for _, v := range a {
		s += v
	}
	return
}

func TestMidpointExactness(t *testing.T) {
	f := func(p geometry2D.Point, _ int) float64 {
		x, y := p.X[0], p.X[1]
		return x*x + x*y + y*y + 1
	}
	exact := 5./24 + 0.5
	assert.InDelta(t, exact, Midpoint{}.Integrate(f, unitRight), 1.e-15)
	for _, name := range []string{"midpoint-ps12", "gauss-ps12", "gauss"} {
		r, err := NewRule(name, 2)
		require.NoError(t, err)
		assert.Equal(t, name, r.Name())
		assert.InDelta(t, exact, r.Integrate(f, unitRight), 1.e-14, name)
	}
}

func TestGaussExactness(t *testing.T) {
	// Over the unit right triangle the integral of x^a y^b is a! b! / (a+b+2)!
	monomial := func(a, b int) Integrand {
		return func(p geometry2D.Point, _ int) float64 {
			return math.Pow(p.X[0], float64(a)) * math.Pow(p.X[1], float64(b))
		}
	}
	exact := func(a, b int) float64 {
		fa, _ := math.Lgamma(float64(a + 1))
		fb, _ := math.Lgamma(float64(b + 1))
		fab, _ := math.Lgamma(float64(a + b + 3))
		return math.Exp(fa + fb - fab)
	}
	for order := 1; order <= 8; order++ {
		g := NewGauss(order)
		assert.InDelta(t, 1., sum(g.Weights), 1.e-14)
		assert.Equal(t, order, g.Degree())
		for a := 0; a <= order; a++ {
			b := order - a
			assert.InDelta(t, exact(a, b), g.Integrate(monomial(a, b), unitRight), 1.e-14,
				"order %d, x^%d y^%d", order, a, b)
		}
	}
	assert.InDelta(t, 1./30, NewGauss(4).Integrate(monomial(4, 0), unitRight), 1.e-15)
	assert.Same(t, NewGauss(5), NewGauss(5))
	{ // A mapped triangle scales by its area
		tri := geometry2D.Triangle{
			geometry2D.NewPoint(1, 1), geometry2D.NewPoint(3, 1), geometry2D.NewPoint(1, 4),
		}
		assert.InDelta(t, 3., NewGauss(3).Integrate(func(geometry2D.Point, int) float64 { return 1 }, tri), 1.e-14)
	}
}

func TestPS12SubIndex(t *testing.T) {
	// A function that is constant on each sub-triangle and equal to its index
	var seen [12]bool
	f := func(_ geometry2D.Point, sub int) float64 {
		seen[sub] = true
		return float64(sub)
	}
	r := PS12{Rule: NewGauss(3)}
	I := r.Integrate(f, unitRight)
	// Sub-triangles 0..5 have area A/8, 6..11 have A/24
	A := 0.5
	expected := A/8*(0+1+2+3+4+5) + A/24*(6+7+8+9+10+11)
	assert.InDelta(t, expected, I, 1.e-14)
	for _, s := range seen {
		assert.True(t, s)
	}
	assert.Equal(t, 12*NumPoints(NewGauss(3)), NumPoints(r))
	{ // A prebuilt split gives the same sums, and plain rules use its macro triangle
		split := ps12.NewSplit(unitRight)
		assert.Equal(t, I, IntegrateOn(r, f, split))
		g := func(p geometry2D.Point, _ int) float64 { return p.X[0] * p.X[1] }
		assert.Equal(t, NewGauss(3).Integrate(g, unitRight), IntegrateOn(NewGauss(3), g, split))
		assert.InDelta(t, 1./24, IntegrateOn(r, g, split), 1.e-15)
	}
}

func TestNewRuleErrors(t *testing.T) {
	_, err := NewRule("midpoint", 4)
	assert.ErrorIs(t, err, ErrInsufficientOrder)
	_, err = NewRule("simpson", 2)
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestLine(t *testing.T) {
	l := NewLine(3)
	assert.Len(t, l.T, 2)
	a, b := geometry2D.NewPoint(0, 0), geometry2D.NewPoint(3, 4)
	// integral of x^3 along the segment, x = 3t, ds = 5 dt
	I := l.Integrate(func(p geometry2D.Point) float64 { return math.Pow(p.X[0], 3) }, a, b)
	assert.InDelta(t, 5*27./4, I, 1.e-12)
}
