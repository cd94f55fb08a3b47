package quadrature

import (
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/notargets/psfem/geometry2D"
)

// Line is a Gauss-Legendre rule on the unit interval, used along edges
type Line struct {
	order int
	T, W  []float64
}

// NewLine returns the line rule exact for polynomials of degree order
func NewLine(order int) (l *Line) {
	if order < 1 {
		order = 1
	}
	n := (order + 2) / 2
	l = &Line{
		order: order,
		T:     make([]float64, n),
		W:     make([]float64, n),
	}
	quad.Legendre{}.FixedLocations(l.T, l.W, 0, 1)
	return
}

func (l *Line) Degree() int { return l.order }

// Integrate approximates the integral of f along the segment a-b
func (l *Line) Integrate(f func(p geometry2D.Point) float64, a, b geometry2D.Point) (sum float64) {
	d := b.Minus(a)
	for i, t := range l.T {
		sum += l.W[i] * f(a.Plus(d.Scale(t)))
	}
	return sum * d.Norm()
}
