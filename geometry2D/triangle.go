package geometry2D

import "math"

type Triangle [3]Point

// SignedArea is positive for counter-clockwise vertex order
func (t Triangle) SignedArea() float64 {
	return 0.5 * ((t[1].X[0]-t[0].X[0])*(t[2].X[1]-t[0].X[1]) -
		(t[2].X[0]-t[0].X[0])*(t[1].X[1]-t[0].X[1]))
}

func (t Triangle) Area() float64 {
	return math.Abs(t.SignedArea())
}

func (t Triangle) Centroid() Point {
	return Point{X: [2]float64{
		(t[0].X[0] + t[1].X[0] + t[2].X[0]) / 3.,
		(t[0].X[1] + t[1].X[1] + t[2].X[1]) / 3.,
	}}
}

// Diameter is the longest edge length
func (t Triangle) Diameter() (h float64) {
	for i := 0; i < 3; i++ {
		h = math.Max(h, Distance(t[i], t[(i+1)%3]))
	}
	return
}

// Barycentric returns the barycentric coordinates of p with respect to t.
// The coordinates sum to one; all are non-negative for points inside t.
func (t Triangle) Barycentric(p Point) (lambda [3]float64) {
	var (
		det = 2 * t.SignedArea()
	)
	if det == 0 {
		return [3]float64{math.NaN(), math.NaN(), math.NaN()}
	}
	lambda[1] = ((p.X[0]-t[0].X[0])*(t[2].X[1]-t[0].X[1]) - (t[2].X[0]-t[0].X[0])*(p.X[1]-t[0].X[1])) / det
	lambda[2] = ((t[1].X[0]-t[0].X[0])*(p.X[1]-t[0].X[1]) - (p.X[0]-t[0].X[0])*(t[1].X[1]-t[0].X[1])) / det
	lambda[0] = 1 - lambda[1] - lambda[2]
	return
}

// FromBarycentric maps barycentric coordinates to the physical point
func (t Triangle) FromBarycentric(lambda [3]float64) Point {
	return Combine(lambda[:], t[:])
}

// Contains tests for inclusion of p in the closed triangle, allowing each
// barycentric coordinate to fall below zero by at most tol
func (t Triangle) Contains(p Point, tol float64) bool {
	lambda := t.Barycentric(p)
	for _, l := range lambda {
		if !(l >= -tol) {
			return false
		}
	}
	return true
}

// MinBarycentric is the smallest barycentric coordinate of p, a signed
// measure of how far inside (positive) or outside (negative) p lies
func (t Triangle) MinBarycentric(p Point) float64 {
	lambda := t.Barycentric(p)
	return math.Min(lambda[0], math.Min(lambda[1], lambda[2]))
}

// OutwardNormal returns the unit normal of edge (t[i], t[(i+1)%3]) pointing
// away from the triangle, independent of the vertex orientation
func (t Triangle) OutwardNormal(i int) Point {
	var (
		a, b = t[i], t[(i+1)%3]
		d    = b.Minus(a)
		n    = Point{X: [2]float64{d.X[1], -d.X[0]}}
	)
	n = n.Scale(1. / n.Norm())
	if n.Dot(t.Centroid().Minus(Midpoint(a, b))) > 0 {
		n = n.Scale(-1)
	}
	return n
}
