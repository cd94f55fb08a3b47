package ps12

import (
	"fmt"

	"github.com/notargets/psfem/geometry2D"
)

// NumMonomials is the size of the local quadratic basis
// 1, xi, eta, xi^2, xi*eta, eta^2 with xi = (x-x0)/h, eta = (y-y0)/h
const NumMonomials = 6

/*
Piece is a piecewise quadratic on the 12-split of one macro triangle, one set
of monomial coefficients per sub-triangle, all in the frame of the split.
Pieces are values: Scale and Add return new pieces.
*/
type Piece struct {
	split *Split
	C     [12][NumMonomials]float64
}

func (pc Piece) Split() *Split { return pc.split }

// IsZero is true for the zero value, which has no split attached
func (pc Piece) IsZero() bool { return pc.split == nil }

func (pc Piece) local(p geometry2D.Point) (xi, eta float64) {
	xi = (p.X[0] - pc.split.Origin.X[0]) / pc.split.H
	eta = (p.X[1] - pc.split.Origin.X[1]) / pc.split.H
	return
}

func (pc Piece) sub(p geometry2D.Point, sub int) int {
	if sub < 0 || sub > 11 {
		return pc.split.Locate(p)
	}
	return sub
}

/*
Eval, Grad and Lapl evaluate the piece at p using the polynomial of
sub-triangle sub. A negative sub locates p within the split first. Value and
gradient are continuous across sub-edges, the laplacian is not, so callers
integrating over the split pass the sub-triangle the point belongs to.
*/
func (pc Piece) Eval(p geometry2D.Point, sub int) float64 {
	c := pc.C[pc.sub(p, sub)]
	xi, eta := pc.local(p)
	return c[0] + c[1]*xi + c[2]*eta + c[3]*xi*xi + c[4]*xi*eta + c[5]*eta*eta
}

func (pc Piece) Grad(p geometry2D.Point, sub int) (g [2]float64) {
	c := pc.C[pc.sub(p, sub)]
	xi, eta := pc.local(p)
	g[0] = (c[1] + 2*c[3]*xi + c[4]*eta) / pc.split.H
	g[1] = (c[2] + c[4]*xi + 2*c[5]*eta) / pc.split.H
	return
}

func (pc Piece) Lapl(p geometry2D.Point, sub int) float64 {
	c := pc.C[pc.sub(p, sub)]
	return 2 * (c[3] + c[5]) / (pc.split.H * pc.split.H)
}

func (pc Piece) Scale(alpha float64) (r Piece) {
	r.split = pc.split
	for s := range pc.C {
		for m := range pc.C[s] {
			r.C[s][m] = alpha * pc.C[s][m]
		}
	}
	return
}

// Add panics when the two pieces live on different splits
func (pc Piece) Add(q Piece) (r Piece) {
	switch {
	case pc.split == nil:
		return q
	case q.split == nil:
		return pc
	case pc.split != q.split && pc.split.Macro != q.split.Macro:
		panic(fmt.Errorf("adding pieces from different triangles %v and %v",
			pc.split.Macro, q.split.Macro))
	}
	r.split = pc.split
	for s := range pc.C {
		for m := range pc.C[s] {
			r.C[s][m] = pc.C[s][m] + q.C[s][m]
		}
	}
	return
}

// monomials returns the local basis row at p, and its x and y derivatives
func (s *Split) monomials(p geometry2D.Point) (v, dx, dy [NumMonomials]float64) {
	xi := (p.X[0] - s.Origin.X[0]) / s.H
	eta := (p.X[1] - s.Origin.X[1]) / s.H
	v = [NumMonomials]float64{1, xi, eta, xi * xi, xi * eta, eta * eta}
	dx = [NumMonomials]float64{0, 1 / s.H, 0, 2 * xi / s.H, eta / s.H, 0}
	dy = [NumMonomials]float64{0, 0, 1 / s.H, 0, xi / s.H, 2 * eta / s.H}
	return
}
