package ps12

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/psfem/geometry2D"
)

var (
	ErrDegenerateTriangle = errors.New("degenerate macro triangle")
	ErrBasisConstruction  = errors.New("unable to construct the PS12 Hermite basis")
)

const (
	NumBasis  = 12
	nUnknowns = 12 * NumMonomials
	// Dimension of the C1 piecewise quadratics on the 12-split
	spaceDim = 12
)

/*
NewHermiteBasis returns the 12 local Hermite functions of the C1 quadratic
Powell-Sabin space on tri. Function 4i+f is dual to functional f at vertex i:

	f = 0  value at v_i
	f = 1  d/dx at v_i
	f = 2  d/dy at v_i
	f = 3  outward normal derivative at the midpoint of edge (v_i, v_i+1)

The space is computed as the null space of the C1 continuity conditions
between the 12 sub-triangle quadratics, then the 12 functionals are inverted
on it.
*/
func NewHermiteBasis(tri geometry2D.Triangle) (basis [NumBasis]Piece, err error) {
	if tri.Area() == 0 {
		err = fmt.Errorf("%w: %v", ErrDegenerateTriangle, tri)
		return
	}
	var (
		s    = NewSplit(tri)
		null *mat.Dense
		B    mat.Dense
	)
	if null, err = s.smoothSubspace(); err != nil {
		return
	}
	F := s.functionals()
	var G, Ginv mat.Dense
	G.Mul(F, null)
	if err = Ginv.Inverse(&G); err != nil {
		err = fmt.Errorf("%w: functionals are not unisolvent: %v", ErrBasisConstruction, err)
		return
	}
	B.Mul(null, &Ginv)
	for j := 0; j < NumBasis; j++ {
		basis[j].split = s
		for sub := 0; sub < 12; sub++ {
			for m := 0; m < NumMonomials; m++ {
				basis[j].C[sub][m] = B.At(sub*NumMonomials+m, j)
			}
		}
	}
	return
}

// continuity assembles the C1 conditions on every interior sub-edge: equal
// values at both ends and the midpoint, equal gradients at both ends
func (s *Split) continuity() (C *mat.Dense) {
	var rows [][nUnknowns]float64
	addRow := func(s1, s2 int, a, b [NumMonomials]float64) {
		var r [nUnknowns]float64
		for m := 0; m < NumMonomials; m++ {
			r[s1*NumMonomials+m] = a[m]
			r[s2*NumMonomials+m] = -b[m]
		}
		rows = append(rows, r)
	}
	for _, e := range SubEdges {
		if len(e.Subs) != 2 {
			continue
		}
		s1, s2 := e.Subs[0], e.Subs[1]
		pa, pb := s.Points[e.A], s.Points[e.B]
		for _, p := range []geometry2D.Point{pa, pb, geometry2D.Midpoint(pa, pb)} {
			v, _, _ := s.monomials(p)
			addRow(s1, s2, v, v)
		}
		for _, p := range []geometry2D.Point{pa, pb} {
			_, dx, dy := s.monomials(p)
			// Scaled by h to keep the rows commensurate with the value rows
			for m := range dx {
				dx[m] *= s.H
				dy[m] *= s.H
			}
			addRow(s1, s2, dx, dx)
			addRow(s1, s2, dy, dy)
		}
	}
	C = mat.NewDense(len(rows), nUnknowns, nil)
	for i := range rows {
		C.SetRow(i, rows[i][:])
	}
	return
}

// smoothSubspace returns an orthonormal basis of the C1 splines as the
// trailing right singular vectors of the continuity matrix
func (s *Split) smoothSubspace() (null *mat.Dense, err error) {
	var (
		svd mat.SVD
		V   mat.Dense
		C   = s.continuity()
	)
	if ok := svd.Factorize(C, mat.SVDFull); !ok {
		err = fmt.Errorf("%w: SVD of the continuity conditions failed", ErrBasisConstruction)
		return
	}
	values := svd.Values(nil)
	var rank int
	for _, sv := range values {
		if sv > 1.e-10*values[0] {
			rank++
		}
	}
	if rank != nUnknowns-spaceDim {
		err = fmt.Errorf("%w: continuity rank is %d, expected %d",
			ErrBasisConstruction, rank, nUnknowns-spaceDim)
		return
	}
	svd.VTo(&V)
	null = mat.DenseCopyOf(V.Slice(0, nUnknowns, rank, nUnknowns))
	return
}

// functionals evaluates the 12 Hermite functionals on the monomial unknowns
func (s *Split) functionals() (F *mat.Dense) {
	F = mat.NewDense(NumBasis, nUnknowns, nil)
	for i := 0; i < 3; i++ {
		// Sub-triangle 2i holds vertex i and the midpoint of edge i
		off := 2 * i * NumMonomials
		v, dx, dy := s.monomials(s.Points[i])
		_, mdx, mdy := s.monomials(s.Points[3+i])
		n := s.Macro.OutwardNormal(i)
		for m := 0; m < NumMonomials; m++ {
			F.Set(4*i+0, off+m, v[m])
			F.Set(4*i+1, off+m, dx[m])
			F.Set(4*i+2, off+m, dy[m])
			F.Set(4*i+3, off+m, n.X[0]*mdx[m]+n.X[1]*mdy[m])
		}
	}
	return
}

// Functionals applies the 12 Hermite functionals of the split to a piece
func (pc Piece) Functionals() (f [NumBasis]float64) {
	s := pc.split
	for i := 0; i < 3; i++ {
		g := pc.Grad(s.Points[i], 2*i)
		f[4*i+0] = pc.Eval(s.Points[i], 2*i)
		f[4*i+1], f[4*i+2] = g[0], g[1]
		n := s.Macro.OutwardNormal(i)
		gm := pc.Grad(s.Points[3+i], 2*i)
		f[4*i+3] = n.X[0]*gm[0] + n.X[1]*gm[1]
	}
	return
}
