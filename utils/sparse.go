package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

/*
DOK is the global assembly accumulator. Writes through AddAt sum into the
entry, so contributions can be scattered in any order. Once complete it is
frozen into a CSR for the solve.
*/
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return mat.Transpose{Matrix: m} }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m DOK) AddAt(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// ReplaceRows returns a copy with each listed row replaced by the matching
// row of the identity
func (m DOK) ReplaceRows(rows []int) (R DOK) {
	var (
		nr, nc = m.Dims()
		skip   = make(map[int]bool, len(rows))
	)
	for _, i := range rows {
		skip[i] = true
	}
	R = NewDOK(nr, nc)
	R.name = m.name
	m.M.DoNonZero(func(i, j int, v float64) {
		if !skip[i] {
			R.M.Set(i, j, v)
		}
	})
	for _, i := range rows {
		R.M.Set(i, i, 1)
	}
	return
}

// Submatrix extracts the dense block A[rows, cols]
func (m DOK) Submatrix(rows, cols []int) (A *mat.Dense) {
	var (
		ri = make(map[int]int, len(rows))
		ci = make(map[int]int, len(cols))
	)
	for n, i := range rows {
		ri[i] = n
	}
	for n, j := range cols {
		ci[j] = n
	}
	A = mat.NewDense(len(rows), len(cols), nil)
	m.M.DoNonZero(func(i, j int, v float64) {
		ii, okI := ri[i]
		jj, okJ := ci[j]
		if okI && okJ {
			A.Set(ii, jj, v)
		}
	})
	return
}

// IsSymmetric compares every stored entry with its transpose, tol is absolute
func (m DOK) IsSymmetric(tol float64) (ok bool) {
	ok = true
	m.M.DoNonZero(func(i, j int, v float64) {
		if diff := v - m.M.At(j, i); diff > tol || diff < -tol {
			ok = false
		}
	})
	return
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return mat.Transpose{Matrix: m} }
func (m CSR) NNZ() int            { return m.M.NNZ() }

// MulVecTo sets dst = A x, or A^T x when trans is set
func (m CSR) MulVecTo(dst []float64, trans bool, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	m.M.MulVecTo(dst, trans, x)
}

// ToDense expands the matrix for the dense factorizations
func (m CSR) ToDense() *mat.Dense {
	return m.M.ToDense()
}
