package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/sgostarter/i/l"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/psfem/ps12"
	"github.com/notargets/psfem/quadrature"
	"github.com/notargets/psfem/spline"
	"github.com/notargets/psfem/utils"
)

var (
	ErrAssemblerState   = errors.New("assembler method called out of order")
	ErrSingularSystem   = errors.New("singular linear system")
	ErrProjectionFailed = errors.New("boundary projection failed")
	ErrNonSymmetricForm = errors.New("bilinear form is not symmetric")
)

type state uint8

const (
	stateEmpty state = iota
	stateAssembled
	stateConstrained
	stateFrozen
	stateSolved
)

func (s state) String() string {
	return [...]string{"empty", "assembled", "constrained", "frozen", "solved"}[s]
}

// symmetryTolerance is relative to the largest local matrix entry
const symmetryTolerance = 1.e-10

type localSystem struct {
	A     [ps12.NumBasis][ps12.NumBasis]float64 // upper triangle, or all of it when checking symmetry
	b     [ps12.NumBasis]float64
	scale float64 // largest entry
}

/*
Assembler owns the global system of one solve and walks it through
Assemble, ImposeDirichlet (or ImposeHomogeneous), Freeze and Solve in that
order. The space is only read.
*/
type Assembler struct {
	V    *spline.Space
	opts Options

	A   utils.DOK
	B   []float64
	csr utils.CSR

	homogeneous bool
	state       state
	logger      l.Wrapper
}

func NewAssembler(V *spline.Space, opts Options) (as *Assembler) {
	as = &Assembler{
		V:    V,
		opts: opts,
	}
	if as.opts.BilinearRule == nil || as.opts.LinearRule == nil {
		def := DefaultOptions()
		if as.opts.BilinearRule == nil {
			as.opts.BilinearRule = def.BilinearRule
		}
		if as.opts.LinearRule == nil {
			as.opts.LinearRule = def.LinearRule
		}
	}
	as.logger = opts.Logger
	if as.logger == nil {
		as.logger = l.NewNopLoggerWrapper()
	}
	as.logger = as.logger.WithFields(l.StringField(l.ClsKey, "assembler"))
	return
}

func (as *Assembler) expect(s state, op string) error {
	if as.state != s {
		return fmt.Errorf("%w: %s needs state %s, assembler is %s", ErrAssemblerState, op, s, as.state)
	}
	return nil
}

/*
Assemble integrates a and L on every triangle and scatters the results into
the global matrix and load vector. Local systems are computed on
opts.Workers goroutines into per-triangle buffers and merged in triangle
order, so the result does not depend on the number of workers.
*/
func (as *Assembler) Assemble(a BilinearForm, L LinearForm) (err error) {
	if err = as.expect(stateEmpty, "Assemble"); err != nil {
		return
	}
	var (
		K     = as.V.Mesh.NumTriangles()
		dim   = as.V.Dimension
		pm    = utils.NewPartitionMap(as.opts.Workers, K)
		local = make([]localSystem, K)
	)
	as.logger.WithFields(l.IntField("triangles", K), l.IntField("dimension", dim),
		l.IntField("workers", pm.ParallelDegree),
		l.StringField("bilinearRule", as.opts.BilinearRule.Name()),
		l.StringField("linearRule", as.opts.LinearRule.Name())).Debug("assembling")
	pm.ParallelDo(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			as.localSystem(k, a, L, &local[k])
		}
	})
	as.A = utils.NewDOK(dim, dim)
	as.B = make([]float64, dim)
	var scale float64
	for k := 0; k < K; k++ {
		l2g := as.V.Numbering.LocalToGlobal[k]
		scale = math.Max(scale, local[k].scale)
		for i := 0; i < ps12.NumBasis; i++ {
			gi := l2g[i]
			for j := 0; j < ps12.NumBasis; j++ {
				gj := l2g[j]
				switch {
				case as.opts.CheckSymmetry:
					as.A.AddAt(gi, gj, local[k].A[i][j])
				case j > i:
					as.A.AddAt(gi, gj, local[k].A[i][j])
					as.A.AddAt(gj, gi, local[k].A[i][j])
				case j == i:
					as.A.AddAt(gi, gi, local[k].A[i][i])
				}
			}
			as.B[gi] += local[k].b[i]
		}
	}
	if as.opts.CheckSymmetry && !as.A.IsSymmetric(symmetryTolerance*math.Max(scale, 1)) {
		err = fmt.Errorf("%w: assembled matrix differs from its transpose", ErrNonSymmetricForm)
		as.logger.WithFields(l.ErrorField(err)).Error("symmetry check failed")
		return
	}
	as.state = stateAssembled
	return
}

func (as *Assembler) localSystem(k int, a BilinearForm, L LinearForm, ls *localSystem) {
	var (
		pieces = as.V.TrianglePieces(k)
		split  = pieces[0].Split()
		ar, lr = as.opts.BilinearRule, as.opts.LinearRule
	)
	for i := range pieces {
		jMin := i
		if as.opts.CheckSymmetry {
			jMin = 0
		}
		for j := jMin; j < ps12.NumBasis; j++ {
			ls.A[i][j] = quadrature.IntegrateOn(ar, a(pieces[i], pieces[j]), split)
			ls.scale = math.Max(ls.scale, math.Abs(ls.A[i][j]))
		}
		ls.b[i] = quadrature.IntegrateOn(lr, L(pieces[i]), split)
	}
}

/*
ImposeDirichlet replaces the row of every boundary dof d by the identity row
and sets the load to boundary[d], leaving the dimension of the system
unchanged. Entries of boundary at interior dofs are ignored.
*/
func (as *Assembler) ImposeDirichlet(boundary []float64) (err error) {
	if err = as.expect(stateAssembled, "ImposeDirichlet"); err != nil {
		return
	}
	if len(boundary) != as.V.Dimension {
		err = fmt.Errorf("%w: boundary coefficients have length %d, dimension is %d",
			spline.ErrCoefficientLength, len(boundary), as.V.Dimension)
		return
	}
	as.A = as.A.ReplaceRows(as.V.BoundaryDOFs)
	for _, d := range as.V.BoundaryDOFs {
		as.B[d] = boundary[d]
	}
	as.state = stateConstrained
	return
}

// ImposeHomogeneous fixes every boundary dof at zero. The solve is then
// restricted to the interior block.
func (as *Assembler) ImposeHomogeneous() (err error) {
	if err = as.expect(stateAssembled, "ImposeHomogeneous"); err != nil {
		return
	}
	as.homogeneous = true
	as.state = stateConstrained
	return
}

// Freeze compresses the accumulator, after which it can no longer be written
func (as *Assembler) Freeze() (err error) {
	if err = as.expect(stateConstrained, "Freeze"); err != nil {
		return
	}
	as.A.SetReadOnly("A")
	as.csr = as.A.ToCSR()
	as.state = stateFrozen
	return
}

// Matrix returns the frozen system matrix
func (as *Assembler) Matrix() (A utils.CSR, err error) {
	if as.state < stateFrozen {
		err = fmt.Errorf("%w: matrix is not frozen, assembler is %s", ErrAssemblerState, as.state)
		return
	}
	return as.csr, nil
}

/*
Solve factors the frozen system. With homogeneous conditions only the
interior block is factored, by Cholesky with an LU fallback. Otherwise the
row replaced system is expanded to a dense matrix and factored by LU, which
costs O(n^3) in the dimension: there is no sparse direct factorization to
hand, so this path suits moderate meshes.
*/
func (as *Assembler) Solve() (res *Result, err error) {
	if err = as.expect(stateFrozen, "Solve"); err != nil {
		return
	}
	res = &Result{
		Dimension: as.V.Dimension,
		NonZeros:  as.csr.NNZ(),
	}
	var (
		x      []float64
		system *mat.Dense
	)
	if as.homogeneous {
		interior := as.V.InteriorDOFs
		system = as.A.Submatrix(interior, interior)
		rhs := make([]float64, len(interior))
		for n, d := range interior {
			rhs[n] = as.B[d]
		}
		var xi []float64
		if xi, err = solveSymmetric(system, rhs, as.logger); err != nil {
			return nil, err
		}
		x = make([]float64, as.V.Dimension)
		for n, d := range interior {
			x[d] = xi[n]
		}
	} else {
		system = as.csr.ToDense()
		if x, err = solveLU(system, as.B); err != nil {
			return nil, err
		}
	}
	res.Coefficients = x
	if as.opts.ReportCondition {
		res.Condition = utils.ConditionNumber(system)
		as.logger.WithFields(l.StringField("condition", fmt.Sprintf("%.4e", res.Condition))).
			Info("system condition number")
	}
	as.state = stateSolved
	return
}

// solveSymmetric tries a Cholesky factorization and falls back to LU when
// the matrix is not positive definite
func solveSymmetric(A *mat.Dense, b []float64, logger l.Wrapper) (x []float64, err error) {
	n, _ := A.Dims()
	if n == 0 {
		return
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(A.At(i, j)+A.At(j, i)))
		}
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(sym); ok {
		var xv mat.VecDense
		if e := ch.SolveVecTo(&xv, mat.NewVecDense(n, b)); e == nil {
			return xv.RawVector().Data, nil
		}
	}
	logger.Debug("interior block is not positive definite, using LU")
	return solveLU(A, b)
}

func solveLU(A *mat.Dense, b []float64) (x []float64, err error) {
	n, _ := A.Dims()
	if n == 0 {
		return
	}
	var (
		lu mat.LU
		xv mat.VecDense
	)
	lu.Factorize(A)
	if e := lu.SolveVecTo(&xv, false, mat.NewVecDense(n, b)); e != nil {
		err = fmt.Errorf("%w: %v", ErrSingularSystem, e)
		return
	}
	for _, v := range xv.RawVector().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			err = fmt.Errorf("%w: non-finite solution", ErrSingularSystem)
			return
		}
	}
	return xv.RawVector().Data, nil
}
