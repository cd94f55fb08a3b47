package solver

import (
	"github.com/notargets/psfem/spline"
)

/*
Result holds the solution coefficients over all dofs. Condition, filled in
when ReportCondition is set, is the 2-norm condition number of the matrix
that was factored: the interior block under homogeneous conditions, the
row replaced full system otherwise.
*/
type Result struct {
	Coefficients []float64
	Condition    float64
	Dimension    int
	NonZeros     int
}

/*
Solve finds u in V with a(u,v) = L(v) for all v in V. With opts.Dirichlet
nil the boundary dofs are held at zero and only the interior block is
solved. Otherwise the boundary coefficients come from opts.Strategy and are
imposed by row replacement on the full system.
*/
func Solve(a BilinearForm, L LinearForm, V *spline.Space, opts Options) (res *Result, err error) {
	as := NewAssembler(V, opts)
	if err = as.Assemble(a, L); err != nil {
		return
	}
	if opts.Dirichlet == nil {
		err = as.ImposeHomogeneous()
	} else {
		var c []float64
		if c, err = BoundaryCoefficients(V, opts.Dirichlet, opts); err != nil {
			return
		}
		err = as.ImposeDirichlet(c)
	}
	if err != nil {
		return
	}
	if err = as.Freeze(); err != nil {
		return
	}
	return as.Solve()
}

// SolveFunction is Solve followed by the reconstruction of the spline
func SolveFunction(a BilinearForm, L LinearForm, V *spline.Space, opts Options) (u *spline.CompositeSpline, err error) {
	var res *Result
	if res, err = Solve(a, L, V, opts); err != nil {
		return
	}
	return V.Function(res.Coefficients)
}
