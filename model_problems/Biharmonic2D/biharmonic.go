package Biharmonic2D

import (
	"fmt"
	"math"
	"time"

	"github.com/sgostarter/i/l"

	"github.com/notargets/psfem/InputParameters"
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/mesh"
	"github.com/notargets/psfem/quadrature"
	"github.com/notargets/psfem/solver"
	"github.com/notargets/psfem/spline"
	"github.com/notargets/psfem/utils"
)

/*
ClampedPlate solves lap(lap(u)) = f on the unit square with u = du/dn = 0 on
the boundary, for the manufactured solution u = p(x) p(y), p(t) = t^2 (1-t)^2.
*/
type ClampedPlate struct {
	Params *InputParameters.SolverParameters
	Opts   solver.Options
	V      *spline.Space
	logger l.Wrapper
}

type Report struct {
	Refinement      int
	Dimension       int
	L2Error, MaxErr float64
	RelativeL2      float64
	Condition       float64
	Elapsed         time.Duration
}

func NewClampedPlate(ip *InputParameters.SolverParameters, logger l.Wrapper) (c *ClampedPlate, err error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	c = &ClampedPlate{
		Params: ip,
		logger: logger.WithFields(l.StringField(l.ClsKey, "clampedPlate")),
	}
	if c.Opts, err = solver.NewOptions(ip); err != nil {
		return nil, err
	}
	// Clamped: every boundary dof is zero
	c.Opts.Dirichlet = nil
	c.Opts.Logger = logger
	var m *mesh.Mesh
	if m, err = mesh.NewUnitSquareUniform(ip.Refinement); err != nil {
		return nil, err
	}
	if c.V, err = spline.NewSpace(m, spline.WithLogger(logger), spline.WithWorkers(ip.Workers)); err != nil {
		return nil, err
	}
	return
}

func p(t float64) float64   { return utils.POW(t, 2) * utils.POW(1-t, 2) }
func dp(t float64) float64  { return 2*t - 6*t*t + 4*t*t*t }
func d2p(t float64) float64 { return 2 - 12*t + 12*t*t }

func Exact(pt geometry2D.Point) float64 {
	return p(pt.X[0]) * p(pt.X[1])
}

func ExactGradient(pt geometry2D.Point) [2]float64 {
	x, y := pt.X[0], pt.X[1]
	return [2]float64{dp(x) * p(y), p(x) * dp(y)}
}

// Load is lap(lap(u)) of the exact solution
func Load(pt geometry2D.Point) float64 {
	x, y := pt.X[0], pt.X[1]
	return 24*p(y) + 2*d2p(x)*d2p(y) + 24*p(x)
}

func (c *ClampedPlate) Run() (u *spline.CompositeSpline, rpt Report, err error) {
	start := time.Now()
	var res *solver.Result
	if res, err = solver.Solve(solver.Biharmonic, solver.Source(Load), c.V, c.Opts); err != nil {
		c.logger.WithFields(l.ErrorField(err)).Error("solve failed")
		return
	}
	if u, err = c.V.Function(res.Coefficients); err != nil {
		return
	}
	rpt = c.Errors(u)
	rpt.Refinement = c.Params.Refinement
	rpt.Dimension = res.Dimension
	rpt.Condition = res.Condition
	rpt.Elapsed = time.Since(start)
	c.logger.WithFields(l.IntField("refinement", rpt.Refinement), l.IntField("dimension", rpt.Dimension),
		l.StringField("relativeL2", fmt.Sprintf("%.4e", rpt.RelativeL2))).Info("clamped plate solved")
	return
}

// Errors integrates the error against the exact solution on every triangle
// and samples its maximum at the split points
func (c *ClampedPlate) Errors(u *spline.CompositeSpline) (rpt Report) {
	var (
		rule       = quadrature.PS12{Rule: quadrature.NewGauss(10)}
		e2, u2     float64
		m          = c.V.Mesh
		maxSamples []float64
	)
	for k := range m.Triangles {
		pc, _ := u.Piece(k)
		split := pc.Split()
		e2 += rule.IntegrateSplit(func(pt geometry2D.Point, sub int) float64 {
			d := pc.Eval(pt, sub) - Exact(pt)
			return d * d
		}, split)
		u2 += rule.IntegrateSplit(func(pt geometry2D.Point, _ int) float64 {
			return Exact(pt) * Exact(pt)
		}, split)
		for _, pt := range split.Points {
			maxSamples = append(maxSamples, pc.Eval(pt, -1)-Exact(pt))
		}
	}
	rpt.L2Error = math.Sqrt(e2)
	rpt.RelativeL2 = rpt.L2Error / math.Sqrt(u2)
	rpt.MaxErr = utils.MaxAbs(maxSamples)
	return
}

func (r Report) Print() {
	fmt.Printf("[%d]\t\t\t\t= Refinement\n", r.Refinement)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", r.Dimension)
	fmt.Printf("%8.4e, %8.4e\t= L2, Max Error\n", r.L2Error, r.MaxErr)
	fmt.Printf("%8.4e\t\t\t= Relative L2 Error\n", r.RelativeL2)
	if r.Condition != 0 {
		fmt.Printf("%8.4e\t\t\t= Condition Number\n", r.Condition)
	}
	fmt.Printf("%v\t\t\t= Elapsed\n", r.Elapsed)
}
