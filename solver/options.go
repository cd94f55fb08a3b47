package solver

import (
	"fmt"

	"github.com/sgostarter/i/l"

	"github.com/notargets/psfem/InputParameters"
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/quadrature"
	"github.com/notargets/psfem/utils"
)

type Strategy uint8

const (
	// Interpolation sets the value dof of each boundary vertex to g there
	Interpolation Strategy = iota
	// Projection fits the boundary traces to g in L2 along the boundary edges
	Projection
)

func (s Strategy) String() string {
	switch s {
	case Interpolation:
		return "interpolation"
	case Projection:
		return "projection"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

func ParseStrategy(name string) (s Strategy, err error) {
	switch name {
	case "interpolation", "":
		return Interpolation, nil
	case "projection":
		return Projection, nil
	}
	err = fmt.Errorf("unknown boundary strategy %q", name)
	return
}

type Options struct {
	BilinearRule, LinearRule quadrature.Rule
	// Dirichlet data on the boundary, nil for homogeneous conditions
	Dirichlet        func(p geometry2D.Point) float64
	Strategy         Strategy
	ProjectionOrder  int // exactness of the line rule along boundary edges
	Workers          int
	CheckSymmetry    bool
	ReportCondition  bool
	// ProjectionSolver controls the iterative solve of the projection system
	ProjectionSolver utils.IterativeSettings
	Logger           l.Wrapper
}

func DefaultOptions() Options {
	return Options{
		BilinearRule:     quadrature.PS12{Rule: quadrature.NewGauss(4)},
		LinearRule:       quadrature.PS12{Rule: quadrature.NewGauss(6)},
		Strategy:         Interpolation,
		ProjectionOrder:  6,
		Workers:          1,
		ProjectionSolver: utils.DefaultIterativeSettings(),
	}
}

// NewOptions converts input parameters into solver options. Dirichlet data
// and the logger are left for the caller.
func NewOptions(ip *InputParameters.SolverParameters) (opts Options, err error) {
	opts = DefaultOptions()
	if opts.BilinearRule, err = quadrature.NewRule(ip.BilinearRule, ip.BilinearOrder); err != nil {
		return
	}
	if opts.LinearRule, err = quadrature.NewRule(ip.LinearRule, ip.LinearOrder); err != nil {
		return
	}
	if opts.Strategy, err = ParseStrategy(ip.BoundaryStrategy); err != nil {
		return
	}
	if ip.ProjectionOrder > 0 {
		opts.ProjectionOrder = ip.ProjectionOrder
	}
	opts.Workers = ip.Workers
	opts.CheckSymmetry = ip.CheckSymmetry
	opts.ReportCondition = ip.ReportCondition
	if ip.ProjectionTolerance > 0 {
		opts.ProjectionSolver.Tolerance = ip.ProjectionTolerance
	}
	if ip.ProjectionMaxIter > 0 {
		opts.ProjectionSolver.MaxIterations = ip.ProjectionMaxIter
	}
	return
}
