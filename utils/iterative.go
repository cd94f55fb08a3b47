package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

var ErrNotConverged = errors.New("iterative solve did not converge")

type IterativeSettings struct {
	Tolerance     float64 // 2-norm of the residual relative to the 2-norm of b
	MaxIterations int     // CG iterations, zero for no limit
}

func DefaultIterativeSettings() IterativeSettings {
	return IterativeSettings{
		Tolerance:     1.e-11,
		MaxIterations: 5000,
	}
}

type IterativeResult struct {
	Iterations int
	Residual   float64 // final relative residual
	Status     optimize.Status
}

// residualConverge stops the optimizer once 1/2 |Ax-b|^2 reaches target
type residualConverge struct {
	target float64
}

func (residualConverge) Init(dim int) {}

func (c residualConverge) Converged(loc *optimize.Location) optimize.Status {
	if loc.F <= c.target {
		return optimize.FunctionThreshold
	}
	return optimize.NotTerminated
}

/*
ConjugateGradient solves A x = b for a symmetric A by minimising
1/2 |Ax - b|^2 with the gonum nonlinear CG method from a zero start. The
gradient A(Ax - b) always lies in the range of A, so the iterates do too:
on a singular but consistent system the method reaches the minimum norm
solution. The answer is accepted on its measured residual, whatever status
the optimizer stopped with.
*/
func ConjugateGradient(A CSR, b []float64, s IterativeSettings) (x []float64, res IterativeResult, err error) {
	var (
		n, _  = A.Dims()
		bnorm = floats.Norm(b, 2)
		r     = make([]float64, n)
	)
	if len(b) != n {
		panic(fmt.Errorf("dimension mismatch: A is %d, len(b) = %d", n, len(b)))
	}
	x = make([]float64, n)
	if bnorm == 0 {
		return
	}
	residual := func(x []float64) {
		A.MulVecTo(r, false, x)
		floats.Sub(r, b)
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			residual(x)
			return 0.5 * floats.Dot(r, r)
		},
		Grad: func(grad, x []float64) {
			residual(x)
			A.MulVecTo(grad, true, r)
		},
	}
	target := s.Tolerance * bnorm
	settings := &optimize.Settings{
		Converger:       residualConverge{target: 0.5 * target * target},
		MajorIterations: s.MaxIterations,
	}
	if s.MaxIterations > 0 {
		settings.FuncEvaluations = 50 * s.MaxIterations
	}
	result, e := optimize.Minimize(problem, x, settings, &optimize.CG{GradStopThreshold: math.NaN()})
	if result == nil {
		err = fmt.Errorf("%w: %v", ErrNotConverged, e)
		return
	}
	copy(x, result.X)
	residual(x)
	res = IterativeResult{
		Iterations: result.MajorIterations,
		Residual:   floats.Norm(r, 2) / bnorm,
		Status:     result.Status,
	}
	if !(res.Residual <= s.Tolerance) {
		err = fmt.Errorf("%w: relative residual %.3e after %d iterations (tolerance %.1e), stopped with %s",
			ErrNotConverged, res.Residual, res.Iterations, s.Tolerance, res.Status)
		if e != nil {
			err = fmt.Errorf("%w: %v", err, e)
		}
	}
	return
}
