package solver

import (
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/ps12"
	"github.com/notargets/psfem/quadrature"
)

/*
BilinearForm and LinearForm produce the integrand of a(u,v) and L(v) for
pieces restricted to one triangle. The assembler integrates them with the
configured rules. Assembly uses a(u,v) = a(v,u) and only visits i <= j.
*/
type BilinearForm func(u, v ps12.Piece) quadrature.Integrand

type LinearForm func(v ps12.Piece) quadrature.Integrand

// Biharmonic is the weak form of the clamped plate, lap(u) lap(v)
func Biharmonic(u, v ps12.Piece) quadrature.Integrand {
	return func(p geometry2D.Point, sub int) float64 {
		return u.Lapl(p, sub) * v.Lapl(p, sub)
	}
}

// Laplace is grad(u).grad(v)
func Laplace(u, v ps12.Piece) quadrature.Integrand {
	return func(p geometry2D.Point, sub int) float64 {
		gu, gv := u.Grad(p, sub), v.Grad(p, sub)
		return gu[0]*gv[0] + gu[1]*gv[1]
	}
}

func Mass(u, v ps12.Piece) quadrature.Integrand {
	return func(p geometry2D.Point, sub int) float64 {
		return u.Eval(p, sub) * v.Eval(p, sub)
	}
}

// Source pairs a right hand side f with the test function
func Source(f func(p geometry2D.Point) float64) LinearForm {
	return func(v ps12.Piece) quadrature.Integrand {
		return func(p geometry2D.Point, sub int) float64 {
			return f(p) * v.Eval(p, sub)
		}
	}
}

// Zero is the linear form of a homogeneous equation
func Zero(v ps12.Piece) quadrature.Integrand {
	return func(geometry2D.Point, int) float64 { return 0 }
}
