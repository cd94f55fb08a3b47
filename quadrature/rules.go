package quadrature

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/ps12"
)

var (
	ErrUnknownRule       = errors.New("unknown quadrature rule")
	ErrInsufficientOrder = errors.New("quadrature rule cannot reach the requested order")
)

/*
Integrand is evaluated at physical points. sub is the index of the PS12
sub-triangle the point was generated in, or -1 when the rule does not know
it, so piecewise integrands can pick the right polynomial.
*/
type Integrand func(p geometry2D.Point, sub int) float64

type Rule interface {
	Integrate(f Integrand, tri geometry2D.Triangle) float64
	// Degree is the highest polynomial degree integrated exactly
	Degree() int
	Name() string
}

// Midpoint evaluates at the edge midpoints, exact for quadratics
type Midpoint struct{}

func (Midpoint) Integrate(f Integrand, tri geometry2D.Triangle) (sum float64) {
	for i := 0; i < 3; i++ {
		sum += f(geometry2D.Midpoint(tri[i], tri[(i+1)%3]), -1)
	}
	return sum * tri.Area() / 3.
}

func (Midpoint) Degree() int  { return 2 }
func (Midpoint) Name() string { return "midpoint" }

// Gauss is a conical product Gauss-Jacobi rule in barycentric form
type Gauss struct {
	order   int
	Lambda  [][3]float64
	Weights []float64 // sum to one
}

var (
	gaussCache   = make(map[int]*Gauss)
	gaussCacheMu sync.Mutex
)

/*
NewGauss returns the rule exact for polynomials of degree order. The collapsed
square (a,b) carries m = ceil((order+1)/2) Gauss-Legendre points in a and
Gauss-Jacobi(1,0) points in b, mapped to the reference triangle by
r = (1+a)(1-b)/2 - 1, s = b.
*/
func NewGauss(order int) *Gauss {
	if order < 1 {
		order = 1
	}
	gaussCacheMu.Lock()
	defer gaussCacheMu.Unlock()
	if g, ok := gaussCache[order]; ok {
		return g
	}
	var (
		m      = (order + 2) / 2
		ra, wa = JacobiGQ(0, 0, m-1)
		rb, wb = JacobiGQ(1, 0, m-1)
		g      = &Gauss{order: order}
	)
	for i := range ra {
		for j := range rb {
			r := 0.5*(1+ra[i])*(1-rb[j]) - 1
			s := rb[j]
			l1, l2 := 0.5*(1+r), 0.5*(1+s)
			g.Lambda = append(g.Lambda, [3]float64{1 - l1 - l2, l1, l2})
			// 1/2 from the collapse, 1/2 to normalise by the reference area
			g.Weights = append(g.Weights, 0.25*wa[i]*wb[j])
		}
	}
	gaussCache[order] = g
	return g
}

func (g *Gauss) Integrate(f Integrand, tri geometry2D.Triangle) (sum float64) {
	for i, l := range g.Lambda {
		sum += g.Weights[i] * f(tri.FromBarycentric(l), -1)
	}
	return sum * tri.Area()
}

func (g *Gauss) Degree() int  { return g.order }
func (g *Gauss) Name() string { return "gauss" }

// PS12 applies the inner rule on each of the 12 Powell-Sabin sub-triangles
// and tells the integrand which one it is on
type PS12 struct {
	Rule Rule
}

func (p PS12) Integrate(f Integrand, tri geometry2D.Triangle) (sum float64) {
	return p.IntegrateSplit(f, ps12.NewSplit(tri))
}

// IntegrateSplit integrates over a split that has already been built
func (p PS12) IntegrateSplit(f Integrand, s *ps12.Split) (sum float64) {
	for k, st := range s.Subs {
		sub := k
		sum += p.Rule.Integrate(func(x geometry2D.Point, _ int) float64 {
			return f(x, sub)
		}, st)
	}
	return
}

func (p PS12) Degree() int  { return p.Rule.Degree() }
func (p PS12) Name() string { return p.Rule.Name() + "-ps12" }

// SplitRule is implemented by rules that can reuse a caller's split
type SplitRule interface {
	IntegrateSplit(f Integrand, s *ps12.Split) float64
}

// IntegrateOn integrates f over the macro triangle of s, handing the split to
// rules that can use it
func IntegrateOn(r Rule, f Integrand, s *ps12.Split) float64 {
	if sr, ok := r.(SplitRule); ok {
		return sr.IntegrateSplit(f, s)
	}
	return r.Integrate(f, s.Macro)
}

/*
NewRule selects a rule by name: midpoint, midpoint-ps12, gauss or gauss-ps12.
Midpoint rules cannot honour an order above 2.
*/
func NewRule(name string, order int) (r Rule, err error) {
	switch name {
	case "midpoint", "midpoint-ps12":
		if order > 2 {
			err = fmt.Errorf("%w: %s is exact to degree 2, order %d requested",
				ErrInsufficientOrder, name, order)
			return
		}
		r = Midpoint{}
	case "gauss", "gauss-ps12":
		r = NewGauss(order)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownRule, name)
		return
	}
	if name == "midpoint-ps12" || name == "gauss-ps12" {
		r = PS12{Rule: r}
	}
	return
}

// NumPoints is the number of integrand evaluations per triangle
func NumPoints(r Rule) int {
	switch rr := r.(type) {
	case Midpoint:
		return 3
	case *Gauss:
		return len(rr.Weights)
	case PS12:
		return 12 * NumPoints(rr.Rule)
	}
	return 0
}
