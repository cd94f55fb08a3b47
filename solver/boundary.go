package solver

import (
	"fmt"

	"github.com/sgostarter/i/l"

	"github.com/notargets/psfem/dofs"
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/quadrature"
	"github.com/notargets/psfem/spline"
	"github.com/notargets/psfem/types"
	"github.com/notargets/psfem/utils"
)

// BoundaryCoefficients returns a dimension length vector whose boundary
// entries hold the Dirichlet coefficients produced by the strategy
func BoundaryCoefficients(V *spline.Space, g func(p geometry2D.Point) float64,
	opts Options) (c []float64, err error) {
	switch opts.Strategy {
	case Interpolation:
		return interpolateBoundary(V, g), nil
	case Projection:
		return projectBoundary(V, g, opts)
	}
	err = fmt.Errorf("unknown boundary strategy %s", opts.Strategy)
	return
}

// interpolateBoundary sets the value dof of every boundary vertex to g at
// the vertex. Derivative and edge dofs stay at zero.
func interpolateBoundary(V *spline.Space, g func(p geometry2D.Point) float64) (c []float64) {
	c = make([]float64, V.Dimension)
	for _, v := range V.Mesh.BoundaryVertices {
		c[V.Numbering.ValueDOFs[v]] = g(V.Mesh.Vertex(v))
	}
	return
}

/*
projectBoundary fits the traces of the boundary vertex dofs to g in L2 along
the boundary edges. Edge normal dofs have no trace and stay at zero. Some
vertex dofs have no trace either, a normal derivative on a straight stretch
of boundary for example, so the mass matrix is singular. The system is
consistent, being a Gram system, and conjugate gradients from a zero start
converge to the minimum norm fit. A failure to converge is returned, never
masked.
*/
func projectBoundary(V *spline.Space, g func(p geometry2D.Point) float64,
	opts Options) (c []float64, err error) {
	var (
		compact = make(map[int]int)
		dofList []int
		line    = quadrature.NewLine(opts.ProjectionOrder)
		logger  = opts.Logger
	)
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	for _, d := range V.BoundaryDOFs {
		if V.Kind(d) != dofs.EdgeNormal {
			compact[d] = len(dofList)
			dofList = append(dofList, d)
		}
	}
	var (
		n   = len(dofList)
		M   = utils.NewDOK(n, n)
		rhs = make([]float64, n)
	)
	for _, k := range V.Mesh.BoundaryTriangles() {
		var (
			pieces = V.TrianglePieces(k)
			l2g    = V.Numbering.LocalToGlobal[k]
			edges  = types.TriangleEdges(V.Mesh.Triangles[k])
		)
		for _, be := range V.Mesh.BoundaryEdgesOf(k) {
			var i int
			for i = range edges {
				if edges[i] == be {
					break
				}
			}
			a, b := V.Mesh.Vertex(be[0]), V.Mesh.Vertex(be[1])
			mid := geometry2D.Midpoint(a, b)
			// Each half of the edge lies in one sub-triangle of the split
			halves := [2]struct {
				p0, p1 geometry2D.Point
				sub    int
			}{{a, mid, 2 * i}, {mid, b, 2*((i+1)%3) + 1}}
			for _, h := range halves {
				sub := h.sub
				for li, gi := range l2g {
					ci, ok := compact[gi]
					if !ok {
						continue
					}
					ui := pieces[li]
					rhs[ci] += line.Integrate(func(p geometry2D.Point) float64 {
						return g(p) * ui.Eval(p, sub)
					}, h.p0, h.p1)
					for lj, gj := range l2g {
						cj, ok := compact[gj]
						if !ok || lj < li {
							continue
						}
						uj := pieces[lj]
						mij := line.Integrate(func(p geometry2D.Point) float64 {
							return ui.Eval(p, sub) * uj.Eval(p, sub)
						}, h.p0, h.p1)
						M.AddAt(ci, cj, mij)
						if li != lj {
							M.AddAt(cj, ci, mij)
						}
					}
				}
			}
		}
	}
	x, res, e := utils.ConjugateGradient(M.ToCSR(), rhs, opts.ProjectionSolver)
	if e != nil {
		logger.WithFields(l.ErrorField(e), l.IntField("unknowns", n)).Error("boundary projection")
		err = fmt.Errorf("%w: %w", ErrProjectionFailed, e)
		return
	}
	logger.WithFields(l.IntField("unknowns", n), l.IntField("iterations", res.Iterations)).
		Debug("boundary projection converged")
	c = make([]float64, V.Dimension)
	for ci, d := range dofList {
		c[d] = x[ci]
	}
	return
}
