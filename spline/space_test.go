package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/psfem/dofs"
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/mesh"
	"github.com/notargets/psfem/ps12"
)

func newSpace(t *testing.T, verts []geometry2D.Point, tris [][3]int, opts ...SpaceOption) *Space {
	m, err := mesh.NewMesh(verts, tris)
	require.NoError(t, err)
	V, err := NewSpace(m, opts...)
	require.NoError(t, err)
	return V
}

func quadratic(p geometry2D.Point) float64 {
	x, y := p.X[0], p.X[1]
	return 0.5 + x - 2*y + x*x + 3*x*y - y*y
}

func quadraticGrad(p geometry2D.Point) [2]float64 {
	x, y := p.X[0], p.X[1]
	return [2]float64{1 + 2*x + 3*y, -2 + 3*x - 2*y}
}

func TestSpaceTwoTriangles(t *testing.T) {
	verts, tris := mesh.UnitSquareUniform(1)
	V := newSpace(t, verts, tris)
	assert.Equal(t, 17, V.Dimension)
	assert.Len(t, V.Basis, 17)
	// Every vertex and every edge but the diagonal lie on the boundary
	assert.Equal(t, []int{7}, V.InteriorDOFs)
	assert.Len(t, V.BoundaryDOFs, 16)
	assert.Equal(t, []int{0, 1}, V.BasisToTriangles[7])
	assert.Equal(t, []int{0, 1}, V.Basis[7].Support())
	assert.Equal(t, map[int]int{0: 7, 1: 11}, V.GlobalToLocal[7])
	{ // The diagonal's function is flipped on the second triangle only
		local1, _ := ps12.NewHermiteBasis(V.Mesh.TriangleVertices(1))
		pc, ok := V.Basis[7].Piece(1)
		require.True(t, ok)
		p := geometry2D.NewPoint(0.6, 0.6)
		assert.InDelta(t, -local1[11].Eval(p, -1), pc.Eval(p, -1), 1.e-12)
		pieces := V.TrianglePieces(1)
		assert.InDelta(t, pc.Eval(p, -1), pieces[11].Eval(p, -1), 1.e-15)
	}
	assert.Equal(t, dofs.EdgeNormal, V.Kind(7))
	assert.Len(t, V.BoundaryDOFsOfKind(dofs.Value), 4)
	assert.Len(t, V.BoundaryDOFsOfKind(dofs.EdgeNormal), 4)
}

func TestSpacePartition(t *testing.T) {
	for n := 1; n <= 3; n++ {
		verts, tris := mesh.UnitSquareUniform(n)
		V := newSpace(t, verts, tris, WithWorkers(3))
		m := V.Mesh
		assert.Equal(t, 3*m.NumVertices()+m.NumEdges(), V.Dimension)
		assert.Equal(t, V.Dimension, len(V.InteriorDOFs)+len(V.BoundaryDOFs))
		seen := make(map[int]bool)
		for _, d := range append(append([]int{}, V.InteriorDOFs...), V.BoundaryDOFs...) {
			assert.False(t, seen[d])
			seen[d] = true
		}
		assert.Len(t, seen, V.Dimension)
		assert.Equal(t, 3*len(m.InteriorVertices)+len(m.InteriorEdges), len(V.InteriorDOFs))
	}
}

func TestSpaceSmoothness(t *testing.T) {
	verts, tris := mesh.SquareFan()
	V := newSpace(t, verts, tris)
	m := V.Mesh
	for d, phi := range V.Basis {
		for _, id := range m.InteriorEdges {
			adj := m.AdjacentTriangles(id)
			ev := m.Edge(id)
			a, b := m.Vertex(ev[0]), m.Vertex(ev[1])
			for _, w := range []float64{0, 0.2, 0.5, 0.85, 1} {
				p := geometry2D.Combine([]float64{1 - w, w}, []geometry2D.Point{a, b})
				assert.InDelta(t, phi.EvaluateOn(adj[0], p), phi.EvaluateOn(adj[1], p), 1.e-9,
					"dof %d edge %v", d, ev)
				g0, g1 := phi.GradientOn(adj[0], p), phi.GradientOn(adj[1], p)
				assert.InDelta(t, g0[0], g1[0], 1.e-8, "dof %d edge %v", d, ev)
				assert.InDelta(t, g0[1], g1[1], 1.e-8, "dof %d edge %v", d, ev)
			}
		}
	}
}

func TestSpaceReproduction(t *testing.T) {
	verts, tris := mesh.UnitSquareUniform(3)
	V := newSpace(t, verts, tris)
	f, err := V.Function(V.Interpolate(quadratic, quadraticGrad))
	require.NoError(t, err)
	ctx := NewEvalContext()
	for _, p := range []geometry2D.Point{
		geometry2D.NewPoint(0.1, 0.2), geometry2D.NewPoint(0.5, 0.5),
		geometry2D.NewPoint(0.77, 0.31), geometry2D.NewPoint(1, 1), geometry2D.NewPoint(0.35, 0.9),
	} {
		v, err := f.Evaluate(p, ctx)
		require.NoError(t, err)
		assert.InDelta(t, quadratic(p), v, 1.e-9)
		g, err := f.Gradient(p, ctx)
		require.NoError(t, err)
		assert.InDelta(t, quadraticGrad(p)[0], g[0], 1.e-8)
		assert.InDelta(t, quadraticGrad(p)[1], g[1], 1.e-8)
		lap, err := f.Laplacian(p, ctx)
		require.NoError(t, err)
		assert.InDelta(t, 0., lap, 1.e-7)
		assert.True(t, V.Mesh.TriangleVertices(ctx.Last).Contains(p, mesh.LocationTolerance))
	}
	{
		_, err := f.Evaluate(geometry2D.NewPoint(1.2, 0.5), nil)
		assert.ErrorIs(t, err, mesh.ErrPointOutsideMesh)
		_, err = V.Function(make([]float64, V.Dimension-1))
		assert.ErrorIs(t, err, ErrCoefficientLength)
	}
	{ // Partition of unity over the value functions
		c := make([]float64, V.Dimension)
		for _, d := range V.Numbering.ValueDOFs {
			c[d] = 1
		}
		one, err := V.Function(c)
		require.NoError(t, err)
		v, err := one.Evaluate(geometry2D.NewPoint(0.41, 0.13), nil)
		require.NoError(t, err)
		assert.InDelta(t, 1., v, 1.e-10)
	}
}

func TestCompositeSplineAlgebra(t *testing.T) {
	verts, tris := mesh.UnitSquareUniform(3)
	V := newSpace(t, verts, tris)
	var (
		f     = V.Basis[V.Numbering.ValueDOFs[0]]  // corner (0,0)
		g     = V.Basis[V.Numbering.ValueDOFs[15]] // corner (1,1)
		alpha = 2.5
		beta  = -0.75
		h     = f.Scale(alpha).Add(g.Scale(beta))
	)
	assert.Equal(t, []int{0}, f.Support())
	assert.Len(t, h.Support(), len(f.Support())+len(g.Support()))
	for _, p := range []geometry2D.Point{
		geometry2D.NewPoint(0.05, 0.1), // only f
		geometry2D.NewPoint(0.95, 0.9), // only g
		geometry2D.NewPoint(0.5, 0.5),  // neither
	} {
		fv, err := f.Evaluate(p, nil)
		require.NoError(t, err)
		gv, err := g.Evaluate(p, nil)
		require.NoError(t, err)
		hv, err := h.Evaluate(p, nil)
		require.NoError(t, err)
		assert.InDelta(t, alpha*fv+beta*gv, hv, 1.e-14)
	}
	{ // Overlapping supports
		e := V.Basis[V.Numbering.ValueDOFs[1]]
		s := e.Add(f).Scale(2)
		p := geometry2D.NewPoint(0.2, 0.05)
		ev, _ := e.Evaluate(p, nil)
		fv, _ := f.Evaluate(p, nil)
		sv, _ := s.Evaluate(p, nil)
		assert.InDelta(t, 2*(ev+fv), sv, 1.e-14)
	}
	{
		verts, tris := mesh.UnitSquareUniform(3)
		other := newSpace(t, verts, tris)
		assert.Panics(t, func() { f.Add(other.Basis[0]) })
	}
}
