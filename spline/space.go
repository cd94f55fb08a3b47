package spline

import (
	"errors"
	"fmt"

	"github.com/sgostarter/i/l"

	"github.com/notargets/psfem/dofs"
	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/mesh"
	"github.com/notargets/psfem/ps12"
	"github.com/notargets/psfem/types"
	"github.com/notargets/psfem/utils"
)

var (
	ErrCoefficientLength = errors.New("coefficient vector does not match the space dimension")
	ErrInconsistentSpace = errors.New("inconsistent spline space")
)

/*
Space is the global C1 Powell-Sabin spline space over a mesh. Basis function
d is assembled from the local Hermite functions carrying d on each triangle of
its support. The edge functional is an outward normal derivative in each
triangle, so on an interior edge the local function of the second adjacent
triangle is negated to give a single normal direction across the edge.
*/
type Space struct {
	Mesh      *mesh.Mesh
	Numbering *dofs.Numbering
	Dimension int

	Basis            []*CompositeSpline
	BasisToTriangles [][]int       // dof -> supporting triangles, ascending
	GlobalToLocal    []map[int]int // dof -> triangle -> local index

	InteriorDOFs, BoundaryDOFs []int
	isBoundary                 []bool

	localBases [][ps12.NumBasis]ps12.Piece
	signs      [][ps12.NumBasis]float64

	workers int
	logger  l.Wrapper
}

type SpaceOption func(s *Space)

func WithLogger(logger l.Wrapper) SpaceOption {
	return func(s *Space) { s.logger = logger }
}

// WithWorkers sets the number of goroutines building local bases, zero
// selects one per CPU
func WithWorkers(n int) SpaceOption {
	return func(s *Space) { s.workers = n }
}

func NewSpace(m *mesh.Mesh, opts ...SpaceOption) (s *Space, err error) {
	s = &Space{
		Mesh:    m,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = l.NewNopLoggerWrapper()
	}
	s.logger = s.logger.WithFields(l.StringField(l.ClsKey, "splineSpace"))

	s.Numbering = dofs.LocalToGlobal(m.NumVertices(), m.Triangles)
	s.Dimension = s.Numbering.Dimension
	if expected := 3*m.NumVertices() + m.NumEdges(); s.Dimension != expected {
		err = fmt.Errorf("%w: dimension %d, expected %d", ErrInconsistentSpace, s.Dimension, expected)
		return nil, err
	}
	if err = s.buildLocalBases(); err != nil {
		return nil, err
	}
	if err = s.buildSupports(); err != nil {
		return nil, err
	}
	s.buildBasis()
	if err = s.classify(); err != nil {
		return nil, err
	}
	s.logger.WithFields(l.IntField("dimension", s.Dimension),
		l.IntField("triangles", m.NumTriangles()),
		l.IntField("boundaryDOFs", len(s.BoundaryDOFs))).Debug("spline space ready")
	return
}

func (s *Space) buildLocalBases() (err error) {
	var (
		K    = s.Mesh.NumTriangles()
		pm   = utils.NewPartitionMap(s.workers, K)
		errs = make([]error, pm.ParallelDegree)
	)
	s.localBases = make([][ps12.NumBasis]ps12.Piece, K)
	pm.ParallelDo(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			var e error
			if s.localBases[k], e = ps12.NewHermiteBasis(s.Mesh.TriangleVertices(k)); e != nil {
				errs[bn] = fmt.Errorf("triangle %d: %w", k, e)
				return
			}
		}
	})
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}

func (s *Space) buildSupports() (err error) {
	var (
		n = s.Numbering
	)
	s.BasisToTriangles = make([][]int, s.Dimension)
	s.GlobalToLocal = make([]map[int]int, s.Dimension)
	s.signs = make([][ps12.NumBasis]float64, s.Mesh.NumTriangles())
	for k := range s.signs {
		for i := range s.signs[k] {
			s.signs[k][i] = 1
		}
	}
	for d := 0; d < s.Dimension; d++ {
		var flipOn = -1
		if v, ok := n.DOFToVertex[d]; ok {
			s.BasisToTriangles[d] = s.Mesh.IncidentTriangles(v)
		} else {
			verts := n.DOFToEdge[d].GetVertices()
			id, _ := s.Mesh.EdgeID(verts[0], verts[1])
			adj := s.Mesh.AdjacentTriangles(id)
			s.BasisToTriangles[d] = adj
			if len(adj) == 2 {
				flipOn = adj[1]
			}
		}
		if len(s.BasisToTriangles[d]) == 0 {
			err = fmt.Errorf("%w: dof %d has empty support", ErrInconsistentSpace, d)
			return
		}
		s.GlobalToLocal[d] = make(map[int]int, len(s.BasisToTriangles[d]))
		for _, k := range s.BasisToTriangles[d] {
			i := n.Position(k, d)
			if i < 0 {
				err = fmt.Errorf("%w: dof %d is not carried by supporting triangle %d",
					ErrInconsistentSpace, d, k)
				return
			}
			s.GlobalToLocal[d][k] = i
			if k == flipOn {
				s.signs[k][i] = -1
			}
		}
	}
	return
}

func (s *Space) buildBasis() {
	s.Basis = make([]*CompositeSpline, s.Dimension)
	for d := range s.Basis {
		pieces := make(map[int]ps12.Piece, len(s.BasisToTriangles[d]))
		for _, k := range s.BasisToTriangles[d] {
			i := s.GlobalToLocal[d][k]
			pieces[k] = s.localBases[k][i].Scale(s.signs[k][i])
		}
		s.Basis[d] = NewCompositeSpline(s.Mesh, pieces)
	}
}

func (s *Space) classify() (err error) {
	var (
		n = s.Numbering
	)
	s.isBoundary = make([]bool, s.Dimension)
	for d := 0; d < s.Dimension; d++ {
		if v, ok := n.DOFToVertex[d]; ok {
			s.isBoundary[d] = s.Mesh.IsBoundaryVertex(v)
		} else {
			verts := n.DOFToEdge[d].GetVertices()
			id, _ := s.Mesh.EdgeID(verts[0], verts[1])
			s.isBoundary[d] = s.Mesh.IsBoundaryEdge(id)
		}
		if s.isBoundary[d] {
			s.BoundaryDOFs = append(s.BoundaryDOFs, d)
		} else {
			s.InteriorDOFs = append(s.InteriorDOFs, d)
		}
	}
	if len(s.InteriorDOFs)+len(s.BoundaryDOFs) != s.Dimension {
		err = fmt.Errorf("%w: dof partition does not cover the space", ErrInconsistentSpace)
	}
	return
}

func (s *Space) IsBoundaryDOF(d int) bool { return s.isBoundary[d] }
func (s *Space) Kind(d int) dofs.Kind     { return s.Numbering.Kinds[d] }

// TrianglePieces returns the global basis functions carried by triangle k,
// in local order, with the edge orientation applied
func (s *Space) TrianglePieces(k int) (pieces [ps12.NumBasis]ps12.Piece) {
	for i := range pieces {
		pieces[i] = s.localBases[k][i].Scale(s.signs[k][i])
	}
	return
}

// Function returns the spline sum(c[d] * Basis[d])
func (s *Space) Function(c []float64) (f *CompositeSpline, err error) {
	if len(c) != s.Dimension {
		err = fmt.Errorf("%w: have %d, dimension is %d", ErrCoefficientLength, len(c), s.Dimension)
		return
	}
	pieces := make(map[int]ps12.Piece, s.Mesh.NumTriangles())
	for k := range s.Mesh.Triangles {
		var (
			local = s.TrianglePieces(k)
			sum   ps12.Piece
		)
		for i, d := range s.Numbering.LocalToGlobal[k] {
			sum = sum.Add(local[i].Scale(c[d]))
		}
		pieces[k] = sum
	}
	f = NewCompositeSpline(s.Mesh, pieces)
	return
}

/*
Interpolate returns the coefficients of the Hermite interpolant of g, whose
gradient is dg: vertex values and gradients, and on each edge the normal
derivative at the midpoint along the outward normal of the first adjacent
triangle.
*/
func (s *Space) Interpolate(g func(p geometry2D.Point) float64,
	dg func(p geometry2D.Point) [2]float64) (c []float64) {
	var (
		n = s.Numbering
	)
	c = make([]float64, s.Dimension)
	for v := range s.Mesh.Vertices {
		p := s.Mesh.Vertex(v)
		grad := dg(p)
		c[n.ValueDOFs[v]] = g(p)
		c[n.DXDOFs[v]] = grad[0]
		c[n.DYDOFs[v]] = grad[1]
	}
	for ek, d := range n.EdgeDOFs {
		verts := ek.GetVertices()
		id, _ := s.Mesh.EdgeID(verts[0], verts[1])
		k := s.Mesh.AdjacentTriangles(id)[0]
		nrm := s.edgeNormal(k, ek)
		grad := dg(geometry2D.Midpoint(s.Mesh.Vertex(verts[0]), s.Mesh.Vertex(verts[1])))
		c[d] = nrm.X[0]*grad[0] + nrm.X[1]*grad[1]
	}
	return
}

// edgeNormal is the outward normal of edge ek of triangle k
func (s *Space) edgeNormal(k int, ek types.EdgeKey) geometry2D.Point {
	for i, ev := range types.TriangleEdges(s.Mesh.Triangles[k]) {
		if types.NewEdgeKey(ev) == ek {
			return s.Mesh.TriangleVertices(k).OutwardNormal(i)
		}
	}
	panic(fmt.Errorf("edge %s is not an edge of triangle %d", ek, k))
}

// BoundaryDOFsOfKind filters the boundary dofs, keeping their order
func (s *Space) BoundaryDOFsOfKind(kind dofs.Kind) (r []int) {
	for _, d := range s.BoundaryDOFs {
		if s.Kind(d) == kind {
			r = append(r, d)
		}
	}
	return
}
