package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/types"
)

var (
	ErrNonConforming       = errors.New("non-conforming triangulation")
	ErrPointOutsideMesh    = errors.New("point lies outside the mesh")
	ErrDegenerateTriangle  = errors.New("degenerate triangle")
	ErrInvalidConnectivity = errors.New("invalid triangle connectivity")
)

// LocationTolerance is the slack allowed on barycentric coordinates when
// locating a point, so points on shared edges and vertices are found
const LocationTolerance = 1.e-10

type Stats struct {
	MaxEdgeLength, MinEdgeLength, AvgEdgeLength float64
}

/*
Mesh is the topology container for a conforming triangulation. All derived
connectivity is computed once in NewMesh, after which the mesh is read only and
may be shared across goroutines.
*/
type Mesh struct {
	Vertices  []geometry2D.Point
	Triangles [][3]int

	Edges     []types.EdgeKey       // edge id -> sorted vertex pair
	edgeIndex map[types.EdgeKey]int // sorted vertex pair -> edge id

	edgeTris   [][]int // edge id -> triangles containing both vertices
	vertexTris [][]int // vertex -> triangles containing it, ascending

	BoundaryEdges, InteriorEdges       []int
	BoundaryVertices, InteriorVertices []int
	isBoundaryEdge, isBoundaryVertex   []bool

	boundaryTris []int
	Stats        Stats
}

func NewMesh(vertices []geometry2D.Point, triangles [][3]int) (m *Mesh, err error) {
	var (
		Nv = len(vertices)
	)
	if len(triangles) == 0 {
		err = fmt.Errorf("%w: no triangles supplied", ErrInvalidConnectivity)
		return
	}
	m = &Mesh{
		Vertices:   vertices,
		Triangles:  triangles,
		edgeIndex:  make(map[types.EdgeKey]int),
		vertexTris: make([][]int, Nv),
	}
	for k, tri := range triangles {
		for _, v := range tri {
			if v < 0 || v >= Nv {
				err = fmt.Errorf("%w: triangle %d references vertex %d, have %d vertices",
					ErrInvalidConnectivity, k, v, Nv)
				return nil, err
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			err = fmt.Errorf("%w: triangle %d repeats a vertex %v", ErrInvalidConnectivity, k, tri)
			return nil, err
		}
		if m.TriangleVertices(k).Area() == 0 {
			err = fmt.Errorf("%w: triangle %d has zero area", ErrDegenerateTriangle, k)
			return nil, err
		}
		for _, v := range tri {
			m.vertexTris[v] = append(m.vertexTris[v], k)
		}
		for _, ev := range types.TriangleEdges(tri) {
			ek := types.NewEdgeKey(ev)
			id, ok := m.edgeIndex[ek]
			if !ok {
				id = len(m.Edges)
				m.edgeIndex[ek] = id
				m.Edges = append(m.Edges, ek)
				m.edgeTris = append(m.edgeTris, nil)
			}
			if len(m.edgeTris[id]) == 2 {
				err = fmt.Errorf("%w: edge %s is shared by triangles %v and %d",
					ErrNonConforming, ek, m.edgeTris[id], k)
				return nil, err
			}
			m.edgeTris[id] = append(m.edgeTris[id], k)
		}
	}
	m.classify()
	m.computeStats()
	return
}

func (m *Mesh) classify() {
	m.isBoundaryEdge = make([]bool, len(m.Edges))
	m.isBoundaryVertex = make([]bool, len(m.Vertices))
	for id, ek := range m.Edges {
		if len(m.edgeTris[id]) == 1 {
			m.isBoundaryEdge[id] = true
			m.BoundaryEdges = append(m.BoundaryEdges, id)
			verts := ek.GetVertices()
			m.isBoundaryVertex[verts[0]] = true
			m.isBoundaryVertex[verts[1]] = true
		} else {
			m.InteriorEdges = append(m.InteriorEdges, id)
		}
	}
	for v := range m.Vertices {
		if m.isBoundaryVertex[v] {
			m.BoundaryVertices = append(m.BoundaryVertices, v)
		} else {
			m.InteriorVertices = append(m.InteriorVertices, v)
		}
	}
	for k, tri := range m.Triangles {
		for _, ev := range types.TriangleEdges(tri) {
			if m.isBoundaryEdge[m.edgeIndex[types.NewEdgeKey(ev)]] {
				m.boundaryTris = append(m.boundaryTris, k)
				break
			}
		}
	}
}

func (m *Mesh) computeStats() {
	var (
		sum float64
	)
	m.Stats.MinEdgeLength = math.Inf(1)
	for _, ek := range m.Edges {
		verts := ek.GetVertices()
		l := geometry2D.Distance(m.Vertices[verts[0]], m.Vertices[verts[1]])
		m.Stats.MaxEdgeLength = math.Max(m.Stats.MaxEdgeLength, l)
		m.Stats.MinEdgeLength = math.Min(m.Stats.MinEdgeLength, l)
		sum += l
	}
	m.Stats.AvgEdgeLength = sum / float64(len(m.Edges))
}

func (m *Mesh) NumVertices() int  { return len(m.Vertices) }
func (m *Mesh) NumTriangles() int { return len(m.Triangles) }
func (m *Mesh) NumEdges() int     { return len(m.Edges) }

func (m *Mesh) Vertex(v int) geometry2D.Point { return m.Vertices[v] }

// TriangleVertices returns the coordinates of triangle k in connectivity order
func (m *Mesh) TriangleVertices(k int) (tri geometry2D.Triangle) {
	for i, v := range m.Triangles[k] {
		tri[i] = m.Vertices[v]
	}
	return
}

// EdgeID returns the id of the undirected edge a-b, in either orientation
func (m *Mesh) EdgeID(a, b int) (id int, ok bool) {
	if a < 0 || b < 0 {
		return -1, false
	}
	id, ok = m.edgeIndex[types.NewEdgeKey([2]int{a, b})]
	return
}

// Edge returns the sorted vertex pair of an edge id
func (m *Mesh) Edge(id int) [2]int {
	return m.Edges[id].GetVertices()
}

// IncidentTriangles returns the triangles containing vertex v, ascending
func (m *Mesh) IncidentTriangles(v int) []int {
	return m.vertexTris[v]
}

// AdjacentTriangles returns the one (boundary) or two (interior) triangles
// containing both endpoints of the edge, ascending
func (m *Mesh) AdjacentTriangles(id int) []int {
	return m.edgeTris[id]
}

func (m *Mesh) IsBoundaryEdge(id int) bool  { return m.isBoundaryEdge[id] }
func (m *Mesh) IsBoundaryVertex(v int) bool { return m.isBoundaryVertex[v] }
func (m *Mesh) HasTriangle(k int) bool      { return k >= 0 && k < len(m.Triangles) }

// BoundaryTriangles returns the triangles with at least one boundary edge
func (m *Mesh) BoundaryTriangles() []int { return m.boundaryTris }

// BoundaryEdgesOf returns the boundary edges of triangle k, each oriented as
// it runs inside the triangle
func (m *Mesh) BoundaryEdgesOf(k int) (edges [][2]int) {
	for _, ev := range types.TriangleEdges(m.Triangles[k]) {
		if m.isBoundaryEdge[m.edgeIndex[types.NewEdgeKey(ev)]] {
			edges = append(edges, ev)
		}
	}
	return
}

/*
FindTriangle returns the index of a triangle whose closed region contains p.
When hint is a valid triangle index it is tested first, which makes repeated
lookups of nearby points cheap. Otherwise triangles are scanned in index
order and the first match wins.
*/
func (m *Mesh) FindTriangle(p geometry2D.Point, hint int) (k int, err error) {
	if m.HasTriangle(hint) && m.TriangleVertices(hint).Contains(p, LocationTolerance) {
		return hint, nil
	}
	for k = range m.Triangles {
		if m.TriangleVertices(k).Contains(p, LocationTolerance) {
			return k, nil
		}
	}
	err = fmt.Errorf("%w: %s", ErrPointOutsideMesh, p)
	return -1, err
}
