package ps12

import (
	"math"

	"github.com/notargets/psfem/geometry2D"
)

/*
The Powell-Sabin 12-split of a triangle p0,p1,p2 uses ten points:

	0,1,2  the vertices
	3,4,5  the edge midpoints m01, m12, m20
	6      the centroid
	7,8,9  q_i = (2p_i + p_j + p_k)/4, where a median crosses the medial triangle

The medians and the sides of the medial triangle cut the macro triangle into
the 12 sub-triangles below. Sub-triangles 2i and 2i+1 touch vertex i, and
sub-triangle 2i also holds the midpoint of edge (v_i, v_i+1).
*/
const NumPoints = 10

var SubTriangles = [12][3]int{
	{0, 3, 7}, {0, 7, 5},
	{1, 4, 8}, {1, 8, 3},
	{2, 5, 9}, {2, 9, 4},
	{6, 3, 8}, {6, 8, 4},
	{6, 4, 9}, {6, 9, 5},
	{6, 5, 7}, {6, 7, 3},
}

type SubEdge struct {
	A, B int   // split point indices
	Subs []int // one (macro boundary) or two sub-triangles
}

// SubEdges lists the 21 edges of the split in first encounter order over the
// sub-triangles. The 15 with two sub-triangles are interior to the macro
// triangle.
var SubEdges = buildSubEdges()

func buildSubEdges() (edges []SubEdge) {
	index := make(map[[2]int]int)
	for s, st := range SubTriangles {
		for i := 0; i < 3; i++ {
			a, b := st[i], st[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if id, ok := index[key]; ok {
				edges[id].Subs = append(edges[id].Subs, s)
				continue
			}
			index[key] = len(edges)
			edges = append(edges, SubEdge{A: a, B: b, Subs: []int{s}})
		}
	}
	return
}

type Split struct {
	Macro  geometry2D.Triangle
	Points [NumPoints]geometry2D.Point
	Subs   [12]geometry2D.Triangle
	// Frame of the local monomials shared by all pieces on this split
	Origin geometry2D.Point
	H      float64
}

func NewSplit(tri geometry2D.Triangle) (s *Split) {
	s = &Split{Macro: tri}
	c := tri.Centroid()
	s.Points[0], s.Points[1], s.Points[2] = tri[0], tri[1], tri[2]
	s.Points[3] = geometry2D.Midpoint(tri[0], tri[1])
	s.Points[4] = geometry2D.Midpoint(tri[1], tri[2])
	s.Points[5] = geometry2D.Midpoint(tri[2], tri[0])
	s.Points[6] = c
	for i := 0; i < 3; i++ {
		s.Points[7+i] = geometry2D.Combine([]float64{0.5, 0.25, 0.25},
			[]geometry2D.Point{tri[i], tri[(i+1)%3], tri[(i+2)%3]})
	}
	for k, st := range SubTriangles {
		s.Subs[k] = geometry2D.Triangle{s.Points[st[0]], s.Points[st[1]], s.Points[st[2]]}
	}
	s.Origin = c
	s.H = tri.Diameter()
	return
}

// Locate returns the sub-triangle containing p. Points on shared sub-edges
// go to the lowest indexed candidate, points outside the macro triangle to
// the nearest sub-triangle in the barycentric sense.
func (s *Split) Locate(p geometry2D.Point) (sub int) {
	best := math.Inf(-1)
	for k := range s.Subs {
		mb := s.Subs[k].MinBarycentric(p)
		if mb >= -1.e-12 {
			return k
		}
		if mb > best {
			best, sub = mb, k
		}
	}
	return
}

// Barycentric coordinates of p in the macro triangle
func (s *Split) Barycentric(p geometry2D.Point) [3]float64 {
	return s.Macro.Barycentric(p)
}
