package types

import (
	"fmt"
	"math"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

// GetVertices unpacks the pair in ascending order
func (ek EdgeKey) GetVertices() (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	return
}

func (ek EdgeKey) String() string {
	verts := ek.GetVertices()
	return fmt.Sprintf("(%d,%d)", verts[0], verts[1])
}

// TriangleEdges returns the three edges of a triangle in the traversal order
// (v0,v1), (v1,v2), (v2,v0), each oriented as it runs inside the triangle.
func TriangleEdges(tri [3]int) (edges [3][2]int) {
	for i := 0; i < 3; i++ {
		edges[i] = [2]int{tri[i], tri[(i+1)%3]}
	}
	return
}
