package dofs

import (
	"fmt"

	"github.com/notargets/psfem/types"
)

type Kind uint8

const (
	Value Kind = iota
	DX
	DY
	EdgeNormal
)

func (k Kind) String() string {
	switch k {
	case Value:
		return "value"
	case DX:
		return "dx"
	case DY:
		return "dy"
	case EdgeNormal:
		return "edge-normal"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsVertexKind is true for the three Hermite functionals carried by a vertex
func (k Kind) IsVertexKind() bool { return k != EdgeNormal }

/*
Numbering is the global degree of freedom layout of a triangulation.
LocalToGlobal[k] holds the 12 global indices of triangle k ordered as
(value, dx, dy) of vertex i followed by the functional of edge (v_i, v_i+1),
for i = 0, 1, 2.
*/
type Numbering struct {
	LocalToGlobal [][12]int
	DOFToEdge     map[int]types.EdgeKey
	DOFToVertex   map[int]int
	ValueDOFs     map[int]int // vertex -> value dof
	DXDOFs        map[int]int // vertex -> x derivative dof
	DYDOFs        map[int]int // vertex -> y derivative dof
	EdgeDOFs      map[types.EdgeKey]int
	Kinds         []Kind
	Dimension     int
}

/*
LocalToGlobal numbers the degrees of freedom of a triangulation by walking the
triangles in index order and each triangle's edges in rotation
(v0,v1),(v1,v2),(v2,v0). The first vertex of each edge receives a block of
three consecutive indices the first time it is seen, then the sorted edge
receives a single index the first time it is seen.
*/
func LocalToGlobal(nVertices int, triangles [][3]int) (n *Numbering) {
	var (
		next   int
		vBlock = make([]int, nVertices)
	)
	for i := range vBlock {
		vBlock[i] = -1
	}
	n = &Numbering{
		LocalToGlobal: make([][12]int, len(triangles)),
		DOFToEdge:     make(map[int]types.EdgeKey),
		DOFToVertex:   make(map[int]int),
		ValueDOFs:     make(map[int]int),
		DXDOFs:        make(map[int]int),
		DYDOFs:        make(map[int]int),
		EdgeDOFs:      make(map[types.EdgeKey]int),
	}
	for k, tri := range triangles {
		for i, ev := range types.TriangleEdges(tri) {
			v := ev[0]
			if vBlock[v] < 0 {
				vBlock[v] = next
				n.ValueDOFs[v], n.DXDOFs[v], n.DYDOFs[v] = next, next+1, next+2
				for j := 0; j < 3; j++ {
					n.DOFToVertex[next+j] = v
				}
				n.Kinds = append(n.Kinds, Value, DX, DY)
				next += 3
			}
			ek := types.NewEdgeKey(ev)
			ed, ok := n.EdgeDOFs[ek]
			if !ok {
				ed = next
				n.EdgeDOFs[ek] = ed
				n.DOFToEdge[ed] = ek
				n.Kinds = append(n.Kinds, EdgeNormal)
				next++
			}
			b := vBlock[v]
			n.LocalToGlobal[k][4*i+0] = b
			n.LocalToGlobal[k][4*i+1] = b + 1
			n.LocalToGlobal[k][4*i+2] = b + 2
			n.LocalToGlobal[k][4*i+3] = ed
		}
	}
	n.Dimension = next
	return
}

// Position returns the local index 0..11 of a global dof within triangle k,
// or -1 when the dof is not carried by k
func (n *Numbering) Position(k, dof int) int {
	for i, d := range n.LocalToGlobal[k] {
		if d == dof {
			return i
		}
	}
	return -1
}

// LocalKind is the functional kind of local index i in any triangle
func LocalKind(i int) Kind {
	return Kind(i % 4)
}
