package dofs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/psfem/types"
)

func TestLocalToGlobalTwoTriangles(t *testing.T) {
	n := LocalToGlobal(4, [][3]int{{0, 1, 2}, {1, 3, 2}})
	assert.Equal(t, 17, n.Dimension)
	assert.Equal(t, [12]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, n.LocalToGlobal[0])
	assert.Equal(t, [12]int{4, 5, 6, 12, 13, 14, 15, 16, 8, 9, 10, 7}, n.LocalToGlobal[1])
	{ // Shared diagonal carries the same edge dof from both sides
		assert.Equal(t, 7, n.EdgeDOFs[types.NewEdgeKey([2]int{2, 1})])
		assert.Equal(t, types.NewEdgeKey([2]int{1, 2}), n.DOFToEdge[7])
	}
	{
		assert.Equal(t, 13, n.ValueDOFs[3])
		assert.Equal(t, 14, n.DXDOFs[3])
		assert.Equal(t, 15, n.DYDOFs[3])
		assert.Equal(t, 3, n.DOFToVertex[15])
	}
	{
		assert.Equal(t, 11, n.Position(1, 7))
		assert.Equal(t, 3, n.Position(1, 12))
		assert.Equal(t, -1, n.Position(0, 12))
	}
}

func TestLocalToGlobalOrigins(t *testing.T) {
	// Fan of four triangles around vertex 4
	tris := [][3]int{{0, 1, 4}, {1, 3, 4}, {3, 2, 4}, {2, 0, 4}}
	n := LocalToGlobal(5, tris)
	assert.Equal(t, 3*5+8, n.Dimension)
	assert.Len(t, n.Kinds, n.Dimension)
	assert.Len(t, n.DOFToVertex, 15)
	assert.Len(t, n.DOFToEdge, 8)
	for d := 0; d < n.Dimension; d++ {
		_, isVertex := n.DOFToVertex[d]
		_, isEdge := n.DOFToEdge[d]
		assert.True(t, isVertex != isEdge, "dof %d", d)
		assert.Equal(t, isVertex, n.Kinds[d].IsVertexKind())
	}
	for k, tri := range tris {
		for i, d := range n.LocalToGlobal[k] {
			assert.Equal(t, LocalKind(i), n.Kinds[d])
			if LocalKind(i).IsVertexKind() {
				assert.Equal(t, tri[i/4], n.DOFToVertex[d])
			} else {
				ev := types.TriangleEdges(tri)[i/4]
				assert.Equal(t, types.NewEdgeKey(ev), n.DOFToEdge[d])
			}
		}
	}
}
