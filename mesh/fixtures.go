package mesh

import "github.com/notargets/psfem/geometry2D"

/*
UnitSquareUniform triangulates [0,1]x[0,1] with an n x n grid of cells, each
cell split along its anti-diagonal into a lower-left and an upper-right
triangle, both counter-clockwise. Vertices are numbered row by row from the
origin, so UnitSquareUniform(1) is the two triangle square
(0,0)-(1,0)-(0,1) / (1,0)-(1,1)-(0,1).
*/
func UnitSquareUniform(n int) (vertices []geometry2D.Point, triangles [][3]int) {
	if n < 1 {
		n = 1
	}
	var (
		np1 = n + 1
		h   = 1. / float64(n)
	)
	vertices = make([]geometry2D.Point, 0, np1*np1)
	for j := 0; j < np1; j++ {
		for i := 0; i < np1; i++ {
			vertices = append(vertices, geometry2D.NewPoint(float64(i)*h, float64(j)*h))
		}
	}
	triangles = make([][3]int, 0, 2*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00 := j*np1 + i
			v10 := v00 + 1
			v01 := v00 + np1
			v11 := v01 + 1
			triangles = append(triangles, [3]int{v00, v10, v01}, [3]int{v10, v11, v01})
		}
	}
	return
}

// NewUnitSquareUniform builds the mesh of UnitSquareUniform
func NewUnitSquareUniform(n int) (*Mesh, error) {
	return NewMesh(UnitSquareUniform(n))
}

// SquareFan is the unit square split into four triangles around its center
// vertex, which is vertex 4
func SquareFan() (vertices []geometry2D.Point, triangles [][3]int) {
	vertices = []geometry2D.Point{
		geometry2D.NewPoint(0, 0),
		geometry2D.NewPoint(1, 0),
		geometry2D.NewPoint(0, 1),
		geometry2D.NewPoint(1, 1),
		geometry2D.NewPoint(0.5, 0.5),
	}
	triangles = [][3]int{
		{0, 1, 4},
		{1, 3, 4},
		{3, 2, 4},
		{2, 0, 4},
	}
	return
}
