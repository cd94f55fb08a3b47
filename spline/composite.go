package spline

import (
	"fmt"
	"sort"

	"github.com/notargets/psfem/geometry2D"
	"github.com/notargets/psfem/mesh"
	"github.com/notargets/psfem/ps12"
)

/*
CompositeSpline is a function over a mesh held as one PS12 piece per
triangle of its support. It is zero on every other triangle. Values are
immutable: Scale and Add build new splines, so a spline may be shared
between goroutines.
*/
type CompositeSpline struct {
	mesh    *mesh.Mesh
	pieces  map[int]ps12.Piece
	support []int
}

// EvalContext carries the point location hint between evaluations of
// nearby points. Each goroutine keeps its own.
type EvalContext struct {
	Last int
}

func NewEvalContext() *EvalContext {
	return &EvalContext{Last: -1}
}

func NewCompositeSpline(m *mesh.Mesh, pieces map[int]ps12.Piece) (f *CompositeSpline) {
	f = &CompositeSpline{
		mesh:   m,
		pieces: make(map[int]ps12.Piece, len(pieces)),
	}
	for k, pc := range pieces {
		f.pieces[k] = pc
		f.support = append(f.support, k)
	}
	sort.Ints(f.support)
	return
}

func (f *CompositeSpline) Mesh() *mesh.Mesh { return f.mesh }

// Support returns the triangles carrying a piece, ascending
func (f *CompositeSpline) Support() []int { return f.support }

func (f *CompositeSpline) Piece(k int) (pc ps12.Piece, ok bool) {
	pc, ok = f.pieces[k]
	return
}

func (f *CompositeSpline) EvaluateOn(k int, p geometry2D.Point) float64 {
	if pc, ok := f.pieces[k]; ok {
		return pc.Eval(p, -1)
	}
	return 0
}

func (f *CompositeSpline) GradientOn(k int, p geometry2D.Point) (g [2]float64) {
	if pc, ok := f.pieces[k]; ok {
		g = pc.Grad(p, -1)
	}
	return
}

func (f *CompositeSpline) LaplacianOn(k int, p geometry2D.Point) float64 {
	if pc, ok := f.pieces[k]; ok {
		return pc.Lapl(p, -1)
	}
	return 0
}

func (f *CompositeSpline) locate(p geometry2D.Point, ctx *EvalContext) (k int, err error) {
	hint := -1
	if ctx != nil {
		hint = ctx.Last
	}
	if k, err = f.mesh.FindTriangle(p, hint); err != nil {
		return
	}
	if ctx != nil {
		ctx.Last = k
	}
	return
}

// Evaluate locates p in the mesh, starting from the hint in ctx when given,
// and evaluates the piece there. ctx may be nil.
func (f *CompositeSpline) Evaluate(p geometry2D.Point, ctx *EvalContext) (v float64, err error) {
	var k int
	if k, err = f.locate(p, ctx); err != nil {
		return
	}
	return f.EvaluateOn(k, p), nil
}

func (f *CompositeSpline) Gradient(p geometry2D.Point, ctx *EvalContext) (g [2]float64, err error) {
	var k int
	if k, err = f.locate(p, ctx); err != nil {
		return
	}
	return f.GradientOn(k, p), nil
}

func (f *CompositeSpline) Laplacian(p geometry2D.Point, ctx *EvalContext) (v float64, err error) {
	var k int
	if k, err = f.locate(p, ctx); err != nil {
		return
	}
	return f.LaplacianOn(k, p), nil
}

func (f *CompositeSpline) Scale(alpha float64) (r *CompositeSpline) {
	r = &CompositeSpline{
		mesh:    f.mesh,
		pieces:  make(map[int]ps12.Piece, len(f.pieces)),
		support: f.support,
	}
	for k, pc := range f.pieces {
		r.pieces[k] = pc.Scale(alpha)
	}
	return
}

// Add sums two splines over the same mesh. The support of the result is the
// union, pieces present in only one operand pass through unchanged.
func (f *CompositeSpline) Add(g *CompositeSpline) (r *CompositeSpline) {
	if f.mesh != g.mesh {
		panic(fmt.Errorf("adding composite splines defined on different meshes"))
	}
	pieces := make(map[int]ps12.Piece, len(f.pieces)+len(g.pieces))
	for k, pc := range f.pieces {
		pieces[k] = pc
	}
	for k, pc := range g.pieces {
		if fp, ok := pieces[k]; ok {
			pieces[k] = fp.Add(pc)
		} else {
			pieces[k] = pc
		}
	}
	return NewCompositeSpline(f.mesh, pieces)
}
