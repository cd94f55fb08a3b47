package geometry2D

import (
	"fmt"
	"math"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (p Point) Plus(q Point) Point {
	return Point{X: [2]float64{p.X[0] + q.X[0], p.X[1] + q.X[1]}}
}

func (p Point) Minus(q Point) Point {
	return Point{X: [2]float64{p.X[0] - q.X[0], p.X[1] - q.X[1]}}
}

func (p Point) Scale(a float64) Point {
	return Point{X: [2]float64{a * p.X[0], a * p.X[1]}}
}

func (p Point) Dot(q Point) float64 {
	return p.X[0]*q.X[0] + p.X[1]*q.X[1]
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X[0], p.X[1])
}

func (p Point) String() string {
	return fmt.Sprintf("[%8.5f,%8.5f]", p.X[0], p.X[1])
}

// Midpoint returns (p+q)/2
func Midpoint(p, q Point) Point {
	return Point{X: [2]float64{0.5 * (p.X[0] + q.X[0]), 0.5 * (p.X[1] + q.X[1])}}
}

// Distance between two points
func Distance(p, q Point) float64 {
	return p.Minus(q).Norm()
}

// Combine returns the affine combination sum(w[i]*pts[i])
func Combine(w []float64, pts []Point) (p Point) {
	for i, pt := range pts {
		p.X[0] += w[i] * pt.X[0]
		p.X[1] += w[i] * pt.X[1]
	}
	return
}
