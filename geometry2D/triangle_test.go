package geometry2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriangle(t *testing.T) {
	tri := Triangle{NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1)}
	{ // Area and orientation
		assert.InDelta(t, 0.5, tri.SignedArea(), 1.e-15)
		rev := Triangle{tri[0], tri[2], tri[1]}
		assert.InDelta(t, -0.5, rev.SignedArea(), 1.e-15)
		assert.InDelta(t, 0.5, rev.Area(), 1.e-15)
		assert.InDelta(t, math.Sqrt(2), tri.Diameter(), 1.e-15)
	}
	{ // Barycentric coordinates round trip
		p := NewPoint(0.2, 0.3)
		l := tri.Barycentric(p)
		assert.InDeltaSlice(t, []float64{0.5, 0.2, 0.3}, l[:], 1.e-14)
		q := tri.FromBarycentric(l)
		assert.InDelta(t, p.X[0], q.X[0], 1.e-14)
		assert.InDelta(t, p.X[1], q.X[1], 1.e-14)
		assert.True(t, tri.Contains(p, 0))
		assert.True(t, tri.Contains(NewPoint(0.5, 0.5), 1.e-12))
		assert.False(t, tri.Contains(NewPoint(0.6, 0.6), 1.e-12))
		assert.InDelta(t, -0.2, tri.MinBarycentric(NewPoint(0.6, 0.6)), 1.e-14)
	}
	{ // Outward normals for both orientations
		for _, tt := range []Triangle{tri, {tri[0], tri[2], tri[1]}} {
			for i := 0; i < 3; i++ {
				n := tt.OutwardNormal(i)
				mid := Midpoint(tt[i], tt[(i+1)%3])
				assert.InDelta(t, 1., n.Norm(), 1.e-14)
				assert.False(t, tt.Contains(mid.Plus(n.Scale(1.e-3)), 0))
			}
		}
		n := tri.OutwardNormal(0)
		assert.InDelta(t, 0., n.X[0], 1.e-15)
		assert.InDelta(t, -1., n.X[1], 1.e-15)
	}
}
