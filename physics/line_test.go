package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSegmentBounds(t *testing.T) {
	l := NewLineSegment(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{-10, -10, -10})
	assert.True(t, l.Bounds().Equal(Sphere{Radius: math.Sqrt(75)}), "got %v", l.Bounds())
}

func TestNewLineSegment(t *testing.T) {
	l := NewLineSegment(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, 10})
	assert.Equal(t, mgl64.Vec3{0, 0, -10}, l.Origin)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, l.Direction)
	assert.Equal(t, 10.0, l.Length)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, l.End())
}

func TestNewLineSegmentZeroLength(t *testing.T) {
	assert.Panics(t, func() {
		NewLineSegment(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{})
	})
}

func TestFirstIntersection(t *testing.T) {
	tests := []struct {
		name   string
		origin mgl64.Vec3
		vec    mgl64.Vec3
		ok     bool
		dist   float64
		point  mgl64.Vec3
	}{
		{
			name:   "through the centre",
			origin: mgl64.Vec3{0, 0, -10},
			vec:    mgl64.Vec3{0, 0, 10},
			ok:     true,
			dist:   9,
			point:  mgl64.Vec3{0, 0, -1},
		},
		{
			name:   "already past",
			origin: mgl64.Vec3{0, 0, 1.5},
			vec:    mgl64.Vec3{0, 0, 2},
		},
		{
			name:   "stops short",
			origin: mgl64.Vec3{0, 0, -2.5},
			vec:    mgl64.Vec3{0, 0, 1},
		},
		{
			name:   "starts inside",
			origin: mgl64.Vec3{},
			vec:    mgl64.Vec3{0, 0, 2},
			ok:     true,
			dist:   0,
			point:  mgl64.Vec3{},
		},
		{
			name:   "oblique",
			origin: mgl64.Vec3{0.5, 0, -5},
			vec:    mgl64.Vec3{0, 0, 5},
			ok:     true,
			dist:   5 - math.Sqrt(0.75),
			point:  mgl64.Vec3{0.5, 0, -math.Sqrt(0.75)},
		},
		{
			name:   "misses entirely",
			origin: mgl64.Vec3{3, 0, -5},
			vec:    mgl64.Vec3{0, 0, 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLineSegment(tt.origin, tt.vec)
			d, p, ok := l.FirstIntersection(UnitSphere())
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.dist, d, 1e-9)
			assert.True(t, p.ApproxEqualThreshold(tt.point, 1e-9), "got %v", p)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, l.Length)
		})
	}
}

func TestCollideBodyClosest(t *testing.T) {
	body := NewBody(NewPositionable(mgl64.Vec3{}), []Sphere{
		{mgl64.Vec3{0, 0, 3}, 1},
		{mgl64.Vec3{0, 0, -3}, 1},
	})
	l := NewLineSegment(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, 20})

	hit, ok := l.CollideBody(body)
	require.True(t, ok)
	assert.True(t, hit.ApproxEqualThreshold(mgl64.Vec3{0, 0, -4}, 1e-9), "got %v", hit)
}

func TestCollideBodyMiss(t *testing.T) {
	body := NewBody(NewPositionable(mgl64.Vec3{50, 0, 0}), []Sphere{UnitSphere()})
	l := NewLineSegment(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, 20})

	_, ok := l.CollideBody(body)
	assert.False(t, ok)
}
