package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSphereContains(t *testing.T) {
	tests := []struct {
		name   string
		sphere Sphere
		point  mgl64.Vec3
		want   bool
	}{
		{"origin in unit sphere", UnitSphere(), mgl64.Vec3{}, true},
		{"surface point", Sphere{mgl64.Vec3{0, 2, 0}, 2}, mgl64.Vec3{0, 4, 0}, true},
		{"slightly outside", Sphere{Radius: 2}, mgl64.Vec3{0, 2, 0.1}, false},
		{"inside off-centre", Sphere{mgl64.Vec3{5, 5, 5}, 1}, mgl64.Vec3{5.5, 5, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sphere.Contains(tt.point))
		})
	}
}

func TestSphereCollides(t *testing.T) {
	c := mgl64.Vec3{72, 27, 1}
	near := mgl64.Vec3{71, 26, 0}
	far := mgl64.Vec3{71, 26, -0.5}

	a := Sphere{c, 1}
	b := Sphere{near, 1}
	assert.True(t, a.Collides(b))
	assert.True(t, b.Collides(a), "collision must be symmetric")

	d := Sphere{far, 1}
	assert.False(t, a.Collides(d))
	assert.False(t, d.Collides(a))

	assert.True(t, a.Collides(a))
}

func TestSphereCollidesTouching(t *testing.T) {
	a := Sphere{mgl64.Vec3{0, 0, 0}, 1}
	b := Sphere{mgl64.Vec3{2, 0, 0}, 1}
	assert.True(t, a.Collides(b))
}

func TestSphereTransformed(t *testing.T) {
	m := mgl64.Translate3D(0, 0, 5)
	s := Sphere{Radius: 2}.Transformed(m)
	assert.True(t, s.Equal(Sphere{mgl64.Vec3{0, 0, 5}, 2}), "got %v", s)

	back := s.Transformed(m.Inv())
	assert.True(t, back.Equal(Sphere{Radius: 2}), "got %v", back)
}

func TestSphereTranslated(t *testing.T) {
	s := Sphere{mgl64.Vec3{1, 2, 3}, 0.5}
	v := mgl64.Vec3{-1, 4, 0.25}
	got := s.Translated(v)
	assert.True(t, got.Centre.ApproxEqualThreshold(mgl64.Vec3{0, 6, 3.25}, 1e-12))
	assert.Equal(t, 0.5, got.Radius)
}
