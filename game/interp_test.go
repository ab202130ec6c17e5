package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolatingControllerLandsExactly(t *testing.T) {
	c := NewInterpolatingController(0, 3)
	c.Set(3)
	assert.True(t, c.Interpolating())

	const dt = 1.0 / 60
	elapsed := 0.0
	prev := c.Current()
	for elapsed < 3 {
		c.Update(dt)
		elapsed += dt
		assert.GreaterOrEqual(t, c.Current(), prev)
		assert.LessOrEqual(t, c.Current(), 3.0)
		prev = c.Current()
	}
	assert.Equal(t, 3.0, c.Current())
	assert.False(t, c.Interpolating())
}

func TestInterpolatingControllerSameTargetDoesNotRestart(t *testing.T) {
	c := NewInterpolatingController(0, 2)
	c.Set(1)
	c.Update(1)
	mid := c.Current()
	assert.InDelta(t, 0.5, mid, 1e-9)

	c.Set(1)
	c.Update(1)
	assert.Equal(t, 1.0, c.Current())
}

func TestInterpolatingControllerRetarget(t *testing.T) {
	c := NewInterpolatingController(0, 2)
	c.Set(2)
	c.Update(1)
	from := c.Current()
	c.Set(0)
	assert.Equal(t, from, c.Current())
	assert.Equal(t, 0.0, c.Target())
	c.Update(2)
	assert.Equal(t, 0.0, c.Current())
}

func TestInterpolatingControllerZeroDuration(t *testing.T) {
	c := NewInterpolatingController(1, 0)
	c.Set(3)
	assert.Equal(t, 3.0, c.Current())
	assert.False(t, c.Interpolating())
}
