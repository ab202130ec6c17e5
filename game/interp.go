package game

import "math"

// InterpolatingController eases a scalar control towards its target so
// that stepped commands feel analog.
type InterpolatingController struct {
	current  float64
	from, to float64
	elapsed  float64 // seconds into the ease
	duration float64
	active   bool
}

// NewInterpolatingController starts at value; each Set eases over
// duration seconds.
func NewInterpolatingController(value, duration float64) *InterpolatingController {
	return &InterpolatingController{current: value, to: value, duration: duration}
}

// ease is sin²(t·π/2): slow in, slow out.
func ease(t float64) float64 {
	s := math.Sin(t * math.Pi * 0.5)
	return s * s
}

// Current returns the present value.
func (c *InterpolatingController) Current() float64 {
	return c.current
}

// Target returns the value being eased towards, or the current value if
// no ease is in flight.
func (c *InterpolatingController) Target() float64 {
	if c.active {
		return c.to
	}
	return c.current
}

// Interpolating reports whether an ease is in flight.
func (c *InterpolatingController) Interpolating() bool {
	return c.active
}

// Set starts easing from the current value to target. Setting the target
// already in flight does not restart the ease.
func (c *InterpolatingController) Set(target float64) {
	if c.Target() == target {
		return
	}
	if c.duration <= 0 {
		c.SetImmediate(target)
		return
	}
	c.from = c.current
	c.to = target
	c.elapsed = 0
	c.active = true
}

// SetImmediate jumps to v and abandons any ease.
func (c *InterpolatingController) SetImmediate(v float64) {
	c.current = v
	c.to = v
	c.elapsed = 0
	c.active = false
}

// Update advances the ease by dt, landing exactly on the target.
func (c *InterpolatingController) Update(dt float64) {
	if !c.active {
		return
	}
	c.elapsed += dt
	if c.elapsed >= c.duration {
		c.current = c.to
		c.active = false
		return
	}
	c.current = c.from + ease(c.elapsed/c.duration)*(c.to-c.from)
}
