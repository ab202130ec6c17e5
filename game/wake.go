package game

import "github.com/go-gl/mathgl/mgl64"

// WakeEmitter records the trail left astern of a ship.
type WakeEmitter struct {
	ship     *Ship
	interval float64
	length   int
	acc      float64
	trail    []mgl64.Vec3
}

// NewWakeEmitter samples ship's stern every interval seconds, keeping at
// most length points.
func NewWakeEmitter(ship *Ship, interval float64, length int) *WakeEmitter {
	return &WakeEmitter{ship: ship, interval: interval, length: length}
}

func (w *WakeEmitter) Update(dt float64) {
	if w.interval <= 0 || w.length <= 0 {
		return
	}
	w.acc += dt
	if w.acc < w.interval {
		return
	}
	w.acc -= w.interval
	if w.acc >= w.interval {
		w.acc = 0
	}
	p := w.ship.LocalToWorld(sternOffset)
	p[1] = 0
	w.trail = append(w.trail, p)
	if n := len(w.trail); n > w.length {
		w.trail = append(w.trail[:0], w.trail[n-w.length:]...)
	}
}

// Trail returns the wake points, oldest first.
func (w *WakeEmitter) Trail() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), w.trail...)
}
