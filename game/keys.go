package game

import "math/rand"

// KeyAction is a helm key binding.
type KeyAction int

const (
	KeyTurnLeft KeyAction = iota
	KeyTurnRight
	KeySpeedUp
	KeySlowDown
	KeyFire
)

// KeyActions lists every action, in the order they are polled.
var KeyActions = []KeyAction{KeyTurnLeft, KeyTurnRight, KeySpeedUp, KeySlowDown, KeyFire}

// Hold durations, in seconds, separating light, medium and heavy presses.
const (
	HoldLight  = 0.2
	HoldMedium = 0.5
)

// HoldStrength maps how long a key was held to an order strength of 1..3.
func HoldStrength(held float64) int {
	switch {
	case held < HoldLight:
		return 1
	case held < HoldMedium:
		return 2
	default:
		return 3
	}
}

// KeyControls turns key holds into orders. A longer press gives a
// stronger order, issued when the key is released.
type KeyControls struct {
	orders  *OrdersQueue
	rng     *rand.Rand
	t       float64
	pressed map[KeyAction]float64
}

// NewKeyControls feeds orders into q.
func NewKeyControls(q *OrdersQueue, rng *rand.Rand) *KeyControls {
	return &KeyControls{orders: q, rng: rng, pressed: make(map[KeyAction]float64)}
}

// Update polls the keys currently held. Key state is polled rather than
// taken from press and release events because auto-repeat makes those fire
// repeatedly.
func (k *KeyControls) Update(dt float64, held map[KeyAction]bool) {
	k.t += dt
	for _, a := range KeyActions {
		start, down := k.pressed[a]
		switch {
		case held[a] && !down:
			k.pressed[a] = k.t
		case !held[a] && down:
			delete(k.pressed, a)
			if o := k.OrderFor(a, k.t-start); o != nil {
				k.orders.Put(o)
			}
		}
	}
}

// OrderFor returns the order a key held for held seconds gives.
func (k *KeyControls) OrderFor(a KeyAction, held float64) Order {
	s := HoldStrength(held)
	var (
		o   Order
		err error
	)
	switch a {
	case KeyTurnLeft:
		o, err = NewHelmOrder(Port, s)
	case KeyTurnRight:
		o, err = NewHelmOrder(Starboard, s)
	case KeySpeedUp:
		if s == 1 {
			o, err = NewHelmOrder(Port, 0)
		} else {
			o, err = NewAccelerateOrder(s - 1)
		}
	case KeySlowDown:
		if s == 1 {
			o, err = NewHelmOrder(Port, 0)
		} else {
			o, err = NewDecelerateOrder(s - 1)
		}
	case KeyFire:
		o = NewFireOrder(k.rng)
	}
	if err != nil {
		return nil
	}
	return o
}
