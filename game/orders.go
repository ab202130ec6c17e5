package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	// ErrStrength is returned for an order strength outside its range.
	ErrStrength = errors.New("order strength out of range")
	// ErrDirection is returned for a helm order that is neither port nor
	// starboard.
	ErrDirection = errors.New("invalid helm direction")
)

// Order is one instruction to a ship's crew.
type Order interface {
	// Kind names the order variant.
	Kind() string
	// Message is what the captain shouts.
	Message() string
	// Act applies the order to ship.
	Act(ship *Ship)
}

// HelmOrder puts the rudder over to one side.
type HelmOrder struct {
	Direction Side
	Strength  int // signed, +ve to port
}

var helmMessages = [...]string{
	"Rudder amidships!",
	"A little to %s!",
	"Turn to %s!",
	"Hard ta %s!",
}

// NewHelmOrder builds a helm order of strength 0..MaxHelm towards side.
func NewHelmOrder(side Side, strength int) (*HelmOrder, error) {
	if side != Port && side != Starboard {
		return nil, fmt.Errorf("%w: %d", ErrDirection, side)
	}
	if strength < 0 || strength > MaxHelm {
		return nil, fmt.Errorf("%w: helm %d", ErrStrength, strength)
	}
	if side == Starboard {
		strength = -strength
	}
	return &HelmOrder{Direction: side, Strength: strength}, nil
}

func (o *HelmOrder) Kind() string { return "helm" }

func (o *HelmOrder) Message() string {
	m := helmMessages[abs(o.Strength)]
	if strings.Contains(m, "%s") {
		return fmt.Sprintf(m, o.Direction)
	}
	return m
}

func (o *HelmOrder) Act(ship *Ship) {
	ship.SetHelm(float64(o.Strength))
}

// AccelerateOrder sets more sail.
type AccelerateOrder struct {
	Strength int
}

var accelerateMessages = [...]string{
	"",
	"A touch more sail!",
	"More sail!",
	"Give me every scrap of sail!",
}

// NewAccelerateOrder builds an order to add 1..MaxSail units of sail.
func NewAccelerateOrder(strength int) (*AccelerateOrder, error) {
	if strength < 1 || strength > MaxSail {
		return nil, fmt.Errorf("%w: accelerate %d", ErrStrength, strength)
	}
	return &AccelerateOrder{Strength: strength}, nil
}

func (o *AccelerateOrder) Kind() string    { return "accelerate" }
func (o *AccelerateOrder) Message() string { return accelerateMessages[o.Strength] }

func (o *AccelerateOrder) Act(ship *Ship) {
	ship.SetSail(min(MaxSail, ship.Sail().Target()+float64(o.Strength)))
}

// DecelerateOrder takes in sail.
type DecelerateOrder struct {
	Strength int
}

var decelerateMessages = [...]string{
	"",
	"Ease off the mails'l!",
	"Ease off all sail!",
	"All stop!",
}

// NewDecelerateOrder builds an order to take in 1..MaxSail units of sail.
func NewDecelerateOrder(strength int) (*DecelerateOrder, error) {
	if strength < 1 || strength > MaxSail {
		return nil, fmt.Errorf("%w: decelerate %d", ErrStrength, strength)
	}
	return &DecelerateOrder{Strength: strength}, nil
}

func (o *DecelerateOrder) Kind() string    { return "decelerate" }
func (o *DecelerateOrder) Message() string { return decelerateMessages[o.Strength] }

func (o *DecelerateOrder) Act(ship *Ship) {
	ship.SetSail(max(0, ship.Sail().Target()-float64(o.Strength)))
}

// FireOrder lets off a broadside.
type FireOrder struct {
	message string
}

var fireMessages = [...]string{
	"Let 'em have it!",
	"Fire!",
	"Give 'em a full broadside!",
}

// NewFireOrder picks its battle cry from rng; a nil rng always shouts
// the same one.
func NewFireOrder(rng *rand.Rand) *FireOrder {
	i := 1
	if rng != nil {
		i = rng.Intn(len(fireMessages))
	}
	return &FireOrder{message: fireMessages[i]}
}

func (o *FireOrder) Kind() string    { return "fire" }
func (o *FireOrder) Message() string { return o.message }
func (o *FireOrder) Act(ship *Ship)  { ship.Fire() }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// OrdersListener is told about a queue's progress.
type OrdersListener interface {
	// OnOrder is called as each order is carried out.
	OnOrder(ship *Ship, o Order)
	// OnReadyForOrders is called when the crew's wait elapses with
	// nothing left to do.
	OnReadyForOrders(ship *Ship)
}

// OrdersQueue carries out a ship's orders one at a time, no faster than
// one per interval.
type OrdersQueue struct {
	ship      *Ship
	interval  float64
	wait      float64
	pending   []Order
	listeners []OrdersListener
}

// NewOrdersQueue returns an empty queue for ship.
func NewOrdersQueue(ship *Ship, interval float64) *OrdersQueue {
	return &OrdersQueue{ship: ship, interval: interval}
}

// Put appends o to the queue.
func (q *OrdersQueue) Put(o Order) {
	q.pending = append(q.pending, o)
}

// Len is the number of orders waiting.
func (q *OrdersQueue) Len() int { return len(q.pending) }

// Interval is the crew's reaction time.
func (q *OrdersQueue) Interval() float64 { return q.interval }

// Ready reports whether the next Update may carry out an order.
func (q *OrdersQueue) Ready() bool { return q.wait <= 0 }

// Clear drops every waiting order.
func (q *OrdersQueue) Clear() { q.pending = nil }

// AddListener subscribes l.
func (q *OrdersQueue) AddListener(l OrdersListener) {
	q.listeners = append(q.listeners, l)
}

// RemoveListener unsubscribes l.
func (q *OrdersQueue) RemoveListener(l OrdersListener) {
	for i, o := range q.listeners {
		if o == l {
			q.listeners = append(q.listeners[:i:i], q.listeners[i+1:]...)
			return
		}
	}
}

// Update counts down the crew's wait and carries out the next order once
// it has elapsed.
func (q *OrdersQueue) Update(dt float64) {
	if q.wait > 0 {
		q.wait -= dt
		if q.wait > 0 {
			return
		}
		if len(q.pending) == 0 {
			q.wait = 0
			for _, l := range append([]OrdersListener(nil), q.listeners...) {
				l.OnReadyForOrders(q.ship)
			}
			return
		}
	}
	if len(q.pending) == 0 {
		return
	}
	o := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	for _, l := range append([]OrdersListener(nil), q.listeners...) {
		l.OnOrder(q.ship, o)
	}
	o.Act(q.ship)
	ordersCounter.WithLabelValues(o.Kind()).Inc()
	q.wait = q.interval
}
