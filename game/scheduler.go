package game

import (
	"container/heap"
	"fmt"
	stlog "log/slog"

	"github.com/google/uuid"
)

// Token identifies a scheduled callback.
type Token uint64

// Callback is run by the Scheduler. dt is the time since the callback was
// scheduled or last ran.
type Callback func(dt float64)

type scheduled struct {
	token     Token
	owner     uuid.UUID
	at        float64
	last      float64
	interval  float64 // zero for one-shot entries
	fn        Callback
	index     int
	cancelled bool
}

type scheduleHeap []*scheduled

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].token < h[j].token
}
func (h scheduleHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *scheduleHeap) Push(x any) {
	e := x.(*scheduled)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler runs callbacks against a virtual clock advanced once per tick.
// Every entry belongs to an owner so that everything an entity scheduled
// can be dropped in one call when it leaves the world. It is not safe for
// concurrent use.
type Scheduler struct {
	now     float64
	next    Token
	queue   scheduleHeap
	entries map[Token]*scheduled
	logger  *stlog.Logger
}

// NewScheduler returns a scheduler whose clock starts at zero.
func NewScheduler(logger *stlog.Logger) *Scheduler {
	if logger == nil {
		logger = stlog.Default()
	}
	return &Scheduler{
		entries: make(map[Token]*scheduled),
		logger:  logger,
	}
}

// Now returns the virtual clock.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Len returns the number of live entries.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// Pending returns the number of live entries belonging to owner.
func (s *Scheduler) Pending(owner uuid.UUID) int {
	n := 0
	for _, e := range s.entries {
		if e.owner == owner {
			n++
		}
	}
	return n
}

// Once runs fn after delay seconds.
func (s *Scheduler) Once(owner uuid.UUID, delay float64, fn Callback) Token {
	return s.add(owner, delay, 0, fn)
}

// Every runs fn every interval seconds until cancelled. interval must be
// positive.
func (s *Scheduler) Every(owner uuid.UUID, interval float64, fn Callback) Token {
	if interval <= 0 {
		panic(fmt.Sprintf("game: schedule interval must be positive, got %v", interval))
	}
	return s.add(owner, interval, interval, fn)
}

func (s *Scheduler) add(owner uuid.UUID, delay, interval float64, fn Callback) Token {
	s.next++
	e := &scheduled{
		token:    s.next,
		owner:    owner,
		at:       s.now + max(delay, 0),
		last:     s.now,
		interval: interval,
		fn:       fn,
	}
	s.entries[e.token] = e
	heap.Push(&s.queue, e)
	return e.token
}

// Cancel drops the entry for t. It reports whether the entry was live.
func (s *Scheduler) Cancel(t Token) bool {
	e, ok := s.entries[t]
	if !ok {
		return false
	}
	s.drop(e)
	return true
}

// CancelOwner drops every entry belonging to owner and returns how many
// were dropped.
func (s *Scheduler) CancelOwner(owner uuid.UUID) int {
	n := 0
	for _, e := range s.entries {
		if e.owner == owner {
			s.drop(e)
			n++
		}
	}
	return n
}

func (s *Scheduler) drop(e *scheduled) {
	e.cancelled = true
	delete(s.entries, e.token)
	if e.index >= 0 {
		heap.Remove(&s.queue, e.index)
	}
}

// Advance moves the clock forward by dt and runs everything that has come
// due, in time order. A repeating entry runs at most once per Advance.
func (s *Scheduler) Advance(dt float64) {
	s.now += dt
	var again []*scheduled
	for s.queue.Len() > 0 && s.queue[0].at <= s.now {
		e := heap.Pop(&s.queue).(*scheduled)
		s.run(e)
		if e.cancelled {
			continue
		}
		if e.interval == 0 {
			delete(s.entries, e.token)
			continue
		}
		e.last = s.now
		e.at += e.interval
		if e.at <= s.now {
			e.at = s.now + e.interval
		}
		again = append(again, e)
	}
	for _, e := range again {
		if !e.cancelled {
			heap.Push(&s.queue, e)
		}
	}
}

// run invokes e's callback, containing any panic so that one faulty
// callback cannot stop the rest of the tick. A repeating entry stays
// scheduled after a panic; a one-shot entry is spent either way.
func (s *Scheduler) run(e *scheduled) {
	defer func() {
		if r := recover(); r != nil {
			callbackPanicsCounter.Inc()
			s.logger.Error("Scheduled callback panicked",
				"owner", e.owner, "token", e.token, "repeating", e.interval > 0, "panic", r)
		}
	}()
	e.fn(s.now - e.last)
}
