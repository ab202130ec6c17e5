package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOnceRunsInTimeOrder(t *testing.T) {
	s := NewScheduler(nil)
	owner := uuid.New()
	var got []string
	s.Once(owner, 0.5, func(float64) { got = append(got, "b") })
	s.Once(owner, 0.25, func(float64) { got = append(got, "a") })
	s.Once(owner, 2, func(float64) { got = append(got, "c") })

	s.Advance(0.25)
	assert.Equal(t, []string{"a"}, got)
	s.Advance(0.5)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, s.Len())
	s.Advance(2)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerEveryPassesElapsed(t *testing.T) {
	s := NewScheduler(nil)
	var dts []float64
	s.Every(uuid.New(), 0.5, func(dt float64) { dts = append(dts, dt) })

	for i := 0; i < 8; i++ {
		s.Advance(0.25)
	}
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, dts)
}

func TestSchedulerEveryRunsOncePerAdvance(t *testing.T) {
	s := NewScheduler(nil)
	n := 0
	s.Every(uuid.New(), 0.1, func(float64) { n++ })
	s.Advance(1)
	assert.Equal(t, 1, n)
	s.Advance(0.1)
	assert.Equal(t, 2, n)
}

func TestSchedulerEveryRejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(nil)
	assert.Panics(t, func() { s.Every(uuid.New(), 0, func(float64) {}) })
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(nil)
	ran := false
	tok := s.Once(uuid.New(), 1, func(float64) { ran = true })
	assert.True(t, s.Cancel(tok))
	assert.False(t, s.Cancel(tok))
	s.Advance(2)
	assert.False(t, ran)
}

func TestSchedulerCancelOwner(t *testing.T) {
	s := NewScheduler(nil)
	a, b := uuid.New(), uuid.New()
	var ranA, ranB int
	s.Once(a, 1, func(float64) { ranA++ })
	s.Every(a, 0.5, func(float64) { ranA++ })
	s.Once(b, 1, func(float64) { ranB++ })

	assert.Equal(t, 2, s.Pending(a))
	assert.Equal(t, 2, s.CancelOwner(a))
	assert.Equal(t, 0, s.Pending(a))
	s.Advance(5)
	assert.Zero(t, ranA)
	assert.Equal(t, 1, ranB)
}

func TestSchedulerCallbackCanCancelItself(t *testing.T) {
	s := NewScheduler(nil)
	owner := uuid.New()
	n := 0
	s.Every(owner, 1, func(float64) {
		n++
		s.CancelOwner(owner)
	})
	s.Advance(1)
	s.Advance(1)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerContainsPanics(t *testing.T) {
	s := NewScheduler(nil)
	bad, good := 0, 0
	s.Every(uuid.New(), 1, func(float64) {
		bad++
		panic("boom")
	})
	s.Every(uuid.New(), 1, func(float64) { good++ })

	require.NotPanics(t, func() {
		s.Advance(1)
		s.Advance(1)
	})
	assert.Equal(t, 2, bad, "a panicking repeating callback keeps its interval")
	assert.Equal(t, 2, good)
	assert.Equal(t, 2, s.Len())
}

func TestSchedulerPanickingOnceIsSpent(t *testing.T) {
	s := NewScheduler(nil)
	n := 0
	s.Once(uuid.New(), 1, func(float64) {
		n++
		panic("boom")
	})

	require.NotPanics(t, func() { s.Advance(1) })
	s.Advance(1)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, s.Len())
}
