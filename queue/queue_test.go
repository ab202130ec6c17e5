package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopEmpty(t *testing.T) {
	q := New[string]()
	v, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.True(t, q.Empty())
}

func TestFIFO(t *testing.T) {
	q := New[string]()
	q.Push("fire")
	q.Push("turn_left", "centre")
	require.Equal(t, 3, q.Len())

	for _, want := range []string{"fire", "turn_left", "centre"} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, q.Empty())
}

func TestDrain(t *testing.T) {
	q := New[int]()
	assert.Nil(t, q.Drain())

	q.Push(1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, q.Drain())
	assert.True(t, q.Empty())

	q.Push(4)
	assert.Equal(t, []int{4}, q.Drain())
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const n = 10000
	q := New[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()

	got := make([]int, 0, n)
	for len(got) < n {
		if v, ok := q.Pop(); ok {
			got = append(got, v)
		}
	}
	wg.Wait()

	for i, v := range got {
		require.Equal(t, i, v, "out of order at %d", i)
	}
}
