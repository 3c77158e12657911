package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scratch struct {
	values []float32
	id     int
}

func newScratchPool() Pool[*scratch] {
	next := 0
	return NewPool(
		func() *scratch {
			next++
			return &scratch{id: next}
		},
		func(s *scratch) {
			s.values = s.values[:0]
		},
	)
}

func TestAcquireConstructsWhenEmpty(t *testing.T) {
	p := newScratchPool()

	a := p.Acquire()
	b := p.Acquire()

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEqual(t, a.id, b.id, "empty pool must construct distinct instances")
	assert.Equal(t, 0, p.Len())
}

func TestReleaseResetsAndRecycles(t *testing.T) {
	p := newScratchPool()

	a := p.Acquire()
	a.values = append(a.values, 1, 2, 3)
	p.Release(a)

	require.Equal(t, 1, p.Len())

	b := p.Acquire()
	assert.Same(t, a, b, "recycled instance should come from the free list")
	assert.Empty(t, b.values, "recycled instance must be reset")
}

func TestRoundTripDoesNotGrowFreeList(t *testing.T) {
	p := newScratchPool()

	// Prime the free list with a known size.
	seed := p.Acquire()
	p.Release(seed)
	before := p.Len()

	for i := 0; i < 100; i++ {
		p.Release(p.Acquire())
	}

	assert.Equal(t, before, p.Len(), "acquire/release round trips must not grow the free list")
}

func TestNoInstanceAvailableTwice(t *testing.T) {
	p := newScratchPool()

	a := p.Acquire()
	p.Release(a)

	first := p.Acquire()
	second := p.Acquire()

	assert.Same(t, a, first)
	assert.NotSame(t, first, second, "an instance must never be handed out twice simultaneously")
}

func TestResetPanicDiscardsItem(t *testing.T) {
	calls := 0
	p := NewPool(
		func() *scratch { return &scratch{} },
		func(s *scratch) {
			calls++
			panic("corrupt item")
		},
	)

	item := p.Acquire()
	require.NotPanics(t, func() { p.Release(item) })

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, p.Len(), "an item whose reset fails must not re-enter circulation")
}

func TestClearDropsFreeList(t *testing.T) {
	p := newScratchPool()

	checkedOut := p.Acquire()
	p.Release(p.Acquire())
	p.Release(p.Acquire())
	require.Equal(t, 2, p.Len())

	p.Clear()
	assert.Equal(t, 0, p.Len())

	// Checked-out items are unaffected by Clear and can still be released.
	p.Release(checkedOut)
	assert.Equal(t, 1, p.Len())
}

func TestNilReset(t *testing.T) {
	p := NewPool(func() int { return 7 }, nil)

	v := p.Acquire()
	p.Release(v)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 7, p.Acquire())
}
