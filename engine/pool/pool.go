// package pool provides a generic free-list object pool for ephemeral
// per-frame allocations (scratch vectors, particle state, culling batches).
// Recycling instances keeps allocation churn out of the frame loop so the GC
// has less transient garbage to chase.
package pool

// Pool is a generic reusable-object pool. Acquire hands out a reset instance
// from the free list when one is available and constructs a new one otherwise.
// The pool does not track checked-out instances; returning an item exactly
// once is the caller's responsibility.
type Pool[T any] interface {
	// Acquire returns an instance ready for use. Instances recycled from the
	// free list have already been reset.
	//
	// Returns:
	//   - T: a fresh or recycled instance
	Acquire() T

	// Release resets an instance and returns it to the free list. If the
	// reset function panics the instance is discarded instead of re-entering
	// circulation.
	//
	// Parameters:
	//   - item: the instance to recycle
	Release(item T)

	// Clear drops all free-list entries. Checked-out instances are unaffected.
	Clear()

	// Len returns the number of instances currently on the free list.
	//
	// Returns:
	//   - int: free-list size
	Len() int
}

type poolImpl[T any] struct {
	available []T
	factory   func() T
	reset     func(T)
}

var _ Pool[int] = &poolImpl[int]{}

// NewPool creates a Pool with the given factory and reset functions.
// The reset function may be nil, in which case recycled instances are returned
// as released.
//
// Parameters:
//   - factory: constructs a new instance when the free list is empty
//   - reset: restores a used instance to a neutral state before reuse
//
// Returns:
//   - Pool[T]: the newly created pool
func NewPool[T any](factory func() T, reset func(T)) Pool[T] {
	return &poolImpl[T]{
		factory: factory,
		reset:   reset,
	}
}

func (p *poolImpl[T]) Acquire() T {
	if n := len(p.available); n > 0 {
		item := p.available[n-1]
		var zero T
		p.available[n-1] = zero // drop the free-list reference
		p.available = p.available[:n-1]
		return item
	}
	return p.factory()
}

func (p *poolImpl[T]) Release(item T) {
	if p.reset != nil {
		// A reset that panics marks the item as corrupt. Swallow the panic
		// and drop the item so it never re-enters circulation.
		ok := func() (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
				}
			}()
			p.reset(item)
			return true
		}()
		if !ok {
			return
		}
	}
	p.available = append(p.available, item)
}

func (p *poolImpl[T]) Clear() {
	p.available = nil
}

func (p *poolImpl[T]) Len() int {
	return len(p.available)
}
