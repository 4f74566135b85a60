package projector

// Pool is a grow-only arena of T. Reset makes every slot reusable without
// releasing memory; Next hands out the next slot, growing on demand.
//
// Entries are addressed by index. A pointer from At is only valid until the
// next call to Next, which may reallocate.
type Pool[T any] struct {
	items []T
	n     int
}

// Reset marks all entries as free.
func (p *Pool[T]) Reset() { p.n = 0 }

// Next claims a zeroed entry and returns its index.
func (p *Pool[T]) Next() int {
	var zero T
	if p.n == len(p.items) {
		p.items = append(p.items, zero)
	} else {
		p.items[p.n] = zero
	}
	p.n++
	return p.n - 1
}

// At returns the entry at index i. It panics if i was not handed out since
// the last Reset.
func (p *Pool[T]) At(i int) *T {
	if i < 0 || i >= p.n {
		panic("projector: pool index out of range")
	}
	return &p.items[i]
}

// Len is the number of entries in use.
func (p *Pool[T]) Len() int { return p.n }

// Cap is the number of entries allocated so far.
func (p *Pool[T]) Cap() int { return len(p.items) }

// Slice returns the entries in use. It aliases the pool.
func (p *Pool[T]) Slice() []T { return p.items[:p.n] }
