package utils

import "sync"

// -----------------------------------------------------------------------------
// PriceRing is a fixed-capacity ring buffer of prices, oldest overwritten
// first. Used by the price engine to keep a bounded per-symbol history.
// -----------------------------------------------------------------------------

type PriceRing struct {
	mu    sync.RWMutex
	data  []int64
	head  int
	count int
}

// -----------------------------------------------------------------------------

func NewPriceRing(capacity int) *PriceRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &PriceRing{data: make([]int64, capacity)}
}

// -----------------------------------------------------------------------------

// Push appends a price, overwriting the oldest entry when full.
func (r *PriceRing) Push(price int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[r.head] = price
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// -----------------------------------------------------------------------------

// Values returns the buffered prices in insertion order, oldest first.
func (r *PriceRing) Values() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.data[(start+i)%len(r.data)])
	}
	return out
}

// -----------------------------------------------------------------------------

// Len returns the number of buffered prices.
func (r *PriceRing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
