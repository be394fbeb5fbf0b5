package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceRingKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewPriceRing(4)
	for _, p := range []int64{1, 2, 3} {
		r.Push(p)
	}
	assert.Equal(t, []int64{1, 2, 3}, r.Values())
	assert.Equal(t, 3, r.Len())
}

func TestPriceRingOverwritesOldest(t *testing.T) {
	t.Parallel()

	r := NewPriceRing(3)
	for p := int64(1); p <= 5; p++ {
		r.Push(p)
	}
	assert.Equal(t, []int64{3, 4, 5}, r.Values())
	assert.Equal(t, 3, r.Len())
}

func TestPriceRingZeroCapacity(t *testing.T) {
	t.Parallel()

	r := NewPriceRing(0)
	r.Push(42)
	assert.Equal(t, []int64{42}, r.Values())
}
