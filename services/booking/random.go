package booking

import (
	"math/rand"
	"time"
)

// DiscountSource yields the integer draws behind promotional discounts.
// It is the only nondeterministic step in the booking flow, kept behind an
// interface so tests can force each branch.
type DiscountSource interface {
	// Intn returns a uniformly distributed integer in [0, n).
	Intn(n int) int
}

// NewSystemDiscountSource returns a time-seeded source.
func NewSystemDiscountSource() DiscountSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
