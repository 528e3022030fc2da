package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScratchStateCounter(t *testing.T) {
	s := NewScratchState()
	assert.Equal(t, 1, s.Counter())
	assert.Equal(t, 2, s.IncrementCounter())
	assert.Equal(t, 3, s.IncrementCounter())
	assert.Equal(t, 3, s.Counter())
}

func TestScratchStateTypedGetters(t *testing.T) {
	s := NewScratchState()
	now := time.Now()

	s.Set("flag", true)
	s.Set("count", 7)
	s.Set("price", 123.45)
	s.Set("name", "AA123")
	s.Set("when", now)

	assert.True(t, s.GetBool("flag"))
	assert.Equal(t, 7, s.GetInt("count"))
	assert.Equal(t, 123.45, s.GetFloat64("price"))
	assert.Equal(t, "AA123", s.GetString("name"))
	assert.Equal(t, now, s.GetTime("when"))

	// Missing or mistyped keys fall back to zero values.
	assert.False(t, s.GetBool("missing"))
	assert.Zero(t, s.GetInt("price"))
	assert.False(t, s.Has("missing"))
	assert.True(t, s.Has("flag"))
}

func TestScratchStateValuesSurviveAcrossReads(t *testing.T) {
	s := NewScratchState()
	s.Set("lastFailureReason", "Not enough seats")

	// Nothing clears entries implicitly; the memory is the contract.
	s.Set("other", 1)
	assert.True(t, s.Has("lastFailureReason"))
}

func TestScratchStateReset(t *testing.T) {
	s := NewScratchState()
	s.IncrementCounter()
	s.SetProcessing(true)
	s.SetLastBookingRef("AA1230002JOH")
	s.Set("lastBookingPrice", 999.0)

	s.Reset()

	assert.Equal(t, 1, s.Counter())
	assert.False(t, s.Processing())
	assert.Empty(t, s.LastBookingRef())
	assert.False(t, s.Has("lastBookingPrice"))
}
