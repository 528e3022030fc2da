package booking

import "time"

// ScratchState is the coordinator's mutable memory. It carries the lifetime
// booking counter, the last generated reference, the advisory processing
// flag, and a keyed store of intermediates written by nearly every step of
// an attempt and read back by later steps and later attempts.
//
// The keyed store is intentionally never cleared between attempts; that
// cross-call memory is part of the booking protocol, not leakage. Reset is
// provided for tests only.
type ScratchState struct {
	counter        int
	lastBookingRef string
	processing     bool
	values         map[string]any
}

// NewScratchState returns a fresh state. The counter starts at 1 and is
// incremented at the top of every attempt, so the first booking runs with
// a counter of 2.
func NewScratchState() *ScratchState {
	return &ScratchState{
		counter: 1,
		values:  make(map[string]any),
	}
}

// IncrementCounter bumps the lifetime booking counter and returns it.
func (s *ScratchState) IncrementCounter() int {
	s.counter++
	return s.counter
}

// Counter returns the lifetime booking counter.
func (s *ScratchState) Counter() int { return s.counter }

// SetProcessing toggles the advisory in-progress flag.
func (s *ScratchState) SetProcessing(v bool) { s.processing = v }

// Processing reports the advisory in-progress flag.
func (s *ScratchState) Processing() bool { return s.processing }

// SetLastBookingRef stores the last generated reference for debugging.
func (s *ScratchState) SetLastBookingRef(ref string) { s.lastBookingRef = ref }

// LastBookingRef returns the last generated reference.
func (s *ScratchState) LastBookingRef() string { return s.lastBookingRef }

// Set stores a scratch value under key.
func (s *ScratchState) Set(key string, value any) { s.values[key] = value }

// Get returns the scratch value for key, if present.
func (s *ScratchState) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has ever been written.
func (s *ScratchState) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// GetBool returns the value for key as a bool, or false.
func (s *ScratchState) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// GetInt returns the value for key as an int, or 0.
func (s *ScratchState) GetInt(key string) int {
	v, _ := s.values[key].(int)
	return v
}

// GetFloat64 returns the value for key as a float64, or 0.
func (s *ScratchState) GetFloat64(key string) float64 {
	v, _ := s.values[key].(float64)
	return v
}

// GetString returns the value for key as a string, or "".
func (s *ScratchState) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// GetTime returns the value for key as a time.Time, or the zero time.
func (s *ScratchState) GetTime(key string) time.Time {
	v, _ := s.values[key].(time.Time)
	return v
}

// Reset restores the state to its initial condition. Test helper; the
// production coordinator never resets its memory.
func (s *ScratchState) Reset() {
	s.counter = 1
	s.lastBookingRef = ""
	s.processing = false
	s.values = make(map[string]any)
}
