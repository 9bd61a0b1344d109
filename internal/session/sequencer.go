package session

import "sync/atomic"

// Sequencer assigns strictly increasing sequence numbers to outbound
// messages. Numbers start at 1 and are never reused for the lifetime
// of the engine, so messages queued across a reconnect keep their
// ordering guarantee.
type Sequencer struct {
	counter atomic.Uint64
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.counter.Add(1)
}

// Current returns the most recently assigned number, 0 if none.
func (s *Sequencer) Current() uint64 {
	return s.counter.Load()
}
