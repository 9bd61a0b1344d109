package session

import (
	"time"

	"github.com/collabroom/roomsync/internal/wire"
)

// queuedMessage buffers one message while the connection is down.
type queuedMessage struct {
	msg         wire.Message
	attempts    int
	lastAttempt time.Time
}

// outboundQueue is a bounded FIFO of messages awaiting a connection.
// Not safe for concurrent use; the engine mutex guards it.
type outboundQueue struct {
	capacity   int
	evictBatch int
	entries    []queuedMessage
}

func newOutboundQueue(capacity, evictBatch int) *outboundQueue {
	return &outboundQueue{capacity: capacity, evictBatch: evictBatch}
}

// append adds qm, evicting the oldest batch first when at capacity.
// Batch eviction avoids thrashing when the queue sits full. The
// evicted entries are returned so the engine can report abandoned
// ack-required messages.
func (q *outboundQueue) append(qm queuedMessage) []queuedMessage {
	var evicted []queuedMessage
	if len(q.entries) >= q.capacity {
		n := q.evictBatch
		if n > len(q.entries) {
			n = len(q.entries)
		}
		evicted = make([]queuedMessage, n)
		copy(evicted, q.entries[:n])
		q.entries = append(q.entries[:0], q.entries[n:]...)
	}
	q.entries = append(q.entries, qm)
	return evicted
}

// takeAll removes and returns every entry in insertion order.
func (q *outboundQueue) takeAll() []queuedMessage {
	out := q.entries
	q.entries = nil
	return out
}

// prepend reinserts entries ahead of everything queued since takeAll,
// preserving their relative order.
func (q *outboundQueue) prepend(items []queuedMessage) {
	if len(items) == 0 {
		return
	}
	q.entries = append(items, q.entries...)
}

func (q *outboundQueue) len() int {
	return len(q.entries)
}
