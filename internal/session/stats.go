package session

import "time"

// Quality tier boundaries over the trailing average round-trip time.
const (
	excellentBelow = 50 * time.Millisecond
	goodBelow      = 150 * time.Millisecond
	fairBelow      = 300 * time.Millisecond
)

// latencyWindow is a bounded sliding window of round-trip samples.
// Not safe for concurrent use; the engine mutex guards it.
type latencyWindow struct {
	capacity   int
	evictBatch int
	samples    []time.Duration
}

func newLatencyWindow(capacity, evictBatch int) *latencyWindow {
	return &latencyWindow{capacity: capacity, evictBatch: evictBatch}
}

func (w *latencyWindow) add(d time.Duration) {
	w.samples = append(w.samples, d)
	if len(w.samples) > w.capacity {
		n := w.evictBatch
		if n > len(w.samples) {
			n = len(w.samples)
		}
		w.samples = append(w.samples[:0], w.samples[n:]...)
	}
}

func (w *latencyWindow) average() (time.Duration, bool) {
	if len(w.samples) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, s := range w.samples {
		total += s
	}
	return total / time.Duration(len(w.samples)), true
}

func (w *latencyWindow) len() int {
	return len(w.samples)
}

// qualityFor maps an average round-trip time onto a quality tier.
func qualityFor(avg time.Duration) Quality {
	switch {
	case avg < excellentBelow:
		return QualityExcellent
	case avg <= goodBelow:
		return QualityGood
	case avg <= fairBelow:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Statistics is a point-in-time snapshot of engine counters.
type Statistics struct {
	MessagesSent      uint64
	MessagesReceived  uint64
	DuplicatesDropped uint64
	DeliveryFailures  uint64
	ReconnectAttempts uint64
	QueuedMessages    int
	PendingAcks       int
	LatencySamples    int
	AverageLatency    time.Duration
	Quality           Quality
}
