package session

import "time"

// Options defines the reliability behavior of one engine.
type Options struct {
	ConnectTimeout       time.Duration
	AckTimeout           time.Duration
	ReconnectInterval    time.Duration
	HeartbeatInterval    time.Duration
	LatencyCheckInterval time.Duration
	MaxRetryAttempts     int
	QueueCapacity        int
	QueueEvictBatch      int
	DedupCapacity        int
	DedupEvictBatch      int
	LatencyWindow        int
	LatencyEvictBatch    int
}

// DefaultOptions returns the contract defaults.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout:       15 * time.Second,
		AckTimeout:           5 * time.Second,
		ReconnectInterval:    2 * time.Second,
		HeartbeatInterval:    30 * time.Second,
		LatencyCheckInterval: 10 * time.Second,
		MaxRetryAttempts:     3,
		QueueCapacity:        50,
		QueueEvictBatch:      10,
		DedupCapacity:        100,
		DedupEvictBatch:      10,
		LatencyWindow:        20,
		LatencyEvictBatch:    5,
	}
}

// WithDefaults fills zero-valued fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = def.ConnectTimeout
	}
	if o.AckTimeout <= 0 {
		o.AckTimeout = def.AckTimeout
	}
	if o.ReconnectInterval <= 0 {
		o.ReconnectInterval = def.ReconnectInterval
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = def.HeartbeatInterval
	}
	if o.LatencyCheckInterval <= 0 {
		o.LatencyCheckInterval = def.LatencyCheckInterval
	}
	if o.MaxRetryAttempts <= 0 {
		o.MaxRetryAttempts = def.MaxRetryAttempts
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = def.QueueCapacity
	}
	if o.QueueEvictBatch <= 0 {
		o.QueueEvictBatch = def.QueueEvictBatch
	}
	if o.DedupCapacity <= 0 {
		o.DedupCapacity = def.DedupCapacity
	}
	if o.DedupEvictBatch <= 0 {
		o.DedupEvictBatch = def.DedupEvictBatch
	}
	if o.LatencyWindow <= 0 {
		o.LatencyWindow = def.LatencyWindow
	}
	if o.LatencyEvictBatch <= 0 {
		o.LatencyEvictBatch = def.LatencyEvictBatch
	}
	return o
}
