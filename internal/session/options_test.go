package session

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ConnectTimeout != 15*time.Second {
		t.Fatalf("ConnectTimeout = %v", opts.ConnectTimeout)
	}
	if opts.AckTimeout != 5*time.Second {
		t.Fatalf("AckTimeout = %v", opts.AckTimeout)
	}
	if opts.ReconnectInterval != 2*time.Second {
		t.Fatalf("ReconnectInterval = %v", opts.ReconnectInterval)
	}
	if opts.MaxRetryAttempts != 3 {
		t.Fatalf("MaxRetryAttempts = %d", opts.MaxRetryAttempts)
	}
	if opts.QueueCapacity != 50 || opts.QueueEvictBatch != 10 {
		t.Fatalf("queue bounds = %d/%d", opts.QueueCapacity, opts.QueueEvictBatch)
	}
	if opts.DedupCapacity != 100 || opts.DedupEvictBatch != 10 {
		t.Fatalf("dedup bounds = %d/%d", opts.DedupCapacity, opts.DedupEvictBatch)
	}
	if opts.LatencyWindow != 20 || opts.LatencyEvictBatch != 5 {
		t.Fatalf("latency bounds = %d/%d", opts.LatencyWindow, opts.LatencyEvictBatch)
	}
}

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	opts := Options{AckTimeout: 100 * time.Millisecond, MaxRetryAttempts: 1}.WithDefaults()
	if opts.AckTimeout != 100*time.Millisecond {
		t.Fatalf("explicit AckTimeout overwritten: %v", opts.AckTimeout)
	}
	if opts.MaxRetryAttempts != 1 {
		t.Fatalf("explicit MaxRetryAttempts overwritten: %d", opts.MaxRetryAttempts)
	}
	if opts.ConnectTimeout != 15*time.Second {
		t.Fatalf("zero ConnectTimeout not defaulted: %v", opts.ConnectTimeout)
	}
	if opts.QueueCapacity != 50 {
		t.Fatalf("zero QueueCapacity not defaulted: %d", opts.QueueCapacity)
	}
}
