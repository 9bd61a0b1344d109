package session

import (
	"fmt"
	"testing"
)

func TestDedupSeenAfterObserve(t *testing.T) {
	d := newDedupWindow(100, 10)
	if d.seen("a") {
		t.Fatalf("fresh id reported seen")
	}
	d.observe("a")
	if !d.seen("a") {
		t.Fatalf("observed id not reported seen")
	}
	d.observe("a") // repeat must not grow the window
	if d.len() != 1 {
		t.Fatalf("window len = %d after duplicate observe", d.len())
	}
}

func TestDedupEvictsOldestBatch(t *testing.T) {
	d := newDedupWindow(100, 10)
	for i := 0; i < 101; i++ {
		d.observe(fmt.Sprintf("id.%d", i))
	}
	if d.len() != 91 {
		t.Fatalf("window len = %d, want 91", d.len())
	}
	for i := 0; i < 10; i++ {
		if d.seen(fmt.Sprintf("id.%d", i)) {
			t.Fatalf("id.%d should have been evicted", i)
		}
	}
	if !d.seen("id.10") || !d.seen("id.100") {
		t.Fatalf("survivors missing from window")
	}
}
