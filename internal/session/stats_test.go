package session

import (
	"testing"
	"time"
)

func TestLatencyWindowAverage(t *testing.T) {
	w := newLatencyWindow(20, 5)
	for _, d := range []time.Duration{30 * time.Millisecond, 40 * time.Millisecond, 45 * time.Millisecond} {
		w.add(d)
	}
	avg, ok := w.average()
	if !ok {
		t.Fatalf("expected samples")
	}
	if avg < 38*time.Millisecond || avg > 39*time.Millisecond {
		t.Fatalf("avg = %v", avg)
	}
	if qualityFor(avg) != QualityExcellent {
		t.Fatalf("quality = %v, want Excellent", qualityFor(avg))
	}
}

func TestLatencyWindowEmpty(t *testing.T) {
	w := newLatencyWindow(20, 5)
	if _, ok := w.average(); ok {
		t.Fatalf("empty window reported an average")
	}
}

func TestLatencyWindowEvictsBatch(t *testing.T) {
	w := newLatencyWindow(20, 5)
	for i := 0; i < 21; i++ {
		w.add(time.Duration(i) * time.Millisecond)
	}
	if w.len() != 16 {
		t.Fatalf("window len = %d, want 16", w.len())
	}
	// Oldest five samples gone; average reflects samples 5..20.
	avg, _ := w.average()
	if avg != 12500*time.Microsecond {
		t.Fatalf("avg = %v", avg)
	}
}

func TestQualityTiers(t *testing.T) {
	cases := []struct {
		avg  time.Duration
		want Quality
	}{
		{10 * time.Millisecond, QualityExcellent},
		{49 * time.Millisecond, QualityExcellent},
		{50 * time.Millisecond, QualityGood},
		{150 * time.Millisecond, QualityGood},
		{200 * time.Millisecond, QualityFair},
		{300 * time.Millisecond, QualityFair},
		{301 * time.Millisecond, QualityPoor},
		{2 * time.Second, QualityPoor},
	}
	for _, tc := range cases {
		if got := qualityFor(tc.avg); got != tc.want {
			t.Fatalf("qualityFor(%v) = %v, want %v", tc.avg, got, tc.want)
		}
	}
}
