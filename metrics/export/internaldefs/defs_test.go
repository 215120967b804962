package internaldefs

import (
	"strings"
	"testing"

	goSecurity "github.com/MrEthical07/goSecurity"
)

func TestCounterDefsUniqueAndPrefixed(t *testing.T) {
	seenID := map[goSecurity.MetricID]bool{}
	seenName := map[string]bool{}
	for _, def := range CounterDefs {
		if seenID[def.ID] || seenName[def.Name] {
			t.Fatalf("duplicate counter def %+v", def)
		}
		seenID[def.ID] = true
		seenName[def.Name] = true
		if !strings.HasPrefix(def.Name, "gosecurity_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("counter %q must be gosecurity_*_total", def.Name)
		}
	}
	if seenID[goSecurity.MetricRemoteLoginLatency] {
		t.Fatal("latency histogram must not be exported as a counter")
	}
}

func TestBucketTablesAligned(t *testing.T) {
	if len(HistogramBounds)+1 != goSecurity.HistogramBucketCount {
		t.Fatalf("expected %d finite bounds, got %d", goSecurity.HistogramBucketCount-1, len(HistogramBounds))
	}
	labels := BucketLabels()
	if len(labels) != goSecurity.HistogramBucketCount {
		t.Fatalf("expected %d labels, got %d", goSecurity.HistogramBucketCount, len(labels))
	}
	if labels[0] != "0.01" || labels[len(labels)-1] != "+Inf" {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 0, 3}))
	want := [goSecurity.HistogramBucketCount]uint64{1, 3, 3, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
