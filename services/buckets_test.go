package services

import (
	"testing"
	"time"
)

func TestBuildBucketsMonthly(t *testing.T) {
	// from/to liegen mitten in der Periode; die Buckets müssen trotzdem
	// kalender-ausgerichtet sein und das ganze Fenster abdecken.
	from := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	buckets := BuildBuckets(from, to, GranularityMonth)
	if len(buckets) != 3 {
		t.Fatalf("len(buckets) = %d, want 3", len(buckets))
	}
	if buckets[0].Key != "2025-01" || buckets[2].Key != "2025-03" {
		t.Fatalf("bucket keys = %s..%s, want 2025-01..2025-03", buckets[0].Key, buckets[2].Key)
	}
	// Lückenlos und nicht überlappend.
	for i := 1; i < len(buckets); i++ {
		if !buckets[i].Start.Equal(buckets[i-1].End) {
			t.Fatalf("Lücke zwischen Bucket %d und %d", i-1, i)
		}
	}
	if !buckets[0].Contains(from) || !buckets[2].Contains(to) {
		t.Fatalf("Fenstergrenzen nicht abgedeckt")
	}
}

func TestBuildBucketsYearly(t *testing.T) {
	from := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	buckets := BuildBuckets(from, to, GranularityYear)
	if len(buckets) != 3 {
		t.Fatalf("len(buckets) = %d, want 3", len(buckets))
	}
	if buckets[0].Key != "2023" || buckets[2].Key != "2025" {
		t.Fatalf("bucket keys = %s..%s, want 2023..2025", buckets[0].Key, buckets[2].Key)
	}
}

func TestBuildBucketsInvalidWindow(t *testing.T) {
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -2, 0)
	if got := BuildBuckets(from, to, GranularityMonth); got != nil {
		t.Fatalf("BuildBuckets mit to < from = %v, want nil", got)
	}
}

func TestSafePercentChange(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 5, 100},
		{5, 10, -50},
		{7, 7, 0},
	}
	for _, tc := range cases {
		if got := SafePercentChange(tc.current, tc.previous); got != tc.want {
			t.Fatalf("SafePercentChange(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}
