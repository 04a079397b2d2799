package services

import (
	"fmt"
	"math"
	"time"
)

// Granularity einer Analytics-Zeitachse.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Bucket ist eine kalender-ausgerichtete Zeitscheibe [Start, End).
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Key   string    `json:"key"`
	Label string    `json:"label"`
}

// Contains meldet, ob t in den Bucket fällt.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// BuildBuckets erzeugt lückenlose, nicht überlappende Buckets, deren
// Vereinigung [startOfPeriod(from), endOfPeriod(to)] vollständig abdeckt —
// auch wenn from/to mitten in einer Periode liegen. Leeres Ergebnis, wenn
// to vor from liegt.
func BuildBuckets(from, to time.Time, g Granularity) []Bucket {
	if to.Before(from) {
		return nil
	}
	var buckets []Bucket
	switch g {
	case GranularityYear:
		start := time.Date(from.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		for !start.After(last) {
			end := start.AddDate(1, 0, 0)
			buckets = append(buckets, Bucket{
				Start: start,
				End:   end,
				Key:   fmt.Sprintf("%04d", start.Year()),
				Label: fmt.Sprintf("%04d", start.Year()),
			})
			start = end
		}
	default: // month
		start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !start.After(last) {
			end := start.AddDate(0, 1, 0)
			buckets = append(buckets, Bucket{
				Start: start,
				End:   end,
				Key:   start.Format("2006-01"),
				Label: start.Format("Jan 2006"),
			})
			start = end
		}
	}
	return buckets
}

// SafePercentChange berechnet die relative Veränderung in Prozent ohne
// Division durch null: 0, wenn beide Werte 0 sind; 100, wenn etwas aus dem
// Nichts entstand; sonst der gerundete Standard-Delta.
func SafePercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return math.Round((current - previous) / previous * 100)
}
