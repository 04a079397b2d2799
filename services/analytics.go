package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// maxVenueBuckets begrenzt die Venue-Aufschlüsselung; der Rest landet in
// einem Sammel-Bucket.
const maxVenueBuckets = 8

// heatmapMonths ist das feste Trailing-Fenster der Heatmap.
const heatmapMonths = 24

// ReportOptions steuern den Analytics-Aufbau.
type ReportOptions struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
	Kind        string
	CompareFrom *time.Time
	CompareTo   *time.Time
}

// TimelinePoint ist ein Bucket der Zeitachse mit Zählern pro Event-Typ,
// Gesamtsumme und dem "Core Activities"-Subtotal (Research + Conference +
// Workshop, ohne Committee).
type TimelinePoint struct {
	Key    string            `json:"key"`
	Label  string            `json:"label"`
	Counts map[EventType]int `json:"counts"`
	Total  int               `json:"total"`
	Core   int               `json:"core"`
}

// KPIs sind die Kennzahlen über die gesamte Zeitachse.
type KPIs struct {
	Total         int               `json:"total"`
	PerType       map[EventType]int `json:"perType"`
	MonthlyRate   int               `json:"monthlyRate"`
	BestPeriod    string            `json:"bestPeriod"`
	GrowthPercent float64           `json:"growthPercent"`
}

// HeatmapCell ist ein Monat des festen 24-Monats-Fensters.
type HeatmapCell struct {
	Key   string `json:"key"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// VenueCount zählt Publikationen pro Venue.
type VenueCount struct {
	Venue string `json:"venue"`
	Count int    `json:"count"`
}

// PublicationsBreakdown fasst die Research-Events des Fensters zusammen.
type PublicationsBreakdown struct {
	Total          int            `json:"total"`
	Venues         []VenueCount   `json:"venues"`
	ScopeShares    map[string]int `json:"scopeShares"`
	PerYear        map[int]int    `json:"perYear"`
	AveragePerYear float64        `json:"averagePerYear"`
	PeakYears      []int          `json:"peakYears"`
}

// ConferencesBreakdown fasst die Konferenz-Events des Fensters zusammen.
// Komitee-Mitgliedschaft übersteuert die Sprecher/Teilnehmer-Rolle.
type ConferencesBreakdown struct {
	Total       int            `json:"total"`
	PerYear     map[int]int    `json:"perYear"`
	ScopeShares map[string]int `json:"scopeShares"`
	RoleShares  map[string]int `json:"roleShares"`
}

// PerformanceRow ist ein Kalenderjahr der Leistungsübersicht.
type PerformanceRow struct {
	Year    int               `json:"year"`
	Total   int               `json:"total"`
	PerType map[EventType]int `json:"perType"`
}

// Performance deckt jedes Jahr in [from.Year, to.Year] ab — Jahre ohne
// Aktivität erscheinen explizit mit 0.
type Performance struct {
	Rows           []PerformanceRow `json:"rows"`
	AveragePerYear float64          `json:"averagePerYear"`
	BestYear       int              `json:"bestYear"`
	WorstYear      int              `json:"worstYear"`
}

// Insight ist ein vorformulierter Analytics-Satz mit Rohdaten.
type Insight struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// ComparisonDelta ist die Veränderung eines Event-Typs zwischen zwei
// Fenstern.
type ComparisonDelta struct {
	Type          EventType `json:"type"`
	Current       int       `json:"current"`
	Previous      int       `json:"previous"`
	ChangePercent float64   `json:"changePercent"`
}

// Report ist das vollständige Analytics-Payload.
type Report struct {
	Timeline     []TimelinePoint       `json:"timeline"`
	KPIs         KPIs                  `json:"kpis"`
	Heatmap      []HeatmapCell         `json:"heatmap"`
	Publications PublicationsBreakdown `json:"publications"`
	Conferences  ConferencesBreakdown  `json:"conferences"`
	Performance  Performance           `json:"performance"`
	Insights     []Insight             `json:"insights"`
	Compare      []ComparisonDelta     `json:"compare,omitempty"`
}

// Analytics baut Zeitreihen-Auswertungen aus dem vereinheitlichten
// Event-Strom. Alles wird pro Request berechnet; nichts wird persistiert.
type Analytics struct {
	Events *EventSource
	Logger *zap.Logger
}

// NewAnalytics erstellt die Analytics-Engine.
func NewAnalytics(events *EventSource, logger *zap.Logger) *Analytics {
	return &Analytics{Events: events, Logger: logger}
}

// BuildReport erstellt das komplette Analytics-Payload für einen Owner.
func (a *Analytics) BuildReport(ctx context.Context, ownerID uint, opts ReportOptions) (*Report, error) {
	if opts.Kind == "" {
		opts.Kind = KindAll
	}
	if opts.Granularity == "" {
		opts.Granularity = GranularityMonth
	}

	buckets := BuildBuckets(opts.From, opts.To, opts.Granularity)
	if len(buckets) == 0 {
		return nil, fmt.Errorf("invalid window: %s after %s", opts.From.Format("2006-01-02"), opts.To.Format("2006-01-02"))
	}
	windowStart := buckets[0].Start
	windowEnd := buckets[len(buckets)-1].End

	events, err := a.Events.Fetch(ctx, ownerID, windowStart, windowEnd, opts.Kind)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Timeline:     buildTimeline(buckets, events),
		Publications: buildPublications(events, opts.From.Year(), opts.To.Year()),
		Conferences:  buildConferences(events),
		Performance:  buildPerformance(events, opts.From.Year(), opts.To.Year()),
	}
	report.KPIs = buildKPIs(report.Timeline)
	report.Insights = buildInsights(report.Performance, events, opts.To)

	heatmap, err := a.buildHeatmap(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	report.Heatmap = heatmap

	if opts.CompareFrom != nil && opts.CompareTo != nil {
		compare, err := a.buildComparison(ctx, ownerID, events, opts)
		if err != nil {
			return nil, err
		}
		report.Compare = compare
	}

	a.Logger.Debug("Analytics-Report erstellt",
		zap.Uint("owner_id", ownerID),
		zap.Int("events", len(events)),
		zap.Int("buckets", len(buckets)))
	return report, nil
}

func buildTimeline(buckets []Bucket, events []Event) []TimelinePoint {
	points := make([]TimelinePoint, len(buckets))
	for i, b := range buckets {
		points[i] = TimelinePoint{Key: b.Key, Label: b.Label, Counts: make(map[EventType]int)}
	}
	for _, ev := range events {
		for i, b := range buckets {
			if !b.Contains(ev.Date) {
				continue
			}
			points[i].Counts[ev.Type]++
			points[i].Total++
			if ev.Type != EventCommittee {
				points[i].Core++
			}
			break
		}
	}
	return points
}

func buildKPIs(timeline []TimelinePoint) KPIs {
	kpis := KPIs{PerType: make(map[EventType]int)}
	best := -1
	for _, p := range timeline {
		kpis.Total += p.Total
		for t, n := range p.Counts {
			kpis.PerType[t] += n
		}
		if p.Total > best {
			best = p.Total
			kpis.BestPeriod = p.Key
		}
	}
	if len(timeline) > 0 {
		kpis.MonthlyRate = int(math.Round(float64(kpis.Total) / float64(len(timeline))))
	}

	// Wachstum über die letzten beiden Buckets mit Aktivität.
	var active []int
	for _, p := range timeline {
		if p.Total > 0 {
			active = append(active, p.Total)
		}
	}
	switch len(active) {
	case 0:
		kpis.GrowthPercent = 0
	case 1:
		kpis.GrowthPercent = SafePercentChange(float64(active[0]), 0)
	default:
		kpis.GrowthPercent = SafePercentChange(
			float64(active[len(active)-1]), float64(active[len(active)-2]))
	}
	return kpis
}

// buildHeatmap zählt Events in einem festen 24-Monats-Fenster, das am Ende
// des angefragten Fensters endet — immer monatlich, unabhängig von der
// angefragten Granularität.
func (a *Analytics) buildHeatmap(ctx context.Context, ownerID uint, opts ReportOptions) ([]HeatmapCell, error) {
	endMonth := time.Date(opts.To.Year(), opts.To.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := endMonth.AddDate(0, -(heatmapMonths - 1), 0)
	end := endMonth.AddDate(0, 1, 0)

	events, err := a.Events.Fetch(ctx, ownerID, start, end, opts.Kind)
	if err != nil {
		return nil, err
	}
	buckets := BuildBuckets(start, endMonth, GranularityMonth)
	cells := make([]HeatmapCell, len(buckets))
	for i, b := range buckets {
		cells[i] = HeatmapCell{Key: b.Key, Year: b.Start.Year(), Month: int(b.Start.Month())}
	}
	for _, ev := range events {
		for i, b := range buckets {
			if b.Contains(ev.Date) {
				cells[i].Count++
				break
			}
		}
	}
	return cells, nil
}

func buildPublications(events []Event, fromYear, toYear int) PublicationsBreakdown {
	out := PublicationsBreakdown{
		ScopeShares: make(map[string]int),
		PerYear:     make(map[int]int),
	}
	venueCounts := make(map[string]int)
	var venueOrder []string
	for _, ev := range events {
		if ev.Type != EventResearch {
			continue
		}
		out.Total++
		out.ScopeShares[ev.Scope]++
		out.PerYear[ev.Date.Year()]++
		venue := ev.Venue
		if venue == "" {
			venue = "unknown"
		}
		if _, seen := venueCounts[venue]; !seen {
			venueOrder = append(venueOrder, venue)
		}
		venueCounts[venue]++
	}

	// Top-Venues absteigend, Gleichstand in Erst-Auftrittsreihenfolge.
	sort.SliceStable(venueOrder, func(i, j int) bool {
		return venueCounts[venueOrder[i]] > venueCounts[venueOrder[j]]
	})
	other := 0
	for i, venue := range venueOrder {
		if i < maxVenueBuckets {
			out.Venues = append(out.Venues, VenueCount{Venue: venue, Count: venueCounts[venue]})
			continue
		}
		other += venueCounts[venue]
	}
	if other > 0 {
		out.Venues = append(out.Venues, VenueCount{Venue: "other", Count: other})
	}

	years := toYear - fromYear + 1
	if years > 0 {
		out.AveragePerYear = math.Round(float64(out.Total)/float64(years)*10) / 10
	}

	// Peak-Jahre: alle Jahre mit Maximalwert.
	peak := 0
	for _, n := range out.PerYear {
		if n > peak {
			peak = n
		}
	}
	if peak > 0 {
		for year := fromYear; year <= toYear; year++ {
			if out.PerYear[year] == peak {
				out.PeakYears = append(out.PeakYears, year)
			}
		}
	}
	return out
}

func buildConferences(events []Event) ConferencesBreakdown {
	out := ConferencesBreakdown{
		PerYear:     make(map[int]int),
		ScopeShares: make(map[string]int),
		RoleShares:  make(map[string]int),
	}
	for _, ev := range events {
		if ev.Type != EventConference {
			continue
		}
		out.Total++
		out.PerYear[ev.Date.Year()]++
		out.ScopeShares[ev.Scope]++
		switch {
		case ev.CommitteeMember:
			out.RoleShares["committee"]++
		case ev.Role != "":
			out.RoleShares[ev.Role]++
		default:
			out.RoleShares["participant"]++
		}
	}
	return out
}

func buildPerformance(events []Event, fromYear, toYear int) Performance {
	perf := Performance{}
	if toYear >= fromYear {
		perf.Rows = make([]PerformanceRow, toYear-fromYear+1)
	}
	byYear := make(map[int]*PerformanceRow, len(perf.Rows))
	for i := range perf.Rows {
		perf.Rows[i] = PerformanceRow{Year: fromYear + i, PerType: make(map[EventType]int)}
		byYear[fromYear+i] = &perf.Rows[i]
	}
	total := 0
	for _, ev := range events {
		row, ok := byYear[ev.Date.Year()]
		if !ok {
			continue
		}
		row.Total++
		row.PerType[ev.Type]++
		total++
	}
	if len(perf.Rows) > 0 {
		perf.AveragePerYear = math.Round(float64(total)/float64(len(perf.Rows))*10) / 10
		best, worst := perf.Rows[0], perf.Rows[0]
		for _, row := range perf.Rows[1:] {
			if row.Total > best.Total {
				best = row
			}
			if row.Total < worst.Total {
				worst = row
			}
		}
		perf.BestYear = best.Year
		perf.WorstYear = worst.Year
	}
	return perf
}

func buildInsights(perf Performance, events []Event, to time.Time) []Insight {
	var out []Insight

	if len(perf.Rows) >= 2 {
		last := perf.Rows[len(perf.Rows)-1]
		prev := perf.Rows[len(perf.Rows)-2]
		change := SafePercentChange(float64(last.Total), float64(prev.Total))
		direction := "increased"
		if change < 0 {
			direction = "decreased"
		}
		out = append(out, Insight{
			Code: "year_over_year",
			Message: fmt.Sprintf("Your activity %s by %.0f%% in %d compared to %d.",
				direction, math.Abs(change), last.Year, prev.Year),
			Data: map[string]interface{}{
				"year": last.Year, "previous_year": prev.Year, "change_percent": change,
			},
		})
	}

	cutoff := to.AddDate(0, -6, 0)
	recentResearch := 0
	for _, ev := range events {
		if ev.Type == EventResearch && !ev.Date.Before(cutoff) {
			recentResearch++
		}
	}
	if recentResearch == 0 {
		out = append(out, Insight{
			Code:    "research_gap",
			Message: "No research output was recorded in the last six months.",
		})
	}

	if perf.BestYear > 0 {
		out = append(out, Insight{
			Code:    "best_year",
			Message: fmt.Sprintf("%d was your most productive year in this window.", perf.BestYear),
			Data:    map[string]interface{}{"year": perf.BestYear},
		})
	}

	out = append(out,
		Insight{
			Code:    "diversify",
			Message: "Spreading activities across more categories improves your overall evaluation.",
		},
		Insight{
			Code:    "plan_ahead",
			Message: "Setting annual goals per category makes progress easier to track.",
		},
	)
	return out
}

// buildComparison berechnet die Deltas pro Event-Typ zwischen dem
// Hauptfenster und einem zweiten Fenster.
func (a *Analytics) buildComparison(ctx context.Context, ownerID uint, current []Event, opts ReportOptions) ([]ComparisonDelta, error) {
	compareBuckets := BuildBuckets(*opts.CompareFrom, *opts.CompareTo, opts.Granularity)
	if len(compareBuckets) == 0 {
		return nil, fmt.Errorf("invalid comparison window")
	}
	previous, err := a.Events.Fetch(ctx, ownerID,
		compareBuckets[0].Start, compareBuckets[len(compareBuckets)-1].End, opts.Kind)
	if err != nil {
		return nil, err
	}

	sum := func(events []Event) map[EventType]int {
		totals := make(map[EventType]int)
		for _, ev := range events {
			totals[ev.Type]++
		}
		return totals
	}
	cur, prev := sum(current), sum(previous)

	deltas := make([]ComparisonDelta, 0, 4)
	for _, t := range []EventType{EventResearch, EventConference, EventWorkshop, EventCommittee} {
		deltas = append(deltas, ComparisonDelta{
			Type:          t,
			Current:       cur[t],
			Previous:      prev[t],
			ChangePercent: SafePercentChange(float64(cur[t]), float64(prev[t])),
		})
	}
	return deltas, nil
}
