package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scholar-pulse/models"
	"scholar-pulse/stores"
)

// EventType eines normalisierten Analytics-Events.
type EventType string

const (
	EventResearch   EventType = "research"
	EventConference EventType = "conference"
	EventWorkshop   EventType = "workshop"
	EventCommittee  EventType = "committee"
)

// Event kinds akzeptiert an der API-Grenze.
const (
	KindAll        = "all"
	KindResearch   = "research"
	KindActivities = "activities"
)

// Scope classifications für Publikationen.
const (
	PubScopeLocal         = "local"
	PubScopeRegional      = "regional"
	PubScopeInternational = "international"
)

// Event ist die vereinheitlichte Sicht auf einen Aktivitäts-Record für die
// Zeitreihen-Auswertung.
type Event struct {
	Date            time.Time `json:"date"`
	Type            EventType `json:"type"`
	Venue           string    `json:"venue,omitempty"`
	Scope           string    `json:"scope,omitempty"`
	Published       bool      `json:"published,omitempty"`
	Role            string    `json:"role,omitempty"`
	CommitteeMember bool      `json:"committee_member,omitempty"`
}

// EventSource vereinheitlicht Research-, Konferenz-, Workshop- und
// Komitee-Records zu einem Event-Strom. Die vier Reads laufen parallel und
// sind fail-fast: jede fehlgeschlagene Abfrage bricht den gesamten Fetch ab.
type EventSource struct {
	Activities *stores.ActivityStores
	Logger     *zap.Logger
}

// NewEventSource erstellt den Adapter.
func NewEventSource(activities *stores.ActivityStores, logger *zap.Logger) *EventSource {
	return &EventSource{Activities: activities, Logger: logger}
}

// Fetch lädt alle Events von owner im Fenster [from, to), gefiltert nach
// kind (all | research | activities).
func (s *EventSource) Fetch(ctx context.Context, ownerID uint, from, to time.Time, kind string) ([]Event, error) {
	var (
		mu     sync.Mutex
		events []Event
	)
	add := func(batch []Event) {
		mu.Lock()
		events = append(events, batch...)
		mu.Unlock()
	}

	wantResearch := kind == KindAll || kind == KindResearch
	wantActivities := kind == KindAll || kind == KindActivities

	g, ctx := errgroup.WithContext(ctx)
	if wantResearch {
		g.Go(func() error {
			rows, err := s.Activities.ResearchByOwner(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("fetch research: %w", err)
			}
			var batch []Event
			for _, row := range rows {
				date := ResolveResearchDate(row)
				if date.Before(from) || !date.Before(to) {
					continue
				}
				batch = append(batch, Event{
					Date:      date,
					Type:      EventResearch,
					Venue:     row.Venue,
					Scope:     ClassifyResearchScope(row),
					Published: row.Published,
				})
			}
			add(batch)
			return nil
		})
	}
	if wantActivities {
		g.Go(func() error {
			rows, err := s.Activities.ConferencesInRange(ctx, ownerID, from, to)
			if err != nil {
				return fmt.Errorf("fetch conferences: %w", err)
			}
			var batch []Event
			for _, row := range rows {
				batch = append(batch, Event{
					Date:            row.OccurredAt,
					Type:            EventConference,
					Venue:           row.Venue,
					Scope:           row.Scope,
					Role:            row.Role,
					CommitteeMember: row.CommitteeMember,
				})
			}
			add(batch)
			return nil
		})
		g.Go(func() error {
			rows, err := s.Activities.WorkshopsInRange(ctx, ownerID, from, to)
			if err != nil {
				return fmt.Errorf("fetch workshops: %w", err)
			}
			var batch []Event
			for _, row := range rows {
				batch = append(batch, Event{Date: row.OccurredAt, Type: EventWorkshop, Venue: row.Venue})
			}
			add(batch)
			return nil
		})
		g.Go(func() error {
			rows, err := s.Activities.CommitteesInRange(ctx, ownerID, from, to)
			if err != nil {
				return fmt.Errorf("fetch committees: %w", err)
			}
			var batch []Event
			for _, row := range rows {
				batch = append(batch, Event{Date: row.OccurredAt, Type: EventCommittee, Venue: row.Venue})
			}
			add(batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.Logger.Error("Event-Fetch fehlgeschlagen", zap.Uint("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// ResolveResearchDate löst das effektive Datum einer Publikation auf: bei
// veröffentlichten Records mit Jahr und Monat das komponierte Datum, sonst
// das Anlagedatum. The inconsistency is deliberate — unpublished records
// have no meaningful publication date.
func ResolveResearchDate(r models.Research) time.Time {
	if r.Published && r.PublishYear > 0 && r.PublishMonth >= 1 && r.PublishMonth <= 12 {
		return time.Date(r.PublishYear, time.Month(r.PublishMonth), 1, 0, 0, 0, 0, time.UTC)
	}
	return r.CreatedAt
}

// ClassifyResearchScope stuft eine Publikation ein: international bei
// Top-Tier-Indexierung, regional bei Konferenz-Publikation, sonst lokal.
func ClassifyResearchScope(r models.Research) string {
	if r.TopTier() {
		return PubScopeInternational
	}
	if r.PubKind == models.PubKindConference {
		return PubScopeRegional
	}
	return PubScopeLocal
}
