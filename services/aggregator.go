package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scholar-pulse/models"
	"scholar-pulse/stores"
)

// Counts sind die Aggregat-Zähler über alle 15 Kategorien.
type Counts map[models.Category]int

// CounterProvider liefert pro Kategorie einen Store. Von *stores.ActivityStores
// erfüllt; Tests injizieren eigene Implementierungen.
type CounterProvider interface {
	Counter(cat models.Category) stores.ActivityCounter
}

// Aggregator zählt Aktivitäts-Records pro Kategorie und Periode. Alle 15
// Abfragen laufen parallel; schlägt eine einzige fehl, schlägt der gesamte
// Aufruf fehl — es gibt kein degradiertes Teilergebnis.
type Aggregator struct {
	Counters CounterProvider
	Logger   *zap.Logger
}

// NewAggregator erstellt einen Aggregator.
func NewAggregator(counters CounterProvider, logger *zap.Logger) *Aggregator {
	return &Aggregator{Counters: counters, Logger: logger}
}

// Aggregate liefert die Zähler aller Kategorien für (owner, period).
func (a *Aggregator) Aggregate(ctx context.Context, ownerID uint, p stores.Period) (Counts, error) {
	counts := make(Counts, len(models.AllCategories))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, cat := range models.AllCategories {
		cat := cat
		g.Go(func() error {
			n, err := a.Counters.Counter(cat).CountInRange(ctx, ownerID, p)
			if err != nil {
				return fmt.Errorf("count %s: %w", cat, err)
			}
			mu.Lock()
			counts[cat] = int(n)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.Logger.Error("Aggregation fehlgeschlagen",
			zap.Uint("owner_id", ownerID),
			zap.Int("year", p.Year),
			zap.Error(err))
		return nil, err
	}
	return counts, nil
}
