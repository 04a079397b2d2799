package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"scholar-pulse/models"
	"scholar-pulse/stores"
)

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) CountInRange(ctx context.Context, ownerID uint, p stores.Period) (int64, error) {
	return s.n, s.err
}

// stubCounters liefert für jede Kategorie denselben Zähler, mit optionaler
// Fehler-Kategorie.
type stubCounters struct {
	n       int64
	failCat models.Category
	failErr error
}

func (s stubCounters) Counter(cat models.Category) stores.ActivityCounter {
	if s.failErr != nil && cat == s.failCat {
		return stubCounter{err: s.failErr}
	}
	return stubCounter{n: s.n}
}

func TestAggregateCoversAllCategories(t *testing.T) {
	agg := NewAggregator(stubCounters{n: 2}, zap.NewNop())
	counts, err := agg.Aggregate(context.Background(), 1, stores.Period{Year: 2025})
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(counts) != len(models.AllCategories) {
		t.Fatalf("len(counts) = %d, want %d", len(counts), len(models.AllCategories))
	}
	for _, cat := range models.AllCategories {
		if counts[cat] != 2 {
			t.Fatalf("counts[%s] = %d, want 2", cat, counts[cat])
		}
	}
}

func TestAggregateFailsFast(t *testing.T) {
	wantErr := errors.New("connection reset")
	agg := NewAggregator(stubCounters{n: 2, failCat: models.CategorySeminar, failErr: wantErr}, zap.NewNop())

	counts, err := agg.Aggregate(context.Background(), 1, stores.Period{Year: 2025})
	if err == nil {
		t.Fatalf("Aggregate sollte fehlschlagen")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	if counts != nil {
		t.Fatalf("kein Teilergebnis erwartet, got %+v", counts)
	}
}
