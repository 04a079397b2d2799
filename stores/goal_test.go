package stores

import (
	"context"
	"testing"

	"scholar-pulse/models"
	"scholar-pulse/testutil"
)

func TestGoalStoreGetDefaultsToZero(t *testing.T) {
	store := NewGoalStore(testutil.OpenTestDB(t))
	ctx := context.Background()

	goals, err := store.Get(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(goals) != len(models.AllCategories) {
		t.Fatalf("len(goals) = %d, want %d", len(goals), len(models.AllCategories))
	}
	for cat, target := range goals {
		if target != 0 {
			t.Fatalf("goals[%s] = %d, want 0", cat, target)
		}
	}

	hasGoals, err := store.HasGoals(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("HasGoals error: %v", err)
	}
	if hasGoals {
		t.Fatalf("HasGoals ohne gespeicherte Ziele = true")
	}
}

func TestGoalStoreReplace(t *testing.T) {
	store := NewGoalStore(testutil.OpenTestDB(t))
	ctx := context.Background()

	first := map[models.Category]int{
		models.CategoryResearch:   3,
		models.CategoryConference: 2,
	}
	if err := store.Replace(ctx, 1, 2025, first); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	goals, err := store.Get(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if goals[models.CategoryResearch] != 3 || goals[models.CategoryConference] != 2 {
		t.Fatalf("goals = %+v", goals)
	}

	// Replace ersetzt den kompletten Satz: alte Kategorien verschwinden.
	second := map[models.Category]int{models.CategoryResearch: 5}
	if err := store.Replace(ctx, 1, 2025, second); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	goals, err = store.Get(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if goals[models.CategoryResearch] != 5 {
		t.Fatalf("goals[research] = %d, want 5", goals[models.CategoryResearch])
	}
	if goals[models.CategoryConference] != 0 {
		t.Fatalf("goals[conference] = %d, want 0 nach Replace", goals[models.CategoryConference])
	}

	// Idempotent: identischer Aufruf ändert nichts.
	if err := store.Replace(ctx, 1, 2025, second); err != nil {
		t.Fatalf("Replace (wiederholt) error: %v", err)
	}
	again, err := store.Get(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if again[models.CategoryResearch] != 5 {
		t.Fatalf("goals nach idempotentem Replace = %+v", again)
	}

	// Nicht-positive Targets werden nicht gespeichert.
	if err := store.Replace(ctx, 1, 2025, map[models.Category]int{}); err != nil {
		t.Fatalf("Replace (leer) error: %v", err)
	}
	hasGoals, err := store.HasGoals(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("HasGoals error: %v", err)
	}
	if hasGoals {
		t.Fatalf("HasGoals nach leerem Replace = true")
	}
}
