package services

import (
	"testing"

	"scholar-pulse/models"
)

func TestAchievementPercent(t *testing.T) {
	if got := AchievementPercent(6, 10); got == nil || *got != 60 {
		t.Fatalf("AchievementPercent(6, 10) = %v, want 60", got)
	}
	if got := AchievementPercent(15, 10); got == nil || *got != 100 {
		t.Fatalf("AchievementPercent über Ziel = %v, want 100 (geklammert)", got)
	}
	if got := AchievementPercent(3, 0); got != nil {
		t.Fatalf("AchievementPercent ohne Ziel = %v, want nil", got)
	}
	if got := AchievementPercent(3, -1); got != nil {
		t.Fatalf("AchievementPercent bei negativem Ziel = %v, want nil", got)
	}
}

func TestAnnualProgress(t *testing.T) {
	counts := Counts{models.CategoryResearch: 6}
	goals := map[models.Category]int{models.CategoryResearch: 10}
	if got := AnnualProgress(counts, goals); got != 60 {
		t.Fatalf("AnnualProgress = %d, want 60", got)
	}

	// Übererfüllung zählt maximal 1.
	counts = Counts{
		models.CategoryResearch:   20,
		models.CategoryConference: 1,
	}
	goals = map[models.Category]int{
		models.CategoryResearch:   10,
		models.CategoryConference: 2,
	}
	if got := AnnualProgress(counts, goals); got != 75 {
		t.Fatalf("AnnualProgress mit Übererfüllung = %d, want 75", got)
	}

	if got := AnnualProgress(counts, nil); got != 0 {
		t.Fatalf("AnnualProgress ohne Ziele = %d, want 0", got)
	}
}

func TestTopTargetsOrderAndTruncation(t *testing.T) {
	counts := Counts{}
	goals := map[models.Category]int{
		models.CategoryResearch:    3,
		models.CategoryConference:  5,
		models.CategorySeminar:     5,
		models.CategoryWorkshop:    1,
		models.CategorySupervision: 2,
	}
	targets := TopTargets(counts, goals, 4)
	if len(targets) != 4 {
		t.Fatalf("len(targets) = %d, want 4", len(targets))
	}
	// Absteigend nach Zielhöhe, Gleichstand in kanonischer Ordnung:
	// conference vor seminar.
	want := []models.Category{
		models.CategoryConference,
		models.CategorySeminar,
		models.CategoryResearch,
		models.CategorySupervision,
	}
	for i, cat := range want {
		if targets[i].Category != cat {
			t.Fatalf("targets[%d] = %s, want %s", i, targets[i].Category, cat)
		}
	}
}
