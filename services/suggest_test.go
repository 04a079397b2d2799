package services

import (
	"testing"

	"scholar-pulse/models"
)

func hasCode(suggestions []Suggestion, code string) bool {
	for _, s := range suggestions {
		if s.Code == code {
			return true
		}
	}
	return false
}

func TestBuildSuggestionsPublishMore(t *testing.T) {
	out := BuildSuggestions(SuggestionInput{
		Score:     40,
		Counts:    Counts{models.CategoryResearch: 1},
		Weights:   DefaultWeightTable(),
		Standards: StandardsTable{},
	})
	if !hasCode(out, "publish_more") {
		t.Fatalf("publish_more fehlt: %+v", out)
	}
}

func TestBuildSuggestionsNoPublishMoreAtCap(t *testing.T) {
	table := DefaultWeightTable()
	out := BuildSuggestions(SuggestionInput{
		Score:     40,
		Counts:    Counts{models.CategoryResearch: table[models.CategoryResearch].Cap},
		Weights:   table,
		Standards: StandardsTable{},
	})
	if hasCode(out, "publish_more") {
		t.Fatalf("publish_more trotz erreichtem Cap: %+v", out)
	}
}

func TestBuildSuggestionsBelowStandard(t *testing.T) {
	out := BuildSuggestions(SuggestionInput{
		Score:     90,
		Counts:    Counts{models.CategoryConference: 0},
		Weights:   DefaultWeightTable(),
		Standards: StandardsTable{models.CategoryConference: 2},
	})
	if !hasCode(out, "below_standard") {
		t.Fatalf("below_standard fehlt: %+v", out)
	}
}

func TestBuildSuggestionsGoalsBehind(t *testing.T) {
	out := BuildSuggestions(SuggestionInput{
		Score:     90,
		Counts:    Counts{models.CategoryResearch: 1},
		Goals:     map[models.Category]int{models.CategoryResearch: 10},
		HasGoals:  true,
		Weights:   DefaultWeightTable(),
		Standards: StandardsTable{},
	})
	if !hasCode(out, "goals_behind") {
		t.Fatalf("goals_behind fehlt: %+v", out)
	}
	if !hasCode(out, "goal_category_behind") {
		t.Fatalf("goal_category_behind fehlt: %+v", out)
	}
}

func TestBuildSuggestionsKeepPaceFallback(t *testing.T) {
	table := DefaultWeightTable()
	counts := make(Counts)
	for cat, wc := range table {
		counts[cat] = wc.Cap
	}
	out := BuildSuggestions(SuggestionInput{
		Score:     100,
		Counts:    counts,
		Weights:   table,
		Standards: StandardsTable{},
	})
	if len(out) != 1 || out[0].Code != "keep_pace" {
		t.Fatalf("Fallback erwartet, got %+v", out)
	}
}
