package services

import (
	"fmt"

	"scholar-pulse/models"
)

// Suggestion ist ein einzelner Ratschlag: ein maschinenlesbarer Code, ein
// vorformulierter Satz und die Rohdaten, aus denen die Präsentationsschicht
// lokalisierte Varianten bauen kann. Nie autoritativer Zustand — wird pro
// Request neu berechnet.
type Suggestion struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// SuggestionInput bündelt alles, was die Regelauswertung braucht.
type SuggestionInput struct {
	Score     int
	Counts    Counts
	Goals     map[models.Category]int
	HasGoals  bool
	Weights   WeightTable
	Standards StandardsTable
}

// BuildSuggestions wertet die Regeln in fester Reihenfolge aus. Feuert
// keine Regel, bleibt ein einzelner "Tempo halten"-Satz übrig.
func BuildSuggestions(in SuggestionInput) []Suggestion {
	var out []Suggestion

	// Regel 1: Score unter 70 und Research-Cap noch nicht erreicht.
	research := in.Weights[models.CategoryResearch]
	if in.Score < 70 && research.Cap > 0 && in.Counts[models.CategoryResearch] < research.Cap {
		gain := PointEstimate(research)
		out = append(out, Suggestion{
			Code: "publish_more",
			Message: fmt.Sprintf(
				"Publishing one more research item could raise your evaluation by about %d points.", gain),
			Data: map[string]interface{}{
				"category":       models.CategoryResearch,
				"estimated_gain": gain,
			},
		})
	}

	// Regel 2: internationale Minima pro Kategorie.
	for _, cat := range models.AllCategories {
		min, ok := in.Standards[cat]
		if !ok || min <= 0 {
			continue
		}
		if in.Counts[cat] >= min {
			continue
		}
		out = append(out, Suggestion{
			Code: "below_standard",
			Message: fmt.Sprintf(
				"International benchmarks expect at least %d %s activities per year; you currently have %d.",
				min, cat, in.Counts[cat]),
			Data: map[string]interface{}{
				"category": cat,
				"minimum":  min,
				"actual":   in.Counts[cat],
			},
		})
	}

	// Regel 3: durchschnittliche Zielerreichung unter 80 %.
	if in.HasGoals {
		avg := averageAchievement(in.Counts, in.Goals)
		if avg != nil && *avg < 80 {
			out = append(out, Suggestion{
				Code:    "goals_behind",
				Message: "You are behind on your planned goals for this year; try to complete them.",
				Data:    map[string]interface{}{"average_achievement": *avg},
			})
		}

		// Regel 4: einzelne Ziele unter 70 %.
		for _, cat := range models.AllCategories {
			goal := in.Goals[cat]
			pct := AchievementPercent(in.Counts[cat], goal)
			if pct == nil || *pct >= 70 {
				continue
			}
			gain := PointEstimate(in.Weights[cat])
			out = append(out, Suggestion{
				Code: "goal_category_behind",
				Message: fmt.Sprintf(
					"Your %s goal is at %d%% (%d of %d); each additional item is worth about %d points.",
					cat, *pct, in.Counts[cat], goal, gain),
				Data: map[string]interface{}{
					"category":       cat,
					"achievement":    *pct,
					"actual":         in.Counts[cat],
					"target":         goal,
					"estimated_gain": gain,
				},
			})
		}
	}

	// Regel 5: Fallback.
	if len(out) == 0 {
		out = append(out, Suggestion{
			Code:    "keep_pace",
			Message: "You are on track; maintain your current pace.",
		})
	}
	return out
}

// averageAchievement mittelt die Zielerreichung über alle Kategorien mit
// positivem Ziel. nil, wenn keine Kategorie ein positives Ziel hat.
func averageAchievement(counts Counts, goals map[models.Category]int) *int {
	sum, n := 0, 0
	for _, cat := range models.AllCategories {
		pct := AchievementPercent(counts[cat], goals[cat])
		if pct == nil {
			continue
		}
		sum += *pct
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / n
	return &avg
}
