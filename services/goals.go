package services

import (
	"math"
	"sort"

	"scholar-pulse/models"
)

// GoalTarget ist die Dashboard-Sicht auf ein einzelnes Jahresziel.
type GoalTarget struct {
	Category    models.Category `json:"category"`
	Target      int             `json:"target"`
	Actual      int             `json:"actual"`
	Achievement *int            `json:"achievement"`
}

// AchievementPercent liefert den Zielerreichungsgrad in Prozent, geklammert
// auf [0, 100]. nil, wenn kein positives Ziel gesetzt ist — die Kategorie
// fällt dann aus der Fortschritts-Mittelung heraus.
func AchievementPercent(actual, planned int) *int {
	if planned <= 0 {
		return nil
	}
	ratio := float64(actual) / float64(planned) * 100
	if ratio > 100 {
		ratio = 100
	}
	if ratio < 0 {
		ratio = 0
	}
	pct := int(math.Round(ratio))
	return &pct
}

// AnnualProgress mittelt min(1, actual/goal) über alle Kategorien mit
// positivem Ziel und liefert das Ergebnis als Prozentwert. Ohne positive
// Ziele ist der Fortschritt 0.
func AnnualProgress(counts Counts, goals map[models.Category]int) int {
	sum := 0.0
	n := 0
	for _, cat := range models.AllCategories {
		goal := goals[cat]
		if goal <= 0 {
			continue
		}
		ratio := float64(counts[cat]) / float64(goal)
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		sum += ratio
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n) * 100))
}

// TopTargets wählt die n größten Ziele für die kompakte Dashboard-Ansicht:
// absteigend nach Zielhöhe, Gleichstand nach kanonischer Kategorie-Ordnung.
func TopTargets(counts Counts, goals map[models.Category]int, n int) []GoalTarget {
	var targets []GoalTarget
	for _, cat := range models.AllCategories {
		goal := goals[cat]
		if goal <= 0 {
			continue
		}
		targets = append(targets, GoalTarget{
			Category:    cat,
			Target:      goal,
			Actual:      counts[cat],
			Achievement: AchievementPercent(counts[cat], goal),
		})
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Target > targets[j].Target
	})
	if len(targets) > n {
		targets = targets[:n]
	}
	return targets
}
