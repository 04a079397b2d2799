package services

import (
	"fmt"
	"sort"

	"scholar-pulse/models"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
)

// maxWeeklyTasks begrenzt den Wochenplan.
const maxWeeklyTasks = 3

// Task ist ein Eintrag des Wochenplans.
type Task struct {
	Category  models.Category `json:"category"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Remaining int             `json:"remaining,omitempty"`
}

// PlanInput bündelt die Eingaben des Wochenplaners.
type PlanInput struct {
	Counts    Counts
	Goals     map[models.Category]int
	HasGoals  bool
	Weights   WeightTable
	Standards StandardsTable
}

// BuildWeeklyPlan erzeugt höchstens drei Aufgaben: erst Standard-Defizite,
// dann offene Ziele, de-dupliziert pro Kategorie (erster Treffer gewinnt).
// Bleiben Plätze frei, füllen die relativ schwächsten Kategorien
// (count/cap aufsteigend) mit generischen Aufgaben auf.
func BuildWeeklyPlan(in PlanInput) []Task {
	var tasks []Task

	// Pass 1: Kategorien unter dem internationalen Minimum.
	for _, cat := range models.AllCategories {
		min, ok := in.Standards[cat]
		if !ok || min <= 0 || in.Counts[cat] >= min {
			continue
		}
		tasks = append(tasks, Task{
			Category: cat,
			Status:   TaskPending,
			Message: fmt.Sprintf("Add %s activities to reach the international minimum of %d.",
				cat, min),
			Remaining: min - in.Counts[cat],
		})
	}

	// Pass 2: Ziele mit Erreichung unter 100 %.
	if in.HasGoals {
		for _, cat := range models.AllCategories {
			goal := in.Goals[cat]
			pct := AchievementPercent(in.Counts[cat], goal)
			if pct == nil || *pct >= 100 {
				continue
			}
			status := TaskPending
			if *pct >= 50 {
				status = TaskInProgress
			}
			remaining := goal - in.Counts[cat]
			if remaining < 0 {
				remaining = 0
			}
			tasks = append(tasks, Task{
				Category:  cat,
				Status:    status,
				Message:   fmt.Sprintf("Complete %d more %s items to reach your annual goal of %d.", remaining, cat, goal),
				Remaining: remaining,
			})
		}
	}

	tasks = dedupeByCategory(tasks)
	if len(tasks) > maxWeeklyTasks {
		return tasks[:maxWeeklyTasks]
	}

	// Auffüllen: schwächste Kategorien relativ zum Cap zuerst.
	if len(tasks) < maxWeeklyTasks {
		included := make(map[models.Category]bool, len(tasks))
		for _, t := range tasks {
			included[t.Category] = true
		}
		for _, cat := range weakestCategories(in.Counts, in.Weights) {
			if len(tasks) >= maxWeeklyTasks {
				break
			}
			if included[cat] {
				continue
			}
			tasks = append(tasks, Task{
				Category: cat,
				Status:   TaskPending,
				Message:  fmt.Sprintf("Raise your %s activity; it is your weakest area this period.", cat),
			})
			included[cat] = true
		}
	}
	return tasks
}

func dedupeByCategory(tasks []Task) []Task {
	seen := make(map[models.Category]bool, len(tasks))
	out := tasks[:0]
	for _, t := range tasks {
		if seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t)
	}
	return out
}

// weakestCategories ordnet alle Kategorien nach count/cap aufsteigend;
// Gleichstand nach kanonischer Ordnung.
func weakestCategories(counts Counts, weights WeightTable) []models.Category {
	type ranked struct {
		cat   models.Category
		ratio float64
	}
	var rows []ranked
	for _, cat := range models.AllCategories {
		wc := weights[cat]
		if wc.Cap <= 0 {
			continue
		}
		rows = append(rows, ranked{cat: cat, ratio: float64(counts[cat]) / float64(wc.Cap)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ratio < rows[j].ratio
	})
	out := make([]models.Category, len(rows))
	for i, r := range rows {
		out[i] = r.cat
	}
	return out
}
