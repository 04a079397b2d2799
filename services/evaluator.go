package services

import (
	"context"

	"go.uber.org/zap"

	"scholar-pulse/models"
	"scholar-pulse/stores"
)

// Evaluation ist das Score-Payload der API.
type Evaluation struct {
	Score       int          `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
}

// GoalProgress ist das Jahresfortschritt-Payload der API.
type GoalProgress struct {
	Year     int          `json:"year"`
	Progress int          `json:"progress"`
	Targets  []GoalTarget `json:"targets"`
}

// Evaluator verbindet Aggregator, Scoring, Goal-Tracker, Suggestions und
// Wochenplaner zu den Request-Operationen der Evaluations-API.
type Evaluator struct {
	Aggregator *Aggregator
	Goals      *stores.GoalStore
	Weights    WeightTable
	Standards  StandardsTable
	Logger     *zap.Logger
}

// NewEvaluator erstellt den Evaluator.
func NewEvaluator(agg *Aggregator, goals *stores.GoalStore, weights WeightTable, standards StandardsTable, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		Aggregator: agg,
		Goals:      goals,
		Weights:    weights,
		Standards:  standards,
		Logger:     logger,
	}
}

// Counts liefert die rohen Aggregat-Zähler.
func (e *Evaluator) Counts(ctx context.Context, ownerID uint, p stores.Period) (Counts, error) {
	return e.Aggregator.Aggregate(ctx, ownerID, p)
}

// Evaluate berechnet Score und Vorschläge für (owner, period). Goals
// beziehen sich immer auf das Jahr der Periode.
func (e *Evaluator) Evaluate(ctx context.Context, ownerID uint, p stores.Period) (*Evaluation, error) {
	counts, err := e.Aggregator.Aggregate(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}
	goals, hasGoals, err := e.goalsForYear(ctx, ownerID, p.Year)
	if err != nil {
		return nil, err
	}
	score := Score(counts, e.Weights)
	suggestions := BuildSuggestions(SuggestionInput{
		Score:     score,
		Counts:    counts,
		Goals:     goals,
		HasGoals:  hasGoals,
		Weights:   e.Weights,
		Standards: e.Standards,
	})
	return &Evaluation{Score: score, Suggestions: suggestions}, nil
}

// Progress berechnet den Jahresfortschritt samt der kompakten
// Top-4-Zielansicht.
func (e *Evaluator) Progress(ctx context.Context, ownerID uint, year int) (*GoalProgress, error) {
	counts, err := e.Aggregator.Aggregate(ctx, ownerID, stores.Period{Year: year})
	if err != nil {
		return nil, err
	}
	goals, err := e.Goals.Get(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}
	targets := TopTargets(counts, goals, 4)
	if targets == nil {
		targets = []GoalTarget{}
	}
	return &GoalProgress{
		Year:     year,
		Progress: AnnualProgress(counts, goals),
		Targets:  targets,
	}, nil
}

// WeeklyPlan erzeugt den Wochenplan für (owner, year).
func (e *Evaluator) WeeklyPlan(ctx context.Context, ownerID uint, year int) ([]Task, error) {
	counts, err := e.Aggregator.Aggregate(ctx, ownerID, stores.Period{Year: year})
	if err != nil {
		return nil, err
	}
	goals, hasGoals, err := e.goalsForYear(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}
	tasks := BuildWeeklyPlan(PlanInput{
		Counts:    counts,
		Goals:     goals,
		HasGoals:  hasGoals,
		Weights:   e.Weights,
		Standards: e.Standards,
	})
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func (e *Evaluator) goalsForYear(ctx context.Context, ownerID uint, year int) (map[models.Category]int, bool, error) {
	if year == 0 {
		return nil, false, nil
	}
	hasGoals, err := e.Goals.HasGoals(ctx, ownerID, year)
	if err != nil {
		return nil, false, err
	}
	if !hasGoals {
		return nil, false, nil
	}
	goals, err := e.Goals.Get(ctx, ownerID, year)
	if err != nil {
		return nil, false, err
	}
	return goals, true, nil
}
