package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"scholar-pulse/models"
	"scholar-pulse/stores"
)

// Score-Bausteine des Heuristik-Matchers.
const (
	scoreTagMatch        = 3
	scoreSameDeptForward = 2 // Projekt wird einem Forscher empfohlen
	scoreSameDeptReverse = 1 // Forscher wird einem Projekt empfohlen
	scoreActiveProject   = 2
	scoreRoleExact       = 3
	scoreRoleFuzzy       = 1
	scoreAvailable       = 2
	scoreBusy            = -5
)

// Auswahlgrenzen der Projekt-Empfehlung.
const (
	highPriorityThreshold = 5
	maxHighPriority       = 2
	maxRecommended        = 4
	maxResearcherResults  = 8
)

// ScoredProject ist ein Projekt-Kandidat mit Affinitäts-Score.
type ScoredProject struct {
	Project models.Project `json:"project"`
	Score   int            `json:"score"`
}

// ScoredResearcher ist ein Forscher-Kandidat mit Affinitäts-Score.
type ScoredResearcher struct {
	Researcher models.ResearcherProfile `json:"researcher"`
	Score      int                      `json:"score"`
}

// ProjectRecommendations ist das Payload der Richtung Projekt-für-Forscher.
type ProjectRecommendations struct {
	HighPriority []ScoredProject `json:"highPriority"`
	Recommended  []ScoredProject `json:"recommended"`
}

// Recommender berechnet bidirektionale Forscher↔Projekt-Empfehlungen:
// eine zustandslose Einzelpass-Heuristik über begrenzte Kandidatenmengen.
// Kein Lernen, keine Persistenz außer dem Best-Effort-Snapshot.
type Recommender struct {
	Collab    *stores.CollabStore
	Profiles  *stores.ProfileStore
	Snapshots *stores.SnapshotStore
	Logger    *zap.Logger
}

// NewRecommender erstellt den Recommender.
func NewRecommender(collab *stores.CollabStore, profiles *stores.ProfileStore, snapshots *stores.SnapshotStore, logger *zap.Logger) *Recommender {
	return &Recommender{Collab: collab, Profiles: profiles, Snapshots: snapshots, Logger: logger}
}

// ProjectsForResearcher empfiehlt einem Forscher Projekte: top-2 mit Score
// ≥5 als "high priority", bis zu 4 weitere mit 0<Score<5 als "recommended",
// insgesamt höchstens 6. Kandidaten mit Score ≤0 fallen weg.
func (r *Recommender) ProjectsForResearcher(ctx context.Context, userID uint) (*ProjectRecommendations, error) {
	result := &ProjectRecommendations{
		HighPriority: []ScoredProject{},
		Recommended:  []ScoredProject{},
	}
	if !r.Collab.Enabled() {
		return result, nil
	}
	profile, err := r.Profiles.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return result, nil
	}

	candidates, err := r.Collab.VisibleProjects(ctx, userID, profile.College)
	if err != nil {
		return nil, err
	}
	memberOf, err := r.Collab.MemberProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := r.Collab.RequestProjectIDs(ctx, userID, models.RequestPending)
	if err != nil {
		return nil, err
	}

	labels := append(splitLabels(profile.Skills), splitLabels(profile.Interests)...)
	var scored []ScoredProject
	for _, project := range candidates {
		// Harte Ausschlüsse vor dem Scoring.
		if memberOf[project.ID] || pending[project.ID] {
			continue
		}
		score := r.scoreProject(ctx, project, profile, labels, scoreSameDeptForward)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredProject{Project: project, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	for _, sp := range scored {
		switch {
		case len(result.HighPriority) < maxHighPriority && sp.Score >= highPriorityThreshold:
			result.HighPriority = append(result.HighPriority, sp)
		case len(result.Recommended) < maxRecommended && sp.Score < highPriorityThreshold:
			result.Recommended = append(result.Recommended, sp)
		}
	}

	r.saveSnapshot(ctx, userID, models.SnapshotProjectsForResearcher, result)
	return result, nil
}

// ResearchersForProject empfiehlt einem Projekt bis zu 8 Forscher. Aktive
// Mitglieder sowie Requester mit offener oder abgelehnter Anfrage sind vor
// dem Scoring ausgeschlossen.
func (r *Recommender) ResearchersForProject(ctx context.Context, projectID uint) ([]ScoredResearcher, error) {
	if !r.Collab.Enabled() {
		return []ScoredResearcher{}, nil
	}
	project, err := r.Collab.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	excluded, err := r.Collab.ExcludedUserIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	candidates, err := r.Profiles.ActiveProfiles(ctx, excluded)
	if err != nil {
		return nil, err
	}
	ownerProfile, err := r.Profiles.ByUserID(ctx, project.OwnerID)
	if err != nil {
		return nil, err
	}

	var scored []ScoredResearcher
	for _, candidate := range candidates {
		candidate := candidate
		score := 0
		labels := append(splitLabels(candidate.Skills), splitLabels(candidate.Interests)...)
		for _, tag := range project.Tags {
			if anyFuzzyMatch(tag.Name, labels) {
				score += scoreTagMatch
			}
		}
		if ownerProfile != nil && sameLabel(candidate.Department, ownerProfile.Department) {
			score += scoreSameDeptReverse
		}
		if project.Status == models.ProjectOpen || project.Status == models.ProjectInProgress {
			score += scoreActiveProject
		}
		score += bestRoleMatch(project.RequiredRoles, splitLabels(candidate.Skills))
		switch candidate.Availability {
		case models.AvailabilityAvailable:
			score += scoreAvailable
		case models.AvailabilityBusy:
			score += scoreBusy
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredResearcher{Researcher: candidate, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > maxResearcherResults {
		scored = scored[:maxResearcherResults]
	}
	if scored == nil {
		scored = []ScoredResearcher{}
	}

	r.saveSnapshot(ctx, project.OwnerID, models.SnapshotResearchersForProject, scored)
	return scored, nil
}

// scoreProject bewertet ein Projekt für einen Forscher.
func (r *Recommender) scoreProject(ctx context.Context, project models.Project, profile *models.ResearcherProfile, labels []string, deptBonus int) int {
	score := 0
	for _, tag := range project.Tags {
		if anyFuzzyMatch(tag.Name, labels) {
			score += scoreTagMatch
		}
	}
	ownerProfile, err := r.Profiles.ByUserID(ctx, project.OwnerID)
	if err == nil && ownerProfile != nil && sameLabel(profile.Department, ownerProfile.Department) {
		score += deptBonus
	}
	if project.Status == models.ProjectOpen || project.Status == models.ProjectInProgress {
		score += scoreActiveProject
	}
	score += bestRoleMatch(project.RequiredRoles, splitLabels(profile.Skills))
	return score
}

// saveSnapshot schreibt den Best-Effort-Cache; Fehler werden geloggt und
// verschluckt.
func (r *Recommender) saveSnapshot(ctx context.Context, ownerID uint, direction string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.Logger.Warn("Snapshot-Marshalling fehlgeschlagen", zap.Error(err))
		return
	}
	if err := r.Snapshots.Save(ctx, ownerID, direction, data); err != nil {
		r.Logger.Warn("Snapshot-Schreiben fehlgeschlagen",
			zap.Uint("owner_id", ownerID),
			zap.String("direction", direction),
			zap.Error(err))
	}
}

// splitLabels zerlegt eine kommaseparierte Label-Liste.
func splitLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// fuzzyMatch ist der Containment-Match: case-insensitive Substring in
// beliebiger Richtung. Leere Labels matchen nie.
func fuzzyMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func anyFuzzyMatch(label string, candidates []string) bool {
	for _, c := range candidates {
		if fuzzyMatch(label, c) {
			return true
		}
	}
	return false
}

func sameLabel(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}

// bestRoleMatch liefert den besten Rollen-Treffer: exakte Übereinstimmung
// zählt mehr als Containment.
func bestRoleMatch(roles []models.ProjectRole, skills []string) int {
	best := 0
	for _, role := range roles {
		for _, skill := range skills {
			switch {
			case sameLabel(role.Name, skill):
				return scoreRoleExact
			case fuzzyMatch(role.Name, skill) && best < scoreRoleFuzzy:
				best = scoreRoleFuzzy
			}
		}
	}
	return best
}
