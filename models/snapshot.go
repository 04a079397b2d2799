package models

import "time"

// Snapshot directions.
const (
	SnapshotProjectsForResearcher = "projects_for_researcher"
	SnapshotResearchersForProject = "researchers_for_project"
)

// RecommendationSnapshot ist ein Best-Effort-Cache des zuletzt berechneten
// Empfehlungsergebnisses. Never authoritative; writes may fail silently.
type RecommendationSnapshot struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OwnerID    uint      `json:"owner_id" gorm:"uniqueIndex:idx_snapshot_key;not null"`
	Direction  string    `json:"direction" gorm:"uniqueIndex:idx_snapshot_key;not null"`
	Payload    []byte    `json:"payload" gorm:"type:jsonb"`
	ComputedAt time.Time `json:"computed_at"`
}
