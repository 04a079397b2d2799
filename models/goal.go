package models

import "time"

// Goal ist ein Jahresziel für eine Kategorie. One row per
// (owner, year, category); a full goal set is replaced as a unit.
type Goal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID  uint     `json:"owner_id" gorm:"uniqueIndex:idx_goal_key;not null"`
	Year     int      `json:"year" gorm:"uniqueIndex:idx_goal_key;not null"`
	Category Category `json:"category" gorm:"uniqueIndex:idx_goal_key;not null"`
	Target   int      `json:"target"`
}
