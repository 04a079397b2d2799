package stores

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scholar-pulse/models"
)

// SnapshotStore persistiert den Best-Effort-Cache der zuletzt berechneten
// Empfehlungen. Upsert über (owner, direction).
type SnapshotStore struct {
	db      *gorm.DB
	enabled bool
}

func NewSnapshotStore(db *gorm.DB, enabled bool) *SnapshotStore {
	return &SnapshotStore{db: db, enabled: enabled}
}

// Save schreibt oder ersetzt den Snapshot. Callers treat failures as
// non-fatal; the snapshot is never authoritative.
func (s *SnapshotStore) Save(ctx context.Context, ownerID uint, direction string, payload []byte) error {
	if !s.enabled {
		return nil
	}
	row := models.RecommendationSnapshot{
		OwnerID:    ownerID,
		Direction:  direction,
		Payload:    payload,
		ComputedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "direction"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payload":     row.Payload,
			"computed_at": row.ComputedAt,
		}),
	}).Create(&row).Error
}

// Latest lädt den letzten Snapshot. nil ohne Fehler, wenn keiner existiert.
func (s *SnapshotStore) Latest(ctx context.Context, ownerID uint, direction string) (*models.RecommendationSnapshot, error) {
	if !s.enabled {
		return nil, nil
	}
	var row models.RecommendationSnapshot
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND direction = ?", ownerID, direction).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
