package stores

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"scholar-pulse/models"
)

// ProfileStore ist der read-only Zugriff auf das Forscher-Verzeichnis.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// ByUserID lädt das Profil eines Users. nil ohne Fehler, wenn keins
// existiert.
func (s *ProfileStore) ByUserID(ctx context.Context, userID uint) (*models.ResearcherProfile, error) {
	var profile models.ResearcherProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ActiveProfiles listet alle aktiven Profile, optional ohne die
// angegebenen User-IDs.
func (s *ProfileStore) ActiveProfiles(ctx context.Context, exclude map[uint]bool) ([]models.ResearcherProfile, error) {
	var rows []models.ResearcherProfile
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(exclude) == 0 {
		return rows, nil
	}
	filtered := rows[:0]
	for _, row := range rows {
		if !exclude[row.UserID] {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// RecentlyUpdated liefert Profile, die innerhalb der letzten Tage geändert
// wurden. Vom Snapshot-Refresh-Job benutzt, um die Ownermenge zu begrenzen.
func (s *ProfileStore) RecentlyUpdated(ctx context.Context, days int) ([]models.ResearcherProfile, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []models.ResearcherProfile
	err := s.db.WithContext(ctx).
		Where("active = ? AND updated_at >= ?", true, cutoff).
		Find(&rows).Error
	return rows, err
}
