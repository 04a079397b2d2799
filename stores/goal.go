package stores

import (
	"context"

	"gorm.io/gorm"

	"scholar-pulse/models"
)

// GoalStore liest und ersetzt den Jahreszielsatz eines Owners.
type GoalStore struct {
	db *gorm.DB
}

func NewGoalStore(db *gorm.DB) *GoalStore {
	return &GoalStore{db: db}
}

// Get returns the goal set for (owner, year). Missing rows are not an
// error: categories without a stored goal default to zero.
func (s *GoalStore) Get(ctx context.Context, ownerID uint, year int) (map[models.Category]int, error) {
	var rows []models.Goal
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND year = ?", ownerID, year).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	targets := make(map[models.Category]int, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		targets[cat] = 0
	}
	for _, row := range rows {
		targets[row.Category] = row.Target
	}
	return targets, nil
}

// HasGoals meldet, ob für (owner, year) überhaupt Ziele gespeichert sind.
func (s *GoalStore) HasGoals(ctx context.Context, ownerID uint, year int) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("owner_id = ? AND year = ?", ownerID, year).
		Count(&n).Error
	return n > 0, err
}

// Replace ersetzt den kompletten Zielsatz für (owner, year) in einer
// Transaktion. Idempotent: wiederholte Aufrufe mit denselben Targets
// ändern nichts.
func (s *GoalStore) Replace(ctx context.Context, ownerID uint, year int, targets map[models.Category]int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND year = ?", ownerID, year).
			Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		for _, cat := range models.AllCategories {
			target := targets[cat]
			if target <= 0 {
				continue
			}
			row := models.Goal{OwnerID: ownerID, Year: year, Category: cat, Target: target}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
