package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scholar-pulse/models"
)

// OpenTestDB öffnet eine In-Memory-SQLite und migriert alle Tabellen.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Research{},
		&models.Conference{},
		&models.Seminar{},
		&models.Workshop{},
		&models.Course{},
		&models.Assignment{},
		&models.ThankYouLetter{},
		&models.Committee{},
		&models.Certificate{},
		&models.Journal{},
		&models.Supervision{},
		&models.Reviewing{},
		&models.Position{},
		&models.Volunteering{},
		&models.FieldVisit{},
		&models.Goal{},
		&models.Project{},
		&models.ProjectTag{},
		&models.ProjectRole{},
		&models.ProjectMember{},
		&models.JoinRequest{},
		&models.ResearcherProfile{},
		&models.RecommendationSnapshot{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
