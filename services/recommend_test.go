package services

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scholar-pulse/models"
	"scholar-pulse/stores"
	"scholar-pulse/testutil"
)

func newTestRecommender(t *testing.T) (*Recommender, *stores.CollabStore, *stores.SnapshotStore, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	collab := stores.NewCollabStore(db, true)
	snapshots := stores.NewSnapshotStore(db, true)
	rec := NewRecommender(collab, stores.NewProfileStore(db), snapshots, zap.NewNop())
	return rec, collab, snapshots, db
}

func seedProfile(t *testing.T, db *gorm.DB, userID uint, dept, college, availability, skills string) {
	t.Helper()
	profile := models.ResearcherProfile{
		UserID:       userID,
		Department:   dept,
		College:      college,
		Availability: availability,
		Skills:       skills,
		Active:       true,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile %d: %v", userID, err)
	}
}

func TestProjectsForResearcher(t *testing.T) {
	rec, collab, snapshots, db := newTestRecommender(t)
	ctx := context.Background()

	seedProfile(t, db, 10, "cs", "eng", models.AvailabilityAvailable, "machine learning, nlp")
	seedProfile(t, db, 20, "cs", "eng", models.AvailabilityAvailable, "")

	// Starker Kandidat: Tag-Match + gleiche Abteilung + aktiv.
	strong := models.Project{
		OwnerID: 20, Title: "LLM Eval", Visibility: models.VisibilityUniversity,
		Status: models.ProjectOpen,
		Tags:   []models.ProjectTag{{Name: "machine learning"}},
	}
	if err := collab.CreateProject(ctx, &strong); err != nil {
		t.Fatalf("create strong: %v", err)
	}
	// Schwacher Kandidat: nur aktiv.
	weak := models.Project{
		OwnerID: 21, Title: "Misc", Visibility: models.VisibilityUniversity,
		Status: models.ProjectOpen,
	}
	if err := collab.CreateProject(ctx, &weak); err != nil {
		t.Fatalf("create weak: %v", err)
	}
	// Eigene Mitgliedschaft schließt aus.
	mine := models.Project{
		OwnerID: 10, Title: "Own", Visibility: models.VisibilityUniversity,
		Status: models.ProjectOpen,
		Tags:   []models.ProjectTag{{Name: "nlp"}},
	}
	if err := collab.CreateProject(ctx, &mine); err != nil {
		t.Fatalf("create mine: %v", err)
	}
	// Offene Anfrage schließt aus.
	requested := models.Project{
		OwnerID: 22, Title: "Pending", Visibility: models.VisibilityUniversity,
		Status: models.ProjectOpen,
		Tags:   []models.ProjectTag{{Name: "nlp"}},
	}
	if err := collab.CreateProject(ctx, &requested); err != nil {
		t.Fatalf("create requested: %v", err)
	}
	if _, err := collab.SubmitRequest(ctx, requested.ID, 10, ""); err != nil {
		t.Fatalf("submit request: %v", err)
	}

	result, err := rec.ProjectsForResearcher(ctx, 10)
	if err != nil {
		t.Fatalf("ProjectsForResearcher error: %v", err)
	}

	if len(result.HighPriority) != 1 || result.HighPriority[0].Project.ID != strong.ID {
		t.Fatalf("HighPriority = %+v, want Projekt %d", result.HighPriority, strong.ID)
	}
	// Tag 3 + Dept 2 + aktiv 2 = 7.
	if result.HighPriority[0].Score != 7 {
		t.Fatalf("Score = %d, want 7", result.HighPriority[0].Score)
	}
	if len(result.Recommended) != 1 || result.Recommended[0].Project.ID != weak.ID {
		t.Fatalf("Recommended = %+v, want Projekt %d", result.Recommended, weak.ID)
	}
	for _, sp := range append(result.HighPriority, result.Recommended...) {
		if sp.Project.ID == mine.ID || sp.Project.ID == requested.ID {
			t.Fatalf("ausgeschlossenes Projekt %d empfohlen", sp.Project.ID)
		}
	}

	// Best-Effort-Snapshot wurde geschrieben.
	snap, err := snapshots.Latest(ctx, 10, models.SnapshotProjectsForResearcher)
	if err != nil || snap == nil {
		t.Fatalf("Snapshot fehlt: %v, %v", snap, err)
	}
}

func TestProjectsForResearcherWithoutProfile(t *testing.T) {
	rec, _, _, _ := newTestRecommender(t)
	result, err := rec.ProjectsForResearcher(context.Background(), 99)
	if err != nil {
		t.Fatalf("ProjectsForResearcher error: %v", err)
	}
	if len(result.HighPriority) != 0 || len(result.Recommended) != 0 {
		t.Fatalf("ohne Profil leeres Ergebnis erwartet, got %+v", result)
	}
}

func TestResearchersForProject(t *testing.T) {
	rec, collab, _, db := newTestRecommender(t)
	ctx := context.Background()

	seedProfile(t, db, 20, "cs", "eng", models.AvailabilityAvailable, "")
	seedProfile(t, db, 10, "cs", "eng", models.AvailabilityAvailable, "machine learning")
	seedProfile(t, db, 30, "bio", "sci", models.AvailabilityBusy, "")
	seedProfile(t, db, 40, "cs", "eng", models.AvailabilityAvailable, "machine learning")

	project := models.Project{
		OwnerID: 20, Title: "LLM Eval", Visibility: models.VisibilityUniversity,
		Status: models.ProjectOpen,
		Tags:   []models.ProjectTag{{Name: "machine learning"}},
	}
	if err := collab.CreateProject(ctx, &project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	// Abgelehnte Anfrage schließt in dieser Richtung aus.
	req, err := collab.SubmitRequest(ctx, project.ID, 40, "")
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	if err := collab.UpdateRequestStatus(ctx, req.ID, models.RequestRejected); err != nil {
		t.Fatalf("reject request: %v", err)
	}

	scored, err := rec.ResearchersForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ResearchersForProject error: %v", err)
	}

	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1: %+v", len(scored), scored)
	}
	if scored[0].Researcher.UserID != 10 {
		t.Fatalf("UserID = %d, want 10", scored[0].Researcher.UserID)
	}
	// Tag 3 + Dept 1 + aktiv 2 + verfügbar 2 = 8.
	if scored[0].Score != 8 {
		t.Fatalf("Score = %d, want 8", scored[0].Score)
	}
}

func TestResearchersForProjectNotFound(t *testing.T) {
	rec, _, _, _ := newTestRecommender(t)
	if _, err := rec.ResearchersForProject(context.Background(), 12345); err != stores.ErrProjectNotFound {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestFuzzyMatchAndRoles(t *testing.T) {
	if !fuzzyMatch("Machine Learning", "learning") {
		t.Fatalf("Containment-Match erwartet")
	}
	if fuzzyMatch("", "nlp") {
		t.Fatalf("leere Labels dürfen nie matchen")
	}
	roles := []models.ProjectRole{{Name: "data engineer"}}
	if got := bestRoleMatch(roles, []string{"data engineer"}); got != scoreRoleExact {
		t.Fatalf("exakter Rollen-Match = %d, want %d", got, scoreRoleExact)
	}
	if got := bestRoleMatch(roles, []string{"engineer"}); got != scoreRoleFuzzy {
		t.Fatalf("Containment-Rollen-Match = %d, want %d", got, scoreRoleFuzzy)
	}
	if got := bestRoleMatch(roles, []string{"chemist"}); got != 0 {
		t.Fatalf("kein Rollen-Match = %d, want 0", got)
	}
}
