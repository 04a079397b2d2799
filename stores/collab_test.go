package stores

import (
	"context"
	"errors"
	"testing"

	"scholar-pulse/models"
	"scholar-pulse/testutil"
)

func TestProjectForViewerVisibility(t *testing.T) {
	store := NewCollabStore(testutil.OpenTestDB(t), true)
	ctx := context.Background()

	private := models.Project{OwnerID: 1, Title: "Private", Visibility: models.VisibilityPrivate}
	if err := store.CreateProject(ctx, &private); err != nil {
		t.Fatalf("create private: %v", err)
	}
	college := models.Project{OwnerID: 1, Title: "College", Visibility: models.VisibilityCollege, College: "eng"}
	if err := store.CreateProject(ctx, &college); err != nil {
		t.Fatalf("create college: %v", err)
	}

	if _, err := store.ProjectForViewer(ctx, private.ID, 1, ""); err != nil {
		t.Fatalf("Owner sieht eigenes privates Projekt nicht: %v", err)
	}
	// Nicht-Owner: unsichtbar ist von nicht-existent nicht unterscheidbar.
	if _, err := store.ProjectForViewer(ctx, private.ID, 2, ""); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
	if _, err := store.ProjectForViewer(ctx, 9999, 2, ""); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}

	if _, err := store.ProjectForViewer(ctx, college.ID, 2, "eng"); err != nil {
		t.Fatalf("College-Projekt für gleiche Fakultät unsichtbar: %v", err)
	}
	if _, err := store.ProjectForViewer(ctx, college.ID, 2, "sci"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestCreateProjectAddsOwnerAsMember(t *testing.T) {
	store := NewCollabStore(testutil.OpenTestDB(t), true)
	ctx := context.Background()

	project := models.Project{OwnerID: 7, Title: "P", Visibility: models.VisibilityUniversity}
	if err := store.CreateProject(ctx, &project); err != nil {
		t.Fatalf("create: %v", err)
	}

	member, err := store.MembershipExists(ctx, project.ID, 7)
	if err != nil {
		t.Fatalf("MembershipExists: %v", err)
	}
	if !member {
		t.Fatalf("Owner ist kein aktives Mitglied")
	}
	n, err := store.ActiveMemberCount(ctx, project.ID)
	if err != nil {
		t.Fatalf("ActiveMemberCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("ActiveMemberCount = %d, want 1", n)
	}
}

func TestSubmitRequestReplacesOnResubmit(t *testing.T) {
	store := NewCollabStore(testutil.OpenTestDB(t), true)
	ctx := context.Background()

	project := models.Project{OwnerID: 1, Title: "P", Visibility: models.VisibilityUniversity}
	if err := store.CreateProject(ctx, &project); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := store.SubmitRequest(ctx, project.ID, 5, "hi")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if err := store.UpdateRequestStatus(ctx, first.ID, models.RequestRejected); err != nil {
		t.Fatalf("UpdateRequestStatus: %v", err)
	}

	// Erneutes Einreichen ersetzt die abgelehnte Anfrage und setzt sie auf
	// pending zurück.
	second, err := store.SubmitRequest(ctx, project.ID, 5, "again")
	if err != nil {
		t.Fatalf("SubmitRequest (resubmit): %v", err)
	}
	if second.Status != models.RequestPending {
		t.Fatalf("Status = %s, want pending", second.Status)
	}
	current, err := store.RequestByKey(ctx, project.ID, 5)
	if err != nil {
		t.Fatalf("RequestByKey: %v", err)
	}
	if current == nil || current.ID != second.ID || current.Message != "again" {
		t.Fatalf("RequestByKey = %+v, want die neue Anfrage", current)
	}
}

func TestExcludedUserIDs(t *testing.T) {
	store := NewCollabStore(testutil.OpenTestDB(t), true)
	ctx := context.Background()

	project := models.Project{OwnerID: 1, Title: "P", Visibility: models.VisibilityUniversity}
	if err := store.CreateProject(ctx, &project); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.SubmitRequest(ctx, project.ID, 5, ""); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	rejected, err := store.SubmitRequest(ctx, project.ID, 6, "")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if err := store.UpdateRequestStatus(ctx, rejected.ID, models.RequestRejected); err != nil {
		t.Fatalf("UpdateRequestStatus: %v", err)
	}

	excluded, err := store.ExcludedUserIDs(ctx, project.ID)
	if err != nil {
		t.Fatalf("ExcludedUserIDs: %v", err)
	}
	for _, userID := range []uint{1, 5, 6} {
		if !excluded[userID] {
			t.Fatalf("User %d fehlt in der Ausschlussmenge: %+v", userID, excluded)
		}
	}
}

func TestCollabStoreDisabled(t *testing.T) {
	store := NewCollabStore(testutil.OpenTestDB(t), false)
	ctx := context.Background()

	project := models.Project{OwnerID: 1, Title: "P"}
	if err := store.CreateProject(ctx, &project); !errors.Is(err, ErrCollabDisabled) {
		t.Fatalf("err = %v, want ErrCollabDisabled", err)
	}
	rows, err := store.VisibleProjects(ctx, 1, "eng")
	if err != nil {
		t.Fatalf("VisibleProjects: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("VisibleProjects bei disabled = %+v, want leer", rows)
	}
}
