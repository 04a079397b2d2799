package stores

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scholar-pulse/models"
)

// ErrCollabDisabled wird zurückgegeben, wenn Schreibzugriffe auf das
// Kollaborations-Schema bei deaktiviertem Capability-Flag versucht werden.
var ErrCollabDisabled = errors.New("collaboration schema not enabled")

// ErrProjectNotFound deckt sowohl fehlende als auch für den Betrachter
// unsichtbare Projekte ab. The boundary intentionally does not distinguish
// "exists but private" from "does not exist".
var ErrProjectNotFound = errors.New("project not found")

// CollabStore liest und schreibt Projekte, Mitgliedschaften und
// Beitrittsanfragen. Das Capability-Flag wird beim Verdrahten gesetzt;
// disabled ⇒ Lesezugriffe liefern leere Ergebnisse statt Fehler.
type CollabStore struct {
	db      *gorm.DB
	enabled bool
}

func NewCollabStore(db *gorm.DB, enabled bool) *CollabStore {
	return &CollabStore{db: db, enabled: enabled}
}

// Enabled meldet das Capability-Flag.
func (s *CollabStore) Enabled() bool {
	return s.enabled
}

// CreateProject legt ein Projekt samt Tags und Rollen an. Der Owner wird
// automatisch als aktives Mitglied mit Rolle owner eingetragen.
func (s *CollabStore) CreateProject(ctx context.Context, project *models.Project) error {
	if !s.enabled {
		return ErrCollabDisabled
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      models.MemberOwner,
			Active:    true,
		}
		return tx.Create(&member).Error
	})
}

// ProjectForViewer lädt ein Projekt, sofern es für den Betrachter sichtbar
// ist. Private Projekte sind nur für den Owner sichtbar; alle anderen
// erhalten ErrProjectNotFound.
func (s *CollabStore) ProjectForViewer(ctx context.Context, projectID, viewerID uint, viewerCollege string) (*models.Project, error) {
	if !s.enabled {
		return nil, ErrProjectNotFound
	}
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Tags").Preload("RequiredRoles").
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	switch project.Visibility {
	case models.VisibilityPrivate:
		if project.OwnerID != viewerID {
			return nil, ErrProjectNotFound
		}
	case models.VisibilityCollege:
		if project.OwnerID != viewerID && project.College != viewerCollege {
			return nil, ErrProjectNotFound
		}
	}
	return &project, nil
}

// ProjectByID lädt ein Projekt ohne Sichtbarkeitsprüfung (interne Pfade).
func (s *CollabStore) ProjectByID(ctx context.Context, projectID uint) (*models.Project, error) {
	if !s.enabled {
		return nil, ErrProjectNotFound
	}
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Tags").Preload("RequiredRoles").
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// VisibleProjects liefert die Kandidatenmenge für Empfehlungen: offene und
// laufende Projekte, die der Betrachter sehen darf.
func (s *CollabStore) VisibleProjects(ctx context.Context, viewerID uint, viewerCollege string) ([]models.Project, error) {
	if !s.enabled {
		return nil, nil
	}
	var rows []models.Project
	err := s.db.WithContext(ctx).
		Preload("Tags").Preload("RequiredRoles").
		Where("status IN ?", []string{models.ProjectOpen, models.ProjectInProgress}).
		Where(
			s.db.Where("visibility = ?", models.VisibilityUniversity).
				Or("visibility = ? AND college = ?", models.VisibilityCollege, viewerCollege).
				Or("owner_id = ?", viewerID),
		).
		Find(&rows).Error
	return rows, err
}

// ActiveMemberCount zählt aktive Mitglieder eines Projekts.
func (s *CollabStore) ActiveMemberCount(ctx context.Context, projectID uint) (int64, error) {
	if !s.enabled {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND active = ?", projectID, true).
		Count(&n).Error
	return n, err
}

// MembershipExists prüft, ob der User aktives Mitglied des Projekts ist.
func (s *CollabStore) MembershipExists(ctx context.Context, projectID, userID uint) (bool, error) {
	if !s.enabled {
		return false, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND active = ?", projectID, userID, true).
		Count(&n).Error
	return n > 0, err
}

// AddMember trägt ein aktives Projektmitglied ein.
func (s *CollabStore) AddMember(ctx context.Context, member *models.ProjectMember) error {
	if !s.enabled {
		return ErrCollabDisabled
	}
	return s.db.WithContext(ctx).Create(member).Error
}

// RequestByKey lädt die (einzige) Anfrage eines Requesters für ein Projekt.
func (s *CollabStore) RequestByKey(ctx context.Context, projectID, requesterID uint) (*models.JoinRequest, error) {
	if !s.enabled {
		return nil, nil
	}
	var req models.JoinRequest
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND requester_id = ?", projectID, requesterID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SubmitRequest legt eine Beitrittsanfrage an. Existiert bereits eine
// Anfrage desselben Requesters, wird sie ersetzt (replace-on-resubmit) und
// auf pending zurückgesetzt.
func (s *CollabStore) SubmitRequest(ctx context.Context, projectID, requesterID uint, message string) (*models.JoinRequest, error) {
	if !s.enabled {
		return nil, ErrCollabDisabled
	}
	var result *models.JoinRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND requester_id = ?", projectID, requesterID).
			Delete(&models.JoinRequest{}).Error; err != nil {
			return err
		}
		req := models.JoinRequest{
			ProjectID:   projectID,
			RequesterID: requesterID,
			Status:      models.RequestPending,
			Message:     message,
		}
		if err := tx.Create(&req).Error; err != nil {
			return err
		}
		result = &req
		return nil
	})
	return result, err
}

// RequestByID lädt eine Anfrage über ihre ID.
func (s *CollabStore) RequestByID(ctx context.Context, requestID uint) (*models.JoinRequest, error) {
	if !s.enabled {
		return nil, gorm.ErrRecordNotFound
	}
	var req models.JoinRequest
	if err := s.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateRequestStatus setzt den Status einer Anfrage.
func (s *CollabStore) UpdateRequestStatus(ctx context.Context, requestID uint, status string) error {
	if !s.enabled {
		return ErrCollabDisabled
	}
	return s.db.WithContext(ctx).Model(&models.JoinRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

// PendingRequestProjectIDs liefert die Projekt-IDs, für die der User eine
// Anfrage mit dem gegebenen Status hat.
func (s *CollabStore) RequestProjectIDs(ctx context.Context, userID uint, status string) (map[uint]bool, error) {
	if !s.enabled {
		return nil, nil
	}
	var rows []models.JoinRequest
	if err := s.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, status).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[uint]bool, len(rows))
	for _, row := range rows {
		ids[row.ProjectID] = true
	}
	return ids, nil
}

// MemberProjectIDs liefert die Projekte, in denen der User aktives
// Mitglied ist.
func (s *CollabStore) MemberProjectIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	if !s.enabled {
		return nil, nil
	}
	var rows []models.ProjectMember
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[uint]bool, len(rows))
	for _, row := range rows {
		ids[row.ProjectID] = true
	}
	return ids, nil
}

// ExcludedUserIDs liefert die User, die für Researcher-Empfehlungen eines
// Projekts nicht in Frage kommen: aktive Mitglieder sowie Requester mit
// offener oder abgelehnter Anfrage.
func (s *CollabStore) ExcludedUserIDs(ctx context.Context, projectID uint) (map[uint]bool, error) {
	if !s.enabled {
		return nil, nil
	}
	excluded := make(map[uint]bool)
	var members []models.ProjectMember
	if err := s.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		excluded[m.UserID] = true
	}
	var requests []models.JoinRequest
	if err := s.db.WithContext(ctx).
		Where("project_id = ? AND status IN ?", projectID,
			[]string{models.RequestPending, models.RequestRejected}).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	for _, r := range requests {
		excluded[r.RequesterID] = true
	}
	return excluded, nil
}
