package stores

import (
	"context"
	"time"

	"gorm.io/gorm"

	"scholar-pulse/models"
)

// ActivityCounter zählt Aktivitäts-Records eines Owners innerhalb einer
// Periode. Jede Kategorie hat ihren eigenen Counter; die Datumssemantik
// unterscheidet sich pro Kategorie (siehe unten).
type ActivityCounter interface {
	CountInRange(ctx context.Context, ownerID uint, p Period) (int64, error)
}

// occurredCounter filtert über ein einzelnes Datums-Feld: das Record zählt,
// wenn sein Datum in [from, to) liegt.
type occurredCounter struct {
	db     *gorm.DB
	model  interface{}
	column string
}

func (c *occurredCounter) CountInRange(ctx context.Context, ownerID uint, p Period) (int64, error) {
	q := c.db.WithContext(ctx).Model(c.model).Where("owner_id = ?", ownerID)
	if from, to, ok := p.Bounds(); ok {
		q = q.Where(c.column+" >= ? AND "+c.column+" < ?", from, to)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// openEndedCounter deckt Mitgliedschaften und laufende Rollen ab: es gibt
// kein Ende-Feld, daher zählt alles, was vor Periodenende begonnen hat.
// An activity begun before the window and still open counts as
// continuously present.
type openEndedCounter struct {
	db    *gorm.DB
	model interface{}
}

func (c *openEndedCounter) CountInRange(ctx context.Context, ownerID uint, p Period) (int64, error) {
	q := c.db.WithContext(ctx).Model(c.model).Where("owner_id = ?", ownerID)
	if _, to, ok := p.Bounds(); ok {
		q = q.Where("started_at < ?", to)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// researchCounter: Jahresfilter läuft über CreatedAt, aber sobald ein Monat
// angefragt ist, filtern wir über publish_year/publish_month. A record can
// be logged long before it is marked published, so the creation date says
// nothing about the publication month.
type researchCounter struct {
	db *gorm.DB
}

func (c *researchCounter) CountInRange(ctx context.Context, ownerID uint, p Period) (int64, error) {
	q := c.db.WithContext(ctx).Model(&models.Research{}).Where("owner_id = ?", ownerID)
	switch {
	case p.Year == 0:
		// kein Filter
	case p.Month == 0:
		from, to, _ := p.Bounds()
		q = q.Where("created_at >= ? AND created_at < ?", from, to)
	default:
		q = q.Where("publish_year = ? AND publish_month = ?", p.Year, int(p.Month))
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// ActivityStores bündelt die Counter aller 15 Kategorien plus die
// List-Zugriffe, die der Analytics-Adapter braucht.
type ActivityStores struct {
	db       *gorm.DB
	counters map[models.Category]ActivityCounter
}

// NewActivityStores verdrahtet alle Kategorie-Stores gegen eine DB.
func NewActivityStores(db *gorm.DB) *ActivityStores {
	occurred := func(model interface{}) ActivityCounter {
		return &occurredCounter{db: db, model: model, column: "occurred_at"}
	}
	openEnded := func(model interface{}) ActivityCounter {
		return &openEndedCounter{db: db, model: model}
	}
	return &ActivityStores{
		db: db,
		counters: map[models.Category]ActivityCounter{
			models.CategoryResearch:       &researchCounter{db: db},
			models.CategoryConference:     occurred(&models.Conference{}),
			models.CategorySeminar:        occurred(&models.Seminar{}),
			models.CategoryWorkshop:       occurred(&models.Workshop{}),
			models.CategoryCourse:         occurred(&models.Course{}),
			models.CategoryAssignment:     occurred(&models.Assignment{}),
			models.CategoryThankYouLetter: occurred(&models.ThankYouLetter{}),
			models.CategoryCommittee:      occurred(&models.Committee{}),
			models.CategoryCertificate:    occurred(&models.Certificate{}),
			models.CategoryJournal:        openEnded(&models.Journal{}),
			models.CategorySupervision:    openEnded(&models.Supervision{}),
			models.CategoryReviewing:      occurred(&models.Reviewing{}),
			models.CategoryPosition:       openEnded(&models.Position{}),
			models.CategoryVolunteering:   openEnded(&models.Volunteering{}),
			models.CategoryFieldVisit:     occurred(&models.FieldVisit{}),
		},
	}
}

// Counter liefert den Store einer Kategorie.
func (s *ActivityStores) Counter(cat models.Category) ActivityCounter {
	return s.counters[cat]
}

// ResearchByOwner returns all research records of an owner. The analytics
// adapter resolves the effective date (publish date vs. creation date) in
// memory, so no date filter is applied here.
func (s *ActivityStores) ResearchByOwner(ctx context.Context, ownerID uint) ([]models.Research, error) {
	var rows []models.Research
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error
	return rows, err
}

// ConferencesInRange listet Konferenzen mit occurred_at in [from, to).
func (s *ActivityStores) ConferencesInRange(ctx context.Context, ownerID uint, from, to time.Time) ([]models.Conference, error) {
	var rows []models.Conference
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerID, from, to).
		Find(&rows).Error
	return rows, err
}

// WorkshopsInRange listet Workshops mit occurred_at in [from, to).
func (s *ActivityStores) WorkshopsInRange(ctx context.Context, ownerID uint, from, to time.Time) ([]models.Workshop, error) {
	var rows []models.Workshop
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerID, from, to).
		Find(&rows).Error
	return rows, err
}

// CommitteesInRange listet Komitee-Tätigkeiten mit occurred_at in [from, to).
func (s *ActivityStores) CommitteesInRange(ctx context.Context, ownerID uint, from, to time.Time) ([]models.Committee, error) {
	var rows []models.Committee
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerID, from, to).
		Find(&rows).Error
	return rows, err
}
