package models

import (
	"time"
)

// ActivityBase bündelt die Felder, die alle Aktivitätstypen teilen.
type ActivityBase struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint   `json:"owner_id" gorm:"index;not null"`
	Title   string `json:"title"`
}

// Indexing levels carried by research records. TopTier marks the levels
// that classify a publication as international.
const (
	IndexNone   = ""
	IndexLocal  = "local"
	IndexScopus = "scopus"
	IndexISI    = "isi"
	IndexQ1     = "q1"
)

// Publication kinds.
const (
	PubKindJournal    = "journal"
	PubKindConference = "conference"
)

// Research repräsentiert eine Publikation. Records can be logged long
// before they are marked published; publish year/month are therefore
// separate from CreatedAt.
type Research struct {
	ActivityBase
	Venue        string `json:"venue" gorm:"index"`
	PubKind      string `json:"pub_kind" gorm:"index"`
	IndexLevel   string `json:"index_level"`
	Published    bool   `json:"published"`
	PublishYear  int    `json:"publish_year"`
	PublishMonth int    `json:"publish_month"`
}

// TopTier reports whether the record carries a top-tier indexing level.
func (r Research) TopTier() bool {
	return r.IndexLevel == IndexISI || r.IndexLevel == IndexQ1
}

// Conference scopes and roles.
const (
	ScopeDomestic      = "domestic"
	ScopeInternational = "international"

	RoleSpeaker     = "speaker"
	RoleParticipant = "participant"
)

// Conference ist eine Konferenzteilnahme.
type Conference struct {
	ActivityBase
	OccurredAt      time.Time `json:"occurred_at" gorm:"index"`
	Venue           string    `json:"venue" gorm:"index"`
	Scope           string    `json:"scope"`
	Role            string    `json:"role"`
	CommitteeMember bool      `json:"committee_member"`
}

// DatedActivity covers the categories whose primary date is a single
// occurrence date.
type DatedActivity struct {
	ActivityBase
	OccurredAt time.Time `json:"occurred_at" gorm:"index"`
}

type Seminar struct{ DatedActivity }
type Workshop struct {
	DatedActivity
	Venue string `json:"venue"`
}
type Course struct{ DatedActivity }
type Assignment struct{ DatedActivity }
type ThankYouLetter struct{ DatedActivity }
type Committee struct {
	DatedActivity
	Venue string `json:"venue"`
}
type Certificate struct{ DatedActivity }
type Reviewing struct{ DatedActivity }
type FieldVisit struct{ DatedActivity }

// OpenEndedActivity covers memberships and roles that start at a date and
// have no tracked end: they count as continuously present once begun.
type OpenEndedActivity struct {
	ActivityBase
	StartedAt time.Time `json:"started_at" gorm:"index"`
}

type Journal struct{ OpenEndedActivity }
type Supervision struct{ OpenEndedActivity }
type Position struct{ OpenEndedActivity }
type Volunteering struct{ OpenEndedActivity }
