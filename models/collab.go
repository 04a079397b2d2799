package models

import "time"

// Project visibility.
const (
	VisibilityUniversity = "university"
	VisibilityCollege    = "college"
	VisibilityPrivate    = "private"
)

// Project status.
const (
	ProjectOpen       = "open"
	ProjectInProgress = "in_progress"
	ProjectClosed     = "closed"
)

// Project ist ein Kollaborationsprojekt.
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID     uint   `json:"owner_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	College     string `json:"college" gorm:"index"`
	Visibility  string `json:"visibility" gorm:"index;default:university"`
	Status      string `json:"status" gorm:"index;default:open"`
	Capacity    int    `json:"capacity"`

	Tags          []ProjectTag  `json:"tags"`
	RequiredRoles []ProjectRole `json:"required_roles"`
}

// ProjectTag ist ein Themen-Tag eines Projekts.
type ProjectTag struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProjectID uint   `json:"project_id" gorm:"index;not null"`
	Name      string `json:"name"`
}

// ProjectRole ist eine gesuchte Rolle innerhalb eines Projekts.
type ProjectRole struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProjectID uint   `json:"project_id" gorm:"index;not null"`
	Name      string `json:"name"`
}

// Member roles.
const (
	MemberOwner  = "owner"
	MemberCoLead = "co_lead"
	MemberPlain  = "member"
)

// ProjectMember ist eine Projektmitgliedschaft.
type ProjectMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint   `json:"project_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Role      string `json:"role" gorm:"default:member"`
	Active    bool   `json:"active" gorm:"default:true"`
}

// Join request status.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
	RequestCanceled = "canceled"
)

// JoinRequest ist eine Beitrittsanfrage. A requester has at most one
// non-historical request per project; resubmitting replaces the old one.
type JoinRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID   uint   `json:"project_id" gorm:"uniqueIndex:idx_request_key;not null"`
	RequesterID uint   `json:"requester_id" gorm:"uniqueIndex:idx_request_key;not null"`
	Status      string `json:"status" gorm:"index;default:pending"`
	Message     string `json:"message,omitempty"`
}

// Availability of a researcher.
const (
	AvailabilityAvailable   = "available"
	AvailabilityBusy        = "busy"
	AvailabilityUnavailable = "unavailable"
)

// ResearcherProfile ist das Verzeichnis-Profil eines Forschers. Skills and
// interests are comma-separated labels; matching is fuzzy containment.
type ResearcherProfile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Name         string `json:"name"`
	Department   string `json:"department" gorm:"index"`
	College      string `json:"college" gorm:"index"`
	Availability string `json:"availability" gorm:"default:available"`
	Skills       string `json:"skills"`
	Interests    string `json:"interests"`
	Active       bool   `json:"active" gorm:"default:true"`
}
