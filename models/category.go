package models

// Category identifies one of the 15 tracked activity kinds.
type Category string

const (
	CategoryResearch       Category = "research"
	CategoryConference     Category = "conference"
	CategorySeminar        Category = "seminar"
	CategoryWorkshop       Category = "workshop"
	CategoryCourse         Category = "course"
	CategoryAssignment     Category = "assignment"
	CategoryThankYouLetter Category = "thank_you_letter"
	CategoryCommittee      Category = "committee"
	CategoryCertificate    Category = "certificate"
	CategoryJournal        Category = "journal"
	CategorySupervision    Category = "supervision"
	CategoryReviewing      Category = "reviewing"
	CategoryPosition       Category = "position"
	CategoryVolunteering   Category = "volunteering"
	CategoryFieldVisit     Category = "field_visit"
)

// AllCategories is the canonical category ordering. Tie-breaks in goal
// selection and planner output follow this order.
var AllCategories = []Category{
	CategoryResearch,
	CategoryConference,
	CategorySeminar,
	CategoryWorkshop,
	CategoryCourse,
	CategoryAssignment,
	CategoryThankYouLetter,
	CategoryCommittee,
	CategoryCertificate,
	CategoryJournal,
	CategorySupervision,
	CategoryReviewing,
	CategoryPosition,
	CategoryVolunteering,
	CategoryFieldVisit,
}

// IsValid meldet, ob cat eine der 15 bekannten Kategorien ist.
func (c Category) IsValid() bool {
	for _, cat := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}
