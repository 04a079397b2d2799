package stores

import "time"

// Period scopes a query to a calendar year or a calendar month. A zero
// Year means "all time". Month without Year is rejected at the boundary
// and never reaches this package.
type Period struct {
	Year  int
	Month time.Month
}

// IsZero meldet, ob keine Einschränkung gesetzt ist.
func (p Period) IsZero() bool {
	return p.Year == 0
}

// Bounds returns the half-open range [from, to) covered by the period.
// ok is false when the period carries no restriction.
func (p Period) Bounds() (from, to time.Time, ok bool) {
	if p.Year == 0 {
		return time.Time{}, time.Time{}, false
	}
	if p.Month == 0 {
		from = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	}
	from = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), true
}
