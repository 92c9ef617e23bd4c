package domain

import "time"

// PeriodStatus is the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodLocked PeriodStatus = "LOCKED"
	PeriodClosed PeriodStatus = "CLOSED" // Terminal
)

// IsValid reports whether s is a known status.
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodOpen, PeriodLocked, PeriodClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to target is legal.
// Open->Locked, Locked->Closed and the Open->Closed shortcut are the only legal moves.
func (s PeriodStatus) CanTransitionTo(target PeriodStatus) bool {
	switch s {
	case PeriodOpen:
		return target == PeriodLocked || target == PeriodClosed
	case PeriodLocked:
		return target == PeriodClosed
	case PeriodClosed:
		return false
	default:
		return false
	}
}

// FiscalPeriod is a bounded date range that accepts new entries only while open.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"`
	TenantID  string       `json:"tenantID"`
	Label     string       `json:"label"`
	Year      int          `json:"year"`
	StartDate time.Time    `json:"startDate"` // Inclusive civil date
	EndDate   time.Time    `json:"endDate"`   // Inclusive civil date
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether date falls within the period bounds, both inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := CivilDate(date)
	return !d.Before(CivilDate(p.StartDate)) && !d.After(CivilDate(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period.
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !CivilDate(start).After(CivilDate(p.EndDate)) && !CivilDate(end).Before(CivilDate(p.StartDate))
}

// IsWritable reports whether the period accepts journal mutations.
func (p FiscalPeriod) IsWritable() bool {
	return p.Status == PeriodOpen
}
