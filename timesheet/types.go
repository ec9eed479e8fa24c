/*
Package timesheet contains the core timesheet reconciliation engine.

PURPOSE:
  This package owns the rules for representing one employee-day's time
  allocation (the DayLedger), the reconciliation of new/edited/deleted
  entries against it, the recurrence expansion that turns one logging
  request into many dated entries, and the classification of stored rows
  into display-typed entries.

KEY CONCEPTS IN THIS FILE (types.go):
  - DayLedger:       One employee's time record for one calendar day
  - WorkSegment:     One project/hours pair inside a DayLedger
  - ClassifiedEntry: Derived, display-ready view of a ledger (never stored)
  - EntryType:       WORK, VACATION, SICK_LEAVE, PERMIT
  - AddRequest:      What a caller asks the reconciliation engine to record

DESIGN PRINCIPLES:
  1. Exclusivity: a leave day (illness or holiday) carries no work segments
     and no permit hours. The reconciliation engine enforces this on every
     write; IsConsistent lets callers and tests verify it.
  2. Precision: hour amounts use decimal.Decimal to avoid floating-point
     drift in aggregation. Rounding happens only at the display boundary.
  3. Derivation: ClassifiedEntry and all report structures are computed on
     read and never persisted.

SEE ALSO:
  - reconcile.go:   add/delete semantics over the DayLedger
  - classifier.go:  DayLedger rows -> ClassifiedEntry
  - recurrence.go:  request expansion and batch execution
  - store.go:       persistence collaborator interfaces
*/
package timesheet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK SEGMENT
// =============================================================================

// WorkSegment is one project/hours pair inside a DayLedger. Several segments
// for the same or different projects may coexist within one ledger; they are
// accumulated across separate add calls and never merged.
type WorkSegment struct {
	ID         string
	ProjectID  string
	CustomerID string // denormalized, may be empty
	Hours      decimal.Decimal
}

// =============================================================================
// DAY LEDGER
// =============================================================================

// DayLedger is the single record of one employee's time allocation for one
// calendar day.
//
// INVARIANT (work/leave exclusivity): if Illness or Holiday is true,
// WorkedHours is empty and PermitsHours is zero. A ledger is either a pure
// leave day or a composite of work segments plus optional permit hours.
type DayLedger struct {
	ID           string
	EmployeeID   string
	Day          Day
	WorkedHours  []WorkSegment
	PermitsHours decimal.Decimal
	Illness      bool
	Holiday      bool
}

// HasLeave reports whether the ledger is in leave mode.
func (l DayLedger) HasLeave() bool { return l.Illness || l.Holiday }

// WorkedTotal sums the hours across all work segments.
func (l DayLedger) WorkedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.WorkedHours {
		total = total.Add(s.Hours)
	}
	return total
}

// IsEmpty reports whether the ledger carries no data at all. An empty ledger
// must be deleted, never persisted.
func (l DayLedger) IsEmpty() bool {
	return len(l.WorkedHours) == 0 && l.PermitsHours.IsZero() && !l.Illness && !l.Holiday
}

// IsConsistent verifies the work/leave exclusivity invariant.
func (l DayLedger) IsConsistent() bool {
	if l.HasLeave() {
		return len(l.WorkedHours) == 0 && l.PermitsHours.IsZero()
	}
	return true
}

// =============================================================================
// ENTRY KINDS AND TYPES
// =============================================================================

// EntryKind is what a caller asks to record.
type EntryKind string

const (
	KindWork      EntryKind = "WORK"
	KindPermit    EntryKind = "PERMIT"
	KindSickLeave EntryKind = "SICK_LEAVE"
	KindVacation  EntryKind = "VACATION"
)

// IsLeave reports whether the kind supersedes any recorded work for the day.
// Permits coexist with work; illness and holiday do not.
func (k EntryKind) IsLeave() bool { return k == KindSickLeave || k == KindVacation }

// EntryType classifies a stored row for display. The mapping from raw rows is
// owned by the classifier; precedence is holiday > illness > permit > work.
type EntryType string

const (
	TypeWork      EntryType = "WORK"
	TypeVacation  EntryType = "VACATION"
	TypeSickLeave EntryType = "SICK_LEAVE"
	TypePermit    EntryType = "PERMIT"
)

// AddRequest describes one entry to record against a single day.
type AddRequest struct {
	Kind       EntryKind
	ProjectID  string          // WORK only
	CustomerID string          // WORK only, optional
	Hours      decimal.Decimal // WORK: hours on the project; PERMIT: permit hours
}

// =============================================================================
// CLASSIFIED ENTRY - Derived view, never stored
// =============================================================================

// ClassifiedEntry is a typed, display-ready view computed from a DayLedger
// and its segments. One ledger can yield several entries: one per work
// segment, plus one synthetic PERMIT row when permit hours sit alongside
// worked hours.
type ClassifiedEntry struct {
	ID           string
	SegmentID    string // set only when the entry maps to a physical work segment
	TimesheetID  string // back-reference to the owning DayLedger
	UserID       string
	ProjectID    string // empty for leave and permit entries
	Date         Day
	Hours        decimal.Decimal
	Type         EntryType
	PermitsHours decimal.Decimal
	Illness      bool
	Holiday      bool
}
