/*
classifier.go - Stored rows -> typed, display-ready entries

PURPOSE:
  Turns a raw DayLedger and its work segments into one or more
  ClassifiedEntry values for calendars, reports and exports.

PRECEDENCE (applied centrally here, nowhere else):
  holiday  -> VACATION
  illness  -> SICK_LEAVE
  permits>0 with no worked hours -> PERMIT
  otherwise WORK, one entry per segment

MIXED DAYS:
  A day carrying both worked hours and permit hours (permits and work may
  coexist; leave flags may not) yields one WORK entry per segment plus a
  separate synthetic PERMIT entry. The permit has no independent row id, so
  its entry id is derived from the ledger id.

READ PATHS NEVER FAIL:
  Classify is a pure function and returns no error. Malformed input (an
  empty ledger, negative hours) degrades to a best-effort zero-hour WORK
  entry instead of throwing.
*/
package timesheet

import (
	"github.com/shopspring/decimal"
)

// PermitEntryID derives the synthetic id of the PERMIT entry emitted for a
// mixed work+permit day.
func PermitEntryID(ledgerID string) string { return ledgerID + "-permit" }

// Classify turns one DayLedger into its display entries.
func Classify(l DayLedger) []ClassifiedEntry {
	base := ClassifiedEntry{
		TimesheetID:  l.ID,
		UserID:       l.EmployeeID,
		Date:         l.Day,
		PermitsHours: nonNegative(l.PermitsHours),
		Illness:      l.Illness,
		Holiday:      l.Holiday,
	}

	switch {
	case l.Holiday:
		e := base
		e.ID = l.ID
		e.Type = TypeVacation
		e.Hours = decimal.Zero
		return []ClassifiedEntry{e}

	case l.Illness:
		e := base
		e.ID = l.ID
		e.Type = TypeSickLeave
		e.Hours = decimal.Zero
		return []ClassifiedEntry{e}

	case l.PermitsHours.IsPositive() && len(l.WorkedHours) == 0:
		e := base
		e.ID = l.ID
		e.Type = TypePermit
		e.Hours = decimal.Zero
		return []ClassifiedEntry{e}
	}

	entries := make([]ClassifiedEntry, 0, len(l.WorkedHours)+1)
	for _, seg := range l.WorkedHours {
		e := base
		e.ID = seg.ID
		e.SegmentID = seg.ID
		e.ProjectID = seg.ProjectID
		e.Type = TypeWork
		e.Hours = nonNegative(seg.Hours)
		entries = append(entries, e)
	}

	// Legacy mixed state: permit hours alongside worked hours get their own
	// synthetic row so the calendar shows both.
	if l.PermitsHours.IsPositive() && len(l.WorkedHours) > 0 {
		e := base
		e.ID = PermitEntryID(l.ID)
		e.Type = TypePermit
		e.Hours = decimal.Zero
		entries = append(entries, e)
	}

	// Degenerate row with no data at all: emit a zero-hour WORK entry so the
	// read path stays total.
	if len(entries) == 0 {
		e := base
		e.ID = l.ID
		e.Type = TypeWork
		e.Hours = decimal.Zero
		entries = append(entries, e)
	}

	return entries
}

// ClassifyAll flattens a set of ledgers into entries, preserving input order.
func ClassifyAll(ledgers []DayLedger) []ClassifiedEntry {
	var entries []ClassifiedEntry
	for _, l := range ledgers {
		entries = append(entries, Classify(l)...)
	}
	return entries
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
