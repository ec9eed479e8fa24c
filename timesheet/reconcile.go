/*
reconcile.go - Add/update/delete semantics over the per-day ledger

PURPOSE:
  Applies one entry request against the DayLedger for (employee, day),
  enforcing the work/leave exclusivity invariant.

RECONCILIATION RULES:
  - The first entry for a day creates its ledger; later entries mutate it.
  - WORK appends a segment; segments are never merged, so two calls for the
    same project yield two segments.
  - PERMIT overwrites the day's permit hours and leaves segments alone.
    Permits and work hours may coexist on one day.
  - SICK_LEAVE and VACATION switch the ledger to leave mode: segments are
    cleared and permit hours zeroed. Leave supersedes all prior work.
  - A ledger that no longer carries any segment, permit hours or leave flag
    is deleted, never stored empty.

WRITE DISCIPLINE:
  The engine builds a candidate ledger, hands it to the store, and returns
  the stored value. Nothing is mutated locally before the persistence call
  confirms success; persistence failures propagate unchanged.

CONCURRENCY:
  The read-modify-write is not compare-and-swap protected at the store.
  The engine serializes writers on a mutex keyed by (employee, day), which
  makes concurrent batch execution safe within one process.
*/
package timesheet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine reconciles entry requests against stored DayLedgers.
type Engine struct {
	store LedgerStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a reconciliation engine over the given store.
func NewEngine(store LedgerStore) *Engine {
	return &Engine{store: store, locks: make(map[string]*sync.Mutex)}
}

// lockDay serializes writers for one (employee, day) pair.
func (e *Engine) lockDay(employeeID string, day Day) func() {
	key := employeeID + "|" + day.String()

	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// ADD
// =============================================================================

// AddEntry records one entry for (employee, day) and returns the stored
// ledger after reconciliation.
func (e *Engine) AddEntry(ctx context.Context, employeeID string, day Day, req AddRequest) (DayLedger, error) {
	if err := validateAdd(employeeID, day, req); err != nil {
		return DayLedger{}, err
	}

	unlock := e.lockDay(employeeID, day)
	defer unlock()

	existing, err := e.store.GetDayLedger(ctx, employeeID, day)
	if err != nil {
		return DayLedger{}, persistErr("get timesheet", err)
	}

	illness := req.Kind == KindSickLeave
	holiday := req.Kind == KindVacation
	permits := decimal.Zero
	if req.Kind == KindPermit {
		permits = req.Hours
	}
	hasLeave := permits.IsPositive() || illness || holiday

	var segment *WorkSegment
	if !hasLeave {
		segment = &WorkSegment{ProjectID: req.ProjectID, CustomerID: req.CustomerID, Hours: req.Hours}
	}

	if existing == nil {
		ledger := DayLedger{
			EmployeeID:   employeeID,
			Day:          day,
			PermitsHours: permits,
			Illness:      illness,
			Holiday:      holiday,
		}
		if illness || holiday {
			ledger.PermitsHours = decimal.Zero
		}
		if segment != nil {
			ledger.WorkedHours = []WorkSegment{*segment}
		}
		stored, err := e.store.CreateDayLedger(ctx, ledger)
		if err != nil {
			return DayLedger{}, persistErr("create timesheet", err)
		}
		return stored, nil
	}

	next := *existing
	next.WorkedHours = append([]WorkSegment(nil), existing.WorkedHours...)
	next.Illness = illness
	next.Holiday = holiday

	if illness || holiday {
		// Leave supersedes all prior work for the day.
		next.WorkedHours = nil
		next.PermitsHours = decimal.Zero
	} else {
		if permits.IsPositive() {
			next.PermitsHours = permits
		}
		if segment != nil {
			next.WorkedHours = append(next.WorkedHours, *segment)
		}
	}

	stored, err := e.store.UpdateDayLedger(ctx, next)
	if err != nil {
		return DayLedger{}, persistErr("update timesheet", err)
	}
	return stored, nil
}

func validateAdd(employeeID string, day Day, req AddRequest) error {
	if employeeID == "" {
		return &ValidationError{Field: "employee", Message: "missing employee id"}
	}
	if day.IsZero() {
		return &ValidationError{Field: "day", Message: "missing date"}
	}

	switch req.Kind {
	case KindWork:
		if req.ProjectID == "" {
			return &ValidationError{Field: "project", Message: "work entries require a project"}
		}
		if !req.Hours.IsPositive() {
			return &ValidationError{Field: "hours", Message: "hours must be positive"}
		}
	case KindPermit:
		if !req.Hours.IsPositive() {
			return &ValidationError{Field: "hours", Message: "permit hours must be positive"}
		}
		if req.ProjectID != "" {
			return &ConflictError{Kind: req.Kind, Message: "permit entries carry no project"}
		}
	case KindSickLeave, KindVacation:
		if req.ProjectID != "" || !req.Hours.IsZero() {
			return &ConflictError{Kind: req.Kind, Message: "leave entries carry no project or hours"}
		}
	default:
		return &ValidationError{Field: "kind", Message: "unknown entry kind"}
	}
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteEntry removes what a ClassifiedEntry refers to:
//
//   - a physical work segment: only that segment is removed; remaining
//     segments, permit hours and flags stay;
//   - a leave or work row without a segment id: the whole ledger goes;
//   - a synthetic PERMIT row: permit hours are zeroed while work segments
//     remain, and the ledger goes only when nothing else is left.
//
// Deletion is idempotent: removing an entry that is already gone is a no-op,
// so retries and double-clicks never surface errors.
func (e *Engine) DeleteEntry(ctx context.Context, entry ClassifiedEntry) error {
	if entry.UserID == "" {
		return &ValidationError{Field: "employee", Message: "missing employee id"}
	}

	unlock := e.lockDay(entry.UserID, entry.Date)
	defer unlock()

	if entry.SegmentID != "" {
		if _, err := e.store.DeleteWorkSegment(ctx, entry.SegmentID); err != nil {
			return persistErr("delete work segment", err)
		}
		return e.dropIfEmpty(ctx, entry.UserID, entry.Date)
	}

	if entry.Type != TypePermit {
		// SICK_LEAVE, VACATION and degenerate rows have no independent
		// segment; the day record itself is the entry.
		if _, err := e.store.DeleteDayLedger(ctx, entry.TimesheetID); err != nil {
			return persistErr("delete timesheet", err)
		}
		return nil
	}

	ledger, err := e.store.GetDayLedger(ctx, entry.UserID, entry.Date)
	if err != nil {
		return persistErr("get timesheet", err)
	}
	if ledger == nil {
		return nil
	}

	if len(ledger.WorkedHours) > 0 {
		next := *ledger
		next.WorkedHours = append([]WorkSegment(nil), ledger.WorkedHours...)
		next.PermitsHours = decimal.Zero
		if _, err := e.store.UpdateDayLedger(ctx, next); err != nil {
			return persistErr("update timesheet", err)
		}
		return nil
	}

	if _, err := e.store.DeleteDayLedger(ctx, ledger.ID); err != nil {
		return persistErr("delete timesheet", err)
	}
	return nil
}

// dropIfEmpty deletes the day's ledger once it carries no data. Keeps the
// "no orphan ledger" rule after the last segment of a plain work day goes.
func (e *Engine) dropIfEmpty(ctx context.Context, employeeID string, day Day) error {
	ledger, err := e.store.GetDayLedger(ctx, employeeID, day)
	if err != nil {
		return persistErr("get timesheet", err)
	}
	if ledger == nil || !ledger.IsEmpty() {
		return nil
	}
	if _, err := e.store.DeleteDayLedger(ctx, ledger.ID); err != nil {
		return persistErr("delete timesheet", err)
	}
	return nil
}

// =============================================================================
// READ
// =============================================================================

// Entries lists classified entries matching the filter.
func (e *Engine) Entries(ctx context.Context, filter RowFilter) ([]ClassifiedEntry, error) {
	ledgers, err := e.store.ListLedgers(ctx, filter)
	if err != nil {
		return nil, persistErr("list timesheets", err)
	}
	return ClassifyAll(ledgers), nil
}
