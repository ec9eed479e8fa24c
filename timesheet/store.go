/*
store.go - Persistence collaborator interfaces

PURPOSE:
  Defines the interface between the reconciliation/classification logic and
  the database. Different implementations can use SQLite or in-memory
  storage; the engine never touches SQL directly.

KEY INTERFACES:
  LedgerStore:       DayLedger persistence (get, create, update, delete)
  ProjectDirectory:  Read-only project lookups (name, color, client)
  ClientDirectory:   Read-only client lookups
  UserDirectory:     Read-only user lookups

SINGLE-WRITER CONTRACT:
  The read-modify-write in the reconciliation engine is not compare-and-swap
  protected. The engine serializes writers per (employee, day); store
  implementations only need to make each individual call atomic.

CANONICAL ROWS:
  ListLedgers returns fully normalized DayLedger values. Upstream sources
  disagree on field names (project_id vs projectId, employee vs employee_id);
  that ambiguity is resolved at the decoding edge (api/dto.go) and never
  reaches this interface.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - timesheet/store/memory.go: In-memory for testing
*/
package timesheet

import "context"

// =============================================================================
// LEDGER STORE
// =============================================================================

// RowFilter narrows ListLedgers. Zero values mean "no constraint": a zero
// Month matches the whole Year, AllUsers ignores EmployeeID.
type RowFilter struct {
	EmployeeID string
	Year       int
	Month      int // 1-12, 0 = whole year
	AllUsers   bool
}

// LedgerStore handles persistence of DayLedgers and their work segments.
type LedgerStore interface {
	// GetDayLedger returns the ledger for (employee, day), or nil if absent.
	GetDayLedger(ctx context.Context, employeeID string, day Day) (*DayLedger, error)

	// CreateDayLedger persists a new ledger and returns the stored value
	// (ids assigned).
	CreateDayLedger(ctx context.Context, ledger DayLedger) (DayLedger, error)

	// UpdateDayLedger replaces the stored ledger (segments included) and
	// returns the stored value. Returns ErrNotFound if the id is unknown.
	UpdateDayLedger(ctx context.Context, ledger DayLedger) (DayLedger, error)

	// DeleteDayLedger removes a ledger and its segments.
	// Returns false if the id was already gone.
	DeleteDayLedger(ctx context.Context, id string) (bool, error)

	// DeleteWorkSegment removes a single segment, leaving the rest of the
	// ledger untouched. Returns false if the id was already gone.
	DeleteWorkSegment(ctx context.Context, id string) (bool, error)

	// ListLedgers returns ledgers matching the filter, ordered by day then
	// employee.
	ListLedgers(ctx context.Context, filter RowFilter) ([]DayLedger, error)
}

// =============================================================================
// READ-ONLY DIRECTORIES
// =============================================================================

// ProjectInfo is the directory view of a project.
type ProjectInfo struct {
	ID       string
	Name     string
	Color    string
	ClientID string
	Active   bool
}

// ClientInfo is the directory view of a client.
type ClientInfo struct {
	ID   string
	Name string
}

// UserInfo is the directory view of a user.
type UserInfo struct {
	ID    string
	Name  string
	Email string
	Admin bool
}

// ProjectDirectory resolves project ids. A nil result with nil error means
// the id is unknown; report building substitutes placeholder labels.
type ProjectDirectory interface {
	Project(ctx context.Context, id string) (*ProjectInfo, error)
	Projects(ctx context.Context) ([]ProjectInfo, error)
}

type ClientDirectory interface {
	Client(ctx context.Context, id string) (*ClientInfo, error)
	Clients(ctx context.Context) ([]ClientInfo, error)
}

type UserDirectory interface {
	User(ctx context.Context, id string) (*UserInfo, error)
	Users(ctx context.Context) ([]UserInfo, error)
}

// Directories bundles the three read-only lookups the report and API layers
// need alongside the ledger store.
type Directories interface {
	ProjectDirectory
	ClientDirectory
	UserDirectory
}
