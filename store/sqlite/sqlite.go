/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the persistence interfaces of the timesheet package
  (LedgerStore plus the project/client/user directories) using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  timesheet.LedgerStore:  DayLedger and work segment persistence
  timesheet.Directories:  Read-only project/client/user lookups

KEY TABLES:
  timesheets:    One row per (employee, day); permit hours and leave flags
  work_segments: Project/hours pairs inside a timesheet, ordered by position
  projects:      Project directory (name, color, owning client)
  clients:       Client directory
  users:         User directory

DAY UNIQUENESS:
  UNIQUE(employee_id, day) on timesheets guarantees at most one ledger per
  employee-day. The reconciliation engine relies on that row being the
  single source of truth for the day.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/timetracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := timesheet.NewEngine(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timesheet/store.go: Interface definitions
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Timesheets (one row per employee-day)
	CREATE TABLE IF NOT EXISTS timesheets (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		permits_hours TEXT NOT NULL DEFAULT '0',
		illness BOOLEAN NOT NULL DEFAULT FALSE,
		holiday BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: at most one ledger per employee-day. The reconciliation
	-- engine treats this row as the single source of truth for the day.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheets_employee_day
		ON timesheets(employee_id, day);

	CREATE INDEX IF NOT EXISTS idx_timesheets_day
		ON timesheets(day);

	-- Work segments (project/hours pairs inside a timesheet)
	CREATE TABLE IF NOT EXISTS work_segments (
		id TEXT PRIMARY KEY,
		timesheet_id TEXT NOT NULL REFERENCES timesheets(id) ON DELETE CASCADE,
		project_id TEXT NOT NULL,
		customer_id TEXT,
		hours TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_segments_timesheet
		ON work_segments(timesheet_id);
	CREATE INDEX IF NOT EXISTS idx_segments_project
		ON work_segments(project_id);

	-- Projects
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT,
		client_id TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_client
		ON projects(client_id);

	-- Clients
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Users
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER STORE (timesheet.LedgerStore interface)
// =============================================================================

// GetDayLedger returns the ledger for (employee, day), or nil if absent.
func (s *Store) GetDayLedger(ctx context.Context, employeeID string, day timesheet.Day) (*timesheet.DayLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, day, permits_hours, illness, holiday FROM timesheets WHERE employee_id = ? AND day = ?",
		employeeID, day.String(),
	)

	ledger, err := scanLedger(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadSegments(ctx, map[string]*timesheet.DayLedger{ledger.ID: &ledger}); err != nil {
		return nil, err
	}
	return &ledger, nil
}

// CreateDayLedger persists a new ledger and its segments atomically.
func (s *Store) CreateDayLedger(ctx context.Context, ledger timesheet.DayLedger) (timesheet.DayLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ledger.ID == "" {
		ledger.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return timesheet.DayLedger{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		"INSERT INTO timesheets (id, employee_id, day, permits_hours, illness, holiday, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		ledger.ID, ledger.EmployeeID, ledger.Day.String(),
		ledger.PermitsHours.String(), ledger.Illness, ledger.Holiday, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return timesheet.DayLedger{}, &timesheet.ConflictError{Message: "a timesheet already exists for this day"}
		}
		return timesheet.DayLedger{}, fmt.Errorf("failed to insert timesheet: %w", err)
	}

	if err := insertSegments(ctx, tx, &ledger, now); err != nil {
		return timesheet.DayLedger{}, err
	}

	if err := tx.Commit(); err != nil {
		return timesheet.DayLedger{}, err
	}
	return ledger, nil
}

// UpdateDayLedger replaces the stored ledger, segments included.
// Returns timesheet.ErrNotFound if the id is unknown.
func (s *Store) UpdateDayLedger(ctx context.Context, ledger timesheet.DayLedger) (timesheet.DayLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return timesheet.DayLedger{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		"UPDATE timesheets SET permits_hours = ?, illness = ?, holiday = ?, updated_at = ? WHERE id = ?",
		ledger.PermitsHours.String(), ledger.Illness, ledger.Holiday, now, ledger.ID,
	)
	if err != nil {
		return timesheet.DayLedger{}, fmt.Errorf("failed to update timesheet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timesheet.DayLedger{}, &timesheet.NotFoundError{Resource: "timesheet", ID: ledger.ID}
	}

	// Segments are replaced wholesale; the engine hands us the full set.
	if _, err := tx.ExecContext(ctx, "DELETE FROM work_segments WHERE timesheet_id = ?", ledger.ID); err != nil {
		return timesheet.DayLedger{}, fmt.Errorf("failed to clear segments: %w", err)
	}
	if err := insertSegments(ctx, tx, &ledger, now); err != nil {
		return timesheet.DayLedger{}, err
	}

	if err := tx.Commit(); err != nil {
		return timesheet.DayLedger{}, err
	}
	return ledger, nil
}

// DeleteDayLedger removes a ledger; segments cascade.
// Returns false if the id was already gone.
func (s *Store) DeleteDayLedger(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM timesheets WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteWorkSegment removes a single segment, leaving the timesheet row and
// its other segments untouched. Returns false if the id was already gone.
func (s *Store) DeleteWorkSegment(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM work_segments WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListLedgers returns ledgers matching the filter, ordered by day then
// employee.
func (s *Store) ListLedgers(ctx context.Context, filter timesheet.RowFilter) ([]timesheet.DayLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, employee_id, day, permits_hours, illness, holiday FROM timesheets"
	var conds []string
	var args []any

	if !filter.AllUsers && filter.EmployeeID != "" {
		conds = append(conds, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.Year != 0 {
		conds = append(conds, "substr(day, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", filter.Year))
		if filter.Month != 0 {
			conds = append(conds, "substr(day, 6, 2) = ?")
			args = append(args, fmt.Sprintf("%02d", filter.Month))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY day ASC, employee_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var ledgers []timesheet.DayLedger
	for rows.Next() {
		ledger, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, ledger)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]*timesheet.DayLedger, len(ledgers))
	for i := range ledgers {
		byID[ledgers[i].ID] = &ledgers[i]
	}
	if err := s.loadSegments(ctx, byID); err != nil {
		return nil, err
	}
	return ledgers, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLedger(row scanner) (timesheet.DayLedger, error) {
	var (
		l       timesheet.DayLedger
		dayStr  string
		permits string
	)
	if err := row.Scan(&l.ID, &l.EmployeeID, &dayStr, &permits, &l.Illness, &l.Holiday); err != nil {
		return l, err
	}

	day, err := timesheet.ParseDay(dayStr)
	if err != nil {
		return l, fmt.Errorf("failed to parse stored day %q: %w", dayStr, err)
	}
	l.Day = day
	l.PermitsHours, _ = decimal.NewFromString(permits)
	return l, nil
}

// loadSegments attaches work segments to the given ledgers, preserving
// insertion order.
func (s *Store) loadSegments(ctx context.Context, byID map[string]*timesheet.DayLedger) error {
	if len(byID) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(byID))
	args := make([]any, 0, len(byID))
	for id := range byID {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"SELECT id, timesheet_id, project_id, customer_id, hours FROM work_segments WHERE timesheet_id IN (%s) ORDER BY timesheet_id, position ASC",
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seg         timesheet.WorkSegment
			timesheetID string
			customerID  sql.NullString
			hours       string
		)
		if err := rows.Scan(&seg.ID, &timesheetID, &seg.ProjectID, &customerID, &hours); err != nil {
			return fmt.Errorf("failed to scan segment: %w", err)
		}
		seg.CustomerID = customerID.String
		seg.Hours, _ = decimal.NewFromString(hours)

		if l, ok := byID[timesheetID]; ok {
			l.WorkedHours = append(l.WorkedHours, seg)
		}
	}
	return rows.Err()
}

func insertSegments(ctx context.Context, tx *sql.Tx, ledger *timesheet.DayLedger, now string) error {
	for i := range ledger.WorkedHours {
		seg := &ledger.WorkedHours[i]
		if seg.ID == "" {
			seg.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO work_segments (id, timesheet_id, project_id, customer_id, hours, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			seg.ID, ledger.ID, seg.ProjectID, nullString(seg.CustomerID), seg.Hours.String(), i, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment: %w", err)
		}
	}
	return nil
}

// =============================================================================
// PROJECT DIRECTORY
// =============================================================================

// SaveProject inserts or updates a project.
func (s *Store) SaveProject(ctx context.Context, p timesheet.ProjectInfo) (timesheet.ProjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO projects (id, name, color, client_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			client_id = excluded.client_id,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, nullString(p.Color), nullString(p.ClientID), p.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	return p, err
}

// Project retrieves a project by ID, nil if unknown.
func (s *Store) Project(ctx context.Context, id string) (*timesheet.ProjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p timesheet.ProjectInfo
	var color, clientID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, color, client_id, active FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &color, &clientID, &p.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Color = color.String
	p.ClientID = clientID.String
	return &p, nil
}

// Projects returns all projects ordered by name.
func (s *Store) Projects(ctx context.Context) ([]timesheet.ProjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color, client_id, active FROM projects ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []timesheet.ProjectInfo
	for rows.Next() {
		var p timesheet.ProjectInfo
		var color, clientID sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &color, &clientID, &p.Active); err != nil {
			return nil, err
		}
		p.Color = color.String
		p.ClientID = clientID.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

// =============================================================================
// CLIENT DIRECTORY
// =============================================================================

// SaveClient inserts or updates a client.
func (s *Store) SaveClient(ctx context.Context, c timesheet.ClientInfo) (timesheet.ClientInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO clients (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, time.Now().UTC().Format(time.RFC3339))
	return c, err
}

// Client retrieves a client by ID, nil if unknown.
func (s *Store) Client(ctx context.Context, id string) (*timesheet.ClientInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c timesheet.ClientInfo
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM clients WHERE id = ?", id,
	).Scan(&c.ID, &c.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Clients returns all clients ordered by name.
func (s *Store) Clients(ctx context.Context) ([]timesheet.ClientInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []timesheet.ClientInfo
	for rows.Next() {
		var c timesheet.ClientInfo
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// DeleteClient removes a client.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	return err
}

// =============================================================================
// USER DIRECTORY
// =============================================================================

// SaveUser inserts or updates a user.
func (s *Store) SaveUser(ctx context.Context, u timesheet.UserInfo) (timesheet.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, name, email, admin, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			admin = excluded.admin
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, nullString(u.Email), u.Admin,
		time.Now().UTC().Format(time.RFC3339),
	)
	return u, err
}

// User retrieves a user by ID, nil if unknown.
func (s *Store) User(ctx context.Context, id string) (*timesheet.UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u timesheet.UserInfo
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, admin FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &email, &u.Admin)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

// Users returns all users ordered by name.
func (s *Store) Users(ctx context.Context) ([]timesheet.UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, email, admin FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []timesheet.UserInfo
	for rows.Next() {
		var u timesheet.UserInfo
		var email sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &email, &u.Admin); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"work_segments", "timesheets", "projects", "clients", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
