// Package store provides LedgerStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	ledgers map[string]timesheet.DayLedger // by ledger id

	projects map[string]timesheet.ProjectInfo
	clients  map[string]timesheet.ClientInfo
	users    map[string]timesheet.UserInfo
}

func NewMemory() *Memory {
	return &Memory{
		ledgers:  make(map[string]timesheet.DayLedger),
		projects: make(map[string]timesheet.ProjectInfo),
		clients:  make(map[string]timesheet.ClientInfo),
		users:    make(map[string]timesheet.UserInfo),
	}
}

// =============================================================================
// LEDGER STORE
// =============================================================================

func (m *Memory) GetDayLedger(_ context.Context, employeeID string, day timesheet.Day) (*timesheet.DayLedger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.ledgers {
		if l.EmployeeID == employeeID && l.Day.Equal(day) {
			out := copyLedger(l)
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateDayLedger(_ context.Context, ledger timesheet.DayLedger) (timesheet.DayLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ledger.ID == "" {
		ledger.ID = uuid.NewString()
	}
	for i := range ledger.WorkedHours {
		if ledger.WorkedHours[i].ID == "" {
			ledger.WorkedHours[i].ID = uuid.NewString()
		}
	}
	m.ledgers[ledger.ID] = copyLedger(ledger)
	return copyLedger(ledger), nil
}

func (m *Memory) UpdateDayLedger(_ context.Context, ledger timesheet.DayLedger) (timesheet.DayLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ledgers[ledger.ID]; !ok {
		return timesheet.DayLedger{}, &timesheet.NotFoundError{Resource: "timesheet", ID: ledger.ID}
	}
	for i := range ledger.WorkedHours {
		if ledger.WorkedHours[i].ID == "" {
			ledger.WorkedHours[i].ID = uuid.NewString()
		}
	}
	m.ledgers[ledger.ID] = copyLedger(ledger)
	return copyLedger(ledger), nil
}

func (m *Memory) DeleteDayLedger(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ledgers[id]; !ok {
		return false, nil
	}
	delete(m.ledgers, id)
	return true, nil
}

func (m *Memory) DeleteWorkSegment(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for lid, l := range m.ledgers {
		for i, seg := range l.WorkedHours {
			if seg.ID == id {
				next := copyLedger(l)
				next.WorkedHours = append(next.WorkedHours[:i], next.WorkedHours[i+1:]...)
				m.ledgers[lid] = next
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *Memory) ListLedgers(_ context.Context, filter timesheet.RowFilter) ([]timesheet.DayLedger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.DayLedger
	for _, l := range m.ledgers {
		if !filter.AllUsers && filter.EmployeeID != "" && l.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Year != 0 && !l.Day.InMonth(filter.Year, time.Month(filter.Month)) {
			continue
		}
		result = append(result, copyLedger(l))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Day.Equal(result[j].Day) {
			return result[i].Day.Before(result[j].Day)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

func copyLedger(l timesheet.DayLedger) timesheet.DayLedger {
	out := l
	out.WorkedHours = append([]timesheet.WorkSegment(nil), l.WorkedHours...)
	return out
}

// =============================================================================
// DIRECTORIES
// =============================================================================

func (m *Memory) PutProject(p timesheet.ProjectInfo) timesheet.ProjectInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.projects[p.ID] = p
	return p
}

func (m *Memory) PutClient(c timesheet.ClientInfo) timesheet.ClientInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.clients[c.ID] = c
	return c
}

func (m *Memory) PutUser(u timesheet.UserInfo) timesheet.UserInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = u
	return u
}

func (m *Memory) Project(_ context.Context, id string) (*timesheet.ProjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) Projects(_ context.Context) ([]timesheet.ProjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]timesheet.ProjectInfo, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) Client(_ context.Context, id string) (*timesheet.ClientInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *Memory) Clients(_ context.Context) ([]timesheet.ClientInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]timesheet.ClientInfo, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) User(_ context.Context, id string) (*timesheet.UserInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *Memory) Users(_ context.Context) ([]timesheet.UserInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]timesheet.UserInfo, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
