/*
Package report rolls classified timesheet entries into report trees.

PURPOSE:
  Consumes ClassifiedEntry rows (produced on read by the timesheet package)
  and builds the three report hierarchies plus the flat detail rows used for
  raw exports:

    ClientReport:  client -> project -> user
    TeamReport:    user -> project (WORK only, leave tracked separately)
    ProjectReport: project -> user, carrying the owning client's label

DESIGN PRINCIPLES:
  1. Attribution: only WORK hours roll into the trees. Permit, sick and
     vacation entries never attribute hours to a project; the team report
     carries them on per-user leave counters instead.
  2. Determinism: top-level groups sort descending by total hours; equal
     totals keep first-seen order.
  3. Format-agnostic: reports return trees and detail rows, never CSV or
     XLSX bytes. Encoding lives in the export package.
  4. Total reads: unknown directory ids degrade to placeholder labels
     instead of failing the whole report.

SEE ALSO:
  - node.go:      the generic rollup tree
  - dashboard.go: KPI summary built from the same entries
*/
package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine builds reports, resolving ids through the read-only directories.
type Engine struct {
	dirs timesheet.Directories
}

// NewEngine creates an aggregation engine over the given directories.
func NewEngine(dirs timesheet.Directories) *Engine {
	return &Engine{dirs: dirs}
}

// DetailRow is one flat, date-filtered line for raw exports.
type DetailRow struct {
	Date        timesheet.Day
	UserID      string
	UserName    string
	ClientID    string
	ClientName  string
	ProjectID   string
	ProjectName string
	Hours       decimal.Decimal
	Type        timesheet.EntryType
}

// ClientReport groups WORK hours by client, then project, then user.
type ClientReport struct {
	Tree    *ReportNode
	Details []DetailRow
}

// LeaveCounters carries a user's non-attributable time for a period.
type LeaveCounters struct {
	SickDays     int
	VacationDays int
	PermitHours  decimal.Decimal
}

// TeamReport groups WORK hours by user, then project. Users with no WORK
// hours in the period do not appear in the tree; their leave still shows in
// Leave.
type TeamReport struct {
	Tree    *ReportNode
	Leave   map[string]LeaveCounters
	Details []DetailRow
}

// ProjectReport groups WORK hours by project, then user. ClientLabels and
// Colors key off the project id.
type ProjectReport struct {
	Tree         *ReportNode
	ClientLabels map[string]string
	Colors       map[string]string
	Details      []DetailRow
}

// =============================================================================
// LABEL RESOLUTION
// =============================================================================

// resolver memoizes directory lookups for the duration of one report build.
type resolver struct {
	dirs     timesheet.Directories
	projects map[string]*timesheet.ProjectInfo
	clients  map[string]*timesheet.ClientInfo
	users    map[string]*timesheet.UserInfo
}

func newResolver(dirs timesheet.Directories) *resolver {
	return &resolver{
		dirs:     dirs,
		projects: make(map[string]*timesheet.ProjectInfo),
		clients:  make(map[string]*timesheet.ClientInfo),
		users:    make(map[string]*timesheet.UserInfo),
	}
}

func (r *resolver) project(ctx context.Context, id string) (*timesheet.ProjectInfo, error) {
	if p, ok := r.projects[id]; ok {
		return p, nil
	}
	p, err := r.dirs.Project(ctx, id)
	if err != nil {
		return nil, err
	}
	r.projects[id] = p
	return p, nil
}

func (r *resolver) client(ctx context.Context, id string) (*timesheet.ClientInfo, error) {
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	c, err := r.dirs.Client(ctx, id)
	if err != nil {
		return nil, err
	}
	r.clients[id] = c
	return c, nil
}

func (r *resolver) user(ctx context.Context, id string) (*timesheet.UserInfo, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	u, err := r.dirs.User(ctx, id)
	if err != nil {
		return nil, err
	}
	r.users[id] = u
	return u, nil
}

// labels is the resolved naming context of one entry.
type labels struct {
	projectName string
	color       string
	clientID    string
	clientName  string
	userName    string
}

func (r *resolver) labelsFor(ctx context.Context, entry timesheet.ClassifiedEntry) (labels, error) {
	out := labels{projectName: "Unknown", clientName: "Unknown", userName: "Unknown"}

	if entry.ProjectID != "" {
		p, err := r.project(ctx, entry.ProjectID)
		if err != nil {
			return labels{}, err
		}
		if p != nil {
			out.projectName = p.Name
			out.color = p.Color
			out.clientID = p.ClientID
		}
	}
	if out.clientID != "" {
		c, err := r.client(ctx, out.clientID)
		if err != nil {
			return labels{}, err
		}
		if c != nil {
			out.clientName = c.Name
		} else {
			out.clientName = fmt.Sprintf("Client %s", out.clientID)
		}
	}
	u, err := r.user(ctx, entry.UserID)
	if err != nil {
		return labels{}, err
	}
	if u != nil {
		out.userName = u.Name
	}
	return out, nil
}

// =============================================================================
// REPORT BUILDS
// =============================================================================

// filterPeriod keeps the entries inside the period. A zero period keeps all.
func filterPeriod(entries []timesheet.ClassifiedEntry, period timesheet.Period) []timesheet.ClassifiedEntry {
	if period.Start.IsZero() && period.End.IsZero() {
		return entries
	}
	var out []timesheet.ClassifiedEntry
	for _, e := range entries {
		if period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func (e *Engine) detailRow(entry timesheet.ClassifiedEntry, l labels) DetailRow {
	row := DetailRow{
		Date:      entry.Date,
		UserID:    entry.UserID,
		UserName:  l.userName,
		ProjectID: entry.ProjectID,
		Hours:     entry.Hours,
		Type:      entry.Type,
	}
	if entry.Type == timesheet.TypeWork && entry.ProjectID != "" {
		row.ProjectName = l.projectName
		row.ClientID = l.clientID
		row.ClientName = l.clientName
	}
	return row
}

// Client builds the client -> project -> user rollup from WORK entries.
func (e *Engine) Client(ctx context.Context, entries []timesheet.ClassifiedEntry, period timesheet.Period) (*ClientReport, error) {
	res := newResolver(e.dirs)
	root := NewNode("", "All Clients")
	rep := &ClientReport{Tree: root}

	for _, entry := range filterPeriod(entries, period) {
		l, err := res.labelsFor(ctx, entry)
		if err != nil {
			return nil, err
		}
		rep.Details = append(rep.Details, e.detailRow(entry, l))

		if entry.Type != timesheet.TypeWork || entry.ProjectID == "" {
			continue
		}
		root.Add(entry.Hours,
			[2]string{l.clientID, l.clientName},
			[2]string{entry.ProjectID, l.projectName},
			[2]string{entry.UserID, l.userName},
		)
	}

	root.ComputePercents()
	return rep, nil
}

// Team builds the user -> project rollup. Leave entries never attribute hours
// to a project; they count on the user's leave counters instead. Users whose
// WORK total is zero are dropped from the tree afterwards.
func (e *Engine) Team(ctx context.Context, entries []timesheet.ClassifiedEntry, period timesheet.Period) (*TeamReport, error) {
	res := newResolver(e.dirs)
	root := NewNode("", "Team")
	rep := &TeamReport{Tree: root, Leave: make(map[string]LeaveCounters)}

	for _, entry := range filterPeriod(entries, period) {
		l, err := res.labelsFor(ctx, entry)
		if err != nil {
			return nil, err
		}
		rep.Details = append(rep.Details, e.detailRow(entry, l))

		switch entry.Type {
		case timesheet.TypeWork:
			if entry.ProjectID == "" {
				continue
			}
			root.Add(entry.Hours,
				[2]string{entry.UserID, l.userName},
				[2]string{entry.ProjectID, l.projectName},
			)
		case timesheet.TypeSickLeave:
			lc := rep.Leave[entry.UserID]
			lc.SickDays++
			rep.Leave[entry.UserID] = lc
		case timesheet.TypeVacation:
			lc := rep.Leave[entry.UserID]
			lc.VacationDays++
			rep.Leave[entry.UserID] = lc
		case timesheet.TypePermit:
			lc := rep.Leave[entry.UserID]
			lc.PermitHours = lc.PermitHours.Add(entry.PermitsHours)
			rep.Leave[entry.UserID] = lc
		}
	}

	root.dropZeroChildren()
	root.ComputePercents()
	return rep, nil
}

// dropZeroChildren removes direct children with no accumulated hours.
func (n *ReportNode) dropZeroChildren() {
	kept := n.order[:0]
	for _, k := range n.order {
		if n.children[k].TotalHours.IsPositive() {
			kept = append(kept, k)
		} else {
			delete(n.children, k)
		}
	}
	n.order = kept
}

// Project builds the project -> user rollup, tagging each project with its
// owning client's label and its display color.
func (e *Engine) Project(ctx context.Context, entries []timesheet.ClassifiedEntry, period timesheet.Period) (*ProjectReport, error) {
	res := newResolver(e.dirs)
	root := NewNode("", "All Projects")
	rep := &ProjectReport{
		Tree:         root,
		ClientLabels: make(map[string]string),
		Colors:       make(map[string]string),
	}

	for _, entry := range filterPeriod(entries, period) {
		l, err := res.labelsFor(ctx, entry)
		if err != nil {
			return nil, err
		}
		rep.Details = append(rep.Details, e.detailRow(entry, l))

		if entry.Type != timesheet.TypeWork || entry.ProjectID == "" {
			continue
		}
		root.Add(entry.Hours,
			[2]string{entry.ProjectID, l.projectName},
			[2]string{entry.UserID, l.userName},
		)
		rep.ClientLabels[entry.ProjectID] = l.clientName
		rep.Colors[entry.ProjectID] = l.color
	}

	root.ComputePercents()
	return rep, nil
}
