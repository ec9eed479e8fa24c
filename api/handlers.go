/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Entries:
    GET    /api/entries               List classified entries
    POST   /api/entries               Add an entry (with optional recurrence)
    DELETE /api/entries               Delete the entry named by query params

  Reports:
    GET    /api/reports/clients       Client -> project -> user rollup
    GET    /api/reports/team          User -> project rollup + leave counters
    GET    /api/reports/projects      Project -> user rollup
    GET    /api/dashboard             KPI summary

  Exports:
    GET    /api/exports/details       Raw detail rows (csv or xlsx)
    GET    /api/exports/clients       Client rollup (csv or xlsx)
    GET    /api/exports/team          Team rollup (csv or xlsx)

  Directories:
    GET/POST        /api/projects     Project CRUD
    PUT/DELETE      /api/projects/{id}
    GET/POST        /api/customers    Client CRUD
    PUT/DELETE      /api/customers/{id}
    GET/POST        /api/employees    User CRUD
    PUT/DELETE      /api/employees/{id}

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store:   Database access (ledger + directories)
  - Engine:  Reconciliation and recurrence
  - Reports: Aggregation
  - Cache:   Read-through directory cache, invalidated on directory writes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (mixed leave/work signals, duplicate day)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salvatoreiannola72/timetracker/export"
	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/store/sqlite"
	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Engine  *timesheet.Engine
	Reports *report.Engine
	Cache   *timesheet.DirectoryCache
}

// NewHandler creates a new handler over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	cache := timesheet.NewDirectoryCache(store)
	return &Handler{
		Store:   store,
		Engine:  timesheet.NewEngine(store),
		Reports: report.NewEngine(cache),
		Cache:   cache,
	}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns classified entries matching the query filter.
// GET /api/entries?employee=&year=&month=&all_users=
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRowFilter(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.Engine.Entries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// AddEntry records an entry, expanding the recurrence rule when present.
// POST /api/entries
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, err)
		return
	}

	add := timesheet.AddRequest{
		Kind:       req.Kind,
		ProjectID:  req.ProjectID,
		CustomerID: req.CustomerID,
		Hours:      req.Hours,
	}

	if req.Recurrence == timesheet.RuleNone {
		ledger, err := h.Engine.AddEntry(r.Context(), req.EmployeeID, req.Date, add)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEntryDTOs(timesheet.Classify(ledger)))
		return
	}

	end := req.EndDate
	if end.IsZero() {
		writeDomainError(w, &timesheet.ValidationError{Field: "end_date", Message: "recurring entries require an end date"})
		return
	}

	result := h.Engine.AddRecurring(r.Context(), req.EmployeeID, req.Date, end, req.Recurrence, add)
	status := http.StatusCreated
	if result.HasFailures() {
		// Partial failure stays visible: report all outcomes with 207.
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, toBatchResultDTO(result))
}

// DeleteEntry removes the entry named by query parameters. Deletion is
// idempotent; removing an already-gone entry returns 204 as well.
// DELETE /api/entries?id=&segment_id=&timesheet_id=&type=&employee=&date=
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	entry := timesheet.ClassifiedEntry{
		ID:          q.Get("id"),
		SegmentID:   q.Get("segment_id"),
		TimesheetID: q.Get("timesheet_id"),
		UserID:      firstNonEmpty(q.Get("employee"), q.Get("employee_id")),
		Type:        timesheet.EntryType(q.Get("type")),
	}
	if dateStr := q.Get("date"); dateStr != "" {
		d, err := timesheet.ParseDay(dateStr)
		if err != nil {
			writeDomainError(w, &timesheet.ValidationError{Field: "date", Message: err.Error()})
			return
		}
		entry.Date = d
	}

	if err := h.Engine.DeleteEntry(r.Context(), entry); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// ClientReport returns the client -> project -> user rollup.
// GET /api/reports/clients?employee=&year=&month=&all_users=
func (h *Handler) ClientReport(w http.ResponseWriter, r *http.Request) {
	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rep, err := h.Reports.Client(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportNodeDTO(rep.Tree))
}

// TeamReport returns the user -> project rollup with leave counters.
// GET /api/reports/team?year=&month=
func (h *Handler) TeamReport(w http.ResponseWriter, r *http.Request) {
	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rep, err := h.Reports.Team(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := TeamReportDTO{Tree: toReportNodeDTO(rep.Tree), Leave: make(map[string]LeaveCountersDTO)}
	for id, lc := range rep.Leave {
		dto.Leave[id] = LeaveCountersDTO{
			SickDays:     lc.SickDays,
			VacationDays: lc.VacationDays,
			PermitHours:  lc.PermitHours,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// ProjectReport returns the project -> user rollup.
// GET /api/reports/projects?year=&month=
func (h *Handler) ProjectReport(w http.ResponseWriter, r *http.Request) {
	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rep, err := h.Reports.Project(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectReportDTO{
		Tree:         toReportNodeDTO(rep.Tree),
		ClientLabels: rep.ClientLabels,
		Colors:       rep.Colors,
	})
}

// Dashboard returns the KPI summary for one employee.
// GET /api/dashboard?employee=&year=&month=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRowFilter(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.Engine.Entries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sum, err := h.Reports.Dashboard(r.Context(), entries, timesheet.Today())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := DashboardDTO{
		WorkedHours:    sum.WorkedHours,
		PermitHours:    sum.PermitHours,
		SickDays:       sum.SickDays,
		VacationDays:   sum.VacationDays,
		ActiveProjects: sum.ActiveProjects,
		PerProject:     toReportNodeDTO(sum.PerProject),
		Trend:          []TrendPointDTO{},
	}
	for _, p := range sum.Trend {
		dto.Trend = append(dto.Trend, TrendPointDTO{Date: p.Date.String(), Hours: p.Hours})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportDetails streams the raw detail rows as CSV or XLSX.
// GET /api/exports/details?format=csv|xlsx&unit=hours|days&...filter
func (h *Handler) ExportDetails(w http.ResponseWriter, r *http.Request) {
	unit, err := timesheet.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rep, err := h.Reports.Client(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch exportFormat(r) {
	case "xlsx":
		setDownloadHeaders(w, "timesheet", "xlsx")
		if err := export.WriteDetailXLSX(w, rep.Details, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	default:
		setDownloadHeaders(w, "timesheet", "csv")
		if err := export.WriteDetailCSV(w, rep.Details, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	}
}

// ExportClients streams the client rollup as CSV or XLSX.
// GET /api/exports/clients?format=&unit=&...filter
func (h *Handler) ExportClients(w http.ResponseWriter, r *http.Request) {
	unit, err := timesheet.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rep, err := h.Reports.Client(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch exportFormat(r) {
	case "xlsx":
		setDownloadHeaders(w, "clients", "xlsx")
		if err := export.WriteClientXLSX(w, rep, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	default:
		setDownloadHeaders(w, "clients", "csv")
		if err := export.WriteClientCSV(w, rep, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	}
}

// ExportTeam streams the team rollup as CSV or XLSX.
// GET /api/exports/team?format=&unit=&...filter
func (h *Handler) ExportTeam(w http.ResponseWriter, r *http.Request) {
	unit, err := timesheet.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, period, err := h.reportInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rep, err := h.Reports.Team(r.Context(), entries, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	users, err := h.Cache.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	switch exportFormat(r) {
	case "xlsx":
		setDownloadHeaders(w, "team", "xlsx")
		if err := export.WriteTeamXLSX(w, rep, emails, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	default:
		setDownloadHeaders(w, "team", "csv")
		if err := export.WriteTeamCSV(w, rep, emails, unit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write export", err)
		}
	}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Cache.Projects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.saveProject(w, r, "")
}

// UpdateProject updates an existing project.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	h.saveProject(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveProject(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Project name is required", nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p, err := h.Store.SaveProject(r.Context(), timesheet.ProjectInfo{
		ID:       id,
		Name:     req.Name,
		Color:    req.Color,
		ClientID: req.ClientID,
		Active:   active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	h.Cache.Invalidate()

	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, toProjectDTO(p))
}

// DeleteProject removes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func toProjectDTO(p timesheet.ProjectInfo) ProjectDTO {
	return ProjectDTO{ID: p.ID, Name: p.Name, Color: p.Color, ClientID: p.ClientID, Active: p.Active}
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Cache.Clients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = ClientDTO{ID: c.ID, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient creates a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, "")
}

// UpdateClient updates an existing client.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveClient(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}

	c, err := h.Store.SaveClient(r.Context(), timesheet.ClientInfo{ID: id, Name: req.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save client", err)
		return
	}
	h.Cache.Invalidate()

	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, ClientDTO{ID: c.ID, Name: c.Name})
}

// DeleteClient removes a client.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}
	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Cache.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser creates a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	h.saveUser(w, r, "")
}

// UpdateUser updates an existing user.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	h.saveUser(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveUser(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "User name is required", nil)
		return
	}

	u, err := h.Store.SaveUser(r.Context(), timesheet.UserInfo{
		ID: id, Name: req.Name, Email: req.Email, Admin: req.Admin,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save user", err)
		return
	}
	h.Cache.Invalidate()

	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin})
}

// DeleteUser removes a user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}
	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// parseRowFilter reads the shared listing filter from query parameters.
func parseRowFilter(r *http.Request) (timesheet.RowFilter, error) {
	q := r.URL.Query()
	filter := timesheet.RowFilter{
		EmployeeID: firstNonEmpty(q.Get("employee"), q.Get("employee_id")),
		AllUsers:   q.Get("all_users") == "true",
	}

	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return filter, &timesheet.ValidationError{Field: "year", Message: fmt.Sprintf("invalid year %q", y)}
		}
		filter.Year = year
	}
	if m := q.Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			return filter, &timesheet.ValidationError{Field: "month", Message: fmt.Sprintf("invalid month %q", m)}
		}
		filter.Month = month
	}
	return filter, nil
}

// reportInput loads the classified entries and the matching period for a
// report request.
func (h *Handler) reportInput(r *http.Request) ([]timesheet.ClassifiedEntry, timesheet.Period, error) {
	filter, err := parseRowFilter(r)
	if err != nil {
		return nil, timesheet.Period{}, err
	}

	entries, err := h.Engine.Entries(r.Context(), filter)
	if err != nil {
		return nil, timesheet.Period{}, err
	}

	var period timesheet.Period
	if filter.Year != 0 {
		if filter.Month != 0 {
			period = timesheet.MonthPeriod(filter.Year, time.Month(filter.Month))
		} else {
			period = timesheet.YearPeriod(filter.Year)
		}
	}
	return entries, period, nil
}

func exportFormat(r *http.Request) string {
	if r.URL.Query().Get("format") == "xlsx" {
		return "xlsx"
	}
	return "csv"
}

func setDownloadHeaders(w http.ResponseWriter, name, format string) {
	filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102"), format)
	if format == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timesheet.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, timesheet.ErrConflict):
		writeError(w, http.StatusConflict, "Conflicting request", err)
	case errors.Is(err, timesheet.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
