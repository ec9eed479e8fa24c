/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NORMALIZATION BOUNDARY:
  Upstream clients disagree on field names: project_id vs projectId,
  employee vs employee_id vs userId, day vs date. AddEntryRequest's custom
  UnmarshalJSON is the single place that resolves those aliases into the
  canonical internal record. Business logic never branches on which field
  name was present.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Shape validation (dates, hours, aliases) happens while decoding here;
  semantic validation (work/leave rules) belongs to the reconciliation
  engine.

SEE ALSO:
  - handlers.go: Uses these types
  - timesheet/types.go: Canonical internal records
*/
package api

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

// EntryDTO represents a classified entry in API responses.
type EntryDTO struct {
	ID           string          `json:"id"`
	SegmentID    string          `json:"segment_id,omitempty"`
	TimesheetID  string          `json:"timesheet_id"`
	EmployeeID   string          `json:"employee_id"`
	ProjectID    string          `json:"project_id,omitempty"`
	Date         string          `json:"date"`
	Hours        decimal.Decimal `json:"hours"`
	Type         string          `json:"type"`
	PermitsHours decimal.Decimal `json:"permits_hours"`
	Illness      bool            `json:"illness"`
	Holiday      bool            `json:"holiday"`
}

func toEntryDTO(e timesheet.ClassifiedEntry) EntryDTO {
	return EntryDTO{
		ID:           e.ID,
		SegmentID:    e.SegmentID,
		TimesheetID:  e.TimesheetID,
		EmployeeID:   e.UserID,
		ProjectID:    e.ProjectID,
		Date:         e.Date.String(),
		Hours:        e.Hours,
		Type:         string(e.Type),
		PermitsHours: e.PermitsHours,
		Illness:      e.Illness,
		Holiday:      e.Holiday,
	}
}

func toEntryDTOs(entries []timesheet.ClassifiedEntry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

// AddEntryRequest is the canonical add request after alias resolution.
type AddEntryRequest struct {
	EmployeeID string
	Date       timesheet.Day
	EndDate    timesheet.Day
	Recurrence timesheet.Rule
	Kind       timesheet.EntryKind
	ProjectID  string
	CustomerID string
	Hours      decimal.Decimal
}

// UnmarshalJSON resolves field-name aliases into the canonical record.
func (req *AddEntryRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Employee    string `json:"employee"`
		EmployeeID  string `json:"employee_id"`
		UserID      string `json:"userId"`
		Day         string `json:"day"`
		Date        string `json:"date"`
		EndDate     string `json:"end_date"`
		EndDateAlt  string `json:"endDate"`
		Recurrence  string `json:"recurrence"`
		Kind        string `json:"kind"`
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		ProjectAlt  string `json:"projectId"`
		CustomerID  string `json:"customer_id"`
		CustomerAlt string `json:"customerId"`
		Hours       json.Number `json:"hours"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	req.EmployeeID = firstNonEmpty(raw.EmployeeID, raw.Employee, raw.UserID)
	req.ProjectID = firstNonEmpty(raw.ProjectID, raw.ProjectAlt)
	req.CustomerID = firstNonEmpty(raw.CustomerID, raw.CustomerAlt)

	dateStr := firstNonEmpty(raw.Date, raw.Day)
	if dateStr != "" {
		d, err := timesheet.ParseDay(dateStr)
		if err != nil {
			return &timesheet.ValidationError{Field: "date", Message: err.Error()}
		}
		req.Date = d
	}
	endStr := firstNonEmpty(raw.EndDate, raw.EndDateAlt)
	if endStr != "" {
		d, err := timesheet.ParseDay(endStr)
		if err != nil {
			return &timesheet.ValidationError{Field: "end_date", Message: err.Error()}
		}
		req.EndDate = d
	}

	rule, err := timesheet.ParseRule(raw.Recurrence)
	if err != nil {
		return err
	}
	req.Recurrence = rule
	req.Kind = timesheet.EntryKind(firstNonEmpty(raw.Kind, raw.Type))

	if raw.Hours != "" {
		h, err := decimal.NewFromString(raw.Hours.String())
		if err != nil {
			return &timesheet.ValidationError{Field: "hours", Message: fmt.Sprintf("invalid hours %q", raw.Hours)}
		}
		req.Hours = h
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// BatchResultDTO reports the per-date outcomes of a recurring add.
type BatchResultDTO struct {
	Succeeded []string         `json:"succeeded"`
	Failed    []DateFailureDTO `json:"failed"`
}

// DateFailureDTO is one failed date in a batch.
type DateFailureDTO struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

func toBatchResultDTO(result timesheet.BatchResult) BatchResultDTO {
	dto := BatchResultDTO{Succeeded: []string{}, Failed: []DateFailureDTO{}}
	for _, d := range result.Succeeded {
		dto.Succeeded = append(dto.Succeeded, d.String())
	}
	for _, f := range result.Failed {
		dto.Failed = append(dto.Failed, DateFailureDTO{Date: f.Date.String(), Error: f.Err.Error()})
	}
	return dto
}

// =============================================================================
// DIRECTORY TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Active   bool   `json:"active"`
}

// SaveProjectRequest is the request to create or update a project.
type SaveProjectRequest struct {
	Name     string
	Color    string
	ClientID string
	Active   *bool
}

// UnmarshalJSON accepts both client_id and customerId for the owning client.
func (req *SaveProjectRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string `json:"name"`
		Color     string `json:"color"`
		ClientID  string `json:"client_id"`
		ClientAlt string `json:"customerId"`
		Active    *bool  `json:"active"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	req.Name = raw.Name
	req.Color = raw.Color
	req.ClientID = firstNonEmpty(raw.ClientID, raw.ClientAlt)
	req.Active = raw.Active
	return nil
}

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SaveClientRequest is the request to create or update a client.
type SaveClientRequest struct {
	Name string `json:"name"`
}

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
}

// SaveUserRequest is the request to create or update a user.
type SaveUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// ReportNodeDTO is the JSON shape of one rollup tree node. Children are
// pre-sorted descending by total hours.
type ReportNodeDTO struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	TotalHours decimal.Decimal `json:"total_hours"`
	Percent    string          `json:"percent"`
	Children   []ReportNodeDTO `json:"children,omitempty"`
}

func toReportNodeDTO(n *report.ReportNode) ReportNodeDTO {
	dto := ReportNodeDTO{
		Key:        n.Key,
		Label:      n.Label,
		TotalHours: n.TotalHours,
		Percent:    n.Percent.StringFixed(1),
	}
	for _, c := range n.Sorted() {
		dto.Children = append(dto.Children, toReportNodeDTO(c))
	}
	return dto
}

// LeaveCountersDTO carries a user's non-attributable time.
type LeaveCountersDTO struct {
	SickDays     int             `json:"sick_days"`
	VacationDays int             `json:"vacation_days"`
	PermitHours  decimal.Decimal `json:"permit_hours"`
}

// TeamReportDTO is the team report response.
type TeamReportDTO struct {
	Tree  ReportNodeDTO               `json:"tree"`
	Leave map[string]LeaveCountersDTO `json:"leave"`
}

// ProjectReportDTO is the project report response.
type ProjectReportDTO struct {
	Tree         ReportNodeDTO     `json:"tree"`
	ClientLabels map[string]string `json:"client_labels"`
	Colors       map[string]string `json:"colors"`
}

// TrendPointDTO is one day of the dashboard trend.
type TrendPointDTO struct {
	Date  string          `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

// DashboardDTO is the KPI summary response.
type DashboardDTO struct {
	WorkedHours    decimal.Decimal `json:"worked_hours"`
	PermitHours    decimal.Decimal `json:"permit_hours"`
	SickDays       int             `json:"sick_days"`
	VacationDays   int             `json:"vacation_days"`
	ActiveProjects int             `json:"active_projects"`
	PerProject     ReportNodeDTO   `json:"per_project"`
	Trend          []TrendPointDTO `json:"trend"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
