package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// DASHBOARD SUMMARY - KPI rollup
// =============================================================================

// TrendPoint is one day of the worked-hours trend.
type TrendPoint struct {
	Date  timesheet.Day
	Hours decimal.Decimal
}

// DashboardSummary carries the KPI numbers for one employee's period.
type DashboardSummary struct {
	WorkedHours    decimal.Decimal
	PermitHours    decimal.Decimal
	SickDays       int
	VacationDays   int
	ActiveProjects int

	// PerProject distributes worked hours across projects, descending.
	PerProject *ReportNode

	// Trend covers the last seven days ending at the reference day, zero
	// filled so charts always get seven points.
	Trend []TrendPoint
}

// Dashboard summarizes the entries for the KPI view. The reference day
// anchors the seven-day trend window.
func (e *Engine) Dashboard(ctx context.Context, entries []timesheet.ClassifiedEntry, reference timesheet.Day) (*DashboardSummary, error) {
	res := newResolver(e.dirs)
	sum := &DashboardSummary{
		WorkedHours: decimal.Zero,
		PermitHours: decimal.Zero,
		PerProject:  NewNode("", "Projects"),
	}

	trendStart := reference.AddDays(-6)
	byDay := make(map[string]decimal.Decimal)

	for _, entry := range entries {
		switch entry.Type {
		case timesheet.TypeWork:
			sum.WorkedHours = sum.WorkedHours.Add(entry.Hours)
			if entry.ProjectID != "" && entry.Hours.IsPositive() {
				l, err := res.labelsFor(ctx, entry)
				if err != nil {
					return nil, err
				}
				sum.PerProject.Add(entry.Hours, [2]string{entry.ProjectID, l.projectName})
			}
			if trendStart.BeforeOrEqual(entry.Date) && entry.Date.BeforeOrEqual(reference) {
				k := entry.Date.String()
				byDay[k] = byDay[k].Add(entry.Hours)
			}
		case timesheet.TypePermit:
			sum.PermitHours = sum.PermitHours.Add(entry.PermitsHours)
		case timesheet.TypeSickLeave:
			sum.SickDays++
		case timesheet.TypeVacation:
			sum.VacationDays++
		}
	}

	sum.ActiveProjects = len(sum.PerProject.Children())
	sum.PerProject.ComputePercents()

	for d := trendStart; d.BeforeOrEqual(reference); d = d.AddDays(1) {
		sum.Trend = append(sum.Trend, TrendPoint{Date: d, Hours: byDay[d.String()]})
	}
	return sum, nil
}
