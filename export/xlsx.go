package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// =============================================================================
// XLSX EXPORT - excelize, one sheet per export
// =============================================================================

// WriteDetailXLSX writes detail rows as an XLSX workbook.
func WriteDetailXLSX(w io.Writer, rows []report.DetailRow, unit timesheet.Unit) error {
	f := excelize.NewFile()
	sheetName := "Timesheet"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range DetailHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, r := range rows {
		row := idx + 2

		client := r.ClientName
		project := r.ProjectName
		if r.Type != timesheet.TypeWork {
			client = ""
			project = string(r.Type)
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Date.String())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.UserName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), client)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), project)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), timesheet.FormatHours(r.Hours, unit))
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 25)
	f.SetColWidth(sheetName, "E", "E", 10)

	return f.Write(w)
}

// WriteClientXLSX writes the client rollup as an XLSX workbook.
func WriteClientXLSX(w io.Writer, rep *report.ClientReport, unit timesheet.Unit) error {
	f := excelize.NewFile()
	sheetName := "Clients"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Client", "Total Hours", "Active Projects"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, client := range rep.Tree.Sorted() {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), client.Label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), timesheet.FormatHours(client.TotalHours, unit))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), len(client.Children()))
	}

	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 15)

	return f.Write(w)
}

// WriteTeamXLSX writes the team rollup as an XLSX workbook.
func WriteTeamXLSX(w io.Writer, rep *report.TeamReport, emails map[string]string, unit timesheet.Unit) error {
	f := excelize.NewFile()
	sheetName := "Team"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Email", "Total Hours"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, user := range rep.Tree.Sorted() {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), user.Label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), emails[user.Key])
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), timesheet.FormatHours(user.TotalHours, unit))
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 12)

	return f.Write(w)
}
