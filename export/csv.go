/*
Package export encodes report output as downloadable files.

PURPOSE:
  Turns the format-agnostic output of the report package (detail rows and
  rollup trees) into CSV and XLSX bytes. The aggregation engine never
  produces file bytes itself; this package is the only place that knows
  about columns and sheets.

FORMATS:
  CSV:  encoding/csv with a UTF-8 BOM so Excel detects the encoding
  XLSX: excelize, one sheet per export

COLUMNS:
  Detail: Date, User, Client, Project, Hours
  Client: Client, Total Hours, Active Projects
  Team:   Name, Email, Total Hours
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/timesheet"
)

// utf8BOM lets Excel detect the encoding of a CSV download.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetailHeader is the column set of the raw detail export.
var DetailHeader = []string{"Date", "User", "Client", "Project", "Hours"}

// WriteDetailCSV writes detail rows as CSV. Hours render in the display
// unit; leave rows keep empty client/project columns.
func WriteDetailCSV(w io.Writer, rows []report.DetailRow, unit timesheet.Unit) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(DetailHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Date.String(),
			r.UserName,
			r.ClientName,
			r.ProjectName,
			timesheet.FormatHours(r.Hours, unit),
		}
		if r.Type != timesheet.TypeWork {
			record[2] = ""
			record[3] = string(r.Type)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClientCSV writes the client rollup: one line per client, descending
// by total hours.
func WriteClientCSV(w io.Writer, rep *report.ClientReport, unit timesheet.Unit) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Client", "Total Hours", "Active Projects"}); err != nil {
		return err
	}
	for _, client := range rep.Tree.Sorted() {
		record := []string{
			client.Label,
			timesheet.FormatHours(client.TotalHours, unit),
			fmt.Sprintf("%d", len(client.Children())),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTeamCSV writes the team rollup: one line per user, descending by
// total hours. Users without WORK hours in the period are absent, matching
// the report tree.
func WriteTeamCSV(w io.Writer, rep *report.TeamReport, emails map[string]string, unit timesheet.Unit) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Total Hours"}); err != nil {
		return err
	}
	for _, user := range rep.Tree.Sorted() {
		record := []string{
			user.Label,
			emails[user.Key],
			timesheet.FormatHours(user.TotalHours, unit),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
