package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/salvatoreiannola72/timetracker/export"
	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/store/sqlite"
	"github.com/salvatoreiannola72/timetracker/timesheet"
)

var (
	exportDB       string
	exportKind     string
	exportFormat   string
	exportUnit     string
	exportOut      string
	exportEmployee string
	exportYear     int
	exportMonth    int
	exportAllUsers bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report export without running the server",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "./data/timetracker.db", "SQLite database path")
	exportCmd.Flags().StringVar(&exportKind, "kind", "details", "Export kind: details, clients, team")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, xlsx")
	exportCmd.Flags().StringVar(&exportUnit, "unit", "hours", "Display unit: hours, days")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportEmployee, "employee", "", "Restrict to one employee id")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Restrict to a year")
	exportCmd.Flags().IntVar(&exportMonth, "month", 0, "Restrict to a month (1-12, requires --year)")
	exportCmd.Flags().BoolVar(&exportAllUsers, "all-users", false, "Include every user")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := sqlite.New(exportDB)
	if err != nil {
		return err
	}
	defer store.Close()

	unit, err := timesheet.ParseUnit(exportUnit)
	if err != nil {
		return err
	}

	engine := timesheet.NewEngine(store)
	entries, err := engine.Entries(ctx, timesheet.RowFilter{
		EmployeeID: exportEmployee,
		Year:       exportYear,
		Month:      exportMonth,
		AllUsers:   exportAllUsers || exportEmployee == "",
	})
	if err != nil {
		return err
	}

	var period timesheet.Period
	if exportYear != 0 {
		if exportMonth != 0 {
			period = timesheet.MonthPeriod(exportYear, time.Month(exportMonth))
		} else {
			period = timesheet.YearPeriod(exportYear)
		}
	}

	var out io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	reports := report.NewEngine(store)

	switch exportKind {
	case "clients":
		rep, err := reports.Client(ctx, entries, period)
		if err != nil {
			return err
		}
		if exportFormat == "xlsx" {
			return export.WriteClientXLSX(out, rep, unit)
		}
		return export.WriteClientCSV(out, rep, unit)

	case "team":
		rep, err := reports.Team(ctx, entries, period)
		if err != nil {
			return err
		}
		users, err := store.Users(ctx)
		if err != nil {
			return err
		}
		emails := make(map[string]string, len(users))
		for _, u := range users {
			emails[u.ID] = u.Email
		}
		if exportFormat == "xlsx" {
			return export.WriteTeamXLSX(out, rep, emails, unit)
		}
		return export.WriteTeamCSV(out, rep, emails, unit)

	default: // details
		rep, err := reports.Client(ctx, entries, period)
		if err != nil {
			return err
		}
		if exportFormat == "xlsx" {
			return export.WriteDetailXLSX(out, rep.Details, unit)
		}
		return export.WriteDetailCSV(out, rep.Details, unit)
	}
}
