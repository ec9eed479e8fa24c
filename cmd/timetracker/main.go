/*
main.go - Application entry point

PURPOSE:
  Command-line interface for the timetracker engine.

COMMANDS:
  serve    Run the HTTP API server (graceful shutdown on SIGINT/SIGTERM)
  export   Write a report export (csv or xlsx) without running the server

EXAMPLES:
  # Run with file database
  ./timetracker serve --config=config.yaml

  # Export last month's detail rows
  ./timetracker export --db=./data/timetracker.db --kind=details \
      --year=2026 --month=7 --format=xlsx --out=report.xlsx

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timetracker",
	Short: "Timesheet reconciliation and reporting engine",
	Long: `timetracker records per-day work, permit and leave entries, reconciles
them into a consistent day ledger, and rolls them up into client, team and
project reports.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}
