package timesheet_test

import (
	"testing"
	"time"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

func TestParseDay(t *testing.T) {
	d, err := timesheet.ParseDay("2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year != 2024 || d.Month != time.February || d.Date != 29 {
		t.Errorf("got %+v", d)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("round trip broke: %s", d.String())
	}

	for _, bad := range []string{"29/02/2024", "2024-13-01", "2024-02-30", "yesterday", ""} {
		if _, err := timesheet.ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q) should fail", bad)
		}
	}
}

func TestDay_AddDaysAcrossMonthEnd(t *testing.T) {
	d := timesheet.NewDay(2024, time.January, 31)

	next := d.AddDays(1)
	if next.String() != "2024-02-01" {
		t.Errorf("expected 2024-02-01, got %s", next)
	}

	prev := timesheet.NewDay(2024, time.March, 1).AddDays(-1)
	if prev.String() != "2024-02-29" {
		t.Errorf("leap day expected, got %s", prev)
	}
}

func TestDay_Comparison(t *testing.T) {
	a := timesheet.NewDay(2024, time.March, 11)
	b := timesheet.NewDay(2024, time.March, 12)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is broken")
	}
	if !a.BeforeOrEqual(a) || !a.AfterOrEqual(a) {
		t.Error("the OrEqual variants must accept equal days")
	}
	if !b.After(a) {
		t.Error("After is broken")
	}
}

func TestDay_IsWeekend(t *testing.T) {
	if timesheet.NewDay(2024, time.January, 1).IsWeekend() {
		t.Error("2024-01-01 is a Monday")
	}
	if !timesheet.NewDay(2024, time.January, 6).IsWeekend() {
		t.Error("2024-01-06 is a Saturday")
	}
	if !timesheet.NewDay(2024, time.January, 7).IsWeekend() {
		t.Error("2024-01-07 is a Sunday")
	}
}

func TestMonthPeriod(t *testing.T) {
	p := timesheet.MonthPeriod(2024, time.February)

	if p.Start.String() != "2024-02-01" || p.End.String() != "2024-02-29" {
		t.Errorf("got %s", p)
	}
	if !p.Contains(timesheet.NewDay(2024, time.February, 15)) {
		t.Error("mid-month day must be inside the period")
	}
	if p.Contains(timesheet.NewDay(2024, time.March, 1)) {
		t.Error("next month must be outside the period")
	}
}

func TestDay_InMonth(t *testing.T) {
	d := timesheet.NewDay(2024, time.June, 3)

	if !d.InMonth(2024, time.June) {
		t.Error("same month must match")
	}
	if d.InMonth(2024, time.July) {
		t.Error("other month must not match")
	}
	if !d.InMonth(2024, 0) {
		t.Error("zero month matches the whole year")
	}
	if d.InMonth(2023, 0) {
		t.Error("other year must not match")
	}
}
