package timesheet_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/salvatoreiannola72/timetracker/timesheet"
)

func TestFormatHours(t *testing.T) {
	for _, tc := range []struct {
		hours string
		unit  timesheet.Unit
		want  string
	}{
		{"8", timesheet.UnitDays, "1.0"},
		{"4", timesheet.UnitDays, "0.5"},
		{"12", timesheet.UnitDays, "1.5"},
		{"4", timesheet.UnitHours, "4.0"},
		{"7.25", timesheet.UnitHours, "7.3"},
		{"0", timesheet.UnitDays, "0.0"},
	} {
		h, err := decimal.NewFromString(tc.hours)
		if err != nil {
			t.Fatal(err)
		}
		if got := timesheet.FormatHours(h, tc.unit); got != tc.want {
			t.Errorf("FormatHours(%s, %s) = %q, want %q", tc.hours, tc.unit, got, tc.want)
		}
	}
}

func TestConvertHours_DaysKeepsPrecision(t *testing.T) {
	// Conversion is exact decimal division; rounding happens only in
	// FormatHours.
	got := timesheet.ConvertHours(decimal.NewFromInt(2), timesheet.UnitDays)
	if !got.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("expected 0.25 days, got %s", got)
	}
}

func TestParseUnit(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want timesheet.Unit
	}{
		{"", timesheet.UnitHours},
		{"hours", timesheet.UnitHours},
		{"days", timesheet.UnitDays},
	} {
		got, err := timesheet.ParseUnit(tc.in)
		if err != nil {
			t.Errorf("ParseUnit(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseUnit(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := timesheet.ParseUnit("weeks"); !errors.Is(err, timesheet.ErrValidation) {
		t.Errorf("expected a validation error, got %v", err)
	}
}
