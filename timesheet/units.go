package timesheet

import "github.com/shopspring/decimal"

// =============================================================================
// UNIT CONVERTER - Display conversion only
// =============================================================================

// Unit is a display unit for hour amounts. All storage and aggregation work
// on raw hours; conversion happens at the presentation boundary.
type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
)

// HoursPerDay is the fixed conversion ratio.
var HoursPerDay = decimal.NewFromInt(8)

// ConvertHours converts raw hours into the display unit.
func ConvertHours(hours decimal.Decimal, unit Unit) decimal.Decimal {
	if unit == UnitDays {
		return hours.Div(HoursPerDay)
	}
	return hours
}

// FormatHours renders raw hours in the display unit with one decimal place.
func FormatHours(hours decimal.Decimal, unit Unit) string {
	return ConvertHours(hours, unit).StringFixed(1)
}

// ParseUnit validates a unit string, defaulting empty to hours.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitHours, "":
		return UnitHours, nil
	case UnitDays:
		return UnitDays, nil
	}
	return "", &ValidationError{Field: "unit", Message: "unit must be hours or days"}
}
