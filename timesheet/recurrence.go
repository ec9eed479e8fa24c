/*
recurrence.go - Request expansion and batch execution

PURPOSE:
  Expands one logged-time request into a sequence of target dates, then
  feeds each date independently into the reconciliation engine.

RULES:
  NONE   -> just the start date
  DAILY  -> every date in range whose weekday is not Saturday/Sunday
  WEEKLY -> every date in range sharing the start date's weekday

  Expansion works on calendar-date components, never on epoch timestamps,
  so the produced dates cannot drift across timezones.

BATCH SEMANTICS:
  Per-date calls run sequentially under the engine's per-day locks. A
  failing date does not abort the remaining dates; the result carries every
  success and every failure so partial outcomes stay visible. Cancelling
  the context stops before the next date - never mid-write, each AddEntry
  is atomic at single-day granularity.
*/
package timesheet

import (
	"context"
	"fmt"
)

// =============================================================================
// RECURRENCE RULES
// =============================================================================

// Rule is a policy expanding one logging request into multiple dated entries.
type Rule string

const (
	RuleNone   Rule = "NONE"
	RuleDaily  Rule = "DAILY"  // Mon-Fri
	RuleWeekly Rule = "WEEKLY" // same weekday as the start date
)

// ParseRule validates a rule string, defaulting empty to NONE.
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case RuleNone, "":
		return RuleNone, nil
	case RuleDaily:
		return RuleDaily, nil
	case RuleWeekly:
		return RuleWeekly, nil
	}
	return "", &ValidationError{Field: "recurrence", Message: fmt.Sprintf("unknown rule %q", s)}
}

// Expand produces the finite sequence of target dates for a rule. The range
// is inclusive on both ends; an end before the start yields just the start
// for NONE and nothing otherwise.
func Expand(start, end Day, rule Rule) []Day {
	if rule == RuleNone {
		return []Day{start}
	}

	var dates []Day
	startWeekday := start.Weekday()
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		switch rule {
		case RuleDaily:
			if !d.IsWeekend() {
				dates = append(dates, d)
			}
		case RuleWeekly:
			if d.Weekday() == startWeekday {
				dates = append(dates, d)
			}
		}
	}
	return dates
}

// =============================================================================
// BATCH EXECUTION
// =============================================================================

// DateError pairs a failed date with its cause.
type DateError struct {
	Date Day
	Err  error
}

func (e DateError) Error() string { return fmt.Sprintf("%s: %v", e.Date, e.Err) }

// BatchResult aggregates the per-date outcomes of one expanded request.
// Any non-empty Failed list is a user-visible partial failure.
type BatchResult struct {
	Succeeded []Day
	Failed    []DateError
}

// HasFailures reports whether any date failed.
func (r BatchResult) HasFailures() bool { return len(r.Failed) > 0 }

// AddRecurring expands the request over [start, end] with the given rule and
// records every produced date. Execution continues past individual failures;
// a cancelled context fails the remaining dates without touching them.
func (e *Engine) AddRecurring(ctx context.Context, employeeID string, start, end Day, rule Rule, req AddRequest) BatchResult {
	var result BatchResult
	for _, date := range Expand(start, end, rule) {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, DateError{Date: date, Err: err})
			continue
		}
		if _, err := e.AddEntry(ctx, employeeID, date, req); err != nil {
			result.Failed = append(result.Failed, DateError{Date: date, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, date)
	}
	return result
}
