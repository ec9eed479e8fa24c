package timesheet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salvatoreiannola72/timetracker/timesheet"
	"github.com/salvatoreiannola72/timetracker/timesheet/store"
)

// =============================================================================
// EXPANSION TESTS
// =============================================================================

func TestExpand_None_JustTheStart(t *testing.T) {
	start := day(2024, time.January, 1)
	end := day(2024, time.January, 31)

	dates := timesheet.Expand(start, end, timesheet.RuleNone)

	if len(dates) != 1 || !dates[0].Equal(start) {
		t.Fatalf("expected just the start date, got %v", dates)
	}
}

func TestExpand_Daily_SkipsWeekends(t *testing.T) {
	// GIVEN: Monday 2024-01-01 through Sunday 2024-01-07
	// WHEN: expanding DAILY
	// THEN: exactly the five weekdays come out

	start := day(2024, time.January, 1) // Monday
	end := day(2024, time.January, 7)   // Sunday

	dates := timesheet.Expand(start, end, timesheet.RuleDaily)

	if len(dates) != 5 {
		t.Fatalf("expected 5 dates, got %d: %v", len(dates), dates)
	}
	for i, d := range dates {
		if d.IsWeekend() {
			t.Errorf("date %d (%s) falls on a weekend", i, d)
		}
		want := start.AddDays(i)
		if !d.Equal(want) {
			t.Errorf("date %d: expected %s, got %s", i, want, d)
		}
	}
}

func TestExpand_Weekly_SameWeekdayOnly(t *testing.T) {
	// GIVEN: Wednesday 2024-01-03 through Wednesday 2024-01-31
	// THEN: the five Wednesdays of January

	start := day(2024, time.January, 3)
	end := day(2024, time.January, 31)

	dates := timesheet.Expand(start, end, timesheet.RuleWeekly)

	want := []int{3, 10, 17, 24, 31}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i, d := range dates {
		if d.Date != want[i] {
			t.Errorf("date %d: expected day-of-month %d, got %d", i, want[i], d.Date)
		}
		if d.Weekday() != time.Wednesday {
			t.Errorf("date %d (%s) is not a Wednesday", i, d)
		}
	}
}

func TestExpand_EndBeforeStart(t *testing.T) {
	start := day(2024, time.January, 10)
	end := day(2024, time.January, 5)

	if dates := timesheet.Expand(start, end, timesheet.RuleDaily); len(dates) != 0 {
		t.Errorf("DAILY over an inverted range should yield nothing, got %v", dates)
	}
	if dates := timesheet.Expand(start, end, timesheet.RuleNone); len(dates) != 1 {
		t.Errorf("NONE always yields the start date, got %v", dates)
	}
}

func TestParseRule(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want timesheet.Rule
	}{
		{"", timesheet.RuleNone},
		{"NONE", timesheet.RuleNone},
		{"DAILY", timesheet.RuleDaily},
		{"WEEKLY", timesheet.RuleWeekly},
	} {
		got, err := timesheet.ParseRule(tc.in)
		if err != nil {
			t.Errorf("ParseRule(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseRule(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := timesheet.ParseRule("MONTHLY"); !errors.Is(err, timesheet.ErrValidation) {
		t.Errorf("expected a validation error for unknown rule, got %v", err)
	}
}

// =============================================================================
// BATCH EXECUTION TESTS
// =============================================================================

// faultyStore fails creates for one specific day to exercise the batch's
// continue-on-error behavior.
type faultyStore struct {
	*store.Memory
	failOn timesheet.Day
}

var errInjected = errors.New("injected store failure")

func (s *faultyStore) CreateDayLedger(ctx context.Context, ledger timesheet.DayLedger) (timesheet.DayLedger, error) {
	if ledger.Day.Equal(s.failOn) {
		return timesheet.DayLedger{}, errInjected
	}
	return s.Memory.CreateDayLedger(ctx, ledger)
}

func TestAddRecurring_ContinuesPastFailures(t *testing.T) {
	// GIVEN: a week-long DAILY request where Wednesday's write fails
	// WHEN: executing the batch
	// THEN: the other four days succeed and the failure is reported with its
	//       date, not swallowed

	faulty := &faultyStore{Memory: store.NewMemory(), failOn: day(2024, time.January, 3)}
	engine := timesheet.NewEngine(faulty)
	ctx := context.Background()

	result := engine.AddRecurring(ctx, "emp-1",
		day(2024, time.January, 1), day(2024, time.January, 7),
		timesheet.RuleDaily, workReq("proj-a", 8))

	if !result.HasFailures() {
		t.Fatal("expected a partial failure")
	}
	if len(result.Succeeded) != 4 {
		t.Errorf("expected 4 successes, got %d: %v", len(result.Succeeded), result.Succeeded)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failed))
	}
	if !result.Failed[0].Date.Equal(day(2024, time.January, 3)) {
		t.Errorf("expected the failure on 2024-01-03, got %s", result.Failed[0].Date)
	}
	if !errors.Is(result.Failed[0].Err, timesheet.ErrPersistence) {
		t.Errorf("expected a persistence error, got %v", result.Failed[0].Err)
	}
}

func TestAddRecurring_AllSucceed(t *testing.T) {
	engine, mem := newTestEngine()
	ctx := context.Background()

	result := engine.AddRecurring(ctx, "emp-1",
		day(2024, time.January, 3), day(2024, time.January, 31),
		timesheet.RuleWeekly, workReq("proj-a", 8))

	if result.HasFailures() {
		t.Fatalf("unexpected failures: %v", result.Failed)
	}
	if len(result.Succeeded) != 5 {
		t.Fatalf("expected 5 successes, got %d", len(result.Succeeded))
	}

	ledgers, err := mem.ListLedgers(ctx, timesheet.RowFilter{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ledgers) != 5 {
		t.Errorf("expected 5 stored ledgers, got %d", len(ledgers))
	}
}

func TestAddRecurring_CancelledContextFailsRemaining(t *testing.T) {
	engine, _ := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := engine.AddRecurring(ctx, "emp-1",
		day(2024, time.January, 1), day(2024, time.January, 7),
		timesheet.RuleDaily, workReq("proj-a", 8))

	if len(result.Succeeded) != 0 {
		t.Errorf("expected no successes under a cancelled context, got %v", result.Succeeded)
	}
	if len(result.Failed) != 5 {
		t.Errorf("expected 5 failed dates, got %d", len(result.Failed))
	}
}
