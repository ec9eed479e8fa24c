package timesheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salvatoreiannola72/timetracker/timesheet"
	"github.com/salvatoreiannola72/timetracker/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine() (*timesheet.Engine, *store.Memory) {
	mem := store.NewMemory()
	return timesheet.NewEngine(mem), mem
}

func day(y int, m time.Month, d int) timesheet.Day {
	return timesheet.NewDay(y, m, d)
}

func hours(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func workReq(projectID string, h int64) timesheet.AddRequest {
	return timesheet.AddRequest{Kind: timesheet.KindWork, ProjectID: projectID, Hours: hours(h)}
}

// =============================================================================
// ADD TESTS
// =============================================================================

func TestAddEntry_Work_CreatesLedgerWithOneSegment(t *testing.T) {
	// GIVEN: no ledger for the day
	// WHEN: adding a WORK entry
	// THEN: reading back yields exactly one WORK entry with that project and hours

	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 11)

	ledger, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 5))
	require.NoError(t, err)
	require.Len(t, ledger.WorkedHours, 1)
	assert.Equal(t, "proj-a", ledger.WorkedHours[0].ProjectID)
	assert.True(t, ledger.WorkedHours[0].Hours.Equal(hours(5)))

	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 1)
	assert.Equal(t, timesheet.TypeWork, entries[0].Type)
	assert.True(t, entries[0].Hours.Equal(hours(5)))
}

func TestAddEntry_Work_SegmentsAccumulateNotMerge(t *testing.T) {
	// GIVEN: a WORK entry of 5h on proj-a
	// WHEN: adding another WORK entry of 3h on the same project and day
	// THEN: the ledger holds two separate segments totalling 8h

	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 11)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 5))
	require.NoError(t, err)
	ledger, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 3))
	require.NoError(t, err)

	require.Len(t, ledger.WorkedHours, 2)
	assert.True(t, ledger.WorkedHours[0].Hours.Equal(hours(5)))
	assert.True(t, ledger.WorkedHours[1].Hours.Equal(hours(3)))
	assert.True(t, ledger.WorkedTotal().Equal(hours(8)))
}

func TestAddEntry_SickLeave_SupersedesWork(t *testing.T) {
	// GIVEN: a day already carrying WORK segments and permit hours
	// WHEN: adding a SICK_LEAVE entry
	// THEN: segments are cleared, permits zeroed, illness set

	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 12)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 6))
	require.NoError(t, err)
	_, err = engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(2)})
	require.NoError(t, err)

	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindSickLeave})
	require.NoError(t, err)

	assert.Empty(t, ledger.WorkedHours)
	assert.True(t, ledger.PermitsHours.IsZero())
	assert.True(t, ledger.Illness)
	assert.False(t, ledger.Holiday)
	assert.True(t, ledger.IsConsistent())
}

func TestAddEntry_Permit_CoexistsWithWork(t *testing.T) {
	// GIVEN: a day with a WORK segment
	// WHEN: adding PERMIT hours
	// THEN: the segment stays and permits are set alongside it

	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 13)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 6))
	require.NoError(t, err)
	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(2)})
	require.NoError(t, err)

	require.Len(t, ledger.WorkedHours, 1)
	assert.True(t, ledger.PermitsHours.Equal(hours(2)))
	assert.True(t, ledger.IsConsistent())
}

func TestAddEntry_Permit_OverwritesPriorPermit(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 14)

	_, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(2)})
	require.NoError(t, err)
	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(4)})
	require.NoError(t, err)

	// Overwritten, not summed.
	assert.True(t, ledger.PermitsHours.Equal(hours(4)))
}

func TestAddEntry_Validation(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.March, 15)

	cases := []struct {
		name string
		req  timesheet.AddRequest
	}{
		{"work without project", timesheet.AddRequest{Kind: timesheet.KindWork, Hours: hours(4)}},
		{"work with zero hours", timesheet.AddRequest{Kind: timesheet.KindWork, ProjectID: "p", Hours: hours(0)}},
		{"work with negative hours", timesheet.AddRequest{Kind: timesheet.KindWork, ProjectID: "p", Hours: hours(-1)}},
		{"permit with project", timesheet.AddRequest{Kind: timesheet.KindPermit, ProjectID: "p", Hours: hours(2)}},
		{"vacation with hours", timesheet.AddRequest{Kind: timesheet.KindVacation, Hours: hours(8)}},
		{"sick leave with project", timesheet.AddRequest{Kind: timesheet.KindSickLeave, ProjectID: "p"}},
		{"unknown kind", timesheet.AddRequest{Kind: "BREAK"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.AddEntry(ctx, "emp-1", d, tc.req)
			require.Error(t, err)
			assert.True(t, timesheet.IsClientError(err), "expected a client error, got %v", err)
		})
	}

	_, err := engine.AddEntry(ctx, "", d, workReq("p", 4))
	assert.Error(t, err)
	_, err = engine.AddEntry(ctx, "emp-1", timesheet.Day{}, workReq("p", 4))
	assert.Error(t, err)
}

func TestAddEntry_ExclusivityInvariantHolds(t *testing.T) {
	// Every stored ledger must satisfy illness/holiday => no work, no permits.

	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.April, 1)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 8))
	require.NoError(t, err)
	_, err = engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindVacation})
	require.NoError(t, err)

	ledgers, err := mem.ListLedgers(ctx, timesheet.RowFilter{AllUsers: true})
	require.NoError(t, err)
	for _, l := range ledgers {
		assert.True(t, l.IsConsistent(), "ledger %s violates work/leave exclusivity", l.ID)
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDeleteEntry_LastSegment_DropsLedger(t *testing.T) {
	// GIVEN: a day with a single WORK segment
	// WHEN: deleting that segment's entry
	// THEN: the whole ledger is gone; no empty ledger survives

	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.May, 6)

	ledger, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 4))
	require.NoError(t, err)
	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 1)

	require.NoError(t, engine.DeleteEntry(ctx, entries[0]))

	stored, err := mem.GetDayLedger(ctx, "emp-1", d)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteEntry_OneOfTwoSegments_KeepsTheRest(t *testing.T) {
	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.May, 7)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 4))
	require.NoError(t, err)
	ledger, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-b", 3))
	require.NoError(t, err)

	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 2)
	require.NoError(t, engine.DeleteEntry(ctx, entries[0]))

	stored, err := mem.GetDayLedger(ctx, "emp-1", d)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.WorkedHours, 1)
	assert.Equal(t, "proj-b", stored.WorkedHours[0].ProjectID)
}

func TestDeleteEntry_Permit_KeepsRemainingWork(t *testing.T) {
	// GIVEN: a day with work and permit hours
	// WHEN: deleting the synthetic PERMIT entry
	// THEN: permits are zeroed but the work segment survives

	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.May, 8)

	_, err := engine.AddEntry(ctx, "emp-1", d, workReq("proj-a", 6))
	require.NoError(t, err)
	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(2)})
	require.NoError(t, err)

	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 2)
	permit := entries[1]
	require.Equal(t, timesheet.TypePermit, permit.Type)

	require.NoError(t, engine.DeleteEntry(ctx, permit))

	stored, err := mem.GetDayLedger(ctx, "emp-1", d)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.PermitsHours.IsZero())
	assert.Len(t, stored.WorkedHours, 1)
}

func TestDeleteEntry_PermitOnly_DropsLedger(t *testing.T) {
	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.May, 9)

	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindPermit, Hours: hours(3)})
	require.NoError(t, err)

	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 1)
	require.NoError(t, engine.DeleteEntry(ctx, entries[0]))

	stored, err := mem.GetDayLedger(ctx, "emp-1", d)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteEntry_Idempotent(t *testing.T) {
	// Deleting the same entry twice does not throw and leaves state unchanged.

	engine, mem := newTestEngine()
	ctx := context.Background()
	d := day(2024, time.May, 10)

	ledger, err := engine.AddEntry(ctx, "emp-1", d, timesheet.AddRequest{Kind: timesheet.KindVacation})
	require.NoError(t, err)
	entries := timesheet.Classify(ledger)
	require.Len(t, entries, 1)

	require.NoError(t, engine.DeleteEntry(ctx, entries[0]))
	require.NoError(t, engine.DeleteEntry(ctx, entries[0]))

	stored, err := mem.GetDayLedger(ctx, "emp-1", d)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

// =============================================================================
// READ TESTS
// =============================================================================

func TestEntries_FiltersByEmployeeAndMonth(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.AddEntry(ctx, "emp-1", day(2024, time.June, 3), workReq("proj-a", 8))
	require.NoError(t, err)
	_, err = engine.AddEntry(ctx, "emp-1", day(2024, time.July, 1), workReq("proj-a", 8))
	require.NoError(t, err)
	_, err = engine.AddEntry(ctx, "emp-2", day(2024, time.June, 4), workReq("proj-b", 8))
	require.NoError(t, err)

	entries, err := engine.Entries(ctx, timesheet.RowFilter{EmployeeID: "emp-1", Year: 2024, Month: 6})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "emp-1", entries[0].UserID)

	entries, err = engine.Entries(ctx, timesheet.RowFilter{Year: 2024, Month: 6, AllUsers: true})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = engine.Entries(ctx, timesheet.RowFilter{EmployeeID: "emp-1", Year: 2024})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
