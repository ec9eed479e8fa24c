package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salvatoreiannola72/timetracker/report"
	"github.com/salvatoreiannola72/timetracker/timesheet"
	"github.com/salvatoreiannola72/timetracker/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestDirs() *store.Memory {
	mem := store.NewMemory()
	mem.PutClient(timesheet.ClientInfo{ID: "cli-1", Name: "Acme"})
	mem.PutClient(timesheet.ClientInfo{ID: "cli-2", Name: "Globex"})
	mem.PutProject(timesheet.ProjectInfo{ID: "proj-a", Name: "Website", Color: "#ff0000", ClientID: "cli-1", Active: true})
	mem.PutProject(timesheet.ProjectInfo{ID: "proj-b", Name: "Backend", Color: "#00ff00", ClientID: "cli-1", Active: true})
	mem.PutProject(timesheet.ProjectInfo{ID: "proj-c", Name: "Audit", Color: "#0000ff", ClientID: "cli-2", Active: true})
	mem.PutUser(timesheet.UserInfo{ID: "u-1", Name: "Alice", Email: "alice@example.com"})
	mem.PutUser(timesheet.UserInfo{ID: "u-2", Name: "Bob", Email: "bob@example.com"})
	return mem
}

func workEntry(userID, projectID string, h int64, d timesheet.Day) timesheet.ClassifiedEntry {
	return timesheet.ClassifiedEntry{
		ID:        userID + "-" + projectID + "-" + d.String(),
		UserID:    userID,
		ProjectID: projectID,
		Date:      d,
		Hours:     decimal.NewFromInt(h),
		Type:      timesheet.TypeWork,
	}
}

func leaveEntry(userID string, typ timesheet.EntryType, d timesheet.Day) timesheet.ClassifiedEntry {
	return timesheet.ClassifiedEntry{
		ID:     userID + "-" + d.String(),
		UserID: userID,
		Date:   d,
		Type:   typ,
	}
}

func march(d int) timesheet.Day { return timesheet.NewDay(2024, time.March, d) }

// =============================================================================
// CLIENT REPORT TESTS
// =============================================================================

func TestClientReport_Hierarchy(t *testing.T) {
	// GIVEN: WORK entries spread over two clients and three projects
	// WHEN: building the client report
	// THEN: hours roll up client -> project -> user and percents are exact
	//       shares of the parent

	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 6, march(4)),
		workEntry("u-2", "proj-a", 2, march(4)),
		workEntry("u-1", "proj-b", 4, march(5)),
		workEntry("u-2", "proj-c", 4, march(5)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	assert.True(t, rep.Tree.TotalHours.Equal(decimal.NewFromInt(16)))

	acme := rep.Tree.Lookup("cli-1")
	require.NotNil(t, acme)
	assert.Equal(t, "Acme", acme.Label)
	assert.True(t, acme.TotalHours.Equal(decimal.NewFromInt(12)))
	assert.True(t, acme.Percent.Equal(decimal.NewFromInt(75)))

	globex := rep.Tree.Lookup("cli-2")
	require.NotNil(t, globex)
	assert.True(t, globex.Percent.Equal(decimal.NewFromInt(25)))

	website := acme.Lookup("proj-a")
	require.NotNil(t, website)
	assert.True(t, website.TotalHours.Equal(decimal.NewFromInt(8)))
	alice := website.Lookup("u-1")
	require.NotNil(t, alice)
	assert.Equal(t, "Alice", alice.Label)
	assert.True(t, alice.Percent.Equal(decimal.NewFromInt(75)))
}

func TestClientReport_PercentsSumToHundred(t *testing.T) {
	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 3, march(4)),
		workEntry("u-1", "proj-b", 5, march(4)),
		workEntry("u-2", "proj-c", 7, march(4)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, c := range rep.Tree.Children() {
		sum = sum.Add(c.Percent)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)), "client percents sum to %s", sum)
}

func TestClientReport_LeaveNeverAttributes(t *testing.T) {
	// Leave and permit entries show in the detail rows but never add hours to
	// the tree.

	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 8, march(4)),
		leaveEntry("u-1", timesheet.TypeSickLeave, march(5)),
		leaveEntry("u-2", timesheet.TypeVacation, march(5)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	assert.True(t, rep.Tree.TotalHours.Equal(decimal.NewFromInt(8)))
	assert.Len(t, rep.Tree.Children(), 1)
	assert.Len(t, rep.Details, 3)
}

func TestClientReport_UnknownIDsGetPlaceholders(t *testing.T) {
	// GIVEN: a WORK entry whose project, client and user are absent from the
	//        directories
	// THEN: the report degrades to placeholder labels instead of failing

	dirs := store.NewMemory()
	dirs.PutProject(timesheet.ProjectInfo{ID: "proj-x", Name: "Mystery", ClientID: "cli-gone"})
	engine := report.NewEngine(dirs)

	entries := []timesheet.ClassifiedEntry{
		workEntry("u-ghost", "proj-x", 4, march(4)),
		workEntry("u-ghost", "proj-gone", 2, march(4)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	missing := rep.Tree.Lookup("cli-gone")
	require.NotNil(t, missing)
	assert.Equal(t, "Client cli-gone", missing.Label)

	orphan := rep.Tree.Lookup("")
	require.NotNil(t, orphan, "a project without a known client lands under the empty client key")
	assert.Equal(t, "Unknown", orphan.Label)
	unknownProject := orphan.Lookup("proj-gone")
	require.NotNil(t, unknownProject)
	assert.Equal(t, "Unknown", unknownProject.Label)
	assert.Equal(t, "Unknown", unknownProject.Lookup("u-ghost").Label)
}

func TestClientReport_PeriodFilter(t *testing.T) {
	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 8, timesheet.NewDay(2024, time.February, 29)),
		workEntry("u-1", "proj-a", 8, march(1)),
		workEntry("u-1", "proj-a", 8, timesheet.NewDay(2024, time.April, 1)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.MonthPeriod(2024, time.March))
	require.NoError(t, err)

	assert.True(t, rep.Tree.TotalHours.Equal(decimal.NewFromInt(8)))
	assert.Len(t, rep.Details, 1)
}

// =============================================================================
// SORTING TESTS
// =============================================================================

func TestSorted_DescendingWithStableTies(t *testing.T) {
	engine := report.NewEngine(newTestDirs())
	// proj-a and proj-c tie at 4h; proj-a was seen first and must stay first.
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 4, march(4)),
		workEntry("u-1", "proj-b", 9, march(4)),
		workEntry("u-1", "proj-c", 4, march(4)),
	}

	rep, err := engine.Project(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	sorted := rep.Tree.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "proj-b", sorted[0].Key)
	assert.Equal(t, "proj-a", sorted[1].Key)
	assert.Equal(t, "proj-c", sorted[2].Key)
}

// =============================================================================
// TEAM REPORT TESTS
// =============================================================================

func TestTeamReport_LeaveCountersAndZeroHourUsers(t *testing.T) {
	// GIVEN: one user with work + a permit, another with leave days only
	// WHEN: building the team report
	// THEN: the leave-only user is absent from the tree but present in the
	//       leave counters

	engine := report.NewEngine(newTestDirs())
	permit := leaveEntry("u-1", timesheet.TypePermit, march(6))
	permit.PermitsHours = decimal.NewFromInt(2)

	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 6, march(4)),
		permit,
		leaveEntry("u-2", timesheet.TypeSickLeave, march(4)),
		leaveEntry("u-2", timesheet.TypeVacation, march(5)),
		leaveEntry("u-2", timesheet.TypeVacation, march(6)),
	}

	rep, err := engine.Team(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	require.Len(t, rep.Tree.Children(), 1)
	alice := rep.Tree.Lookup("u-1")
	require.NotNil(t, alice)
	assert.True(t, alice.TotalHours.Equal(decimal.NewFromInt(6)))
	assert.Nil(t, rep.Tree.Lookup("u-2"), "leave-only users stay out of the tree")

	assert.True(t, rep.Leave["u-1"].PermitHours.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 1, rep.Leave["u-2"].SickDays)
	assert.Equal(t, 2, rep.Leave["u-2"].VacationDays)
}

// =============================================================================
// PROJECT REPORT TESTS
// =============================================================================

func TestProjectReport_CarriesClientLabelsAndColors(t *testing.T) {
	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 5, march(4)),
		workEntry("u-2", "proj-c", 3, march(4)),
	}

	rep, err := engine.Project(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)

	assert.Equal(t, "Acme", rep.ClientLabels["proj-a"])
	assert.Equal(t, "Globex", rep.ClientLabels["proj-c"])
	assert.Equal(t, "#ff0000", rep.Colors["proj-a"])

	website := rep.Tree.Lookup("proj-a")
	require.NotNil(t, website)
	assert.Equal(t, "Website", website.Label)
	require.NotNil(t, website.Lookup("u-1"))
}

// =============================================================================
// DETAIL ROW TESTS
// =============================================================================

func TestDetailRows_NonWorkRowsCarryNoClient(t *testing.T) {
	engine := report.NewEngine(newTestDirs())
	entries := []timesheet.ClassifiedEntry{
		workEntry("u-1", "proj-a", 8, march(4)),
		leaveEntry("u-1", timesheet.TypeVacation, march(5)),
	}

	rep, err := engine.Client(context.Background(), entries, timesheet.Period{})
	require.NoError(t, err)
	require.Len(t, rep.Details, 2)

	work := rep.Details[0]
	assert.Equal(t, "Acme", work.ClientName)
	assert.Equal(t, "Website", work.ProjectName)
	assert.Equal(t, "Alice", work.UserName)

	leave := rep.Details[1]
	assert.Equal(t, timesheet.TypeVacation, leave.Type)
	assert.Empty(t, leave.ClientName)
	assert.Empty(t, leave.ProjectName)
	assert.Equal(t, "Alice", leave.UserName)
}
