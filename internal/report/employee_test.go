package report

import (
	"testing"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 is a Monday; "now" mid-that-week
var filterNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)

func TestApplyTimeFilterByDeadline(t *testing.T) {
	lastWeek := model.Task{ID: "last", Deadline: ptr(ts(2024, 1, 12))}
	thisWeek := model.Task{ID: "this", Deadline: ptr(ts(2024, 1, 18))}
	future := model.Task{ID: "future", Deadline: ptr(ts(2024, 1, 29))}
	tasks := []model.Task{lastWeek, thisWeek, future}

	assert.Len(t, ApplyTimeFilter(tasks, FilterAll, filterNow, nil), 3)

	got := ApplyTimeFilter(tasks, FilterLastWeek, filterNow, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "last", got[0].ID)

	got = ApplyTimeFilter(tasks, FilterThisWeek, filterNow, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "this", got[1].ID)
}

func TestApplyTimeFilterTargetWeekFallback(t *testing.T) {
	starts := map[string]time.Time{"PR001": ts(2024, 1, 1)} // week 3 at filterNow
	tasks := []model.Task{
		{ID: "w1", ProjectID: "PR001", TargetWeek: 1},
		{ID: "w3", ProjectID: "PR001", TargetWeek: 3},
		{ID: "w5", ProjectID: "PR001", TargetWeek: 5},
		{ID: "unknown", ProjectID: "PR999", TargetWeek: 9},
	}

	got := ApplyTimeFilter(tasks, FilterLastWeek, filterNow, starts)
	assert.Equal(t, []string{"w1", "unknown"}, idsOf(got))

	got = ApplyTimeFilter(tasks, FilterThisWeek, filterNow, starts)
	assert.Equal(t, []string{"w1", "w3", "unknown"}, idsOf(got))
}

func idsOf(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestEmployeeReportGatesNotApplicable(t *testing.T) {
	tasks := []model.Task{
		{Status: model.StatusPending, Assignees: []string{"a@x.com"}},
		{Status: model.StatusPending, Assignees: []string{"a@x.com"}, Requirement: model.RequirementNotApplicable},
	}

	stats := GenerateEmployeeReport(tasks, nil, FilterAll, filterNow, nil)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Total)
}

func TestEmployeeReportCrossProject(t *testing.T) {
	tasks := []model.Task{
		{ProjectID: "PR001", Status: model.StatusCompleted, Assignees: []string{"a@x.com"}},
		{ProjectID: "PR002", Status: model.StatusPending, Assignees: []string{"a@x.com"}},
		{ProjectID: "PR002", Status: model.StatusPending, Assignees: []string{"b@x.com"}},
	}

	stats := GenerateEmployeeReport(tasks, nil, FilterAll, filterNow, nil)
	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 50, stats[0].CompletionRate)
}
