package report

import (
	"testing"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesEmail = "emp@getfive.in"

// Project starts Monday 2024-01-01; "now" in the third week
var (
	seriesStart  = ts(2024, 1, 1)
	seriesNow    = time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
	seriesStarts = map[string]time.Time{"PR001": seriesStart}
)

func seriesTaskWeek(id string, targetWeek int) model.Task {
	return model.Task{
		ID: id, ProjectID: "PR001", TargetWeek: targetWeek,
		Status: model.StatusPending, Assignees: []string{seriesEmail},
	}
}

func TestSeriesBucketsAreContiguousMondays(t *testing.T) {
	tasks := []model.Task{seriesTaskWeek("a", 1)}

	points := ComputeEmployeePerformanceSeries(tasks, seriesEmail, seriesStarts, seriesNow)
	require.Len(t, points, 3)
	assert.Equal(t, ts(2024, 1, 1), points[0].WeekStart)
	assert.Equal(t, ts(2024, 1, 8), points[1].WeekStart)
	assert.Equal(t, ts(2024, 1, 15), points[2].WeekStart)
}

func TestSeriesBacklogPressure(t *testing.T) {
	done := seriesTaskWeek("done", 1)
	done.Status = model.StatusCompleted
	done.EndTime = ptr(ts(2024, 1, 3)) // completed within its first week
	open := seriesTaskWeek("open", 1)

	points := ComputeEmployeePerformanceSeries([]model.Task{done, open}, seriesEmail, seriesStarts, seriesNow)
	require.Len(t, points, 3)

	// Week 1: two active, one completed -> (1/2 - 1) * 100 = -50
	first := points[0]
	assert.Equal(t, 2, first.Active)
	assert.Equal(t, 2, first.Introduced)
	assert.Equal(t, 1, first.IntroducedCompleted)
	assert.Equal(t, -50, first.Score)

	// Week 2: only the open task carries over, nothing completed -> -100
	second := points[1]
	assert.Equal(t, 1, second.Active)
	assert.Equal(t, 1, second.CarriedOver)
	assert.Equal(t, -100, second.Score)
}

func TestSeriesZeroActiveWeekScoresZero(t *testing.T) {
	// One task introduced week 1 and completed immediately, another only in
	// week 3: week 2 has no active work and scores 0.
	early := seriesTaskWeek("early", 1)
	early.Status = model.StatusCompleted
	early.EndTime = ptr(ts(2024, 1, 2))
	late := seriesTaskWeek("late", 3)

	points := ComputeEmployeePerformanceSeries([]model.Task{early, late}, seriesEmail, seriesStarts, seriesNow)
	require.Len(t, points, 3)
	assert.Equal(t, 0, points[1].Active)
	assert.Equal(t, 0, points[1].Score)
	assert.Equal(t, 1, points[2].Introduced)
}

func TestSeriesPerfectWeekScoresZero(t *testing.T) {
	done := seriesTaskWeek("done", 1)
	done.Status = model.StatusCompleted
	done.EndTime = ptr(ts(2024, 1, 3))

	points := ComputeEmployeePerformanceSeries([]model.Task{done}, seriesEmail, seriesStarts, seriesNow)
	assert.Equal(t, 0, points[0].Score)
}

func TestSeriesSkipsUnknownProjectsAndGatedTasks(t *testing.T) {
	unknown := seriesTaskWeek("unknown", 1)
	unknown.ProjectID = "PR999"
	gated := seriesTaskWeek("gated", 1)
	gated.Requirement = model.RequirementNotApplicable

	points := ComputeEmployeePerformanceSeries([]model.Task{unknown, gated}, seriesEmail, seriesStarts, seriesNow)
	assert.Nil(t, points)
}

func TestSeriesExtendsToLateCompletion(t *testing.T) {
	slow := seriesTaskWeek("slow", 1)
	slow.Status = model.StatusCompleted
	slow.EndTime = ptr(ts(2024, 2, 7)) // completed weeks after "now"

	points := ComputeEmployeePerformanceSeries([]model.Task{slow}, seriesEmail, seriesStarts, seriesNow)
	require.NotEmpty(t, points)
	last := points[len(points)-1]
	assert.Equal(t, ts(2024, 2, 5), last.WeekStart)
	assert.Equal(t, 1, last.CarriedOverCompleted)
	assert.Equal(t, 0, last.Score)
}
