package report

import (
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/team"
	"github.com/getfive/trackboard/internal/week"
)

// TimeFilter restricts a report to tasks due up to a week boundary
type TimeFilter string

const (
	FilterAll      TimeFilter = "all"
	FilterThisWeek TimeFilter = "this-week" // due up to and including the current week
	FilterLastWeek TimeFilter = "last-week" // due strictly before the current week
)

// ApplyTimeFilter keeps tasks whose deadline falls inside the filter
// window. Tasks without a stored deadline fall back to target-week math
// against their project's start date; tasks whose project start is unknown
// are kept rather than silently dropped.
func ApplyTimeFilter(tasks []model.Task, filter TimeFilter, now time.Time, startDates map[string]time.Time) []model.Task {
	if filter == FilterAll || filter == "" {
		return tasks
	}

	thisMonday := week.MondayOf(now)
	nextMonday := thisMonday.AddDate(0, 0, 7)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Deadline != nil {
			keep := true
			switch filter {
			case FilterLastWeek:
				keep = t.Deadline.Before(thisMonday)
			case FilterThisWeek:
				keep = t.Deadline.Before(nextMonday)
			}
			if keep {
				out = append(out, t)
			}
			continue
		}

		start, ok := startDates[t.ProjectID]
		if !ok {
			out = append(out, t)
			continue
		}
		currentWeek := week.Current(&start, now)
		keep := true
		switch filter {
		case FilterLastWeek:
			keep = t.TargetWeek < currentWeek
		case FilterThisWeek:
			keep = t.TargetWeek <= currentWeek
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// GenerateEmployeeReport flattens per-employee rollups over the given
// tasks, which may span several projects when the cross-project view is
// active. The time filter runs first.
func GenerateEmployeeReport(tasks []model.Task, roster []team.Member, filter TimeFilter, now time.Time, startDates map[string]time.Time) []EmployeeStats {
	tasks = ApplyTimeFilter(gated(tasks), filter, now, startDates)
	return rollup(tasks, roster, now)
}
