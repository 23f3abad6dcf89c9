package report

import (
	"math"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/week"
)

// SeriesPoint is one weekly bucket of the backlog-pressure curve
type SeriesPoint struct {
	WeekStart            time.Time `json:"week_start"`
	Active               int       `json:"active"`
	Completed            int       `json:"completed"`
	Introduced           int       `json:"introduced"`
	IntroducedCompleted  int       `json:"introduced_completed"`
	CarriedOver          int       `json:"carried_over"`
	CarriedOverCompleted int       `json:"carried_over_completed"`
	Score                int       `json:"score"`
}

type seriesTask struct {
	intro time.Time
	comp  *time.Time
}

// ComputeEmployeePerformanceSeries builds the contiguous Monday-bucketed
// timeline for one identity across every project with a known start date.
// A task is active in a bucket once introduced and until the bucket it was
// completed in (inclusive). The score is (completed/active - 1) * 100: a
// backlog-pressure metric in [-100, 0] where 0 means every active task
// that week was closed. The formula is deliberate; do not normalize it.
func ComputeEmployeePerformanceSeries(tasks []model.Task, email string, startDates map[string]time.Time, now time.Time) []SeriesPoint {
	var details []seriesTask
	for i := range tasks {
		t := &tasks[i]
		if t.Excluded() || !t.IsAssignedTo(email) {
			continue
		}
		start, ok := startDates[t.ProjectID]
		if !ok {
			continue
		}
		targetWeek := t.TargetWeek
		if targetWeek < 1 {
			targetWeek = 1
		}
		intro := week.MondayOf(start.AddDate(0, 0, (targetWeek-1)*7))
		st := seriesTask{intro: intro}
		if t.Status == model.StatusCompleted && t.EndTime != nil {
			comp := week.MondayOf(*t.EndTime)
			st.comp = &comp
		}
		details = append(details, st)
	}
	if len(details) == 0 {
		return nil
	}

	minMonday := details[0].intro
	maxMonday := week.MondayOf(now)
	for _, d := range details {
		if d.intro.Before(minMonday) {
			minMonday = d.intro
		}
		if d.comp != nil && d.comp.After(maxMonday) {
			maxMonday = *d.comp
		}
	}
	if minMonday.After(maxMonday) {
		minMonday = maxMonday
	}

	var points []SeriesPoint
	for bucket := minMonday; !bucket.After(maxMonday); bucket = bucket.AddDate(0, 0, 7) {
		p := SeriesPoint{WeekStart: bucket}
		for _, d := range details {
			if d.intro.After(bucket) {
				continue
			}
			if d.comp != nil && d.comp.Before(bucket) {
				continue // closed in an earlier bucket
			}
			completedHere := d.comp != nil && d.comp.Equal(bucket)
			if d.intro.Equal(bucket) {
				p.Introduced++
				if completedHere {
					p.IntroducedCompleted++
				}
			} else {
				p.CarriedOver++
				if completedHere {
					p.CarriedOverCompleted++
				}
			}
		}
		p.Active = p.Introduced + p.CarriedOver
		p.Completed = p.IntroducedCompleted + p.CarriedOverCompleted
		if p.Active > 0 {
			p.Score = int(math.Round((float64(p.Completed)/float64(p.Active) - 1) * 100))
		}
		points = append(points, p)
	}
	return points
}
