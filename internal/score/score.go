// Package score computes the per-member weekly scorecard shown next to the
// task board.
package score

import (
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/week"
)

// Scorecard summarizes one member's standing in a project
type Scorecard struct {
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Late      int `json:"late"`
	Score     int `json:"score"`
}

// Compute builds the scorecard for an identity over a project snapshot.
// The score is (completed - assigned) * 10: it stays negative while any
// assigned task is incomplete and reaches zero only when everything
// assigned is done. Callers must not "correct" the sign.
func Compute(tasks []model.Task, email string, currentWeek int, projectStart *time.Time) Scorecard {
	var sc Scorecard
	for i := range tasks {
		t := &tasks[i]
		if t.Excluded() || !t.IsAssignedTo(email) {
			continue
		}
		sc.Assigned++
		switch t.Status {
		case model.StatusCompleted:
			sc.Completed++
			if week.IsLate(t, projectStart) {
				sc.Late++
			}
		case model.StatusPending:
			if t.TargetWeek < currentWeek {
				sc.Overdue++
			}
		}
	}
	sc.Score = (sc.Completed - sc.Assigned) * 10
	return sc
}
