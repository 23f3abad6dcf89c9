// Package report builds the project overview, the per-employee rollups, and
// the weekly performance series for the dashboard. All computations are pure
// functions over a task snapshot; degenerate inputs (zero denominators,
// missing timestamps) resolve to sentinels instead of errors.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/team"
)

const unassigned = "Unassigned"

// Rate is a percentage that may be undefined when its denominator is zero
type Rate struct {
	Valid   bool
	Percent int
}

// String renders "N/A" for an undefined rate
func (r Rate) String() string {
	if !r.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", r.Percent)
}

// MarshalJSON emits the rate the way the dashboard displays it
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", r.String())), nil
}

func rate(num, den int) Rate {
	if den == 0 {
		return Rate{}
	}
	return Rate{Valid: true, Percent: int(math.Round(float64(num) / float64(den) * 100))}
}

// EmployeeStats is one rollup row of the employee performance table
type EmployeeStats struct {
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Pending        int     `json:"pending"`
	OnTime         int     `json:"on_time"`
	OnTimeRate     Rate    `json:"on_time_rate"`
	CompletionRate int     `json:"completion_rate"`
	AvgDuration    float64 `json:"avg_duration_days"`
	HasDuration    bool    `json:"has_duration"`
	OverduePending int     `json:"overdue_pending"`
	AvgOverdueDays int     `json:"avg_overdue_days"`

	totalDurationDays float64
	durationCount     int
	totalOverdueDays  float64
}

func statsFor(email, name, role string) *EmployeeStats {
	if name == "" {
		if email == unassigned {
			name = unassigned
		} else if i := strings.IndexByte(email, '@'); i > 0 {
			name = email[:i]
		} else {
			name = email
		}
	}
	if role == "" {
		role = "N/A"
	}
	return &EmployeeStats{Email: email, Name: name, Role: role}
}

// rollup accumulates per-employee stats over a gated task snapshot. The
// roster pre-seeds rows so members with no tasks still appear; tasks
// assigned outside the roster add rows as encountered, and tasks with no
// assignee at all accrue to a synthetic "Unassigned" row.
func rollup(tasks []model.Task, roster []team.Member, now time.Time) []EmployeeStats {
	index := make(map[string]*EmployeeStats)
	var order []string

	add := func(email, name, role string) *EmployeeStats {
		if s, ok := index[email]; ok {
			return s
		}
		s := statsFor(email, name, role)
		index[email] = s
		order = append(order, email)
		return s
	}

	for _, m := range roster {
		if m.Email != "" {
			add(m.Email, m.Name, m.Role)
		}
	}

	for i := range tasks {
		t := &tasks[i]
		if t.Excluded() {
			continue
		}
		emails := t.Assignees
		if len(emails) == 0 {
			emails = []string{unassigned}
		}
		for _, email := range emails {
			s := add(email, "", t.AssigneeRole)
			s.Total++
			switch t.Status {
			case model.StatusCompleted:
				s.Completed++
				if t.StartTime != nil && t.EndTime != nil {
					if d := t.EndTime.Sub(*t.StartTime).Hours() / 24; d >= 0 {
						s.totalDurationDays += d
						s.durationCount++
					}
				}
				if t.Deadline != nil && t.EndTime != nil && !t.EndTime.After(*t.Deadline) {
					s.OnTime++
				}
			case model.StatusInProgress, model.StatusOnHold:
				s.InProgress++
			case model.StatusPending:
				s.Pending++
				if t.Deadline != nil && now.After(*t.Deadline) {
					s.OverduePending++
					s.totalOverdueDays += now.Sub(*t.Deadline).Hours() / 24
				}
			}
		}
	}

	out := make([]EmployeeStats, 0, len(order))
	for _, email := range order {
		s := index[email]
		s.OnTimeRate = rate(s.OnTime, s.Completed)
		if r := rate(s.Completed, s.Total); r.Valid {
			s.CompletionRate = r.Percent
		}
		if s.durationCount > 0 {
			s.HasDuration = true
			s.AvgDuration = s.totalDurationDays / float64(s.durationCount)
		}
		if s.OverduePending > 0 {
			s.AvgOverdueDays = int(math.Round(s.totalOverdueDays / float64(s.OverduePending)))
		}
		out = append(out, *s)
	}
	return out
}

// gated returns the snapshot without requirement-excluded tasks
func gated(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Excluded() {
			out = append(out, t)
		}
	}
	return out
}
