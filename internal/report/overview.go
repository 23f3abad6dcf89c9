package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/team"
)

// PhaseProgress is one row of the phase-wise progress chart
type PhaseProgress struct {
	Phase     string `json:"phase"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

// Overview is the project-wide report
type Overview struct {
	Total           int             `json:"total"`
	Completed       int             `json:"completed"`
	Pending         int             `json:"pending"`
	InProgress      int             `json:"in_progress"`
	OnHold          int             `json:"on_hold"`
	ProgressPercent int             `json:"progress_percent"`
	OnTimeCount     int             `json:"on_time_count"`
	OnTimeRate      Rate            `json:"on_time_rate"`
	WithRemarks     int             `json:"with_remarks"`
	Phases          []PhaseProgress `json:"phases"`
	Employees       []EmployeeStats `json:"employees"`
}

// phaseNumber pulls the first integer embedded in a phase label, so
// "Phase-2" sorts after "Phase-1" regardless of formatting.
func phaseNumber(label string) int {
	start := -1
	for i, r := range label {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			n, _ := strconv.Atoi(label[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(label[start:])
		return n
	}
	return 0
}

// GenerateProjectOverview computes project-wide totals, the on-time rate,
// phase-wise progress, and the per-employee rollup seeded from the roster.
func GenerateProjectOverview(tasks []model.Task, roster []team.Member, now time.Time) Overview {
	tasks = gated(tasks)

	var o Overview
	o.Total = len(tasks)

	phaseIndex := make(map[string]*PhaseProgress)
	var phaseOrder []string

	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case model.StatusCompleted:
			o.Completed++
			if t.Deadline != nil && t.EndTime != nil && !t.EndTime.After(*t.Deadline) {
				o.OnTimeCount++
			}
		case model.StatusPending:
			o.Pending++
		case model.StatusInProgress:
			o.InProgress++
		case model.StatusOnHold:
			o.OnHold++
		}
		if len(t.Remarks) > 0 {
			o.WithRemarks++
		}

		phase := t.Phase
		if phase == "" {
			phase = "Unknown"
		}
		p, ok := phaseIndex[phase]
		if !ok {
			p = &PhaseProgress{Phase: phase}
			phaseIndex[phase] = p
			phaseOrder = append(phaseOrder, phase)
		}
		p.Total++
		if t.Status == model.StatusCompleted {
			p.Completed++
		}
	}

	if r := rate(o.Completed, o.Total); r.Valid {
		o.ProgressPercent = r.Percent
	}
	o.OnTimeRate = rate(o.OnTimeCount, o.Completed)

	sort.SliceStable(phaseOrder, func(a, b int) bool {
		na, nb := phaseNumber(phaseOrder[a]), phaseNumber(phaseOrder[b])
		if na != nb {
			return na < nb
		}
		return phaseOrder[a] < phaseOrder[b]
	})
	for _, label := range phaseOrder {
		p := phaseIndex[label]
		if r := rate(p.Completed, p.Total); r.Valid {
			p.Percent = r.Percent
		}
		o.Phases = append(o.Phases, *p)
	}

	o.Employees = rollup(tasks, roster, now)
	return o
}
