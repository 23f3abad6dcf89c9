package model

import "time"

// Task statuses. Transitions move forward only: pending -> in_progress ->
// awaiting_approval -> completed, with on_hold reachable from in_progress
// and returning to it via resume.
const (
	StatusPending          = "pending"
	StatusInProgress       = "in_progress"
	StatusOnHold           = "on_hold"
	StatusAwaitingApproval = "awaiting_approval"
	StatusCompleted        = "completed"
)

// Requirement classifications. NotApplicable removes a task from every view
// and statistic; AlreadyCompleted forces status to completed.
const (
	RequirementUnset            = ""
	RequirementApplicable       = "applicable"
	RequirementNotApplicable    = "not_applicable"
	RequirementAlreadyCompleted = "already_completed"
)

// Task is a single unit of work inside a project tracker
type Task struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Name         string     `json:"name"`
	Phase        string     `json:"phase"`
	TargetWeek   int        `json:"target_week"`
	Status       string     `json:"status"`
	Requirement  string     `json:"requirement"`
	Assignees    []string   `json:"assignees,omitempty"`
	AssigneeRole string     `json:"assignee_role,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Remarks      []Remark   `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Remark is an immutable comment on a task. Remarks are append-only and
// never edited or deleted.
type Remark struct {
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsAssignedTo reports whether email is among the task's assignees
func (t *Task) IsAssignedTo(email string) bool {
	for _, a := range t.Assignees {
		if a == email {
			return true
		}
	}
	return false
}

// Excluded reports whether the task is gated out of all views and statistics
func (t *Task) Excluded() bool {
	return t.Requirement == RequirementNotApplicable
}

// CanTransition reports whether a status change is allowed. Approval
// (awaiting_approval -> completed) additionally requires an admin-class
// viewer, which callers check separately.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusAwaitingApproval || to == StatusOnHold
	case StatusOnHold:
		return to == StatusInProgress
	case StatusAwaitingApproval:
		return to == StatusCompleted
	default:
		return false
	}
}
