package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
)

// ErrInvalidTransition is returned when a task action is not allowed from
// the task's current status.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// CreateTask inserts a task and records an insert event
func (db *DB) CreateTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusPending
	}

	remarks, err := json.Marshal(t.Remarks)
	if err != nil {
		return fmt.Errorf("failed to encode remarks: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, db.rebind(`
		INSERT INTO tasks (
			id, project_id, name, phase, target_week, status, requirement,
			assignees, assignee_role, start_time, end_time, deadline,
			remarks, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.ProjectID, t.Name, t.Phase, t.TargetWeek, t.Status, t.Requirement,
		joinList(t.Assignees), t.AssigneeRole,
		fmtTime(t.StartTime), fmtTime(t.EndTime), fmtTime(t.Deadline),
		string(remarks), t.CreatedAt.Format(time.RFC3339Nano), t.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	if err := db.recordEvent(ctx, tx, t, feed.EventInsert); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTask fetches a task by id
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, db.rebind(taskSelect+` WHERE id = ?`), id)
	return scanTask(row)
}

// ListTasks returns a project's tasks in creation order
func (db *DB) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, db.rebind(taskSelect+`
		WHERE project_id = ? ORDER BY created_at, id`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListAllTasks returns every task across all projects
func (db *DB) ListAllTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, taskSelect+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// StartTask moves pending -> in_progress and stamps the start time
func (db *DB) StartTask(ctx context.Context, id string) (*model.Task, error) {
	return db.transition(ctx, id, model.StatusInProgress, func(t *model.Task, now time.Time) {
		if t.StartTime == nil {
			t.StartTime = &now
		}
	})
}

// CompleteTask moves in_progress -> awaiting_approval and stamps the end time
func (db *DB) CompleteTask(ctx context.Context, id string) (*model.Task, error) {
	return db.transition(ctx, id, model.StatusAwaitingApproval, func(t *model.Task, now time.Time) {
		t.EndTime = &now
	})
}

// ApproveTask moves awaiting_approval -> completed. The admin-class check
// belongs to the caller; the store only enforces the transition.
func (db *DB) ApproveTask(ctx context.Context, id string) (*model.Task, error) {
	return db.transition(ctx, id, model.StatusCompleted, nil)
}

// HoldTask moves in_progress -> on_hold
func (db *DB) HoldTask(ctx context.Context, id string) (*model.Task, error) {
	return db.transition(ctx, id, model.StatusOnHold, nil)
}

// ResumeTask moves on_hold -> in_progress
func (db *DB) ResumeTask(ctx context.Context, id string) (*model.Task, error) {
	return db.transition(ctx, id, model.StatusInProgress, nil)
}

func (db *DB) transition(ctx context.Context, id, to string, stamp func(*model.Task, time.Time)) (*model.Task, error) {
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(t.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	if stamp != nil {
		stamp(t, time.Now().UTC())
	}
	if err := db.updateTaskRecord(ctx, t, feed.EventUpdate); err != nil {
		return nil, err
	}
	return t, nil
}

// AssignTask replaces the task's assignee list
func (db *DB) AssignTask(ctx context.Context, id string, assignees []string) (*model.Task, error) {
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Assignees = assignees
	if err := db.updateTaskRecord(ctx, t, feed.EventUpdate); err != nil {
		return nil, err
	}
	return t, nil
}

// SetRequirement classifies a task. already_completed forces the status to
// completed and stamps the end time; not_applicable leaves the status alone
// and lets the views gate the task out.
func (db *DB) SetRequirement(ctx context.Context, id, requirement string) (*model.Task, error) {
	switch requirement {
	case model.RequirementUnset, model.RequirementApplicable,
		model.RequirementNotApplicable, model.RequirementAlreadyCompleted:
	default:
		return nil, fmt.Errorf("invalid requirement %q", requirement)
	}
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Requirement = requirement
	if requirement == model.RequirementAlreadyCompleted {
		now := time.Now().UTC()
		t.Status = model.StatusCompleted
		t.EndTime = &now
	}
	if err := db.updateTaskRecord(ctx, t, feed.EventUpdate); err != nil {
		return nil, err
	}
	return t, nil
}

// AddRemark appends a remark. Remarks are never edited or removed.
func (db *DB) AddRemark(ctx context.Context, id string, r model.Remark) (*model.Task, error) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Remarks = append(t.Remarks, r)
	if err := db.updateTaskRecord(ctx, t, feed.EventUpdate); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task and records a delete event
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := db.recordEvent(ctx, tx, t, feed.EventDelete); err != nil {
		return err
	}
	return tx.Commit()
}

// updateTaskRecord persists the full task row and records an event in one
// transaction.
func (db *DB) updateTaskRecord(ctx context.Context, t *model.Task, eventType string) error {
	t.UpdatedAt = time.Now().UTC()
	remarks, err := json.Marshal(t.Remarks)
	if err != nil {
		return fmt.Errorf("failed to encode remarks: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, db.rebind(`
		UPDATE tasks SET
			name = ?, phase = ?, target_week = ?, status = ?, requirement = ?,
			assignees = ?, assignee_role = ?, start_time = ?, end_time = ?,
			deadline = ?, remarks = ?, updated_at = ?
		WHERE id = ?`),
		t.Name, t.Phase, t.TargetWeek, t.Status, t.Requirement,
		joinList(t.Assignees), t.AssigneeRole,
		fmtTime(t.StartTime), fmtTime(t.EndTime), fmtTime(t.Deadline),
		string(remarks), t.UpdatedAt.Format(time.RFC3339Nano), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if err := db.recordEvent(ctx, tx, t, eventType); err != nil {
		return err
	}
	return tx.Commit()
}

const taskSelect = `
	SELECT id, project_id, name, phase, target_week, status, requirement,
	       assignees, assignee_role, start_time, end_time, deadline,
	       remarks, created_at, updated_at
	FROM tasks`

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	var assignees, remarks, createdAt, updatedAt string
	var start, end, deadline sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Phase, &t.TargetWeek,
		&t.Status, &t.Requirement, &assignees, &t.AssigneeRole,
		&start, &end, &deadline, &remarks, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	t.Assignees = splitList(assignees)
	t.StartTime = parseTime(start)
	t.EndTime = parseTime(end)
	t.Deadline = parseTime(deadline)
	if remarks != "" && remarks != "[]" {
		if err := json.Unmarshal([]byte(remarks), &t.Remarks); err != nil {
			return nil, fmt.Errorf("failed to decode remarks: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		t.UpdatedAt = ts
	}
	return &t, nil
}
