package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
)

// NextProjectID generates the next sequential id in the PR001, PR002, …
// pattern by scanning existing ids.
func (db *DB) NextProjectID(ctx context.Context) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM projects`)
	if err != nil {
		return "", fmt.Errorf("failed to scan project ids: %w", err)
	}
	defer rows.Close()

	max := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		if strings.HasPrefix(id, "PR") {
			if n, err := strconv.Atoi(id[2:]); err == nil && n > max {
				max = n
			}
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("PR%03d", max+1), nil
}

// CreateProject stores a project record. Task instantiation from the
// master template is a separate step (InstantiateTemplate).
func (db *DB) CreateProject(ctx context.Context, p *model.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Status == "" {
		p.Status = model.ProjectActive
	}
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO projects (
			id, name, start_date, status, completed_at, created_by, created_at,
			team_rm, team_fdd, team_sec, team_pc, team_am,
			team_add1, team_add2, team_add3
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Name, fmtTime(p.StartDate), p.Status, fmtTime(p.CompletedAt),
		p.CreatedBy, p.CreatedAt.Format(time.RFC3339),
		joinList(p.RM), joinList(p.FDD), joinList(p.Sec), joinList(p.PC), joinList(p.AM),
		joinList(p.Additional1), joinList(p.Additional2), joinList(p.Additional3))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject fetches a project by id
func (db *DB) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, db.rebind(projectSelect+` WHERE id = ?`), id)
	return scanProject(row)
}

// ListProjects returns every project
func (db *DB) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, projectSelect+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// ProjectsForUser returns the projects where the email appears in any team
// role. Admin-class viewers list everything instead of calling this.
func (db *DB) ProjectsForUser(ctx context.Context, email string) ([]model.Project, error) {
	all, err := db.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Project
	for _, p := range all {
		for _, rm := range p.TeamRoles() {
			if contains(rm.Members, email) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// SetProjectStatus moves a project between active, on_hold, and completed.
// Completion stamps the completion time; projects are never hard-deleted.
func (db *DB) SetProjectStatus(ctx context.Context, id, status string) error {
	switch status {
	case model.ProjectActive, model.ProjectOnHold, model.ProjectCompleted:
	default:
		return fmt.Errorf("invalid project status %q", status)
	}
	var completedAt interface{}
	if status == model.ProjectCompleted {
		completedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := db.ExecContext(ctx, db.rebind(`
		UPDATE projects SET status = ?, completed_at = ? WHERE id = ?`),
		status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProjectTeam rewrites the role mappings and reassigns every task
// whose template role is mapped, mirroring the team-save flow.
func (db *DB) UpdateProjectTeam(ctx context.Context, p *model.Project) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		UPDATE projects SET
			team_rm = ?, team_fdd = ?, team_sec = ?, team_pc = ?, team_am = ?,
			team_add1 = ?, team_add2 = ?, team_add3 = ?
		WHERE id = ?`),
		joinList(p.RM), joinList(p.FDD), joinList(p.Sec), joinList(p.PC), joinList(p.AM),
		joinList(p.Additional1), joinList(p.Additional2), joinList(p.Additional3),
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project team: %w", err)
	}

	tasks, err := db.ListTasks(ctx, p.ID)
	if err != nil {
		return err
	}
	for i := range tasks {
		t := &tasks[i]
		members := p.MembersForRole(t.AssigneeRole)
		if t.AssigneeRole == "" || members == nil {
			continue
		}
		if !sameList(t.Assignees, members) {
			t.Assignees = members
			if err := db.updateTaskRecord(ctx, t, feed.EventUpdate); err != nil {
				return err
			}
		}
	}
	return nil
}

const projectSelect = `
	SELECT id, name, start_date, status, completed_at, created_by, created_at,
	       team_rm, team_fdd, team_sec, team_pc, team_am,
	       team_add1, team_add2, team_add3
	FROM projects`

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var start, completed sql.NullString
	var createdAt string
	var rm, fdd, sec, pc, am, add1, add2, add3 string
	err := row.Scan(&p.ID, &p.Name, &start, &p.Status, &completed, &p.CreatedBy, &createdAt,
		&rm, &fdd, &sec, &pc, &am, &add1, &add2, &add3)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	p.StartDate = parseTime(start)
	p.CompletedAt = parseTime(completed)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	p.RM = splitList(rm)
	p.FDD = splitList(fdd)
	p.Sec = splitList(sec)
	p.PC = splitList(pc)
	p.AM = splitList(am)
	p.Additional1 = splitList(add1)
	p.Additional2 = splitList(add2)
	p.Additional3 = splitList(add3)
	return &p, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
