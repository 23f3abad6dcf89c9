package db

import (
	"context"
	"fmt"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/week"
)

// Template is one row of the master task template. Every new project gets
// a private copy of the full template as real tasks.
type Template struct {
	Position     int    `json:"position" yaml:"position"`
	Name         string `json:"name" yaml:"name"`
	Phase        string `json:"phase" yaml:"phase"`
	TargetWeek   int    `json:"target_week" yaml:"target_week"`
	AssigneeRole string `json:"assignee_role" yaml:"assignee_role"`
}

// ReplaceTemplates swaps the master template wholesale. Existing projects
// keep their already-instantiated tasks.
func (db *DB) ReplaceTemplates(ctx context.Context, templates []Template) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_templates`); err != nil {
		return fmt.Errorf("failed to clear templates: %w", err)
	}
	for _, tpl := range templates {
		_, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO task_templates (position, name, phase, target_week, assignee_role)
			VALUES (?, ?, ?, ?, ?)`),
			tpl.Position, tpl.Name, tpl.Phase, tpl.TargetWeek, tpl.AssigneeRole)
		if err != nil {
			return fmt.Errorf("failed to insert template: %w", err)
		}
	}
	return tx.Commit()
}

// ListTemplates returns the master template in position order
func (db *DB) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT position, name, phase, target_week, assignee_role
		FROM task_templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tpl Template
		if err := rows.Scan(&tpl.Position, &tpl.Name, &tpl.Phase, &tpl.TargetWeek, &tpl.AssigneeRole); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// InstantiateTemplate copies the master template into a project as pending
// tasks. Deadlines come from the project start date and each template's
// target week; assignees are seeded from the project's role mappings.
func (db *DB) InstantiateTemplate(ctx context.Context, p *model.Project) error {
	templates, err := db.ListTemplates(ctx)
	if err != nil {
		return err
	}
	for _, tpl := range templates {
		t := model.Task{
			ProjectID:    p.ID,
			Name:         tpl.Name,
			Phase:        tpl.Phase,
			TargetWeek:   tpl.TargetWeek,
			Status:       model.StatusPending,
			AssigneeRole: tpl.AssigneeRole,
			Assignees:    p.MembersForRole(tpl.AssigneeRole),
		}
		if p.StartDate != nil {
			d := week.StoredDeadline(*p.StartDate, tpl.TargetWeek)
			t.Deadline = &d
		}
		if err := db.CreateTask(ctx, &t); err != nil {
			return err
		}
	}
	return nil
}
