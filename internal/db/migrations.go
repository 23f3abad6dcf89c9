package db

import "fmt"

// migrate runs all database migrations
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateUsers,
		migrationCreateSessions,
		migrationCreateProjects,
		migrationCreateTasks,
		migrationCreateTemplates,
		db.eventsMigration(),
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// eventsMigration needs an auto-incrementing sequence column, which the
// two drivers spell differently.
func (db *DB) eventsMigration() string {
	if db.driver == "postgres" {
		return migrationCreateEventsPostgres
	}
	return migrationCreateEventsSQLite
}

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    roles TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`

const migrationCreateSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    token TEXT UNIQUE NOT NULL,
    expires_at TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
`

const migrationCreateProjects = `
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_date TEXT,
    status TEXT NOT NULL DEFAULT 'active',
    completed_at TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    team_rm TEXT NOT NULL DEFAULT '',
    team_fdd TEXT NOT NULL DEFAULT '',
    team_sec TEXT NOT NULL DEFAULT '',
    team_pc TEXT NOT NULL DEFAULT '',
    team_am TEXT NOT NULL DEFAULT '',
    team_add1 TEXT NOT NULL DEFAULT '',
    team_add2 TEXT NOT NULL DEFAULT '',
    team_add3 TEXT NOT NULL DEFAULT ''
);
`

const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT '',
    target_week INTEGER NOT NULL DEFAULT 1,
    status TEXT NOT NULL DEFAULT 'pending',
    requirement TEXT NOT NULL DEFAULT '',
    assignees TEXT NOT NULL DEFAULT '',
    assignee_role TEXT NOT NULL DEFAULT '',
    start_time TEXT,
    end_time TEXT,
    deadline TEXT,
    remarks TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
`

const migrationCreateTemplates = `
CREATE TABLE IF NOT EXISTS task_templates (
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT '',
    target_week INTEGER NOT NULL DEFAULT 1,
    assignee_role TEXT NOT NULL DEFAULT ''
);
`

const migrationCreateEventsSQLite = `
CREATE TABLE IF NOT EXISTS task_events (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    task_id TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_project ON task_events(project_id, seq);
`

const migrationCreateEventsPostgres = `
CREATE TABLE IF NOT EXISTS task_events (
    seq BIGSERIAL PRIMARY KEY,
    project_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    task_id TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_project ON task_events(project_id, seq);
`
