package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/getfive/trackboard/internal/model"
)

// UpsertUser inserts or replaces a directory entry
func (db *DB) UpsertUser(ctx context.Context, u *model.User) error {
	u.Normalize()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO users (email, name, roles, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			roles = excluded.roles,
			password_hash = excluded.password_hash`),
		u.Email, u.Name, joinList(u.Roles), u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser fetches a directory entry by email. The super-admin address is
// forced to its role on every read, regardless of the stored record.
func (db *DB) GetUser(ctx context.Context, email string) (*model.User, error) {
	row := db.QueryRowContext(ctx, db.rebind(`
		SELECT email, name, roles, password_hash, created_at
		FROM users WHERE email = ?`), email)
	return scanUser(row)
}

// ListUsers returns the whole directory
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT email, name, roles, password_hash, created_at
		FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// LookupName implements team.Directory over the users table
func (db *DB) LookupName(email string) (string, bool) {
	u, err := db.GetUser(context.Background(), email)
	if err != nil {
		return "", false
	}
	return u.Name, u.Name != ""
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var roles, createdAt string
	if err := row.Scan(&u.Email, &u.Name, &roles, &u.PasswordHash, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Roles = splitList(roles)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}
	u.Normalize()
	return &u, nil
}

// CreateSession stores a login token
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO sessions (id, email, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		s.ID, s.Email, s.Token,
		s.ExpiresAt.UTC().Format(time.RFC3339),
		s.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession fetches a session by token
func (db *DB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	var expires, created string
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT id, email, token, expires_at, created_at
		FROM sessions WHERE token = ?`), token).
		Scan(&s.ID, &s.Email, &s.Token, &expires, &created)
	if err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, expires); err == nil {
		s.ExpiresAt = t
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		s.CreatedAt = t
	}
	return &s, nil
}

// DeleteSession invalidates a token
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.ExecContext(ctx, db.rebind(`DELETE FROM sessions WHERE token = ?`), token)
	return err
}
