package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
)

// recordEvent appends a change-feed entry inside the caller's transaction.
// Insert and update events carry the full task as payload so pollers can
// fold them without another round trip; delete carries only the id.
func (db *DB) recordEvent(ctx context.Context, tx *sql.Tx, t *model.Task, eventType string) error {
	payload := ""
	if eventType != feed.EventDelete {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode event payload: %w", err)
		}
		payload = string(data)
	}
	_, err := tx.ExecContext(ctx, db.rebind(`
		INSERT INTO task_events (project_id, event_type, task_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		t.ProjectID, eventType, t.ID, payload,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// EventsAfter returns a project's change-feed entries with seq greater than
// after, in sequence order. Clients poll with the last seq they have seen.
func (db *DB) EventsAfter(ctx context.Context, projectID string, after int64) ([]feed.Event, error) {
	rows, err := db.QueryContext(ctx, db.rebind(`
		SELECT seq, event_type, task_id, payload
		FROM task_events
		WHERE project_id = ? AND seq > ?
		ORDER BY seq`), projectID, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []feed.Event
	for rows.Next() {
		var ev feed.Event
		var payload string
		if err := rows.Scan(&ev.Seq, &ev.Type, &ev.TaskID, &payload); err != nil {
			return nil, err
		}
		if payload != "" {
			var t model.Task
			if err := json.Unmarshal([]byte(payload), &t); err != nil {
				return nil, fmt.Errorf("failed to decode event payload: %w", err)
			}
			ev.Task = &t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
