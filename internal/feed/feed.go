// Package feed folds task change events into a materialized snapshot. The
// transport (realtime channel or polling) delivers insert/update/delete
// events; the reducer applies them last-write-wins per task id and the
// resulting snapshot is re-passed wholesale into the pure classifier and
// report functions. Nothing here patches derived state incrementally.
package feed

import "github.com/getfive/trackboard/internal/model"

// Event types
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Event is one change-feed entry. Insert and update carry the full new
// record; delete carries only the id of the old one.
type Event struct {
	Seq    int64       `json:"seq"`
	Type   string      `json:"type"`
	TaskID string      `json:"task_id"`
	Task   *model.Task `json:"task,omitempty"`
}

// Apply folds one event into the snapshot and returns the new snapshot.
// The input slice is never mutated. Non-RM viewers only keep tasks they
// are assigned to: an update that unassigns them removes the task and one
// that assigns them inserts it.
func Apply(snapshot []model.Task, ev Event, viewer model.Viewer) []model.Task {
	switch ev.Type {
	case EventInsert:
		if ev.Task == nil {
			return snapshot
		}
		if !viewer.IsRMClass && !ev.Task.IsAssignedTo(viewer.Email) {
			return snapshot
		}
		return upsert(snapshot, *ev.Task)

	case EventUpdate:
		if ev.Task == nil {
			return snapshot
		}
		if !viewer.IsRMClass && !ev.Task.IsAssignedTo(viewer.Email) {
			return remove(snapshot, ev.Task.ID)
		}
		return upsert(snapshot, *ev.Task)

	case EventDelete:
		return remove(snapshot, ev.TaskID)

	default:
		return snapshot
	}
}

// Reduce applies events in order. Events must be delivered in sequence;
// the latest event for a task id always wins.
func Reduce(snapshot []model.Task, events []Event, viewer model.Viewer) []model.Task {
	for _, ev := range events {
		snapshot = Apply(snapshot, ev, viewer)
	}
	return snapshot
}

func upsert(snapshot []model.Task, task model.Task) []model.Task {
	out := make([]model.Task, len(snapshot))
	copy(out, snapshot)
	for i := range out {
		if out[i].ID == task.ID {
			out[i] = task
			return out
		}
	}
	return append(out, task)
}

func remove(snapshot []model.Task, id string) []model.Task {
	out := make([]model.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
