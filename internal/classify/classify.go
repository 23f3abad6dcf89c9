// Package classify partitions a project's task snapshot into the four
// display buckets of the weekly board. Classification is a pure function of
// the snapshot, the current week, and the viewer; it never mutates inputs.
package classify

import "github.com/getfive/trackboard/internal/model"

// Toggles are the viewer-controlled board switches
type Toggles struct {
	ShowTeamFeed  bool
	ShowNextWeek  bool
	AssignMode    bool
	ShowCompleted bool
}

// Buckets holds the classified board columns. A task appears in at most
// one bucket.
type Buckets struct {
	ActionRequired []model.Task
	ThisWeek       []model.Task
	NextWeek       []model.Task
	Completed      []model.Task
}

// Visible reports whether a task belongs on the board at all for the given
// week window. In-flight tasks are always visible; pending and completed
// tasks only up to maxVisibleWeek.
func visible(t *model.Task, maxVisibleWeek int) bool {
	switch t.Status {
	case model.StatusInProgress, model.StatusOnHold, model.StatusAwaitingApproval:
		return true
	case model.StatusPending, model.StatusCompleted:
		return t.TargetWeek <= maxVisibleWeek
	default:
		return false
	}
}

// ActionRequired reports whether a visible task needs immediate attention
// from this viewer: in-flight without an end time, pending past its week,
// or awaiting approval (always for admin-class, otherwise only once late).
func ActionRequired(t *model.Task, currentWeek int, viewer model.Viewer) bool {
	switch t.Status {
	case model.StatusInProgress, model.StatusOnHold:
		return t.EndTime == nil
	case model.StatusPending:
		return t.TargetWeek < currentWeek
	case model.StatusAwaitingApproval:
		return viewer.IsAdminClass || t.TargetWeek < currentWeek
	default:
		return false
	}
}

// Classify builds the board buckets for a viewer. Tasks gated out by the
// requirement field are dropped first. Next-week visibility is an RM-class
// privilege; other viewers never see a next-week bucket.
func Classify(tasks []model.Task, currentWeek int, viewer model.Viewer, toggles Toggles) Buckets {
	maxVisibleWeek := currentWeek
	if toggles.ShowNextWeek && viewer.IsRMClass {
		maxVisibleWeek++
	}

	scopeToViewer := !toggles.ShowTeamFeed && !toggles.AssignMode

	var b Buckets
	for i := range tasks {
		t := tasks[i]
		if t.Excluded() {
			continue
		}
		if !visible(&t, maxVisibleWeek) {
			continue
		}
		if scopeToViewer && !t.IsAssignedTo(viewer.Email) {
			continue
		}

		switch {
		case t.Status == model.StatusCompleted:
			if toggles.ShowCompleted {
				b.Completed = append(b.Completed, t)
			}
		case ActionRequired(&t, currentWeek, viewer):
			b.ActionRequired = append(b.ActionRequired, t)
		case t.TargetWeek > currentWeek:
			if toggles.ShowNextWeek && viewer.IsRMClass {
				b.NextWeek = append(b.NextWeek, t)
			}
		default:
			b.ThisWeek = append(b.ThisWeek, t)
		}
	}
	return b
}
