package classify

import (
	"testing"
	"time"

	"github.com/getfive/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
)

var (
	employee = model.Viewer{Email: "emp@getfive.in"}
	rm       = model.Viewer{Email: "rm@getfive.in", IsRMClass: true}
	admin    = model.Viewer{Email: "admin@getfive.in", IsRMClass: true, IsAdminClass: true}
)

func pendingTask(id string, targetWeek int, assignee string) model.Task {
	return model.Task{
		ID:         id,
		Status:     model.StatusPending,
		TargetWeek: targetWeek,
		Assignees:  []string{assignee},
	}
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestClassifyWeekWindow(t *testing.T) {
	// Mirrors the project-started-two-weeks-ago scenario: current week 3
	tasks := []model.Task{
		pendingTask("overdue", 2, employee.Email),
		pendingTask("due", 3, employee.Email),
		pendingTask("upcoming", 4, employee.Email),
	}

	b := Classify(tasks, 3, employee, Toggles{})
	assert.Equal(t, []string{"overdue"}, taskIDs(b.ActionRequired))
	assert.Equal(t, []string{"due"}, taskIDs(b.ThisWeek))
	assert.Empty(t, b.NextWeek)
	assert.Empty(t, b.Completed)
}

func TestClassifyNextWeekIsRMOnly(t *testing.T) {
	tasks := []model.Task{
		pendingTask("upcoming", 4, "rm@getfive.in"),
	}
	toggles := Toggles{ShowNextWeek: true}

	b := Classify(tasks, 3, rm, toggles)
	assert.Equal(t, []string{"upcoming"}, taskIDs(b.NextWeek))

	// The toggle has no effect for a plain employee
	tasks[0].Assignees = []string{employee.Email}
	b = Classify(tasks, 3, employee, toggles)
	assert.Empty(t, b.NextWeek)
	assert.Empty(t, b.ThisWeek)
}

func TestClassifyNotApplicableDropped(t *testing.T) {
	gated := pendingTask("gated", 3, employee.Email)
	gated.Requirement = model.RequirementNotApplicable
	kept := pendingTask("kept", 3, employee.Email)

	b := Classify([]model.Task{gated, kept}, 3, employee, Toggles{})
	assert.Equal(t, []string{"kept"}, taskIDs(b.ThisWeek))

	// Classifying with the gated task present equals classifying without it
	without := Classify([]model.Task{kept}, 3, employee, Toggles{})
	assert.Equal(t, without, b)
}

func TestClassifyInFlightAlwaysVisible(t *testing.T) {
	inProgress := model.Task{ID: "wip", Status: model.StatusInProgress, TargetWeek: 9, Assignees: []string{employee.Email}}
	onHold := model.Task{ID: "held", Status: model.StatusOnHold, TargetWeek: 9, Assignees: []string{employee.Email}}

	b := Classify([]model.Task{inProgress, onHold}, 2, employee, Toggles{})
	assert.ElementsMatch(t, []string{"wip", "held"}, taskIDs(b.ActionRequired))
}

func TestClassifyAwaitingApproval(t *testing.T) {
	waiting := model.Task{ID: "wait", Status: model.StatusAwaitingApproval, TargetWeek: 3, Assignees: []string{employee.Email, admin.Email}}

	// Admin always sees it as action-required
	b := Classify([]model.Task{waiting}, 3, admin, Toggles{})
	assert.Equal(t, []string{"wait"}, taskIDs(b.ActionRequired))

	// Employee sees it in this-week until it turns late
	b = Classify([]model.Task{waiting}, 3, employee, Toggles{})
	assert.Equal(t, []string{"wait"}, taskIDs(b.ThisWeek))

	b = Classify([]model.Task{waiting}, 4, employee, Toggles{})
	assert.Equal(t, []string{"wait"}, taskIDs(b.ActionRequired))
}

func TestClassifyOverdueNotDuplicated(t *testing.T) {
	overdue := pendingTask("overdue", 1, employee.Email)

	b := Classify([]model.Task{overdue}, 3, employee, Toggles{})
	assert.Equal(t, []string{"overdue"}, taskIDs(b.ActionRequired))
	assert.Empty(t, b.ThisWeek)
}

func TestClassifyCompletedToggle(t *testing.T) {
	done := model.Task{ID: "done", Status: model.StatusCompleted, TargetWeek: 2, Assignees: []string{employee.Email}}

	b := Classify([]model.Task{done}, 3, employee, Toggles{})
	assert.Empty(t, b.Completed)

	b = Classify([]model.Task{done}, 3, employee, Toggles{ShowCompleted: true})
	assert.Equal(t, []string{"done"}, taskIDs(b.Completed))
}

func TestClassifyViewerScoping(t *testing.T) {
	mine := pendingTask("mine", 3, employee.Email)
	theirs := pendingTask("theirs", 3, "other@getfive.in")
	shared := pendingTask("shared", 3, "other@getfive.in")
	shared.Assignees = append(shared.Assignees, employee.Email)

	b := Classify([]model.Task{mine, theirs, shared}, 3, employee, Toggles{})
	assert.ElementsMatch(t, []string{"mine", "shared"}, taskIDs(b.ThisWeek))

	// Team feed and assign mode both lift the scoping
	b = Classify([]model.Task{mine, theirs}, 3, rm, Toggles{ShowTeamFeed: true})
	assert.Len(t, b.ThisWeek, 2)

	b = Classify([]model.Task{mine, theirs}, 3, rm, Toggles{AssignMode: true})
	assert.Len(t, b.ThisWeek, 2)
}

func TestClassifyIdempotent(t *testing.T) {
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		pendingTask("a", 1, employee.Email),
		pendingTask("b", 3, employee.Email),
		{ID: "c", Status: model.StatusCompleted, TargetWeek: 2, EndTime: &end, Assignees: []string{employee.Email}},
	}
	toggles := Toggles{ShowCompleted: true}

	first := Classify(tasks, 3, employee, toggles)
	second := Classify(tasks, 3, employee, toggles)
	assert.Equal(t, first, second)
}
