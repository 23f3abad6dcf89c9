// Package tui is the terminal dashboard: a project sidebar, the classified
// weekly board, and the viewer's scorecard. It reads through the same core
// engines as the HTTP API and refreshes its snapshot from the task change
// feed.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/getfive/trackboard/internal/classify"
	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/score"
	"github.com/getfive/trackboard/internal/week"
)

// pane identifies the focused area
type pane int

const (
	paneProjects pane = iota
	paneBoard
)

// Model is the main TUI model
type Model struct {
	db     *db.DB
	user   *model.User
	viewer model.Viewer

	projects []model.Project
	selected int // index into projects

	// Task snapshot for the open project, maintained via the change feed
	tasks   []model.Task
	lastSeq int64

	toggles     classify.Toggles
	buckets     classify.Buckets
	rows        []boardRow
	cursor      int
	currentWeek int
	scorecard   score.Scorecard

	focus    pane
	width    int
	height   int
	showHelp bool
	errMsg   string
}

// boardRow is one rendered line of the board: a bucket header or a task
type boardRow struct {
	header string
	task   *model.Task
}

// NewModel builds the dashboard for a directory identity. An empty email
// falls back to the super-admin view.
func NewModel(database *db.DB, email string) (*Model, error) {
	if email == "" {
		email = model.SuperAdminEmail
	}
	user, err := database.GetUser(context.Background(), email)
	if err != nil {
		// Not in the directory yet; a bare identity still gets a view of
		// its own assignments.
		user = &model.User{Email: email}
		user.Normalize()
	}

	return &Model{
		db:     database,
		user:   user,
		viewer: model.ViewerFor(user),
	}, nil
}

// Init loads the project list
func (m *Model) Init() tea.Cmd {
	return m.loadProjects
}

// Messages

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type snapshotMsg struct {
	tasks   []model.Task
	lastSeq int64
	err     error
}

type taskActedMsg struct {
	err error
}

// Commands

func (m *Model) loadProjects() tea.Msg {
	ctx := context.Background()
	var (
		projects []model.Project
		err      error
	)
	if m.user.IsAdminClass() {
		projects, err = m.db.ListProjects(ctx)
	} else {
		projects, err = m.db.ProjectsForUser(ctx, m.user.Email)
	}
	return projectsLoadedMsg{projects: projects, err: err}
}

// loadSnapshot reads the full task list for the open project and the feed
// position to poll from.
func (m *Model) loadSnapshot() tea.Msg {
	ctx := context.Background()
	p := m.openProject()
	if p == nil {
		return snapshotMsg{}
	}
	tasks, err := m.db.ListTasks(ctx, p.ID)
	if err != nil {
		return snapshotMsg{err: err}
	}
	events, err := m.db.EventsAfter(ctx, p.ID, 0)
	if err != nil {
		return snapshotMsg{err: err}
	}
	var lastSeq int64
	if len(events) > 0 {
		lastSeq = events[len(events)-1].Seq
	}
	return snapshotMsg{tasks: tasks, lastSeq: lastSeq}
}

// pollFeed folds new change events into the current snapshot instead of
// re-reading the whole project.
func (m *Model) pollFeed() tea.Msg {
	p := m.openProject()
	if p == nil {
		return snapshotMsg{}
	}
	events, err := m.db.EventsAfter(context.Background(), p.ID, m.lastSeq)
	if err != nil {
		return snapshotMsg{err: err}
	}
	tasks := feed.Reduce(m.tasks, events, m.viewer)
	lastSeq := m.lastSeq
	if len(events) > 0 {
		lastSeq = events[len(events)-1].Seq
	}
	return snapshotMsg{tasks: tasks, lastSeq: lastSeq}
}

func (m *Model) openProject() *model.Project {
	if m.selected < 0 || m.selected >= len(m.projects) {
		return nil
	}
	return &m.projects[m.selected]
}

// reclassify rebuilds the board buckets, rows, and scorecard from the
// current snapshot.
func (m *Model) reclassify() {
	p := m.openProject()
	if p == nil {
		m.buckets = classify.Buckets{}
		m.rows = nil
		return
	}
	now := time.Now().UTC()
	m.currentWeek = week.Current(p.StartDate, now)
	m.buckets = classify.Classify(m.tasks, m.currentWeek, m.viewer, m.toggles)
	m.scorecard = score.Compute(m.tasks, m.viewer.Email, m.currentWeek, p.StartDate)

	m.rows = m.rows[:0]
	appendBucket := func(label string, tasks []model.Task) {
		if len(tasks) == 0 {
			return
		}
		m.rows = append(m.rows, boardRow{header: label})
		for i := range tasks {
			m.rows = append(m.rows, boardRow{task: &tasks[i]})
		}
	}
	appendBucket("Action Required", m.buckets.ActionRequired)
	appendBucket("This Week", m.buckets.ThisWeek)
	appendBucket("Next Week", m.buckets.NextWeek)
	appendBucket("Completed", m.buckets.Completed)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// cursorTask returns the task under the cursor, if any
func (m *Model) cursorTask() *model.Task {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].task
}
