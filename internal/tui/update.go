package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/getfive/trackboard/internal/model"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.projects = msg.projects
		if m.selected >= len(m.projects) {
			m.selected = 0
		}
		return m, m.loadSnapshot

	case snapshotMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		m.lastSeq = msg.lastSeq
		m.reclassify()
		return m, nil

	case taskActedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.pollFeed

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, keys.Tab):
		if m.focus == paneProjects {
			m.focus = paneBoard
		} else {
			m.focus = paneProjects
		}
		return m, nil

	case key.Matches(msg, keys.Escape):
		m.focus = paneProjects
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, m.pollFeed

	case key.Matches(msg, keys.NextWeek):
		m.toggles.ShowNextWeek = !m.toggles.ShowNextWeek
		m.reclassify()
		return m, nil

	case key.Matches(msg, keys.TeamFeed):
		m.toggles.ShowTeamFeed = !m.toggles.ShowTeamFeed
		m.reclassify()
		return m, nil

	case key.Matches(msg, keys.Completed):
		m.toggles.ShowCompleted = !m.toggles.ShowCompleted
		m.reclassify()
		return m, nil
	}

	if m.focus == paneProjects {
		return m.handleProjectsKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m *Model) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.projects)-1 {
			m.selected++
		}
	case key.Matches(msg, keys.Enter):
		m.focus = paneBoard
		m.cursor = 0
		return m, m.loadSnapshot
	}
	return m, nil
}

func (m *Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Start):
		return m, m.actOnCursor(m.db.StartTask)
	case key.Matches(msg, keys.Complete):
		return m, m.actOnCursor(m.db.CompleteTask)
	case key.Matches(msg, keys.Approve):
		if m.viewer.IsAdminClass {
			return m, m.actOnCursor(m.db.ApproveTask)
		}
		m.errMsg = "approval requires an admin"
	case key.Matches(msg, keys.Hold):
		return m, m.actOnCursor(m.db.HoldTask)
	case key.Matches(msg, keys.Resume):
		return m, m.actOnCursor(m.db.ResumeTask)
	}
	return m, nil
}

// moveCursor skips bucket header rows
func (m *Model) moveCursor(delta int) {
	i := m.cursor + delta
	for i >= 0 && i < len(m.rows) && m.rows[i].task == nil {
		i += delta
	}
	if i >= 0 && i < len(m.rows) {
		m.cursor = i
	}
}

func (m *Model) actOnCursor(action func(ctx context.Context, id string) (*model.Task, error)) tea.Cmd {
	t := m.cursorTask()
	if t == nil {
		return nil
	}
	id := t.ID
	return func() tea.Msg {
		_, err := action(context.Background(), id)
		return taskActedMsg{err: err}
	}
}
