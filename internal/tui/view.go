package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/getfive/trackboard/internal/model"
)

// View renders the dashboard
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := HeaderStyle.Render(fmt.Sprintf("Trackboard — %s", m.user.Email))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderBoard())
	status := m.renderStatusBar()

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderHelp(), status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString("Projects\n\n")
	if len(m.projects) == 0 {
		b.WriteString(HelpStyle.Render("none"))
	}
	for i, p := range m.projects {
		line := fmt.Sprintf("%s %s", p.ID, truncate(p.Name, 14))
		if p.Status != model.ProjectActive {
			line += " (" + p.Status + ")"
		}
		if i == m.selected {
			b.WriteString(ProjectItemSelectedStyle.Render(line))
		} else {
			b.WriteString(ProjectItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return SidebarStyle.Render(b.String())
}

func (m *Model) renderBoard() string {
	p := m.openProject()
	if p == nil {
		return BoardStyle.Render(HelpStyle.Render("select a project"))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s — week %d\n", p.Name, m.currentWeek))
	b.WriteString(m.renderScorecard())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(HelpStyle.Render("nothing on the board"))
	}
	for i, row := range m.rows {
		if row.task == nil {
			b.WriteString(m.bucketHeader(row.header))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderTask(row.task, i == m.cursor && m.focus == paneBoard))
		b.WriteString("\n")
	}
	return BoardStyle.Render(b.String())
}

func (m *Model) bucketHeader(label string) string {
	switch label {
	case "Action Required":
		return ActionHeaderStyle.Render(label)
	case "This Week":
		return ThisWeekHeaderStyle.Render(label)
	case "Next Week":
		return NextWeekHeaderStyle.Render(label)
	default:
		return CompletedHeaderStyle.Render(label)
	}
}

func (m *Model) renderTask(t *model.Task, selected bool) string {
	line := fmt.Sprintf("W%-2d %-40s %s", t.TargetWeek, truncate(t.Name, 40), statusLabel(t.Status))
	if len(t.Remarks) > 0 {
		line += fmt.Sprintf(" [%d remarks]", len(t.Remarks))
	}
	switch {
	case selected:
		return TaskItemSelectedStyle.Render(line)
	case t.Status == model.StatusCompleted:
		return TaskDoneStyle.Render(line)
	default:
		return TaskItemStyle.Render(line)
	}
}

func (m *Model) renderScorecard() string {
	sc := m.scorecard
	scoreStr := fmt.Sprintf("score %d", sc.Score)
	if sc.Score < 0 {
		scoreStr = ScoreNegativeStyle.Render(scoreStr)
	} else {
		scoreStr = ScoreStyle.Render(scoreStr)
	}
	return fmt.Sprintf("%d assigned · %d done · %d overdue · %d late · %s",
		sc.Assigned, sc.Completed, sc.Overdue, sc.Late, scoreStr)
}

func (m *Model) renderStatusBar() string {
	parts := []string{
		toggleLabel("n:next-week", m.toggles.ShowNextWeek),
		toggleLabel("f:team-feed", m.toggles.ShowTeamFeed),
		toggleLabel("c:completed", m.toggles.ShowCompleted),
		"R:refresh",
		"?:help",
		"q:quit",
	}
	bar := strings.Join(parts, "  ")
	if m.errMsg != "" {
		bar += "  " + lipgloss.NewStyle().Foreground(Negative).Render(m.errMsg)
	}
	return StatusBarStyle.Width(m.width).Render(bar)
}

func (m *Model) renderHelp() string {
	return HelpStyle.Render(
		"s start · x complete · A approve · h hold · r resume · tab switch pane · enter open project")
}

func toggleLabel(label string, on bool) string {
	if on {
		return HeaderStyle.Render(label)
	}
	return label
}

func statusLabel(status string) string {
	switch status {
	case model.StatusPending:
		return "pending"
	case model.StatusInProgress:
		return "in progress"
	case model.StatusOnHold:
		return "on hold"
	case model.StatusAwaitingApproval:
		return "awaiting approval"
	case model.StatusCompleted:
		return "completed"
	default:
		return status
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
