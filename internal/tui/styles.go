package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Bucket colors
	ActionColor    = lipgloss.Color("#FF6B6B") // Red
	ThisWeekColor  = lipgloss.Color("#FFE66D") // Yellow
	NextWeekColor  = lipgloss.Color("#4ECDC4") // Teal
	CompletedColor = lipgloss.Color("#95E1A3") // Green

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Negative  = lipgloss.Color("#FF6B6B")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(24).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Board
	BoardStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Bucket headers
	ActionHeaderStyle    = lipgloss.NewStyle().Foreground(ActionColor).Bold(true)
	ThisWeekHeaderStyle  = lipgloss.NewStyle().Foreground(ThisWeekColor).Bold(true)
	NextWeekHeaderStyle  = lipgloss.NewStyle().Foreground(NextWeekColor).Bold(true)
	CompletedHeaderStyle = lipgloss.NewStyle().Foreground(CompletedColor).Bold(true)

	// Scorecard
	ScoreStyle         = lipgloss.NewStyle().Bold(true).Foreground(CompletedColor)
	ScoreNegativeStyle = lipgloss.NewStyle().Bold(true).Foreground(Negative)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)
