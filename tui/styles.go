package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	DiskBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1, 1, 0)

	OverUtilizedStyle = DiskBoxStyle.Copy().BorderForeground(lipgloss.Color("203"))
	UnderUtilizedStyle = DiskBoxStyle.Copy().BorderForeground(lipgloss.Color("78"))
	NeutralStyle       = DiskBoxStyle.Copy().BorderForeground(lipgloss.Color("241"))

	MoveArrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	FooterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)
