package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("disk rebalance plan"))
	b.WriteString("\n")

	var boxes []string
	for _, d := range m.Disks {
		boxes = append(boxes, renderDisk(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.log.View())
		b.WriteString("\n")
	}

	b.WriteString(FooterStyle.Render("q to quit, arrow keys / pgup/pgdn to scroll moves"))
	return b.String()
}

func renderDisk(d DiskView) string {
	style := NeutralStyle
	beforePct := 100 * float64(d.UsedBefore) / float64(d.Capacity)
	afterPct := 100 * float64(d.UsedAfter) / float64(d.Capacity)

	switch {
	case afterPct > beforePct:
		style = OverUtilizedStyle
	case afterPct < beforePct:
		style = UnderUtilizedStyle
	}

	body := fmt.Sprintf("broker %d\n%s\n%.1f%% -> %.1f%%", d.BrokerID, d.MountPoint, beforePct, afterPct)
	return style.Render(body)
}
