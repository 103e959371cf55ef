// Package tui renders a computed rebalance plan as a static
// before/after view of per-disk utilization, in the style of
// adtyap26's partition-placement visualizer: a bubbletea Model
// driving lipgloss-rendered boxes per disk. Unlike that visualizer,
// this one never simulates placement itself; it only displays a plan
// rebalance.Plan already produced.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DiskView is one disk's state for rendering, before and after a
// plan's moves are applied.
type DiskView struct {
	BrokerID   int
	MountPoint string
	Capacity   int64
	UsedBefore int64
	UsedAfter  int64
}

// MoveView is one relocation for the scrollable move log.
type MoveView struct {
	Description string
}

// Model is the bubbletea model for the plan viewer. It holds a fixed
// snapshot; there is no interactive editing, only scrolling through
// move history. The move log itself is a bubbles/viewport so a plan
// with hundreds of relocations scrolls instead of overflowing the
// terminal.
type Model struct {
	Disks []DiskView
	Moves []MoveView

	log    viewport.Model
	width  int
	height int
	ready  bool
}

// NewModel builds a Model from disk and move snapshots.
func NewModel(disks []DiskView, moves []MoveView) Model {
	lines := make([]string, len(moves))
	for i, mv := range moves {
		lines[i] = mv.Description
	}
	m := Model{Disks: disks, Moves: moves}
	m.log = viewport.New(0, 0)
	m.log.SetContent(strings.Join(lines, "\n"))
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}
