package rebalance

import (
	"errors"
	"testing"
)

// newTestModel builds a two-node model with the given per-node item
// sizes. Node capacities are supplied explicitly so tests can control
// fractional utilization precisely.
func newTestModel(t *testing.T, capacities []int64, sizesByNode [][]int64) *Model {
	t.Helper()

	nodes := make([]*Node, len(capacities))
	for i, c := range capacities {
		nodes[i] = &Node{Capacity: c, Payload: i}
	}

	itemsByNode := make([][]*Item, len(sizesByNode))
	for ni, sizes := range sizesByNode {
		for _, sz := range sizes {
			itemsByNode[ni] = append(itemsByNode[ni], &Item{Size: sz})
		}
	}

	m, err := NewModel(nodes, itemsByNode, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestNewModel_InconsistentOwnerHint(t *testing.T) {
	n0 := &Node{Capacity: 100, Payload: "n0"}
	n1 := &Node{Capacity: 100, Payload: "n1"}
	bad := &Item{Size: 10, InitialOwnerHint: "n1"}

	_, err := NewModel([]*Node{n0, n1}, [][]*Item{{bad}, nil}, nil)
	if err == nil {
		t.Fatal("expected InconsistentInputError, got nil")
	}
	var target *InconsistentInputError
	if !errors.As(err, &target) {
		t.Fatalf("expected *InconsistentInputError, got %T: %v", err, err)
	}
}

func TestModel_ArenaIndicesStableAcrossResort(t *testing.T) {
	m := newTestModel(t, []int64{100, 100, 100}, [][]int64{{90}, {10}, {5}})

	// Node 0 is fullest; resort should put it first in Order without
	// changing its arena index.
	if m.Order()[0] != 0 {
		t.Fatalf("expected node 0 first in order, got %v", m.Order())
	}

	itemIdx := m.Node(0).plannedItems[0]
	m.Move(itemIdx, 2)
	m.resort()

	if m.Item(itemIdx).CurrentOwnerIndex() != 2 {
		t.Fatalf("item owner index not updated after move+resort: got %d", m.Item(itemIdx).CurrentOwnerIndex())
	}
	// The arena slot itself never moves: index itemIdx still refers to
	// the same logical item regardless of where Order ranks its node.
	if m.Item(itemIdx).Size != 90 {
		t.Fatalf("arena index %d no longer refers to the original item", itemIdx)
	}
}

func TestBaseCanMoveTo_RejectsOrigin(t *testing.T) {
	m := newTestModel(t, []int64{100, 100}, [][]int64{{10}, nil})
	itemIdx := m.Node(0).plannedItems[0]

	if m.BaseCanMoveTo(itemIdx, 0) {
		t.Fatal("expected move to own initial node to be rejected")
	}
}

func TestBaseCanMoveTo_RejectsOverCapacity(t *testing.T) {
	m := newTestModel(t, []int64{100, 5}, [][]int64{{10}, nil})
	itemIdx := m.Node(0).plannedItems[0]

	if m.BaseCanMoveTo(itemIdx, 1) {
		t.Fatal("expected move exceeding destination capacity to be rejected")
	}
}

func TestCanMoveTo_ConsultsExtraPredicate(t *testing.T) {
	nodes := []*Node{{Capacity: 100}, {Capacity: 100}}
	items := [][]*Item{{{Size: 10}}, nil}
	calls := 0
	extra := func(m *Model, itemIdx, nodeIdx int) bool {
		calls++
		return false
	}
	m, err := NewModel(nodes, items, extra)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	itemIdx := m.Node(0).plannedItems[0]
	if m.CanMoveTo(itemIdx, 1) {
		t.Fatal("expected extra predicate to veto the move")
	}
	if calls != 1 {
		t.Fatalf("expected extra predicate to be called once base rules pass, got %d calls", calls)
	}
}
