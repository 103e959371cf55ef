package rebalance

import "sort"

// FeasibilityFunc reports whether the item at itemIdx may be relocated
// to the node at nodeIdx. A Model always applies its own base rules
// (not the item's initial node, fits in remaining capacity) before
// consulting extra, so domain FeasibilityFuncs only need to add
// domain-specific restrictions (leader pinning, one-replica-per-broker,
// ...) on top; they do not need to re-derive the base rules themselves.
type FeasibilityFunc func(m *Model, itemIdx, nodeIdx int) bool

// Model is the arena holding every node and item under consideration
// for one planning pass. Nodes and items are addressed by their index
// into the arena; that index is stable for the lifetime of the Model
// even though Order changes as planning proceeds. Keeping the arena
// itself append-only and never reordering it is what lets Item store
// plain int indices as owner references instead of pointers.
type Model struct {
	nodes []*Node
	items []*Item

	// order holds node arena indices sorted by descending
	// PlannedFractionUsed as of the last call to resort. It is a
	// permutation, never a reordering of nodes itself, so that
	// existing item owner indices are never invalidated by a resort.
	order []int

	extra FeasibilityFunc
}

// NewModel builds a Model from a set of nodes and, for each node, the
// items initially placed on it. itemsByNode[i] lists the items that
// start on nodes[i]. Every Item's InitialOwnerHint, if non-nil, must
// equal nodes[i].Payload for the node it is grouped under; a mismatch
// is reported as an InconsistentInputError, catching callers who built
// the same domain item under two disagreeing owners.
//
// extra may be nil, in which case CanMoveTo applies only the generic
// rules.
func NewModel(nodes []*Node, itemsByNode [][]*Item, extra FeasibilityFunc) (*Model, error) {
	m := &Model{extra: extra}

	for ni, n := range nodes {
		n.initialItems = nil
		n.plannedItems = nil
		n.plannedUsed = 0
		m.nodes = append(m.nodes, n)

		for _, it := range itemsByNode[ni] {
			if it.InitialOwnerHint != nil && it.InitialOwnerHint != n.Payload {
				return nil, &InconsistentInputError{ItemIndex: len(m.items)}
			}
			ii := len(m.items)
			it.initialOwner = ni
			it.plannedOwner = -1
			m.items = append(m.items, it)

			n.initialItems = append(n.initialItems, ii)
			n.plannedItems = append(n.plannedItems, ii)
			n.plannedUsed += it.Size
		}
	}

	m.resort()
	return m, nil
}

// NumNodes returns the number of nodes in the arena.
func (m *Model) NumNodes() int { return len(m.nodes) }

// NumItems returns the number of items in the arena.
func (m *Model) NumItems() int { return len(m.items) }

// Node returns the node at arena index i.
func (m *Model) Node(i int) *Node { return m.nodes[i] }

// Item returns the item at arena index i.
func (m *Model) Item(i int) *Item { return m.items[i] }

// Order returns the node arena indices in descending
// PlannedFractionUsed order, as of the last resort.
func (m *Model) Order() []int { return m.order }

// ItemsOn returns the arena indices of the items currently planned
// onto the node at nodeIdx, largest first as of the last resort. The
// returned slice is a copy; mutating it has no effect on the Model.
// Domain FeasibilityFuncs use this to answer cross-node queries (e.g.
// "does this broker already hold a replica of this partition") that
// the generic Model has no vocabulary for.
func (m *Model) ItemsOn(nodeIdx int) []int {
	src := m.nodes[nodeIdx].plannedItems
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Move relocates the item at itemIdx onto the node at destIdx,
// updating both nodes' plannedItems/plannedUsed bookkeeping and the
// item's plannedOwner. It does not resort; callers resort once after
// a round of moves, mirroring the original planner's "move, then
// resort" step boundary.
func (m *Model) Move(itemIdx, destIdx int) {
	it := m.items[itemIdx]
	src := m.nodes[it.CurrentOwnerIndex()]
	dst := m.nodes[destIdx]

	src.plannedItems = removeIndex(src.plannedItems, itemIdx)
	src.plannedUsed -= it.Size

	dst.plannedItems = append(dst.plannedItems, itemIdx)
	dst.plannedUsed += it.Size

	it.plannedOwner = destIdx
}

func removeIndex(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// resort re-sorts each node's plannedItems by descending Size, and
// recomputes the node visitation order by descending
// PlannedFractionUsed. Node arena positions themselves are never
// touched, only the two derived orderings.
func (m *Model) resort() {
	for _, n := range m.nodes {
		items := m.items
		sort.Slice(n.plannedItems, func(a, b int) bool {
			return items[n.plannedItems[a]].Size > items[n.plannedItems[b]].Size
		})
	}

	m.order = make([]int, len(m.nodes))
	for i := range m.order {
		m.order[i] = i
	}
	nodes := m.nodes
	sort.SliceStable(m.order, func(a, b int) bool {
		return nodes[m.order[a]].PlannedFractionUsed() > nodes[m.order[b]].PlannedFractionUsed()
	})
}

// BaseCanMoveTo applies the two node-agnostic feasibility rules every
// move must satisfy regardless of domain: the destination must not be
// the item's initial node, and the item must fit within the
// destination's remaining capacity. The check is deliberately against
// InitialOwnerIndex, not CurrentOwnerIndex: an item that has already
// moved away from its initial node must not be allowed to bounce back
// to where it started.
func (m *Model) BaseCanMoveTo(itemIdx, nodeIdx int) bool {
	it := m.items[itemIdx]
	if nodeIdx == it.InitialOwnerIndex() {
		return false
	}
	dst := m.nodes[nodeIdx]
	return dst.plannedUsed+it.Size <= dst.Capacity
}

// CanMoveTo reports whether the item at itemIdx may be relocated to
// the node at nodeIdx. It always requires BaseCanMoveTo to hold; if
// the Model was built with a non-nil FeasibilityFunc, that function is
// also consulted and must agree.
func (m *Model) CanMoveTo(itemIdx, nodeIdx int) bool {
	if !m.BaseCanMoveTo(itemIdx, nodeIdx) {
		return false
	}
	if m.extra == nil {
		return true
	}
	return m.extra(m, itemIdx, nodeIdx)
}
