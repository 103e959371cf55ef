package rebalance

// LargeItems yields (nodeIdx, itemIdx) candidates to relocate off
// heavily-used nodes: it walks Model.Order from the most utilized node
// down, stopping as soon as the gap between the current node's
// fractional utilization and the least-utilized node's falls below
// nodeFractionThreshold -- no remaining pair of nodes can be far
// enough apart to be worth considering past that point. Within each
// node visited before the stop it walks plannedItems largest first
// (already sorted that way by resort), skipping any item that has
// already moved this pass; a moved item is never reconsidered as a
// "from" candidate.
func LargeItems(m *Model, nodeFractionThreshold float64) func(yield func(nodeIdx, itemIdx int) bool) {
	return func(yield func(nodeIdx, itemIdx int) bool) {
		if len(m.order) == 0 {
			return
		}
		mostEmpty := m.nodes[m.order[len(m.order)-1]].PlannedFractionUsed()

		for _, ni := range m.order {
			n := m.nodes[ni]
			if n.PlannedFractionUsed()-mostEmpty < nodeFractionThreshold {
				return
			}
			for _, ii := range n.plannedItems {
				if m.items[ii].HasMoved() {
					continue
				}
				if !yield(ni, ii) {
					return
				}
			}
		}
	}
}

// SmallItems yields (nodeIdx, itemIdx) candidates as swap partners
// drawn from the least-used nodes: it walks Model.Order in reverse
// (least utilized node first), stopping once it reaches largeNode --
// nodes at or past largeNode are at least as full as it, so they make
// no sense as swap destinations for an item coming off it. Within
// each node visited before the stop it walks plannedItems smallest
// first, skipping any item that has already moved this pass.
func SmallItems(m *Model, largeNode int) func(yield func(nodeIdx, itemIdx int) bool) {
	return func(yield func(nodeIdx, itemIdx int) bool) {
		for oi := len(m.order) - 1; oi >= 0; oi-- {
			ni := m.order[oi]
			if ni == largeNode {
				return
			}
			n := m.nodes[ni]
			for k := len(n.plannedItems) - 1; k >= 0; k-- {
				ii := n.plannedItems[k]
				if m.items[ii].HasMoved() {
					continue
				}
				if !yield(ni, ii) {
					return
				}
			}
		}
	}
}
