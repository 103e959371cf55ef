package rebalance

import (
	"log"
	"math"
)

// MoveKind distinguishes a plain relocation from one half of a swap.
// Both halves of a swap are reported as separate Move entries with
// the same Round, since a reassignment document only cares about the
// net broker-level effect on each partition replica, not which
// planner step produced it.
type MoveKind int

const (
	MoveKindRelocate MoveKind = iota
	MoveKindSwap
)

// Move records one accepted relocation: the item at ItemIdx moved
// from FromNode to ToNode during planning round Round.
type Move struct {
	Kind     MoveKind
	Round    int
	ItemIdx  int
	FromNode int
	ToNode   int
}

// Plan runs up to settings.MaxIterations rounds against m, each round
// accepting at most one move or one swap, and returns every accepted
// relocation in the order applied. m is left in its final planned
// state; callers read Item.PlannedOwnerIndex / Item.HasMoved off it
// directly, or pass it to a document builder.
//
// Plan returns ErrNoProgress (with whatever moves were accumulated so
// far, which may be none) if a round finds no move or swap that
// strictly reduces variance before MaxIterations is reached. That is
// expected termination, not failure, for an already-balanced cluster.
func Plan(m *Model, settings *Settings) ([]Move, error) {
	if m.NumNodes() == 0 || m.NumItems() == 0 {
		return nil, &EmptyPlanError{NumNodes: m.NumNodes(), NumItems: m.NumItems()}
	}

	var moves []Move
	for round := 0; round < settings.MaxIterations; round++ {
		m.resort()
		step, err := planOne(m, settings, round)
		if err != nil {
			return moves, err
		}
		if step == nil {
			if settings.Verbose {
				log.Printf("rebalance: round %d: no further progress possible, stopping", round)
			}
			return moves, ErrNoProgress
		}
		moves = append(moves, step...)
		if settings.Verbose {
			for _, mv := range step {
				log.Printf("rebalance: round %d: moved item %d (%s) from node %d to node %d", round, mv.ItemIdx, FormatBytes(m.Item(mv.ItemIdx).Size), mv.FromNode, mv.ToNode)
			}
		}
	}
	return moves, nil
}

// planOne attempts the move-step; if it finds nothing, and swapping
// is enabled, it falls back to the swap-step. Returns nil if neither
// step could make progress this round.
func planOne(m *Model, settings *Settings, round int) ([]Move, error) {
	mv, err := planStepMove(m, settings, round)
	if err != nil {
		return nil, err
	}
	if mv != nil {
		return []Move{*mv}, nil
	}

	if !settings.EnableSwap {
		return nil, nil
	}
	a, b, err := planStepSwap(m, settings, round)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return []Move{*a, *b}, nil
}

// planStepMove looks for a single item that can be relocated from a
// heavily used node to a less used one such that the relocation
// strictly reduces variance. It walks candidates fullest-node/largest-
// item first (LargeItems) and destinations least-used-node first,
// rejecting any destination whose fractional-utilization gap against
// the item's current node is below NodeFractionThreshold, and
// accepting the first feasible, improving move it finds -- a greedy,
// not globally optimal, choice, matching the original planner.
func planStepMove(m *Model, settings *Settings, round int) (*Move, error) {
	baseline, err := currentVariance(m)
	if err != nil {
		return nil, err
	}

	for fromNode, itemIdx := range LargeItems(m, settings.NodeFractionThreshold) {
		ownerFrac := m.Node(fromNode).PlannedFractionUsed()

		order := m.Order()
		for oi := len(order) - 1; oi >= 0; oi-- {
			toNode := order[oi]
			destFrac := m.Node(toNode).PlannedFractionUsed()
			if math.Abs(destFrac-ownerFrac) < settings.NodeFractionThreshold {
				continue
			}
			if !m.CanMoveTo(itemIdx, toNode) {
				continue
			}

			candidate, err := Variance(m, []Override{{ItemIdx: itemIdx, FromNode: fromNode, ToNode: toNode}})
			if err != nil {
				return nil, err
			}
			if candidate < baseline {
				m.Move(itemIdx, toNode)
				return &Move{Kind: MoveKindRelocate, Round: round, ItemIdx: itemIdx, FromNode: fromNode, ToNode: toNode}, nil
			}
		}
	}
	return nil, nil
}

// planStepSwap looks for a pair of items on two different nodes, one
// drawn from LargeItems (fullest nodes, largest items first) and one
// from SmallItems (least-used nodes, smallest items first, stopping
// once it reaches the large item's node), whose mutual exchange
// strictly reduces variance and is feasible in both directions. This
// is the fallback once planStepMove can no longer make progress by
// relocating single items alone: two medium items swapping places can
// improve balance where moving either one alone would overflow its
// destination.
//
// A candidate pair is rejected if the small item is not strictly
// smaller than the large item, if their size ratio (small/large)
// exceeds ItemFractionThreshold -- a swap between two similarly-sized
// items buys little -- or if the owning nodes' fractional-utilization
// gap is below NodeFractionThreshold.
func planStepSwap(m *Model, settings *Settings, round int) (*Move, *Move, error) {
	baseline, err := currentVariance(m)
	if err != nil {
		return nil, nil, err
	}

	for largeNode, largeIdx := range LargeItems(m, settings.NodeFractionThreshold) {
		largeItem := m.Item(largeIdx)

		for smallNode, smallIdx := range SmallItems(m, largeNode) {
			smallItem := m.Item(smallIdx)
			if smallItem.Size >= largeItem.Size {
				continue
			}

			ratio := float64(smallItem.Size) / float64(largeItem.Size)
			if ratio > settings.ItemFractionThreshold {
				continue
			}

			gap := math.Abs(m.Node(smallNode).PlannedFractionUsed() - m.Node(largeNode).PlannedFractionUsed())
			if gap < settings.NodeFractionThreshold {
				continue
			}

			if !m.CanMoveTo(largeIdx, smallNode) || !m.CanMoveTo(smallIdx, largeNode) {
				continue
			}

			candidate, err := Variance(m, []Override{
				{ItemIdx: largeIdx, FromNode: largeNode, ToNode: smallNode},
				{ItemIdx: smallIdx, FromNode: smallNode, ToNode: largeNode},
			})
			if err != nil {
				return nil, nil, err
			}
			if candidate < baseline {
				m.Move(largeIdx, smallNode)
				m.Move(smallIdx, largeNode)
				a := &Move{Kind: MoveKindSwap, Round: round, ItemIdx: largeIdx, FromNode: largeNode, ToNode: smallNode}
				b := &Move{Kind: MoveKindSwap, Round: round, ItemIdx: smallIdx, FromNode: smallNode, ToNode: largeNode}
				return a, b, nil
			}
		}
	}
	return nil, nil, nil
}
