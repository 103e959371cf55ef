package rebalance

import (
	"errors"
	"fmt"
)

// ErrNoProgress is not a failure: it signals that the planner
// terminated before max_iters because no remaining candidate move or
// swap strictly improved variance. Plan returns it alongside whatever
// moves were accumulated; callers should log it informationally, not
// treat it as fatal.
var ErrNoProgress = errors.New("rebalance: no further beneficial move exists")

// InconsistentInputError reports that an item's declared initial
// owner disagrees with the node grouping it was constructed under.
// Non-recoverable: planning is aborted before it starts.
type InconsistentInputError struct {
	ItemIndex int
}

func (e *InconsistentInputError) Error() string {
	return fmt.Sprintf("rebalance: item %d's initial owner hint disagrees with its node grouping", e.ItemIndex)
}

// CapacityUnderflowError reports that a variance computation found a
// simulated node usage going negative, which indicates a corrupt
// include/exclude list. Non-recoverable.
type CapacityUnderflowError struct {
	NodeIndex int
}

func (e *CapacityUnderflowError) Error() string {
	return fmt.Sprintf("rebalance: simulated usage for node %d went negative", e.NodeIndex)
}

// EmptyPlanError reports that Plan was called against a Model with no
// nodes or no items, so there is nothing to plan.
type EmptyPlanError struct {
	NumNodes int
	NumItems int
}

func (e *EmptyPlanError) Error() string {
	return fmt.Sprintf("rebalance: nothing to plan (%d nodes, %d items)", e.NumNodes, e.NumItems)
}
