package rebalance

import "fmt"

// Settings controls one planning pass. It is built once via
// NewSettings and then treated as read-only by Plan.
type Settings struct {
	// MaxIterations bounds the number of accepted moves or swaps in a
	// single Plan call. Planning stops early, before this bound, if no
	// candidate improves variance (see ErrNoProgress).
	MaxIterations int

	// NodeFractionThreshold is the minimum fractional-utilization gap,
	// in [0,1], two nodes must exhibit to be considered for a move or
	// swap between them. Below this gap the nodes are treated as
	// already balanced with respect to each other.
	NodeFractionThreshold float64

	// ItemFractionThreshold is the maximum size ratio (min/max) allowed
	// between two items in the swap-step, in [0,1]. Items that are too
	// similar in size are rejected as swap partners: a swap's whole
	// point is trading a big item for a small one. Only consulted when
	// EnableSwap is true.
	ItemFractionThreshold float64

	// EnableSwap allows the swap-step to run once the move-step stops
	// making progress in a round.
	EnableSwap bool

	// Verbose turns on per-round move/swap logging via the standard
	// logger, matching the teacher's planRelocationsForBroker texture.
	Verbose bool
}

// NewSettings builds a Settings from percentage-based inputs, matching
// PlanSettings.__init__: nodeFractionThresholdPct and
// itemFractionThresholdPct are percentages (0-100), converted here to
// fractions once so Plan never repeats the conversion.
// itemFractionThresholdPct is only validated, and only meaningful,
// when enableSwap is true.
func NewSettings(maxIterations int, nodeFractionThresholdPct float64, itemFractionThresholdPct float64, enableSwap bool) (*Settings, error) {
	if maxIterations <= 0 {
		return nil, fmt.Errorf("rebalance: max iterations must be positive, got %d", maxIterations)
	}
	if nodeFractionThresholdPct < 0 || nodeFractionThresholdPct > 100 {
		return nil, fmt.Errorf("rebalance: node fraction threshold percentage must be in [0, 100], got %v", nodeFractionThresholdPct)
	}
	if enableSwap && (itemFractionThresholdPct < 0 || itemFractionThresholdPct > 100) {
		return nil, fmt.Errorf("rebalance: item fraction threshold percentage must be in [0, 100], got %v", itemFractionThresholdPct)
	}

	return &Settings{
		MaxIterations:         maxIterations,
		NodeFractionThreshold: nodeFractionThresholdPct / 100,
		ItemFractionThreshold: itemFractionThresholdPct / 100,
		EnableSwap:            enableSwap,
	}, nil
}
