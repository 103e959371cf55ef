package rebalance

import "math"

// Override describes a hypothetical relocation to apply only for the
// duration of one Variance calculation, without mutating the Model.
// Size is added to the destination node and subtracted from the
// source node.
type Override struct {
	ItemIdx  int
	FromNode int
	ToNode   int
}

// Variance computes the population variance of PlannedFractionUsed
// across every node in the Model, after hypothetically applying
// overrides. It never mutates the Model; overrides are folded into a
// local per-node usage delta before the mean and variance are taken,
// mirroring percent_used_variance's use of a keyword-only exception
// map in the original planner.
//
// A CapacityUnderflowError is returned if an override set drives a
// node's simulated usage negative, which can only happen if the
// caller passed an inconsistent override (e.g. removing an item from
// a node it was never on).
func Variance(m *Model, overrides []Override) (float64, error) {
	delta := make([]int64, len(m.nodes))
	for _, ov := range overrides {
		size := m.items[ov.ItemIdx].Size
		delta[ov.FromNode] -= size
		delta[ov.ToNode] += size
	}

	fractions := make([]float64, len(m.nodes))
	for i, n := range m.nodes {
		used := n.plannedUsed + delta[i]
		if used < 0 {
			return 0, &CapacityUnderflowError{NodeIndex: i}
		}
		fractions[i] = float64(used) / float64(n.Capacity)
	}

	var mean float64
	for _, f := range fractions {
		mean += f
	}
	mean /= float64(len(fractions))

	var sumSq float64
	for _, f := range fractions {
		d := f - mean
		sumSq += d * d
	}
	return sumSq / float64(len(fractions)), nil
}

// currentVariance is a convenience wrapper for computing Variance
// against the Model's actual planned state, with no hypothetical
// overrides applied.
func currentVariance(m *Model) (float64, error) {
	return Variance(m, nil)
}

// roundFloat rounds f to the given number of decimal places. Nothing
// in this module calls it at present.
func roundFloat(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}
