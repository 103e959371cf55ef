// Package metrics exposes planner activity to Prometheus, grounded in
// the registration style franz-go's kprom plugin uses: a small
// constructor struct holding pre-built collectors, registered once
// against a caller-supplied registerer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every metric this planner reports. Construct with
// NewCollector, which also registers every metric against the
// prometheus.Registerer it is given.
type Collector struct {
	Rounds       prometheus.Counter
	Moves        prometheus.Counter
	Swaps        prometheus.Counter
	Variance     prometheus.Gauge
	PlanDuration prometheus.Histogram
}

// NewCollector builds a Collector and registers it against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kafka_rebalance",
			Name:      "planner_rounds_total",
			Help:      "Number of planning rounds that accepted a move or swap.",
		}),
		Moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kafka_rebalance",
			Name:      "planner_moves_total",
			Help:      "Number of single-replica moves accepted.",
		}),
		Swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kafka_rebalance",
			Name:      "planner_swaps_total",
			Help:      "Number of replica swaps accepted.",
		}),
		Variance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kafka_rebalance",
			Name:      "planner_variance",
			Help:      "Population variance of per-disk fractional utilization after the last round.",
		}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kafka_rebalance",
			Name:      "planner_duration_seconds",
			Help:      "Wall-clock time spent in Plan.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.Rounds, c.Moves, c.Swaps, c.Variance, c.PlanDuration)
	return c
}

// ObserveMove increments the appropriate move/swap counter.
func (c *Collector) ObserveMove(isSwap bool) {
	if isSwap {
		c.Swaps.Inc()
		return
	}
	c.Moves.Inc()
}
