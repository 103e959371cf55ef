package kafkadisk

import "github.com/datto/kafka-rebalance/rebalance"

// PartitionReplica is one replica of one partition, placed on a disk.
// It wraps a rebalance.Item; Size and move bookkeeping live on the
// Item, this type only adds the fields a feasibility rule or a
// reassignment document needs to identify which replica moved where.
type PartitionReplica struct {
	Topic     string
	Partition int

	// ReplicaPosition is this replica's index within the
	// topic-partition's broker list as originally reported by the
	// inventory adapter. If the same broker ID appears more than once
	// in that list, each occurrence carries its own position; which
	// occurrence "owns" a given replica_id is undefined upstream, and
	// BuildModel logs a warning rather than guessing.
	ReplicaPosition int

	// IsLeader marks the replica currently serving as partition
	// leader. The leader-pin feasibility rule refuses to relocate it:
	// moving a leader forces an election and a brief availability gap
	// that a disk-balancing pass should never cause as a side effect.
	IsLeader bool
}

// leaderPinAndBrokerUniqueness is the FeasibilityFunc BuildModel wires
// into every Model it constructs. It implements the two
// domain-specific rules spec'd on top of the generic not-origin and
// capacity rules: a leader replica never moves, and a replica never
// moves onto a broker other than its initial broker that already
// holds another replica of the same topic-partition. Moving between
// two disks on the item's own initial broker is always exempt from
// the uniqueness check -- that broker already legitimately hosts this
// replica, so ContainsPartition finding it there is not a conflict.
func leaderPinAndBrokerUniqueness(brokerOf map[int]*Broker, diskBroker []int) rebalance.FeasibilityFunc {
	return func(m *rebalance.Model, itemIdx, nodeIdx int) bool {
		r := m.Item(itemIdx).Payload.(*PartitionReplica)
		if r.IsLeader {
			return false
		}

		originBroker := diskBroker[m.Item(itemIdx).InitialOwnerIndex()]
		destBroker := diskBroker[nodeIdx]
		if destBroker == originBroker {
			return true
		}
		return !brokerOf[destBroker].ContainsPartition(r.Topic, r.Partition)
	}
}
