package kafkadisk

import "github.com/datto/kafka-rebalance/rebalance"

// Disk is one mounted volume on a broker, and the unit of placement
// this planner actually relocates replicas between. It wraps a
// rebalance.Node: Capacity and planned usage live on the Node, this
// type only adds the domain-identifying fields and a way back to the
// owning Model so feasibility rules can query what else is planned
// onto it.
type Disk struct {
	BrokerID   int
	MountPoint string
	Capacity   int64

	model     *rebalance.Model
	nodeIndex int
}

// Replicas returns the partition replicas currently planned onto d,
// largest first.
func (d *Disk) Replicas() []*PartitionReplica {
	idxs := d.model.ItemsOn(d.nodeIndex)
	out := make([]*PartitionReplica, 0, len(idxs))
	for _, ii := range idxs {
		out = append(out, d.model.Item(ii).Payload.(*PartitionReplica))
	}
	return out
}

// FractionUsed returns the disk's current planned utilization, 0 to 1.
func (d *Disk) FractionUsed() float64 {
	return d.model.Node(d.nodeIndex).PlannedFractionUsed()
}
