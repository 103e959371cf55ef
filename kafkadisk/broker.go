// Package kafkadisk supplies the domain types for the disk-level
// replica placement planner: brokers, disks, and partition replicas,
// wired into the generic rebalance.Model via rebalance.Node/Item
// Payload handles. It owns the two feasibility rules the generic
// planner cannot express on its own: a leader replica never moves, and
// a broker may hold at most one replica of a given topic-partition,
// regardless of which of its disks that replica lands on.
package kafkadisk

// Broker is a single Kafka broker and the disks it exposes for
// replica placement. Broker set membership is fixed for the duration
// of a planning pass; this package never adds or removes brokers.
type Broker struct {
	ID    int
	Host  string
	Port  int
	Disks []*Disk
}

// ContainsPartition reports whether any disk on b already holds a
// replica of topic/partition. It is the cross-node query behind the
// broker-uniqueness feasibility rule: a relocation that would give a
// broker a second replica of the same partition is never feasible,
// independent of disk capacity.
func (b *Broker) ContainsPartition(topic string, partition int) bool {
	for _, d := range b.Disks {
		for _, r := range d.Replicas() {
			if r.Topic == topic && r.Partition == partition {
				return true
			}
		}
	}
	return false
}
