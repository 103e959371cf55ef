package kafkadisk

import (
	"fmt"
	"log"

	"github.com/datto/kafka-rebalance/rebalance"
)

// Placement is one replica's current size and location, as reported
// by an inventory adapter. BuildModel turns a slice of these, grouped
// implicitly by Disk, into a rebalance.Model ready for rebalance.Plan.
type Placement struct {
	Disk      *Disk
	Topic     string
	Partition int
	// ReplicaPosition is this replica's index within the
	// topic-partition's broker/replica list as reported upstream.
	ReplicaPosition int
	IsLeader        bool
	Size            int64
}

// BuildModel constructs a rebalance.Model over every disk in brokers
// and every placement in placements, wired with the leader-pin and
// broker-uniqueness feasibility rule. Disk capacities are taken from
// each Disk's Capacity field.
//
// If the same (topic, partition) appears more than once on a single
// broker across its placements, that broker's replica_id for the
// partition is ambiguous upstream (the inventory reported the same
// broker twice in one replica list); BuildModel logs a warning and
// proceeds, since which occurrence is authoritative is genuinely
// undefined rather than a bug in this package.
func BuildModel(brokers []*Broker, placements []Placement) (*rebalance.Model, error) {
	var allDisks []*Disk
	diskIndex := make(map[*Disk]int)
	diskBroker := []int{}
	brokerOf := make(map[int]*Broker, len(brokers))

	for _, b := range brokers {
		brokerOf[b.ID] = b
		for _, d := range b.Disks {
			diskIndex[d] = len(allDisks)
			diskBroker = append(diskBroker, b.ID)
			allDisks = append(allDisks, d)
		}
	}

	nodes := make([]*rebalance.Node, len(allDisks))
	for i, d := range allDisks {
		nodes[i] = &rebalance.Node{Capacity: d.Capacity}
	}

	itemsByNode := make([][]*rebalance.Item, len(allDisks))
	seen := make(map[string]bool)
	for _, p := range placements {
		ni, ok := diskIndex[p.Disk]
		if !ok {
			return nil, fmt.Errorf("kafkadisk: placement for %s/%d references a disk not attached to any broker", p.Topic, p.Partition)
		}

		key := fmt.Sprintf("%d:%s:%d", diskBroker[ni], p.Topic, p.Partition)
		if seen[key] {
			log.Printf("kafkadisk: broker %d reported more than once in the replica list for %s/%d; replica_id for the duplicate is undefined upstream", diskBroker[ni], p.Topic, p.Partition)
		}
		seen[key] = true

		item := &rebalance.Item{
			Size: p.Size,
			Payload: &PartitionReplica{
				Topic:           p.Topic,
				Partition:       p.Partition,
				ReplicaPosition: p.ReplicaPosition,
				IsLeader:        p.IsLeader,
			},
		}
		itemsByNode[ni] = append(itemsByNode[ni], item)
	}

	m, err := rebalance.NewModel(nodes, itemsByNode, leaderPinAndBrokerUniqueness(brokerOf, diskBroker))
	if err != nil {
		return nil, err
	}

	for i, d := range allDisks {
		d.model = m
		d.nodeIndex = i
		nodes[i].Payload = d
	}

	return m, nil
}
