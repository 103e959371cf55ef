// Package inventory adapts an external source of cluster metadata
// (a live Kafka cluster via kadm, or a fixture for tests) into the
// plain structs kafkadisk.BuildModel consumes. It owns nothing about
// placement or planning; it only answers "what does the cluster look
// like right now."
package inventory

import "context"

// BrokerInfo is one broker's identity and the disks it exposes, as
// reported by a Handler. Disks is keyed by mount point.
type BrokerInfo struct {
	ID    int
	Host  string
	Port  int
	Disks map[string]DiskUsage
}

// DiskUsage is one disk's fixed capacity and currently used bytes, as
// last observed.
type DiskUsage struct {
	CapacityBytes int64
	UsedBytes     int64
}

// PartitionPlacement is one partition's current replica assignment:
// Replicas is the ordered broker ID list exactly as Kafka reports it
// (duplicates possible if the cluster metadata itself is
// inconsistent; callers must not assume uniqueness), LeaderPosition is
// the index of the current leader within Replicas, and Disks maps
// each position to the mount point that replica's data files live on.
type PartitionPlacement struct {
	Topic          string
	Partition      int
	Replicas       []int
	LeaderPosition int
	SizeBytes      []int64
	Disks          []string
}

// Handler is the contract an inventory source must satisfy: list
// brokers and their disks, and list partitions and their current
// placement. Callers treat both as a consistent snapshot taken at
// roughly the same time; Handler implementations do not guarantee
// cross-call consistency beyond that.
type Handler interface {
	Brokers(ctx context.Context) ([]BrokerInfo, error)
	Partitions(ctx context.Context) ([]PartitionPlacement, error)
}
