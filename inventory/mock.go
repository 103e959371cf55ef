package inventory

import "context"

// Mock is an in-memory Handler for tests and offline dry runs. Zero
// value is an empty cluster; populate BrokerList/PartitionList directly.
type Mock struct {
	BrokerList    []BrokerInfo
	PartitionList []PartitionPlacement
}

func (m *Mock) Brokers(ctx context.Context) ([]BrokerInfo, error) {
	return m.BrokerList, nil
}

func (m *Mock) Partitions(ctx context.Context) ([]PartitionPlacement, error) {
	return m.PartitionList, nil
}
