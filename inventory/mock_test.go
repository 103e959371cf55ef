package inventory

import (
	"context"
	"testing"
)

func TestMock_ReturnsConfiguredFixture(t *testing.T) {
	m := &Mock{
		BrokerList: []BrokerInfo{{ID: 1, Host: "b1", Port: 9092}},
		PartitionList: []PartitionPlacement{
			{Topic: "t", Partition: 0, Replicas: []int{1}, LeaderPosition: 0},
		},
	}

	brokers, err := m.Brokers(context.Background())
	if err != nil {
		t.Fatalf("Brokers: %v", err)
	}
	if len(brokers) != 1 || brokers[0].ID != 1 {
		t.Fatalf("unexpected brokers: %+v", brokers)
	}

	parts, err := m.Partitions(context.Background())
	if err != nil {
		t.Fatalf("Partitions: %v", err)
	}
	if len(parts) != 1 || parts[0].Topic != "t" {
		t.Fatalf("unexpected partitions: %+v", parts)
	}
}
