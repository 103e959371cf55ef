// Package commands holds the kafka-rebalance-planner subcommands, laid
// out the way topicmappr lays out its commands package: one file per
// subcommand, flags bound directly onto cobra.Command.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/datto/kafka-rebalance/executor"
	"github.com/datto/kafka-rebalance/inventory"
	"github.com/datto/kafka-rebalance/kafkadisk"
	"github.com/datto/kafka-rebalance/metrics"
	"github.com/datto/kafka-rebalance/reassign"
	"github.com/datto/kafka-rebalance/rebalance"
)

// NewPlanCommand builds the "plan" subcommand: fetch current
// placement, run the planner, write a reassignment document, and
// optionally execute it.
func NewPlanCommand() *cobra.Command {
	var (
		zkAddr                 string
		scriptPath             string
		outputPath             string
		markerPath             string
		maxIterations          int
		nodeFractionPct        float64
		itemFractionPct        float64
		enableSwap             bool
		verbose                bool
		dryRun                 bool
		execute                bool
		throttleBytesPerSecond int64
		pollInterval           time.Duration
		bootstrapBrokers       string
		diskUsageFile          string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a disk-balancing reassignment plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A marker file left by a prior run signals a reassignment
			// already in flight; refuse to plan a second one on top
			// of it rather than risk two concurrent reassignments.
			if _, err := os.Stat(markerPath); err == nil {
				log.Printf("plan: marker file %s already exists, a reassignment is in progress, exiting", markerPath)
				return nil
			}

			ctx := context.Background()

			var handler inventory.Handler
			if bootstrapBrokers == "" {
				handler = &inventory.Mock{}
			} else {
				diskUsage, err := loadDiskUsageFunc(diskUsageFile)
				if err != nil {
					return fmt.Errorf("plan: %w", err)
				}
				live, err := inventory.NewKadmHandler(strings.Split(bootstrapBrokers, ","), diskUsage)
				if err != nil {
					return fmt.Errorf("plan: %w", err)
				}
				handler = live
			}

			brokers, err := handler.Brokers(ctx)
			if err != nil {
				return fmt.Errorf("plan: fetch brokers: %w", err)
			}
			partitions, err := handler.Partitions(ctx)
			if err != nil {
				return fmt.Errorf("plan: fetch partitions: %w", err)
			}

			domainBrokers, diskByKey := buildDomainBrokers(brokers)
			placements, originals := buildPlacements(partitions, diskByKey)

			settings, err := rebalance.NewSettings(maxIterations, nodeFractionPct, itemFractionPct, enableSwap)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			settings.Verbose = verbose

			model, err := kafkadisk.BuildModel(domainBrokers, placements)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}

			planStart := time.Now()
			moves, err := rebalance.Plan(model, settings)
			planElapsed := time.Since(planStart)
			if err != nil && err != rebalance.ErrNoProgress {
				return fmt.Errorf("plan: %w", err)
			}
			log.Printf("plan: accepted %d relocations", len(moves))

			collector := metrics.NewCollector(prometheus.NewRegistry())
			collector.PlanDuration.Observe(planElapsed.Seconds())
			collector.Rounds.Add(float64(lastRound(moves) + 1))
			for _, mv := range moves {
				collector.ObserveMove(mv.Kind == rebalance.MoveKindSwap)
			}
			if v, err := rebalance.Variance(model, nil); err == nil {
				collector.Variance.Set(v)
			}

			changes := movesToChanges(model, moves)
			doc, err := reassign.Build(originals, changes, rand.New(rand.NewSource(time.Now().UnixNano())))
			if err != nil {
				return fmt.Errorf("plan: build reassignment document: %w", err)
			}

			if err := reassign.Write(outputPath, doc); err != nil {
				return fmt.Errorf("plan: write %s: %w", outputPath, err)
			}
			log.Printf("plan: wrote %d changed partitions to %s", len(doc.Partitions), outputPath)

			if dryRun || !execute {
				return nil
			}

			if err := os.WriteFile(markerPath, []byte("in progress\n"), 0644); err != nil {
				return fmt.Errorf("plan: write marker file: %w", err)
			}
			defer os.Remove(markerPath)

			if err := executor.Run(ctx, scriptPath, zkAddr, outputPath, executor.Throttle(throttleBytesPerSecond)); err != nil {
				return fmt.Errorf("plan: execute: %w", err)
			}

			status, err := executor.Poll(ctx, scriptPath, zkAddr, outputPath, pollInterval)
			if err != nil {
				return fmt.Errorf("plan: poll: %w", err)
			}
			log.Printf("plan: reassignment complete: %+v", status)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&zkAddr, "zookeeper", "", "ZooKeeper connect string")
	flags.StringVar(&scriptPath, "reassign-script", "kafka-reassign-partitions.sh", "path to kafka-reassign-partitions.sh")
	flags.StringVar(&outputPath, "output", "reassign.json", "path to write the reassignment document to")
	flags.StringVar(&markerPath, "marker-file", "reassign.json.inprogress", "guard file indicating a reassignment is already running")
	flags.IntVar(&maxIterations, "max-iterations", 25, "maximum number of moves or swaps to accept")
	flags.Float64Var(&nodeFractionPct, "node-fraction-threshold-pct", 0, "minimum fractional-utilization gap, as a percentage, two disks must exhibit to be considered for a move or swap")
	flags.Float64Var(&itemFractionPct, "item-fraction-threshold-pct", 50, "maximum size ratio (smaller/larger), as a percentage, allowed between two replicas in the swap-step")
	flags.BoolVar(&enableSwap, "enable-swap", true, "allow the swap-step once the move-step stalls")
	flags.BoolVar(&verbose, "verbose", false, "log every accepted move and swap")
	flags.BoolVar(&dryRun, "dry-run", true, "write the reassignment document but do not execute it")
	flags.BoolVar(&execute, "execute", false, "execute the reassignment document once written (ignored if --dry-run)")
	flags.Int64Var(&throttleBytesPerSecond, "throttle", 0, "replication throttle in bytes/sec, 0 for unthrottled")
	flags.DurationVar(&pollInterval, "poll-interval", 10*time.Second, "interval between --verify polls while executing")
	flags.StringVar(&bootstrapBrokers, "brokers", "", "comma-separated bootstrap brokers; if unset, an empty in-memory inventory is used, which has nothing to plan")
	flags.StringVar(&diskUsageFile, "disk-usage-file", "disk-usage.json", "JSON file of {brokerID: {mountPoint: {capacityBytes, usedBytes}}}, required with --brokers since Kafka's admin protocol has no notion of disks")

	return cmd
}

// loadDiskUsageFunc reads a JSON file mapping broker ID to mount point
// usage and returns a DiskUsageFunc serving it from memory. This is
// the concrete collector NewKadmHandler needs to answer disk-level
// questions a Kafka admin client cannot; in production that file is
// produced by whatever JMX or SSH collector the operator already
// runs, not by this planner.
func loadDiskUsageFunc(path string) (inventory.DiskUsageFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read disk usage file %s: %w", path, err)
	}
	var raw map[string]map[string]inventory.DiskUsage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse disk usage file %s: %w", path, err)
	}

	return func(ctx context.Context, brokerID int) (map[string]inventory.DiskUsage, error) {
		disks, ok := raw[fmt.Sprintf("%d", brokerID)]
		if !ok {
			return nil, fmt.Errorf("no disk usage entry for broker %d in %s", brokerID, path)
		}
		return disks, nil
	}, nil
}

func lastRound(moves []rebalance.Move) int {
	last := -1
	for _, mv := range moves {
		if mv.Round > last {
			last = mv.Round
		}
	}
	return last
}

type diskKey struct {
	brokerID   int
	mountPoint string
}

func buildDomainBrokers(brokers []inventory.BrokerInfo) ([]*kafkadisk.Broker, map[diskKey]*kafkadisk.Disk) {
	domainBrokers := make([]*kafkadisk.Broker, 0, len(brokers))
	diskByKey := make(map[diskKey]*kafkadisk.Disk)

	for _, b := range brokers {
		db := &kafkadisk.Broker{ID: b.ID, Host: b.Host, Port: b.Port}
		for mount, usage := range b.Disks {
			d := &kafkadisk.Disk{BrokerID: b.ID, MountPoint: mount, Capacity: usage.CapacityBytes}
			db.Disks = append(db.Disks, d)
			diskByKey[diskKey{b.ID, mount}] = d
		}
		domainBrokers = append(domainBrokers, db)
	}
	return domainBrokers, diskByKey
}

func buildPlacements(partitions []inventory.PartitionPlacement, diskByKey map[diskKey]*kafkadisk.Disk) ([]kafkadisk.Placement, map[reassign.PartitionKey][]int) {
	var placements []kafkadisk.Placement
	originals := make(map[reassign.PartitionKey][]int, len(partitions))

	for _, p := range partitions {
		originals[reassign.PartitionKey{Topic: p.Topic, Partition: p.Partition}] = append([]int(nil), p.Replicas...)

		for i, brokerID := range p.Replicas {
			mount := "/"
			if i < len(p.Disks) && p.Disks[i] != "" {
				mount = p.Disks[i]
			}
			disk, ok := diskByKey[diskKey{brokerID, mount}]
			if !ok {
				log.Printf("plan: %s/%d replica on broker %d mount %s has no matching disk in inventory, skipping", p.Topic, p.Partition, brokerID, mount)
				continue
			}
			var size int64
			if i < len(p.SizeBytes) {
				size = p.SizeBytes[i]
			}
			placements = append(placements, kafkadisk.Placement{
				Disk:            disk,
				Topic:           p.Topic,
				Partition:       p.Partition,
				ReplicaPosition: i,
				IsLeader:        i == p.LeaderPosition,
				Size:            size,
			})
		}
	}
	return placements, originals
}

func movesToChanges(model *rebalance.Model, moves []rebalance.Move) []reassign.ReplicaChange {
	changes := make([]reassign.ReplicaChange, 0, len(moves))
	for _, mv := range moves {
		replica := model.Item(mv.ItemIdx).Payload.(*kafkadisk.PartitionReplica)
		oldBrokerID := model.Node(mv.FromNode).Payload.(*kafkadisk.Disk).BrokerID
		newDisk := model.Node(mv.ToNode).Payload.(*kafkadisk.Disk)
		changes = append(changes, reassign.ReplicaChange{
			Topic:       replica.Topic,
			Partition:   replica.Partition,
			Position:    replica.ReplicaPosition,
			OldBrokerID: oldBrokerID,
			NewBrokerID: newDisk.BrokerID,
			NewLogDir:   newDisk.MountPoint,
		})
	}
	return changes
}
