// Package reassign builds the Kafka partition reassignment JSON
// document from a list of planned replica relocations. It knows
// nothing about disks, variance, or the planner; it only turns
// (topic, partition, position, old broker, new broker) changes into
// the replica-list surgery Kafka's reassignment tooling expects.
package reassign

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
)

// PartitionKey identifies a single partition.
type PartitionKey struct {
	Topic     string
	Partition int
}

// ReplicaChange is one accepted relocation, expressed in terms a
// reassignment document understands: broker at Position in the
// partition's replica list is being replaced, and the replacement
// should land in NewLogDir on the new broker.
type ReplicaChange struct {
	Topic       string
	Partition   int
	Position    int
	OldBrokerID int
	NewBrokerID int
	// NewLogDir is the absolute path of the disk the replica is
	// planned onto, trailing slash included or not -- Build trims it.
	// Empty is treated the same as "any" (let the broker choose).
	NewLogDir string
}

// PartitionRecord is one entry of a reassignment document's
// "partitions" array, matching Kafka's kafka-reassign-partitions.sh
// input format. Replicas and LogDirs are always the same length, in
// lockstep: LogDirs[i] is the target directory for Replicas[i], or
// the literal "any" where no specific directory was planned.
type PartitionRecord struct {
	Topic     string   `json:"topic"`
	Partition int      `json:"partition"`
	Replicas  []int    `json:"replicas"`
	LogDirs   []string `json:"log_dirs"`
}

// Document is a complete reassignment document, ready to marshal to
// the JSON file kafka-reassign-partitions.sh --execute consumes.
type Document struct {
	Version    int               `json:"version"`
	Partitions []PartitionRecord `json:"partitions"`
}

// Build applies changes to originals (each partition's current
// ordered replica list, keyed by topic/partition) and returns a
// Document containing only the partitions that actually changed.
// rng may be nil, in which case a new source seeded with 1 is used;
// tests that need reproducible anti-collision placement should pass
// their own seeded rng.
//
// Each change is applied independently against the same working copy,
// so a second change touching a partition already touched by an
// earlier change sees that earlier change's effect. This is the one
// place the original generator's shadowing defect mattered: every
// write here goes directly into the partition's own working slice,
// never into a variable left over from a previous iteration, so a
// partition touched by several changes in the same Build call is
// still correct on the second and later changes.
//
// Every record's log_dirs starts as all "any" and only gets a real
// path substituted at the position a change actually targets; a
// position the anti-collision pass displaces a broker into reverts to
// "any" rather than keeping a stale directory that no longer applies
// to the broker now sitting there.
//
// Before returning, any record whose replicas list still contains a
// duplicate broker after every change and reshuffle has been applied
// is dropped and logged rather than emitted: the anti-collision pass
// resolves the common case, but two changes that both land the same
// new broker onto one partition, or an already-duplicated upstream
// input, can still leave one behind.
func Build(originals map[PartitionKey][]int, changes []ReplicaChange, rng *rand.Rand) (*Document, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	workingReplicas := make(map[PartitionKey][]int, len(originals))
	workingLogDirs := make(map[PartitionKey][]string, len(originals))
	for k, v := range originals {
		cp := make([]int, len(v))
		copy(cp, v)
		workingReplicas[k] = cp

		dirs := make([]string, len(v))
		for i := range dirs {
			dirs[i] = "any"
		}
		workingLogDirs[k] = dirs
	}

	for _, c := range changes {
		key := PartitionKey{Topic: c.Topic, Partition: c.Partition}
		replicas, ok := workingReplicas[key]
		if !ok {
			return nil, fmt.Errorf("reassign: change references unknown partition %s/%d", c.Topic, c.Partition)
		}
		if c.Position < 0 || c.Position >= len(replicas) {
			return nil, fmt.Errorf("reassign: change for %s/%d references out-of-range position %d", c.Topic, c.Partition, c.Position)
		}
		if replicas[c.Position] != c.OldBrokerID {
			log.Printf("reassign: %s/%d position %d holds broker %d, expected %d; applying change anyway", c.Topic, c.Partition, c.Position, replicas[c.Position], c.OldBrokerID)
		}

		displaced := findNewPosition(replicas, c.NewBrokerID, c.Position, c.OldBrokerID, rng)
		replicas[c.Position] = c.NewBrokerID
		if displaced != -1 {
			replicas[displaced] = c.OldBrokerID
		}
		workingReplicas[key] = replicas

		dirs := workingLogDirs[key]
		logDir := strings.TrimSuffix(c.NewLogDir, "/")
		if logDir == "" {
			logDir = "any"
		}
		dirs[c.Position] = logDir
		if displaced != -1 {
			dirs[displaced] = "any"
		}
		workingLogDirs[key] = dirs
	}

	doc := &Document{Version: 1}
	for key, replicas := range workingReplicas {
		if equalInts(replicas, originals[key]) {
			continue
		}
		if hasDuplicate(replicas) {
			log.Printf("reassign: %s/%d still has duplicate brokers after reshuffle, dropping: %v", key.Topic, key.Partition, replicas)
			continue
		}
		doc.Partitions = append(doc.Partitions, PartitionRecord{
			Topic:     key.Topic,
			Partition: key.Partition,
			Replicas:  replicas,
			LogDirs:   workingLogDirs[key],
		})
	}

	sort.Slice(doc.Partitions, func(i, j int) bool {
		if doc.Partitions[i].Topic != doc.Partitions[j].Topic {
			return doc.Partitions[i].Topic < doc.Partitions[j].Topic
		}
		return doc.Partitions[i].Partition < doc.Partitions[j].Partition
	})

	return doc, nil
}

func hasDuplicate(replicas []int) bool {
	seen := make(map[int]bool, len(replicas))
	for _, b := range replicas {
		if seen[b] {
			return true
		}
		seen[b] = true
	}
	return false
}

// findNewPosition decides where, if anywhere, the broker about to be
// displaced from newPosition (oldID) should be relocated to, so that
// placing newID at newPosition never silently drops oldID from the
// replica set or produces an avoidable duplicate. It is a direct port
// of the original generator's three-branch placement rule:
//
//  1. If oldID already appears somewhere else in replicas, it is
//     already represented; no relocation is needed.
//  2. Otherwise, if newID appears fewer than twice in replicas,
//     oldID is dropped into any other position at random, displacing
//     whatever broker was there.
//  3. Otherwise newID already occupies two or more positions (the
//     relocation itself is about to create a third); oldID is placed
//     into one of newID's existing positions at random, which keeps
//     the collision from growing. newID still appears at least twice
//     afterwards, so Build's final filter drops such a record.
//
// Returns -1 when no relocation is needed.
func findNewPosition(replicas []int, newID, newPosition, oldID int, rng *rand.Rand) int {
	for i, b := range replicas {
		if i != newPosition && b == oldID {
			return -1
		}
	}

	count := 0
	for _, b := range replicas {
		if b == newID {
			count++
		}
	}

	var candidates []int
	if count < 2 {
		for i := range replicas {
			if i != newPosition {
				candidates = append(candidates, i)
			}
		}
	} else {
		for i, b := range replicas {
			if i != newPosition && b == newID {
				candidates = append(candidates, i)
			}
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[rng.Intn(len(candidates))]
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Write marshals doc as indented JSON and writes it to path, with a
// trailing newline, matching the teacher's WriteMap file-write idiom.
func Write(path string, doc *Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0644)
}
