package partitions

import (
	"fmt"
	"math"
	"sort"
)

// PartitionBuilder assigns items to partitions
type PartitionBuilder struct {
	NumItems int

	// Partitioning parameters. NumPartitions wins when both are set.
	NumPartitions       int // Desired number of partitions
	TargetPartitionSize int // Desired items per partition
	Strategy            PartitionStrategy

	// Keys orders the items for SpaceFillingCurve, one key per item
	Keys []uint64
}

// PartitionStrategy defines how items are grouped
type PartitionStrategy int

const (
	BlockPartition    PartitionStrategy = iota // Consecutive items
	RoundRobin                                 // Distribute cyclically
	SpaceFillingCurve                          // Consecutive runs in key order
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "round-robin"
	case SpaceFillingCurve:
		return "space-filling-curve"
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// BuildPartitions creates the partition layout. Partitions are never empty
// unless there are no items at all.
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumItems < 0 {
		return nil, fmt.Errorf("negative item count %d", pb.NumItems)
	}
	if pb.Strategy == SpaceFillingCurve && len(pb.Keys) != pb.NumItems {
		return nil, fmt.Errorf("space filling curve needs %d keys, have %d", pb.NumItems, len(pb.Keys))
	}

	numPartitions := pb.calculateNumPartitions()
	iToP, err := pb.partitionItems(numPartitions)
	if err != nil {
		return nil, err
	}
	partitions := pb.createPartitions(iToP, numPartitions)

	layout := &PartitionLayout{
		Partitions:    partitions,
		MaxItems:      calculateMaxItems(partitions),
		TotalItems:    pb.NumItems,
		NumPartitions: numPartitions,
		IToP:          iToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions determines the partition count, at least one and at
// most one per item
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := pb.NumPartitions
	if numPartitions <= 0 && pb.TargetPartitionSize > 0 {
		numPartitions = int(math.Ceil(float64(pb.NumItems) / float64(pb.TargetPartitionSize)))
	}
	if numPartitions > pb.NumItems {
		numPartitions = pb.NumItems
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionItems assigns items to partitions
func (pb *PartitionBuilder) partitionItems(numPartitions int) ([]int, error) {
	iToP := make([]int, pb.NumItems)

	switch pb.Strategy {
	case BlockPartition:
		for i := range iToP {
			iToP[i] = blockOf(i, pb.NumItems, numPartitions)
		}

	case RoundRobin:
		for i := range iToP {
			iToP[i] = i % numPartitions
		}

	case SpaceFillingCurve:
		order := make([]int, pb.NumItems)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return pb.Keys[order[a]] < pb.Keys[order[b]]
		})
		for rank, item := range order {
			iToP[item] = blockOf(rank, pb.NumItems, numPartitions)
		}

	default:
		return nil, fmt.Errorf("unknown partition strategy %v", pb.Strategy)
	}
	return iToP, nil
}

// blockOf spreads n items over p blocks whose sizes differ by at most one
func blockOf(i, n, p int) int {
	return i * p / n
}

// createPartitions builds partition structures from item assignments
func (pb *PartitionBuilder) createPartitions(iToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i].ID = i
	}
	for item, part := range iToP {
		partitions[part].Items = append(partitions[part].Items, item)
		partitions[part].NumItems++
	}
	return partitions
}

// calculateMaxItems finds maximum items across all partitions
func calculateMaxItems(partitions []Partition) int {
	maxItems := 0
	for _, p := range partitions {
		if p.NumItems > maxItems {
			maxItems = p.NumItems
		}
	}
	return maxItems
}
