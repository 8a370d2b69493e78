// Package partitions splits a batch of work items, such as query points, into
// partitions that are processed independently by concurrent workers.
package partitions

import (
	"fmt"
)

// Partition is a set of items processed together by one worker
type Partition struct {
	// Unique identifier for this partition
	ID int

	Items    []int // Global item indices in this partition, ascending
	NumItems int   // Number of items in the partition
}

// PartitionLayout is the complete decomposition of a batch
type PartitionLayout struct {
	// All partitions of the batch
	Partitions []Partition

	// Global sizing information
	MaxItems      int // max(NumItems) across all partitions
	TotalItems    int // Sum of all items across partitions
	NumPartitions int // Total number of partitions

	// Item to partition mapping
	IToP []int // Length TotalItems: item i belongs to partition IToP[i]
}

// GetPartition returns the partition containing item i, or -1
func (pl *PartitionLayout) GetPartition(item int) int {
	if item < 0 || item >= len(pl.IToP) {
		return -1
	}
	return pl.IToP[item]
}

// ValidateLayout checks partition consistency: every item belongs to exactly
// the partition IToP names, and the sizing fields agree with the partitions
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("%d partitions, NumPartitions %d", len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.IToP) != pl.TotalItems {
		return fmt.Errorf("IToP length %d != TotalItems %d", len(pl.IToP), pl.TotalItems)
	}
	actualMax, total := 0, 0
	for pid, p := range pl.Partitions {
		if p.ID != pid {
			return fmt.Errorf("partition at %d has ID %d", pid, p.ID)
		}
		if p.NumItems != len(p.Items) {
			return fmt.Errorf("partition %d: NumItems %d != %d items", p.ID, p.NumItems, len(p.Items))
		}
		for _, it := range p.Items {
			if pl.GetPartition(it) != p.ID {
				return fmt.Errorf("partition %d holds item %d mapped to partition %d",
					p.ID, it, pl.GetPartition(it))
			}
		}
		if p.NumItems > actualMax {
			actualMax = p.NumItems
		}
		total += p.NumItems
	}
	if total != pl.TotalItems {
		return fmt.Errorf("partitions hold %d items, TotalItems %d", total, pl.TotalItems)
	}
	if actualMax != pl.MaxItems {
		return fmt.Errorf("computed MaxItems %d != stored MaxItems %d", actualMax, pl.MaxItems)
	}
	return nil
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{NumPartitions: pl.NumPartitions}
	if pl.NumPartitions == 0 {
		return stats
	}
	stats.MinItems = pl.TotalItems
	stats.AvgItems = float64(pl.TotalItems) / float64(pl.NumPartitions)
	for _, p := range pl.Partitions {
		if p.NumItems < stats.MinItems {
			stats.MinItems = p.NumItems
		}
		if p.NumItems > stats.MaxItems {
			stats.MaxItems = p.NumItems
		}
	}
	if stats.AvgItems > 0 {
		stats.Imbalance = float64(stats.MaxItems) / stats.AvgItems
	}
	return stats
}

type PartitionStats struct {
	NumPartitions int
	MinItems      int
	MaxItems      int
	AvgItems      float64
	Imbalance     float64 // MaxItems / AvgItems
}
