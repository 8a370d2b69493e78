package partitions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPartitions(t *testing.T) {
	for _, strategy := range []PartitionStrategy{BlockPartition, RoundRobin, SpaceFillingCurve} {
		for _, n := range []int{0, 1, 7, 100} {
			for _, parts := range []int{1, 3, 8} {
				t.Run(fmt.Sprintf("%v/items=%d/parts=%d", strategy, n, parts), func(t *testing.T) {
					pb := &PartitionBuilder{NumItems: n, NumPartitions: parts, Strategy: strategy}
					if strategy == SpaceFillingCurve {
						pb.Keys = make([]uint64, n)
						for i := range pb.Keys {
							pb.Keys[i] = uint64((i * 37) % 11)
						}
					}
					layout, err := pb.BuildPartitions()
					require.NoError(t, err)
					require.NoError(t, layout.ValidateLayout())

					want := parts
					if n < parts {
						want = max(n, 1)
					}
					assert.Equal(t, want, layout.NumPartitions)

					seen := make([]bool, n)
					for _, p := range layout.Partitions {
						if n > 0 {
							assert.NotZero(t, p.NumItems, "partition %d is empty", p.ID)
						}
						for _, it := range p.Items {
							assert.False(t, seen[it])
							seen[it] = true
						}
					}
					for i := range seen {
						assert.True(t, seen[i], "item %d unassigned", i)
					}

					stats := layout.PartitionStatistics()
					assert.LessOrEqual(t, stats.MaxItems-stats.MinItems, 1)
				})
			}
		}
	}
}

func TestBlockPartitionIsContiguous(t *testing.T) {
	layout, err := (&PartitionBuilder{NumItems: 10, NumPartitions: 3}).BuildPartitions()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, layout.Partitions[0].Items)
	assert.Equal(t, []int{4, 5, 6}, layout.Partitions[1].Items)
	assert.Equal(t, []int{7, 8, 9}, layout.Partitions[2].Items)
	assert.Equal(t, 4, layout.MaxItems)
	assert.Equal(t, 2, layout.GetPartition(8))
	assert.Equal(t, -1, layout.GetPartition(10))
}

func TestTargetPartitionSize(t *testing.T) {
	layout, err := (&PartitionBuilder{NumItems: 25, TargetPartitionSize: 10}).BuildPartitions()
	require.NoError(t, err)
	assert.Equal(t, 3, layout.NumPartitions)
}

func TestBuilderErrors(t *testing.T) {
	_, err := (&PartitionBuilder{NumItems: -1}).BuildPartitions()
	assert.Error(t, err)
	_, err = (&PartitionBuilder{NumItems: 3, Strategy: SpaceFillingCurve}).BuildPartitions()
	assert.Error(t, err)
	_, err = (&PartitionBuilder{NumItems: 3, Strategy: PartitionStrategy(9)}).BuildPartitions()
	assert.Error(t, err)

	layout, err := (&PartitionBuilder{NumItems: 4, NumPartitions: 2}).BuildPartitions()
	require.NoError(t, err)
	layout.MaxItems = 3
	assert.Error(t, layout.ValidateLayout())
}

func TestSpaceFillingCurveGroupsKeys(t *testing.T) {
	keys := []uint64{9, 1, 8, 0}
	layout, err := (&PartitionBuilder{NumItems: 4, NumPartitions: 2,
		Strategy: SpaceFillingCurve, Keys: keys}).BuildPartitions()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, layout.Partitions[0].Items)
	assert.Equal(t, []int{0, 2}, layout.Partitions[1].Items)
}

func TestMortonKey(t *testing.T) {
	lo, hi := []float64{0, 0, 0}, []float64{1, 1, 1}
	assert.Equal(t, uint64(0), MortonKey([]float64{0, 0, 0}, lo, hi))
	assert.Equal(t, uint64(1<<63-1), MortonKey([]float64{1, 1, 1}, lo, hi))
	// Bit 0 comes from x, bit 1 from y
	assert.Equal(t, uint64(1), MortonKey([]float64{1, 0, 0}, lo, hi)&7)
	assert.Equal(t, uint64(2), MortonKey([]float64{0, 1, 0}, lo, hi)&7)
	// Out of range coordinates clamp
	assert.Equal(t, MortonKey([]float64{1, 1, 1}, lo, hi), MortonKey([]float64{5, 9, 2}, lo, hi))
	assert.Less(t, MortonKey([]float64{0.1, 0.1}, lo, hi), MortonKey([]float64{0.9, 0.9}, lo, hi))
}
