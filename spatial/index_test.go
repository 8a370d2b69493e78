package spatial

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/DGProbe/geometry"
)

func randomBoxes(rng *rand.Rand, n, dim int) []geometry.Box {
	boxes := make([]geometry.Box, n)
	for i := range boxes {
		b := geometry.EmptyBox(dim)
		lo := make([]float64, dim)
		hi := make([]float64, dim)
		for d := 0; d < dim; d++ {
			lo[d] = rng.Float64() * 10
			hi[d] = lo[d] + 0.1 + rng.Float64()*2
		}
		b.Extend(lo, dim)
		b.Extend(hi, dim)
		boxes[i] = b
	}
	return boxes
}

func randomPoint(rng *rand.Rand, dim int) []float64 {
	x := make([]float64, dim)
	for d := range x {
		x[d] = rng.Float64()*13 - 1
	}
	return x
}

func TestBackendsAgreeWithLinear(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		rng := rand.New(rand.NewSource(int64(dim)))
		boxes := randomBoxes(rng, 300, dim)
		ref, err := Build(boxes, dim, Config{Kind: Linear})
		require.NoError(t, err)

		for _, k := range []Kind{Tree, Grid, RTree} {
			t.Run(fmt.Sprintf("%v/dim=%d", k, dim), func(t *testing.T) {
				idx, err := Build(boxes, dim, Config{Kind: k, LeafSize: 4})
				require.NoError(t, err)
				assert.Equal(t, k, idx.Kind())
				assert.Equal(t, len(boxes), idx.Len())
				var want, got []int
				for q := 0; q < 500; q++ {
					x := randomPoint(rng, dim)
					want = ref.Query(x, want)
					got = idx.Query(x, got)
					if len(want) == 0 {
						assert.Empty(t, got, "point %v", x)
						continue
					}
					assert.Equal(t, want, got, "point %v", x)
				}
			})
		}
	}
}

func TestQueryOrdering(t *testing.T) {
	// Three nested unit-ish intervals with centres at 1, 1.5 and 1 again
	var boxes []geometry.Box
	for _, r := range [][2]float64{{0, 2}, {1, 2}, {0.5, 1.5}} {
		b := geometry.EmptyBox(1)
		b.Extend([]float64{r[0]}, 1)
		b.Extend([]float64{r[1]}, 1)
		boxes = append(boxes, b)
	}
	for _, k := range []Kind{Tree, RTree, Grid, Linear} {
		t.Run(k.String(), func(t *testing.T) {
			idx, err := Build(boxes, 1, Config{Kind: k})
			require.NoError(t, err)
			// Boxes 0 and 2 tie on distance and order by id
			assert.Equal(t, []int{0, 2, 1}, idx.Query([]float64{1.1}, nil))
			assert.Equal(t, []int{1, 0}, idx.Query([]float64{1.8}, nil))
			assert.Empty(t, idx.Query([]float64{2.5}, nil))

			// Repeated queries give the same answer
			assert.Equal(t, idx.Query([]float64{1.1}, nil), idx.Query([]float64{1.1}, nil))
		})
	}
}

func TestEmptyIndex(t *testing.T) {
	for _, k := range []Kind{Tree, RTree, Grid, Linear} {
		t.Run(k.String(), func(t *testing.T) {
			idx, err := Build(nil, 2, Config{Kind: k})
			require.NoError(t, err)
			assert.Equal(t, 0, idx.Len())
			assert.Empty(t, idx.Query([]float64{0, 0}, nil))

			idx, err = Build(nil, 3, Config{Kind: k})
			require.NoError(t, err)
			assert.Empty(t, idx.Query([]float64{0, 0, 0}, nil))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, 4, Config{})
	assert.Error(t, err)
	_, err = Build(nil, 2, Config{Kind: Kind(9)})
	assert.Error(t, err)

	idx, err := Build(randomBoxes(rand.New(rand.NewSource(1)), 3, 2), 2, Config{})
	require.NoError(t, err)
	assert.Panics(t, func() { idx.Query([]float64{1, 2, 3}, nil) })
}

func TestPadding(t *testing.T) {
	b := geometry.EmptyBox(2)
	b.Extend([]float64{0, 0}, 2)
	b.Extend([]float64{1, 1}, 2)
	idx, err := Build([]geometry.Box{b}, 2, Config{Padding: 1e-3})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, idx.Query([]float64{1.001, 0.5}, nil))
	assert.Empty(t, idx.Query([]float64{1.01, 0.5}, nil))
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Tree, RTree, Grid, Linear} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind(" BVH ")
	require.NoError(t, err)
	assert.Equal(t, Tree, got)
	_, err = ParseKind("octree")
	assert.Error(t, err)
}
