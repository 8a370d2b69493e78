package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGather(t *testing.T) {
	// Three nodes with two components each
	src := []float64{0, 1, 10, 11, 20, 21}

	t.Run("picks records in index order", func(t *testing.T) {
		got := Gather(nil, src, []int{2, 0, 2}, 2)
		assert.Equal(t, []float64{20, 21, 0, 1, 20, 21}, got)
	})

	t.Run("reuses destination capacity", func(t *testing.T) {
		buf := make([]float64, 0, 8)
		got := Gather(buf, src, []int{1}, 2)
		assert.Equal(t, []float64{10, 11}, got)
		assert.Equal(t, 8, cap(got))
	})

	t.Run("scalar stride", func(t *testing.T) {
		got := Gather(nil, []float64{5, 6, 7}, []int{1, 2}, 1)
		assert.Equal(t, []float64{6, 7}, got)
	})
}

func TestCheckIndices(t *testing.T) {
	require.NoError(t, CheckIndices([]int{0, 1, 2}, 2, 6))
	assert.Error(t, CheckIndices([]int{0, 3}, 2, 6))
	assert.Error(t, CheckIndices([]int{-1}, 1, 6))
	assert.Error(t, CheckIndices([]int{0}, 0, 6))
}

func TestStats(t *testing.T) {
	s := []float64{3, -1, 4, 1, -5, 9}
	// Records (3,-1) (4,1) (-5,9): second component ranges over [-1, 9]
	min, max := StridedMinMax(s, 2, 1)
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 9.0, max)

	assert.True(t, AllFinite(s))
	assert.False(t, AllFinite([]float64{1, math.NaN()}))
	assert.False(t, AllFinite([]float64{math.Inf(-1)}))
	assert.Equal(t, "Tet", Tet.String())
	assert.Equal(t, "Prism", Prism.String())
}
