package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/DGProbe/field"
	"github.com/notargets/DGProbe/geometry"
)

func TestReadPoints(t *testing.T) {
	xs, err := readPoints(strings.NewReader("0.1,0.2\n\n# comment\n 0.3 0.4\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}}, xs)

	_, err = readPoints(strings.NewReader("0.1,0.2,0.3"), 2)
	assert.ErrorIs(t, err, geometry.ErrMalformed)
	_, err = readPoints(strings.NewReader("0.1,abc"), 2)
	assert.Error(t, err)
}

func TestBuildDemoFields(t *testing.T) {
	cases := []struct {
		demo  string
		order int
		x     []float64
		want  float64
	}{
		{"line", 1, []float64{0.3}, 1.3},
		{"square", 3, []float64{0.3, 0.4}, 2.1},
		{"cube", 2, []float64{0.1, 0.2, 0.3}, 2.4},
		{"column", 1, []float64{0.5, 0.7}, 2.9},
		{"prisms", 1, []float64{0.2, 0.3, 0.4}, 3.0},
	}
	fn, err := sampler("linear")
	require.NoError(t, err)
	for _, tc := range cases {
		t.Run(tc.demo, func(t *testing.T) {
			m, err := generate(tc.demo, 3, 2)
			require.NoError(t, err)
			f, err := build(m, tc.order, fn, field.Config{})
			require.NoError(t, err)
			out := make([]float64, 1)
			require.NoError(t, f.Evaluate(tc.x, out))
			assert.InDelta(t, tc.want, out[0], 1e-10)
		})
	}

	m, err := generate("column", 2, 2)
	require.NoError(t, err)
	_, err = build(m, 2, fn, field.Config{})
	assert.Error(t, err)
	_, err = build(m, -1, fn, field.Config{})
	assert.Error(t, err)
	_, err = generate("torus", 2, 2)
	assert.Error(t, err)
	_, err = sampler("cubic")
	assert.Error(t, err)
}

func TestPiecewiseConstantOrder(t *testing.T) {
	fn, err := sampler("x")
	require.NoError(t, err)
	m, err := generate("square", 2, 1)
	require.NoError(t, err)
	f, err := build(m, 0, fn, field.Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Store().FMap.Arity)

	// Cell 0 of the square mesh is the lower triangle of [0,0.5]², centroid x = 1/3
	out := make([]float64, 1)
	require.NoError(t, f.Evaluate([]float64{0.45, 0.05}, out))
	assert.InDelta(t, 1./3, out[0], 1e-12)
}

func TestEvaluatePointsReportsLocatedCells(t *testing.T) {
	fn, err := sampler("linear")
	require.NoError(t, err)
	m, err := generate("column", 4, 3)
	require.NoError(t, err)
	f, err := build(m, 1, fn, field.Config{BatchSize: 2})
	require.NoError(t, err)

	xs := [][]float64{{0.6, 0.5}, {2, 0.5}, {0.1, 0.1}}
	results := evaluatePoints(f, xs, 2)
	require.Len(t, results, 3)

	assert.Equal(t, result{Point: xs[0], Cell: 7, Base: 2, Layer: 1, Values: []float64{2.6}}, roundValues(results[0]))
	assert.Equal(t, -1, results[1].Cell)
	assert.Contains(t, results[1].Error, "not found")
	assert.Equal(t, 0, results[2].Cell)

	var buf bytes.Buffer
	require.NoError(t, describeBatch(&buf, f, xs, 2))
	assert.Contains(t, buf.String(), "Batch: 3 points in 2 partitions, 1 to 2 per partition")
}

func roundValues(r result) result {
	for i, v := range r.Values {
		r.Values[i] = float64(int64(v*1e9+0.5)) / 1e9
	}
	return r
}
