package meshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/DGProbe/element/library"
	"github.com/notargets/DGProbe/field"
	"github.com/notargets/DGProbe/geometry"
)

func linear(x, out []float64) {
	out[0] = 1
	for d, v := range x {
		out[0] += float64(d+2) * v
	}
}

func TestGenerators(t *testing.T) {
	cases := []struct {
		name  string
		mesh  *Mesh
		cells int
		nodes int
	}{
		{"interval", Interval(5, -1, 1), 5, 6},
		{"square", UnitSquare(3, 2), 12, 12},
		{"cube", UnitCube(2), 48, 27},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.cells, tc.mesh.NumCells())
			assert.Equal(t, tc.nodes, tc.mesh.Coords.NumNodes())
			s := tc.mesh.Sample(1, linear)
			require.NoError(t, s.Validate())
		})
	}
}

func TestExtrude(t *testing.T) {
	m, err := Extrude(Interval(4, 0, 4), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NCols)
	assert.Equal(t, 3, m.NLayers)
	assert.Equal(t, "Quad1", m.Element.Properties().ShortName)

	s := m.Sample(1, linear)
	require.NoError(t, s.Validate())
	got := s.CellCoords(geometry.Cell{Base: 2, Layer: 1}, nil)
	assert.Equal(t, []float64{2, 1, 3, 1, 3, 2, 2, 2}, got)

	p, err := Extrude(UnitSquare(1, 1), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, p.CoordsMap.Arity)
	require.NoError(t, p.Sample(1, linear).Validate())

	_, err = Extrude(m, 2, 1)
	assert.Error(t, err)
	_, err = Extrude(UnitCube(1), 2, 1)
	assert.Error(t, err)
	_, err = Extrude(Interval(1, 0, 1), 0, 1)
	assert.Error(t, err)
}

func TestSampleDG(t *testing.T) {
	m := UnitSquare(2, 2)
	quadratic := func(x, out []float64) { out[0] = x[0]*x[0] - 2*x[0]*x[1] + 3*x[1] }
	p2 := library.NewTriNudg(2)
	s := m.SampleDG(p2, 1, quadratic)
	require.NoError(t, s.Validate())
	assert.Equal(t, 6, s.FMap.Arity)
	assert.Equal(t, m.NumCells()*6, s.F.NumNodes())

	f, err := field.NewLagrange(s, m.Element, p2, field.Config{})
	require.NoError(t, err)
	out := make([]float64, 1)
	for _, x := range [][]float64{{0.1, 0.2}, {0.77, 0.31}, {0.5, 0.5}} {
		require.NoError(t, f.Evaluate(x, out))
		want := make([]float64, 1)
		quadratic(x, want)
		assert.InDelta(t, want[0], out[0], 1e-12)
	}
}

const twoTets = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Two tetrahedra
PROGRAM:                  Test     VERSION:  1.0
Mon Jan  1 00:00:00 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         2         1         2         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         5   1.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         6   1.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         7   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00
         8   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         6         4         1         2         3         4
         2         6         4         2         5         3         8
ENDOFSECTION
       BOUNDARY CONDITIONS 2.0.0
inlet           1         2         0         0         0         0         0         0
         1         6         1
         1         6         2
wall            1         3         0         0         0         0         0         0
         1         6         3
         2         6         1
         2         6         4
ENDOFSECTION`

func TestReadTetMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two_tets.neu")
	require.NoError(t, os.WriteFile(path, []byte(twoTets), 0o644))

	m, err := ReadTetMesh(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NCols)
	assert.Equal(t, 8, m.Coords.NumNodes())
	assert.Equal(t, []int{0, 1, 2, 3}, m.CoordsMap.Values[:4])

	s := m.Sample(1, linear)
	f, err := field.NewLagrange(s, m.Element, m.Element, field.Config{})
	require.NoError(t, err)

	out := make([]float64, 1)
	for _, x := range [][]float64{{0.1, 0.2, 0.3}, {0.75, 0.75, 0.25}} {
		require.NoError(t, f.Evaluate(x, out))
		want := make([]float64, 1)
		linear(x, want)
		assert.InDelta(t, want[0], out[0], 1e-12)
	}
	assert.ErrorIs(t, f.Evaluate([]float64{0.6, 0.1, 0.5}, out), field.ErrPointNotFound)

	_, err = ReadTetMesh(filepath.Join(t.TempDir(), "missing.neu"))
	assert.Error(t, err)
}
