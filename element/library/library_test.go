package library

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/DGProbe/element"
)

func allElements() []element.Element {
	els := []element.Element{NewInterval(), NewTriangle(), NewQuad(), NewTet(), NewPrism()}
	for N := 0; N <= 4; N++ {
		els = append(els, NewLineNudg(N), NewTriNudg(N), NewTetNudg(N))
	}
	return els
}

// samplePoints returns a few reference points inside the cell of el
func samplePoints(el element.Element) [][]float64 {
	c := el.Centroid()
	pts := [][]float64{c}
	for _, f := range []float64{0.3, 0.7} {
		p := make([]float64, len(c))
		for d := range p {
			// Move towards the first vertex
			p[d] = c[d] + f*(-1-c[d])
		}
		pts = append(pts, p)
	}
	return pts
}

func TestBasisPartitionOfUnity(t *testing.T) {
	for _, el := range allElements() {
		props := el.Properties()
		t.Run(props.ShortName, func(t *testing.T) {
			phi := make([]float64, props.Np)
			for _, p := range samplePoints(el) {
				el.Basis(p, phi)
				assert.InDelta(t, 1.0, floats.Sum(phi), 1e-10, "at %v", p)
			}
		})
	}
}

func TestBasisKronecker(t *testing.T) {
	for _, el := range allElements() {
		props := el.Properties()
		t.Run(props.ShortName, func(t *testing.T) {
			phi := make([]float64, props.Np)
			rg := el.ReferenceGeometry()
			for j := 0; j < props.Np; j++ {
				node := rg.Node(j, int(props.Dimensions))
				require.True(t, el.Contains(node, 1e-12), "node %d at %v", j, node)
				el.Basis(node, phi)
				for i := range phi {
					want := 0.
					if i == j {
						want = 1
					}
					assert.InDelta(t, want, phi[i], 1e-9)
				}
			}
		})
	}
}

func TestGradientMatchesFiniteDifferences(t *testing.T) {
	h := 1e-6
	for _, el := range allElements() {
		d, ok := el.(element.Differentiable)
		if !ok {
			continue
		}
		props := el.Properties()
		dim := int(props.Dimensions)
		t.Run(props.ShortName, func(t *testing.T) {
			dphi := make([]float64, props.Np*dim)
			lo := make([]float64, props.Np)
			hi := make([]float64, props.Np)
			for _, p := range samplePoints(el) {
				d.Gradient(p, dphi)
				for b := 0; b < dim; b++ {
					q := append([]float64(nil), p...)
					q[b] = p[b] + h
					el.Basis(q, hi)
					q[b] = p[b] - h
					el.Basis(q, lo)
					for i := range lo {
						assert.InDelta(t, (hi[i]-lo[i])/(2*h), dphi[i*dim+b], 1e-8)
					}
				}
			}
		})
	}
}

func TestContains(t *testing.T) {
	tol := 1e-10
	cases := []struct {
		el      element.Element
		inside  [][]float64
		outside [][]float64
	}{
		{NewInterval(), [][]float64{{-1}, {0.3}, {1}}, [][]float64{{1.001}, {-1.1}}},
		{NewTriangle(), [][]float64{{-1, -1}, {0, 0}, {-1, 1}}, [][]float64{{0.1, 0}, {-1.01, 0}}},
		{NewQuad(), [][]float64{{1, 1}, {-0.5, 0.9}}, [][]float64{{1.01, 0}, {0, -1.2}}},
		{NewTet(), [][]float64{{-1, -1, 1}, {-0.5, -0.5, -0.5}}, [][]float64{{0.1, 0, -1}, {-1, -1, -1.01}}},
		{NewPrism(), [][]float64{{-1, -1, 1}, {0, -1, 0}}, [][]float64{{0, 0.1, 0}, {-0.5, -0.5, 1.01}}},
		{NewTetNudg(3), [][]float64{{1, -1, -1}}, [][]float64{{0.5, 0.5, -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.el.Properties().ShortName, func(t *testing.T) {
			for _, p := range tc.inside {
				assert.True(t, tc.el.Contains(p, tol), "%v", p)
			}
			for _, p := range tc.outside {
				assert.False(t, tc.el.Contains(p, tol), "%v", p)
			}
			assert.True(t, tc.el.Contains(tc.el.Centroid(), 0))
		})
	}
}

func TestNudgReproducesPolynomials(t *testing.T) {
	// Degree N polynomial in every coordinate combination
	poly := func(x []float64, N int) float64 {
		var v float64
		for d, xd := range x {
			v += float64(d+1) * math.Pow(xd, float64(N))
		}
		if N >= 2 {
			v += 0.5 * x[0] * x[len(x)-1]
		}
		return v
	}
	for N := 1; N <= 4; N++ {
		for _, el := range []*Nudg{NewLineNudg(N), NewTriNudg(N), NewTetNudg(N)} {
			props := el.Properties()
			t.Run(props.ShortName, func(t *testing.T) {
				dim := int(props.Dimensions)
				rg := el.ReferenceGeometry()
				nodal := make([]float64, props.Np)
				for j := range nodal {
					nodal[j] = poly(rg.Node(j, dim), N)
				}
				interp := element.NewNodalInterpolator(el)
				out := make([]float64, 1)
				for _, p := range samplePoints(el) {
					require.NoError(t, interp.Interpolate(p, nodal, 1, out))
					assert.InDelta(t, poly(p, N), out[0], 1e-9)
				}
			})
		}
	}
}

func TestMassMatrixVolume(t *testing.T) {
	volumes := map[string]float64{"Line": 2, "Tri": 2, "Tet": 4. / 3}
	for N := 0; N <= 3; N++ {
		for _, el := range []*Nudg{NewLineNudg(N), NewTriNudg(N), NewTetNudg(N)} {
			M, err := el.MassMatrix()
			require.NoError(t, err)
			r, c := M.Dims()
			var sum float64
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					sum += M.At(i, j)
				}
			}
			assert.InDelta(t, volumes[el.Properties().Type.String()], sum, 1e-10, el.Properties().ShortName)
		}
	}
}

func TestExtrudedAndDescribe(t *testing.T) {
	q, err := Extruded(NewInterval())
	require.NoError(t, err)
	assert.Equal(t, "Quad1", q.Properties().ShortName)
	p, err := Extruded(NewTriangle())
	require.NoError(t, err)
	assert.Equal(t, 6, p.Properties().Np)
	_, err = Extruded(NewTet())
	assert.Error(t, err)

	s := Describe(NewTetNudg(2))
	assert.Contains(t, s, "Nodal Tet Order 2 (TetN2)")
	assert.Contains(t, s, "Nodes per element (Np): 10")
	assert.Contains(t, s, "R range: [-1.0000, 1.0000]")
	assert.Contains(t, s, "Mass matrix range: [")
	assert.Contains(t, Describe(NewPrism()), "Analytic gradients: yes")
}
