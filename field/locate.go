package field

import (
	"fmt"
	"math"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/geometry"
)

// LocatedPoint is a cell accepted by the predicate together with the
// reference coordinates of the point within it
type LocatedPoint struct {
	Cell   geometry.Cell
	Global int // Cell.Base*NLayers + Cell.Layer
	Ref    []float64
}

// Locate finds the cell containing x with the field's own predicate. It
// panics if x does not have the dimension of the mesh.
func (m *MeshField) Locate(x []float64) (LocatedPoint, bool) {
	return m.LocateWith(x, m.pred)
}

// LocateWith finds the first cell accepted by pred. Candidate columns are
// tried nearest first; within a column the layers are tried outward from the
// layer the vertical coordinate of x falls in.
func (m *MeshField) LocateWith(x []float64, pred element.Predicate) (LocatedPoint, bool) {
	dim := m.store.Dim()
	if len(x) != dim {
		panic(fmt.Errorf("field: point %v has %d components, mesh has dimension %d", x, len(x), dim))
	}
	var buf [32]int
	ref := make([]float64, dim)
	nLayers := m.store.NLayers
	for _, base := range m.index.Query(x, buf[:0]) {
		guess := m.layerGuess(base, x)
		for k := 0; k < 2*nLayers; k++ {
			layer, ok := outward(guess, k, nLayers)
			if !ok {
				continue
			}
			c := geometry.Cell{Base: base, Layer: layer}
			if pred.Inside(m.store, c, x, ref) {
				return LocatedPoint{Cell: c, Global: c.Global(nLayers), Ref: ref}, true
			}
		}
	}
	return LocatedPoint{}, false
}

// layerGuess returns the layer of column base holding x if the layers were
// evenly spaced over the column's vertical extent
func (m *MeshField) layerGuess(base int, x []float64) int {
	n := m.store.NLayers
	if n == 1 {
		return 0
	}
	lo, hi := m.colLo[base], m.colHi[base]
	if !(hi > lo) {
		return 0
	}
	g := int(math.Floor((x[len(x)-1] - lo) / (hi - lo) * float64(n)))
	if g < 0 {
		return 0
	}
	if g >= n {
		return n - 1
	}
	return g
}

// outward returns the k-th layer of the sequence guess, guess+1, guess-1,
// guess+2, ... and whether it lies within [0, n)
func outward(guess, k, n int) (int, bool) {
	l := guess + (k+1)/2
	if k%2 == 0 {
		l = guess - k/2
	}
	return l, l >= 0 && l < n
}
