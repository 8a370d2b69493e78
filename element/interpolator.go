package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/DGProbe/utils"
)

// NodalInterpolator evaluates a field given by its nodal values in the basis
// of an Element: u(ξ) = Σ φi(ξ) ui
type NodalInterpolator struct {
	el Element
	np int
}

func NewNodalInterpolator(el Element) *NodalInterpolator {
	return &NodalInterpolator{el: el, np: el.Properties().Np}
}

// NodeCount returns the number of field nodes per cell
func (n *NodalInterpolator) NodeCount() int { return n.np }

func (n *NodalInterpolator) Interpolate(ref, nodal []float64, valueDim int, out []float64) error {
	if valueDim < 1 || len(nodal) != n.np*valueDim {
		return fmt.Errorf("element: %d nodal values for %d nodes with %d components",
			len(nodal), n.np, valueDim)
	}
	if len(out) < valueDim {
		return fmt.Errorf("element: output of length %d for %d components", len(out), valueDim)
	}
	phi := make([]float64, n.np)
	n.el.Basis(ref, phi)

	// out = Uᵀ φ with U the [Np × valueDim] nodal values
	U := mat.NewDense(n.np, valueDim, nodal)
	res := mat.NewVecDense(valueDim, out[:valueDim])
	res.MulVec(U.T(), mat.NewVecDense(n.np, phi))
	if !utils.AllFinite(out[:valueDim]) {
		return fmt.Errorf("element: non-finite interpolated value %v", out[:valueDim])
	}
	return nil
}

// MapNodes maps the reference nodes of fieldEl into the physical cell whose
// node-major coordinates are coords under coordEl. The result is node major
// with dim components, one node per fieldEl node.
func MapNodes(coordEl Element, coords []float64, dim int, fieldEl Element) []float64 {
	rg := fieldEl.ReferenceGeometry()
	np := fieldEl.Properties().Np
	refDim := int(fieldEl.Properties().Dimensions)
	nc := coordEl.Properties().Np
	if len(coords) != nc*dim {
		panic(fmt.Errorf("element: %d coordinate values for %d nodes of dimension %d", len(coords), nc, dim))
	}

	// X = B C with B[j,i] = φi(ξj) and C the [nc × dim] coordinates
	B := mat.NewDense(np, nc, nil)
	phi := make([]float64, nc)
	for j := 0; j < np; j++ {
		coordEl.Basis(rg.Node(j, refDim), phi)
		B.SetRow(j, phi)
	}
	X := mat.NewDense(np, dim, nil)
	X.Mul(B, mat.NewDense(nc, dim, coords))
	return X.RawMatrix().Data
}
