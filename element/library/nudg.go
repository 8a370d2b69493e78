package library

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/element/library/gonudg"
	"github.com/notargets/DGProbe/utils"
)

// Nudg is a nodal simplex element of order N in the style of Hesthaven and
// Warburton: the basis is the Lagrange basis of its nodes, computed from the
// orthonormal modal basis as φ = V⁻ᵀψ.
type Nudg struct {
	reference
	N      int
	V      *mat.Dense // V_{ij} = ψj(ξi)
	Vinv   *mat.Dense
	modal  func(ref []float64) *mat.Dense
	inside func(ref []float64, tol float64) bool
}

// NewLineNudg creates the order N element on [-1,1] with Gauss-Lobatto nodes
func NewLineNudg(N int) *Nudg {
	r := gonudg.JacobiGL(0, 0, N)
	return newNudg(N, utils.Line, element.D1,
		element.ReferenceGeometry{R: r},
		[]float64{0},
		func(ref []float64) *mat.Dense { return gonudg.Vandermonde1D(N, ref[:1]) },
		func(ref []float64, tol float64) bool { return insideInterval(ref[0], tol) },
	)
}

// NewTriNudg creates the order N triangle with equispaced nodes
func NewTriNudg(N int) *Nudg {
	r, s := gonudg.EquispacedNodes2D(N)
	return newNudg(N, utils.Tri, element.D2,
		element.ReferenceGeometry{R: r, S: s},
		[]float64{-1. / 3, -1. / 3},
		func(ref []float64) *mat.Dense { return gonudg.Vandermonde2D(N, ref[:1], ref[1:2]) },
		func(ref []float64, tol float64) bool { return insideTriangle(ref[0], ref[1], tol) },
	)
}

// NewTetNudg creates the order N tetrahedron with equispaced nodes
func NewTetNudg(N int) *Nudg {
	r, s, t := gonudg.EquispacedNodes3D(N)
	return newNudg(N, utils.Tet, element.D3,
		element.ReferenceGeometry{R: r, S: s, T: t},
		[]float64{-0.5, -0.5, -0.5},
		func(ref []float64) *mat.Dense { return gonudg.Vandermonde3D(N, ref[:1], ref[1:2], ref[2:3]) },
		func(ref []float64, tol float64) bool { return insideTet(ref[0], ref[1], ref[2], tol) },
	)
}

func newNudg(N int, shape utils.GeometryType, dim element.Dimensionality,
	geom element.ReferenceGeometry, centroid []float64,
	modal func([]float64) *mat.Dense, inside func([]float64, float64) bool) *Nudg {
	if N < 0 {
		panic(fmt.Errorf("library: negative element order %d", N))
	}
	var V *mat.Dense
	switch dim {
	case element.D1:
		V = gonudg.Vandermonde1D(N, geom.R)
	case element.D2:
		V = gonudg.Vandermonde2D(N, geom.R, geom.S)
	default:
		V = gonudg.Vandermonde3D(N, geom.R, geom.S, geom.T)
	}
	var Vinv mat.Dense
	if err := Vinv.Inverse(V); err != nil {
		panic(fmt.Errorf("library: singular Vandermonde matrix for %v order %d: %w", shape, N, err))
	}
	np := len(geom.R)
	nvp := int(dim) + 1
	if N == 0 {
		nvp = 0
	}
	short := map[utils.GeometryType]string{utils.Line: "Line", utils.Tri: "Tri", utils.Tet: "Tet"}[shape]
	return &Nudg{
		reference: reference{
			props: element.ElementProperties{
				Name:       fmt.Sprintf("Nodal %v Order %d", shape, N),
				ShortName:  fmt.Sprintf("%sN%d", short, N),
				Type:       shape,
				Order:      N,
				Np:         np,
				NVp:        nvp,
				Dimensions: dim,
			},
			geom:     geom,
			centroid: centroid,
		},
		N:      N,
		V:      V,
		Vinv:   &Vinv,
		modal:  modal,
		inside: inside,
	}
}

func (e *Nudg) Basis(ref, phi []float64) {
	psi := e.modal(ref).RawRowView(0)
	out := mat.NewVecDense(e.props.Np, phi[:e.props.Np])
	out.MulVec(e.Vinv.T(), mat.NewVecDense(len(psi), psi))
}

func (e *Nudg) Contains(ref []float64, tol float64) bool {
	return e.inside(ref, tol)
}
