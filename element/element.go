package element

import (
	"github.com/notargets/DGProbe/geometry"
)

// Element is a reference element: a cell shape in reference space together
// with a nodal basis of Np functions defined on it.
type Element interface {
	Properties() ElementProperties
	ReferenceGeometry() ReferenceGeometry

	// Basis writes the Np basis functions evaluated at ref into phi
	Basis(ref, phi []float64)
	// Contains reports whether ref lies in the closed reference cell, allowing
	// each bounding constraint to be violated by at most tol
	Contains(ref []float64, tol float64) bool
	// Centroid returns the reference coordinates of the cell centroid
	Centroid() []float64
}

// Differentiable is an Element with analytic basis gradients
type Differentiable interface {
	Element
	// Gradient writes dφi/dξb into dphi[i*d+b], d the reference dimension
	Gradient(ref, dphi []float64)
}

// Predicate decides whether the physical point x lies in cell c of g. On
// acceptance ref holds the reference coordinates of x within the cell.
// Implementations must be pure and safe for concurrent use.
type Predicate interface {
	Inside(g *geometry.Store, c geometry.Cell, x, ref []float64) bool
}

// PredicateFunc adapts a function to a Predicate
type PredicateFunc func(g *geometry.Store, c geometry.Cell, x, ref []float64) bool

func (f PredicateFunc) Inside(g *geometry.Store, c geometry.Cell, x, ref []float64) bool {
	return f(g, c, x, ref)
}

// Interpolator combines the nodal values of one cell, node major with valueDim
// components per node, into the field value at reference coordinates ref.
type Interpolator interface {
	Interpolate(ref, nodal []float64, valueDim int, out []float64) error
}

// NodeCounter is implemented by predicates and interpolators that expect a
// fixed number of nodes per cell
type NodeCounter interface {
	NodeCount() int
}
