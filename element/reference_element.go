package element

import (
	"github.com/notargets/DGProbe/utils"
)

// Dimensionality represents the spatial dimension of an element
type Dimensionality uint8

const (
	D0 Dimensionality = iota // 0D elements (points)
	D1                       // 1D elements (lines, edges)
	D2                       // 2D elements (triangles, quadrilaterals)
	D3                       // 3D elements (tetrahedra, prisms)
)

// ElementProperties contains metadata describing an element type
type ElementProperties struct {
	Name       string             // Full descriptive name (e.g., "Nodal Tetrahedron Order 3")
	ShortName  string             // Abbreviated name (e.g., "Tet3")
	Type       utils.GeometryType // Element shape
	Order      int                // Polynomial order
	Np         int                // Total number of nodes/points in element
	NVp        int                // Number of vertex nodes (equals number of vertices)
	Dimensions Dimensionality     // Spatial dimension (1D, 2D, or 3D)
}

// ReferenceGeometry defines the layout of nodes in reference space [-1,1]^d
type ReferenceGeometry struct {
	// Node coordinates in reference space
	// For 3D: all three are used; for 2D: only R,S; for 1D: only R
	R, S, T []float64 // Length Np each
}

// Node returns the first dim reference coordinates of node j
func (g ReferenceGeometry) Node(j, dim int) []float64 {
	x := make([]float64, 0, dim)
	for _, c := range [][]float64{g.R, g.S, g.T}[:dim] {
		x = append(x, c[j])
	}
	return x
}
