// Package library provides reference elements on the [-1,1]^d reference
// cells: low order Lagrange elements with analytic gradients and the nodal
// simplex families of arbitrary order.
package library

import (
	"fmt"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/utils"
)

type reference struct {
	props    element.ElementProperties
	geom     element.ReferenceGeometry
	centroid []float64
}

func (e *reference) Properties() element.ElementProperties        { return e.props }
func (e *reference) ReferenceGeometry() element.ReferenceGeometry { return e.geom }

func (e *reference) Centroid() []float64 {
	return append([]float64(nil), e.centroid...)
}

func lagrangeProps(shape utils.GeometryType, short string, np int, dim element.Dimensionality) element.ElementProperties {
	return element.ElementProperties{
		Name:       fmt.Sprintf("Lagrange %v Order 1", shape),
		ShortName:  short,
		Type:       shape,
		Order:      1,
		Np:         np,
		NVp:        np,
		Dimensions: dim,
	}
}

func insideInterval(r, tol float64) bool {
	return r >= -1-tol && r <= 1+tol
}

func insideTriangle(r, s, tol float64) bool {
	return r >= -1-tol && s >= -1-tol && r+s <= tol
}

func insideTet(r, s, t, tol float64) bool {
	return r >= -1-tol && s >= -1-tol && t >= -1-tol && r+s+t <= -1+tol
}

// Interval is the linear element on [-1,1] with nodes -1, 1
type Interval struct{ reference }

func NewInterval() *Interval {
	return &Interval{reference{
		props:    lagrangeProps(utils.Line, "Line1", 2, element.D1),
		geom:     element.ReferenceGeometry{R: []float64{-1, 1}},
		centroid: []float64{0},
	}}
}

func (e *Interval) Basis(ref, phi []float64) {
	r := ref[0]
	phi[0] = (1 - r) / 2
	phi[1] = (1 + r) / 2
}

func (e *Interval) Gradient(ref, dphi []float64) {
	dphi[0], dphi[1] = -0.5, 0.5
}

func (e *Interval) Contains(ref []float64, tol float64) bool {
	return insideInterval(ref[0], tol)
}

// Triangle is the linear element with nodes (-1,-1), (1,-1), (-1,1)
type Triangle struct{ reference }

func NewTriangle() *Triangle {
	return &Triangle{reference{
		props: lagrangeProps(utils.Tri, "Tri1", 3, element.D2),
		geom: element.ReferenceGeometry{
			R: []float64{-1, 1, -1},
			S: []float64{-1, -1, 1},
		},
		centroid: []float64{-1. / 3, -1. / 3},
	}}
}

func (e *Triangle) Basis(ref, phi []float64) {
	r, s := ref[0], ref[1]
	phi[0] = -(r + s) / 2
	phi[1] = (1 + r) / 2
	phi[2] = (1 + s) / 2
}

func (e *Triangle) Gradient(ref, dphi []float64) {
	copy(dphi, []float64{
		-0.5, -0.5,
		0.5, 0,
		0, 0.5,
	})
}

func (e *Triangle) Contains(ref []float64, tol float64) bool {
	return insideTriangle(ref[0], ref[1], tol)
}

// Quad is the bilinear element with counter clockwise nodes (-1,-1), (1,-1),
// (1,1), (-1,1). Its map to a general quadrilateral is not affine.
type Quad struct{ reference }

var quadR, quadS = []float64{-1, 1, 1, -1}, []float64{-1, -1, 1, 1}

func NewQuad() *Quad {
	return &Quad{reference{
		props: lagrangeProps(utils.Rectangle, "Quad1", 4, element.D2),
		geom: element.ReferenceGeometry{
			R: append([]float64(nil), quadR...),
			S: append([]float64(nil), quadS...),
		},
		centroid: []float64{0, 0},
	}}
}

func (e *Quad) Basis(ref, phi []float64) {
	r, s := ref[0], ref[1]
	for i := range quadR {
		phi[i] = (1 + r*quadR[i]) * (1 + s*quadS[i]) / 4
	}
}

func (e *Quad) Gradient(ref, dphi []float64) {
	r, s := ref[0], ref[1]
	for i := range quadR {
		dphi[2*i] = quadR[i] * (1 + s*quadS[i]) / 4
		dphi[2*i+1] = quadS[i] * (1 + r*quadR[i]) / 4
	}
}

func (e *Quad) Contains(ref []float64, tol float64) bool {
	return insideInterval(ref[0], tol) && insideInterval(ref[1], tol)
}

// Tet is the linear tetrahedron with nodes (-1,-1,-1), (1,-1,-1), (-1,1,-1),
// (-1,-1,1), so that x = 0.5*(-(1+r+s+t)va + (1+r)vb + (1+s)vc + (1+t)vd)
type Tet struct{ reference }

func NewTet() *Tet {
	return &Tet{reference{
		props: lagrangeProps(utils.Tet, "Tet1", 4, element.D3),
		geom: element.ReferenceGeometry{
			R: []float64{-1, 1, -1, -1},
			S: []float64{-1, -1, 1, -1},
			T: []float64{-1, -1, -1, 1},
		},
		centroid: []float64{-0.5, -0.5, -0.5},
	}}
}

func (e *Tet) Basis(ref, phi []float64) {
	r, s, t := ref[0], ref[1], ref[2]
	phi[0] = -(1 + r + s + t) / 2
	phi[1] = (1 + r) / 2
	phi[2] = (1 + s) / 2
	phi[3] = (1 + t) / 2
}

func (e *Tet) Gradient(ref, dphi []float64) {
	copy(dphi, []float64{
		-0.5, -0.5, -0.5,
		0.5, 0, 0,
		0, 0.5, 0,
		0, 0, 0.5,
	})
}

func (e *Tet) Contains(ref []float64, tol float64) bool {
	return insideTet(ref[0], ref[1], ref[2], tol)
}

// Prism is the linear triangle times the linear interval, the cell of a
// triangle mesh extruded in its last coordinate. Nodes 0-2 are the bottom
// triangle at t = -1 and nodes 3-5 the top triangle at t = 1.
type Prism struct {
	reference
	tri *Triangle
}

func NewPrism() *Prism {
	return &Prism{
		reference: reference{
			props: lagrangeProps(utils.Prism, "Prism1", 6, element.D3),
			geom: element.ReferenceGeometry{
				R: []float64{-1, 1, -1, -1, 1, -1},
				S: []float64{-1, -1, 1, -1, -1, 1},
				T: []float64{-1, -1, -1, 1, 1, 1},
			},
			centroid: []float64{-1. / 3, -1. / 3, 0},
		},
		tri: NewTriangle(),
	}
}

func (e *Prism) Basis(ref, phi []float64) {
	var tri [3]float64
	e.tri.Basis(ref, tri[:])
	t := ref[2]
	for i, p := range tri {
		phi[i] = p * (1 - t) / 2
		phi[i+3] = p * (1 + t) / 2
	}
}

func (e *Prism) Gradient(ref, dphi []float64) {
	var tri [3]float64
	var dtri [6]float64
	e.tri.Basis(ref, tri[:])
	e.tri.Gradient(ref, dtri[:])
	t := ref[2]
	lo, hi := (1-t)/2, (1+t)/2
	for i, p := range tri {
		dphi[3*i], dphi[3*i+1], dphi[3*i+2] = dtri[2*i]*lo, dtri[2*i+1]*lo, -p/2
		j := i + 3
		dphi[3*j], dphi[3*j+1], dphi[3*j+2] = dtri[2*i]*hi, dtri[2*i+1]*hi, p/2
	}
}

func (e *Prism) Contains(ref []float64, tol float64) bool {
	return insideTriangle(ref[0], ref[1], tol) && insideInterval(ref[2], tol)
}

// Extruded returns the element of the extruded cell over a base element: a
// Quad over an Interval and a Prism over a Triangle
func Extruded(base element.Element) (element.Differentiable, error) {
	switch base.(type) {
	case *Interval:
		return NewQuad(), nil
	case *Triangle:
		return NewPrism(), nil
	}
	return nil, fmt.Errorf("library: no extruded element for %s", base.Properties().ShortName)
}
