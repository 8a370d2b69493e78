// Package meshio builds geometry stores from meshes: generated structured
// meshes, extrusions of them, and tetrahedral meshes read from Gambit
// neutral files.
package meshio

import (
	"fmt"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/element/library"
	"github.com/notargets/DGProbe/geometry"
)

// Mesh is the coordinate half of a geometry store, mapped by a linear
// coordinate element
type Mesh struct {
	NCols, NLayers int
	Coords         geometry.Dat
	CoordsMap      geometry.Map
	Element        element.Element
}

// Dim returns the spatial dimension of the mesh
func (m *Mesh) Dim() int { return m.Coords.Dim }

// NumCells returns NCols*NLayers
func (m *Mesh) NumCells() int { return m.NCols * m.NLayers }

func (m *Mesh) store(f geometry.Dat, fmap geometry.Map) *geometry.Store {
	return &geometry.Store{
		NCols:     m.NCols,
		NLayers:   m.NLayers,
		Coords:    m.Coords,
		CoordsMap: m.CoordsMap,
		F:         f,
		FMap:      fmap,
	}
}

// P1 returns a store whose field lives on the mesh vertices, sharing the
// coordinate map
func (m *Mesh) P1(values geometry.Dat) (*geometry.Store, error) {
	if values.NumNodes() != m.Coords.NumNodes() {
		return nil, fmt.Errorf("meshio: %d field nodes for %d vertices", values.NumNodes(), m.Coords.NumNodes())
	}
	s := m.store(values, m.CoordsMap)
	return s, s.Validate()
}

// Sample evaluates fn at every vertex into a P1 field with valueDim components
func (m *Mesh) Sample(valueDim int, fn func(x, out []float64)) *geometry.Store {
	dim := m.Dim()
	n := m.Coords.NumNodes()
	vals := make([]float64, n*valueDim)
	for v := 0; v < n; v++ {
		fn(m.Coords.Values[v*dim:(v+1)*dim], vals[v*valueDim:(v+1)*valueDim])
	}
	s, err := m.P1(geometry.Dat{Values: vals, Dim: valueDim})
	if err != nil {
		panic(err)
	}
	return s
}

// SampleDG evaluates fn at the nodes of fieldEl in every cell, giving a
// discontinuous field of the order of fieldEl with one row per global cell
func (m *Mesh) SampleDG(fieldEl element.Element, valueDim int, fn func(x, out []float64)) *geometry.Store {
	dim := m.Dim()
	np := fieldEl.Properties().Np
	vals := make([]float64, 0, m.NumCells()*np*valueDim)
	fmap := geometry.Map{Arity: np, Values: make([]int, 0, m.NumCells()*np)}
	tmp := m.store(geometry.Dat{Dim: valueDim}, m.CoordsMap)
	out := make([]float64, valueDim)
	var coords []float64
	for base := 0; base < m.NCols; base++ {
		for layer := 0; layer < m.NLayers; layer++ {
			coords = tmp.CellCoords(geometry.Cell{Base: base, Layer: layer}, coords)
			x := element.MapNodes(m.Element, coords, dim, fieldEl)
			for j := 0; j < np; j++ {
				fn(x[j*dim:(j+1)*dim], out)
				fmap.Values = append(fmap.Values, len(vals)/valueDim)
				vals = append(vals, out...)
			}
		}
	}
	return m.store(geometry.Dat{Values: vals, Dim: valueDim}, fmap)
}

// Interval divides [x0, x1] into n equal cells
func Interval(n int, x0, x1 float64) *Mesh {
	m := &Mesh{
		NCols:     n,
		NLayers:   1,
		Coords:    geometry.Dat{Dim: 1},
		CoordsMap: geometry.Map{Arity: 2},
		Element:   library.NewInterval(),
	}
	for i := 0; i <= n; i++ {
		m.Coords.Values = append(m.Coords.Values, x0+(x1-x0)*float64(i)/float64(n))
	}
	for i := 0; i < n; i++ {
		m.CoordsMap.Values = append(m.CoordsMap.Values, i, i+1)
	}
	return m
}

// UnitSquare splits each of nx by ny squares of the unit square into two
// counter clockwise triangles along its rising diagonal. Square (i, j) owns
// cells 2(j*nx+i), below the diagonal, and 2(j*nx+i)+1.
func UnitSquare(nx, ny int) *Mesh {
	m := &Mesh{
		NCols:     2 * nx * ny,
		NLayers:   1,
		Coords:    geometry.Dat{Dim: 2},
		CoordsMap: geometry.Map{Arity: 3},
		Element:   library.NewTriangle(),
	}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Coords.Values = append(m.Coords.Values, float64(i)/float64(nx), float64(j)/float64(ny))
		}
	}
	v := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			m.CoordsMap.Values = append(m.CoordsMap.Values,
				v(i, j), v(i+1, j), v(i+1, j+1),
				v(i, j), v(i+1, j+1), v(i, j+1))
		}
	}
	return m
}

// UnitCube splits each of n³ cubes of the unit cube into the six tetrahedra
// around its main diagonal, a conforming mesh of 6n³ cells
func UnitCube(n int) *Mesh {
	m := &Mesh{
		NCols:     6 * n * n * n,
		NLayers:   1,
		Coords:    geometry.Dat{Dim: 3},
		CoordsMap: geometry.Map{Arity: 4},
		Element:   library.NewTet(),
	}
	h := 1 / float64(n)
	for k := 0; k <= n; k++ {
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				m.Coords.Values = append(m.Coords.Values, float64(i)*h, float64(j)*h, float64(k)*h)
			}
		}
	}
	v := func(p [3]int) int { return (p[2]*(n+1)+p[1])*(n+1) + p[0] }
	perms := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, perm := range perms {
					p := [3]int{i, j, k}
					m.CoordsMap.Values = append(m.CoordsMap.Values, v(p))
					for _, axis := range perm {
						p[axis]++
						m.CoordsMap.Values = append(m.CoordsMap.Values, v(p))
					}
				}
			}
		}
	}
	return m
}

// Extrude stacks layers copies of a 1D or 2D base mesh over [0, height] in a
// new last coordinate. The coordinate map uses column layout: the nodes of
// vertex v are numbered v*(layers+1) + level.
func Extrude(base *Mesh, layers int, height float64) (*Mesh, error) {
	if base.NLayers != 1 {
		return nil, fmt.Errorf("meshio: mesh is already extruded")
	}
	if layers < 1 {
		return nil, fmt.Errorf("meshio: %d layers", layers)
	}
	el, err := library.Extruded(base.Element)
	if err != nil {
		return nil, err
	}
	bd := base.Dim()
	levels := layers + 1
	m := &Mesh{
		NCols:     base.NCols,
		NLayers:   layers,
		Coords:    geometry.Dat{Dim: bd + 1},
		CoordsMap: geometry.Map{Arity: 2 * base.CoordsMap.Arity},
		Element:   el,
	}
	for v := 0; v < base.Coords.NumNodes(); v++ {
		x := base.Coords.Values[v*bd : (v+1)*bd]
		for l := 0; l < levels; l++ {
			m.Coords.Values = append(m.Coords.Values, x...)
			m.Coords.Values = append(m.Coords.Values, height*float64(l)/float64(layers))
		}
	}

	arity := base.CoordsMap.Arity
	for c := 0; c < base.NCols; c++ {
		row := base.CoordsMap.Values[c*arity : (c+1)*arity]
		switch arity {
		case 2:
			// Quad nodes run counter clockwise from the bottom of the first vertex
			a, b := row[0]*levels, row[1]*levels
			m.CoordsMap.Values = append(m.CoordsMap.Values, a, b, b+1, a+1)
		default:
			for _, v := range row {
				m.CoordsMap.Values = append(m.CoordsMap.Values, v*levels)
			}
			for _, v := range row {
				m.CoordsMap.Values = append(m.CoordsMap.Values, v*levels+1)
			}
		}
	}
	m.CoordsMap.Offset = make([]int, m.CoordsMap.Arity)
	for i := range m.CoordsMap.Offset {
		m.CoordsMap.Offset[i] = 1
	}
	return m, nil
}
