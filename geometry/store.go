// Package geometry holds the immutable arrays describing a field over a mesh:
// node coordinates, field degrees of freedom, and the per-cell maps that
// connect cells to both. Extruded meshes are a base mesh of NCols cells
// repeated over NLayers vertical layers.
package geometry

import (
	"errors"
	"fmt"

	"github.com/notargets/DGProbe/utils"
)

// ErrMalformed marks a Store whose arrays, maps or counts are inconsistent.
// It is a fault of whoever assembled the Store.
var ErrMalformed = errors.New("geometry: malformed mesh field")

// Dat is node-major data with Dim components per node
type Dat struct {
	Values []float64
	Dim    int
}

// NumNodes returns the number of whole nodes stored in d
func (d Dat) NumNodes() int {
	if d.Dim <= 0 {
		return 0
	}
	return len(d.Values) / d.Dim
}

// Map connects cells to the nodes of a Dat.
//
// In column layout there is one row of Arity node indices per base cell, and
// layer l of that column uses Values[row+i] + l*Offset[i]. Offset is nil for a
// mesh without layers. In cell layout Offset is nil and there is one row per
// global cell.
type Map struct {
	Values []int
	Arity  int
	Offset []int
}

// Rows returns the number of rows in the map
func (m Map) Rows() int {
	if m.Arity <= 0 {
		return 0
	}
	return len(m.Values) / m.Arity
}

// Cell names one cell of a possibly extruded mesh
type Cell struct {
	Base  int // Index into the base mesh
	Layer int // Vertical layer, always 0 without extrusion
}

// Global encodes the cell as base*nLayers + layer
func (c Cell) Global(nLayers int) int {
	return c.Base*nLayers + c.Layer
}

// Decode recovers the (base, layer) pair from a global cell id
func Decode(global, nLayers int) Cell {
	return Cell{Base: global / nLayers, Layer: global % nLayers}
}

// Store is the geometry of a mesh field. None of its arrays are modified by
// this module, and they must not be modified by the owner once an index has
// been built from them.
type Store struct {
	NCols   int // Cells in the base mesh
	NLayers int // Vertical layers, 1 without extrusion

	Coords    Dat
	CoordsMap Map

	F    Dat
	FMap Map
}

// Dim returns the spatial dimension of the mesh
func (s *Store) Dim() int { return s.Coords.Dim }

// ValueDim returns the number of field components per node
func (s *Store) ValueDim() int { return s.F.Dim }

// Extruded reports whether the mesh has vertical layers
func (s *Store) Extruded() bool { return s.NLayers > 1 }

// NumCells returns NCols*NLayers
func (s *Store) NumCells() int { return s.NCols * s.NLayers }

// Validate checks every structural invariant of the store. The returned error
// wraps ErrMalformed.
func (s *Store) Validate() error {
	if s.NCols < 0 {
		return fmt.Errorf("%w: negative column count %d", ErrMalformed, s.NCols)
	}
	if s.NLayers < 1 {
		return fmt.Errorf("%w: layer count %d, need at least 1", ErrMalformed, s.NLayers)
	}
	if s.Coords.Dim < 1 || s.Coords.Dim > 3 {
		return fmt.Errorf("%w: coordinate dimension %d not in [1, 3]", ErrMalformed, s.Coords.Dim)
	}
	if s.F.Dim < 1 {
		return fmt.Errorf("%w: field value dimension %d, need at least 1", ErrMalformed, s.F.Dim)
	}
	if err := s.checkDat("coords", s.Coords); err != nil {
		return err
	}
	if err := s.checkDat("field", s.F); err != nil {
		return err
	}
	if !utils.AllFinite(s.Coords.Values) {
		return fmt.Errorf("%w: coordinates contain non-finite values", ErrMalformed)
	}
	if err := s.checkMap("coords map", s.CoordsMap, s.Coords.NumNodes()); err != nil {
		return err
	}
	if err := s.checkMap("field map", s.FMap, s.F.NumNodes()); err != nil {
		return err
	}
	return nil
}

func (s *Store) checkDat(name string, d Dat) error {
	if len(d.Values)%d.Dim != 0 {
		return fmt.Errorf("%w: %s length %d is not a multiple of dimension %d",
			ErrMalformed, name, len(d.Values), d.Dim)
	}
	return nil
}

func (s *Store) checkMap(name string, m Map, nodes int) error {
	if s.NCols == 0 {
		return nil
	}
	if m.Arity <= 0 {
		return fmt.Errorf("%w: %s arity %d", ErrMalformed, name, m.Arity)
	}
	if len(m.Values)%m.Arity != 0 {
		return fmt.Errorf("%w: %s length %d is not a multiple of arity %d",
			ErrMalformed, name, len(m.Values), m.Arity)
	}
	rows := m.Rows()
	switch {
	case m.Offset != nil:
		if len(m.Offset) != m.Arity {
			return fmt.Errorf("%w: %s has %d offsets for arity %d",
				ErrMalformed, name, len(m.Offset), m.Arity)
		}
		if rows != s.NCols {
			return fmt.Errorf("%w: %s has %d rows, column layout needs %d",
				ErrMalformed, name, rows, s.NCols)
		}
		for _, off := range m.Offset {
			if off < 0 {
				return fmt.Errorf("%w: %s has negative layer offset %d", ErrMalformed, name, off)
			}
		}
	case rows == s.NumCells():
	case rows == s.NCols && s.NLayers == 1:
	default:
		if rows == s.NCols {
			return fmt.Errorf("%w: %s has one row per column but no layer offsets for %d layers",
				ErrMalformed, name, s.NLayers)
		}
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrMalformed, name, rows, s.NumCells())
	}

	if err := utils.CheckIndices(m.Values, 1, nodes); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	if m.Offset == nil {
		return nil
	}
	top := s.NLayers - 1
	for r := 0; r < rows; r++ {
		for i := 0; i < m.Arity; i++ {
			if hi := m.Values[r*m.Arity+i] + top*m.Offset[i]; hi >= nodes {
				return fmt.Errorf("%w: %s row %d entry %d addresses node %d of %d in the top layer",
					ErrMalformed, name, r, i, hi, nodes)
			}
		}
	}
	return nil
}

// Nodes returns the node indices of cell c under map m, appended to dst[:0]
func (s *Store) Nodes(m Map, c Cell, dst []int) []int {
	dst = dst[:0]
	if m.Offset != nil {
		row := m.Values[c.Base*m.Arity : (c.Base+1)*m.Arity]
		for i, v := range row {
			dst = append(dst, v+c.Layer*m.Offset[i])
		}
		return dst
	}
	r := c.Global(s.NLayers)
	return append(dst, m.Values[r*m.Arity:(r+1)*m.Arity]...)
}

// CellCoords gathers the coordinates of cell c, node-major, into dst
func (s *Store) CellCoords(c Cell, dst []float64) []float64 {
	var buf [32]int
	nodes := s.Nodes(s.CoordsMap, c, buf[:0])
	return utils.Gather(dst, s.Coords.Values, nodes, s.Coords.Dim)
}

// CellValues gathers the field degrees of freedom of cell c, node-major, into dst
func (s *Store) CellValues(c Cell, dst []float64) []float64 {
	var buf [32]int
	nodes := s.Nodes(s.FMap, c, buf[:0])
	return utils.Gather(dst, s.F.Values, nodes, s.F.Dim)
}

// CellBounds returns the bounding box of the coordinate nodes of cell c
func (s *Store) CellBounds(c Cell) Box {
	dim := s.Coords.Dim
	x := s.CellCoords(c, nil)
	b := EmptyBox(dim)
	for i := 0; i+dim <= len(x); i += dim {
		b.Extend(x[i:i+dim], dim)
	}
	return b
}

// ColumnBounds returns the bounding box of every layer of base cell base
func (s *Store) ColumnBounds(base int) Box {
	b := EmptyBox(s.Coords.Dim)
	for l := 0; l < s.NLayers; l++ {
		b = b.Merge(s.CellBounds(Cell{Base: base, Layer: l}))
	}
	return b
}

// ColumnBoxes returns the bounds of every base cell, indexed by base cell
func (s *Store) ColumnBoxes() []Box {
	boxes := make([]Box, s.NCols)
	for c := range boxes {
		boxes[c] = s.ColumnBounds(c)
	}
	return boxes
}
