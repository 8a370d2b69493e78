// Package field locates points in a mesh and evaluates the field defined on
// it. A MeshField owns the spatial index over its cells and is safe for
// concurrent use once constructed.
package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/geometry"
	"github.com/notargets/DGProbe/spatial"
	"github.com/notargets/DGProbe/utils"
)

var (
	// ErrPointNotFound is returned when no cell of the mesh contains the point
	ErrPointNotFound = errors.New("field: point not found in mesh")
	// ErrEvaluationFailed wraps failures of the interpolator in a located cell
	ErrEvaluationFailed = errors.New("field: evaluation failed")
)

// Config tunes a MeshField. The zero value is a usable default.
type Config struct {
	Index spatial.Config

	// Containment tolerance and Newton iteration limit of the inverse map
	// built by NewLagrange
	Tolerance     float64
	MaxIterations int

	// Workers used by EvaluateMany when it is not given a count, default
	// runtime.GOMAXPROCS
	Workers int
	// BatchSize is the number of points per batch partition, default one
	// partition per worker
	BatchSize int
	Order     BatchOrder
}

// BatchOrder selects how the points of a batch are grouped into partitions
type BatchOrder uint8

const (
	CurveOrder  BatchOrder = iota // Runs along a Morton curve over the mesh bounds
	InputOrder                    // Consecutive runs of the input
	Interleaved                   // Point i goes to partition i mod n
)

func (o BatchOrder) String() string {
	switch o {
	case CurveOrder:
		return "curve"
	case InputOrder:
		return "input"
	case Interleaved:
		return "interleaved"
	}
	return fmt.Sprintf("BatchOrder(%d)", int(o))
}

// MeshField binds a geometry store to the predicate that decides cell
// containment and the interpolator that evaluates the field in a cell.
type MeshField struct {
	store  *geometry.Store
	pred   element.Predicate
	interp element.Interpolator
	index  spatial.Index
	cfg    Config

	// Vertical extent of every column, used to guess the layer of a point
	colLo, colHi []float64
}

// NewMeshField validates store and builds the spatial index over its columns.
// The store must not be modified afterwards.
func NewMeshField(store *geometry.Store, pred element.Predicate, interp element.Interpolator, cfg Config) (*MeshField, error) {
	if store == nil || pred == nil || interp == nil {
		return nil, fmt.Errorf("%w: nil store, predicate or interpolator", geometry.ErrMalformed)
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	if cfg.Order > Interleaved {
		return nil, fmt.Errorf("field: unknown batch order %v", cfg.Order)
	}
	if store.NCols > 0 {
		if nc, ok := pred.(element.NodeCounter); ok && nc.NodeCount() != store.CoordsMap.Arity {
			return nil, fmt.Errorf("%w: coordinate element has %d nodes, coords map arity %d",
				geometry.ErrMalformed, nc.NodeCount(), store.CoordsMap.Arity)
		}
		if nc, ok := interp.(element.NodeCounter); ok && nc.NodeCount() != store.FMap.Arity {
			return nil, fmt.Errorf("%w: field element has %d nodes, field map arity %d",
				geometry.ErrMalformed, nc.NodeCount(), store.FMap.Arity)
		}
	}

	boxes := store.ColumnBoxes()
	index, err := spatial.Build(boxes, store.Dim(), cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("field: building spatial index: %w", err)
	}
	m := &MeshField{
		store:  store,
		pred:   pred,
		interp: interp,
		index:  index,
		cfg:    cfg,
	}
	if store.Extruded() {
		m.colLo = make([]float64, len(boxes))
		m.colHi = make([]float64, len(boxes))
		up := store.Dim() - 1
		for c, b := range boxes {
			m.colLo[c] = geometry.Axis(b.Min, up)
			m.colHi[c] = geometry.Axis(b.Max, up)
		}
	}
	return m, nil
}

// NewLagrange creates a MeshField whose cells are mapped by coordEl and whose
// field is interpolated with the basis of fieldEl
func NewLagrange(store *geometry.Store, coordEl, fieldEl element.Element, cfg Config) (*MeshField, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", geometry.ErrMalformed)
	}
	if d := int(coordEl.Properties().Dimensions); d != store.Dim() {
		return nil, fmt.Errorf("%w: %s is %d dimensional, mesh coordinates have dimension %d",
			geometry.ErrMalformed, coordEl.Properties().ShortName, d, store.Dim())
	}
	if fieldEl.Properties().Dimensions != coordEl.Properties().Dimensions {
		return nil, fmt.Errorf("%w: field element %s does not match coordinate element %s",
			geometry.ErrMalformed, fieldEl.Properties().ShortName, coordEl.Properties().ShortName)
	}
	pred := element.NewInverseMap(coordEl, element.InverseMapConfig{
		Tolerance:     cfg.Tolerance,
		MaxIterations: cfg.MaxIterations,
	})
	return NewMeshField(store, pred, element.NewNodalInterpolator(fieldEl), cfg)
}

// Store returns the geometry the field was built from
func (m *MeshField) Store() *geometry.Store { return m.store }

// Index returns the spatial index over the base cells
func (m *MeshField) Index() spatial.Index { return m.index }

// Candidates appends to dst[:0] the base cells whose boxes hold x, in the
// order they are tested by Locate
func (m *MeshField) Candidates(x []float64, dst []int) []int {
	return m.index.Query(x, dst)
}

// String returns a summary of the mesh field
func (m *MeshField) String() string {
	var sb strings.Builder
	s := m.store

	sb.WriteString("=== MeshField Summary ===\n")
	sb.WriteString(fmt.Sprintf("  Dimension: %d\n", s.Dim()))
	sb.WriteString(fmt.Sprintf("  Base cells: %d\n", s.NCols))
	sb.WriteString(fmt.Sprintf("  Layers: %d\n", s.NLayers))
	sb.WriteString(fmt.Sprintf("  Total cells: %d\n", s.NumCells()))
	sb.WriteString(fmt.Sprintf("  Coordinate nodes: %d (arity %d)\n", s.Coords.NumNodes(), s.CoordsMap.Arity))
	sb.WriteString(fmt.Sprintf("  Field nodes: %d (arity %d, %d components)\n",
		s.F.NumNodes(), s.FMap.Arity, s.ValueDim()))
	axes := []string{"X", "Y", "Z"}
	for d := 0; d < s.Dim(); d++ {
		lo, hi := utils.StridedMinMax(s.Coords.Values, s.Dim(), d)
		sb.WriteString(fmt.Sprintf("  %s range: [%.4f, %.4f]\n", axes[d], lo, hi))
	}
	for c := 0; c < s.ValueDim(); c++ {
		lo, hi := utils.StridedMinMax(s.F.Values, s.ValueDim(), c)
		sb.WriteString(fmt.Sprintf("  Field component %d range: [%.4e, %.4e]\n", c, lo, hi))
	}
	sb.WriteString(fmt.Sprintf("  Spatial index: %v over %d boxes\n", m.index.Kind(), m.index.Len()))
	return sb.String()
}
