// Package spatial finds the cells whose bounding boxes may contain a point.
// The candidates it returns are a superset of the containing cells, and the
// exact test is left to the caller.
package spatial

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/DGProbe/geometry"
)

type Kind uint8

const (
	Tree   Kind = iota // Bounding volume hierarchy
	RTree              // R-tree, github.com/ctessum/geom in 1D and 2D, github.com/dhconnelly/rtreego in 3D
	Grid               // Uniform bucket grid
	Linear             // Scan of every box
)

func (k Kind) String() string {
	switch k {
	case Tree:
		return "tree"
	case RTree:
		return "rtree"
	case Grid:
		return "grid"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names produced by Kind.String, in any case
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "bvh":
		return Tree, nil
	case "rtree":
		return RTree, nil
	case "grid":
		return Grid, nil
	case "linear", "none":
		return Linear, nil
	}
	return 0, fmt.Errorf("spatial: unknown index kind %q", s)
}

// Config selects and tunes an index. The zero value is a usable default.
type Config struct {
	Kind Kind

	LeafSize int     // Tree: maximum boxes per leaf, default 8
	Padding  float64 // Relative growth of each box, as a fraction of its diagonal, default 1e-6

	RTreeMinChildren int // RTree: default 25
	RTreeMaxChildren int // RTree: default 50

	GridCellsPerAxis int // Grid: buckets per axis, 0 chooses from the box count
}

func (cfg Config) withDefaults() Config {
	if cfg.LeafSize <= 0 {
		cfg.LeafSize = 8
	}
	if cfg.Padding <= 0 {
		cfg.Padding = 1e-6
	}
	if cfg.RTreeMinChildren <= 0 {
		cfg.RTreeMinChildren = 25
	}
	if cfg.RTreeMaxChildren <= cfg.RTreeMinChildren {
		cfg.RTreeMaxChildren = 2 * cfg.RTreeMinChildren
	}
	return cfg
}

// Index answers point queries over a fixed set of boxes. Implementations are
// immutable after Build and safe for concurrent queries.
type Index interface {
	// Query appends to dst[:0] the ids of every box holding x, nearest box
	// centre first and ascending id among equal distances.
	Query(x []float64, dst []int) []int
	// Len returns the number of indexed boxes
	Len() int
	Kind() Kind
	// Bounds returns the union of the indexed, padded boxes
	Bounds() geometry.Box
}

// Build indexes boxes, identified by their position in the slice
func Build(boxes []geometry.Box, dim int, cfg Config) (Index, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("spatial: dimension %d not in [1, 3]", dim)
	}
	cfg = cfg.withDefaults()
	set := newBoxSet(boxes, dim, cfg.Padding)
	switch cfg.Kind {
	case Tree:
		return newBVH(set, cfg.LeafSize), nil
	case RTree:
		return newRTreeIndex(set, cfg.RTreeMinChildren, cfg.RTreeMaxChildren)
	case Grid:
		return newGrid(set, cfg.GridCellsPerAxis), nil
	case Linear:
		return &linear{boxSet: set}, nil
	}
	return nil, fmt.Errorf("spatial: unsupported index kind %v", cfg.Kind)
}

// boxSet is the data every backend shares: padded boxes and their centres
type boxSet struct {
	dim     int
	boxes   []geometry.Box
	centers []r3.Vec
	bounds  geometry.Box
}

func newBoxSet(boxes []geometry.Box, dim int, padding float64) *boxSet {
	set := &boxSet{
		dim:     dim,
		boxes:   make([]geometry.Box, len(boxes)),
		centers: make([]r3.Vec, len(boxes)),
		bounds:  geometry.EmptyBox(dim),
	}
	for i, b := range boxes {
		pad := padding * b.Diagonal()
		if pad == 0 {
			pad = padding
		}
		set.boxes[i] = b.Pad(pad)
		set.centers[i] = b.Center()
		set.bounds = set.bounds.Merge(set.boxes[i])
	}
	return set
}

func (s *boxSet) Len() int             { return len(s.boxes) }
func (s *boxSet) Bounds() geometry.Box { return s.bounds }

func (s *boxSet) point(x []float64) r3.Vec {
	if len(x) != s.dim {
		panic(fmt.Errorf("spatial: query point has %d components, index has dimension %d", len(x), s.dim))
	}
	return geometry.Vec(x)
}

// rank orders ids by distance from p to the box centres, then by id
func (s *boxSet) rank(p r3.Vec, ids []int) {
	if len(ids) < 2 {
		return
	}
	d2 := make([]float64, len(ids))
	for i, id := range ids {
		d2[i] = r3.Norm2(r3.Sub(p, s.centers[id]))
	}
	sort.Sort(byDistance{ids: ids, d2: d2})
}

type byDistance struct {
	ids []int
	d2  []float64
}

func (b byDistance) Len() int { return len(b.ids) }
func (b byDistance) Less(i, j int) bool {
	if b.d2[i] != b.d2[j] {
		return b.d2[i] < b.d2[j]
	}
	return b.ids[i] < b.ids[j]
}
func (b byDistance) Swap(i, j int) {
	b.ids[i], b.ids[j] = b.ids[j], b.ids[i]
	b.d2[i], b.d2[j] = b.d2[j], b.d2[i]
}
