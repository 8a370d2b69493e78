package spatial

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/dhconnelly/rtreego"
)

// rtreeIndex keeps the boxes of a 1D or 2D mesh in a ctessum/geom R-tree
type rtreeIndex struct {
	*boxSet
	tree *rtree.Rtree
}

type rtreeItem struct {
	geom.Polygonal
	id int
}

func newRTreeIndex(set *boxSet, minChildren, maxChildren int) (Index, error) {
	if set.dim == 3 {
		return newVolumeRTree(set, minChildren, maxChildren)
	}
	t := &rtreeIndex{boxSet: set, tree: rtree.NewTree(minChildren, maxChildren)}
	for id, b := range set.boxes {
		t.tree.Insert(&rtreeItem{
			Polygonal: &geom.Bounds{
				Min: geom.Point{X: b.Min.X, Y: b.Min.Y},
				Max: geom.Point{X: b.Max.X, Y: b.Max.Y},
			},
			id: id,
		})
	}
	return t, nil
}

func (t *rtreeIndex) Kind() Kind { return RTree }

func (t *rtreeIndex) Query(x []float64, dst []int) []int {
	dst = dst[:0]
	p := t.point(x)
	if t.Len() == 0 {
		return dst
	}
	pt := geom.Point{X: p.X, Y: p.Y}
	for _, g := range t.tree.SearchIntersect(&geom.Bounds{Min: pt, Max: pt}) {
		item := g.(*rtreeItem)
		if t.boxes[item.id].Holds(p) {
			dst = append(dst, item.id)
		}
	}
	t.rank(p, dst)
	return dst
}

// volumeRTree keeps the boxes of a 3D mesh in an n-dimensional rtreego tree
type volumeRTree struct {
	*boxSet
	tree *rtreego.Rtree
}

type volumeItem struct {
	rect rtreego.Rect
	id   int
}

func (v *volumeItem) Bounds() rtreego.Rect { return v.rect }

func newVolumeRTree(set *boxSet, minChildren, maxChildren int) (*volumeRTree, error) {
	t := &volumeRTree{boxSet: set, tree: rtreego.NewTree(3, minChildren, maxChildren)}
	for id, b := range set.boxes {
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z},
			rtreego.Point{b.Max.X, b.Max.Y, b.Max.Z})
		if err != nil {
			return nil, fmt.Errorf("spatial: box %d: %w", id, err)
		}
		t.tree.Insert(&volumeItem{rect: rect, id: id})
	}
	return t, nil
}

func (t *volumeRTree) Kind() Kind { return RTree }

func (t *volumeRTree) Query(x []float64, dst []int) []int {
	dst = dst[:0]
	p := t.point(x)
	if t.Len() == 0 {
		return dst
	}
	query := rtreego.Point{p.X, p.Y, p.Z}.ToRect(1e-12 * (1 + t.bounds.Diagonal()))
	for _, s := range t.tree.SearchIntersect(query) {
		item := s.(*volumeItem)
		if t.boxes[item.id].Holds(p) {
			dst = append(dst, item.id)
		}
	}
	t.rank(p, dst)
	return dst
}
