package spatial

import (
	"github.com/notargets/DGProbe/geometry"
)

// bvh is a bounding volume hierarchy over the box set. Interior nodes split
// their boxes at the median centre along the widest axis of the centres.
type bvh struct {
	*boxSet
	order []int // Box ids, each leaf owns a contiguous run
	nodes []bvhNode
}

type bvhNode struct {
	box         geometry.Box
	left, right int // Child node indices, -1 for a leaf
	start, end  int // Run of order held by a leaf
}

func newBVH(set *boxSet, leafSize int) *bvh {
	t := &bvh{boxSet: set, order: make([]int, set.Len())}
	for i := range t.order {
		t.order[i] = i
	}
	if set.Len() > 0 {
		t.nodes = make([]bvhNode, 0, 2*set.Len()/leafSize+1)
		t.build(0, set.Len(), leafSize)
	}
	return t
}

func (t *bvh) build(start, end, leafSize int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, bvhNode{left: -1, right: -1, start: start, end: end})
	box := geometry.EmptyBox(t.dim)
	for _, b := range t.order[start:end] {
		box = box.Merge(t.boxes[b])
	}
	t.nodes[id].box = box
	if end-start <= leafSize {
		return id
	}

	axis := t.widestAxis(start, end)
	mid := (start + end) / 2
	t.selectNth(start, end, mid, axis)
	left := t.build(start, mid, leafSize)
	right := t.build(mid, end, leafSize)
	t.nodes[id].left, t.nodes[id].right = left, right
	return id
}

func (t *bvh) widestAxis(start, end int) (axis int) {
	c := geometry.EmptyBox(t.dim)
	for _, b := range t.order[start:end] {
		p := t.centers[b]
		c.Extend([]float64{p.X, p.Y, p.Z}, t.dim)
	}
	widest := -1.
	for d := 0; d < t.dim; d++ {
		if w := geometry.Axis(c.Max, d) - geometry.Axis(c.Min, d); w > widest {
			widest, axis = w, d
		}
	}
	return
}

func (t *bvh) key(i, axis int) float64 {
	return geometry.Axis(t.centers[t.order[i]], axis)
}

// selectNth partially orders order[start:end] so that position n holds the
// box it would hold if sorted by centre along axis, with no larger keys before
// it and no smaller keys after it.
func (t *bvh) selectNth(start, end, n, axis int) {
	lo, hi := start, end-1
	for lo < hi {
		pivot := t.key((lo+hi)/2, axis)
		i, j := lo, hi
		for i <= j {
			for t.key(i, axis) < pivot {
				i++
			}
			for t.key(j, axis) > pivot {
				j--
			}
			if i <= j {
				t.order[i], t.order[j] = t.order[j], t.order[i]
				i++
				j--
			}
		}
		switch {
		case n <= j:
			hi = j
		case n >= i:
			lo = i
		default:
			return
		}
	}
}

func (t *bvh) Kind() Kind { return Tree }

func (t *bvh) Query(x []float64, dst []int) []int {
	dst = dst[:0]
	p := t.point(x)
	if len(t.nodes) == 0 {
		return dst
	}
	var stackBuf [64]int
	stack := append(stackBuf[:0], 0)
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !n.box.Holds(p) {
			continue
		}
		if n.left < 0 {
			for _, b := range t.order[n.start:n.end] {
				if t.boxes[b].Holds(p) {
					dst = append(dst, b)
				}
			}
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	t.rank(p, dst)
	return dst
}
