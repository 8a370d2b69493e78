package spatial

import (
	"math"

	"github.com/notargets/DGProbe/geometry"
)

// grid buckets boxes into a uniform lattice over their union. A box is listed
// in every bucket it overlaps, so a query only scans the bucket of the point.
type grid struct {
	*boxSet
	n       [3]int     // Buckets per axis, 1 on unused axes
	origin  [3]float64 // Lower corner of the lattice
	size    [3]float64 // Bucket extent per axis
	buckets [][]int
}

func newGrid(set *boxSet, perAxis int) *grid {
	g := &grid{boxSet: set, n: [3]int{1, 1, 1}}
	if set.Len() == 0 {
		return g
	}
	if perAxis <= 0 {
		perAxis = int(math.Ceil(math.Pow(float64(set.Len()), 1/float64(set.dim))))
	}
	for d := 0; d < set.dim; d++ {
		lo := geometry.Axis(set.bounds.Min, d)
		hi := geometry.Axis(set.bounds.Max, d)
		g.origin[d] = lo
		g.n[d] = perAxis
		g.size[d] = (hi - lo) / float64(perAxis)
		if g.size[d] <= 0 {
			g.n[d], g.size[d] = 1, 1
		}
	}
	g.buckets = make([][]int, g.n[0]*g.n[1]*g.n[2])
	for id, b := range set.boxes {
		var lo, hi [3]int
		for d := 0; d < set.dim; d++ {
			lo[d] = g.cell(d, geometry.Axis(b.Min, d))
			hi[d] = g.cell(d, geometry.Axis(b.Max, d))
		}
		for k := lo[2]; k <= hi[2]; k++ {
			for j := lo[1]; j <= hi[1]; j++ {
				for i := lo[0]; i <= hi[0]; i++ {
					bk := g.bucket(i, j, k)
					g.buckets[bk] = append(g.buckets[bk], id)
				}
			}
		}
	}
	return g
}

// cell returns the clamped bucket coordinate of v along axis d
func (g *grid) cell(d int, v float64) int {
	c := int(math.Floor((v - g.origin[d]) / g.size[d]))
	if c < 0 {
		return 0
	}
	if c >= g.n[d] {
		return g.n[d] - 1
	}
	return c
}

func (g *grid) bucket(i, j, k int) int {
	return (k*g.n[1]+j)*g.n[0] + i
}

func (g *grid) Kind() Kind { return Grid }

func (g *grid) Query(x []float64, dst []int) []int {
	dst = dst[:0]
	p := g.point(x)
	if g.Len() == 0 || !g.bounds.Holds(p) {
		return dst
	}
	var c [3]int
	for d := 0; d < g.dim; d++ {
		c[d] = g.cell(d, x[d])
	}
	for _, id := range g.buckets[g.bucket(c[0], c[1], c[2])] {
		if g.boxes[id].Holds(p) {
			dst = append(dst, id)
		}
	}
	g.rank(p, dst)
	return dst
}
