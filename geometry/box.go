package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned bounding box. Boxes of 1D and 2D meshes keep the
// unused axes at zero so that they can share the 3D machinery.
type Box struct {
	r3.Box
}

// EmptyBox returns a box that contains nothing and grows with Extend. Only the
// first dim axes are opened.
func EmptyBox(dim int) (b Box) {
	for d := 0; d < dim; d++ {
		setAxis(&b.Min, d, math.Inf(1))
		setAxis(&b.Max, d, math.Inf(-1))
	}
	return
}

// Vec converts a point of up to three components into an r3.Vec, zero
// filling the missing axes.
func Vec(x []float64) (v r3.Vec) {
	for d := 0; d < len(x) && d < 3; d++ {
		setAxis(&v, d, x[d])
	}
	return
}

// Axis returns component d of v
func Axis(v r3.Vec, d int) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setAxis(v *r3.Vec, d int, val float64) {
	switch d {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}

// Extend grows b to include the first dim components of x
func (b *Box) Extend(x []float64, dim int) {
	for d := 0; d < dim; d++ {
		if x[d] < Axis(b.Min, d) {
			setAxis(&b.Min, d, x[d])
		}
		if x[d] > Axis(b.Max, d) {
			setAxis(&b.Max, d, x[d])
		}
	}
}

// Merge returns the smallest box enclosing both b and o
func (b Box) Merge(o Box) Box {
	return Box{r3.Box{
		Min: r3.Vec{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}}
}

// Pad grows the box by pad in every direction
func (b Box) Pad(pad float64) Box {
	p := r3.Vec{X: pad, Y: pad, Z: pad}
	return Box{r3.Box{Min: r3.Sub(b.Min, p), Max: r3.Add(b.Max, p)}}
}

// Center returns the midpoint of the box
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Diagonal returns the length of the box diagonal
func (b Box) Diagonal() float64 {
	return r3.Norm(r3.Sub(b.Max, b.Min))
}

// Holds reports whether v lies in the closed box
func (b Box) Holds(v r3.Vec) bool {
	return b.Min.X <= v.X && v.X <= b.Max.X &&
		b.Min.Y <= v.Y && v.Y <= b.Max.Y &&
		b.Min.Z <= v.Z && v.Z <= b.Max.Z
}

// IsEmpty reports whether the box was never extended
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}
