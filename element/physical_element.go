package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/DGProbe/geometry"
)

// InverseMapConfig tunes the Newton iteration of InverseMap
type InverseMapConfig struct {
	// Tolerance is the containment slack in reference space. The physical
	// residual must also fall below Tolerance times the cell diameter.
	Tolerance     float64 // Default 1e-10
	MaxIterations int     // Default 16
}

const fdStep = 1e-6

// InverseMap is a Predicate that inverts the coordinate map of a cell,
// X(ξ) = Σ φi(ξ) xi, by Newton iteration from the reference centroid. The
// coordinate nodes xi are those of the store's coordinate map and φ is the
// basis of the coordinate element.
type InverseMap struct {
	el       Element
	grad     Differentiable // nil when the Jacobian is approximated
	np, dim  int
	centroid []float64
	cfg      InverseMapConfig
}

func NewInverseMap(el Element, cfg InverseMapConfig) *InverseMap {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-10
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 16
	}
	props := el.Properties()
	m := &InverseMap{
		el:       el,
		np:       props.Np,
		dim:      int(props.Dimensions),
		centroid: el.Centroid(),
		cfg:      cfg,
	}
	if d, ok := el.(Differentiable); ok {
		m.grad = d
	}
	return m
}

// NodeCount returns the number of coordinate nodes per cell
func (m *InverseMap) NodeCount() int { return m.np }

func (m *InverseMap) Inside(g *geometry.Store, c geometry.Cell, x, ref []float64) bool {
	var buf [96]float64
	coords := g.CellCoords(c, buf[:0])
	return m.Solve(coords, x, ref)
}

// Solve finds ξ with X(ξ) = x for the cell whose node-major coordinates are
// coords. It reports false if the iteration fails to converge or ξ falls
// outside the reference cell, and otherwise writes ξ into ref.
func (m *InverseMap) Solve(coords, x, ref []float64) bool {
	d := m.dim
	if len(x) != d {
		panic(fmt.Errorf("element: point of dimension %d for a %d dimensional element", len(x), d))
	}
	if len(coords) != m.np*d {
		panic(fmt.Errorf("element: %d coordinate values for %d nodes of dimension %d", len(coords), m.np, d))
	}

	resTol := m.cfg.Tolerance*diameter(coords, d) + 1e-14*floats.Norm(coords, math.Inf(1))
	xi := append(make([]float64, 0, d), m.centroid...)
	var (
		phi     = make([]float64, m.np)
		dphi    = make([]float64, m.np*d)
		res     = make([]float64, d)
		jac     = mat.NewDense(d, d, nil)
		step    mat.VecDense
		rhs     = mat.NewVecDense(d, nil)
		scratch = make([]float64, m.np)
	)

	converged := false
	for it := 0; ; it++ {
		m.el.Basis(xi, phi)
		m.residual(coords, x, phi, res)
		if floats.Norm(res, 2) <= resTol {
			converged = true
			break
		}
		if it == m.cfg.MaxIterations {
			break
		}
		m.gradient(xi, dphi, scratch)
		for a := 0; a < d; a++ {
			for b := 0; b < d; b++ {
				var s float64
				for i := 0; i < m.np; i++ {
					s += coords[i*d+a] * dphi[i*d+b]
				}
				jac.Set(a, b, s)
			}
			rhs.SetVec(a, -res[a])
		}
		if err := step.SolveVec(jac, rhs); err != nil {
			return false
		}
		for b := 0; b < d; b++ {
			xi[b] += step.AtVec(b)
			if math.IsNaN(xi[b]) || math.Abs(xi[b]) > 1e6 {
				return false
			}
		}
	}
	if !converged || !m.el.Contains(xi, m.cfg.Tolerance) {
		return false
	}
	copy(ref, xi)
	return true
}

// residual writes X(ξ) - x, given the basis values phi at ξ
func (m *InverseMap) residual(coords, x, phi, res []float64) {
	d := m.dim
	for a := 0; a < d; a++ {
		res[a] = -x[a]
	}
	for i, p := range phi {
		for a := 0; a < d; a++ {
			res[a] += p * coords[i*d+a]
		}
	}
}

func (m *InverseMap) gradient(xi, dphi, scratch []float64) {
	if m.grad != nil {
		m.grad.Gradient(xi, dphi)
		return
	}
	d := m.dim
	shifted := append(make([]float64, 0, d), xi...)
	for b := 0; b < d; b++ {
		shifted[b] = xi[b] + fdStep
		m.el.Basis(shifted, scratch)
		for i := 0; i < m.np; i++ {
			dphi[i*d+b] = scratch[i]
		}
		shifted[b] = xi[b] - fdStep
		m.el.Basis(shifted, scratch)
		for i := 0; i < m.np; i++ {
			dphi[i*d+b] = (dphi[i*d+b] - scratch[i]) / (2 * fdStep)
		}
		shifted[b] = xi[b]
	}
}

// diameter returns the bounding box diagonal of node-major coordinates
func diameter(coords []float64, d int) float64 {
	b := geometry.EmptyBox(d)
	for i := 0; i+d <= len(coords); i += d {
		b.Extend(coords[i:i+d], d)
	}
	return b.Diagonal()
}
