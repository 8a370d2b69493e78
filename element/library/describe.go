package library

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/DGProbe/element"
)

// MassMatrix returns the reference mass matrix M = (V Vᵀ)⁻¹ of the nodal basis
func (e *Nudg) MassMatrix() (*mat.Dense, error) {
	var VVt, M mat.Dense
	VVt.Mul(e.V, e.V.T())
	if err := M.Inverse(&VVt); err != nil {
		return nil, fmt.Errorf("library: mass matrix of %s: %w", e.props.ShortName, err)
	}
	return &M, nil
}

// Describe returns a summary of a reference element's properties
func Describe(el element.Element) string {
	var sb strings.Builder

	props := el.Properties()
	sb.WriteString("--- Reference Element Properties ---\n")
	sb.WriteString(fmt.Sprintf("  Name: %s (%s)\n", props.Name, props.ShortName))
	sb.WriteString(fmt.Sprintf("  Type: %v\n", props.Type))
	sb.WriteString(fmt.Sprintf("  Order: %d\n", props.Order))
	sb.WriteString(fmt.Sprintf("  Nodes per element (Np): %d\n", props.Np))
	sb.WriteString(fmt.Sprintf("  Vertices per element (NVp): %d\n", props.NVp))
	sb.WriteString(fmt.Sprintf("  Dimensions: %d\n", props.Dimensions))

	refGeom := el.ReferenceGeometry()
	for _, c := range []struct {
		name string
		x    []float64
	}{{"R", refGeom.R}, {"S", refGeom.S}, {"T", refGeom.T}} {
		if len(c.x) > 0 {
			sb.WriteString(fmt.Sprintf("  %s range: [%.4f, %.4f]\n", c.name,
				floats.Min(c.x), floats.Max(c.x)))
		}
	}

	if e, ok := el.(*Nudg); ok {
		r, c := e.V.Dims()
		sb.WriteString(fmt.Sprintf("  Vandermonde matrix V: %d×%d\n", r, c))
		if M, err := e.MassMatrix(); err == nil {
			sb.WriteString(fmt.Sprintf("  Mass matrix range: [%.4e, %.4e]\n", mat.Min(M), mat.Max(M)))
		}
	}
	if _, ok := el.(element.Differentiable); ok {
		sb.WriteString("  Analytic gradients: yes\n")
	}
	return sb.String()
}
