package gonudg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vandermonde3D initializes the 3D Vandermonde Matrix V_{ij} = phi_j(r_i, s_i, t_i)
func Vandermonde3D(N int, r, s, t []float64) *mat.Dense {
	Ncol := (N + 1) * (N + 2) * (N + 3) / 6
	V3D := mat.NewDense(len(r), Ncol, nil)

	a, b, c := RSTtoABC(r, s, t)

	sk := 0
	for i := 0; i <= N; i++ {
		for j := 0; j <= N-i; j++ {
			for k := 0; k <= N-i-j; k++ {
				V3D.SetCol(sk, Simplex3DP(a, b, c, i, j, k))
				sk++
			}
		}
	}

	return V3D
}

// Simplex3DP evaluates the 3D orthonormal simplex polynomial of order
// (i,j,k) at collapsed coordinates (a,b,c)
func Simplex3DP(a, b, c []float64, i, j, k int) []float64 {
	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)
	h3 := JacobiP(c, float64(2*(i+j)+2), 0, k)

	P := make([]float64, len(a))
	for n := range P {
		P[n] = 2 * math.Sqrt2 * h1[n] * h2[n] * pow(1-b[n], i) * h3[n] * pow(1-c[n], i+j)
	}
	return P
}

// RSTtoABC maps tetrahedron coordinates (r,s,t) to the collapsed cube (a,b,c)
func RSTtoABC(r, s, t []float64) (a, b, c []float64) {
	Np := len(r)
	a = make([]float64, Np)
	b = make([]float64, Np)
	c = make([]float64, Np)

	for n := 0; n < Np; n++ {
		if math.Abs(s[n]+t[n]) > collapseTol {
			a[n] = 2*(1+r[n])/(-s[n]-t[n]) - 1
		} else {
			a[n] = -1
		}
		if math.Abs(1-t[n]) > collapseTol {
			b[n] = 2*(1+s[n])/(1-t[n]) - 1
		} else {
			b[n] = -1
		}
		c[n] = t[n]
	}
	return
}
