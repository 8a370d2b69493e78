package gonudg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vandermonde1D initializes the 1D Vandermonde matrix V_{ij} = P_j(r_i)
func Vandermonde1D(N int, R []float64) *mat.Dense {
	V1D := mat.NewDense(len(R), N+1, nil)
	for j := 0; j <= N; j++ {
		V1D.SetCol(j, JacobiP(R, 0, 0, j))
	}
	return V1D
}

// Vandermonde2D initializes the 2D Vandermonde matrix V_{ij} = phi_j(r_i, s_i)
// for the orthonormal simplex basis of order N
func Vandermonde2D(N int, R, S []float64) *mat.Dense {
	Np := (N + 1) * (N + 2) / 2
	V2D := mat.NewDense(len(R), Np, nil)

	sk := 0
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			V2D.SetCol(sk, Simplex2DP(R, S, i, j))
			sk++
		}
	}
	return V2D
}

// Simplex2DP evaluates 2D orthonormal polynomial on simplex at (R,
// S) of order (i,j)
func Simplex2DP(R, S []float64, i, j int) []float64 {
	a, b := RStoAB(R, S)

	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)

	P := make([]float64, len(R))
	for ii := range h1 {
		P[ii] = math.Sqrt2 * h1[ii] * h2[ii] * pow(1-b[ii], i)
	}
	return P
}

// RStoAB converts from (r,s) to the collapsed (a,b) coordinates
func RStoAB(R, S []float64) (a, b []float64) {
	Np := len(R)
	a = make([]float64, Np)
	b = make([]float64, Np)

	for n := 0; n < Np; n++ {
		if math.Abs(1-S[n]) > collapseTol {
			a[n] = 2*(1+R[n])/(1-S[n]) - 1
		} else {
			a[n] = -1
		}
		b[n] = S[n]
	}
	return
}

const collapseTol = 1e-12

// pow computes x^n for integer n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
