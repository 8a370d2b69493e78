package gonudg

import (
	"math"
)

// JacobiP evaluates the orthonormal Jacobi polynomial of type (alpha,beta)
// and order n at points x
func JacobiP(x []float64, alpha, beta float64, n int) []float64 {
	Np := len(x)
	P := make([]float64, Np)

	// Initial values P_0(x) and P_1(x)
	g0 := 1.0 / math.Sqrt(Gamma0(alpha, beta))
	for i := range P {
		P[i] = g0
	}
	if n == 0 {
		return P
	}

	Pold := make([]float64, Np)
	copy(Pold, P)
	g1 := math.Sqrt(Gamma1(alpha, beta))
	for i := range P {
		P[i] = ((alpha+beta+2)*x[i]/2 + (alpha-beta)/2) / g1
	}
	if n == 1 {
		return P
	}

	// Three term recurrence P_{i+1} = ((x - b_i) P_i - a_i P_{i-1}) / a_{i+1}
	aold := 2.0 / (2.0 + alpha + beta) * math.Sqrt((alpha+1)*(beta+1)/(alpha+beta+3))
	for i := 1; i < n; i++ {
		fi := float64(i)
		h1 := 2*fi + alpha + beta
		anew := 2.0 / (h1 + 2) * math.Sqrt((fi+1)*(fi+1+alpha+beta)*
			(fi+1+alpha)*(fi+1+beta)/(h1+1)/(h1+3))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2)

		for j := range P {
			next := ((x[j]-bnew)*P[j] - aold*Pold[j]) / anew
			Pold[j] = P[j]
			P[j] = next
		}
		aold = anew
	}
	return P
}

// JacobiPSingle evaluates Jacobi polynomial at a single point
func JacobiPSingle(x, alpha, beta float64, n int) float64 {
	return JacobiP([]float64{x}, alpha, beta, n)[0]
}

// GradJacobiP evaluates the derivative of the Jacobi polynomial of type (alpha,beta) at points x for order n
func GradJacobiP(x []float64, alpha, beta float64, n int) []float64 {
	Np := len(x)
	dP := make([]float64, Np)

	if n == 0 {
		// Derivative of constant is zero
		return dP
	}

	// Use the derivative formula: d/dx P_n^(a,b)(x) = sqrt(n(n+a+b+1)) * P_{n-1}^(a+1,b+1)(x)
	Ptemp := JacobiP(x, alpha+1, beta+1, n-1)
	for i := range dP {
		dP[i] = math.Sqrt(float64(n)*(float64(n)+alpha+beta+1)) * Ptemp[i]
	}

	return dP
}
