package gonudg

// EquispacedNodes2D returns the (N+1)(N+2)/2 equispaced nodes of the reference
// triangle with vertices (-1,-1), (1,-1), (-1,1).
func EquispacedNodes2D(N int) (r, s []float64) {
	if N == 0 {
		return []float64{-1. / 3}, []float64{-1. / 3}
	}
	h := 2 / float64(N)
	for j := 0; j <= N; j++ {
		for i := 0; i <= N-j; i++ {
			r = append(r, -1+float64(i)*h)
			s = append(s, -1+float64(j)*h)
		}
	}
	return
}

// EquispacedNodes3D returns the (N+1)(N+2)(N+3)/6 equispaced nodes of the
// reference tetrahedron with vertices (-1,-1,-1), (1,-1,-1), (-1,1,-1), (-1,-1,1).
func EquispacedNodes3D(N int) (r, s, t []float64) {
	if N == 0 {
		return []float64{-0.5}, []float64{-0.5}, []float64{-0.5}
	}
	h := 2 / float64(N)
	for k := 0; k <= N; k++ {
		for j := 0; j <= N-k; j++ {
			for i := 0; i <= N-j-k; i++ {
				r = append(r, -1+float64(i)*h)
				s = append(s, -1+float64(j)*h)
				t = append(t, -1+float64(k)*h)
			}
		}
	}
	return
}
