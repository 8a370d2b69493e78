package utils

import "math"

// StridedMinMax returns the range of component comp across the stride-wide
// records of s. An empty slice yields (0, 0).
func StridedMinMax(s []float64, stride, comp int) (min, max float64) {
	if len(s) < stride || stride <= 0 {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for i := comp; i < len(s); i += stride {
		if s[i] < min {
			min = s[i]
		}
		if s[i] > max {
			max = s[i]
		}
	}
	return min, max
}

// AllFinite reports whether s holds no NaN or infinite values
func AllFinite(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
