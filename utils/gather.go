package utils

import "fmt"

// Gather picks the stride-wide records named by indices out of src and places
// them contiguously in dst, growing dst as needed. Record i of the result is
// src[indices[i]*stride : indices[i]*stride+stride].
func Gather(dst, src []float64, indices []int, stride int) []float64 {
	n := len(indices) * stride
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i, idx := range indices {
		copy(dst[i*stride:(i+1)*stride], src[idx*stride:(idx+1)*stride])
	}
	return dst
}

// CheckIndices verifies that every index addresses a whole stride-wide record
// in an array of length size.
func CheckIndices(indices []int, stride, size int) error {
	if stride <= 0 {
		return fmt.Errorf("invalid stride %d", stride)
	}
	records := size / stride
	for i, idx := range indices {
		if idx < 0 || idx >= records {
			return fmt.Errorf("index %d at position %d out of range [0, %d)", idx, i, records)
		}
	}
	return nil
}
