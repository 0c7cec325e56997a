package dsp

import "math/cmplx"

// Corr computes the full linear cross-correlation of x and y (y defaults
// to x for autocorrelation) and returns its upper half, zero-lag first —
// matching the reference receiver's "corr" helper.
func Corr(x, y []complex128) []complex128 {
	if y == nil {
		y = x
	}
	n, m := len(x), len(y)
	size := n + m - 1
	full := make([]complex128, size)
	for k := 0; k < size; k++ {
		var sum complex128
		for i := 0; i < n; i++ {
			j := i - k + m - 1
			if j >= 0 && j < m {
				sum += x[i] * cmplx.Conj(y[j])
			}
		}
		full[k] = sum
	}
	return full[size/2:]
}
