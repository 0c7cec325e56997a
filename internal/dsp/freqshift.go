package dsp

import (
	"math"
	"math/cmplx"
)

// FreqShift multiplies y by exp(2πj·Δf·t) with t = n/Fs, mixing the signal
// by deltaHz.
func FreqShift(y []complex128, deltaHz, fs float64) []complex128 {
	out := make([]complex128, len(y))
	for n, v := range y {
		t := float64(n) / fs
		rot := cmplx.Exp(complex(0, 2*math.Pi*deltaHz*t))
		out[n] = v * rot
	}
	return out
}
