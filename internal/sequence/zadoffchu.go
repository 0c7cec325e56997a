// Package sequence generates the two pseudo-random sequence families the
// demodulator relies on: Zadoff-Chu pilots for synchronization and channel
// estimation, and the Gold sequence used to descramble the payload.
package sequence

import (
	"math"
	"math/cmplx"

	"github.com/rubsyssec/droneid-demod/internal/dsp"
)

// ZCTime generates the time-domain Zadoff-Chu sequence of root u and
// length L: z_u[n] = exp(-jπ u n (n+1) / L). The cyclic shift q is
// accepted for interface parity with the reference receiver but unused —
// the shift search it would support is dead code upstream.
func ZCTime(u, length int, q int) []complex128 {
	_ = q
	out := make([]complex128, length)
	for n := 0; n < length; n++ {
		phase := -math.Pi * float64(u) * float64(n) * float64(n+1) / float64(length)
		out[n] = cmplx.Exp(complex(0, phase))
	}
	return out
}

// ZCFreq returns the frequency-domain Zadoff-Chu sequence of root u over
// nCarriers bins: the time-domain sequence through the centered FFT, with
// the DC bin zeroed.
func ZCFreq(u, nCarriers int) []complex128 {
	zt := ZCTime(u, nCarriers, 0)
	zf := dsp.CenteredFFT(zt, nCarriers)
	zf[nCarriers/2] = 0
	return zf
}
