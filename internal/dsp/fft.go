// Package dsp provides the fixed-point-free DSP primitives shared by every
// stage of the demodulator: FFT/IFFT with the centered half-carrier
// rotation the demod numerology expects, correlation, frequency shifting,
// and linear-interpolation resampling.
package dsp

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTSize is the fixed transform length used by every OFDM profile.
const FFTSize = 1024

var (
	enginesMu sync.Mutex
	engines   = map[int]*fourier.CmplxFFT{}
)

func engineFor(n int) *fourier.CmplxFFT {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if e, ok := engines[n]; ok {
		return e
	}
	e := fourier.NewCmplxFFT(n)
	engines[n] = e
	return e
}

// FFT computes the length-n discrete Fourier transform of x, zero-padding
// or truncating the input to n samples first.
func FFT(x []complex128, n int) []complex128 {
	buf := make([]complex128, n)
	copy(buf, x)
	return engineFor(n).Coefficients(nil, buf)
}

// IFFT computes the length-n inverse discrete Fourier transform of x,
// normalized so that IFFT(FFT(x)) == x. gonum's CmplxFFT.Sequence is
// unnormalized (it scales by n), so the result is divided by n here.
func IFFT(x []complex128, n int) []complex128 {
	buf := make([]complex128, n)
	copy(buf, x)
	out := engineFor(n).Sequence(nil, buf)
	scale := complex(1/float64(n), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// CenteredFFT (tfft) computes the FFTSize-point FFT of sy and returns the
// nCarriers bins centered on DC: the negative-frequency half followed by
// the positive-frequency half, per the demod numerology.
func CenteredFFT(sy []complex128, nCarriers int) []complex128 {
	full := FFT(sy, FFTSize)
	half := nCarriers / 2
	out := make([]complex128, nCarriers)
	copy(out, full[FFTSize-half:])
	copy(out[half:], full[:nCarriers-half])
	return out
}

// CenteredIFFT (itfft) is the inverse of CenteredFFT: it places a centered
// spectrum of length len(c) into an FFTSize buffer at the mirrored
// positions and returns the time-domain IFFT.
func CenteredIFFT(c []complex128) []complex128 {
	nCarriers := len(c)
	half := nCarriers / 2
	full := make([]complex128, FFTSize)
	copy(full[FFTSize-half:], c[:half])
	copy(full[:nCarriers-half], c[half:])
	return IFFT(full, FFTSize)
}
