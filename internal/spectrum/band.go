// Package spectrum estimates the occupied band of a candidate packet
// window via Welch's method, used both to verify packetizer candidates
// and to find the center-frequency offset to mix out before demodulation.
package spectrum

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/rubsyssec/droneid-demod/internal/dsp"
)

// WelchFFTSize is the two-sided FFT length Welch's method zero-pads each
// segment to.
const WelchFFTSize = 2048

const welchSegment = 256

// EstimateOffset finds the center-frequency offset of a candidate window
// via Welch PSD: compute the two-sided spectrum, mark bins above the mean
// as occupied, and accept the first contiguous run whose bandwidth falls
// within [bwMin, bwMax]. ok is false when the window is shorter than the
// FFT size or no run matches.
func EstimateOffset(y []complex128, fs, bwMin, bwMax float64) (offsetHz float64, ok bool) {
	if len(y) < WelchFFTSize {
		return 0, false
	}

	psd := welchPSD(y, WelchFFTSize)
	psd = fftShift(psd)

	mean := stat.Mean(psd, nil)
	center := len(psd) / 2
	for i := center - 10; i < center+10 && i >= 0 && i < len(psd); i++ {
		psd[i] = 1.1 * mean
	}

	occupied := make([]bool, len(psd))
	for i, v := range psd {
		occupied[i] = v > mean
	}

	binHz := fs / float64(WelchFFTSize)
	for _, run := range dsp.RunsOf(occupied) {
		start, end := run[0], run[1]
		freqStart := (float64(start) - float64(WelchFFTSize)/2) * binHz
		freqEnd := (float64(end) - float64(WelchFFTSize)/2) * binHz
		bw := freqEnd - freqStart
		if bw >= bwMin && bw <= bwMax {
			// Offset centers the run at DC when re-mixed by -offset.
			return (freqStart + freqEnd) / 2, true
		}
	}
	return 0, false
}

// welchPSD estimates the two-sided power spectral density of x using
// Hann-windowed, 50%-overlapped segments zero-padded to nfft and averaged.
func welchPSD(x []complex128, nfft int) []float64 {
	coef := make([]float64, welchSegment)
	for i := range coef {
		coef[i] = 1
	}
	win := window.Hann(coef)

	var winPower float64
	for _, w := range win {
		winPower += w * w
	}

	sum := make([]float64, nfft)
	segments := 0
	hop := welchSegment / 2
	for start := 0; start+welchSegment <= len(x); start += hop {
		seg := make([]complex128, nfft)
		for i := 0; i < welchSegment; i++ {
			seg[i] = x[start+i] * complex(win[i], 0)
		}
		spec := dsp.FFT(seg, nfft)
		for i, c := range spec {
			sum[i] += cmplx.Abs(c) * cmplx.Abs(c)
		}
		segments++
	}
	if segments == 0 {
		segments = 1
	}
	scale := 1.0 / (winPower * float64(segments))
	for i := range sum {
		sum[i] *= scale
	}
	return sum
}

// fftShift swaps the two halves of a spectrum so that DC lands in the
// middle of the returned slice.
func fftShift(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	half := n / 2
	copy(out, x[half:])
	copy(out[n-half:], x[:half])
	return out
}
