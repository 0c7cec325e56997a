// Package packetizer locates packet-shaped energy bursts in a wideband
// raw capture by STFT envelope thresholding and duration-constrained peak
// detection.
package packetizer

import (
	"math/cmplx"

	"github.com/rubsyssec/droneid-demod/internal/dsp"
	"github.com/rubsyssec/droneid-demod/internal/profile"
	"github.com/rubsyssec/droneid-demod/internal/spectrum"
)

// stftWindow is the non-overlapping STFT slice length used to build the
// energy envelope.
const stftWindow = 64

// guardBand is the ±3·15µs extraction margin applied on both sides of a
// detected burst.
const guardBand = 3 * 15e-6

// Candidate is a raw packet window plus its estimated center-frequency
// offset, ready for tuning and resampling.
type Candidate struct {
	Samples  []complex128
	OffsetHz float64
}

// Find locates candidate packet windows in raw matching det's duration
// and bandwidth expectations. It returns the candidates in packetizer
// order and the offset of the last accepted candidate.
func Find(raw []complex128, fs float64, det profile.Detection) ([]Candidate, float64) {
	env, noiseFloor := envelope(raw)
	dt := float64(stftWindow) / fs

	minSlices := int(det.MinDuration.Seconds() / dt)
	maxSlices := int(det.MaxDuration.Seconds() / dt)

	above := make([]bool, len(env))
	for i, v := range env {
		above[i] = v > 1.15*noiseFloor
	}

	var candidates []Candidate
	var lastOffset float64
	for _, run := range dsp.RunsOf(above) {
		width := run[1] - run[0] + 1
		if width < minSlices || width > maxSlices {
			continue
		}

		startT := float64(run[0])*dt - guardBand
		endT := float64(run[1]+1)*dt + guardBand
		startSample := int(startT * fs)
		endSample := int(endT * fs)
		if startSample < 0 {
			startSample = 0
		}
		if endSample > len(raw) {
			endSample = len(raw)
		}
		if startSample >= endSample {
			continue
		}

		window := raw[startSample:endSample]
		offsetHz, ok := spectrum.EstimateOffset(window, fs, det.BandwidthMin, det.BandwidthMax)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{
			Samples:  append([]complex128(nil), window...),
			OffsetHz: offsetHz,
		})
		lastOffset = offsetHz
	}
	return candidates, lastOffset
}

// envelope computes the non-overlapping 64-sample STFT energy envelope of
// raw (max magnitude per slice across frequency bins) and the overall
// noise floor (mean magnitude across every bin of every slice).
func envelope(raw []complex128) (env []float64, noiseFloor float64) {
	slices := len(raw) / stftWindow
	env = make([]float64, slices)

	var sumAbs float64
	var count int
	for t := 0; t < slices; t++ {
		seg := raw[t*stftWindow : (t+1)*stftWindow]
		spec := dsp.FFT(seg, stftWindow)
		maxMag := 0.0
		for _, c := range spec {
			m := cmplx.Abs(c)
			sumAbs += m
			count++
			if m > maxMag {
				maxMag = m
			}
		}
		env[t] = maxMag
	}
	if count > 0 {
		noiseFloor = sumAbs / float64(count)
	}
	return env, noiseFloor
}
