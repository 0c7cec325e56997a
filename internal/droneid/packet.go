// Package droneid implements the frame demodulator (C6) and bit
// extractor (C7): from a tuned, resampled candidate window it recovers
// symbol timing, frequency and phase corrections, the channel estimate,
// and finally the descrambled systematic bit stream.
package droneid

import (
	"math"
	"math/cmplx"

	"github.com/rubsyssec/droneid-demod/internal/dsp"
	"github.com/rubsyssec/droneid-demod/internal/profile"
	"github.com/rubsyssec/droneid-demod/internal/sequence"
)

// Options controls optional behavior of NewPacket.
type Options struct {
	// EnableZCDetection runs the brute-force ZC root search (stage 3).
	// When false, the roots are assumed to be (600, 147).
	EnableZCDetection bool
}

// Diagnostics is the structured, plot-free diagnostic object returned
// alongside every decode attempt: the per-stage intermediate values an
// external visualizer would consume.
type Diagnostics struct {
	Start                int
	FFO                  float64
	SamplingOffset       float64
	CarrierPhase         float64
	ZCRoots              [2]int
	ChannelEstimate      []complex128
	CPAutocorrMagnitude  []float64
}

// Packet is a single frame demodulation attempt. It exists only for the
// lifetime of one decode and carries every correction parameter the
// pipeline (C8) might want to log on failure.
type Packet struct {
	Profile profile.Demod
	Fs      float64

	samples []complex128 // normalized, full candidate window
	start   int

	ffo            float64
	samplingOffset float64
	carrierPhase   float64

	channel     []complex128
	symbolsFreq [][]complex128
	zcRoots     [2]int

	state State
	Diag  *Diagnostics
}

// NewPacket runs the full C6 pipeline against raw (already tuned to DC and
// resampled to prof.DemodRate) and returns a Packet positioned at
// StateReady, or an error (typically *DetectionFailureError or
// *ZCMismatchError) with the Packet left at StateFailed.
func NewPacket(raw []complex128, fs float64, prof profile.Demod, opts Options) (*Packet, error) {
	p := &Packet{Profile: prof, Fs: fs, state: StateInit, samples: normalize(raw)}
	p.Diag = &Diagnostics{}

	p.state = StateCoarseSync
	start, ffo, mags, err := p.findFineStart()
	if err != nil {
		p.state = StateFailed
		return nil, err
	}
	p.start = start
	p.ffo = ffo
	p.Diag.Start, p.Diag.FFO, p.Diag.CPAutocorrMagnitude = start, ffo, mags
	p.state = StateFFOEst

	p.state = StateExtract1
	_, symbolsFreq := p.rawToSymbols(p.start, &p.ffo, nil, nil)
	p.symbolsFreq = symbolsFreq

	p.state = StateZCSearch
	var zc1, zc2 int
	if opts.EnableZCDetection {
		zc1 = p.findZCSeq(symbolsFreq[prof.ZCSymbolIdx[0]])
		zc2 = p.findZCSeq(symbolsFreq[prof.ZCSymbolIdx[1]])
	} else {
		zc1, zc2 = 600, 147
	}
	if (prof.Name == profile.DroneID || prof.Name == profile.DroneIDLegacy) && zc2 != 147 {
		p.state = StateFailed
		return nil, &ZCMismatchError{Expected: 147, Got: zc2}
	}
	p.zcRoots = [2]int{zc1, zc2}
	p.Diag.ZCRoots = p.zcRoots

	p.state = StateChannelEst
	ch1 := p.estimateChannel(prof.ZCSymbolIdx[0], zc1)
	ch2 := p.estimateChannel(prof.ZCSymbolIdx[1], zc2)
	channel := make([]complex128, prof.NCarriers)
	for i := range channel {
		channel[i] = (ch1[i] + ch2[i]) * 0.5
	}
	p.channel = channel
	p.Diag.ChannelEstimate = channel

	p.state = StateOffsetSweep
	// The sampling-offset sweep always references ZC root 600 on the
	// first ZC symbol, regardless of what stage 3 found — this mirrors
	// the reference receiver exactly (see SPEC_FULL.md open question #2).
	p.samplingOffset = p.findZCOffset(prof.ZCSymbolIdx[0], 600)
	p.Diag.SamplingOffset = p.samplingOffset

	p.state = StateExtract2
	_, symbolsFreq2 := p.rawToSymbols(p.start, &p.ffo, &p.samplingOffset, nil)

	p.state = StatePhaseEst
	p.carrierPhase = findZCAngle(symbolsFreq2[prof.ZCSymbolIdx[0]], prof.DC())
	p.Diag.CarrierPhase = p.carrierPhase

	p.state = StateExtract3
	_, symbolsFreq3 := p.rawToSymbols(p.start, &p.ffo, &p.samplingOffset, &p.carrierPhase)
	p.symbolsFreq = symbolsFreq3

	p.state = StateEqualize
	p.state = StateReady
	return p, nil
}

// Equalized returns the frequency-domain symbols divided by the channel
// estimate, excluding the two ZC-bearing symbols.
func (p *Packet) Equalized() [][]complex128 {
	var out [][]complex128
	for i, sym := range p.symbolsFreq {
		if i == p.Profile.ZCSymbolIdx[0] || i == p.Profile.ZCSymbolIdx[1] {
			continue
		}
		eq := make([]complex128, len(sym))
		for k := range sym {
			ch := p.channel[k]
			if cmplx.Abs(ch) < 1e-10 {
				eq[k] = 0
				continue
			}
			eq[k] = sym[k] / ch
		}
		out = append(out, eq)
	}
	return out
}

// State returns the demodulator's current pipeline state.
func (p *Packet) State() State { return p.state }

func normalize(x []complex128) []complex128 {
	peak := 0.0
	for _, v := range x {
		if m := cmplx.Abs(v); m > peak {
			peak = m
		}
	}
	if peak == 0 {
		peak = 1
	}
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v / complex(peak, 0)
	}
	return out
}

// findFineStart is stage 1: CP-autocorrelation timing and fractional
// frequency offset estimation.
func (p *Packet) findFineStart() (start int, ffo float64, mags []float64, err error) {
	cpl := p.Profile.CPPattern[0]
	n := dsp.FFTSize
	s := p.samples

	if len(s) < n+cpl {
		return 0, 0, nil, &DetectionFailureError{Reason: "capture shorter than one FFT window"}
	}

	rvals := make([]complex128, 0, len(s)-n-cpl)
	for idx := n; idx < len(s)-cpl; idx++ {
		var sum complex128
		for k := 0; k < cpl; k++ {
			sum += s[idx+k] * cmplx.Conj(s[idx-n+k])
		}
		rvals = append(rvals, sum)
	}

	mags = make([]float64, len(rvals))
	for i, v := range rvals {
		mags[i] = cmplx.Abs(v)
	}

	peaks := dsp.FindPeaks(mags, 1000)
	prominences := dsp.PeakProminences(mags, peaks)

	chosen := -1
	for i, prom := range prominences {
		if prom > 1.0 {
			chosen = peaks[i]
			break
		}
	}
	if chosen < 0 {
		return 0, 0, mags, &DetectionFailureError{Reason: "no CP-autocorrelation peak with sufficient prominence"}
	}

	ffo = p.Fs / (2 * math.Pi * float64(n)) * cmplx.Phase(rvals[chosen])
	return chosen, ffo, mags, nil
}

// rawToSymbols is stage 2 (and re-run for stages 5/6): from firstOffset,
// optionally frequency-shift by ffo, apply a fractional sampling offset,
// and/or rotate by a carrier phase, then split into CP-stripped,
// tfft'd symbols per the profile's CP pattern.
func (p *Packet) rawToSymbols(firstOffset int, ffo, samplingOffset, phase *float64) (time [][]complex128, freq [][]complex128) {
	s := p.samples[firstOffset:]
	if ffo != nil {
		s = dsp.FreqShift(s, -*ffo, p.Fs)
	}
	if samplingOffset != nil {
		s = dsp.FractionalOffset(s, *samplingOffset)
	}
	if phase != nil {
		rot := cmplx.Exp(complex(0, -*phase))
		rotated := make([]complex128, len(s))
		for i, v := range s {
			rotated[i] = v * rot
		}
		s = rotated
	}

	cp := p.Profile.CPPattern
	time = make([][]complex128, len(cp))
	freq = make([][]complex128, len(cp))
	offset := 0
	for i, cpLen := range cp {
		symLen := dsp.FFTSize + cpLen
		if offset+symLen > len(s) {
			freq[i] = make([]complex128, p.Profile.NCarriers)
			offset += symLen
			continue
		}
		sym := s[offset : offset+symLen]
		time[i] = sym
		freq[i] = dsp.CenteredFFT(sym[cpLen:], p.Profile.NCarriers)
		offset += symLen
	}
	return time, freq
}

// findZCSeq is stage 3: brute-force root search maximizing correlation
// magnitude between the received frequency-domain symbol and every
// candidate time-domain ZC sequence.
func (p *Packet) findZCSeq(symbolF []complex128) int {
	best, bestMag := 1, -1.0
	for u := 1; u < p.Profile.NCarriers; u++ {
		zt := sequence.ZCTime(u, p.Profile.NCarriers, 0)
		c := dsp.Corr(symbolF, zt)
		m := maxAbs(c)
		if m > bestMag {
			bestMag = m
			best = u
		}
	}
	return best
}

// estimateChannel is stage 4 for a single ZC symbol: elementwise division
// of received bins by the expected ZC spectrum, DC pinned to 1.
func (p *Packet) estimateChannel(symIdx, zcSeq int) []complex128 {
	expected := sequence.ZCFreq(zcSeq, p.Profile.NCarriers)
	expected[p.Profile.DC()] = 1
	received := p.symbolsFreq[symIdx]

	out := make([]complex128, p.Profile.NCarriers)
	for i := range out {
		out[i] = received[i] / expected[i]
	}
	return out
}

// findZCOffset is stage 5: sweep fractional sample offsets in [-15, 15]
// and pick the one minimizing the RMS deviation of the unwrapped phase
// ramp across the ZC symbol's subcarriers.
func (p *Packet) findZCOffset(symIdx, zcSeq int) float64 {
	a := sequence.ZCTime(zcSeq, p.Profile.NCarriers, 0)

	const steps = 1000
	best, bestScore := 0.0, math.Inf(1)
	for i := 0; i < steps; i++ {
		delta := -15 + 30*float64(i)/float64(steps-1)
		_, freq := p.rawToSymbols(p.start, &p.ffo, &delta, nil)
		zcSym := append([]complex128(nil), freq[symIdx]...)
		for k, v := range zcSym {
			if v == 0 {
				zcSym[k] = 1
			}
		}

		adiff := make([]float64, len(a))
		for k := range a {
			adiff[k] = cmplx.Phase(a[k] / zcSym[k])
		}
		dc := p.Profile.DC()
		if dc+1 < len(adiff) {
			adiff[dc] = adiff[dc+1]
		}
		unwrap(adiff)

		score := rmsDeviation(adiff)
		if score < bestScore {
			bestScore = score
			best = delta
		}
	}
	return best
}

// findZCAngle is stage 6: the carrier phase is the angle of the received
// ZC symbol's DC bin. The reference receiver also computes an unused
// slope/RMS diagnostic here; this keeps only the value actually consumed
// (see SPEC_FULL.md open question #1).
func findZCAngle(symbolF []complex128, dcBin int) float64 {
	c := symbolF[dcBin]
	if c == 0 {
		c = 1
	}
	return cmplx.Phase(c)
}

func maxAbs(x []complex128) float64 {
	m := 0.0
	for _, v := range x {
		if a := cmplx.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func rmsDeviation(x []float64) float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var sumSq float64
	for _, v := range x {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(x)))
}

// unwrap corrects phase-wrap discontinuities in place, matching
// np.unwrap's default behavior (threshold of π).
func unwrap(x []float64) {
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		for d > math.Pi {
			x[i] -= 2 * math.Pi
			d = x[i] - x[i-1]
		}
		for d < -math.Pi {
			x[i] += 2 * math.Pi
			d = x[i] - x[i-1]
		}
	}
}
