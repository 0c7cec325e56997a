package droneid

import (
	"math"
	"testing"

	"github.com/rubsyssec/droneid-demod/internal/profile"
	"github.com/rubsyssec/droneid-demod/internal/sequence"
)

func TestPacket_FindFineStart_DetectsCPPeak(t *testing.T) {
	const n, cpl = 1024, 80
	const lead = 200
	total := lead + n + cpl + 96

	samples := make([]complex128, total)
	for i := range samples {
		samples[i] = complex(math.Sin(float64(i)*0.37), math.Cos(float64(i)*0.53))
	}
	copy(samples[lead:lead+cpl], samples[lead+n:lead+n+cpl])

	prof := profile.DroneIDProfile
	p := &Packet{Profile: prof, Fs: prof.DemodRate, samples: samples}

	start, _, mags, err := p.findFineStart()
	if err != nil {
		t.Fatalf("findFineStart returned error: %v", err)
	}
	if len(mags) == 0 {
		t.Fatal("findFineStart returned an empty magnitude trace")
	}
	// The CP was copied to sample lead from the block starting n samples
	// later. The autocorrelation peaks when the sliding window is n
	// samples past the CP, and the returned start is that peak's index
	// into the correlation trace, which begins at the NFFT lookback, so it
	// equals the CP's own sample offset. The CP is placed away from sample
	// 0 because FindPeaks never reports the first index of the trace.
	if start < lead-1 || start > lead+1 {
		t.Errorf("start = %d, want within 1 sample of %d", start, lead)
	}
}

func TestPacket_FindFineStart_TooShortFails(t *testing.T) {
	prof := profile.DroneIDProfile
	p := &Packet{Profile: prof, Fs: prof.DemodRate, samples: make([]complex128, 100)}

	_, _, _, err := p.findFineStart()
	if err == nil {
		t.Fatal("expected an error for a capture shorter than one FFT window")
	}
	if _, ok := err.(*DetectionFailureError); !ok {
		t.Errorf("error type = %T, want *DetectionFailureError", err)
	}
}

func TestPacket_FindZCSeq_RecoversRoot600(t *testing.T) {
	prof := profile.DroneIDProfile
	symbolF := sequence.ZCTime(600, prof.NCarriers, 0)

	p := &Packet{Profile: prof}
	got := p.findZCSeq(symbolF)
	if got != 600 {
		t.Errorf("findZCSeq(z_600) = %d, want 600", got)
	}
}

func TestPacket_FindZCSeq_RecoversRoot147(t *testing.T) {
	prof := profile.DroneIDProfile
	symbolF := sequence.ZCTime(147, prof.NCarriers, 0)

	p := &Packet{Profile: prof}
	got := p.findZCSeq(symbolF)
	if got != 147 {
		t.Errorf("findZCSeq(z_147) = %d, want 147", got)
	}
}

func TestPacket_EstimateChannel_RecoversFlatChannel(t *testing.T) {
	prof := profile.DroneIDProfile
	zcSeq := 600
	received := sequence.ZCFreq(zcSeq, prof.NCarriers)
	// estimateChannel's own expected-spectrum copy pins its DC bin to 1
	// before dividing; pin the simulated received symbol's DC bin the
	// same way so a flat channel (received == expected) reads back as 1
	// everywhere, including DC.
	received[prof.DC()] = 1

	p := &Packet{Profile: prof}
	p.symbolsFreq = make([][]complex128, prof.ZCSymbolIdx[0]+1)
	p.symbolsFreq[prof.ZCSymbolIdx[0]] = received

	ch := p.estimateChannel(prof.ZCSymbolIdx[0], zcSeq)
	dc := prof.DC()
	if cAbs(ch[dc]-1) > 1e-9 {
		t.Errorf("channel DC bin = %v, want 1", ch[dc])
	}
	for i, v := range ch {
		if i == dc {
			continue
		}
		if cAbs(v-1) > 1e-6 {
			t.Fatalf("channel bin %d = %v, want ~1 for a flat channel", i, v)
		}
	}
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
