package packetizer

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/rubsyssec/droneid-demod/internal/profile"
)

func TestFind_ShortCaptureNoCandidates(t *testing.T) {
	raw := make([]complex128, 10)
	cands, _ := Find(raw, 50e6, profile.DroneIDProfile.Detection)
	if len(cands) != 0 {
		t.Errorf("Find on a too-short capture returned %d candidates, want 0", len(cands))
	}
}

func TestFind_NoiseOnlyNoCandidates(t *testing.T) {
	const fs = 50e6
	n := int(5e-3 * fs)
	raw := make([]complex128, n)
	for i := range raw {
		// Low-level deterministic "noise": a steady tone pair that keeps
		// every slice above the 1.15x threshold, so the only run spans the
		// whole 5ms capture and is far longer than the duration window.
		raw[i] = complex(0.01*math.Sin(float64(i)), 0.01*math.Cos(float64(i)*1.3))
	}
	cands, _ := Find(raw, fs, profile.DroneIDProfile.Detection)
	if len(cands) != 0 {
		t.Errorf("Find on a flat low-level signal returned %d candidates, want 0", len(cands))
	}
}

func TestFind_BurstMatchingDurationIsCandidate(t *testing.T) {
	const fs = 50e6
	const offsetHz = 9e6
	const bw = 9e6

	total := int(5e-3 * fs)
	raw := make([]complex128, total)

	burstStart := total / 3
	burstSamples := int(645e-6 * fs) // within the droneid 630-665us window
	for i := burstStart; i < burstStart+burstSamples && i < total; i++ {
		t := float64(i) / fs
		var s complex128
		for k := -20; k <= 20; k++ {
			f := offsetHz + float64(k)*bw/40
			s += cmplx.Exp(complex(0, 2*math.Pi*f*t))
		}
		raw[i] = s
	}

	cands, _ := Find(raw, fs, profile.DroneIDProfile.Detection)
	if len(cands) == 0 {
		t.Fatal("Find did not detect the synthetic burst")
	}
}
