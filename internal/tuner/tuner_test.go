package tuner

import "testing"

func TestTuneAndResample_LowRateFails(t *testing.T) {
	samples := make([]complex128, 1000)
	_, err := TuneAndResample(samples, 1e6, 0, 15.36e6)
	if err == nil {
		t.Error("TuneAndResample should fail when fs is far below targetRate")
	}
}

func TestTuneAndResample_WithinSlopNoResample(t *testing.T) {
	samples := make([]complex128, 1000)
	for i := range samples {
		samples[i] = complex(float64(i), 0)
	}
	out, err := TuneAndResample(samples, 15.36e6, 0, 15.36e6+50e3)
	if err != nil {
		t.Fatalf("TuneAndResample: %v", err)
	}
	if len(out) != len(samples) {
		t.Errorf("TuneAndResample within slop changed length: %d vs %d", len(out), len(samples))
	}
}

func TestTuneAndResample_ResamplesWhenRateDiffers(t *testing.T) {
	samples := make([]complex128, 10000)
	for i := range samples {
		samples[i] = complex(float64(i), 0)
	}
	out, err := TuneAndResample(samples, 50e6, 0, 15.36e6)
	if err != nil {
		t.Fatalf("TuneAndResample: %v", err)
	}
	wantLen := int(float64(len(samples)) * 15.36e6 / 50e6)
	if abs(len(out)-wantLen) > 1 {
		t.Errorf("TuneAndResample output length = %d, want ~%d", len(out), wantLen)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
