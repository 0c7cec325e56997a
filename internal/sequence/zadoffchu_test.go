package sequence

import (
	"math/cmplx"
	"testing"
)

func TestZCTime_UnitMagnitude(t *testing.T) {
	z := ZCTime(600, 601, 0)
	for n, v := range z {
		if m := cmplx.Abs(v); m < 1-1e-9 || m > 1+1e-9 {
			t.Errorf("ZCTime(600,601)[%d] magnitude = %v, want 1", n, m)
		}
	}
}

func TestZCFreq_DCZero(t *testing.T) {
	zf := ZCFreq(147, 601)
	if zf[300] != 0 {
		t.Errorf("ZCFreq DC bin = %v, want exactly 0", zf[300])
	}
}

func TestZCTime_RootsProduceDistinctSequences(t *testing.T) {
	a := ZCTime(600, 601, 0)
	b := ZCTime(147, 601, 0)
	var diff float64
	for i := range a {
		diff += cmplx.Abs(a[i] - b[i])
	}
	if diff < 1 {
		t.Errorf("ZC sequences for distinct roots are nearly identical, diff=%v", diff)
	}
}
