package dsp

import "testing"

func TestFindPeaks_MinDistance(t *testing.T) {
	x := make([]float64, 3000)
	x[500] = 5
	x[700] = 3
	x[2000] = 10

	peaks := FindPeaks(x, 1000)
	if len(peaks) != 2 {
		t.Fatalf("FindPeaks returned %d peaks, want 2: %v", len(peaks), peaks)
	}
	if peaks[0] != 500 || peaks[1] != 2000 {
		t.Errorf("FindPeaks = %v, want [500 2000]", peaks)
	}
}

func TestPeakProminences(t *testing.T) {
	x := []float64{0, 0, 5, 0, 0, 3, 1, 3, 0, 0}
	peaks := []int{2, 7}
	prom := PeakProminences(x, peaks)

	if prom[0] != 5 {
		t.Errorf("prominence of isolated peak at 2 = %v, want 5", prom[0])
	}
	if prom[1] <= 0 {
		t.Errorf("prominence of peak at 7 = %v, want > 0", prom[1])
	}
}

func TestRunsOf(t *testing.T) {
	x := []bool{false, true, true, false, false, true, false}
	runs := RunsOf(x)
	want := [][2]int{{1, 2}, {5, 5}}
	if len(runs) != len(want) {
		t.Fatalf("RunsOf = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("RunsOf[%d] = %v, want %v", i, runs[i], want[i])
		}
	}
}
