package dsp

import "sort"

// FindPeaks returns the indices of local maxima in x, enforcing a minimum
// separation of minDistance samples between any two returned peaks
// (highest peak wins when two candidates conflict). Indices are returned
// in ascending order, mirroring scipy's find_peaks(..., distance=...).
func FindPeaks(x []float64, minDistance int) []int {
	var candidates []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] >= x[i+1] {
			candidates = append(candidates, i)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		return x[candidates[a]] > x[candidates[b]]
	})

	var kept []int
	for _, c := range candidates {
		ok := true
		for _, k := range kept {
			d := c - k
			if d < 0 {
				d = -d
			}
			if d < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		}
	}
	sort.Ints(kept)
	return kept
}

// PeakProminences computes a simplified topographic prominence for each
// index in peaks: the peak's height minus the higher of the two nearest
// minima found by walking outward until a taller sample (or the array
// edge) is reached on each side.
func PeakProminences(x []float64, peaks []int) []float64 {
	out := make([]float64, len(peaks))
	for pi, p := range peaks {
		height := x[p]

		leftMin := height
		for i := p - 1; i >= 0; i-- {
			if x[i] > height {
				break
			}
			if x[i] < leftMin {
				leftMin = x[i]
			}
		}

		rightMin := height
		for i := p + 1; i < len(x); i++ {
			if x[i] > height {
				break
			}
			if x[i] < rightMin {
				rightMin = x[i]
			}
		}

		base := leftMin
		if rightMin > base {
			base = rightMin
		}
		out[pi] = height - base
	}
	return out
}

// RunsOf splits a boolean slice into maximal runs of true values, returned
// as inclusive [start, end] index pairs in ascending order.
func RunsOf(x []bool) [][2]int {
	var runs [][2]int
	start := -1
	for i, v := range x {
		if v && start < 0 {
			start = i
		} else if !v && start >= 0 {
			runs = append(runs, [2]int{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(x) - 1})
	}
	return runs
}
