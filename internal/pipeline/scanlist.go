package pipeline

// ScanList implements the optional frequency-hopping policy from the
// original live receiver: cycle through a list of candidate center
// frequencies, lock onto one after a successful decode, and fall back
// to scanning once a locked frequency produces too many empty chunks in
// a row. Exercised only by a live-mode caller that owns SDR retuning;
// Pipeline itself has no tuning hook and does not use this directly.
type ScanList struct {
	freqs        []float64
	idx          int
	locked       bool
	emptyRuns    int
	maxEmptyRuns int
}

// NewScanList returns a ScanList over freqs. maxEmptyRuns is the number
// of consecutive decode-free chunks tolerated on a locked frequency
// before falling back to scanning; 0 selects a default of 10.
func NewScanList(freqs []float64, maxEmptyRuns int) *ScanList {
	if maxEmptyRuns <= 0 {
		maxEmptyRuns = 10
	}
	return &ScanList{freqs: freqs, maxEmptyRuns: maxEmptyRuns}
}

// Current returns the frequency a live-mode caller should be tuned to.
func (s *ScanList) Current() float64 {
	if len(s.freqs) == 0 {
		return 0
	}
	return s.freqs[s.idx%len(s.freqs)]
}

// ReportDecoded locks the scan list onto the current frequency.
func (s *ScanList) ReportDecoded() {
	s.locked = true
	s.emptyRuns = 0
}

// ReportEmpty records a chunk with no decoded frames. While unlocked,
// every empty chunk advances to the next frequency; while locked, the
// list only unlocks and advances after maxEmptyRuns consecutive empty
// chunks.
func (s *ScanList) ReportEmpty() {
	if !s.locked {
		s.idx++
		return
	}
	s.emptyRuns++
	if s.emptyRuns >= s.maxEmptyRuns {
		s.locked = false
		s.emptyRuns = 0
		s.idx++
	}
}

// Locked reports whether the scan list is currently parked on one
// frequency rather than cycling.
func (s *ScanList) Locked() bool { return s.locked }
