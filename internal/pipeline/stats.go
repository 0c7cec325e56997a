package pipeline

import (
	"fmt"
	"sync/atomic"
)

// Stats is the running counter set printed periodically and on shutdown
// (§7's user-visible-behavior requirement).
type Stats struct {
	Candidates       int64
	Decoded          int64
	CRCOK            int64
	CRCErr           int64
	HardwareTimeouts int64
}

func (s *Stats) addCandidates(n int64)       { atomic.AddInt64(&s.Candidates, n) }
func (s *Stats) addDecoded(n int64)          { atomic.AddInt64(&s.Decoded, n) }
func (s *Stats) addCRCOK(n int64)            { atomic.AddInt64(&s.CRCOK, n) }
func (s *Stats) addCRCErr(n int64)           { atomic.AddInt64(&s.CRCErr, n) }
func (s *Stats) addHardwareTimeouts(n int64) { atomic.AddInt64(&s.HardwareTimeouts, n) }

// Snapshot returns a plain copy safe to read or print without racing
// concurrent workers still updating the live counters.
func (s *Stats) Snapshot() Stats {
	return Stats{
		Candidates:       atomic.LoadInt64(&s.Candidates),
		Decoded:          atomic.LoadInt64(&s.Decoded),
		CRCOK:            atomic.LoadInt64(&s.CRCOK),
		CRCErr:           atomic.LoadInt64(&s.CRCErr),
		HardwareTimeouts: atomic.LoadInt64(&s.HardwareTimeouts),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("candidates=%d decoded=%d crc_ok=%d crc_err=%d hw_timeouts=%d",
		s.Candidates, s.Decoded, s.CRCOK, s.CRCErr, s.HardwareTimeouts)
}
