package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rubsyssec/droneid-demod/internal/profile"
)

type fakeSource struct {
	chunks [][]complex128
	errs   []error
	i      int
	rate   float64
}

func (f *fakeSource) SampleRate() float64 { return f.rate }
func (f *fakeSource) Close() error        { return nil }

func (f *fakeSource) Next(ctx context.Context) ([]complex128, error) {
	if f.i >= len(f.chunks) {
		return nil, io.EOF
	}
	c, e := f.chunks[f.i], f.errs[f.i]
	f.i++
	return c, e
}

func TestNew_RejectsDetectionOnlyProfile(t *testing.T) {
	det, _ := profile.LookupDetection(profile.Beacon)
	_, err := New(Config{Profile: profile.Demod{Detection: det}})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New with a detection-only profile returned %v, want *ConfigError", err)
	}
}

func TestNew_DefaultsWorkersToOne(t *testing.T) {
	p, err := New(Config{Profile: profile.C2Profile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", p.cfg.Workers)
	}
}

func TestRun_StopsCleanlyOnEOF(t *testing.T) {
	p, err := New(Config{Profile: profile.C2Profile, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src := &fakeSource{rate: profile.C2Profile.DemodRate}
	if runErr := p.Run(context.Background(), src, nil, nil); runErr != nil {
		t.Errorf("Run returned %v, want nil", runErr)
	}
}

func TestRun_CountsHardwareTimeouts(t *testing.T) {
	p, err := New(Config{Profile: profile.C2Profile, Workers: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src := &fakeSource{
		chunks: [][]complex128{nil, nil},
		errs:   []error{nil, nil},
		rate:   profile.C2Profile.DemodRate,
	}
	if err := p.Run(context.Background(), src, nil, nil); err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
	if got := p.Stats().HardwareTimeouts; got != 2 {
		t.Errorf("HardwareTimeouts = %d, want 2", got)
	}
}

func TestRun_AbortsOnFatalSourceError(t *testing.T) {
	p, err := New(Config{Profile: profile.C2Profile, Workers: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantErr := errors.New("device disconnected")
	src := &fakeSource{
		chunks: [][]complex128{nil},
		errs:   []error{wantErr},
		rate:   profile.C2Profile.DemodRate,
	}
	if err := p.Run(context.Background(), src, nil, nil); !errors.Is(err, wantErr) {
		t.Errorf("Run returned %v, want it to wrap %v", err, wantErr)
	}
}

func TestStats_SnapshotAndString(t *testing.T) {
	var s Stats
	s.addCandidates(3)
	s.addDecoded(2)
	s.addCRCOK(1)
	s.addCRCErr(1)

	snap := s.Snapshot()
	if snap.Candidates != 3 || snap.Decoded != 2 || snap.CRCOK != 1 || snap.CRCErr != 1 {
		t.Fatalf("Snapshot = %+v, want {3 2 1 1 0}", snap)
	}
	if snap.String() == "" {
		t.Error("Stats.String returned an empty string")
	}
}

func TestRun_SkipDetectionWithoutMatchingBandYieldsNoCandidate(t *testing.T) {
	p, err := New(Config{Profile: profile.C2Profile, Workers: 1, SkipDetection: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// An all-zero chunk has no band anywhere near the c2 bandwidth window:
	// the band estimator should fail to match, so no candidate is produced
	// and processChunk never calls the demodulator.
	src := &fakeSource{
		chunks: [][]complex128{make([]complex128, 4096)},
		errs:   []error{nil},
		rate:   profile.C2Profile.DemodRate,
	}
	if err := p.Run(context.Background(), src, nil, nil); err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
	if got := p.Stats().Candidates; got != 0 {
		t.Errorf("Candidates = %d, want 0 for an all-zero chunk with no matching band", got)
	}
}

func TestScanList_LocksAndFallsBackAfterEmptyRuns(t *testing.T) {
	sl := NewScanList([]float64{2.4e9, 5.8e9, 2.44e9}, 2)

	if sl.Current() != 2.4e9 {
		t.Fatalf("Current = %v, want 2.4e9", sl.Current())
	}

	sl.ReportDecoded()
	if !sl.Locked() {
		t.Fatal("expected ScanList to be locked after ReportDecoded")
	}

	sl.ReportEmpty()
	if !sl.Locked() {
		t.Fatal("expected ScanList to stay locked below maxEmptyRuns")
	}
	sl.ReportEmpty()
	if sl.Locked() {
		t.Fatal("expected ScanList to unlock after maxEmptyRuns empty chunks")
	}
	if sl.Current() != 5.8e9 {
		t.Errorf("Current after unlock = %v, want 5.8e9", sl.Current())
	}
}
