package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/rubsyssec/droneid-demod/internal/droneid"
	"github.com/rubsyssec/droneid-demod/internal/packetizer"
	"github.com/rubsyssec/droneid-demod/internal/profile"
	"github.com/rubsyssec/droneid-demod/internal/spectrum"
	"github.com/rubsyssec/droneid-demod/internal/tuner"
)

// Config selects the profile and worker pool size for a Pipeline.
type Config struct {
	Profile           profile.Demod
	Workers           int
	EnableZCDetection bool

	// SkipDetection bypasses the packetizer (C4) and treats each whole
	// chunk as a single packet candidate, matching §6's skip_detection
	// option. The band estimator (C3) still runs to find the tuning
	// offset; only the burst-duration search is skipped.
	SkipDetection bool
}

// Pipeline is the C8 orchestrator: it packetizes each incoming chunk,
// tunes and demodulates every candidate, tries all four QPSK rotations,
// and forwards successfully decoded frames to a FrameSink.
type Pipeline struct {
	cfg   Config
	stats Stats
	stop  int32
}

// New validates cfg and returns a Pipeline. The only error this can
// return is *ConfigError.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Profile.NCarriers == 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("profile %q has no OFDM numerology (detection-only)", cfg.Profile.Name)}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{cfg: cfg}, nil
}

// Stop sets the shared cancellation flag. Run observes it between chunk
// fetches; workers observe it implicitly when Run stops feeding the
// queue and closes it.
func (p *Pipeline) Stop() { atomic.StoreInt32(&p.stop, 1) }

func (p *Pipeline) stopped() bool { return atomic.LoadInt32(&p.stop) == 1 }

// Stats returns a point-in-time snapshot of the running counters.
func (p *Pipeline) Stats() Stats { return p.stats.Snapshot() }

// Run pulls chunks from src, feeding a bounded queue drained by
// cfg.Workers goroutines that each packetize, demodulate, and decode a
// chunk, forwarding successful frames (with verify's verdict) to sink.
// The queue's bound applies backpressure: if workers fall behind, Run
// blocks before fetching the next chunk. Workers drain cleanly via
// channel close rather than a sentinel value — idiomatic Go for the
// same "tell consumers we're done, let them finish in-flight work"
// pattern.
//
// Run returns when src is exhausted (io.EOF), ctx is canceled, Stop is
// called, or src.Next fails with anything other than a hardware
// timeout.
func (p *Pipeline) Run(ctx context.Context, src SampleSource, sink FrameSink, verify CRCVerifier) error {
	fs := src.SampleRate()
	queue := make(chan []complex128, p.cfg.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range queue {
				p.processChunk(chunk, fs, sink, verify)
			}
		}()
	}

	var runErr error
loop:
	for {
		if p.stopped() {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var hwErr *HardwareTimeoutError
			if errors.As(err, &hwErr) {
				p.stats.addHardwareTimeouts(1)
				log.Printf("pipeline: %v", hwErr)
				continue
			}
			runErr = fmt.Errorf("pipeline: sample source: %w", err)
			break
		}
		if len(chunk) == 0 {
			p.stats.addHardwareTimeouts(1)
			continue
		}

		select {
		case queue <- chunk:
		case <-ctx.Done():
			break loop
		}
	}

	close(queue)
	wg.Wait()
	return runErr
}

// processChunk packetizes one chunk and, for every candidate, tunes,
// demodulates, and tries all four QPSK rotations. All per-candidate
// errors are contained here and logged; only Stats and sink see the
// outcome, matching the "per-frame errors never abort the pipeline"
// propagation policy.
func (p *Pipeline) processChunk(chunk []complex128, fs float64, sink FrameSink, verify CRCVerifier) {
	var candidates []packetizer.Candidate
	if p.cfg.SkipDetection {
		det := p.cfg.Profile.Detection
		if offsetHz, ok := spectrum.EstimateOffset(chunk, fs, det.BandwidthMin, det.BandwidthMax); ok {
			candidates = []packetizer.Candidate{{Samples: chunk, OffsetHz: offsetHz}}
		}
	} else {
		candidates, _ = packetizer.Find(chunk, fs, p.cfg.Profile.Detection)
	}
	p.stats.addCandidates(int64(len(candidates)))

	for _, cand := range candidates {
		tuned, err := tuner.TuneAndResample(cand.Samples, fs, cand.OffsetHz, p.cfg.Profile.DemodRate)
		if err != nil {
			log.Printf("pipeline: %v", err)
			continue
		}

		pkt, err := droneid.NewPacket(tuned, p.cfg.Profile.DemodRate, p.cfg.Profile, droneid.Options{
			EnableZCDetection: p.cfg.EnableZCDetection,
		})
		if err != nil {
			log.Printf("pipeline: %v", err)
			continue
		}

		if !p.tryRotations(pkt, sink, verify) {
			log.Print(&DecodeFailureError{Reason: "no QPSK rotation produced a structurally valid frame"})
		}
	}
}

// tryRotations attempts all four QPSK rotations against one demodulated
// candidate, stopping at the first structurally valid frame (the spec's
// "first rotation wins" rule — final acceptance is still CRC's call).
func (p *Pipeline) tryRotations(pkt *droneid.Packet, sink FrameSink, verify CRCVerifier) bool {
	equalized := pkt.Equalized()
	dec := droneid.NewDecoder(pkt.Profile)

	for rotation := 0; rotation < 4; rotation++ {
		bits, _ := dec.Decode(equalized, rotation)
		if bits == nil {
			continue
		}

		frame := droneid.PackBits(bits)
		p.stats.addDecoded(1)

		crcOK := verify != nil && verify.Verify(frame)
		if crcOK {
			p.stats.addCRCOK(1)
		} else {
			p.stats.addCRCErr(1)
		}

		if sink != nil {
			if err := sink.Sink(frame, crcOK); err != nil {
				log.Printf("pipeline: sink: %v", err)
			}
		}
		return true
	}
	return false
}
