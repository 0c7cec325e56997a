// Package pipeline is the C8 orchestrator: it chunks an incoming capture,
// packetizes each chunk, demodulates and decodes every candidate under
// all four QPSK rotations, and hands decoded frames to a downstream
// sink and CRC verifier.
package pipeline

import "fmt"

// ConfigError is a fatal, non-recoverable pipeline configuration problem
// (unknown profile, a profile with no OFDM numerology). It is the only
// error kind that aborts the pipeline; New returns it directly and Run
// never produces one on its own.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline: config error: %s", e.Reason)
}

// DecodeFailureError reports that none of the four QPSK rotation
// hypotheses produced a structurally valid systematic bit stream for a
// candidate. Per-candidate; recorded and the pipeline moves on.
type DecodeFailureError struct {
	Reason string
}

func (e *DecodeFailureError) Error() string {
	return fmt.Sprintf("pipeline: decode failure: %s", e.Reason)
}

// CRCMismatchError reports that a frame was decoded but failed the
// downstream CRC-16 check. Counted in Stats, not treated as a pipeline
// error.
type CRCMismatchError struct{}

func (e *CRCMismatchError) Error() string {
	return "pipeline: CRC mismatch"
}

// HardwareTimeoutError reports that a SampleSource's per-call receive
// timed out. Non-fatal; the chunk is dropped and the next fetch is
// attempted.
type HardwareTimeoutError struct {
	Cause error
}

func (e *HardwareTimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pipeline: hardware timeout: %v", e.Cause)
	}
	return "pipeline: hardware timeout"
}

func (e *HardwareTimeoutError) Unwrap() error { return e.Cause }
