package pipeline

import "context"

// SampleSource yields chunks of complex I/Q samples at a known rate.
// A zero-length chunk with a nil error signals a per-call receive
// timeout (HardwareTimeoutError, §7 of the design): Run counts it and
// keeps going rather than treating it as failure. Any other non-nil
// error ends Run, except io.EOF, which is the offline file source's
// clean end-of-capture signal.
type SampleSource interface {
	Next(ctx context.Context) ([]complex128, error)
	SampleRate() float64
	Close() error
}
