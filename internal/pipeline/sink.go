package pipeline

// FrameSink receives every decoded systematic-bit byte frame along with
// its CRC verdict from the caller-supplied CRCVerifier, one call per
// successful decode attempt.
type FrameSink interface {
	Sink(frame []byte, crcOK bool) error
}

// CRCVerifier is the downstream collaborator that knows how to validate
// a decoded frame. The pipeline never inspects frame contents itself —
// it only forwards the verdict to FrameSink and counts it in Stats.
type CRCVerifier interface {
	Verify(frame []byte) bool
}

// FrameSinkFunc adapts a plain function to FrameSink.
type FrameSinkFunc func(frame []byte, crcOK bool) error

func (f FrameSinkFunc) Sink(frame []byte, crcOK bool) error { return f(frame, crcOK) }

// CRCVerifierFunc adapts a plain function to CRCVerifier.
type CRCVerifierFunc func(frame []byte) bool

func (f CRCVerifierFunc) Verify(frame []byte) bool { return f(frame) }
