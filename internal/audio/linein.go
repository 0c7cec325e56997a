// Package audio wraps PortAudio for live DroneID capture: a stereo
// line-in stream whose left/right channels stand in for the real/
// imaginary rails of a complex baseband I/Q feed from an external
// down-converter, the cheap bench substitute for binding directly to an
// SDR.
package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is the fixed line-in capture rate. It is far below the
	// demod rates (15.36MHz, 1.92MHz) the OFDM profiles expect, and
	// internal/tuner returns an error for any capture rate more than
	// 100kHz below the target, so candidates from this source are not
	// resampled up to a demod rate.
	SampleRate   = 192000
	FramesPerBuf = 2048
)

// Init initializes PortAudio. Call once before opening a LineInSource.
func Init() error { return portaudio.Initialize() }

// Terminate cleans up PortAudio.
func Terminate() error { return portaudio.Terminate() }

// LineInSource reads a stereo line-in stream and treats the left/right
// channels as the real/imaginary rails of a complex I/Q sample stream.
// It implements pipeline.SampleSource structurally (no import needed:
// the interface is satisfied by method shape alone).
type LineInSource struct {
	stream *portaudio.Stream
	buf    []float32
	rate   float64
	mu     sync.Mutex
}

// NewLineInSource opens and starts the default stereo input stream at
// SampleRate.
func NewLineInSource() (*LineInSource, error) {
	buf := make([]float32, FramesPerBuf*2)
	stream, err := portaudio.OpenDefaultStream(2, 0, float64(SampleRate), FramesPerBuf, buf)
	if err != nil {
		return nil, fmt.Errorf("audio: open line-in stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("audio: start line-in stream: %w", err)
	}
	return &LineInSource{stream: stream, buf: buf, rate: SampleRate}, nil
}

// SampleRate returns the fixed capture rate.
func (s *LineInSource) SampleRate() float64 { return s.rate }

// Next reads one buffer of stereo samples and returns it as interleaved
// complex I/Q. ctx cancellation is observed only between reads —
// PortAudio's blocking Read has no context support of its own.
func (s *LineInSource) Next(ctx context.Context) ([]complex128, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stream.Read(); err != nil {
		return nil, fmt.Errorf("audio: read line-in stream: %w", err)
	}

	out := make([]complex128, FramesPerBuf)
	for i := range out {
		out[i] = complex(float64(s.buf[2*i]), float64(s.buf[2*i+1]))
	}
	return out, nil
}

// Close stops and closes the underlying stream.
func (s *LineInSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}
