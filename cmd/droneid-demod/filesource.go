package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"math"
	"time"
)

// chunkDuration matches the reference offline receiver's 500ms-at-a-time
// processing loop.
const chunkDuration = 500 * time.Millisecond

// fileSource implements pipeline.SampleSource over an offline capture
// of packed little-endian float32 (real, imag) pairs with no header,
// chunked chunkDuration at a time.
type fileSource struct {
	r    *bufio.Reader
	rate float64
}

func newFileSource(f io.Reader, rate float64) *fileSource {
	return &fileSource{r: bufio.NewReaderSize(f, 1<<20), rate: rate}
}

func (s *fileSource) SampleRate() float64 { return s.rate }
func (s *fileSource) Close() error        { return nil }

func (s *fileSource) Next(ctx context.Context) ([]complex128, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := int(s.rate * chunkDuration.Seconds())
	if n <= 0 {
		n = 1
	}

	raw := make([]byte, n*8)
	read, err := io.ReadFull(s.r, raw)
	if read == 0 {
		if err != nil {
			return nil, io.EOF
		}
	}

	samples := read / 8
	out := make([]complex128, samples)
	for i := 0; i < samples; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8 : i*8+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8+4 : i*8+8]))
		out[i] = complex(float64(re), float64(im))
	}
	return out, nil
}
