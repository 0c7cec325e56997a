package droneid

import (
	"github.com/rubsyssec/droneid-demod/internal/profile"
	"github.com/rubsyssec/droneid-demod/internal/sequence"
)

const (
	systematicOffset = 4148
	systematicLen    = 1412
	goldRefLen       = 1200
	goldRefThreshold = 7200
)

// qpskRotations is the four 90-degree-rotated quadrant-to-value mappings,
// indexed [rotation][quadrant], quadrant order (+,+), (+,-), (-,-), (-,+).
var qpskRotations = [4][4]int{
	{2, 3, 1, 0},
	{0, 2, 3, 1},
	{1, 0, 2, 3},
	{3, 1, 0, 2},
}

// demapSymbol maps one equalized subcarrier to a 2-bit value (0-3) under
// the given rotation hypothesis, by quadrant.
func demapSymbol(c complex128, rotation int) int {
	re, im := real(c), imag(c)
	switch {
	case re >= 0 && im >= 0:
		return qpskRotations[rotation][0]
	case re >= 0 && im < 0:
		return qpskRotations[rotation][1]
	case re < 0 && im < 0:
		return qpskRotations[rotation][2]
	default:
		return qpskRotations[rotation][3]
	}
}

// Decoder assembles the descrambled systematic bit stream from a Packet's
// equalized symbols, trying one QPSK rotation hypothesis at a time.
type Decoder struct {
	prof profile.Demod
}

// NewDecoder returns a Decoder for the given profile's numerology.
func NewDecoder(prof profile.Demod) *Decoder {
	return &Decoder{prof: prof}
}

// GoldRefMatch reports whether the diagnostic Gold-reference symbol
// (present only when the ZC-excluded symbols together carry more than
// 7200 bits, i.e. the 9-symbol droneid profile) matched the expected
// sequence. It is
// purely informational; a mismatch does not abort decoding.
type GoldRefMatch struct {
	Checked bool
	Matched bool
}

// Decode assembles, descrambles, and rate-match-inverts the bit stream
// from equalized (ZC-excluded) symbols under the given rotation
// hypothesis, returning the final systematic bits and diagnostic info
// about the optional Gold-reference check.
func (d *Decoder) Decode(equalized [][]complex128, rotation int) ([]bool, GoldRefMatch) {
	nCarriers := d.prof.NCarriers
	dcCol := d.prof.DC()

	rows := make([][]bool, len(equalized))
	for i, sym := range equalized {
		rows[i] = assembleRowBits(sym, rotation, nCarriers, dcCol)
	}

	total := 0
	for _, r := range rows {
		total += len(r)
	}

	var concatenated []bool
	var ref GoldRefMatch
	if total > goldRefThreshold && len(rows) > 0 {
		ref.Checked = true
		goldRef := sequence.Gold(sequence.DescrambleNc, len(rows[0]), sequence.DescrambleSeed)
		ref.Matched = boolSlicesEqual(rows[0], goldRef)
		for _, r := range rows[1:] {
			concatenated = append(concatenated, r...)
		}
	} else {
		for _, r := range rows {
			concatenated = append(concatenated, r...)
		}
	}

	if len(concatenated) == 0 {
		return nil, ref
	}

	gold := sequence.Gold(sequence.DescrambleNc, len(concatenated), sequence.DescrambleSeed)
	descrambled := make([]bool, len(concatenated))
	for i := range concatenated {
		descrambled[i] = concatenated[i] != gold[i]
	}

	systematic := make([]bool, systematicLen)
	for i := 0; i < systematicLen; i++ {
		systematic[i] = descrambled[(systematicOffset+i)%len(descrambled)]
	}

	return RateMatchInverse(systematic), ref
}

// assembleRowBits builds the 2-bit-per-carrier value row for one symbol,
// drops the DC column, and expands each remaining value into two boolean
// bits (masks 1 then 2, low bit emitted first).
func assembleRowBits(sym []complex128, rotation, nCarriers, dcCol int) []bool {
	bits := make([]bool, 0, (nCarriers-1)*2)
	for col := 0; col < nCarriers; col++ {
		if col == dcCol {
			continue
		}
		v := demapSymbol(sym[col], rotation)
		bits = append(bits, v&1 != 0)
		bits = append(bits, v&2 != 0)
	}
	return bits
}

func boolSlicesEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PackBits packs a boolean slice into bytes, big-endian within each byte,
// zero-padding the final byte if len(bits) is not a multiple of 8.
func PackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
