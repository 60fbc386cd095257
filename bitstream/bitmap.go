package bitstream

import (
	"bytes"

	"github.com/icza/bitio"
)

// Polarity controls how a single packed bit maps to a bool in
// ExtractBitmaps.
type Polarity uint8

// Polarity values.
const (
	// OneTrue maps a set bit (1) to true.
	OneTrue Polarity = iota
	// ZeroTrue maps a clear bit (0) to true (inverted).
	ZeroTrue
)

// ExtractBitmaps unpacks nbits single bits starting at startBit (MSB-first
// byte order, no alignment requirement on startBit) and returns them as a
// bool slice, applying polarity. The caller is responsible for ensuring
// packed holds at least ceil((startBit+nbits)/8) bytes; per the WGDOS row
// layout that reserves bitmaps must always size their backing buffer
// before calling this, so a short read here would indicate a coding error
// in the caller rather than malformed input, and is not reported as an
// error.
func ExtractBitmaps(packed []byte, startBit, nbits int, polarity Polarity) []bool {
	out := make([]bool, nbits)
	if nbits <= 0 {
		return out
	}
	byteOffset := startBit / 8
	skip := uint8(startBit % 8)
	r := bitio.NewReader(bytes.NewReader(packed[byteOffset:]))
	if skip > 0 {
		if _, err := r.ReadBits(skip); err != nil {
			return out
		}
	}
	for i := range out {
		bit, err := r.ReadBool()
		if err != nil {
			return out
		}
		if polarity == ZeroTrue {
			bit = !bit
		}
		out[i] = bit
	}
	return out
}

// FillBitmap packs matches into ceil(len(matches)/8) bytes, MSB-first, one
// bit per element: a true element is written as a 1 bit under OneTrue
// polarity or a 0 bit under ZeroTrue polarity. A final, partially filled
// byte has its used bits shifted to the top and its low, unused bits left
// clear (before polarity inversion), matching the row bitmaps a WGDOS
// field stores even when a row's column count isn't a multiple of 8.
func FillBitmap(matches []bool, polarity Polarity) []byte {
	n := len(matches)
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i += 8 {
		var b byte
		j := 0
		for ; j < 8 && i+j < n; j++ {
			b <<= 1
			if matches[i+j] {
				b |= 1
			}
		}
		if j < 8 {
			b <<= uint(8 - j)
		}
		if polarity == ZeroTrue {
			b = ^b
		}
		out[i/8] = b
	}
	return out
}
