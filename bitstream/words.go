// Package bitstream implements the MSB-first bit-packing primitives that
// the WGDOS row codec is built from: packing and unpacking sequences of
// n-bit unsigned words, and packing and unpacking single-bit bitmaps.
package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// ExtractNBitWords unpacks n consecutive unsigned integers from packed,
// each bitsPerValue bits wide, counting bits MSB-first across bytes
// starting at bit 0. The i'th returned word occupies bits
// [i*bitsPerValue, (i+1)*bitsPerValue) of packed.
//
// bitsPerValue must be in [1, 32].
func ExtractNBitWords(packed []byte, bitsPerValue uint8, n int) ([]uint32, error) {
	if bitsPerValue < 1 || bitsPerValue > 32 {
		return nil, ErrInvalidBitWidth
	}
	if n <= 0 {
		return []uint32{}, nil
	}
	r := bitio.NewReader(bytes.NewReader(packed))
	out := make([]uint32, n)
	for i := range out {
		v, err := r.ReadBits(bitsPerValue)
		if err != nil {
			return nil, errutil.Newf("bitstream.ExtractNBitWords: word %d: %v", i, err)
		}
		out[i] = uint32(v)
	}
	return out, nil
}

// orWriter writes bytes into dst by OR-ing them in place rather than
// overwriting, starting at byte offset pos. It backs the bitio.Writer used
// by Bitstuff so that partially filled bytes accumulate bits from
// successive calls instead of clobbering ones already written, matching
// the "additive within a byte" precondition on pre-zeroed buffers.
type orWriter struct {
	dst []byte
	pos int
}

func (w *orWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		if w.pos >= len(w.dst) {
			return i, io.ErrShortBuffer
		}
		w.dst[w.pos] |= b
		w.pos++
	}
	return len(p), nil
}

// Bitstuff writes the low nbits bits of value into bytes starting at bit
// position bitOffset, MSB-first. The bytes covered by the write must
// already be zeroed for the bits being written: the write is additive
// (OR), so that several Bitstuff calls can lay adjacent values into the
// same byte without disturbing each other.
//
// nbits must be at most 31, and value must fit in nbits bits.
func Bitstuff(bytesOut []byte, bitOffset int, value uint32, nbits uint8) error {
	if nbits > 31 {
		return ErrInvalidBitWidth
	}
	if nbits == 0 {
		if value != 0 {
			return ErrValueTooLarge
		}
		return nil
	}
	if value >= uint32(1)<<nbits {
		return ErrValueTooLarge
	}

	byteOffset := bitOffset / 8
	lead := uint8(bitOffset % 8)
	w := bitio.NewWriter(&orWriter{dst: bytesOut, pos: byteOffset})
	if lead > 0 {
		if err := w.WriteBits(0, lead); err != nil {
			return errutil.Err(err)
		}
	}
	if err := w.WriteBits(uint64(value), nbits); err != nil {
		return errutil.Err(err)
	}
	return errutil.Err(w.Close())
}
