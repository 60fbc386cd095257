package wgdos

import (
	"encoding/binary"
	"math"

	"github.com/SciTools/libmo-unpack/ibmfloat"
)

const fieldHeaderSize = 12
const rowHeaderSize = 8

// fieldHeader is the 12-byte header at the start of a WGDOS packed field:
// the length in 32-bit words of the rows that follow it (the header itself
// is not counted), the packing accuracy expressed
// as a base-2 logarithm, and the field's dimensions.
type fieldHeader struct {
	totalLengthWords uint32
	bpacc            int32
	ncols            uint16
	nrows            uint16
}

func encodeFieldHeader(h fieldHeader) []byte {
	buf := make([]byte, fieldHeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.totalLengthWords)
	binary.BigEndian.PutUint32(buf[4:8], uint32(h.bpacc))
	binary.BigEndian.PutUint16(buf[8:10], h.ncols)
	binary.BigEndian.PutUint16(buf[10:12], h.nrows)
	return buf
}

func decodeFieldHeader(buf []byte, expectedUnpackedLen int) (fieldHeader, float32, error) {
	if len(buf) < fieldHeaderSize {
		return fieldHeader{}, 0, ErrFormatError
	}
	h := fieldHeader{
		totalLengthWords: binary.BigEndian.Uint32(buf[0:4]),
		bpacc:            int32(binary.BigEndian.Uint32(buf[4:8])),
		ncols:            binary.BigEndian.Uint16(buf[8:10]),
		nrows:            binary.BigEndian.Uint16(buf[10:12]),
	}
	if h.ncols == 0 || h.nrows == 0 {
		return h, 0, ErrFormatError
	}
	if int(h.ncols)*int(h.nrows) != expectedUnpackedLen {
		return h, 0, ErrFormatError
	}
	accuracy := float32(math.Pow(2, float64(h.bpacc)))
	return h, accuracy, nil
}

// rowHeader is the 8-byte header preceding each row's bitmaps and packed
// data: a base value stored as an IBM float, the bits-per-value and
// bitmap-presence flags, and the word count of the rest of the row.
type rowHeader struct {
	base                float32
	zerosBitmapPresent  bool
	missingDataPresent  bool
	bitsPerValue        int
	nop                 uint16 // word count of the row's bitmaps + data
}

// Row flag bits, within the 16-bit flags halfword that occupies the top
// 16 bits of the row header's second word (above the low 16 bits, which
// hold nop).
const (
	rowFlagZerosPresent = 1 << 7
	rowFlagMDIPresent   = 1 << 5
	rowBitsPerValueMask = 0x1F
)

func encodeRowHeader(h rowHeader) ([]byte, ibmfloat.Status) {
	ibmBits, status := ibmfloat.Float32ToIBM32Bits(h.base)
	buf := make([]byte, rowHeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], ibmBits)

	flags := uint32(h.bitsPerValue) & rowBitsPerValueMask
	if h.zerosBitmapPresent {
		flags |= rowFlagZerosPresent
	}
	if h.missingDataPresent {
		flags |= rowFlagMDIPresent
	}
	word := (flags << 16) | uint32(h.nop)
	binary.BigEndian.PutUint32(buf[4:8], word)
	return buf, status
}

func decodeRowHeader(buf []byte) (rowHeader, error) {
	if len(buf) < rowHeaderSize {
		return rowHeader{}, ErrFormatError
	}
	baseBits := binary.BigEndian.Uint32(buf[0:4])
	f, _ := ibmfloat.IBM32BitsToFloat32(baseBits)

	word := binary.BigEndian.Uint32(buf[4:8])
	flags := word >> 16
	return rowHeader{
		base:               f,
		zerosBitmapPresent: flags&rowFlagZerosPresent != 0,
		missingDataPresent: flags&rowFlagMDIPresent != 0,
		bitsPerValue:       int(flags & rowBitsPerValueMask),
		nop:                uint16(word & 0xFFFF),
	}, nil
}
