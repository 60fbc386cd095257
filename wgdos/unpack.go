package wgdos

import (
	"github.com/SciTools/libmo-unpack/bitstream"
	"github.com/SciTools/libmo-unpack/diag"
)

// Unpack reverses Pack, expanding packed back into expectedLen float32
// values. mdi must match the sentinel the field was packed with; points
// for which the packed row's data happens to dequantize to exactly mdi
// are reported via a diagnostic message but are not treated as an error,
// matching the original codec's clash counting.
func Unpack(ctx *diag.Context, packed []byte, expectedLen int, mdi float32) ([]float32, error) {
	ctx = ctx.Push("wgdos.Unpack")
	fh, accuracy, err := decodeFieldHeader(packed, expectedLen)
	if err != nil {
		return nil, err
	}

	ncols := int(fh.ncols)
	nrows := int(fh.nrows)
	out := make([]float32, 0, expectedLen)

	off := fieldHeaderSize
	clashes := 0
	for r := 0; r < nrows; r++ {
		rowStart := off
		row, n, nop, err := unpackRow(packed, off, ncols, accuracy, mdi)
		if err != nil {
			return nil, err
		}
		off += n
		wantNext := rowStart + rowHeaderSize + int(nop)*4
		if off != wantNext {
			ctx.Logf(diag.Error, "row %d: consumed %d bytes, header declares %d", r, off-rowStart, wantNext-rowStart)
			return nil, ErrFormatError
		}
		for _, v := range row {
			if v == mdi {
				clashes++
			}
		}
		out = append(out, row...)
	}
	if clashes > 0 {
		ctx.Logf(diag.Warning, "%d unpacked value(s) coincide with the missing-data indicator", clashes)
	}
	if len(out) != expectedLen {
		return nil, ErrFormatError
	}
	return out, nil
}

// unpackRow decodes one row starting at byte offset start in packed,
// returning the row's ncols values, the number of bytes consumed (header +
// bitmaps + data), and the row header's declared nop word count.
func unpackRow(packed []byte, start, ncols int, accuracy float32, mdi float32) ([]float32, int, uint16, error) {
	if start+rowHeaderSize > len(packed) {
		return nil, 0, 0, ErrFormatError
	}
	rh, err := decodeRowHeader(packed[start : start+rowHeaderSize])
	if err != nil {
		return nil, 0, 0, err
	}

	mapsize := (ncols + 7) / 8
	bitmapStart := start + rowHeaderSize
	bitmapLen := 0
	if rh.missingDataPresent {
		bitmapLen += mapsize
	}
	if rh.zerosBitmapPresent {
		bitmapLen += mapsize
	}
	paddedBitmapLen := bitmapLen
	for paddedBitmapLen%4 != 0 {
		paddedBitmapLen++
	}

	if bitmapStart+paddedBitmapLen > len(packed) {
		return nil, 0, 0, ErrFormatError
	}
	bitmapBytes := packed[bitmapStart : bitmapStart+paddedBitmapLen]

	var mdiMatches, zerosMatches []bool
	bitOff := 0
	if rh.missingDataPresent {
		mdiMatches = bitstream.ExtractBitmaps(bitmapBytes, bitOff, ncols, bitstream.OneTrue)
		bitOff += ncols
	}
	if rh.zerosBitmapPresent {
		zerosMatches = bitstream.ExtractBitmaps(bitmapBytes, bitOff, ncols, bitstream.OneTrue)
	}

	nQuantized := 0
	for i := 0; i < ncols; i++ {
		if mdiMatches != nil && mdiMatches[i] {
			continue
		}
		if zerosMatches != nil && zerosMatches[i] {
			continue
		}
		nQuantized++
	}

	dataStart := bitmapStart + paddedBitmapLen
	dataLen := (nQuantized*rh.bitsPerValue + 7) / 8
	paddedDataLen := dataLen
	for paddedDataLen%4 != 0 {
		paddedDataLen++
	}
	if dataStart+paddedDataLen > len(packed) {
		return nil, 0, 0, ErrFormatError
	}

	var digits []uint32
	if nQuantized > 0 && rh.bitsPerValue > 0 {
		digits, err = bitstream.ExtractNBitWords(packed[dataStart:dataStart+paddedDataLen], uint8(rh.bitsPerValue), nQuantized)
		if err != nil {
			return nil, 0, 0, ErrFormatError
		}
	} else if nQuantized > 0 {
		digits = make([]uint32, nQuantized)
	}

	out := make([]float32, ncols)
	di := 0
	for i := 0; i < ncols; i++ {
		switch {
		case mdiMatches != nil && mdiMatches[i]:
			out[i] = mdi
		case zerosMatches != nil && zerosMatches[i]:
			out[i] = 0
		default:
			dval := float64(accuracy)*float64(digits[di]) + float64(rh.base)
			di++
			out[i] = float32(dval)
		}
	}

	consumed := rowHeaderSize + paddedBitmapLen + paddedDataLen
	return out, consumed, rh.nop, nil
}
