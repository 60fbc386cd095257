// Package wgdos implements the WGDOS row-packed field codec: a lossy,
// bit-packed representation of a two-dimensional grid of float32 values
// that quantizes each row independently against its own minimum and a
// caller-supplied accuracy, and optionally elides zero and missing-data
// values from the packed bitstream behind per-row bitmaps.
package wgdos

import (
	"math"

	"github.com/SciTools/libmo-unpack/bitstream"
	"github.com/SciTools/libmo-unpack/diag"
	"github.com/SciTools/libmo-unpack/ibmfloat"
)

// spreadEpsilon guards the float32-to-uint32 spread conversion against
// values that round up to exactly the next power of two at the boundary
// of what fits in 32 bits.
const spreadEpsilon = 0.00001

// Pack quantizes data, a row-major ncols x nrows grid, into a WGDOS packed
// field using accuracy 2^bpacc. mdi identifies missing-data points, which
// are elided from each row behind a bitmap rather than quantized.
func Pack(ctx *diag.Context, data []float32, ncols, nrows int, mdi float32, bpacc int32) ([]byte, error) {
	ctx = ctx.Push("wgdos.Pack")
	if ncols <= 1 {
		return nil, ErrNotTwoDimensional
	}
	if len(data) != ncols*nrows {
		return nil, ErrFormatError
	}

	accuracy := float32(math.Pow(2, float64(bpacc)))

	rows := make([][]byte, nrows)
	for r := 0; r < nrows; r++ {
		row := data[r*ncols : (r+1)*ncols]
		packedRow, err := packRow(ctx, row, mdi, accuracy)
		if err != nil {
			return nil, err
		}
		rows[r] = packedRow
	}

	totalWords := uint32(0)
	for _, row := range rows {
		totalWords += uint32(len(row) / 4)
	}

	out := make([]byte, 0, fieldHeaderSize+totalWords*4)
	out = append(out, encodeFieldHeader(fieldHeader{
		totalLengthWords: totalWords,
		bpacc:            bpacc,
		ncols:            uint16(ncols),
		nrows:            uint16(nrows),
	})...)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out, nil
}

// packRow encodes one row: its base value, bits-per-value, bitmaps and
// packed data words.
func packRow(ctx *diag.Context, row []float32, mdi float32, accuracy float32) ([]byte, error) {
	ncols := len(row)

	mdiPresent := false
	for _, v := range row {
		if v == mdi {
			mdiPresent = true
			break
		}
	}

	bitmapZeros := shouldBitmapZeros(row, mdi)

	// Values that land under a bitmap (mdi or, if selected, zero) are
	// excluded from the min/max/spread computation and from the packed
	// data words: only the remaining values are quantized.
	minval := float32(math.MaxFloat32)
	maxval := float32(-math.MaxFloat32)
	var quantized []float32
	for _, v := range row {
		if v == mdi {
			continue
		}
		if bitmapZeros && v == 0 {
			continue
		}
		if v < minval {
			minval = v
		}
		if v > maxval {
			maxval = v
		}
		quantized = append(quantized, v)
	}

	var base float32
	bpp := 0
	if len(quantized) > 0 {
		diff := maxval - minval
		fSpread := diff / accuracy
		if diff >= accuracy {
			fSpread++
		}
		if fSpread > float32(math.MaxUint32)-spreadEpsilon {
			bpp = 32
		} else {
			spread := uint32(fSpread)
			for spread > 0 {
				bpp++
				spread >>= 1
			}
		}
		if bpp > 31 {
			return nil, ErrInvalidPackingAccuracy
		}
		base = minval
	}

	// The bitmaps are bit-contiguous: when both are present, the zeros
	// bitmap starts at bit ncols, right after the MDI bitmap.
	var bitmapBits []bool
	if mdiPresent {
		matches := make([]bool, ncols)
		for i, v := range row {
			matches[i] = v == mdi
		}
		bitmapBits = append(bitmapBits, matches...)
	}
	if bitmapZeros {
		matches := make([]bool, ncols)
		for i, v := range row {
			matches[i] = v == 0 && v != mdi
		}
		bitmapBits = append(bitmapBits, matches...)
	}

	bitmapBytes := bitstream.FillBitmap(bitmapBits, bitstream.OneTrue)
	for len(bitmapBytes)%4 != 0 {
		bitmapBytes = append(bitmapBytes, 0)
	}

	dataBytes := make([]byte, (len(quantized)*bpp+7)/8)
	for len(dataBytes)%4 != 0 {
		dataBytes = append(dataBytes, 0)
	}
	bitOffset := 0
	for _, v := range quantized {
		digit := uint32((v - minval) / accuracy)
		if err := bitstream.Bitstuff(dataBytes, bitOffset, digit, uint8(bpp)); err != nil {
			return nil, err
		}
		bitOffset += bpp
	}

	nop := uint16((len(bitmapBytes) + len(dataBytes)) / 4)
	header, status := encodeRowHeader(rowHeader{
		base:               base,
		zerosBitmapPresent: bitmapZeros,
		missingDataPresent: mdiPresent,
		bitsPerValue:       bpp,
		nop:                nop,
	})
	if status == ibmfloat.StatusSaturated {
		ctx.Logf(diag.Warning, "row base value %v saturated converting to IBM format", base)
	}

	out := make([]byte, 0, len(header)+len(bitmapBytes)+len(dataBytes))
	out = append(out, header...)
	out = append(out, bitmapBytes...)
	out = append(out, dataBytes...)
	return out, nil
}

// shouldBitmapZeros applies the spread heuristic deciding whether a row's
// zero values are worth eliding behind a bitmap: they are, unless the
// row's non-zero spread is so wide relative to its maximum that bitmapping
// the (few) zeros wouldn't meaningfully shrink the bits-per-value needed
// for everything else. min and max are seeded from the row's first
// element before scanning, whether or not that first element is itself
// zero or missing; a row whose first element is zero (and that has no
// negative values) therefore never satisfies min > 0 below, and its zeros
// stay bitmapped regardless of spread.
func shouldBitmapZeros(row []float32, mdi float32) bool {
	zerosCount := 0
	min := row[0]
	max := row[0]
	for _, v := range row {
		if v == mdi {
			continue
		}
		if v == 0 {
			zerosCount++
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if zerosCount == 0 {
		return false
	}
	if min > 0 && (max-min) > max/float32(math.Sqrt2) {
		return false
	}
	return true
}
