// Package ppfield dispatches a post-processing field to one of the packing
// codecs this module implements, based on a caller-supplied packing code.
// It mirrors the field-level switch a PP header's LBPACK value drives in
// the format this codec descends from, including that format's guarantee
// that a packing failure never loses data: PackPPField always returns
// usable packed bytes, falling back to an unpacked big-endian copy of the
// input when the requested codec can't handle it.
package ppfield

import (
	"encoding/binary"
	"math"

	"github.com/SciTools/libmo-unpack/diag"
	"github.com/SciTools/libmo-unpack/rle"
	"github.com/SciTools/libmo-unpack/wgdos"
)

// PackCode identifies a field packing method.
type PackCode uint8

// Packing codes.
const (
	PackUnpacked PackCode = 0
	PackWGDOS    PackCode = 1
	PackRLE      PackCode = 4
)

// PackPPField packs data (an ncols x nrows row-major grid) using the
// requested method. If the requested method can't pack the data (an
// oversized row under WGDOS, an RLE buffer that can't hold the worst
// case, or an unrecognized code), PackPPField still returns a usable
// unpacked big-endian encoding of data alongside the failure reason,
// rather than losing the field: the caller always gets back bytes it can
// later unpack with PackUnpacked, but the returned error reports why the
// requested method wasn't used.
func PackPPField(ctx *diag.Context, data []float32, ncols, nrows int, mdi float32, code PackCode, bpacc int32) ([]byte, error) {
	ctx = ctx.Push("ppfield.PackPPField")

	switch code {
	case PackUnpacked:
		return bigEndianBytes(data), nil

	case PackWGDOS:
		packed, err := wgdos.Pack(ctx, data, ncols, nrows, mdi, bpacc)
		if err != nil {
			ctx.Logf(diag.Warning, "wgdos packing failed (%v); falling back to unpacked representation", err)
			return bigEndianBytes(data), err
		}
		return packed, nil

	case PackRLE:
		encoded, err := rle.Encode(ctx, data, mdi, len(data))
		if err != nil {
			ctx.Logf(diag.Warning, "rle packing failed (%v); falling back to unpacked representation", err)
			return bigEndianBytes(data), err
		}
		// The RLE-encoded words are still in host order; only the
		// wire bytes need the big-endian swap, not the values
		// themselves, so this reuses the same encoder as the
		// PackUnpacked path.
		return bigEndianBytes(encoded), nil

	default:
		ctx.Logf(diag.Warning, "unrecognized packing code %d; falling back to unpacked representation", code)
		return bigEndianBytes(data), ErrUnrecognizedPackingCode
	}
}

// UnpackPPField reverses PackPPField for a field known to have been packed
// with code, expanding packed back into unpackedLen float32 values.
func UnpackPPField(ctx *diag.Context, packed []byte, code PackCode, mdi float32, unpackedLen int) ([]float32, error) {
	ctx = ctx.Push("ppfield.UnpackPPField")

	switch code {
	case PackUnpacked:
		return float32sFromBigEndian(packed, unpackedLen)

	case PackWGDOS:
		return wgdos.Unpack(ctx, packed, unpackedLen, mdi)

	case PackRLE:
		if len(packed)%4 != 0 {
			return nil, ErrFormatError
		}
		hostOrder, err := float32sFromBigEndian(packed, len(packed)/4)
		if err != nil {
			return nil, err
		}
		return rle.Decode(ctx, hostOrder, unpackedLen, mdi)

	default:
		return nil, ErrUnrecognizedPackingCode
	}
}

func bigEndianBytes(data []float32) []byte {
	out := make([]byte, 4*len(data))
	for i, v := range data {
		binary.BigEndian.PutUint32(out[4*i:4*i+4], math.Float32bits(v))
	}
	return out
}

func float32sFromBigEndian(buf []byte, n int) ([]float32, error) {
	if len(buf) != 4*n {
		return nil, ErrFormatError
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[4*i : 4*i+4]))
	}
	return out, nil
}
