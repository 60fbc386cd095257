// Package rle implements run-length encoding of a missing-data sentinel
// value within a field of float32s: each run of the sentinel is replaced
// by the sentinel itself followed by the run's length, so that fields
// with large masked-out regions compress well ahead of WGDOS packing.
package rle

import "github.com/SciTools/libmo-unpack/diag"

// Encode scans input for runs of mdi and replaces each run with the pair
// (mdi, runLength), returning the encoded field. outCap bounds the length
// of the result; Encode returns ErrBufferTooSmall as soon as it can prove
// the result won't fit, checking capacity before every value and pending
// run it writes, including the run still open when input is exhausted.
func Encode(ctx *diag.Context, input []float32, mdi float32, outCap int) ([]float32, error) {
	ctx = ctx.Push("rle.Encode")
	out := make([]float32, 0, outCap)
	nmdi := 0

	flushRun := func() error {
		if nmdi == 0 {
			return nil
		}
		if len(out)+2 > outCap {
			return ErrBufferTooSmall
		}
		out = append(out, mdi, float32(nmdi))
		ctx.Logf(diag.Message, "adding %d mdi values", nmdi)
		nmdi = 0
		return nil
	}

	for _, v := range input {
		if v == mdi {
			nmdi++
			continue
		}
		if err := flushRun(); err != nil {
			return nil, err
		}
		if len(out)+1 > outCap {
			return nil, ErrBufferTooSmall
		}
		out = append(out, v)
	}
	if err := flushRun(); err != nil {
		return nil, err
	}

	ctx.Logf(diag.Message, "%d words encoded", len(out))
	return out, nil
}

// Decode expands packed back to a field of exactly expectedLen values,
// replacing each (mdi, runLength) pair with runLength copies of mdi.
// Decode returns ErrFormatError if the run lengths or total value count
// are inconsistent with expectedLen, which is the only defense against
// corrupt packed data: unlike Encode, Decode cannot know in advance how
// many values a malformed stream claims to expand to.
func Decode(ctx *diag.Context, packed []float32, expectedLen int, mdi float32) ([]float32, error) {
	ctx = ctx.Push("rle.Decode")
	out := make([]float32, 0, expectedLen)
	i := 0
	for i < len(packed) {
		v := packed[i]
		if v != mdi {
			if len(out)+1 > expectedLen {
				ctx.Logf(diag.Error, "too many values decoded at packed offset %d", i)
				return nil, ErrFormatError
			}
			out = append(out, v)
			i++
			continue
		}
		if i+1 >= len(packed) {
			return nil, ErrFormatError
		}
		nmdi := int(packed[i+1])
		if nmdi < 1 || nmdi >= expectedLen {
			return nil, ErrFormatError
		}
		ctx.Logf(diag.Message, "adding %d mdi values", nmdi)
		i += 2
		if len(out)+nmdi > expectedLen {
			ctx.Logf(diag.Error, "too many values decoded at packed offset %d", i)
			return nil, ErrFormatError
		}
		for j := 0; j < nmdi; j++ {
			out = append(out, mdi)
		}
	}
	if len(out) != expectedLen {
		ctx.Logf(diag.Error, "unpacked %d numbers, expected %d", len(out), expectedLen)
		return nil, ErrFormatError
	}
	return out, nil
}
