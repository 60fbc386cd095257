package wgdos

import "errors"

// ErrNotTwoDimensional is returned by Pack when ncols <= 1: WGDOS packing
// operates row-wise and needs at least two columns to find a spread of
// values worth quantizing.
var ErrNotTwoDimensional = errors.New("wgdos: field is not two-dimensional")

// ErrInvalidPackingAccuracy is returned by Pack when a row's value spread,
// divided by the requested accuracy, needs 32 or more bits to represent:
// the accuracy requested is too fine for the data's range.
var ErrInvalidPackingAccuracy = errors.New("wgdos: packing accuracy produces an oversized row")

// ErrFormatError is returned by Unpack when packed data is structurally
// inconsistent with its own header: a row's declared length doesn't match
// the bytes actually consumed decoding it, or the field header disagrees
// with the caller's expected unpacked length.
var ErrFormatError = errors.New("wgdos: malformed packed field")
