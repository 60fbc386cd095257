package rle

import "errors"

// ErrBufferTooSmall is returned by Encode when the output cannot hold the
// result of encoding, including any run still pending when the input ends.
var ErrBufferTooSmall = errors.New("rle: output buffer too small")

// ErrFormatError is returned by Decode when packed data is malformed: a
// run length that is non-positive or implausibly large, or more values
// than expectedLen decoding out of the stream.
var ErrFormatError = errors.New("rle: malformed run-length encoded data")
