package ppfield

import "errors"

// ErrUnrecognizedPackingCode is returned by UnpackPPField when code names
// no known packing method.
var ErrUnrecognizedPackingCode = errors.New("ppfield: unrecognized packing code")

// ErrFormatError is returned by UnpackPPField when packed isn't a whole
// number of 4-byte words or, for PackUnpacked, doesn't hold exactly
// unpackedLen words.
var ErrFormatError = errors.New("ppfield: malformed packed field")
