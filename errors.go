package arpatcher

import "errors"

// Error kinds returned by the escape transform, the codec, and apply.
// Callers distinguish them with errors.Is.
var (
	// ErrUnsupportedVersion is returned when a patch file's version field
	// is not the one this package understands.
	ErrUnsupportedVersion = errors.New("arpatcher: unsupported patch data version")

	// ErrMalformedHeader is returned when the magic string, a delimiter,
	// or a fixed token does not match what the format requires.
	ErrMalformedHeader = errors.New("arpatcher: malformed patch header")

	// ErrDomainError is returned when a numeric field is outside its
	// declared range, such as an escape byte above 255.
	ErrDomainError = errors.New("arpatcher: value out of range")

	// ErrLengthOverflow is returned when a chunk length or source position
	// exceeds what a 32-bit field can hold, excluding the literal sentinel.
	ErrLengthOverflow = errors.New("arpatcher: chunk length overflow")

	// ErrEscapeDecodeError is returned by the escape decoder on a dangling
	// escape byte or an invalid escape pair.
	ErrEscapeDecodeError = errors.New("arpatcher: invalid escape sequence")

	// ErrTruncatedInput is returned when a patch stream ends in the middle
	// of a field or a chunk payload.
	ErrTruncatedInput = errors.New("arpatcher: truncated patch input")

	// ErrReferenceOutOfBounds is returned by Apply when a reference chunk
	// names a range past the end of the old file.
	ErrReferenceOutOfBounds = errors.New("arpatcher: reference chunk out of bounds")
)
