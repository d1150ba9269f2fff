package arpatcher

import "fmt"

// literalSentinel marks a DataChunk as carrying its bytes inline rather than
// referencing the old file.
const literalSentinel uint32 = 0xFFFFFFFF

// MinimumReferenceLength is the minimum length a back-reference must have
// to be worth emitting as a reference chunk rather than literal bytes;
// shorter matches do not amortize the 8-byte reference-chunk overhead.
// Match oracle backends use it to decide how hard to search.
const MinimumReferenceLength = 32

// DataChunk is one unit of a patch: either a reference into the old file
// (SourcePosition != literalSentinel) or an inline literal byte run
// (SourcePosition == literalSentinel, InlineBytes populated).
type DataChunk struct {
	Length         uint32
	SourcePosition uint32
	InlineBytes    []byte
}

// IsLiteral reports whether c carries its bytes inline instead of
// referencing the old file.
func (c DataChunk) IsLiteral() bool {
	return c.SourcePosition == literalSentinel
}

// NewReferenceChunk builds a reference chunk, rejecting lengths or source
// positions that would collide with the literal sentinel or overflow the
// wire format's 32-bit fields.
func NewReferenceChunk(sourcePosition, length int) (DataChunk, error) {
	if length <= 0 || length > 0xFFFFFFFE {
		return DataChunk{}, fmt.Errorf("reference chunk length %d out of range: %w", length, ErrLengthOverflow)
	}
	if sourcePosition < 0 || sourcePosition > 0xFFFFFFFE {
		return DataChunk{}, fmt.Errorf("reference chunk source position %d out of range: %w", sourcePosition, ErrLengthOverflow)
	}
	return DataChunk{
		Length:         uint32(length),
		SourcePosition: uint32(sourcePosition),
	}, nil
}

// NewLiteralChunk builds a literal chunk carrying data inline.
func NewLiteralChunk(data []byte) (DataChunk, error) {
	if len(data) == 0 || len(data) > 0xFFFFFFFE {
		return DataChunk{}, fmt.Errorf("literal chunk length %d out of range: %w", len(data), ErrLengthOverflow)
	}
	return DataChunk{
		Length:         uint32(len(data)),
		SourcePosition: literalSentinel,
		InlineBytes:    data,
	}, nil
}

// PatchData is the in-memory representation of a complete patch: the file
// names it was computed between, the escape parameters chosen for the old
// file, and the ordered chunk list whose concatenation reproduces the new
// file.
type PatchData struct {
	Version     int
	OldFileName string
	NewFileName string
	Escape      EscapeParams
	Chunks      []DataChunk
}

// SupportedVersion is the only patch data version this package writes or
// reads.
const SupportedVersion = 1000
