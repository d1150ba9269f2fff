package arpatcher

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EscapeParams describes a reversible byte substitution that removes every
// occurrence of toBeEscaped from a byte stream, so that the stream can be
// handed to an indexing structure that forbids that byte (conventionally
// zero).
//
//   - toBeEscaped is represented in the escaped stream as SubstituteCharacter.
//   - SubstituteCharacter is represented as [Escape, Escape2].
//   - Escape is represented as [Escape, Escape].
type EscapeParams struct {
	ToBeEscaped         byte
	SubstituteCharacter byte
	Escape              byte
	Escape2             byte
	EstimatedNewSize    int
}

// ChooseEscape picks SubstituteCharacter, Escape, and Escape2 as the three
// least-frequent bytes in source, excluding toBeEscaped, ties broken by
// smallest byte value. It also computes EstimatedNewSize, the exact length
// Encode(source, params) will produce.
func ChooseEscape(source []byte, toBeEscaped byte) EscapeParams {
	frequencies := tabulateFrequencies(source)

	frequencies[toBeEscaped] = ^uint64(0)
	substitute := minIndex(frequencies)
	frequencies[substitute] = ^uint64(0)
	escape := minIndex(frequencies)
	frequencies[escape] = ^uint64(0)
	escape2 := minIndex(frequencies)

	params := EscapeParams{
		ToBeEscaped:         toBeEscaped,
		SubstituteCharacter: substitute,
		Escape:              escape,
		Escape2:             escape2,
	}
	params.recalculateEstimatedNewSize(source)
	return params
}

func (p *EscapeParams) recalculateEstimatedNewSize(source []byte) {
	size := len(source)
	for _, b := range source {
		if b == p.SubstituteCharacter || b == p.Escape {
			size++
		}
	}
	p.EstimatedNewSize = size
}

// tabulateFrequencies counts occurrences of each byte value in source,
// partitioning the work across GOMAXPROCS slabs and summing the per-slab
// histograms. The reduction is associative and commutative, so the result
// is independent of how the slabs are split.
func tabulateFrequencies(source []byte) [256]uint64 {
	var total [256]uint64
	if len(source) == 0 {
		return total
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(source) {
		workers = len(source)
	}
	if workers <= 1 {
		for _, b := range source {
			total[b]++
		}
		return total
	}

	partials := make([][256]uint64, workers)
	chunkSize := (len(source) + workers - 1) / workers

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunkSize
		end := start + chunkSize
		if start >= len(source) {
			break
		}
		if end > len(source) {
			end = len(source)
		}
		g.Go(func() error {
			slab := &partials[w]
			for _, b := range source[start:end] {
				slab[b]++
			}
			return nil
		})
	}
	_ = g.Wait() // no goroutine in this group can return an error

	for _, slab := range partials {
		for b, count := range slab {
			total[b] += count
		}
	}
	return total
}

func minIndex(frequencies [256]uint64) byte {
	minByte := byte(0)
	minValue := frequencies[0]
	for i := 1; i < 256; i++ {
		if frequencies[i] < minValue {
			minValue = frequencies[i]
			minByte = byte(i)
		}
	}
	return minByte
}

// Encode rewrites source so it contains no occurrence of params.ToBeEscaped.
// len(Encode(source, params)) always equals params.EstimatedNewSize.
func Encode(source []byte, params EscapeParams) []byte {
	result := make([]byte, 0, params.EstimatedNewSize)
	for _, b := range source {
		switch {
		case b == params.ToBeEscaped:
			result = append(result, params.SubstituteCharacter)
		case b == params.SubstituteCharacter:
			result = append(result, params.Escape, params.Escape2)
		case b == params.Escape:
			result = append(result, params.Escape, params.Escape)
		default:
			result = append(result, b)
		}
	}
	return result
}

// EncodeWithBoundaries is Encode, plus the escaped offset at which each
// source byte's encoding begins. starts has len(source)+1 entries; starts[k]
// is where source[k] begins in the returned stream (or the stream's total
// length, for k == len(source)). Match oracle backends use it to tell
// whether a position found inside an escaped buffer falls on a source-byte
// boundary or in the middle of a two-byte escape sequence.
func EncodeWithBoundaries(source []byte, params EscapeParams) (encoded []byte, starts []int) {
	encoded = make([]byte, 0, params.EstimatedNewSize)
	starts = make([]int, len(source)+1)
	for i, b := range source {
		starts[i] = len(encoded)
		switch {
		case b == params.ToBeEscaped:
			encoded = append(encoded, params.SubstituteCharacter)
		case b == params.SubstituteCharacter:
			encoded = append(encoded, params.Escape, params.Escape2)
		case b == params.Escape:
			encoded = append(encoded, params.Escape, params.Escape)
		default:
			encoded = append(encoded, b)
		}
	}
	starts[len(source)] = len(encoded)
	return encoded, starts
}

// Decode inverts Encode. It returns ErrEscapeDecodeError if escaped contains
// a dangling escape byte or an escape byte followed by anything other than
// Escape or Escape2.
func Decode(escaped []byte, params EscapeParams) ([]byte, error) {
	result := make([]byte, 0, len(escaped))
	escapeOn := false
	for _, b := range escaped {
		if escapeOn {
			escapeOn = false
			switch b {
			case params.Escape:
				result = append(result, params.Escape)
			case params.Escape2:
				result = append(result, params.SubstituteCharacter)
			default:
				return nil, fmt.Errorf("byte 0x%02x after escape: %w", b, ErrEscapeDecodeError)
			}
			continue
		}
		switch b {
		case params.Escape:
			escapeOn = true
		case params.SubstituteCharacter:
			result = append(result, params.ToBeEscaped)
		default:
			result = append(result, b)
		}
	}
	if escapeOn {
		return nil, fmt.Errorf("input ends with a dangling escape byte: %w", ErrEscapeDecodeError)
	}
	return result, nil
}
