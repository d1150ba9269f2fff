// Package suffixoracle implements arpatcher.MatchOracle on top of the
// standard library's index/suffixarray. This is the default match oracle
// backend: no third-party suffix-tree or suffix-array library appears
// anywhere in the example corpus this project was grown from, so the
// stdlib structure is the idiomatic choice here rather than a gap.
package suffixoracle

import (
	"encoding/binary"
	"index/suffixarray"
	"math/bits"
	"runtime"
	"sort"

	arpatcher "github.com/BSG-75/ARPatcherData"
)

// maxProbeCandidates bounds how many suffix-array hits LongestMatch will
// extend per query, so a highly repetitive old file cannot make a single
// query degenerate into an O(n) scan of every occurrence.
const maxProbeCandidates = 16

// Oracle is an arpatcher.MatchOracle backed by a suffix array built over
// the escaped old file. The suffix array only ever generates candidates;
// every candidate is verified against the unescaped buffers with a direct
// byte comparison before it is trusted, which sidesteps any subtlety in
// mapping escaped offsets back to unescaped ones.
type Oracle struct {
	old           []byte
	params        arpatcher.EscapeParams
	index         *suffixarray.Index
	escapedStarts []int
}

// New builds an Oracle over old, using params (as returned by
// arpatcher.ChooseEscape(old, 0)) to drive the old file through the
// suffix array's forbidden-zero-byte restriction.
func New(old []byte, params arpatcher.EscapeParams) *Oracle {
	escapedOld, starts := arpatcher.EncodeWithBoundaries(old, params)
	return &Oracle{
		old:           old,
		params:        params,
		index:         suffixarray.New(escapedOld),
		escapedStarts: starts,
	}
}

// LongestMatch implements arpatcher.MatchOracle. It only bothers finding
// the true longest match once it has confirmed one of at least
// arpatcher.MinimumReferenceLength exists — the greedy segmenter never acts
// on a shorter one, so there is nothing to gain by computing it exactly.
func (o *Oracle) LongestMatch(newFile []byte, i int) (position, length int) {
	maxLen := len(newFile) - i
	if maxLen < arpatcher.MinimumReferenceLength {
		return 0, 0
	}

	// Gallop, then bisect, to the longest prefix of newFile[i:] that still
	// occurs in the escaped old file; offsets holds that prefix's hits.
	lo, hi := arpatcher.MinimumReferenceLength, maxLen+1
	offsets := o.index.Lookup(arpatcher.Encode(newFile[i:i+lo], o.params), maxProbeCandidates)
	for len(offsets) > 0 && lo < hi-1 {
		mid := (lo + hi) / 2
		if lo*2 < hi {
			mid = lo * 2
		}
		if longer := o.index.Lookup(arpatcher.Encode(newFile[i:i+mid], o.params), maxProbeCandidates); len(longer) > 0 {
			offsets, lo = longer, mid
		} else {
			hi = mid
		}
	}
	if len(offsets) == 0 {
		return 0, 0
	}

	bestLength := 0
	bestPosition := 0
	for _, escapedOffset := range offsets {
		unescapedPosition, ok := o.boundary(escapedOffset)
		if !ok {
			continue
		}
		length := extendMatch(o.old, unescapedPosition, newFile, i, maxLen)
		if length > bestLength {
			bestLength = length
			bestPosition = unescapedPosition
		}
	}

	if bestLength < arpatcher.MinimumReferenceLength {
		return 0, 0
	}
	return bestPosition, bestLength
}

// boundary reports whether escapedOffset is exactly where some old[k]
// begins in the escaped stream, and returns k if so. An offset landing in
// the middle of a two-byte escape sequence is not a valid match start.
func (o *Oracle) boundary(escapedOffset int) (int, bool) {
	k := sort.Search(len(o.escapedStarts), func(i int) bool {
		return o.escapedStarts[i] >= escapedOffset
	})
	if k == len(o.escapedStarts) || o.escapedStarts[k] != escapedOffset {
		return 0, false
	}
	return k, true
}

// extendMatch returns how many leading bytes of newFile[i:i+maxLen] equal
// old[p:], comparing directly against the unescaped buffers.
func extendMatch(old []byte, p int, newFile []byte, i, maxLen int) int {
	limit := maxLen
	if remaining := len(old) - p; remaining < limit {
		limit = remaining
	}

	a, b := old[p:p+limit], newFile[i:i+limit]
	n := 0
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		for n+8 <= limit {
			x := binary.LittleEndian.Uint64(a[n:])
			y := binary.LittleEndian.Uint64(b[n:])
			if x != y {
				return n + bits.TrailingZeros64(x^y)>>3
			}
			n += 8
		}
	}
	for n < limit && a[n] == b[n] {
		n++
	}
	return n
}
