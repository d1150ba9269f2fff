// Package chainoracle implements arpatcher.MatchOracle with a 4-byte
// rolling hash chain, adapted from the hash-chaining matcher in the
// teacher repository's chain.go. The original is self-referential (it
// matches a buffer against its own earlier bytes); this version builds the
// chain over the old file once and searches it from query positions in the
// new file, trading the suffix array's exactness for speed on large inputs.
package chainoracle

import (
	"encoding/binary"
	"math/bits"
	"runtime"

	arpatcher "github.com/BSG-75/ARPatcherData"
)

const (
	tableSize = 1 << 14
	hashShift = 32 - 14
	tableMask = tableSize - 1
	hashMul32 = 0x1e35a7bd

	// defaultSearchLen bounds how many same-hash candidates LongestMatch
	// walks before giving up, the way chain.go's SearchLen does.
	defaultSearchLen = 32
)

// Oracle is an arpatcher.MatchOracle backed by a hash chain over the old
// file. Unlike suffixoracle, it never needs the escape transform: the
// forbidden-zero-byte restriction is a suffix-array concern, not a hashing
// one, so it operates directly on the unescaped old file.
type Oracle struct {
	old       []byte
	table     [tableSize]int32 // table[h] is 1+position of the most recent 4-byte sequence hashing to h, or 0
	prev      []int32          // prev[p] is 1+the previous position with the same hash as old[p:p+4], or 0
	SearchLen int              // candidates to examine per query; defaults to defaultSearchLen
}

// New builds an Oracle over old. params is accepted to satisfy
// arpatcher.OracleFactory's signature but is unused: hashing has no
// forbidden-byte restriction to escape around.
func New(old []byte, params arpatcher.EscapeParams) *Oracle {
	_ = params
	o := &Oracle{old: old, SearchLen: defaultSearchLen}
	if len(old) < 4 {
		return o
	}

	o.prev = make([]int32, len(old))
	for p := 0; p+4 <= len(old); p++ {
		h := hash4(binary.LittleEndian.Uint32(old[p:])) & tableMask
		o.prev[p] = o.table[h]
		o.table[h] = int32(p) + 1
	}
	return o
}

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> hashShift
}

// LongestMatch implements arpatcher.MatchOracle.
func (o *Oracle) LongestMatch(newFile []byte, i int) (position, length int) {
	maxLen := len(newFile) - i
	if maxLen < 4 || len(o.old) < 4 {
		return 0, 0
	}

	searchLen := o.SearchLen
	if searchLen <= 0 {
		searchLen = defaultSearchLen
	}

	h := hash4(binary.LittleEndian.Uint32(newFile[i:])) & tableMask
	candidate := o.table[h]

	bestLength := 0
	bestPosition := 0
	for steps := 0; candidate != 0 && steps < searchLen; steps++ {
		p := int(candidate - 1)
		if l := extendMatch(o.old, p, newFile, i, maxLen); l > bestLength {
			bestLength = l
			bestPosition = p
		}
		candidate = o.prev[p]
	}

	if bestLength < arpatcher.MinimumReferenceLength {
		return 0, 0
	}
	return bestPosition, bestLength
}

// extendMatch returns how many leading bytes of newFile[i:i+maxLen] equal
// old[p:], using 8-byte XOR comparisons the way chain.go's extendMatch does.
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
