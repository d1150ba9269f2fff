package arpatcher

// MatchOracle answers "longest prefix of new[i:] that occurs somewhere in
// the old file" queries on behalf of the greedy segmenter. It wraps
// whatever suffix structure (suffix array, suffix tree, FM-index) the
// backend chooses; the segmenter itself never touches the index directly.
//
// Implementations: suffixoracle.Oracle (the default, backed by
// index/suffixarray) and chainoracle.Oracle (a faster, approximate
// hash-chain backend for large inputs).
type MatchOracle interface {
	// LongestMatch returns the longest length such that
	// newFile[i:i+length] == oldFile[position:position+length]. If no
	// match exists, length is 0 and position is meaningless. If several
	// positions tie on length, any one of them may be returned.
	//
	// The backends in this module report length 0 for any match shorter
	// than MinimumReferenceLength, and chainoracle.Oracle examines only a
	// bounded number of candidates, so the length it returns can be shorter
	// than the longest match.
	LongestMatch(newFile []byte, i int) (position, length int)
}
