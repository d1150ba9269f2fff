package arpatcher

// Segment walks newFile left to right, querying oracle at every position
// not already covered by an emitted reference chunk, and returns the chunk
// list whose concatenation reproduces newFile exactly.
//
// A candidate match is only emitted as a reference chunk once its length
// reaches MinimumReferenceLength; shorter matches are folded into the
// pending literal run instead, mirroring the teacher's GreedyParser main
// loop (advance by one on a non-match, flush-and-jump on a match).
func Segment(oracle MatchOracle, newFile []byte) ([]DataChunk, error) {
	var chunks []DataChunk
	literalStart := 0

	flushLiteral := func(end int) error {
		if end <= literalStart {
			return nil
		}
		for start := literalStart; start < end; {
			chunkEnd := end
			if chunkEnd-start > 0xFFFFFFFE {
				chunkEnd = start + 0xFFFFFFFE
			}
			chunk, err := NewLiteralChunk(newFile[start:chunkEnd])
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk)
			start = chunkEnd
		}
		return nil
	}

	for i := 0; i < len(newFile); {
		position, length := oracle.LongestMatch(newFile, i)
		if length < MinimumReferenceLength {
			i++
			continue
		}

		if err := flushLiteral(i); err != nil {
			return nil, err
		}
		literalStart = i + length

		for remaining := length; remaining > 0; {
			chunkLength := remaining
			if chunkLength > 0xFFFFFFFE {
				chunkLength = 0xFFFFFFFE
			}
			chunk, err := NewReferenceChunk(position, chunkLength)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
			position += chunkLength
			remaining -= chunkLength
		}

		i += length
	}

	if err := flushLiteral(len(newFile)); err != nil {
		return nil, err
	}

	return chunks, nil
}
