package arpatcher

import "fmt"

// OracleFactory builds a MatchOracle over the given (unescaped) old file and
// the escape parameters chosen for it. suffixoracle.New and chainoracle.New
// both satisfy this signature.
type OracleFactory func(old []byte, params EscapeParams) MatchOracle

// Diff computes a patch transforming old into new, using factory to build
// the match oracle that backs the greedy segmenter.
func Diff(oldFile, newFile []byte, oldFileName, newFileName string, factory OracleFactory) (PatchData, error) {
	params := ChooseEscape(oldFile, 0)
	oracle := factory(oldFile, params)

	chunks, err := Segment(oracle, newFile)
	if err != nil {
		return PatchData{}, err
	}

	return PatchData{
		Version:     SupportedVersion,
		OldFileName: oldFileName,
		NewFileName: newFileName,
		Escape:      params,
		Chunks:      chunks,
	}, nil
}

// Apply reconstructs the new file by materializing patch's chunks against
// old. It returns ErrReferenceOutOfBounds if any reference chunk names a
// range past the end of old.
func Apply(old []byte, patch PatchData) ([]byte, error) {
	if patch.Version != SupportedVersion {
		return nil, fmt.Errorf("version %d: %w", patch.Version, ErrUnsupportedVersion)
	}

	total := 0
	for _, chunk := range patch.Chunks {
		total += int(chunk.Length)
	}

	result := make([]byte, 0, total)
	for _, chunk := range patch.Chunks {
		if chunk.IsLiteral() {
			if uint32(len(chunk.InlineBytes)) != chunk.Length {
				return nil, fmt.Errorf("literal chunk declares length %d but carries %d bytes", chunk.Length, len(chunk.InlineBytes))
			}
			result = append(result, chunk.InlineBytes...)
			continue
		}

		end := int64(chunk.SourcePosition) + int64(chunk.Length)
		if end > int64(len(old)) {
			return nil, fmt.Errorf("reference chunk [%d:%d) beyond old file of length %d: %w",
				chunk.SourcePosition, end, len(old), ErrReferenceOutOfBounds)
		}
		result = append(result, old[chunk.SourcePosition:uint32(end)]...)
	}

	return result, nil
}
