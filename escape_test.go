package arpatcher

import (
	"bytes"
	"testing"
)

func TestChooseEscapeScenarioS4(t *testing.T) {
	source := []byte{0x00, 0x00, 0x01, 0x02, 0x02, 0x02, 0x02, 0x03, 0x03, 0x03, 0x03, 0x03}
	params := ChooseEscape(source, 0x00)

	if params.SubstituteCharacter != 0x04 || params.Escape != 0x05 || params.Escape2 != 0x06 {
		t.Fatalf("got substitute=%#x escape=%#x escape2=%#x, want 0x04 0x05 0x06",
			params.SubstituteCharacter, params.Escape, params.Escape2)
	}
	if params.EstimatedNewSize != 12 {
		t.Fatalf("EstimatedNewSize = %d, want 12", params.EstimatedNewSize)
	}
}

func TestEncodeDecodeScenarioS5(t *testing.T) {
	source := []byte{0x00, 0x04, 0x05, 0x05, 0x04, 0x00}
	params := EscapeParams{
		ToBeEscaped:         0x00,
		SubstituteCharacter: 0x04,
		Escape:              0x05,
		Escape2:             0x06,
	}
	params.recalculateEstimatedNewSize(source)

	encoded := Encode(source, params)
	want := []byte{0x04, 0x05, 0x06, 0x05, 0x05, 0x05, 0x05, 0x05, 0x06, 0x04}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("Encode() = %v, want %v", encoded, want)
	}

	decoded, err := Decode(encoded, params)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(decoded, source) {
		t.Fatalf("Decode(Encode(x)) = %v, want %v", decoded, source)
	}
}

func TestEncodeContainsNoToBeEscaped(t *testing.T) {
	for _, source := range testCorpora() {
		params := ChooseEscape(source, 0)
		encoded := Encode(source, params)
		if bytes.IndexByte(encoded, params.ToBeEscaped) != -1 {
			t.Fatalf("Encode(%v) contains ToBeEscaped byte", source)
		}
		if len(encoded) != params.EstimatedNewSize {
			t.Fatalf("len(Encode(x)) = %d, EstimatedNewSize = %d", len(encoded), params.EstimatedNewSize)
		}
		decoded, err := Decode(encoded, params)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !bytes.Equal(decoded, source) {
			t.Fatalf("round trip mismatch for %v", source)
		}
	}
}

func TestChooseEscapeDistinctBytes(t *testing.T) {
	for _, source := range testCorpora() {
		params := ChooseEscape(source, 0)
		values := []byte{params.SubstituteCharacter, params.Escape, params.Escape2}
		for i := range values {
			if values[i] == params.ToBeEscaped {
				t.Fatalf("chosen byte %#x equals ToBeEscaped", values[i])
			}
			for j := range values {
				if i != j && values[i] == values[j] {
					t.Fatalf("chosen bytes are not pairwise distinct: %v", values)
				}
			}
		}
	}
}

func TestDecodeRejectsDanglingEscape(t *testing.T) {
	params := EscapeParams{ToBeEscaped: 0, SubstituteCharacter: 4, Escape: 5, Escape2: 6}
	_, err := Decode([]byte{5}, params)
	if err == nil {
		t.Fatal("expected an error for a dangling escape byte")
	}
}

func TestDecodeRejectsInvalidEscapePair(t *testing.T) {
	params := EscapeParams{ToBeEscaped: 0, SubstituteCharacter: 4, Escape: 5, Escape2: 6}
	_, err := Decode([]byte{5, 9}, params)
	if err == nil {
		t.Fatal("expected an error for an invalid escape pair")
	}
}

func testCorpora() [][]byte {
	return [][]byte{
		{},
		{0},
		{0, 0, 0},
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0x41}, 300),
		{0x00, 0x01, 0xff, 0x00, 0xff, 0x01, 0x00},
	}
}
