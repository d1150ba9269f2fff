package arpatcher_test

import (
	"bytes"
	"strings"
	"testing"

	arpatcher "github.com/BSG-75/ARPatcherData"
	"github.com/BSG-75/ARPatcherData/chainoracle"
	"github.com/BSG-75/ARPatcherData/suffixoracle"
)

var factories = map[string]arpatcher.OracleFactory{
	"suffix": func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle { return suffixoracle.New(old, p) },
	"chain":  func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle { return chainoracle.New(old, p) },
}

func TestDiffApplyRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		old, new []byte
	}{
		{"empty old", nil, []byte("hello")},
		{"identical 64 bytes", bytes.Repeat([]byte("A"), 64), bytes.Repeat([]byte("A"), 64)},
		{"literal, reference, literal", bytes.Repeat([]byte("X"), 100), append(append([]byte("Y"), bytes.Repeat([]byte("X"), 64)...), 'Z')},
		{"no overlap at all", []byte("abcdefgh"), []byte("12345678")},
		{"repetitive with zero bytes", bytes.Repeat([]byte{0x00, 0x41}, 200), bytes.Repeat([]byte{0x00, 0x41}, 200)},
	}

	for name, factory := range factories {
		factory := factory
		for _, c := range cases {
			t.Run(name+"/"+c.name, func(t *testing.T) {
				patch, err := arpatcher.Diff(c.old, c.new, "old.bin", "new.bin", factory)
				if err != nil {
					t.Fatalf("Diff() error = %v", err)
				}
				got, err := arpatcher.Apply(c.old, patch)
				if err != nil {
					t.Fatalf("Apply() error = %v", err)
				}
				if !bytes.Equal(got, c.new) {
					t.Fatalf("Apply(Diff(old, new)) = %v, want %v", got, c.new)
				}
				for _, chunk := range patch.Chunks {
					if !chunk.IsLiteral() {
						if chunk.Length < arpatcher.MinimumReferenceLength {
							t.Fatalf("reference chunk shorter than MinimumReferenceLength: %+v", chunk)
						}
						if uint64(chunk.SourcePosition)+uint64(chunk.Length) > uint64(len(c.old)) {
							t.Fatalf("reference chunk out of bounds: %+v", chunk)
						}
					}
				}
			})
		}
	}
}

func TestDiffScenarioS1(t *testing.T) {
	patch, err := arpatcher.Diff(nil, []byte("hello"), "old", "new", suffixFactory)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(patch.Chunks) != 1 || !patch.Chunks[0].IsLiteral() || string(patch.Chunks[0].InlineBytes) != "hello" {
		t.Fatalf("got chunks %+v, want a single literal chunk \"hello\"", patch.Chunks)
	}
}

func TestDiffScenarioS2(t *testing.T) {
	old := bytes.Repeat([]byte("A"), 64)
	patch, err := arpatcher.Diff(old, old, "old", "new", suffixFactory)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(patch.Chunks) != 1 || patch.Chunks[0].IsLiteral() || patch.Chunks[0].Length != 64 || patch.Chunks[0].SourcePosition != 0 {
		t.Fatalf("got chunks %+v, want one reference chunk (length=64, sourcePosition=0)", patch.Chunks)
	}
}

func TestDiffScenarioS3(t *testing.T) {
	old := bytes.Repeat([]byte("X"), 100)
	newFile := []byte("Y" + strings.Repeat("X", 64) + "Z")
	patch, err := arpatcher.Diff(old, newFile, "old", "new", suffixFactory)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(patch.Chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %+v", len(patch.Chunks), patch.Chunks)
	}
	if !patch.Chunks[0].IsLiteral() || string(patch.Chunks[0].InlineBytes) != "Y" {
		t.Fatalf("chunk 0 = %+v, want literal \"Y\"", patch.Chunks[0])
	}
	if patch.Chunks[1].IsLiteral() || patch.Chunks[1].Length != 64 || patch.Chunks[1].SourcePosition != 0 {
		t.Fatalf("chunk 1 = %+v, want reference (length=64, sourcePosition=0)", patch.Chunks[1])
	}
	if !patch.Chunks[2].IsLiteral() || string(patch.Chunks[2].InlineBytes) != "Z" {
		t.Fatalf("chunk 2 = %+v, want literal \"Z\"", patch.Chunks[2])
	}
}

func TestApplyRejectsOutOfBoundsReference(t *testing.T) {
	chunk, err := arpatcher.NewReferenceChunk(50, 32)
	if err != nil {
		t.Fatalf("NewReferenceChunk() error = %v", err)
	}
	patch := arpatcher.PatchData{
		Version: arpatcher.SupportedVersion,
		Chunks:  []arpatcher.DataChunk{chunk},
	}
	_, err = arpatcher.Apply(make([]byte, 64), patch)
	if err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

var suffixFactory arpatcher.OracleFactory = func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle {
	return suffixoracle.New(old, p)
}
