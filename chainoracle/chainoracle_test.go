package chainoracle

import (
	"bytes"
	"testing"

	arpatcher "github.com/BSG-75/ARPatcherData"
)

func TestLongestMatchFindsThresholdMatch(t *testing.T) {
	old := append([]byte("some unrelated prefix bytes"), bytes.Repeat([]byte("A"), 64)...)
	oracle := New(old, arpatcher.EscapeParams{})

	newFile := append([]byte("Y"), bytes.Repeat([]byte("A"), 64)...)
	position, length := oracle.LongestMatch(newFile, 1)
	if length != 64 {
		t.Fatalf("length = %d, want 64", length)
	}
	if !bytes.Equal(old[position:position+length], newFile[1:1+length]) {
		t.Fatalf("match at %d does not actually match", position)
	}
}

func TestLongestMatchRejectsShortMatch(t *testing.T) {
	old := []byte("the quick brown fox")
	oracle := New(old, arpatcher.EscapeParams{})

	_, length := oracle.LongestMatch([]byte("the quick red fox"), 0)
	if length != 0 {
		t.Fatalf("length = %d, want 0", length)
	}
}

func TestLongestMatchHandlesTinyOldFile(t *testing.T) {
	oracle := New([]byte("ab"), arpatcher.EscapeParams{})
	_, length := oracle.LongestMatch(bytes.Repeat([]byte("A"), 40), 0)
	if length != 0 {
		t.Fatalf("length = %d, want 0", length)
	}
}
