package lz77

import (
	"bytes"
	"testing"
)

func TestRoundTripRepeatedBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 64)
	compressed := Compress(data)
	got := Decompress(compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, data)
	}
}

func TestRoundTripMixedLiteralsAndMatches(t *testing.T) {
	data := append([]byte("the quick brown fox jumps over the lazy dog, "), []byte("the quick brown fox runs again")...)
	compressed := Compress(data)
	got := Decompress(compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, data)
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	compressed := Compress(nil)
	got := Decompress(compressed)
	if len(got) != 0 {
		t.Fatalf("round trip of empty input = %v, want empty", got)
	}
}

func TestDecompressRejectsBadHeader(t *testing.T) {
	if got := Decompress([]byte{0x11, 0, 0, 0}); got != nil {
		t.Errorf("Decompress with wrong type byte = %v, want nil", got)
	}
	if got := Decompress([]byte{0x10}); got != nil {
		t.Errorf("Decompress with truncated header = %v, want nil", got)
	}
}

func TestDecompressStopsOnTruncatedStream(t *testing.T) {
	// A header claiming 100 bytes but no body at all must not panic, and
	// must return whatever partial output it could produce (here: none).
	got := Decompress([]byte{0x10, 100, 0, 0})
	if len(got) != 0 {
		t.Errorf("Decompress with no body = %v, want empty", got)
	}
}
