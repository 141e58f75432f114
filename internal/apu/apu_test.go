package apu

import "testing"

func TestNewReturnsUsableAPU(t *testing.T) {
	a := New()
	if a == nil {
		t.Fatal("New() returned nil")
	}
}

func TestAdvanceDoesNotPanic(t *testing.T) {
	a := New()
	a.Advance(0)
	a.Advance(1232 * 228)
}
