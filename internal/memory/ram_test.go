package memory

import "testing"

func TestRAMReadWrite8(t *testing.T) {
	r := NewRAM(16)
	r.Write8(5, 0xAB)
	if got := r.Read8(5); got != 0xAB {
		t.Errorf("Read8(5) = %#02x, want 0xAB", got)
	}
}

func TestRAMMirrorsPastSize(t *testing.T) {
	r := NewRAM(16)
	r.Write8(0, 0x42)
	if got := r.Read8(16); got != 0x42 {
		t.Errorf("Read8(16) = %#02x, want 0x42 (mirrored from offset 0)", got)
	}
	if got := r.Read8(32); got != 0x42 {
		t.Errorf("Read8(32) = %#02x, want 0x42", got)
	}
}

func TestRAMReadWrite16LittleEndian(t *testing.T) {
	r := NewRAM(16)
	r.Write16(0, 0xBEEF)
	if got := r.Read8(0); got != 0xEF {
		t.Errorf("low byte = %#02x, want 0xEF", got)
	}
	if got := r.Read8(1); got != 0xBE {
		t.Errorf("high byte = %#02x, want 0xBE", got)
	}
	if got := r.Read16(0); got != 0xBEEF {
		t.Errorf("Read16(0) = %#04x, want 0xBEEF", got)
	}
}

func TestRAMReadWrite32AlignsDown(t *testing.T) {
	r := NewRAM(16)
	r.Write32(0, 0xDEADBEEF)
	if got := r.Read32(1); got != 0xDEADBEEF {
		t.Errorf("Read32(1) = %#08x, want 0xDEADBEEF (aligned down to 0)", got)
	}
}

func TestBIOSIsReadOnly(t *testing.T) {
	b := NewBIOS()
	b.Write8(0, 0xFF)
	if got := b.Read8(0); got != 0 {
		t.Errorf("BIOS.Write8 mutated storage: Read8(0) = %#02x, want 0", got)
	}
}

func TestEWRAMSize(t *testing.T) {
	e := NewEWRAM()
	e.Write8(EWRAM_SIZE-1, 0x7)
	if got := e.Read8(EWRAM_SIZE - 1); got != 0x7 {
		t.Errorf("Read8 at last byte = %#02x, want 0x7", got)
	}
}

func TestIWRAMContains(t *testing.T) {
	i := NewIWRAM()
	if !i.Contains(IWRAM_START) {
		t.Error("Contains(IWRAM_START) = false, want true")
	}
	if i.Contains(IWRAM_START - 1) {
		t.Error("Contains(IWRAM_START-1) = true, want false")
	}
	if i.Contains(IWRAM_END + 1) {
		t.Error("Contains(IWRAM_END+1) = true, want false")
	}
}
