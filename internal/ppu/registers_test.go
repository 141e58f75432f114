package ppu

import (
	"goba/internal/interrupt"
	"testing"
)

func TestDISPCNTReadWriteRoundTrip(t *testing.T) {
	p := New(interrupt.NewController())
	p.WriteIO16(0x000, 0x1234)
	if got := p.ReadIO16(0x000); got != 0x1234 {
		t.Errorf("DISPCNT round trip = %#04x, want 0x1234", got)
	}
}

func TestDISPSTATOnlyIRQAndVCountFieldsAreWritable(t *testing.T) {
	p := New(interrupt.NewController())
	p.dispstat = 0x0007 // simulate VBlank/HBlank/VCountMatch all set by hardware
	p.WriteIO16(0x004, 0xFFFF)
	got := p.ReadIO16(0x004)
	if got&0x0007 != 0x0007 {
		t.Errorf("DISPSTAT status bits clobbered by write: %#04x", got)
	}
	if got&0xFFF8 != 0xFFF8 {
		t.Errorf("DISPSTAT writable bits not applied: %#04x", got)
	}
}

func TestBGCNTRoundTrip(t *testing.T) {
	p := New(interrupt.NewController())
	p.WriteIO16(0x008, 0x1F00) // BG0CNT
	if got := p.ReadIO16(0x008); got != 0x1F00 {
		t.Errorf("BG0CNT round trip = %#04x, want 0x1F00", got)
	}
	p.WriteIO16(0x00E, 0x0042) // BG3CNT
	if got := p.ReadIO16(0x00E); got != 0x0042 {
		t.Errorf("BG3CNT round trip = %#04x, want 0x0042", got)
	}
}

func TestBGOffsetsAreMaskedTo9Bits(t *testing.T) {
	p := New(interrupt.NewController())
	p.WriteIO16(0x010, 0xFFFF) // BG0HOFS
	if got := p.ReadIO16(0x010); got != 0x01FF {
		t.Errorf("BG0HOFS = %#04x, want masked 0x01FF", got)
	}
	p.WriteIO16(0x012, 0xFFFF) // BG0VOFS
	if got := p.ReadIO16(0x012); got != 0x01FF {
		t.Errorf("BG0VOFS = %#04x, want masked 0x01FF", got)
	}
}

func TestWriteIO8SplitsIntoCorrectByte(t *testing.T) {
	p := New(interrupt.NewController())
	p.WriteIO8(0x008, 0xAB) // low byte of BG0CNT
	p.WriteIO8(0x009, 0xCD) // high byte of BG0CNT
	if got := p.ReadIO16(0x008); got != 0xCDAB {
		t.Errorf("BG0CNT after byte writes = %#04x, want 0xCDAB", got)
	}
}

func TestVRAMReadWrite16RoundTrip(t *testing.T) {
	p := New(interrupt.NewController())
	p.WriteVRAM16(0x100, 0xBEEF)
	if got := p.ReadVRAM16(0x100); got != 0xBEEF {
		t.Errorf("VRAM16 round trip = %#04x, want 0xBEEF", got)
	}
}

func TestPaletteReadWrite16RoundTrip(t *testing.T) {
	p := New(interrupt.NewController())
	p.WritePalette16(0x002, 0x7FFF)
	if got := p.ReadPalette16(0x002); got != 0x7FFF {
		t.Errorf("palette round trip = %#04x, want 0x7FFF", got)
	}
}

func TestBgr555ToARGBShiftsWithoutReplicatingOrRounding(t *testing.T) {
	// Pure red channel at max 5-bit value: 0b11111 -> 0xF8 (not 0xFF).
	got := bgr555ToARGB(0x001F)
	want := uint32(0xFFF80000)
	if got != want {
		t.Errorf("bgr555ToARGB(0x001F) = %#08x, want %#08x", got, want)
	}
}

func TestBgr555ToARGBBlackHasFullAlpha(t *testing.T) {
	got := bgr555ToARGB(0x0000)
	if got != 0xFF000000 {
		t.Errorf("bgr555ToARGB(0) = %#08x, want 0xFF000000", got)
	}
}

func TestBgr555ToARGBAllChannels(t *testing.T) {
	// R=0b10000(16), G=0b01000(8), B=0b00100(4): bits 0-4=R, 5-9=G, 10-14=B.
	c := uint16(16) | uint16(8)<<5 | uint16(4)<<10
	got := bgr555ToARGB(c)
	wantR := uint32(16) << 3
	wantG := uint32(8) << 3
	wantB := uint32(4) << 3
	want := 0xFF000000 | wantR<<16 | wantG<<8 | wantB
	if got != want {
		t.Errorf("bgr555ToARGB(%#04x) = %#08x, want %#08x", c, got, want)
	}
}
