package bus

import (
	"goba/internal/apu"
	"goba/internal/cartridge"
	"goba/internal/dma"
	"goba/internal/interrupt"
	"goba/internal/io"
	"goba/internal/joypad"
	"goba/internal/memory"
	"goba/internal/ppu"
	"goba/internal/timer"
	"testing"
)

func newTestBus() *Bus {
	irq := interrupt.NewController()
	return New(
		memory.NewBIOS(),
		memory.NewEWRAM(),
		memory.NewIWRAM(),
		io.NewIORegs(),
		ppu.New(irq),
		cartridge.NewCartridge(make([]byte, 0x200)),
		dma.New(nil, irq),
		timer.New(irq),
		apu.New(),
		joypad.New(),
		irq,
	)
}

func TestEWRAMMirrorsAcrossItsAddressSpace(t *testing.T) {
	b := newTestBus()
	b.Write8(ewramStart, 0x42)
	if got := b.Read8(ewramStart + ewramMirrorPeriod); got != 0x42 {
		t.Errorf("EWRAM mirror at +period = %#02x, want 0x42", got)
	}
}

func TestIWRAMMirrorsAcrossItsAddressSpace(t *testing.T) {
	b := newTestBus()
	b.Write8(iwramStart, 0x7F)
	if got := b.Read8(iwramStart + iwramMirrorPeriod); got != 0x7F {
		t.Errorf("IWRAM mirror at +period = %#02x, want 0x7F", got)
	}
}

func TestPaletteMirrorsEvery0x400(t *testing.T) {
	b := newTestBus()
	b.Write16(paletteStart, 0x1234)
	if got := b.Read16(paletteStart + paletteMirrorPeriod); got != 0x1234 {
		t.Errorf("palette mirror at +0x400 = %#04x, want 0x1234", got)
	}
}

func TestVRAMMirrorsWithFoldback(t *testing.T) {
	b := newTestBus()
	b.Write16(vramStart+0x10100, 0x55)
	// Within a 128KB block, the last 32KB (offset >= 0x18000) repeats the
	// preceding 32KB block (0x10000-0x17FFF), so the byte at 0x10100
	// should also be visible at 0x18100.
	if got := b.Read8(vramStart + 0x18100); got != 0x55 {
		t.Errorf("VRAM fold-back at 0x18100 = %#02x, want 0x55", got)
	}
}

func TestUnalignedRead16RotatesAlignedHalfword(t *testing.T) {
	b := newTestBus()
	b.Write16(ewramStart, 0xBEEF)
	got := b.Read16(ewramStart + 1)
	want := uint16(0xEFBE)
	if got != want {
		t.Errorf("Read16 at odd address = %#04x, want %#04x (rotated)", got, want)
	}
}

func TestUnalignedRead32RotatesAlignedWord(t *testing.T) {
	b := newTestBus()
	b.Write32(ewramStart, 0xCAFEBABE)
	got := b.Read32(ewramStart + 1)
	want := uint32(0xBECAFEBA)
	if got != want {
		t.Errorf("Read32 at +1 = %#08x, want %#08x (rotated by 8)", got, want)
	}
}

func TestWrite16TruncatesToHalfwordBoundary(t *testing.T) {
	b := newTestBus()
	b.Write16(ewramStart+1, 0xAAAA)
	if got := b.Read16(ewramStart); got != 0xAAAA {
		t.Errorf("Write16 at odd address did not truncate down: Read16(aligned) = %#04x", got)
	}
}

func TestBIOSWritesAreDiscarded(t *testing.T) {
	b := newTestBus()
	before := b.Read8(biosStart)
	b.Write8(biosStart, 0xFF)
	if got := b.Read8(biosStart); got != before {
		t.Errorf("BIOS byte changed after write: %#02x, want unchanged %#02x", got, before)
	}
}

func TestROMWritesAreDiscarded(t *testing.T) {
	b := newTestBus()
	before := b.Read8(romStart)
	b.Write8(romStart, 0xFF)
	if got := b.Read8(romStart); got != before {
		t.Errorf("ROM byte changed after write: %#02x, want unchanged %#02x", got, before)
	}
}

func TestOpenBusRegionReadsZero(t *testing.T) {
	b := newTestBus()
	if got := b.Read8(0x0F000000); got != 0 {
		t.Errorf("open-bus read = %#02x, want 0", got)
	}
}
