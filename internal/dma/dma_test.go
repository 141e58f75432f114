package dma

import (
	"goba/internal/interrupt"
	"testing"
)

// fakeBus is a flat byte-addressable memory large enough for the test
// addresses used below, satisfying the dma.Bus interface.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read16(addr uint32) uint16 {
	return uint16(b.mem[addr]) | uint16(b.mem[addr+1])<<8
}

func (b *fakeBus) Read32(addr uint32) uint32 {
	return uint32(b.mem[addr]) | uint32(b.mem[addr+1])<<8 |
		uint32(b.mem[addr+2])<<16 | uint32(b.mem[addr+3])<<24
}

func (b *fakeBus) Write16(addr uint32, value uint16) {
	b.mem[addr] = byte(value)
	b.mem[addr+1] = byte(value >> 8)
}

func (b *fakeBus) Write32(addr uint32, value uint32) {
	b.mem[addr] = byte(value)
	b.mem[addr+1] = byte(value >> 8)
	b.mem[addr+2] = byte(value >> 16)
	b.mem[addr+3] = byte(value >> 24)
}

func TestImmediateTransferFiresOnArm(t *testing.T) {
	bus := &fakeBus{}
	bus.Write32(0x100, 0xCAFEBABE)
	c := New(bus, interrupt.NewController())

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 1)
	c.WriteControlHigh(0, 1<<15|1<<10) // enable, word transfer, immediate timing

	if got := bus.Read32(0x200); got != 0xCAFEBABE {
		t.Errorf("dst after immediate DMA = %#08x, want 0xCAFEBABE", got)
	}
}

func TestHBlankTimingWaitsForTrigger(t *testing.T) {
	bus := &fakeBus{}
	bus.Write16(0x100, 0xBEEF)
	c := New(bus, interrupt.NewController())

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 1)
	c.WriteControlHigh(0, 1<<15|2<<12) // enable, halfword, H-blank timing

	if got := bus.Read16(0x200); got != 0 {
		t.Fatalf("transfer ran before H-blank trigger: dst = %#04x", got)
	}

	c.OnHBlank()
	if got := bus.Read16(0x200); got != 0xBEEF {
		t.Errorf("dst after OnHBlank = %#04x, want 0xBEEF", got)
	}
}

func TestRepeatReloadsCount(t *testing.T) {
	bus := &fakeBus{}
	c := New(bus, interrupt.NewController())

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 4)
	c.WriteControlHigh(0, 1<<15|2<<12|1<<9) // enable, H-blank, repeat

	c.OnHBlank()
	if got := c.ReadControlHigh(0)&(1<<15) == 0; got {
		t.Error("repeating channel disabled itself after firing once")
	}
}

func TestNonRepeatingChannelDisablesAfterFiring(t *testing.T) {
	bus := &fakeBus{}
	c := New(bus, interrupt.NewController())

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 1)
	c.WriteControlHigh(0, 1<<15|2<<12) // enable, H-blank, no repeat

	c.OnHBlank()
	if c.ReadControlHigh(0)&(1<<15) != 0 {
		t.Error("non-repeating channel still enabled after firing")
	}
}

func TestIRQOnFinishRaisesFlag(t *testing.T) {
	bus := &fakeBus{}
	irq := interrupt.NewController()
	c := New(bus, irq)

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 1)
	c.WriteControlHigh(0, 1<<15|1<<14) // enable, immediate, IRQ on finish

	if irq.IF()&interrupt.FlagDMA0 == 0 {
		t.Error("FlagDMA0 not raised after finishing")
	}
}

func TestFixedSourceDoesNotAdvance(t *testing.T) {
	bus := &fakeBus{}
	bus.Write16(0x100, 0x1234)
	c := New(bus, interrupt.NewController())

	c.WriteSAD(0, 0x100)
	c.WriteDAD(0, 0x200)
	c.WriteCountLow(0, 2)
	// srcInc = fixed (2), dstInc = increment (0)
	c.WriteControlHigh(0, 1<<15|(2<<7))

	if got := bus.Read16(0x200); got != 0x1234 {
		t.Errorf("dst[0] = %#04x, want 0x1234", got)
	}
	if got := bus.Read16(0x202); got != 0x1234 {
		t.Errorf("dst[1] = %#04x, want 0x1234 (fixed source repeated)", got)
	}
}
