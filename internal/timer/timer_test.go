package timer

import (
	"goba/internal/interrupt"
	"testing"
)

func TestWriteControlReloadsOnEnable(t *testing.T) {
	c := New(interrupt.NewController())
	c.WriteReload(0, 0xFFF0)
	c.WriteControl(0, 1<<7) // enable, prescale /1
	if got := c.ReadCounter(0); got != 0xFFF0 {
		t.Errorf("counter after enable = %#04x, want 0xFFF0", got)
	}
}

func TestAdvanceOverflowsAndReloads(t *testing.T) {
	c := New(interrupt.NewController())
	c.WriteReload(0, 0xFFFE)
	c.WriteControl(0, 1<<7) // enable, prescale /1
	c.Advance(3)            // 0xFFFE -> 0xFFFF -> overflow+reload -> 0xFFFF
	if got := c.ReadCounter(0); got != 0xFFFF {
		t.Errorf("counter after 3 ticks = %#04x, want 0xFFFF", got)
	}
}

func TestAdvanceRaisesIRQOnOverflow(t *testing.T) {
	irq := interrupt.NewController()
	c := New(irq)
	c.WriteReload(0, 0xFFFF)
	c.WriteControl(0, 1<<7|1<<6) // enable, IRQ on overflow
	c.Advance(2)                 // 0xFFFF -> overflow on the first tick
	if irq.IF()&interrupt.FlagTimer0 == 0 {
		t.Error("FlagTimer0 not raised after overflow")
	}
}

func TestPrescalerDividesCycles(t *testing.T) {
	c := New(interrupt.NewController())
	c.WriteReload(0, 0)
	c.WriteControl(0, 1<<7|0x1) // prescale /64
	c.Advance(63)
	if got := c.ReadCounter(0); got != 0 {
		t.Errorf("counter after 63 cycles at /64 = %d, want 0", got)
	}
	c.Advance(1)
	if got := c.ReadCounter(0); got != 1 {
		t.Errorf("counter after 64 cycles at /64 = %d, want 1", got)
	}
}

func TestCascadeOnlyTicksOnPriorOverflow(t *testing.T) {
	c := New(interrupt.NewController())
	c.WriteReload(0, 0xFFFF)
	c.WriteControl(0, 1<<7) // ch0 enabled, prescale /1
	c.WriteReload(0, 0)     // ch0's overflow now reloads it to 0
	c.WriteReload(1, 0)
	c.WriteControl(1, 1<<7|1<<2) // ch1 enabled, cascade

	c.Advance(1) // ch0: 0xFFFF -> overflow; ch1 should tick once via cascade
	if got := c.ReadCounter(1); got != 1 {
		t.Errorf("cascaded counter = %d, want 1", got)
	}

	c.Advance(1) // ch0 now 0, no overflow this tick; ch1 should not advance
	if got := c.ReadCounter(1); got != 1 {
		t.Errorf("cascaded counter after non-overflowing tick = %d, want 1", got)
	}
}

func TestDisabledChannelDoesNotAdvance(t *testing.T) {
	c := New(interrupt.NewController())
	c.WriteReload(0, 5)
	c.Advance(1000)
	if got := c.ReadCounter(0); got != 0 {
		t.Errorf("disabled channel counter = %d, want 0", got)
	}
}
