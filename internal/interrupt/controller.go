// Package interrupt implements the GBA's interrupt controller: the IE, IF
// and IME registers and the CPU-wake predicate they drive. It has no
// dependency on the CPU or bus packages; ppu/dma/timer hold a reference to
// raise flags, and internal/emulator polls Pending/Check once per step.
package interrupt

// Flag bit positions within IE/IF, GBATEK 4000200h/4000202h.
const (
	FlagVBlank  = 1 << 0
	FlagHBlank  = 1 << 1
	FlagVCount  = 1 << 2
	FlagTimer0  = 1 << 3
	FlagTimer1  = 1 << 4
	FlagTimer2  = 1 << 5
	FlagTimer3  = 1 << 6
	FlagSerial  = 1 << 7
	FlagDMA0    = 1 << 8
	FlagDMA1    = 1 << 9
	FlagDMA2    = 1 << 10
	FlagDMA3    = 1 << 11
	FlagKeypad  = 1 << 12
	FlagGamePak = 1 << 13
)

// Controller owns IE, IF and IME.
type Controller struct {
	ie  uint16
	iff uint16
	ime bool
}

// NewController returns a controller with all interrupts masked, matching
// post-reset hardware state.
func NewController() *Controller {
	return &Controller{}
}

// Raise sets one or more IF bits. Called by ppu/timer/dma when a hardware
// event they own fires.
func (c *Controller) Raise(flags uint16) {
	c.iff |= flags
}

// IE returns the current interrupt-enable mask.
func (c *Controller) IE() uint16 { return c.ie }

// SetIE writes the interrupt-enable mask (register 4000200h).
func (c *Controller) SetIE(v uint16) { c.ie = v }

// IF returns the current interrupt-flag register.
func (c *Controller) IF() uint16 { return c.iff }

// WriteIF implements the write-1-to-clear semantics of register 4000202h:
// each bit set in v clears the corresponding IF bit, bits left 0 are
// untouched.
func (c *Controller) WriteIF(v uint16) {
	c.iff &^= v
}

// AckIF clears exactly the bits in mask, used by the BIOS HLE's
// IntrWait/VBlankIntrWait implementation.
func (c *Controller) AckIF(mask uint16) {
	c.iff &^= mask
}

// IME returns the master interrupt enable bit.
func (c *Controller) IME() bool { return c.ime }

// SetIME writes the master interrupt enable bit (register 4000208h, only
// bit 0 is meaningful).
func (c *Controller) SetIME(v bool) { c.ime = v }

// Pending reports whether any enabled interrupt's flag is set, independent
// of IME — this is the condition that wakes a halted CPU, which happens
// even with IME=0 (the CPU just doesn't take the exception in that case).
func (c *Controller) Pending() bool {
	return c.ie&c.iff != 0
}

// ShouldTakeException reports whether CPU.EnterIRQ should actually run:
// IME must be set and the CPU's own I flag (checked by the caller) must be
// clear.
func (c *Controller) ShouldTakeException() bool {
	return c.ime && c.Pending()
}

// CPU is the minimal surface the interrupt controller needs from the core
// to service a wake/exception-entry check, declared locally so this package
// has no import on internal/cpu.
type CPU interface {
	Halted() bool
	Unhalt()
	IRQDisabled() bool
	EnterIRQ()
}

// Check runs once per step from the frame pump: it wakes a halted CPU as
// soon as any enabled interrupt is pending (regardless of IME, matching
// real hardware's Halt-exit condition), and additionally enters the IRQ
// exception when IME is set and the CPU hasn't masked IRQs itself.
func (c *Controller) Check(cpu CPU) {
	if !c.Pending() {
		return
	}
	if cpu.Halted() {
		cpu.Unhalt()
	}
	if c.ime && !cpu.IRQDisabled() {
		cpu.EnterIRQ()
	}
}
