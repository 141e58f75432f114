// Package cpu implements the ARM7TDMI interpreter: the mode-banked register
// file, the barrel shifter, and the ARM and Thumb instruction decoders and
// executors. It knows nothing about the memory map beyond the Bus interface
// it is handed at construction time.
package cpu

import (
	"goba/util/dbg"
)

// Bus is the subset of the system bus the CPU core needs. It is declared
// here, not imported from the bus package, so the interpreter has no
// compile-time dependency on how memory is wired together; *bus.Bus
// satisfies it structurally.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)

	// PeekIF/AckIF let the BIOS HLE for VBlankIntrWait/IntrWait observe and
	// clear the interrupt-flag bits it is waiting on without the CPU package
	// needing to know anything about the interrupt controller's shape.
	PeekIF() uint16
	AckIF(mask uint16)
}

// Exception vector addresses, GBA/ARM7TDMI memory map section 0.
const (
	vectorReset         = 0x00000000
	vectorUndefined     = 0x00000004
	vectorSWI           = 0x00000008
	vectorPrefetchAbort = 0x0000000C
	vectorDataAbort     = 0x00000010
	vectorIRQ           = 0x00000018
	vectorFIQ           = 0x0000001C
)

// biosStart is the CPU's reset PC. The GBA boot ROM itself is not modelled;
// SWI calls are serviced by the HLE table in bios_hle.go instead of real
// BIOS code living at this address.
const biosStart = 0x00000000

// CPU is the ARM7TDMI interpreter. It owns the register file and the
// instruction pipeline; it reaches into memory only through Bus.
type CPU struct {
	registers *Registers
	bus       Bus

	cycles uint64

	// pipeline holds the two prefetched instruction words modelling the
	// ARM7TDMI's fetch stage; refilled by FlushPipeline after any branch.
	pipeline [2]uint32

	// halted is set by SWI Halt/Stop and cleared by the interrupt
	// controller's wake check once an enabled interrupt is pending.
	halted bool

	// waitingForIRQ/waitingForIRQFlags/waitingForIRQClear hold BIOS
	// VBlankIntrWait/IntrWait state: whether a wait is in progress, which IF
	// bits the HLE call is waiting on before it may resume, and whether it
	// acknowledges them on wake.
	waitingForIRQ      bool
	waitingForIRQFlags uint16
	waitingForIRQClear bool
}

// NewCPU constructs a CPU wired to bus. Call Reset before the first Step.
func NewCPU(bus Bus) *CPU {
	c := &CPU{
		registers: NewRegisters(),
		bus:       bus,
	}
	return c
}

// Registers exposes the register file, mainly for tests and debug tooling.
func (c *CPU) Registers() *Registers {
	return c.registers
}

// Cycles returns the running total of Step calls, one per instruction
// executed and one per halted step (used as a cheap cycle proxy by the
// frame pump; exact per-instruction timing is a documented non-goal).
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Reset puts the CPU in its post-boot state: Supervisor mode, ARM state,
// both interrupt lines masked, PC at the reset vector.
func (c *CPU) Reset() {
	c.registers = NewRegisters()
	c.registers.PC = biosStart
	c.registers.SetMode(SVCMode)
	c.registers.SetIRQDisabled(true)
	c.registers.SetFIQDisabled(true)
	c.halted = false
	c.waitingForIRQ = false
	c.FlushPipeline()
}

// Halted reports whether the core is parked in SWI Halt/Stop/VBlankIntrWait.
func (c *CPU) Halted() bool {
	return c.halted
}

// Unhalt forces the core to resume, bypassing any BIOS wait condition. Used
// by the interrupt controller when a non-masked IRQ becomes pending.
func (c *CPU) Unhalt() {
	c.halted = false
	c.waitingForIRQ = false
}

// IRQDisabled reports the CPSR I bit.
func (c *CPU) IRQDisabled() bool {
	return c.registers.IsIRQDisabled()
}

// EnterIRQ performs IRQ exception entry: bank to IRQ mode, stash CPSR in
// SPSR_irq, set LR_irq to the address of the not-yet-executed instruction
// plus 4 (between steps PC sits at that instruction +4 in ARM state and +2
// in Thumb state), and branch to the IRQ vector.
func (c *CPU) EnterIRQ() {
	c.halted = false
	link := c.registers.PC
	if c.registers.IsThumb() {
		link += 2
	}
	c.registers.EnterException(vectorIRQ, IRQMode, link, false)
	c.FlushPipeline()
	dbg.Log("cpu", "IRQ taken")
}

// Step executes exactly one instruction (ARM or Thumb, according to the T
// bit) and returns the number of cycles it should be charged for the frame
// pump's purposes. While halted it advances the clock without fetching.
func (c *CPU) Step() uint64 {
	if c.waitingForIRQ {
		c.serviceIRQWait()
	}
	if c.halted {
		c.cycles++
		return 1
	}

	if c.registers.IsThumb() {
		pc := c.registers.PC
		instr := c.pipeline[0]
		c.pipeline[0] = c.pipeline[1]
		c.pipeline[1] = uint32(c.bus.Read16(pc + 2))
		c.registers.PC = pc + 2
		c.executeThumb(uint16(instr))
	} else {
		pc := c.registers.PC
		instr := c.pipeline[0]
		c.pipeline[0] = c.pipeline[1]
		c.pipeline[1] = c.bus.Read32(pc + 4)
		c.registers.PC = pc + 4
		c.execute_Arm(instr)
	}

	c.cycles++
	return 1
}

// FlushPipeline refills the two-stage prefetch queue after a branch,
// exception entry/exit, or mode switch. PC must already point at the first
// instruction to be fetched.
func (c *CPU) FlushPipeline() {
	if c.registers.IsThumb() {
		pc := c.registers.PC
		c.pipeline[0] = uint32(c.bus.Read16(pc))
		c.pipeline[1] = uint32(c.bus.Read16(pc + 2))
		c.registers.PC = pc + 2
	} else {
		pc := c.registers.PC
		c.pipeline[0] = c.bus.Read32(pc)
		c.pipeline[1] = c.bus.Read32(pc + 4)
		c.registers.PC = pc + 4
	}
}

// branchTo sets PC to target, switches pipeline state if thumb changed, and
// refills the pipeline. Used by B/BL/BX/data-processing-writes-PC/LDM-PC.
func (c *CPU) branchTo(target uint32, thumb bool) {
	c.registers.SetThumbState(thumb)
	if thumb {
		c.registers.PC = target &^ 1
	} else {
		c.registers.PC = target &^ 3
	}
	c.FlushPipeline()
}

func (c *CPU) setFlagsLogical(result uint32, carryOut bool) {
	c.registers.SetFlagN(result&0x80000000 != 0)
	c.registers.SetFlagZ(result == 0)
	c.registers.SetFlagC(carryOut)
}

func (c *CPU) setFlagsArithmetic(rn, rm, result uint32, opcode ARMDataProcessingOperation, carryOut bool) {
	c.registers.SetFlagN(result&0x80000000 != 0)
	c.registers.SetFlagZ(result == 0)
	c.registers.SetFlagC(carryOut)
	c.registers.SetFlagV(checkOverflow(rn, rm, result, opcode))
}

func checkOverflow(rn uint32, rm uint32, result uint32, opcode ARMDataProcessingOperation) bool {
	switch opcode {
	case ADD, ADC, CMN:
		return ((rn ^ result) & (rm ^ result) & 0x80000000) != 0
	case SUB, SBC, CMP:
		return ((rn ^ rm) & (rn ^ result) & 0x80000000) != 0
	case RSB, RSC:
		return ((rm ^ rn) & (rm ^ result) & 0x80000000) != 0
	default:
		return false
	}
}

// addWithCarry adds a+b+carryIn and returns the 32-bit result plus the
// carry-out, used by ADC/ADD/SBC/SUB (subtraction is addition of the
// two's-complement).
func addWithCarry(a, b uint32, carryIn bool) (uint32, bool) {
	sum := uint64(a) + uint64(b)
	if carryIn {
		sum++
	}
	return uint32(sum), sum > 0xFFFFFFFF
}
