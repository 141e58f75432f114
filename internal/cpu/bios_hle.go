package cpu

import (
	"goba/internal/lz77"
	"goba/util/dbg"
)

// SWI function numbers this emulator services at the HLE level. Anything
// not in this table falls through to serviceSWI's default case, which only
// logs the call and returns without touching R0-R3 — close enough to a BIOS
// stub for calls no commercial game actually depends on.
const (
	swiSoftReset      = 0x00
	swiRegisterRamReset = 0x01
	swiHalt           = 0x02
	swiStop           = 0x03
	swiIntrWait       = 0x04
	swiVBlankIntrWait = 0x05
	swiDiv            = 0x06
	swiDivArm         = 0x07
	swiSqrt           = 0x08
	swiArcTan         = 0x09
	swiArcTan2        = 0x0A
	swiCpuSet         = 0x0B
	swiCpuFastSet     = 0x0C
	swiLZ77UnCompWram = 0x11
	swiLZ77UnCompVram = 0x12
)

// serviceSWI is the BIOS high-level emulation entry point. It is called for
// both ARM (SWI) and Thumb (format-17 SWI) encodings with the 8-bit function
// number already extracted from the comment field.
func (c *CPU) serviceSWI(fn uint32) {
	switch fn {
	case swiHalt:
		c.halted = true
	case swiStop:
		c.halted = true
	case swiIntrWait, swiVBlankIntrWait:
		c.biosIntrWait(fn == swiVBlankIntrWait)
	case swiDiv, swiDivArm:
		c.biosDiv(fn == swiDivArm)
	case swiSqrt:
		c.biosSqrt()
	case swiArcTan:
		// Inverse trig is not exercised by the title set this emulator
		// targets; leaving R0 unmodified is observably close enough to a
		// no-op BIOS stub.
	case swiArcTan2:
	case swiCpuSet:
		c.biosCpuSet()
	case swiCpuFastSet:
		c.biosCpuFastSet()
	case swiLZ77UnCompWram, swiLZ77UnCompVram:
		c.biosLZ77UnComp()
	case swiSoftReset, swiRegisterRamReset:
		dbg.Logf("cpu", "SWI reset (fn %02X) requested, ignoring", fn)
	default:
		dbg.Logf("cpu", "unimplemented SWI fn %02X", fn)
	}
}

// biosIntrWait implements IntrWait(0x04)/VBlankIntrWait(0x05): halt the CPU
// until one of the requested IF bits becomes set. VBlankIntrWait is the
// fixed case of waiting on bit 0 (V-blank) only; IntrWait additionally
// honours R0 (discard-existing-flags) and R1 (the wait mask) the way the
// real BIOS call does.
func (c *CPU) biosIntrWait(vblankOnly bool) {
	var mask uint16
	if vblankOnly {
		mask = 1
	} else {
		discardExisting := c.registers.GetReg(0) != 0
		mask = uint16(c.registers.GetReg(1))
		if discardExisting {
			c.bus.AckIF(mask)
		}
	}
	c.halted = true
	c.waitingForIRQ = true
	c.waitingForIRQFlags = mask
	c.waitingForIRQClear = true
}

// serviceIRQWait is polled once per Step while waitingForIRQ is set; it
// resumes the core once the awaited IF bit(s) appear and acknowledges them,
// matching the real BIOS's own IF-clearing behaviour on wake.
func (c *CPU) serviceIRQWait() {
	pending := c.bus.PeekIF() & c.waitingForIRQFlags
	if pending == 0 {
		return
	}
	if c.waitingForIRQClear {
		c.bus.AckIF(pending)
	}
	c.waitingForIRQ = false
	c.halted = false
}

// biosDiv implements Div(0x06)/DivArm(0x07): signed 32-bit division
// returning the quotient in R0, the remainder (its sign matching the
// dividend) in R1, and the always-positive |quotient| in R3.
func (c *CPU) biosDiv(armOrder bool) {
	var numerator, denominator int32
	if armOrder {
		denominator = int32(c.registers.GetReg(0))
		numerator = int32(c.registers.GetReg(1))
	} else {
		numerator = int32(c.registers.GetReg(0))
		denominator = int32(c.registers.GetReg(1))
	}
	if denominator == 0 {
		dbg.Log("cpu", "Div by zero")
		c.registers.SetReg(0, 0)
		c.registers.SetReg(1, uint32(numerator))
		c.registers.SetReg(3, 0)
		return
	}
	quotient := numerator / denominator
	remainder := numerator % denominator
	abs := quotient
	if abs < 0 {
		abs = -abs
	}
	c.registers.SetReg(0, uint32(quotient))
	c.registers.SetReg(1, uint32(remainder))
	c.registers.SetReg(3, uint32(abs))
}

// biosSqrt implements Sqrt(0x08): unsigned integer square root of R0.
func (c *CPU) biosSqrt() {
	n := c.registers.GetReg(0)
	var x uint32
	for bit := uint32(1) << 30; bit != 0; bit >>= 2 {
		if x+bit <= n {
			n -= x + bit
			x = (x >> 1) + bit
		} else {
			x >>= 1
		}
	}
	c.registers.SetReg(0, x)
}

// biosCpuSet implements CpuSet(0x0B): R0=src, R1=dst, R2=len/mode word.
// Bit 26 selects 32-bit transfers, bit 24 selects fixed-source fill mode.
func (c *CPU) biosCpuSet() {
	src := c.registers.GetReg(0)
	dst := c.registers.GetReg(1)
	control := c.registers.GetReg(2)
	count := control & 0x1FFFFF
	wordTransfer := control&(1<<26) != 0
	fixedSource := control&(1<<24) != 0

	if wordTransfer {
		for i := uint32(0); i < count; i++ {
			v := c.bus.Read32(src)
			c.bus.Write32(dst, v)
			dst += 4
			if !fixedSource {
				src += 4
			}
		}
	} else {
		for i := uint32(0); i < count; i++ {
			v := c.bus.Read16(src)
			c.bus.Write16(dst, v)
			dst += 2
			if !fixedSource {
				src += 2
			}
		}
	}
}

// biosCpuFastSet implements CpuFastSet(0x0C): always 32-bit, 8-word chunked,
// with the same fixed-source fill-mode bit as CpuSet.
func (c *CPU) biosCpuFastSet() {
	src := c.registers.GetReg(0)
	dst := c.registers.GetReg(1)
	control := c.registers.GetReg(2)
	count := control & 0x1FFFFF
	fixedSource := control&(1<<24) != 0

	// Real hardware rounds the count up to a multiple of 8 words; match
	// that so callers relying on the padding behaviour see the same writes.
	count = (count + 7) &^ 7

	for i := uint32(0); i < count; i++ {
		v := c.bus.Read32(src)
		c.bus.Write32(dst, v)
		dst += 4
		if !fixedSource {
			src += 4
		}
	}
}

// biosLZ77UnComp implements LZ77UnCompWram/Vram(0x11/0x12): R0=source
// (points at the 4-byte compression header), R1=destination.
func (c *CPU) biosLZ77UnComp() {
	src := c.registers.GetReg(0)
	dst := c.registers.GetReg(1)

	header := c.bus.Read32(src)
	size := header >> 8
	if header&0xFF != 0x10 {
		dbg.Logf("cpu", "LZ77UnComp: bad header byte %02X", header&0xFF)
	}

	var data []byte
	// Read the header plus the longest stream that can decode to size
	// bytes (one source byte per output byte and one flag byte per eight
	// entries), so the decoder can re-derive the length and always sees the
	// whole block; it stops once size bytes are produced, so any bytes read
	// past the end of the block are ignored.
	raw := make([]byte, 4+size+(size+7)/8)
	for i := range raw {
		raw[i] = c.bus.Read8(src + uint32(i))
	}
	data = lz77.Decompress(raw)

	// VRAM only supports 16-bit writes: a lone byte write there replicates
	// into both halves of the containing halfword (internal/ppu.WriteVRAM8),
	// so writing this stream byte-by-byte would let the odd byte of each
	// pair stomp the even one right after it was written. Pair bytes into
	// halfwords and write with Write16 instead, the same width-correct
	// approach biosCpuSet/biosCpuFastSet use.
	i := 0
	for ; i+1 < len(data); i += 2 {
		half := uint16(data[i]) | uint16(data[i+1])<<8
		c.bus.Write16(dst+uint32(i), half)
	}
	if i < len(data) {
		c.bus.Write8(dst+uint32(i), data[i])
	}
}
