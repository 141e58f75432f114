package ppu

// ReadIO8/WriteIO8 serve the DISPCNT..BGxVOFS register window
// (0x04000000-0x0400005E), addressed relative to that window's base.
// internal/bus routes this slice of the I/O page here; everything else in
// 0x04000000-0x040003FE stays with internal/io or another peripheral.
func (p *PPU) ReadIO8(addr uint32) uint8 {
	return uint8(p.ReadIO16(addr&^1) >> ((addr & 1) * 8))
}

func (p *PPU) WriteIO8(addr uint32, value uint8) {
	cur := p.ReadIO16(addr &^ 1)
	if addr&1 == 0 {
		cur = (cur &^ 0xFF) | uint16(value)
	} else {
		cur = (cur &^ 0xFF00) | uint16(value)<<8
	}
	p.WriteIO16(addr&^1, cur)
}

func (p *PPU) ReadIO16(addr uint32) uint16 {
	switch {
	case addr == 0x000:
		return p.dispcnt
	case addr == 0x004:
		return p.dispstat
	case addr == 0x006:
		return p.vcount
	case addr >= 0x008 && addr <= 0x00E:
		return p.bgcnt[(addr-0x008)/2]
	case addr >= 0x010 && addr <= 0x01E:
		idx := (addr - 0x010) / 4
		if (addr-0x010)%4 == 0 {
			return p.bghofs[idx]
		}
		return p.bgvofs[idx]
	default:
		return 0
	}
}

func (p *PPU) WriteIO16(addr uint32, value uint16) {
	switch {
	case addr == 0x000:
		p.dispcnt = value
	case addr == 0x004:
		// VBlank/HBlank/VCountMatch (bits 0-2) are read-only status bits;
		// only the IRQ-enable and VCount-setting fields are writable.
		const writableMask = uint16(0xFFF8)
		p.dispstat = (p.dispstat &^ writableMask) | (value & writableMask)
	case addr >= 0x008 && addr <= 0x00E:
		p.bgcnt[(addr-0x008)/2] = value
	case addr >= 0x010 && addr <= 0x01E:
		idx := (addr - 0x010) / 4
		if (addr-0x010)%4 == 0 {
			p.bghofs[idx] = value & 0x1FF
		} else {
			p.bgvofs[idx] = value & 0x1FF
		}
	case addr >= 0x020 && addr <= 0x03E:
		p.writeAffineReg(0, addr-0x020, value)
	case addr >= 0x040 && addr <= 0x05E:
		p.writeAffineReg(1, addr-0x040, value)
	}
}

// writeAffineReg services BG2PA..BG2Y / BG3PA..BG3Y, the affine-BG
// parameter registers used by modes 1 and 2. bg is 0 for BG2, 1 for BG3.
func (p *PPU) writeAffineReg(bg int, off uint32, value uint16) {
	ap := &p.bgAffine[bg]
	switch {
	case off == 0x00:
		ap.pa = int16(value)
	case off == 0x02:
		ap.pb = int16(value)
	case off == 0x04:
		ap.pc = int16(value)
	case off == 0x06:
		ap.pd = int16(value)
	case off == 0x08 || off == 0x0A:
		ap.refX = writeRefPointHalf(ap.refX, off == 0x0A, value)
	case off == 0x0C || off == 0x0E:
		ap.refY = writeRefPointHalf(ap.refY, off == 0x0E, value)
	}
}

// writeRefPointHalf updates one halfword of a 28-bit signed fixed-point
// reference-point register (BGxX_L/H, BGxY_L/H).
func writeRefPointHalf(cur int32, high bool, value uint16) int32 {
	u := uint32(cur)
	if high {
		u = (u &^ 0xFFFF0000) | uint32(value)<<16
	} else {
		u = (u &^ 0xFFFF) | uint32(value)
	}
	return signExtend28(u)
}

func signExtend28(v uint32) int32 {
	v &= 0x0FFFFFFF
	if v&0x08000000 != 0 {
		return int32(v | 0xF0000000)
	}
	return int32(v)
}

func (p *PPU) mode() uint16 { return p.dispcnt & 0x7 }

func (p *PPU) bgEnabled(bg int) bool { return p.dispcnt&(1<<(8+uint(bg))) != 0 }

func (p *PPU) objEnabled() bool { return p.dispcnt&(1<<12) != 0 }

func (p *PPU) obj1DMapping() bool { return p.dispcnt&(1<<6) != 0 }

// VRAM/palette/OAM device access. Byte writes to BG-class VRAM and
// palette RAM replicate across both bytes of the addressed halfword (real
// hardware can't write a lone byte to 16-bit-only memory); byte writes to
// OBJ-class VRAM and to OAM are silently discarded, GBATEK "VRAM/OAM 8bit
// Writes".
func (p *PPU) ReadVRAM8(addr uint32) uint8 {
	return p.vram[addr%vramSize]
}

func (p *PPU) WriteVRAM8(addr uint32, value uint8) {
	if addr >= objVRAMBoundary(p.mode()) {
		return
	}
	i := (addr % vramSize) &^ 1
	p.vram[i] = value
	p.vram[i+1] = value
}

func (p *PPU) ReadVRAM16(addr uint32) uint16 {
	i := addr % vramSize &^ 1
	return uint16(p.vram[i]) | uint16(p.vram[i+1])<<8
}

func (p *PPU) WriteVRAM16(addr uint32, value uint16) {
	i := addr % vramSize &^ 1
	p.vram[i] = byte(value)
	p.vram[i+1] = byte(value >> 8)
}

func (p *PPU) ReadVRAM32(addr uint32) uint32 {
	i := addr % vramSize &^ 3
	return uint32(p.vram[i]) | uint32(p.vram[i+1])<<8 | uint32(p.vram[i+2])<<16 | uint32(p.vram[i+3])<<24
}

func (p *PPU) WriteVRAM32(addr uint32, value uint32) {
	i := addr % vramSize &^ 3
	p.vram[i] = byte(value)
	p.vram[i+1] = byte(value >> 8)
	p.vram[i+2] = byte(value >> 16)
	p.vram[i+3] = byte(value >> 24)
}

// objVRAMBoundary returns the first offset within the VRAM window that
// belongs to OBJ tile data rather than BG tile/bitmap data, which differs
// between tile modes (0-2) and bitmap modes (3-5).
func objVRAMBoundary(mode uint16) uint32 {
	if mode >= 3 {
		return 0x14000
	}
	return 0x10000
}

func (p *PPU) ReadPalette8(addr uint32) uint8 {
	return p.palette[addr%paletteSize]
}

func (p *PPU) WritePalette8(addr uint32, value uint8) {
	i := (addr % paletteSize) &^ 1
	p.palette[i] = value
	p.palette[i+1] = value
}

func (p *PPU) ReadPalette16(addr uint32) uint16 {
	i := addr % paletteSize &^ 1
	return uint16(p.palette[i]) | uint16(p.palette[i+1])<<8
}

func (p *PPU) WritePalette16(addr uint32, value uint16) {
	i := addr % paletteSize &^ 1
	p.palette[i] = byte(value)
	p.palette[i+1] = byte(value >> 8)
}

func (p *PPU) ReadOAM8(addr uint32) uint8 {
	return p.oam[addr%oamSize]
}

func (p *PPU) WriteOAM8(addr uint32, value uint8) {}

func (p *PPU) ReadOAM16(addr uint32) uint16 {
	i := addr % oamSize &^ 1
	return uint16(p.oam[i]) | uint16(p.oam[i+1])<<8
}

func (p *PPU) WriteOAM16(addr uint32, value uint16) {
	i := addr % oamSize &^ 1
	p.oam[i] = byte(value)
	p.oam[i+1] = byte(value >> 8)
}
