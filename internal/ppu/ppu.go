// Package ppu implements the GBA's pixel-processing unit: the scanline
// timing state machine (DISPSTAT/VCOUNT, HBlank/VBlank/VCount-match
// interrupts), the six video modes' renderers, and the 128-entry sprite
// engine. Grounded on LJS360d-RoBA/internal/ppu/ppu.go for the overall
// shape (owning struct, DISPCNT/VCOUNT fields, a packed-RGBA frame, a
// Tick-style advance loop) and rebuilt against it: the teacher's PPU only
// implemented mode 3 and delegated VRAM/palette storage to the bus via
// Bus.GetIORegsPtr(), which both under-renders (modes 0/1/2/4/5 and
// sprites were unimplemented) and forces every pixel fetch through an
// extra interface hop. This version owns VRAM/palette/OAM directly, the
// way GBATEK describes the hardware actually being wired, and adds the
// scanline-accurate DISPSTAT edge schedule spec.md 4.9 requires.
package ppu

import "goba/internal/interrupt"

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	cyclesPerLine  = 1232
	hblankCycle    = 960
	linesPerFrame  = 228
	visibleLines   = 160

	vramSize    = 0x18000
	paletteSize = 0x400
	oamSize     = 0x400
)

// DISPSTAT bit positions.
const (
	dispstatVBlank      = 1 << 0
	dispstatHBlank      = 1 << 1
	dispstatVCountMatch = 1 << 2
	dispstatVBlankIRQ   = 1 << 3
	dispstatHBlankIRQ   = 1 << 4
	dispstatVCountIRQ   = 1 << 5
)

// Edges reports which scanline-boundary events occurred during one Advance
// call, so internal/emulator can forward them to internal/dma without this
// package importing that one (avoiding an import cycle: dma already
// imports interrupt, and a ppu<->dma edge isn't needed for either to do
// its job).
type Edges struct {
	HBlank bool
	VBlank bool
}

// PPU owns video RAM, palette RAM, OAM, and the display registers, and
// renders one scanline at a time into a packed 0xAARRGGBB frame buffer.
type PPU struct {
	vram    [vramSize]byte
	palette [paletteSize]byte
	oam     [oamSize]byte

	dispcnt  uint16
	dispstat uint16
	vcount   uint16

	bgcnt  [4]uint16
	bghofs [4]uint16
	bgvofs [4]uint16

	// Affine BG reference point and matrix, BG2/BG3 only (modes 1/2).
	bgAffine [2]affineParams

	scanlineCycle uint32

	frame [ScreenWidth * ScreenHeight]uint32

	irq *interrupt.Controller
}

type affineParams struct {
	pa, pb, pc, pd int16
	refX, refY     int32
}

// New returns a PPU with registers zeroed and the frame buffer black.
func New(irq *interrupt.Controller) *PPU {
	return &PPU{irq: irq}
}

// Frame returns the most recently rendered frame, packed 0xAARRGGBB,
// row-major, ScreenWidth*ScreenHeight pixels.
func (p *PPU) Frame() []uint32 {
	return p.frame[:]
}

// VCount is the live VCOUNT value.
func (p *PPU) VCount() uint16 {
	return p.vcount
}

// Advance steps the scanline state machine by cycles GBA clocks, rendering
// a scanline at the start of each visible line's HDraw and flagging the
// DISPSTAT/IF transitions spec.md 4.9 defines. cycles is consumed one
// clock at a time so multi-cycle steps can't skip over a threshold.
func (p *PPU) Advance(cycles uint64) Edges {
	var edges Edges
	for i := uint64(0); i < cycles; i++ {
		p.scanlineCycle++

		// The first cycle of a visible line's HDraw is exactly when that
		// line's pixels get produced: true at reset (line 0 hasn't been
		// drawn yet) and true again every time scanlineCycle wraps into a
		// new line below.
		if p.scanlineCycle == 1 && int(p.vcount) < visibleLines {
			p.renderScanline(int(p.vcount))
		}

		switch p.scanlineCycle {
		case hblankCycle:
			p.dispstat |= dispstatHBlank
			if p.dispstat&dispstatHBlankIRQ != 0 {
				p.irq.Raise(interrupt.FlagHBlank)
			}
			edges.HBlank = true
		case cyclesPerLine:
			p.scanlineCycle = 0
			p.dispstat &^= dispstatHBlank
			p.vcount++
			if int(p.vcount) >= linesPerFrame {
				p.vcount = 0
				p.dispstat &^= dispstatVBlank
			}

			if p.vcount == visibleLines {
				p.dispstat |= dispstatVBlank
				if p.dispstat&dispstatVBlankIRQ != 0 {
					p.irq.Raise(interrupt.FlagVBlank)
				}
				edges.VBlank = true
			}

			vcountSetting := uint16(p.dispstat >> 8)
			if p.vcount == vcountSetting {
				p.dispstat |= dispstatVCountMatch
				if p.dispstat&dispstatVCountIRQ != 0 {
					p.irq.Raise(interrupt.FlagVCount)
				}
			} else {
				p.dispstat &^= dispstatVCountMatch
			}
		}
	}
	return edges
}
