// Package emulator owns every emulated component and drives the frame
// pump spec.md 5 describes: cpu.Step returns a cycle count, that count is
// fed in order to the PPU, the timers, and the DMA hblank/vblank hooks,
// then the interrupt predicate is re-evaluated. No component here runs its
// own goroutine or timer; System.RunFrame is the only entry point a host
// needs to call once per displayed frame.
package emulator

import (
	"goba/internal/apu"
	"goba/internal/bus"
	"goba/internal/cartridge"
	"goba/internal/cpu"
	"goba/internal/dma"
	"goba/internal/interrupt"
	"goba/internal/io"
	"goba/internal/joypad"
	"goba/internal/memory"
	"goba/internal/ppu"
	"goba/internal/timer"
)

// System is the single owning instance for one running GBA session: every
// array and register spec.md 9's "globally mutable module-scope arrays
// become fields of a single owning instance" redesign note calls for.
type System struct {
	CPU   *cpu.CPU
	Bus   *bus.Bus
	PPU   *ppu.PPU
	DMA   *dma.Controller
	Timers *timer.Controller
	APU   *apu.APU
	Joypad *joypad.Joypad
	IRQ   *interrupt.Controller
	Cart  *cartridge.Cartridge
}

// New builds a complete system around romData and resets the CPU to its
// post-boot state.
func New(romData []byte) *System {
	irq := interrupt.NewController()

	bios := memory.NewBIOS()
	ewram := memory.NewEWRAM()
	iwram := memory.NewIWRAM()
	ioRegs := io.NewIORegs()
	p := ppu.New(irq)
	cart := cartridge.NewCartridge(romData)
	pad := joypad.New()
	audio := apu.New()
	timers := timer.New(irq)

	b := bus.New(bios, ewram, iwram, ioRegs, p, cart, nil, timers, audio, pad, irq)
	dmaCtrl := dma.New(b, irq)
	b.DMA = dmaCtrl

	c := cpu.NewCPU(b)
	c.Reset()

	return &System{
		CPU: c, Bus: b, PPU: p, DMA: dmaCtrl, Timers: timers,
		APU: audio, Joypad: pad, IRQ: irq, Cart: cart,
	}
}

// Step runs exactly one CPU instruction (or, if halted, advances one
// cycle waiting for an interrupt) and drives every time-sliced peripheral
// by the cycles it consumed, in the order spec.md 9 specifies:
// cpu.step() -> ppu.advance(cycles) -> timers.advance(cycles) ->
// dma hblank/vblank hooks -> irq.check(cpu).
func (s *System) Step() uint64 {
	cycles := s.CPU.Step()
	if cycles == 0 {
		cycles = 1 // halted CPU still lets time pass for the wake check
	}

	edges := s.PPU.Advance(cycles)
	s.Timers.Advance(cycles)
	if edges.HBlank {
		s.DMA.OnHBlank()
	}
	if edges.VBlank {
		s.DMA.OnVBlank()
	}
	s.APU.Advance(cycles)
	s.IRQ.Check(s.CPU)

	return cycles
}

// RunFrame steps the system until one full video frame (a VBlank rising
// edge) has been produced, then returns. This is the call a host makes
// once per displayed frame.
func (s *System) RunFrame() {
	for {
		cycles := s.CPU.Step()
		if cycles == 0 {
			cycles = 1
		}
		edges := s.PPU.Advance(cycles)
		s.Timers.Advance(cycles)
		if edges.HBlank {
			s.DMA.OnHBlank()
		}
		if edges.VBlank {
			s.DMA.OnVBlank()
		}
		s.APU.Advance(cycles)
		s.IRQ.Check(s.CPU)

		if edges.VBlank {
			return
		}
	}
}

// Frame returns the PPU's current framebuffer, 240x160 packed 0xAARRGGBB.
func (s *System) Frame() []uint32 {
	return s.PPU.Frame()
}

// SetKeys latches the host's current button state into the joypad, per
// spec.md 5's "input state is latched into KEYINPUT between frames".
func (s *System) SetKeys(pressed uint16) {
	s.Joypad.SetKeys(pressed)
}

// Reset reloads romData as a fresh cartridge and resets every component to
// its post-boot state, used for cold reset and for the host's Ctrl+Shift+V
// ROM-hot-swap.
func (s *System) Reset(romData []byte) {
	*s = *New(romData)
}
