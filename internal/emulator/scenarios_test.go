package emulator

import "testing"

// newTestSystem builds a System around a minimal ROM image (just large
// enough to pass rom-size validation elsewhere; Load() isn't used here).
func newTestSystem() *System {
	return New(make([]byte, 0x200))
}

// loadWords writes a sequence of ARM words starting at addr and points the
// CPU at addr, ready for Step.
func loadWords(s *System, addr uint32, words []uint32) {
	for i, w := range words {
		s.Bus.Write32(addr+uint32(i*4), w)
	}
	s.CPU.Registers().SetReg(15, addr)
	s.CPU.FlushPipeline()
}

// loadHalfwords is loadWords' Thumb-mode counterpart.
func loadHalfwords(s *System, addr uint32, halfwords []uint16) {
	for i, h := range halfwords {
		s.Bus.Write16(addr+uint32(i*2), h)
	}
	s.CPU.Registers().SetThumbState(true)
	s.CPU.Registers().SetReg(15, addr)
	s.CPU.FlushPipeline()
}

// Scenario A: ARM MOV/ADD/SUB/AND.
func TestScenarioA_ArmDataProcessing(t *testing.T) {
	s := newTestSystem()
	loadWords(s, 0x02000000, []uint32{0xE3A0002A, 0xE280100A, 0xE2412005, 0xE202300F})

	for i := 0; i < 4; i++ {
		s.CPU.Step()
	}

	r := s.CPU.Registers()
	if got := r.GetReg(0); got != 42 {
		t.Errorf("R0 = %d, want 42", got)
	}
	if got := r.GetReg(1); got != 52 {
		t.Errorf("R1 = %d, want 52", got)
	}
	if got := r.GetReg(2); got != 47 {
		t.Errorf("R2 = %d, want 47", got)
	}
	if got := r.GetReg(3); got != 15 {
		t.Errorf("R3 = %d, want 15", got)
	}
}

// Scenario B: ARM LDR/STR round-trip through EWRAM.
func TestScenarioB_LoadStoreRoundTrip(t *testing.T) {
	s := newTestSystem()
	s.CPU.Registers().SetReg(0, 0x02002000)
	s.CPU.Registers().SetReg(1, 0xDEADBEEF)
	loadWords(s, 0x02000000, []uint32{0xE5801000, 0xE5902000})

	s.CPU.Step()
	s.CPU.Step()

	if got := s.Bus.Read32(0x02002000); got != 0xDEADBEEF {
		t.Errorf("memory at 0x02002000 = %#08x, want 0xDEADBEEF", got)
	}
	if got := s.CPU.Registers().GetReg(2); got != 0xDEADBEEF {
		t.Errorf("R2 = %#08x, want 0xDEADBEEF", got)
	}
}

// Scenario C: Thumb MOV #10 / ADD #5 / LSL #2.
func TestScenarioC_ThumbImmediate(t *testing.T) {
	s := newTestSystem()
	loadHalfwords(s, 0x02000000, []uint16{0x200A, 0x3005, 0x0081})

	for i := 0; i < 3; i++ {
		s.CPU.Step()
	}

	r := s.CPU.Registers()
	if got := r.GetReg(0); got != 15 {
		t.Errorf("R0 = %d, want 15", got)
	}
	if got := r.GetReg(1); got != 60 {
		t.Errorf("R1 = %d, want 60", got)
	}
}

// Scenario D: joypad input latch via KEYINPUT.
func TestScenarioD_InputLatch(t *testing.T) {
	s := newTestSystem()

	if got := s.Bus.Read16(0x04000130); got != 0x03FF {
		t.Fatalf("KEYINPUT after init = %#04x, want 0x03FF", got)
	}

	s.SetKeys(1) // ButtonA held: KEYINPUT clears bit 0 (active-low)
	if got := s.Bus.Read16(0x04000130); got != 0x03FE {
		t.Errorf("KEYINPUT after pressing A = %#04x, want 0x03FE", got)
	}

	s.SetKeys(0x0C) // ButtonSelect|ButtonStart
	if got := s.Bus.Read16(0x04000130); got != 0x03F3 {
		t.Errorf("KEYINPUT after pressing Select+Start = %#04x, want 0x03F3", got)
	}
}

// Scenario E: PPU mode 0 red tile, matching spec.md's literal DISPCNT/
// BG0CNT/palette/tile setup.
func TestScenarioE_PPUModeZeroRedTile(t *testing.T) {
	s := newTestSystem()

	s.Bus.Write16(0x04000000, 0x0100) // DISPCNT: mode 0, BG0 on
	s.Bus.Write16(0x04000008, 0x1F00) // BG0CNT: screen base block 31, 4bpp

	s.Bus.Write16(0x05000000+2, 0x001F) // palette[1] = 0x001F (red)

	// VRAM[32..63] = 0x11: all 8 rows of tile 1, 4bpp, both nibbles color index 1.
	for addr := uint32(32); addr < 64; addr++ {
		s.PPU.WriteVRAM8(addr, 0x11)
	}
	// Tilemap entry for column 0, row 0 of screen block 31 (0x1F * 0x800 =
	// 0xF800) selects tile index 1, palette bank 0, no flip.
	s.PPU.WriteVRAM16(0xF800, 0x0001)

	s.PPU.Advance(1) // one cycle is enough to trigger scanline 0's render

	frame := s.PPU.Frame()
	if frame[0] != 0xFFF80000 {
		t.Errorf("pixel 0 = %#08x, want 0xFFF80000", frame[0])
	}
	if frame[8] != 0xFF000000 {
		t.Errorf("pixel 8 = %#08x, want 0xFF000000 (backdrop)", frame[8])
	}
}

// Scenario F: VBlank rising edge after exactly 1232*160 cycles.
func TestScenarioF_VBlankRisingEdge(t *testing.T) {
	s := newTestSystem()
	s.Bus.Write16(0x04000004, 1<<3) // DISPSTAT.VBlankIRQ enable
	s.IRQ.SetIE(1 << 0)             // IE.VBlank
	s.IRQ.SetIME(true)

	const cyclesToVBlank = 1232 * 160
	sawVBlank := false
	var edgeAt uint64
	for i := uint64(0); i < cyclesToVBlank; i++ {
		if s.PPU.Advance(1).VBlank {
			sawVBlank = true
			edgeAt = i + 1
			break
		}
	}

	if !sawVBlank {
		t.Fatal("expected a VBlank edge at exactly cycle 1232*160")
	}
	if edgeAt != cyclesToVBlank {
		t.Errorf("VBlank edge at cycle %d, want exactly %d", edgeAt, cyclesToVBlank)
	}
	if s.Bus.Read16(0x04000004)&(1<<0) == 0 {
		t.Error("DISPSTAT.VBlank bit not set after VBlank edge")
	}
	if s.Bus.Read16(0x04000202)&(1<<0) == 0 {
		t.Error("IF.VBlank bit not set after VBlank edge with DISPSTAT.VBlankIRQ enabled")
	}
}
