package memory

// EWRAM is the GBA's 256KB external work RAM, mapped at 0x02000000 and
// mirrored across its full 0x40000-sized window.
type EWRAM struct {
	ram *RAM
}

// NewEWRAM allocates a zero-filled EWRAM region.
func NewEWRAM() *EWRAM {
	return &EWRAM{ram: NewRAM(EWRAM_SIZE)}
}

func (e *EWRAM) Read8(addr uint32) uint8    { return e.ram.Read8(addr) }
func (e *EWRAM) Read16(addr uint32) uint16  { return e.ram.Read16(addr) }
func (e *EWRAM) Read32(addr uint32) uint32  { return e.ram.Read32(addr) }
func (e *EWRAM) Write8(addr uint32, v uint8)  { e.ram.Write8(addr, v) }
func (e *EWRAM) Write16(addr uint32, v uint16) { e.ram.Write16(addr, v) }
func (e *EWRAM) Write32(addr uint32, v uint32) { e.ram.Write32(addr, v) }
