package memory

// BIOS is the GBA's 16KB Boot ROM region. This emulator services SWI calls
// through HLE (internal/cpu's bios_hle.go) rather than interpreting real
// BIOS code, so the backing store here never needs authentic boot-ROM
// bytes; it stays zero-filled and exists only so addresses in 0x00000000-
// 0x00003FFF resolve to something instead of the bus having a hole in its
// decode table.
type BIOS struct {
	ram *RAM
}

// NewBIOS returns a zero-filled, read-only BIOS region.
func NewBIOS() *BIOS {
	return &BIOS{ram: NewRAM(BIOS_SIZE)}
}

func (b *BIOS) Read8(addr uint32) uint8   { return b.ram.Read8(addr) }
func (b *BIOS) Read16(addr uint32) uint16 { return b.ram.Read16(addr) }
func (b *BIOS) Read32(addr uint32) uint32 { return b.ram.Read32(addr) }

// Write8/Write16/Write32 are no-ops: the BIOS region is read-only on real
// hardware and nothing in this emulator's boot path writes to it.
func (b *BIOS) Write8(addr uint32, value uint8)   {}
func (b *BIOS) Write16(addr uint32, value uint16) {}
func (b *BIOS) Write32(addr uint32, value uint32) {}
