package memory

// IWRAM is the GBA's 32KB internal work RAM, mapped at 0x03000000. On
// hardware it runs at full bus speed with no wait states; this emulator
// does not model wait states for any region.
type IWRAM struct {
	ram *RAM
}

// NewIWRAM allocates a zero-filled IWRAM region.
func NewIWRAM() *IWRAM {
	return &IWRAM{ram: NewRAM(IWRAM_SIZE)}
}

func (i *IWRAM) Read8(addr uint32) uint8    { return i.ram.Read8(addr) }
func (i *IWRAM) Read16(addr uint32) uint16  { return i.ram.Read16(addr) }
func (i *IWRAM) Read32(addr uint32) uint32  { return i.ram.Read32(addr) }
func (i *IWRAM) Write8(addr uint32, v uint8)  { i.ram.Write8(addr, v) }
func (i *IWRAM) Write16(addr uint32, v uint16) { i.ram.Write16(addr, v) }
func (i *IWRAM) Write32(addr uint32, v uint32) { i.ram.Write32(addr, v) }

// Contains reports whether addr falls in IWRAM's primary mapped window
// (IWRAM_START..IWRAM_END), not in one of its mirrors.
func (i *IWRAM) Contains(addr uint32) bool {
	return addr >= IWRAM_START && addr <= IWRAM_END
}
