package memory

// RAM is a fixed-size, address-mirroring memory device.
type RAM struct {
	data []byte
}

// NewRAM allocates a RAM device of exactly size bytes.
func NewRAM(size int) *RAM {
	return &RAM{data: make([]byte, size)}
}

func (r *RAM) index(addr uint32) uint32 {
	return addr % uint32(len(r.data))
}

// Read8 reads one byte, wrapping addr into the device's size.
func (r *RAM) Read8(addr uint32) uint8 {
	return r.data[r.index(addr)]
}

// Write8 writes one byte, wrapping addr into the device's size.
func (r *RAM) Write8(addr uint32, value uint8) {
	r.data[r.index(addr)] = value
}

// Read16 reads a little-endian halfword, aligning addr down to an even
// boundary first as real hardware does for misaligned 16-bit accesses.
func (r *RAM) Read16(addr uint32) uint16 {
	i := r.index(addr &^ 1)
	return uint16(r.data[i]) | uint16(r.data[i+1])<<8
}

// Write16 writes a little-endian halfword at an even-aligned address.
func (r *RAM) Write16(addr uint32, value uint16) {
	i := r.index(addr &^ 1)
	r.data[i] = byte(value)
	r.data[i+1] = byte(value >> 8)
}

// Read32 reads a little-endian word, aligning addr down to a 4-byte
// boundary.
func (r *RAM) Read32(addr uint32) uint32 {
	i := r.index(addr &^ 3)
	return uint32(r.data[i]) | uint32(r.data[i+1])<<8 | uint32(r.data[i+2])<<16 | uint32(r.data[i+3])<<24
}

// Write32 writes a little-endian word at a 4-byte-aligned address.
func (r *RAM) Write32(addr uint32, value uint32) {
	i := r.index(addr &^ 3)
	r.data[i] = byte(value)
	r.data[i+1] = byte(value >> 8)
	r.data[i+2] = byte(value >> 16)
	r.data[i+3] = byte(value >> 24)
}

// Size returns the device's backing size in bytes.
func (r *RAM) Size() int {
	return len(r.data)
}
