// Package memory implements the GBA's flat, unbanked RAM regions: the BIOS
// stub, EWRAM and IWRAM. All three are the same kind of device (a fixed-size
// byte array that mirrors when addressed past its size); bios.go/ewram.go/
// iwram.go each give that shared implementation a name and a size, mirroring
// the three-files-per-region layout of the repo this package is adapted
// from without repeating the read/write logic three times.
package memory

// Region boundaries for the GBA's flat memory map, GBATEK "Memory Map".
const (
	BIOS_START  = 0x00000000
	BIOS_END    = 0x00003FFF
	BIOS_SIZE   = BIOS_END - BIOS_START + 1 // 16KB
	EWRAM_START = 0x02000000
	EWRAM_END   = 0x0203FFFF
	EWRAM_SIZE  = EWRAM_END - EWRAM_START + 1 // 256KB
	IWRAM_START = 0x03000000
	IWRAM_END   = 0x03007FFF
	IWRAM_SIZE  = IWRAM_END - IWRAM_START + 1 // 32KB
	VRAM_START  = 0x06000000
	VRAM_END    = 0x06017FFF
	VRAM_SIZE   = VRAM_END - VRAM_START + 1 // 96KB
	OAM_START   = 0x07000000
	OAM_END     = 0x070003FF
	OAM_SIZE    = OAM_END - OAM_START + 1 // 1KB
	ROM_START   = 0x08000000
	ROM_END     = 0x09FFFFFF
	ROM_SIZE    = ROM_END - ROM_START + 1 // 32MB
)
