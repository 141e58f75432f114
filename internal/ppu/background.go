package ppu

// bgPixel is one background layer's contribution to a pixel: the palette
// index it resolved (0 means transparent) and the priority it renders at.
type bgPixel struct {
	colorIndex uint8
	palette    uint8 // 16-color bank, 4bpp only
	eightBpp   bool
	priority   uint8
	opaque     bool
}

// textBGPixel fetches background bg's pixel at screen column x on the
// scanline currently being rendered, per spec.md 4.9's text-BG fetch
// algorithm: scroll-wrap, tilemap lookup, tile-data fetch, 0-index
// transparency.
func (p *PPU) textBGPixel(bg int, x, line int) bgPixel {
	cnt := p.bgcnt[bg]
	charBase := uint32((cnt>>2)&0x3) * 0x4000
	screenBase := uint32((cnt>>8)&0x1F) * 0x800
	eightBpp := cnt&(1<<7) != 0
	screenSize := (cnt >> 14) & 0x3
	priority := uint8(cnt & 0x3)

	wrapX, wrapY := bgTextDimensions(screenSize)

	scrolledX := (x + int(p.bghofs[bg])) % wrapX
	scrolledY := (line + int(p.bgvofs[bg])) % wrapY

	tileX := scrolledX / 8
	tileY := scrolledY / 8
	pixelX := scrolledX % 8
	pixelY := scrolledY % 8

	// Screen-size 1/3 (512-wide variants) store a second 32x32 screen block
	// to the right (and, for size 3, also below); select the right block.
	mapsWide := wrapX / 256
	blockX := tileX / 32
	blockY := tileY / 32
	tileX %= 32
	tileY %= 32
	blockIndex := blockY*mapsWide + blockX
	mapBase := screenBase + uint32(blockIndex)*0x800

	entryAddr := mapBase + uint32(tileY*32+tileX)*2
	entry := p.ReadVRAM16(entryAddr)

	tileIndex := entry & 0x3FF
	hFlip := entry&(1<<10) != 0
	vFlip := entry&(1<<11) != 0
	palBank := uint8((entry >> 12) & 0xF)

	if hFlip {
		pixelX = 7 - pixelX
	}
	if vFlip {
		pixelY = 7 - pixelY
	}

	var colorIndex uint8
	if eightBpp {
		tileAddr := charBase + uint32(tileIndex)*64 + uint32(pixelY*8+pixelX)
		colorIndex = p.ReadVRAM8(tileAddr)
	} else {
		tileAddr := charBase + uint32(tileIndex)*32 + uint32(pixelY*4+pixelX/2)
		b := p.ReadVRAM8(tileAddr)
		if pixelX%2 == 0 {
			colorIndex = b & 0xF
		} else {
			colorIndex = b >> 4
		}
	}

	return bgPixel{
		colorIndex: colorIndex,
		palette:    palBank,
		eightBpp:   eightBpp,
		priority:   priority,
		opaque:     colorIndex != 0,
	}
}

// bgTextDimensions returns the wraparound width/height in pixels for a
// text-mode screen-size selector (BGATEK "BG Screen Size").
func bgTextDimensions(size uint16) (int, int) {
	switch size {
	case 0:
		return 256, 256
	case 1:
		return 512, 256
	case 2:
		return 256, 512
	default:
		return 512, 512
	}
}

// affineBGPixel fetches BG2/BG3's pixel in an affine-mapped mode (1 or 2),
// applying the 2x2 rotation/scale matrix to screen column x and scanline
// line, offset by the fixed-point reference point, to derive a source texel.
func (p *PPU) affineBGPixel(bg int, affineSlot int, x, line int) bgPixel {
	cnt := p.bgcnt[bg]
	charBase := uint32((cnt>>2)&0x3) * 0x4000
	screenBase := uint32((cnt>>8)&0x1F) * 0x800
	priority := uint8(cnt & 0x3)
	sizeSel := (cnt >> 14) & 0x3
	dim := [4]int{128, 256, 512, 1024}[sizeSel]
	wrap := cnt&(1<<13) != 0

	ap := p.bgAffine[affineSlot]
	// Reference point is fixed-point 20.8; pa/pb/pc/pd are fixed-point 8.8.
	px := (ap.refX + int32(x)*int32(ap.pa) + int32(line)*int32(ap.pb)) >> 8
	py := (ap.refY + int32(x)*int32(ap.pc) + int32(line)*int32(ap.pd)) >> 8

	if wrap {
		px = ((px % int32(dim)) + int32(dim)) % int32(dim)
		py = ((py % int32(dim)) + int32(dim)) % int32(dim)
	} else if px < 0 || py < 0 || int(px) >= dim || int(py) >= dim {
		return bgPixel{}
	}

	tilesPerRow := dim / 8
	tileX := int(px) / 8
	tileY := int(py) / 8
	pixelX := int(px) % 8
	pixelY := int(py) % 8

	entryAddr := screenBase + uint32(tileY*tilesPerRow+tileX)
	tileIndex := uint32(p.ReadVRAM8(entryAddr))

	tileAddr := charBase + tileIndex*64 + uint32(pixelY*8+pixelX)
	colorIndex := p.ReadVRAM8(tileAddr)

	return bgPixel{
		colorIndex: colorIndex,
		eightBpp:   true,
		priority:   priority,
		opaque:     colorIndex != 0,
	}
}

// bgColor resolves a bgPixel's palette index to an 0xAARRGGBB color.
func (p *PPU) bgColor(px bgPixel) uint32 {
	var addr uint32
	if px.eightBpp {
		addr = uint32(px.colorIndex) * 2
	} else {
		addr = (uint32(px.palette)*16 + uint32(px.colorIndex)) * 2
	}
	return bgr555ToARGB(p.ReadPalette16(addr))
}

func (p *PPU) backdropColor() uint32 {
	return bgr555ToARGB(p.ReadPalette16(0))
}

// bgr555ToARGB expands a 5-bit-per-channel BGR555 color to 8-bit-per-channel
// ARGB by left-shifting 3 bits; the low 3 bits of each channel stay zero
// (no bit replication, no rounding to the nearest 255/31 fraction).
func bgr555ToARGB(c uint16) uint32 {
	r := uint32(c&0x1F) << 3
	g := uint32((c>>5)&0x1F) << 3
	b := uint32((c>>10)&0x1F) << 3
	return 0xFF000000 | r<<16 | g<<8 | b
}
