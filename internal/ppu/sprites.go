package ppu

// objShapeSize maps the (shape, size) field pair from OBJ attr0/attr1 to a
// tile-count width/height, GBATEK "OBJ Size (Width x Height)".
var objShapeSize = [3][4][2]int{
	{{1, 1}, {2, 2}, {4, 4}, {8, 8}},   // square
	{{2, 1}, {4, 1}, {4, 2}, {8, 4}},   // horizontal
	{{1, 2}, {1, 4}, {2, 4}, {4, 8}},   // vertical
}

type objPixel struct {
	colorIndex uint8
	palette    uint8
	eightBpp   bool
	priority   uint8
	opaque     bool
}

// spriteScanline walks all 128 OAM entries and resolves the topmost OBJ
// pixel for every column of the current scanline, honoring shape/size,
// flip, 1D/2D mapping, and affine transform.
func (p *PPU) spriteScanline(line int) [ScreenWidth]objPixel {
	var out [ScreenWidth]objPixel
	var depth [ScreenWidth]uint8 // current winning OBJ priority per column, 0xFF = none yet
	for i := range depth {
		depth[i] = 0xFF
	}

	if !p.objEnabled() {
		return out
	}

	for obj := 0; obj < 128; obj++ {
		base := uint32(obj * 8)
		attr0 := p.ReadOAM16(base)
		attr1 := p.ReadOAM16(base + 2)
		attr2 := p.ReadOAM16(base + 4)

		affine := attr0&(1<<8) != 0
		doubleSize := attr0&(1<<9) != 0
		if !affine && doubleSize {
			continue // disabled (attr0 bit9 means "hidden" when not affine)
		}

		shape := (attr0 >> 14) & 0x3
		if shape == 3 {
			continue // prohibited shape value
		}
		size := (attr1 >> 14) & 0x3
		tilesW, tilesH := objShapeSize[shape][size][0], objShapeSize[shape][size][1]
		width, height := tilesW*8, tilesH*8

		boundW, boundH := width, height
		if affine && doubleSize {
			boundW, boundH = width*2, height*2
		}

		y := int(attr0 & 0xFF)
		if y >= 160 {
			y -= 256
		}
		if line < y || line >= y+boundH {
			continue
		}

		x := int(attr1 & 0x1FF)
		if x >= 240 {
			x -= 512
		}

		mode8bpp := attr0&(1<<13) != 0
		priority := uint8((attr2 >> 10) & 0x3)
		palBank := uint8((attr2 >> 12) & 0xF)
		tileIndex := uint32(attr2 & 0x3FF)

		var pa, pb, pc, pd int32 = 256, 0, 0, 256
		if affine {
			group := int((attr1 >> 9) & 0x1F)
			gbase := uint32(group * 32)
			pa = int32(int16(p.ReadOAM16(gbase + 6)))
			pb = int32(int16(p.ReadOAM16(gbase + 14)))
			pc = int32(int16(p.ReadOAM16(gbase + 22)))
			pd = int32(int16(p.ReadOAM16(gbase + 30)))
		}

		hFlip := !affine && attr1&(1<<12) != 0
		vFlip := !affine && attr1&(1<<13) != 0

		cy := line - y - boundH/2
		for sx := 0; sx < boundW; sx++ {
			col := x + sx
			if col < 0 || col >= ScreenWidth {
				continue
			}
			if depth[col] != 0xFF && depth[col] <= priority {
				continue
			}

			cx := sx - boundW/2
			var texX, texY int
			if affine {
				halfW, halfH := width/2, height/2
				tx := (pa*int32(cx)+pb*int32(cy))>>8 + int32(halfW)
				ty := (pc*int32(cx)+pd*int32(cy))>>8 + int32(halfH)
				if tx < 0 || ty < 0 || int(tx) >= width || int(ty) >= height {
					continue
				}
				texX, texY = int(tx), int(ty)
			} else {
				texX, texY = sx, line-y
				if hFlip {
					texX = width - 1 - texX
				}
				if vFlip {
					texY = height - 1 - texY
				}
			}

			tileX, tileY := texX/8, texY/8
			pxX, pxY := texX%8, texY%8

			var tileNum uint32
			if p.obj1DMapping() {
				tilesPerRow := tilesW
				if mode8bpp {
					tileNum = tileIndex + uint32(tileY*tilesPerRow*2+tileX*2)
				} else {
					tileNum = tileIndex + uint32(tileY*tilesPerRow+tileX)
				}
			} else {
				const mapWidth = 32
				if mode8bpp {
					tileNum = tileIndex + uint32(tileY*mapWidth+tileX*2)
				} else {
					tileNum = tileIndex + uint32(tileY*mapWidth+tileX)
				}
			}

			const objCharBase = 0x10000
			var colorIndex uint8
			if mode8bpp {
				addr := uint32(objCharBase) + tileNum*32 + uint32(pxY*8+pxX)
				colorIndex = p.ReadVRAM8(addr)
			} else {
				addr := uint32(objCharBase) + tileNum*32 + uint32(pxY*4+pxX/2)
				b := p.ReadVRAM8(addr)
				if pxX%2 == 0 {
					colorIndex = b & 0xF
				} else {
					colorIndex = b >> 4
				}
			}

			if colorIndex == 0 {
				continue
			}

			depth[col] = priority
			out[col] = objPixel{
				colorIndex: colorIndex,
				palette:    palBank,
				eightBpp:   mode8bpp,
				priority:   priority,
				opaque:     true,
			}
		}
	}

	return out
}

func (p *PPU) objColor(px objPixel) uint32 {
	const objPaletteBase = 0x200 // OBJ palette bank starts at palette[0x100] (entry 256)
	var addr uint32
	if px.eightBpp {
		addr = objPaletteBase + uint32(px.colorIndex)*2
	} else {
		addr = objPaletteBase + (uint32(px.palette)*16+uint32(px.colorIndex))*2
	}
	return bgr555ToARGB(p.ReadPalette16(addr))
}
