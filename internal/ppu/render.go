package ppu

// renderScanline composes one visible line into p.frame according to the
// active video mode, per spec.md 4.9's mode table and compositing rule:
// the lowest-priority-value non-transparent source wins, ties broken by
// BG number ascending, sprites winning ties against BGs of equal priority.
func (p *PPU) renderScanline(line int) {
	rowOff := line * ScreenWidth

	if p.dispcnt&(1<<7) != 0 { // forced blank
		for x := 0; x < ScreenWidth; x++ {
			p.frame[rowOff+x] = 0xFFFFFFFF
		}
		return
	}

	switch p.mode() {
	case 0:
		p.renderTiled(line, rowOff, [4]bool{true, true, true, true}, [4]bool{false, false, false, false})
	case 1:
		p.renderTiled(line, rowOff, [4]bool{true, true, true, false}, [4]bool{false, false, true, false})
	case 2:
		p.renderTiled(line, rowOff, [4]bool{false, false, true, true}, [4]bool{false, false, true, true})
	case 3:
		p.renderBitmapMode3(line, rowOff)
	case 4:
		p.renderBitmapMode4(line, rowOff)
	case 5:
		p.renderBitmapMode5(line, rowOff)
	}
}

// renderTiled composes a text/affine BG scanline (modes 0-2) plus sprites.
// active[bg] says whether that BG participates in the current mode;
// affine[bg] says whether it's fetched via the affine path rather than
// text.
func (p *PPU) renderTiled(line, rowOff int, active, affine [4]bool) {
	sprites := p.spriteScanline(line)

	for x := 0; x < ScreenWidth; x++ {
		best := p.backdropColor()
		bestPriority := uint8(4)
		haveBest := false

		for bg := 0; bg < 4; bg++ {
			if !active[bg] || !p.bgEnabled(bg) {
				continue
			}
			var px bgPixel
			if affine[bg] {
				px = p.affineBGPixel(bg, affineSlotFor(bg), x, line)
			} else {
				px = p.textBGPixel(bg, x, line)
			}
			if !px.opaque {
				continue
			}
			if !haveBest || px.priority < bestPriority {
				best = p.bgColor(px)
				bestPriority = px.priority
				haveBest = true
			}
		}

		sp := sprites[x]
		if sp.opaque && (!haveBest || sp.priority <= bestPriority) {
			best = p.objColor(sp)
		}

		p.frame[rowOff+x] = best
	}
}

// affineSlotFor maps a BG index to its affine-parameter slot (BG2->0,
// BG3->1); only BG2/BG3 ever take the affine path.
func affineSlotFor(bg int) int {
	if bg == 2 {
		return 0
	}
	return 1
}

// renderBitmapMode3 renders the 240x160, 15bpp direct-color bitmap mode.
func (p *PPU) renderBitmapMode3(line, rowOff int) {
	for x := 0; x < ScreenWidth; x++ {
		addr := uint32(line*ScreenWidth+x) * 2
		p.frame[rowOff+x] = bgr555ToARGB(p.ReadVRAM16(addr))
	}
}

// renderBitmapMode4 renders the 240x160, 8bpp paletted, page-flipped
// bitmap mode.
func (p *PPU) renderBitmapMode4(line, rowOff int) {
	base := uint32(0)
	if p.dispcnt&(1<<4) != 0 {
		base = 0xA000
	}
	for x := 0; x < ScreenWidth; x++ {
		idx := p.ReadVRAM8(base + uint32(line*ScreenWidth+x))
		p.frame[rowOff+x] = bgr555ToARGB(p.ReadPalette16(uint32(idx) * 2))
	}
}

// renderBitmapMode5 renders the 160x128, 15bpp, page-flipped bitmap mode;
// the unused border of the 240x160 frame is left black.
func (p *PPU) renderBitmapMode5(line, rowOff int) {
	const modeWidth, modeHeight = 160, 128
	base := uint32(0)
	if p.dispcnt&(1<<4) != 0 {
		base = 0xA000
	}
	if line >= modeHeight {
		for x := 0; x < ScreenWidth; x++ {
			p.frame[rowOff+x] = 0xFF000000
		}
		return
	}
	for x := 0; x < ScreenWidth; x++ {
		if x >= modeWidth {
			p.frame[rowOff+x] = 0xFF000000
			continue
		}
		addr := base + uint32(line*modeWidth+x)*2
		p.frame[rowOff+x] = bgr555ToARGB(p.ReadVRAM16(addr))
	}
}
