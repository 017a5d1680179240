package nes

// v register layout: yyy NN YYYYY XXXXX
// fine y, nametable select, coarse y, coarse x

func (p *PPU) coarseX() uint16 { return p.v & 0x001F }
func (p *PPU) coarseY() uint16 { return (p.v >> 5) & 0x001F }
func (p *PPU) fineY() uint16   { return (p.v >> 12) & 0x0007 }

func (p *PPU) incrementScrollX() {
	if !p.renderingEnabled() {
		return
	}
	if p.coarseX() == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
		return
	}
	p.v++
}

func (p *PPU) incrementScrollY() {
	if !p.renderingEnabled() {
		return
	}
	if p.fineY() < 7 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000

	y := p.coarseY()
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | y<<5
}

func (p *PPU) transferAddressX() {
	if !p.renderingEnabled() {
		return
	}
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) transferAddressY() {
	if !p.renderingEnabled() {
		return
	}
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = (p.bgShifterPatternLo & 0xFF00) | uint16(p.bgNextTileLo)
	p.bgShifterPatternHi = (p.bgShifterPatternHi & 0xFF00) | uint16(p.bgNextTileHi)

	p.bgShifterAttrLo &= 0xFF00
	if p.bgNextTileAttr&0x01 != 0 {
		p.bgShifterAttrLo |= 0x00FF
	}
	p.bgShifterAttrHi &= 0xFF00
	if p.bgNextTileAttr&0x02 != 0 {
		p.bgShifterAttrHi |= 0x00FF
	}
}

func (p *PPU) updateShifters() {
	if p.renderingEnabled() {
		p.bgShifterPatternLo <<= 1
		p.bgShifterPatternHi <<= 1
		p.bgShifterAttrLo <<= 1
		p.bgShifterAttrHi <<= 1
	}

	if p.mask&maskSprites != 0 && p.dot < 258 {
		for i := 0; i < p.spriteCount; i++ {
			if p.lineSprites[i].x > 0 {
				p.lineSprites[i].x--
				continue
			}
			p.spritePatternLo[i] <<= 1
			p.spritePatternHi[i] <<= 1
		}
	}
}

// fetchBackground runs the 8-dot nametable/attribute/pattern fetch cycle.
func (p *PPU) fetchBackground() {
	switch (p.dot - 1) % 8 {
	case 0:
		p.loadBackgroundShifters()
		p.bgNextTileID = p.mem.Read8(0x2000 | (p.v & 0x0FFF))
	case 2:
		addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		attr := p.mem.Read8(addr)
		if p.coarseY()&0x02 != 0 {
			attr >>= 4
		}
		if p.coarseX()&0x02 != 0 {
			attr >>= 2
		}
		p.bgNextTileAttr = attr & 0x03
	case 4:
		p.bgNextTileLo = p.mem.Read8(p.bgPatternAddr())
	case 6:
		p.bgNextTileHi = p.mem.Read8(p.bgPatternAddr() + 8)
	case 7:
		p.incrementScrollX()
	}
}

func (p *PPU) bgPatternAddr() uint16 {
	var table uint16
	if p.ctrl&ctrlBgTable != 0 {
		table = 0x1000
	}
	return table + uint16(p.bgNextTileID)<<4 + p.fineY()
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

// evaluateSprites selects up to 8 sprites covering the current scanline.
// They are drawn on the next one, matching the one-line OAM y offset.
func (p *PPU) evaluateSprites() {
	for i := range p.lineSprites {
		p.lineSprites[i] = sprite{y: 0xFF, tile: 0xFF, attr: 0xFF, x: 0xFF}
		p.spritePatternLo[i] = 0
		p.spritePatternHi[i] = 0
	}
	p.spriteCount = 0
	p.spriteZeroPossible = false

	height := p.spriteHeight()
	for n := 0; n < 64; n++ {
		diff := p.scanLine - int(p.oam[n*4])
		if diff < 0 || diff >= height {
			continue
		}
		if p.spriteCount == len(p.lineSprites) {
			p.status |= statusOverflow
			break
		}
		if n == 0 {
			p.spriteZeroPossible = true
		}
		p.lineSprites[p.spriteCount] = p.oamSprite(n)
		p.spriteCount++
	}
}

func (p *PPU) loadSprites() {
	for i := 0; i < p.spriteCount; i++ {
		s := p.lineSprites[i]
		row := uint16(p.scanLine - int(s.y))
		flipV := s.attr&0x80 != 0

		var addr uint16
		if p.spriteHeight() == 8 {
			if flipV {
				row = 7 - row
			}
			addr = uint16(p.ctrl&ctrlSpriteTable)<<9 | uint16(s.tile)<<4 | row
		} else {
			if flipV {
				row = 15 - row
			}
			tile := uint16(s.tile & 0xFE)
			if row >= 8 {
				tile++
				row -= 8
			}
			addr = uint16(s.tile&0x01)<<12 | tile<<4 | row
		}

		lo := p.mem.Read8(addr)
		hi := p.mem.Read8(addr + 8)
		if s.attr&0x40 != 0 {
			lo = reverseByte(lo)
			hi = reverseByte(hi)
		}
		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
	}
}

func reverseByte(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

func (p *PPU) backgroundPixel() (pixel, palette uint8) {
	if p.mask&maskBg == 0 || (p.mask&maskBgLeft == 0 && p.dot <= 8) {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.fineX
	if p.bgShifterPatternLo&bit != 0 {
		pixel |= 0x01
	}
	if p.bgShifterPatternHi&bit != 0 {
		pixel |= 0x02
	}
	if p.bgShifterAttrLo&bit != 0 {
		palette |= 0x01
	}
	if p.bgShifterAttrHi&bit != 0 {
		palette |= 0x02
	}
	return pixel, palette
}

func (p *PPU) spritePixel() (pixel, palette uint8, front bool) {
	p.spriteZeroRendering = false
	if p.mask&maskSprites == 0 || (p.mask&maskSpriteLeft == 0 && p.dot <= 8) {
		return 0, 0, false
	}
	for i := 0; i < p.spriteCount; i++ {
		s := p.lineSprites[i]
		if s.x != 0 {
			continue
		}
		pixel = (p.spritePatternHi[i]>>7)<<1 | p.spritePatternLo[i]>>7
		if pixel == 0 {
			continue
		}
		if i == 0 && p.spriteZeroPossible {
			p.spriteZeroRendering = true
		}
		return pixel, s.attr&0x03 + 4, s.attr&0x20 == 0
	}
	return 0, 0, false
}

func (p *PPU) renderPixel() {
	bgPixel, bgPalette := p.backgroundPixel()
	fgPixel, fgPalette, fgFront := p.spritePixel()

	var pixel, palette uint8
	switch {
	case bgPixel == 0 && fgPixel == 0:
	case bgPixel == 0:
		pixel, palette = fgPixel, fgPalette
	case fgPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if fgFront {
			pixel, palette = fgPixel, fgPalette
		} else {
			pixel, palette = bgPixel, bgPalette
		}
		if p.spriteZeroRendering && p.spriteZeroHitAllowed() {
			p.status |= statusSpriteZero
		}
	}

	p.screen[p.scanLine*ScreenWidth+p.dot-1] = argb(p.pixelColor(palette, pixel))
}

// spriteZeroHitAllowed applies the left column rule: unless both left-edge
// bits of PPUMASK are set, hits are not detected in the first 8 pixels.
func (p *PPU) spriteZeroHitAllowed() bool {
	if p.mask&(maskBg|maskSprites) != maskBg|maskSprites {
		return false
	}
	left := maskBgLeft | maskSpriteLeft
	if p.mask&left != left {
		return p.dot >= 9 && p.dot < 258
	}
	return p.dot >= 1 && p.dot < 258
}

// pixelColor resolves a rendered pixel. Pixel value 0 is transparent and
// always shows the universal background colour.
func (p *PPU) pixelColor(palette, pixel uint8) colorIndex {
	if pixel == 0 {
		return colorIndex(p.mem.Read8(0x3F00) & 0x3F)
	}
	return colorIndex(p.mem.Read8(0x3F00+uint16(palette)<<2+uint16(pixel)) & 0x3F)
}
