package nes

import "image"

const (
	ScreenWidth  = 256
	ScreenHeight = 240

	dotsPerScanline   = 341
	preRenderScanline = -1
	vblankScanline    = 241
	lastScanline      = 260
)

// PPUCTRL
const (
	ctrlNameTable   = uint8(0x03)
	ctrlIncrement32 = uint8(0x04)
	ctrlSpriteTable = uint8(0x08)
	ctrlBgTable     = uint8(0x10)
	ctrlSpriteSize  = uint8(0x20)
	ctrlNMI         = uint8(0x80)
)

// PPUMASK
const (
	maskBgLeft     = uint8(0x02)
	maskSpriteLeft = uint8(0x04)
	maskBg         = uint8(0x08)
	maskSprites    = uint8(0x10)
)

// PPUSTATUS
const (
	statusOverflow   = uint8(0x20)
	statusSpriteZero = uint8(0x40)
	statusVBlank     = uint8(0x80)
)

// sprite is one 4-byte OAM entry.
type sprite struct {
	y    uint8
	tile uint8
	attr uint8
	x    uint8
}

type PPU struct {
	cart *Cart
	mem  ReadWriter

	nameTables [2][0x400]uint8
	palette    [0x20]uint8
	oam        [0x100]uint8
	oamAddr    uint8

	ctrl   uint8
	mask   uint8
	status uint8

	// loopy registers: v is the current VRAM address, t the temporary one
	// written through $2005/$2006
	v       uint16
	t       uint16
	fineX   uint8
	w       bool
	dataBuf uint8

	scanLine int
	dot      int
	frame    uint64

	bgNextTileID   uint8
	bgNextTileAttr uint8
	bgNextTileLo   uint8
	bgNextTileHi   uint8

	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttrLo    uint16
	bgShifterAttrHi    uint16

	lineSprites         [8]sprite
	spriteCount         int
	spritePatternLo     [8]uint8
	spritePatternHi     [8]uint8
	spriteZeroPossible  bool
	spriteZeroRendering bool

	nmi           bool
	frameComplete bool

	screen [ScreenWidth * ScreenHeight]uint32
}

func NewPPU() *PPU {
	p := &PPU{}
	p.mem = &ppuMemory{ppu: p}
	p.Reset()
	return p
}

func (p *PPU) ConnectCart(cart *Cart) {
	p.cart = cart
}

// mirror is the cartridge's current nametable layout.
func (p *PPU) mirror() Mirror {
	if p.cart == nil {
		return MirrorHorizontal
	}
	return p.cart.Mirror()
}

func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v = 0
	p.t = 0
	p.fineX = 0
	p.w = false
	p.dataBuf = 0
	p.scanLine = preRenderScanline
	p.dot = 0
	p.frame = 0
	p.bgNextTileID = 0
	p.bgNextTileAttr = 0
	p.bgNextTileLo = 0
	p.bgNextTileHi = 0
	p.bgShifterPatternLo = 0
	p.bgShifterPatternHi = 0
	p.bgShifterAttrLo = 0
	p.bgShifterAttrHi = 0
	p.spriteCount = 0
	p.spriteZeroPossible = false
	p.spriteZeroRendering = false
	p.nmi = false
	p.frameComplete = false
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskBg|maskSprites) != 0
}

// Tic advances the PPU by one dot.
func (p *PPU) Tic() {
	if p.scanLine < ScreenHeight {
		p.renderTic()
	}

	if p.scanLine == vblankScanline && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMI != 0 {
			p.nmi = true
		}
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanLine++
		if p.scanLine > lastScanline {
			p.scanLine = preRenderScanline
			p.frameComplete = true
			p.frame++
		}
	}
}

// renderTic runs the fetch and output pipeline for the pre-render line and
// the 240 visible lines.
func (p *PPU) renderTic() {
	if p.scanLine == preRenderScanline && p.dot == 1 {
		p.status &^= statusVBlank | statusSpriteZero | statusOverflow
		for i := range p.spritePatternLo {
			p.spritePatternLo[i] = 0
			p.spritePatternHi[i] = 0
		}
	}

	fetching := (p.dot >= 2 && p.dot < 258) || (p.dot >= 321 && p.dot < 338)
	if fetching {
		p.updateShifters()
	}
	if p.scanLine >= 0 && p.dot >= 1 && p.dot <= ScreenWidth {
		p.renderPixel()
	}
	if fetching {
		p.fetchBackground()
	}

	switch p.dot {
	case 256:
		p.incrementScrollY()
	case 257:
		p.loadBackgroundShifters()
		p.transferAddressX()
		p.evaluateSprites()
	case 340:
		p.loadSprites()
	}

	if p.scanLine == preRenderScanline && p.dot >= 280 && p.dot < 305 {
		p.transferAddressY()
	}
}

// FrameComplete reports whether a frame finished since the last
// ClearFrameComplete.
func (p *PPU) FrameComplete() bool {
	return p.frameComplete
}

func (p *PPU) ClearFrameComplete() {
	p.frameComplete = false
}

func (p *PPU) Frame() uint64 {
	return p.frame
}

// Pixels returns the frame buffer as 0xAARRGGBB values, row by row.
func (p *PPU) Pixels() []uint32 {
	return p.screen[:]
}

// Screen copies the frame buffer into an image.
func (p *PPU) Screen() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for i, c := range p.screen {
		img.Pix[i*4+0] = uint8(c >> 16)
		img.Pix[i*4+1] = uint8(c >> 8)
		img.Pix[i*4+2] = uint8(c)
		img.Pix[i*4+3] = uint8(c >> 24)
	}
	return img
}

func (p *PPU) oamSprite(n int) sprite {
	return sprite{
		y:    p.oam[n*4+0],
		tile: p.oam[n*4+1],
		attr: p.oam[n*4+2],
		x:    p.oam[n*4+3],
	}
}

// WriteOAM stores one byte of sprite memory. Used by OAM DMA.
func (p *PPU) WriteOAM(addr uint8, data uint8) {
	p.oam[addr] = data
}

func (p *PPU) ReadOAM(addr uint8) uint8 {
	return p.oam[addr]
}
