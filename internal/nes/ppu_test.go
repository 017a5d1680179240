package nes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	regCtrl   = 0x2000
	regMask   = 0x2001
	regStatus = 0x2002
	regOAM    = 0x2003
	regOAMDat = 0x2004
	regScroll = 0x2005
	regAddr   = 0x2006
	regData   = 0x2007
)

// newTestPPU returns a PPU wired to an NROM cartridge whose tile 1 is solid
// colour 1 in both pattern tables.
func newTestPPU(t *testing.T) *PPU {
	chr := make([]uint8, chrBankSizeBytes)
	for row := 0; row < 8; row++ {
		chr[0x0010+row] = 0xff
		chr[0x1010+row] = 0xff
	}
	return newTestPPUWithCHR(t, chr)
}

func newTestPPUWithCHR(t *testing.T, chr []uint8) *PPU {
	cart, err := NewCart(make([]uint8, prgBankSizeBytes), chr, 0, MirrorHorizontal)
	require.NoError(t, err)

	p := NewPPU()
	p.ConnectCart(cart)
	return p
}

func setVRAMAddr(p *PPU, addr uint16) {
	p.writeRegister(regAddr, uint8(addr>>8))
	p.writeRegister(regAddr, uint8(addr))
}

// fillBackground points every nametable cell at tile 1 and gives the
// palettes visible colours.
func fillBackground(p *PPU) {
	setVRAMAddr(p, 0x2000)
	for i := 0; i < 0x3C0; i++ {
		p.writeRegister(regData, 0x01)
	}
	setVRAMAddr(p, 0x3F00)
	for i := 0; i < 0x20; i++ {
		p.writeRegister(regData, uint8(i+1))
	}
	setVRAMAddr(p, 0x0000)
}

func runUntil(p *PPU, scanLine, dot int) {
	for p.scanLine != scanLine || p.dot != dot {
		p.Tic()
	}
}

func Test_PPU_Scroll(t *testing.T) {
	p := NewPPU()

	p.writeRegister(regScroll, 5)
	assert.True(t, p.w)
	p.writeRegister(regScroll, 3|10<<3)

	assert.False(t, p.w)
	assert.Equal(t, uint8(5), p.fineX)
	assert.Equal(t, uint16(3<<12|10<<5), p.t)

	p.writeRegister(regScroll, 5)
	p.readRegister(regStatus)
	assert.False(t, p.w, "status read resets the write toggle")
	assert.Equal(t, uint8(5), p.fineX)
	assert.Equal(t, uint16(3<<12|10<<5), p.t&0x73E0, "Y fields survive")
}

func Test_PPU_Addr(t *testing.T) {
	p := NewPPU()
	p.writeRegister(regCtrl, 0x03)
	assert.Equal(t, uint16(0x0C00), p.t&0x0C00, "nametable select goes to t")

	setVRAMAddr(p, 0x3F21)
	assert.Equal(t, uint16(0x3F21), p.v)
	assert.False(t, p.w)
}

func Test_PPU_DataReads(t *testing.T) {
	p := NewPPU()

	setVRAMAddr(p, 0x2005)
	p.writeRegister(regData, 0xaa)
	p.writeRegister(regData, 0xbb)
	assert.Equal(t, uint16(0x2007), p.v)

	setVRAMAddr(p, 0x2005)
	p.readRegister(regData)
	assert.Equal(t, uint8(0xaa), p.readRegister(regData), "reads are delayed by one")
	assert.Equal(t, uint8(0xbb), p.readRegister(regData))

	t.Run("increment 32", func(t *testing.T) {
		p.writeRegister(regCtrl, ctrlIncrement32)
		setVRAMAddr(p, 0x2000)
		p.writeRegister(regData, 0x01)
		assert.Equal(t, uint16(0x2020), p.v)
		p.writeRegister(regCtrl, 0)
	})

	t.Run("palette reads are immediate", func(t *testing.T) {
		setVRAMAddr(p, 0x2F01)
		p.writeRegister(regData, 0x5c)
		setVRAMAddr(p, 0x3F01)
		p.writeRegister(regData, 0x21)

		setVRAMAddr(p, 0x3F01)
		assert.Equal(t, uint8(0x21), p.readRegister(regData))
		assert.Equal(t, uint8(0x5c), p.dataBuf, "buffer holds the nametable underneath")
	})

	t.Run("sprite backdrop mirrors", func(t *testing.T) {
		setVRAMAddr(p, 0x3F10)
		p.writeRegister(regData, 0x30)
		setVRAMAddr(p, 0x3F00)
		assert.Equal(t, uint8(0x30), p.readRegister(regData))
	})
}

func Test_PPU_OAMData(t *testing.T) {
	p := NewPPU()
	p.writeRegister(regOAM, 0x10)
	p.writeRegister(regOAMDat, 0x55)
	p.writeRegister(regOAMDat, 0x66)
	assert.Equal(t, uint8(0x12), p.oamAddr)

	p.writeRegister(regOAM, 0x11)
	assert.Equal(t, uint8(0x66), p.readRegister(regOAMDat))
	assert.Equal(t, uint8(0x55), p.ReadOAM(0x10))
}

func Test_PPU_FrameTiming(t *testing.T) {
	p := NewPPU()
	const dotsPerFrame = dotsPerScanline * 262

	seen := map[int]bool{}
	for i := 0; i < dotsPerFrame-1; i++ {
		seen[p.scanLine] = true
		require.LessOrEqual(t, p.dot, 340)
		p.Tic()
		require.False(t, p.FrameComplete(), "tic %d", i)
	}
	p.Tic()

	assert.True(t, p.FrameComplete())
	assert.Equal(t, uint64(1), p.Frame())
	assert.Equal(t, preRenderScanline, p.scanLine)
	assert.Equal(t, 0, p.dot)
	assert.Len(t, seen, 262)
	assert.True(t, seen[-1])
	assert.True(t, seen[260])

	p.ClearFrameComplete()
	for i := 0; i < dotsPerFrame; i++ {
		p.Tic()
	}
	assert.True(t, p.FrameComplete())
	assert.Equal(t, uint64(2), p.Frame())
}

func Test_PPU_VBlank(t *testing.T) {
	p := NewPPU()
	p.writeRegister(regCtrl, ctrlNMI)

	runUntil(p, vblankScanline, 1)
	assert.False(t, p.nmi)
	p.Tic()
	assert.True(t, p.nmi)

	data := p.readRegister(regStatus)
	assert.Equal(t, statusVBlank, data&statusVBlank)
	assert.Zero(t, p.status&statusVBlank, "read clears vblank")

	t.Run("enabling NMI inside vblank fires at once", func(t *testing.T) {
		p := NewPPU()
		runUntil(p, vblankScanline, 5)
		require.False(t, p.nmi)

		p.writeRegister(regCtrl, ctrlNMI)
		assert.True(t, p.nmi)
	})

	t.Run("pre-render line clears the flags", func(t *testing.T) {
		p := NewPPU()
		runUntil(p, vblankScanline, 5)
		p.status |= statusSpriteZero | statusOverflow

		runUntil(p, preRenderScanline, 2)
		assert.Zero(t, p.status&(statusVBlank|statusSpriteZero|statusOverflow))
	})
}

func Test_PPU_SpriteZeroHit(t *testing.T) {
	setup := func(t *testing.T, x uint8, mask uint8) *PPU {
		p := newTestPPU(t)
		fillBackground(p)
		p.WriteOAM(0, 30)
		p.WriteOAM(1, 0x01)
		p.WriteOAM(2, 0x00)
		p.WriteOAM(3, x)
		p.writeRegister(regMask, mask)
		return p
	}

	t.Run("hit on the first overlapping line", func(t *testing.T) {
		p := setup(t, 20, maskBg|maskSprites|maskBgLeft|maskSpriteLeft)

		runUntil(p, 31, 0)
		assert.Zero(t, p.status&statusSpriteZero)
		runUntil(p, 31, 21)
		p.Tic()
		assert.Equal(t, statusSpriteZero, p.status&statusSpriteZero)

		runUntil(p, 200, 0)
		assert.Equal(t, statusSpriteZero, p.status&statusSpriteZero, "stays set")
	})

	t.Run("left column masked", func(t *testing.T) {
		p := setup(t, 0, maskBg|maskSprites)

		runUntil(p, 240, 0)
		assert.Zero(t, p.status&statusSpriteZero)
	})

	t.Run("left column shown", func(t *testing.T) {
		p := setup(t, 0, maskBg|maskSprites|maskBgLeft|maskSpriteLeft)

		runUntil(p, 31, 2)
		assert.Equal(t, statusSpriteZero, p.status&statusSpriteZero)
	})

	t.Run("sprites disabled", func(t *testing.T) {
		p := setup(t, 20, maskBg|maskBgLeft)

		runUntil(p, 240, 0)
		assert.Zero(t, p.status&statusSpriteZero)
	})
}

func Test_PPU_SpriteOverflow(t *testing.T) {
	p := newTestPPU(t)
	for i := 0; i < 64; i++ {
		p.WriteOAM(uint8(i*4), 0xff)
	}
	for i := 0; i < 9; i++ {
		p.WriteOAM(uint8(i*4), 50)
		p.WriteOAM(uint8(i*4+3), uint8(i*10))
	}
	p.writeRegister(regMask, maskBg|maskSprites)

	runUntil(p, 50, 256)
	assert.Zero(t, p.status&statusOverflow)
	runUntil(p, 50, 258)
	assert.Equal(t, statusOverflow, p.status&statusOverflow)
	assert.Equal(t, 8, p.spriteCount)
}

func Test_PPU_Render(t *testing.T) {
	p := newTestPPU(t)
	fillBackground(p)
	p.writeRegister(regMask, maskBg|maskBgLeft)

	for !p.FrameComplete() {
		p.Tic()
	}

	// every cell is tile 1 drawn with colour 1 of background palette 0
	want := argb(colorIndex(p.mem.Read8(0x3F01) & 0x3F))
	pixels := p.Pixels()
	assert.Equal(t, want, pixels[0])
	assert.Equal(t, want, pixels[ScreenWidth*ScreenHeight-1])

	img := p.Screen()
	c := img.RGBAAt(0, 0)
	assert.Equal(t, uint8(0xff), c.A)
	assert.Equal(t, systemPalette[p.mem.Read8(0x3F01)&0x3F], c)
}

func Test_PPU_PatternTable(t *testing.T) {
	p := newTestPPU(t)
	fillBackground(p)

	img := p.PatternTable(0, 0)
	require.Equal(t, patternTableSize, img.Bounds().Dx())
	assert.Equal(t, p.PaletteColor(0, 0), img.RGBAAt(0, 0), "tile 0 is empty")
	assert.Equal(t, p.PaletteColor(0, 1), img.RGBAAt(8, 0), "tile 1 is solid")
}

// writeVRAM stores data at consecutive PPU addresses starting at addr.
func writeVRAM(p *PPU, addr uint16, data ...uint8) {
	setVRAMAddr(p, addr)
	for _, d := range data {
		p.writeRegister(regData, d)
	}
}

func renderFrame(p *PPU) {
	for !p.FrameComplete() {
		p.Tic()
	}
}

func Test_PPU_IncrementScrollY(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
		v    uint16
		want uint16
	}{
		{"fine y", maskBg, 3<<12 | 5<<5, 4<<12 | 5<<5},
		{"coarse y", maskBg, 7<<12 | 5<<5, 6 << 5},
		{"coarse y 30 to 31", maskBg, 7<<12 | 30<<5, 31 << 5},
		{"row 29 switches nametable", maskBg, 7<<12 | 29<<5, 0x0800},
		{"row 29 switches back", maskBg, 0x0800 | 7<<12 | 29<<5, 0x0000},
		{"row 31 wraps in place", maskBg, 7<<12 | 31<<5, 0x0000},
		{"row 31 keeps nametable", maskBg, 0x0800 | 7<<12 | 31<<5, 0x0800},
		{"coarse x untouched", maskSprites, 7<<12 | 29<<5 | 0x0400 | 0x15, 0x0800 | 0x0400 | 0x15},
		{"rendering disabled", 0, 7<<12 | 29<<5, 7<<12 | 29<<5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPPU()
			p.mask = tt.mask
			p.v = tt.v

			p.incrementScrollY()

			assert.Equal(t, tt.want, p.v, "v=%04X", p.v)
		})
	}
}

func Test_PPU_FineXScroll(t *testing.T) {
	// tile 2 has only its leftmost column set
	chr := make([]uint8, chrBankSizeBytes)
	for row := 0; row < 8; row++ {
		chr[0x0020+row] = 0x80
	}

	tests := []struct {
		fineX uint8
		lit   []int
	}{
		{0, []int{0, 8, 16, 24}},
		{3, []int{5, 13, 21, 29}},
		{7, []int{1, 9, 17, 25}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("fine x %d", tt.fineX), func(t *testing.T) {
			p := newTestPPUWithCHR(t, chr)
			setVRAMAddr(p, 0x2000)
			for i := 0; i < 0x3C0; i++ {
				p.writeRegister(regData, 0x02)
			}
			writeVRAM(p, 0x3F00, 0x0F, 0x16)
			setVRAMAddr(p, 0x0000)
			p.writeRegister(regScroll, tt.fineX)
			p.writeRegister(regScroll, 0)
			p.writeRegister(regMask, maskBg|maskBgLeft)

			renderFrame(p)

			lit := argb(0x16)
			var got []int
			for x := 0; x < 32; x++ {
				if p.Pixels()[x] == lit {
					got = append(got, x)
				}
			}
			assert.Equal(t, tt.lit, got)
		})
	}
}

func Test_PPU_AttributeQuadrants(t *testing.T) {
	p := newTestPPU(t)
	setVRAMAddr(p, 0x2000)
	for i := 0; i < 0x3C0; i++ {
		p.writeRegister(regData, 0x01)
	}
	// top-left 0, top-right 1, bottom-left 2, bottom-right 3
	writeVRAM(p, 0x23C0, 0xE4)
	writeVRAM(p, 0x3F00,
		0x0F, 0x16, 0x00, 0x00,
		0x0F, 0x2A, 0x00, 0x00,
		0x0F, 0x12, 0x00, 0x00,
		0x0F, 0x30, 0x00, 0x00,
	)
	setVRAMAddr(p, 0x0000)
	p.writeRegister(regMask, maskBg|maskBgLeft)

	renderFrame(p)

	tests := []struct {
		x, y  int
		color colorIndex
	}{
		{0, 0, 0x16},
		{15, 15, 0x16},
		{16, 0, 0x2A},
		{31, 15, 0x2A},
		{0, 16, 0x12},
		{15, 31, 0x12},
		{16, 16, 0x30},
		{31, 31, 0x30},
		// the next attribute byte is still zero
		{32, 0, 0x16},
	}
	for _, tt := range tests {
		assert.Equal(t, argb(tt.color), p.Pixels()[tt.y*ScreenWidth+tt.x], "pixel (%d, %d)", tt.x, tt.y)
	}
}

func Test_PPU_LeftColumnMask(t *testing.T) {
	for _, tt := range []struct {
		name      string
		mask      uint8
		leftShown bool
	}{
		{"shown", maskBg | maskBgLeft, true},
		{"hidden", maskBg, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(t)
			setVRAMAddr(p, 0x2000)
			for i := 0; i < 0x3C0; i++ {
				p.writeRegister(regData, 0x01)
			}
			writeVRAM(p, 0x3F00, 0x0F, 0x16)
			setVRAMAddr(p, 0x0000)
			p.writeRegister(regMask, tt.mask)

			renderFrame(p)

			tile, backdrop := argb(0x16), argb(0x0F)
			for x := 0; x < 8; x++ {
				if tt.leftShown {
					assert.Equal(t, tile, p.Pixels()[x], "x=%d", x)
				} else {
					assert.Equal(t, backdrop, p.Pixels()[x], "x=%d", x)
				}
			}
			assert.Equal(t, tile, p.Pixels()[8])
		})
	}
}
