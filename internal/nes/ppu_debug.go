package nes

import (
	"image"
	"image/color"
)

const patternTableSize = 128

// PaletteColor returns the colour of pixel value 0..3 in one of the eight
// palettes (0-3 background, 4-7 sprites).
func (p *PPU) PaletteColor(palette, pixel uint8) color.RGBA {
	return colorIndex(p.mem.Read8(0x3F00+uint16(palette&0x07)<<2+uint16(pixel&0x03)) & 0x3F).rgb()
}

// PatternTable renders the 256 tiles of pattern table 0 or 1 as a 16x16
// grid using the given palette.
func (p *PPU) PatternTable(palette, table uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, patternTableSize, patternTableSize))
	base := uint16(table&0x01) * 0x1000

	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			offset := base + uint16(tileY*256+tileX*16)
			for row := 0; row < 8; row++ {
				lo := p.mem.Read8(offset + uint16(row))
				hi := p.mem.Read8(offset + uint16(row) + 8)
				for col := 0; col < 8; col++ {
					pixel := (lo>>7)&0x01 | (hi>>6)&0x02
					lo <<= 1
					hi <<= 1
					img.SetRGBA(tileX*8+col, tileY*8+row, p.PaletteColor(palette, pixel))
				}
			}
		}
	}
	return img
}
