package nes

import "image/color"

// systemPalette maps the 6-bit PPU colour index to RGB.
var systemPalette = [0x40]color.RGBA{
	{0x62, 0x62, 0x62, 0xff}, {0x10, 0x23, 0xb4, 0xff}, {0x25, 0x19, 0xca, 0xff}, {0x51, 0x18, 0xb4, 0xff},
	{0x71, 0x12, 0x77, 0xff}, {0x7d, 0x0d, 0x1e, 0xff}, {0x71, 0x0d, 0x00, 0xff}, {0x4f, 0x24, 0x00, 0xff},
	{0x21, 0x41, 0x00, 0xff}, {0x0f, 0x55, 0x00, 0xff}, {0x10, 0x5a, 0x00, 0xff}, {0x0e, 0x50, 0x1e, 0xff},
	{0x0d, 0x3b, 0x77, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff},
	{0xac, 0xac, 0xac, 0xff}, {0x25, 0x55, 0xff, 0xff}, {0x57, 0x36, 0xff, 0xff}, {0x94, 0x2b, 0xff, 0xff},
	{0xbf, 0x26, 0xc7, 0xff}, {0xce, 0x24, 0x54, 0xff}, {0xbe, 0x37, 0x00, 0xff}, {0x93, 0x5b, 0x00, 0xff},
	{0x57, 0x80, 0x00, 0xff}, {0x28, 0x9a, 0x00, 0xff}, {0x25, 0xa1, 0x00, 0xff}, {0x22, 0x95, 0x54, 0xff},
	{0x21, 0x79, 0xc7, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff}, {0x6d, 0xa3, 0xff, 0xff}, {0xa7, 0x7f, 0xff, 0xff}, {0xe4, 0x68, 0xff, 0xff},
	{0xfa, 0x63, 0xff, 0xff}, {0xf9, 0x6b, 0xa8, 0xff}, {0xf9, 0x87, 0x2c, 0xff}, {0xe5, 0xae, 0x00, 0xff},
	{0xaa, 0xd2, 0x00, 0xff}, {0x71, 0xec, 0x00, 0xff}, {0x4e, 0xf3, 0x2b, 0xff}, {0x44, 0xe7, 0xa8, 0xff},
	{0x4b, 0xca, 0xff, 0xff}, {0x4c, 0x4c, 0x4c, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff}, {0xc5, 0xda, 0xff, 0xff}, {0xdc, 0xcc, 0xff, 0xff}, {0xf4, 0xc2, 0xff, 0xff},
	{0xfc, 0xc0, 0xff, 0xff}, {0xfc, 0xc4, 0xdc, 0xff}, {0xfc, 0xcf, 0xae, 0xff}, {0xf4, 0xde, 0x8b, 0xff},
	{0xdd, 0xec, 0x7e, 0xff}, {0xc5, 0xf6, 0x8b, 0xff}, {0xb4, 0xf9, 0xae, 0xff}, {0xae, 0xf5, 0xdc, 0xff},
	{0xb4, 0xea, 0xff, 0xff}, {0xb9, 0xb9, 0xb9, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0x00, 0xff},
}

// colorIndex is a 6-bit index into systemPalette.
type colorIndex uint8

func (ci colorIndex) rgb() color.RGBA {
	return systemPalette[ci&0x3F]
}

// argb packs a palette entry as 0xAARRGGBB.
func argb(ci colorIndex) uint32 {
	c := ci.rgb()
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
