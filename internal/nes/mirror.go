package nes

// Mirror selects how the four logical nametables at $2000-$2FFF fold onto
// the two physical 1 KB nametables inside the PPU.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleLow
	MirrorSingleHigh
)

func (m Mirror) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleLow:
		return "single-low"
	case MirrorSingleHigh:
		return "single-high"
	}
	return "unknown"
}

// nameTable returns the physical nametable and the offset inside it for a
// PPU address in $2000-$3EFF.
func (m Mirror) nameTable(addr uint16) (table int, offset uint16) {
	addr &= 0x0FFF
	logical := addr / 0x400
	offset = addr & 0x3FF

	switch m {
	case MirrorVertical:
		table = int(logical & 1)
	case MirrorHorizontal:
		table = int(logical >> 1)
	case MirrorSingleLow:
		table = 0
	case MirrorSingleHigh:
		table = 1
	}
	return table, offset
}
