package nes

// Mapper0 is NROM: 16 or 32 KB of PRG-ROM and 8 KB of CHR-ROM, no banking.
type Mapper0 struct {
	prgBanks uint8
	chrBanks uint8
}

func NewMapper0(prgBanks, chrBanks uint8) *Mapper0 {
	return &Mapper0{prgBanks: prgBanks, chrBanks: chrBanks}
}

func (m *Mapper0) CPUMapRead(addr uint16) (uint32, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	// a single 16 KB bank is mirrored into $C000-$FFFF
	if m.prgBanks > 1 {
		return uint32(addr & 0x7FFF), true
	}
	return uint32(addr & 0x3FFF), true
}

// CPUMapWrite never claims an address: PRG is ROM.
func (m *Mapper0) CPUMapWrite(addr uint16, data uint8) (uint32, bool) {
	return 0, false
}

func (m *Mapper0) PPUMapRead(addr uint16) (uint32, bool) {
	if addr < 0x2000 {
		return uint32(addr), true
	}
	return 0, false
}

// PPUMapWrite never claims an address: CHR is ROM.
func (m *Mapper0) PPUMapWrite(addr uint16) (uint32, bool) {
	return 0, false
}
