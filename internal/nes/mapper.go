package nes

import "fmt"

// Mapper translates CPU and PPU addresses into offsets of the cartridge
// storage. ok is false when the mapper does not claim the address, in which
// case the caller falls back to its own decoding.
type Mapper interface {
	CPUMapRead(addr uint16) (mapped uint32, ok bool)
	CPUMapWrite(addr uint16, data uint8) (mapped uint32, ok bool)
	PPUMapRead(addr uint16) (mapped uint32, ok bool)
	PPUMapWrite(addr uint16) (mapped uint32, ok bool)
}

// prgRAMMapper is implemented by mappers that own battery/work RAM at
// $6000-$7FFF. Mapped offsets for that window index into PRGRAM.
type prgRAMMapper interface {
	Mapper
	PRGRAM() []uint8
}

// NewMapper builds the mapper for the given iNES mapper id. onMirror is called
// by mappers that switch nametable mirroring at runtime.
func NewMapper(id uint8, prgBanks, chrBanks uint8, onMirror func(Mirror)) (Mapper, error) {
	switch id {
	case 0:
		return NewMapper0(prgBanks, chrBanks), nil
	case 1:
		return NewMapper1(prgBanks, chrBanks, onMirror), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, id)
}
