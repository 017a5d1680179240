package nes

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	inesMagic        = 0x1a53454e
	prgBankSizeBytes = 0x4000
	chrBankSizeBytes = 0x2000
	trainerSizeBytes = 512
)

type Cart struct {
	prgMem []uint8
	chrMem []uint8
	prgRAM []uint8

	prgBanks uint8
	chrBanks uint8 // 0 means the cartridge has 8 KB of CHR-RAM
	mapperID uint8
	mirror   Mirror

	mapper Mapper
}

// NewCart builds a cartridge from raw PRG and CHR images. An empty chr
// allocates 8 KB of CHR-RAM.
func NewCart(prg, chr []uint8, mapperID uint8, mirror Mirror) (*Cart, error) {
	if len(prg) == 0 || len(prg)%prgBankSizeBytes != 0 || len(prg)/prgBankSizeBytes > 0xFF {
		return nil, fmt.Errorf("%w: PRG size %d", ErrInvalidCart, len(prg))
	}
	if len(chr)%chrBankSizeBytes != 0 || len(chr)/chrBankSizeBytes > 0xFF {
		return nil, fmt.Errorf("%w: CHR size %d", ErrInvalidCart, len(chr))
	}

	cart := &Cart{
		prgMem:   prg,
		chrMem:   chr,
		prgBanks: uint8(len(prg) / prgBankSizeBytes),
		chrBanks: uint8(len(chr) / chrBankSizeBytes),
		mapperID: mapperID,
		mirror:   mirror,
	}
	if cart.chrBanks == 0 {
		cart.chrMem = make([]uint8, chrBankSizeBytes)
	}

	mapper, err := NewMapper(mapperID, cart.prgBanks, cart.chrBanks, cart.setMirror)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper
	if m, ok := mapper.(prgRAMMapper); ok {
		cart.prgRAM = m.PRGRAM()
	}
	return cart, nil
}

// NewCartFromFile reads a .nes file and returns a Cart struct.
// Supported NES format: iNES
func NewCartFromFile(path string) (*Cart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	return NewCartFromReader(file)
}

// NewCartFromReader parses an iNES image.
func NewCartFromReader(r io.Reader) (*Cart, error) {
	var header struct {
		Magic      uint32
		PrgRomSize uint8
		ChrRomSize uint8
		Flags6     uint8
		Flags7     uint8
		Flags8     uint8
		Flags9     uint8
		Flags10    uint8
		_          [5]uint8 // unused
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: couldn't read the header: %w", ErrInvalidCart, err)
	}
	if header.Magic != inesMagic {
		return nil, fmt.Errorf("%w: bad magic %08X", ErrInvalidCart, header.Magic)
	}
	if header.PrgRomSize == 0 {
		return nil, fmt.Errorf("%w: no PRG ROM", ErrInvalidCart)
	}
	// the third bit of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSizeBytes); err != nil {
			return nil, fmt.Errorf("%w: couldn't skip the trainer: %w", ErrInvalidCart, err)
		}
	}

	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	mapperID := (header.Flags7 & 0xf0) | (header.Flags6 >> 4)

	mirror := MirrorHorizontal
	if header.Flags6&0x1 != 0 {
		mirror = MirrorVertical
	}

	prg := make([]uint8, int(header.PrgRomSize)*prgBankSizeBytes)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: couldn't read PRG ROM: %w", ErrInvalidCart, err)
	}
	chr := make([]uint8, int(header.ChrRomSize)*chrBankSizeBytes)
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, fmt.Errorf("%w: couldn't read CHR ROM: %w", ErrInvalidCart, err)
	}

	return NewCart(prg, chr, mapperID, mirror)
}

// Reset returns a banking mapper to its power-up state.
func (c *Cart) Reset() {
	if r, ok := c.mapper.(interface{ Reset() }); ok {
		r.Reset()
	}
}

func (c *Cart) setMirror(m Mirror) {
	c.mirror = m
}

func (c *Cart) Mirror() Mirror {
	return c.mirror
}

func (c *Cart) MapperID() uint8 {
	return c.mapperID
}

func inPRGRAM(addr uint16) bool {
	return addr >= 0x6000 && addr <= 0x7FFF
}

// CPURead returns the byte at addr if the cartridge claims it.
func (c *Cart) CPURead(addr uint16) (uint8, bool) {
	mapped, ok := c.mapper.CPUMapRead(addr)
	if !ok {
		return 0, false
	}
	if inPRGRAM(addr) {
		if c.prgRAM == nil {
			return 0, true
		}
		return c.prgRAM[int(mapped)%len(c.prgRAM)], true
	}
	return c.prgMem[int(mapped)%len(c.prgMem)], true
}

// CPUWrite stores data if the cartridge claims addr. Mapper register writes
// are absorbed by the mapper and report false.
func (c *Cart) CPUWrite(addr uint16, data uint8) bool {
	mapped, ok := c.mapper.CPUMapWrite(addr, data)
	if !ok {
		return false
	}
	if inPRGRAM(addr) {
		if c.prgRAM != nil {
			c.prgRAM[int(mapped)%len(c.prgRAM)] = data
		}
		return true
	}
	c.prgMem[int(mapped)%len(c.prgMem)] = data
	return true
}

func (c *Cart) PPURead(addr uint16) (uint8, bool) {
	mapped, ok := c.mapper.PPUMapRead(addr)
	if !ok {
		return 0, false
	}
	return c.chrMem[int(mapped)%len(c.chrMem)], true
}

func (c *Cart) PPUWrite(addr uint16, data uint8) bool {
	mapped, ok := c.mapper.PPUMapWrite(addr)
	if !ok {
		return false
	}
	c.chrMem[int(mapped)%len(c.chrMem)] = data
	return true
}
