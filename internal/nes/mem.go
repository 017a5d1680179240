package nes

type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// The cartridge gets the first chance at every address; mappers claim
// $6000-$FFFF as needed. Everything else:
//
// $0000-$07FF: 2 KB of internal RAM
// $0800-$1FFF: Mirrors of $0000-$07FF
// $2000-$2007: PPU (Picture Processing Unit) registers
// $2008-$3FFF: Mirrors of $2000-$2007 (every 8 bytes)
// $4000-$4013: APU channel registers
// $4014:       OAM DMA
// $4015:       APU status
// $4016-$4017: Controllers (writes to $4017 go to the APU frame counter)
// $4018-$FFFF: Cartridge space, reads zero when unclaimed
type cpuMemory struct {
	bus *Bus
}

func (b *Bus) newCpuMemory() *cpuMemory {
	return &cpuMemory{bus: b}
}

func (c *cpuMemory) Read8(addr uint16) uint8 {
	if c.bus.cart != nil {
		if data, ok := c.bus.cart.CPURead(addr); ok {
			return data
		}
	}

	switch {
	// read from ram
	case addr < 0x2000:
		return c.bus.ram.Read8(addr)
	// read from ppu
	case addr < 0x4000:
		return c.bus.ppu.readRegister(addr & 0x7)
	case addr == 0x4015:
		return c.bus.apu.ReadStatus()
	case addr == 0x4016:
		return c.bus.controllers[0].Read()
	case addr == 0x4017:
		return c.bus.controllers[1].Read()
	}
	return 0
}

func (c *cpuMemory) Write8(addr uint16, data uint8) {
	if c.bus.cart != nil && c.bus.cart.CPUWrite(addr, data) {
		return
	}

	switch {
	// write to ram
	case addr < 0x2000:
		c.bus.ram.Write8(addr, data)
	// write to ppu
	case addr < 0x4000:
		c.bus.ppu.writeRegister(addr&0x7, data)
	case addr == 0x4014:
		c.bus.dma.Start(data)
	case addr == 0x4016:
		c.bus.controllers[0].Write(data)
		c.bus.controllers[1].Write(data)
	// write to apu, including the $4017 frame counter
	case addr <= 0x4017:
		c.bus.apu.WriteRegister(addr, data)
	}
}

// $0000-$0FFF: Pattern table 0
// $1000-$1FFF: Pattern table 1
// $2000-$23FF: Nametable 0
// $2400-$27FF: Nametable 1
// $2800-$2BFF: Nametable 2
// $2C00-$2FFF: Nametable 3
// $3000-$3EFF: Mirrors of $2000-$2FFF
// $3F00-$3F1F: Palette RAM indexes
// $3F20-$3FFF: Mirrors of $3F00-$3F1F
type ppuMemory struct {
	ppu *PPU
}

func (p *ppuMemory) Read8(addr uint16) uint8 {
	addr &= 0x3FFF
	cart := p.ppu.cart
	if cart != nil {
		if data, ok := cart.PPURead(addr); ok {
			return data
		}
	}

	switch {
	case addr >= 0x2000 && addr < 0x3F00:
		table, offset := p.ppu.mirror().nameTable(addr)
		return p.ppu.nameTables[table][offset]
	case addr >= 0x3F00:
		return p.ppu.palette[paletteIndex(addr)]
	}
	return 0
}

func (p *ppuMemory) Write8(addr uint16, data uint8) {
	addr &= 0x3FFF
	cart := p.ppu.cart
	if cart != nil && cart.PPUWrite(addr, data) {
		return
	}

	switch {
	case addr >= 0x2000 && addr < 0x3F00:
		table, offset := p.ppu.mirror().nameTable(addr)
		p.ppu.nameTables[table][offset] = data
	case addr >= 0x3F00:
		p.ppu.palette[paletteIndex(addr)] = data
	}
}

// paletteIndex folds $3F00-$3FFF onto the 32 palette bytes. The sprite
// backdrop entries $3F10/$3F14/$3F18/$3F1C mirror the background ones.
func paletteIndex(addr uint16) uint16 {
	addr &= 0x001F
	switch addr {
	case 0x0010, 0x0014, 0x0018, 0x001C:
		addr &= 0x000F
	}
	return addr
}
