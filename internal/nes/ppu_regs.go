package nes

// $2000: PPUCTRL   (write)
// $2001: PPUMASK   (write)
// $2002: PPUSTATUS (read)
// $2003: OAMADDR   (write)
// $2004: OAMDATA   (read/write)
// $2005: PPUSCROLL (write x2)
// $2006: PPUADDR   (write x2)
// $2007: PPUDATA   (read/write)

func (p *PPU) readRegister(addr uint16) uint8 {
	switch addr & 0x7 {
	case 0x2:
		// the low 5 bits are open bus, approximated by the read buffer
		data := p.status&0xE0 | p.dataBuf&0x1F
		p.status &^= statusVBlank
		p.w = false
		return data
	case 0x4:
		return p.oam[p.oamAddr]
	case 0x7:
		addr := p.v & 0x3FFF
		data := p.dataBuf
		p.dataBuf = p.mem.Read8(addr)
		// palette reads are not delayed; the buffer gets the nametable
		// byte underneath instead
		if addr >= 0x3F00 {
			data = p.dataBuf
			p.dataBuf = p.mem.Read8(addr - 0x1000)
		}
		p.incrementAddr()
		return data
	}
	return 0
}

func (p *PPU) writeRegister(addr uint16, data uint8) {
	switch addr & 0x7 {
	case 0x0:
		p.ctrl = data
		p.t = (p.t & 0xF3FF) | uint16(data&ctrlNameTable)<<10
		// enabling NMI during vblank fires immediately
		if p.ctrl&ctrlNMI != 0 && p.status&statusVBlank != 0 {
			p.nmi = true
		}
	case 0x1:
		p.mask = data
	case 0x3:
		p.oamAddr = data
	case 0x4:
		p.oam[p.oamAddr] = data
		p.oamAddr++
	case 0x5:
		if !p.w {
			p.fineX = data & 0x07
			p.t = (p.t & 0xFFE0) | uint16(data>>3)
		} else {
			p.t = (p.t & 0x8FFF) | uint16(data&0x07)<<12
			p.t = (p.t & 0xFC1F) | uint16(data>>3)<<5
		}
		p.w = !p.w
	case 0x6:
		if !p.w {
			p.t = (p.t & 0x00FF) | uint16(data&0x3F)<<8
		} else {
			p.t = (p.t & 0xFF00) | uint16(data)
			p.v = p.t
		}
		p.w = !p.w
	case 0x7:
		p.mem.Write8(p.v&0x3FFF, data)
		p.incrementAddr()
	}
}

func (p *PPU) incrementAddr() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}
