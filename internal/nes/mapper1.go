package nes

const prgRAMSizeBytes = 0x2000

// Mapper1 is MMC1. Registers are loaded serially: five writes of bit 0 to
// $8000-$FFFF fill a shift register which is then copied into the register
// selected by address bits 13-14 of the fifth write.
type Mapper1 struct {
	prgBanks uint8
	chrBanks uint8

	shift      uint8
	shiftCount uint8

	control uint8
	chr0    uint8
	chr1    uint8
	prg     uint8

	prgRAM   []uint8
	onMirror func(Mirror)
}

func NewMapper1(prgBanks, chrBanks uint8, onMirror func(Mirror)) *Mapper1 {
	m := &Mapper1{
		prgBanks: prgBanks,
		chrBanks: chrBanks,
		prgRAM:   make([]uint8, prgRAMSizeBytes),
		onMirror: onMirror,
	}
	m.Reset()
	return m
}

// Reset restores the power-up state: PRG mode 3 (switch $8000, fix last bank
// at $C000) and single-screen mirroring.
func (m *Mapper1) Reset() {
	m.shift = 0
	m.shiftCount = 0
	m.control = 0x0C
	m.chr0 = 0
	m.chr1 = 0
	m.prg = 0
	m.notifyMirror()
}

func (m *Mapper1) PRGRAM() []uint8 {
	return m.prgRAM
}

func (m *Mapper1) prgMode() uint8 {
	return (m.control >> 2) & 0x03
}

func (m *Mapper1) chrMode() uint8 {
	return (m.control >> 4) & 0x01
}

func (m *Mapper1) notifyMirror() {
	if m.onMirror == nil {
		return
	}
	switch m.control & 0x03 {
	case 0:
		m.onMirror(MirrorSingleLow)
	case 1:
		m.onMirror(MirrorSingleHigh)
	case 2:
		m.onMirror(MirrorVertical)
	case 3:
		m.onMirror(MirrorHorizontal)
	}
}

func (m *Mapper1) CPUMapRead(addr uint16) (uint32, bool) {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return uint32(addr & 0x1FFF), true
	case addr >= 0x8000:
		bank := uint32(m.prg & 0x0F)
		switch m.prgMode() {
		case 0, 1:
			return (bank&0x0E)*prgBankSizeBytes + uint32(addr&0x7FFF), true
		case 2:
			if addr < 0xC000 {
				return uint32(addr & 0x3FFF), true
			}
			return bank*prgBankSizeBytes + uint32(addr&0x3FFF), true
		default:
			if addr < 0xC000 {
				return bank*prgBankSizeBytes + uint32(addr&0x3FFF), true
			}
			last := uint32(0)
			if m.prgBanks > 0 {
				last = uint32(m.prgBanks - 1)
			}
			return last*prgBankSizeBytes + uint32(addr&0x3FFF), true
		}
	}
	return 0, false
}

// CPUMapWrite claims PRG-RAM writes. Writes to $8000-$FFFF feed the serial
// port and are consumed here, so they are reported as not claimed.
func (m *Mapper1) CPUMapWrite(addr uint16, data uint8) (uint32, bool) {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return uint32(addr & 0x1FFF), true
	case addr >= 0x8000:
		m.writeSerial(addr, data)
	}
	return 0, false
}

func (m *Mapper1) writeSerial(addr uint16, data uint8) {
	if data&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		m.notifyMirror()
		return
	}

	m.shift >>= 1
	m.shift |= (data & 0x01) << 4
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	value := m.shift & 0x1F
	switch (addr >> 13) & 0x03 {
	case 0:
		m.control = value
		m.notifyMirror()
	case 1:
		m.chr0 = value
	case 2:
		m.chr1 = value
	case 3:
		m.prg = value
	}
	m.shift = 0
	m.shiftCount = 0
}

func (m *Mapper1) PPUMapRead(addr uint16) (uint32, bool) {
	if addr >= 0x2000 {
		return 0, false
	}
	if m.chrBanks == 0 {
		return uint32(addr), true
	}
	if m.chrMode() == 0 {
		return uint32(m.chr0&0x1E)*0x1000 + uint32(addr&0x1FFF), true
	}
	if addr < 0x1000 {
		return uint32(m.chr0)*0x1000 + uint32(addr&0x0FFF), true
	}
	return uint32(m.chr1)*0x1000 + uint32(addr&0x0FFF), true
}

// PPUMapWrite claims writes only for cartridges with CHR-RAM.
func (m *Mapper1) PPUMapWrite(addr uint16) (uint32, bool) {
	if addr < 0x2000 && m.chrBanks == 0 {
		return uint32(addr), true
	}
	return 0, false
}
