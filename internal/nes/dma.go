package nes

// DMA copies a 256-byte CPU page into OAM after a write to $4014. While it
// runs the CPU is stalled: one or two alignment cycles, then alternating
// read and write cycles, 513 or 514 cycles in total.
type DMA struct {
	mem ReadWriter
	ppu *PPU

	page     uint8
	addr     uint8
	data     uint8
	active   bool
	aligning bool
}

func NewDMA(mem ReadWriter, ppu *PPU) *DMA {
	return &DMA{mem: mem, ppu: ppu}
}

func (d *DMA) Start(page uint8) {
	d.page = page
	d.addr = 0
	d.active = true
	d.aligning = true
}

func (d *DMA) Active() bool {
	return d.active
}

// Tic runs one CPU cycle of the transfer. cycle is the CPU cycle counter
// and decides between read (odd) and write (even) cycles.
func (d *DMA) Tic(cycle uint64) {
	if !d.active {
		return
	}
	if d.aligning {
		if cycle%2 == 0 {
			d.aligning = false
		}
		return
	}

	if cycle%2 == 1 {
		d.data = d.mem.Read8(uint16(d.page)<<8 | uint16(d.addr))
		return
	}
	d.ppu.WriteOAM(d.addr, d.data)
	d.addr++
	if d.addr == 0 {
		d.active = false
		d.aligning = true
	}
}

func (d *DMA) Reset() {
	d.active = false
	d.aligning = true
	d.addr = 0
}
