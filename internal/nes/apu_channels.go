package nes

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% negated
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var dmcRates = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

type lengthCounter struct {
	enabled bool
	halt    bool
	value   uint8
}

func (l *lengthCounter) load(index uint8) {
	if l.enabled {
		l.value = lengthTable[index&0x1F]
	}
}

func (l *lengthCounter) setEnabled(v bool) {
	l.enabled = v
	if !v {
		l.value = 0
	}
}

func (l *lengthCounter) clock() {
	if !l.halt && l.value > 0 {
		l.value--
	}
}

type envelope struct {
	start    bool
	constant bool
	volume   uint8 // constant volume or divider period
	divider  uint8
	decay    uint8
}

// clock runs on quarter frames. loop is the shared length-halt bit.
func (e *envelope) clock(loop bool) {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.volume
	if e.decay > 0 {
		e.decay--
	} else if loop {
		e.decay = 15
	}
}

func (e *envelope) output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}

type pulseChannel struct {
	length lengthCounter
	env    envelope

	duty     uint8
	sequence uint8
	timer    uint16
	period   uint16

	sweepEnabled bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepDivider uint8
	sweepReload  bool
	// the second pulse unit negates with two's complement, the first
	// with one's complement (an extra -1)
	sweepTwosComplement bool

	sample uint8
}

func (p *pulseChannel) setEnabled(v bool) {
	p.length.setEnabled(v)
}

func (p *pulseChannel) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		p.duty = (data >> 6) & 0x03
		p.length.halt = data&0x20 != 0
		p.env.constant = data&0x10 != 0
		p.env.volume = data & 0x0F
	case 1:
		p.sweepEnabled = data&0x80 != 0
		p.sweepPeriod = (data >> 4) & 0x07
		p.sweepNegate = data&0x08 != 0
		p.sweepShift = data & 0x07
		p.sweepReload = true
	case 2:
		p.period = (p.period & 0x0700) | uint16(data)
	case 3:
		p.period = (p.period & 0x00FF) | uint16(data&0x07)<<8
		p.timer = p.period
		p.length.load(data >> 3)
		p.env.start = true
		p.sequence = 0
	}
}

func (p *pulseChannel) clockTimer() {
	if p.timer == 0 {
		p.timer = p.period
		p.sequence = (p.sequence + 1) % 8
	} else {
		p.timer--
	}

	if p.length.value > 0 && dutyTable[p.duty][p.sequence] != 0 && p.period >= 8 && p.period < 0x7FF {
		p.sample = p.env.output()
	} else {
		p.sample = 0
	}
}

func (p *pulseChannel) clockSweep() {
	mute := p.period < 8 || p.period > 0x7FF
	if p.sweepDivider == 0 && p.sweepEnabled && !mute && p.sweepShift > 0 {
		change := p.period >> p.sweepShift
		if p.sweepNegate {
			p.period -= change
			if !p.sweepTwosComplement {
				p.period--
			}
		} else {
			p.period += change
		}
	}

	if p.sweepDivider == 0 || p.sweepReload {
		p.sweepDivider = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepDivider--
	}
}

type triangleChannel struct {
	length lengthCounter

	control      bool
	linearReload uint8
	linear       uint8
	reloadFlag   bool

	sequence uint8
	timer    uint16
	period   uint16

	sample uint8
}

func (t *triangleChannel) setEnabled(v bool) {
	t.length.setEnabled(v)
}

func (t *triangleChannel) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		t.control = data&0x80 != 0
		t.length.halt = t.control
		t.linearReload = data & 0x7F
	case 2:
		t.period = (t.period & 0x0700) | uint16(data)
	case 3:
		t.period = (t.period & 0x00FF) | uint16(data&0x07)<<8
		t.timer = t.period
		t.length.load(data >> 3)
		t.reloadFlag = true
	}
}

func (t *triangleChannel) clockTimer() {
	if t.timer == 0 {
		t.timer = t.period
		if t.length.value > 0 && t.linear > 0 {
			t.sequence = (t.sequence + 1) % 32
		}
	} else {
		t.timer--
	}
	t.sample = triangleSequence[t.sequence]
}

func (t *triangleChannel) clockLinearCounter() {
	if t.reloadFlag {
		t.linear = t.linearReload
	} else if t.linear > 0 {
		t.linear--
	}
	if !t.control {
		t.reloadFlag = false
	}
}

type noiseChannel struct {
	length lengthCounter
	env    envelope

	mode   bool
	period uint8
	timer  uint16
	shift  uint16

	sample uint8
}

func (n *noiseChannel) setEnabled(v bool) {
	n.length.setEnabled(v)
}

func (n *noiseChannel) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		n.length.halt = data&0x20 != 0
		n.env.constant = data&0x10 != 0
		n.env.volume = data & 0x0F
	case 2:
		n.mode = data&0x80 != 0
		n.period = data & 0x0F
	case 3:
		n.length.load(data >> 3)
		n.env.start = true
	}
}

func (n *noiseChannel) clockTimer() {
	if n.timer == 0 {
		n.timer = noisePeriods[n.period]
		tap := uint16(1)
		if n.mode {
			tap = 6
		}
		feedback := (n.shift & 0x01) ^ ((n.shift >> tap) & 0x01)
		n.shift >>= 1
		n.shift |= feedback << 14
	} else {
		n.timer--
	}

	if n.length.value > 0 && n.shift&0x01 == 0 {
		n.sample = n.env.output()
	} else {
		n.sample = 0
	}
}

type dmcChannel struct {
	read func(addr uint16) uint8

	irqEnabled bool
	loop       bool
	rate       uint8
	output     uint8

	sampleAddr   uint16
	sampleLength uint16
	currentAddr  uint16
	bytesLeft    uint16

	buffer      uint8
	bufferEmpty bool
	shift       uint8
	bitsLeft    uint8
	silence     bool
	timer       uint16

	interrupt bool
}

func (d *dmcChannel) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		d.irqEnabled = data&0x80 != 0
		d.loop = data&0x40 != 0
		d.rate = data & 0x0F
		if !d.irqEnabled {
			d.interrupt = false
		}
	case 1:
		d.output = data & 0x7F
	case 2:
		d.sampleAddr = 0xC000 | uint16(data)<<6
	case 3:
		d.sampleLength = uint16(data)<<4 | 1
	}
}

func (d *dmcChannel) setEnabled(v bool) {
	d.interrupt = false
	if !v {
		d.bytesLeft = 0
		return
	}
	if d.bytesLeft == 0 {
		d.restart()
	}
}

func (d *dmcChannel) restart() {
	d.currentAddr = d.sampleAddr
	d.bytesLeft = d.sampleLength
}

// fetch refills the sample buffer from CPU memory.
func (d *dmcChannel) fetch() {
	if !d.bufferEmpty || d.bytesLeft == 0 || d.read == nil {
		return
	}
	d.buffer = d.read(d.currentAddr)
	d.bufferEmpty = false
	if d.currentAddr == 0xFFFF {
		d.currentAddr = 0x8000
	} else {
		d.currentAddr++
	}
	d.bytesLeft--
	if d.bytesLeft > 0 {
		return
	}
	if d.loop {
		d.restart()
	} else if d.irqEnabled {
		d.interrupt = true
	}
}

func (d *dmcChannel) clockTimer() {
	d.fetch()

	if d.timer > 0 {
		d.timer--
		return
	}
	d.timer = dmcRates[d.rate]

	if !d.silence {
		if d.shift&0x01 != 0 {
			if d.output <= 125 {
				d.output += 2
			}
		} else if d.output >= 2 {
			d.output -= 2
		}
	}
	d.shift >>= 1
	d.bitsLeft--

	if d.bitsLeft == 0 {
		d.bitsLeft = 8
		if d.bufferEmpty {
			d.silence = true
		} else {
			d.silence = false
			d.shift = d.buffer
			d.bufferEmpty = true
		}
	}
}
