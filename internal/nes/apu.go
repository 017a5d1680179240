package nes

const (
	frameStep1     = 3728
	frameStep2     = 7456
	frameStep3     = 11185
	frameStep4     = 14914
	frameStep5     = 18640
	pulseMixLevels = 31
	tndMixLevels   = 203
)

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// APU is the 2A03 audio unit: two pulse channels, a triangle, a noise
// generator and the delta modulation channel, mixed non-linearly.
type APU struct {
	pulse    [2]pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	fiveStep       bool
	irqInhibit     bool
	frameInterrupt bool
	frameCounter   uint32

	pulseTable [pulseMixLevels]float32
	tndTable   [tndMixLevels]float32
}

// NewAPU returns an APU whose DMC fetches sample bytes through read.
func NewAPU(read func(addr uint16) uint8) *APU {
	a := &APU{}
	a.dmc.read = read
	a.initMixerTables()
	a.Reset()
	return a
}

func (a *APU) initMixerTables() {
	for i := 1; i < pulseMixLevels; i++ {
		a.pulseTable[i] = 95.52 / (8128.0/float32(i) + 100.0)
	}
	for i := 1; i < tndMixLevels; i++ {
		a.tndTable[i] = 163.67 / (24329.0/float32(i) + 100.0)
	}
}

// Reset silences every channel and restores the power-up frame counter.
func (a *APU) Reset() {
	a.WriteRegister(0x4015, 0x00)

	a.fiveStep = false
	a.frameCounter = 0
	a.irqInhibit = false
	a.frameInterrupt = false

	a.pulse[0] = pulseChannel{}
	a.pulse[1] = pulseChannel{sweepTwosComplement: true}
	a.triangle = triangleChannel{}
	a.noise = noiseChannel{shift: 1}
	read := a.dmc.read
	a.dmc = dmcChannel{read: read, bitsLeft: 8, silence: true, bufferEmpty: true}
}

// WriteRegister handles CPU writes to $4000-$4013, $4015 and $4017.
func (a *APU) WriteRegister(addr uint16, data uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse[0].write(addr&0x03, data)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse[1].write(addr&0x03, data)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.write(addr&0x03, data)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.write(addr&0x03, data)
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.write(addr&0x03, data)
	case addr == 0x4015:
		a.pulse[0].setEnabled(data&0x01 != 0)
		a.pulse[1].setEnabled(data&0x02 != 0)
		a.triangle.setEnabled(data&0x04 != 0)
		a.noise.setEnabled(data&0x08 != 0)
		a.dmc.setEnabled(data&0x10 != 0)
	case addr == 0x4017:
		a.fiveStep = data&0x80 != 0
		a.irqInhibit = data&0x40 != 0
		if a.irqInhibit {
			a.frameInterrupt = false
		}
		a.frameCounter = 0
		if a.fiveStep {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

// ReadStatus reads $4015. Reading acknowledges the frame interrupt.
func (a *APU) ReadStatus() uint8 {
	var data uint8
	if a.pulse[0].length.value > 0 {
		data |= 0x01
	}
	if a.pulse[1].length.value > 0 {
		data |= 0x02
	}
	if a.triangle.length.value > 0 {
		data |= 0x04
	}
	if a.noise.length.value > 0 {
		data |= 0x08
	}
	if a.dmc.bytesLeft > 0 {
		data |= 0x10
	}
	if a.frameInterrupt {
		data |= 0x40
	}
	if a.dmc.interrupt {
		data |= 0x80
	}
	a.frameInterrupt = false
	return data
}

// IRQ reports whether the frame counter or the DMC is asserting the IRQ line.
func (a *APU) IRQ() bool {
	return a.frameInterrupt || a.dmc.interrupt
}

// Tic advances the APU by one CPU cycle.
func (a *APU) Tic() {
	quarter, half := false, false

	switch a.frameCounter {
	case frameStep1, frameStep3:
		quarter = true
	case frameStep2:
		quarter, half = true, true
	case frameStep4:
		quarter, half = true, true
		if !a.fiveStep {
			a.frameCounter = 0
			if !a.irqInhibit {
				a.frameInterrupt = true
			}
		}
	case frameStep5:
		if a.fiveStep {
			a.frameCounter = 0
		}
	}
	a.frameCounter++

	if quarter {
		a.clockQuarterFrame()
	}
	if half {
		a.clockHalfFrame()
	}

	a.pulse[0].clockTimer()
	a.pulse[1].clockTimer()
	a.triangle.clockTimer()
	a.noise.clockTimer()
	a.dmc.clockTimer()
}

func (a *APU) clockQuarterFrame() {
	a.pulse[0].env.clock(a.pulse[0].length.halt)
	a.pulse[1].env.clock(a.pulse[1].length.halt)
	a.triangle.clockLinearCounter()
	a.noise.env.clock(a.noise.length.halt)
}

func (a *APU) clockHalfFrame() {
	a.pulse[0].length.clock()
	a.pulse[1].length.clock()
	a.triangle.length.clock()
	a.noise.length.clock()

	a.pulse[0].clockSweep()
	a.pulse[1].clockSweep()
}

// Sample mixes the current channel outputs into a value in [0, 1].
func (a *APU) Sample() float32 {
	pulseOut := int(a.pulse[0].sample) + int(a.pulse[1].sample)
	tndOut := 3*int(a.triangle.sample) + 2*int(a.noise.sample) + int(a.dmc.output)
	return a.pulseTable[pulseOut] + a.tndTable[tndOut]
}
