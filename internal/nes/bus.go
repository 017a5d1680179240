package nes

import (
	"crypto/sha1"
	"encoding/binary"
	"image"
	"image/color"
)

const (
	// ticsPerSample gives roughly 44.1 kHz out of the 5.37 MHz PPU clock
	// at 60 frames per second.
	ticsPerSample   = 122
	sampleQueueSize = 8192

	Player1 = 0
	Player2 = 1
)

// Bus owns every component of the console and sequences them from the
// master clock: the PPU runs on every tic, the CPU (or OAM DMA) and the APU
// on every third.
type Bus struct {
	cpu  *CPU
	ppu  *PPU
	apu  *APU
	ram  *RAM
	cart *Cart
	dma  *DMA

	controllers [2]Controller

	ticCounter uint64
	cpuCycles  uint64

	samples *sampleQueue

	paused        bool
	stepRequested bool
}

func NewBus() *Bus {
	b := &Bus{}
	mem := b.newCpuMemory()
	b.ram = NewRAM()
	b.cpu = NewCPU(mem)
	b.ppu = NewPPU()
	b.apu = NewAPU(mem.Read8)
	b.dma = NewDMA(mem, b.ppu)
	b.samples = newSampleQueue(sampleQueueSize)
	return b
}

func (b *Bus) LoadCart(cart *Cart) {
	b.cart = cart
	b.ppu.ConnectCart(cart)
	b.Reset()
}

func (b *Bus) Reset() {
	if b.cart != nil {
		b.cart.Reset()
	}
	b.ram.Reset()
	b.ppu.Reset()
	b.apu.Reset()
	b.dma.Reset()
	for i := range b.controllers {
		b.controllers[i].Reset()
	}
	b.cpu.Reset()
	b.samples.reset()
	b.ticCounter = 0
	b.cpuCycles = 0
}

// Tic advances the machine by one master clock tic.
func (b *Bus) Tic() {
	b.ppu.Tic()

	if b.ticCounter%3 == 0 {
		if b.dma.Active() {
			b.dma.Tic(b.cpuCycles)
		} else {
			b.cpu.Tic()
		}
		b.apu.Tic()
		b.cpuCycles++
	}

	// interrupts are taken between instructions only
	if !b.dma.Active() && b.cpu.Complete() {
		if b.ppu.nmi {
			b.ppu.nmi = false
			b.cpu.NMI()
		} else if b.apu.IRQ() {
			b.cpu.IRQ()
		}
	}

	b.ticCounter++
	if b.ticCounter%ticsPerSample == 0 {
		b.samples.push(b.apu.Sample())
	}
}

// RunFrame tics until the PPU finishes the next frame. While paused it only
// executes the instruction requested by OneStepAndStop.
func (b *Bus) RunFrame() {
	if b.paused {
		if b.stepRequested {
			b.stepRequested = false
			b.StepInstruction()
		}
		return
	}

	b.ppu.ClearFrameComplete()
	for !b.ppu.FrameComplete() {
		b.Tic()
	}
}

// StepInstruction tics until the CPU finishes its current instruction.
func (b *Bus) StepInstruction() {
	for {
		b.Tic()
		if b.ticCounter%3 == 1 && !b.dma.Active() && b.cpu.Complete() {
			return
		}
	}
}

func (b *Bus) TogglePause() {
	b.paused = !b.paused
	b.stepRequested = false
}

func (b *Bus) Paused() bool {
	return b.paused
}

// OneStepAndStop pauses the machine and schedules a single instruction for
// the next RunFrame.
func (b *Bus) OneStepAndStop() {
	b.paused = true
	b.stepRequested = true
}

func (b *Bus) FrameReady() bool {
	return b.ppu.FrameComplete()
}

func (b *Bus) ConsumeFrame() {
	b.ppu.ClearFrameComplete()
}

func (b *Bus) Frame() uint64 {
	return b.ppu.Frame()
}

// PopAudioSample returns the oldest queued sample, or silence when the
// queue is empty.
func (b *Bus) PopAudioSample() float32 {
	s, _ := b.samples.pop()
	return s
}

func (b *Bus) PendingAudioSamples() int {
	return b.samples.len()
}

// SetControllerState sets the pressed buttons of a player's pad. Unknown
// players are ignored.
func (b *Bus) SetControllerState(player int, buttons uint8) {
	if player < 0 || player >= len(b.controllers) {
		return
	}
	b.controllers[player].SetButtons(buttons)
}

func (b *Bus) Pixels() []uint32 {
	return b.ppu.Pixels()
}

func (b *Bus) Screen() *image.RGBA {
	return b.ppu.Screen()
}

// FrameDigest hashes the current frame buffer.
func (b *Bus) FrameDigest() [sha1.Size]byte {
	pixels := b.ppu.Pixels()
	buf := make([]byte, 0, len(pixels)*4)
	for _, px := range pixels {
		buf = binary.LittleEndian.AppendUint32(buf, px)
	}
	return sha1.Sum(buf)
}

func (b *Bus) DebugInfo() CPUState {
	return b.cpu.State()
}

// Disassemble decodes the cartridge PRG space.
func (b *Bus) Disassemble() map[uint16]string {
	return b.cpu.Disassemble(0x8000, 0xFFFF)
}

func (b *Bus) GetColorFromPalette(palette, pixel uint8) color.RGBA {
	return b.ppu.PaletteColor(palette, pixel)
}

func (b *Bus) GetPatternTable(palette, table uint8) *image.RGBA {
	return b.ppu.PatternTable(palette, table)
}
