package nes

import (
	"fmt"
	"strings"
)

const (
	stackStartAddr = uint16(0x100)

	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

type addrMode uint8

const (
	addrModeIMM  addrMode = iota + 1 // Immediate
	addrModeZP                       // Zero Page
	addrModeZPX                      // Zero Page X
	addrModeZPY                      // Zero Page Y
	addrModeABS                      // Absolute
	addrModeABSX                     // Absolute X
	addrModeABSY                     // Absolute Y
	addrModeIND                      // Indirect
	addrModeINDX                     // Indirect X
	addrModeINDY                     // Indirect Y
	addrModeREL                      // Relative
	addrModeIMP                      // Implied, including accumulator operands
)

func (mode addrMode) String() string {
	switch mode {
	case addrModeIMM:
		return "IMM"
	case addrModeZP:
		return "ZP"
	case addrModeZPX:
		return "ZPX"
	case addrModeZPY:
		return "ZPY"
	case addrModeABS:
		return "ABS"
	case addrModeABSX:
		return "ABSX"
	case addrModeABSY:
		return "ABSY"
	case addrModeIND:
		return "IND"
	case addrModeINDX:
		return "INDX"
	case addrModeINDY:
		return "INDY"
	case addrModeREL:
		return "REL"
	case addrModeIMP:
		return "IMP"
	}
	return "???"
}

// instr describes one opcode. fn returns 1 when the operation pays the extra
// cycle for a page crossing reported by the addressing mode.
type instr struct {
	name   string
	mode   addrMode
	fn     func() uint8
	cycles uint8
}

type CPU struct {
	a            uint8
	x            uint8
	y            uint8
	p            uint8
	sp           uint8
	pc           uint16
	mem          ReadWriter
	instrs       [0x100]instr
	opcode       uint8
	cycles       uint8
	totalCycles  uint64
	addrMode     addrMode
	operandAddr  uint16
	operandValue uint8
}

func isDiffPage(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

func NewCPU(mem ReadWriter) *CPU {
	c := &CPU{
		mem: mem,
	}
	c.initInstructions()
	return c
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.mem.Write8(addr, data)
}

func (c *CPU) getFlag(flag uint8) bool {
	return c.p&flag > 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.p |= flag
		return
	}
	c.p &= ^flag
}

func (c *CPU) setFlagsZN(value uint8) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&flagN > 0)
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPush16(data uint16) {
	lo := uint8(data & 0xff)
	hi := uint8(data >> 8)
	c.stackPush8(hi)
	c.stackPush8(lo)
}

// Reset the CPU to its initial state. The reset sequence takes 7 cycles
// before the first instruction is fetched.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.p = 0x00 | flagU | flagI
	c.sp = 0xfd
	c.pc = c.read16(vectorReset)
	c.addrMode = 0
	c.operandAddr = 0
	c.operandValue = 0
	c.cycles = 7
	c.totalCycles = 0
}

func (c *CPU) interrupt(vector uint16) {
	c.stackPush16(c.pc)
	c.stackPush8((c.p &^ flagB) | flagU)
	c.setFlag(flagI, true)
	c.pc = c.read16(vector)
	c.cycles += 7
}

// Interrupt request signal. Ignored while the interrupt disable flag is set.
func (c *CPU) IRQ() {
	if c.getFlag(flagI) {
		return
	}
	c.interrupt(vectorIRQ)
}

// Non-maskable interrupt request signal
func (c *CPU) NMI() {
	c.interrupt(vectorNMI)
}

// Complete reports whether the current instruction has used up its cycles.
func (c *CPU) Complete() bool {
	return c.cycles == 0
}

// Tic executes one CPU cycle and
// returns the number of cycles left for the current operation.
// The whole instruction executes on its first cycle; the remaining
// cycles are idle.
func (c *CPU) Tic() uint8 {
	if c.cycles == 0 {
		c.opcode = c.read8(c.pc)
		c.pc++
		c.setFlag(flagU, true)

		instr := &c.instrs[c.opcode]
		c.cycles = instr.cycles
		modeExtra := c.fetch(instr.mode)
		opExtra := instr.fn()
		c.cycles += modeExtra & opExtra

		c.setFlag(flagU, true)
	}

	c.cycles--
	c.totalCycles++
	return c.cycles
}

// fetch resolves the effective address for the current instruction.
// It returns 1 when indexing crossed a page boundary.
func (c *CPU) fetch(addrMode addrMode) uint8 {
	c.addrMode = addrMode
	c.operandAddr = 0

	switch addrMode {
	case addrModeIMM:
		c.operandAddr = c.pc
		c.pc++

	case addrModeZP:
		c.operandAddr = uint16(c.read8(c.pc))
		c.pc++

	case addrModeZPX:
		c.operandAddr = uint16(c.read8(c.pc) + c.x)
		c.pc++

	case addrModeZPY:
		c.operandAddr = uint16(c.read8(c.pc) + c.y)
		c.pc++

	case addrModeABS:
		c.operandAddr = c.read16(c.pc)
		c.pc += 2

	case addrModeABSX:
		baseAddr := c.read16(c.pc)
		c.pc += 2
		c.operandAddr = baseAddr + uint16(c.x)
		if isDiffPage(baseAddr, c.operandAddr) {
			return 1
		}

	case addrModeABSY:
		baseAddr := c.read16(c.pc)
		c.pc += 2
		c.operandAddr = baseAddr + uint16(c.y)
		if isDiffPage(baseAddr, c.operandAddr) {
			return 1
		}

	case addrModeIND:
		ptr := c.read16(c.pc)
		c.pc += 2

		hi := ptr + 1
		if ptr&0xff == 0xff { // simulate 6502 bug
			hi = ptr & 0xff00
		}
		c.operandAddr = uint16(c.read8(ptr)) | uint16(c.read8(hi))<<8

	case addrModeINDX:
		zp := c.read8(c.pc) + c.x
		c.pc++
		lo := uint16(c.read8(uint16(zp)))
		hi := uint16(c.read8(uint16(zp + 1)))
		c.operandAddr = lo | hi<<8

	case addrModeINDY:
		zp := c.read8(c.pc)
		c.pc++
		lo := uint16(c.read8(uint16(zp)))
		hi := uint16(c.read8(uint16(zp + 1)))
		baseAddr := lo | hi<<8
		c.operandAddr = baseAddr + uint16(c.y)
		if isDiffPage(baseAddr, c.operandAddr) {
			return 1
		}

	case addrModeREL:
		c.operandAddr = uint16(c.read8(c.pc))
		c.pc++
		if c.operandAddr&0x80 > 0 {
			c.operandAddr |= 0xff00 // add leading 1 s to save the sign
		}

	case addrModeIMP:
		c.operandValue = c.a
	}
	return 0
}

// operand returns the value the current instruction works on. Implied mode
// instructions operate on the accumulator.
func (c *CPU) operand() uint8 {
	if c.addrMode != addrModeIMP {
		c.operandValue = c.read8(c.operandAddr)
	}
	return c.operandValue
}

// writeResult stores a read-modify-write result back to the accumulator or
// memory depending on the addressing mode.
func (c *CPU) writeResult(r uint8) {
	if c.addrMode == addrModeIMP {
		c.a = r
		return
	}
	c.write8(c.operandAddr, r)
}

// Disassemble returns a map of addresses and their corresponding instructions
// for the range [from, to]. Reads go through the CPU bus, so the range should
// not cover registers with read side effects.
func (c *CPU) Disassemble(from, to uint16) map[uint16]string {
	disasm := make(map[uint16]string, int(to)-int(from)+1)

	addr := uint32(from)
	for addr <= uint32(to) {
		pc := uint16(addr)
		instr := c.instrs[c.read8(pc)]
		pc++

		var operand string
		skip := uint32(0)
		switch instr.mode {
		case addrModeIMM:
			operand = fmt.Sprintf("#$%02X", c.read8(pc))
			skip = 1
		case addrModeZP:
			operand = fmt.Sprintf("$%02X", c.read8(pc))
			skip = 1
		case addrModeZPX:
			operand = fmt.Sprintf("$%02X,X", c.read8(pc))
			skip = 1
		case addrModeZPY:
			operand = fmt.Sprintf("$%02X,Y", c.read8(pc))
			skip = 1
		case addrModeABS:
			operand = fmt.Sprintf("$%04X", c.read16(pc))
			skip = 2
		case addrModeABSX:
			operand = fmt.Sprintf("$%04X,X", c.read16(pc))
			skip = 2
		case addrModeABSY:
			operand = fmt.Sprintf("$%04X,Y", c.read16(pc))
			skip = 2
		case addrModeIND:
			operand = fmt.Sprintf("($%04X)", c.read16(pc))
			skip = 2
		case addrModeINDX:
			operand = fmt.Sprintf("($%02X,X)", c.read8(pc))
			skip = 1
		case addrModeINDY:
			operand = fmt.Sprintf("($%02X),Y", c.read8(pc))
			skip = 1
		case addrModeREL:
			offset := uint16(c.read8(pc))
			pc++
			if offset&0x80 > 0 {
				offset |= 0xff00
			}
			operand = fmt.Sprintf("$%04X", pc+offset)
			skip = 1
		case addrModeIMP:
			switch instr.name {
			case "ASL", "LSR", "ROL", "ROR":
				operand = "A"
			}
		}

		line := fmt.Sprintf("$%04X: %s %s", addr, instr.name, operand)
		disasm[uint16(addr)] = fmt.Sprintf("%s {%s}", strings.TrimRight(line, " "), instr.mode)

		addr = addr + 1 + skip
	}

	return disasm
}

func (c *CPU) adc() uint8 {
	m := c.operand()
	c.addWithCarry(m)
	return 1
}

// addWithCarry is shared by ADC and SBC. Decimal mode is not supported by
// the 2A03.
func (c *CPU) addWithCarry(m uint8) {
	r16 := uint16(c.a) + uint16(m)
	if c.getFlag(flagC) {
		r16++
	}
	r8 := uint8(r16)
	c.setFlag(flagC, r16 > 0xff)
	c.setFlagsZN(r8)
	c.setFlag(flagV, ^(c.a^m)&(c.a^r8)&0x80 != 0)
	c.a = r8
}

func (c *CPU) and() uint8 {
	c.a &= c.operand()
	c.setFlagsZN(c.a)
	return 1
}

func (c *CPU) asl() uint8 {
	m := c.operand()
	c.setFlag(flagC, m&0x80 > 0)
	r8 := m << 1
	c.setFlagsZN(r8)
	c.writeResult(r8)
	return 0
}

func (c *CPU) jmpIf(condition bool) uint8 {
	if !condition {
		return 0
	}
	c.cycles++
	addr := c.pc + c.operandAddr
	if isDiffPage(c.pc, addr) {
		c.cycles++
	}
	c.pc = addr
	return 0
}

func (c *CPU) bcc() uint8 {
	return c.jmpIf(!c.getFlag(flagC))
}

func (c *CPU) bcs() uint8 {
	return c.jmpIf(c.getFlag(flagC))
}

func (c *CPU) beq() uint8 {
	return c.jmpIf(c.getFlag(flagZ))
}

func (c *CPU) bit() uint8 {
	m := c.operand()
	c.setFlag(flagZ, c.a&m == 0)
	c.setFlag(flagN, m&flagN > 0)
	c.setFlag(flagV, m&flagV > 0)
	return 0
}

func (c *CPU) bmi() uint8 {
	return c.jmpIf(c.getFlag(flagN))
}

func (c *CPU) bne() uint8 {
	return c.jmpIf(!c.getFlag(flagZ))
}

func (c *CPU) bpl() uint8 {
	return c.jmpIf(!c.getFlag(flagN))
}

func (c *CPU) brk() uint8 {
	// skip the padding byte
	c.pc++
	c.stackPush16(c.pc)
	c.stackPush8(c.p | flagB | flagU)
	c.setFlag(flagI, true)
	c.pc = c.read16(vectorIRQ)
	return 0
}

func (c *CPU) bvc() uint8 {
	return c.jmpIf(!c.getFlag(flagV))
}

func (c *CPU) bvs() uint8 {
	return c.jmpIf(c.getFlag(flagV))
}

func (c *CPU) clc() uint8 {
	c.setFlag(flagC, false)
	return 0
}

func (c *CPU) cld() uint8 {
	c.setFlag(flagD, false)
	return 0
}

func (c *CPU) cli() uint8 {
	c.setFlag(flagI, false)
	return 0
}

func (c *CPU) clv() uint8 {
	c.setFlag(flagV, false)
	return 0
}

func (c *CPU) compare(reg uint8) {
	m := c.operand()
	c.setFlag(flagC, reg >= m)
	c.setFlagsZN(reg - m)
}

func (c *CPU) cmp() uint8 {
	c.compare(c.a)
	return 1
}

func (c *CPU) cpx() uint8 {
	c.compare(c.x)
	return 1
}

func (c *CPU) cpy() uint8 {
	c.compare(c.y)
	return 1
}

func (c *CPU) dec() uint8 {
	r := c.operand() - 1
	c.setFlagsZN(r)
	c.write8(c.operandAddr, r)
	return 0
}

func (c *CPU) dex() uint8 {
	c.x--
	c.setFlagsZN(c.x)
	return 0
}

func (c *CPU) dey() uint8 {
	c.y--
	c.setFlagsZN(c.y)
	return 0
}

func (c *CPU) eor() uint8 {
	c.a ^= c.operand()
	c.setFlagsZN(c.a)
	return 1
}

func (c *CPU) inc() uint8 {
	r := c.operand() + 1
	c.setFlagsZN(r)
	c.write8(c.operandAddr, r)
	return 0
}

func (c *CPU) inx() uint8 {
	c.x++
	c.setFlagsZN(c.x)
	return 0
}

func (c *CPU) iny() uint8 {
	c.y++
	c.setFlagsZN(c.y)
	return 0
}

func (c *CPU) jmp() uint8 {
	c.pc = c.operandAddr
	return 0
}

func (c *CPU) jsr() uint8 {
	// the return address pushed is the last byte of the instruction
	c.pc--
	c.stackPush16(c.pc)
	c.pc = c.operandAddr
	return 0
}

func (c *CPU) lda() uint8 {
	c.a = c.operand()
	c.setFlagsZN(c.a)
	return 1
}

func (c *CPU) ldx() uint8 {
	c.x = c.operand()
	c.setFlagsZN(c.x)
	return 1
}

func (c *CPU) ldy() uint8 {
	c.y = c.operand()
	c.setFlagsZN(c.y)
	return 1
}

func (c *CPU) lsr() uint8 {
	m := c.operand()
	c.setFlag(flagC, m&0x1 > 0)
	r := m >> 1
	c.setFlagsZN(r)
	c.writeResult(r)
	return 0
}

func (c *CPU) nop() uint8 {
	return 0
}

// xxx executes an unofficial opcode as a no-op.
func (c *CPU) xxx() uint8 {
	return 0
}

func (c *CPU) ora() uint8 {
	c.a |= c.operand()
	c.setFlagsZN(c.a)
	return 1
}

func (c *CPU) pha() uint8 {
	c.stackPush8(c.a)
	return 0
}

func (c *CPU) php() uint8 {
	c.stackPush8(c.p | flagB | flagU)
	return 0
}

func (c *CPU) pla() uint8 {
	c.a = c.stackPop8()
	c.setFlagsZN(c.a)
	return 0
}

func (c *CPU) plp() uint8 {
	c.p = (c.stackPop8() | flagU) & ^flagB
	return 0
}

func (c *CPU) rol() uint8 {
	m := c.operand()
	r := m << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.setFlag(flagC, m&0x80 > 0)
	c.setFlagsZN(r)
	c.writeResult(r)
	return 0
}

func (c *CPU) ror() uint8 {
	m := c.operand()
	r := m >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, m&0x1 > 0)
	c.setFlagsZN(r)
	c.writeResult(r)
	return 0
}

func (c *CPU) rti() uint8 {
	c.p = (c.stackPop8() | flagU) & ^flagB
	c.pc = c.stackPop16()
	return 0
}

func (c *CPU) rts() uint8 {
	c.pc = c.stackPop16()
	c.pc++
	return 0
}

func (c *CPU) sbc() uint8 {
	c.addWithCarry(^c.operand())
	return 1
}

func (c *CPU) sec() uint8 {
	c.setFlag(flagC, true)
	return 0
}

func (c *CPU) sed() uint8 {
	c.setFlag(flagD, true)
	return 0
}

func (c *CPU) sei() uint8 {
	c.setFlag(flagI, true)
	return 0
}

func (c *CPU) sta() uint8 {
	c.write8(c.operandAddr, c.a)
	return 0
}

func (c *CPU) stx() uint8 {
	c.write8(c.operandAddr, c.x)
	return 0
}

func (c *CPU) sty() uint8 {
	c.write8(c.operandAddr, c.y)
	return 0
}

func (c *CPU) tax() uint8 {
	c.x = c.a
	c.setFlagsZN(c.x)
	return 0
}

func (c *CPU) tay() uint8 {
	c.y = c.a
	c.setFlagsZN(c.y)
	return 0
}

func (c *CPU) tsx() uint8 {
	c.x = c.sp
	c.setFlagsZN(c.x)
	return 0
}

func (c *CPU) txa() uint8 {
	c.a = c.x
	c.setFlagsZN(c.a)
	return 0
}

func (c *CPU) txs() uint8 {
	c.sp = c.x
	return 0
}

func (c *CPU) tya() uint8 {
	c.a = c.y
	c.setFlagsZN(c.a)
	return 0
}
