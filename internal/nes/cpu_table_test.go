package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// instructionTable is the documented (mnemonic, base cycles) list, eight
// opcodes per row starting at $00.
var instructionTable = [256]struct {
	name   string
	cycles uint8
}{
		{"BRK", 7}, {"ORA", 6}, {"???", 2}, {"???", 8}, {"???", 3}, {"ORA", 3}, {"ASL", 5}, {"???", 5},
		{"PHP", 3}, {"ORA", 2}, {"ASL", 2}, {"???", 2}, {"???", 4}, {"ORA", 4}, {"ASL", 6}, {"???", 6},
		{"BPL", 2}, {"ORA", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"ORA", 4}, {"ASL", 6}, {"???", 6},
		{"CLC", 2}, {"ORA", 4}, {"???", 2}, {"???", 7}, {"???", 4}, {"ORA", 4}, {"ASL", 7}, {"???", 7},
		{"JSR", 6}, {"AND", 6}, {"???", 2}, {"???", 8}, {"BIT", 3}, {"AND", 3}, {"ROL", 5}, {"???", 5},
		{"PLP", 4}, {"AND", 2}, {"ROL", 2}, {"???", 2}, {"BIT", 4}, {"AND", 4}, {"ROL", 6}, {"???", 6},
		{"BMI", 2}, {"AND", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"AND", 4}, {"ROL", 6}, {"???", 6},
		{"SEC", 2}, {"AND", 4}, {"???", 2}, {"???", 7}, {"???", 4}, {"AND", 4}, {"ROL", 7}, {"???", 7},
		{"RTI", 6}, {"EOR", 6}, {"???", 2}, {"???", 8}, {"???", 3}, {"EOR", 3}, {"LSR", 5}, {"???", 5},
		{"PHA", 3}, {"EOR", 2}, {"LSR", 2}, {"???", 2}, {"JMP", 3}, {"EOR", 4}, {"LSR", 6}, {"???", 6},
		{"BVC", 2}, {"EOR", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"EOR", 4}, {"LSR", 6}, {"???", 6},
		{"CLI", 2}, {"EOR", 4}, {"???", 2}, {"???", 7}, {"???", 4}, {"EOR", 4}, {"LSR", 7}, {"???", 7},
		{"RTS", 6}, {"ADC", 6}, {"???", 2}, {"???", 8}, {"???", 3}, {"ADC", 3}, {"ROR", 5}, {"???", 5},
		{"PLA", 4}, {"ADC", 2}, {"ROR", 2}, {"???", 2}, {"JMP", 5}, {"ADC", 4}, {"ROR", 6}, {"???", 6},
		{"BVS", 2}, {"ADC", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"ADC", 4}, {"ROR", 6}, {"???", 6},
		{"SEI", 2}, {"ADC", 4}, {"???", 2}, {"???", 7}, {"???", 4}, {"ADC", 4}, {"ROR", 7}, {"???", 7},
		{"???", 2}, {"STA", 6}, {"???", 2}, {"???", 6}, {"STY", 3}, {"STA", 3}, {"STX", 3}, {"???", 3},
		{"DEY", 2}, {"???", 2}, {"TXA", 2}, {"???", 2}, {"STY", 4}, {"STA", 4}, {"STX", 4}, {"???", 4},
		{"BCC", 2}, {"STA", 6}, {"???", 2}, {"???", 6}, {"STY", 4}, {"STA", 4}, {"STX", 4}, {"???", 4},
		{"TYA", 2}, {"STA", 5}, {"TXS", 2}, {"???", 5}, {"???", 5}, {"STA", 5}, {"???", 5}, {"???", 5},
		{"LDY", 2}, {"LDA", 6}, {"LDX", 2}, {"???", 6}, {"LDY", 3}, {"LDA", 3}, {"LDX", 3}, {"???", 3},
		{"TAY", 2}, {"LDA", 2}, {"TAX", 2}, {"???", 2}, {"LDY", 4}, {"LDA", 4}, {"LDX", 4}, {"???", 4},
		{"BCS", 2}, {"LDA", 5}, {"???", 2}, {"???", 5}, {"LDY", 4}, {"LDA", 4}, {"LDX", 4}, {"???", 4},
		{"CLV", 2}, {"LDA", 4}, {"TSX", 2}, {"???", 4}, {"LDY", 4}, {"LDA", 4}, {"LDX", 4}, {"???", 4},
		{"CPY", 2}, {"CMP", 6}, {"???", 2}, {"???", 8}, {"CPY", 3}, {"CMP", 3}, {"DEC", 5}, {"???", 5},
		{"INY", 2}, {"CMP", 2}, {"DEX", 2}, {"???", 2}, {"CPY", 4}, {"CMP", 4}, {"DEC", 6}, {"???", 6},
		{"BNE", 2}, {"CMP", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"CMP", 4}, {"DEC", 6}, {"???", 6},
		{"CLD", 2}, {"CMP", 4}, {"NOP", 2}, {"???", 7}, {"???", 4}, {"CMP", 4}, {"DEC", 7}, {"???", 7},
		{"CPX", 2}, {"SBC", 6}, {"???", 2}, {"???", 8}, {"CPX", 3}, {"SBC", 3}, {"INC", 5}, {"???", 5},
		{"INX", 2}, {"SBC", 2}, {"NOP", 2}, {"???", 2}, {"CPX", 4}, {"SBC", 4}, {"INC", 6}, {"???", 6},
		{"BEQ", 2}, {"SBC", 5}, {"???", 2}, {"???", 8}, {"???", 4}, {"SBC", 4}, {"INC", 6}, {"???", 6},
		{"SED", 2}, {"SBC", 4}, {"NOP", 2}, {"???", 7}, {"???", 4}, {"SBC", 4}, {"INC", 7}, {"???", 7},
}

func opcodeIsSupported(opcode byte) bool {
	return instructionTable[opcode].name != "???"
}

func Test_InstructionTable(t *testing.T) {
	cpu := NewCPU(nil)

	for op, want := range instructionTable {
		in := cpu.instrs[op]
		assert.Equal(t, want.name, in.name, "opcode %02X", op)
		assert.Equal(t, want.cycles, in.cycles, "opcode %02X", op)
	}

	modes := []struct {
		opcode uint8
		mode   addrMode
	}{
		{0x00, addrModeIMP},
		{0x0a, addrModeIMP},
		{0x20, addrModeABS},
		{0x4c, addrModeABS},
		{0x6c, addrModeIND},
		{0x81, addrModeINDX},
		{0x91, addrModeINDY},
		{0x96, addrModeZPY},
		{0xa9, addrModeIMM},
		{0xb1, addrModeINDY},
		{0xbe, addrModeABSY},
		{0xd0, addrModeREL},
		{0xea, addrModeIMP},
		{0xfe, addrModeABSX},
	}
	for _, m := range modes {
		assert.Equal(t, m.mode, cpu.instrs[m.opcode].mode, "opcode %02X", m.opcode)
	}

	var illegal int
	for op, in := range cpu.instrs {
		assert.NotNil(t, in.fn, "opcode %02X", op)
		assert.NotZero(t, in.cycles, "opcode %02X", op)
		if !opcodeIsSupported(uint8(op)) {
			illegal++
			assert.Equal(t, addrModeIMP, in.mode, "opcode %02X", op)
		}
	}
	assert.Equal(t, 103, illegal)
}
