package nes

// CPUState is a snapshot of the CPU registers.
type CPUState struct {
	PC     uint16
	A      uint8
	X      uint8
	Y      uint8
	SP     uint8
	P      uint8
	Cycles uint64
}

func (c *CPU) State() CPUState {
	return CPUState{
		PC:     c.pc,
		A:      c.a,
		X:      c.x,
		Y:      c.y,
		SP:     c.sp,
		P:      c.p,
		Cycles: c.totalCycles,
	}
}

// StatusString formats P as NV-BDIZC with cleared flags in lower case.
func (s CPUState) StatusString() string {
	const names = "NVUBDIZC"
	out := []byte("nv-bdizc")
	for i := 0; i < 8; i++ {
		if s.P&(0x80>>i) == 0 || i == 2 {
			continue
		}
		out[i] = names[i]
	}
	return string(out)
}
