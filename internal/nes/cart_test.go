package nes

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inesImage assembles an iNES file in memory.
func inesImage(mapperID uint8, prg, chr []uint8, flags6 uint8, trainer []uint8) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(inesMagic))
	buf.WriteByte(uint8(len(prg) / prgBankSizeBytes))
	buf.WriteByte(uint8(len(chr) / chrBankSizeBytes))
	buf.WriteByte(flags6 | mapperID<<4)
	buf.WriteByte(mapperID & 0xf0)
	buf.Write(make([]byte, 8))
	buf.Write(trainer)
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}

// patternedBanks returns n banks of size bytes where every byte of bank i
// equals i.
func patternedBanks(n, size int) []uint8 {
	data := make([]uint8, n*size)
	for i := range data {
		data[i] = uint8(i / size)
	}
	return data
}

func Test_NewCartFromReader(t *testing.T) {
	t.Run("NROM-128 with vertical mirroring", func(t *testing.T) {
		prg := make([]uint8, prgBankSizeBytes)
		prg[0x0123] = 0xab
		chr := make([]uint8, chrBankSizeBytes)
		chr[0x10] = 0xcd

		cart, err := NewCartFromReader(bytes.NewReader(inesImage(0, prg, chr, 0x01, nil)))
		require.NoError(t, err)

		assert.Equal(t, uint8(0), cart.MapperID())
		assert.Equal(t, MirrorVertical, cart.Mirror())

		lo, ok := cart.CPURead(0x8123)
		require.True(t, ok)
		hi, ok := cart.CPURead(0xC123)
		require.True(t, ok)
		assert.Equal(t, uint8(0xab), lo)
		assert.Equal(t, lo, hi, "16 KB PRG is mirrored")

		data, ok := cart.PPURead(0x0010)
		require.True(t, ok)
		assert.Equal(t, uint8(0xcd), data)
	})

	t.Run("trainer is skipped", func(t *testing.T) {
		prg := make([]uint8, prgBankSizeBytes)
		prg[0] = 0x42
		trainer := bytes.Repeat([]byte{0xff}, trainerSizeBytes)

		cart, err := NewCartFromReader(bytes.NewReader(inesImage(0, prg, nil, 0x04, trainer)))
		require.NoError(t, err)

		data, _ := cart.CPURead(0x8000)
		assert.Equal(t, uint8(0x42), data)
		assert.Equal(t, MirrorHorizontal, cart.Mirror())
	})

	t.Run("bad magic", func(t *testing.T) {
		img := inesImage(0, make([]uint8, prgBankSizeBytes), nil, 0, nil)
		img[0] = 'X'

		_, err := NewCartFromReader(bytes.NewReader(img))
		assert.ErrorIs(t, err, ErrInvalidCart)
	})

	t.Run("truncated PRG", func(t *testing.T) {
		img := inesImage(0, make([]uint8, prgBankSizeBytes), nil, 0, nil)

		_, err := NewCartFromReader(bytes.NewReader(img[:len(img)-1]))
		assert.ErrorIs(t, err, ErrInvalidCart)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewCartFromReader(bytes.NewReader([]byte{'N', 'E', 'S'}))
		assert.ErrorIs(t, err, ErrInvalidCart)
	})

	t.Run("unsupported mapper", func(t *testing.T) {
		img := inesImage(4, make([]uint8, prgBankSizeBytes), nil, 0, nil)

		_, err := NewCartFromReader(bytes.NewReader(img))
		assert.ErrorIs(t, err, ErrUnsupportedMapper)
	})
}

func Test_NewCart_Sizes(t *testing.T) {
	_, err := NewCart(nil, nil, 0, MirrorHorizontal)
	assert.ErrorIs(t, err, ErrInvalidCart)

	_, err = NewCart(make([]uint8, 100), nil, 0, MirrorHorizontal)
	assert.ErrorIs(t, err, ErrInvalidCart)

	_, err = NewCart(make([]uint8, prgBankSizeBytes), make([]uint8, 10), 0, MirrorHorizontal)
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func Test_Mapper0(t *testing.T) {
	t.Run("NROM-256 is not mirrored", func(t *testing.T) {
		cart, err := NewCart(patternedBanks(2, prgBankSizeBytes), nil, 0, MirrorHorizontal)
		require.NoError(t, err)

		lo, _ := cart.CPURead(0x8000)
		hi, _ := cart.CPURead(0xC000)
		assert.Equal(t, uint8(0), lo)
		assert.Equal(t, uint8(1), hi)
	})

	t.Run("PRG and CHR are read-only", func(t *testing.T) {
		cart, err := NewCart(make([]uint8, prgBankSizeBytes), make([]uint8, chrBankSizeBytes), 0, MirrorHorizontal)
		require.NoError(t, err)

		assert.False(t, cart.CPUWrite(0x8000, 0x12))
		assert.False(t, cart.PPUWrite(0x0000, 0x12))
		data, _ := cart.CPURead(0x8000)
		assert.Zero(t, data)
	})

	t.Run("below $8000 is not claimed", func(t *testing.T) {
		cart, err := NewCart(make([]uint8, prgBankSizeBytes), nil, 0, MirrorHorizontal)
		require.NoError(t, err)

		_, ok := cart.CPURead(0x6000)
		assert.False(t, ok)
		_, ok = cart.PPURead(0x2000)
		assert.False(t, ok)
	})
}

// writeMMC1 loads a 5-bit value into the register selected by addr.
func writeMMC1(m *Mapper1, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		m.CPUMapWrite(addr, (value>>i)&0x01)
	}
}

func Test_Mapper1_SerialPort(t *testing.T) {
	var mirrors []Mirror
	m := NewMapper1(4, 2, func(mirror Mirror) { mirrors = append(mirrors, mirror) })
	require.Equal(t, []Mirror{MirrorSingleLow}, mirrors, "power-up mirroring")

	value := uint8(0x1E)
	for i := 0; i < 4; i++ {
		m.CPUMapWrite(0x8000, (value>>i)&0x01)
		assert.Equal(t, uint8(0x0C), m.control, "write %d must not commit", i+1)
	}
	m.CPUMapWrite(0x8000, (value>>4)&0x01)

	assert.Equal(t, value, m.control)
	assert.Zero(t, m.shiftCount)
	assert.Zero(t, m.shift)
	assert.Equal(t, []Mirror{MirrorSingleLow, MirrorVertical}, mirrors)
}

func Test_Mapper1_ResetBit(t *testing.T) {
	m := NewMapper1(4, 2, nil)
	writeMMC1(m, 0x8000, 0x00)
	m.CPUMapWrite(0x8000, 0x01)
	m.CPUMapWrite(0x8000, 0x01)

	m.CPUMapWrite(0x8000, 0x80)

	assert.Zero(t, m.shiftCount)
	assert.Equal(t, uint8(0x0C), m.control&0x0C)
}

func Test_Mapper1_PRGBanking(t *testing.T) {
	cart, err := NewCart(patternedBanks(4, prgBankSizeBytes), nil, 1, MirrorHorizontal)
	require.NoError(t, err)
	m := cart.mapper.(*Mapper1)

	read := func(addr uint16) uint8 {
		data, ok := cart.CPURead(addr)
		require.True(t, ok)
		return data
	}

	// mode 3: switch $8000, last bank fixed at $C000
	writeMMC1(m, 0xE000, 2)
	assert.Equal(t, uint8(2), read(0x8000))
	assert.Equal(t, uint8(3), read(0xC000))

	// mode 2: first bank fixed at $8000, switch $C000
	writeMMC1(m, 0x8000, 0x08)
	writeMMC1(m, 0xE000, 1)
	assert.Equal(t, uint8(0), read(0x8000))
	assert.Equal(t, uint8(1), read(0xC000))

	// mode 0: 32 KB, low bit of the bank ignored
	writeMMC1(m, 0x8000, 0x00)
	writeMMC1(m, 0xE000, 3)
	assert.Equal(t, uint8(2), read(0x8000))
	assert.Equal(t, uint8(3), read(0xC000))
}

func Test_Mapper1_CHRBanking(t *testing.T) {
	cart, err := NewCart(make([]uint8, prgBankSizeBytes), patternedBanks(4, 0x1000), 1, MirrorHorizontal)
	require.NoError(t, err)
	m := cart.mapper.(*Mapper1)

	read := func(addr uint16) uint8 {
		data, ok := cart.PPURead(addr)
		require.True(t, ok)
		return data
	}

	// 8 KB mode selects pairs of 4 KB banks
	writeMMC1(m, 0xA000, 3)
	assert.Equal(t, uint8(2), read(0x0000))
	assert.Equal(t, uint8(3), read(0x1000))

	// 4 KB mode
	writeMMC1(m, 0x8000, 0x1C)
	writeMMC1(m, 0xA000, 3)
	writeMMC1(m, 0xC000, 1)
	assert.Equal(t, uint8(3), read(0x0000))
	assert.Equal(t, uint8(1), read(0x1000))
}

func Test_Mapper1_RAM(t *testing.T) {
	cart, err := NewCart(make([]uint8, prgBankSizeBytes), nil, 1, MirrorHorizontal)
	require.NoError(t, err)

	assert.True(t, cart.CPUWrite(0x6010, 0x77))
	data, ok := cart.CPURead(0x6010)
	require.True(t, ok)
	assert.Equal(t, uint8(0x77), data)

	assert.True(t, cart.PPUWrite(0x1234, 0x99), "CHR-RAM is writable")
	data, _ = cart.PPURead(0x1234)
	assert.Equal(t, uint8(0x99), data)
}

func Test_Mapper1_MirroringReachesCart(t *testing.T) {
	cart, err := NewCart(make([]uint8, prgBankSizeBytes), nil, 1, MirrorVertical)
	require.NoError(t, err)
	assert.Equal(t, MirrorSingleLow, cart.Mirror())

	writeMMC1(cart.mapper.(*Mapper1), 0x8000, 0x0F)
	assert.Equal(t, MirrorHorizontal, cart.Mirror())
}

func Test_Mirror_NameTable(t *testing.T) {
	tests := []struct {
		mirror Mirror
		tables [4]int
	}{
		{MirrorHorizontal, [4]int{0, 0, 1, 1}},
		{MirrorVertical, [4]int{0, 1, 0, 1}},
		{MirrorSingleLow, [4]int{0, 0, 0, 0}},
		{MirrorSingleHigh, [4]int{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.mirror.String(), func(t *testing.T) {
			for i, want := range tt.tables {
				table, offset := tt.mirror.nameTable(0x2000 + uint16(i)*0x400 + 0x15)
				assert.Equal(t, want, table, "logical table %d", i)
				assert.Equal(t, uint16(0x15), offset)
			}
			// $3000-$3EFF mirrors $2000-$2EFF
			table, _ := tt.mirror.nameTable(0x3400)
			assert.Equal(t, tt.tables[1], table)
		})
	}
}
