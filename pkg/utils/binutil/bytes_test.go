package binutil

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRegisters(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}
	assert.Equal(t, []uint16{0x1234, 0x5678}, Registers(buf, false))
	assert.Equal(t, []uint16{0x3412, 0x7856}, Registers(buf, true))
	assert.Equal(t, buf, RegisterBytes(Registers(buf, true), true))
	assert.Equal(t, buf, RegisterBytes([]uint16{0x1234, 0x5678}, false))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []uint16{0x1234, 0x5678}, SplitWords(0x12345678, 2, false))
	assert.Equal(t, []uint16{0x5678, 0x1234}, SplitWords(0x12345678, 2, true))
	assert.Equal(t, uint64(0x12345678), JoinWords([]uint16{0x1234, 0x5678}, false))
	assert.Equal(t, uint64(0x12345678), JoinWords([]uint16{0x5678, 0x1234}, true))

	words := SplitWords(0x0102030405060708, 4, true)
	assert.Equal(t, []uint16{0x0708, 0x0506, 0x0304, 0x0102}, words)
	assert.Equal(t, uint64(0x0102030405060708), JoinWords(words, true))
}

func TestWideValues(t *testing.T) {
	for _, lowWordFirst := range []bool{false, true} {
		assert.Equal(t, []uint32{0xDEADBEEF, 1}, Uint32s(Uint32Words([]uint32{0xDEADBEEF, 1}, lowWordFirst), lowWordFirst))
		assert.Equal(t, []uint64{1 << 63, 42}, Uint64s(Uint64Words([]uint64{1 << 63, 42}, lowWordFirst), lowWordFirst))
		assert.Equal(t, []float32{3.5, -0.25}, Float32s(Float32Words([]float32{3.5, -0.25}, lowWordFirst), lowWordFirst))
		assert.Equal(t, []float64{-1e10}, Float64s(Float64Words([]float64{-1e10}, lowWordFirst), lowWordFirst))
	}

	// 1.0f is 0x3F800000
	assert.Equal(t, []uint16{0x3F80, 0x0000}, Float32Words([]float32{1}, false))
	assert.Equal(t, []uint16{0x0000, 0x3F80}, Float32Words([]float32{1}, true))
}

func TestBits(t *testing.T) {
	values := []bool{true, false, true, true, false, false, false, false, true}
	packed := PackBits(values)
	assert.Equal(t, []byte{0x0D, 0x01}, packed)
	assert.Equal(t, values, UnpackBits(packed, len(values)))
	assert.Len(t, UnpackBits(packed, 100), 16)
}

func TestBitString(t *testing.T) {
	assert.Equal(t, "1010000000000000", BitString(5))
	assert.Equal(t, "0000000000000001", BitString(0x8000))

	v, err := ParseBitString("101")
	require.NoError(t, err)
	assert.Equal(t, uint16(5), v)

	v, err = ParseBitString(BitString(0xA5C3))
	require.NoError(t, err)
	assert.Equal(t, uint16(0xA5C3), v)

	_, err = ParseBitString("")
	assert.Error(t, err)
	_, err = ParseBitString("12")
	assert.Error(t, err)
	_, err = ParseBitString("00000000000000001")
	assert.Error(t, err)
}
