package binutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Registers 字节转寄存器, two bytes per register
func Registers(buf []byte, littleEndian bool) []uint16 {
	regs := make([]uint16, len(buf)/2)
	for i := range regs {
		if littleEndian {
			regs[i] = binary.LittleEndian.Uint16(buf[i*2:])
		} else {
			regs[i] = binary.BigEndian.Uint16(buf[i*2:])
		}
	}
	return regs
}

// RegisterBytes 寄存器转字节
func RegisterBytes(regs []uint16, littleEndian bool) []byte {
	buf := make([]byte, len(regs)*2)
	for i, r := range regs {
		if littleEndian {
			binary.LittleEndian.PutUint16(buf[i*2:], r)
		} else {
			binary.BigEndian.PutUint16(buf[i*2:], r)
		}
	}
	return buf
}

// JoinWords assembles len(words) registers into one value.
// ABCD/BADC keep the high word first, CDAB/DCBA the low word first.
func JoinWords(words []uint16, lowWordFirst bool) uint64 {
	var v uint64
	n := len(words)
	for i := 0; i < n; i++ {
		w := words[i]
		if lowWordFirst {
			w = words[n-1-i]
		}
		v = v<<16 | uint64(w)
	}
	return v
}

// SplitWords is the inverse of JoinWords.
func SplitWords(v uint64, n int, lowWordFirst bool) []uint16 {
	words := make([]uint16, n)
	for i := n - 1; i >= 0; i-- {
		w := uint16(v)
		v >>= 16
		if lowWordFirst {
			words[n-1-i] = w
		} else {
			words[i] = w
		}
	}
	return words
}

func Uint32s(regs []uint16, lowWordFirst bool) []uint32 {
	values := make([]uint32, len(regs)/2)
	for i := range values {
		values[i] = uint32(JoinWords(regs[i*2:i*2+2], lowWordFirst))
	}
	return values
}

func Uint64s(regs []uint16, lowWordFirst bool) []uint64 {
	values := make([]uint64, len(regs)/4)
	for i := range values {
		values[i] = JoinWords(regs[i*4:i*4+4], lowWordFirst)
	}
	return values
}

func Float32s(regs []uint16, lowWordFirst bool) []float32 {
	raw := Uint32s(regs, lowWordFirst)
	values := make([]float32, len(raw))
	for i, v := range raw {
		values[i] = math.Float32frombits(v)
	}
	return values
}

func Float64s(regs []uint16, lowWordFirst bool) []float64 {
	raw := Uint64s(regs, lowWordFirst)
	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = math.Float64frombits(v)
	}
	return values
}

func Uint32Words(values []uint32, lowWordFirst bool) []uint16 {
	regs := make([]uint16, 0, len(values)*2)
	for _, v := range values {
		regs = append(regs, SplitWords(uint64(v), 2, lowWordFirst)...)
	}
	return regs
}

func Uint64Words(values []uint64, lowWordFirst bool) []uint16 {
	regs := make([]uint16, 0, len(values)*4)
	for _, v := range values {
		regs = append(regs, SplitWords(v, 4, lowWordFirst)...)
	}
	return regs
}

func Float32Words(values []float32, lowWordFirst bool) []uint16 {
	raw := make([]uint32, len(values))
	for i, v := range values {
		raw[i] = math.Float32bits(v)
	}
	return Uint32Words(raw, lowWordFirst)
}

func Float64Words(values []float64, lowWordFirst bool) []uint16 {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = math.Float64bits(v)
	}
	return Uint64Words(raw, lowWordFirst)
}

// PackBits 压缩布尔类型, bit 0 of byte 0 first
func PackBits(values []bool) []byte {
	length := len(values)
	ln := length >> 3
	if length&0x07 > 0 {
		ln++
	}

	b := make([]byte, ln)
	for i, v := range values {
		if v {
			b[i>>3] |= 1 << (i & 0x07)
		}
	}
	return b
}

// UnpackBits 展开布尔类型
func UnpackBits(buf []byte, count int) []bool {
	if max := len(buf) << 3; count > max {
		count = max
	}
	values := make([]bool, count)
	for i := 0; i < count; i++ {
		values[i] = buf[i>>3]&(1<<(i&0x07)) > 0
	}
	return values
}

// BitString renders a register as sixteen '0'/'1' digits, bit 0 first.
func BitString(v uint16) string {
	var sb strings.Builder
	sb.Grow(16)
	for i := 0; i < 16; i++ {
		if v&(1<<i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBitString reads up to sixteen '0'/'1' digits, bit 0 first.
func ParseBitString(s string) (uint16, error) {
	if len(s) == 0 || len(s) > 16 {
		return 0, fmt.Errorf("bit string %q must have 1 to 16 digits", s)
	}
	var v uint16
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			v |= 1 << i
		case '0':
		default:
			return 0, fmt.Errorf("bit string %q contains %q", s, s[i])
		}
	}
	return v, nil
}

// Dup 复制
func Dup(buf []byte) []byte {
	b := make([]byte, len(buf))
	copy(b, buf)
	return b
}
