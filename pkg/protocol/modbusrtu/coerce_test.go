package modbusrtu

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestToUnsigned(t *testing.T) {
	tests := []struct {
		value interface{}
		bits  int
		want  uint64
		ok    bool
	}{
		{float64(65535), 16, 65535, true},
		{float64(65536), 16, 0, false},
		{float64(-1), 16, 0, false},
		{1.5, 32, 0, false},
		{"0x10", 16, 16, true},
		{" 42 ", 8, 42, true},
		{"256", 8, 0, false},
		{json.Number("4294967295"), 32, math.MaxUint32, true},
		{json.Number("18446744073709551615"), 64, math.MaxUint64, true},
		{json.Number("18446744073709551616"), 64, 0, false},
		{json.Number("3.0"), 16, 3, true},
		{json.Number("1e3"), 16, 1000, true},
		{json.Number("0.5"), 16, 0, false},
		{uint64(math.MaxUint64), 64, math.MaxUint64, true},
		{uint64(256), 8, 0, false},
		{int(7), 16, 7, true},
		{int(-7), 16, 0, false},
		{int64(70000), 16, 0, false},
		{true, 16, 0, false},
		{nil, 16, 0, false},
		{[]int{1}, 16, 0, false},
	}
	for _, tt := range tests {
		got, err := toUnsigned(tt.value, tt.bits)
		if !tt.ok {
			assert.Error(t, err, "%#v", tt.value)
			continue
		}
		require.NoError(t, err, "%#v", tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func TestToSigned(t *testing.T) {
	tests := []struct {
		value interface{}
		bits  int
		want  int64
		ok    bool
	}{
		{float64(-32768), 16, -32768, true},
		{float64(32767), 16, 32767, true},
		{float64(32768), 16, 0, false},
		{float64(-32769), 16, 0, false},
		{"-0x10", 16, -16, true},
		{"-9223372036854775808", 64, math.MinInt64, true},
		{uint64(math.MaxInt32), 32, math.MaxInt32, true},
		{uint64(math.MaxInt32 + 1), 32, 0, false},
		{int8(-3), 8, -3, true},
		{int64(-129), 8, 0, false},
		{false, 16, 0, false},
		{"1e3", 16, 0, false},
		{json.Number("9007199254740993"), 64, 9007199254740993, true},
		{json.Number("-9223372036854775808"), 64, math.MinInt64, true},
		{json.Number("-1e3"), 16, -1000, true},
		{json.Number("32768"), 16, 0, false},
	}
	for _, tt := range tests {
		got, err := toSigned(tt.value, tt.bits)
		if !tt.ok {
			assert.Error(t, err, "%#v", tt.value)
			continue
		}
		require.NoError(t, err, "%#v", tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func TestToFloat(t *testing.T) {
	f, err := toFloat64("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = toFloat64(int(3))
	require.NoError(t, err)
	assert.Equal(t, float64(3), f)

	_, err = toFloat64(true)
	assert.Error(t, err)
	_, err = toFloat64("abc")
	assert.Error(t, err)
	f, err = toFloat64(json.Number("-2.25"))
	require.NoError(t, err)
	assert.Equal(t, -2.25, f)

	f32, err := toFloat32(float64(math.MaxFloat32))
	require.NoError(t, err)
	assert.Equal(t, float32(math.MaxFloat32), f32)
	_, err = toFloat32(math.MaxFloat64)
	assert.Error(t, err)
	f32, err = toFloat32(math.Inf(-1))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(f32), -1))
}

func TestToBoolAndText(t *testing.T) {
	tests := []struct {
		value interface{}
		want  bool
		ok    bool
	}{
		{true, true, true},
		{"true", true, true},
		{" FALSE ", false, true},
		{"1", true, true},
		{float64(0), false, true},
		{float64(1), true, true},
		{json.Number("1"), true, true},
		{int(0), false, true},
		{float64(2), false, false},
		{0.5, false, false},
		{json.Number("2"), false, false},
		{"yes", false, false},
		{"t", false, false},
		{"maybe", false, false},
		{nil, false, false},
	}
	for _, tt := range tests {
		got, err := toBool(tt.value)
		if !tt.ok {
			assert.Error(t, err, "%#v", tt.value)
			continue
		}
		require.NoError(t, err, "%#v", tt.value)
		assert.Equal(t, tt.want, got, "%#v", tt.value)
	}

	s, err := toText(float64(12))
	require.NoError(t, err)
	assert.Equal(t, "12", s)
	s, err = toText(json.Number("12345678901234567890"))
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", s)
	_, err = toText(nil)
	assert.Error(t, err)
}

func TestEach(t *testing.T) {
	values, err := each([]interface{}{float64(1), "2"}, unsigned(16))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, values)

	_, err = each([]interface{}{float64(1), "x"}, unsigned(16))
	assert.EqualError(t, err, `values[1]: "x" is not a uint16`)
}
