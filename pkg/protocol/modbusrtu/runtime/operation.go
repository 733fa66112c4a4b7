package runtime

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type OperationSelector int16

const (
	// 线圈 离散输入 原始寄存器
	ReadCoil OperationSelector = iota + 1
	ReadCoils
	ReadDiscreteInput
	ReadDiscreteInputs
	ReadHoldingRegister
	ReadHoldingRegisters
	ReadInputRegister
	ReadInputRegisters

	// 保持寄存器
	ReadString
	ReadHexString
	ReadBool
	ReadBits
	ReadShort
	ReadUShort
	ReadInt32
	ReadUInt32
	ReadFloat
	ReadDouble
	ReadLong
	ReadULong
	ReadShortArray
	ReadUShortArray
	ReadInt32Array
	ReadUInt32Array
	ReadFloatArray
	ReadDoubleArray
	ReadLongArray
	ReadULongArray

	// 输入寄存器
	ReadOnlyString
	ReadOnlyHexString
	ReadOnlyBool
	ReadOnlyBits
	ReadOnlyShort
	ReadOnlyUShort
	ReadOnlyInt32
	ReadOnlyUInt32
	ReadOnlyFloat
	ReadOnlyDouble
	ReadOnlyLong
	ReadOnlyULong
	ReadOnlyShortArray
	ReadOnlyUShortArray
	ReadOnlyInt32Array
	ReadOnlyUInt32Array
	ReadOnlyFloatArray
	ReadOnlyDoubleArray
	ReadOnlyLongArray
	ReadOnlyULongArray
)

const (
	WriteCoil OperationSelector = iota + 101
	WriteHoldingRegister
	WriteString
	WriteHexString
	WriteBool
	WriteBits
	WriteShort
	WriteUShort
	WriteInt32
	WriteUInt32
	WriteFloat
	WriteDouble
	WriteLong
	WriteULong
)

const (
	WriteCoils OperationSelector = iota + 201
	WriteHoldingRegisters
	WriteBoolArray
	WriteByteArray
	WriteShortArray
	WriteUShortArray
	WriteInt32Array
	WriteUInt32Array
	WriteFloatArray
	WriteDoubleArray
	WriteLongArray
	WriteULongArray
)

var OperationSelectorToString = map[OperationSelector]string{
	ReadCoil:             "ReadCoil",
	ReadCoils:            "ReadCoils",
	ReadDiscreteInput:    "ReadDiscreteInput",
	ReadDiscreteInputs:   "ReadDiscreteInputs",
	ReadHoldingRegister:  "ReadHoldingRegister",
	ReadHoldingRegisters: "ReadHoldingRegisters",
	ReadInputRegister:    "ReadInputRegister",
	ReadInputRegisters:   "ReadInputRegisters",

	ReadString:      "ReadString",
	ReadHexString:   "ReadHexString",
	ReadBool:        "ReadBool",
	ReadBits:        "ReadBits",
	ReadShort:       "ReadShort",
	ReadUShort:      "ReadUShort",
	ReadInt32:       "ReadInt32",
	ReadUInt32:      "ReadUInt32",
	ReadFloat:       "ReadFloat",
	ReadDouble:      "ReadDouble",
	ReadLong:        "ReadLong",
	ReadULong:       "ReadULong",
	ReadShortArray:  "ReadShortArray",
	ReadUShortArray: "ReadUShortArray",
	ReadInt32Array:  "ReadInt32Array",
	ReadUInt32Array: "ReadUInt32Array",
	ReadFloatArray:  "ReadFloatArray",
	ReadDoubleArray: "ReadDoubleArray",
	ReadLongArray:   "ReadLongArray",
	ReadULongArray:  "ReadULongArray",

	ReadOnlyString:      "ReadOnlyString",
	ReadOnlyHexString:   "ReadOnlyHexString",
	ReadOnlyBool:        "ReadOnlyBool",
	ReadOnlyBits:        "ReadOnlyBits",
	ReadOnlyShort:       "ReadOnlyShort",
	ReadOnlyUShort:      "ReadOnlyUShort",
	ReadOnlyInt32:       "ReadOnlyInt32",
	ReadOnlyUInt32:      "ReadOnlyUInt32",
	ReadOnlyFloat:       "ReadOnlyFloat",
	ReadOnlyDouble:      "ReadOnlyDouble",
	ReadOnlyLong:        "ReadOnlyLong",
	ReadOnlyULong:       "ReadOnlyULong",
	ReadOnlyShortArray:  "ReadOnlyShortArray",
	ReadOnlyUShortArray: "ReadOnlyUShortArray",
	ReadOnlyInt32Array:  "ReadOnlyInt32Array",
	ReadOnlyUInt32Array: "ReadOnlyUInt32Array",
	ReadOnlyFloatArray:  "ReadOnlyFloatArray",
	ReadOnlyDoubleArray: "ReadOnlyDoubleArray",
	ReadOnlyLongArray:   "ReadOnlyLongArray",
	ReadOnlyULongArray:  "ReadOnlyULongArray",

	WriteCoil:            "WriteCoil",
	WriteHoldingRegister: "WriteHoldingRegister",
	WriteString:          "WriteString",
	WriteHexString:       "WriteHexString",
	WriteBool:            "WriteBool",
	WriteBits:            "WriteBits",
	WriteShort:           "WriteShort",
	WriteUShort:          "WriteUShort",
	WriteInt32:           "WriteInt32",
	WriteUInt32:          "WriteUInt32",
	WriteFloat:           "WriteFloat",
	WriteDouble:          "WriteDouble",
	WriteLong:            "WriteLong",
	WriteULong:           "WriteULong",

	WriteCoils:            "WriteCoils",
	WriteHoldingRegisters: "WriteHoldingRegisters",
	WriteBoolArray:        "WriteBoolArray",
	WriteByteArray:        "WriteByteArray",
	WriteShortArray:       "WriteShortArray",
	WriteUShortArray:      "WriteUShortArray",
	WriteInt32Array:       "WriteInt32Array",
	WriteUInt32Array:      "WriteUInt32Array",
	WriteFloatArray:       "WriteFloatArray",
	WriteDoubleArray:      "WriteDoubleArray",
	WriteLongArray:        "WriteLongArray",
	WriteULongArray:       "WriteULongArray",
}

var StringToOperationSelector = func() map[string]OperationSelector {
	m := make(map[string]OperationSelector, len(OperationSelectorToString))
	for op, s := range OperationSelectorToString {
		m[s] = op
	}
	return m
}()

// ParseOperationSelector accepts the selector name with or without the "Async"
// suffix used by older clients.
func ParseOperationSelector(s string) (OperationSelector, error) {
	if op, ok := StringToOperationSelector[strings.TrimSuffix(s, "Async")]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

func (op OperationSelector) String() string {
	if s, ok := OperationSelectorToString[op]; ok {
		return s
	}
	return fmt.Sprintf("OperationSelector(%d)", int16(op))
}

func (op OperationSelector) IsRead() bool {
	return op >= ReadCoil && op <= ReadOnlyULongArray
}

func (op OperationSelector) IsSingleWrite() bool {
	return op >= WriteCoil && op <= WriteULong
}

func (op OperationSelector) IsArrayWrite() bool {
	return op >= WriteCoils && op <= WriteULongArray
}

// Operations lists every known selector name in lexical order.
func Operations() []string {
	names := make([]string, 0, len(OperationSelectorToString))
	for _, s := range OperationSelectorToString {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func (op OperationSelector) MarshalJSON() ([]byte, error) {
	if s, ok := OperationSelectorToString[op]; ok {
		return json.Marshal(s)
	}
	return nil, fmt.Errorf("unknown operation %d", op)
}

func (op *OperationSelector) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}

	v, err := ParseOperationSelector(s)
	if err != nil {
		return err
	}
	*op = v
	return nil
}
