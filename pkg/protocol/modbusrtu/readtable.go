package modbusrtu

import (
	"encoding/hex"
	"fmt"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/utils/binutil"
	"strings"
)

type readFunc func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest) (interface{}, error)

// reader describes one read selector. width is the number of registers (or
// bits, for coils and discrete inputs) one element occupies.
type reader struct {
	single bool
	bits   bool
	width  int
	read   readFunc
}

func (r reader) validate(req *modbusrturuntime.ModbusRequest) error {
	if r.single {
		return nil
	}
	if req.Count == 0 {
		return fmt.Errorf("count must be at least 1: %w", modbusrturuntime.ErrArgumentOutOfRange)
	}
	limit := modbusrturuntime.MaxReadRegisters
	if r.bits {
		limit = modbusrturuntime.MaxReadBits
	}
	if int(req.Count)*r.width > limit {
		return fmt.Errorf("count %d exceeds %d per request: %w", req.Count, limit/r.width, modbusrturuntime.ErrArgumentOutOfRange)
	}
	return nil
}

type sliceRead[T any] func(client modbusrturuntime.Client, slave uint8, offset, count uint16) ([]T, error)

// on binds a register read to one table.
func on[T any](table modbusrturuntime.Table, fn func(modbusrturuntime.Client, uint8, modbusrturuntime.Table, uint16, uint16) ([]T, error)) sliceRead[T] {
	return func(client modbusrturuntime.Client, slave uint8, offset, count uint16) ([]T, error) {
		return fn(client, slave, table, offset, count)
	}
}

func convert[T, U any](fn sliceRead[T], conv func(T) U) sliceRead[U] {
	return func(client modbusrturuntime.Client, slave uint8, offset, count uint16) ([]U, error) {
		values, err := fn(client, slave, offset, count)
		if err != nil {
			return nil, err
		}
		out := make([]U, len(values))
		for i, v := range values {
			out[i] = conv(v)
		}
		return out, nil
	}
}

func scalar[T any](width int, fn sliceRead[T]) reader {
	return reader{
		single: true,
		width:  width,
		read: func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest) (interface{}, error) {
			values, err := fn(client, req.SlaveID, req.Offset, 1)
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				return nil, fmt.Errorf("slave %d returned no value: %w", req.SlaveID, modbusrturuntime.ErrIO)
			}
			return &modbusrturuntime.ModbusResponse[T]{Request: req, Value: values[0]}, nil
		},
	}
}

func array[T any](width int, fn sliceRead[T]) reader {
	return reader{
		width: width,
		read: func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest) (interface{}, error) {
			values, err := fn(client, req.SlaveID, req.Offset, req.Count)
			if err != nil {
				return nil, err
			}
			if len(values) != int(req.Count) {
				return nil, fmt.Errorf("slave %d returned %d values, want %d: %w", req.SlaveID, len(values), req.Count, modbusrturuntime.ErrIO)
			}
			return &modbusrturuntime.ModbusArrayResponse[T]{Request: req, Values: values}, nil
		},
	}
}

func coil(r reader) reader {
	r.bits = true
	return r
}

// text reads Count registers as 2*Count bytes and renders them.
func text(table modbusrturuntime.Table, render func([]byte) string) reader {
	return reader{
		width: 1,
		read: func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest) (interface{}, error) {
			buf, err := client.ReadBytes(req.SlaveID, table, req.Offset, req.Count*2)
			if err != nil {
				return nil, err
			}
			return &modbusrturuntime.ModbusStringResponse{Request: req, Value: render(buf)}, nil
		},
	}
}

// bitString reads one register as sixteen digits, bit 0 first.
func bitString(table modbusrturuntime.Table) reader {
	return reader{
		single: true,
		width:  1,
		read: func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest) (interface{}, error) {
			regs, err := client.ReadRegisters(req.SlaveID, table, req.Offset, 1)
			if err != nil {
				return nil, err
			}
			if len(regs) == 0 {
				return nil, fmt.Errorf("slave %d returned no register: %w", req.SlaveID, modbusrturuntime.ErrIO)
			}
			return &modbusrturuntime.ModbusStringResponse{Request: req, Value: binutil.BitString(regs[0])}, nil
		},
	}
}

func asciiText(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00")
}

func hexText(buf []byte) string {
	return strings.ToUpper(hex.EncodeToString(buf))
}

func nonZero(v uint16) bool {
	return v != 0
}

// typedReads names the typed selectors served by one register table.
type typedReads struct {
	String, HexString, Bool, Bits                            modbusrturuntime.OperationSelector
	Short, UShort, Int32, UInt32, Float, Double, Long, ULong modbusrturuntime.OperationSelector
	ShortArray, UShortArray, Int32Array, UInt32Array         modbusrturuntime.OperationSelector
	FloatArray, DoubleArray, LongArray, ULongArray           modbusrturuntime.OperationSelector
}

func (s typedReads) install(t map[modbusrturuntime.OperationSelector]reader, table modbusrturuntime.Table) {
	registers := on(table, modbusrturuntime.Client.ReadRegisters)
	int16s := on(table, modbusrturuntime.Client.ReadInt16s)
	int32s := on(table, modbusrturuntime.Client.ReadInt32s)
	uint32s := on(table, modbusrturuntime.Client.ReadUint32s)
	float32s := on(table, modbusrturuntime.Client.ReadFloat32s)
	float64s := on(table, modbusrturuntime.Client.ReadFloat64s)
	int64s := on(table, modbusrturuntime.Client.ReadInt64s)
	uint64s := on(table, modbusrturuntime.Client.ReadUint64s)

	t[s.String] = text(table, asciiText)
	t[s.HexString] = text(table, hexText)
	t[s.Bool] = scalar(1, convert(registers, nonZero))
	t[s.Bits] = bitString(table)

	t[s.Short] = scalar(1, int16s)
	t[s.UShort] = scalar(1, registers)
	t[s.Int32] = scalar(2, int32s)
	t[s.UInt32] = scalar(2, uint32s)
	t[s.Float] = scalar(2, float32s)
	t[s.Double] = scalar(4, float64s)
	t[s.Long] = scalar(4, int64s)
	t[s.ULong] = scalar(4, uint64s)

	t[s.ShortArray] = array(1, int16s)
	t[s.UShortArray] = array(1, registers)
	t[s.Int32Array] = array(2, int32s)
	t[s.UInt32Array] = array(2, uint32s)
	t[s.FloatArray] = array(2, float32s)
	t[s.DoubleArray] = array(4, float64s)
	t[s.LongArray] = array(4, int64s)
	t[s.ULongArray] = array(4, uint64s)
}

var readTable = func() map[modbusrturuntime.OperationSelector]reader {
	holding := on(modbusrturuntime.HoldingRegister, modbusrturuntime.Client.ReadRegisters)
	input := on(modbusrturuntime.InputRegister, modbusrturuntime.Client.ReadRegisters)

	t := map[modbusrturuntime.OperationSelector]reader{
		modbusrturuntime.ReadCoil:             coil(scalar[bool](1, modbusrturuntime.Client.ReadCoils)),
		modbusrturuntime.ReadCoils:            coil(array[bool](1, modbusrturuntime.Client.ReadCoils)),
		modbusrturuntime.ReadDiscreteInput:    coil(scalar[bool](1, modbusrturuntime.Client.ReadDiscreteInputs)),
		modbusrturuntime.ReadDiscreteInputs:   coil(array[bool](1, modbusrturuntime.Client.ReadDiscreteInputs)),
		modbusrturuntime.ReadHoldingRegister:  scalar(1, holding),
		modbusrturuntime.ReadHoldingRegisters: array(1, holding),
		modbusrturuntime.ReadInputRegister:    scalar(1, input),
		modbusrturuntime.ReadInputRegisters:   array(1, input),
	}

	typedReads{
		String: modbusrturuntime.ReadString, HexString: modbusrturuntime.ReadHexString,
		Bool: modbusrturuntime.ReadBool, Bits: modbusrturuntime.ReadBits,
		Short: modbusrturuntime.ReadShort, UShort: modbusrturuntime.ReadUShort,
		Int32: modbusrturuntime.ReadInt32, UInt32: modbusrturuntime.ReadUInt32,
		Float: modbusrturuntime.ReadFloat, Double: modbusrturuntime.ReadDouble,
		Long: modbusrturuntime.ReadLong, ULong: modbusrturuntime.ReadULong,
		ShortArray: modbusrturuntime.ReadShortArray, UShortArray: modbusrturuntime.ReadUShortArray,
		Int32Array: modbusrturuntime.ReadInt32Array, UInt32Array: modbusrturuntime.ReadUInt32Array,
		FloatArray: modbusrturuntime.ReadFloatArray, DoubleArray: modbusrturuntime.ReadDoubleArray,
		LongArray: modbusrturuntime.ReadLongArray, ULongArray: modbusrturuntime.ReadULongArray,
	}.install(t, modbusrturuntime.HoldingRegister)

	typedReads{
		String: modbusrturuntime.ReadOnlyString, HexString: modbusrturuntime.ReadOnlyHexString,
		Bool: modbusrturuntime.ReadOnlyBool, Bits: modbusrturuntime.ReadOnlyBits,
		Short: modbusrturuntime.ReadOnlyShort, UShort: modbusrturuntime.ReadOnlyUShort,
		Int32: modbusrturuntime.ReadOnlyInt32, UInt32: modbusrturuntime.ReadOnlyUInt32,
		Float: modbusrturuntime.ReadOnlyFloat, Double: modbusrturuntime.ReadOnlyDouble,
		Long: modbusrturuntime.ReadOnlyLong, ULong: modbusrturuntime.ReadOnlyULong,
		ShortArray: modbusrturuntime.ReadOnlyShortArray, UShortArray: modbusrturuntime.ReadOnlyUShortArray,
		Int32Array: modbusrturuntime.ReadOnlyInt32Array, UInt32Array: modbusrturuntime.ReadOnlyUInt32Array,
		FloatArray: modbusrturuntime.ReadOnlyFloatArray, DoubleArray: modbusrturuntime.ReadOnlyDoubleArray,
		LongArray: modbusrturuntime.ReadOnlyLongArray, ULongArray: modbusrturuntime.ReadOnlyULongArray,
	}.install(t, modbusrturuntime.InputRegister)

	return t
}()
