package modbusrtu

import (
	"encoding/hex"
	"fmt"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/utils/binutil"
	"strings"
)

// sendFunc issues an already coerced write.
type sendFunc func(client modbusrturuntime.Client) error

type singleWriter struct {
	// counted writers size the write by req.Count registers
	counted bool
	prepare func(req modbusrturuntime.ModbusRequest, value interface{}) (sendFunc, error)
}

func (w singleWriter) validate(req *modbusrturuntime.ModbusRequest) error {
	if w.counted && req.Count > modbusrturuntime.MaxWriteRegisters {
		return fmt.Errorf("count %d exceeds %d registers per request: %w", req.Count, modbusrturuntime.MaxWriteRegisters, modbusrturuntime.ErrArgumentOutOfRange)
	}
	return nil
}

type arrayWriter struct {
	// limit is the largest number of elements one request can carry
	limit   int
	prepare func(req modbusrturuntime.ModbusRequest, values []interface{}) (sendFunc, error)
}

func (w arrayWriter) validate(n int) error {
	if n == 0 {
		return fmt.Errorf("values are empty: %w", modbusrturuntime.ErrArgumentOutOfRange)
	}
	if n > w.limit {
		return fmt.Errorf("%d values exceed %d per request: %w", n, w.limit, modbusrturuntime.ErrArgumentOutOfRange)
	}
	return nil
}

func single[T any](conv func(interface{}) (T, error), write func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v T) error) singleWriter {
	return singleWriter{
		prepare: func(req modbusrturuntime.ModbusRequest, value interface{}) (sendFunc, error) {
			v, err := conv(value)
			if err != nil {
				return nil, err
			}
			return func(client modbusrturuntime.Client) error {
				return write(client, req, v)
			}, nil
		},
	}
}

func multiple[T any](limit int, conv func(interface{}) (T, error), write func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []T) error) arrayWriter {
	return arrayWriter{
		limit: limit,
		prepare: func(req modbusrturuntime.ModbusRequest, values []interface{}) (sendFunc, error) {
			v, err := each(values, conv)
			if err != nil {
				return nil, err
			}
			return func(client modbusrturuntime.Client) error {
				return write(client, req, v)
			}, nil
		},
	}
}

func unsigned(bits int) func(interface{}) (uint64, error) {
	return func(value interface{}) (uint64, error) {
		return toUnsigned(value, bits)
	}
}

func signed(bits int) func(interface{}) (int64, error) {
	return func(value interface{}) (int64, error) {
		return toSigned(value, bits)
	}
}

// bitsValue accepts a '0'/'1' digit string (bit 0 first) or a plain number.
func bitsValue(value interface{}) (uint64, error) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if strings.Trim(s, "01") == "" {
			v, err := binutil.ParseBitString(s)
			return uint64(v), err
		}
	}
	return toUnsigned(value, 16)
}

func boolRegister(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// padRegisters zero fills buf up to registers*2 bytes. registers 0 sizes the
// write by the content.
func padRegisters(buf []byte, registers uint16) ([]byte, error) {
	size := int(registers) * 2
	if registers == 0 {
		size = len(buf) + len(buf)%2
	}
	if size == 0 {
		return nil, fmt.Errorf("value is empty")
	}
	if len(buf) > size {
		return nil, fmt.Errorf("%d bytes do not fit in %d registers", len(buf), size/2)
	}
	if size > modbusrturuntime.MaxWriteRegisters*2 {
		return nil, fmt.Errorf("%d bytes exceed %d registers", len(buf), modbusrturuntime.MaxWriteRegisters)
	}
	padded := make([]byte, size)
	copy(padded, buf)
	return padded, nil
}

func prepareText(decode func(string) ([]byte, error)) singleWriter {
	return singleWriter{
		counted: true,
		prepare: func(req modbusrturuntime.ModbusRequest, value interface{}) (sendFunc, error) {
			s, err := toText(value)
			if err != nil {
				return nil, err
			}
			buf, err := decode(s)
			if err != nil {
				return nil, err
			}
			buf, err = padRegisters(buf, req.Count)
			if err != nil {
				return nil, err
			}
			return func(client modbusrturuntime.Client) error {
				return client.WriteBytes(req.SlaveID, req.Offset, buf)
			}, nil
		},
	}
}

func asciiBytes(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return nil, fmt.Errorf("%q is not ASCII", s)
		}
	}
	return []byte(s), nil
}

func hexBytes(s string) ([]byte, error) {
	buf, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not a hex string", s)
	}
	return buf, nil
}

func writeRegister(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint16) error {
	return client.WriteRegister(req.SlaveID, req.Offset, v)
}

func writeRegisters(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []uint16) error {
	return client.WriteRegisters(req.SlaveID, req.Offset, v)
}

var singleWriteTable = map[modbusrturuntime.OperationSelector]singleWriter{
	modbusrturuntime.WriteCoil: single(toBool, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v bool) error {
		return client.WriteCoil(req.SlaveID, req.Offset, v)
	}),
	modbusrturuntime.WriteHoldingRegister: single(unsigned(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint64) error {
		return writeRegister(client, req, uint16(v))
	}),
	modbusrturuntime.WriteString:    prepareText(asciiBytes),
	modbusrturuntime.WriteHexString: prepareText(hexBytes),
	modbusrturuntime.WriteBool: single(toBool, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v bool) error {
		return writeRegister(client, req, boolRegister(v))
	}),
	modbusrturuntime.WriteBits: single(bitsValue, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint64) error {
		return writeRegister(client, req, uint16(v))
	}),
	modbusrturuntime.WriteShort: single(signed(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v int64) error {
		return writeRegister(client, req, uint16(int16(v)))
	}),
	modbusrturuntime.WriteUShort: single(unsigned(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint64) error {
		return writeRegister(client, req, uint16(v))
	}),
	modbusrturuntime.WriteInt32: single(signed(32), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v int64) error {
		return client.WriteUint32s(req.SlaveID, req.Offset, []uint32{uint32(int32(v))})
	}),
	modbusrturuntime.WriteUInt32: single(unsigned(32), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint64) error {
		return client.WriteUint32s(req.SlaveID, req.Offset, []uint32{uint32(v)})
	}),
	modbusrturuntime.WriteFloat: single(toFloat32, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v float32) error {
		return client.WriteFloat32s(req.SlaveID, req.Offset, []float32{v})
	}),
	modbusrturuntime.WriteDouble: single(toFloat64, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v float64) error {
		return client.WriteFloat64s(req.SlaveID, req.Offset, []float64{v})
	}),
	modbusrturuntime.WriteLong: single(signed(64), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v int64) error {
		return client.WriteUint64s(req.SlaveID, req.Offset, []uint64{uint64(v)})
	}),
	modbusrturuntime.WriteULong: single(unsigned(64), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v uint64) error {
		return client.WriteUint64s(req.SlaveID, req.Offset, []uint64{v})
	}),
}

var arrayWriteTable = map[modbusrturuntime.OperationSelector]arrayWriter{
	modbusrturuntime.WriteCoils: multiple(modbusrturuntime.MaxWriteBits, toBool, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []bool) error {
		return client.WriteCoils(req.SlaveID, req.Offset, v)
	}),
	modbusrturuntime.WriteHoldingRegisters: multiple(modbusrturuntime.MaxWriteRegisters, unsigned(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []uint64) error {
		return writeRegisters(client, req, narrow(v, func(x uint64) uint16 { return uint16(x) }))
	}),
	modbusrturuntime.WriteBoolArray: multiple(modbusrturuntime.MaxWriteRegisters, toBool, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []bool) error {
		return writeRegisters(client, req, narrow(v, boolRegister))
	}),
	modbusrturuntime.WriteByteArray: {
		limit: modbusrturuntime.MaxWriteRegisters * 2,
		prepare: func(req modbusrturuntime.ModbusRequest, values []interface{}) (sendFunc, error) {
			// a register holds two bytes and nothing is padded on the caller's behalf
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("%d bytes do not fill whole registers", len(values))
			}
			v, err := each(values, unsigned(8))
			if err != nil {
				return nil, err
			}
			buf := narrow(v, func(x uint64) byte { return byte(x) })
			return func(client modbusrturuntime.Client) error {
				return client.WriteBytes(req.SlaveID, req.Offset, buf)
			}, nil
		},
	},
	modbusrturuntime.WriteShortArray: multiple(modbusrturuntime.MaxWriteRegisters, signed(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []int64) error {
		return writeRegisters(client, req, narrow(v, func(x int64) uint16 { return uint16(int16(x)) }))
	}),
	modbusrturuntime.WriteUShortArray: multiple(modbusrturuntime.MaxWriteRegisters, unsigned(16), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []uint64) error {
		return writeRegisters(client, req, narrow(v, func(x uint64) uint16 { return uint16(x) }))
	}),
	modbusrturuntime.WriteInt32Array: multiple(modbusrturuntime.MaxWriteRegisters/2, signed(32), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []int64) error {
		return client.WriteUint32s(req.SlaveID, req.Offset, narrow(v, func(x int64) uint32 { return uint32(int32(x)) }))
	}),
	modbusrturuntime.WriteUInt32Array: multiple(modbusrturuntime.MaxWriteRegisters/2, unsigned(32), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []uint64) error {
		return client.WriteUint32s(req.SlaveID, req.Offset, narrow(v, func(x uint64) uint32 { return uint32(x) }))
	}),
	modbusrturuntime.WriteFloatArray: multiple(modbusrturuntime.MaxWriteRegisters/2, toFloat32, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []float32) error {
		return client.WriteFloat32s(req.SlaveID, req.Offset, v)
	}),
	modbusrturuntime.WriteDoubleArray: multiple(modbusrturuntime.MaxWriteRegisters/4, toFloat64, func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []float64) error {
		return client.WriteFloat64s(req.SlaveID, req.Offset, v)
	}),
	modbusrturuntime.WriteLongArray: multiple(modbusrturuntime.MaxWriteRegisters/4, signed(64), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []int64) error {
		return client.WriteUint64s(req.SlaveID, req.Offset, narrow(v, func(x int64) uint64 { return uint64(x) }))
	}),
	modbusrturuntime.WriteULongArray: multiple(modbusrturuntime.MaxWriteRegisters/4, unsigned(64), func(client modbusrturuntime.Client, req modbusrturuntime.ModbusRequest, v []uint64) error {
		return client.WriteUint64s(req.SlaveID, req.Offset, v)
	}),
}

func narrow[T, U any](values []T, conv func(T) U) []U {
	out := make([]U, len(values))
	for i, v := range values {
		out[i] = conv(v)
	}
	return out
}
