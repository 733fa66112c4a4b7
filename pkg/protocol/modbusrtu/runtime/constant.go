package runtime

import (
	"errors"
	"fmt"
)

// Faults reported by a Client. Drivers wrap the library error with one of these
// so callers can classify it with errors.Is.
var (
	ErrUnauthorized       = errors.New("serial port access denied")
	ErrNullArgument       = errors.New("argument is missing")
	ErrArgumentOutOfRange = errors.New("argument out of range")
	ErrMalformedArgument  = errors.New("malformed argument")
	ErrInvalidFormat      = errors.New("invalid value format")
	ErrOverflow           = errors.New("numeric overflow")
	ErrInvalidCast        = errors.New("invalid type cast")
	ErrInvalidOperation   = errors.New("invalid operation for the current state")
	ErrIO                 = errors.New("serial line i/o failure")
	ErrTimeout            = errors.New("serial transaction timed out")
	ErrNotConnected       = fmt.Errorf("serial port not open: %w", ErrInvalidOperation)
)

// Modbus exception codes
const (
	ExceptionIllegalFunction         uint8 = 0x01
	ExceptionIllegalDataAddress      uint8 = 0x02
	ExceptionIllegalDataValue        uint8 = 0x03
	ExceptionServerDeviceFailure     uint8 = 0x04
	ExceptionAcknowledge             uint8 = 0x05
	ExceptionServerDeviceBusy        uint8 = 0x06
	ExceptionMemoryParityError       uint8 = 0x08
	ExceptionGatewayPathUnavailable  uint8 = 0x0A
	ExceptionGatewayTargetNoResponse uint8 = 0x0B
)

var ExceptionToString = map[uint8]string{
	ExceptionIllegalFunction:         "illegal function",
	ExceptionIllegalDataAddress:      "illegal data address",
	ExceptionIllegalDataValue:        "illegal data value",
	ExceptionServerDeviceFailure:     "server device failure",
	ExceptionAcknowledge:             "acknowledge",
	ExceptionServerDeviceBusy:        "server device busy",
	ExceptionMemoryParityError:       "memory parity error",
	ExceptionGatewayPathUnavailable:  "gateway path unavailable",
	ExceptionGatewayTargetNoResponse: "gateway target device failed to respond",
}

// SlaveError is an exception response sent back by the addressed slave.
type SlaveError struct {
	Code uint8
	Err  error
}

func (e *SlaveError) Error() string {
	s, ok := ExceptionToString[e.Code]
	if !ok {
		s = "unknown exception"
	}
	return fmt.Sprintf("slave exception 0x%02X (%s)", e.Code, s)
}

func (e *SlaveError) Unwrap() error {
	return e.Err
}

// Modbus PDU limits
const (
	MaxReadBits       = 2000
	MaxReadRegisters  = 125
	MaxWriteBits      = 1968
	MaxWriteRegisters = 123
)
