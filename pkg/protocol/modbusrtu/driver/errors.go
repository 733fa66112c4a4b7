package driver

import (
	"fmt"
	gbmodbus "github.com/goburrow/modbus"
	gbserial "github.com/goburrow/serial"
	"github.com/pkg/errors"
	"github.com/simonvetter/modbus"
	"io"
	"os"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"strings"
)

var exceptionCodes = map[error]uint8{
	modbus.ErrIllegalFunction:         modbusrturuntime.ExceptionIllegalFunction,
	modbus.ErrIllegalDataAddress:      modbusrturuntime.ExceptionIllegalDataAddress,
	modbus.ErrIllegalDataValue:        modbusrturuntime.ExceptionIllegalDataValue,
	modbus.ErrServerDeviceFailure:     modbusrturuntime.ExceptionServerDeviceFailure,
	modbus.ErrAcknowledge:             modbusrturuntime.ExceptionAcknowledge,
	modbus.ErrServerDeviceBusy:        modbusrturuntime.ExceptionServerDeviceBusy,
	modbus.ErrMemoryParityError:       modbusrturuntime.ExceptionMemoryParityError,
	modbus.ErrGWPathUnavailable:       modbusrturuntime.ExceptionGatewayPathUnavailable,
	modbus.ErrGWTargetFailedToRespond: modbusrturuntime.ExceptionGatewayTargetNoResponse,
}

var transportErrors = []error{
	modbus.ErrBadCRC,
	modbus.ErrShortFrame,
	modbus.ErrProtocolError,
	modbus.ErrBadUnitId,
	modbus.ErrBadTransactionId,
	modbus.ErrUnknownProtocolId,
	io.EOF,
	io.ErrUnexpectedEOF,
	io.ErrClosedPipe,
	os.ErrClosed,
}

// translate maps an error of either modbus library onto the runtime sentinels
// so the dispatcher can classify it. The library message is kept.
func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(format, args...)

	var modbusErr *gbmodbus.ModbusError
	if errors.As(err, &modbusErr) {
		return &modbusrturuntime.SlaveError{Code: modbusErr.ExceptionCode, Err: errors.Wrap(err, context)}
	}
	for sentinel, code := range exceptionCodes {
		if errors.Is(err, sentinel) {
			return &modbusrturuntime.SlaveError{Code: code, Err: errors.Wrap(err, context)}
		}
	}

	if kind := kindOf(err); kind != nil {
		return errors.Wrapf(kind, "%s: %v", context, err)
	}
	return errors.Wrap(err, context)
}

func kindOf(err error) error {
	if isTimeout(err) {
		return modbusrturuntime.ErrTimeout
	}
	switch {
	case errors.Is(err, os.ErrPermission):
		return modbusrturuntime.ErrUnauthorized
	case errors.Is(err, modbus.ErrUnexpectedParameters):
		return modbusrturuntime.ErrArgumentOutOfRange
	case errors.Is(err, modbus.ErrConfigurationError):
		return modbusrturuntime.ErrInvalidOperation
	}
	for _, sentinel := range transportErrors {
		if errors.Is(err, sentinel) {
			return modbusrturuntime.ErrIO
		}
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) || strings.HasPrefix(err.Error(), "modbus:") || strings.HasPrefix(err.Error(), "serial:") {
		return modbusrturuntime.ErrIO
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, modbus.ErrRequestTimedOut) || errors.Is(err, gbserial.ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
