package driver

import (
	"fmt"
	gbmodbus "github.com/goburrow/modbus"
	gbserial "github.com/goburrow/serial"
	"github.com/pkg/errors"
	"github.com/simonvetter/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/runtime/constant"
	"syscall"
	"testing"
	"time"
)

func TestTranslateSlaveExceptions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code uint8
	}{
		{"goburrow", &gbmodbus.ModbusError{FunctionCode: 0x83, ExceptionCode: 0x02}, modbusrturuntime.ExceptionIllegalDataAddress},
		{"simonvetter", modbus.ErrIllegalDataAddress, modbusrturuntime.ExceptionIllegalDataAddress},
		{"simonvetter busy", modbus.ErrServerDeviceBusy, modbusrturuntime.ExceptionServerDeviceBusy},
		{"simonvetter gateway", modbus.ErrGWTargetFailedToRespond, modbusrturuntime.ExceptionGatewayTargetNoResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "read %d registers", 2)
			var slaveErr *modbusrturuntime.SlaveError
			require.True(t, errors.As(err, &slaveErr), "%v", err)
			assert.Equal(t, tt.code, slaveErr.Code)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslateKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"simonvetter timeout", modbus.ErrRequestTimedOut, modbusrturuntime.ErrTimeout},
		{"goburrow timeout", gbserial.ErrTimeout, modbusrturuntime.ErrTimeout},
		{"deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), modbusrturuntime.ErrTimeout},
		{"permission", &os.PathError{Op: "open", Path: "/dev/ttyS0", Err: syscall.EACCES}, modbusrturuntime.ErrUnauthorized},
		{"missing device", &os.PathError{Op: "open", Path: "/dev/ttyS9", Err: syscall.ENOENT}, modbusrturuntime.ErrIO},
		{"crc", modbus.ErrBadCRC, modbusrturuntime.ErrIO},
		{"short frame", modbus.ErrShortFrame, modbusrturuntime.ErrIO},
		{"eof", io.ErrUnexpectedEOF, modbusrturuntime.ErrIO},
		{"goburrow frame", fmt.Errorf("modbus: response crc '12' does not match expected '34'"), modbusrturuntime.ErrIO},
		{"parameters", modbus.ErrUnexpectedParameters, modbusrturuntime.ErrArgumentOutOfRange},
		{"configuration", modbus.ErrConfigurationError, modbusrturuntime.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "open %s", "/dev/ttyS0")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "open /dev/ttyS0")
			assert.Contains(t, err.Error(), tt.err.Error())
		})
	}
}

func TestTranslateUnknown(t *testing.T) {
	assert.NoError(t, translate(nil, "noop"))

	cause := fmt.Errorf("something odd")
	err := translate(cause, "read")
	assert.ErrorIs(t, err, cause)
	for _, sentinel := range []error{
		modbusrturuntime.ErrTimeout,
		modbusrturuntime.ErrIO,
		modbusrturuntime.ErrUnauthorized,
		modbusrturuntime.ErrInvalidOperation,
	} {
		assert.NotErrorIs(t, err, sentinel)
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, []string{Goburrow, SimonVetter}, Names())

	_, err := New("libmodbus", &Config{Device: "/dev/ttyUSB0"})
	assert.ErrorIs(t, err, constant.ErrDriverType)
}

func TestSerialOptions(t *testing.T) {
	for name, factory := range Drivers {
		t.Run(name, func(t *testing.T) {
			_, err := factory(&Config{Device: "/dev/ttyUSB0", BaudRate: 9600, DataBits: 8, Parity: constant.MarkParity})
			assert.ErrorIs(t, err, constant.ErrSerialOption)

			_, err = factory(&Config{Device: "/dev/ttyUSB0", BaudRate: 9600, DataBits: 8, StopBits: constant.OnePointFiveStopBits})
			assert.ErrorIs(t, err, constant.ErrSerialOption)

			client, err := factory(&Config{Device: "/dev/ttyUSB0", BaudRate: 9600, DataBits: 8, MemoryLayout: constant.CDAB, Timeout: time.Second})
			require.NoError(t, err)
			assert.False(t, client.Connected())

			_, err = client.ReadCoils(1, 0, 1)
			assert.ErrorIs(t, err, modbusrturuntime.ErrNotConnected)
			err = client.WriteRegister(1, 0, 1)
			assert.ErrorIs(t, err, modbusrturuntime.ErrInvalidOperation)
		})
	}
}
