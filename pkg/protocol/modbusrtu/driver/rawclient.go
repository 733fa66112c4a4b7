package driver

import (
	"github.com/pkg/errors"
	"math/bits"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/runtime/constant"
	"rtugateway/pkg/utils/binutil"
)

// bus moves raw modbus payloads. Register payloads are returned and taken in
// wire order, two bytes per register.
type bus interface {
	open() error
	close() error
	device() string
	readBits(slave uint8, discrete bool, offset, count uint16) ([]byte, error)
	readRegisters(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error)
	writeSingleCoil(slave uint8, offset, value uint16) error
	writeMultipleCoils(slave uint8, offset, count uint16, buf []byte) error
	writeSingleRegister(slave uint8, offset, value uint16) error
	writeMultipleRegisters(slave uint8, offset, count uint16, buf []byte) error
}

// rawClient implements Client on top of a bus that only moves bytes, so the
// memory layout is applied here.
type rawClient struct {
	bus       bus
	layout    constant.MemoryLayout
	connected bool
}

func (c *rawClient) Connect() error {
	if err := c.bus.open(); err != nil {
		return translate(err, "open %s", c.bus.device())
	}
	c.connected = true
	return nil
}

func (c *rawClient) Disconnect() error {
	c.connected = false
	return translate(c.bus.close(), "close %s", c.bus.device())
}

func (c *rawClient) Connected() bool {
	return c.connected
}

func (c *rawClient) ready() error {
	if !c.connected {
		return notConnected("%s", c.bus.device())
	}
	return nil
}

func (c *rawClient) readBits(slave uint8, discrete bool, offset, count uint16, what string) ([]bool, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	buf, err := c.bus.readBits(slave, discrete, offset, count)
	if err != nil {
		return nil, translate(err, "read %d %s at %d from slave %d", count, what, offset, slave)
	}
	if len(buf) < (int(count)+7)/8 {
		return nil, errors.Wrapf(modbusrturuntime.ErrIO, "slave %d answered %d bytes for %d %s", slave, len(buf), count, what)
	}
	return binutil.UnpackBits(buf, int(count)), nil
}

func (c *rawClient) ReadCoils(slave uint8, offset, count uint16) ([]bool, error) {
	return c.readBits(slave, false, offset, count, "coils")
}

func (c *rawClient) ReadDiscreteInputs(slave uint8, offset, count uint16) ([]bool, error) {
	return c.readBits(slave, true, offset, count, "discrete inputs")
}

// raw reads count registers without applying the memory layout.
func (c *rawClient) raw(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	buf, err := c.bus.readRegisters(slave, table, offset, count)
	if err != nil {
		return nil, translate(err, "read %d %s registers at %d from slave %d", count, table, offset, slave)
	}
	if len(buf) != int(count)*2 {
		return nil, errors.Wrapf(modbusrturuntime.ErrIO, "slave %d answered %d bytes for %d registers", slave, len(buf), count)
	}
	return buf, nil
}

func (c *rawClient) ReadRegisters(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint16, error) {
	buf, err := c.raw(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	return binutil.Registers(buf, c.layout.LittleEndian()), nil
}

func (c *rawClient) ReadInt16s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int16, error) {
	regs, err := c.ReadRegisters(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	values := make([]int16, len(regs))
	for i, r := range regs {
		values[i] = int16(r)
	}
	return values, nil
}

func (c *rawClient) ReadUint32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint32, error) {
	regs, err := c.ReadRegisters(slave, table, offset, count*2)
	if err != nil {
		return nil, err
	}
	return binutil.Uint32s(regs, c.layout.LowWordFirst()), nil
}

func (c *rawClient) ReadInt32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int32, error) {
	raw, err := c.ReadUint32s(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	values := make([]int32, len(raw))
	for i, r := range raw {
		values[i] = int32(r)
	}
	return values, nil
}

func (c *rawClient) ReadFloat32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float32, error) {
	regs, err := c.ReadRegisters(slave, table, offset, count*2)
	if err != nil {
		return nil, err
	}
	return binutil.Float32s(regs, c.layout.LowWordFirst()), nil
}

func (c *rawClient) ReadUint64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint64, error) {
	regs, err := c.ReadRegisters(slave, table, offset, count*4)
	if err != nil {
		return nil, err
	}
	return binutil.Uint64s(regs, c.layout.LowWordFirst()), nil
}

func (c *rawClient) ReadInt64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int64, error) {
	raw, err := c.ReadUint64s(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	values := make([]int64, len(raw))
	for i, r := range raw {
		values[i] = int64(r)
	}
	return values, nil
}

func (c *rawClient) ReadFloat64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float64, error) {
	regs, err := c.ReadRegisters(slave, table, offset, count*4)
	if err != nil {
		return nil, err
	}
	return binutil.Float64s(regs, c.layout.LowWordFirst()), nil
}

func (c *rawClient) ReadBytes(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error) {
	regs, err := c.ReadRegisters(slave, table, offset, (count+1)/2)
	if err != nil {
		return nil, err
	}
	return binutil.RegisterBytes(regs, false)[:count], nil
}

func (c *rawClient) write(slave uint8, offset uint16, what string, write func() error) error {
	if err := c.ready(); err != nil {
		return err
	}
	return translate(write(), "write %s at %d to slave %d", what, offset, slave)
}

func (c *rawClient) WriteCoil(slave uint8, offset uint16, value bool) error {
	var v uint16
	if value {
		v = 0xFF00
	}
	return c.write(slave, offset, "coil", func() error {
		return c.bus.writeSingleCoil(slave, offset, v)
	})
}

func (c *rawClient) WriteCoils(slave uint8, offset uint16, values []bool) error {
	return c.write(slave, offset, "coils", func() error {
		return c.bus.writeMultipleCoils(slave, offset, uint16(len(values)), binutil.PackBits(values))
	})
}

func (c *rawClient) WriteRegister(slave uint8, offset uint16, value uint16) error {
	if c.layout.LittleEndian() {
		value = bits.ReverseBytes16(value)
	}
	return c.write(slave, offset, "register", func() error {
		return c.bus.writeSingleRegister(slave, offset, value)
	})
}

func (c *rawClient) WriteRegisters(slave uint8, offset uint16, values []uint16) error {
	buf := binutil.RegisterBytes(values, c.layout.LittleEndian())
	return c.write(slave, offset, "registers", func() error {
		return c.bus.writeMultipleRegisters(slave, offset, uint16(len(values)), buf)
	})
}

func (c *rawClient) WriteUint32s(slave uint8, offset uint16, values []uint32) error {
	return c.WriteRegisters(slave, offset, binutil.Uint32Words(values, c.layout.LowWordFirst()))
}

func (c *rawClient) WriteFloat32s(slave uint8, offset uint16, values []float32) error {
	return c.WriteRegisters(slave, offset, binutil.Float32Words(values, c.layout.LowWordFirst()))
}

func (c *rawClient) WriteUint64s(slave uint8, offset uint16, values []uint64) error {
	return c.WriteRegisters(slave, offset, binutil.Uint64Words(values, c.layout.LowWordFirst()))
}

func (c *rawClient) WriteFloat64s(slave uint8, offset uint16, values []float64) error {
	return c.WriteRegisters(slave, offset, binutil.Float64Words(values, c.layout.LowWordFirst()))
}

func (c *rawClient) WriteBytes(slave uint8, offset uint16, values []byte) error {
	buf := binutil.Dup(values)
	if len(buf)%2 != 0 {
		buf = append(buf, 0)
	}
	return c.WriteRegisters(slave, offset, binutil.Registers(buf, false))
}
