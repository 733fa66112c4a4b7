package driver

import (
	"github.com/pkg/errors"
	"github.com/simonvetter/modbus"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/runtime/constant"
)

var simonVetterParity = map[constant.Parity]uint{
	constant.NoParity:   modbus.PARITY_NONE,
	constant.OddParity:  modbus.PARITY_ODD,
	constant.EvenParity: modbus.PARITY_EVEN,
}

var simonVetterStopBits = map[constant.StopBits]uint{
	constant.OneStopBit:  1,
	constant.TwoStopBits: 2,
}

// SimonVetterClient drives the line with github.com/simonvetter/modbus. The
// library applies the memory layout itself.
type SimonVetterClient struct {
	device    string
	client    *modbus.ModbusClient
	connected bool
}

func NewSimonVetterClient(cfg *Config) (modbusrturuntime.Client, error) {
	parity, ok := simonVetterParity[cfg.Parity]
	if !ok {
		return nil, errors.Wrapf(constant.ErrSerialOption, "parity %s", cfg.Parity)
	}
	stopBits, ok := simonVetterStopBits[cfg.StopBits]
	if !ok {
		return nil, errors.Wrapf(constant.ErrSerialOption, "stop bits %s", cfg.StopBits)
	}

	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:      "rtu://" + cfg.Device,
		Speed:    uint(cfg.BaudRate),
		DataBits: uint(cfg.DataBits),
		Parity:   parity,
		StopBits: stopBits,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create modbus client for %s", cfg.Device)
	}

	endianness, wordOrder := modbus.BIG_ENDIAN, modbus.HIGH_WORD_FIRST
	if cfg.MemoryLayout.LittleEndian() {
		endianness = modbus.LITTLE_ENDIAN
	}
	if cfg.MemoryLayout.LowWordFirst() {
		wordOrder = modbus.LOW_WORD_FIRST
	}
	if err = client.SetEncoding(endianness, wordOrder); err != nil {
		return nil, errors.Wrapf(err, "failed to set memory layout %s", cfg.MemoryLayout)
	}

	return &SimonVetterClient{device: cfg.Device, client: client}, nil
}

func (c *SimonVetterClient) Connect() error {
	if err := c.client.Open(); err != nil {
		return translate(err, "open %s", c.device)
	}
	c.connected = true
	return nil
}

func (c *SimonVetterClient) Disconnect() error {
	c.connected = false
	return translate(c.client.Close(), "close %s", c.device)
}

func (c *SimonVetterClient) Connected() bool {
	return c.connected
}

func regType(table modbusrturuntime.Table) modbus.RegType {
	if table == modbusrturuntime.InputRegister {
		return modbus.INPUT_REGISTER
	}
	return modbus.HOLDING_REGISTER
}

// unit selects the slave for the next transaction.
func (c *SimonVetterClient) unit(slave uint8) error {
	if !c.connected {
		return notConnected("%s", c.device)
	}
	return translate(c.client.SetUnitId(slave), "select slave %d", slave)
}

func svRead[T any](c *SimonVetterClient, slave uint8, read func() ([]T, error), what string, offset, count uint16) ([]T, error) {
	if err := c.unit(slave); err != nil {
		return nil, err
	}
	values, err := read()
	if err != nil {
		return nil, translate(err, "read %d %s at %d from slave %d", count, what, offset, slave)
	}
	return values, nil
}

func (c *SimonVetterClient) svWrite(slave uint8, write func() error, what string, offset uint16) error {
	if err := c.unit(slave); err != nil {
		return err
	}
	return translate(write(), "write %s at %d to slave %d", what, offset, slave)
}

func (c *SimonVetterClient) ReadCoils(slave uint8, offset, count uint16) ([]bool, error) {
	return svRead(c, slave, func() ([]bool, error) {
		return c.client.ReadCoils(offset, count)
	}, "coils", offset, count)
}

func (c *SimonVetterClient) ReadDiscreteInputs(slave uint8, offset, count uint16) ([]bool, error) {
	return svRead(c, slave, func() ([]bool, error) {
		return c.client.ReadDiscreteInputs(offset, count)
	}, "discrete inputs", offset, count)
}

func (c *SimonVetterClient) ReadRegisters(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint16, error) {
	return svRead(c, slave, func() ([]uint16, error) {
		return c.client.ReadRegisters(offset, count, regType(table))
	}, table.String()+" registers", offset, count)
}

func (c *SimonVetterClient) ReadInt16s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int16, error) {
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

func (c *SimonVetterClient) ReadUint32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint32, error) {
	return svRead(c, slave, func() ([]uint32, error) {
		return c.client.ReadUint32s(offset, count, regType(table))
	}, table.String()+" uint32s", offset, count)
}

func (c *SimonVetterClient) ReadInt32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int32, error) {
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

func (c *SimonVetterClient) ReadFloat32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float32, error) {
	return svRead(c, slave, func() ([]float32, error) {
		return c.client.ReadFloat32s(offset, count, regType(table))
	}, table.String()+" float32s", offset, count)
}

func (c *SimonVetterClient) ReadUint64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint64, error) {
	return svRead(c, slave, func() ([]uint64, error) {
		return c.client.ReadUint64s(offset, count, regType(table))
	}, table.String()+" uint64s", offset, count)
}

func (c *SimonVetterClient) ReadInt64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int64, error) {
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

func (c *SimonVetterClient) ReadFloat64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float64, error) {
	return svRead(c, slave, func() ([]float64, error) {
		return c.client.ReadFloat64s(offset, count, regType(table))
	}, table.String()+" float64s", offset, count)
}

func (c *SimonVetterClient) ReadBytes(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error) {
	return svRead(c, slave, func() ([]byte, error) {
		return c.client.ReadBytes(offset, count, regType(table))
	}, table.String()+" bytes", offset, count)
}

func (c *SimonVetterClient) WriteCoil(slave uint8, offset uint16, value bool) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteCoil(offset, value)
	}, "coil", offset)
}

func (c *SimonVetterClient) WriteCoils(slave uint8, offset uint16, values []bool) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteCoils(offset, values)
	}, "coils", offset)
}

func (c *SimonVetterClient) WriteRegister(slave uint8, offset uint16, value uint16) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteRegister(offset, value)
	}, "register", offset)
}

func (c *SimonVetterClient) WriteRegisters(slave uint8, offset uint16, values []uint16) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteRegisters(offset, values)
	}, "registers", offset)
}

func (c *SimonVetterClient) WriteUint32s(slave uint8, offset uint16, values []uint32) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteUint32s(offset, values)
	}, "uint32s", offset)
}

func (c *SimonVetterClient) WriteFloat32s(slave uint8, offset uint16, values []float32) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteFloat32s(offset, values)
	}, "float32s", offset)
}

func (c *SimonVetterClient) WriteUint64s(slave uint8, offset uint16, values []uint64) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteUint64s(offset, values)
	}, "uint64s", offset)
}

func (c *SimonVetterClient) WriteFloat64s(slave uint8, offset uint16, values []float64) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteFloat64s(offset, values)
	}, "float64s", offset)
}

func (c *SimonVetterClient) WriteBytes(slave uint8, offset uint16, values []byte) error {
	return c.svWrite(slave, func() error {
		return c.client.WriteBytes(offset, values)
	}, "bytes", offset)
}
