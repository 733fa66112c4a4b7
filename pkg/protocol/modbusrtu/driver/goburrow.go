package driver

import (
	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/runtime/constant"
)

var goburrowParity = map[constant.Parity]string{
	constant.NoParity:   "N",
	constant.OddParity:  "O",
	constant.EvenParity: "E",
}

var goburrowStopBits = map[constant.StopBits]int{
	constant.OneStopBit:  1,
	constant.TwoStopBits: 2,
}

// goburrowBus drives the line with github.com/goburrow/modbus. The library
// only moves raw bytes, so wide values are assembled by rawClient.
type goburrowBus struct {
	handler *modbus.RTUClientHandler
	client  modbus.Client
}

func NewGoburrowClient(cfg *Config) (modbusrturuntime.Client, error) {
	parity, ok := goburrowParity[cfg.Parity]
	if !ok {
		return nil, errors.Wrapf(constant.ErrSerialOption, "parity %s", cfg.Parity)
	}
	stopBits, ok := goburrowStopBits[cfg.StopBits]
	if !ok {
		return nil, errors.Wrapf(constant.ErrSerialOption, "stop bits %s", cfg.StopBits)
	}

	handler := modbus.NewRTUClientHandler(cfg.Device)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = cfg.DataBits
	handler.Parity = parity
	handler.StopBits = stopBits
	handler.Timeout = cfg.Timeout

	return &rawClient{
		bus:    &goburrowBus{handler: handler, client: modbus.NewClient(handler)},
		layout: cfg.MemoryLayout,
	}, nil
}

func (b *goburrowBus) open() error {
	return b.handler.Connect()
}

func (b *goburrowBus) close() error {
	return b.handler.Close()
}

func (b *goburrowBus) device() string {
	return b.handler.Address
}

func (b *goburrowBus) readBits(slave uint8, discrete bool, offset, count uint16) ([]byte, error) {
	b.handler.SlaveId = slave
	if discrete {
		return b.client.ReadDiscreteInputs(offset, count)
	}
	return b.client.ReadCoils(offset, count)
}

func (b *goburrowBus) readRegisters(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error) {
	b.handler.SlaveId = slave
	if table == modbusrturuntime.InputRegister {
		return b.client.ReadInputRegisters(offset, count)
	}
	return b.client.ReadHoldingRegisters(offset, count)
}

func (b *goburrowBus) writeSingleCoil(slave uint8, offset, value uint16) error {
	b.handler.SlaveId = slave
	_, err := b.client.WriteSingleCoil(offset, value)
	return err
}

func (b *goburrowBus) writeMultipleCoils(slave uint8, offset, count uint16, buf []byte) error {
	b.handler.SlaveId = slave
	_, err := b.client.WriteMultipleCoils(offset, count, buf)
	return err
}

func (b *goburrowBus) writeSingleRegister(slave uint8, offset, value uint16) error {
	b.handler.SlaveId = slave
	_, err := b.client.WriteSingleRegister(offset, value)
	return err
}

func (b *goburrowBus) writeMultipleRegisters(slave uint8, offset, count uint16, buf []byte) error {
	b.handler.SlaveId = slave
	_, err := b.client.WriteMultipleRegisters(offset, count, buf)
	return err
}
