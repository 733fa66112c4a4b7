package modbusrtu

import (
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/utils/binutil"
	"sync"
	"time"
)

type fakeSlave struct {
	coils    map[uint16]bool
	discrete map[uint16]bool
	holding  map[uint16]uint16
	input    map[uint16]uint16
}

func newFakeSlave() *fakeSlave {
	return &fakeSlave{
		coils:    map[uint16]bool{},
		discrete: map[uint16]bool{},
		holding:  map[uint16]uint16{},
		input:    map[uint16]uint16{},
	}
}

func (s *fakeSlave) table(t modbusrturuntime.Table) map[uint16]uint16 {
	if t == modbusrturuntime.InputRegister {
		return s.input
	}
	return s.holding
}

// fakeClient is an in-memory slave bus using the ABCD layout.
type fakeClient struct {
	mu     sync.Mutex
	slaves map[uint8]*fakeSlave

	connected   bool
	connects    int
	disconnects int
	open        int
	maxOpen     int
	calls       int

	lastSlave  uint8
	lastOffset uint16
	lastCount  uint16

	connectErr error
	fault      error
	panicMsg   string
	delay      time.Duration
}

var _ modbusrturuntime.Client = &fakeClient{}

func newFakeClient() *fakeClient {
	return &fakeClient{slaves: map[uint8]*fakeSlave{}}
}

func (f *fakeClient) slave(id uint8) *fakeSlave {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slaves[id]
	if !ok {
		s = newFakeSlave()
		f.slaves[id] = s
	}
	return s
}

func (f *fakeClient) stats() (connects, calls, maxOpen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.calls, f.maxOpen
}

func (f *fakeClient) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	f.open++
	if f.open > f.maxOpen {
		f.maxOpen = f.open
	}
	return nil
}

func (f *fakeClient) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connected {
		f.open--
	}
	f.connected = false
	f.disconnects++
	return nil
}

func (f *fakeClient) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// begin records one primitive call and applies the injected faults.
func (f *fakeClient) begin(slave uint8, offset, count uint16) (*fakeSlave, error) {
	s := f.slave(slave)

	f.mu.Lock()
	f.calls++
	f.lastSlave, f.lastOffset, f.lastCount = slave, offset, count
	connected, fault, panicMsg, delay := f.connected, f.fault, f.panicMsg, f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if len(panicMsg) > 0 {
		panic(panicMsg)
	}
	if !connected {
		return nil, modbusrturuntime.ErrNotConnected
	}
	if fault != nil {
		return nil, fault
	}
	return s, nil
}

func (f *fakeClient) bits(m map[uint16]bool, offset, count uint16) []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([]bool, count)
	for i := range values {
		values[i] = m[offset+uint16(i)]
	}
	return values
}

func (f *fakeClient) regs(m map[uint16]uint16, offset, count uint16) []uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([]uint16, count)
	for i := range values {
		values[i] = m[offset+uint16(i)]
	}
	return values
}

func (f *fakeClient) store(m map[uint16]uint16, offset uint16, values []uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range values {
		m[offset+uint16(i)] = v
	}
}

func (f *fakeClient) ReadCoils(slave uint8, offset, count uint16) ([]bool, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return f.bits(s.coils, offset, count), nil
}

func (f *fakeClient) ReadDiscreteInputs(slave uint8, offset, count uint16) ([]bool, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return f.bits(s.discrete, offset, count), nil
}

func (f *fakeClient) ReadRegisters(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint16, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return f.regs(s.table(table), offset, count), nil
}

func (f *fakeClient) ReadInt16s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int16, error) {
	regs, err := f.ReadRegisters(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	return narrow(regs, func(r uint16) int16 { return int16(r) }), nil
}

func (f *fakeClient) ReadUint32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint32, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return binutil.Uint32s(f.regs(s.table(table), offset, count*2), false), nil
}

func (f *fakeClient) ReadInt32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int32, error) {
	values, err := f.ReadUint32s(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	return narrow(values, func(v uint32) int32 { return int32(v) }), nil
}

func (f *fakeClient) ReadFloat32s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float32, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return binutil.Float32s(f.regs(s.table(table), offset, count*2), false), nil
}

func (f *fakeClient) ReadUint64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]uint64, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return binutil.Uint64s(f.regs(s.table(table), offset, count*4), false), nil
}

func (f *fakeClient) ReadInt64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]int64, error) {
	values, err := f.ReadUint64s(slave, table, offset, count)
	if err != nil {
		return nil, err
	}
	return narrow(values, func(v uint64) int64 { return int64(v) }), nil
}

func (f *fakeClient) ReadFloat64s(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]float64, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	return binutil.Float64s(f.regs(s.table(table), offset, count*4), false), nil
}

func (f *fakeClient) ReadBytes(slave uint8, table modbusrturuntime.Table, offset, count uint16) ([]byte, error) {
	s, err := f.begin(slave, offset, count)
	if err != nil {
		return nil, err
	}
	regs := f.regs(s.table(table), offset, (count+1)/2)
	return binutil.RegisterBytes(regs, false)[:count], nil
}

func (f *fakeClient) WriteCoil(slave uint8, offset uint16, value bool) error {
	return f.WriteCoils(slave, offset, []bool{value})
}

func (f *fakeClient) WriteCoils(slave uint8, offset uint16, values []bool) error {
	s, err := f.begin(slave, offset, uint16(len(values)))
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range values {
		s.coils[offset+uint16(i)] = v
	}
	return nil
}

func (f *fakeClient) WriteRegister(slave uint8, offset uint16, value uint16) error {
	return f.WriteRegisters(slave, offset, []uint16{value})
}

func (f *fakeClient) WriteRegisters(slave uint8, offset uint16, values []uint16) error {
	s, err := f.begin(slave, offset, uint16(len(values)))
	if err != nil {
		return err
	}
	f.store(s.holding, offset, values)
	return nil
}

func (f *fakeClient) WriteUint32s(slave uint8, offset uint16, values []uint32) error {
	return f.WriteRegisters(slave, offset, binutil.Uint32Words(values, false))
}

func (f *fakeClient) WriteFloat32s(slave uint8, offset uint16, values []float32) error {
	return f.WriteRegisters(slave, offset, binutil.Float32Words(values, false))
}

func (f *fakeClient) WriteUint64s(slave uint8, offset uint16, values []uint64) error {
	return f.WriteRegisters(slave, offset, binutil.Uint64Words(values, false))
}

func (f *fakeClient) WriteFloat64s(slave uint8, offset uint16, values []float64) error {
	return f.WriteRegisters(slave, offset, binutil.Float64Words(values, false))
}

func (f *fakeClient) WriteBytes(slave uint8, offset uint16, values []byte) error {
	buf := binutil.Dup(values)
	if len(buf)%2 != 0 {
		buf = append(buf, 0)
	}
	return f.WriteRegisters(slave, offset, binutil.Registers(buf, false))
}

// fakeSink collects published acknowledgements.
type fakeSink struct {
	mu   sync.Mutex
	acks []modbusrturuntime.Ack
}

func (s *fakeSink) Publish(ack *modbusrturuntime.Ack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, *ack)
}

func (s *fakeSink) published() []modbusrturuntime.Ack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]modbusrturuntime.Ack(nil), s.acks...)
}
