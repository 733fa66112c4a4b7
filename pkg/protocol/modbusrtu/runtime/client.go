package runtime

type Table uint8

const (
	HoldingRegister Table = iota
	InputRegister
)

var TableToString = map[Table]string{
	HoldingRegister: "holding",
	InputRegister:   "input",
}

func (t Table) String() string {
	return TableToString[t]
}

// Client is the serial Modbus master driving one RTU line.
//
// Reads of wide types take the number of values, not registers: ReadUint32s with
// count 2 transfers 4 registers. ReadBytes takes a byte count. Register encodings
// follow the memory layout the client was built with.
type Client interface {
	Connect() error
	Disconnect() error
	Connected() bool

	ReadCoils(slave uint8, offset, count uint16) ([]bool, error)
	ReadDiscreteInputs(slave uint8, offset, count uint16) ([]bool, error)
	ReadRegisters(slave uint8, table Table, offset, count uint16) ([]uint16, error)
	ReadInt16s(slave uint8, table Table, offset, count uint16) ([]int16, error)
	ReadInt32s(slave uint8, table Table, offset, count uint16) ([]int32, error)
	ReadUint32s(slave uint8, table Table, offset, count uint16) ([]uint32, error)
	ReadFloat32s(slave uint8, table Table, offset, count uint16) ([]float32, error)
	ReadInt64s(slave uint8, table Table, offset, count uint16) ([]int64, error)
	ReadUint64s(slave uint8, table Table, offset, count uint16) ([]uint64, error)
	ReadFloat64s(slave uint8, table Table, offset, count uint16) ([]float64, error)
	ReadBytes(slave uint8, table Table, offset, count uint16) ([]byte, error)

	WriteCoil(slave uint8, offset uint16, value bool) error
	WriteCoils(slave uint8, offset uint16, values []bool) error
	WriteRegister(slave uint8, offset uint16, value uint16) error
	WriteRegisters(slave uint8, offset uint16, values []uint16) error
	WriteUint32s(slave uint8, offset uint16, values []uint32) error
	WriteFloat32s(slave uint8, offset uint16, values []float32) error
	WriteUint64s(slave uint8, offset uint16, values []uint64) error
	WriteFloat64s(slave uint8, offset uint16, values []float64) error
	WriteBytes(slave uint8, offset uint16, values []byte) error
}
