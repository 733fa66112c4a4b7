package runtime

// ModbusRequest addresses one operation on the serial line.
type ModbusRequest struct {
	SlaveID uint8  `json:"slaveId"`          // 下位机号
	Offset  uint16 `json:"offset"`           // 起始地址
	Count   uint16 `json:"count"`            // 数量
	Master  string `json:"master,omitempty"` // 主站名称
	Slave   string `json:"slave,omitempty"`  // 从站名称
}

type ModbusResponse[T any] struct {
	Request ModbusRequest `json:"request"`
	Value   T             `json:"value"`
}

type ModbusArrayResponse[T any] struct {
	Request ModbusRequest `json:"request"`
	Values  []T           `json:"values"`
}

type ModbusStringResponse struct {
	Request ModbusRequest `json:"request"`
	Value   string        `json:"value"`
}

// Ack acknowledges a write. Accepted is false when the value was rejected before
// anything was sent to the slave.
type Ack struct {
	Request   ModbusRequest     `json:"request"`
	Operation OperationSelector `json:"operation"`
	Accepted  bool              `json:"accepted"`
	Reason    string            `json:"reason,omitempty"`
}
