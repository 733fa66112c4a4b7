package constant

import "errors"

var (
	ErrDriverType   = errors.New("unsupported modbus driver")
	ErrSerialOption = errors.New("unsupported serial option")
)
