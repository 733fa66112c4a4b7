package driver

import (
	"github.com/pkg/errors"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/runtime/constant"
	"sort"
	"time"
)

const (
	SimonVetter = "simonvetter"
	Goburrow    = "goburrow"
)

// Config describes the serial line shared by all slaves.
type Config struct {
	Device       string                // 串口地址
	BaudRate     int                   // 波特率
	DataBits     int                   // 数据位
	Parity       constant.Parity       // 校验位
	StopBits     constant.StopBits     // 停止位
	MemoryLayout constant.MemoryLayout // 字节序
	Timeout      time.Duration         // 单次事务超时
}

type Factory func(cfg *Config) (modbusrturuntime.Client, error)

var Drivers = map[string]Factory{
	SimonVetter: NewSimonVetterClient,
	Goburrow:    NewGoburrowClient,
}

func New(name string, cfg *Config) (modbusrturuntime.Client, error) {
	factory, ok := Drivers[name]
	if !ok {
		return nil, errors.Wrapf(constant.ErrDriverType, "driver %q", name)
	}
	return factory(cfg)
}

func Names() []string {
	names := make([]string, 0, len(Drivers))
	for name := range Drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func notConnected(format string, args ...interface{}) error {
	return errors.Wrapf(modbusrturuntime.ErrNotConnected, format, args...)
}
